package line

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfgkit/internal/label"
	"github.com/joshuapare/cfgkit/pkg/types"
)

func TestUncomment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"step_pin: PC14", "step_pin: PC14"},
		{"step_pin: PC14   # note", "step_pin: PC14"},
		{"step_pin: PC14 ; note", "step_pin: PC14"},
		{"a: 1 ; x # y", "a: 1 ; x"},
		{"# only a comment", ""},
		{"value: 1   \t", "value: 1"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Uncomment(tt.in))
		})
	}
}

func TestNew_Kinds(t *testing.T) {
	tests := []struct {
		raw    string
		kind   Kind
		active bool
		name   string
		value  string
		stray  bool
	}{
		{"", KindEmpty, true, "", "", false},
		{"   \t", KindEmpty, true, "", "", false},
		{"# comment", KindComment, true, "", "", false},
		{"; semicolon comment", KindComment, true, "", "", false},
		{"#*# <---------------------- SAVE_CONFIG ---------------------->", KindPersistence, true, "", "", false},
		{"[stepper_x]", KindSection, true, "", "stepper_x", false},
		{"[neopixel my_neopixel]  # leds", KindSection, true, "", "neopixel my_neopixel", false},
		{"[include macros.cfg]", KindInclude, true, "", "include macros.cfg", false},
		{"step_pin: PC14  # comment", KindValue, true, "step_pin", "PC14", false},
		{"max_temp=250", KindValue, true, "max_temp", "250", false},
		{"gcode:", KindMultiLineStart, true, "gcode", "", false},
		{"  G28", KindContinuation, true, "", "G28", false},
		{"  # just a note", KindContinuationComment, true, "", "", false},
		{"#step_pin: PC14", KindValue, false, "step_pin", "PC14", false},
		{"# step_pin: PC14", KindValue, false, "step_pin", "PC14", false},
		{"#gcode:", KindMultiLineStart, false, "gcode", "", false},
		{"#[neopixel my_neopixel]", KindSection, false, "", "neopixel my_neopixel", false},
		{"# [bltouch]", KindSection, false, "", "bltouch", false},
		{"# Note: see docs", KindComment, true, "", "", false},
		{"# [see docs] for more", KindComment, true, "", "", false},
		{"random text", KindComment, true, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			l := New(tt.raw)
			assert.Equal(t, tt.kind, l.Kind())
			assert.Equal(t, tt.active, l.IsActive())
			assert.Equal(t, tt.name, l.Name())
			assert.Equal(t, tt.value, l.Value())
			assert.Equal(t, tt.stray, l.Stray())
			assert.Equal(t, tt.raw, l.Render(), "render must reproduce the raw text")
		})
	}
}

func TestNew_HeaderLabel(t *testing.T) {
	l := New("[gcode_macro start_print]")
	assert.Equal(t, "gcode_macro START_PRINT", l.Label().String())
	assert.Equal(t, "[gcode_macro start_print]", l.Raw(), "stored text is not rewritten")
}

func TestParseAs(t *testing.T) {
	l, err := ParseAs(KindValue, "rotation_distance: 40")
	require.NoError(t, err)
	assert.Equal(t, "40", l.Value())

	_, err = ParseAs(KindValue, "# hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrFormat))

	l, err = ParseAs(KindContinuation, "#    G28")
	require.NoError(t, err)
	assert.False(t, l.IsActive())
	assert.Equal(t, "G28", l.Value())

	l, err = ParseAs(KindContinuationEmpty, "")
	require.NoError(t, err)
	assert.True(t, l.IsBlank())

	for _, tt := range []struct {
		kind Kind
		raw  string
		ok   bool
	}{
		{KindSection, "[printer]", true},
		{KindSection, "printer", false},
		{KindContinuationComment, "# note", true},
		{KindContinuationComment, "stray text", false},
	} {
		_, err := ParseAs(tt.kind, tt.raw)
		assert.Equal(t, tt.ok, err == nil, "%s %q", tt.kind, tt.raw)
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		raw   string
		value string
		want  string
	}{
		{"step_pin: PC14", "PC15", "step_pin: PC15"},
		{"step_pin: PC14  # comment", "PC15", "step_pin: PC15  # comment"},
		{"max_temp=250", "260", "max_temp=260"},
		{"pid_kp :   22.2 ; tuned", "21.5", "pid_kp :   21.5 ; tuned"},
		{"#step_pin: PC14", "PC15", "#step_pin: PC15"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			l := New(tt.raw)
			require.NoError(t, l.SetValue(tt.value))
			assert.Equal(t, tt.want, l.Raw())
			assert.Equal(t, tt.value, l.Value())
		})
	}

	err := New("gcode:").SetValue("x")
	assert.True(t, errors.Is(err, types.ErrFormat))
	err = New("a: 1").SetValue("")
	assert.True(t, errors.Is(err, types.ErrFormat))
}

func TestSetLabel(t *testing.T) {
	l := New("[stepper_x]  # x axis")
	require.NoError(t, l.SetLabel(label.Parse("stepper_y")))
	assert.Equal(t, "[stepper_y]  # x axis", l.Raw())
	assert.Equal(t, KindSection, l.Kind())

	require.NoError(t, l.SetLabel(label.Parse("include other.cfg")))
	assert.Equal(t, KindInclude, l.Kind())

	assert.Error(t, New("a: 1").SetLabel(label.Parse("x")))
	assert.Error(t, l.SetLabel(label.Parse("  ")))
}

func TestSetName(t *testing.T) {
	l := New("gcode:  # body follows")
	require.NoError(t, l.SetName("variable_x"))
	assert.Equal(t, "variable_x:  # body follows", l.Raw())
	assert.Equal(t, "variable_x", l.Name())

	assert.Error(t, l.SetName("bad:name"))
	assert.Error(t, New("[x]").SetName("y"))
}

func TestToggle(t *testing.T) {
	l := New("max_temp=250")
	assert.True(t, l.Deactivate())
	assert.Equal(t, "#max_temp=250", l.Raw())
	assert.False(t, l.Deactivate(), "deactivate is idempotent")
	assert.Equal(t, "#max_temp=250", l.Raw())

	assert.True(t, l.Activate())
	assert.Equal(t, "max_temp=250", l.Raw())
	assert.False(t, l.Activate(), "activate is idempotent")

	spaced := New("# [bltouch]")
	assert.True(t, spaced.Activate())
	assert.Equal(t, "[bltouch]", spaced.Raw())

	comment := New("# plain comment")
	assert.False(t, comment.Deactivate())
	assert.Equal(t, "# plain comment", comment.Raw())
}

func TestJoinBlock(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		inactive bool
		joins    bool
		kind     Kind
		active   bool
	}{
		{"blank", "", false, true, KindContinuationEmpty, true},
		{"indented", "    G28", false, true, KindContinuation, true},
		{"indented comment", "    # home", false, true, KindContinuationComment, true},
		{"commented code", "#    G1 X10 Y10", false, true, KindContinuation, false},
		{"column-0 prose", "# Heat the bed first", false, true, KindContinuationComment, true},
		{"prose in inactive block", "#   heat the bed first", true, true, KindContinuation, false},
		{"one-blank prose in inactive block", "# Heat the bed first", true, true, KindContinuationComment, true},
		{"one-blank code in inactive block", "# G28", true, true, KindContinuation, false},
		{"commented-out comment", "#  # home", true, true, KindContinuation, false},
		{"commented-out commented code", "##  M117 old", true, true, KindContinuation, false},
		{"commented-out prose", "##   heat the bed", true, true, KindContinuationComment, true},
		{"doubled marker in active block", "#  # home", false, true, KindContinuationComment, true},
		{"header ends block", "[printer]", false, false, KindSection, true},
		{"key ends block", "kinematics: corexy", false, false, KindValue, true},
		{"inactive key ends block", "#kinematics: corexy", false, false, KindValue, false},
		{"stray ends block", "random", false, false, KindComment, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.raw)
			assert.Equal(t, tt.joins, l.JoinBlock(tt.inactive))
			assert.Equal(t, tt.kind, l.Kind())
			assert.Equal(t, tt.active, l.IsActive())
			assert.Equal(t, tt.raw, l.Render())
		})
	}
}

func TestCommentOut(t *testing.T) {
	for _, raw := range []string{"  G28", "  # home", "#  M117 old", "#   heat the bed", "\tM400"} {
		t.Run(raw, func(t *testing.T) {
			l := New(raw)
			require.True(t, l.CommentOut())
			assert.Equal(t, "#"+raw, l.Raw())
			assert.True(t, l.JoinBlock(true))
			require.True(t, l.Uncover())
			assert.Equal(t, raw, l.Raw())
		})
	}

	blank := New("   ")
	assert.False(t, blank.CommentOut())
	assert.Equal(t, "   ", blank.Raw())

	// Ordinary comments are left alone.
	note := New("# Heat the bed first")
	assert.False(t, note.Uncover())
	assert.Equal(t, "# Heat the bed first", note.Raw())
}

func TestReset(t *testing.T) {
	l := New("# Heat the bed first")
	require.True(t, l.JoinBlock(false))
	require.True(t, l.Promoted())
	l.Reset()
	assert.Equal(t, KindComment, l.Kind())
	assert.False(t, l.Promoted())
}

func TestSynthesis(t *testing.T) {
	assert.Equal(t, "step_pin: PC15", NewValue("step_pin", "PC15").Raw())
	assert.Equal(t, KindMultiLineStart, NewValue("gcode", "").Kind())
	assert.Equal(t, "gcode:", NewMultiLineStart("gcode").Raw())
	h := NewHeader(label.Parse("neopixel my_neopixel"))
	assert.Equal(t, "[neopixel my_neopixel]", h.Raw())
	assert.Equal(t, KindSection, h.Kind())
}

// The code-versus-prose score is a heuristic. These cases pin the
// representative behaviour; they are a fuzzy boundary, not a contract.
func TestIsLikeCode_FuzzyBoundary(t *testing.T) {
	tests := []struct {
		txt  string
		want bool
	}{
		{"G28", true},
		{"G1 X10 Y10 F3000", true},
		{"M117 Printing", true},
		{"{% if params.X %}", true},
		{"PC14", true},
		{"This is a plain sentence.", false},
		{"Heat the bed first", false},
		{"Héllo wörld, ça va", false},
	}
	for _, tt := range tests {
		t.Run(tt.txt, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLikeCode(tt.txt))
		})
	}
}
