package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/cfgkit/internal/codec"
	"github.com/joshuapare/cfgkit/pkg/types"
)

const printerCfg = `[printer]
kinematics: corexy
max_velocity: 300

[stepper_x]
step_pin: PC14   # X step
dir_pin: !PC13

# homing
[gcode_macro start_print]
gcode:
  G28
  M117 go

[stepper_y]
step_pin: PC10

#*# <---------------------- SAVE_CONFIG ---------------------->
#*# [bltouch]
#*# z_offset = 1.2
`

func writeCfg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "printer.cfg")
	require.NoError(t, os.WriteFile(path, []byte(printerCfg), 0644))
	return path
}

func readCfg(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func encode(t *testing.T, raws ...string) string {
	t.Helper()
	c, err := codec.New(nil)
	require.NoError(t, err)
	text, err := c.Encode(codec.Terminate(raws))
	require.NoError(t, err)
	return text
}

func decode(t *testing.T, r Result) []string {
	t.Helper()
	require.Equal(t, CodeEncoded, r.Code, r.String())
	entries, err := codec.Decode(r.Value)
	require.NoError(t, err)
	return codec.Strip(entries)
}

func TestRun_Dispatch(t *testing.T) {
	path := writeCfg(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "!FN"},
		{"unknown command", []string{"Nope", "x"}, "!FN"},
		{"get key", []string{"GetKey", "stepper_x", "step_pin", path}, "=PC14"},
		{"file taken as key", []string{"GetKey", "stepper_x", path}, "!ARG"},
		{"nothing after command", []string{"GetKey"}, "!ARG"},
		{"extra argument", []string{"GetKey", "stepper_x", "step_pin", path, "more"}, "!ARG+"},
		{"missing file", []string{"GetKey", "stepper_x", "step_pin", filepath.Join(t.TempDir(), "none.cfg")}, "!FILE"},
		{"missing key", []string{"GetKey", "stepper_x", "nope", path}, "!KEY"},
		{"missing section", []string{"GetKey", "extruder", "nozzle", path}, "!SEC"},
		{"ambiguous section", []string{"GetKey", "stepper_*", "step_pin", path}, "!SEC+"},
		{"multi-line edit as single", []string{"EditKey", "gcode_macro start_print", "gcode", "G28", path}, "!ML"},
		{"single-line edit as multi", []string{"EditKeyML", "stepper_x", "step_pin", encode(t, "  PC15"), path}, "!SL"},
		{"bad payload", []string{"EditKeyML", "stepper_x", "gcode", "not base64!", path}, "!ENC"},
		{"list one", []string{"ListSec", "stepper_x", path}, "=stepper_x @5"},
		{"list none", []string{"ListSec", "neopixel *", path}, "!SEC"},
		{"line out of range", []string{"DelSec", "@99", path}, "!RANGE"},
		{"crc", []string{"GetKeyCRC", "stepper_y", "step_pin", path}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Run(tt.args, nil)
			if tt.want == "" {
				assert.Equal(t, CodeString, got.Code, got.String())
				assert.Len(t, got.Value, 8)
				return
			}
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Equal(t, printerCfg, readCfg(t, path), "failed and read-only requests leave the file alone")
}

func TestRun_ErrorLine(t *testing.T) {
	path := writeCfg(t)
	got := Run([]string{"EditKey", "gcode_macro start_print", "gcode", "G28", path}, nil)
	assert.True(t, got.IsError())
	assert.Equal(t, 11, got.Line)
}

func TestRun_DefaultPath(t *testing.T) {
	path := writeCfg(t)
	got := Run([]string{"GetKey", "printer", "kinematics"}, &Options{DefaultPath: path})
	assert.Equal(t, "=corexy", got.String())
}

func TestRun_EditKey(t *testing.T) {
	path := writeCfg(t)
	got := Run([]string{"EditKey", "stepper_x", "step_pin", "PC15", path}, &Options{Backup: true})
	assert.Equal(t, ".OK", got.String())

	assert.Equal(t, strings.Replace(printerCfg, "PC14", "PC15", 1), readCfg(t, path))
	assert.Equal(t, printerCfg, readCfg(t, path+".bak"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no sibling left behind")
}

func TestRun_MultiLine(t *testing.T) {
	path := writeCfg(t)
	body := []string{"  G28", "  G1 Z10", "  M117 ready"}

	got := Run([]string{"EditKeyML", "gcode_macro start_print", "gcode", encode(t, body...), path}, nil)
	require.Equal(t, ".OK", got.String())

	got = Run([]string{"GetKey", "gcode_macro START_PRINT", "gcode", path}, nil)
	assert.Equal(t, body, decode(t, got))
}

func TestRun_Sections(t *testing.T) {
	path := writeCfg(t)

	got := Run([]string{"ListSec", "*", path}, nil)
	assert.Equal(t, []string{"printer @1", "stepper_x @5", "gcode_macro START_PRINT @10", "stepper_y @15"}, decode(t, got))

	got = Run([]string{"GetSec", "@6", path}, nil)
	assert.Equal(t, []string{"[stepper_x]", "step_pin: PC14   # X step", "dir_pin: !PC13"}, decode(t, got))

	require.Equal(t, ".OK", Run([]string{"RenSec", "stepper_y", "stepper_z", path}, nil).String())
	require.Equal(t, ".OK", Run([]string{"DelSec", "gcode_macro start_print", path}, nil).String())
	assert.Equal(t, "!SEC", Run([]string{"GetSec", "gcode_macro start_print", path}, nil).String())

	block := encode(t, "[neopixel led]", "pin: PB0")
	require.Equal(t, ".OK", Run([]string{"AddSec", "$", block, path}, nil).String())
	assert.Equal(t, "=neopixel led @12", Run([]string{"ListSec", "neopixel led", path}, nil).String())

	over := encode(t, "[neopixel led]", "pin: PB1")
	require.Equal(t, ".OK", Run([]string{"OverrideSec", "neopixel led", over, path}, nil).String())
	assert.Equal(t, "=PB1", Run([]string{"GetKey", "neopixel led", "pin", path}, nil).String())

	content := readCfg(t, path)
	assert.NotContains(t, content, "# homing")
	assert.Contains(t, content, "[stepper_z]\n")
	assert.True(t, strings.HasSuffix(content, "#*# z_offset = 1.2\n"))
}

func TestRun_ToggleKey(t *testing.T) {
	path := writeCfg(t)
	require.Equal(t, ".OK", Run([]string{"DisableKey", "stepper_x", "dir_pin", path}, nil).String())
	assert.Contains(t, readCfg(t, path), "#dir_pin: !PC13\n")
	assert.Equal(t, "!KEY", Run([]string{"GetKey", "stepper_x", "dir_pin", path}, nil).String())

	require.Equal(t, ".OK", Run([]string{"EnableKey", "stepper_x", "dir_pin", path}, nil).String())
	assert.Equal(t, printerCfg, readCfg(t, path))

	require.Equal(t, ".OK", Run([]string{"DelKey", "stepper_x", "dir_pin", path}, nil).String())
	assert.NotContains(t, readCfg(t, path), "dir_pin")
}

func TestRun_Save(t *testing.T) {
	path := writeCfg(t)

	got := Run([]string{"GetSave", path}, nil)
	saved := decode(t, got)
	require.Len(t, saved, 3)

	next := encode(t, saved[0], "#*# [probe]", "#*# z_offset = 0.8")
	require.Equal(t, ".OK", Run([]string{"PutSave", next, path}, nil).String())
	assert.Contains(t, readCfg(t, path), "#*# z_offset = 0.8\n")

	assert.Equal(t, "!FMT", Run([]string{"PutSave", encode(t, "[printer]"), path}, nil).String())

	require.Equal(t, ".OK", Run([]string{"PutSave", "-", path}, nil).String())
	assert.Equal(t, "=", Run([]string{"GetSave", path}, nil).String())
	assert.NotContains(t, readCfg(t, path), "#*#")
}

func TestRun_Zstd(t *testing.T) {
	path := writeCfg(t)
	c, err := codec.New(&codec.Options{Algorithm: codec.Zstd})
	require.NoError(t, err)

	got := Run([]string{"GetSec", "printer", path}, &Options{Codec: c})
	require.Equal(t, CodeEncoded, got.Code)
	// Decode detects the scheme on its own.
	assert.Equal(t, []string{"[printer]", "kinematics: corexy", "max_velocity: 300"}, decode(t, got))
}

func TestFromError(t *testing.T) {
	assert.Equal(t, "!XCP: boom", FromError(errors.New("boom")).String())
	r := FromError(types.ErrKeyAmbiguous.At(7))
	assert.Equal(t, "!KEY+", r.String())
	assert.Equal(t, 7, r.Line)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 16)
	assert.Contains(t, names, "EditKeyML")
	assert.True(t, OK.String() == ".OK")
}
