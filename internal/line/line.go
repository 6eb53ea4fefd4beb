// Package line classifies and edits single physical lines of a config file.
//
// A Line keeps its raw text split into marker, head, value and tail so that
// edits to the semantic part re-render without disturbing inline comments,
// indentation or trailing blanks.
package line

import (
	"strings"

	"github.com/joshuapare/cfgkit/internal/label"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// Line is one physical line. Pos is 1-based and owned by the buffer that
// holds the line; EOL is the terminator that followed the text on disk
// ("" for a final unterminated line).
type Line struct {
	Pos int
	EOL string

	raw      string
	kind     Kind
	marker   string
	head     string
	value    string
	tail     string
	keyText  string
	label    label.Label
	stray    bool
	promoted bool
}

// New classifies raw without any surrounding context. raw must not carry
// its line terminator.
func New(raw string) *Line {
	l := &Line{}
	l.load(raw)
	return l
}

// ParseAs parses raw as kind k. Continuation kinds are accepted in the
// shapes they take inside a multi-line block.
func ParseAs(k Kind, raw string) (*Line, error) {
	l := New(raw)
	if l.kind == k {
		return l, nil
	}
	switch k {
	case KindContinuationEmpty:
		if l.kind == KindEmpty {
			l.kind = k
			return l, nil
		}
	case KindContinuationComment:
		if l.kind == KindComment && !l.stray {
			l.kind = k
			l.promoted = true
			return l, nil
		}
	case KindContinuation:
		if f, ok := parseInactiveContinuation(raw, true); ok {
			l.apply(f, raw[:1])
			return l, nil
		}
	}
	return nil, types.ErrFormat.Errorf("%q is not a %s line", raw, k)
}

// NewValue synthesizes an active `name: value` line.
func NewValue(name, value string) *Line {
	if value == "" {
		return NewMultiLineStart(name)
	}
	return New(name + ": " + value)
}

// NewMultiLineStart synthesizes an active `name:` line.
func NewMultiLineStart(name string) *Line {
	return New(name + ":")
}

// NewHeader synthesizes an active section header.
func NewHeader(lbl label.Label) *Line {
	return New(lbl.Header())
}

// Clone returns an independent copy of l.
func (l *Line) Clone() *Line {
	c := *l
	return &c
}

func (l *Line) load(raw string) {
	f, marker, stray := derive(raw)
	l.raw = raw
	l.apply(f, marker)
	l.stray = stray
}

func (l *Line) apply(f fields, marker string) {
	l.kind = f.kind
	l.marker = marker
	l.head = f.head
	l.value = f.value
	l.tail = f.tail
	l.keyText = f.keyText
	l.stray = false
	l.promoted = false
	l.label = label.Label{}
	if f.kind.IsHeader() {
		l.label = label.Parse(f.value)
	}
}

func (l *Line) sync() {
	l.raw = l.Render()
}

// Raw is the exact line text without terminator.
func (l *Line) Raw() string { return l.raw }

// Uncommented is Raw with any line comment and trailing blanks removed.
func (l *Line) Uncommented() string { return Uncomment(l.raw) }

// Kind returns the classification of the line.
func (l *Line) Kind() Kind { return l.kind }

// IsActive reports whether the line carries no deactivation marker.
func (l *Line) IsActive() bool { return l.marker == "" }

// Name is the key name of a Value or MultiLineStart line.
func (l *Line) Name() string {
	if !l.kind.IsKey() {
		return ""
	}
	return strings.TrimSpace(l.keyText)
}

// Value is the semantic text: the value of a key, the label text of a
// header, or the text of a continuation.
func (l *Line) Value() string {
	switch l.kind {
	case KindValue, KindMultiLineStart, KindSection, KindInclude, KindContinuation:
		return l.value
	}
	return ""
}

// Label is the parsed label of a header line.
func (l *Line) Label() label.Label { return l.label }

// Tail is the trailing material after the semantic text, usually an inline
// comment.
func (l *Line) Tail() string { return l.tail }

// Stray reports a column-0 line that matches no known shape.
func (l *Line) Stray() bool { return l.stray }

// Promoted reports a column-0 comment that was taken into a block.
func (l *Line) Promoted() bool { return l.promoted }

// IsBlank reports an empty or whitespace-only line.
func (l *Line) IsBlank() bool {
	return l.kind == KindEmpty || l.kind == KindContinuationEmpty
}

// IsCommentLike reports a line that carries no configuration.
func (l *Line) IsCommentLike() bool {
	switch l.kind {
	case KindComment, KindContinuationComment:
		return true
	}
	return l.kind.Toggleable() && !l.IsActive()
}

// Render rebuilds the raw text from the line's parts.
func (l *Line) Render() string {
	return l.marker + l.head + l.value + l.tail
}

// SetValue replaces the value of a Value line, keeping separator spacing
// and any inline comment.
func (l *Line) SetValue(v string) error {
	if l.kind != KindValue {
		return types.ErrFormat.Errorf("cannot set value on %s line", l.kind)
	}
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return types.ErrFormat.Errorf("invalid single-line value %q", v)
	}
	l.value = v
	l.sync()
	return nil
}

// SetLabel rewrites the label of a header line.
func (l *Line) SetLabel(lbl label.Label) error {
	if !l.kind.IsHeader() {
		return types.ErrFormat.Errorf("cannot set label on %s line", l.kind)
	}
	if lbl.IsZero() {
		return types.ErrFormat.Errorf("empty section label")
	}
	l.value = lbl.String()
	l.label = lbl
	l.kind = KindSection
	if lbl.IsInclude() {
		l.kind = KindInclude
	}
	l.sync()
	return nil
}

// SetName renames the key of a Value or MultiLineStart line.
func (l *Line) SetName(name string) error {
	if !l.kind.IsKey() {
		return types.ErrFormat.Errorf("cannot rename %s line", l.kind)
	}
	if !startsKey(name) || strings.ContainsAny(name, KeySeparators+CommentMarkers) {
		return types.ErrFormat.Errorf("invalid key name %q", name)
	}
	sep := len(l.keyText)
	l.head = name + l.head[sep:]
	l.keyText = name
	l.sync()
	return nil
}

// Activate removes the deactivation marker. It reports whether the line
// changed.
func (l *Line) Activate() bool {
	if l.marker == "" {
		return false
	}
	l.marker = ""
	l.sync()
	return true
}

// Deactivate prefixes an active toggleable line with the default marker.
// It reports whether the line changed.
func (l *Line) Deactivate() bool {
	if l.marker != "" || !l.kind.Toggleable() {
		return false
	}
	l.marker = DefaultMarker
	l.sync()
	return true
}

// CommentOut prefixes any non-blank line with the default marker, whether
// or not it is already commented. It reports whether the line changed.
func (l *Line) CommentOut() bool {
	if isBlank(l.raw) {
		return false
	}
	l.load(DefaultMarker + l.raw)
	return true
}

// Uncover undoes CommentOut on a line read back inside an inactive block.
// It reports whether the line changed.
func (l *Line) Uncover() bool {
	if l.Activate() {
		return true
	}
	if !l.promoted || len(l.raw) < 2 || !isMarker(l.raw[0]) || !isMarker(l.raw[1]) {
		return false
	}
	l.load(l.raw[1:])
	return true
}

// Reset drops any block context and classifies Raw again.
func (l *Line) Reset() {
	l.load(l.raw)
}

// JoinBlock reclassifies a line that follows a multi-line start. It
// reports whether the line continues the block. Inside an inactive block
// a marker followed by a deeper indent is a continuation, and so is a
// block line that was commented out a second time. Anything else must
// score as code.
func (l *Line) JoinBlock(inactive bool) bool {
	switch l.kind {
	case KindEmpty:
		l.kind = KindContinuationEmpty
		return true
	case KindContinuation, KindContinuationComment, KindContinuationEmpty:
		return true
	case KindComment:
		if l.stray {
			return false
		}
		trusted := inactive && deepIndent(l.raw[1:])
		if f, ok := parseInactiveContinuation(l.raw, trusted); ok {
			l.apply(f, l.raw[:1])
			return true
		}
		if inactive && l.nested() {
			return true
		}
		l.kind = KindContinuationComment
		l.promoted = true
		return true
	}
	return false
}

// nested recognizes "#  # note" and "##  G28": a comment or a commented
// line of code inside a block that was then commented out as a whole.
func (l *Line) nested() bool {
	rest := l.raw[1:]
	r := New(rest)
	switch {
	case rest != "" && isMarker(rest[0]):
		if !r.JoinBlock(false) || r.promoted || r.kind != KindContinuation {
			return false
		}
	case deepIndent(rest):
		if r.kind != KindContinuationComment {
			return false
		}
	default:
		return false
	}
	l.apply(fields{kind: KindContinuation, value: rest}, l.raw[:1])
	return true
}
