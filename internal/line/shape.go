package line

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joshuapare/cfgkit/internal/label"
)

const (
	// PersistenceSentinel opens the trailing auto-generated block.
	PersistenceSentinel = "#*#"

	// DefaultMarker is prefixed by Deactivate.
	DefaultMarker = "#"

	// CommentMarkers introduce a line comment.
	CommentMarkers = "#;"

	// KeySeparators split a key from its value.
	KeySeparators = ":="
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// fields is what a shape recognizer extracts from a line body (the raw
// text without any deactivation marker). head+value+tail == body.
type fields struct {
	kind    Kind
	head    string
	value   string
	tail    string
	keyText string
}

// Uncomment removes a line comment and trailing blanks from s. The first
// '#' wins; ';' is only looked for when the line has no '#'.
func Uncomment(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return s
	}
	pos := strings.IndexByte(s, '#')
	if pos < 0 {
		pos = strings.IndexByte(s, ';')
	}
	if pos >= 0 {
		s = strings.TrimRightFunc(s[:pos], unicode.IsSpace)
	}
	return s
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func isIndent(b byte) bool { return b == ' ' || b == '\t' }

// deepIndent reports whether s opens with a tab or two blanks. A single
// blank after a marker is how prose comments are usually written.
func deepIndent(s string) bool {
	switch {
	case s == "":
		return false
	case s[0] == '\t':
		return true
	}
	return len(s) > 1 && isIndent(s[0]) && isIndent(s[1])
}

func isMarker(b byte) bool { return strings.IndexByte(CommentMarkers, b) >= 0 }

func startsKey(body string) bool {
	r, _ := utf8.DecodeRuneInString(body)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseHeader recognizes `[label]` at column 0 of body. With exact set the
// closing bracket must end the uncommented text.
func parseHeader(body string, exact bool) (fields, bool) {
	unc := Uncomment(body)
	if unc == "" || unc[0] != '[' {
		return fields{}, false
	}
	j := strings.LastIndexByte(unc, ']')
	if j < 2 || (exact && j != len(unc)-1) {
		return fields{}, false
	}
	text := unc[1:j]
	if isBlank(text) {
		return fields{}, false
	}
	kind := KindSection
	if label.Parse(text).IsInclude() {
		kind = KindInclude
	}
	return fields{kind: kind, head: "[", value: text, tail: body[j:]}, true
}

// parseKey recognizes `key: value`, `key=value` and the bare `key:` that
// opens a multi-line value.
func parseKey(body string) (fields, bool) {
	if body == "" || !startsKey(body) {
		return fields{}, false
	}
	unc := Uncomment(body)
	idx := strings.IndexAny(unc, KeySeparators)
	if idx <= 0 {
		return fields{}, false
	}
	keyText := unc[:idx]
	if isBlank(keyText) {
		return fields{}, false
	}
	after := unc[idx+1:]
	value := strings.TrimLeft(after, " \t")
	f := fields{
		kind:    KindValue,
		head:    unc[:idx+1] + after[:len(after)-len(value)],
		value:   value,
		tail:    body[len(unc):],
		keyText: keyText,
	}
	if value == "" {
		f.kind = KindMultiLineStart
	}
	return f, true
}

// parseContinuation recognizes an indented line.
func parseContinuation(body string) (fields, bool) {
	if body == "" || !isIndent(body[0]) || isBlank(body) {
		return fields{}, false
	}
	unc := Uncomment(body)
	text := strings.TrimLeft(unc, " \t")
	if text == "" {
		return fields{kind: KindContinuationComment, value: body}, true
	}
	return fields{
		kind:  KindContinuation,
		head:  unc[:len(unc)-len(text)],
		value: text,
		tail:  body[len(unc):],
	}, true
}

// plausibleKey decides whether a commented key shape is a deactivated key
// rather than prose such as "# Note: see below". spaced is set when one
// blank separates the marker from the key.
func plausibleKey(f fields, spaced bool) bool {
	name := strings.TrimSpace(f.keyText)
	if !reIdentifier.MatchString(name) {
		return false
	}
	lower := name == strings.ToLower(name)
	if spaced {
		return f.value != "" && lower && IsLikeCode(f.value)
	}
	if f.value == "" {
		return lower
	}
	return lower || IsLikeCode(f.value)
}

// parseInactive recognizes a toggleable shape behind a comment marker and
// returns the marker that precedes it.
func parseInactive(raw string) (fields, string, bool) {
	if raw == "" || !isMarker(raw[0]) {
		return fields{}, "", false
	}
	rest := raw[1:]
	trimmed := strings.TrimLeft(rest, " \t")
	if f, ok := parseHeader(trimmed, true); ok {
		return f, raw[:len(raw)-len(trimmed)], true
	}
	if f, ok := parseKey(rest); ok && plausibleKey(f, false) {
		return f, raw[:1], true
	}
	if strings.HasPrefix(rest, " ") {
		if f, ok := parseKey(rest[1:]); ok && plausibleKey(f, true) {
			return f, raw[:2], true
		}
	}
	return fields{}, "", false
}

// parseInactiveContinuation recognizes `#` followed by an indented line.
// Unless trusted, the indented text must score as code.
func parseInactiveContinuation(raw string, trusted bool) (fields, bool) {
	if raw == "" || !isMarker(raw[0]) {
		return fields{}, false
	}
	f, ok := parseContinuation(raw[1:])
	if !ok || f.kind != KindContinuation {
		return fields{}, false
	}
	if !trusted && !IsLikeCode(f.value) {
		return fields{}, false
	}
	return f, true
}

// derive classifies raw without any surrounding context.
func derive(raw string) (fields, string, bool) {
	switch {
	case strings.HasPrefix(raw, PersistenceSentinel):
		return fields{kind: KindPersistence, value: raw}, "", false
	case isBlank(raw):
		return fields{kind: KindEmpty, value: raw}, "", false
	case isIndent(raw[0]):
		f, _ := parseContinuation(raw)
		return f, "", false
	}
	if f, ok := parseHeader(raw, false); ok {
		return f, "", false
	}
	if f, ok := parseKey(raw); ok {
		return f, "", false
	}
	if f, marker, ok := parseInactive(raw); ok {
		return f, marker, false
	}
	return fields{kind: KindComment, value: raw}, "", !isMarker(raw[0])
}
