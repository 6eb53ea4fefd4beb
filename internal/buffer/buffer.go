// Package buffer holds the ordered line sequence of one config file.
//
// The Buffer is the sole owner of its lines. Groupings computed over it
// refer to lines by position only, and positions are renumbered after
// every structural change.
package buffer

import (
	"bytes"
	"slices"
	"strings"

	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/pkg/types"
)

const (
	eolLF   = "\n"
	eolCRLF = "\r\n"
)

// Buffer is an ordered, renumbered sequence of lines.
type Buffer struct {
	lines []*line.Line
	eol   string
}

// FromBytes splits data into lines, remembering each line's terminator.
// A final fragment without terminator becomes its own line.
func FromBytes(data []byte) *Buffer {
	b := &Buffer{}
	crlf, lf := 0, 0
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			b.lines = append(b.lines, line.New(string(data)))
			break
		}
		text, eol := data[:i], eolLF
		if i > 0 && data[i-1] == '\r' {
			text, eol = data[:i-1], eolCRLF
			crlf++
		} else {
			lf++
		}
		l := line.New(string(text))
		l.EOL = eol
		b.lines = append(b.lines, l)
		data = data[i+1:]
	}
	b.eol = eolLF
	if crlf > lf {
		b.eol = eolCRLF
	}
	b.renumber()
	return b
}

// FromLines builds a buffer from raw line texts, all terminated by "\n".
func FromLines(raws []string) *Buffer {
	var sb strings.Builder
	for _, r := range raws {
		sb.WriteString(r)
		sb.WriteString(eolLF)
	}
	return FromBytes([]byte(sb.String()))
}

// Clone returns a deep copy, so a failed edit can be discarded.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{lines: make([]*line.Line, len(b.lines)), eol: b.eol}
	for i, l := range b.lines {
		c.lines[i] = l.Clone()
	}
	return c
}

// Len is the number of lines.
func (b *Buffer) Len() int { return len(b.lines) }

// EOL is the dominant line terminator of the buffer.
func (b *Buffer) EOL() string {
	if b.eol == "" {
		return eolLF
	}
	return b.eol
}

func (b *Buffer) checkRange(from, to int) error {
	if from < 1 || to > len(b.lines) || from > to {
		return types.ErrInvalidRange.Errorf("lines %d..%d outside 1..%d", from, to, len(b.lines))
	}
	return nil
}

// Line returns the line at 1-based position pos.
func (b *Buffer) Line(pos int) (*line.Line, error) {
	if err := b.checkRange(pos, pos); err != nil {
		return nil, err
	}
	return b.lines[pos-1], nil
}

// Lines returns every line in order. The slice is a copy; the lines are
// shared.
func (b *Buffer) Lines() []*line.Line {
	return slices.Clone(b.lines)
}

// Slice returns lines from..to inclusive.
func (b *Buffer) Slice(from, to int) ([]*line.Line, error) {
	if err := b.checkRange(from, to); err != nil {
		return nil, err
	}
	return slices.Clone(b.lines[from-1 : to]), nil
}

// Raw returns the raw texts of lines from..to inclusive.
func (b *Buffer) Raw(from, to int) ([]string, error) {
	ls, err := b.Slice(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Raw()
	}
	return out, nil
}

// Insert places ls so that the first of them ends up at position at.
// at may be Len()+1 to append.
func (b *Buffer) Insert(at int, ls ...*line.Line) error {
	if at < 1 || at > len(b.lines)+1 {
		return types.ErrInvalidRange.Errorf("insert position %d outside 1..%d", at, len(b.lines)+1)
	}
	if len(ls) == 0 {
		return nil
	}
	eol := b.EOL()
	for _, l := range ls {
		if l.EOL == "" {
			l.EOL = eol
		}
	}
	if at == len(b.lines)+1 && at > 1 {
		// Keep a missing final terminator missing.
		if last := b.lines[at-2]; last.EOL == "" {
			last.EOL = eol
			ls[len(ls)-1].EOL = ""
		}
	}
	b.lines = slices.Insert(b.lines, at-1, ls...)
	b.renumber()
	return nil
}

// Delete removes lines from..to inclusive.
func (b *Buffer) Delete(from, to int) error {
	if err := b.checkRange(from, to); err != nil {
		return err
	}
	b.lines = slices.Delete(b.lines, from-1, to)
	b.renumber()
	return nil
}

// Replace swaps lines from..to inclusive for ls.
func (b *Buffer) Replace(from, to int, ls ...*line.Line) error {
	if err := b.checkRange(from, to); err != nil {
		return err
	}
	unterminated := to == len(b.lines) && b.lines[to-1].EOL == ""
	if err := b.Delete(from, to); err != nil {
		return err
	}
	if err := b.Insert(from, ls...); err != nil {
		return err
	}
	if unterminated && len(b.lines) > 0 {
		b.lines[len(b.lines)-1].EOL = ""
	}
	return nil
}

// Bytes renders the buffer back to file content.
func (b *Buffer) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range b.lines {
		buf.WriteString(l.Raw())
		buf.WriteString(l.EOL)
	}
	return buf.Bytes()
}

func (b *Buffer) renumber() {
	for i, l := range b.lines {
		l.Pos = i + 1
	}
}

// Positions reports whether every line's Pos equals its 1-based index.
func (b *Buffer) Positions() bool {
	for i, l := range b.lines {
		if l.Pos != i+1 {
			return false
		}
	}
	return true
}
