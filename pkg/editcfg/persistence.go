package editcfg

import (
	"slices"

	"github.com/joshuapare/cfgkit/internal/buffer"
	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// GetPersistence returns the raw lines of the auto-generated block, or
// nil when the file has none.
func (e *Editor) GetPersistence() ([]string, error) {
	if err := e.loaded(); err != nil {
		return nil, err
	}
	p := e.layout.Persistence
	if p == nil {
		return nil, nil
	}
	return e.trimmedRaw(p.Header, p.End)
}

// ReplacePersistence swaps the auto-generated block for lines. Every line
// must start with the "#*#" sentinel. Empty lines removes the block.
func (e *Editor) ReplacePersistence(lines []string) error {
	if err := e.loaded(); err != nil {
		return err
	}
	lines = trimBlank(lines)
	ls := make([]*line.Line, 0, len(lines)+1)
	for i, raw := range lines {
		l := line.New(raw)
		if l.Kind() != line.KindPersistence {
			// A blank line here would end the block early.
			return types.ErrFormat.Errorf("line %d does not start with %q", i+1, line.PersistenceSentinel)
		}
		ls = append(ls, l)
	}

	p := e.layout.Persistence
	switch {
	case p == nil && len(ls) == 0:
		return nil
	case p == nil:
		return e.edit("add persistence", func(b *buffer.Buffer) error {
			if last, err := b.Line(b.Len()); err == nil && !last.IsBlank() {
				ls = append([]*line.Line{line.New("")}, ls...)
			}
			return b.Insert(b.Len()+1, ls...)
		})
	case len(ls) == 0:
		return e.edit("remove persistence", func(b *buffer.Buffer) error {
			if err := b.Delete(p.Header, p.End); err != nil {
				return err
			}
			trimTrailingBlanks(b)
			return nil
		})
	}

	cur, err := e.trimmedRaw(p.Header, p.End)
	if err != nil {
		return err
	}
	if slices.Equal(cur, lines) {
		return nil
	}
	return e.edit("replace persistence", func(b *buffer.Buffer) error {
		return b.Replace(p.Header, p.End, ls...)
	})
}

// trimTrailingBlanks leaves at most one blank line at the end of b.
func trimTrailingBlanks(b *buffer.Buffer) {
	for n := b.Len(); n > 1; n-- {
		last, _ := b.Line(n)
		prev, _ := b.Line(n - 1)
		if !last.IsBlank() || !prev.IsBlank() {
			return
		}
		_ = b.Delete(n, n)
	}
}
