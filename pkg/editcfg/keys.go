package editcfg

import (
	"errors"
	"slices"
	"strings"

	"github.com/joshuapare/cfgkit/internal/buffer"
	"github.com/joshuapare/cfgkit/internal/essence"
	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/internal/segment"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// checkKeyName rejects names that would not read back as the same key.
func checkKeyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return types.ErrMissingArgument.Errorf("missing key")
	}
	if strings.ContainsAny(name, " \t\r\n[]"+line.KeySeparators+line.CommentMarkers) {
		return types.ErrFormat.Errorf("invalid key name %q", name)
	}
	return nil
}

func (e *Editor) key(section, name string) (*segment.Group, *segment.Key, error) {
	g, err := e.region(section)
	if err != nil {
		return nil, nil, err
	}
	if err := checkKeyName(name); err != nil {
		return nil, nil, err
	}
	k, err := g.Key(name)
	return g, k, err
}

// GetKey returns the value of key in section.
func (e *Editor) GetKey(section, key string) (Value, error) {
	_, k, err := e.key(section, key)
	if err != nil {
		return nil, err
	}
	return k.Value, nil
}

// KeyCRC returns the 8-digit hex checksum of a key's normalized content.
func (e *Editor) KeyCRC(section, key string) (string, error) {
	_, k, err := e.key(section, key)
	if err != nil {
		return "", err
	}
	return essence.Hex(k.Checksum(0)), nil
}

// EditKey sets a single-line key. A missing key is appended after the
// section's last key; an existing one is rewritten in place, keeping any
// inline comment.
func (e *Editor) EditKey(section, key, value string) error {
	if value == "" {
		return types.ErrMissingArgument.Errorf("missing value")
	}
	if strings.ContainsAny(value, "\r\n") {
		return types.ErrFormat.Errorf("value for %q spans lines", key)
	}
	// Anything the scanner would read back differently is refused.
	if line.Uncomment(value) != value || strings.TrimSpace(value) != value {
		return types.ErrFormat.Errorf("value %q for %q carries a comment or surrounding blanks", value, key)
	}
	g, k, err := e.key(section, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		nl := line.NewValue(key, value)
		if nl.Kind() != line.KindValue || nl.Name() != key {
			return types.ErrFormat.Errorf("invalid key %q", key)
		}
		if !g.Active {
			nl.Deactivate()
		}
		return e.edit("edit key", func(b *buffer.Buffer) error {
			return b.Insert(g.ContentEnd()+1, nl)
		})
	}
	if err != nil {
		return err
	}
	cur, ok := k.Value.(segment.SingleLine)
	if !ok {
		return types.ErrSingleLineExpected.Errorf("%q is a multi-line key", key).At(k.Start)
	}
	if cur.Text == value {
		return nil
	}
	return e.edit("edit key", func(b *buffer.Buffer) error {
		l, err := b.Line(k.Start)
		if err != nil {
			return err
		}
		return l.SetValue(value)
	})
}

// EditKeyMultiLine replaces the body of a multi-line key. body holds raw
// lines without terminators; a leading `name:` line is adopted under key.
// A missing key is appended after the section's last key.
func (e *Editor) EditKeyMultiLine(section, key string, body []string) error {
	head, body, err := splitBlock(key, body)
	if err != nil {
		return err
	}
	g, k, err := e.key(section, key)
	if errors.Is(err, types.ErrKeyNotFound) {
		ls := append([]*line.Line{head}, toLines(body)...)
		if !g.Active {
			commentOut(ls)
		}
		return e.edit("edit multi-line key", func(b *buffer.Buffer) error {
			return b.Insert(g.ContentEnd()+1, ls...)
		})
	}
	if err != nil {
		return err
	}
	cur, ok := k.Value.(segment.MultiLine)
	if !ok {
		return types.ErrMultiLineExpected.Errorf("%q is a single-line key", key).At(k.Start)
	}
	ls := toLines(body)
	if !k.Active {
		commentOut(ls)
	}
	if slices.EqualFunc(cur.Lines, ls, func(raw string, l *line.Line) bool { return raw == l.Raw() }) {
		return nil
	}
	return e.edit("edit multi-line key", func(b *buffer.Buffer) error {
		if k.End > k.Start {
			if err := b.Delete(k.Start+1, k.End); err != nil {
				return err
			}
		}
		return b.Insert(k.Start+1, ls...)
	})
}

// splitBlock validates a multi-line body and returns the start line to
// use for a new key.
func splitBlock(key string, raws []string) (*line.Line, []string, error) {
	if err := checkKeyName(key); err != nil {
		return nil, nil, err
	}
	head := line.NewMultiLineStart(key)
	if len(raws) > 0 {
		if first := line.New(raws[0]); first.Kind() == line.KindMultiLineStart && first.IsActive() {
			if err := first.SetName(key); err != nil {
				return nil, nil, err
			}
			head, raws = first, raws[1:]
		}
	}
	if head.Kind() != line.KindMultiLineStart || head.Name() != key {
		return nil, nil, types.ErrFormat.Errorf("invalid key %q", key)
	}

	body := slices.Clone(raws)
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	if len(body) == 0 {
		return nil, nil, types.ErrMissingArgument.Errorf("empty multi-line value for %q", key)
	}
	for i, raw := range body {
		l := line.New(raw)
		if !l.JoinBlock(false) {
			return nil, nil, types.ErrFormat.Errorf("line %d of the value for %q is not indented", i+1, key)
		}
		if i == len(body)-1 && l.Promoted() {
			return nil, nil, types.ErrFormat.Errorf("value for %q ends with a column-0 comment", key)
		}
	}
	return head, body, nil
}

// commentOut keeps a block written into an inactive region inactive.
func commentOut(ls []*line.Line) {
	for _, l := range ls {
		l.CommentOut()
	}
}

func toLines(raws []string) []*line.Line {
	out := make([]*line.Line, len(raws))
	for i, r := range raws {
		out[i] = line.New(r)
	}
	return out
}

// DeleteKey removes a key together with its multi-line body.
func (e *Editor) DeleteKey(section, key string) error {
	_, k, err := e.key(section, key)
	if err != nil {
		return err
	}
	return e.edit("delete key", func(b *buffer.Buffer) error {
		return b.Delete(k.Start, k.End)
	})
}

// SetKeyActive comments a key out or back in, body included. Activating
// fails with types.ErrKeyAmbiguous when another active key of that name
// exists.
func (e *Editor) SetKeyActive(section, key string, active bool) error {
	g, err := e.region(section)
	if err != nil {
		return err
	}
	if err := checkKeyName(key); err != nil {
		return err
	}
	all := g.Lookup(key)
	if len(all) == 0 {
		return types.ErrKeyNotFound.Errorf("key %q not found in %s", key, g.Label.Header())
	}
	var on, off []*segment.Key
	for _, k := range all {
		if k.Active {
			on = append(on, k)
		} else {
			off = append(off, k)
		}
	}

	var k *segment.Key
	switch {
	case active && len(off) == 0:
		return nil
	case active && len(on) > 0:
		return types.ErrKeyAmbiguous.Errorf("key %q is already active in %s", key, g.Label.Header()).At(on[0].Start)
	case active && len(off) > 1:
		return types.ErrKeyAmbiguous.Errorf("key %q is commented out %d times in %s", key, len(off), g.Label.Header()).At(off[1].Start)
	case active:
		k = off[0]
	case len(on) == 0:
		return nil
	case len(on) > 1:
		return types.ErrKeyAmbiguous.Errorf("key %q defined %d times in %s", key, len(on), g.Label.Header()).At(on[1].Start)
	default:
		k = on[0]
	}

	return e.edit("toggle key", func(b *buffer.Buffer) error {
		ls, err := b.Slice(k.Start, k.End)
		if err != nil {
			return err
		}
		changed := false
		for _, l := range ls {
			if active {
				changed = l.Uncover() || changed
			} else {
				changed = l.CommentOut() || changed
			}
		}
		if !changed {
			return errUnchanged
		}
		return nil
	})
}
