package segment

import (
	"github.com/joshuapare/cfgkit/internal/buffer"
	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// scanner carries the state of one forward pass.
type scanner struct {
	lines  []*line.Line
	layout *Layout
	cur    *Group
	lead   int // first line of the pending blank/comment run, 0 if none
}

// Scan classifies every line of b in context and groups them. Lines are
// first reset to their context-free kind, so Scan may be repeated after
// any edit.
func Scan(b *buffer.Buffer) (*Layout, error) {
	lines := b.Lines()
	for _, l := range lines {
		l.Reset()
	}
	s := &scanner{lines: lines, layout: &Layout{Lines: len(lines)}}
	if err := s.run(); err != nil {
		return nil, err
	}
	s.layout.fold()
	return s.layout, nil
}

func (s *scanner) run() error {
	for i := 0; i < len(s.lines); {
		l := s.lines[i]
		switch k := l.Kind(); {
		case k == line.KindPersistence:
			return s.persistence(i)
		case k.IsHeader():
			s.open(l)
			i++
		case k == line.KindEmpty || (k == line.KindComment && !l.Stray()):
			if s.lead == 0 {
				s.lead = l.Pos
			}
			i++
		case k.IsKey():
			s.lead = 0
			i = s.key(i)
		default:
			logger.L.Debug("line outside any key", "line", l.Pos, "kind", k.String())
			s.lead = 0
			if s.cur != nil {
				s.cur.End = l.Pos
			}
			i++
		}
	}
	// Leftovers at end of input stay with the open group.
	if s.cur != nil {
		s.cur.End = len(s.lines)
	}
	return nil
}

// close ends the open group just before line next.
func (s *scanner) close(next int) {
	if s.cur != nil {
		s.cur.End = next - 1
	}
	s.cur = nil
}

// leadStart returns where the group opened by the line at pos begins.
func (s *scanner) leadStart(pos int) int {
	if s.lead != 0 {
		return s.lead
	}
	return pos
}

func (s *scanner) open(l *line.Line) {
	lead := s.leadStart(l.Pos)
	s.close(lead)
	g := &Group{
		Kind:   GroupSection,
		Label:  l.Label(),
		Lead:   lead,
		Header: l.Pos,
		End:    l.Pos,
		Active: l.IsActive(),
	}
	if l.Kind() == line.KindInclude {
		g.Kind = GroupInclude
	}
	s.layout.Groups = append(s.layout.Groups, g)
	s.cur = g
	s.lead = 0
}

// key records the key at index i and returns the index of the first line
// after it.
func (s *scanner) key(i int) int {
	l := s.lines[i]
	k := &Key{Name: l.Name(), Start: l.Pos, End: l.Pos, Active: l.IsActive()}
	next := i + 1
	if l.Kind() == line.KindMultiLineStart {
		j := i + 1
		for j < len(s.lines) && s.lines[j].JoinBlock(!l.IsActive()) {
			j++
		}
		// Trailing blanks and column-0 comments go back to the outer scan.
		last := j - 1
		for last > i && (s.lines[last].Kind() == line.KindContinuationEmpty || s.lines[last].Promoted()) {
			s.lines[last].Reset()
			last--
		}
		body := make([]string, 0, last-i)
		for _, bl := range s.lines[i+1 : last+1] {
			body = append(body, bl.Raw())
		}
		k.Value = MultiLine{Lines: body}
		k.End = s.lines[last].Pos
		next = last + 1
	} else {
		k.Value = SingleLine{Text: l.Value()}
	}

	if s.cur == nil {
		logger.L.Warn("key before first section", "key", k.Name, "line", k.Start)
		return next
	}
	s.cur.Keys = append(s.cur.Keys, k)
	s.cur.End = k.End
	return next
}

// persistence consumes the rest of the input starting at index i. Only
// sentinel lines may follow, plus blank lines at the very end.
func (s *scanner) persistence(i int) error {
	start := s.lines[i].Pos
	lead := s.leadStart(start)
	s.close(lead)

	end := len(s.lines)
	for end > i && s.lines[end-1].Kind() == line.KindEmpty {
		end--
	}
	for _, l := range s.lines[i:end] {
		if l.Kind() != line.KindPersistence {
			return types.ErrFormat.Errorf("unexpected content after %q", line.PersistenceSentinel).At(l.Pos)
		}
	}

	g := &Group{
		Kind:   GroupPersistence,
		Lead:   lead,
		Header: start,
		End:    len(s.lines),
		Active: true,
	}
	s.layout.Groups = append(s.layout.Groups, g)
	s.layout.Persistence = g
	s.lead = 0
	return nil
}
