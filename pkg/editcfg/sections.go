package editcfg

import (
	"slices"
	"strings"

	"github.com/joshuapare/cfgkit/internal/buffer"
	"github.com/joshuapare/cfgkit/internal/essence"
	"github.com/joshuapare/cfgkit/internal/label"
	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/internal/segment"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// SectionInfo describes one region of a section.
type SectionInfo struct {
	Label   string `json:"label" yaml:"label"`
	Line    int    `json:"line" yaml:"line"`
	End     int    `json:"end" yaml:"end"`
	Active  bool   `json:"active" yaml:"active"`
	Include bool   `json:"include,omitempty" yaml:"include,omitempty"`
}

// ListSections returns every region whose label matches query, in file
// order. An empty query lists everything.
func (e *Editor) ListSections(query string) ([]SectionInfo, error) {
	if err := e.loaded(); err != nil {
		return nil, err
	}
	q := label.Parse(query)
	if q.IsZero() {
		q = label.Parse(label.Wildcard)
	}
	var out []SectionInfo
	for _, g := range e.layout.Groups {
		if g.Kind == segment.GroupPersistence || !g.Label.Match(q) {
			continue
		}
		out = append(out, SectionInfo{
			Label:   g.Label.String(),
			Line:    g.Header,
			End:     g.End,
			Active:  g.Active,
			Include: g.Kind == segment.GroupInclude,
		})
	}
	if len(out) == 0 {
		return nil, types.ErrSectionNotFound.Errorf("no section matches %s", q.Header())
	}
	return out, nil
}

// GetSection returns the raw lines of a section from its header to its
// last line, trailing blanks excluded.
func (e *Editor) GetSection(t Target) ([]string, error) {
	g, err := e.target(t)
	if err != nil {
		return nil, err
	}
	return e.trimmedRaw(g.Header, g.End)
}

// SectionCRC returns the 8-digit hex checksum of a section's label and
// counted keys. Comments and formatting do not change it.
func (e *Editor) SectionCRC(t Target) (string, error) {
	g, err := e.target(t)
	if err != nil {
		return "", err
	}
	return essence.Hex(g.Checksum()), nil
}

func (e *Editor) trimmedRaw(from, to int) ([]string, error) {
	raws, err := e.buf.Raw(from, to)
	if err != nil {
		return nil, err
	}
	for len(raws) > 1 && strings.TrimSpace(raws[len(raws)-1]) == "" {
		raws = raws[:len(raws)-1]
	}
	return raws, nil
}

// RenameSection rewrites the header of every region of the section
// matching query. It fails with types.ErrSectionAmbiguous when another
// section already carries the new label.
func (e *Editor) RenameSection(query, newLabel string) error {
	if err := e.loaded(); err != nil {
		return err
	}
	if strings.TrimSpace(query) == "" {
		return types.ErrMissingArgument.Errorf("missing section")
	}
	to := label.Parse(newLabel)
	if to.IsZero() {
		return types.ErrMissingArgument.Errorf("missing new label")
	}
	if strings.ContainsAny(newLabel, "[]#;\r\n") {
		return types.ErrFormat.Errorf("invalid section label %q", newLabel)
	}
	sec, err := e.layout.Resolve(label.Parse(query))
	if err != nil {
		return err
	}
	if sec.Label.Equal(to) {
		return nil
	}
	for _, other := range e.layout.Sections {
		if other != sec && other.Label.Equal(to) {
			return types.ErrSectionAmbiguous.Errorf("%s already exists", to.Header()).At(other.Regions[0].Header)
		}
	}
	return e.edit("rename section", func(b *buffer.Buffer) error {
		for _, g := range sec.Regions {
			l, err := b.Line(g.Header)
			if err != nil {
				return err
			}
			if err := l.SetLabel(to); err != nil {
				return err
			}
		}
		return nil
	})
}

// span returns the lines a section deletion removes: the header, its
// body, and the comment lines directly above the header.
func (e *Editor) span(g *segment.Group) (int, int) {
	start := g.Header
	for start > g.Lead {
		l, err := e.buf.Line(start - 1)
		if err != nil || l.Kind() != line.KindComment {
			break
		}
		start--
	}
	return start, g.End
}

// DeleteSection removes a section region together with the comments
// directly above it.
func (e *Editor) DeleteSection(t Target) error {
	g, err := e.target(t)
	if err != nil {
		return err
	}
	start, end := e.span(g)
	return e.edit("delete section", func(b *buffer.Buffer) error {
		if err := b.Delete(start, end); err != nil {
			return err
		}
		collapseBlanks(b, start)
		return nil
	})
}

// collapseBlanks drops one of two blank lines that meet at pos after a
// removal.
func collapseBlanks(b *buffer.Buffer, pos int) {
	prev, err := b.Line(pos - 1)
	if err != nil || !prev.IsBlank() {
		return
	}
	next, err := b.Line(pos)
	if err != nil || !next.IsBlank() {
		return
	}
	_ = b.Delete(pos, pos)
}

// AddSection inserts a block holding one or more sections at anchor.
// Nothing is ever inserted after the persistence block.
func (e *Editor) AddSection(a Anchor, block []string) error {
	if err := e.loaded(); err != nil {
		return err
	}
	ls, err := e.checkBlock(block)
	if err != nil {
		return err
	}
	at, err := e.insertPoint(a)
	if err != nil {
		return err
	}
	return e.edit("add section", func(b *buffer.Buffer) error {
		return b.Insert(at, separate(b, at, at, ls)...)
	})
}

// OverrideSection replaces a section region, and the comments directly
// above it, with block.
func (e *Editor) OverrideSection(t Target, block []string) error {
	g, err := e.target(t)
	if err != nil {
		return err
	}
	ls, err := e.checkBlock(block, g)
	if err != nil {
		return err
	}
	start, end := e.span(g)
	return e.edit("override section", func(b *buffer.Buffer) error {
		return b.Replace(start, end, separate(b, start, end+1, ls)...)
	})
}

// checkBlock validates a section block. It must open with a header
// (comments and blanks aside), carry no persistence lines, and must not
// create a second active region of an existing section. Regions in
// replacing are about to go away and do not count.
func (e *Editor) checkBlock(block []string, replacing ...*segment.Group) ([]*line.Line, error) {
	block = trimBlank(block)
	if len(block) == 0 {
		return nil, types.ErrMissingArgument.Errorf("empty section block")
	}
	tmp := buffer.FromLines(block)
	lay, err := segment.Scan(tmp)
	if err != nil {
		return nil, err
	}
	if lay.Persistence != nil {
		return nil, types.ErrFormat.Errorf("section block holds %q lines", line.PersistenceSentinel).At(lay.Persistence.Header)
	}
	if len(lay.Groups) == 0 {
		return nil, types.ErrFormat.Errorf("section block has no header")
	}
	for _, l := range tmp.Lines()[:lay.Groups[0].Header-1] {
		if k := l.Kind(); l.Stray() || (k != line.KindEmpty && k != line.KindComment) {
			return nil, types.ErrFormat.Errorf("%q before the first header", l.Raw()).At(l.Pos)
		}
	}

	for _, g := range lay.Groups {
		if !g.Active {
			continue
		}
		for _, sec := range e.layout.Sections {
			if !sec.Label.Equal(g.Label) {
				continue
			}
			for _, r := range sec.Active() {
				if !slices.Contains(replacing, r) {
					return nil, types.ErrSectionAmbiguous.Errorf("%s already exists", g.Label.Header()).At(r.Header)
				}
			}
		}
	}

	out := tmp.Lines()
	for _, l := range out {
		l.EOL = ""
	}
	return out, nil
}

// separate wraps ls in blank lines where the neighbours at before-1 and
// after are not blank already.
func separate(b *buffer.Buffer, before, after int, ls []*line.Line) []*line.Line {
	out := ls
	if prev, err := b.Line(before - 1); err == nil && !prev.IsBlank() {
		out = append([]*line.Line{line.New("")}, out...)
	}
	if next, err := b.Line(after); err == nil && !next.IsBlank() {
		out = append(out, line.New(""))
	}
	return out
}

func trimBlank(raws []string) []string {
	for len(raws) > 0 && strings.TrimSpace(raws[0]) == "" {
		raws = raws[1:]
	}
	for len(raws) > 0 && strings.TrimSpace(raws[len(raws)-1]) == "" {
		raws = raws[:len(raws)-1]
	}
	return raws
}
