// Package segment groups the lines of a buffer into sections, include
// directives and the trailing persistence block.
//
// Groups refer to lines by 1-based position. A Layout is only valid for
// the buffer state it was scanned from; every structural edit rescans.
package segment

import (
	"fmt"

	"github.com/joshuapare/cfgkit/internal/essence"
	"github.com/joshuapare/cfgkit/internal/label"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// GroupKind tags what opened a Group.
type GroupKind uint8

const (
	GroupSection GroupKind = iota
	GroupInclude
	GroupPersistence
)

func (k GroupKind) String() string {
	switch k {
	case GroupSection:
		return "section"
	case GroupInclude:
		return "include"
	case GroupPersistence:
		return "persistence"
	default:
		return fmt.Sprintf("GroupKind(%d)", k)
	}
}

// Value is either SingleLine or MultiLine.
type Value interface {
	isValue()
}

// SingleLine is the value of a `key: value` line.
type SingleLine struct {
	Text string
}

// MultiLine holds the raw body lines of a `key:` block, comments and
// inner blanks included, trailing blanks excluded.
type MultiLine struct {
	Lines []string
}

func (SingleLine) isValue() {}
func (MultiLine) isValue()  {}

// Key is one key inside a group. Start is the key line, End the last line
// of its multi-line body (or Start).
type Key struct {
	Name   string
	Start  int
	End    int
	Active bool
	Value  Value
}

// IsMultiLine reports whether the key opens a block.
func (k *Key) IsMultiLine() bool {
	_, ok := k.Value.(MultiLine)
	return ok
}

// Checksum folds the key into seed: the name and separator first, then
// the value or each body line.
func (k *Key) Checksum(seed uint32) uint32 {
	sum := essence.Hash(k.Name+":", seed)
	switch v := k.Value.(type) {
	case SingleLine:
		sum = essence.Hash(v.Text, sum)
	case MultiLine:
		sum = essence.HashLines(v.Lines, sum)
	}
	return sum
}

// Group is one contiguous region of the file. Lead is the first line of
// the blank/comment run directly before Header (Header when there is
// none); End is the last line the group owns.
type Group struct {
	Kind   GroupKind
	Label  label.Label
	Lead   int
	Header int
	End    int
	Active bool
	Keys   []*Key
}

// ContentEnd is the last line of the final key, or the header when the
// group has no keys. New keys are inserted after it.
func (g *Group) ContentEnd() int {
	if n := len(g.Keys); n > 0 {
		return g.Keys[n-1].End
	}
	return g.Header
}

// Lookup returns every key named name, active or not.
func (g *Group) Lookup(name string) []*Key {
	var out []*Key
	for _, k := range g.Keys {
		if k.Name == name {
			out = append(out, k)
		}
	}
	return out
}

// Key resolves name to exactly one key. Inside an active group only
// active keys count; inside an inactive group every key does.
func (g *Group) Key(name string) (*Key, error) {
	var hits []*Key
	for _, k := range g.Lookup(name) {
		if k.Active || !g.Active {
			hits = append(hits, k)
		}
	}
	switch len(hits) {
	case 0:
		return nil, types.ErrKeyNotFound.Errorf("key %q not found in %s", name, g.Label.Header())
	case 1:
		return hits[0], nil
	default:
		return nil, types.ErrKeyAmbiguous.Errorf("key %q defined %d times in %s", name, len(hits), g.Label.Header()).At(hits[1].Start)
	}
}

// Checksum hashes the label and then every counted key in order.
func (g *Group) Checksum() uint32 {
	sum := essence.Hash(g.Label.String(), 0)
	for _, k := range g.Keys {
		if k.Active || !g.Active {
			sum = k.Checksum(sum)
		}
	}
	return sum
}

// Section is every region that shares one label. The first region is
// canonical.
type Section struct {
	Label   label.Label
	Regions []*Group
}

// IsInclude reports whether the section is an include directive.
func (s *Section) IsInclude() bool { return s.Label.IsInclude() }

// Active returns the regions whose header is not commented out.
func (s *Section) Active() []*Group {
	var out []*Group
	for _, g := range s.Regions {
		if g.Active {
			out = append(out, g)
		}
	}
	return out
}

// Region resolves the section to the one region an edit applies to: the
// sole active region, or the sole region when none is active.
func (s *Section) Region() (*Group, error) {
	active := s.Active()
	switch {
	case len(active) == 1:
		return active[0], nil
	case len(active) == 0 && len(s.Regions) == 1:
		return s.Regions[0], nil
	case len(active) > 1:
		return nil, types.ErrSectionAmbiguous.Errorf("%s is active in %d places", s.Label.Header(), len(active)).At(active[1].Header)
	default:
		return nil, types.ErrSectionAmbiguous.Errorf("%s appears %d times, none active", s.Label.Header(), len(s.Regions)).At(s.Regions[1].Header)
	}
}

// Layout is the result of one segmentation pass.
type Layout struct {
	Groups      []*Group
	Sections    []*Section
	Persistence *Group
	Lines       int
}

// Find returns every logical section whose label matches query.
func (lay *Layout) Find(query label.Label) []*Section {
	var out []*Section
	for _, s := range lay.Sections {
		if s.Label.Match(query) {
			out = append(out, s)
		}
	}
	return out
}

// Resolve returns the one logical section matching query.
func (lay *Layout) Resolve(query label.Label) (*Section, error) {
	hits := lay.Find(query)
	switch len(hits) {
	case 0:
		return nil, types.ErrSectionNotFound.Errorf("no section matches %s", query.Header())
	case 1:
		return hits[0], nil
	default:
		return nil, types.ErrSectionAmbiguous.Errorf("%d sections match %s", len(hits), query.Header())
	}
}

// RegionOf returns the section or include group whose header..end range
// holds line pos.
func (lay *Layout) RegionOf(pos int) (*Group, error) {
	if pos < 1 || pos > lay.Lines {
		return nil, types.ErrInvalidRange.Errorf("line %d outside 1..%d", pos, lay.Lines).At(pos)
	}
	for _, g := range lay.Groups {
		if g.Kind != GroupPersistence && pos >= g.Header && pos <= g.End {
			return g, nil
		}
	}
	return nil, types.ErrSectionNotFound.Errorf("no section at line %d", pos).At(pos)
}

// RequireSections fails with a format error when no section was found.
func (lay *Layout) RequireSections() error {
	for _, g := range lay.Groups {
		if g.Kind == GroupSection {
			return nil
		}
	}
	return types.ErrFormat.Errorf("no sections found")
}

func (lay *Layout) fold() {
	for _, g := range lay.Groups {
		if g.Kind == GroupPersistence {
			continue
		}
		var into *Section
		for _, s := range lay.Sections {
			if s.Label.Equal(g.Label) {
				into = s
				break
			}
		}
		if into == nil {
			into = &Section{Label: g.Label}
			lay.Sections = append(lay.Sections, into)
		}
		into.Regions = append(into.Regions, g)
	}
}
