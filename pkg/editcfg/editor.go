package editcfg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/cfgkit/internal/buffer"
	"github.com/joshuapare/cfgkit/internal/label"
	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/internal/segment"
	"github.com/joshuapare/cfgkit/internal/writer"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// DefaultPath is the configuration file edited when none is named.
const DefaultPath = "/home/mks/klipper_config/printer.cfg"

// errUnchanged lets an edit report that it found nothing to do.
var errUnchanged = errors.New("unchanged")

// Editor is one editing session over a Store. It is not safe for
// concurrent use.
type Editor struct {
	store  writer.Store
	opts   Options
	buf    *buffer.Buffer
	layout *segment.Layout
	dirty  bool
}

// New returns an Editor over store. Nothing is read until Load.
func New(store writer.Store, opts *Options) *Editor {
	e := &Editor{store: store}
	if opts != nil {
		e.opts = *opts
	}
	return e
}

// Open loads the file at path. An empty path means DefaultPath.
func Open(path string, opts *Options) (*Editor, error) {
	if path == "" {
		path = DefaultPath
	}
	e := New(nil, opts)
	e.store = &writer.FileStore{Path: path, Backup: e.opts.Backup}
	if err := e.Load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads the store and segments its content.
func (e *Editor) Load() error {
	if e.store == nil {
		return types.ErrNotYetLoaded.Errorf("no store to load from")
	}
	data, err := e.store.Read()
	if err != nil {
		return err
	}
	buf := buffer.FromBytes(data)
	lay, err := segment.Scan(buf)
	if err != nil {
		return err
	}
	if !e.opts.AllowNoSections {
		if err := lay.RequireSections(); err != nil {
			return err
		}
	}
	e.buf, e.layout, e.dirty = buf, lay, false
	logger.L.Debug("config loaded", "lines", buf.Len(), "sections", len(lay.Sections))
	return nil
}

// Save writes the content back. It does nothing when no edit happened
// since the last load or save.
func (e *Editor) Save() error {
	if e.buf == nil {
		return types.ErrNotYetLoaded
	}
	if e.buf.Len() == 0 {
		return types.ErrEmptyBuffer
	}
	if !e.dirty {
		return nil
	}
	if err := e.store.Replace(e.buf.Bytes()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	e.dirty = false
	logger.L.Debug("config saved", "lines", e.buf.Len())
	return nil
}

// Dirty reports unsaved edits.
func (e *Editor) Dirty() bool { return e.dirty }

// Bytes returns the current content.
func (e *Editor) Bytes() []byte {
	if e.buf == nil {
		return nil
	}
	return e.buf.Bytes()
}

// Len is the current number of lines.
func (e *Editor) Len() int {
	if e.buf == nil {
		return 0
	}
	return e.buf.Len()
}

func (e *Editor) loaded() error {
	if e.buf == nil {
		return types.ErrNotYetLoaded
	}
	return nil
}

// edit runs fn against a copy of the buffer and adopts the copy only when
// fn succeeds and the result still segments cleanly.
func (e *Editor) edit(op string, fn func(b *buffer.Buffer) error) error {
	work := e.buf.Clone()
	if err := fn(work); err != nil {
		if errors.Is(err, errUnchanged) {
			logger.L.Debug("edit is a no-op", "op", op)
			return nil
		}
		return err
	}
	if !work.Positions() {
		return fmt.Errorf("%s: line positions out of order", op)
	}
	lay, err := segment.Scan(work)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.buf, e.layout, e.dirty = work, lay, true
	logger.L.Debug("edit applied", "op", op, "lines", work.Len())
	if e.opts.AutoSave {
		return e.Save()
	}
	return nil
}

// region resolves a section query to the single region an edit targets.
func (e *Editor) region(query string) (*segment.Group, error) {
	if err := e.loaded(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrMissingArgument.Errorf("missing section")
	}
	sec, err := e.layout.Resolve(label.Parse(query))
	if err != nil {
		return nil, err
	}
	return sec.Region()
}

// Target names a section by label query or, with ByLine set, by a line
// inside it.
type Target struct {
	Query  string
	Line   int
	ByLine bool
}

// ByLabel targets the section matching query.
func ByLabel(query string) Target { return Target{Query: query} }

// AtLine targets the section whose header..end range holds line n.
func AtLine(n int) Target { return Target{Line: n, ByLine: true} }

// ParseTarget reads "@n" as a line target and anything else as a query.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, types.ErrMissingArgument.Errorf("missing section")
	}
	if rest, ok := strings.CutPrefix(s, "@"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Target{}, types.ErrInvalidRange.Errorf("invalid line anchor %q", s)
		}
		return AtLine(n), nil
	}
	return ByLabel(s), nil
}

func (t Target) String() string {
	if t.ByLine {
		return "@" + strconv.Itoa(t.Line)
	}
	return t.Query
}

func (e *Editor) target(t Target) (*segment.Group, error) {
	if !t.ByLine {
		return e.region(t.Query)
	}
	if err := e.loaded(); err != nil {
		return nil, err
	}
	return e.layout.RegionOf(t.Line)
}

// AnchorKind selects where AddSection inserts.
type AnchorKind int

const (
	// AnchorFirst inserts before the first section that is not an include.
	AnchorFirst AnchorKind = iota
	// AnchorLast inserts after the last section, before the persistence block.
	AnchorLast
	// AnchorAfter inserts after a resolved section.
	AnchorAfter
)

// Anchor is a resolved insertion point for AddSection.
type Anchor struct {
	Kind   AnchorKind
	Target Target
}

// First anchors before the first non-include section.
func First() Anchor { return Anchor{Kind: AnchorFirst} }

// Last anchors after the last section.
func Last() Anchor { return Anchor{Kind: AnchorLast} }

// After anchors after the section named by t.
func After(t Target) Anchor { return Anchor{Kind: AnchorAfter, Target: t} }

// ParseAnchor reads "^" or "first", "$" or "last", and otherwise a target
// as accepted by ParseTarget.
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "^", "first":
		return First(), nil
	case "$", "last":
		return Last(), nil
	}
	t, err := ParseTarget(s)
	if err != nil {
		return Anchor{}, err
	}
	return After(t), nil
}

// insertPoint returns the position the first inserted line will take.
func (e *Editor) insertPoint(a Anchor) (int, error) {
	end := e.buf.Len() + 1
	if p := e.layout.Persistence; p != nil {
		end = p.Lead
	}
	switch a.Kind {
	case AnchorFirst:
		for _, g := range e.layout.Groups {
			if g.Kind == segment.GroupSection {
				return g.Lead, nil
			}
		}
		return end, nil
	case AnchorLast:
		return end, nil
	case AnchorAfter:
		g, err := e.target(a.Target)
		if err != nil {
			return 0, err
		}
		return min(g.End+1, end), nil
	default:
		return 0, fmt.Errorf("unknown anchor kind %d", a.Kind)
	}
}
