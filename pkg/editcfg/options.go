package editcfg

import (
	"github.com/joshuapare/cfgkit/internal/segment"
)

// Options controls an editing session.
type Options struct {
	// AutoSave writes the file after every successful edit. The command
	// protocol runs one edit per session and relies on this.
	AutoSave bool

	// Backup copies the original file to <path>.bak before the first save
	// of the session. Only used by Open.
	Backup bool

	// AllowNoSections accepts files without any section header. By
	// default Load reports types.ErrFormat for them.
	AllowNoSections bool
}

// Value is the tagged value of a key: SingleLine or MultiLine.
type Value = segment.Value

// Value shapes (re-exported for convenience).
type (
	SingleLine = segment.SingleLine
	MultiLine  = segment.MultiLine
)
