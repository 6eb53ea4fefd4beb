package command

import (
	"fmt"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

// removeBlock as PutSave payload drops the auto-generated block.
const removeBlock = "-"

type handler func(c *call) (Result, error)

var handlers = map[string]handler{
	"ListSec":     listSec,
	"GetKey":      getKey,
	"GetSec":      getSec,
	"GetSecCRC":   getSecCRC,
	"GetKeyCRC":   getKeyCRC,
	"EditKey":     editKey,
	"EditKeyML":   editKeyML,
	"DelKey":      delKey,
	"EnableKey":   toggleKey(true),
	"DisableKey":  toggleKey(false),
	"RenSec":      renSec,
	"DelSec":      delSec,
	"AddSec":      addSec,
	"OverrideSec": overrideSec,
	"GetSave":     getSave,
	"PutSave":     putSave,
}

// argsN consumes n required arguments.
func (c *call) argsN(n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		v, err := c.arg()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *call) target() (editcfg.Target, error) {
	v, err := c.arg()
	if err != nil {
		return editcfg.Target{}, err
	}
	return editcfg.ParseTarget(v)
}

// ListSec <query> [file]: one hit is a plain "label @line" reply, several
// are encoded one per line.
func listSec(c *call) (Result, error) {
	q, err := c.arg()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	infos, err := ed.ListSections(q)
	if err != nil {
		return Result{}, err
	}
	lines := make([]string, len(infos))
	for i, s := range infos {
		lines[i] = fmt.Sprintf("%s @%d", s.Label, s.Line)
	}
	if len(lines) == 1 {
		return Result{Code: CodeString, Value: lines[0], Line: infos[0].Line}, nil
	}
	return c.encode(lines)
}

// GetKey <section> <key> [file]
func getKey(c *call) (Result, error) {
	a, err := c.argsN(2)
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	v, err := ed.GetKey(a[0], a[1])
	if err != nil {
		return Result{}, err
	}
	switch v := v.(type) {
	case editcfg.MultiLine:
		return c.encode(v.Lines)
	case editcfg.SingleLine:
		return Result{Code: CodeString, Value: v.Text}, nil
	default:
		return Result{}, fmt.Errorf("unexpected value %T", v)
	}
}

// GetSec <section|@line> [file]
func getSec(c *call) (Result, error) {
	t, err := c.target()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	raws, err := ed.GetSection(t)
	if err != nil {
		return Result{}, err
	}
	return c.encode(raws)
}

// GetSecCRC <section|@line> [file]
func getSecCRC(c *call) (Result, error) {
	t, err := c.target()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	crc, err := ed.SectionCRC(t)
	if err != nil {
		return Result{}, err
	}
	return Result{Code: CodeString, Value: crc}, nil
}

// GetKeyCRC <section> <key> [file]
func getKeyCRC(c *call) (Result, error) {
	a, err := c.argsN(2)
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	crc, err := ed.KeyCRC(a[0], a[1])
	if err != nil {
		return Result{}, err
	}
	return Result{Code: CodeString, Value: crc}, nil
}

// EditKey <section> <key> <value> [file]
func editKey(c *call) (Result, error) {
	a, err := c.argsN(3)
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.EditKey(a[0], a[1], a[2])
}

// EditKeyML <section> <key> <payload> [file]
func editKeyML(c *call) (Result, error) {
	a, err := c.argsN(2)
	if err != nil {
		return Result{}, err
	}
	body, err := c.payload()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.EditKeyMultiLine(a[0], a[1], body)
}

// DelKey <section> <key> [file]
func delKey(c *call) (Result, error) {
	a, err := c.argsN(2)
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.DeleteKey(a[0], a[1])
}

// EnableKey|DisableKey <section> <key> [file]
func toggleKey(active bool) handler {
	return func(c *call) (Result, error) {
		a, err := c.argsN(2)
		if err != nil {
			return Result{}, err
		}
		ed, err := c.open()
		if err != nil {
			return Result{}, err
		}
		return OK, ed.SetKeyActive(a[0], a[1], active)
	}
}

// RenSec <old> <new> [file]
func renSec(c *call) (Result, error) {
	a, err := c.argsN(2)
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.RenameSection(a[0], a[1])
}

// DelSec <section|@line> [file]
func delSec(c *call) (Result, error) {
	t, err := c.target()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.DeleteSection(t)
}

// AddSec <anchor> <payload> [file], anchor being ^, $ or a section.
func addSec(c *call) (Result, error) {
	v, err := c.arg()
	if err != nil {
		return Result{}, err
	}
	anchor, err := editcfg.ParseAnchor(v)
	if err != nil {
		return Result{}, err
	}
	block, err := c.payload()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.AddSection(anchor, block)
}

// OverrideSec <section|@line> <payload> [file]
func overrideSec(c *call) (Result, error) {
	t, err := c.target()
	if err != nil {
		return Result{}, err
	}
	block, err := c.payload()
	if err != nil {
		return Result{}, err
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.OverrideSection(t, block)
}

// GetSave [file]: the auto-generated block, empty when there is none.
func getSave(c *call) (Result, error) {
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	raws, err := ed.GetPersistence()
	if err != nil {
		return Result{}, err
	}
	if len(raws) == 0 {
		return Result{Code: CodeString}, nil
	}
	return c.encode(raws)
}

// PutSave <payload|-> [file]: "-" removes the block.
func putSave(c *call) (Result, error) {
	var raws []string
	if len(c.args) > 0 && c.args[0] == removeBlock {
		c.args = c.args[1:]
	} else {
		block, err := c.payload()
		if err != nil {
			return Result{}, err
		}
		raws = block
	}
	ed, err := c.open()
	if err != nil {
		return Result{}, err
	}
	return OK, ed.ReplacePersistence(raws)
}
