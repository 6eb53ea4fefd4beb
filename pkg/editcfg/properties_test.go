package editcfg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/joshuapare/cfgkit/internal/writer"
)

func properties(seed int64) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(seed)
	parameters.MinSuccessfulTests = 50
	return gopter.NewProperties(parameters)
}

func load(text string, opts *Options) (*Editor, *writer.MemStore, error) {
	store := writer.NewMemStore([]byte(text))
	e := New(store, opts)
	return e, store, e.Load()
}

func TestEditKeyProperties(t *testing.T) {
	props := properties(1357)

	props.Property("repeating an edit writes nothing", prop.ForAll(
		func(v string) bool {
			e, store, err := load(printerCfg, &Options{AutoSave: true})
			if err != nil || e.EditKey("stepper_x", "step_pin", v) != nil {
				return false
			}
			writes, first := store.Writes, string(e.Bytes())
			if e.EditKey("stepper_x", "step_pin", v) != nil {
				return false
			}
			got, err := e.GetKey("stepper_x", "step_pin")
			return err == nil &&
				got == SingleLine{Text: v} &&
				store.Writes == writes &&
				string(e.Bytes()) == first &&
				e.Len() == 31 &&
				e.buf.Positions()
		},
		gen.RegexMatch(`^[A-Z!^][A-Z0-9_.]{0,6}$`),
	))

	props.Property("disable then enable restores the file", prop.ForAll(
		func(key string) bool {
			e, _, err := load(printerCfg, nil)
			if err != nil {
				return false
			}
			if e.SetKeyActive("stepper_x", key, false) != nil || e.SetKeyActive("stepper_x", key, true) != nil {
				return false
			}
			return string(e.Bytes()) == printerCfg
		},
		gen.OneConstOf("step_pin", "dir_pin", "enable_pin"),
	))

	props.Property("disable then enable restores a macro body", prop.ForAll(
		func(body []string) bool {
			text := "[gcode_macro park]\ngcode:\n" + strings.Join(body, "\n") + "\n  M400\n# next up\n[printer]\nkinematics: none\n"
			e, _, err := load(text, nil)
			if err != nil {
				return false
			}
			if e.SetKeyActive("gcode_macro park", "gcode", false) != nil {
				return false
			}
			if _, err := e.GetKey("gcode_macro park", "gcode"); err == nil {
				return false
			}
			if e.SetKeyActive("gcode_macro park", "gcode", true) != nil {
				return false
			}
			return string(e.Bytes()) == text
		},
		gen.SliceOfN(5, gen.OneConstOf("  G28", "  # home", "#  M117 old", "#   heat the bed", "", "  G1 X10 Y10", "\tM84")),
	))

	props.TestingRun(t)
}

func TestStructureProperties(t *testing.T) {
	props := properties(2468)

	props.Property("multi-line insert shifts later sections", prop.ForAll(
		func(n int) bool {
			e, _, err := load(printerCfg, nil)
			if err != nil {
				return false
			}
			body := make([]string, n)
			for i := range body {
				body[i] = fmt.Sprintf("  SET_PIN PIN=p%d VALUE=1", i)
			}
			if e.EditKeyMultiLine("mcu", "notes", body) != nil {
				return false
			}
			hits, err := e.ListSections("stepper_x")
			return err == nil && hits[0].Line == 10+n+1 && e.buf.Positions()
		},
		gen.IntRange(1, 8),
	))

	props.Property("added sections stay above the persistence block", prop.ForAll(
		func(names []string) bool {
			e, _, err := load(printerCfg, nil)
			if err != nil {
				return false
			}
			for _, name := range names {
				// A repeated name is refused and leaves the file as it was.
				_ = e.AddSection(Last(), []string{"[neopixel " + name + "]", "pin: PB0"})
			}
			p := e.layout.Persistence
			if p == nil || p.End != e.Len() {
				return false
			}
			for _, g := range e.layout.Groups {
				if g != p && g.End >= p.Lead {
					return false
				}
			}
			return e.buf.Positions()
		},
		gen.SliceOfN(4, gen.Identifier()),
	))

	props.TestingRun(t)
}
