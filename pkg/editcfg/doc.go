/*
Package editcfg edits printer.cfg style configuration files in place.

# Quick Start

Change one key and save:

	ed, err := editcfg.Open("printer.cfg", nil)
	if err != nil {
	    log.Fatal(err)
	}
	if err := ed.EditKey("stepper_x", "step_pin", "PC15"); err != nil {
	    log.Fatal(err)
	}
	err = ed.Save()

# Format Preservation

Every line the edit does not touch is written back byte for byte. A value
edit keeps the separator spacing and any inline comment:

	step_pin: PC14   # X step    ->    step_pin: PC15   # X step

# Sections

Section queries are whitespace separated tokens with shell-style globs.
"*" matches every section. Tokens after the first compare without regard
to case, and the token after gcode_macro is stored upper-cased:

	ed.ListSections("stepper_*")
	ed.GetKey("gcode_macro start_print", "gcode")

A label may appear in several places of a file. Those regions fold into
one logical section; edits that need a single region fail with
types.ErrSectionAmbiguous when more than one region is active.

# Auto-generated Block

The block that starts at the first "#*#" line stays the last material in
the file. AddSection never inserts after it, and ReplacePersistence
rewrites it in place.

# Error Handling

All failures are *types.Error values; compare with errors.Is:

	if errors.Is(err, types.ErrKeyNotFound) {
	    // ...
	}

A failed edit leaves the loaded content unchanged.
*/
package editcfg
