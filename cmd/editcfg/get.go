package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

func init() {
	cmd := newGetCmd()
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <section> [key]",
		Short: "Print a key value or a whole section",
		Long: `The get command prints the value of a key. Multi-line values are printed
one line each, as stored. Without a key the raw section is printed.

Example:
  editcfg get stepper_x step_pin
  editcfg get "gcode_macro start_print" gcode
  editcfg get @42`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	ed, err := openEditor()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		t, err := editcfg.ParseTarget(args[0])
		if err != nil {
			return err
		}
		lines, err := ed.GetSection(t)
		if err != nil {
			return err
		}
		if ok, err := printStructured(map[string]any{"section": t.String(), "lines": lines}); ok {
			return err
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	}

	section, key := args[0], args[1]
	v, err := ed.GetKey(section, key)
	if err != nil {
		return err
	}
	var lines []string
	switch v := v.(type) {
	case editcfg.SingleLine:
		lines = []string{v.Text}
	case editcfg.MultiLine:
		lines = v.Lines
	}

	if ok, err := printStructured(map[string]any{
		"section":   section,
		"key":       key,
		"multiLine": isMulti(v),
		"value":     lines,
	}); ok {
		return err
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func isMulti(v editcfg.Value) bool {
	_, ok := v.(editcfg.MultiLine)
	return ok
}
