package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newSetMLCmd()
	rootCmd.AddCommand(cmd)
}

func newSetMLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-ml <section> <key> [file|-]",
		Short: "Set a multi-line key from a file or stdin",
		Long: `The set-ml command replaces the body of a multi-line key such as a macro's
gcode. Body lines must be indented. A leading "key:" line is accepted and
renamed to <key>.

Example:
  editcfg set-ml "gcode_macro start_print" gcode body.txt
  printf '  G28\n  G1 Z10\n' | editcfg set-ml "gcode_macro park" gcode`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetML(args)
		},
	}
	return cmd
}

func runSetML(args []string) error {
	section, key := args[0], args[1]
	src := "-"
	if len(args) == 3 {
		src = args[2]
	}
	body, err := readInput(src)
	if err != nil {
		return err
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.EditKeyMultiLine(section, key, body); err != nil {
		return err
	}
	return saved(ed, "set "+section+"."+key)
}
