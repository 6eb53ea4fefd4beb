package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newRenameCmd()
	rootCmd.AddCommand(cmd)
}

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <section> <new-label>",
		Short: "Rename a section",
		Long: `The rename command rewrites the header of every region of a section.

Example:
  editcfg rename "gcode_macro park" "gcode_macro park_head"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(args)
		},
	}
	return cmd
}

func runRename(args []string) error {
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.RenameSection(args[0], args[1]); err != nil {
		return err
	}
	return saved(ed, "renamed "+args[0])
}
