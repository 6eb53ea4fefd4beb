package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

func init() {
	cmd := newOverrideSecCmd()
	rootCmd.AddCommand(cmd)
}

func newOverrideSecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override-sec <section|@line> [file|-]",
		Short: "Replace a section with a block",
		Long: `The override-sec command replaces a section, and the comments directly
above it, with a block read from a file or stdin.

Example:
  editcfg override-sec bltouch probe.cfg`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverrideSec(args)
		},
	}
	return cmd
}

func runOverrideSec(args []string) error {
	t, err := editcfg.ParseTarget(args[0])
	if err != nil {
		return err
	}
	src := "-"
	if len(args) > 1 {
		src = args[1]
	}
	block, err := readInput(src)
	if err != nil {
		return err
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.OverrideSection(t, block); err != nil {
		return err
	}
	return saved(ed, "replaced "+t.String())
}
