package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

var addSecAt string

func init() {
	cmd := newAddSecCmd()
	cmd.Flags().StringVar(&addSecAt, "at", "$", `Insert point: "^" first, "$" last, or a section to follow`)
	rootCmd.AddCommand(cmd)
}

func newAddSecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-sec [file|-]",
		Short: "Insert a section block",
		Long: `The add-sec command inserts one or more sections read from a file or
stdin. The block must open with a header; comments may precede it. Nothing
is ever placed below the auto-generated SAVE_CONFIG block.

Example:
  editcfg add-sec neopixel.cfg
  editcfg add-sec --at stepper_z < probe.cfg
  editcfg add-sec --at ^ includes.cfg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddSec(args)
		},
	}
	return cmd
}

func runAddSec(args []string) error {
	a, err := editcfg.ParseAnchor(addSecAt)
	if err != nil {
		return err
	}
	src := "-"
	if len(args) > 0 {
		src = args[0]
	}
	block, err := readInput(src)
	if err != nil {
		return err
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.AddSection(a, block); err != nil {
		return err
	}
	return saved(ed, "added section")
}
