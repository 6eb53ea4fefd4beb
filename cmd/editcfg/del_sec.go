package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

func init() {
	cmd := newDelSecCmd()
	rootCmd.AddCommand(cmd)
}

func newDelSecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del-sec <section|@line>",
		Short: "Delete a section",
		Long: `The del-sec command removes a section together with the comment lines
directly above its header.

Example:
  editcfg del-sec neopixel
  editcfg del-sec @120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelSec(args)
		},
	}
	return cmd
}

func runDelSec(args []string) error {
	t, err := editcfg.ParseTarget(args[0])
	if err != nil {
		return err
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.DeleteSection(t); err != nil {
		return err
	}
	return saved(ed, "deleted "+t.String())
}
