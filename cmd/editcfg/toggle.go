package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newToggleCmd(true), newToggleCmd(false))
}

func newToggleCmd(active bool) *cobra.Command {
	use, short, verb := "enable", "Uncomment a key", "enabled"
	if !active {
		use, short, verb = "disable", "Comment a key out", "disabled"
	}
	cmd := &cobra.Command{
		Use:   use + " <section> <key>",
		Short: short,
		Long: `The enable and disable commands comment a key out with "#" or bring a
commented-out key back. Multi-line bodies follow their key.

Example:
  editcfg disable bed_mesh fade_end
  editcfg enable bed_mesh fade_end`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args, active, verb)
		},
	}
	return cmd
}

func runToggle(args []string, active bool, verb string) error {
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.SetKeyActive(args[0], args[1], active); err != nil {
		return err
	}
	return saved(ed, verb+" "+args[0]+"."+args[1])
}
