package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newSetCmd()
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Set a single-line key",
		Long: `The set command rewrites a key in place, keeping its separator and any
inline comment. A key the section lacks is added after its last key.

Example:
  editcfg set stepper_x rotation_distance 40
  editcfg set extruder pressure_advance 0.045 --backup`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func runSet(args []string) error {
	section, key, value := args[0], args[1], args[2]
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.EditKey(section, key, value); err != nil {
		return err
	}
	return saved(ed, "set "+section+"."+key)
}
