package main

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := newDelKeyCmd()
	rootCmd.AddCommand(cmd)
}

func newDelKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del-key <section> <key>",
		Short: "Delete a key",
		Long: `The del-key command removes a key, and the body of a multi-line key.

Example:
  editcfg del-key extruder pressure_advance`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelKey(args)
		},
	}
	return cmd
}

func runDelKey(args []string) error {
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.DeleteKey(args[0], args[1]); err != nil {
		return err
	}
	return saved(ed, "deleted "+args[0]+"."+args[1])
}
