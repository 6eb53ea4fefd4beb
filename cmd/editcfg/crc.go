package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

func init() {
	cmd := newCRCCmd()
	rootCmd.AddCommand(cmd)
}

func newCRCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crc <section|@line> [key]",
		Short: "Print the checksum of a section or key",
		Long: `The crc command prints an 8-digit hex checksum. Comments, spacing and
key order inside a section do not change a section checksum, so it tells
whether a section's settings changed between two reads.

Example:
  editcfg crc stepper_x
  editcfg crc stepper_x rotation_distance`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCRC(args)
		},
	}
	return cmd
}

func runCRC(args []string) error {
	ed, err := openEditor()
	if err != nil {
		return err
	}

	var sum string
	if len(args) == 2 {
		sum, err = ed.KeyCRC(args[0], args[1])
	} else {
		var t editcfg.Target
		if t, err = editcfg.ParseTarget(args[0]); err == nil {
			sum, err = ed.SectionCRC(t)
		}
	}
	if err != nil {
		return err
	}

	if ok, err := printStructured(map[string]string{"target": args[0], "crc": sum}); ok {
		return err
	}
	fmt.Println(sum)
	return nil
}
