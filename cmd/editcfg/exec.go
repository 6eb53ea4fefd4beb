package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/cfgkit/internal/command"
)

func init() {
	cmd := newExecCmd()
	rootCmd.AddCommand(cmd)
}

func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command> [args...] [file]",
		Short: "Run one edit protocol command",
		Long: `The exec command runs a single edit protocol command and prints its
one-line reply: "." for success, "=value" for plain text, "*payload" for an
encoded block and "!CODE line" for failures.

Commands: ` + strings.Join(command.Names(), ", ") + `

When the last argument is not a file, --file is edited.

Example:
  editcfg exec GetKey stepper_x step_pin
  editcfg exec EditKey stepper_x rotation_distance 40 printer.cfg
  editcfg exec ListSec 'stepper_*' --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(args)
		},
	}
	return cmd
}

func runExec(args []string) error {
	c, err := newCodec()
	if err != nil {
		return err
	}
	res := command.Run(args, &command.Options{
		Codec:       c,
		Backup:      viper.GetBool("backup"),
		DefaultPath: targetPath(),
	})

	if ok, err := printStructured(res); ok {
		return err
	}
	fmt.Println(res.String())
	return nil
}
