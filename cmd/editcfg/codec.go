package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/internal/codec"
)

func init() {
	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd())
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file|-]",
		Short: "Encode a block for the edit protocol",
		Long: `The encode command compresses and base64-encodes text so that it can be
passed to EditKeyML, AddSec, OverrideSec or PutSave as one argument.

Example:
  editcfg exec AddSec '$' "$(editcfg encode neopixel.cfg)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(args)
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload|->",
		Short: "Decode a protocol payload",
		Long: `The decode command reverses encode. Both bzip2 and zstd payloads are
recognized. A leading "*" from a protocol reply is ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args)
		},
	}
}

func runEncode(args []string) error {
	src := "-"
	if len(args) > 0 {
		src = args[0]
	}
	lines, err := readInput(src)
	if err != nil {
		return err
	}
	c, err := newCodec()
	if err != nil {
		return err
	}
	out, err := c.Encode(codec.Terminate(lines))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runDecode(args []string) error {
	payload := args[0]
	if payload == "-" {
		lines, err := readInput("-")
		if err != nil {
			return err
		}
		payload = strings.Join(lines, "")
	}
	entries, err := codec.Decode(strings.TrimPrefix(strings.TrimSpace(payload), "*"))
	if err != nil {
		return err
	}
	lines := codec.Strip(entries)
	if ok, err := printStructured(lines); ok {
		return err
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}
