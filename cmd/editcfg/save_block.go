package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "save-block",
		Short: "Read or replace the SAVE_CONFIG block",
		Long: `The save-block commands handle the "#*#" block Klipper's SAVE_CONFIG
appends to the end of printer.cfg.`,
	}
	cmd.AddCommand(newSaveBlockGetCmd(), newSaveBlockPutCmd(), newSaveBlockClearCmd())
	rootCmd.AddCommand(cmd)
}

func newSaveBlockGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaveBlockGet()
		},
	}
}

func newSaveBlockPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put [file|-]",
		Short: "Replace the block, adding it when missing",
		Long: `Every line read must start with "#*#".

Example:
  editcfg save-block put saved.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaveBlockPut(args)
		},
	}
}

func newSaveBlockClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaveBlockClear()
		},
	}
}

func runSaveBlockGet() error {
	ed, err := openEditor()
	if err != nil {
		return err
	}
	lines, err := ed.GetPersistence()
	if err != nil {
		return err
	}
	if ok, err := printStructured(map[string]any{"present": lines != nil, "lines": lines}); ok {
		return err
	}
	if lines == nil {
		printVerbose("No SAVE_CONFIG block\n")
		return nil
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

func runSaveBlockPut(args []string) error {
	src := "-"
	if len(args) > 0 {
		src = args[0]
	}
	lines, err := readInput(src)
	if err != nil {
		return err
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.ReplacePersistence(lines); err != nil {
		return err
	}
	return saved(ed, "replaced SAVE_CONFIG block")
}

func runSaveBlockClear() error {
	ed, err := openEditor()
	if err != nil {
		return err
	}
	if err := ed.ReplacePersistence(nil); err != nil {
		return err
	}
	return saved(ed, "removed SAVE_CONFIG block")
}
