package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listInactive bool

func init() {
	cmd := newListCmd()
	cmd.Flags().BoolVar(&listInactive, "all", false, "Include commented-out sections")
	rootCmd.AddCommand(cmd)
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List sections",
		Long: `The list command prints every section matching a glob pattern with
the line of its header. Without a pattern every section is listed.

Example:
  editcfg list
  editcfg list 'stepper_*'
  editcfg list --all --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
	return cmd
}

func runList(args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	ed, err := openEditor()
	if err != nil {
		return err
	}
	all, err := ed.ListSections(query)
	if err != nil {
		return err
	}
	sections := all[:0:0]
	for _, s := range all {
		if s.Active || listInactive {
			sections = append(sections, s)
		}
	}

	if ok, err := printStructured(sections); ok {
		return err
	}
	for _, s := range sections {
		mark := ""
		if !s.Active {
			mark = " (inactive)"
		}
		fmt.Printf("%-32s @%d%s\n", "["+s.Label+"]", s.Line, mark)
	}
	printVerbose("\n%d section(s)\n", len(sections))
	return nil
}
