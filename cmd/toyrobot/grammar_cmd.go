package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/tui"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print the command reference",
	Args:  cobra.NoArgs,
	RunE:  runGrammar,
}

var grammarRaw bool

func init() {
	grammarCmd.Flags().BoolVar(&grammarRaw, "raw", false, "Print the Markdown source")
}

func runGrammar(cmd *cobra.Command, args []string) error {
	if grammarRaw {
		fmt.Fprint(cmd.OutOrStdout(), tui.Reference)
		return nil
	}
	out, err := tui.RenderReference(80)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
