package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/controlplane"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of toyrobot",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "toyrobot version %s\n", controlplane.Version)
	fmt.Fprintf(out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
}
