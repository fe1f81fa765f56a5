package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run commands from a file or stdin",
	Long: `Reads one command per line and prints every REPORT result. Blank lines and
lines starting with # are skipped. Lines that fail to decode are reported on
stderr and the run continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatchCmd,
}

var runStrict bool

func init() {
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Exit non-zero when any line fails to decode")
}

// batchStats summarises a batch run.
type batchStats struct {
	Executed int
	Rejected int
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	service, st, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore(st)

	stats, err := runBatch(service, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.Debug("batch finished", "executed", stats.Executed, "rejected", stats.Rejected)

	if runStrict && stats.Rejected > 0 {
		return fmt.Errorf("%d line(s) failed to decode", stats.Rejected)
	}
	return nil
}

// runBatch executes each line of in against service. REPORT results go to
// out, decode failures to errOut.
func runBatch(service *controlplane.Service, in io.Reader, out, errOut io.Writer) (batchStats, error) {
	var stats batchStats
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := service.ExecuteText(line)
		if err != nil {
			stats.Rejected++
			fmt.Fprintf(errOut, "line %d: %v\n", lineNo, err)
			continue
		}
		stats.Executed++
		if entry.Result != "" {
			fmt.Fprintln(out, entry.Result)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read commands: %w", err)
	}
	return stats, nil
}
