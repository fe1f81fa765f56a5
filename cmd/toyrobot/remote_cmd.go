package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/models"
)

var sendCmd = &cobra.Command{
	Use:   "send <command...>",
	Short: "Send one command to a running daemon",
	Example: `  toyrobot send PLACE_ROBOT 1,2,EAST
  toyrobot send move
  toyrobot send REPORT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the board and history of a running daemon",
	Args:  cobra.NoArgs,
	RunE:  runState,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List the audit journal of a running daemon",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that a daemon is up",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var (
	auditLimit   int
	auditOutcome string
	auditSession string
)

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "Maximum records to show")
	auditCmd.Flags().StringVar(&auditOutcome, "outcome", "", "Filter by outcome (applied, ignored, rejected)")
	auditCmd.Flags().StringVar(&auditSession, "session", "", "Session ID (default: the daemon's current session)")
}

func runSend(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/commands", controlplane.CommandRequest{Command: strings.Join(args, " ")})
	if err != nil {
		return err
	}

	var entry models.HistoryEntry
	if err := json.Unmarshal(resp, &entry); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if entry.Result != "" {
		fmt.Fprintln(out, entry.Result)
		return nil
	}
	fmt.Fprintf(out, "#%d %s\n", entry.Seq, entry.Text)
	return nil
}

func runState(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/state")
	if err != nil {
		return err
	}

	var st models.State
	if err := json.Unmarshal(resp, &st); err != nil {
		return err
	}
	printState(cmd.OutOrStdout(), st)
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(auditLimit))
	if auditOutcome != "" {
		q.Set("outcome", auditOutcome)
	}
	if auditSession != "" {
		q.Set("session", auditSession)
	}

	resp, err := apiGet("/audit?" + q.Encode())
	if err != nil {
		return err
	}

	var records []models.AuditRecord
	if err := json.Unmarshal(resp, &records); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEQ\tOUTCOME\tCOMMAND\tRESULT\tHASH")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID), r.Seq, r.Outcome, truncate(r.Command, 32), r.Result, truncateID(r.InputsHash))
	}
	return w.Flush()
}

func runStatus(cmd *cobra.Command, args []string) error {
	health, err := CheckHealth()
	if health != nil {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Daemon:  %s\nVersion: %s\nJournal: %s\nTime:    %s\n",
			cfg.API, health.Version, health.DB, health.Time)
		if health.DB == "ok" {
			fmt.Fprintf(out, "Session: %d applied, %d ignored, %d rejected\n",
				health.Commands[models.OutcomeApplied],
				health.Commands[models.OutcomeIgnored],
				health.Commands[models.OutcomeRejected])
		}
	}
	return err
}

// printState writes a plain-text board, the robot and the history.
func printState(out io.Writer, st models.State) {
	for y := st.Size; y >= 1; y-- {
		fmt.Fprintf(out, "%2d ", y)
		for x := 1; x <= st.Size; x++ {
			fmt.Fprintf(out, " %c", cellRune(st, models.Position{X: x, Y: y}))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, "   ")
	for x := 1; x <= st.Size; x++ {
		fmt.Fprintf(out, " %d", x%10)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	if st.Robot != nil {
		fmt.Fprintf(out, "Robot: %s\n", st.Robot.Report())
	} else {
		fmt.Fprintln(out, "Robot: not placed")
	}

	if len(st.History) == 0 {
		return
	}
	fmt.Fprintln(out, "\nHistory:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range st.History {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", e.Seq, e.Text, e.Result)
	}
	w.Flush()
}

func cellRune(st models.State, pos models.Position) rune {
	switch st.CellAt(pos) {
	case models.Wall:
		return '#'
	case models.Robot:
		if st.Robot != nil {
			return []rune("^>v<")[st.Robot.Direction]
		}
		return 'R'
	}
	return '.'
}

// --- Helpers ---

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
