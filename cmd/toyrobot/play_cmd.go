package main

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/config"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Launch the interactive board",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

var (
	playRemote  bool
	playNoSpawn bool
)

func init() {
	playCmd.Flags().BoolVar(&playRemote, "remote", false, "Drive the session of a toyrobot daemon at --api")
	playCmd.Flags().BoolVar(&playNoSpawn, "no-spawn", false, "With --remote, fail instead of starting a daemon")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !playRemote {
		service, st, err := openSession()
		if err != nil {
			return err
		}
		defer closeStore(st)

		app := tui.New(tui.NewLocalSession(service), fmt.Sprintf("local %dx%d", cfg.BoardSize, cfg.BoardSize))
		if err := app.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	client := tui.NewClient(cfg.API)
	if !isDaemonRunning(client) {
		if playNoSpawn {
			return fmt.Errorf("no toyrobot daemon at %s", cfg.API)
		}
		fmt.Println("⚡ toyrobot daemon not running. Starting background service...")
		if err := startDaemon(client); err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}
	}

	app := tui.New(client, cfg.API)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func isDaemonRunning(client *tui.Client) bool {
	h, err := client.Health()
	return err == nil && h.OK
}

// startDaemon launches "toyrobot serve" detached from this terminal, listening
// on the host of --api, and waits for it to answer.
func startDaemon(client *tui.Client) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	u, err := url.Parse(cfg.API)
	if err != nil || u.Host == "" {
		return fmt.Errorf("cannot derive listen address from %q", cfg.API)
	}

	args := []string{
		"serve",
		"--listen", u.Host,
		"--board-size", fmt.Sprint(cfg.BoardSize),
		"--log-file", filepath.Join(config.Dir(), "serve.log"),
	}
	if cfg.AuditDB != "" {
		args = append(args, "--audit-db", cfg.AuditDB)
	}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}

	if err := os.MkdirAll(config.Dir(), 0755); err != nil {
		return err
	}

	daemon := exec.Command(exe, args...)
	detach(daemon)
	daemon.Stdin = nil
	daemon.Stdout = nil
	daemon.Stderr = nil

	if err := daemon.Start(); err != nil {
		return err
	}
	logger.Debug("daemon started", "pid", daemon.Process.Pid, "listen", u.Host)

	fmt.Print("   Waiting for daemon...")
	for i := 0; i < 20; i++ {
		if isDaemonRunning(client) {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("daemon started but API not reachable at %s", cfg.API)
}
