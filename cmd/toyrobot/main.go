package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fentz26/toyrobot/internal/config"
	"github.com/fentz26/toyrobot/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "toyrobot",
	Short: "Toy Robot - drive a robot around a wrapping board",
	Long: `toyrobot simulates a robot on a square board with walls. Play it in the
terminal, feed it command files, or serve it over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	v          = viper.New()
	cfg        = config.Default()
	configPath string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.toyrobot/config.yaml)")
	flags.Int("board-size", cfg.BoardSize, "Side length of the board")
	flags.String("api", cfg.API, "API server address")
	flags.String("audit-db", "", "Path to the SQLite audit journal (empty disables it)")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-file", "", `Log file ("-" discards logs)`)

	bindFlag(flags.Lookup("board-size"), "board_size")
	bindFlag(flags.Lookup("api"), "api")
	bindFlag(flags.Lookup("audit-db"), "audit_db")
	bindFlag(flags.Lookup("log-level"), "log_level")
	bindFlag(flags.Lookup("log-file"), "log_file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sendCmd, stateCmd, auditCmd, statusCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(configCmd)
}

// bindFlag makes a flag the highest-precedence source for key.
func bindFlag(f *pflag.Flag, key string) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves settings and configures logging before any
// subcommand runs. play overrides the log destination itself.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	logFile := cfg.LogFile
	if cmd.Name() == "play" && logFile == "" {
		logFile = "-"
	}
	if err := logger.Configure(cfg.LogLevel, logFile); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	logger.Debug("config loaded", "file", v.ConfigFileUsed(), "board_size", cfg.BoardSize)
	return nil
}
