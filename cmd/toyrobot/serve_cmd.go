package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/toyrobot/internal/controlplane"
	"github.com/fentz26/toyrobot/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the toyrobot HTTP daemon",
	Long:  `Starts a daemon that hosts one robot session and exposes it over an HTTP API.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", cfg.Listen, "Listen address for the API server")
	bindFlag(serveCmd.Flags().Lookup("listen"), "listen")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Starting toyrobot daemon...", "listen", cfg.Listen, "size", cfg.BoardSize)

	service, st, err := openSession()
	if err != nil {
		return err
	}

	server := controlplane.NewServer(service, st, cfg.Listen)

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		logger.Info("Received signal, initiating graceful shutdown...", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "err", err)
			closeStore(st)
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}

	closeStore(st)
	logger.Info("Shutdown complete", "commands", len(service.History()))
	return nil
}
