package main

import (
	"context"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/telemetry"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	conf       *config.Config

	shutdownTelemetry telemetry.ShutdownFunc = func(context.Context) error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "tictactoe",
	Short: "Tic-tac-toe against a computer that never loses",
	Long: `tictactoe plays noughts and crosses in the terminal. The computer searches
the whole game tree on every move, so the best you can do is draw.

Environment variables:
` + config.Usage(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		conf = c

		if _, err := logger.Init(cmd.ErrOrStderr(), conf.LogLevel, conf.LogFormat); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		shutdown, err := telemetry.Init(cmd.Context(), conf.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		shutdownTelemetry = shutdown
		return nil
	},
}

// Execute runs the root command and flushes telemetry before exiting.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if serr := shutdownTelemetry(shutdownCtx); serr != nil {
		slog.Error("Error shutting down telemetry", "error", serr)
	}
	cancel()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}
