package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oneworldlabs/oneworld/internal/config"
	"github.com/oneworldlabs/oneworld/internal/version"
)

// setupLogger builds the process-wide text logger. Runs before config
// loads, so the debug toggle comes straight from the environment.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "🌍 OneWorld %s - Telegram Game Hub\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Game hub:   http://%s/webapp/\n", cfg.WebAppAddr)
	fmt.Fprintf(os.Stderr, "Health:     http://%s/healthz\n", cfg.WebAppAddr)
	fmt.Fprintf(os.Stderr, "Metrics:    http://%s/metrics\n", cfg.WebAppAddr)
	fmt.Fprintf(os.Stderr, "Database:   %s\n", cfg.DBPath)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
