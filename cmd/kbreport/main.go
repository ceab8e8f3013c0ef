// Package main is the entry point for the kbreport CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kbreport/internal/agent"
	"kbreport/internal/backend/huggingface"
	"kbreport/internal/backend/kanboard"
	"kbreport/internal/cli"
	"kbreport/internal/commands"
	"kbreport/internal/config"
	"kbreport/internal/logging"
	"kbreport/internal/mail"
	"kbreport/internal/report"
	"kbreport/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create runner factory wiring the real backends
	factory := func(ctx context.Context, cfg *config.Config) (*agent.Runner, error) {
		logger := newLogger(cfg)

		source := kanboard.New(cfg.Kanboard, logger)
		summarizer := huggingface.New(cfg.HuggingFace, logger)
		writer := report.NewFileWriter(cfg.OutputPath, logger)

		var notifier service.Notifier
		if cfg.Email.Enabled {
			notifier = mail.New(cfg.Email, logger)
		}

		return agent.New(cfg, source, summarizer, writer, notifier, logger), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newLogger builds the run logger from config and CLI flags.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Quiet {
		return logging.Discard()
	}
	level := cfg.LogLevel
	if cfg.Debug {
		level = logging.LevelDebug
	}
	return logging.New(os.Stderr, level)
}
