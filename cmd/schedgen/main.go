package main

import (
	"log/slog"
	"os"

	"github.com/retailops/shiftsched/adapter/cli"
	"github.com/retailops/shiftsched/adapter/cli/schedule"
	"github.com/retailops/shiftsched/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	cli.AddCommand(schedule.Cmd)
	cli.Execute()
}
