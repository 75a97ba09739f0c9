package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsportal-dev/wxr-migrate/app/backfill"
	"github.com/newsportal-dev/wxr-migrate/app/cfg"
	"github.com/newsportal-dev/wxr-migrate/app/database"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Configuration error", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg.Debug)

	if err := appCfg.ValidateBackfill(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting image backfill", "version", appCfg.Version,
		"site", appCfg.SiteBaseURL, "dry_run", appCfg.DryRun)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort,
		appCfg.DBUser, appCfg.DBPassword, appCfg.DBName, appCfg.DBSSLMode)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	extraSelectors, err := backfill.LoadSelectors(appCfg.SelectorsFile)
	if err != nil {
		slog.Error("Failed to load selectors file", "file", appCfg.SelectorsFile, "error", err)
		os.Exit(1)
	}

	worker := backfill.NewWorker(
		database.NewArticleRepository(db),
		backfill.NewFetcher(appCfg.UserAgent),
		backfill.NewExtractor(extraSelectors),
		backfill.WorkerOptions{
			SiteBaseURL: appCfg.SiteBaseURL,
			DryRun:      appCfg.DryRun,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil {
		slog.Error("Backfill failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
