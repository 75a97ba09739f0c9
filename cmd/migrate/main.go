package main

import (
	"log/slog"
	"os"

	"github.com/newsportal-dev/wxr-migrate/app/cfg"
	"github.com/newsportal-dev/wxr-migrate/app/content"
	"github.com/newsportal-dev/wxr-migrate/app/database"
	"github.com/newsportal-dev/wxr-migrate/app/migrate"
	"github.com/newsportal-dev/wxr-migrate/app/wxr"
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

	if err := appCfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting migration", "version", appCfg.Version,
		"files", len(appCfg.SourceFiles), "dry_run", appCfg.DryRun)

	var articleStore database.ArticleStore
	var categoryStore database.CategoryStore

	if !appCfg.DryRun {
		db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort,
			appCfg.DBUser, appCfg.DBPassword, appCfg.DBName, appCfg.DBSSLMode)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database ready", "schema_version", version, "dirty", dirty)

		articleStore = database.NewArticleRepository(db)
		categoryStore = database.NewCategoryRepository(db)
	}

	slugs := content.NewSlugSet()
	resolver := content.NewCategoryResolver(categoryStore, content.ResolverOptions{
		DefaultCategoryID: appCfg.DefaultCategoryID,
		BlogID:            appCfg.BlogID,
		AutoCreate:        appCfg.AutoCreateCategories,
		DryRun:            appCfg.DryRun,
	})
	transformer := content.NewTransformer(resolver, slugs, content.TransformerOptions{
		AuthorID:        appCfg.AuthorID,
		BlogID:          appCfg.BlogID,
		CleanShortcodes: appCfg.CleanShortcodes,
	})

	pipeline := migrate.NewPipeline(wxr.NewReader(), transformer, slugs, articleStore, migrate.PipelineOptions{
		SourceFiles: appCfg.SourceFiles,
		DryRun:      appCfg.DryRun,
		Loader: migrate.LoaderOptions{
			BatchSize:   appCfg.BatchSize,
			Concurrency: appCfg.MaxConcurrentBatches,
			DryRun:      appCfg.DryRun,
		},
	})

	// Item-level failures are absorbed into counters and the error log; a
	// run only fails on orchestration errors.
	if err := pipeline.Run(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	pipeline.PrintSummary()
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
