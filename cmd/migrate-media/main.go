// Package main is the one-shot migration tool that moves legacy flat-file
// media into the asset store: for every media row without an asset link it
// generates the responsive conversions and records the asset, leaving the
// original file in place. Safe to re-run; already-linked rows are not
// touched.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/resonoraudio/resonora/internal/config"
	"github.com/resonoraudio/resonora/internal/database"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
	"github.com/resonoraudio/resonora/internal/plugins/media"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewMariaDB(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MariaDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Ctrl-C stops after the in-flight record; the tool can be re-run.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assetRepo := assetstore.NewAssetRepository(db)
	store := assetstore.NewStore(assetRepo, cfg.Storage.Root)
	mediaRepo := media.NewMediaRepository(db)

	migrator := media.NewMigrator(db, mediaRepo, store, cfg.Storage.Root)

	summary, err := migrator.Run(ctx)
	if err != nil {
		slog.Error("migration aborted", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("migration finished",
		slog.Int("total", summary.Total),
		slog.Int("migrated", summary.Migrated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
