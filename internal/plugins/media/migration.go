package media

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// Migrator moves legacy flat-file media records into the asset store. It is a
// one-time batch tool (cmd/migrate-media); records that already carry an
// asset link are never touched.
type Migrator struct {
	db     *sql.DB
	repo   MediaRepository
	assets assetstore.Store
	root   string
}

// NewMigrator creates a legacy media migrator.
func NewMigrator(db *sql.DB, repo MediaRepository, assets assetstore.Store, storageRoot string) *Migrator {
	return &Migrator{db: db, repo: repo, assets: assets, root: storageRoot}
}

// MigrationSummary counts the outcome of one migration run.
type MigrationSummary struct {
	Total    int // Unlinked records considered.
	Migrated int
	Skipped  int // Missing file or non-image type.
	Failed   int
}

// Run migrates every media record without an asset link. Each record gets its
// own transaction; a failure rolls back that record only, is logged with the
// record ID, and the batch moves on. Missing files and non-image types are
// skipped, not failed.
func (m *Migrator) Run(ctx context.Context) (MigrationSummary, error) {
	items, err := m.repo.ListUnlinked(ctx)
	if err != nil {
		return MigrationSummary{}, err
	}

	summary := MigrationSummary{Total: len(items)}
	for i := range items {
		item := &items[i]

		diskPath := m.diskPath(item.Path)
		if _, err := os.Stat(diskPath); err != nil {
			slog.Warn("skipping media record, file missing",
				slog.Int64("id", item.ID),
				slog.String("path", item.Path),
			)
			summary.Skipped++
			continue
		}
		if !strings.HasPrefix(item.MimeType, "image/") {
			slog.Info("skipping non-image media record",
				slog.Int64("id", item.ID),
				slog.String("mime_type", item.MimeType),
			)
			summary.Skipped++
			continue
		}

		if err := m.migrateOne(ctx, item, diskPath); err != nil {
			slog.Error("migrating media record failed",
				slog.Int64("id", item.ID),
				slog.Any("error", err),
			)
			summary.Failed++
			continue
		}
		summary.Migrated++
	}

	slog.Info("legacy media migration finished",
		slog.Int("total", summary.Total),
		slog.Int("migrated", summary.Migrated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// migrateOne ingests one legacy file and links the record to the new asset,
// both inside a single transaction. The files written by the ingest are
// removed again when the transaction fails.
func (m *Migrator) migrateOne(ctx context.Context, item *MediaItem, diskPath string) error {
	ownerType, ownerID, collection := m.placement(item)

	fileName := item.Filename
	if fileName == "" {
		fileName = filepath.Base(diskPath)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	asset, err := m.assets.AddTx(ctx, tx, assetstore.AddInput{
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		Collection: collection,
		Name:       fileName,
		FileName:   fileName,
		MimeType:   item.MimeType,
		SourcePath: diskPath,
		CustomProperties: map[string]any{
			"alt_text":    item.AltText,
			"caption":     item.Caption,
			"position":    item.Position,
			"is_featured": item.IsFeatured,
		},
	})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ingesting legacy file: %w", err)
	}

	if err := m.repo.SetAssetIDTx(ctx, tx, item.ID, asset.ID); err != nil {
		tx.Rollback()
		m.assets.RemoveFiles(asset)
		return fmt.Errorf("linking record to asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		m.assets.RemoveFiles(asset)
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// placement decides where a legacy record lands in the asset store. Records
// attached to a known owner keep the attachment, with featured images going
// to the images collection and the rest to gallery. Unassigned records are
// bucketed by what their path looks like.
func (m *Migrator) placement(item *MediaItem) (ownerType string, ownerID int64, collection string) {
	if ValidOwnerKind(item.OwnerType) {
		collection = assetstore.CollectionGallery
		if item.IsFeatured {
			collection = assetstore.CollectionImages
		}
		return item.OwnerType, item.OwnerID, collection
	}

	path := strings.ToLower(item.Path)
	switch {
	case strings.Contains(path, "logos"):
		collection = assetstore.CollectionLogos
	case strings.Contains(path, "gallery"):
		collection = assetstore.CollectionGallery
	default:
		collection = assetstore.CollectionDefault
	}
	return "", 0, collection
}

// diskPath maps a stored legacy path onto the storage root.
func (m *Migrator) diskPath(path string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(path, "/storage/"), "/")
	return filepath.Join(m.root, filepath.FromSlash(rel))
}
