package assetstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// Store is the contract the media library consumes: ingest a file under a
// collection, look assets up, and delete them with their derived files.
type Store interface {
	// Add ingests a file, generates conversions synchronously when the
	// collection calls for them, and persists the asset row.
	Add(ctx context.Context, in AddInput) (*StoredAsset, error)

	// AddTx is Add with the row insert enrolled in the caller's transaction.
	// If the caller rolls back, it must also call RemoveFiles to drop the
	// files written during ingestion.
	AddTx(ctx context.Context, tx *sql.Tx, in AddInput) (*StoredAsset, error)

	// FindByID retrieves an asset by row ID.
	FindByID(ctx context.Context, id int64) (*StoredAsset, error)

	// Delete removes the asset row, the original file, and every conversion.
	Delete(ctx context.Context, id int64) error

	// RemoveFiles deletes the asset's storage directory. Used to compensate
	// a rolled-back AddTx.
	RemoveFiles(asset *StoredAsset) error
}

// AddInput holds everything needed to ingest one file.
type AddInput struct {
	OwnerType        string // "" for the shared unassigned container.
	OwnerID          int64
	Collection       string
	Name             string // Display name, usually the uploader's original filename.
	FileName         string // Generated stored filename (see media.GenerateFilename).
	MimeType         string
	Data             []byte         // File content; exactly one of Data or SourcePath is set.
	SourcePath       string         // Path to an existing file to ingest (migration tool).
	CustomProperties map[string]any // Carried over metadata (alt text, caption, ...).
}

// store implements Store on the local filesystem.
type store struct {
	repo AssetRepository
	root string // Storage root directory backing the /storage URL prefix.
}

// NewStore creates a new asset store writing under root.
func NewStore(repo AssetRepository, root string) Store {
	return &store{repo: repo, root: root}
}

// Add ingests a file with its own row insert.
func (s *store) Add(ctx context.Context, in AddInput) (*StoredAsset, error) {
	return s.add(ctx, in, func(ctx context.Context, asset *StoredAsset) error {
		return s.repo.Create(ctx, asset)
	})
}

// AddTx ingests a file with the row insert inside the caller's transaction.
func (s *store) AddTx(ctx context.Context, tx *sql.Tx, in AddInput) (*StoredAsset, error) {
	return s.add(ctx, in, func(ctx context.Context, asset *StoredAsset) error {
		return s.repo.CreateTx(ctx, tx, asset)
	})
}

// add writes the original and conversions to disk, then persists the row via
// insert. Files are cleaned up when the insert fails so a failed ingest
// leaves nothing behind.
func (s *store) add(ctx context.Context, in AddInput, insert func(context.Context, *StoredAsset) error) (*StoredAsset, error) {
	if !ValidCollection(in.Collection) {
		return nil, apperror.NewBadRequest("unknown collection: " + in.Collection)
	}

	data := in.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(in.SourcePath)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("reading source file: %w", err))
		}
	}

	now := time.Now().UTC()
	asset := &StoredAsset{
		UUID:             uuid.NewString(),
		OwnerType:        in.OwnerType,
		OwnerID:          in.OwnerID,
		Collection:       in.Collection,
		Name:             in.Name,
		FileName:         in.FileName,
		MimeType:         in.MimeType,
		Size:             int64(len(data)),
		CustomProperties: in.CustomProperties,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if asset.CustomProperties == nil {
		asset.CustomProperties = make(map[string]any)
	}

	// Write the original.
	dir := s.assetDir(asset)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating asset directory: %w", err))
	}
	if err := os.WriteFile(filepath.Join(dir, asset.FileName), data, 0644); err != nil {
		os.RemoveAll(dir)
		return nil, apperror.NewInternal(fmt.Errorf("writing original file: %w", err))
	}

	// Generate conversions synchronously. Only collections registered for
	// conversions get them, and only for raster image originals.
	asset.GeneratedConversions = make(map[string]bool)
	if collectionHasConversions[asset.Collection] && isConvertible(asset.MimeType) {
		conversions, err := generateConversions(data, filepath.Join(dir, "conversions"), asset.FileName)
		if err != nil {
			os.RemoveAll(dir)
			return nil, apperror.NewInternal(fmt.Errorf("generating conversions: %w", err))
		}
		asset.GeneratedConversions = conversions
	}

	// Persist the row last. Disk writes can't be rolled back, so the row is
	// the commit point: no row, no asset.
	if err := insert(ctx, asset); err != nil {
		os.RemoveAll(dir)
		return nil, apperror.NewInternal(fmt.Errorf("saving asset row: %w", err))
	}

	slog.Info("asset ingested",
		slog.Int64("id", asset.ID),
		slog.String("collection", asset.Collection),
		slog.String("mime_type", asset.MimeType),
		slog.Int("conversions", len(asset.GeneratedConversions)),
	)
	return asset, nil
}

// FindByID retrieves an asset by row ID.
func (s *store) FindByID(ctx context.Context, id int64) (*StoredAsset, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes the asset row first, then its storage directory (original
// plus all conversions). A failed directory removal is logged, not fatal --
// the row is gone and the orphaned files are harmless.
func (s *store) Delete(ctx context.Context, id int64) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.RemoveFiles(asset); err != nil {
		slog.Warn("removing asset files failed",
			slog.Int64("id", id),
			slog.Any("error", err),
		)
	}

	slog.Info("asset deleted", slog.Int64("id", id))
	return nil
}

// RemoveFiles deletes the asset's storage directory.
func (s *store) RemoveFiles(asset *StoredAsset) error {
	return os.RemoveAll(s.assetDir(asset))
}

// assetDir returns the on-disk directory holding the asset's files.
func (s *store) assetDir(asset *StoredAsset) string {
	return filepath.Join(s.root, "media", asset.UUID)
}
