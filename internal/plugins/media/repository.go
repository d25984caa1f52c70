package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// MediaRepository defines the data access contract for media items.
// SetAssetIDTx exists so the legacy migration can link a record to its new
// asset inside the same transaction as the asset insert.
type MediaRepository interface {
	Create(ctx context.Context, item *MediaItem) error
	FindByID(ctx context.Context, id int64) (*MediaItem, error)
	Update(ctx context.Context, item *MediaItem) error
	UpdateOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error
	SetAssetIDTx(ctx context.Context, tx *sql.Tx, id, assetID int64) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]MediaItem, error)
	ListUnlinked(ctx context.Context) ([]MediaItem, error)
	ListAll(ctx context.Context, limit, offset int) ([]MediaItem, int, error)
}

// mediaRepository implements MediaRepository with MariaDB queries.
type mediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new media repository.
func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepository{db: db}
}

const mediaColumns = `id, asset_id, path, filename, mime_type, size, alt_text,
	          caption, position, is_featured, owner_type, owner_id, created_at, updated_at`

// Create inserts a new media item and sets the generated ID on the struct.
func (r *mediaRepository) Create(ctx context.Context, item *MediaItem) error {
	query := `INSERT INTO media_items (asset_id, path, filename, mime_type, size, alt_text,
	          caption, position, is_featured, owner_type, owner_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		item.AssetID, item.Path, item.Filename, item.MimeType, item.Size,
		item.AltText, item.Caption, item.Position, item.IsFeatured,
		item.OwnerType, item.OwnerID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting media item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading media insert id: %w", err)
	}
	item.ID = id
	return nil
}

// FindByID retrieves a media item by ID.
func (r *mediaRepository) FindByID(ctx context.Context, id int64) (*MediaItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media_items WHERE id = ?`, id)

	item, err := scanMediaItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("media item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying media item by id: %w", err)
	}
	return item, nil
}

// Update persists the editable metadata fields of a media item.
func (r *mediaRepository) Update(ctx context.Context, item *MediaItem) error {
	query := `UPDATE media_items
	          SET alt_text = ?, caption = ?, position = ?, is_featured = ?, updated_at = ?
	          WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		item.AltText, item.Caption, item.Position, item.IsFeatured, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("updating media item: %w", err)
	}
	return requireRow(result, "media item not found")
}

// UpdateOwner reassigns a media item to a new owner entity (or detaches it
// when ownerType is empty).
func (r *mediaRepository) UpdateOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE media_items SET owner_type = ?, owner_id = ?, updated_at = NOW() WHERE id = ?`,
		ownerType, ownerID, id)
	if err != nil {
		return fmt.Errorf("updating media owner: %w", err)
	}
	return requireRow(result, "media item not found")
}

// SetAssetIDTx links a media item to an asset store row inside an existing
// transaction.
func (r *mediaRepository) SetAssetIDTx(ctx context.Context, tx *sql.Tx, id, assetID int64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE media_items SET asset_id = ?, updated_at = NOW() WHERE id = ?`,
		assetID, id)
	if err != nil {
		return fmt.Errorf("linking media item to asset: %w", err)
	}
	return requireRow(result, "media item not found")
}

// Delete removes a media item row.
func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media item: %w", err)
	}
	return requireRow(result, "media item not found")
}

// ListByOwner returns every media item attached to one owner entity, ordered
// by position then ID so ties keep insertion order.
func (r *mediaRepository) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]MediaItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_items
		 WHERE owner_type = ? AND owner_id = ?
		 ORDER BY position ASC, id ASC`,
		ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing media by owner: %w", err)
	}
	defer rows.Close()
	return collectMediaItems(rows)
}

// ListUnlinked returns every media item without an asset store link, oldest
// first. Used by the legacy migration.
func (r *mediaRepository) ListUnlinked(ctx context.Context) ([]MediaItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_items WHERE asset_id IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing unlinked media: %w", err)
	}
	defer rows.Close()
	return collectMediaItems(rows)
}

// ListAll returns media items with pagination, newest first, plus the total
// count for the admin library view.
func (r *mediaRepository) ListAll(ctx context.Context, limit, offset int) ([]MediaItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting media items: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media_items ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing media items: %w", err)
	}
	defer rows.Close()

	items, err := collectMediaItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMediaItem scans one media_items row.
func scanMediaItem(row rowScanner) (*MediaItem, error) {
	item := &MediaItem{}
	err := row.Scan(
		&item.ID, &item.AssetID, &item.Path, &item.Filename, &item.MimeType,
		&item.Size, &item.AltText, &item.Caption, &item.Position, &item.IsFeatured,
		&item.OwnerType, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// collectMediaItems drains a result set into a slice.
func collectMediaItems(rows *sql.Rows) ([]MediaItem, error) {
	var items []MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning media item row: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// requireRow converts a zero-rows-affected result into a not-found error.
func requireRow(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFound(msg)
	}
	return nil
}
