package assetstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// AssetRepository defines the data access contract for stored assets.
// CreateTx exists so the legacy migration tool can enroll the insert in its
// own per-record transaction.
type AssetRepository interface {
	Create(ctx context.Context, asset *StoredAsset) error
	CreateTx(ctx context.Context, tx *sql.Tx, asset *StoredAsset) error
	FindByID(ctx context.Context, id int64) (*StoredAsset, error)
	Delete(ctx context.Context, id int64) error
}

// assetRepository implements AssetRepository with MariaDB queries.
type assetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *sql.DB) AssetRepository {
	return &assetRepository{db: db}
}

const insertAssetQuery = `INSERT INTO media_assets (uuid, owner_type, owner_id, collection, name,
	          file_name, mime_type, size, custom_properties, generated_conversions,
	          position, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Create inserts a new asset row and sets the generated ID on the struct.
func (r *assetRepository) Create(ctx context.Context, asset *StoredAsset) error {
	return r.create(ctx, r.db, asset)
}

// CreateTx is Create inside an existing transaction.
func (r *assetRepository) CreateTx(ctx context.Context, tx *sql.Tx, asset *StoredAsset) error {
	return r.create(ctx, tx, asset)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *assetRepository) create(ctx context.Context, ex execer, asset *StoredAsset) error {
	propsJSON, err := json.Marshal(asset.CustomProperties)
	if err != nil {
		return fmt.Errorf("marshaling custom properties: %w", err)
	}
	convJSON, err := json.Marshal(asset.GeneratedConversions)
	if err != nil {
		return fmt.Errorf("marshaling generated conversions: %w", err)
	}

	result, err := ex.ExecContext(ctx, insertAssetQuery,
		asset.UUID, asset.OwnerType, asset.OwnerID, asset.Collection, asset.Name,
		asset.FileName, asset.MimeType, asset.Size, string(propsJSON), string(convJSON),
		asset.Position, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading asset insert id: %w", err)
	}
	asset.ID = id
	return nil
}

// FindByID retrieves an asset by its row ID.
func (r *assetRepository) FindByID(ctx context.Context, id int64) (*StoredAsset, error) {
	query := `SELECT id, uuid, owner_type, owner_id, collection, name, file_name,
	                 mime_type, size, custom_properties, generated_conversions,
	                 position, created_at, updated_at
	          FROM media_assets WHERE id = ?`

	asset := &StoredAsset{}
	var propsJSON, convJSON string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID, &asset.UUID, &asset.OwnerType, &asset.OwnerID,
		&asset.Collection, &asset.Name, &asset.FileName,
		&asset.MimeType, &asset.Size, &propsJSON, &convJSON,
		&asset.Position, &asset.CreatedAt, &asset.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("asset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset by id: %w", err)
	}

	asset.CustomProperties = make(map[string]any)
	if propsJSON != "" && propsJSON != "null" {
		if err := json.Unmarshal([]byte(propsJSON), &asset.CustomProperties); err != nil {
			return nil, fmt.Errorf("unmarshaling custom properties: %w", err)
		}
	}
	asset.GeneratedConversions = make(map[string]bool)
	if convJSON != "" && convJSON != "null" {
		if err := json.Unmarshal([]byte(convJSON), &asset.GeneratedConversions); err != nil {
			return nil, fmt.Errorf("unmarshaling generated conversions: %w", err)
		}
	}
	return asset, nil
}

// Delete removes an asset row.
func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFound("asset not found")
	}
	return nil
}
