package media

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// MediaService is the media library's business logic: ingest uploads through
// the asset store, manage display metadata and ownership, and delete with the
// proper storage cascade.
type MediaService interface {
	Upload(ctx context.Context, in UploadInput) (*MediaItem, error)
	Get(ctx context.Context, id int64) (*MediaItem, error)
	List(ctx context.Context, page, perPage int) ([]MediaItem, int, error)
	UpdateMeta(ctx context.Context, id int64, in UpdateMetaInput) (*MediaItem, error)
	SyncOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, ids []int64) []BatchDeleteResult
	MediaForOwner(ctx context.Context, ownerType string, ownerID int64, preferred string) (*OwnerMedia, error)
	FormatItem(ctx context.Context, item *MediaItem, preferred string) DisplayRecord
}

// mediaService implements MediaService.
type mediaService struct {
	repo     MediaRepository
	assets   assetstore.Store
	resolver *Resolver
	root     string // Storage root; legacy paths resolve beneath it.
}

// NewMediaService creates the media service.
func NewMediaService(repo MediaRepository, assets assetstore.Store, resolver *Resolver, storageRoot string) MediaService {
	return &mediaService{
		repo:     repo,
		assets:   assets,
		resolver: resolver,
		root:     storageRoot,
	}
}

// Upload validates a file against its upload context, ingests it into the
// asset store, and creates the metadata row. The asset ingest happens first;
// if the metadata insert then fails the asset is deleted again so storage and
// database stay in step.
func (s *mediaService) Upload(ctx context.Context, in UploadInput) (*MediaItem, error) {
	if err := ValidateUpload(in.Context, in.MimeType, in.OriginalName, in.Data); err != nil {
		return nil, err
	}

	uctx := contextFor(in.Context)
	mime := strings.ToLower(strings.TrimSpace(in.MimeType))
	filename := GenerateFilename(fileExt(in.OriginalName))

	asset, err := s.assets.Add(ctx, assetstore.AddInput{
		Collection: uctx.Collection,
		Name:       in.OriginalName,
		FileName:   filename,
		MimeType:   mime,
		Data:       in.Data,
		CustomProperties: map[string]any{
			"alt_text": in.AltText,
			"caption":  in.Caption,
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &MediaItem{
		AssetID:   &asset.ID,
		Path:      "media/" + asset.UUID + "/" + filename,
		Filename:  filename,
		MimeType:  mime,
		Size:      asset.Size,
		AltText:   in.AltText,
		Caption:   in.Caption,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		// Roll the ingest back so the failed upload leaves no asset behind.
		if delErr := s.assets.Delete(ctx, asset.ID); delErr != nil {
			slog.Error("cleaning up asset after failed media insert",
				slog.Int64("asset_id", asset.ID),
				slog.Any("error", delErr),
			)
		}
		return nil, err
	}

	slog.Info("media uploaded",
		slog.Int64("id", item.ID),
		slog.String("context", in.Context),
		slog.String("filename", filename),
	)
	return item, nil
}

// Get retrieves a media item by ID.
func (s *mediaService) Get(ctx context.Context, id int64) (*MediaItem, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of the media library, newest first.
func (s *mediaService) List(ctx context.Context, page, perPage int) ([]MediaItem, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 24
	}
	return s.repo.ListAll(ctx, perPage, (page-1)*perPage)
}

// UpdateMeta applies the non-nil fields of in to the item's display metadata.
func (s *mediaService) UpdateMeta(ctx context.Context, id int64, in UpdateMetaInput) (*MediaItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.AltText != nil {
		item.AltText = *in.AltText
	}
	if in.Caption != nil {
		item.Caption = *in.Caption
	}
	if in.Position != nil {
		item.Position = *in.Position
	}
	if in.IsFeatured != nil {
		item.IsFeatured = *in.IsFeatured
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SyncOwner attaches a media item to an owner entity, or detaches it when
// ownerType is empty.
func (s *mediaService) SyncOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error {
	if ownerType != OwnerNone && !ValidOwnerKind(ownerType) {
		return apperror.NewBadRequest("unknown owner type: " + ownerType)
	}
	if ownerType == OwnerNone {
		ownerID = 0
	}
	return s.repo.UpdateOwner(ctx, id, ownerType, ownerID)
}

// Delete removes a media item and exactly one of its physical backings: the
// linked asset (with all conversions) when one exists, otherwise the legacy
// file. Items still attached to an owner entity are refused with an error
// naming the owner.
func (s *mediaService) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if item.OwnerType != OwnerNone {
		label := ownerLabels[item.OwnerType]
		if label == "" {
			label = item.OwnerType
		}
		return apperror.NewConflict("this file is used by " + label + " #" +
			strconv.FormatInt(item.OwnerID, 10) + " and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	switch {
	case item.AssetID != nil:
		if err := s.assets.Delete(ctx, *item.AssetID); err != nil {
			slog.Error("deleting linked asset",
				slog.Int64("media_id", id),
				slog.Int64("asset_id", *item.AssetID),
				slog.Any("error", err),
			)
		}
	case item.Path != "":
		if err := os.Remove(s.legacyDiskPath(item.Path)); err != nil && !os.IsNotExist(err) {
			slog.Warn("removing legacy file",
				slog.Int64("media_id", id),
				slog.String("path", item.Path),
				slog.Any("error", err),
			)
		}
	}

	slog.Info("media deleted", slog.Int64("id", id))
	return nil
}

// BatchDelete deletes each ID independently and reports per-item outcomes.
// One conflicted or missing item never aborts the rest of the batch.
func (s *mediaService) BatchDelete(ctx context.Context, ids []int64) []BatchDeleteResult {
	results := make([]BatchDeleteResult, 0, len(ids))
	for _, id := range ids {
		result := BatchDeleteResult{ID: id}
		if err := s.Delete(ctx, id); err != nil {
			result.Error = apperror.SafeMessage(err)
		} else {
			result.Deleted = true
		}
		results = append(results, result)
	}
	return results
}

// MediaForOwner loads and formats every media item attached to one owner
// entity, ready for template consumption.
func (s *mediaService) MediaForOwner(ctx context.Context, ownerType string, ownerID int64, preferred string) (*OwnerMedia, error) {
	if !ValidOwnerKind(ownerType) {
		return nil, apperror.NewBadRequest("unknown owner type: " + ownerType)
	}
	items, err := s.repo.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	formatted := s.resolver.FormatOwnerCollection(ctx, items, preferred)
	return &formatted, nil
}

// FormatItem exposes the resolver's single-item formatting to handlers.
func (s *mediaService) FormatItem(ctx context.Context, item *MediaItem, preferred string) DisplayRecord {
	return s.resolver.FormatItem(ctx, item, preferred)
}

// legacyDiskPath maps a legacy URL-ish path onto the storage root.
func (s *mediaService) legacyDiskPath(path string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(path, "/storage/"), "/")
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
