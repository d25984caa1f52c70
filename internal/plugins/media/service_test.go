package media

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// --- Mocks ---

// mockMediaRepo implements MediaRepository for testing.
type mockMediaRepo struct {
	createFn       func(ctx context.Context, item *MediaItem) error
	findByIDFn     func(ctx context.Context, id int64) (*MediaItem, error)
	updateFn       func(ctx context.Context, item *MediaItem) error
	updateOwnerFn  func(ctx context.Context, id int64, ownerType string, ownerID int64) error
	setAssetIDTxFn func(ctx context.Context, tx *sql.Tx, id, assetID int64) error
	deleteFn       func(ctx context.Context, id int64) error
	listByOwnerFn  func(ctx context.Context, ownerType string, ownerID int64) ([]MediaItem, error)
	listUnlinkedFn func(ctx context.Context) ([]MediaItem, error)
	listAllFn      func(ctx context.Context, limit, offset int) ([]MediaItem, int, error)
}

func (m *mockMediaRepo) Create(ctx context.Context, item *MediaItem) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	item.ID = 1
	return nil
}

func (m *mockMediaRepo) FindByID(ctx context.Context, id int64) (*MediaItem, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("media item not found")
}

func (m *mockMediaRepo) Update(ctx context.Context, item *MediaItem) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, item)
	}
	return nil
}

func (m *mockMediaRepo) UpdateOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error {
	if m.updateOwnerFn != nil {
		return m.updateOwnerFn(ctx, id, ownerType, ownerID)
	}
	return nil
}

func (m *mockMediaRepo) SetAssetIDTx(ctx context.Context, tx *sql.Tx, id, assetID int64) error {
	if m.setAssetIDTxFn != nil {
		return m.setAssetIDTxFn(ctx, tx, id, assetID)
	}
	return nil
}

func (m *mockMediaRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMediaRepo) ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]MediaItem, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerType, ownerID)
	}
	return nil, nil
}

func (m *mockMediaRepo) ListUnlinked(ctx context.Context) ([]MediaItem, error) {
	if m.listUnlinkedFn != nil {
		return m.listUnlinkedFn(ctx)
	}
	return nil, nil
}

func (m *mockMediaRepo) ListAll(ctx context.Context, limit, offset int) ([]MediaItem, int, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

// mockAssetStore implements assetstore.Store for testing.
type mockAssetStore struct {
	addFn         func(ctx context.Context, in assetstore.AddInput) (*assetstore.StoredAsset, error)
	addTxFn       func(ctx context.Context, tx *sql.Tx, in assetstore.AddInput) (*assetstore.StoredAsset, error)
	findByIDFn    func(ctx context.Context, id int64) (*assetstore.StoredAsset, error)
	deleteFn      func(ctx context.Context, id int64) error
	removeFilesFn func(asset *assetstore.StoredAsset) error
}

func (m *mockAssetStore) Add(ctx context.Context, in assetstore.AddInput) (*assetstore.StoredAsset, error) {
	if m.addFn != nil {
		return m.addFn(ctx, in)
	}
	return &assetstore.StoredAsset{ID: 7, UUID: "test-uuid", Size: int64(len(in.Data))}, nil
}

func (m *mockAssetStore) AddTx(ctx context.Context, tx *sql.Tx, in assetstore.AddInput) (*assetstore.StoredAsset, error) {
	if m.addTxFn != nil {
		return m.addTxFn(ctx, tx, in)
	}
	return &assetstore.StoredAsset{ID: 7, UUID: "test-uuid"}, nil
}

func (m *mockAssetStore) FindByID(ctx context.Context, id int64) (*assetstore.StoredAsset, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("asset not found")
}

func (m *mockAssetStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAssetStore) RemoveFiles(asset *assetstore.StoredAsset) error {
	if m.removeFilesFn != nil {
		return m.removeFilesFn(asset)
	}
	return nil
}

func newTestService(repo MediaRepository, assets assetstore.Store, root string) MediaService {
	return NewMediaService(repo, assets, NewResolver(assets), root)
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Upload ---

func TestUpload_ValidationRunsBeforeStorage(t *testing.T) {
	stored := false
	assets := &mockAssetStore{
		addFn: func(ctx context.Context, in assetstore.AddInput) (*assetstore.StoredAsset, error) {
			stored = true
			return nil, errors.New("should not be reached")
		},
	}
	svc := newTestService(&mockMediaRepo{}, assets, t.TempDir())

	_, err := svc.Upload(context.Background(), UploadInput{
		Context:      ContextProduct,
		OriginalName: "demo.gif",
		MimeType:     "image/gif",
		Data:         []byte("x"),
	})
	assertAppError(t, err, 422)
	if stored {
		t.Error("asset store must not be touched when validation fails")
	}
}

func TestUpload_CreatesLinkedRecord(t *testing.T) {
	var gotCollection string
	assets := &mockAssetStore{
		addFn: func(ctx context.Context, in assetstore.AddInput) (*assetstore.StoredAsset, error) {
			gotCollection = in.Collection
			return &assetstore.StoredAsset{ID: 42, UUID: "u-1", FileName: in.FileName, Size: int64(len(in.Data))}, nil
		},
	}
	svc := newTestService(&mockMediaRepo{}, assets, t.TempDir())

	item, err := svc.Upload(context.Background(), UploadInput{
		Context:      ContextProduct,
		OriginalName: "speaker.png",
		MimeType:     "image/png",
		AltText:      "Floorstander",
		Data:         []byte("pngdata"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if item.AssetID == nil || *item.AssetID != 42 {
		t.Errorf("expected asset link 42, got %v", item.AssetID)
	}
	if gotCollection != assetstore.CollectionGallery {
		t.Errorf("product uploads should land in gallery, got %q", gotCollection)
	}
	if !strings.HasPrefix(item.Path, "media/u-1/") {
		t.Errorf("unexpected path %q", item.Path)
	}
	if !strings.HasSuffix(item.Filename, ".png") {
		t.Errorf("unexpected filename %q", item.Filename)
	}
}

func TestUpload_CompensatesFailedInsert(t *testing.T) {
	var deletedAsset int64
	assets := &mockAssetStore{
		deleteFn: func(ctx context.Context, id int64) error {
			deletedAsset = id
			return nil
		},
	}
	repo := &mockMediaRepo{
		createFn: func(ctx context.Context, item *MediaItem) error {
			return errors.New("insert failed")
		},
	}
	svc := newTestService(repo, assets, t.TempDir())

	_, err := svc.Upload(context.Background(), UploadInput{
		Context:      ContextGallery,
		OriginalName: "room.jpg",
		MimeType:     "image/jpeg",
		Data:         []byte("x"),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if deletedAsset != 7 {
		t.Errorf("expected the ingested asset to be deleted, got id %d", deletedAsset)
	}
}

// --- Delete ---

func TestDelete_RefusedWhenOwned(t *testing.T) {
	repo := &mockMediaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*MediaItem, error) {
			return &MediaItem{ID: id, OwnerType: OwnerProduct, OwnerID: 12}, nil
		},
	}
	svc := newTestService(repo, &mockAssetStore{}, t.TempDir())

	err := svc.Delete(context.Background(), 5)
	assertAppError(t, err, 409)
	if !strings.Contains(err.Error(), "product #12") {
		t.Errorf("conflict message should name the owner, got %q", err.Error())
	}
}

func TestDelete_CascadesToAsset(t *testing.T) {
	assetID := int64(9)
	var deletedAsset int64
	repo := &mockMediaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*MediaItem, error) {
			return &MediaItem{ID: id, AssetID: &assetID, Path: "media/u/f.jpg"}, nil
		},
	}
	assets := &mockAssetStore{
		deleteFn: func(ctx context.Context, id int64) error {
			deletedAsset = id
			return nil
		},
	}
	svc := newTestService(repo, assets, t.TempDir())

	if err := svc.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deletedAsset != assetID {
		t.Errorf("expected asset %d deleted, got %d", assetID, deletedAsset)
	}
}

func TestDelete_RemovesLegacyFile(t *testing.T) {
	root := t.TempDir()
	legacyDir := filepath.Join(root, "legacy")
	if err := os.MkdirAll(legacyDir, 0755); err != nil {
		t.Fatal(err)
	}
	legacyFile := filepath.Join(legacyDir, "old.jpg")
	if err := os.WriteFile(legacyFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	repo := &mockMediaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*MediaItem, error) {
			return &MediaItem{ID: id, Path: "legacy/old.jpg"}, nil
		},
	}
	svc := newTestService(repo, &mockAssetStore{}, root)

	if err := svc.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(legacyFile); !os.IsNotExist(err) {
		t.Error("legacy file should have been removed")
	}
}

// --- BatchDelete ---

func TestBatchDelete_PartialFailure(t *testing.T) {
	repo := &mockMediaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*MediaItem, error) {
			if id == 2 {
				return &MediaItem{ID: id, OwnerType: OwnerArticle, OwnerID: 3}, nil
			}
			return &MediaItem{ID: id}, nil
		},
	}
	svc := newTestService(repo, &mockAssetStore{}, t.TempDir())

	results := svc.BatchDelete(context.Background(), []int64{1, 2, 3})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Deleted || !results[2].Deleted {
		t.Error("items 1 and 3 should be deleted")
	}
	if results[1].Deleted {
		t.Error("item 2 is owned and must not be deleted")
	}
	if !strings.Contains(results[1].Error, "article #3") {
		t.Errorf("item 2 error should name the owner, got %q", results[1].Error)
	}
}

// --- Metadata / ownership ---

func TestUpdateMeta_AppliesOnlyProvidedFields(t *testing.T) {
	repo := &mockMediaRepo{
		findByIDFn: func(ctx context.Context, id int64) (*MediaItem, error) {
			return &MediaItem{ID: id, AltText: "old alt", Caption: "old caption", Position: 4}, nil
		},
	}
	svc := newTestService(repo, &mockAssetStore{}, t.TempDir())

	alt := "new alt"
	item, err := svc.UpdateMeta(context.Background(), 1, UpdateMetaInput{AltText: &alt})
	if err != nil {
		t.Fatalf("UpdateMeta: %v", err)
	}
	if item.AltText != "new alt" {
		t.Errorf("alt text = %q", item.AltText)
	}
	if item.Caption != "old caption" || item.Position != 4 {
		t.Error("untouched fields must keep their values")
	}
}

func TestSyncOwner_RejectsUnknownKind(t *testing.T) {
	svc := newTestService(&mockMediaRepo{}, &mockAssetStore{}, t.TempDir())
	assertAppError(t, svc.SyncOwner(context.Background(), 1, "invoice", 2), 400)
}

func TestSyncOwner_DetachClearsOwnerID(t *testing.T) {
	var gotType string
	var gotID int64 = -1
	repo := &mockMediaRepo{
		updateOwnerFn: func(ctx context.Context, id int64, ownerType string, ownerID int64) error {
			gotType, gotID = ownerType, ownerID
			return nil
		},
	}
	svc := newTestService(repo, &mockAssetStore{}, t.TempDir())

	if err := svc.SyncOwner(context.Background(), 1, OwnerNone, 99); err != nil {
		t.Fatalf("SyncOwner: %v", err)
	}
	if gotType != "" || gotID != 0 {
		t.Errorf("detach should clear the owner pair, got (%q, %d)", gotType, gotID)
	}
}
