package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

func TestMigrationPlacement(t *testing.T) {
	m := &Migrator{}

	cases := []struct {
		name           string
		item           MediaItem
		wantOwnerType  string
		wantOwnerID    int64
		wantCollection string
	}{
		{
			name:           "owned featured goes to images",
			item:           MediaItem{OwnerType: OwnerProduct, OwnerID: 3, IsFeatured: true},
			wantOwnerType:  OwnerProduct,
			wantOwnerID:    3,
			wantCollection: assetstore.CollectionImages,
		},
		{
			name:           "owned unfeatured goes to gallery",
			item:           MediaItem{OwnerType: OwnerArticle, OwnerID: 8},
			wantOwnerType:  OwnerArticle,
			wantOwnerID:    8,
			wantCollection: assetstore.CollectionGallery,
		},
		{
			name:           "unassigned logo path",
			item:           MediaItem{Path: "media/logos/brand.png"},
			wantCollection: assetstore.CollectionLogos,
		},
		{
			name:           "unassigned gallery path",
			item:           MediaItem{Path: "media/gallery/room.jpg"},
			wantCollection: assetstore.CollectionGallery,
		},
		{
			name:           "unassigned anything else",
			item:           MediaItem{Path: "media/misc/banner.jpg"},
			wantCollection: assetstore.CollectionDefault,
		},
		{
			name:           "unknown owner kind treated as unassigned",
			item:           MediaItem{OwnerType: "invoice", OwnerID: 1, Path: "media/gallery/x.jpg"},
			wantCollection: assetstore.CollectionGallery,
		},
	}

	for _, tc := range cases {
		ownerType, ownerID, collection := m.placement(&tc.item)
		if ownerType != tc.wantOwnerType || ownerID != tc.wantOwnerID || collection != tc.wantCollection {
			t.Errorf("%s: got (%q, %d, %q), want (%q, %d, %q)", tc.name,
				ownerType, ownerID, collection, tc.wantOwnerType, tc.wantOwnerID, tc.wantCollection)
		}
	}
}

func TestMigrationRun_SkipsMissingFilesAndNonImages(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "media"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "media", "clip.mp4"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	repo := &mockMediaRepo{
		listUnlinkedFn: func(ctx context.Context) ([]MediaItem, error) {
			return []MediaItem{
				{ID: 1, Path: "media/gone.jpg", MimeType: "image/jpeg"},
				{ID: 2, Path: "media/clip.mp4", MimeType: "video/mp4"},
			}, nil
		},
	}

	// Both records skip before any transaction is opened, so no DB is needed.
	m := NewMigrator(nil, repo, &mockAssetStore{}, root)
	summary, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 2 || summary.Skipped != 2 || summary.Migrated != 0 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
