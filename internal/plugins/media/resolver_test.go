package media

import (
	"context"
	"errors"
	"testing"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// mockAssetFinder implements AssetFinder for testing.
type mockAssetFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*assetstore.StoredAsset, error)
}

func (m *mockAssetFinder) FindByID(ctx context.Context, id int64) (*assetstore.StoredAsset, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("asset not found")
}

// testAsset builds an asset exposing exactly the named conversions.
func testAsset(conversions ...string) *assetstore.StoredAsset {
	generated := make(map[string]bool, len(conversions))
	for _, c := range conversions {
		generated[c] = true
	}
	return &assetstore.StoredAsset{
		ID:                   7,
		UUID:                 "aaaa-bbbb",
		Collection:           assetstore.CollectionGallery,
		FileName:             "20240101_120000_abc123.jpg",
		MimeType:             "image/jpeg",
		GeneratedConversions: generated,
	}
}

func resolverFor(asset *assetstore.StoredAsset, err error) *Resolver {
	return NewResolver(&mockAssetFinder{
		findByIDFn: func(ctx context.Context, id int64) (*assetstore.StoredAsset, error) {
			return asset, err
		},
	})
}

func linkedItem() *MediaItem {
	assetID := int64(7)
	return &MediaItem{ID: 1, AssetID: &assetID}
}

func TestResolveBestURL_PreferredConversion(t *testing.T) {
	r := resolverFor(testAsset("large", "thumb"), nil)

	u, ok := r.ResolveBestURL(context.Background(), linkedItem(), "large")
	if !ok {
		t.Fatal("expected a URL")
	}
	want := "/storage/media/aaaa-bbbb/conversions/20240101_120000_abc123-large.webp"
	if u != want {
		t.Errorf("got %q, want %q", u, want)
	}
}

func TestResolveBestURL_FallbackOrder(t *testing.T) {
	// Preferred "large" is missing; medium comes before thumb in the fixed
	// fallback order, so medium wins.
	r := resolverFor(testAsset("medium", "thumb"), nil)

	u, ok := r.ResolveBestURL(context.Background(), linkedItem(), "large")
	if !ok {
		t.Fatal("expected a URL")
	}
	want := "/storage/media/aaaa-bbbb/conversions/20240101_120000_abc123-medium.webp"
	if u != want {
		t.Errorf("got %q, want %q", u, want)
	}
}

func TestResolveBestURL_OriginalFallback(t *testing.T) {
	r := resolverFor(testAsset(), nil)

	u, ok := r.ResolveBestURL(context.Background(), linkedItem(), "large")
	if !ok {
		t.Fatal("expected a URL")
	}
	if u != "/storage/media/aaaa-bbbb/20240101_120000_abc123.jpg" {
		t.Errorf("expected the original file URL, got %q", u)
	}
}

func TestResolveBestURL_AssetLookupErrorDegradesToPath(t *testing.T) {
	r := resolverFor(nil, errors.New("connection refused"))

	item := linkedItem()
	item.Path = "media/old/speaker.jpg"
	u, ok := r.ResolveBestURL(context.Background(), item, "large")
	if !ok || u != "/storage/media/old/speaker.jpg" {
		t.Errorf("expected legacy fallback, got %q (ok=%v)", u, ok)
	}
}

func TestResolveBestURL_LegacyPathNormalization(t *testing.T) {
	r := NewResolver(&mockAssetFinder{})
	cases := []struct {
		path string
		want string
	}{
		{"media/x.jpg", "/storage/media/x.jpg"},
		{"/media/x.jpg", "/storage/media/x.jpg"},
		{"/storage/media/x.jpg", "/storage/media/x.jpg"},
		{"https://cdn.example.com/media/x.jpg", "/media/x.jpg"},
	}
	for _, tc := range cases {
		u, ok := r.ResolveBestURL(context.Background(), &MediaItem{Path: tc.path}, "large")
		if !ok || u != tc.want {
			t.Errorf("path %q: got %q (ok=%v), want %q", tc.path, u, ok, tc.want)
		}
	}
}

func TestResolveBestURL_NothingResolves(t *testing.T) {
	r := NewResolver(&mockAssetFinder{})
	if u, ok := r.ResolveBestURL(context.Background(), &MediaItem{}, "large"); ok {
		t.Errorf("expected no URL, got %q", u)
	}
}

func TestResponsiveURLs_RegistryOrder(t *testing.T) {
	r := resolverFor(testAsset("thumb", "medium", "xxlarge"), nil)

	entries := r.ResponsiveURLs(context.Background(), linkedItem())
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantLabels := []string{"320", "768", "1920"}
	for i, want := range wantLabels {
		if entries[i].Label != want {
			t.Errorf("entry %d label = %q, want %q", i, entries[i].Label, want)
		}
	}
}

func TestResponsiveURLs_OriginalFallback(t *testing.T) {
	r := resolverFor(testAsset(), nil)

	entries := r.ResponsiveURLs(context.Background(), linkedItem())
	if len(entries) != 1 || entries[0].Label != "original" {
		t.Fatalf("expected a single original entry, got %+v", entries)
	}
}

func TestBuildSrcset(t *testing.T) {
	if got := BuildSrcset(nil); got != "" {
		t.Errorf("empty input: got %q, want \"\"", got)
	}

	entries := []ResponsiveEntry{
		{Label: "320", URL: "/a"},
		{Label: "640", URL: "/b"},
	}
	if got := BuildSrcset(entries); got != "/a 320w, /b 640w" {
		t.Errorf("got %q, want %q", got, "/a 320w, /b 640w")
	}

	// The original pseudo-entry carries no width and is skipped.
	if got := BuildSrcset([]ResponsiveEntry{{Label: "original", URL: "/x"}}); got != "" {
		t.Errorf("original-only input: got %q, want \"\"", got)
	}
}

func TestFormatItem_NilURLWhenUnresolvable(t *testing.T) {
	r := NewResolver(&mockAssetFinder{})
	record := r.FormatItem(context.Background(), &MediaItem{ID: 3, AltText: "x"}, "large")
	if record.URL != nil {
		t.Errorf("expected nil URL, got %q", *record.URL)
	}
	if record.Srcset != "" {
		t.Errorf("expected empty srcset, got %q", record.Srcset)
	}
}

func TestFormatOwnerCollection_SortOrder(t *testing.T) {
	r := NewResolver(&mockAssetFinder{})
	items := []MediaItem{
		{ID: 10, Path: "a.jpg", Position: 2, IsFeatured: false},
		{ID: 11, Path: "b.jpg", Position: 5, IsFeatured: true},
		{ID: 12, Path: "c.jpg", Position: 1, IsFeatured: false},
	}

	out := r.FormatOwnerCollection(context.Background(), items, "large")
	wantIDs := []int64{11, 12, 10}
	if len(out.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out.Items))
	}
	for i, want := range wantIDs {
		if out.Items[i].ID != want {
			t.Errorf("position %d: got item %d, want %d", i, out.Items[i].ID, want)
		}
	}

	if out.FeaturedImage == nil || *out.FeaturedImage != "/storage/b.jpg" {
		t.Errorf("featured image = %v, want /storage/b.jpg", out.FeaturedImage)
	}
	if len(out.GalleryImages) != 3 || out.GalleryImages[0] != "/storage/b.jpg" {
		t.Errorf("gallery images = %v", out.GalleryImages)
	}
}

func TestFormatOwnerCollection_TiesKeepInputOrder(t *testing.T) {
	r := NewResolver(&mockAssetFinder{})
	items := []MediaItem{
		{ID: 20, Path: "a.jpg", Position: 1},
		{ID: 21, Path: "b.jpg", Position: 1},
		{ID: 22, Path: "c.jpg", Position: 1},
	}

	out := r.FormatOwnerCollection(context.Background(), items, "large")
	for i, want := range []int64{20, 21, 22} {
		if out.Items[i].ID != want {
			t.Errorf("position %d: got item %d, want %d", i, out.Items[i].ID, want)
		}
	}
}

func TestFormatOwnerCollection_FirstItemFeaturedFallback(t *testing.T) {
	// No featured item: the first item's URL doubles as the featured image.
	r := NewResolver(&mockAssetFinder{})
	items := []MediaItem{
		{ID: 30, Path: "a.jpg", Position: 1},
		{ID: 31, Path: "b.jpg", Position: 2},
	}

	out := r.FormatOwnerCollection(context.Background(), items, "large")
	if out.FeaturedImage == nil || *out.FeaturedImage != "/storage/a.jpg" {
		t.Errorf("featured image = %v, want /storage/a.jpg", out.FeaturedImage)
	}
}
