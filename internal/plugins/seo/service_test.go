package seo

import (
	"context"
	"errors"
	"testing"

	"github.com/resonoraudio/resonora/internal/plugins/media"
	"github.com/resonoraudio/resonora/internal/plugins/products"
	"github.com/resonoraudio/resonora/internal/plugins/settings"
)

// mockSettings implements settings.SettingsService with a fixed config.
type mockSettings struct {
	config settings.SiteConfig
	err    error
}

func (m *mockSettings) Config(ctx context.Context) (*settings.SiteConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	cfg := m.config
	return &cfg, nil
}

func (m *mockSettings) Update(ctx context.Context, values map[string]string) error {
	return nil
}

// mockMedia implements media.MediaService; only the lookups the SEO service
// performs carry behavior.
type mockMedia struct {
	getFn           func(ctx context.Context, id int64) (*media.MediaItem, error)
	formatFn        func(ctx context.Context, item *media.MediaItem, preferred string) media.DisplayRecord
	mediaForOwnerFn func(ctx context.Context, ownerType string, ownerID int64, preferred string) (*media.OwnerMedia, error)
}

func (m *mockMedia) Upload(ctx context.Context, in media.UploadInput) (*media.MediaItem, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMedia) Get(ctx context.Context, id int64) (*media.MediaItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockMedia) List(ctx context.Context, page, perPage int) ([]media.MediaItem, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *mockMedia) UpdateMeta(ctx context.Context, id int64, in media.UpdateMetaInput) (*media.MediaItem, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMedia) SyncOwner(ctx context.Context, id int64, ownerType string, ownerID int64) error {
	return errors.New("not implemented")
}

func (m *mockMedia) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (m *mockMedia) BatchDelete(ctx context.Context, ids []int64) []media.BatchDeleteResult {
	return nil
}

func (m *mockMedia) MediaForOwner(ctx context.Context, ownerType string, ownerID int64, preferred string) (*media.OwnerMedia, error) {
	if m.mediaForOwnerFn != nil {
		return m.mediaForOwnerFn(ctx, ownerType, ownerID, preferred)
	}
	return &media.OwnerMedia{}, nil
}

func (m *mockMedia) FormatItem(ctx context.Context, item *media.MediaItem, preferred string) media.DisplayRecord {
	if m.formatFn != nil {
		return m.formatFn(ctx, item, preferred)
	}
	return media.DisplayRecord{}
}

func strptr(s string) *string { return &s }

func TestForPage_DefaultsAndCanonical(t *testing.T) {
	svc := NewSEOService(&mockSettings{
		config: settings.SiteConfig{
			SiteName:       "Resonora",
			SEOTitle:       "Resonora Loudspeakers",
			SEODescription: "Handbuilt loudspeakers.",
		},
	}, &mockMedia{}, "https://resonora.example/")

	meta := svc.ForPage(context.Background(), "/about", "", "")
	if meta.Title != "Resonora Loudspeakers" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "Handbuilt loudspeakers." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Canonical != "https://resonora.example/about" {
		t.Errorf("canonical = %q", meta.Canonical)
	}
}

func TestForPage_TitleComposition(t *testing.T) {
	svc := NewSEOService(&mockSettings{
		config: settings.SiteConfig{SiteName: "Resonora"},
	}, &mockMedia{}, "https://resonora.example")

	meta := svc.ForPage(context.Background(), "/heritage", "Heritage", "")
	if meta.Title != "Heritage | Resonora" {
		t.Errorf("title = %q", meta.Title)
	}
}

func TestForProduct_FeaturedImageAtShareSize(t *testing.T) {
	mediaSvc := &mockMedia{
		mediaForOwnerFn: func(ctx context.Context, ownerType string, ownerID int64, preferred string) (*media.OwnerMedia, error) {
			if preferred != "xxlarge" {
				t.Errorf("share image requested at %q, want xxlarge", preferred)
			}
			return &media.OwnerMedia{
				FeaturedImage: strptr("/storage/media/uuid/conversions/x-xxlarge.webp"),
			}, nil
		},
	}
	svc := NewSEOService(&mockSettings{
		config: settings.SiteConfig{SiteName: "Resonora"},
	}, mediaSvc, "https://resonora.example")

	p := &products.Product{ID: 5, Slug: "aria-925", Name: "Aria 925", Tagline: "Three-way floorstander"}
	meta := svc.ForProduct(context.Background(), p)

	if meta.Title != "Aria 925 | Resonora" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "Three-way floorstander" {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Canonical != "https://resonora.example/products/aria-925" {
		t.Errorf("canonical = %q", meta.Canonical)
	}
	want := "https://resonora.example/storage/media/uuid/conversions/x-xxlarge.webp"
	if meta.SocialImageURL != want {
		t.Errorf("social image = %q, want %q", meta.SocialImageURL, want)
	}
}

func TestForProduct_FallsBackToSiteImage(t *testing.T) {
	mediaSvc := &mockMedia{
		getFn: func(ctx context.Context, id int64) (*media.MediaItem, error) {
			if id != 40 {
				t.Errorf("looked up media %d, want 40", id)
			}
			return &media.MediaItem{ID: id}, nil
		},
		formatFn: func(ctx context.Context, item *media.MediaItem, preferred string) media.DisplayRecord {
			return media.DisplayRecord{URL: strptr("/storage/site-card.webp")}
		},
	}
	svc := NewSEOService(&mockSettings{
		config: settings.SiteConfig{SiteName: "Resonora", SEOImageMediaID: 40},
	}, mediaSvc, "https://resonora.example")

	p := &products.Product{ID: 5, Slug: "aria-925", Name: "Aria 925"}
	meta := svc.ForProduct(context.Background(), p)
	if meta.SocialImageURL != "https://resonora.example/storage/site-card.webp" {
		t.Errorf("social image = %q", meta.SocialImageURL)
	}
}

func TestForPage_SettingsFailureDegrades(t *testing.T) {
	svc := NewSEOService(&mockSettings{err: errors.New("redis down")},
		&mockMedia{}, "https://resonora.example")

	meta := svc.ForPage(context.Background(), "/about", "About", "")
	if meta.Title != "About" {
		t.Errorf("title = %q, want bare page title", meta.Title)
	}
	if meta.Canonical != "https://resonora.example/about" {
		t.Errorf("canonical = %q", meta.Canonical)
	}
}
