// Package seo assembles the meta tags the public pages render: title,
// description, canonical URL, and the social share image. Site-wide defaults
// come from settings; entity pages override them with their own copy.
package seo

import (
	"context"
	"strings"

	"github.com/resonoraudio/resonora/internal/plugins/articles"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
	"github.com/resonoraudio/resonora/internal/plugins/media"
	"github.com/resonoraudio/resonora/internal/plugins/products"
	"github.com/resonoraudio/resonora/internal/plugins/settings"
)

// Metadata is the assembled set of meta tag values for one page.
type Metadata struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Canonical      string `json:"canonical"`
	SocialImageURL string `json:"social_image_url,omitempty"`
}

// SEOService assembles page metadata.
type SEOService interface {
	ForPage(ctx context.Context, path, title, description string) Metadata
	ForProduct(ctx context.Context, p *products.Product) Metadata
	ForArticle(ctx context.Context, a *articles.Article) Metadata
}

// seoService implements SEOService.
type seoService struct {
	settings settings.SettingsService
	media    media.MediaService
	baseURL  string
}

// NewSEOService creates the SEO service. baseURL is the public origin used
// for canonical links, without a trailing slash.
func NewSEOService(settingsSvc settings.SettingsService, mediaSvc media.MediaService, baseURL string) SEOService {
	return &seoService{
		settings: settingsSvc,
		media:    mediaSvc,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// ForPage assembles metadata for a static page. Empty title or description
// fall back to the site-wide defaults.
func (s *seoService) ForPage(ctx context.Context, path, title, description string) Metadata {
	cfg := s.siteConfig(ctx)

	meta := Metadata{
		Title:       s.composeTitle(title, cfg),
		Description: description,
		Canonical:   s.canonical(path),
	}
	if meta.Description == "" {
		meta.Description = cfg.SEODescription
	}
	meta.SocialImageURL = s.socialImageURL(ctx, cfg.SEOImageMediaID)
	return meta
}

// ForProduct assembles metadata for a product detail page. The share image
// is the product's featured image, falling back to the site default.
func (s *seoService) ForProduct(ctx context.Context, p *products.Product) Metadata {
	cfg := s.siteConfig(ctx)

	description := p.Tagline
	if description == "" {
		description = cfg.SEODescription
	}
	meta := Metadata{
		Title:       s.composeTitle(p.Name, cfg),
		Description: description,
		Canonical:   s.canonical("/products/" + p.Slug),
	}
	meta.SocialImageURL = s.ownerImageURL(ctx, media.OwnerProduct, p.ID)
	if meta.SocialImageURL == "" {
		meta.SocialImageURL = s.socialImageURL(ctx, cfg.SEOImageMediaID)
	}
	return meta
}

// ForArticle assembles metadata for an article page.
func (s *seoService) ForArticle(ctx context.Context, a *articles.Article) Metadata {
	cfg := s.siteConfig(ctx)

	description := a.Excerpt
	if description == "" {
		description = cfg.SEODescription
	}
	meta := Metadata{
		Title:       s.composeTitle(a.Title, cfg),
		Description: description,
		Canonical:   s.canonical("/articles/" + a.Slug),
	}
	meta.SocialImageURL = s.ownerImageURL(ctx, media.OwnerArticle, a.ID)
	if meta.SocialImageURL == "" {
		meta.SocialImageURL = s.socialImageURL(ctx, cfg.SEOImageMediaID)
	}
	return meta
}

// siteConfig loads settings, degrading to the zero config on error. Meta
// tags are never worth failing a page render for.
func (s *seoService) siteConfig(ctx context.Context) *settings.SiteConfig {
	cfg, err := s.settings.Config(ctx)
	if err != nil {
		return &settings.SiteConfig{}
	}
	return cfg
}

// composeTitle joins a page title with the site name. An empty page title
// yields the configured default title, or the bare site name.
func (s *seoService) composeTitle(title string, cfg *settings.SiteConfig) string {
	if title == "" {
		if cfg.SEOTitle != "" {
			return cfg.SEOTitle
		}
		return cfg.SiteName
	}
	if cfg.SiteName == "" {
		return title
	}
	return title + " | " + cfg.SiteName
}

// canonical builds the absolute canonical URL for a site path.
func (s *seoService) canonical(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}

// socialImageURL resolves a media item to its share-card rendition. Share
// cards want the largest size available.
func (s *seoService) socialImageURL(ctx context.Context, mediaID int64) string {
	if mediaID == 0 {
		return ""
	}
	item, err := s.media.Get(ctx, mediaID)
	if err != nil {
		return ""
	}
	record := s.media.FormatItem(ctx, item, assetstore.SizeXXLarge)
	if record.URL == nil {
		return ""
	}
	return s.absoluteURL(*record.URL)
}

// ownerImageURL resolves an owner's featured image at share-card size.
func (s *seoService) ownerImageURL(ctx context.Context, ownerType string, ownerID int64) string {
	owned, err := s.media.MediaForOwner(ctx, ownerType, ownerID, assetstore.SizeXXLarge)
	if err != nil || owned.FeaturedImage == nil {
		return ""
	}
	return s.absoluteURL(*owned.FeaturedImage)
}

// absoluteURL prefixes site-relative URLs with the public origin. Share
// crawlers reject relative og:image values.
func (s *seoService) absoluteURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return s.baseURL + u
}
