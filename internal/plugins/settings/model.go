// Package settings manages site-wide configuration: site identity, contact
// addresses, and SEO defaults. Settings live in the site_settings key-value
// table and are read through a Redis cache with a short TTL, since the public
// site touches them on every rendered page.
package settings

import "time"

// SiteSetting is a single row in the site_settings key-value table.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys used in the site_settings table.
const (
	KeySiteName           = "site.name"
	KeySiteTagline        = "site.tagline"
	KeySiteLogoMediaID    = "site.logo_media_id"
	KeyContactEmail       = "contact.email"
	KeyContactNotifyEmail = "contact.notify_email"
	KeySEOTitle           = "seo.default_title"
	KeySEODescription     = "seo.default_description"
	KeySEOImageMediaID    = "seo.social_image_media_id"
)

// SiteConfig is the typed view of the settings the site renders with.
// String values from the table are parsed here; missing keys fall back to
// the zero value (or the named default).
type SiteConfig struct {
	SiteName           string `json:"site_name"`
	Tagline            string `json:"tagline"`
	LogoMediaID        int64  `json:"logo_media_id"` // 0 = no logo uploaded yet.
	ContactEmail       string `json:"contact_email"`
	ContactNotifyEmail string `json:"contact_notify_email"`
	SEOTitle           string `json:"seo_title"`
	SEODescription     string `json:"seo_description"`
	SEOImageMediaID    int64  `json:"seo_image_media_id"`
}

// editableKeys is the allow-list for admin updates. Writes to any other key
// are rejected, keeping the table from becoming a dumping ground.
var editableKeys = map[string]bool{
	KeySiteName:           true,
	KeySiteTagline:        true,
	KeySiteLogoMediaID:    true,
	KeyContactEmail:       true,
	KeyContactNotifyEmail: true,
	KeySEOTitle:           true,
	KeySEODescription:     true,
	KeySEOImageMediaID:    true,
}
