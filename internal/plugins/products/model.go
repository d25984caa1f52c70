// Package products manages the loudspeaker catalog: the product entries the
// public site presents, with their specs, copy, and attached media.
package products

import (
	"regexp"
	"strings"
	"time"
)

// Product categories shown as catalog filters.
const (
	CategoryFloorstander = "floorstander"
	CategoryBookshelf    = "bookshelf"
	CategoryCenter       = "center"
	CategorySubwoofer    = "subwoofer"
	CategoryAccessory    = "accessory"
)

// validCategories is the allow-list for product categories.
var validCategories = map[string]bool{
	CategoryFloorstander: true,
	CategoryBookshelf:    true,
	CategoryCenter:       true,
	CategorySubwoofer:    true,
	CategoryAccessory:    true,
}

// Product is a catalog entry. DescriptionHTML is sanitized before storage;
// Specs is a flat label -> value map rendered as the spec sheet table.
type Product struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Tagline         string            `json:"tagline"`
	DescriptionHTML string            `json:"description_html"`
	Specs           map[string]string `json:"specs"`
	PriceCents      int64             `json:"price_cents"` // 0 = price on request.
	IsPublished     bool              `json:"is_published"`
	Position        int               `json:"position"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CreateProductInput is the validated input for creating a product.
type CreateProductInput struct {
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Tagline         string            `json:"tagline"`
	DescriptionHTML string            `json:"description_html"`
	Specs           map[string]string `json:"specs"`
	PriceCents      int64             `json:"price_cents"`
}

// UpdateProductInput holds editable fields; nil pointers are left unchanged.
type UpdateProductInput struct {
	Name            *string            `json:"name"`
	Category        *string            `json:"category"`
	Tagline         *string            `json:"tagline"`
	DescriptionHTML *string            `json:"description_html"`
	Specs           *map[string]string `json:"specs"`
	PriceCents      *int64             `json:"price_cents"`
	IsPublished     *bool              `json:"is_published"`
	Position        *int               `json:"position"`
}

// slugPattern matches one or more non-alphanumeric characters for replacement.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify creates a URL-safe slug from a product name. Lowercase, replace
// non-alphanumeric characters with hyphens, trim leading/trailing hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	return slug
}
