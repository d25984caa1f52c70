// Package articles manages the news section: dated posts with sanitized
// body HTML and attached media, published on the public site in reverse
// chronological order.
package articles

import (
	"regexp"
	"strings"
	"time"
)

// Article is one news post. BodyHTML is sanitized before storage.
// PublishedAt is nil for drafts and set when the article first goes live.
type Article struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	BodyHTML    string     `json:"body_html"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateArticleInput is the input for creating an article (always a draft).
type CreateArticleInput struct {
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	BodyHTML string `json:"body_html"`
}

// UpdateArticleInput holds editable fields; nil pointers are left unchanged.
type UpdateArticleInput struct {
	Title       *string `json:"title"`
	Excerpt     *string `json:"excerpt"`
	BodyHTML    *string `json:"body_html"`
	IsPublished *bool   `json:"is_published"`
}

// slugPattern matches one or more non-alphanumeric characters for replacement.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify creates a URL-safe slug from an article title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "article"
	}
	return slug
}
