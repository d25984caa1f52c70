// Package pages stores the editable content of the static marketing pages.
// Each page is a slug plus a set of named sections; a section's value is an
// HTML fragment the page template renders in place.
package pages

import (
	"regexp"
	"time"
)

// PageSection is one stored content block.
type PageSection struct {
	PageSlug   string    `json:"page_slug"`
	SectionKey string    `json:"section_key"`
	Content    string    `json:"content"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Page is the assembled view of one page: section key -> content.
type Page struct {
	Slug     string            `json:"slug"`
	Sections map[string]string `json:"sections"`
}

// keyPattern constrains page slugs and section keys to safe identifiers.
var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidKey reports whether s is usable as a page slug or section key.
func ValidKey(s string) bool {
	return len(s) <= 64 && keyPattern.MatchString(s)
}
