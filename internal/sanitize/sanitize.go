// Package sanitize provides HTML sanitization for admin-entered page content.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs) while preserving the formatting the page editor produces.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing page-section HTML.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Allow class attributes -- the page editor uses classes for text
		// alignment and column layout.
		policy.AllowAttrs("class").Globally()

		// Allow style on the elements the editor emits inline formatting for.
		policy.AllowAttrs("style").OnElements("span", "p", "div")

		// Allow tables for the specification sections on product pages.
		policy.AllowElements("table", "thead", "tbody", "tr", "td", "th")
		policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

		// Allow loading/width/height on images embedded in page sections.
		policy.AllowAttrs("loading", "width", "height", "srcset", "sizes").OnElements("img")
	})
	return policy
}

// HTML sanitizes admin-entered HTML content by stripping dangerous elements
// (script, iframe, event handlers, javascript: URLs) while preserving safe
// formatting tags.
//
// This MUST be called on all submitted HTML before storing it in the
// database. The sanitized output is safe for rendering via innerHTML or
// templ.Raw().
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}
