package media

import (
	"regexp"
	"strings"
)

// svgScriptTag matches an opening <script> tag.
var svgScriptTag = regexp.MustCompile(`(?i)<script\b`)

// svgEventAttr matches any of the DOM event-handler attributes commonly used
// for XSS, followed by '='. The list is the set of handlers browsers fire
// for SVG content; it does not try to be exhaustive.
var svgEventAttr = regexp.MustCompile(`(?i)\b(onclick|onload|onerror|onmouseover|onmouseout|onfocus|onblur|onchange|onsubmit|onreset|onselect|onunload|onabort|onkeydown|onkeypress|onkeyup|onmousedown|onmousemove|onmouseup)\s*=`)

// svgEmbedTag matches iframe/embed/object tags, which can smuggle external
// active content into an inline SVG.
var svgEmbedTag = regexp.MustCompile(`(?i)<(iframe|embed|object)\b`)

// IsSafeSVG performs case-insensitive pattern checks against raw SVG markup
// and reports false if any known XSS vector is present: a script tag, a DOM
// event-handler attribute, a javascript: URL, or an embedded iframe/embed/
// object. This is a blocklist that rejects outright -- it never strips or
// rewrites content, and it makes no false-negative guarantee.
func IsSafeSVG(content string) bool {
	if svgScriptTag.MatchString(content) {
		return false
	}
	if svgEventAttr.MatchString(content) {
		return false
	}
	if strings.Contains(strings.ToLower(content), "javascript:") {
		return false
	}
	if svgEmbedTag.MatchString(content) {
		return false
	}
	return true
}
