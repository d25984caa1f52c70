package media

import (
	"path/filepath"
	"strings"

	"github.com/resonoraudio/resonora/internal/apperror"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// uploadContext bundles the allow-lists and target collection for one upload
// context. One lookup table instead of scattered conditionals.
type uploadContext struct {
	AllowedMimeTypes map[string]bool
	AllowedExts      map[string]bool
	Collection       string
}

// ContextLogo etc. name the upload contexts the admin panel submits.
const (
	ContextLogo    = "logo"
	ContextProduct = "product"
	ContextArticle = "article"
	ContextGallery = "gallery"
	ContextVideo   = "video"
)

// uploadContexts maps context names to their rules. Any context not listed
// here falls back to defaultUploadContext. Product uploads deliberately
// exclude GIF -- animated product shots broke the catalog layout. Only the
// logo context accepts SVG, and only with the safety scan.
var uploadContexts = map[string]uploadContext{
	ContextLogo: {
		AllowedMimeTypes: mimeSet("image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"),
		AllowedExts:      extSet("jpeg", "jpg", "png", "gif", "webp", "svg"),
		Collection:       assetstore.CollectionLogos,
	},
	ContextProduct: {
		AllowedMimeTypes: mimeSet("image/jpeg", "image/png", "image/webp"),
		AllowedExts:      extSet("jpeg", "jpg", "png", "webp"),
		Collection:       assetstore.CollectionGallery,
	},
	ContextArticle: {
		AllowedMimeTypes: mimeSet("image/jpeg", "image/png", "image/gif", "image/webp"),
		AllowedExts:      extSet("jpeg", "jpg", "png", "gif", "webp"),
		Collection:       assetstore.CollectionImages,
	},
	ContextGallery: {
		AllowedMimeTypes: mimeSet("image/jpeg", "image/png", "image/gif", "image/webp"),
		AllowedExts:      extSet("jpeg", "jpg", "png", "gif", "webp"),
		Collection:       assetstore.CollectionGallery,
	},
}

// defaultUploadContext covers every context without an explicit entry.
var defaultUploadContext = uploadContext{
	AllowedMimeTypes: mimeSet("image/jpeg", "image/png", "image/gif", "image/webp"),
	AllowedExts:      extSet("jpeg", "jpg", "png", "gif", "webp"),
	Collection:       assetstore.CollectionDefault,
}

// videoMimeTypes is the narrower allow-list for the video context. MIME and
// extension must agree exactly.
var videoMimeTypes = map[string]string{
	"video/mp4":  "mp4",
	"video/webm": "webm",
}

// contextFor returns the rules for an upload context name.
func contextFor(name string) uploadContext {
	if uctx, ok := uploadContexts[name]; ok {
		return uctx
	}
	return defaultUploadContext
}

// ValidateUpload enforces the per-context allow-lists on a file before
// anything touches storage. The declared MIME type and the file extension
// are checked independently -- a spoofed Content-Type with an allowed
// extension (or vice versa) fails either way. Logo SVGs additionally pass
// through the safety scan.
func ValidateUpload(contextName, mimeType, filename string, content []byte) error {
	if contextName == ContextVideo {
		return ValidateVideo(mimeType, filename)
	}

	uctx := contextFor(contextName)
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	ext := fileExt(filename)

	if !uctx.AllowedMimeTypes[mime] {
		return apperror.NewValidation("unsupported file type " + mime + " for " + displayContext(contextName) + " uploads")
	}
	if !uctx.AllowedExts[ext] {
		return apperror.NewValidation("unsupported file extension ." + ext + " for " + displayContext(contextName) + " uploads")
	}

	if contextName == ContextLogo && ext == "svg" {
		if !IsSafeSVG(string(content)) {
			return apperror.NewValidation("SVG file failed the safety scan and cannot be uploaded")
		}
	}
	return nil
}

// ValidateVideo enforces the video allow-list: exactly video/mp4 or
// video/webm, with a matching extension.
func ValidateVideo(mimeType, filename string) error {
	mime := strings.ToLower(strings.TrimSpace(mimeType))
	wantExt, ok := videoMimeTypes[mime]
	if !ok {
		return apperror.NewValidation("unsupported video type " + mime + "; only MP4 and WebM are accepted")
	}
	if ext := fileExt(filename); ext != wantExt {
		return apperror.NewValidation("video extension ." + ext + " does not match type " + mime)
	}
	return nil
}

// fileExt returns the lowercase extension without the dot.
func fileExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// displayContext names the context in validation messages; unknown contexts
// read as "media".
func displayContext(name string) string {
	if name == "" {
		return "media"
	}
	if _, ok := uploadContexts[name]; !ok {
		return "media"
	}
	return name
}

func mimeSet(mimes ...string) map[string]bool {
	set := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		set[m] = true
	}
	return set
}

func extSet(exts ...string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return set
}
