// Package media is the media library: upload validation, metadata records,
// display URL resolution, and the legacy file migration. The physical files
// and their responsive conversions live in the asset store
// (internal/plugins/assetstore); this package owns the application-facing
// metadata row and everything consumers see.
package media

import "time"

// Owner kinds a media item can be attached to. An empty owner type means the
// item is unassigned (sits in the shared library, attached to nothing).
const (
	OwnerProduct = "product"
	OwnerArticle = "article"
	OwnerNone    = ""
)

// ownerLabels maps owner kinds to the noun used in user-facing messages
// ("this image is used by product ..."). Dispatch table instead of deriving
// labels from type names.
var ownerLabels = map[string]string{
	OwnerProduct: "product",
	OwnerArticle: "article",
}

// ValidOwnerKind reports whether kind names a known owner entity type.
func ValidOwnerKind(kind string) bool {
	_, ok := ownerLabels[kind]
	return ok
}

// MediaItem is this application's own row describing an asset: display
// metadata and ownership, independent of where the physical file lives.
// AssetID links to the asset store; Path is the legacy flat-file location
// used only when no (live) asset link exists.
type MediaItem struct {
	ID         int64     `json:"id"`
	AssetID    *int64    `json:"asset_id"` // NULL until migrated/ingested into the asset store.
	Path       string    `json:"path"`     // Legacy relative path under the storage root.
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	AltText    string    `json:"alt_text"`
	Caption    string    `json:"caption"`
	Position   int       `json:"position"` // Display order among siblings; ties allowed.
	IsFeatured bool      `json:"is_featured"`
	OwnerType  string    `json:"owner_type"` // OwnerProduct, OwnerArticle, or "" (unassigned).
	OwnerID    int64     `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayRecord is the formatted shape page templates consume. URL is either
// a non-empty string or null, never "".
type DisplayRecord struct {
	ID             int64             `json:"id"`
	Path           string            `json:"path"`
	URL            *string           `json:"url"`
	ResponsiveURLs map[string]string `json:"responsive_urls"` // width (or "original") -> URL; unordered, sort by numeric key.
	Srcset         string            `json:"srcset"`
	AltText        string            `json:"alt_text"`
	Caption        string            `json:"caption"`
	Position       int               `json:"position"`
	IsFeatured     bool              `json:"is_featured"`
}

// OwnerMedia is the formatted collection for one owner entity, plus the
// legacy-compatibility fields older templates read.
type OwnerMedia struct {
	Items         []DisplayRecord `json:"items"`
	FeaturedImage *string         `json:"featured_image"` // First featured item's URL, or first item's.
	GalleryImages []string        `json:"gallery_images"` // Every item's URL in display order.
}

// UploadInput holds the validated input for one upload request.
type UploadInput struct {
	Context      string // product | article | gallery | logo | video.
	OriginalName string
	MimeType     string
	AltText      string
	Caption      string
	Data         []byte
}

// UpdateMetaInput holds the editable display metadata. Nil fields are left
// unchanged.
type UpdateMetaInput struct {
	AltText    *string `json:"alt_text"`
	Caption    *string `json:"caption"`
	Position   *int    `json:"position"`
	IsFeatured *bool   `json:"is_featured"`
}

// BatchDeleteResult is one entry of a batch deletion response. Failures are
// reported per item; one conflicted item never aborts the rest.
type BatchDeleteResult struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}
