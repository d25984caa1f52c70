// Package assetstore persists original upload files and their derived
// responsive images ("conversions"). Each stored asset belongs to a named
// collection and optionally to an owner entity; the collection determines
// which conversions are generated. Files live on the local filesystem under
// the /storage URL prefix: originals at storage/media/{uuid}/{file}, derived
// images at storage/media/{uuid}/conversions/{base}-{size}.webp.
package assetstore

import (
	"path"
	"strings"
	"time"
)

// Collection names. The collection decides which conversion set applies.
const (
	CollectionDefault = "default"
	CollectionImages  = "images"
	CollectionGallery = "gallery"
	CollectionLogos   = "logos"
)

// collectionHasConversions maps each collection to whether responsive
// conversions are generated for assets ingested into it. Logos are served at
// original resolution -- SVG logos cannot be raster-converted, and raster
// logos are small enough to skip the pipeline.
var collectionHasConversions = map[string]bool{
	CollectionDefault: true,
	CollectionImages:  true,
	CollectionGallery: true,
	CollectionLogos:   false,
}

// ValidCollection reports whether name is a known collection.
func ValidCollection(name string) bool {
	_, ok := collectionHasConversions[name]
	return ok
}

// StoredAsset is a row in the media_assets table: one original file plus the
// record of which conversions were generated for it.
type StoredAsset struct {
	ID                   int64           `json:"id"`
	UUID                 string          `json:"uuid"`       // Stable public handle; names the storage directory.
	OwnerType            string          `json:"owner_type"` // "" = unassigned shared container.
	OwnerID              int64           `json:"owner_id"`
	Collection           string          `json:"collection"`
	Name                 string          `json:"name"`      // Display name (usually the original filename).
	FileName             string          `json:"file_name"` // Stored filename on disk.
	MimeType             string          `json:"mime_type"`
	Size                 int64           `json:"size"`
	CustomProperties     map[string]any  `json:"custom_properties"`
	GeneratedConversions map[string]bool `json:"generated_conversions"` // size name -> generated.
	Position             int             `json:"position"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// HasGeneratedConversion reports whether the named conversion was generated
// for this asset.
func (a *StoredAsset) HasGeneratedConversion(name string) bool {
	return a.GeneratedConversions[name]
}

// OriginalURL returns the public URL of the original file, relative to the
// server root.
func (a *StoredAsset) OriginalURL() string {
	return "/storage/media/" + a.UUID + "/" + a.FileName
}

// ConversionURL returns the public URL of the named conversion. The boolean
// is false when that conversion was never generated for this asset.
func (a *StoredAsset) ConversionURL(name string) (string, bool) {
	if !a.HasGeneratedConversion(name) {
		return "", false
	}
	return "/storage/media/" + a.UUID + "/conversions/" + conversionFileName(a.FileName, name), true
}

// conversionFileName derives the on-disk name of a conversion from the
// original stored filename: "20240312_101500_ab12cd.jpg" + "thumb" ->
// "20240312_101500_ab12cd-thumb.webp". Conversions are always WebP.
func conversionFileName(original, conversion string) string {
	base := strings.TrimSuffix(original, path.Ext(original))
	return base + "-" + conversion + ".webp"
}
