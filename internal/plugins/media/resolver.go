package media

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

// AssetFinder is the slice of the asset store the resolver needs. Satisfied by
// assetstore.Store.
type AssetFinder interface {
	FindByID(ctx context.Context, id int64) (*assetstore.StoredAsset, error)
}

// urlFallbackOrder is the fixed priority order tried when the preferred
// conversion is missing. Large first: the most common render target on
// product and article pages.
var urlFallbackOrder = []string{
	assetstore.SizeLarge,
	assetstore.SizeXXLarge,
	assetstore.SizeXLarge,
	assetstore.SizeMedium,
	assetstore.SizeSmall,
	assetstore.SizeThumb,
}

// Resolver turns media items into display-ready URLs. Every lookup failure
// along the way degrades to the next fallback instead of propagating; a
// missing or broken conversion must never take down page rendering. The
// (string, bool) returns make that swallowing explicit in the signatures.
type Resolver struct {
	assets AssetFinder
}

// NewResolver creates a URL resolver backed by the given asset store.
func NewResolver(assets AssetFinder) *Resolver {
	return &Resolver{assets: assets}
}

// ResolveBestURL returns the best display URL for a media item:
//
//  1. the preferred conversion on the linked asset, if it exists;
//  2. the first existing conversion in urlFallbackOrder;
//  3. the asset's original file;
//  4. the legacy path, normalized under /storage/;
//  5. nothing (false).
//
// All returned URLs are relative (path-only); absolute URLs from either
// source are reduced to their path component.
func (r *Resolver) ResolveBestURL(ctx context.Context, item *MediaItem, preferred string) (string, bool) {
	if asset := r.linkedAsset(ctx, item); asset != nil {
		if u, ok := assetURL(asset, preferred); ok {
			return u, true
		}
		for _, name := range urlFallbackOrder {
			if name == preferred {
				continue
			}
			if u, ok := assetURL(asset, name); ok {
				return u, true
			}
		}
		if u := relativeURL(asset.OriginalURL()); u != "" {
			return u, true
		}
	}
	return legacyURL(item.Path)
}

// ResponsiveEntry is one breakpoint URL. Label is the pixel width as a
// string, or "original" when no conversions exist.
type ResponsiveEntry struct {
	Label string
	URL   string
}

// ResponsiveURLs returns one entry per registry conversion that exists on the
// item's linked asset, in registry (ascending width) order. When the item has
// no conversions at all, it falls back to a single "original" entry pointing
// at whatever ResolveBestURL finds, so templates always have something to
// render. Empty when even that fails.
func (r *Resolver) ResponsiveURLs(ctx context.Context, item *MediaItem) []ResponsiveEntry {
	var entries []ResponsiveEntry
	if asset := r.linkedAsset(ctx, item); asset != nil {
		for _, size := range assetstore.ConversionSizes {
			if u, ok := assetURL(asset, size.Name); ok {
				entries = append(entries, ResponsiveEntry{
					Label: strconv.Itoa(size.Width),
					URL:   u,
				})
			}
		}
	}
	if len(entries) == 0 {
		if u, ok := r.ResolveBestURL(ctx, item, assetstore.SizeLarge); ok {
			entries = append(entries, ResponsiveEntry{Label: "original", URL: u})
		}
	}
	return entries
}

// BuildSrcset renders responsive entries as an HTML srcset value, e.g.
// "/a.webp 320w, /b.webp 640w". The "original" pseudo-entry has no width and
// is skipped; an empty input yields "".
func BuildSrcset(entries []ResponsiveEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Label == "original" {
			continue
		}
		parts = append(parts, e.URL+" "+e.Label+"w")
	}
	return strings.Join(parts, ", ")
}

// FormatItem composes the resolver outputs into the DisplayRecord shape page
// templates consume. URL is nil rather than "" when nothing resolves.
func (r *Resolver) FormatItem(ctx context.Context, item *MediaItem, preferred string) DisplayRecord {
	record := DisplayRecord{
		ID:         item.ID,
		Path:       item.Path,
		AltText:    item.AltText,
		Caption:    item.Caption,
		Position:   item.Position,
		IsFeatured: item.IsFeatured,
	}

	if u, ok := r.ResolveBestURL(ctx, item, preferred); ok {
		record.URL = &u
	}

	entries := r.ResponsiveURLs(ctx, item)
	record.ResponsiveURLs = make(map[string]string, len(entries))
	for _, e := range entries {
		record.ResponsiveURLs[e.Label] = e.URL
	}
	record.Srcset = BuildSrcset(entries)
	return record
}

// FormatOwnerCollection formats every item attached to one owner: featured
// items first, then ascending position, ties keeping their input order. The
// FeaturedImage and GalleryImages fields mirror what older templates expect.
func (r *Resolver) FormatOwnerCollection(ctx context.Context, items []MediaItem, preferred string) OwnerMedia {
	sorted := make([]MediaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsFeatured != sorted[j].IsFeatured {
			return sorted[i].IsFeatured
		}
		return sorted[i].Position < sorted[j].Position
	})

	out := OwnerMedia{Items: make([]DisplayRecord, 0, len(sorted))}
	for _, item := range sorted {
		record := r.FormatItem(ctx, &item, preferred)
		out.Items = append(out.Items, record)
		if record.URL == nil {
			continue
		}
		out.GalleryImages = append(out.GalleryImages, *record.URL)
		if out.FeaturedImage == nil && (record.IsFeatured || len(out.GalleryImages) == 1) {
			out.FeaturedImage = record.URL
		}
	}
	return out
}

// linkedAsset fetches the item's asset store row, or nil when the item has no
// link or the lookup fails. Lookup errors degrade to the legacy path.
func (r *Resolver) linkedAsset(ctx context.Context, item *MediaItem) *assetstore.StoredAsset {
	if item.AssetID == nil {
		return nil
	}
	asset, err := r.assets.FindByID(ctx, *item.AssetID)
	if err != nil {
		return nil
	}
	return asset
}

// assetURL returns the relative URL of a named conversion, or false when the
// conversion does not exist.
func assetURL(asset *assetstore.StoredAsset, conversion string) (string, bool) {
	raw, ok := asset.ConversionURL(conversion)
	if !ok {
		return "", false
	}
	u := relativeURL(raw)
	if u == "" {
		return "", false
	}
	return u, true
}

// legacyURL normalizes a legacy flat-file path into a servable URL: absolute
// http(s) URLs are reduced to their path component, /storage/ paths pass
// through, anything else is prefixed with /storage/.
func legacyURL(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return relativeURL(path), true
	}
	if strings.HasPrefix(path, "/storage/") {
		return path, true
	}
	return "/storage/" + strings.TrimPrefix(path, "/"), true
}

// relativeURL strips scheme and host from a URL so callers always receive a
// server path. Unparseable input is returned as-is rather than dropped.
func relativeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Host == "" {
		return raw
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
