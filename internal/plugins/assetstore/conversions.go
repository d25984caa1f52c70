package assetstore

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the image formats uploads may arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// convertibleMimeTypes are the raster formats the conversion pipeline can
// decode. SVG and video originals are stored as-is with no conversions.
var convertibleMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// generateConversions decodes the original image and writes one WebP file per
// registry entry into dir. Images are scaled down to the breakpoint width
// preserving aspect ratio; sources narrower than a breakpoint are re-encoded
// at their original size rather than upscaled, so every breakpoint always has
// a file. Conversions run synchronously -- the upload response waits for all
// of them.
//
// Returns the set of conversion names that were written. A decode failure is
// an error; an individual encode failure aborts and cleans up what was
// written so the asset is either fully converted or not at all.
func generateConversions(data []byte, dir, originalFileName string) (map[string]bool, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating conversions directory: %w", err)
	}

	generated := make(map[string]bool, len(ConversionSizes))
	for _, size := range ConversionSizes {
		name := conversionFileName(originalFileName, size.Name)
		if err := writeConversion(src, filepath.Join(dir, name), size.Width); err != nil {
			removeConversions(dir, originalFileName, generated)
			return nil, fmt.Errorf("generating %s conversion: %w", size.Name, err)
		}
		generated[size.Name] = true
	}
	return generated, nil
}

// writeConversion scales src to at most maxWidth pixels wide and writes it as
// WebP. Width-bounded: a 640px source asked for a 1920px conversion stays 640px.
func writeConversion(src image.Image, path string, maxWidth int) error {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := src
	if w > maxWidth {
		newW := maxWidth
		newH := h * maxWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating conversion file: %w", err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, out, nil); err != nil {
		os.Remove(path)
		return fmt.Errorf("encoding webp: %w", err)
	}
	return nil
}

// removeConversions deletes the conversion files recorded in generated.
func removeConversions(dir, originalFileName string, generated map[string]bool) {
	for name := range generated {
		os.Remove(filepath.Join(dir, conversionFileName(originalFileName, name)))
	}
}

// isConvertible reports whether the conversion pipeline can process the
// given MIME type.
func isConvertible(mimeType string) bool {
	return convertibleMimeTypes[strings.ToLower(mimeType)]
}
