package assetstore

// ConversionSize is one named responsive breakpoint.
type ConversionSize struct {
	Name  string
	Width int // Maximum pixel width; conversions are never upscaled past the source.
}

// Breakpoint names, for callers that ask for a specific conversion.
const (
	SizeThumb   = "thumb"
	SizeSmall   = "small"
	SizeMedium  = "medium"
	SizeLarge   = "large"
	SizeXLarge  = "xlarge"
	SizeXXLarge = "xxlarge"
)

// ConversionSizes is the single source of truth for the responsive
// breakpoints, in declared order. The names are stable across the process
// lifetime -- renaming one invalidates every previously generated conversion
// on disk, so treat this list as append-only.
var ConversionSizes = []ConversionSize{
	{Name: SizeThumb, Width: 320},
	{Name: SizeSmall, Width: 640},
	{Name: SizeMedium, Width: 768},
	{Name: SizeLarge, Width: 1024},
	{Name: SizeXLarge, Width: 1280},
	{Name: SizeXXLarge, Width: 1920},
}

// SizeByName returns the pixel width for a named breakpoint.
func SizeByName(name string) (int, bool) {
	for _, s := range ConversionSizes {
		if s.Name == name {
			return s.Width, true
		}
	}
	return 0, false
}
