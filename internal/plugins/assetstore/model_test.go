package assetstore

import "testing"

func TestConversionFileName(t *testing.T) {
	cases := []struct {
		original   string
		conversion string
		want       string
	}{
		{"20240312_101500_ab12cd.jpg", "thumb", "20240312_101500_ab12cd-thumb.webp"},
		{"photo.png", "xxlarge", "photo-xxlarge.webp"},
		{"noext", "small", "noext-small.webp"},
	}
	for _, tc := range cases {
		if got := conversionFileName(tc.original, tc.conversion); got != tc.want {
			t.Errorf("conversionFileName(%q, %q) = %q, want %q", tc.original, tc.conversion, got, tc.want)
		}
	}
}

func TestStoredAssetURLs(t *testing.T) {
	asset := &StoredAsset{
		UUID:                 "u-1",
		FileName:             "a.jpg",
		GeneratedConversions: map[string]bool{SizeThumb: true},
	}

	if got := asset.OriginalURL(); got != "/storage/media/u-1/a.jpg" {
		t.Errorf("OriginalURL = %q", got)
	}

	u, ok := asset.ConversionURL(SizeThumb)
	if !ok || u != "/storage/media/u-1/conversions/a-thumb.webp" {
		t.Errorf("ConversionURL(thumb) = %q (ok=%v)", u, ok)
	}
	if _, ok := asset.ConversionURL(SizeLarge); ok {
		t.Error("ConversionURL must report false for an ungenerated conversion")
	}
}

func TestValidCollection(t *testing.T) {
	for _, name := range []string{CollectionDefault, CollectionImages, CollectionGallery, CollectionLogos} {
		if !ValidCollection(name) {
			t.Errorf("ValidCollection(%q) = false", name)
		}
	}
	if ValidCollection("attachments") {
		t.Error("ValidCollection(\"attachments\") = true, want false")
	}
}

func TestConversionSizesOrderedAscending(t *testing.T) {
	for i := 1; i < len(ConversionSizes); i++ {
		if ConversionSizes[i].Width <= ConversionSizes[i-1].Width {
			t.Errorf("registry not ascending at %s", ConversionSizes[i].Name)
		}
	}
	if w, ok := SizeByName(SizeMedium); !ok || w != 768 {
		t.Errorf("SizeByName(medium) = %d (ok=%v), want 768", w, ok)
	}
	if _, ok := SizeByName("huge"); ok {
		t.Error("SizeByName must report false for unknown names")
	}
}
