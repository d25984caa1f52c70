package media

import (
	"strings"
	"testing"

	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
)

func TestValidateUpload_AllowedCombinations(t *testing.T) {
	cases := []struct {
		context  string
		mime     string
		filename string
	}{
		{ContextLogo, "image/jpeg", "logo.jpg"},
		{ContextLogo, "image/png", "logo.png"},
		{ContextLogo, "image/gif", "logo.gif"},
		{ContextLogo, "image/webp", "logo.webp"},
		{ContextLogo, "image/svg+xml", "logo.svg"},
		{ContextProduct, "image/jpeg", "speaker.jpeg"},
		{ContextProduct, "image/png", "speaker.png"},
		{ContextProduct, "image/webp", "speaker.webp"},
		{ContextArticle, "image/jpeg", "article.jpg"},
		{ContextArticle, "image/gif", "article.gif"},
		{ContextGallery, "image/png", "room.png"},
		{ContextGallery, "image/webp", "room.webp"},
		{"", "image/jpeg", "misc.jpg"},
		{"unknown-context", "image/png", "misc.png"},
	}

	for _, tc := range cases {
		content := []byte("data")
		if strings.HasSuffix(tc.filename, ".svg") {
			content = []byte(`<svg><rect/></svg>`)
		}
		if err := ValidateUpload(tc.context, tc.mime, tc.filename, content); err != nil {
			t.Errorf("ValidateUpload(%q, %q, %q) = %v, want nil", tc.context, tc.mime, tc.filename, err)
		}
	}
}

func TestValidateUpload_RejectedMimeType(t *testing.T) {
	err := ValidateUpload(ContextProduct, "image/gif", "shot.png", []byte("data"))
	assertAppError(t, err, 422)
	if !strings.Contains(err.Error(), "unsupported file type image/gif") {
		t.Errorf("expected a type-mismatch message, got %q", err.Error())
	}
}

func TestValidateUpload_RejectedExtension(t *testing.T) {
	err := ValidateUpload(ContextProduct, "image/png", "shot.gif", []byte("data"))
	assertAppError(t, err, 422)
	if !strings.Contains(err.Error(), "unsupported file extension .gif") {
		t.Errorf("expected an extension-mismatch message, got %q", err.Error())
	}
}

func TestValidateUpload_SpoofedContentType(t *testing.T) {
	// Allowed extension with a disallowed declared type must still fail.
	err := ValidateUpload(ContextProduct, "application/octet-stream", "shot.png", []byte("data"))
	assertAppError(t, err, 422)
}

func TestValidateUpload_SVGOnlyInLogoContext(t *testing.T) {
	err := ValidateUpload(ContextProduct, "image/svg+xml", "logo.svg", []byte(`<svg/>`))
	assertAppError(t, err, 422)

	err = ValidateUpload(ContextArticle, "image/svg+xml", "logo.svg", []byte(`<svg/>`))
	assertAppError(t, err, 422)
}

func TestValidateUpload_UnsafeSVGRejected(t *testing.T) {
	err := ValidateUpload(ContextLogo, "image/svg+xml", "logo.svg",
		[]byte(`<svg onload="alert(1)"></svg>`))
	assertAppError(t, err, 422)
	if !strings.Contains(err.Error(), "safety scan") {
		t.Errorf("expected the safety scan message, got %q", err.Error())
	}
}

func TestValidateUpload_MimeCaseInsensitive(t *testing.T) {
	if err := ValidateUpload(ContextProduct, "IMAGE/JPEG", "shot.JPG", []byte("data")); err != nil {
		t.Errorf("uppercase MIME/extension should be accepted, got %v", err)
	}
}

func TestValidateVideo(t *testing.T) {
	if err := ValidateVideo("video/mp4", "demo.mp4"); err != nil {
		t.Errorf("mp4: %v", err)
	}
	if err := ValidateVideo("video/webm", "demo.webm"); err != nil {
		t.Errorf("webm: %v", err)
	}

	assertAppError(t, ValidateVideo("video/quicktime", "demo.mov"), 422)
	// Type/extension mismatch fails even when both are individually known.
	assertAppError(t, ValidateVideo("video/mp4", "demo.webm"), 422)
}

func TestValidateUpload_VideoContextDelegates(t *testing.T) {
	if err := ValidateUpload(ContextVideo, "video/mp4", "demo.mp4", nil); err != nil {
		t.Errorf("video context: %v", err)
	}
	assertAppError(t, ValidateUpload(ContextVideo, "image/png", "demo.png", nil), 422)
}

func TestContextCollections(t *testing.T) {
	cases := map[string]string{
		ContextLogo:    assetstore.CollectionLogos,
		ContextProduct: assetstore.CollectionGallery,
		ContextArticle: assetstore.CollectionImages,
		ContextGallery: assetstore.CollectionGallery,
		"":             assetstore.CollectionDefault,
		"bogus":        assetstore.CollectionDefault,
	}
	for name, want := range cases {
		if got := contextFor(name).Collection; got != want {
			t.Errorf("contextFor(%q).Collection = %q, want %q", name, got, want)
		}
	}
}
