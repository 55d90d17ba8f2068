package catalog

import (
	"context"
	"io"
	"strings"
)

// AllowedImageTypes maps accepted image content types to the extension used for the storage key.
// SVG is not accepted because it can carry inline script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

// ImageStorage defines the interface for the external image host.
// It is implemented by the infrastructure layer (S3, MinIO, stub).
type ImageStorage interface {
	// Upload stores body under key and returns the public URL of the stored object
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}

// ImageUpload is an image file received with a create request
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// imageExtension returns the storage key extension for contentType, or false when the type is not allowed
func imageExtension(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	ext, ok := AllowedImageTypes[strings.ToLower(strings.TrimSpace(mediaType))]
	return ext, ok
}
