// Package imports turns encoded images from uploads, drops, and generation
// results into pixels on the drawing surface.
package imports

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// IsImageMIME reports whether the MIME type names a raster image.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}

// SniffMIME detects the content type of raw bytes.
func SniffMIME(data []byte) string {
	return http.DetectContentType(data)
}

// Decode decodes encoded raster bytes into an image. The format name of the
// registered decoder that matched is returned alongside.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
