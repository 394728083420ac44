package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// allowedTypes maps each accepted MIME type to the format name the image
// package reports for it.
var allowedTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ErrUnsupportedType is returned for MIME types outside the allow list.
type ErrUnsupportedType struct {
	ContentType string
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported image type %q", e.ContentType)
}

// ErrTypeMismatch is returned when the body decodes as a different format
// than the declared content type.
var ErrTypeMismatch = errors.New("image format does not match content type")

// NormalizeContentType lower-cases and strips parameters.
func NormalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

// Allowed reports whether ct is an accepted upload type.
func Allowed(ct string) bool {
	_, ok := allowedTypes[NormalizeContentType(ct)]
	return ok
}

// Decode checks that data really is an image of the declared type and
// returns its bounds.
func Decode(contentType string, data []byte) (image.Rectangle, error) {
	ct := NormalizeContentType(contentType)
	want, ok := allowedTypes[ct]
	if !ok {
		return image.Rectangle{}, &ErrUnsupportedType{ContentType: contentType}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("decode %s: %w", ct, err)
	}
	if format != want {
		return image.Rectangle{}, fmt.Errorf("%w: declared %s, body is %s", ErrTypeMismatch, ct, format)
	}

	var img image.Image
	switch ct {
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		img, err = imaging.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("decode %s: %w", ct, err)
	}
	return img.Bounds(), nil
}
