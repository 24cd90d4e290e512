package render

import (
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrTypeUnsupportedFormat is returned for image formats Encode cannot write.
const ErrTypeUnsupportedFormat = "unsupported_format"

// Formats lists the image formats Encode supports.
var Formats = []string{"png", "bmp", "tiff"}

// FormatFromPath derives the image format from a file extension.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "tif" {
		return "tiff"
	}
	return ext
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.New("unsupported image format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("format", format)
	}

	if err != nil {
		return errors.New("encoding image failed").
			WithTag("format", format).
			Wrap(err)
	}
	return nil
}
