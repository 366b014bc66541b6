// Package imageio converts between image files and the flat B,G,R buffers
// the lsb codec works on.
//
// Covers may be read from PNG, JPEG, GIF, BMP, TIFF or WebP. Stego images are
// only ever written losslessly (PNG or BMP): any lossy re-encode destroys the
// LSB plane.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrLossyFormat is returned when asked to write a stego image in a
	// format that would not preserve every sample bit.
	ErrLossyFormat = errors.New("lossy output format would destroy hidden data")

	// ErrUnsupportedFormat is returned for unknown output extensions.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrImageTooLarge is returned when an image header declares more
	// pixels than the caller allows.
	ErrImageTooLarge = errors.New("image dimensions exceed limit")
)

// Decode reads any registered image format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// DecodeConfig reads only the header of data and checks that the image has
// at most maxPixels pixels. maxPixels <= 0 disables the check.
func DecodeConfig(data []byte, maxPixels int) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return cfg, "", fmt.Errorf("decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return cfg, format, fmt.Errorf("%w: %dx%d is over %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return cfg, format, nil
}

// DecodeLimited decodes data after DecodeConfig accepts its dimensions, so
// a small file declaring a huge image is rejected before allocation.
func DecodeLimited(data []byte, maxPixels int) (image.Image, string, error) {
	if _, _, err := DecodeConfig(data, maxPixels); err != nil {
		return nil, "", err
	}
	return Decode(bytes.NewReader(data))
}

// Load opens and decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FormatFromPath maps a file extension to an output format name. Paths
// without an extension default to "png".
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "":
		return "png"
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return ext
}

// OutputPath returns path unchanged when it has an extension, otherwise
// path with ".png" appended.
func OutputPath(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".png"
	}
	return path
}

// Encode writes img to w in the named lossless format ("png" or "bmp").
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return writePNG(w, img)
	case "bmp":
		return writeBMP(w, img)
	case "jpeg", "gif", "webp":
		return fmt.Errorf("%s: %w", format, ErrLossyFormat)
	default:
		return fmt.Errorf("%q: %w (use png or bmp)", format, ErrUnsupportedFormat)
	}
}

// Save writes img to path, choosing the format from its extension. It
// returns the path actually written (see OutputPath).
func Save(path string, img image.Image) (string, error) {
	path = OutputPath(path)
	format := FormatFromPath(path)
	if format != "png" && format != "bmp" {
		return "", Encode(io.Discard, img, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, img, format); err != nil {
		return "", err
	}
	return path, f.Sync()
}
