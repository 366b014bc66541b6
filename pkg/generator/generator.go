// Package generator creates cover images for hiding data.
//
// A cover starts as a solid color, optionally gets per-sample noise so its
// LSB plane is not constant, and optionally carries a caption. Covers are
// written through imageio, so only lossless formats are produced.
package generator

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/xob0t/GoStego/pkg/imageio"
)

// Default cover size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Config holds parameters for cover generation.
type Config struct {
	Width        int    // Pixel width (default: 1280)
	Height       int    // Pixel height (default: 720)
	Color        string // Hex "#rrggbb" or "random"
	Noise        int    // Max per-sample deviation, 0 disables
	Seed         int64  // Noise seed; 0 picks a random one
	Caption      string // Optional centered text
	CaptionColor string // Caption color; empty picks black or white
	FontPath     string // Optional TTF/OTF for the caption
}

// NewCover renders a cover image from cfg.
func NewCover(cfg Config) (*image.RGBA, error) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	if cfg.Noise < 0 || cfg.Noise > 127 {
		return nil, fmt.Errorf("noise %d out of range 0..127", cfg.Noise)
	}

	r, g, b, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	bg := toRGBA(r, g, b)
	img := NewSolidImage(w, h, bg)

	if cfg.Caption != "" {
		fg := contrastColor(bg)
		if cfg.CaptionColor != "" {
			if fg, err = ParseHexRGBA(cfg.CaptionColor); err != nil {
				return nil, fmt.Errorf("caption color: %w", err)
			}
		}
		if err := drawCaption(img, cfg.Caption, cfg.FontPath, fg); err != nil {
			return nil, fmt.Errorf("caption: %w", err)
		}
	}
	if cfg.Noise > 0 {
		addNoise(img, cfg.Noise, cfg.Seed)
	}
	return img, nil
}

// Generate renders a cover and writes it to output. The format is inferred
// from the extension (".png" or ".bmp"); a bare name gets ".png". It
// returns the path written.
func Generate(output string, cfg Config) (string, error) {
	img, err := NewCover(cfg)
	if err != nil {
		return "", err
	}
	return imageio.Save(output, img)
}

// addNoise perturbs each color sample by up to ±amount, clamped to 0..255.
func addNoise(img *image.RGBA, amount int, seed int64) {
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	span := 2*amount + 1
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(img.Pix[i+c]) + rng.Intn(span) - amount
			img.Pix[i+c] = uint8(min(max(v, 0), 255))
		}
	}
}
