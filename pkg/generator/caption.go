// caption.go — Text overlay for generated covers.
package generator

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawCaption writes text in fg centered on img, wrapped to 90% of its width.
func drawCaption(img *image.RGBA, text, fontPath string, fg color.RGBA) error {
	b := img.Bounds()
	size := max(float64(b.Dy())/12, 8)
	face, err := loadFace(fontPath, size)
	if err != nil {
		return err
	}
	defer face.Close()

	lines := wrapText(text, b.Dx()*9/10, face)
	if len(lines) == 0 {
		return nil
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	y := (b.Dy()-lineHeight*len(lines))/2 + metrics.Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	for _, line := range lines {
		x := (b.Dx() - drawer.MeasureString(line).Ceil()) / 2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	return nil
}

// wrapText breaks text into lines no wider than maxWidth pixels.
func wrapText(text string, maxWidth int, face font.Face) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}

// contrastColor returns black or white, whichever stands out against bg.
func contrastColor(bg color.RGBA) color.RGBA {
	// Rec. 601 luma
	luma := (299*int(bg.R) + 587*int(bg.G) + 114*int(bg.B)) / 1000
	if luma > 127 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}
