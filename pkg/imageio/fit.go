// fit.go — Shrinking a secret image until it fits a cover.
package imageio

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// FitToCapacity returns img unchanged if its flattened size is at most
// maxBytes and neither side exceeds maxSide; otherwise a Lanczos-downscaled
// copy, aspect ratio preserved, that meets both limits. It returns nil if
// not even a 1x1 image fits.
func FitToCapacity(img image.Image, maxBytes, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || w*h*3 <= maxBytes && w <= maxSide && h <= maxSide {
		return img
	}
	if maxBytes < 3 || maxSide < 1 {
		return nil
	}

	scale := min(
		math.Sqrt(float64(maxBytes)/float64(w*h*3)),
		float64(maxSide)/float64(w),
		float64(maxSide)/float64(h),
	)
	nw := min(max(int(math.Round(float64(w)*scale)), 1), maxSide)
	nh := min(max(int(math.Round(float64(h)*scale)), 1), maxSide)
	for nw*nh*3 > maxBytes {
		if nw >= nh && nw > 1 {
			nw--
		} else {
			nh--
		}
	}

	g := gift.New(gift.Resize(nw, nh, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}
