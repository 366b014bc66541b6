// normalize.go — Flattening images to 3-byte-per-pixel buffers and back.
package imageio

import (
	"image"
	"image/draw"

	"github.com/xob0t/GoStego/pkg/lsb"
)

// ChannelOrder names the byte order of a flattened pixel.
type ChannelOrder int

const (
	// BGR is the layout of covers and of secrets as they are embedded.
	BGR ChannelOrder = iota
	// RGB is the layout the decoder hands back for secret images.
	RGB
)

func (o ChannelOrder) String() string {
	if o == RGB {
		return "RGB"
	}
	return "BGR"
}

// toRGBA returns img as an *image.RGBA anchored at (0,0). Transparent
// pixels end up composited over black.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Normalize flattens img into width*height*3 bytes, row-major, B,G,R per
// pixel. The result never aliases img.
func Normalize(img image.Image) lsb.Raster {
	rgba := toRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	pix := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			pix = append(pix, row[x+2], row[x+1], row[x])
		}
	}
	return lsb.Raster{Pix: pix, Width: w, Height: h}
}

// ToImage expands a flattened raster into an opaque RGBA image, reading
// each pixel in the given channel order.
func ToImage(r lsb.Raster, order ChannelOrder) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	ri, bi := 2, 0
	if order == RGB {
		ri, bi = 0, 2
	}
	for i, o := 0, 0; i+2 < len(r.Pix) && o+3 < len(img.Pix); i, o = i+3, o+4 {
		img.Pix[o] = r.Pix[i+ri]
		img.Pix[o+1] = r.Pix[i+1]
		img.Pix[o+2] = r.Pix[i+bi]
		img.Pix[o+3] = 0xFF
	}
	return img
}
