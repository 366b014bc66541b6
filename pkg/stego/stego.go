// Package stego wires image decoding, channel normalization and the lsb
// codec into the four user-facing operations shared by the CLI, the HTTP
// server and the WASM client.
package stego

import (
	"fmt"
	"image"

	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/lsb"
)

// HideText embeds text in a normalized copy of cover and returns the stego
// image. cover itself is not modified.
func HideText(cover image.Image, text []byte) (*image.RGBA, error) {
	raster := imageio.Normalize(cover)
	if _, err := lsb.EncodeBytes(raster.Pix, text); err != nil {
		return nil, err
	}
	return imageio.ToImage(raster, imageio.BGR), nil
}

// HideImage embeds secret in a normalized copy of cover. With fit set, a
// secret that is too large for the cover, or wider or taller than the
// header can describe, is downscaled first.
func HideImage(cover, secret image.Image, fit bool) (*image.RGBA, error) {
	raster := imageio.Normalize(cover)
	if fit {
		room := lsb.Capacity(len(raster.Pix), lsb.ImageShape)
		secret = imageio.FitToCapacity(secret, room, lsb.MaxDimension)
		if secret == nil {
			return nil, &lsb.CapacityError{Need: lsb.ImageHeaderBits + 3*8, Have: len(raster.Pix)}
		}
	}
	if _, err := lsb.EncodeImage(raster.Pix, imageio.Normalize(secret)); err != nil {
		return nil, err
	}
	return imageio.ToImage(raster, imageio.BGR), nil
}

// RevealText extracts a text payload.
func RevealText(img image.Image, dec lsb.Decoder) ([]byte, error) {
	return dec.DecodeBytes(imageio.Normalize(img).Pix)
}

// RevealImage extracts a hidden image. The decoder returns R,G,B samples.
func RevealImage(img image.Image, dec lsb.Decoder) (*image.RGBA, error) {
	secret, err := dec.DecodeImage(imageio.Normalize(img).Pix)
	if err != nil {
		return nil, err
	}
	if secret.Width == 0 || secret.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", lsb.ErrNoHiddenData)
	}
	return imageio.ToImage(secret, imageio.RGB), nil
}

// Report describes how much a cover can carry.
type Report struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Slots      int `json:"slots"`
	TextBytes  int `json:"text_bytes"`
	ImageBytes int `json:"image_bytes"`
	// ImagePixels is the largest secret pixel count that fits.
	ImagePixels int `json:"image_pixels"`
}

// Capacity reports the payload room of cover.
func Capacity(cover image.Image) Report {
	b := cover.Bounds()
	slots := b.Dx() * b.Dy() * 3
	imgBytes := lsb.Capacity(slots, lsb.ImageShape)
	return Report{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Slots:       slots,
		TextBytes:   lsb.Capacity(slots, lsb.TextShape),
		ImageBytes:  imgBytes,
		ImagePixels: imgBytes / 3,
	}
}
