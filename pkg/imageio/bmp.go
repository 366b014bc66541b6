// bmp.go — BMP writer. Opaque images are stored as 24-bit B,G,R rows, so
// every normalized sample round-trips.
package imageio

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

func writeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, toRGBA(img)); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}
