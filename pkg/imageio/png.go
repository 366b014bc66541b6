// png.go — PNG writer.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// writePNG encodes img as PNG. Opaque RGBA input is written as 8-bit
// truecolor so every sample survives unchanged.
func writePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
