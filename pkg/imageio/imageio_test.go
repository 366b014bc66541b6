package imageio

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoStego/pkg/lsb"
)

func sampleImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 17), uint8(y * 29), uint8(x*y + 3), 0xFF})
		}
	}
	return img
}

func TestNormalizeBGR(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	r := Normalize(img)
	assert.Equal(t, 2, r.Width)
	assert.Equal(t, 1, r.Height)
	assert.Equal(t, []byte{30, 20, 10, 60, 50, 40}, r.Pix)
}

func TestNormalizeOffsetBounds(t *testing.T) {
	src := sampleImage(6, 5)
	sub := src.SubImage(image.Rect(2, 1, 5, 4))

	r := Normalize(sub)
	require.Equal(t, 3, r.Width)
	require.Equal(t, 3, r.Height)
	c := src.RGBAAt(2, 1)
	assert.Equal(t, []byte{c.B, c.G, c.R}, r.Pix[:3])
}

func TestNormalizeDoesNotAlias(t *testing.T) {
	img := sampleImage(3, 3)
	r := Normalize(img)
	r.Pix[0] ^= 0xFF
	assert.Equal(t, sampleImage(3, 3).Pix, img.Pix)
}

func TestToImageOrders(t *testing.T) {
	r := lsb.Raster{Pix: []byte{1, 2, 3}, Width: 1, Height: 1}
	assert.Equal(t, color.RGBA{R: 3, G: 2, B: 1, A: 255}, ToImage(r, BGR).RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, ToImage(r, RGB).RGBAAt(0, 0))
}

func TestLosslessRoundTrip(t *testing.T) {
	for _, format := range []string{"png", "bmp"} {
		t.Run(format, func(t *testing.T) {
			raster := Normalize(sampleImage(7, 5))
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, ToImage(raster, BGR), format))

			img, got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, got)
			assert.Equal(t, raster, Normalize(img))
		})
	}
}

func TestEncodeRejectsLossy(t *testing.T) {
	img := sampleImage(2, 2)
	for _, format := range []string{"jpeg", "gif", "webp"} {
		assert.ErrorIs(t, Encode(&bytes.Buffer{}, img, format), ErrLossyFormat)
	}
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, img, "xcf"), ErrUnsupportedFormat)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := sampleImage(4, 4)

	path, err := Save(filepath.Join(dir, "out"), img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.png"), path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Normalize(img), Normalize(loaded))

	_, err = Save(filepath.Join(dir, "out.jpg"), img)
	assert.ErrorIs(t, err, ErrLossyFormat)
	_, statErr := os.Stat(filepath.Join(dir, "out.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "png", FormatFromPath("a"))
	assert.Equal(t, "png", FormatFromPath("a.PNG"))
	assert.Equal(t, "bmp", FormatFromPath("dir/a.bmp"))
	assert.Equal(t, "jpeg", FormatFromPath("a.jpg"))
}

func TestFitToCapacity(t *testing.T) {
	img := sampleImage(40, 20)
	assert.Same(t, img, FitToCapacity(img, 40*20*3, 40))

	small := FitToCapacity(img, 600, 1000)
	require.NotNil(t, small)
	b := small.Bounds()
	assert.LessOrEqual(t, b.Dx()*b.Dy()*3, 600)
	assert.Greater(t, b.Dx(), b.Dy())

	assert.Nil(t, FitToCapacity(img, 2, 1000))

	narrow := FitToCapacity(img, 40*20*3, 10)
	require.NotNil(t, narrow)
	assert.Equal(t, image.Rect(0, 0, 10, 5), narrow.Bounds())
}

// pngHeader returns a PNG that stops after its IHDR chunk.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 17)
	copy(ihdr, "IHDR")
	binary.BigEndian.PutUint32(ihdr[4:], w)
	binary.BigEndian.PutUint32(ihdr[8:], h)
	ihdr[12] = 8 // bit depth
	ihdr[13] = 2 // truecolor
	binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(ihdr)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr))
	return buf.Bytes()
}

func TestDecodeLimited(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleImage(40, 20), "png"))
	data := buf.Bytes()

	img, format, err := DecodeLimited(data, 800)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	_, _, err = DecodeLimited(data, 799)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	huge := pngHeader(20000, 20000)
	cfg, _, err := DecodeConfig(huge, 1<<20)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Equal(t, 20000, cfg.Width)
	_, _, err = DecodeLimited(huge, 1<<20)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, _, err = DecodeLimited([]byte("not an image"), 0)
	assert.Error(t, err)
}
