package lsb

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisyCover(n int, seed int64) []byte {
	buf := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(buf)
	return buf
}

func lsbs(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = b & 1
	}
	return out
}

func TestEncodeTextScenario(t *testing.T) {
	cover := make([]byte, 1000)
	out, err := EncodeText(cover, "hi")
	require.NoError(t, err)

	want := make([]byte, 32)
	want[30] = 1 // length 2 = ...0010
	assert.Equal(t, want, lsbs(out[:32]))
	assert.Equal(t, []byte{0, 1, 1, 0, 1, 0, 0, 0}, lsbs(out[32:40])) // 0x68
	assert.Equal(t, []byte{0, 1, 1, 0, 1, 0, 0, 1}, lsbs(out[40:48])) // 0x69

	text, err := DecodeText(out)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestEncodeReturnsSameBuffer(t *testing.T) {
	cover := make([]byte, 100)
	out, err := EncodeText(cover, "a")
	require.NoError(t, err)
	assert.Same(t, &cover[0], &out[0])
}

func TestTextRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("Hello world!"),
		{0x00, 0xFF, 0x7F, 0x80},
		bytes.Repeat([]byte("a"), 4096),
	}
	for i, p := range payloads {
		cover := noisyCover(TextHeaderBits+len(p)*8+17, int64(i))
		_, err := EncodeBytes(cover, p)
		require.NoError(t, err)
		got, err := DecodeBytes(cover)
		require.NoError(t, err)
		assert.Equal(t, len(p), len(got))
		assert.True(t, bytes.Equal(p, got), "payload %d spoiled", i)
	}
}

func TestEncodeLeavesTailUntouched(t *testing.T) {
	cover := noisyCover(4000, 7)
	orig := append([]byte(nil), cover...)
	payload := []byte("some hidden text")
	_, err := EncodeText(cover, string(payload))
	require.NoError(t, err)

	end := TextHeaderBits + len(payload)*8
	assert.Equal(t, orig[end:], cover[end:])
	for i := 0; i < end; i++ {
		assert.Equal(t, orig[i]&0xFE, cover[i]&0xFE, "upper bits changed at slot %d", i)
	}
}

func TestCapacityBoundary(t *testing.T) {
	payload := []byte("exact fit")
	need := TextHeaderBits + len(payload)*8

	_, err := EncodeBytes(make([]byte, need), payload)
	assert.NoError(t, err)

	short := noisyCover(need-1, 3)
	orig := append([]byte(nil), short...)
	_, err = EncodeBytes(short, payload)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, orig, short, "failed encode must not write")

	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, need, ce.Need)
	assert.Equal(t, need-1, ce.Have)
}

func TestImageCapacityBoundary(t *testing.T) {
	secret := Raster{Pix: make([]byte, 2*2*3), Width: 2, Height: 2}
	need := ImageHeaderBits + len(secret.Pix)*8

	_, err := EncodeImage(make([]byte, need), secret)
	assert.NoError(t, err)
	_, err = EncodeImage(make([]byte, need-1), secret)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestTextHeaderIsolation(t *testing.T) {
	cover := noisyCover(2000, 11)
	p := bytes.Repeat([]byte{0x55}, 0x0102)
	cover = append(cover, make([]byte, len(p)*8)...)
	_, err := EncodeBytes(cover, p)
	require.NoError(t, err)

	v, err := ReadField(cover, 0, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102), v)
}

func TestImageHeaderIsolation(t *testing.T) {
	secret := Raster{Pix: noisyCover(5*3*3, 1), Width: 5, Height: 3}
	cover := noisyCover(ImageHeaderBits+len(secret.Pix)*8, 2)
	_, err := EncodeImage(cover, secret)
	require.NoError(t, err)

	h, err := ReadHeader(cover, ImageShape)
	require.NoError(t, err)
	assert.Equal(t, Header{Length: 45, Width: 5, Height: 3}, h)

	width, _ := ReadField(cover, 32, 16)
	height, _ := ReadField(cover, 48, 16)
	assert.Equal(t, uint64(5), width)
	assert.Equal(t, uint64(3), height)
}

func TestImageRoundTripSwapsChannels(t *testing.T) {
	secret := Raster{Pix: noisyCover(4*3*3, 5), Width: 4, Height: 3}
	orig := append([]byte(nil), secret.Pix...)
	cover := noisyCover(ImageHeaderBits+len(secret.Pix)*8+100, 6)

	_, err := EncodeImage(cover, secret)
	require.NoError(t, err)
	assert.Equal(t, orig, secret.Pix, "encode must not reorder the secret")

	got, err := DecodeImage(cover)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Width)
	assert.Equal(t, 3, got.Height)

	want := append([]byte(nil), orig...)
	SwapRB(want)
	assert.Equal(t, want, got.Pix)
	assert.Equal(t, orig[0], got.Pix[2])
	assert.Equal(t, orig[2], got.Pix[0])
	assert.Equal(t, orig[1], got.Pix[1])
}

func TestDecodeTextNoSwap(t *testing.T) {
	cover := make([]byte, 200)
	_, err := EncodeBytes(cover, []byte{1, 2, 3})
	require.NoError(t, err)
	got, err := DecodeBytes(cover)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestDecodeAllZeroLSBs(t *testing.T) {
	cover := bytes.Repeat([]byte{0xAA}, 512)

	text, err := DecodeText(cover)
	require.NoError(t, err)
	assert.Empty(t, text)

	img, err := DecodeImage(cover)
	require.NoError(t, err)
	assert.Zero(t, img.Width)
	assert.Zero(t, img.Height)
	assert.Empty(t, img.Pix)
}

func TestDecodeAllOnesLength(t *testing.T) {
	cover := bytes.Repeat([]byte{0x01}, 4096)

	_, err := DecodeText(cover)
	assert.ErrorIs(t, err, ErrUntrustedLength)
	assert.ErrorIs(t, err, ErrNoHiddenData)

	_, err = DecodeImage(cover)
	assert.ErrorIs(t, err, ErrUntrustedLength)
}

func TestDecoderCeiling(t *testing.T) {
	cover := make([]byte, 2000)
	_, err := EncodeText(cover, "0123456789")
	require.NoError(t, err)

	_, err = Decoder{MaxPayload: 9}.DecodeText(cover)
	assert.ErrorIs(t, err, ErrUntrustedLength)

	text, err := Decoder{MaxPayload: 10}.DecodeText(cover)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", text)

	text, err = Decoder{MaxPayload: -1}.DecodeText(cover)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", text)
}

func TestDecodeImageShapeMismatch(t *testing.T) {
	cover := make([]byte, 1000)
	_, err := EncodeText(cover, "not an image")
	require.NoError(t, err)

	_, err = DecodeImage(cover)
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.NotErrorIs(t, err, ErrUntrustedLength)
	assert.ErrorIs(t, err, ErrNoHiddenData)
}

func TestDecodeShortCover(t *testing.T) {
	_, err := DecodeText(make([]byte, 10))
	assert.ErrorIs(t, err, ErrNoHiddenData)
	_, err = DecodeImage(make([]byte, 40))
	assert.ErrorIs(t, err, ErrNoHiddenData)
}

func TestEncodeImageRejectsBadSecret(t *testing.T) {
	cover := make([]byte, 1<<12)
	tests := []Raster{
		{Pix: make([]byte, 5), Width: 2, Height: 1},
		{Pix: nil, Width: -1, Height: 0},
		{Pix: nil, Width: MaxDimension + 1, Height: 0},
	}
	for _, s := range tests {
		_, err := EncodeImage(cover, s)
		assert.ErrorIs(t, err, ErrInvalidSecret)
	}
	assert.Equal(t, make([]byte, 1<<12), cover)
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 0, Capacity(0, TextShape))
	assert.Equal(t, 0, Capacity(31, TextShape))
	assert.Equal(t, 1, Capacity(40, TextShape))
	assert.Equal(t, 121, Capacity(1000, TextShape))
	assert.Equal(t, 117, Capacity(1000, ImageShape))
}

func TestCapacityClampsToLengthField(t *testing.T) {
	want := min(uint64(math.MaxInt-TextHeaderBits)/8, MaxLength)
	assert.EqualValues(t, want, Capacity(math.MaxInt, TextShape))
	assert.LessOrEqual(t, uint64(Capacity(math.MaxInt, ImageShape)), uint64(MaxLength))

	assert.Equal(t, maxLengthInt, Decoder{MaxPayload: -1}.limit())
	assert.Equal(t, DefaultMaxPayload, Decoder{}.limit())
}

func TestSwapRB(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7}
	SwapRB(pix)
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4, 7}, pix)
}
