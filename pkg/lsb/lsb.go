// Package lsb hides text or a raster image in the least-significant bits of
// a flattened cover image and reads it back.
//
// A cover is a byte slice with one color sample per byte (width*height*3
// bytes, B,G,R per pixel). Every byte ("slot") carries one hidden bit. A
// fixed header comes first, most significant bit first:
//
//	text:  length(32) | payload
//	image: length(32) | width(16) | height(16) | payload
//
// Embedding is format-only: there is no checksum or magic number, so the
// decoder cannot tell an untouched cover from an encoded one. Declared
// lengths are therefore bounded before anything is allocated.
package lsb

import "fmt"

// DefaultMaxPayload caps the payload the package-level decode functions
// will allocate.
const DefaultMaxPayload = 256 << 20

// Raster is a flattened image: Pix holds Width*Height*3 bytes, row-major,
// three channel bytes per pixel.
type Raster struct {
	Pix    []byte
	Width  int
	Height int
}

// Len returns the expected length of Pix.
func (r Raster) Len() int {
	return r.Width * r.Height * 3
}

// Decoder reads payloads with an explicit allocation ceiling.
type Decoder struct {
	// MaxPayload bounds the declared payload length. Zero means
	// DefaultMaxPayload; a negative value disables the ceiling, leaving
	// only the cover-size bound.
	MaxPayload int
}

var defaultDecoder Decoder

func (d Decoder) limit() int {
	switch {
	case d.MaxPayload == 0:
		return DefaultMaxPayload
	case d.MaxPayload < 0:
		return maxLengthInt
	}
	return d.MaxPayload
}

// EncodeText hides text in cover and returns cover.
func EncodeText(cover []byte, text string) ([]byte, error) {
	return EncodeBytes(cover, []byte(text))
}

// EncodeBytes hides an arbitrary byte payload using the text header.
func EncodeBytes(cover, payload []byte) ([]byte, error) {
	if err := checkCapacity(cover, TextShape, len(payload)); err != nil {
		return cover, err
	}
	if err := TextShape.put(cover, Header{Length: uint32(len(payload))}); err != nil {
		return cover, err
	}
	writeBytes(cover, TextHeaderBits, payload)
	return cover, nil
}

// EncodeImage hides secret in cover and returns cover. Secret bytes are
// stored in their given channel order.
func EncodeImage(cover []byte, secret Raster) ([]byte, error) {
	if err := validateSecret(secret); err != nil {
		return cover, err
	}
	if err := checkCapacity(cover, ImageShape, len(secret.Pix)); err != nil {
		return cover, err
	}
	h := Header{
		Length: uint32(len(secret.Pix)),
		Width:  uint16(secret.Width),
		Height: uint16(secret.Height),
	}
	if err := ImageShape.put(cover, h); err != nil {
		return cover, err
	}
	writeBytes(cover, ImageHeaderBits, secret.Pix)
	return cover, nil
}

// DecodeText reads a text payload with the default ceiling.
func DecodeText(cover []byte) (string, error) {
	return defaultDecoder.DecodeText(cover)
}

// DecodeBytes reads a text-framed payload with the default ceiling.
func DecodeBytes(cover []byte) ([]byte, error) {
	return defaultDecoder.DecodeBytes(cover)
}

// DecodeImage reads an image payload with the default ceiling.
func DecodeImage(cover []byte) (Raster, error) {
	return defaultDecoder.DecodeImage(cover)
}

// DecodeText reads a text payload. The bytes are returned as written.
func (d Decoder) DecodeText(cover []byte) (string, error) {
	b, err := d.DecodeBytes(cover)
	return string(b), err
}

// DecodeBytes reads a text-framed payload.
func (d Decoder) DecodeBytes(cover []byte) ([]byte, error) {
	h, err := ReadHeader(cover, TextShape)
	if err != nil {
		return nil, err
	}
	if err := d.checkLength(cover, TextShape, h.Length); err != nil {
		return nil, err
	}
	return readBytes(cover, TextHeaderBits, int(h.Length)), nil
}

// DecodeImage reads an image payload and returns it with the first and
// third byte of every pixel swapped, turning stored B,G,R into R,G,B.
func (d Decoder) DecodeImage(cover []byte) (Raster, error) {
	h, err := ReadHeader(cover, ImageShape)
	if err != nil {
		return Raster{}, err
	}
	if err := d.checkLength(cover, ImageShape, h.Length); err != nil {
		return Raster{}, err
	}
	if uint64(h.Length) != uint64(h.Width)*uint64(h.Height)*3 {
		return Raster{}, fmt.Errorf("%w (length %d, %dx%d)", ErrUnsupportedShape, h.Length, h.Width, h.Height)
	}
	pix := readBytes(cover, ImageHeaderBits, int(h.Length))
	SwapRB(pix)
	return Raster{Pix: pix, Width: int(h.Width), Height: int(h.Height)}, nil
}

// SwapRB exchanges byte 0 and byte 2 of every 3-byte group in place.
// A trailing partial group is left alone.
func SwapRB(pix []byte) {
	for i := 0; i+2 < len(pix); i += 3 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

func (d Decoder) checkLength(cover []byte, s Shape, length uint32) error {
	if avail := Capacity(len(cover), s); uint64(length) > uint64(avail) {
		return fmt.Errorf("%w: header declares %d bytes, cover holds %d", ErrUntrustedLength, length, avail)
	}
	if limit := d.limit(); uint64(length) > uint64(limit) {
		return fmt.Errorf("%w: header declares %d bytes, limit is %d", ErrUntrustedLength, length, limit)
	}
	return nil
}

func checkCapacity(cover []byte, s Shape, n int) error {
	need := s.Bits() + n*8
	if uint64(n) > MaxLength || need > len(cover) {
		return &CapacityError{Need: need, Have: len(cover)}
	}
	return nil
}

func validateSecret(s Raster) error {
	switch {
	case s.Width < 0 || s.Height < 0:
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidSecret, s.Width, s.Height)
	case s.Width > MaxDimension || s.Height > MaxDimension:
		return fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrInvalidSecret, s.Width, s.Height, MaxDimension)
	case len(s.Pix) != s.Len():
		return fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidSecret, len(s.Pix), s.Width, s.Height)
	}
	return nil
}
