// header.go — Fixed-width header framing.
package lsb

import "math"

// Field widths in bits (one bit per cover byte).
const (
	LengthBits = 32
	WidthBits  = 16
	HeightBits = 16

	TextHeaderBits  = LengthBits
	ImageHeaderBits = LengthBits + WidthBits + HeightBits

	// MaxLength is the largest payload the length field can declare.
	MaxLength = 1<<LengthBits - 1
	// MaxDimension is the largest secret width or height.
	MaxDimension = 1<<WidthBits - 1

	// maxLengthInt is MaxLength clamped to int, which is 32 bits wide on
	// 386 and arm.
	maxLengthInt = min(MaxLength, math.MaxInt)
)

// Header is the decoded framing of a payload. Width and Height are zero
// for text payloads.
type Header struct {
	Length uint32
	Width  uint16
	Height uint16
}

// Shape selects the header layout.
type Shape int

const (
	TextShape Shape = iota
	ImageShape
)

func (s Shape) String() string {
	if s == ImageShape {
		return "image"
	}
	return "text"
}

// Bits returns the header width, which is also the payload's first slot.
func (s Shape) Bits() int {
	if s == ImageShape {
		return ImageHeaderBits
	}
	return TextHeaderBits
}

// put writes h at slot 0. The caller has already checked capacity.
func (s Shape) put(buf []byte, h Header) error {
	if err := WriteField(buf, 0, uint64(h.Length), LengthBits); err != nil {
		return err
	}
	if s != ImageShape {
		return nil
	}
	if err := WriteField(buf, LengthBits, uint64(h.Width), WidthBits); err != nil {
		return err
	}
	return WriteField(buf, LengthBits+WidthBits, uint64(h.Height), HeightBits)
}

// ReadHeader decodes the header of the given shape from slot 0.
func ReadHeader(buf []byte, s Shape) (Header, error) {
	var h Header
	v, err := ReadField(buf, 0, LengthBits)
	if err != nil {
		return h, err
	}
	h.Length = uint32(v)
	if s != ImageShape {
		return h, nil
	}
	if v, err = ReadField(buf, LengthBits, WidthBits); err != nil {
		return h, err
	}
	h.Width = uint16(v)
	if v, err = ReadField(buf, LengthBits+WidthBits, HeightBits); err != nil {
		return h, err
	}
	h.Height = uint16(v)
	return h, nil
}

// Capacity returns how many payload bytes a cover of coverLen bytes can
// carry under the given header shape.
func Capacity(coverLen int, s Shape) int {
	n := (coverLen - s.Bits()) / 8
	if n < 0 {
		return 0
	}
	return min(n, maxLengthInt)
}
