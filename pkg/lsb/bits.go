// bits.go — MSB-first bit fields stored one bit per byte slot.
package lsb

import "fmt"

const maxFieldBits = 64

func checkRange(n, start, width int) bool {
	return width >= 1 && width <= maxFieldBits && start >= 0 && start <= n-width
}

// WriteField stores the low width bits of value into buf[start:start+width],
// most significant bit first, one bit in the LSB of each byte. The upper
// seven bits of every byte are preserved. Nothing is written if the range
// does not fit.
func WriteField(buf []byte, start int, value uint64, width int) error {
	if !checkRange(len(buf), start, width) {
		return &CapacityError{Need: start + width, Have: len(buf)}
	}
	for i := 0; i < width; i++ {
		bit := byte(value>>(width-1-i)) & 1
		buf[start+i] = buf[start+i]&0xFE | bit
	}
	return nil
}

// ReadField is the inverse of WriteField. Any bit pattern is a valid field.
func ReadField(buf []byte, start, width int) (uint64, error) {
	if !checkRange(len(buf), start, width) {
		return 0, fmt.Errorf("%w: field [%d,%d) outside %d-byte cover", ErrNoHiddenData, start, start+width, len(buf))
	}
	var v uint64
	for _, b := range buf[start : start+width] {
		v = v<<1 | uint64(b&1)
	}
	return v, nil
}

// writeBytes spreads data over 8*len(data) slots starting at offset.
// Callers check capacity first.
func writeBytes(buf []byte, offset int, data []byte) {
	for _, c := range data {
		for j := 7; j >= 0; j-- {
			buf[offset] = buf[offset]&0xFE | (c>>j)&1
			offset++
		}
	}
}

// readBytes collects n bytes from 8*n slots starting at offset.
func readBytes(buf []byte, offset, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		var c byte
		for _, b := range buf[offset : offset+8] {
			c = c<<1 | b&1
		}
		out[i] = c
		offset += 8
	}
	return out
}
