// errors.go — Error values returned by the codec.
package lsb

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when the cover cannot hold header + payload.
	ErrCapacityExceeded = errors.New("cover too small for payload")

	// ErrNoHiddenData is the common outcome for covers that do not carry a
	// payload of the requested shape.
	ErrNoHiddenData = errors.New("no valid hidden data")

	// ErrUntrustedLength is returned when a decoded header declares more
	// payload than the cover can supply or than the decoder allows.
	ErrUntrustedLength = fmt.Errorf("%w: declared length out of range", ErrNoHiddenData)

	// ErrUnsupportedShape is returned when an image header is inconsistent
	// with a 3-byte-per-pixel payload.
	ErrUnsupportedShape = fmt.Errorf("%w: header does not describe an image", ErrNoHiddenData)

	// ErrInvalidSecret is returned when a secret raster cannot be framed.
	ErrInvalidSecret = errors.New("invalid secret image")
)

// CapacityError reports how many slots an encode needed versus what the
// cover provides.
type CapacityError struct {
	Need int // slots (bits) required
	Have int // slots available
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: need %d bits, cover has %d", ErrCapacityExceeded, e.Need, e.Have)
}

// Is makes errors.Is(err, ErrCapacityExceeded) hold.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
