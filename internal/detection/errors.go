package detection

import "errors"

var (
	// ErrInvalidInput is returned when the mask or source image cannot be
	// classified: a nil image, a mask that is not single channel, or a mask
	// whose size differs from the source.
	ErrInvalidInput = errors.New("invalid classifier input")

	// ErrInvalidConfiguration is returned for malformed band tables and
	// thresholds.
	ErrInvalidConfiguration = errors.New("invalid classifier configuration")
)
