package edge

import "errors"

// ErrInvalidConfiguration is returned when detector parameters are out of
// range or inconsistent, such as a min threshold that is not below the max.
var ErrInvalidConfiguration = errors.New("invalid edge detector configuration")
