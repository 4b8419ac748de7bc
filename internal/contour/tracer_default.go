//go:build !opencv

package contour

// DefaultTracer returns the tracer used by the pipeline: the pure Go
// BorderFollower unless the binary is built with the opencv tag.
func DefaultTracer() Tracer {
	return BorderFollower{}
}
