// Package contour traces closed boundaries in binary edge masks and measures
// them.
//
// A Contour is an ordered, implicitly closed sequence of pixel coordinates.
// Tracers return every border in the mask, outer borders and hole borders
// alike, together with a Hierarchy entry per contour describing how the
// borders nest (the RETR_TREE layout used by OpenCV).
//
// Two tracers are available. BorderFollower is a pure Go implementation of
// the Suzuki and Abe border following algorithm and is always compiled in.
// Building with the opencv tag adds OpenCVTracer, backed by gocv, and makes it
// the DefaultTracer:
//
//	go build -tags opencv ./...
//
// Both tracers treat every non-zero mask pixel as foreground and use
// 8-connectivity for the foreground.
package contour
