// Package imaging provides the raster collaborators of the astrocyte pipeline.
//
// It covers everything around the edge detector and the classifier that is
// plain image handling rather than analysis:
//   - decoding and caching micrographs (PNG, JPEG, GIF, BMP, TIFF)
//   - reducing an image to one 8-bit channel (luma or a single colour channel)
//   - Gaussian blur and dilate-then-erode gap closing
//   - overlays (edge highlights, object markers, band boundaries) and PNG
//     encoding for transport
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Every function that returns
// a new image returns it with its origin at (0,0), whatever the bounds of the
// input.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions never modify their
// inputs and can be called concurrently.
package imaging
