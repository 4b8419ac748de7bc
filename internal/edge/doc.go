// Package edge implements a Canny-style edge detector for grayscale micrographs.
//
// The detector runs as a chain of stages, each returning a newly allocated
// buffer so that no stage aliases the output of another:
//
//  1. Preparation: channel selection (luma or a single colour channel) and a
//     Gaussian blur with sigma 1.4, delegated to the imaging package.
//  2. ComputeGradients: Sobel magnitude (clipped at 255) and a direction
//     quantized to 0, 45, 90 or 135 degrees.
//  3. Thin: non-maximum suppression along the quantized direction. Ties are
//     kept.
//  4. DoubleThreshold: Strong (255), Weak (127) or None (0).
//  5. Link: breadth-first promotion of Weak pixels reachable from a Strong
//     seed, bounded by a configurable hop count.
//  6. Finalize: unreached Weak pixels are dropped, leaving a {0,255} mask.
//
// # Border
//
// Stages 2 to 6 never write the outermost row and column of the image; those
// pixels are always 0 in every intermediate and in the final mask.
//
// # Errors
//
// Thresholds are validated before any work is done. A min threshold that is
// not strictly below the max threshold, or a threshold outside 0-255, returns
// an error wrapping ErrInvalidConfiguration.
package edge
