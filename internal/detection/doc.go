// Package detection decides which closed contours of an edge mask are
// astrocytes and counts them.
//
// Each contour is measured (area, perimeter, bounding box, compactness) and
// tested against a set of Thresholds. The thresholds come from a BandTable:
// the image is split into horizontal bands by the y coordinate of the object
// center, and objects whose bounding box is small in both directions use a
// separate set of limits whatever their band.
//
// A contour is accepted when, in order:
//
//  1. it has points and a non-zero perimeter
//  2. its area reaches MinArea
//  3. the shorter side of its bounding box is below MaxBoundingDimension
//  4. neither side ratio reaches AspectRatioLimit
//  5. its compactness (area / perimeter²) lies strictly between the limits
//  6. at least one pixel lies strictly inside it
//  7. the mean intensity of those pixels is below MaxMeanIntensity
//
// The first failed test is reported as a Rejection and tallied in Metrics.
//
// # Coordinate System
//
// Object coordinates are in the coordinate space of the mask. Annotated output
// images always have their origin at (0, 0).
package detection
