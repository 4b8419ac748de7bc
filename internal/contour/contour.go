package contour

import (
	"image"
	"math"
)

// Contour is a closed sequence of points. The last point connects back to the
// first.
type Contour []image.Point

// Hierarchy describes where a contour sits in the nesting tree. Indices refer
// to the slice of contours returned alongside; -1 means none.
type Hierarchy struct {
	Next       int  `json:"next"`
	Previous   int  `json:"previous"`
	FirstChild int  `json:"first_child"`
	Parent     int  `json:"parent"`
	Hole       bool `json:"hole"`
}

// Area returns the absolute area enclosed by c using the shoelace formula.
// Contours with fewer than three points have zero area.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	sum := 0
	prev := c[len(c)-1]
	for _, p := range c {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(float64(sum)) / 2
}

// ArcLength returns the perimeter of the closed polygon c.
func (c Contour) ArcLength() float64 {
	if len(c) < 2 {
		return 0
	}
	length := 0.0
	prev := c[len(c)-1]
	for _, p := range c {
		length += math.Hypot(float64(p.X-prev.X), float64(p.Y-prev.Y))
		prev = p
	}
	return length
}

// BoundingRect returns the smallest rectangle containing every point of c.
// Max is exclusive, so a single point yields a 1x1 rectangle. An empty
// contour yields the zero rectangle.
func (c Contour) BoundingRect() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// Placement of a point relative to a contour.
const (
	Outside = -1
	OnEdge  = 0
	Inside  = 1
)

// PointPolygonTest reports whether p lies inside c (Inside), on one of its
// edges (OnEdge) or outside it (Outside). An empty contour contains nothing.
func PointPolygonTest(c Contour, p image.Point) int {
	n := len(c)
	if n == 0 {
		return Outside
	}

	inside := false
	a := c[n-1]
	for _, b := range c {
		if onSegment(a, b, p) {
			return OnEdge
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			// Compare p.X with the crossing x without dividing.
			lhs := (p.X - a.X) * (b.Y - a.Y)
			rhs := (p.Y - a.Y) * (b.X - a.X)
			if b.Y > a.Y {
				if lhs < rhs {
					inside = !inside
				}
			} else if lhs > rhs {
				inside = !inside
			}
		}
		a = b
	}

	if inside {
		return Inside
	}
	return Outside
}

func onSegment(a, b, p image.Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross != 0 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}

// Tracer extracts closed contours from a binary mask.
type Tracer interface {
	// Trace returns every border in mask and a Hierarchy entry per contour.
	// Points are in the coordinate space of mask.
	Trace(mask *image.Gray) ([]Contour, []Hierarchy, error)
}
