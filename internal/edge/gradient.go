package edge

import (
	"image"
	"math"
)

// Direction is a gradient orientation quantized to one of four bins.
type Direction uint8

// The four quantized gradient directions, in degrees.
const (
	Direction0   Direction = 0
	Direction45  Direction = 45
	Direction90  Direction = 90
	Direction135 Direction = 135
)

// GradientField holds the per-pixel gradient magnitude and quantized direction
// of a single-channel image.
//
// Samples are stored row-major. The outermost row and column on every side are
// never computed and stay zero (magnitude 0, direction 0).
type GradientField struct {
	Width     int
	Height    int
	Magnitude []uint8
	Direction []Direction
}

// At returns the magnitude and direction at (x, y), relative to the field origin.
func (g *GradientField) At(x, y int) (uint8, Direction) {
	i := y*g.Width + x
	return g.Magnitude[i], g.Direction[i]
}

// ComputeGradients applies the Sobel operators to every interior pixel of src.
//
// The kernels are applied over the 8-neighbourhood p1..p9 (row-major, p5 the
// centre pixel):
//
//	Gx = -p1 - 2*p4 - p7 + p3 + 2*p6 + p9
//	Gy =  p1 + 2*p2 + p3 - p7 - 2*p8 - p9
//
// The magnitude sqrt(Gx² + Gy²) is clipped to 255 rather than wrapped, so a
// very strong edge never turns into a dark pixel. The direction is quantized
// by QuantizeDirection.
func ComputeGradients(src *image.Gray) *GradientField {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	field := &GradientField{
		Width:     w,
		Height:    h,
		Magnitude: make([]uint8, w*h),
		Direction: make([]Direction, w*h),
	}

	px := func(x, y int) int {
		return int(src.Pix[y*src.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p1, p2, p3 := px(x-1, y-1), px(x, y-1), px(x+1, y-1)
			p4, p6 := px(x-1, y), px(x+1, y)
			p7, p8, p9 := px(x-1, y+1), px(x, y+1), px(x+1, y+1)

			gx := -p1 - 2*p4 - p7 + p3 + 2*p6 + p9
			gy := p1 + 2*p2 + p3 - p7 - 2*p8 - p9

			i := y*w + x
			field.Magnitude[i] = clipMagnitude(math.Sqrt(float64(gx*gx + gy*gy)))
			field.Direction[i] = QuantizeDirection(float64(gx), float64(gy))
		}
	}

	return field
}

// QuantizeDirection maps the gradient vector (gx, gy) to one of the four
// direction bins.
//
// The angle atan2(gy, gx) in degrees, in [-180, 180], is binned as:
//
//	  0: [-22.5, 22.5), >= 157.5, < -157.5
//	 45: [22.5, 67.5), [-157.5, -112.5)
//	 90: [67.5, 112.5), [-112.5, -67.5)
//	135: [112.5, 157.5), [-67.5, -22.5)
//
// A zero horizontal component is vertical (90) unless gy is also zero, in
// which case there is no gradient and the result is 0.
func QuantizeDirection(gx, gy float64) Direction {
	if gx == 0 {
		if gy == 0 {
			return Direction0
		}
		return Direction90
	}

	angle := math.Atan2(gy, gx) * 180 / math.Pi

	switch {
	case angle >= -22.5 && angle < 22.5, angle >= 157.5, angle < -157.5:
		return Direction0
	case angle >= 22.5 && angle < 67.5, angle >= -157.5 && angle < -112.5:
		return Direction45
	case angle >= 67.5 && angle < 112.5, angle >= -112.5 && angle < -67.5:
		return Direction90
	default:
		return Direction135
	}
}

func clipMagnitude(m float64) uint8 {
	if m >= 255 {
		return 255
	}
	return uint8(m)
}
