package edge

import "image"

// neighbour offsets compared by non-maximum suppression, one pair per direction.
var suppressionOffsets = map[Direction][2]image.Point{
	Direction0:   {{X: -1, Y: 0}, {X: 1, Y: 0}},
	Direction45:  {{X: 1, Y: -1}, {X: -1, Y: 1}},
	Direction90:  {{X: 0, Y: -1}, {X: 0, Y: 1}},
	Direction135: {{X: -1, Y: -1}, {X: 1, Y: 1}},
}

// Thin performs non-maximum suppression on a gradient field.
//
// Each interior pixel keeps its magnitude only if it is greater than or equal
// to both neighbours lying along its quantized gradient direction; otherwise it
// is set to 0. Ties survive, so a plateau of equal magnitudes along the
// gradient direction is kept whole.
//
// The returned image has the field's dimensions with its origin at (0, 0). The
// border is left at 0.
func Thin(field *GradientField) *image.Gray {
	w, h := field.Width, field.Height
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			mag, dir := field.At(x, y)
			if mag == 0 {
				continue
			}
			pair := suppressionOffsets[dir]
			n1, _ := field.At(x+pair[0].X, y+pair[0].Y)
			n2, _ := field.At(x+pair[1].X, y+pair[1].Y)
			if mag >= n1 && mag >= n2 {
				dst.Pix[y*dst.Stride+x] = mag
			}
		}
	}

	return dst
}
