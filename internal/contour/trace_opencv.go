//go:build opencv

package contour

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultTracer returns OpenCVTracer when built with the opencv tag.
func DefaultTracer() Tracer {
	return OpenCVTracer{}
}

// OpenCVTracer traces contours with gocv.FindContoursWithParams using
// RetrievalTree and ChainApproxNone.
type OpenCVTracer struct{}

// Trace implements Tracer.
func (OpenCVTracer) Trace(mask *image.Gray) ([]Contour, []Hierarchy, error) {
	if mask == nil {
		return nil, nil, errNilMask
	}
	b := mask.Bounds()
	if b.Empty() {
		return nil, nil, nil
	}

	data := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := mask.PixOffset(b.Min.X, y)
		data = append(data, mask.Pix[off:off+b.Dx()]...)
	}

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, data)
	if err != nil {
		return nil, nil, fmt.Errorf("contour: create mat: %w", err)
	}
	defer mat.Close()

	hier := gocv.NewMat()
	defer hier.Close()

	pv := gocv.FindContoursWithParams(mat, &hier, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer pv.Close()

	n := pv.Size()
	contours := make([]Contour, n)
	hierarchy := make([]Hierarchy, n)
	for i := 0; i < n; i++ {
		contours[i] = Contour(pv.At(i).ToPoints()).Add(b.Min)

		v := hier.GetVeciAt(0, i)
		hierarchy[i] = Hierarchy{
			Next:       int(v[0]),
			Previous:   int(v[1]),
			FirstChild: int(v[2]),
			Parent:     int(v[3]),
		}
	}

	// Holes sit at odd depths of the tree.
	for i := range hierarchy {
		depth := 0
		for p := hierarchy[i].Parent; p >= 0; p = hierarchy[p].Parent {
			depth++
		}
		hierarchy[i].Hole = depth%2 == 1
	}

	return contours, hierarchy, nil
}
