package contour

import (
	"errors"
	"image"
)

var errNilMask = errors.New("contour: nil mask")

// neighbours lists the 8-neighbourhood counter-clockwise as seen on screen
// (y grows downward), starting east.
var neighbours = [8]image.Point{
	{X: 1, Y: 0},
	{X: 1, Y: -1},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 0},
	{X: -1, Y: 1},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
}

func neighbourIndex(from, to image.Point) int {
	d := to.Sub(from)
	for k, o := range neighbours {
		if o == d {
			return k
		}
	}
	return -1
}

// BorderFollower traces contours with the Suzuki and Abe border following
// algorithm. It records every border pixel (no chain approximation) and
// builds the full nesting tree.
type BorderFollower struct{}

type border struct {
	hole   bool
	parent int32
	points Contour
}

// Trace implements Tracer.
func (BorderFollower) Trace(mask *image.Gray) ([]Contour, []Hierarchy, error) {
	if mask == nil {
		return nil, nil, errNilMask
	}

	b := mask.Bounds()
	g := newGrid(mask)

	// Border numbers start at 2; 1 is the frame around the image, which
	// behaves as a hole border with no parent.
	borders := []border{{}, {hole: true}}
	nbd := int32(1)

	for y := 1; y < g.h-1; y++ {
		lnbd := int32(1)
		for x := 1; x < g.w-1; x++ {
			i := y*g.w + x
			v := g.f[i]
			if v == 0 {
				continue
			}

			var from image.Point
			hole := false
			switch {
			case v == 1 && g.f[i-1] == 0:
				from = image.Pt(x-1, y)
			case v >= 1 && g.f[i+1] == 0:
				hole = true
				from = image.Pt(x+1, y)
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs32(v)
				}
				continue
			}

			nbd++
			parent := lnbd
			if last := borders[lnbd]; last.hole == hole {
				parent = last.parent
			}
			pts := g.follow(image.Pt(x, y), from, nbd)
			borders = append(borders, border{hole: hole, parent: parent, points: pts.Add(b.Min)})

			if g.f[i] != 1 {
				lnbd = abs32(g.f[i])
			}
		}
	}

	return buildHierarchy(borders[2:])
}

// buildHierarchy converts border numbers into contour indices and links
// siblings in discovery order.
func buildHierarchy(borders []border) ([]Contour, []Hierarchy, error) {
	contours := make([]Contour, len(borders))
	hierarchy := make([]Hierarchy, len(borders))
	lastChild := make(map[int]int)

	for i, bd := range borders {
		contours[i] = bd.points
		parent := int(bd.parent) - 2
		if parent < 0 {
			parent = -1
		}
		h := Hierarchy{Next: -1, Previous: -1, FirstChild: -1, Parent: parent, Hole: bd.hole}

		if prev, ok := lastChild[parent]; ok {
			h.Previous = prev
			hierarchy[prev].Next = i
		} else if parent >= 0 {
			hierarchy[parent].FirstChild = i
		}
		lastChild[parent] = i
		hierarchy[i] = h
	}

	return contours, hierarchy, nil
}

// grid is the mask padded with a one pixel frame of zeros. Foreground pixels
// start at 1 and are relabelled with border numbers while tracing.
type grid struct {
	f    []int32
	w, h int
}

func newGrid(mask *image.Gray) *grid {
	b := mask.Bounds()
	g := &grid{w: b.Dx() + 2, h: b.Dy() + 2}
	g.f = make([]int32, g.w*g.h)
	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != 0 {
				g.f[(y+1)*g.w+x+1] = 1
			}
		}
	}
	return g
}

func (g *grid) at(p image.Point) int32 {
	return g.f[p.Y*g.w+p.X]
}

func (g *grid) set(p image.Point, v int32) {
	g.f[p.Y*g.w+p.X] = v
}

// follow traces the border starting at p0, entered from the zero pixel
// from, and labels it nbd. Returned points are in mask coordinates relative
// to the mask origin.
func (g *grid) follow(p0, from image.Point, nbd int32) Contour {
	unpad := image.Pt(1, 1)

	// Clockwise search around p0 for the first foreground neighbour.
	start := neighbourIndex(p0, from)
	found := -1
	for k := 0; k < 8; k++ {
		d := (start - k + 8) % 8
		if g.at(p0.Add(neighbours[d])) != 0 {
			found = d
			break
		}
	}
	if found < 0 {
		g.set(p0, -nbd)
		return Contour{p0.Sub(unpad)}
	}

	p1 := p0.Add(neighbours[found])
	p2, p3 := p1, p0
	var pts Contour

	for {
		pts = append(pts, p3.Sub(unpad))

		// Counter-clockwise search around p3, starting just after p2.
		start := neighbourIndex(p3, p2)
		eastZero := false
		var p4 image.Point
		for k := 1; k <= 8; k++ {
			d := (start + k) % 8
			q := p3.Add(neighbours[d])
			if g.at(q) != 0 {
				p4 = q
				break
			}
			if d == 0 {
				eastZero = true
			}
		}

		switch {
		case eastZero:
			g.set(p3, -nbd)
		case g.at(p3) == 1:
			g.set(p3, nbd)
		}

		if p4 == p0 && p3 == p1 {
			break
		}
		p2, p3 = p3, p4
	}

	return pts
}

// Add returns a copy of c translated by p.
func (c Contour) Add(p image.Point) Contour {
	out := make(Contour, len(c))
	for i, q := range c {
		out[i] = q.Add(p)
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
