package edge

import (
	"fmt"
	"image"
)

// Edge mask pixel values.
const (
	None   uint8 = 0
	Weak   uint8 = 127
	Strong uint8 = 255
)

// DefaultMaxLinkHops bounds how far a weak chain is followed from a strong
// seed. Zero means the traversal is unbounded.
const DefaultMaxLinkHops = 200

// Thresholds are the two hysteresis thresholds applied to thinned gradient
// magnitudes.
type Thresholds struct {
	// Min is the upper bound of the "none" class: magnitudes <= Min are dropped.
	Min int `json:"min_threshold"`

	// Max is the lower bound of the "strong" class: magnitudes >= Max are edges.
	Max int `json:"max_threshold"`
}

// Validate reports ErrInvalidConfiguration unless 0 <= Min < Max <= 255.
func (t Thresholds) Validate() error {
	if t.Min < 0 || t.Max > 255 {
		return fmt.Errorf("%w: thresholds (%d,%d) outside 0-255", ErrInvalidConfiguration, t.Min, t.Max)
	}
	if t.Min >= t.Max {
		return fmt.Errorf("%w: min threshold %d must be below max threshold %d", ErrInvalidConfiguration, t.Min, t.Max)
	}
	return nil
}

// DoubleThreshold classifies every interior pixel of a thinned magnitude image
// as Strong (>= Max), None (<= Min) or Weak (anything between).
//
// The caller is expected to have validated t. The border stays None.
func DoubleThreshold(thinned *image.Gray, t Thresholds) *image.Gray {
	b := thinned.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 1; y < h-1; y++ {
		src := thinned.Pix[y*thinned.Stride:]
		row := dst.Pix[y*dst.Stride:]
		for x := 1; x < w-1; x++ {
			v := int(src[x])
			switch {
			case v >= t.Max:
				row[x] = Strong
			case v <= t.Min:
				row[x] = None
			default:
				row[x] = Weak
			}
		}
	}

	return dst
}

// LinkStats summarises one hysteresis linking pass.
type LinkStats struct {
	// StrongSeeds is the number of pixels that were Strong before linking.
	StrongSeeds int `json:"strong_seeds"`

	// Promoted is the number of Weak pixels promoted to Strong.
	Promoted int `json:"promoted"`

	// Dropped is the number of Weak pixels cleared by finalization.
	Dropped int `json:"dropped"`
}

// Link promotes Weak pixels that are 8-connected to a Strong pixel through a
// chain of Weak pixels.
//
// The traversal is a breadth-first search seeded with every Strong pixel at
// once, so a Weak pixel is promoted exactly when its shortest weak path to any
// seed is at most maxHops steps long. maxHops <= 0 removes the bound. The walk
// never leaves the interior of the mask.
//
// The input is not modified; the result still contains the Weak pixels that
// were not reached. Use Finalize to drop them.
func Link(mask *image.Gray, maxHops int) (*image.Gray, LinkStats) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], mask.Pix[y*mask.Stride:y*mask.Stride+w])
	}

	var stats LinkStats
	queue := make([]int, 0, 1024)
	hops := make([]int, 0, 1024)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if dst.Pix[y*dst.Stride+x] == Strong {
				queue = append(queue, y*w+x)
				hops = append(hops, 0)
				stats.StrongSeeds++
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		d := hops[head]
		if maxHops > 0 && d >= maxHops {
			continue
		}
		px, py := queue[head]%w, queue[head]/w

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := px+dx, py+dy
				if nx < 1 || ny < 1 || nx >= w-1 || ny >= h-1 {
					continue
				}
				i := ny*dst.Stride + nx
				if dst.Pix[i] != Weak {
					continue
				}
				dst.Pix[i] = Strong
				stats.Promoted++
				queue = append(queue, ny*w+nx)
				hops = append(hops, d+1)
			}
		}
	}

	return dst, stats
}

// Finalize returns a copy of mask with every remaining Weak pixel set to None,
// and the number of pixels cleared. Applying it twice gives the same mask as
// applying it once.
func Finalize(mask *image.Gray) (*image.Gray, int) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	dropped := 0

	for y := 0; y < h; y++ {
		src := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x, v := range src {
			if v == Weak {
				dropped++
				continue
			}
			row[x] = v
		}
	}

	return dst, dropped
}
