package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Blur applies a Gaussian blur with the given sigma and returns a new image.
// A sigma of zero or less returns an unblurred copy.
func Blur(src *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return normalizeGray(src)
	}
	return grayFromNRGBA(imaging.Blur(src, sigma))
}

// DefaultCloseIterations is the number of dilate and erode passes used to
// close small gaps in an edge mask.
const DefaultCloseIterations = 2

// CloseGaps dilates a binary mask and then erodes it by the same amount,
// joining edge fragments separated by small gaps.
//
// Each iteration uses a radius of one pixel. The result is re-binarized so
// that every pixel is either 0 or 255. iterations <= 0 returns a copy.
func CloseGaps(mask *image.Gray, iterations int) *image.Gray {
	if iterations <= 0 {
		return normalizeGray(mask)
	}

	var img image.Image = mask
	for i := 0; i < iterations; i++ {
		img = effect.Dilate(img, 1)
	}
	for i := 0; i < iterations; i++ {
		img = effect.Erode(img, 1)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r>>8 >= 128 {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}
