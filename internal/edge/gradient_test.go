package edge

import (
	"image"
	"math"
	"testing"
)

// grayFromRows builds a Gray image from rows of intensities.
func grayFromRows(rows [][]uint8) *image.Gray {
	h := len(rows)
	w := len(rows[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range rows {
		copy(img.Pix[y*img.Stride:], row)
	}
	return img
}

// singleBrightPixel returns a size x size black image with a 255 pixel at the center.
func singleBrightPixel(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	img.Pix[(size/2)*img.Stride+size/2] = 255
	return img
}

func TestQuantizeDirection(t *testing.T) {
	tests := []struct {
		name   string
		gx, gy float64
		want   Direction
	}{
		{"no gradient", 0, 0, Direction0},
		{"vertical up", 0, 5, Direction90},
		{"vertical down", 0, -5, Direction90},
		{"horizontal right", 5, 0, Direction0},
		{"horizontal left", -5, 0, Direction0},
		{"45 degrees", 1, 1, Direction45},
		{"135 degrees", -1, 1, Direction135},
		{"-45 degrees", 1, -1, Direction135},
		{"-135 degrees", -1, -1, Direction45},
		{"just under 22.5", 1, math.Tan(22.4 * math.Pi / 180), Direction0},
		{"just over 22.5", 1, math.Tan(22.6 * math.Pi / 180), Direction45},
		{"just under 67.5", 1, math.Tan(67.4 * math.Pi / 180), Direction45},
		{"just over 67.5", 1, math.Tan(67.6 * math.Pi / 180), Direction90},
		{"near 180", -10, 0.1, Direction0},
		{"near -180", -10, -0.1, Direction0},
		{"-100 degrees", math.Cos(-100 * math.Pi / 180), math.Sin(-100 * math.Pi / 180), Direction90},
		{"140 degrees", math.Cos(140 * math.Pi / 180), math.Sin(140 * math.Pi / 180), Direction135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeDirection(tt.gx, tt.gy); got != tt.want {
				t.Errorf("QuantizeDirection(%g, %g) = %d, want %d", tt.gx, tt.gy, got, tt.want)
			}
		})
	}
}

func TestQuantizeDirection_Totality(t *testing.T) {
	valid := map[Direction]bool{Direction0: true, Direction45: true, Direction90: true, Direction135: true}

	for gx := -1020; gx <= 1020; gx += 17 {
		if gx == 0 {
			continue
		}
		for gy := -1020; gy <= 1020; gy += 13 {
			d := QuantizeDirection(float64(gx), float64(gy))
			if !valid[d] {
				t.Fatalf("QuantizeDirection(%d, %d) = %d, not a valid bin", gx, gy, d)
			}
		}
	}

	for deg := -180.0; deg < 180.0; deg += 0.25 {
		rad := deg * math.Pi / 180
		gx, gy := math.Cos(rad), math.Sin(rad)
		if gx == 0 {
			continue
		}
		if d := QuantizeDirection(gx, gy); !valid[d] {
			t.Fatalf("angle %g quantized to %d", deg, d)
		}
	}
}

func TestComputeGradients_ZeroImage(t *testing.T) {
	field := ComputeGradients(image.NewGray(image.Rect(0, 0, 5, 5)))

	for i, m := range field.Magnitude {
		if m != 0 {
			t.Errorf("magnitude[%d] = %d, want 0", i, m)
		}
		if field.Direction[i] != Direction0 {
			t.Errorf("direction[%d] = %d, want 0", i, field.Direction[i])
		}
	}
}

func TestComputeGradients_SingleBrightPixel(t *testing.T) {
	field := ComputeGradients(singleBrightPixel(5))

	if mag, _ := field.At(2, 2); mag != 0 {
		t.Errorf("center magnitude = %d, want 0", mag)
	}

	tests := []struct {
		x, y int
		dir  Direction
	}{
		{1, 2, Direction0},
		{3, 2, Direction0},
		{2, 1, Direction90},
		{2, 3, Direction90},
		{1, 1, Direction135},
		{3, 3, Direction135},
		{3, 1, Direction45},
		{1, 3, Direction45},
	}
	for _, tt := range tests {
		mag, dir := field.At(tt.x, tt.y)
		if mag != 255 {
			t.Errorf("magnitude at (%d,%d) = %d, want 255 (clipped)", tt.x, tt.y, mag)
		}
		if dir != tt.dir {
			t.Errorf("direction at (%d,%d) = %d, want %d", tt.x, tt.y, dir, tt.dir)
		}
	}
}

func TestComputeGradients_KernelSigns(t *testing.T) {
	// Bright right column: positive Gx.
	img := grayFromRows([][]uint8{
		{0, 0, 10},
		{0, 0, 10},
		{0, 0, 10},
	})
	field := ComputeGradients(img)
	mag, dir := field.At(1, 1)
	if mag != 40 {
		t.Errorf("magnitude = %d, want 40", mag)
	}
	if dir != Direction0 {
		t.Errorf("direction = %d, want 0", dir)
	}

	// Bright top row: positive Gy.
	img = grayFromRows([][]uint8{
		{10, 10, 10},
		{0, 0, 0},
		{0, 0, 0},
	})
	field = ComputeGradients(img)
	mag, dir = field.At(1, 1)
	if mag != 40 {
		t.Errorf("magnitude = %d, want 40", mag)
	}
	if dir != Direction90 {
		t.Errorf("direction = %d, want 90", dir)
	}
}

func TestComputeGradients_Clips(t *testing.T) {
	img := grayFromRows([][]uint8{
		{0, 0, 255},
		{0, 0, 255},
		{0, 0, 255},
	})
	field := ComputeGradients(img)
	if mag, _ := field.At(1, 1); mag != 255 {
		t.Errorf("magnitude = %d, want 255", mag)
	}
}

func TestComputeGradients_Border(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 9, 7))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 37)
	}
	field := ComputeGradients(img)

	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			if x > 0 && y > 0 && x < field.Width-1 && y < field.Height-1 {
				continue
			}
			if mag, dir := field.At(x, y); mag != 0 || dir != Direction0 {
				t.Errorf("border (%d,%d) = (%d,%d), want (0,0)", x, y, mag, dir)
			}
		}
	}
}

func TestComputeGradients_TinyImages(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 0, 0),
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 2, 5),
	} {
		field := ComputeGradients(image.NewGray(r))
		if len(field.Magnitude) != r.Dx()*r.Dy() {
			t.Errorf("%v: got %d samples", r, len(field.Magnitude))
		}
	}
}
