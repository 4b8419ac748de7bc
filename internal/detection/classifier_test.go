package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/astrocyte-mcp/internal/contour"
)

// uniformGray returns a width x height gray image filled with v.
func uniformGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// fillGray sets every pixel of r to v.
func fillGray(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func squareContour(x0, y0, side int) contour.Contour {
	return contour.Contour{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

func newTestClassifier(t *testing.T, cfg Config) *Classifier {
	t.Helper()
	c, err := NewClassifier(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	return c
}

func TestEvaluate_SquareAccepted(t *testing.T) {
	gray := uniformGray(40, 40, 200)
	fillGray(gray, image.Rect(1, 1, 10, 10), 50)
	c := newTestClassifier(t, DefaultConfig())

	obj, rej := c.Evaluate(squareContour(0, 0, 10), gray)

	if rej != Accepted {
		t.Fatalf("rejected: %s", rej)
	}
	if obj.Area != 100 || obj.Perimeter != 40 {
		t.Errorf("area/perimeter = %g/%g, want 100/40", obj.Area, obj.Perimeter)
	}
	if obj.Compactness != 0.0625 {
		t.Errorf("compactness = %g, want 0.0625", obj.Compactness)
	}
	if obj.Bounds != (Bounds{X1: 0, Y1: 0, X2: 10, Y2: 10}) {
		t.Errorf("bounds = %+v", obj.Bounds)
	}
	if obj.Center != (Point{X: 5, Y: 5}) {
		t.Errorf("center = %+v, want (5,5)", obj.Center)
	}
	if obj.Samples != 81 {
		t.Errorf("samples = %d, want 81 (strict interior)", obj.Samples)
	}
	if obj.MeanIntensity != 50 {
		t.Errorf("mean intensity = %g, want 50", obj.MeanIntensity)
	}
	if obj.Band != SmallObjectBand {
		t.Errorf("band = %q, want %q", obj.Band, SmallObjectBand)
	}
}

func TestEvaluate_Rejections(t *testing.T) {
	dark := uniformGray(60, 60, 30)

	uShape := contour.Contour{
		{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 12}, {X: 10, Y: 12},
		{X: 10, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 12}, {X: 0, Y: 12},
	}

	tests := []struct {
		name string
		c    contour.Contour
		gray *image.Gray
		want Rejection
	}{
		{"no points", nil, dark, RejectDegenerate},
		{"single point", contour.Contour{{X: 3, Y: 3}}, dark, RejectDegenerate},
		{"too small", contour.Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, dark, RejectTooSmall},
		{"bounding box", squareContour(0, 0, 30), dark, RejectBoundingBox},
		{"aspect ratio", contour.Contour{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 9}, {X: 0, Y: 9}}, dark, RejectAspectRatio},
		{"compactness", uShape, dark, RejectCompactness},
		{"too bright", squareContour(0, 0, 10), uniformGray(60, 60, 110), RejectTooBright},
		{"just dark enough", squareContour(0, 0, 10), uniformGray(60, 60, 109), Accepted},
	}

	c := newTestClassifier(t, DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, got := c.Evaluate(tt.c, tt.gray)
			if got != tt.want {
				t.Errorf("Evaluate = %q, want %q (object %+v)", got, tt.want, obj)
			}
			if math.IsNaN(obj.Compactness) || math.IsNaN(obj.MeanIntensity) {
				t.Errorf("NaN in object %+v", obj)
			}
		})
	}
}

func TestEvaluate_NoInteriorPixels(t *testing.T) {
	// Area 2 but no lattice point strictly inside.
	tri := contour.Contour{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}

	th := DefaultThresholds()
	th.MinArea = 0
	th.CompactnessMin = 0.01
	cfg := DefaultConfig()
	cfg.Bands.SmallObject = th

	c := newTestClassifier(t, cfg)
	obj, rej := c.Evaluate(tri, uniformGray(10, 10, 0))
	if rej != RejectDegenerate {
		t.Errorf("Evaluate = %q, want %q", rej, RejectDegenerate)
	}
	if obj.Samples != 0 {
		t.Errorf("samples = %d, want 0", obj.Samples)
	}
}

func TestEvaluate_BandThresholds(t *testing.T) {
	strict := DefaultThresholds()
	strict.MaxMeanIntensity = 40
	cfg := DefaultConfig()
	cfg.Bands = BandTable{
		Bands: []Band{
			{Name: "upper", MaxY: 50, Thresholds: DefaultThresholds()},
			{Name: "lower", Thresholds: strict},
		},
		SmallObject:      DefaultThresholds(),
		SmallObjectLimit: 5,
	}
	c := newTestClassifier(t, cfg)
	gray := uniformGray(100, 100, 60)

	if obj, rej := c.Evaluate(squareContour(10, 10, 10), gray); rej != Accepted || obj.Band != "upper" {
		t.Errorf("upper square: %q in band %q, want accepted in upper", rej, obj.Band)
	}
	if obj, rej := c.Evaluate(squareContour(10, 70, 10), gray); rej != RejectTooBright || obj.Band != "lower" {
		t.Errorf("lower square: %q in band %q, want too_bright in lower", rej, obj.Band)
	}
}

func TestClassify_CountsAndMetrics(t *testing.T) {
	gray := uniformGray(80, 80, 200)
	fillGray(gray, image.Rect(0, 0, 40, 40), 30)

	contours := []contour.Contour{
		squareContour(0, 0, 10),  // accepted
		squareContour(20, 20, 8), // accepted
		nil,                      // degenerate
		{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, // too small
		squareContour(50, 50, 10),                  // too bright
	}

	c := newTestClassifier(t, DefaultConfig())
	res := c.Classify(contours, gray)

	if res.Count != 2 || len(res.Objects) != 2 {
		t.Fatalf("count = %d (%d objects), want 2", res.Count, len(res.Objects))
	}
	want := Metrics{Candidates: 5, Accepted: 2, Degenerate: 1, TooSmall: 1, TooBright: 1}
	if res.Metrics != want {
		t.Errorf("metrics = %+v, want %+v", res.Metrics, want)
	}

	again := c.Classify(contours, gray)
	if again.Count != 2 {
		t.Errorf("second pass count = %d, want 2 (count must reset)", again.Count)
	}
}

func TestClassify_Empty(t *testing.T) {
	c := newTestClassifier(t, DefaultConfig())
	res := c.Classify(nil, uniformGray(5, 5, 0))
	if res.Count != 0 || res.Objects == nil {
		t.Errorf("got %+v, want zero count and empty objects", res)
	}
}

func TestNewClassifier_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bands.Bands = nil
	if _, err := NewClassifier(cfg, zerolog.Nop()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}

	cfg = DefaultConfig()
	cfg.MarkerRadius = -1
	if _, err := NewClassifier(cfg, zerolog.Nop()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MarkerColor != (color.RGBA{3, 240, 108, 255}) {
		t.Errorf("MarkerColor = %v, want (3,240,108)", cfg.MarkerColor)
	}
	if cfg.MarkerRadius != DefaultMarkerRadius {
		t.Errorf("MarkerRadius = %d", cfg.MarkerRadius)
	}
}
