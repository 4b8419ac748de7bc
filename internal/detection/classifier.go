package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/astrocyte-mcp/internal/contour"
	"github.com/ironsheep/astrocyte-mcp/internal/imaging"
)

// Rejection names the first acceptance test a contour failed.
type Rejection string

// Rejection reasons, in the order the tests are applied.
const (
	Accepted          Rejection = ""
	RejectDegenerate  Rejection = "degenerate"
	RejectTooSmall    Rejection = "too_small"
	RejectBoundingBox Rejection = "bounding_box"
	RejectAspectRatio Rejection = "aspect_ratio"
	RejectCompactness Rejection = "compactness"
	RejectTooBright   Rejection = "too_bright"
)

// DefaultMarkerRadius is the radius of the disc drawn at each object center.
const DefaultMarkerRadius = 3

// Config holds the classifier parameters.
type Config struct {
	Bands BandTable

	// MarkerRadius and MarkerColor style the disc drawn on accepted objects.
	MarkerRadius int
	MarkerColor  color.RGBA
}

// DefaultConfig returns the default band table with a green marker.
func DefaultConfig() Config {
	return Config{
		Bands:        DefaultBandTable(),
		MarkerRadius: DefaultMarkerRadius,
		MarkerColor:  imaging.ParseColorOr(imaging.DefaultMarkerColor, imaging.DefaultMarkerColor),
	}
}

// Validate checks the band table and marker settings.
func (c Config) Validate() error {
	if err := c.Bands.Validate(); err != nil {
		return err
	}
	if c.MarkerRadius < 0 {
		return fmt.Errorf("%w: marker radius %d is negative", ErrInvalidConfiguration, c.MarkerRadius)
	}
	return nil
}

// Object describes a measured contour.
type Object struct {
	Bounds        Bounds  `json:"bounds"`
	Center        Point   `json:"center"`
	Area          float64 `json:"area"`
	Perimeter     float64 `json:"perimeter"`
	Compactness   float64 `json:"compactness"`
	MeanIntensity float64 `json:"mean_intensity"`
	Samples       int     `json:"samples"`
	Band          string  `json:"band"`
}

// Metrics counts the outcome of every contour in one classification pass.
type Metrics struct {
	Candidates  int `json:"candidates"`
	Accepted    int `json:"accepted"`
	Degenerate  int `json:"degenerate"`
	TooSmall    int `json:"too_small"`
	BoundingBox int `json:"bounding_box"`
	AspectRatio int `json:"aspect_ratio"`
	Compactness int `json:"compactness"`
	TooBright   int `json:"too_bright"`
}

func (m *Metrics) record(r Rejection) {
	m.Candidates++
	switch r {
	case Accepted:
		m.Accepted++
	case RejectDegenerate:
		m.Degenerate++
	case RejectTooSmall:
		m.TooSmall++
	case RejectBoundingBox:
		m.BoundingBox++
	case RejectAspectRatio:
		m.AspectRatio++
	case RejectCompactness:
		m.Compactness++
	case RejectTooBright:
		m.TooBright++
	}
}

// Result is the outcome of one classification pass.
type Result struct {
	// Count is the number of accepted contours.
	Count int `json:"count"`

	// Objects lists the accepted contours in tracing order.
	Objects []Object `json:"objects"`

	Metrics Metrics `json:"metrics"`
}

// Classifier decides which contours are astrocytes.
type Classifier struct {
	cfg Config
	log zerolog.Logger
}

// NewClassifier validates cfg and returns a Classifier that logs to log.
func NewClassifier(cfg Config, log zerolog.Logger) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		cfg: cfg,
		log: log.With().Str("component", "classifier").Logger(),
	}, nil
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Evaluate measures one contour against gray and reports the first test it
// fails, or Accepted.
//
// The tests are applied in order: at least one point and a non-zero
// perimeter, minimum area, shorter bounding side, aspect ratio, compactness,
// at least one pixel strictly inside the contour, and mean intensity of
// those pixels. Degenerate contours are rejected, never divided by.
func (c *Classifier) Evaluate(ct contour.Contour, gray *image.Gray) (Object, Rejection) {
	if len(ct) == 0 {
		return Object{}, RejectDegenerate
	}

	rect := ct.BoundingRect()
	w, h := rect.Dx(), rect.Dy()
	obj := Object{
		Bounds:    boundsFromRect(rect),
		Center:    Point{X: rect.Min.X + w/2, Y: rect.Min.Y + h/2},
		Area:      ct.Area(),
		Perimeter: ct.ArcLength(),
	}
	if obj.Perimeter == 0 {
		return obj, RejectDegenerate
	}
	obj.Compactness = obj.Area / (obj.Perimeter * obj.Perimeter)

	band, t := c.cfg.Bands.Select(obj.Center.Y, w, h)
	obj.Band = band

	if obj.Area < t.MinArea {
		return obj, RejectTooSmall
	}
	if min(w, h) >= t.MaxBoundingDimension {
		return obj, RejectBoundingBox
	}
	if float64(w)/float64(h) >= t.AspectRatioLimit || float64(h)/float64(w) >= t.AspectRatioLimit {
		return obj, RejectAspectRatio
	}
	if obj.Compactness <= t.CompactnessMin || obj.Compactness >= t.CompactnessMax {
		return obj, RejectCompactness
	}

	values := interiorIntensities(ct, rect, gray)
	obj.Samples = len(values)
	if obj.Samples == 0 {
		return obj, RejectDegenerate
	}
	obj.MeanIntensity = stat.Mean(values, nil)
	if obj.MeanIntensity >= t.MaxMeanIntensity {
		return obj, RejectTooBright
	}

	return obj, Accepted
}

// interiorIntensities samples gray at every pixel of rect that lies strictly
// inside ct.
func interiorIntensities(ct contour.Contour, rect image.Rectangle, gray *image.Gray) []float64 {
	rect = rect.Intersect(gray.Bounds())
	values := make([]float64, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if contour.PointPolygonTest(ct, image.Pt(x, y)) == contour.Inside {
				values = append(values, float64(gray.GrayAt(x, y).Y))
			}
		}
	}
	return values
}

// Classify evaluates every contour against gray. The count starts at zero on
// each call.
func (c *Classifier) Classify(contours []contour.Contour, gray *image.Gray) *Result {
	res := &Result{Objects: []Object{}}

	for i, ct := range contours {
		obj, rej := c.Evaluate(ct, gray)
		res.Metrics.record(rej)
		if rej != Accepted {
			c.log.Trace().
				Int("contour", i).
				Str("reason", string(rej)).
				Float64("area", obj.Area).
				Float64("compactness", obj.Compactness).
				Msg("contour rejected")
			continue
		}
		res.Objects = append(res.Objects, obj)
		res.Count++
	}

	c.log.Debug().
		Int("candidates", res.Metrics.Candidates).
		Int("accepted", res.Metrics.Accepted).
		Int("degenerate", res.Metrics.Degenerate).
		Int("too_bright", res.Metrics.TooBright).
		Msg("classification complete")

	return res
}

// Run traces mask with tracer, classifies the contours against source and
// returns a copy of source with each accepted object marked at its center.
//
// mask and source must have the same dimensions. source is reduced to luma
// for intensity sampling.
func (c *Classifier) Run(mask *image.Gray, source image.Image, tracer contour.Tracer) (*image.RGBA, *Result, error) {
	if err := checkInputs(mask, source); err != nil {
		return nil, nil, err
	}
	if tracer == nil {
		tracer = contour.DefaultTracer()
	}

	contours, _, err := tracer.Trace(mask)
	if err != nil {
		return nil, nil, fmt.Errorf("contour tracing: %w", err)
	}

	gray, err := imaging.ToGray(source, imaging.ChannelGray)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Contours are in mask coordinates; sample a gray image with the same origin.
	mb := mask.Bounds()
	gray.Rect = gray.Rect.Add(mb.Min)

	res := c.Classify(contours, gray)

	out := imaging.ToRGBA(source)
	c.Annotate(out, res.Objects, mb.Min)
	return out, res, nil
}

// ClassifyContours runs the default classifier and tracer over mask and
// returns the annotated source and the object count.
func ClassifyContours(mask *image.Gray, source image.Image) (*image.RGBA, int, error) {
	c, err := NewClassifier(DefaultConfig(), zerolog.Nop())
	if err != nil {
		return nil, 0, err
	}
	out, res, err := c.Run(mask, source, contour.DefaultTracer())
	if err != nil {
		return nil, 0, err
	}
	return out, res.Count, nil
}

// AsMask returns img as a single channel mask, or ErrInvalidInput when img
// carries colour.
func AsMask(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidInput)
	}
	g, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("%w: mask must be single channel, got %T", ErrInvalidInput, img)
	}
	return g, nil
}

func checkInputs(mask *image.Gray, source image.Image) error {
	if mask == nil {
		return fmt.Errorf("%w: nil mask", ErrInvalidInput)
	}
	if source == nil {
		return fmt.Errorf("%w: nil source image", ErrInvalidInput)
	}
	mb, sb := mask.Bounds(), source.Bounds()
	if mb.Dx() != sb.Dx() || mb.Dy() != sb.Dy() {
		return fmt.Errorf("%w: mask %dx%d does not match source %dx%d", ErrInvalidInput, mb.Dx(), mb.Dy(), sb.Dx(), sb.Dy())
	}
	return nil
}
