package edge

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/astrocyte-mcp/internal/imaging"
)

// DefaultBlurSigma is the Gaussian sigma applied before gradient computation.
const DefaultBlurSigma = 1.4

// Config holds the parameters of one edge detection run.
type Config struct {
	Thresholds Thresholds

	// Channel selects the intensity source: luma or a single colour channel.
	Channel imaging.Channel

	// BlurSigma is the Gaussian sigma. Zero disables blurring.
	BlurSigma float64

	// MaxLinkHops bounds hysteresis propagation from a strong seed.
	// Zero means unbounded.
	MaxLinkHops int
}

// DefaultConfig returns the detector defaults: thresholds 22/46 on the luma
// channel, sigma 1.4 and a 200 hop linking bound.
func DefaultConfig() Config {
	return Config{
		Thresholds:  Thresholds{Min: 22, Max: 46},
		Channel:     imaging.ChannelGray,
		BlurSigma:   DefaultBlurSigma,
		MaxLinkHops: DefaultMaxLinkHops,
	}
}

// Validate checks every field and returns an error wrapping
// ErrInvalidConfiguration for the first problem found.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseChannel(string(c.Channel)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if c.BlurSigma < 0 {
		return fmt.Errorf("%w: blur sigma %g is negative", ErrInvalidConfiguration, c.BlurSigma)
	}
	if c.MaxLinkHops < 0 {
		return fmt.Errorf("%w: max link hops %d is negative", ErrInvalidConfiguration, c.MaxLinkHops)
	}
	return nil
}

// Result is the output of a detection run.
type Result struct {
	// Mask is the final binary edge mask: 255 for edges, 0 elsewhere.
	Mask *image.Gray

	// Gradient is the field the mask was derived from.
	Gradient *GradientField

	// Link summarises hysteresis linking.
	Link LinkStats

	// GradientMean and GradientStdDev describe the interior gradient magnitudes.
	GradientMean   float64
	GradientStdDev float64
}

// Detector runs the full edge detection chain with a fixed configuration.
type Detector struct {
	cfg Config
	log zerolog.Logger
}

// NewDetector validates cfg and returns a Detector that logs to log.
func NewDetector(cfg Config, log zerolog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg: cfg,
		log: log.With().Str("component", "edge").Logger(),
	}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect converts img to a single channel, blurs it and runs gradient,
// suppression, thresholding, linking and finalization.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("edge detection: nil image")
	}

	gray, err := imaging.ToGray(img, d.cfg.Channel)
	if err != nil {
		return nil, fmt.Errorf("edge detection: %w", err)
	}
	blurred := imaging.Blur(gray, d.cfg.BlurSigma)

	field := ComputeGradients(blurred)
	thinned := Thin(field)
	classified := DoubleThreshold(thinned, d.cfg.Thresholds)
	linked, stats := Link(classified, d.cfg.MaxLinkHops)
	mask, dropped := Finalize(linked)
	stats.Dropped = dropped

	mean, std := gradientStats(field)

	d.log.Debug().
		Int("width", field.Width).
		Int("height", field.Height).
		Int("min_threshold", d.cfg.Thresholds.Min).
		Int("max_threshold", d.cfg.Thresholds.Max).
		Int("strong_seeds", stats.StrongSeeds).
		Int("promoted", stats.Promoted).
		Int("dropped", stats.Dropped).
		Msg("edge detection complete")

	return &Result{
		Mask:           mask,
		Gradient:       field,
		Link:           stats,
		GradientMean:   mean,
		GradientStdDev: std,
	}, nil
}

// ComputeEdges runs the detector with default settings and the given
// thresholds and returns the binary edge mask.
func ComputeEdges(img image.Image, minThreshold, maxThreshold int) (*image.Gray, error) {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{Min: minThreshold, Max: maxThreshold}

	d, err := NewDetector(cfg, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	res, err := d.Detect(img)
	if err != nil {
		return nil, err
	}
	return res.Mask, nil
}

func gradientStats(field *GradientField) (float64, float64) {
	if field.Width < 3 || field.Height < 3 {
		return 0, 0
	}
	values := make([]float64, 0, (field.Width-2)*(field.Height-2))
	for y := 1; y < field.Height-1; y++ {
		for x := 1; x < field.Width-1; x++ {
			values = append(values, float64(field.Magnitude[y*field.Width+x]))
		}
	}
	if len(values) < 2 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
