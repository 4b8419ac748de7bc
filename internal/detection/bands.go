package detection

import (
	"fmt"
	"math"
)

// DefaultSmallObjectLimit is the bounding box size, in pixels, at or below
// which a contour uses the small object thresholds whatever its position.
const DefaultSmallObjectLimit = 18

// Thresholds is the set of acceptance limits applied to one contour.
type Thresholds struct {
	// MinArea is the smallest accepted contour area in square pixels.
	MinArea float64 `json:"min_area" yaml:"min_area"`

	// MaxBoundingDimension must exceed the shorter side of the bounding box.
	MaxBoundingDimension int `json:"max_bounding_dimension" yaml:"max_bounding_dimension"`

	// AspectRatioLimit must exceed both width/height and height/width.
	AspectRatioLimit float64 `json:"aspect_ratio_limit" yaml:"aspect_ratio_limit"`

	// CompactnessMin and CompactnessMax bound area/perimeter² (exclusive).
	CompactnessMin float64 `json:"compactness_min" yaml:"compactness_min"`
	CompactnessMax float64 `json:"compactness_max" yaml:"compactness_max"`

	// MaxMeanIntensity must exceed the mean intensity inside the contour.
	MaxMeanIntensity float64 `json:"max_mean_intensity" yaml:"max_mean_intensity"`
}

// DefaultThresholds returns the limits used for every band by default:
// area >= 7, shorter side < 25, aspect ratio < 1.8, compactness in
// (0.05, 0.30) and mean intensity < 110.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinArea:              7,
		MaxBoundingDimension: 25,
		AspectRatioLimit:     1.8,
		CompactnessMin:       0.05,
		CompactnessMax:       0.30,
		MaxMeanIntensity:     110,
	}
}

// Validate reports ErrInvalidConfiguration for limits that cannot accept any
// contour or are out of range.
func (t Thresholds) Validate() error {
	switch {
	case t.MinArea < 0 || math.IsNaN(t.MinArea):
		return fmt.Errorf("%w: min area %g", ErrInvalidConfiguration, t.MinArea)
	case t.MaxBoundingDimension <= 0:
		return fmt.Errorf("%w: max bounding dimension %d must be positive", ErrInvalidConfiguration, t.MaxBoundingDimension)
	case !(t.AspectRatioLimit > 1):
		return fmt.Errorf("%w: aspect ratio limit %g must be above 1", ErrInvalidConfiguration, t.AspectRatioLimit)
	case t.CompactnessMin < 0 || !(t.CompactnessMin < t.CompactnessMax):
		return fmt.Errorf("%w: compactness range (%g, %g)", ErrInvalidConfiguration, t.CompactnessMin, t.CompactnessMax)
	case !(t.MaxMeanIntensity > 0) || t.MaxMeanIntensity > 256:
		return fmt.Errorf("%w: max mean intensity %g outside (0, 256]", ErrInvalidConfiguration, t.MaxMeanIntensity)
	}
	return nil
}

// Band applies Thresholds to contours whose center y is at most MaxY.
type Band struct {
	Name string `json:"name" yaml:"name"`

	// MaxY is the inclusive upper bound of the center y coordinate. Zero or
	// less marks the open final band.
	MaxY int `json:"max_y" yaml:"max_y"`

	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// Open reports whether the band has no upper bound.
func (b Band) Open() bool {
	return b.MaxY <= 0
}

// BandTable selects the thresholds for a contour from its position and size.
type BandTable struct {
	// Bands are checked in order; the first whose MaxY is at least the
	// center y wins. The last band must be open.
	Bands []Band `json:"bands" yaml:"bands"`

	// SmallObject overrides the bands for contours whose bounding box is at
	// most SmallObjectLimit pixels in both directions.
	SmallObject      Thresholds `json:"small_object" yaml:"small_object"`
	SmallObjectLimit int        `json:"small_object_limit" yaml:"small_object_limit"`
}

// SmallObjectBand is the band name reported for the small object override.
const SmallObjectBand = "small"

// DefaultBandTable returns six bands split at y = 484, 1265, 1561, 2276 and
// 3203, plus the small object override. Every entry starts from
// DefaultThresholds.
func DefaultBandTable() BandTable {
	t := DefaultThresholds()
	return BandTable{
		Bands: []Band{
			{Name: "0-484", MaxY: 484, Thresholds: t},
			{Name: "485-1265", MaxY: 1265, Thresholds: t},
			{Name: "1266-1561", MaxY: 1561, Thresholds: t},
			{Name: "1562-2276", MaxY: 2276, Thresholds: t},
			{Name: "2277-3203", MaxY: 3203, Thresholds: t},
			{Name: "3204+", Thresholds: t},
		},
		SmallObject:      t,
		SmallObjectLimit: DefaultSmallObjectLimit,
	}
}

// Validate checks that the bands are in increasing order, that only the last
// one is open and that every set of thresholds is valid.
func (bt BandTable) Validate() error {
	if len(bt.Bands) == 0 {
		return fmt.Errorf("%w: band table is empty", ErrInvalidConfiguration)
	}
	if bt.SmallObjectLimit < 0 {
		return fmt.Errorf("%w: small object limit %d is negative", ErrInvalidConfiguration, bt.SmallObjectLimit)
	}
	if err := bt.SmallObject.Validate(); err != nil {
		return fmt.Errorf("small object: %w", err)
	}

	last := len(bt.Bands) - 1
	prev := -1
	for i, b := range bt.Bands {
		if b.Open() != (i == last) {
			if i == last {
				return fmt.Errorf("%w: final band %q must be open (max_y <= 0)", ErrInvalidConfiguration, b.Name)
			}
			return fmt.Errorf("%w: only the final band may be open, band %d (%q) is not", ErrInvalidConfiguration, i, b.Name)
		}
		if !b.Open() {
			if b.MaxY <= prev {
				return fmt.Errorf("%w: band %q max_y %d is not above %d", ErrInvalidConfiguration, b.Name, b.MaxY, prev)
			}
			prev = b.MaxY
		}
		if err := b.Thresholds.Validate(); err != nil {
			return fmt.Errorf("band %q: %w", b.Name, err)
		}
	}
	return nil
}

// Select returns the band name and thresholds for a contour centred at
// centerY with a width x height bounding box.
func (bt BandTable) Select(centerY, width, height int) (string, Thresholds) {
	if width <= bt.SmallObjectLimit && height <= bt.SmallObjectLimit {
		return SmallObjectBand, bt.SmallObject
	}
	for _, b := range bt.Bands {
		if b.Open() || centerY <= b.MaxY {
			return b.Name, b.Thresholds
		}
	}
	last := bt.Bands[len(bt.Bands)-1]
	return last.Name, last.Thresholds
}

// Boundaries returns the MaxY of every bounded band.
func (bt BandTable) Boundaries() []int {
	var ys []int
	for _, b := range bt.Bands {
		if !b.Open() {
			ys = append(ys, b.MaxY)
		}
	}
	return ys
}
