package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/astrocyte-mcp/internal/detection"
)

type bandFile struct {
	SmallObjectLimit *int        `yaml:"small_object_limit"`
	SmallObject      yaml.Node   `yaml:"small_object"`
	Bands            []bandEntry `yaml:"bands"`
}

type bandEntry struct {
	Name       string    `yaml:"name"`
	MaxY       int       `yaml:"max_y"`
	Thresholds yaml.Node `yaml:"thresholds"`
}

// LoadBands reads and validates a YAML band table.
func LoadBands(path string) (detection.BandTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return detection.BandTable{}, fmt.Errorf("failed to read band table: %w", err)
	}
	bt, err := ParseBands(data)
	if err != nil {
		return detection.BandTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return bt, nil
}

// ParseBands decodes a YAML band table. Unknown keys are rejected and missing
// thresholds take their default values. The result is validated.
func ParseBands(data []byte) (detection.BandTable, error) {
	var f bandFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return detection.BandTable{}, fmt.Errorf("%w: %v", detection.ErrInvalidConfiguration, err)
	}

	bt := detection.DefaultBandTable()
	if f.SmallObjectLimit != nil {
		bt.SmallObjectLimit = *f.SmallObjectLimit
	}
	small, err := decodeThresholds(&f.SmallObject)
	if err != nil {
		return detection.BandTable{}, fmt.Errorf("small_object: %w", err)
	}
	bt.SmallObject = small

	if f.Bands != nil {
		bt.Bands = make([]detection.Band, 0, len(f.Bands))
		for i, e := range f.Bands {
			t, err := decodeThresholds(&e.Thresholds)
			if err != nil {
				return detection.BandTable{}, fmt.Errorf("band %d: %w", i, err)
			}
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("band-%d", i)
			}
			bt.Bands = append(bt.Bands, detection.Band{Name: name, MaxY: e.MaxY, Thresholds: t})
		}
	}

	if err := bt.Validate(); err != nil {
		return detection.BandTable{}, err
	}
	return bt, nil
}

var thresholdKeys = map[string]bool{
	"min_area":               true,
	"max_bounding_dimension": true,
	"aspect_ratio_limit":     true,
	"compactness_min":        true,
	"compactness_max":        true,
	"max_mean_intensity":     true,
}

// decodeThresholds overlays node onto the default thresholds.
func decodeThresholds(node *yaml.Node) (detection.Thresholds, error) {
	t := detection.DefaultThresholds()
	if node.Kind == 0 {
		return t, nil
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if key := node.Content[i].Value; !thresholdKeys[key] {
				return detection.Thresholds{}, fmt.Errorf("%w: line %d: unknown threshold %q", detection.ErrInvalidConfiguration, node.Content[i].Line, key)
			}
		}
	}
	if err := node.Decode(&t); err != nil {
		return detection.Thresholds{}, fmt.Errorf("%w: %v", detection.ErrInvalidConfiguration, err)
	}
	return t, nil
}
