package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/astrocyte-mcp/internal/detection"
	"github.com/ironsheep/astrocyte-mcp/internal/edge"
)

// Environment variable names.
const (
	EnvLogLevel    = "ASTRO_MCP_LOG_LEVEL"
	EnvBands       = "ASTRO_MCP_BANDS"
	EnvMaxLinkHops = "ASTRO_MCP_MAX_LINK_HOPS"
)

// Config is the process-wide configuration of the server.
type Config struct {
	LogLevel zerolog.Level

	// BandsPath is the file Bands was read from, empty for the built-in table.
	BandsPath string
	Bands     detection.BandTable

	MaxLinkHops int
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		LogLevel:    zerolog.InfoLevel,
		Bands:       detection.DefaultBandTable(),
		MaxLinkHops: edge.DefaultMaxLinkHops,
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := Default()

	level, err := ParseLogLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if v := strings.TrimSpace(os.Getenv(EnvMaxLinkHops)); v != "" {
		hops, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMaxLinkHops, err)
		}
		if hops < 0 {
			return nil, fmt.Errorf("%s: %d is negative", EnvMaxLinkHops, hops)
		}
		cfg.MaxLinkHops = hops
	}

	if path := strings.TrimSpace(os.Getenv(EnvBands)); path != "" {
		bands, err := LoadBands(path)
		if err != nil {
			return nil, err
		}
		cfg.BandsPath = path
		cfg.Bands = bands
	}

	return cfg, nil
}

// ParseLogLevel maps a level name to a zerolog level. The empty string
// selects info.
func ParseLogLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return level, nil
}

// EdgeConfig returns the detector defaults with the configured hop bound.
func (c *Config) EdgeConfig() edge.Config {
	ec := edge.DefaultConfig()
	ec.MaxLinkHops = c.MaxLinkHops
	return ec
}

// ClassifierConfig returns the classifier defaults with the configured bands.
func (c *Config) ClassifierConfig() detection.Config {
	dc := detection.DefaultConfig()
	dc.Bands = c.Bands
	return dc
}
