// Package config holds the tunable constants of a card analysis.
//
// Defaults match the printed card. FromEnv overlays LFA_* environment
// variables, which the command loads from a .env file when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/lateral-flow-mcp/internal/calibrate"
	"github.com/ironsheep/lateral-flow-mcp/internal/classify"
	"github.com/ironsheep/lateral-flow-mcp/internal/detection"
)

// Config is the full set of analysis parameters. It is a value type; copy it
// to derive a variant.
type Config struct {
	// BlackThreshold is the mean channel value below which a pixel is black.
	BlackThreshold int `json:"black_threshold"`

	Scan detection.ScanOptions `json:"scan"`

	Swatches calibrate.Layout `json:"swatches"`
	Spots    calibrate.Layout `json:"spots"`

	Thresholds classify.Thresholds `json:"thresholds"`

	// MaxDimension shrinks loaded photos so neither side exceeds it. Zero
	// keeps the photo as taken.
	MaxDimension int `json:"max_dimension"`
}

// Default returns the configuration for the printed card.
func Default() Config {
	return Config{
		BlackThreshold: detection.DefaultBlackThreshold,
		Scan:           detection.DefaultScanOptions(),
		Swatches:       calibrate.SwatchLayout(),
		Spots:          calibrate.SpotLayout(),
		Thresholds:     classify.DefaultThresholds(),
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.BlackThreshold < 1 || c.BlackThreshold > 255 {
		errs = append(errs, fmt.Errorf("black threshold %d outside 1..255", c.BlackThreshold))
	}
	if c.Scan.RowStride < 1 {
		errs = append(errs, fmt.Errorf("row stride %d must be at least 1", c.Scan.RowStride))
	}
	if !(c.Scan.RatioTolerance > 0) {
		errs = append(errs, fmt.Errorf("ratio tolerance %g must be positive", c.Scan.RatioTolerance))
	}
	if c.Scan.DedupDistance < 0 {
		errs = append(errs, fmt.Errorf("dedup distance %g must not be negative", c.Scan.DedupDistance))
	}
	if !(c.Swatches.Radius > 0) {
		errs = append(errs, fmt.Errorf("swatch radius %g must be positive", c.Swatches.Radius))
	}
	if !(c.Spots.Radius > 0) {
		errs = append(errs, fmt.Errorf("spot radius %g must be positive", c.Spots.Radius))
	}
	if c.Swatches.Count < 0 || c.Spots.Count < 0 {
		errs = append(errs, fmt.Errorf("region counts %d/%d must not be negative", c.Swatches.Count, c.Spots.Count))
	}
	if c.MaxDimension < 0 {
		errs = append(errs, fmt.Errorf("max dimension %d must not be negative", c.MaxDimension))
	}
	return errors.Join(errs...)
}

// Environment variables read by FromEnv.
const (
	EnvBlackThreshold            = "LFA_BLACK_THRESHOLD"
	EnvRowStride                 = "LFA_ROW_STRIDE"
	EnvRatioTolerance            = "LFA_RATIO_TOLERANCE"
	EnvDedupDistance             = "LFA_DEDUP_DISTANCE"
	EnvMaxDimension              = "LFA_MAX_DIMENSION"
	EnvSwatchCount               = "LFA_SWATCH_COUNT"
	EnvSpotCount                 = "LFA_SPOT_COUNT"
	EnvMinGreenIncrement         = "LFA_MIN_GREEN_INCREMENT"
	EnvMaxGreenIncrementVariance = "LFA_MAX_GREEN_INCREMENT_VARIANCE"
	EnvMinControlSeparation      = "LFA_MIN_CONTROL_SEPARATION"
)

// FromEnv returns Default overlaid with any LFA_* variables that are set.
// Unparseable values are reported together and leave the default in place.
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.BlackThreshold = getEnvAsIntOrDefault(EnvBlackThreshold, cfg.BlackThreshold, &errs)
	cfg.Scan.RowStride = getEnvAsIntOrDefault(EnvRowStride, cfg.Scan.RowStride, &errs)
	cfg.Scan.RatioTolerance = getEnvAsFloatOrDefault(EnvRatioTolerance, cfg.Scan.RatioTolerance, &errs)
	cfg.Scan.DedupDistance = getEnvAsFloatOrDefault(EnvDedupDistance, cfg.Scan.DedupDistance, &errs)
	cfg.MaxDimension = getEnvAsIntOrDefault(EnvMaxDimension, cfg.MaxDimension, &errs)
	cfg.Swatches.Count = getEnvAsIntOrDefault(EnvSwatchCount, cfg.Swatches.Count, &errs)
	cfg.Spots.Count = getEnvAsIntOrDefault(EnvSpotCount, cfg.Spots.Count, &errs)
	cfg.Thresholds.MinGreenIncrement = getEnvAsFloatOrDefault(EnvMinGreenIncrement, cfg.Thresholds.MinGreenIncrement, &errs)
	cfg.Thresholds.MaxGreenIncrementVariance = getEnvAsFloatOrDefault(EnvMaxGreenIncrementVariance, cfg.Thresholds.MaxGreenIncrementVariance, &errs)
	cfg.Thresholds.MinControlSeparation = getEnvAsFloatOrDefault(EnvMinControlSeparation, cfg.Thresholds.MinControlSeparation, &errs)

	return cfg, errors.Join(errs...)
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int, errs *[]error) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64, errs *[]error) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}

	return value
}
