// Package classify turns sampled swatch and spot colors into a result code.
//
// Only the green channel is used. The six swatches form a reference ladder of
// increasing green; the three spots are the negative control, the test and
// the positive control.
package classify

import (
	"math"

	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// Swatch and spot counts the decision tree is written for.
const (
	SwatchCount = 6
	SpotCount   = 3
)

// Thresholds are the green channel limits used by Classify.
type Thresholds struct {
	// MinGreenIncrement is the smallest allowed green step between adjacent swatches.
	MinGreenIncrement float64 `json:"min_green_increment"`

	// MaxGreenIncrementVariance is the largest allowed deviation of a step
	// from the mean step.
	MaxGreenIncrementVariance float64 `json:"max_green_increment_variance"`

	// MinControlSeparation is the smallest green difference between the
	// positive and negative controls.
	MinControlSeparation float64 `json:"min_control_separation"`
}

// DefaultThresholds returns the limits calibrated for the printed card.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinGreenIncrement:         4,
		MaxGreenIncrementVariance: 9,
		MinControlSeparation:      12,
	}
}

// Classify runs the decision tree. The checks are ordered; the first one that
// fails decides the code.
func Classify(swatches, spots []imaging.ColorSample, th Thresholds) Code {
	if len(swatches) != SwatchCount || len(spots) != SpotCount {
		return Error
	}
	if !SwatchesLinear(swatches, th) {
		return BadSwatches
	}

	neg, test, pos := spots[0].G, spots[1].G, spots[2].G

	switch {
	case math.Abs(pos-neg) < th.MinControlSeparation:
		return BadSamples
	case pos < swatches[4].G:
		return BadPositive
	case neg > swatches[1].G:
		return BadNegative
	case test >= swatches[3].G:
		return Positive
	case test > swatches[2].G:
		return Inconclusive
	case test <= swatches[2].G:
		return Negative
	}
	return Unknown
}

// SwatchesLinear reports whether the swatch greens climb in roughly even steps.
// Every step must be at least MinGreenIncrement and within
// MaxGreenIncrementVariance of the mean step.
func SwatchesLinear(swatches []imaging.ColorSample, th Thresholds) bool {
	if len(swatches) < 2 {
		return false
	}
	steps := GreenSteps(swatches)

	mean := 0.0
	for _, s := range steps {
		mean += s
	}
	mean /= float64(len(steps))

	for _, s := range steps {
		if s < th.MinGreenIncrement || math.Abs(s-mean) > th.MaxGreenIncrementVariance {
			return false
		}
	}
	return true
}

// GreenSteps returns the green difference between each swatch and the one to
// its left.
func GreenSteps(swatches []imaging.ColorSample) []float64 {
	if len(swatches) < 2 {
		return nil
	}
	steps := make([]float64, len(swatches)-1)
	for i := range steps {
		steps[i] = swatches[i+1].G - swatches[i].G
	}
	return steps
}
