package imaging

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorSample is the mean color of a sampled region.
//
// Components are on the 0-255 scale but kept as float64, since they are
// averages. Pixels is the number of pixels that contributed.
type ColorSample struct {
	R      float64 `json:"r"`
	G      float64 `json:"g"`
	B      float64 `json:"b"`
	Pixels int     `json:"pixels"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Color returns the sample as a go-colorful color (components in 0-1).
func (c ColorSample) Color() colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Clamped()
}

// Hex returns the sample as "#rrggbb".
func (c ColorSample) Hex() string {
	return c.Color().Hex()
}

// HSL returns the sample in HSL color space.
func (c ColorSample) HSL() HSLColor {
	h, s, l := c.Color().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

// DistanceCIEDE2000 returns the perceptual difference between two samples.
// Values below about 0.02 are hard to tell apart by eye.
func (c ColorSample) DistanceCIEDE2000(o ColorSample) float64 {
	return c.Color().DistanceCIEDE2000(o.Color())
}

// Nearest returns the index of the reference sample perceptually closest to c,
// or -1 if refs is empty.
func (c ColorSample) Nearest(refs []ColorSample) int {
	best := -1
	bestDist := math.Inf(1)
	for i, r := range refs {
		if d := c.DistanceCIEDE2000(r); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SampleSummary is a ColorSample in the representations reported to clients.
type SampleSummary struct {
	Hex string      `json:"hex"`
	RGB ColorSample `json:"rgb"`
	HSL HSLColor    `json:"hsl"`
}

// Summarize returns the reporting view of a sample.
func Summarize(c ColorSample) SampleSummary {
	return SampleSummary{Hex: c.Hex(), RGB: c, HSL: c.HSL()}
}
