package calibrate

import "github.com/ironsheep/lateral-flow-mcp/internal/imaging"

// Layout describes a horizontal row of equally spaced sampling regions in
// template coordinates.
type Layout struct {
	// Start is the center of the leftmost region.
	Start imaging.PointF `json:"start"`

	// Spacing is the X distance between neighboring centers.
	Spacing float64 `json:"spacing"`

	// Radius is the sampling radius as a fraction of the marker width.
	Radius float64 `json:"radius"`

	// Count is the number of regions in the row.
	Count int `json:"count"`
}

// SwatchLayout is the row of six reference swatches above the top markers.
func SwatchLayout() Layout {
	return Layout{
		Start:   imaging.PointF{X: 0.210, Y: -0.070},
		Spacing: 0.116,
		Radius:  0.028,
		Count:   6,
	}
}

// SpotLayout is the row of test spots: negative control, test, positive control.
func SpotLayout() Layout {
	return Layout{
		Start:   imaging.PointF{X: 0.248, Y: 0.524},
		Spacing: 0.250,
		Radius:  0.038,
		Count:   3,
	}
}

// Positions returns the pixel centers of the regions, left to right.
func (l Layout) Positions(t *Transform) []imaging.Point {
	if l.Count <= 0 {
		return nil
	}
	out := make([]imaging.Point, l.Count)
	for i := range out {
		out[i] = t.Map(imaging.PointF{X: l.Start.X + float64(i)*l.Spacing, Y: l.Start.Y})
	}
	return out
}

// RadiusPixels returns the sampling radius in pixels for this transform.
func (l Layout) RadiusPixels(t *Transform) int {
	return imaging.RoundHalfUp(t.Width() * l.Radius)
}
