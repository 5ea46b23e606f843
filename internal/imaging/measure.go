package imaging

import (
	"math"
)

// Point represents a 2D pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointF is a point with sub-pixel precision. It is also used for card
// template coordinates, where X and Y are fractions of the marker vectors.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Float converts p to a PointF.
func (p Point) Float() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Round converts p to the nearest pixel, rounding halves up on each axis.
func (p PointF) Round() Point {
	return Point{X: RoundHalfUp(p.X), Y: RoundHalfUp(p.Y)}
}

// RoundHalfUp rounds to the nearest integer with ties going toward positive
// infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b PointF) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PixelDistance returns the Euclidean distance between two pixel coordinates.
func PixelDistance(a, b Point) float64 {
	return Distance(a.Float(), b.Float())
}
