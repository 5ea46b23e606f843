// Package calibrate maps card template coordinates onto photo pixels.
//
// Template coordinates are fractions of the two marker vectors: X is measured
// along top-left to top-right and Y along top-left to bottom-left. The mapping
// is affine, so it absorbs in-plane rotation, scale and shear but not
// perspective.
package calibrate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/lateral-flow-mcp/internal/detection"
	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// ErrDegenerate is returned when the three markers are collinear and span no area.
var ErrDegenerate = errors.New("markers are collinear")

// Transform is the affine map from template coordinates to pixels.
type Transform struct {
	origin imaging.PointF
	basis  *mat.Dense // columns: TL->TR, TL->BL
	inv    *mat.Dense
	width  float64
}

// New builds the transform for an arrangement of markers.
func New(arr detection.Arrangement) (*Transform, error) {
	u := arr.TopRight.Sub(arr.TopLeft)
	v := arr.BottomLeft.Sub(arr.TopLeft)

	basis := mat.NewDense(2, 2, []float64{
		float64(u.X), float64(v.X),
		float64(u.Y), float64(v.Y),
	})
	if mat.Det(basis) == 0 {
		return nil, fmt.Errorf("%w: TL %v, TR %v, BL %v", ErrDegenerate, arr.TopLeft, arr.TopRight, arr.BottomLeft)
	}

	var inv mat.Dense
	if err := inv.Inverse(basis); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
		}
	}

	return &Transform{
		origin: arr.TopLeft.Float(),
		basis:  basis,
		inv:    &inv,
		width:  imaging.PixelDistance(arr.TopLeft, arr.TopRight),
	}, nil
}

// MapF maps a template point to sub-pixel photo coordinates.
func (t *Transform) MapF(f imaging.PointF) imaging.PointF {
	var out mat.VecDense
	out.MulVec(t.basis, mat.NewVecDense(2, []float64{f.X, f.Y}))
	return imaging.PointF{
		X: out.AtVec(0) + t.origin.X,
		Y: out.AtVec(1) + t.origin.Y,
	}
}

// Map maps a template point to the nearest pixel.
func (t *Transform) Map(f imaging.PointF) imaging.Point {
	return t.MapF(f).Round()
}

// Unmap returns the template coordinates of a photo point.
func (t *Transform) Unmap(p imaging.PointF) imaging.PointF {
	var out mat.VecDense
	out.MulVec(t.inv, mat.NewVecDense(2, []float64{p.X - t.origin.X, p.Y - t.origin.Y}))
	return imaging.PointF{X: out.AtVec(0), Y: out.AtVec(1)}
}

// Width returns the top-left to top-right marker distance in pixels.
func (t *Transform) Width() float64 {
	return t.width
}
