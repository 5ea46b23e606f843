package detection

import "github.com/ironsheep/lateral-flow-mcp/internal/imaging"

// Arrangement names the three card markers by their role.
//
// The two markers closest together sit on the card's left edge; the third is
// top-right. Of the left pair, the one nearer to top-right is top-left.
type Arrangement struct {
	BottomLeft imaging.Point `json:"bottom_left"`
	TopLeft    imaging.Point `json:"top_left"`
	TopRight   imaging.Point `json:"top_right"`
}

// Points returns the markers as bottom-left, top-left, top-right.
func (a Arrangement) Points() []imaging.Point {
	return []imaging.Point{a.BottomLeft, a.TopLeft, a.TopRight}
}

// Arrange assigns roles to three marker centers. For any triangle without tied
// side lengths the result does not depend on argument order.
func Arrange(a, b, c imaging.Point) Arrangement {
	ab := imaging.PixelDistance(a, b)
	bc := imaging.PixelDistance(b, c)
	ac := imaging.PixelDistance(a, c)

	var arr Arrangement
	switch {
	case ab < bc && ab < ac:
		arr.TopRight = c
		if ac < bc {
			arr.TopLeft, arr.BottomLeft = a, b
		} else {
			arr.TopLeft, arr.BottomLeft = b, a
		}
	case bc < ab && bc < ac:
		arr.TopRight = a
		if ab < ac {
			arr.TopLeft, arr.BottomLeft = b, c
		} else {
			arr.TopLeft, arr.BottomLeft = c, b
		}
	default:
		arr.TopRight = b
		if ab < bc {
			arr.TopLeft, arr.BottomLeft = a, c
		} else {
			arr.TopLeft, arr.BottomLeft = c, a
		}
	}
	return arr
}

// ArrangePatterns is Arrange over the centers of three finder patterns.
func ArrangePatterns(p [3]FinderPattern) Arrangement {
	return Arrange(p[0].Center, p[1].Center, p[2].Center)
}
