package detection

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// DefaultBlackThreshold is the mean channel value below which a pixel is black.
const DefaultBlackThreshold = 128

// Binarize converts a photo to a BinaryGrid.
//
// A pixel is black when the unweighted mean of its red, green and blue channels
// is below threshold. The comparison is done in integers as r+g+b < 3*threshold
// so no rounding is involved. Alpha is ignored.
//
// Rows are converted concurrently; the result does not depend on scheduling.
func Binarize(buf imaging.PixelBuffer, threshold int) *BinaryGrid {
	w, h := buf.Width(), buf.Height()
	grid := NewBinaryGrid(w, h)
	limit := 3 * threshold

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := grid.cells[y*w : (y+1)*w]
			for x := range row {
				r, g, b := buf.RGB(x, y)
				row[x] = int(r)+int(g)+int(b) < limit
			}
		}
	})

	return grid
}
