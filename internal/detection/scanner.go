package detection

import (
	"errors"
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// ErrFinderPatterns is returned by Find when the photo does not contain exactly
// three finder patterns after deduplication.
var ErrFinderPatterns = errors.New("expected exactly three finder patterns")

// ScanOptions tunes the finder pattern scanner.
type ScanOptions struct {
	// RowStride is the distance between scanned rows. Values below 1 scan every row.
	RowStride int `json:"row_stride"`

	// RatioTolerance is the allowed deviation of each run from its ideal
	// length, as a fraction of the module size.
	RatioTolerance float64 `json:"ratio_tolerance"`

	// DedupDistance is the radius in pixels within which a confirmed
	// candidate is treated as a repeat of an accepted pattern.
	DedupDistance float64 `json:"dedup_distance"`
}

// DefaultScanOptions returns the options used for card photos.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		RowStride:      1,
		RatioTolerance: 0.5,
		DedupDistance:  10,
	}
}

// FinderPattern is an accepted 1:1:3:1:1 marker.
type FinderPattern struct {
	Center     imaging.Point `json:"center"`
	ModuleSize int           `json:"module_size"`
}

// candidate is a pattern that passed both ratio checks but has not yet been
// compared against the accepted set.
type candidate struct {
	center     imaging.PointF
	moduleSize int
}

// Scanner finds finder patterns in a BinaryGrid by run-length scanning rows
// and confirming each horizontal hit with a vertical walk.
type Scanner struct {
	opts ScanOptions
}

// NewScanner creates a Scanner.
func NewScanner(opts ScanOptions) *Scanner {
	if opts.RowStride < 1 {
		opts.RowStride = 1
	}
	return &Scanner{opts: opts}
}

// Options returns the scanner's effective options.
func (s *Scanner) Options() ScanOptions {
	return s.opts
}

// Scan returns every accepted finder pattern in scan order.
//
// Rows are examined concurrently. Confirmed candidates are merged in row order
// and deduplicated afterwards, so the result is the same as a single pass
// from the top row down.
func (s *Scanner) Scan(grid *BinaryGrid) []FinderPattern {
	stride := s.opts.RowStride
	rows := (grid.Height() + stride - 1) / stride
	if rows <= 0 || grid.Width() == 0 {
		return nil
	}

	perRow := make([][]candidate, rows)
	parallel.Line(rows, func(start, end int) {
		for i := start; i < end; i++ {
			perRow[i] = s.scanRow(grid, i*stride)
		}
	})

	var found []FinderPattern
	for _, cands := range perRow {
		for _, c := range cands {
			if s.isDuplicate(c.center, found) {
				continue
			}
			found = append(found, FinderPattern{
				Center:     c.center.Round(),
				ModuleSize: c.moduleSize,
			})
		}
	}
	return found
}

// Find scans the grid and returns the three finder patterns of a card.
func (s *Scanner) Find(grid *BinaryGrid) ([3]FinderPattern, error) {
	return Three(s.Scan(grid))
}

// Three returns found as an array, or ErrFinderPatterns unless it holds
// exactly three patterns.
func Three(found []FinderPattern) ([3]FinderPattern, error) {
	var out [3]FinderPattern
	if len(found) != 3 {
		return out, fmt.Errorf("%w: found %d", ErrFinderPatterns, len(found))
	}
	copy(out[:], found)
	return out, nil
}

// scanRow runs the run-length automaton over one row and returns the
// candidates that survive both ratio checks, left to right. Nothing is
// flushed at the end of the row.
func (s *Scanner) scanRow(grid *BinaryGrid, y int) []candidate {
	var out []candidate
	var rs RunState
	for x, black := range grid.Row(y) {
		if rs.Feed(black) {
			if c, ok := s.checkCandidate(grid, rs.Counts, x, y); ok {
				out = append(out, c)
			}
			rs.Shift()
			rs.Feed(black)
		}
	}
	return out
}

// checkCandidate applies the horizontal and vertical ratio checks to the runs
// closed by the white pixel at column x.
func (s *Scanner) checkCandidate(grid *BinaryGrid, counts [5]int, x, y int) (candidate, bool) {
	total := 0
	for _, c := range counts {
		if c == 0 {
			return candidate{}, false
		}
		total += c
	}
	if x-total < 0 {
		return candidate{}, false
	}

	moduleSize := imaging.RoundHalfUp(float64(total) / 7)
	if !s.checkHorizontalRatio(counts, moduleSize) {
		return candidate{}, false
	}

	cx := x - imaging.RoundHalfUp(float64(total)/2)
	up, ok := s.crossCheck(grid, cx, y, -1, moduleSize)
	if !ok {
		return candidate{}, false
	}
	down, ok := s.crossCheck(grid, cx, y, 1, moduleSize)
	if !ok {
		return candidate{}, false
	}

	return candidate{
		center:     imaging.PointF{X: float64(cx), Y: float64(y) + float64(down-up)/2},
		moduleSize: moduleSize,
	}, true
}

// checkHorizontalRatio reports whether the five runs match 1:1:3:1:1 for the
// given module size.
func (s *Scanner) checkHorizontalRatio(counts [5]int, moduleSize int) bool {
	m := float64(moduleSize)
	v := m * s.opts.RatioTolerance
	return math.Abs(float64(counts[0])-m) < v &&
		math.Abs(float64(counts[1])-m) < v &&
		math.Abs(float64(counts[2])-3*m) < 3*v &&
		math.Abs(float64(counts[3])-m) < v &&
		math.Abs(float64(counts[4])-m) < v
}

// crossCheck walks the column from (x, y) in direction dy, counting the half
// center run (starting pixel included), the white ring and the outer black
// ring. It returns the number of pixels walked, or false if the walk leaves
// the grid or the runs do not match 1.5:1:1.
func (s *Scanner) crossCheck(grid *BinaryGrid, x, y, dy, moduleSize int) (int, bool) {
	var counts [3]int
	state := 0
	for state < 3 {
		if !grid.In(x, y) {
			return 0, false
		}
		if grid.Get(x, y) {
			if state == 1 {
				state++
			}
		} else if state == 0 || state == 2 {
			state++
		}
		if state < 3 {
			counts[state]++
		}
		y += dy
	}

	m := float64(moduleSize)
	v := m * s.opts.RatioTolerance
	if !(math.Abs(float64(counts[0])-1.5*m) < 1.5*v &&
		math.Abs(float64(counts[1])-m) < v &&
		math.Abs(float64(counts[2])-m) < v) {
		return 0, false
	}
	return counts[0] + counts[1] + counts[2], true
}

// isDuplicate reports whether p lies strictly within DedupDistance of an
// accepted pattern.
func (s *Scanner) isDuplicate(p imaging.PointF, found []FinderPattern) bool {
	for _, f := range found {
		if imaging.Distance(p, f.Center.Float()) < s.opts.DedupDistance {
			return true
		}
	}
	return false
}
