package detection

// BinaryGrid is a black/white rendering of a photo. Cells are stored row-major;
// true means black.
type BinaryGrid struct {
	width  int
	height int
	cells  []bool
}

// NewBinaryGrid returns an all-white grid of the given size.
func NewBinaryGrid(width, height int) *BinaryGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &BinaryGrid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *BinaryGrid) Width() int { return g.width }

// Height returns the number of rows.
func (g *BinaryGrid) Height() int { return g.height }

// Get reports whether (x, y) is black. Coordinates outside the grid read as white.
func (g *BinaryGrid) Get(x, y int) bool {
	if !g.In(x, y) {
		return false
	}
	return g.cells[y*g.width+x]
}

// Set marks (x, y) black or white. Coordinates outside the grid are ignored.
func (g *BinaryGrid) Set(x, y int, black bool) {
	if !g.In(x, y) {
		return
	}
	g.cells[y*g.width+x] = black
}

// In reports whether (x, y) lies inside the grid.
func (g *BinaryGrid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Row returns row y. The slice aliases the grid and must not be modified.
func (g *BinaryGrid) Row(y int) []bool {
	return g.cells[y*g.width : (y+1)*g.width]
}
