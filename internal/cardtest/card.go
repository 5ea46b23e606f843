// Package cardtest renders synthetic test card photos for tests.
package cardtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/ironsheep/lateral-flow-mcp/internal/calibrate"
	"github.com/ironsheep/lateral-flow-mcp/internal/detection"
	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
)

// Card describes a synthetic card photo.
type Card struct {
	Width, Height int

	// Frame places the swatches and spots. Markers are drawn at Markers,
	// which defaults to the frame's three points.
	Frame   detection.Arrangement
	Markers []imaging.Point

	// ModuleSize is the width of one marker module in pixels.
	ModuleSize int

	// SwatchGreens and SpotGreens set the green channel of each disc. Red is
	// 255 and blue 165, so every disc binarizes to white.
	SwatchGreens []uint8
	SpotGreens   []uint8

	// DiscRadius is the painted radius of every disc.
	DiscRadius int
}

// Upright returns a 620x280 card with markers at (60,60), (560,60) and
// (60,220) and a positive reading.
func Upright() Card {
	frame := detection.Arrangement{
		BottomLeft: imaging.Point{X: 60, Y: 220},
		TopLeft:    imaging.Point{X: 60, Y: 60},
		TopRight:   imaging.Point{X: 560, Y: 60},
	}
	return Card{
		Width:        620,
		Height:       280,
		Frame:        frame,
		Markers:      frame.Points(),
		ModuleSize:   5,
		SwatchGreens: []uint8{185, 199, 213, 227, 241, 255},
		SpotGreens:   []uint8{190, 230, 250},
		DiscRadius:   20,
	}
}

// WithSpots returns a copy of c with new spot greens.
func (c Card) WithSpots(greens ...uint8) Card {
	c.SpotGreens = greens
	return c
}

// WithSwatches returns a copy of c with new swatch greens.
func (c Card) WithSwatches(greens ...uint8) Card {
	c.SwatchGreens = greens
	return c
}

// WithMarkers returns a copy of c that draws markers only at the given points.
func (c Card) WithMarkers(points ...imaging.Point) Card {
	c.Markers = points
	return c
}

// Render draws the card.
func (c Card) Render() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.Set(x, y, color.White)
		}
	}

	t, err := calibrate.New(c.Frame)
	if err != nil {
		return nil, fmt.Errorf("card frame: %w", err)
	}

	swatches := calibrate.SwatchLayout()
	swatches.Count = len(c.SwatchGreens)
	for i, p := range swatches.Positions(t) {
		fillDisc(img, p, c.DiscRadius, color.RGBA{255, c.SwatchGreens[i], 165, 255})
	}

	spots := calibrate.SpotLayout()
	spots.Count = len(c.SpotGreens)
	for i, p := range spots.Positions(t) {
		fillDisc(img, p, c.DiscRadius, color.RGBA{255, c.SpotGreens[i], 165, 255})
	}

	for _, m := range c.Markers {
		drawFinderPattern(img, m, c.ModuleSize)
	}
	return img, nil
}

// WritePNG renders the card to path.
func (c Card) WritePNG(path string) error {
	img, err := c.Render()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawFinderPattern draws a 7x7-module marker centered on c: an outer black
// ring, a white ring and a 3x3 black center.
func drawFinderPattern(img *image.RGBA, c imaging.Point, m int) {
	half := 7 * m / 2
	for dy := 0; dy < 7*m; dy++ {
		for dx := 0; dx < 7*m; dx++ {
			mx, my := dx/m, dy/m
			ring := mx == 0 || my == 0 || mx == 6 || my == 6
			center := mx >= 2 && mx <= 4 && my >= 2 && my <= 4
			if ring || center {
				img.Set(c.X-half+dx, c.Y-half+dy, color.Black)
			} else {
				img.Set(c.X-half+dx, c.Y-half+dy, color.White)
			}
		}
	}
}

func fillDisc(img *image.RGBA, c imaging.Point, r int, col color.Color) {
	for y := c.Y - r; y <= c.Y+r; y++ {
		for x := c.X - r; x <= c.X+r; x++ {
			dx, dy := x-c.X, y-c.Y
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, col)
			}
		}
	}
}
