package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidBuffer is returned when raw pixel data does not match the declared dimensions.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// PixelBuffer is read-only access to the RGB samples of a photo.
//
// Coordinates are 0-based with the origin at the top-left corner. Callers must
// stay within 0 <= x < Width() and 0 <= y < Height(); implementations are not
// required to bounds-check.
type PixelBuffer interface {
	Width() int
	Height() int
	RGB(x, y int) (r, g, b uint8)
}

// RGBABuffer is a PixelBuffer over interleaved, non-premultiplied RGBA bytes.
//
// The layout matches a browser canvas ImageData: four bytes per pixel, rows
// packed without padding. The alpha byte is kept but never read by the
// analysis.
type RGBABuffer struct {
	width  int
	height int
	pix    []uint8
}

// NewRGBABuffer wraps raw RGBA bytes. The slice is not copied.
//
// Returns ErrInvalidBuffer if either dimension is not positive or if
// len(pix) != width*height*4.
func NewRGBABuffer(width, height int, pix []uint8) (*RGBABuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrInvalidBuffer, len(pix), width*height*4, width, height)
	}
	return &RGBABuffer{width: width, height: height, pix: pix}, nil
}

// FromImage converts a decoded image into an RGBABuffer.
//
// The conversion goes through imaging.Clone, which yields non-premultiplied
// NRGBA pixels with the origin moved to (0,0), so a photo decoded from any
// format (JPEG YCbCr, paletted PNG, 16-bit PNG) reads the same way.
func FromImage(img image.Image) *RGBABuffer {
	n := imaging.Clone(img)
	b := n.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := n.Pix
	if n.Stride != w*4 {
		pix = make([]uint8, w*h*4)
		for y := 0; y < h; y++ {
			copy(pix[y*w*4:(y+1)*w*4], n.Pix[y*n.Stride:y*n.Stride+w*4])
		}
	}
	return &RGBABuffer{width: w, height: h, pix: pix}
}

// Width returns the buffer width in pixels.
func (b *RGBABuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *RGBABuffer) Height() int { return b.height }

// RGB returns the color components at (x, y).
func (b *RGBABuffer) RGB(x, y int) (r, g, bl uint8) {
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2]
}
