package imaging

import (
	"errors"
	"fmt"
)

// ErrEmptyRegion is returned when a sampling disc contains no pixels, for
// example a zero radius or a center far outside the image.
var ErrEmptyRegion = errors.New("sampling region contains no pixels")

// Sampler measures the color of a disc around a center point.
//
// DiscSampler is the plain mean. A sampler that rejects outliers can be
// substituted without changing callers.
type Sampler interface {
	Sample(buf PixelBuffer, center Point, radius int) (ColorSample, error)
}

// DiscSampler averages every pixel strictly closer than radius to the center.
type DiscSampler struct{}

// Sample returns the mean R, G, B over the disc.
//
// Candidate pixels are those in the square [cx-r, cx+r) x [cy-r, cy+r) clipped
// to the buffer; of these, pixels whose distance to the center is strictly
// less than r are kept. Returns ErrEmptyRegion when none are kept.
func (DiscSampler) Sample(buf PixelBuffer, center Point, radius int) (ColorSample, error) {
	x0 := max(0, center.X-radius)
	x1 := min(buf.Width(), center.X+radius)
	y0 := max(0, center.Y-radius)
	y1 := min(buf.Height(), center.Y+radius)

	var sumR, sumG, sumB float64
	n := 0
	r2 := radius * radius
	for x := x0; x < x1; x++ {
		dx := x - center.X
		for y := y0; y < y1; y++ {
			dy := y - center.Y
			if dx*dx+dy*dy >= r2 {
				continue
			}
			r, g, b := buf.RGB(x, y)
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(b)
			n++
		}
	}

	if n == 0 {
		return ColorSample{}, fmt.Errorf("%w: center (%d,%d) radius %d", ErrEmptyRegion, center.X, center.Y, radius)
	}

	return ColorSample{
		R:      sumR / float64(n),
		G:      sumG / float64(n),
		B:      sumB / float64(n),
		Pixels: n,
	}, nil
}

// SampleAll samples each center with the same radius, in order.
// On error no partial results are returned.
func SampleAll(s Sampler, buf PixelBuffer, centers []Point, radius int) ([]ColorSample, error) {
	out := make([]ColorSample, 0, len(centers))
	for i, c := range centers {
		cs, err := s.Sample(buf, c, radius)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		out = append(out, cs)
	}
	return out, nil
}
