// Package imaging provides photo loading, pixel access and color sampling for
// test card analysis.
//
// Photos are decoded with disintegration/imaging and exposed to the analysis
// through the read-only PixelBuffer interface. Color is measured with a
// Sampler over a disc of pixels and reported as a ColorSample.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, the minimum corner is inclusive and the maximum exclusive
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. PixelBuffer implementations are
// read-only, so any number of analyses may share one.
//
// # Color Representation
//
// ColorSample keeps mean components on the 0-255 scale as float64. Hex, HSL
// and perceptual distances are derived with go-colorful.
package imaging
