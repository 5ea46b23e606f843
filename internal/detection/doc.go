// Package detection locates the three square fiducial markers printed on a
// test card.
//
// A photo is first reduced to a BinaryGrid by Binarize. Scanner then reads the
// grid row by row with a five-state run-length automaton (RunState) looking
// for the 1:1:3:1:1 black-white-black-white-black signature of a finder
// pattern. Each horizontal hit is confirmed by walking the center column up
// and down, and its vertical position is refined from the two walk lengths.
// Hits closer than the dedup distance to an accepted pattern are dropped.
//
// Arrange then names the three accepted patterns bottom-left, top-left and
// top-right from the lengths of the triangle they form.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Limitations
//
// The scanner expects markers roughly aligned with the photo axes. Strong
// rotation or perspective skew breaks the horizontal run ratios, and such
// photos yield fewer or more than three patterns.
package detection
