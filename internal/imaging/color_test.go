package imaging

import (
	"testing"
)

func TestColorSample_Hex(t *testing.T) {
	tests := []struct {
		name    string
		sample  ColorSample
		wantHex string
		wantHue int // approximate
	}{
		{"pure red", ColorSample{R: 255}, "#ff0000", 0},
		{"pure green", ColorSample{G: 255}, "#00ff00", 120},
		{"pure blue", ColorSample{B: 255}, "#0000ff", 240},
		{"white", ColorSample{R: 255, G: 255, B: 255}, "#ffffff", 0},
		{"black", ColorSample{}, "#000000", 0},
		{"swatch pink", ColorSample{R: 255, G: 185, B: 160}, "#ffb9a0", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.Hex(); got != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", got, tt.wantHex)
			}
			if h := tt.sample.HSL().H; h < tt.wantHue-2 || h > tt.wantHue+2 {
				t.Errorf("Hue: got %d, want about %d", h, tt.wantHue)
			}
		})
	}
}

func TestColorSample_HSLLightness(t *testing.T) {
	if l := (ColorSample{R: 255, G: 255, B: 255}).HSL().L; l != 100 {
		t.Errorf("white lightness: got %d, want 100", l)
	}
	if l := (ColorSample{}).HSL().L; l != 0 {
		t.Errorf("black lightness: got %d, want 0", l)
	}
	if s := (ColorSample{R: 128, G: 128, B: 128}).HSL().S; s != 0 {
		t.Errorf("gray saturation: got %d, want 0", s)
	}
}

func TestColorSample_Nearest(t *testing.T) {
	refs := []ColorSample{
		{R: 255, G: 185, B: 160},
		{R: 255, G: 213, B: 165},
		{R: 255, G: 255, B: 175},
	}

	tests := []struct {
		name   string
		sample ColorSample
		want   int
	}{
		{"exact first", refs[0], 0},
		{"near middle", ColorSample{R: 254, G: 210, B: 166}, 1},
		{"near last", ColorSample{R: 250, G: 252, B: 180}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.Nearest(refs); got != tt.want {
				t.Errorf("Nearest: got %d, want %d", got, tt.want)
			}
		})
	}

	if got := (ColorSample{}).Nearest(nil); got != -1 {
		t.Errorf("Nearest(nil): got %d, want -1", got)
	}
}

func TestColorSample_DistanceCIEDE2000(t *testing.T) {
	a := ColorSample{R: 255, G: 199, B: 165}
	if d := a.DistanceCIEDE2000(a); d > 1e-9 {
		t.Errorf("self distance: got %f, want 0", d)
	}
	near := ColorSample{R: 255, G: 201, B: 165}
	far := ColorSample{R: 0, G: 0, B: 255}
	if a.DistanceCIEDE2000(near) >= a.DistanceCIEDE2000(far) {
		t.Error("a nearby color should be closer than a distant one")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(ColorSample{R: 255, G: 227, B: 170, Pixels: 12})
	if s.Hex != "#ffe3aa" {
		t.Errorf("Hex: got %s, want #ffe3aa", s.Hex)
	}
	if s.RGB.Pixels != 12 {
		t.Errorf("Pixels: got %d, want 12", s.RGB.Pixels)
	}
}
