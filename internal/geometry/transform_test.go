package geometry

import (
	"math"
	"testing"
)

func TestFitTransformLetterbox(t *testing.T) {
	tests := []struct {
		name                      string
		imageW, imageH            float64
		displayW, displayH        float64
		wantScale, wantOX, wantOY float64
	}{
		{"same size", 640, 480, 640, 480, 1, 0, 0},
		{"uniform upscale", 320, 240, 640, 480, 2, 0, 0},
		{"letterbox wide display", 640, 480, 1280, 480, 1, 320, 0},
		{"pillarbox tall display", 640, 480, 640, 960, 1, 0, 240},
		{"downscale", 1920, 1080, 640, 480, 640.0 / 1920.0, 0, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewFitTransform(tc.imageW, tc.imageH, tc.displayW, tc.displayH)
			if math.Abs(tr.Scale-tc.wantScale) > 1e-9 {
				t.Errorf("scale = %v, want %v", tr.Scale, tc.wantScale)
			}
			if math.Abs(tr.OffsetX-tc.wantOX) > 1e-9 {
				t.Errorf("offsetX = %v, want %v", tr.OffsetX, tc.wantOX)
			}
			if math.Abs(tr.OffsetY-tc.wantOY) > 1e-9 {
				t.Errorf("offsetY = %v, want %v", tr.OffsetY, tc.wantOY)
			}
		})
	}
}

func TestFitTransformRoundTrip(t *testing.T) {
	// Equal aspect ratio: mapping image->display->image must return the
	// original point within floating-point epsilon.
	tr := NewFitTransform(640, 480, 1280, 960)

	points := []Point{
		{0, 0},
		{640, 480},
		{320, 240},
		{13.5, 77.25},
	}
	for _, p := range points {
		got := tr.Invert(tr.Apply(p))
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
}

func TestFitTransformDegenerate(t *testing.T) {
	tr := NewFitTransform(0, 0, 640, 480)
	if tr.Scale != 1 || tr.OffsetX != 0 || tr.OffsetY != 0 {
		t.Errorf("degenerate input should yield identity, got %+v", tr)
	}
}

func TestRectContainsMargin(t *testing.T) {
	r := Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}

	if !r.Contains(Point{15, 15}, 0) {
		t.Error("interior point not contained")
	}
	if r.Contains(Point{25, 15}, 0) {
		t.Error("exterior point contained without margin")
	}
	if !r.Contains(Point{24, 15}, 5) {
		t.Error("near point not contained with margin 5")
	}
}

func TestRectValid(t *testing.T) {
	if !(Rect{0, 0, 10, 10}).Valid() {
		t.Error("well-formed rect reported invalid")
	}
	if (Rect{10, 0, 0, 10}).Valid() {
		t.Error("inverted rect reported valid")
	}
}
