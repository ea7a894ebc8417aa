package overlay

import (
	"testing"

	"vision-scout/internal/inference"
)

func detectionResult(confidences ...float64) inference.Result {
	res := inference.Result{
		Status:    "success",
		Mode:      inference.ModeDetect,
		ImageMeta: inference.ImageMetadata{Width: 100, Height: 100},
	}
	classes := []string{"person", "dog", "car"}
	for i, c := range confidences {
		res.Detections = append(res.Detections, inference.Detection{
			ClassName:  classes[i%len(classes)],
			Confidence: c,
			BBox:       []float64{0, 0, 10, 10},
		})
	}
	res.Count = len(res.Detections)
	return res
}

func TestFilterMonotonicity(t *testing.T) {
	s := NewState()
	s.ApplyResult(detectionResult(0.1, 0.3, 0.5, 0.7, 0.9))

	prev := len(s.Visible())
	for _, floor := range []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0} {
		s.SetMinConfidence(floor)
		cur := len(s.Visible())
		if floor > 0 && cur > prev {
			t.Fatalf("raising floor to %v increased visible count %d -> %d", floor, prev, cur)
		}
		prev = cur
	}
}

func TestClassFilter(t *testing.T) {
	s := NewState()
	s.SetMinConfidence(0)
	s.ApplyResult(detectionResult(0.9, 0.9, 0.9)) // person, dog, car

	if got := len(s.Visible()); got != 3 {
		t.Fatalf("empty filter should pass everything, got %d", got)
	}

	s.AllowClass("dog")
	if got := len(s.Visible()); got != 1 {
		t.Errorf("dog-only filter: visible = %d, want 1", got)
	}

	s.AllowClass("person")
	if got := len(s.Visible()); got != 2 {
		t.Errorf("dog+person filter: visible = %d, want 2", got)
	}

	s.DisallowClass("dog")
	s.DisallowClass("person")
	if got := len(s.Visible()); got != 3 {
		t.Errorf("emptied filter should pass everything again, got %d", got)
	}
}

func TestInvalidDetectionNeverVisible(t *testing.T) {
	s := NewState()
	s.SetMinConfidence(0)
	res := inference.Result{
		Mode:      inference.ModeDetect,
		ImageMeta: inference.ImageMetadata{Width: 100, Height: 100},
		Detections: []inference.Detection{
			{ClassName: "ok", Confidence: 0.9, BBox: []float64{0, 0, 10, 10}},
			{ClassName: "inverted", Confidence: 0.9, BBox: []float64{10, 10, 0, 0}},
		},
	}
	s.ApplyResult(res)

	vis := s.Visible()
	if len(vis) != 1 {
		t.Fatalf("visible = %d, want 1 (invalid bbox skipped)", len(vis))
	}
	if s.Items()[vis[0]].Class() != "ok" {
		t.Error("wrong item survived the validity filter")
	}
}

func TestToggleSelect(t *testing.T) {
	s := NewState()
	s.ApplyResult(detectionResult(0.9, 0.9))

	s.ToggleSelect(1)
	if i, ok := s.Selected(); !ok || i != 1 {
		t.Fatalf("Selected() = %d,%v after first toggle", i, ok)
	}

	s.ToggleSelect(1)
	if _, ok := s.Selected(); ok {
		t.Error("second toggle of the same index must clear the selection")
	}

	s.ToggleSelect(0)
	s.ToggleSelect(1)
	if i, ok := s.Selected(); !ok || i != 1 {
		t.Errorf("re-selecting a different index: Selected() = %d,%v", i, ok)
	}
}

func TestSelectionSurvivesCompatibleResult(t *testing.T) {
	s := NewState()
	s.ApplyResult(detectionResult(0.9, 0.9, 0.9))
	s.ToggleSelect(2)

	s.ApplyResult(detectionResult(0.9, 0.9, 0.9))
	if i, ok := s.Selected(); !ok || i != 2 {
		t.Errorf("selection lost across same-size result: %d,%v", i, ok)
	}

	s.ApplyResult(detectionResult(0.9))
	if _, ok := s.Selected(); ok {
		t.Error("selection should clear when its index no longer exists")
	}
}

func TestClamping(t *testing.T) {
	s := NewState()

	s.SetMinConfidence(1.5)
	if s.MinConfidence() != 1 {
		t.Errorf("confidence not clamped high: %v", s.MinConfidence())
	}
	s.SetMinConfidence(-0.5)
	if s.MinConfidence() != 0 {
		t.Errorf("confidence not clamped low: %v", s.MinConfidence())
	}

	s.SetOpacity(2)
	if s.Opacity() != 1 {
		t.Errorf("opacity not clamped high: %v", s.Opacity())
	}
	s.SetOpacity(-1)
	if s.Opacity() != 0 {
		t.Errorf("opacity not clamped low: %v", s.Opacity())
	}
}

func TestSummary(t *testing.T) {
	s := NewState()
	s.SetMinConfidence(0)
	s.ApplyResult(detectionResult(0.9, 0.9, 0.9, 0.9)) // person, dog, car, person

	if got := s.Summary(); got != "1 car, 1 dog, 2 person" {
		t.Errorf("Summary() = %q", got)
	}

	s.SetMinConfidence(1)
	if got := s.Summary(); got != "no objects" {
		t.Errorf("Summary() with nothing visible = %q", got)
	}
}

func TestAllowedClassesSorted(t *testing.T) {
	s := NewState()
	s.AllowClass("zebra")
	s.AllowClass("apple")
	got := s.AllowedClasses()
	if len(got) != 2 || got[0] != "apple" || got[1] != "zebra" {
		t.Errorf("AllowedClasses() = %v", got)
	}
}
