package pipeline

import (
	"testing"
	"time"
)

func TestRateControllerExamples(t *testing.T) {
	tests := []struct {
		name       string
		processing time.Duration
		want       time.Duration
	}{
		{"fast round trip shrinks interval", 50 * time.Millisecond, 150 * time.Millisecond},
		{"slow round trip grows interval", 300 * time.Millisecond, 275 * time.Millisecond},
		{"at target holds steady", 150 * time.Millisecond, 200 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc := NewRateController() // starts at 200ms
			rc.Observe(tc.processing)
			if got := rc.Interval(); got != tc.want {
				t.Errorf("interval = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRateControllerFixedPoint(t *testing.T) {
	rc := NewRateController()
	rc.Observe(TargetRoundTrip)
	after := rc.Interval()
	for i := 0; i < 100; i++ {
		rc.Observe(TargetRoundTrip)
	}
	if got := rc.Interval(); got != after {
		t.Errorf("interval drifted from %v to %v at the target fixed point", after, got)
	}
}

func TestRateControllerBounds(t *testing.T) {
	// Property: any sequence of non-negative samples keeps the interval
	// within [MinInterval, MaxInterval].
	samples := []time.Duration{
		0,
		time.Millisecond,
		149 * time.Millisecond,
		151 * time.Millisecond,
		10 * time.Second,
		0,
		0,
		0,
		time.Hour,
	}

	rc := NewRateController()
	for _, s := range samples {
		rc.Observe(s)
		if got := rc.Interval(); got < MinInterval || got > MaxInterval {
			t.Fatalf("interval %v escaped [%v, %v] after sample %v", got, MinInterval, MaxInterval, s)
		}
	}
}

func TestRateControllerAdmission(t *testing.T) {
	rc := NewRateController()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if !rc.Admit(base) {
		t.Fatal("first frame must be admitted")
	}
	if rc.Admit(base.Add(50 * time.Millisecond)) {
		t.Error("frame inside the interval was admitted")
	}
	if !rc.Admit(base.Add(DefaultInterval)) {
		t.Error("frame at exactly the interval boundary was rejected")
	}
	// The rejected frame must not have reset the timer.
	if rc.Admit(base.Add(DefaultInterval + 10*time.Millisecond)) {
		t.Error("admission timer was advanced by a rejected frame")
	}
}

func TestRateControllerReset(t *testing.T) {
	rc := NewRateController()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rc.Admit(base)
	rc.Observe(10 * time.Second)

	rc.Reset()
	if got := rc.Interval(); got != DefaultInterval {
		t.Errorf("interval after reset = %v, want %v", got, DefaultInterval)
	}
	if !rc.Admit(base.Add(time.Millisecond)) {
		t.Error("first frame after reset must be admitted")
	}
}
