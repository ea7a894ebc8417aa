package pipeline

import (
	"sync"
	"time"
)

// Interval bounds keep the effective capture rate between 2 and 10
// frames/sec regardless of what the control law asks for.
const (
	MinInterval     = 100 * time.Millisecond
	MaxInterval     = 500 * time.Millisecond
	DefaultInterval = 200 * time.Millisecond

	// TargetRoundTrip is the latency the controller converges toward.
	TargetRoundTrip = 150 * time.Millisecond
)

// RateController adjusts the minimum inter-frame admission interval to
// hold round-trip latency near TargetRoundTrip. After each completed round
// trip, the interval moves half the distance between the observed time and
// the target, so the loop converges without oscillating to the bounds on
// every sample.
type RateController struct {
	mu           sync.Mutex
	interval     time.Duration
	lastAdmitted time.Time
}

// NewRateController starts at DefaultInterval with no frame admitted yet.
func NewRateController() *RateController {
	return &RateController{interval: DefaultInterval}
}

// Admit reports whether a frame arriving at now may enter the pipeline,
// and records the admission when it may. The first frame is always
// admitted.
func (rc *RateController) Admit(now time.Time) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if !rc.lastAdmitted.IsZero() && now.Sub(rc.lastAdmitted) < rc.interval {
		return false
	}
	rc.lastAdmitted = now
	return true
}

// Observe feeds one completed round trip's processing time back into the
// control law and clamps the result to [MinInterval, MaxInterval].
func (rc *RateController) Observe(processingTime time.Duration) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.interval += (processingTime - TargetRoundTrip) / 2
	if rc.interval < MinInterval {
		rc.interval = MinInterval
	}
	if rc.interval > MaxInterval {
		rc.interval = MaxInterval
	}
}

// Interval returns the current admission interval.
func (rc *RateController) Interval() time.Duration {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.interval
}

// Reset restores the initial interval and forgets the last admission.
// Called on pipeline teardown.
func (rc *RateController) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.interval = DefaultInterval
	rc.lastAdmitted = time.Time{}
}
