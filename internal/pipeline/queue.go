package pipeline

import (
	"sync/atomic"
	"time"

	"vision-scout/internal/frame"
)

// DefaultMaxQueueAge is how long a queued frame stays worth processing.
// Older frames describe a scene the camera has already moved past.
const DefaultMaxQueueAge = 100 * time.Millisecond

// pendingFrame is the queue's single slot payload.
type pendingFrame struct {
	frame      frame.RawFrame
	enqueuedAt time.Time
}

// AdmissionQueue is a capacity-1 buffer between the camera callback and
// the conversion worker, with drop-oldest backpressure: enqueueing over an
// occupied slot discards the older frame, because the newest frame is
// always the one worth processing.
//
// The slot is the one structure touched from two call sites (camera
// callback as producer, worker completion as consumer), so it is an atomic
// pointer swap rather than a lock: neither side can lose an update to the
// other.
type AdmissionQueue struct {
	slot    atomic.Pointer[pendingFrame]
	dropped atomic.Uint64
}

// NewAdmissionQueue returns an empty queue.
func NewAdmissionQueue() *AdmissionQueue {
	return &AdmissionQueue{}
}

// TryEnqueue stores the frame, replacing and counting any frame already
// queued. Never blocks.
func (q *AdmissionQueue) TryEnqueue(f frame.RawFrame, now time.Time) {
	old := q.slot.Swap(&pendingFrame{frame: f, enqueuedAt: now})
	if old != nil {
		q.dropped.Add(1)
	}
}

// TakeIfFresh removes and returns the queued frame and its enqueue time if
// the frame is younger than maxAge. The enqueue time is the frame's
// admission instant, so round-trip measurement starts there, queue wait
// included. A stale frame is discarded and counted as a drop; that is an
// expected backpressure outcome, not a failure.
func (q *AdmissionQueue) TakeIfFresh(now time.Time, maxAge time.Duration) (frame.RawFrame, time.Time, bool) {
	if maxAge <= 0 {
		maxAge = DefaultMaxQueueAge
	}
	p := q.slot.Swap(nil)
	if p == nil {
		return frame.RawFrame{}, time.Time{}, false
	}
	if now.Sub(p.enqueuedAt) >= maxAge {
		q.dropped.Add(1)
		return frame.RawFrame{}, time.Time{}, false
	}
	return p.frame, p.enqueuedAt, true
}

// Dropped returns the monotonically increasing drop count.
func (q *AdmissionQueue) Dropped() uint64 { return q.dropped.Load() }

// Reset clears the slot and the drop counter. Called on pipeline teardown.
func (q *AdmissionQueue) Reset() {
	q.slot.Store(nil)
	q.dropped.Store(0)
}
