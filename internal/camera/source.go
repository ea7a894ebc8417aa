// Package camera abstracts the frame producers feeding the pipeline. The
// device handle is exclusively owned by the active source; callbacks fire
// on the source's capture goroutine and must never block.
package camera

import (
	"errors"
	"sync"
	"time"

	"vision-scout/internal/frame"
)

// ErrUnavailable is a capture-level failure: the device could not be
// opened or stopped delivering. Fatal to the pipeline instance; the UI
// surfaces it with a retry action.
var ErrUnavailable = errors.New("camera: device unavailable")

// FrameFunc receives each captured frame. Implementations must return
// quickly; the pipeline's admission path is non-blocking by design.
type FrameFunc func(frame.RawFrame)

// Source is a camera stream.
type Source interface {
	// Start opens the device and begins delivering frames to fn.
	Start(fn FrameFunc) error
	// SetOnError registers a callback for a stream that dies after a
	// successful Start. It fires at most once per stream, on the capture
	// goroutine, and the stream is dead once it does; the consumer is
	// expected to Stop the source and surface the error. Must be set
	// before Start.
	SetOnError(fn func(error))
	// Orientation reports the sensor rotation in degrees (0/90/180/270).
	Orientation() int
	// Stop ends the stream and releases the device.
	Stop() error
}

// Playback replays a fixed set of frames at a configurable rate. Used by
// tests and the demo wiring; it satisfies Source exactly like the webcam.
type Playback struct {
	Frames      []frame.RawFrame
	Interval    time.Duration
	Loop        bool
	SensorOrien int
	// FailAfter, when positive, kills the stream with ErrUnavailable after
	// that many delivered frames. Lets tests exercise the mid-stream death
	// path without a real device.
	FailAfter int

	mu      sync.Mutex
	onError func(error)
	done    chan struct{}
	running bool
}

func (p *Playback) Start(fn FrameFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("camera: playback already started")
	}
	if len(p.Frames) == 0 {
		return ErrUnavailable
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}

	p.done = make(chan struct{})
	p.running = true
	done := p.done
	onError := p.onError
	failAfter := p.FailAfter

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i, delivered := 0, 0
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f := p.Frames[i]
				f.CapturedAt = time.Now()
				fn(f)
				delivered++
				if failAfter > 0 && delivered >= failAfter {
					if onError != nil {
						onError(ErrUnavailable)
					}
					return
				}
				i++
				if i == len(p.Frames) {
					if !p.Loop {
						return
					}
					i = 0
				}
			}
		}
	}()
	return nil
}

// SetOnError registers the stream-death callback. Call before Start.
func (p *Playback) SetOnError(fn func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

func (p *Playback) Orientation() int { return p.SensorOrien }

func (p *Playback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	close(p.done)
	p.running = false
	return nil
}
