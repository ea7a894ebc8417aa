// Package pipeline connects the camera to the inference service: it gates
// frame admission under a latency budget, converts and encodes admitted
// frames off the UI thread, and feeds round-trip measurements back into
// the rate controller.
package pipeline

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vision-scout/internal/convert"
	"vision-scout/internal/encode"
	"vision-scout/internal/frame"
	"vision-scout/internal/inference"
	"vision-scout/internal/logger"
)

const component = "pipeline"

// Inferencer is the remote service seen by the pipeline. *inference.Client
// implements it; tests substitute a stub.
type Inferencer interface {
	Analyze(ctx context.Context, enc frame.EncodedFrame, opts inference.Options) (inference.Result, error)
}

// Outcome is one successful round trip, delivered to the result sink on a
// worker goroutine. The preview bitmap is the converted frame the result
// geometry refers to.
type Outcome struct {
	FrameID   string
	Result    inference.Result
	Preview   *image.NRGBA
	RoundTrip time.Duration
}

// Config assembles a Pipeline. Client is required; everything else has a
// usable zero value.
type Config struct {
	Client      Inferencer
	Encoder     encode.Encoder
	MaxQueueAge time.Duration
	Log         logger.Logger

	// Options is sampled once per round trip so user-adjusted filters take
	// effect on the next submitted frame.
	Options func() inference.Options

	// OnOutcome receives each applied result. Runs on a worker goroutine;
	// UI consumers are expected to hop to their own thread.
	OnOutcome func(Outcome)
}

// Stats is a point-in-time snapshot for diagnostics and the status bar.
type Stats struct {
	Interval      time.Duration
	Dropped       uint64
	Processed     uint64
	LastRoundTrip time.Duration
}

// Pipeline owns the per-frame hot path. The camera callback (OnFrame)
// never blocks: a frame is either dispatched to a worker, queued in the
// single admission slot, or rejected by the rate controller. At most one
// convert+encode+infer unit is in flight at a time.
type Pipeline struct {
	cfg   Config
	rate  *RateController
	queue *AdmissionQueue

	active atomic.Bool
	busy   atomic.Bool
	// generation distinguishes sessions: a result from before a Stop must
	// not apply after a quick restart, even while the liveness flag is
	// true again.
	generation atomic.Uint64
	wg         sync.WaitGroup

	processed     atomic.Uint64
	convertDrops  atomic.Uint64
	lastRoundTrip atomic.Int64
}

// New builds a stopped pipeline; call Start before feeding frames.
func New(cfg Config) *Pipeline {
	if cfg.Log == nil {
		cfg.Log = logger.Nop{}
	}
	if cfg.MaxQueueAge <= 0 {
		cfg.MaxQueueAge = DefaultMaxQueueAge
	}
	if cfg.Options == nil {
		cfg.Options = func() inference.Options {
			return inference.Options{Mode: inference.ModeDetect, MinConfidence: 0.5}
		}
	}
	return &Pipeline{
		cfg:   cfg,
		rate:  NewRateController(),
		queue: NewAdmissionQueue(),
	}
}

// Start marks the pipeline live and opens a new session.
func (p *Pipeline) Start() {
	p.generation.Add(1)
	p.active.Store(true)
	p.cfg.Log.Info(component, "pipeline started", map[string]interface{}{
		"interval_ms":      p.rate.Interval().Milliseconds(),
		"max_queue_age_ms": p.cfg.MaxQueueAge.Milliseconds(),
	})
}

// Stop tears the pipeline down synchronously: no further frames are
// admitted, the queue slot and all counters reset. Work already dispatched
// cannot be cancelled mid-flight; its late result is discarded by the
// liveness check in process.
func (p *Pipeline) Stop() {
	p.active.Store(false)
	p.queue.Reset()
	p.rate.Reset()
	p.processed.Store(0)
	p.convertDrops.Store(0)
	p.lastRoundTrip.Store(0)
	p.cfg.Log.Info(component, "pipeline stopped", nil)
}

// Wait blocks until in-flight work has drained. Call after Stop when a
// clean handoff matters (tests, application shutdown).
func (p *Pipeline) Wait() { p.wg.Wait() }

// OnFrame is the camera callback. Never blocks.
func (p *Pipeline) OnFrame(f frame.RawFrame) {
	if !p.active.Load() {
		return
	}
	now := time.Now()
	if !p.rate.Admit(now) {
		return
	}

	if p.busy.CompareAndSwap(false, true) {
		p.dispatch(f, now)
		return
	}

	p.queue.TryEnqueue(f, now)
	p.cfg.Log.Debug(component, "frame queued", map[string]interface{}{
		"dropped_total": p.queue.Dropped(),
	})
}

// dispatch runs one worker goroutine that processes the admitted frame and
// then drains the admission slot until it comes up empty or stale.
func (p *Pipeline) dispatch(f frame.RawFrame, admittedAt time.Time) {
	gen := p.generation.Load()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		cur, startedAt := f, admittedAt
		for {
			p.process(cur, startedAt, gen)

			// Round-trip time is measured from admission, so a drained
			// frame keeps its enqueue instant: the queue wait is part of
			// the latency the rate controller steers on.
			next, enqueuedAt, ok := p.queue.TakeIfFresh(time.Now(), p.cfg.MaxQueueAge)
			if !ok {
				p.busy.Store(false)
				return
			}
			cur, startedAt = next, enqueuedAt
		}
	}()
}

// process converts, encodes and submits one frame, then applies the result
// if the pipeline is still live in the same session it was dispatched in.
// Every failure class here is local to this frame.
func (p *Pipeline) process(f frame.RawFrame, startedAt time.Time, gen uint64) {
	id := uuid.NewString()

	img, err := convert.Convert(f)
	if err != nil {
		p.convertDrops.Add(1)
		p.cfg.Log.Warning(component, "conversion failed", map[string]interface{}{
			"frame_id":      id,
			"error":         err.Error(),
			"dropped_total": p.dropped(),
		})
		return
	}

	enc, err := p.cfg.Encoder.Encode(img, f.CapturedAt)
	if err != nil {
		p.convertDrops.Add(1)
		p.cfg.Log.Warning(component, "encode failed", map[string]interface{}{
			"frame_id":      id,
			"error":         err.Error(),
			"dropped_total": p.dropped(),
		})
		return
	}

	result, err := p.cfg.Client.Analyze(context.Background(), enc, p.cfg.Options())
	roundTrip := time.Since(startedAt)

	if !p.active.Load() || gen != p.generation.Load() {
		p.cfg.Log.Debug(component, "discarding late result", map[string]interface{}{
			"frame_id": id,
		})
		return
	}

	p.rate.Observe(roundTrip)

	if err != nil {
		// Overlay state is left untouched: a momentary blip must not flash
		// an empty overlay.
		p.cfg.Log.Warning(component, "round trip failed", map[string]interface{}{
			"frame_id":      id,
			"error":         err.Error(),
			"round_trip_ms": roundTrip.Milliseconds(),
		})
		return
	}

	p.processed.Add(1)
	p.lastRoundTrip.Store(int64(roundTrip))
	p.cfg.Log.Debug(component, "result applied", map[string]interface{}{
		"frame_id":          id,
		"count":             result.Count,
		"round_trip_ms":     roundTrip.Milliseconds(),
		"inference_time_ms": result.InferenceTimeMS,
		"interval_ms":       p.rate.Interval().Milliseconds(),
	})

	if p.cfg.OnOutcome != nil {
		p.cfg.OnOutcome(Outcome{
			FrameID:   id,
			Result:    result,
			Preview:   img,
			RoundTrip: roundTrip,
		})
	}
}

func (p *Pipeline) dropped() uint64 {
	return p.queue.Dropped() + p.convertDrops.Load()
}

// Stats snapshots the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Interval:      p.rate.Interval(),
		Dropped:       p.dropped(),
		Processed:     p.processed.Load(),
		LastRoundTrip: time.Duration(p.lastRoundTrip.Load()),
	}
}
