package camera

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"vision-scout/internal/frame"
	"vision-scout/internal/logger"
)

const component = "camera"

// Webcam captures from a local video device through OpenCV and delivers
// packed BGRA frames. Desktop webcams deliver upright pixels, so the
// sensor orientation is always 0 and the converter's packed fast path
// applies.
type Webcam struct {
	deviceID int
	log      logger.Logger

	mu      sync.Mutex
	onError func(error)
	capture *gocv.VideoCapture
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWebcam builds a source for the given device index (0 is the default
// camera).
func NewWebcam(deviceID int, log logger.Logger) *Webcam {
	if log == nil {
		log = logger.Nop{}
	}
	return &Webcam{deviceID: deviceID, log: log}
}

func (w *Webcam) Orientation() int { return 0 }

// SetOnError registers the stream-death callback. Call before Start; the
// loop captures it once so it never races Stop's lock.
func (w *Webcam) SetOnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Start opens the device and runs the capture loop on its own goroutine.
func (w *Webcam) Start(fn FrameFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture != nil {
		return fmt.Errorf("camera: device %d already streaming", w.deviceID)
	}

	capture, err := gocv.OpenVideoCapture(w.deviceID)
	if err != nil {
		return fmt.Errorf("%w: device %d: %v", ErrUnavailable, w.deviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w: device %d did not open", ErrUnavailable, w.deviceID)
	}

	w.capture = capture
	w.done = make(chan struct{})
	w.log.Info(component, "capture started", map[string]interface{}{
		"device": w.deviceID,
	})

	w.wg.Add(1)
	go w.loop(capture, w.done, fn, w.onError)
	return nil
}

// loop reads frames until stopped, converting each BGR mat to a packed
// BGRA buffer the converter can reinterpret without further OpenCV calls.
// A device that stops answering is reported through onError; the consumer
// owns the subsequent Stop.
func (w *Webcam) loop(capture *gocv.VideoCapture, done chan struct{}, fn FrameFunc, onError func(error)) {
	defer w.wg.Done()

	bgr := gocv.NewMat()
	defer bgr.Close()
	bgra := gocv.NewMat()
	defer bgra.Close()

	misses := 0
	for {
		select {
		case <-done:
			return
		default:
		}

		if ok := capture.Read(&bgr); !ok || bgr.Empty() {
			misses++
			if misses >= 30 {
				w.log.Error(component, ErrUnavailable, map[string]interface{}{
					"device": w.deviceID,
					"misses": misses,
				})
				if onError != nil {
					onError(fmt.Errorf("%w: device %d stopped delivering", ErrUnavailable, w.deviceID))
				}
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		misses = 0

		gocv.CvtColor(bgr, &bgra, gocv.ColorBGRToBGRA)
		data := bgra.ToBytes()
		cols, rows := bgra.Cols(), bgra.Rows()

		fn(frame.RawFrame{
			Format: frame.FormatBGRA,
			Planes: []frame.Plane{{
				Data:        data,
				RowStride:   cols * 4,
				PixelStride: 4,
			}},
			Width:      cols,
			Height:     rows,
			CapturedAt: time.Now(),
		})
	}
}

// Stop ends the capture loop and releases the device handle.
func (w *Webcam) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture == nil {
		return nil
	}

	close(w.done)
	w.wg.Wait()

	err := w.capture.Close()
	w.capture = nil
	w.log.Info(component, "capture stopped", map[string]interface{}{
		"device": w.deviceID,
	})
	if err != nil {
		return fmt.Errorf("camera: close device %d: %w", w.deviceID, err)
	}
	return nil
}
