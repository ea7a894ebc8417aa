package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"fyne.io/fyne/v2"

	"vision-scout/internal/geometry"
	"vision-scout/internal/inference"
	"vision-scout/internal/overlay"
	"vision-scout/internal/pipeline"
)

// wireHandlers connects the control panel, the tap handler, and the
// stream lifecycle. Every callback here runs on the UI thread.
func (a *Application) wireHandlers() {
	controls := a.view.Controls()

	controls.SetStartHandler(a.startDetection)
	controls.SetStopHandler(a.stopDetection)

	controls.SetModeHandler(func(segmentation bool) {
		mode := inference.ModeDetect
		if segmentation {
			mode = inference.ModeSegment
		}
		a.updateOptions(func(o *inference.Options) { o.Mode = mode })
	})

	controls.SetConfidenceHandler(func(v float64) {
		a.state.SetMinConfidence(v)
		a.updateOptions(func(o *inference.Options) { o.MinConfidence = a.state.MinConfidence() })
		a.repaint()
	})

	controls.SetClassFilterHandler(func(classes []string) {
		a.state.ClearClassFilter()
		for _, c := range classes {
			a.state.AllowClass(c)
		}
		a.updateOptions(func(o *inference.Options) { o.Classes = a.state.AllowedClasses() })
		a.repaint()
	})

	controls.SetShowLabelsHandler(func(v bool) {
		a.state.SetShowLabels(v)
		a.repaint()
	})

	controls.SetOpacityHandler(func(v float64) {
		a.state.SetOpacity(v)
		a.repaint()
	})

	controls.SetFillStyleHandler(func(v bool) {
		a.state.SetFill(v)
		a.repaint()
	})

	a.view.LiveView().SetTapHandler(a.onTap)
	a.source.SetOnError(a.onCaptureError)
}

// onCaptureError fires on the capture goroutine when a live stream dies
// mid-flight. The stream is already dead; tear the pipeline down and offer
// the same retry as a failed start.
func (a *Application) onCaptureError(err error) {
	a.log.Error(component, err, nil)
	fyne.Do(func() {
		if !a.streaming.Load() {
			return
		}
		a.stopDetection()
		a.view.Status().SetStatus("Camera lost")
		a.view.ShowError(err, a.startDetection)
	})
}

// updateOptions publishes a new request-options snapshot for the worker.
func (a *Application) updateOptions(mutate func(*inference.Options)) {
	next := *a.opts.Load()
	mutate(&next)
	a.opts.Store(&next)
}

// startDetection probes the service off the UI thread, then opens the
// camera and starts the pipeline. Capture errors are fatal to this
// attempt and surfaced with a retry action.
func (a *Application) startDetection() {
	a.view.Status().SetStatus("Connecting...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := a.client.Health(ctx)

		fyne.Do(func() {
			if err != nil {
				a.view.Status().SetStatus("Service unreachable")
				a.view.ShowError(err, a.startDetection)
				return
			}
			a.openCamera()
		})
	}()
}

func (a *Application) openCamera() {
	a.pipe.Start()
	if err := a.source.Start(a.pipe.OnFrame); err != nil {
		a.pipe.Stop()
		a.view.Status().SetStatus("Camera unavailable")
		a.view.ShowError(err, a.startDetection)
		return
	}

	a.streaming.Store(true)
	a.view.Controls().SetStreaming(true)
	a.view.Status().SetStatus("Streaming")
}

// stopDetection tears the stream down synchronously: camera first so no
// new frames arrive, then the pipeline. A worker may still be in flight;
// its late result is discarded by the pipeline's liveness check.
func (a *Application) stopDetection() {
	a.streaming.Store(false)
	_ = a.source.Stop()
	a.pipe.Stop()

	a.state.Clear()
	a.repaint()
	a.view.Controls().SetStreaming(false)
	a.view.Status().SetStatus("Stopped")
	a.view.Status().SetSelection("")
}

// onOutcome receives a completed round trip on a worker goroutine and
// hops to the UI thread to apply it.
func (a *Application) onOutcome(o pipeline.Outcome) {
	a.lastInfMS.Store(int64(o.Result.InferenceTimeMS))
	fyne.Do(func() {
		if !a.streaming.Load() {
			return
		}
		a.state.ApplyResult(o.Result)
		a.view.SetPreview(o.Preview)
		a.repaint()
		a.view.Status().SetStatus(a.state.Summary())
	})
}

// repaint rebuilds the overlay bitmap at the live view's current size.
func (a *Application) repaint() {
	w, h := a.view.LiveView().DisplaySize()
	if w <= 0 || h <= 0 {
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	overlay.Paint(dst, a.state, w, h)
	a.view.SetOverlay(dst)
}

// onTap resolves a tap against the current overlay, toggles the
// selection, and describes it in the status bar. Tapping the selected
// result again clears the selection.
func (a *Application) onTap(pos fyne.Position, size fyne.Size) {
	w, h := int(size.Width), int(size.Height)
	tap := geometry.Point{X: float64(pos.X), Y: float64(pos.Y)}

	idx, ok := overlay.HitTest(a.state, tap, w, h)
	if !ok {
		a.state.ToggleSelect(-1)
		a.view.Status().SetSelection("")
		a.repaint()
		return
	}

	a.state.ToggleSelect(idx)
	if _, selected := a.state.Selected(); !selected {
		a.view.Status().SetSelection("")
		a.repaint()
		return
	}

	item := a.state.Items()[idx]
	text := fmt.Sprintf("%s %.0f%%", item.Class(), item.Confidence()*100)
	if area, ok := overlay.SelectedArea(a.state, w, h); ok && a.state.Mode() == inference.ModeSegment {
		text = fmt.Sprintf("%s | area %.0f px", text, area)
	}
	a.view.Status().SetSelection(text)
	a.repaint()
}
