// Package app wires the camera, pipeline, inference client, overlay state
// and views into the running application.
package app

import (
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"vision-scout/internal/camera"
	"vision-scout/internal/encode"
	"vision-scout/internal/inference"
	"vision-scout/internal/logger"
	"vision-scout/internal/overlay"
	"vision-scout/internal/pipeline"
	"vision-scout/internal/views"
)

const (
	AppName = "Vision Scout"
	AppID   = "com.visionscout.client"
)

const component = "app"

// Config is the launch configuration resolved from flags.
type Config struct {
	ServiceURL     string
	DeviceID       int
	JPEGQuality    int
	RequestTimeout time.Duration
}

// Application owns the UI-thread state. Overlay state is mutated only
// inside fyne.Do closures and control callbacks, so it needs no lock; the
// request options snapshot crosses into worker goroutines and is kept in
// an atomic pointer instead.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	view    *views.MainView
	log     logger.Logger

	client *inference.Client
	source camera.Source
	pipe   *pipeline.Pipeline
	state  *overlay.State

	opts      atomic.Pointer[inference.Options]
	streaming atomic.Bool
	lastInfMS atomic.Int64
	done      chan struct{}
}

// New assembles the application.
func New(cfg Config, log logger.Logger) *Application {
	if log == nil {
		log = logger.Nop{}
	}

	fyneApp := fyneapp.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1100, 650))
	window.CenterOnScreen()

	a := &Application{
		fyneApp: fyneApp,
		window:  window,
		view:    views.NewMainView(window),
		log:     log,
		client:  inference.NewClient(cfg.ServiceURL, cfg.RequestTimeout, log),
		source:  camera.NewWebcam(cfg.DeviceID, log),
		state:   overlay.NewState(),
		done:    make(chan struct{}),
	}

	initial := inference.Options{Mode: inference.ModeDetect, MinConfidence: a.state.MinConfidence()}
	a.opts.Store(&initial)

	a.pipe = pipeline.New(pipeline.Config{
		Client:    a.client,
		Encoder:   encode.NewEncoder(cfg.JPEGQuality),
		Log:       log,
		Options:   func() inference.Options { return *a.opts.Load() },
		OnOutcome: a.onOutcome,
	})

	a.wireHandlers()
	window.SetOnClosed(a.shutdown)

	log.Info(component, "application initialized", map[string]interface{}{
		"service": cfg.ServiceURL,
		"device":  cfg.DeviceID,
		"quality": cfg.JPEGQuality,
	})
	return a
}

// Run shows the window and blocks in the Fyne event loop.
func (a *Application) Run() {
	go a.monitorStats()
	a.view.Show()
	a.fyneApp.Run()
}

// monitorStats pushes pipeline numbers into the status bar once a second
// while streaming. Runs until shutdown closes done.
func (a *Application) monitorStats() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
		}
		if !a.streaming.Load() {
			continue
		}
		stats := a.pipe.Stats()
		infMS := a.lastInfMS.Load()
		fyne.Do(func() {
			a.view.Status().SetPipelineInfo(
				stats.Interval.Milliseconds(),
				stats.LastRoundTrip.Milliseconds(),
				infMS,
				stats.Dropped,
			)
		})
	}
}

func (a *Application) shutdown() {
	a.log.Info(component, "shutting down", nil)
	close(a.done)
	if a.streaming.Load() {
		a.stopDetection()
	}
	a.pipe.Wait()
}
