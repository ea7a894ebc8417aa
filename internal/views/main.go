package views

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"vision-scout/internal/views/components"
)

// MainView assembles the live view, the control panel, and the status bar.
// It owns no domain state; the application wires handlers into it and
// pushes updates back through its setters on the UI thread.
type MainView struct {
	window fyne.Window

	liveView *components.LiveView
	controls *components.ControlPanel
	status   *components.StatusBar
}

// NewMainView builds the window content.
func NewMainView(window fyne.Window) *MainView {
	mv := &MainView{
		window:   window,
		liveView: components.NewLiveView(),
		controls: components.NewControlPanel(),
		status:   components.NewStatusBar(),
	}

	mv.window.SetContent(container.NewBorder(
		nil,                        // top
		mv.status.GetContainer(),   // bottom
		nil,                        // left
		mv.controls.GetContainer(), // right
		mv.liveView,                // center
	))
	return mv
}

// LiveView exposes the tappable preview/overlay stack.
func (mv *MainView) LiveView() *components.LiveView { return mv.liveView }

// Controls exposes the filter panel for handler wiring.
func (mv *MainView) Controls() *components.ControlPanel { return mv.controls }

// Status exposes the status bar.
func (mv *MainView) Status() *components.StatusBar { return mv.status }

// SetPreview updates the camera frame under the overlay.
func (mv *MainView) SetPreview(img image.Image) {
	mv.liveView.SetPreview(img)
}

// SetOverlay updates the painted overlay bitmap.
func (mv *MainView) SetOverlay(img *image.RGBA) {
	mv.liveView.SetOverlay(img)
}

// ShowError surfaces a capture-level failure with a retry action.
func (mv *MainView) ShowError(err error, retry func()) {
	dialog.ShowCustomConfirm("Camera Error", "Retry", "Dismiss",
		widget.NewLabel(err.Error()),
		func(confirmed bool) {
			if confirmed && retry != nil {
				retry()
			}
		}, mv.window)
}

// Show displays the window.
func (mv *MainView) Show() {
	mv.window.Show()
}
