package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LiveView stacks the camera preview under the overlay bitmap and reports
// taps in display coordinates. Both layers letterbox the same way: the
// preview through Fyne's contain fill, the overlay because the renderer
// paints through the same aspect-preserving transform.
type LiveView struct {
	widget.BaseWidget

	preview *canvas.Image
	overlay *canvas.Image
	onTap   func(pos fyne.Position, size fyne.Size)
}

// NewLiveView returns an empty live view.
func NewLiveView() *LiveView {
	lv := &LiveView{}
	lv.preview = canvas.NewImageFromImage(nil)
	lv.preview.FillMode = canvas.ImageFillContain
	lv.preview.ScaleMode = canvas.ImageScaleFastest
	lv.overlay = canvas.NewImageFromImage(nil)
	lv.overlay.FillMode = canvas.ImageFillStretch
	lv.ExtendBaseWidget(lv)
	return lv
}

func (lv *LiveView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(lv.preview, lv.overlay))
}

// MinSize keeps the view large enough for a useful preview.
func (lv *LiveView) MinSize() fyne.Size {
	return fyne.NewSize(640, 480)
}

// Tapped forwards the tap with the current display size so the controller
// can hit-test through the shared transform.
func (lv *LiveView) Tapped(ev *fyne.PointEvent) {
	if lv.onTap != nil {
		lv.onTap(ev.Position, lv.Size())
	}
}

// SetTapHandler registers the tap callback.
func (lv *LiveView) SetTapHandler(fn func(pos fyne.Position, size fyne.Size)) {
	lv.onTap = fn
}

// SetPreview swaps the camera frame underneath the overlay.
func (lv *LiveView) SetPreview(img image.Image) {
	lv.preview.Image = img
	lv.preview.Refresh()
}

// SetOverlay swaps the painted overlay bitmap.
func (lv *LiveView) SetOverlay(img *image.RGBA) {
	lv.overlay.Image = img
	lv.overlay.Refresh()
}

// DisplaySize returns the current size in display units, matching the
// coordinate space of Tapped events.
func (lv *LiveView) DisplaySize() (int, int) {
	size := lv.Size()
	return int(size.Width), int(size.Height)
}
