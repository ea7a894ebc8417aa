package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the stream state, the pipeline's live numbers, and the
// current result summary or selection.
type StatusBar struct {
	container *fyne.Container

	statusLabel    *widget.Label
	pipelineLabel  *widget.Label
	selectionLabel *widget.Label
}

// NewStatusBar creates the status bar.
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel:    widget.NewLabel("Ready"),
		pipelineLabel:  widget.NewLabel(""),
		selectionLabel: widget.NewLabel(""),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.pipelineLabel,
		widget.NewSeparator(),
		sb.selectionLabel,
	)
	return sb
}

func (sb *StatusBar) GetContainer() *fyne.Container { return sb.container }

// SetStatus updates the leftmost status message.
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// SetPipelineInfo updates the live pipeline numbers.
func (sb *StatusBar) SetPipelineInfo(intervalMS, roundTripMS, inferenceMS int64, dropped uint64) {
	sb.pipelineLabel.SetText(fmt.Sprintf(
		"interval %dms | round trip %dms | inference %dms | dropped %d",
		intervalMS, roundTripMS, inferenceMS, dropped,
	))
}

// SetSelection describes the tapped result, or clears when text is empty.
func (sb *StatusBar) SetSelection(text string) {
	sb.selectionLabel.SetText(text)
}
