package components

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ControlPanel holds the stream toggle and the overlay filter controls.
// Every change handler runs synchronously on the UI thread with an
// immediate repaint; validation is clamping only, done by the overlay
// state itself.
type ControlPanel struct {
	container *fyne.Container

	startStop       *widget.Button
	modeSelect      *widget.Select
	confidenceLabel *widget.Label
	confidence      *widget.Slider
	classEntry      *widget.Entry
	showLabels      *widget.Check
	opacityLabel    *widget.Label
	opacity         *widget.Slider
	fillStyle       *widget.Check

	startHandler      func()
	stopHandler       func()
	modeHandler       func(segmentation bool)
	confidenceHandler func(float64)
	classHandler      func([]string)
	labelsHandler     func(bool)
	opacityHandler    func(float64)
	fillHandler       func(bool)

	streaming bool
}

// NewControlPanel creates the panel with the stock defaults.
func NewControlPanel() *ControlPanel {
	cp := &ControlPanel{}
	cp.createComponents()
	cp.buildLayout()
	return cp
}

func (cp *ControlPanel) createComponents() {
	cp.startStop = widget.NewButton("Start Detection", cp.onStartStop)

	cp.modeSelect = widget.NewSelect([]string{"Detection", "Segmentation"}, func(mode string) {
		if cp.modeHandler != nil {
			cp.modeHandler(mode == "Segmentation")
		}
	})
	cp.modeSelect.SetSelectedIndex(0)

	cp.confidenceLabel = widget.NewLabel("Confidence: 50%")
	cp.confidence = widget.NewSlider(0, 1)
	cp.confidence.Step = 0.05
	cp.confidence.Value = 0.5
	cp.confidence.OnChanged = func(v float64) {
		cp.confidenceLabel.SetText(fmt.Sprintf("Confidence: %.0f%%", v*100))
		if cp.confidenceHandler != nil {
			cp.confidenceHandler(v)
		}
	}

	cp.classEntry = widget.NewEntry()
	cp.classEntry.SetPlaceHolder("classes, e.g. person,dog")
	cp.classEntry.OnChanged = func(text string) {
		if cp.classHandler != nil {
			cp.classHandler(splitClasses(text))
		}
	}

	cp.showLabels = widget.NewCheck("Show labels", func(v bool) {
		if cp.labelsHandler != nil {
			cp.labelsHandler(v)
		}
	})
	cp.showLabels.SetChecked(true)

	cp.opacityLabel = widget.NewLabel("Mask opacity: 40%")
	cp.opacity = widget.NewSlider(0, 1)
	cp.opacity.Step = 0.05
	cp.opacity.Value = 0.4
	cp.opacity.OnChanged = func(v float64) {
		cp.opacityLabel.SetText(fmt.Sprintf("Mask opacity: %.0f%%", v*100))
		if cp.opacityHandler != nil {
			cp.opacityHandler(v)
		}
	}

	cp.fillStyle = widget.NewCheck("Fill masks", func(v bool) {
		if cp.fillHandler != nil {
			cp.fillHandler(v)
		}
	})
	cp.fillStyle.SetChecked(true)
}

func (cp *ControlPanel) buildLayout() {
	cp.container = container.NewVBox(
		cp.startStop,
		widget.NewSeparator(),
		widget.NewLabel("Mode"),
		cp.modeSelect,
		cp.confidenceLabel,
		cp.confidence,
		widget.NewLabel("Class filter"),
		cp.classEntry,
		cp.showLabels,
		widget.NewSeparator(),
		cp.opacityLabel,
		cp.opacity,
		cp.fillStyle,
	)
}

func (cp *ControlPanel) onStartStop() {
	if cp.streaming {
		if cp.stopHandler != nil {
			cp.stopHandler()
		}
		return
	}
	if cp.startHandler != nil {
		cp.startHandler()
	}
}

// SetStreaming flips the button label to match the pipeline state.
func (cp *ControlPanel) SetStreaming(streaming bool) {
	cp.streaming = streaming
	if streaming {
		cp.startStop.SetText("Stop Detection")
	} else {
		cp.startStop.SetText("Start Detection")
	}
}

func (cp *ControlPanel) GetContainer() *fyne.Container { return cp.container }

func (cp *ControlPanel) SetStartHandler(fn func())               { cp.startHandler = fn }
func (cp *ControlPanel) SetStopHandler(fn func())                { cp.stopHandler = fn }
func (cp *ControlPanel) SetModeHandler(fn func(bool))            { cp.modeHandler = fn }
func (cp *ControlPanel) SetConfidenceHandler(fn func(float64))   { cp.confidenceHandler = fn }
func (cp *ControlPanel) SetClassFilterHandler(fn func([]string)) { cp.classHandler = fn }
func (cp *ControlPanel) SetShowLabelsHandler(fn func(bool))      { cp.labelsHandler = fn }
func (cp *ControlPanel) SetOpacityHandler(fn func(float64))      { cp.opacityHandler = fn }
func (cp *ControlPanel) SetFillStyleHandler(fn func(bool))       { cp.fillHandler = fn }

// splitClasses parses the comma-separated allow-list, dropping empties.
func splitClasses(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if c := strings.TrimSpace(part); c != "" {
			out = append(out, c)
		}
	}
	return out
}
