// Package overlay holds the latest inference results, the user-adjustable
// filters, and the renderer that paints boxes or masks over the live view
// and resolves taps back to results.
package overlay

import (
	"image"
	"image/color"

	"vision-scout/internal/geometry"
	"vision-scout/internal/inference"
)

// HitMargin inflates box hit-testing by a few display pixels so thin boxes
// stay tappable.
const HitMargin = 8.0

// Style is the per-item paint configuration resolved by the renderer from
// the overlay state.
type Style struct {
	Color     color.NRGBA
	Label     string
	Opacity   float64
	Fill      bool
	ShowLabel bool
	Selected  bool
}

// Item is one renderable result. Detection boxes and segment masks are the
// two variants; both expose the same drawing and hit-testing surface so a
// third visualization mode only needs a new variant.
type Item interface {
	Class() string
	Confidence() float64
	Bounds() geometry.Rect
	Valid() bool
	Draw(dst *image.RGBA, t geometry.FitTransform, sty Style)
	HitTest(p geometry.Point, t geometry.FitTransform) bool
	DisplayArea(t geometry.FitTransform) float64
}

// Box renders a detection as a stroked rectangle.
type Box struct {
	ClassName  string
	Score      float64
	Rect       geometry.Rect
	wellFormed bool
}

// NewBox adapts one detection. Invalid detections keep their data but are
// skipped at render time via Valid.
func NewBox(d inference.Detection) Box {
	return Box{ClassName: d.ClassName, Score: d.Confidence, Rect: d.Rect(), wellFormed: d.Valid()}
}

func (b Box) Class() string         { return b.ClassName }
func (b Box) Confidence() float64   { return b.Score }
func (b Box) Bounds() geometry.Rect { return b.Rect }
func (b Box) Valid() bool           { return b.wellFormed }

func (b Box) Draw(dst *image.RGBA, t geometry.FitTransform, sty Style) {
	r := t.ApplyRect(b.Rect)
	width := 2
	if sty.Selected {
		width = 4
	}
	strokeRect(dst, r, sty.Color, width)
	if sty.ShowLabel {
		drawLabelChip(dst, r, sty.Label, sty.Color)
	}
}

func (b Box) HitTest(p geometry.Point, t geometry.FitTransform) bool {
	return t.ApplyRect(b.Rect).Contains(p, HitMargin)
}

func (b Box) DisplayArea(t geometry.FitTransform) float64 {
	r := t.ApplyRect(b.Rect)
	return r.Width() * r.Height()
}

// Mask renders a segment as a closed polygon; with fewer than 3 boundary
// points it degrades to its bounding box.
type Mask struct {
	Box
	Points []geometry.Point
}

// NewMask adapts one segment.
func NewMask(s inference.Segment) Mask {
	return Mask{
		Box: Box{
			ClassName:  s.ClassName,
			Score:      s.Confidence,
			Rect:       s.Rect(),
			wellFormed: s.Valid(),
		},
		Points: s.Polygon(),
	}
}

func (m Mask) polygonal() bool { return len(m.Points) >= 3 }

func (m Mask) Draw(dst *image.RGBA, t geometry.FitTransform, sty Style) {
	if !m.polygonal() {
		m.Box.Draw(dst, t, sty)
		return
	}

	pts := t.ApplyAll(m.Points)
	if sty.Fill {
		fillColor := sty.Color
		fillColor.A = uint8(sty.Opacity * 255)
		fillPolygon(dst, pts, fillColor)
	}
	width := 2
	if sty.Selected {
		width = 4
	}
	strokePolygon(dst, pts, sty.Color, width)
	if sty.ShowLabel {
		drawLabelChip(dst, t.ApplyRect(m.Rect), sty.Label, sty.Color)
	}
}

func (m Mask) HitTest(p geometry.Point, t geometry.FitTransform) bool {
	if !m.polygonal() {
		return m.Box.HitTest(p, t)
	}
	return geometry.ContainsPoint(t.ApplyAll(m.Points), p)
}

func (m Mask) DisplayArea(t geometry.FitTransform) float64 {
	if !m.polygonal() {
		return m.Box.DisplayArea(t)
	}
	return geometry.Area(t.ApplyAll(m.Points))
}

// ItemsFromResult adapts a round trip's worth of geometry into renderable
// items, detections or segments depending on the result's mode.
func ItemsFromResult(res inference.Result) []Item {
	if res.Mode == inference.ModeSegment {
		items := make([]Item, 0, len(res.Segments))
		for _, s := range res.Segments {
			items = append(items, NewMask(s))
		}
		return items
	}
	items := make([]Item, 0, len(res.Detections))
	for _, d := range res.Detections {
		items = append(items, NewBox(d))
	}
	return items
}
