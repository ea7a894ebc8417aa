package overlay

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"

	"vision-scout/internal/geometry"
)

// palette holds visually distinct stroke colors; a class is keyed into it
// by a stable hash so the same class keeps its color for the session.
var palette = []color.NRGBA{
	{0xe6, 0x19, 0x4b, 0xff}, // red
	{0x3c, 0xb4, 0x4b, 0xff}, // green
	{0x42, 0x63, 0xf5, 0xff}, // blue
	{0xff, 0xe1, 0x19, 0xff}, // yellow
	{0xf5, 0x82, 0x31, 0xff}, // orange
	{0x91, 0x1e, 0xb4, 0xff}, // purple
	{0x46, 0xf0, 0xf0, 0xff}, // cyan
	{0xf0, 0x32, 0xe6, 0xff}, // magenta
	{0xbc, 0xf6, 0x0c, 0xff}, // lime
	{0xfa, 0xbe, 0xbe, 0xff}, // pink
	{0x00, 0x80, 0x80, 0xff}, // teal
	{0x9a, 0x63, 0x24, 0xff}, // brown
}

// ClassColor maps a class name to its session-stable color.
func ClassColor(class string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(class))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Paint draws the visible results onto dst, which must already be sized to
// the display rectangle. Painting and hit-testing share the same
// aspect-preserving transform so they can never disagree.
func Paint(dst *image.RGBA, s *State, displayW, displayH int) {
	t, ok := transformFor(s, displayW, displayH)
	if !ok {
		return
	}

	selected, hasSelection := s.Selected()
	for _, i := range s.Visible() {
		it := s.Items()[i]
		sty := Style{
			Color:     ClassColor(it.Class()),
			Label:     fmt.Sprintf("%s %.0f%%", it.Class(), it.Confidence()*100),
			Opacity:   s.Opacity(),
			Fill:      s.Fill(),
			ShowLabel: s.ShowLabels(),
			Selected:  hasSelection && i == selected,
		}
		it.Draw(dst, t, sty)
	}
}

// HitTest resolves a tap in display coordinates to the topmost visible
// result under it. Visibility order is draw order, so the scan runs in
// reverse: the last-drawn (topmost) item wins on overlap.
func HitTest(s *State, tap geometry.Point, displayW, displayH int) (int, bool) {
	t, ok := transformFor(s, displayW, displayH)
	if !ok {
		return 0, false
	}

	vis := s.Visible()
	for n := len(vis) - 1; n >= 0; n-- {
		i := vis[n]
		if s.Items()[i].HitTest(tap, t) {
			return i, true
		}
	}
	return 0, false
}

// SelectedArea reports the display-space area of the selected result:
// Shoelace over the scaled mask polygon, or width x height for a box.
func SelectedArea(s *State, displayW, displayH int) (float64, bool) {
	i, ok := s.Selected()
	if !ok {
		return 0, false
	}
	t, ok := transformFor(s, displayW, displayH)
	if !ok {
		return 0, false
	}
	return s.Items()[i].DisplayArea(t), true
}

func transformFor(s *State, displayW, displayH int) (geometry.FitTransform, bool) {
	meta := s.Meta()
	if !meta.Valid() || displayW <= 0 || displayH <= 0 {
		return geometry.FitTransform{}, false
	}
	return geometry.NewFitTransform(
		float64(meta.Width), float64(meta.Height),
		float64(displayW), float64(displayH),
	), true
}
