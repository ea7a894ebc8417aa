package overlay

import (
	"fmt"
	"sort"
	"strings"

	"vision-scout/internal/inference"
)

// State holds the latest result set, the visualization mode, and the
// user-adjustable filters. Single-writer by construction: the pipeline's
// result callback and the filter controls both run on the UI-owning
// thread, so no lock is carried here.
type State struct {
	mode     inference.Mode
	items    []Item
	meta     inference.ImageMetadata
	selected int

	minConfidence float64
	classFilter   map[string]struct{}
	showLabels    bool
	opacity       float64
	fill          bool
}

// NewState returns defaults: detection mode, labels on, 40% fill opacity.
func NewState() *State {
	return &State{
		mode:          inference.ModeDetect,
		selected:      -1,
		minConfidence: 0.5,
		classFilter:   map[string]struct{}{},
		showLabels:    true,
		opacity:       0.4,
		fill:          true,
	}
}

// ApplyResult replaces the result set with a completed round trip. The
// selection survives if its index still exists, otherwise it clears.
func (s *State) ApplyResult(res inference.Result) {
	s.mode = res.Mode
	s.meta = res.ImageMeta
	s.items = ItemsFromResult(res)
	if s.selected >= len(s.items) {
		s.selected = -1
	}
}

// Clear drops the result set and selection, e.g. on pipeline teardown.
func (s *State) Clear() {
	s.items = nil
	s.meta = inference.ImageMetadata{}
	s.selected = -1
}

// Mode returns the visualization mode of the current result set.
func (s *State) Mode() inference.Mode { return s.mode }

// Meta returns the coordinate space the current results are expressed in.
func (s *State) Meta() inference.ImageMetadata { return s.meta }

// Items returns the unfiltered result set.
func (s *State) Items() []Item { return s.items }

// SetMinConfidence clamps to [0,1].
func (s *State) SetMinConfidence(v float64) {
	s.minConfidence = clamp01(v)
}

func (s *State) MinConfidence() float64 { return s.minConfidence }

// SetOpacity clamps to [0,1].
func (s *State) SetOpacity(v float64) {
	s.opacity = clamp01(v)
}

func (s *State) Opacity() float64 { return s.opacity }

func (s *State) SetShowLabels(v bool) { s.showLabels = v }
func (s *State) ShowLabels() bool     { return s.showLabels }

func (s *State) SetFill(v bool) { s.fill = v }
func (s *State) Fill() bool     { return s.fill }

// AllowClass adds a class to the allow-list; an empty list means all
// classes pass.
func (s *State) AllowClass(name string) {
	s.classFilter[name] = struct{}{}
}

// DisallowClass removes a class from the allow-list.
func (s *State) DisallowClass(name string) {
	delete(s.classFilter, name)
}

// ClearClassFilter lets every class pass again.
func (s *State) ClearClassFilter() {
	s.classFilter = map[string]struct{}{}
}

// AllowedClasses returns the allow-list sorted, for the request options.
func (s *State) AllowedClasses() []string {
	out := make([]string, 0, len(s.classFilter))
	for c := range s.classFilter {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// visible reports whether item i passes the confidence floor, the class
// allow-list, and geometric validity. Re-evaluated every repaint; never
// mutates the result set.
func (s *State) visible(i int) bool {
	it := s.items[i]
	if !it.Valid() {
		return false
	}
	if it.Confidence() < s.minConfidence {
		return false
	}
	if len(s.classFilter) == 0 {
		return true
	}
	_, ok := s.classFilter[it.Class()]
	return ok
}

// Visible returns the indices of currently visible items in draw order.
func (s *State) Visible() []int {
	var out []int
	for i := range s.items {
		if s.visible(i) {
			out = append(out, i)
		}
	}
	return out
}

// ToggleSelect selects item i, or clears the selection when i is already
// selected or out of range.
func (s *State) ToggleSelect(i int) {
	if i == s.selected || i < 0 || i >= len(s.items) {
		s.selected = -1
		return
	}
	s.selected = i
}

// Selected returns the selected item index, if any.
func (s *State) Selected() (int, bool) {
	if s.selected < 0 || s.selected >= len(s.items) {
		return 0, false
	}
	return s.selected, true
}

// Summary renders a per-class count of the visible results for the status
// bar, e.g. "2 person, 1 dog". Classes appear alphabetically.
func (s *State) Summary() string {
	counts := map[string]int{}
	for _, i := range s.Visible() {
		counts[s.items[i].Class()]++
	}
	if len(counts) == 0 {
		return "no objects"
	}

	classes := make([]string, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = fmt.Sprintf("%d %s", counts[c], c)
	}
	return strings.Join(parts, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
