package inference

import "vision-scout/internal/geometry"

// Mode selects which endpoint a frame is submitted to.
type Mode string

const (
	ModeDetect  Mode = "detect"
	ModeSegment Mode = "segment"
)

// Detection is one detected object in image-pixel coordinates.
type Detection struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
}

// Valid reports whether the bounding box is well-formed. Invalid entries
// are skipped at render time, not rejected at parse time.
func (d Detection) Valid() bool {
	return len(d.BBox) == 4 && d.BBox[2] >= d.BBox[0] && d.BBox[3] >= d.BBox[1]
}

// Rect returns the bounding box as a geometry rectangle. Only meaningful
// when Valid.
func (d Detection) Rect() geometry.Rect {
	if len(d.BBox) != 4 {
		return geometry.Rect{}
	}
	return geometry.Rect{X1: d.BBox[0], Y1: d.BBox[1], X2: d.BBox[2], Y2: d.BBox[3]}
}

// Segment is one segmented object: a bounding box plus an ordered polygon
// boundary approximating the silhouette.
type Segment struct {
	ClassName  string       `json:"class_name"`
	Confidence float64      `json:"confidence"`
	BBox       []float64    `json:"bbox"`
	Mask       [][2]float64 `json:"mask"`
}

// Valid mirrors Detection.Valid; the mask is not part of validity, a
// segment with fewer than 3 points just renders as its box.
func (s Segment) Valid() bool {
	return len(s.BBox) == 4 && s.BBox[2] >= s.BBox[0] && s.BBox[3] >= s.BBox[1]
}

// Rect returns the bounding box as a geometry rectangle.
func (s Segment) Rect() geometry.Rect {
	if len(s.BBox) != 4 {
		return geometry.Rect{}
	}
	return geometry.Rect{X1: s.BBox[0], Y1: s.BBox[1], X2: s.BBox[2], Y2: s.BBox[3]}
}

// Polygon returns the mask as geometry points.
func (s Segment) Polygon() []geometry.Point {
	pts := make([]geometry.Point, len(s.Mask))
	for i, m := range s.Mask {
		pts[i] = geometry.Point{X: m[0], Y: m[1]}
	}
	return pts
}

// ImageMetadata describes the coordinate space results are expressed in.
type ImageMetadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the metadata describes a usable coordinate space.
func (m ImageMetadata) Valid() bool { return m.Width > 0 && m.Height > 0 }

// Result is one inference round trip's worth of typed geometry. Either
// Detections or Segments is populated depending on the requested mode.
type Result struct {
	Status          string        `json:"status"`
	Count           int           `json:"count"`
	InferenceTimeMS float64       `json:"inference_time_ms"`
	Detections      []Detection   `json:"detections,omitempty"`
	Segments        []Segment     `json:"segments,omitempty"`
	ImageMeta       ImageMetadata `json:"image_metadata"`

	Mode Mode `json:"-"`
}

// Options carries the per-request tuning the user controls.
type Options struct {
	Mode          Mode
	MinConfidence float64
	Classes       []string
}
