package geometry

// Point is a coordinate in either image or display space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle [x1,y1,x2,y2].
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Valid reports whether the rectangle is well-formed (x2>=x1, y2>=y1).
func (r Rect) Valid() bool { return r.X2 >= r.X1 && r.Y2 >= r.Y1 }

// Contains reports whether p lies inside the rectangle, after inflating
// every edge outward by margin. The margin gives touch tolerance for
// hit-testing thin boxes.
func (r Rect) Contains(p Point, margin float64) bool {
	return p.X >= r.X1-margin && p.X <= r.X2+margin &&
		p.Y >= r.Y1-margin && p.Y <= r.Y2+margin
}

// FitTransform maps image-space coordinates into a display rectangle using
// a uniform scale and centering offsets (letterbox/pillarbox). The same
// transform instance is shared by painting and hit-testing so the two can
// never disagree about where a result landed on screen.
type FitTransform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// NewFitTransform computes the letterbox transform that fits an image of
// imageW x imageH inside a display of displayW x displayH. Degenerate
// dimensions produce the identity transform.
func NewFitTransform(imageW, imageH, displayW, displayH float64) FitTransform {
	if imageW <= 0 || imageH <= 0 || displayW <= 0 || displayH <= 0 {
		return FitTransform{Scale: 1}
	}

	scale := displayW / imageW
	if s := displayH / imageH; s < scale {
		scale = s
	}

	return FitTransform{
		Scale:   scale,
		OffsetX: (displayW - imageW*scale) / 2,
		OffsetY: (displayH - imageH*scale) / 2,
	}
}

// Apply maps an image-space point into display space.
func (t FitTransform) Apply(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// Invert maps a display-space point (e.g. a tap location) back into image
// space. Inverse of Apply up to floating-point epsilon.
func (t FitTransform) Invert(p Point) Point {
	if t.Scale == 0 {
		return p
	}
	return Point{
		X: (p.X - t.OffsetX) / t.Scale,
		Y: (p.Y - t.OffsetY) / t.Scale,
	}
}

// ApplyRect maps an image-space rectangle into display space.
func (t FitTransform) ApplyRect(r Rect) Rect {
	p1 := t.Apply(Point{X: r.X1, Y: r.Y1})
	p2 := t.Apply(Point{X: r.X2, Y: r.Y2})
	return Rect{X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y}
}

// ApplyAll maps a polygon boundary into display space.
func (t FitTransform) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}
