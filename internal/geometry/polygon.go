package geometry

import "math"

// ContainsPoint reports whether p lies inside the polygon using the
// even-odd ray-casting rule: a horizontal ray from p crosses the boundary
// an odd number of times iff the point is interior. Points exactly on an
// edge may fall on either side; callers needing tolerance should inflate
// beforehand.
func ContainsPoint(polygon []Point, p Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Area returns the enclosed area of the polygon via the Shoelace formula:
// |sum(x_i*y_{i+1} - x_{i+1}*y_i)| / 2. Order-independent (sign dropped);
// fewer than 3 vertices enclose nothing.
func Area(polygon []Point) float64 {
	if len(polygon) < 3 {
		return 0
	}

	sum := 0.0
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		sum += polygon[j].X*polygon[i].Y - polygon[i].X*polygon[j].Y
		j = i
	}
	return math.Abs(sum) / 2
}
