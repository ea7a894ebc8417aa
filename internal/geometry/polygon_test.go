package geometry

import "testing"

var square = []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

func TestContainsPointSquare(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{5, 5}, true},
		{"outside", Point{20, 20}, false},
		{"just inside edge", Point{9.99, 5}, true},
		{"just outside edge", Point{10.01, 5}, false},
		{"negative quadrant", Point{-1, -1}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContainsPoint(square, tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestContainsPointConcave(t *testing.T) {
	// U-shape: the notch between the arms is outside.
	u := []Point{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}}

	if ContainsPoint(u, Point{5, 7}) {
		t.Error("point in the notch reported inside")
	}
	if !ContainsPoint(u, Point{1.5, 5}) {
		t.Error("point in the left arm reported outside")
	}
}

func TestContainsPointDegenerate(t *testing.T) {
	if ContainsPoint([]Point{{0, 0}, {10, 10}}, Point{5, 5}) {
		t.Error("two-point polygon cannot contain anything")
	}
	if ContainsPoint(nil, Point{0, 0}) {
		t.Error("nil polygon cannot contain anything")
	}
}

func TestAreaSquare(t *testing.T) {
	if got := Area(square); got != 100 {
		t.Errorf("Area(square) = %v, want 100", got)
	}
}

func TestAreaOrderIndependent(t *testing.T) {
	reversed := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if got := Area(reversed); got != 100 {
		t.Errorf("Area(reversed square) = %v, want 100", got)
	}
}

func TestAreaTriangle(t *testing.T) {
	tri := []Point{{0, 0}, {4, 0}, {0, 3}}
	if got := Area(tri); got != 6 {
		t.Errorf("Area(triangle) = %v, want 6", got)
	}
}

func TestAreaDegenerate(t *testing.T) {
	if got := Area([]Point{{0, 0}, {5, 5}}); got != 0 {
		t.Errorf("Area of a segment = %v, want 0", got)
	}
}
