package catalog

import "math"

// Builtin returns the default template set.
func Builtin() *Catalog {
	return &Catalog{Templates: []Entry{
		{Name: "line", Points: []Coord{{0, 0}, {100, 0}}},
		{Name: "circle", Points: []Coord{{0, 0}, {50, 50}, {100, 0}, {50, -50}, {0, 0}}},
		{Name: "check", Points: []Coord{{0, 40}, {35, 80}, {100, 0}}},
		{Name: "caret", Points: []Coord{{0, 100}, {50, 0}, {100, 100}}},
		{Name: "zigzag", Points: []Coord{{0, 0}, {25, 50}, {50, 0}, {75, 50}, {100, 0}}},
		{Name: "square", Points: []Coord{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}}},
		{Name: "spiral", Points: spiral(3, 48)},
	}}
}

// spiral traces turns revolutions outward from the origin in n steps.
func spiral(turns float64, n int) []Coord {
	pts := make([]Coord, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		a := 2 * math.Pi * turns * t
		r := 10 + 90*t
		pts[i] = Coord{math.Round(r * math.Cos(a)), math.Round(r * math.Sin(a))}
	}
	return pts
}
