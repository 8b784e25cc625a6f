package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// goldenRatio is the inverse golden ratio, (sqrt(5)-1)/2.
var goldenRatio = 0.5 * (math.Sqrt(5) - 1)

// angleSearch finds the rotation of a query that best fits a template.
type angleSearch struct {
	rangeRad     float64
	precisionRad float64
}

// distanceAtAngle is the mean point distance between query rotated by
// radians about center and tmpl.
func distanceAtAngle[T Number](query, tmpl []Point[T], center r2.Vec, radians float64) float64 {
	rot := r2.NewRotation(radians, center)
	var sum float64
	for i, p := range query {
		sum += r2.Norm(r2.Sub(rot.Rotate(p.Vec()), tmpl[i].Vec()))
	}
	return sum / float64(len(query))
}

// bestDistance runs a golden-section search over [-rangeRad, rangeRad] and
// returns the smaller of the two final probe distances.
func bestDistance[T Number](s angleSearch, query, tmpl []Point[T]) float64 {
	center := centroid(query)
	a, b := -s.rangeRad, s.rangeRad
	x1 := goldenRatio*a + (1-goldenRatio)*b
	f1 := distanceAtAngle(query, tmpl, center, x1)
	x2 := (1-goldenRatio)*a + goldenRatio*b
	f2 := distanceAtAngle(query, tmpl, center, x2)

	for math.Abs(b-a) > s.precisionRad {
		if f1 < f2 {
			b = x2
			x2, f2 = x1, f1
			x1 = goldenRatio*a + (1-goldenRatio)*b
			f1 = distanceAtAngle(query, tmpl, center, x1)
		} else {
			a = x1
			x1, f1 = x2, f2
			x2 = (1-goldenRatio)*a + goldenRatio*b
			f2 = distanceAtAngle(query, tmpl, center, x2)
		}
	}
	return math.Min(f1, f2)
}

// evaluations returns how many distance evaluations bestDistance performs.
func (s angleSearch) evaluations() int {
	width := 2 * s.rangeRad
	n := 2
	for width > s.precisionRad {
		width *= goldenRatio
		n++
	}
	return n
}
