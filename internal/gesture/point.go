// Package gesture implements single-stroke gesture capture and recognition
// sized for memory-limited hosts: a sampling filter that keeps significant
// input points in a fixed ring buffer, and a shape recognizer that matches a
// normalized stroke against preloaded templates under rotation.
//
// All storage is allocated when a filter or recognizer is constructed.
// Submitting points and recognizing strokes do not allocate.
package gesture

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/spatial/r2"
)

// Number is the coordinate type of a Point. Integer coordinates suit small
// targets; floating point gives better precision. An integer type must hold
// the rotated canonical square, see NewShapeRecognizer.
type Number interface {
	constraints.Signed | constraints.Float
}

// Point is a 2-D coordinate pair.
type Point[T Number] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Pt is shorthand for Point[T]{X: x, Y: y}.
func Pt[T Number](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}

// Vec returns p as a float vector.
func (p Point[T]) Vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns p+q.
func (p Point[T]) Add(q Point[T]) Point[T] {
	return Point[T]{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mid returns the mean of p and q. Integer coordinates truncate.
func (p Point[T]) Mid(q Point[T]) Point[T] {
	return Point[T]{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Dist returns the Euclidean distance between p and q.
func (p Point[T]) Dist(q Point[T]) float64 {
	return r2.Norm(r2.Sub(q.Vec(), p.Vec()))
}

// FromVec converts v to a Point, rounding half up when T is an integer type.
func FromVec[T Number](v r2.Vec) Point[T] {
	if integral[T]() {
		return Point[T]{X: T(math.Floor(v.X + 0.5)), Y: T(math.Floor(v.Y + 0.5))}
	}
	return Point[T]{X: T(v.X), Y: T(v.Y)}
}

// integral reports whether T truncates division.
func integral[T Number]() bool {
	var one T = 1
	return one/2 == 0
}

// maxMagnitude returns the largest value T holds, or +Inf for floats.
func maxMagnitude[T Number]() float64 {
	if !integral[T]() {
		return math.Inf(1)
	}
	var zero T
	return math.Ldexp(1, int(unsafe.Sizeof(zero))*8-1) - 1
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func (p Point[T]) Finite() bool {
	x, y := float64(p.X), float64(p.Y)
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// pathLength returns the summed segment length of pts.
func pathLength[T Number](pts []Point[T]) float64 {
	var d float64
	for i := 1; i < len(pts); i++ {
		d += pts[i-1].Dist(pts[i])
	}
	return d
}

// centroid returns the mean position of pts.
func centroid[T Number](pts []Point[T]) r2.Vec {
	var c r2.Vec
	for _, p := range pts {
		c = r2.Add(c, p.Vec())
	}
	return r2.Scale(1/float64(len(pts)), c)
}

// bounds returns the axis-aligned bounding box of pts.
func bounds[T Number](pts []Point[T]) r2.Box {
	b := r2.Box{Min: pts[0].Vec(), Max: pts[0].Vec()}
	for _, p := range pts[1:] {
		v := p.Vec()
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
	}
	return b
}
