package gesture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// resample writes len(dst) points spaced evenly along the path of src.
// Each interpolated point becomes the predecessor of the next segment, so
// spacing is measured from emitted points rather than from src vertices.
// Shortfalls from rounding are filled with the last point of src.
func resample[T Number](src, dst []Point[T]) {
	n := len(dst)
	last := src[len(src)-1]
	dst[0] = src[0]
	out := 1

	interval := pathLength(src) / float64(n-1)
	if interval > 0 {
		prev := src[0].Vec()
		var acc float64
		for i := 1; i < len(src) && out < n; {
			cur := src[i].Vec()
			d := r2.Norm(r2.Sub(cur, prev))
			if d > 0 && acc+d >= interval {
				q := r2.Add(prev, r2.Scale((interval-acc)/d, r2.Sub(cur, prev)))
				dst[out] = FromVec[T](q)
				prev = dst[out].Vec()
				out++
				acc = 0
				continue
			}
			acc += d
			prev = cur
			i++
		}
	}
	for ; out < n; out++ {
		dst[out] = last
	}
}

// rotateBy rotates pts about their centroid by radians.
func rotateBy[T Number](pts []Point[T], radians float64) {
	rot := r2.NewRotation(radians, centroid(pts))
	for i, p := range pts {
		pts[i] = FromVec[T](rot.Rotate(p.Vec()))
	}
}

// rotateToZero turns pts so the first point lies due right of the centroid.
func rotateToZero[T Number](pts []Point[T]) {
	c := centroid(pts)
	first := pts[0].Vec()
	rotateBy(pts, -math.Atan2(first.Y-c.Y, first.X-c.X))
}

// flatRatio is the extent, relative to the larger axis, below which an axis
// counts as flat. Rotating a straight stroke leaves rounding noise on the
// cross axis that must not be blown up to full size.
const flatRatio = 1e-9

// scaleToSquare scales each axis so the bounding box becomes size x size.
// A flat axis is left unscaled.
func scaleToSquare[T Number](pts []Point[T], size float64) {
	b := bounds(pts)
	w, h := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	limit := flatRatio * math.Max(w, h)
	sx, sy := 1.0, 1.0
	if w > limit && w > 0 {
		sx = size / w
	}
	if h > limit && h > 0 {
		sy = size / h
	}
	for i, p := range pts {
		v := p.Vec()
		pts[i] = FromVec[T](r2.Vec{X: v.X * sx, Y: v.Y * sy})
	}
}

// translateToOrigin moves the centroid of pts to (0, 0).
func translateToOrigin[T Number](pts []Point[T]) {
	c := centroid(pts)
	for i, p := range pts {
		pts[i] = FromVec[T](r2.Sub(p.Vec(), c))
	}
}

// normalize resamples src into dst and puts dst in canonical form.
func normalize[T Number](src, dst []Point[T], size float64) {
	resample(src, dst)
	rotateToZero(dst)
	scaleToSquare(dst, size)
	translateToOrigin(dst)
}
