package anchor

import (
	"fmt"
	"math"

	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/point"
)

// parallelTolerance is the smallest |d1 x d2| for which two rays are
// considered to intersect.
const parallelTolerance = 1e-12

func (r *Resolver) aggregate(agg *Aggregate, at string, start point.Point, depth int) (point.Point, error) {
	method := agg.Method
	if method == "" {
		method = MethodAverage
	}
	if method != MethodAverage && method != MethodIntersect {
		return start, errors.InvalidAnchor(at+".method", "unknown aggregate method %q (must be average or intersect)", method)
	}

	parts := make([]point.Point, len(agg.Parts))
	for i, part := range agg.Parts {
		p, err := r.resolve(part, fmt.Sprintf("%s.parts[%d]", at, i+1), start, depth+1)
		if err != nil {
			return start, err
		}
		parts[i] = p
	}

	if method == MethodIntersect {
		return Intersect(parts, at)
	}
	return Average(parts), nil
}

// Average returns the component-wise mean of x, y and r. The result carries
// default metadata. No parts yield the origin.
func Average(parts []point.Point) point.Point {
	if len(parts) == 0 {
		return point.Point{}
	}
	var x, y, rot float64
	for _, p := range parts {
		x += p.X
		y += p.Y
		rot += p.R
	}
	n := float64(len(parts))
	return point.New(x/n, y/n, rot/n)
}

// Intersect treats each of exactly two points as a line through its position
// pointing along its local Y axis and returns their intersection with r = 0.
// at is used for error breadcrumbs.
func Intersect(parts []point.Point, at string) (point.Point, error) {
	if len(parts) != 2 {
		return point.Point{}, errors.InvalidAnchor(at, "intersect expects exactly two parts, but got %d", len(parts))
	}
	p1, p2 := parts[0], parts[1]
	d1 := point.RotateVec([2]float64{0, 1}, p1.R)
	d2 := point.RotateVec([2]float64{0, 1}, p2.R)

	denom := cross(d1, d2)
	if math.Abs(denom) < parallelTolerance {
		return point.Point{}, errors.InvalidAnchor(at, "the parts do not intersect")
	}

	diff := [2]float64{p2.X - p1.X, p2.Y - p1.Y}
	t := cross(diff, d2) / denom
	return point.XY(p1.X+t*d1[0], p1.Y+t*d1[1]), nil
}

func cross(a, b [2]float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}
