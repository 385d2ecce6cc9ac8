// Package point provides the positioned, oriented 2D point that every
// layout stage produces and consumes.
//
// A [Point] is a plain value: all operations return a transformed copy and
// never modify the receiver. Angles are in degrees, counter-clockwise, with
// R = 0 meaning the point "faces up" (along +Y). R is never normalized into
// [0, 360); callers compare and consume it directly.
//
// # Mirroring
//
// Points on the reflected half of a symmetric layout carry Meta.Mirrored.
// For such points [Point.Shift] negates the x component of a delta and
// [Point.Rotate] negates the angle, so that a single anchor description
// produces symmetric results on both halves. Passing resist = true
// suppresses the sign flip.
package point

import (
	"fmt"
	"math"
)

// Meta carries informational state through transforms.
type Meta struct {
	// Mirrored marks points on the reflected half of the layout.
	// Only [Point.Mirror] sets it.
	Mirrored bool `json:"mirrored"`
}

// Point is a position with an orientation.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	R    float64 `json:"r"` // degrees, CCW, unbounded
	Meta Meta    `json:"meta"`
}

// New returns a point at (x, y) with rotation r.
func New(x, y, r float64) Point {
	return Point{X: x, Y: y, R: r}
}

// XY returns an unrotated point at (x, y).
func XY(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Pos returns the position as a vector.
func (p Point) Pos() [2]float64 {
	return [2]float64{p.X, p.Y}
}

// Shift moves the point by delta.
//
// On a mirrored point the x component is negated first unless resist is set.
// When relative is true the delta is expressed in the point's local frame and
// is rotated by the current R before being added.
func (p Point) Shift(delta [2]float64, relative, resist bool) Point {
	if p.Meta.Mirrored && !resist {
		delta[0] = -delta[0]
	}
	if relative {
		delta = RotateVec(delta, p.R)
	}
	p.X += delta[0]
	p.Y += delta[1]
	return p
}

// Rotate turns the point by angle degrees.
//
// On a mirrored point the angle is negated unless resist is set. If origin is
// non-nil the position is rotated about it as well; with a nil origin only R
// changes.
func (p Point) Rotate(angle float64, origin *[2]float64, resist bool) Point {
	if p.Meta.Mirrored && !resist {
		angle = -angle
	}
	if origin != nil {
		pos := RotateAbout(p.Pos(), angle, *origin)
		p.X, p.Y = pos[0], pos[1]
	}
	p.R += angle
	return p
}

// Mirror reflects the point across the vertical line x = axisX and marks it
// as mirrored. The orientation is negated (r = -r).
func (p Point) Mirror(axisX float64) Point {
	p.X = 2*axisX - p.X
	p.R = -p.R
	if p.R == 0 {
		p.R = 0 // drop the sign of -0
	}
	p.Meta.Mirrored = true
	return p
}

// AngleTo returns the orientation, in degrees, that makes p face other.
// It uses -atan2(dx, dy) so that 0 means "up" and positive angles turn
// counter-clockwise.
func (p Point) AngleTo(other Point) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return -math.Atan2(dx, dy) * 180 / math.Pi
}

// Equal reports whether both points agree on X, Y and R within eps.
// Meta is compared exactly.
func (p Point) Equal(other Point, eps float64) bool {
	return math.Abs(p.X-other.X) <= eps &&
		math.Abs(p.Y-other.Y) <= eps &&
		math.Abs(p.R-other.R) <= eps &&
		p.Meta == other.Meta
}

// String formats the point as "(x, y, r°)".
func (p Point) String() string {
	s := fmt.Sprintf("(%g, %g, %g°)", p.X, p.Y, p.R)
	if p.Meta.Mirrored {
		s += " mirrored"
	}
	return s
}

// RotateVec rotates v counter-clockwise by deg degrees about the origin.
func RotateVec(v [2]float64, deg float64) [2]float64 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return [2]float64{
		v[0]*cos - v[1]*sin,
		v[0]*sin + v[1]*cos,
	}
}

// RotateAbout rotates v counter-clockwise by deg degrees about origin.
func RotateAbout(v [2]float64, deg float64, origin [2]float64) [2]float64 {
	rel := RotateVec([2]float64{v[0] - origin[0], v[1] - origin[1]}, deg)
	return [2]float64{rel[0] + origin[0], rel[1] + origin[1]}
}
