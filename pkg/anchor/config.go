package anchor

import (
	"strings"

	"github.com/matzehuels/keygrid/pkg/expr"
)

// Kind distinguishes the three shapes of a Config.
type Kind int

const (
	// KindRef is the string shorthand for {ref: name}.
	KindRef Kind = iota
	// KindSequence is a pipeline of steps.
	KindSequence
	// KindMap is a full anchor with optional fields.
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Config is one node of an anchor tree. Only the field matching Kind is used.
// The zero value is a reference to the empty name.
type Config struct {
	Kind   Kind
	Ref    string
	Steps  []Config
	Anchor *Anchor
}

// Ref returns the shorthand reference to a named point.
func Ref(name string) Config {
	return Config{Kind: KindRef, Ref: name}
}

// Seq returns a sequence of steps.
func Seq(steps ...Config) Config {
	return Config{Kind: KindSequence, Steps: steps}
}

// Of wraps a map anchor.
func Of(a Anchor) Config {
	return Config{Kind: KindMap, Anchor: &a}
}

// Empty returns the identity anchor: it resolves to its start point.
func Empty() Config {
	return Of(Anchor{})
}

// Anchor holds the fields of a map-shaped configuration. Nil fields are
// absent.
type Anchor struct {
	Ref       *Config
	Aggregate *Aggregate
	Orient    *Rotation
	Shift     *[2]expr.Scalar
	Rotate    *Rotation
	Affect    *Axes
	Resist    bool
}

// Method selects how aggregate parts are combined.
type Method string

const (
	// MethodAverage takes the component-wise mean of x, y and r.
	MethodAverage Method = "average"
	// MethodIntersect intersects the rays of exactly two parts.
	MethodIntersect Method = "intersect"
)

// Aggregate combines several anchors into one point. An empty Method means
// MethodAverage.
type Aggregate struct {
	Parts  []Config
	Method Method
}

// RotationKind is the variant of a Rotation.
type RotationKind int

const (
	// RotateNumber adds a fixed angle.
	RotateNumber RotationKind = iota
	// RotateExpr evaluates an expression, falling back to a reference.
	RotateExpr
	// RotateTarget turns to face a nested anchor.
	RotateTarget
)

// Rotation is the value of an orient or rotate field. The variants are tried
// in a fixed order: number, expression, anchor.
type Rotation struct {
	Kind   RotationKind
	Angle  float64
	Expr   string
	Target *Config
}

// Angle returns a fixed rotation.
func Angle(deg float64) *Rotation {
	return &Rotation{Kind: RotateNumber, Angle: deg}
}

// AngleExpr returns a rotation given as an expression or point name.
func AngleExpr(src string) *Rotation {
	return &Rotation{Kind: RotateExpr, Expr: src}
}

// Toward returns a rotation that faces the resolved target.
func Toward(target Config) *Rotation {
	return &Rotation{Kind: RotateTarget, Target: &target}
}

// Shift returns a shift field from two scalars.
func Shift(x, y expr.Scalar) *[2]expr.Scalar {
	return &[2]expr.Scalar{x, y}
}

// ShiftBy returns a numeric shift field.
func ShiftBy(x, y float64) *[2]expr.Scalar {
	return Shift(expr.Num(x), expr.Num(y))
}

// Axes is the set of axes an anchor is allowed to change.
type Axes struct {
	X, Y, R bool
}

// Only returns an Axes set from a string of axis letters such as "xy" or
// "r". Letters other than x, y and r are ignored; Decode validates them.
func Only(letters string) *Axes {
	a := &Axes{}
	a.X = strings.Contains(letters, "x")
	a.Y = strings.Contains(letters, "y")
	a.R = strings.Contains(letters, "r")
	return a
}

// String returns the axis letters in x, y, r order.
func (a Axes) String() string {
	var b strings.Builder
	if a.X {
		b.WriteByte('x')
	}
	if a.Y {
		b.WriteByte('y')
	}
	if a.R {
		b.WriteByte('r')
	}
	return b.String()
}
