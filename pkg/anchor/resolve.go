package anchor

import (
	"fmt"

	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/expr"
	"github.com/matzehuels/keygrid/pkg/point"
)

// Resolver resolves anchors against a fixed set of known points.
type Resolver struct {
	// Points holds every point resolved so far. It is never modified.
	Points map[string]point.Point
	// Units is used for shift and rotation expressions.
	Units expr.Lookup
	// Mirror selects the mirrored half: string references go through Namer.
	Mirror bool
	// Namer translates references when Mirror is set. Nil means PrefixNamer{}.
	Namer Namer
	// MaxDepth bounds the nesting of anchors. Zero means unlimited.
	MaxDepth int
}

// Resolve resolves cfg starting from start. name is the config path of cfg,
// used as the prefix of error breadcrumbs.
func Resolve(cfg Config, name string, points map[string]point.Point, start point.Point, units expr.Lookup, mirror bool) (point.Point, error) {
	r := &Resolver{Points: points, Units: units, Mirror: mirror}
	return r.Resolve(cfg, name, start)
}

// Resolve resolves cfg starting from start.
func (r *Resolver) Resolve(cfg Config, name string, start point.Point) (point.Point, error) {
	return r.resolve(cfg, name, start, 0)
}

func (r *Resolver) resolve(cfg Config, at string, start point.Point, depth int) (point.Point, error) {
	if r.MaxDepth > 0 && depth > r.MaxDepth {
		return start, errors.InvalidAnchor(at, "anchor is too deeply nested (max depth %d)", r.MaxDepth)
	}

	switch cfg.Kind {
	case KindRef:
		return r.lookup(cfg.Ref, at)

	case KindSequence:
		current := start
		for i, step := range cfg.Steps {
			p, err := r.resolve(step, fmt.Sprintf("%s[%d]", at, i+1), current, depth+1)
			if err != nil {
				return start, err
			}
			current = p
		}
		return current, nil

	case KindMap:
		return r.resolveAnchor(cfg.Anchor, at, start, depth)
	}
	return start, errors.InvalidAnchor(at, "unknown anchor kind %d", int(cfg.Kind))
}

func (r *Resolver) resolveAnchor(a *Anchor, at string, start point.Point, depth int) (point.Point, error) {
	if a == nil {
		return start, nil
	}
	if a.Ref != nil && a.Aggregate != nil {
		return start, errors.InvalidAnchor(at, `fields "ref" and "aggregate" are mutually exclusive`)
	}

	var err error
	p := start

	switch {
	case a.Ref != nil:
		if a.Ref.Kind == KindRef {
			p, err = r.lookup(a.Ref.Ref, at+".ref")
		} else {
			p, err = r.resolve(*a.Ref, at+".ref", start, depth+1)
		}
	case a.Aggregate != nil:
		p, err = r.aggregate(a.Aggregate, at+".aggregate", start, depth)
	}
	if err != nil {
		return start, err
	}

	if a.Orient != nil {
		if p, err = r.rotator(a.Orient, at+".orient", p, start, a.Resist, depth); err != nil {
			return start, err
		}
	}

	if a.Shift != nil {
		var delta [2]float64
		for i, s := range a.Shift {
			if delta[i], err = expr.Evaluate(at+".shift", s, r.Units); err != nil {
				return start, err
			}
		}
		p = p.Shift(delta, true, a.Resist)
	}

	if a.Rotate != nil {
		if p, err = r.rotator(a.Rotate, at+".rotate", p, start, a.Resist, depth); err != nil {
			return start, err
		}
	}

	if a.Affect != nil {
		candidate := p
		p = start
		p.Meta = candidate.Meta
		if a.Affect.X {
			p.X = candidate.X
		}
		if a.Affect.Y {
			p.Y = candidate.Y
		}
		if a.Affect.R {
			p.R = candidate.R
		}
	}

	return p, nil
}

// rotator applies an orient or rotate field to p. Targets are resolved from
// the anchor's start, not from p.
func (r *Resolver) rotator(rot *Rotation, at string, p, start point.Point, resist bool, depth int) (point.Point, error) {
	switch rot.Kind {
	case RotateNumber:
		return p.Rotate(rot.Angle, nil, resist), nil

	case RotateExpr:
		if angle, err := expr.Eval(at, rot.Expr, r.Units); err == nil {
			return p.Rotate(angle, nil, resist), nil
		}
		return r.face(Ref(rot.Expr), at, p, start, depth)

	case RotateTarget:
		if rot.Target == nil {
			return p, errors.InvalidAnchor(at, "rotation target is missing")
		}
		return r.face(*rot.Target, at, p, start, depth)
	}
	return p, errors.InvalidAnchor(at, "unknown rotation kind %d", int(rot.Kind))
}

// face turns p towards the resolved target. Only R changes.
func (r *Resolver) face(target Config, at string, p, start point.Point, depth int) (point.Point, error) {
	t, err := r.resolve(target, at, start, depth+1)
	if err != nil {
		return p, err
	}
	p.R = p.AngleTo(t)
	return p, nil
}

func (r *Resolver) lookup(ref, at string) (point.Point, error) {
	name := r.namer().MirrorName(ref, r.Mirror)
	p, ok := r.Points[name]
	if !ok {
		return point.Point{}, errors.UnknownPointRef(name, at)
	}
	return p, nil
}

func (r *Resolver) namer() Namer {
	if r.Namer == nil {
		return PrefixNamer{}
	}
	return r.Namer
}
