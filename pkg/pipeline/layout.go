package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/keygrid/pkg/anchor"
	"github.com/matzehuels/keygrid/pkg/config"
	"github.com/matzehuels/keygrid/pkg/dag"
	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/observability"
	"github.com/matzehuels/keygrid/pkg/point"
	"github.com/matzehuels/keygrid/pkg/units"
)

// PlacementSeparator joins a placement name and the point it was placed on.
const PlacementSeparator = "@"

// Resolution is the outcome of the resolve stage.
type Resolution struct {
	Units      *units.Table
	Points     map[string]point.Point
	Order      []string
	MirrorAxis *float64
	Graph      *dag.DAG

	PointCount     int
	MirrorCount    int
	PlacementCount int
}

// Resolve builds the units table of l and resolves its points, mirrored
// copies and placements, in that order.
//
// Points are resolved in file order starting from the origin, so a point can
// only reference points declared before it (or seed points). Every mirrored
// copy is named with the "mirror_" prefix. Each placement is resolved once
// per listed point, starting from that point and mirrored when that point
// is, and is named "<placement>@<point>".
func Resolve(ctx context.Context, l *config.Layout, opts Options) (*Resolution, error) {
	opts.SetResolveDefaults()
	s := &resolver{
		ctx:  ctx,
		opts: opts,
		res: &Resolution{
			Points: make(map[string]point.Point),
			Graph:  dag.New(nil),
		},
	}

	if err := stage(ctx, "units", func() (int, error) { return s.units(l) }); err != nil {
		return nil, fmt.Errorf("units: %w", err)
	}
	if err := stage(ctx, "points", func() (int, error) { return s.points(l.Points) }); err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	if l.Mirror != nil && !opts.NoMirror {
		if err := stage(ctx, "mirror", func() (int, error) { return s.mirror(l.Mirror) }); err != nil {
			return nil, fmt.Errorf("mirror: %w", err)
		}
	}
	if err := stage(ctx, "placements", func() (int, error) { return s.placements(l.Placements) }); err != nil {
		return nil, fmt.Errorf("placements: %w", err)
	}

	g := s.res.Graph
	g.AssignRows()
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reference graph")
	}
	return s.res, nil
}

// stage runs fn between the pipeline hooks. fn returns the number of items
// it produced.
func stage(ctx context.Context, name string, fn func() (int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	n, err := fn()
	hooks.OnStageComplete(ctx, name, n, time.Since(start), err)
	return err
}

type resolver struct {
	ctx      context.Context
	opts     Options
	res      *Resolution
	namer    anchor.PrefixNamer
	declared []string
}

func (s *resolver) anchors(mirror bool) *anchor.Resolver {
	return &anchor.Resolver{
		Points:   s.res.Points,
		Units:    s.res.Units,
		Mirror:   mirror,
		Namer:    s.namer,
		MaxDepth: s.opts.MaxDepth,
	}
}

// Units builds the units table of l. overrides are merged over the
// layout's variables and may be nil.
func Units(l *config.Layout, overrides *units.Raw) (*units.Table, error) {
	variables := l.Variables
	if overrides.Len() > 0 {
		variables = l.Variables.Clone()
		variables.Merge(overrides)
	}
	return units.Parse(l.Units, variables)
}

func (s *resolver) units(l *config.Layout) (int, error) {
	table, err := Units(l, s.opts.Variables)
	if err != nil {
		return 0, err
	}
	s.res.Units = table
	return table.Len(), nil
}

func (s *resolver) points(points []config.Point) (int, error) {
	if seed := s.opts.Seed; seed != nil {
		seedPoints, order := seed.PointMap()
		for _, name := range order {
			if err := s.add(name, seedPoints[name], dag.NodeKindSeed, "seed"); err != nil {
				return 0, err
			}
		}
	}

	r := s.anchors(false)
	for _, p := range points {
		if err := s.ctx.Err(); err != nil {
			return s.res.PointCount, err
		}
		at := config.SectionPoints + "." + p.Name
		pt, err := r.Resolve(p.Anchor, at, point.Point{})
		if err != nil {
			observability.Resolve().OnPointFailed(s.ctx, p.Name, err)
			return s.res.PointCount, err
		}
		if err := s.add(p.Name, pt, dag.NodeKindPoint, at); err != nil {
			return s.res.PointCount, err
		}
		if err := s.link(anchor.Refs(p.Anchor, s.res.Units), p.Name, at, false); err != nil {
			return s.res.PointCount, err
		}
		s.declared = append(s.declared, p.Name)
		s.res.PointCount++
	}
	return s.res.PointCount, nil
}

func (s *resolver) mirror(m *config.Mirror) (int, error) {
	axis, refs, err := s.mirrorAxis(m)
	if err != nil {
		return 0, err
	}
	s.res.MirrorAxis = &axis

	for _, name := range s.declared {
		mirrored := s.namer.Mirrored(name)
		if err := s.add(mirrored, s.res.Points[name].Mirror(axis), dag.NodeKindMirror, config.SectionMirror); err != nil {
			return s.res.MirrorCount, err
		}
		if err := s.link(append([]string{name}, refs...), mirrored, config.SectionMirror, false); err != nil {
			return s.res.MirrorCount, err
		}
		s.res.MirrorCount++
	}
	return s.res.MirrorCount, nil
}

// mirrorAxis returns the x of the mirror axis and the points it depends on.
// A bare number or expression is the axis itself; an anchor puts the axis
// distance/2 to the right of the resolved anchor.
func (s *resolver) mirrorAxis(m *config.Mirror) (float64, []string, error) {
	if m.Anchor == nil {
		axis, err := s.res.Units.Eval(config.SectionMirror, m.Distance)
		return axis, nil, err
	}
	ref, err := s.anchors(false).Resolve(*m.Anchor, config.SectionMirror, point.Point{})
	if err != nil {
		return 0, nil, err
	}
	distance, err := s.res.Units.Eval(config.SectionMirror+".distance", m.Distance)
	if err != nil {
		return 0, nil, err
	}
	return ref.X + distance/2, anchor.Refs(*m.Anchor, s.res.Units), nil
}

func (s *resolver) placements(placements []config.Placement) (int, error) {
	for _, pl := range placements {
		at := config.SectionPlacements + "." + pl.Name
		refs := anchor.Refs(pl.Adjust, s.res.Units)
		for i, on := range pl.On {
			if err := s.ctx.Err(); err != nil {
				return s.res.PlacementCount, err
			}
			base, ok := s.res.Points[on]
			if !ok {
				return s.res.PlacementCount, errors.UnknownPointRef(on, fmt.Sprintf("%s.on[%d]", at, i+1))
			}
			mirrored := base.Meta.Mirrored
			name := pl.Name + PlacementSeparator + on
			pt, err := s.anchors(mirrored).Resolve(pl.Adjust, at+".adjust", base)
			if err != nil {
				observability.Resolve().OnPointFailed(s.ctx, name, err)
				return s.res.PlacementCount, err
			}
			if err := s.add(name, pt, dag.NodeKindPlacement, at); err != nil {
				return s.res.PlacementCount, err
			}
			if err := s.link([]string{on}, name, at+".on", false); err != nil {
				return s.res.PlacementCount, err
			}
			if err := s.link(refs, name, at+".adjust", mirrored); err != nil {
				return s.res.PlacementCount, err
			}
			s.res.PlacementCount++
		}
	}
	return s.res.PlacementCount, nil
}

// add records a resolved point. Names are unique across seeds, points,
// mirrored copies and placements.
func (s *resolver) add(name string, p point.Point, kind dag.NodeKind, at string) error {
	if _, exists := s.res.Points[name]; exists {
		return errors.At(errors.ErrCodeInvalidInput, at, "point %q is already defined", name)
	}
	s.res.Points[name] = p
	s.res.Order = append(s.res.Order, name)
	err := s.res.Graph.AddNode(dag.Node{
		ID:   name,
		Kind: kind,
		Meta: dag.Metadata{"x": p.X, "y": p.Y, "r": p.R},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add %q to reference graph", name)
	}
	observability.Resolve().OnPointResolved(s.ctx, name, p.Meta.Mirrored)
	return nil
}

// link adds an edge from every known referenced point to name, which must
// already be in the graph. References are translated through the namer when
// mirror is set; names that never resolved (a rotation fallback that was
// not taken) are skipped.
func (s *resolver) link(refs []string, name, at string, mirror bool) error {
	for _, ref := range refs {
		from := s.namer.MirrorName(ref, mirror)
		if from == name {
			continue
		}
		if _, ok := s.res.Graph.Node(from); !ok {
			continue
		}
		err := s.res.Graph.AddEdge(dag.Edge{From: from, To: name, Meta: dag.Metadata{"at": at}})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "link %q to %q", from, name)
		}
	}
	return nil
}
