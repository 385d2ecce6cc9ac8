package anchor

import "github.com/matzehuels/keygrid/pkg/expr"

// Refs returns the point names cfg references, in first-seen order and
// without duplicates. Names are reported as written, before mirror
// translation. Rotation strings that evaluate against units are angles, not
// references.
func Refs(cfg Config, units expr.Lookup) []string {
	var c collector
	c.units = units
	c.seen = make(map[string]bool)
	c.walk(cfg)
	return c.names
}

type collector struct {
	units expr.Lookup
	seen  map[string]bool
	names []string
}

func (c *collector) add(name string) {
	if !c.seen[name] {
		c.seen[name] = true
		c.names = append(c.names, name)
	}
}

func (c *collector) walk(cfg Config) {
	switch cfg.Kind {
	case KindRef:
		c.add(cfg.Ref)
	case KindSequence:
		for _, step := range cfg.Steps {
			c.walk(step)
		}
	case KindMap:
		a := cfg.Anchor
		if a == nil {
			return
		}
		if a.Ref != nil {
			c.walk(*a.Ref)
		}
		if a.Aggregate != nil {
			for _, part := range a.Aggregate.Parts {
				c.walk(part)
			}
		}
		c.rotation(a.Orient)
		c.rotation(a.Rotate)
	}
}

func (c *collector) rotation(rot *Rotation) {
	if rot == nil {
		return
	}
	switch rot.Kind {
	case RotateExpr:
		if _, err := expr.Eval("", rot.Expr, c.units); err != nil {
			c.add(rot.Expr)
		}
	case RotateTarget:
		if rot.Target != nil {
			c.walk(*rot.Target)
		}
	}
}
