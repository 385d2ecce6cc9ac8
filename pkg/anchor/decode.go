package anchor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/keygrid/pkg/errors"
	"github.com/matzehuels/keygrid/pkg/expr"
)

var anchorKeys = map[string]bool{
	"ref":       true,
	"aggregate": true,
	"orient":    true,
	"shift":     true,
	"rotate":    true,
	"affect":    true,
	"resist":    true,
}

// Decode builds a Config from a value produced by a YAML, JSON or TOML
// decoder. at is the config path of raw, used for error breadcrumbs.
// A nil value decodes to the empty anchor.
func Decode(raw any, at string) (Config, error) {
	switch v := raw.(type) {
	case nil:
		return Empty(), nil
	case string:
		return Ref(v), nil
	case []any:
		steps := make([]Config, len(v))
		for i, item := range v {
			step, err := Decode(item, fmt.Sprintf("%s[%d]", at, i+1))
			if err != nil {
				return Config{}, err
			}
			steps[i] = step
		}
		return Seq(steps...), nil
	case map[string]any:
		a, err := decodeAnchor(v, at)
		if err != nil {
			return Config{}, err
		}
		return Of(a), nil
	}
	return Config{}, errors.InvalidAnchor(at, "anchor must be a string, a list or a map, not %s", typeName(raw))
}

func decodeAnchor(m map[string]any, at string) (Anchor, error) {
	var a Anchor
	if err := checkKeys(m, anchorKeys, at); err != nil {
		return a, err
	}

	if v, ok := m["ref"]; ok {
		ref, err := Decode(v, at+".ref")
		if err != nil {
			return a, err
		}
		a.Ref = &ref
	}

	if v, ok := m["aggregate"]; ok {
		agg, err := decodeAggregate(v, at+".aggregate")
		if err != nil {
			return a, err
		}
		a.Aggregate = agg
	}

	if a.Ref != nil && a.Aggregate != nil {
		return a, errors.InvalidAnchor(at, `fields "ref" and "aggregate" are mutually exclusive`)
	}

	var err error
	if v, ok := m["orient"]; ok {
		if a.Orient, err = decodeRotation(v, at+".orient"); err != nil {
			return a, err
		}
	}
	if v, ok := m["shift"]; ok {
		if a.Shift, err = decodeShift(v, at+".shift"); err != nil {
			return a, err
		}
	}
	if v, ok := m["rotate"]; ok {
		if a.Rotate, err = decodeRotation(v, at+".rotate"); err != nil {
			return a, err
		}
	}
	if v, ok := m["affect"]; ok {
		if a.Affect, err = decodeAffect(v, at+".affect"); err != nil {
			return a, err
		}
	}
	if v, ok := m["resist"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return a, errors.InvalidAnchor(at+".resist", "resist must be a boolean, not %s", typeName(v))
		}
		a.Resist = b
	}
	return a, nil
}

func decodeAggregate(raw any, at string) (*Aggregate, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.InvalidAnchor(at, "aggregate must be a map, not %s", typeName(raw))
	}
	if err := checkKeys(m, map[string]bool{"parts": true, "method": true}, at); err != nil {
		return nil, err
	}

	agg := &Aggregate{Method: MethodAverage}
	if v, ok := m["method"]; ok {
		s, isString := v.(string)
		switch Method(s) {
		case MethodAverage, MethodIntersect:
			agg.Method = Method(s)
		default:
			if !isString {
				return nil, errors.InvalidAnchor(at+".method", "method must be a string, not %s", typeName(v))
			}
			return nil, errors.InvalidAnchor(at+".method", "unknown aggregate method %q (must be average or intersect)", s)
		}
	}

	if v, ok := m["parts"]; ok {
		parts, isList := v.([]any)
		if !isList {
			return nil, errors.InvalidAnchor(at+".parts", "parts must be a list, not %s", typeName(v))
		}
		for i, part := range parts {
			cfg, err := Decode(part, fmt.Sprintf("%s.parts[%d]", at, i+1))
			if err != nil {
				return nil, err
			}
			agg.Parts = append(agg.Parts, cfg)
		}
	}
	return agg, nil
}

// decodeRotation applies the fixed trial order: numbers are angles, strings
// are expressions (with a reference fallback at resolve time), lists and
// maps are target anchors.
func decodeRotation(raw any, at string) (*Rotation, error) {
	switch v := raw.(type) {
	case string:
		return AngleExpr(v), nil
	case []any, map[string]any:
		target, err := Decode(v, at)
		if err != nil {
			return nil, err
		}
		return Toward(target), nil
	}
	if s, ok := expr.FromValue(raw); ok {
		return Angle(s.Num), nil
	}
	return nil, errors.InvalidAnchor(at, "rotation must be a number, an expression or an anchor, not %s", typeName(raw))
}

func decodeShift(raw any, at string) (*[2]expr.Scalar, error) {
	if s, ok := expr.FromValue(raw); ok {
		return Shift(s, s), nil
	}
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return nil, errors.InvalidAnchor(at, "shift must be a scalar or a pair of scalars")
	}
	var out [2]expr.Scalar
	for i, item := range list {
		s, ok := expr.FromValue(item)
		if !ok {
			return nil, errors.InvalidAnchor(fmt.Sprintf("%s[%d]", at, i+1), "shift component must be a number or an expression, not %s", typeName(item))
		}
		out[i] = s
	}
	return &out, nil
}

func decodeAffect(raw any, at string) (*Axes, error) {
	var letters []string
	switch v := raw.(type) {
	case string:
		letters = strings.Split(v, "")
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.InvalidAnchor(at, "affect entries must be strings, not %s", typeName(item))
			}
			letters = append(letters, s)
		}
	default:
		return nil, errors.InvalidAnchor(at, "affect must be a string or a list, not %s", typeName(raw))
	}

	axes := &Axes{}
	for _, l := range letters {
		switch l {
		case "x":
			axes.X = true
		case "y":
			axes.Y = true
		case "r":
			axes.R = true
		default:
			return nil, errors.InvalidAnchor(at, "unexpected axis %q (must be x, y or r)", l)
		}
	}
	return axes, nil
}

func checkKeys(m map[string]any, allowed map[string]bool, at string) error {
	var unexpected []string
	for k := range m {
		if !allowed[k] {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) == 0 {
		return nil
	}
	sort.Strings(unexpected)
	return errors.InvalidAnchor(at, "unexpected key %q", unexpected[0])
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case []any:
		return "a list"
	case map[string]any:
		return "a map"
	}
	if _, ok := expr.FromValue(v); ok {
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}
