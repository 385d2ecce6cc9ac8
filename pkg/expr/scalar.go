package expr

import "strconv"

// Scalar is a configuration value that is either a number or an expression.
type Scalar struct {
	Num    float64
	Src    string
	IsExpr bool
}

// Num returns a numeric scalar.
func Num(f float64) Scalar { return Scalar{Num: f} }

// Expr returns an expression scalar.
func Expr(src string) Scalar { return Scalar{Src: src, IsExpr: true} }

// String renders the scalar as it would appear in a layout file.
func (s Scalar) String() string {
	if s.IsExpr {
		return s.Src
	}
	return strconv.FormatFloat(s.Num, 'g', -1, 64)
}

// Evaluate returns the numeric value of s. Numbers pass through untouched.
func Evaluate(key string, s Scalar, vars Lookup) (float64, error) {
	if !s.IsExpr {
		return s.Num, nil
	}
	return Eval(key, s.Src, vars)
}

// FromValue converts a decoded configuration value into a Scalar. It accepts
// every numeric type produced by the YAML, JSON and TOML decoders, and
// strings. ok is false for anything else.
func FromValue(v any) (s Scalar, ok bool) {
	switch n := v.(type) {
	case float64:
		return Num(n), true
	case float32:
		return Num(float64(n)), true
	case int:
		return Num(float64(n)), true
	case int64:
		return Num(float64(n)), true
	case int32:
		return Num(float64(n)), true
	case uint64:
		return Num(float64(n)), true
	case uint:
		return Num(float64(n)), true
	case string:
		return Expr(n), true
	}
	return Scalar{}, false
}
