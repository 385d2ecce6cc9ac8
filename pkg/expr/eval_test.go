package expr

import (
	"math"
	"testing"

	"github.com/matzehuels/keygrid/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4.5U", "4.5 * U"},
		{"2(U+1)", "2 * ( U + 1 )"},
		{"(a)(b)", "( a ) * ( b )"},
		{"(a)b", "( a ) * b"},
		{"(a)2", "( a ) * 2"},
		{"U(2)", "U * ( 2 )"},
		{"sqrt(2)", "sqrt ( 2 )"},
		{"2sqrt(2)", "2 * sqrt ( 2 )"},
		{"a b", "a * b"},
		{"u - 1", "u - 1"},
		{".5", "0.5"},
		{".5U", "0.5 * U"},
		{"1e3", "1000"},
		{"2.5e-1u", "0.25 * u"},
		{"2e", "2 * e"},
		{"2^3", "2 ** 3"},
		{"a**b", "a ** b"},
		{"$default_spread/2", "$default_spread / 2"},
		{"-cy", "- cy"},
		{"2*-3", "2 * - 3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEval(t *testing.T) {
	vars := Vars{
		"U":               19.05,
		"u":               19,
		"cx":              18,
		"$default_spread": 19,
		"e":               7, // shadows the builtin constant
	}

	tests := []struct {
		expr string
		want float64
	}{
		{"1", 1},
		{"u - 1", 18},
		{"2*U + cx", 56.1},
		{"2U + cx", 56.1},
		{"4.5U", 85.725},
		{"2(u+1)", 40},
		{"(u)(2)", 38},
		{".5u", 9.5},
		{"$default_spread / 2", 9.5},
		{"-cx", -18},
		{"2 * -3", -6},
		{"2^3", 8},
		{"7 % 4", 3},
		{"pi", math.Pi},
		{"e", 7},
		{"sqrt(16)", 4},
		{"2sqrt(16)", 8},
		{"abs(-3.5)", 3.5},
		{"floor(2.7) + ceil(2.1)", 5},
		{"round(2.5)", 3},
		{"cos(0)", 1},
		{"atan(1) * 4", math.Pi},
		{"u / 2 + u / 2", 19},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval("test", tt.expr, vars)
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalBuiltinConstantE(t *testing.T) {
	got, err := Eval("test", "e", nil)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}
	if got != math.E {
		t.Errorf("e = %v, want %v", got, math.E)
	}
}

func TestEvalErrors(t *testing.T) {
	vars := Vars{"u": 19}

	tests := []struct {
		name string
		expr string
		code errors.Code
	}{
		{"unknown variable", "u + kx", errors.ErrCodeUnknownVariable},
		{"unknown name before paren", "foo(2)", errors.ErrCodeUnknownVariable},
		{"empty", "   ", errors.ErrCodeInvalidExpression},
		{"dangling operator", "u +", errors.ErrCodeInvalidExpression},
		{"unbalanced", "(u + 1", errors.ErrCodeInvalidExpression},
		{"function arity", "sqrt(1, 2)", errors.ErrCodeEval},
		{"boolean result", "u > 1", errors.ErrCodeEval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval("units.x", tt.expr, vars)
			if err == nil {
				t.Fatalf("Eval(%q) expected error", tt.expr)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Eval(%q) code = %v, want %v (%v)", tt.expr, errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestEvalUnknownVariableCarriesName(t *testing.T) {
	_, err := Eval("units.gap", "2 * missing", Vars{})
	if err == nil {
		t.Fatal("expected error")
	}
	want := `UNKNOWN_VARIABLE: units.gap: unknown variable "missing"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestEvaluateScalar(t *testing.T) {
	got, err := Evaluate("k", Num(3.25), nil)
	if err != nil || got != 3.25 {
		t.Errorf("Evaluate(Num) = %v, %v", got, err)
	}

	got, err = Evaluate("k", Expr("u/2"), Vars{"u": 19})
	if err != nil || got != 9.5 {
		t.Errorf("Evaluate(Expr) = %v, %v", got, err)
	}
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Scalar
		ok   bool
	}{
		{"float", 1.5, Num(1.5), true},
		{"int", 3, Num(3), true},
		{"int64", int64(4), Num(4), true},
		{"string", "u-1", Expr("u-1"), true},
		{"bool", true, Scalar{}, false},
		{"nil", nil, Scalar{}, false},
		{"slice", []any{1}, Scalar{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromValue(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FromValue(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScalarString(t *testing.T) {
	if got := Num(19.05).String(); got != "19.05" {
		t.Errorf("Num.String() = %q", got)
	}
	if got := Expr("u-1").String(); got != "u-1" {
		t.Errorf("Expr.String() = %q", got)
	}
}
