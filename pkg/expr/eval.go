package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/matzehuels/keygrid/pkg/errors"
)

// Lookup resolves unit names to values.
type Lookup interface {
	Get(name string) (float64, bool)
}

// Vars is a map-backed Lookup.
type Vars map[string]float64

// Get returns the value bound to name.
func (v Vars) Get(name string) (float64, bool) {
	f, ok := v[name]
	return f, ok
}

// constants are available in every expression unless a unit shadows them.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions lists the builtin math functions, in the order they are
// documented. A name in this list followed by "(" is a call, not a product.
var Functions = []string{"sqrt", "sin", "cos", "tan", "asin", "acos", "atan", "abs", "floor", "ceil", "round"}

var functions = map[string]govaluate.ExpressionFunction{
	"sqrt":  unary("sqrt", math.Sqrt),
	"sin":   unary("sin", math.Sin),
	"cos":   unary("cos", math.Cos),
	"tan":   unary("tan", math.Tan),
	"asin":  unary("asin", math.Asin),
	"acos":  unary("acos", math.Acos),
	"atan":  unary("atan", math.Atan),
	"abs":   unary("abs", math.Abs),
	"floor": unary("floor", math.Floor),
	"ceil":  unary("ceil", math.Ceil),
	"round": unary("round", math.Round),
}

// IsFunction reports whether name is a builtin math function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("%s expects a numeric argument", name)
		}
		return fn(x), nil
	}
}

// Eval evaluates src against vars. key names the config entry being
// evaluated and is attached to any error.
func Eval(key, src string, vars Lookup) (float64, error) {
	if strings.TrimSpace(src) == "" {
		return 0, errors.InvalidExpression(key, src, fmt.Errorf("empty expression"))
	}

	rewritten, params, err := rewrite(key, insertProducts(tokenize(src)), vars)
	if err != nil {
		return 0, err
	}

	expression, err := govaluate.NewEvaluableExpressionWithFunctions(rewritten, functions)
	if err != nil {
		return 0, errors.InvalidExpression(key, src, err)
	}

	result, err := expression.Evaluate(params)
	if err != nil {
		return 0, errors.Eval(key, err.Error())
	}

	f, ok := result.(float64)
	if !ok {
		return 0, errors.Eval(key, fmt.Sprintf("expression %q does not evaluate to a number (got %T)", src, result))
	}
	return f, nil
}

// rewrite binds every referenced name under a synthetic parameter and
// returns the rewritten source together with the parameter values.
func rewrite(key string, toks []token, vars Lookup) (string, map[string]interface{}, error) {
	params := make(map[string]interface{})
	synthetic := make(map[string]string)

	out := make([]token, len(toks))
	for i, t := range toks {
		out[i] = t
		if t.kind != tokIdent {
			continue
		}
		if i+1 < len(toks) && toks[i+1].kind == tokLParen {
			continue // function call
		}

		name, seen := synthetic[t.text]
		if !seen {
			v, ok := lookup(t.text, vars)
			if !ok {
				return "", nil, errors.UnknownVariable(key, t.text)
			}
			name = "v" + strconv.Itoa(len(synthetic))
			synthetic[t.text] = name
			params[name] = v
		}
		out[i] = token{tokIdent, name}
	}
	return join(out), params, nil
}

func lookup(name string, vars Lookup) (float64, bool) {
	if vars != nil {
		if v, ok := vars.Get(name); ok {
			return v, true
		}
	}
	v, ok := constants[name]
	return v, ok
}
