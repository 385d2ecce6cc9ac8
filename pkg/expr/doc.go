// Package expr evaluates the arithmetic expressions used throughout layout
// files: unit definitions such as "u - 1", shifts such as ["0.5U", "-cy"] and
// rotations such as "splay / 2".
//
// # Evaluation
//
// [Eval] runs three steps:
//
//  1. Normalization. The source is tokenized and a "*" is inserted wherever
//     multiplication is implied: "4.5U", "2(U+1)", "(a)(b)" and "U(2)" all
//     become explicit products. A name directly followed by "(" is kept as a
//     function call only when it is one of the builtin math functions (see
//     [Functions]). Numbers are rewritten in plain decimal form, so ".5" and
//     "5e-1" both become "0.5". "^" is accepted as the power operator.
//  2. Identifier rewriting. Every name that is not a function call is looked
//     up in the supplied [Lookup] and bound under a synthetic parameter name,
//     which lets unit names contain "$" (as in "$default_spread"). The
//     constants "pi" and "e" are available unless shadowed by a unit. Any
//     other name fails with an UNKNOWN_VARIABLE error.
//  3. Parsing and evaluation with github.com/Knetic/govaluate. A parse
//     failure is INVALID_EXPRESSION; a runtime failure or a non-numeric
//     result is EVAL_ERROR.
//
// Trigonometric functions work in radians.
//
// # Scalars
//
// Configuration values are either numbers or expression strings. [Scalar]
// models both; numbers pass through [Evaluate] untouched.
//
// # Example
//
//	vars := expr.Vars{"U": 19.05, "cx": 18}
//	v, err := expr.Eval("points.a.shift", "2U + cx", vars)
//	// v == 56.1
package expr
