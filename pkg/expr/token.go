package expr

import (
	"strconv"
	"strings"
	"unicode"
)

// tokenKind classifies the lexemes relevant for implicit multiplication.
type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokLParen
	tokRParen
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// operators that must stay a single token; "^" is mapped onto "**".
var multiCharOps = []string{"**", "<=", ">=", "==", "!=", "&&", "||", "<<", ">>", "??"}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// tokenize splits src into tokens. Whitespace is dropped. It never fails;
// characters it does not understand become tokOther and are left for the
// grammar to reject.
func tokenize(src string) []token {
	rs := []rune(src)
	var toks []token

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case isDigit(r) || (r == '.' && i+1 < len(rs) && isDigit(rs[i+1])):
			start := i
			for i < len(rs) && isDigit(rs[i]) {
				i++
			}
			if i < len(rs) && rs[i] == '.' {
				i++
				for i < len(rs) && isDigit(rs[i]) {
					i++
				}
			}
			// exponent only when digits follow, so "2e" stays "2*e"
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && isDigit(rs[j]) {
					for j < len(rs) && isDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{tokNumber, canonicalNumber(string(rs[start:i]))})

		case isIdentStart(r):
			start := i
			for i < len(rs) && isIdentPart(rs[i]) {
				i++
			}
			toks = append(toks, token{tokIdent, string(rs[start:i])})

		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++

		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++

		case r == '^':
			toks = append(toks, token{tokOther, "**"})
			i++

		default:
			op := string(r)
			for _, m := range multiCharOps {
				if strings.HasPrefix(string(rs[i:]), m) {
					op = m
					break
				}
			}
			toks = append(toks, token{tokOther, op})
			i += len([]rune(op))
		}
	}
	return toks
}

// canonicalNumber renders a numeric literal in plain decimal form, which the
// grammar requires (leading digit, no exponent).
func canonicalNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// implicitProduct reports whether a "*" belongs between a and b.
func implicitProduct(a, b token) bool {
	switch {
	case (a.kind == tokNumber || a.kind == tokIdent || a.kind == tokRParen) &&
		(b.kind == tokIdent || b.kind == tokNumber):
		return true
	case (a.kind == tokNumber || a.kind == tokRParen) && b.kind == tokLParen:
		return true
	case a.kind == tokIdent && b.kind == tokLParen:
		return !IsFunction(a.text)
	}
	return false
}

// insertProducts returns toks with explicit multiplication operators.
func insertProducts(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, t := range toks {
		if i > 0 && implicitProduct(toks[i-1], t) {
			out = append(out, token{tokOther, "*"})
		}
		out = append(out, t)
	}
	return out
}

func join(toks []token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.text
	}
	return strings.Join(parts, " ")
}

// Normalize returns src with implied multiplication made explicit and
// numbers in canonical form, tokens separated by single spaces.
//
//	Normalize("4.5U")    // "4.5 * U"
//	Normalize(".5(a+1)") // "0.5 * ( a + 1 )"
func Normalize(src string) string {
	return join(insertProducts(tokenize(src)))
}
