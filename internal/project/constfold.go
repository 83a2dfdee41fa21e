package project

import (
	"strconv"

	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
)

// evalConstInt folds the small constant-integer expression grammar legal
// in an array type's size position (§4.4 pass 3: "may involve constant
// folding for array sizes"). It only needs to understand integer
// literals, parens, and +/-/*//%  over them — full expression constant
// folding for initializers lives in the analyzer, which runs after
// every type (and therefore every array size) is already known.
func evalConstInt(e syntax.Expr) (int64, bool) {
	switch e.Kind() {
	case token.LIT_EXPR:
		tok, ok := e.LitToken()
		if !ok || tok.Kind() != token.INT_NUMBER {
			return 0, false
		}
		v, err := parseIntLiteral(tok.Text())
		if err != nil {
			return 0, false
		}
		return v, true

	case token.PAREN_EXPR:
		inner, ok := e.Inner()
		if !ok {
			return 0, false
		}
		return evalConstInt(inner)

	case token.UNARY_EXPR:
		op, ok := e.Op()
		operand, ok2 := e.Operand()
		if !ok || !ok2 {
			return 0, false
		}
		v, ok3 := evalConstInt(operand)
		if !ok3 {
			return 0, false
		}
		switch op.Kind() {
		case token.MINUS:
			return -v, true
		case token.PLUS:
			return v, true
		default:
			return 0, false
		}

	case token.BINARY_EXPR:
		op, ok := e.Op()
		lhs, ok2 := e.LHS()
		rhs, ok3 := e.RHS()
		if !ok || !ok2 || !ok3 {
			return 0, false
		}
		a, oka := evalConstInt(lhs)
		b, okb := evalConstInt(rhs)
		if !oka || !okb {
			return 0, false
		}
		switch op.Kind() {
		case token.PLUS:
			return a + b, true
		case token.MINUS:
			return a - b, true
		case token.STAR:
			return a * b, true
		case token.SLASH:
			if b == 0 {
				return 0, false
			}
			return a / b, true
		case token.PERCENT:
			if b == 0 {
				return 0, false
			}
			return a % b, true
		default:
			return 0, false
		}

	default:
		return 0, false
	}
}

func parseIntLiteral(text string) (int64, error) {
	switch {
	case len(text) > 1 && (text[1] == 'x' || text[1] == 'X'):
		return strconv.ParseInt(text[2:], 16, 64)
	case len(text) > 1 && text[0] == '0':
		return strconv.ParseInt(text, 8, 64)
	default:
		return strconv.ParseInt(text, 10, 64)
	}
}
