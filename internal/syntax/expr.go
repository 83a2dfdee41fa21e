package syntax

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/token"
)

// Expr is any expression-node kind; callers switch on Kind() the way the
// analyzer's visitor does (§4.5.4's typing table is keyed by exactly
// these kinds).
type Expr struct{ Node }

func AsExpr(g *green.Node) (Expr, bool) {
	switch g.Kind() {
	case token.LIT_EXPR, token.NAME_EXPR, token.PAREN_EXPR, token.UNARY_EXPR, token.BINARY_EXPR,
		token.CALL_EXPR, token.INDEX_EXPR, token.FIELD_EXPR, token.ARROW_FIELD_EXPR,
		token.DEREF_EXPR, token.ADDR_EXPR:
		return Expr{Node{g}}, true
	default:
		return Expr{}, false
	}
}

// IsLValue reports the §4.5.4 lvalue rule: an expression is an lvalue
// iff it is a name, an index, a field/arrow-field access, or a
// dereference.
func (e Expr) IsLValue() bool {
	switch e.Kind() {
	case token.INDEX_EXPR, token.FIELD_EXPR, token.ARROW_FIELD_EXPR, token.DEREF_EXPR, token.NAME_EXPR:
		return true
	default:
		return false
	}
}

// --- literal ---------------------------------------------------------------

func (e Expr) LitToken() (*green.Token, bool) {
	if e.Kind() != token.LIT_EXPR {
		return nil, false
	}
	toks := e.G.ChildTokens()
	if len(toks) == 0 {
		return nil, false
	}
	return toks[0], true
}

// --- name --------------------------------------------------------------

func (e Expr) NameToken() (*green.Token, bool) {
	if e.Kind() != token.NAME_EXPR {
		return nil, false
	}
	t := e.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

// --- paren ---------------------------------------------------------------

func (e Expr) Inner() (Expr, bool) {
	for _, c := range e.G.ChildNodes() {
		if ie, ok := AsExpr(c); ok {
			return ie, true
		}
	}
	return Expr{}, false
}

// --- unary / deref / addr -------------------------------------------------

// Op returns the operator token of a UNARY_EXPR.
func (e Expr) Op() (*green.Token, bool) {
	toks := e.G.ChildTokens()
	for _, t := range toks {
		switch t.Kind() {
		case token.PLUS, token.MINUS, token.BANG, token.STAR, token.AMP,
			token.EQEQ, token.NEQ, token.LT, token.GT, token.LE, token.GE,
			token.ANDAND, token.OROR, token.SLASH, token.PERCENT:
			return t, true
		}
	}
	return nil, false
}

func (e Expr) Operand() (Expr, bool) { return e.Inner() }

// --- binary ----------------------------------------------------------------

func (e Expr) LHS() (Expr, bool) {
	nodes := e.G.ChildNodes()
	for _, n := range nodes {
		if ie, ok := AsExpr(n); ok {
			return ie, true
		}
	}
	return Expr{}, false
}

func (e Expr) RHS() (Expr, bool) {
	nodes := e.G.ChildNodes()
	var exprs []*green.Node
	for _, n := range nodes {
		if _, ok := AsExpr(n); ok {
			exprs = append(exprs, n)
		}
	}
	if len(exprs) < 2 {
		return Expr{}, false
	}
	return AsExpr(exprs[len(exprs)-1])
}

// --- call --------------------------------------------------------------

func (e Expr) Callee() (Expr, bool) { return e.LHS() }

func (e Expr) Args() []Expr {
	al := e.G.FirstChildOfKind(token.ARG_LIST)
	if al == nil {
		return nil
	}
	var out []Expr
	for _, n := range al.ChildNodes() {
		if ie, ok := AsExpr(n); ok {
			out = append(out, ie)
		}
	}
	return out
}

// --- index -------------------------------------------------------------

func (e Expr) Base() (Expr, bool) { return e.LHS() }

func (e Expr) Indices() []Expr {
	il := e.G.FirstChildOfKind(token.INDEX_LIST)
	if il == nil {
		return nil
	}
	var out []Expr
	for _, n := range il.ChildNodes() {
		if ie, ok := AsExpr(n); ok {
			out = append(out, ie)
		}
	}
	return out
}

// --- field / arrow-field -------------------------------------------------

func (e Expr) FieldNameToken() (*green.Token, bool) {
	t := e.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}
