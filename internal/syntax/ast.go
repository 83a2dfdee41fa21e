// Package syntax provides typed AST views over the lossless green tree:
// kind-checked casts that offer named accessors ("the condition of this
// if") instead of raw child indexing. Accessors return an ok flag rather
// than panicking so a malformed tree (one containing ERROR nodes) never
// crashes a caller (§3 "AST views").
package syntax

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/token"
)

// Node wraps any green.Node and is the common base every view embeds.
type Node struct{ G *green.Node }

func (n Node) Kind() token.Kind   { return n.G.Kind() }
func (n Node) Range() green.Range { return n.G.Range() }
func (n Node) Text() string       { return green.Text(n.G) }

// cast is the single kind-checked conversion every typed accessor builds
// on: it returns (view, false) if g is nil or the wrong kind.
func cast[T any](g *green.Node, kind token.Kind, wrap func(*green.Node) T) (T, bool) {
	var zero T
	if g == nil || g.Kind() != kind {
		return zero, false
	}
	return wrap(g), true
}

// CompUnit is the root view, wrapping a token.COMP_UNIT node.
type CompUnit struct{ Node }

func AsCompUnit(g *green.Node) (CompUnit, bool) {
	return cast(g, token.COMP_UNIT, func(g *green.Node) CompUnit { return CompUnit{Node{g}} })
}

// Headers returns every `import` item at the top level.
func (c CompUnit) Headers() []Header {
	var out []Header
	for _, n := range c.G.ChildrenOfKind(token.HEADER) {
		out = append(out, Header{Node{n}})
	}
	return out
}

// LetDecls returns every top-level `let` declaration.
func (c CompUnit) LetDecls() []VarDef {
	var out []VarDef
	for _, n := range c.G.ChildrenOfKind(token.LET_DECL) {
		out = append(out, VarDef{Node{n}})
	}
	return out
}

// FuncDefs returns every top-level `fn` definition.
func (c CompUnit) FuncDefs() []FuncDef {
	var out []FuncDef
	for _, n := range c.G.ChildrenOfKind(token.FN_DEF) {
		out = append(out, FuncDef{Node{n}})
	}
	return out
}

// AttachDefs returns every top-level `attach` block.
func (c CompUnit) AttachDefs() []AttachDef {
	var out []AttachDef
	for _, n := range c.G.ChildrenOfKind(token.ATTACH_DEF) {
		out = append(out, AttachDef{Node{n}})
	}
	return out
}

// StructDefs returns every top-level `struct` definition.
func (c CompUnit) StructDefs() []StructDef {
	var out []StructDef
	for _, n := range c.G.ChildrenOfKind(token.STRUCT_DEF) {
		out = append(out, StructDef{Node{n}})
	}
	return out
}

// Header is `import "<path>" [symbol];`.
type Header struct{ Node }

func (h Header) PathToken() (*green.Token, bool) {
	t := h.G.FirstTokenOfKind(token.STRING_LIT)
	return t, t != nil
}

// Symbol returns the optional selective-import identifier.
func (h Header) Symbol() (*green.Token, bool) {
	t := h.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

// VarDef is shared by LET_DECL and LET_STMT: `let name: type [= init];`.
type VarDef struct{ Node }

func (v VarDef) NameToken() (*green.Token, bool) {
	t := v.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (v VarDef) TypeNode() (TypeExpr, bool) {
	for _, c := range v.G.ChildNodes() {
		if te, ok := AsTypeExpr(c); ok {
			return te, true
		}
	}
	return TypeExpr{}, false
}

// Init returns the initializer, which is either a bare expression or an
// INIT_LIST aggregate initializer.
func (v VarDef) Init() (Node, bool) {
	children := v.G.ChildNodes()
	// The initializer is the node after the type node, if any.
	seenType := false
	for _, c := range children {
		if _, ok := AsTypeExpr(c); ok && !seenType {
			seenType = true
			continue
		}
		if seenType {
			return Node{c}, true
		}
	}
	return Node{}, false
}

// FuncDef is `fn name(params) [-> ret] block;`.
type FuncDef struct{ Node }

func (f FuncDef) NameToken() (*green.Token, bool) {
	t := f.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (f FuncDef) Params() ParamList {
	n := f.G.FirstChildOfKind(token.PARAM_LIST)
	return ParamList{Node{n}}
}

func (f FuncDef) ReturnType() (TypeExpr, bool) {
	// The return type, if present, is the only child TypeExpr (params
	// live inside PARAM_LIST, not as direct children).
	for _, c := range f.G.ChildNodes() {
		if c.Kind() == token.PARAM_LIST || c.Kind() == token.BLOCK {
			continue
		}
		if te, ok := AsTypeExpr(c); ok {
			return te, true
		}
	}
	return TypeExpr{}, false
}

func (f FuncDef) Body() (Block, bool) {
	return AsBlock(f.G.FirstChildOfKind(token.BLOCK))
}

// ParamList is the parenthesized parameter sequence of a function.
type ParamList struct{ Node }

func (pl ParamList) Params() []Param {
	var out []Param
	for _, n := range pl.G.ChildrenOfKind(token.PARAM) {
		out = append(out, Param{Node{n}})
	}
	return out
}

type Param struct{ Node }

func (p Param) NameToken() (*green.Token, bool) {
	t := p.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (p Param) TypeNode() (TypeExpr, bool) {
	for _, c := range p.G.ChildNodes() {
		if te, ok := AsTypeExpr(c); ok {
			return te, true
		}
	}
	return TypeExpr{}, false
}

// AttachDef is `attach name block`.
type AttachDef struct{ Node }

func (a AttachDef) NameToken() (*green.Token, bool) {
	t := a.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (a AttachDef) Body() (Block, bool) {
	return AsBlock(a.G.FirstChildOfKind(token.BLOCK))
}

// StructDef is `struct name { field, … }`.
type StructDef struct{ Node }

func (s StructDef) NameToken() (*green.Token, bool) {
	t := s.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (s StructDef) Fields() []FieldDef {
	var out []FieldDef
	for _, n := range s.G.ChildrenOfKind(token.FIELD_DEF) {
		out = append(out, FieldDef{Node{n}})
	}
	return out
}

type FieldDef struct{ Node }

func (f FieldDef) NameToken() (*green.Token, bool) {
	t := f.G.FirstTokenOfKind(token.IDENT)
	return t, t != nil
}

func (f FieldDef) TypeNode() (TypeExpr, bool) {
	for _, c := range f.G.ChildNodes() {
		if te, ok := AsTypeExpr(c); ok {
			return te, true
		}
	}
	return TypeExpr{}, false
}

// TypeExpr is any of the five type-node kinds; callers switch on Kind().
type TypeExpr struct{ Node }

func AsTypeExpr(g *green.Node) (TypeExpr, bool) {
	switch g.Kind() {
	case token.TYPE_PRIM, token.TYPE_POINTER, token.TYPE_ARRAY, token.TYPE_STRUCT, token.TYPE_CONST:
		return TypeExpr{Node{g}}, true
	default:
		return TypeExpr{}, false
	}
}

// Inner returns the pointee/element/wrapped type for pointer/array/const
// type nodes.
func (t TypeExpr) Inner() (TypeExpr, bool) {
	for _, c := range t.G.ChildNodes() {
		if te, ok := AsTypeExpr(c); ok {
			return te, true
		}
	}
	return TypeExpr{}, false
}

// IsMut reports the qualifier of a TYPE_POINTER node.
func (t TypeExpr) IsMut() bool { return t.G.FirstTokenOfKind(token.MUT_KW) != nil }

// SizeExpr returns a TYPE_ARRAY's size expression.
func (t TypeExpr) SizeExpr() (Expr, bool) {
	for _, c := range t.G.ChildNodes() {
		if _, isType := AsTypeExpr(c); isType {
			continue
		}
		if e, ok := AsExpr(c); ok {
			return e, true
		}
	}
	return Expr{}, false
}

// StructNameToken returns the referenced struct's name for TYPE_STRUCT.
func (t TypeExpr) StructNameToken() (*green.Token, bool) {
	tk := t.G.FirstTokenOfKind(token.IDENT)
	return tk, tk != nil
}

// PrimToken returns the primitive keyword token for TYPE_PRIM.
func (t TypeExpr) PrimToken() (*green.Token, bool) {
	toks := t.G.ChildTokens()
	if len(toks) == 0 {
		return nil, false
	}
	return toks[0], true
}
