// Package green implements the lossless, reference-counted concrete
// syntax tree ("green tree") the lexer and parser build together.
//
// A Node's identity is its kind and its children, never its address, so
// identical subtrees between two parses are interchangeable; callers that
// want structural sharing can memoize on (Kind, children) themselves — the
// types here only guarantee that cloning a *Node is O(1) because Node is
// always handled through a pointer to an immutable value built once by a
// Builder.
package green

import "github.com/airylang/airyc/internal/token"

// Range is a half-open byte interval [Start, End) into the original
// source text. It is the sole identity downstream stages use to
// associate semantic facts with source.
type Range struct {
	Start int
	End   int
}

// Len reports the width of the range in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether the given offset falls inside the range.
func (r Range) Contains(offset int) bool { return offset >= r.Start && offset < r.End }

// Element is either a *Token or a *Node.
type Element interface {
	Kind() token.Kind
	Range() Range
	elementNode()
}

// Token is a leaf of the green tree: one lexer-produced terminal,
// including trivia and error tokens. Its Text is the exact source bytes
// it spans.
type Token struct {
	kind  token.Kind
	text  string
	start int
}

func (t *Token) Kind() token.Kind { return t.kind }
func (t *Token) Text() string     { return t.text }
func (t *Token) Range() Range     { return Range{t.start, t.start + len(t.text)} }
func (*Token) elementNode()       {}

// Node is an interior element: a parser-produced non-terminal with an
// ordered list of children (nodes or tokens). Concatenating the Text of
// every Token reachable in traversal order reproduces the source
// byte-for-byte, including whitespace, comments, and error tokens.
type Node struct {
	kind     token.Kind
	children []Element
	rng      Range
}

func (n *Node) Kind() token.Kind    { return n.kind }
func (n *Node) Range() Range        { return n.rng }
func (n *Node) Children() []Element { return n.children }
func (*Node) elementNode()          {}

// ChildNodes returns only the child elements that are themselves Nodes,
// in order.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if nd, ok := c.(*Node); ok {
			out = append(out, nd)
		}
	}
	return out
}

// ChildTokens returns only the child elements that are Tokens, in order.
func (n *Node) ChildTokens() []*Token {
	var out []*Token
	for _, c := range n.children {
		if tk, ok := c.(*Token); ok {
			out = append(out, tk)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child node matching kind.
func (n *Node) FirstChildOfKind(kind token.Kind) *Node {
	for _, c := range n.children {
		if nd, ok := c.(*Node); ok && nd.kind == kind {
			return nd
		}
	}
	return nil
}

// FirstTokenOfKind returns the first direct child token matching kind.
func (n *Node) FirstTokenOfKind(kind token.Kind) *Token {
	for _, c := range n.children {
		if tk, ok := c.(*Token); ok && tk.kind == kind {
			return tk
		}
	}
	return nil
}

// ChildrenOfKind returns every direct child node matching kind, in order.
func (n *Node) ChildrenOfKind(kind token.Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if nd, ok := c.(*Node); ok && nd.kind == kind {
			out = append(out, nd)
		}
	}
	return out
}

// Text reconstructs the exact source text spanned by this element by
// concatenating every token reachable under it, in traversal order. It
// is the primary way §8's lossless round-trip property is checked.
func Text(e Element) string {
	switch v := e.(type) {
	case *Token:
		return v.text
	case *Node:
		var b []byte
		for _, c := range v.children {
			b = append(b, Text(c)...)
		}
		return string(b)
	default:
		return ""
	}
}

// Walk visits e and every descendant in preorder, depth-first. If visit
// returns false for a Node, its children are skipped (used by the
// analyzer's visitor to suppress traversal into ERROR subtrees).
func Walk(e Element, visit func(Element) bool) {
	if !visit(e) {
		return
	}
	if n, ok := e.(*Node); ok {
		for _, c := range n.children {
			Walk(c, visit)
		}
	}
}
