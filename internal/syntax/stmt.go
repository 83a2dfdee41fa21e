package syntax

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/token"
)

// Block is `{ stmt* }`.
type Block struct{ Node }

func AsBlock(g *green.Node) (Block, bool) {
	return cast(g, token.BLOCK, func(g *green.Node) Block { return Block{Node{g}} })
}

// Stmts returns every statement-shaped direct child, in source order.
func (b Block) Stmts() []Node {
	var out []Node
	for _, n := range b.G.ChildNodes() {
		switch n.Kind() {
		case token.LET_STMT, token.EXPR_STMT, token.ASSIGN_STMT, token.IF_STMT,
			token.WHILE_STMT, token.BREAK_STMT, token.CONTINUE_STMT, token.RETURN_STMT, token.BLOCK:
			out = append(out, Node{n})
		}
	}
	return out
}

// AsVarDef casts a LET_STMT node (statement-local `let`).
func AsVarDef(g *green.Node) (VarDef, bool) {
	return cast(g, token.LET_STMT, func(g *green.Node) VarDef { return VarDef{Node{g}} })
}

// IfStmt is `if (cond) block [else (block|if)]`.
type IfStmt struct{ Node }

func AsIfStmt(g *green.Node) (IfStmt, bool) {
	return cast(g, token.IF_STMT, func(g *green.Node) IfStmt { return IfStmt{Node{g}} })
}

func (s IfStmt) Cond() (Expr, bool) {
	for _, c := range s.G.ChildNodes() {
		if c.Kind() != token.BLOCK {
			if e, ok := AsExpr(c); ok {
				return e, true
			}
		}
	}
	return Expr{}, false
}

func (s IfStmt) Then() (Block, bool) {
	blocks := s.G.ChildrenOfKind(token.BLOCK)
	if len(blocks) == 0 {
		return Block{}, false
	}
	return AsBlock(blocks[0])
}

// Else returns the else-branch block, or false if absent. A trailing
// `else if` is represented as a nested IF_STMT, reachable via ElseIf.
func (s IfStmt) Else() (Block, bool) {
	blocks := s.G.ChildrenOfKind(token.BLOCK)
	if len(blocks) < 2 {
		return Block{}, false
	}
	return AsBlock(blocks[1])
}

func (s IfStmt) ElseIf() (IfStmt, bool) {
	return AsIfStmt(s.G.FirstChildOfKind(token.IF_STMT))
}

// WhileStmt is `while (cond) block`.
type WhileStmt struct{ Node }

func AsWhileStmt(g *green.Node) (WhileStmt, bool) {
	return cast(g, token.WHILE_STMT, func(g *green.Node) WhileStmt { return WhileStmt{Node{g}} })
}

func (s WhileStmt) Cond() (Expr, bool) {
	for _, c := range s.G.ChildNodes() {
		if e, ok := AsExpr(c); ok {
			return e, true
		}
	}
	return Expr{}, false
}

func (s WhileStmt) Body() (Block, bool) {
	return AsBlock(s.G.FirstChildOfKind(token.BLOCK))
}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct{ Node }

func AsReturnStmt(g *green.Node) (ReturnStmt, bool) {
	return cast(g, token.RETURN_STMT, func(g *green.Node) ReturnStmt { return ReturnStmt{Node{g}} })
}

func (s ReturnStmt) Value() (Expr, bool) {
	for _, c := range s.G.ChildNodes() {
		if e, ok := AsExpr(c); ok {
			return e, true
		}
	}
	return Expr{}, false
}

// AssignStmt is `lvalue = expr;`.
type AssignStmt struct{ Node }

func AsAssignStmt(g *green.Node) (AssignStmt, bool) {
	return cast(g, token.ASSIGN_STMT, func(g *green.Node) AssignStmt { return AssignStmt{Node{g}} })
}

func (s AssignStmt) Target() (Expr, bool) {
	nodes := s.G.ChildNodes()
	if len(nodes) == 0 {
		return Expr{}, false
	}
	return AsExpr(nodes[0])
}

func (s AssignStmt) Value() (Expr, bool) {
	nodes := s.G.ChildNodes()
	if len(nodes) < 2 {
		return Expr{}, false
	}
	return AsExpr(nodes[len(nodes)-1])
}

// ExprStmt is a bare expression followed by `;`.
type ExprStmt struct{ Node }

func AsExprStmt(g *green.Node) (ExprStmt, bool) {
	return cast(g, token.EXPR_STMT, func(g *green.Node) ExprStmt { return ExprStmt{Node{g}} })
}

func (s ExprStmt) Value() (Expr, bool) {
	for _, c := range s.G.ChildNodes() {
		if e, ok := AsExpr(c); ok {
			return e, true
		}
	}
	return Expr{}, false
}
