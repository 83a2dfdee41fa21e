package parser

import "github.com/airylang/airyc/internal/token"

// parseBlock: `{ stmt* }`
func (p *Parser) parseBlock() {
	p.b.StartNode(token.BLOCK)
	p.expect(token.LBRACE)
	for !p.atAny(token.RBRACE, token.EOF) {
		p.parseStmt()
	}
	p.expect(token.RBRACE)
	p.b.FinishNode()
}

func (p *Parser) parseStmt() {
	switch p.lex.PeekSignificant().Kind {
	case token.LET_KW:
		p.b.StartNode(token.LET_STMT)
		p.parseLetCore()
		p.expect(token.SEMI)
		p.b.FinishNode()

	case token.LBRACE:
		p.parseBlock()

	case token.IF_KW:
		p.parseIfStmt()

	case token.WHILE_KW:
		p.parseWhileStmt()

	case token.BREAK_KW:
		p.b.StartNode(token.BREAK_STMT)
		p.bump()
		p.expect(token.SEMI)
		p.b.FinishNode()

	case token.CONTINUE_KW:
		p.b.StartNode(token.CONTINUE_STMT)
		p.bump()
		p.expect(token.SEMI)
		p.b.FinishNode()

	case token.RETURN_KW:
		p.b.StartNode(token.RETURN_STMT)
		p.bump()
		if !p.at(token.SEMI) {
			p.parseExpr()
		}
		p.expect(token.SEMI)
		p.b.FinishNode()

	case token.SEMI:
		// empty statement: consume it as its own expression statement so
		// ranges stay contiguous without inventing a phantom node.
		p.b.StartNode(token.EXPR_STMT)
		p.bump()
		p.b.FinishNode()

	default:
		p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseIfStmt() {
	p.b.StartNode(token.IF_STMT)
	p.bump() // if
	p.expect(token.LPAREN)
	p.parseExpr()
	p.expect(token.RPAREN)
	p.parseBlock()
	if p.at(token.ELSE_KW) {
		p.bump()
		if p.at(token.IF_KW) {
			p.parseIfStmt()
		} else {
			p.parseBlock()
		}
	}
	p.b.FinishNode()
}

func (p *Parser) parseWhileStmt() {
	p.b.StartNode(token.WHILE_STMT)
	p.bump() // while
	p.expect(token.LPAREN)
	p.parseExpr()
	p.expect(token.RPAREN)
	p.parseBlock()
	p.b.FinishNode()
}

// parseExprOrAssignStmt parses an expression statement, promoting it to
// an ASSIGN_STMT if `=` follows the parsed expression (the lvalue rule
// itself is an analyzer concern, §4.5.4).
func (p *Parser) parseExprOrAssignStmt() {
	cp := p.b.Checkpoint()
	p.parseExpr()
	if p.at(token.EQ) {
		p.b.StartNodeAt(cp, token.ASSIGN_STMT)
		p.bump() // =
		p.parseExpr()
		p.expect(token.SEMI)
		p.b.FinishNode()
		return
	}
	p.b.StartNodeAt(cp, token.EXPR_STMT)
	p.expect(token.SEMI)
	p.b.FinishNode()
}
