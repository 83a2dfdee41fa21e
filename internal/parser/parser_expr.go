package parser

import "github.com/airylang/airyc/internal/token"

// parseExpr enters the precedence ladder at its lowest level (§4.2:
// Or → And → Eq → Rel → Add → Mul → Unary → Postfix → Primary). Each
// level captures a checkpoint before parsing its left operand; when a
// same-precedence operator follows, the level wraps the checkpoint
// region in a BinaryExpr node and parses the right operand, yielding
// left-associative trees without backtracking.
func (p *Parser) parseExpr() { p.parseOr() }

func (p *Parser) parseOr() {
	cp := p.b.Checkpoint()
	p.parseAnd()
	for p.at(token.OROR) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseAnd()
		p.b.FinishNode()
	}
}

func (p *Parser) parseAnd() {
	cp := p.b.Checkpoint()
	p.parseEq()
	for p.at(token.ANDAND) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseEq()
		p.b.FinishNode()
	}
}

func (p *Parser) parseEq() {
	cp := p.b.Checkpoint()
	p.parseRel()
	for p.atAny(token.EQEQ, token.NEQ) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseRel()
		p.b.FinishNode()
	}
}

func (p *Parser) parseRel() {
	cp := p.b.Checkpoint()
	p.parseAdd()
	for p.atAny(token.LT, token.GT, token.LE, token.GE) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseAdd()
		p.b.FinishNode()
	}
}

func (p *Parser) parseAdd() {
	cp := p.b.Checkpoint()
	p.parseMul()
	for p.atAny(token.PLUS, token.MINUS) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseMul()
		p.b.FinishNode()
	}
}

func (p *Parser) parseMul() {
	cp := p.b.Checkpoint()
	p.parseUnary()
	for p.atAny(token.STAR, token.SLASH, token.PERCENT) {
		p.b.StartNodeAt(cp, token.BINARY_EXPR)
		p.bump()
		p.parseUnary()
		p.b.FinishNode()
	}
}

func (p *Parser) parseUnary() {
	switch p.lex.PeekSignificant().Kind {
	case token.PLUS, token.MINUS, token.BANG:
		p.b.StartNode(token.UNARY_EXPR)
		p.bump()
		p.parseUnary()
		p.b.FinishNode()
	case token.STAR:
		p.b.StartNode(token.DEREF_EXPR)
		p.bump()
		p.parseUnary()
		p.b.FinishNode()
	case token.AMP:
		p.b.StartNode(token.ADDR_EXPR)
		p.bump()
		p.parseUnary()
		p.b.FinishNode()
	default:
		p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() {
	cp := p.b.Checkpoint()
	p.parsePrimary()
	for {
		switch p.lex.PeekSignificant().Kind {
		case token.LPAREN:
			p.b.StartNodeAt(cp, token.CALL_EXPR)
			p.parseArgList()
			p.b.FinishNode()
		case token.LBRACKET:
			p.b.StartNodeAt(cp, token.INDEX_EXPR)
			p.parseIndexList()
			p.b.FinishNode()
		case token.DOT:
			p.b.StartNodeAt(cp, token.FIELD_EXPR)
			p.bump() // .
			p.expect(token.IDENT)
			p.b.FinishNode()
		case token.ARROW:
			p.b.StartNodeAt(cp, token.ARROW_FIELD_EXPR)
			p.bump() // ->
			p.expect(token.IDENT)
			p.b.FinishNode()
		default:
			return
		}
		cp = p.b.Checkpoint()
	}
}

func (p *Parser) parseArgList() {
	p.b.StartNode(token.ARG_LIST)
	p.bump() // (
	for !p.atAny(token.RPAREN, token.EOF) {
		p.parseExpr()
		if p.at(token.COMMA) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	p.b.FinishNode()
}

func (p *Parser) parseIndexList() {
	p.b.StartNode(token.INDEX_LIST)
	for p.at(token.LBRACKET) {
		p.bump() // [
		p.parseExpr()
		p.expect(token.RBRACKET)
	}
	p.b.FinishNode()
}

func (p *Parser) parsePrimary() {
	switch p.lex.PeekSignificant().Kind {
	case token.INT_NUMBER, token.STRING_LIT, token.TRUE_KW, token.FALSE_KW, token.NULL_KW:
		p.b.StartNode(token.LIT_EXPR)
		p.bump()
		p.b.FinishNode()
	case token.IDENT:
		p.b.StartNode(token.NAME_EXPR)
		p.bump()
		p.b.FinishNode()
	case token.LPAREN:
		p.b.StartNode(token.PAREN_EXPR)
		p.bump()
		p.parseExpr()
		p.expect(token.RPAREN)
		p.b.FinishNode()
	default:
		p.errorAt("PAR001", "expected an expression, found "+p.lex.PeekSignificant().Kind.String())
		p.recoverInto(exprRecovery)
	}
}
