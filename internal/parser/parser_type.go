package parser

import "github.com/airylang/airyc/internal/token"

// parseType handles the five type forms of §6: `i32|i8|bool|void`,
// `*const T`/`*mut T`, `[T; N]`, `struct Name`, `const T`.
func (p *Parser) parseType() {
	switch p.lex.PeekSignificant().Kind {
	case token.I32_KW, token.I8_KW, token.BOOL_KW, token.VOID_KW:
		p.b.StartNode(token.TYPE_PRIM)
		p.bump()
		p.b.FinishNode()

	case token.STAR:
		p.b.StartNode(token.TYPE_POINTER)
		p.bump() // *
		if p.atAny(token.CONST_KW, token.MUT_KW) {
			p.bump()
		} else {
			p.errorAt("PAR004", "expected const or mut after *")
		}
		p.parseType()
		p.b.FinishNode()

	case token.LBRACKET:
		p.b.StartNode(token.TYPE_ARRAY)
		p.bump() // [
		p.parseType()
		p.expect(token.SEMI)
		p.parseExpr()
		p.expect(token.RBRACKET)
		p.b.FinishNode()

	case token.STRUCT_KW:
		p.b.StartNode(token.TYPE_STRUCT)
		p.bump() // struct
		p.expect(token.IDENT)
		p.b.FinishNode()

	case token.CONST_KW:
		p.b.StartNode(token.TYPE_CONST)
		p.bump() // const
		p.parseType()
		p.b.FinishNode()

	default:
		p.errorAt("PAR004", "expected a type, found "+p.lex.PeekSignificant().Kind.String())
		p.recoverInto(exprRecovery)
	}
}
