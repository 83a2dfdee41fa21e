package parser

import "github.com/airylang/airyc/internal/token"

// parseHeader: `import "<path>" [symbol];`
func (p *Parser) parseHeader() {
	p.b.StartNode(token.HEADER)
	p.bump() // import
	p.expect(token.STRING_LIT)
	if p.at(token.IDENT) {
		p.bump()
	}
	p.expect(token.SEMI)
	p.b.FinishNode()
}

// parseLetDecl: `let <name>: <type> [= <init>];` at top level (global).
func (p *Parser) parseLetDecl() {
	p.b.StartNode(token.LET_DECL)
	p.parseLetCore()
	p.expect(token.SEMI)
	p.b.FinishNode()
}

// parseLetCore parses the shared `let name: type [= init]` shape used by
// both a top-level LET_DECL and a block-local LET_STMT; the trailing
// semicolon is left to the caller so both node kinds can wrap it
// according to their own grammar.
func (p *Parser) parseLetCore() {
	p.bump() // let
	p.expect(token.IDENT)
	p.expect(token.COLON)
	p.parseType()
	if p.at(token.EQ) {
		p.bump()
		p.parseInitializer()
	}
}

// parseInitializer dispatches between a bare expression initializer and
// a brace aggregate initializer (§4.5.6).
func (p *Parser) parseInitializer() {
	if p.at(token.LBRACE) {
		p.parseInitList()
		return
	}
	p.parseExpr()
}

func (p *Parser) parseInitList() {
	p.b.StartNode(token.INIT_LIST)
	p.bump() // {
	for !p.atAny(token.RBRACE, token.EOF) {
		p.b.StartNode(token.INIT_VAL)
		p.parseInitializer()
		p.b.FinishNode()
		if p.at(token.COMMA) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	p.b.FinishNode()
}

// parseStructDef: `struct <name> { <field>, … }`
func (p *Parser) parseStructDef() {
	p.b.StartNode(token.STRUCT_DEF)
	p.bump() // struct
	p.expect(token.IDENT)
	p.expect(token.LBRACE)
	for !p.atAny(token.RBRACE, token.EOF) {
		p.b.StartNode(token.FIELD_DEF)
		p.expect(token.IDENT)
		p.expect(token.COLON)
		p.parseType()
		p.b.FinishNode()
		if p.at(token.COMMA) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	p.b.FinishNode()
}

// parseParamList: `([name: type, …])`
func (p *Parser) parseParamList() {
	p.b.StartNode(token.PARAM_LIST)
	p.expect(token.LPAREN)
	for !p.atAny(token.RPAREN, token.EOF) {
		p.b.StartNode(token.PARAM)
		p.expect(token.IDENT)
		p.expect(token.COLON)
		p.parseType()
		p.b.FinishNode()
		if p.at(token.COMMA) {
			p.bump()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	p.b.FinishNode()
}

// parseFuncDef: `fn <name>([params]) [-> <ret>] <block>`. A function
// declared without a block body (terminated by `;`) is a forward
// declaration later completed by an `attach` block.
func (p *Parser) parseFuncDef() {
	p.b.StartNode(token.FN_DEF)
	p.bump() // fn
	p.expect(token.IDENT)
	p.parseParamList()
	if p.at(token.ARROW) {
		p.bump()
		p.parseType()
	}
	if p.at(token.LBRACE) {
		p.parseBlock()
	} else {
		p.expect(token.SEMI)
	}
	p.b.FinishNode()
}

// parseAttachDef: `attach <name> <block>` — binds a body to a signature
// declared earlier by a bodyless `fn` (supplemented from
// original_source/; see SPEC_FULL.md §4 and §9's open question).
func (p *Parser) parseAttachDef() {
	p.b.StartNode(token.ATTACH_DEF)
	p.bump() // attach
	p.expect(token.IDENT)
	p.parseBlock()
	p.b.FinishNode()
}
