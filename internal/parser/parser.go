// Package parser implements Airy's recursive-descent, panic-free parser.
// It consumes a lexer.Lexer and produces a green.Node rooted at
// token.COMP_UNIT plus a list of diagnostics (§4.2). It never panics and
// never skips bytes: every input byte ends up inside some token, and
// every token ends up inside the tree, whether or not the construct it
// belongs to parsed successfully.
package parser

import (
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/lexer"
	"github.com/airylang/airyc/internal/token"
)

// Parser drives a green.Builder off a lexer.Lexer's dual cursor.
type Parser struct {
	lex  *lexer.Lexer
	b    *green.Builder
	errs []*diag.Report
}

type kindSet map[token.Kind]struct{}

func newSet(kinds ...token.Kind) kindSet {
	s := make(kindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s kindSet) has(k token.Kind) bool { _, ok := s[k]; return ok }

// Recovery sets, one per syntactic context (§4.2).
var (
	exprRecovery = newSet(token.SEMI, token.RBRACE, token.RPAREN, token.RBRACKET, token.COMMA, token.EOF)
	stmtRecovery = newSet(token.LBRACE, token.SEMI, token.RBRACE, token.IF_KW, token.WHILE_KW, token.RETURN_KW, token.LET_KW, token.EOF)
	declRecovery = newSet(token.IF_KW, token.WHILE_KW, token.RETURN_KW, token.STRUCT_KW, token.LET_KW, token.FN_KW, token.SEMI, token.EOF)
)

// Parse runs the parser over src and returns the green root plus any
// diagnostics collected along the way (lexer diagnostics included).
func Parse(src string) (*green.Node, []*diag.Report) {
	l := lexer.New(src)
	p := &Parser{lex: l, b: green.NewBuilder()}
	p.errs = append(p.errs, l.Errors()...)
	p.parseCompUnit()
	return p.b.Finish(), p.errs
}

// --- low-level cursor helpers -------------------------------------------------

// at reports whether the next significant token has the given kind.
func (p *Parser) at(k token.Kind) bool { return p.lex.PeekSignificant().Kind == k }

// atAny reports whether the next significant token matches any of ks.
func (p *Parser) atAny(ks ...token.Kind) bool {
	cur := p.lex.PeekSignificant().Kind
	for _, k := range ks {
		if cur == k {
			return true
		}
	}
	return false
}

// bumpTrivia pushes raw tokens into the currently open node until the
// raw cursor reaches the next significant token, so whitespace/comments
// always land somewhere in the tree (§4.2 "Trivia is always consumed
// into the current node").
func (p *Parser) bumpTrivia() {
	for p.lex.PeekRaw().Kind.IsTrivia() {
		t := p.lex.Bump()
		p.b.Token(t.Kind, t.Text)
	}
}

// bump consumes trivia, then the next significant token, pushing both
// into the currently open node.
func (p *Parser) bump() lexer.Token {
	p.bumpTrivia()
	t := p.lex.Bump()
	p.b.Token(t.Kind, t.Text)
	return t
}

// expect consumes the next significant token if it matches k, reporting
// a diagnostic and leaving the cursor untouched otherwise.
func (p *Parser) expect(k token.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	p.errorAt(diag.PAR001UnexpectedToken, "expected "+k.String()+", found "+p.lex.PeekSignificant().Kind.String())
	return lexer.Token{}, false
}

func (p *Parser) errorAt(code, msg string) {
	cur := p.lex.PeekSignificant()
	p.errs = append(p.errs, diag.New(code, diag.PhaseParser, msg).WithRange(cur.Start, cur.End))
}

// recoverInto implements §4.2's recovery contract for a failed expect:
// if the next significant token is already in set, there is nothing to
// skip and control returns immediately; otherwise everything up to the
// next token in set is wrapped in an ERROR node so the tree stays
// well-formed and no bytes are dropped.
func (p *Parser) recoverInto(set kindSet) {
	if set.has(p.lex.PeekSignificant().Kind) {
		return
	}
	p.b.StartNode(token.ERROR)
	for !set.has(p.lex.PeekSignificant().Kind) {
		if p.lex.PeekRaw().Kind == token.EOF {
			break
		}
		p.bump()
	}
	p.b.FinishNode()
}

func (p *Parser) parseCompUnit() {
	p.b.StartNode(token.COMP_UNIT)
	p.bumpTrivia()
	for !p.lex.AtEOF() {
		p.parseTopLevelItem()
		p.bumpTrivia()
	}
	p.b.FinishNode()
}

func (p *Parser) parseTopLevelItem() {
	switch p.lex.PeekSignificant().Kind {
	case token.IMPORT_KW:
		p.parseHeader()
	case token.LET_KW:
		p.parseLetDecl()
	case token.FN_KW:
		p.parseFuncDef()
	case token.ATTACH_KW:
		p.parseAttachDef()
	case token.STRUCT_KW:
		p.parseStructDef()
	default:
		p.errorAt(diag.PAR003ExpectedDecl, "expected a top-level declaration, found "+p.lex.PeekSignificant().Kind.String())
		p.recoverInto(declRecovery)
	}
}
