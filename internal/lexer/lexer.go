// Package lexer turns Airy source text into a complete, lossless token
// stream: every byte of the input is covered by exactly one token, with
// adjacent ranges and no gaps, so the green tree built on top of it can
// reproduce the source exactly (§3, §4.1, §8 "Lossless").
package lexer

import (
	"regexp"
	"strconv"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/token"
)

// Token is one classified lexeme: its kind, its exact text, and its byte
// range in the source.
type Token struct {
	Kind  token.Kind
	Text  string
	Start int
	End   int
}

// rule is one entry of the regex-driven classification table. Rules are
// tried in order at each position; the first match wins.
type rule struct {
	kind token.Kind
	re   *regexp.Regexp
}

var rules = []rule{
	{token.WHITESPACE, regexp.MustCompile(`^[ \t\r]+`)},
	{token.NEWLINE, regexp.MustCompile(`^\n`)},
	{token.LINE_COMMENT, regexp.MustCompile(`^//[^\n]*`)},
	{token.BLOCK_COMMENT, regexp.MustCompile(`^/\*([^*]|\*[^/])*\*?`)},
	{token.STRING_LIT, regexp.MustCompile(`^"(\\.|[^"\\])*"?`)},
	{token.INT_NUMBER, regexp.MustCompile(`^0[xX][0-9a-fA-F]*|^0[0-7]*|^[1-9][0-9]*`)},
	{token.IDENT, regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)},
	{token.ARROW, regexp.MustCompile(`^->`)},
	{token.FAT_ARROW, regexp.MustCompile(`^=>`)},
	{token.EQEQ, regexp.MustCompile(`^==`)},
	{token.NEQ, regexp.MustCompile(`^!=`)},
	{token.LE, regexp.MustCompile(`^<=`)},
	{token.GE, regexp.MustCompile(`^>=`)},
	{token.ANDAND, regexp.MustCompile(`^&&`)},
	{token.OROR, regexp.MustCompile(`^\|\|`)},
	{token.LPAREN, regexp.MustCompile(`^\(`)},
	{token.RPAREN, regexp.MustCompile(`^\)`)},
	{token.LBRACE, regexp.MustCompile(`^\{`)},
	{token.RBRACE, regexp.MustCompile(`^\}`)},
	{token.LBRACKET, regexp.MustCompile(`^\[`)},
	{token.RBRACKET, regexp.MustCompile(`^\]`)},
	{token.SEMI, regexp.MustCompile(`^;`)},
	{token.COLON, regexp.MustCompile(`^:`)},
	{token.COMMA, regexp.MustCompile(`^,`)},
	{token.DOT, regexp.MustCompile(`^\.`)},
	{token.PLUS, regexp.MustCompile(`^\+`)},
	{token.MINUS, regexp.MustCompile(`^-`)},
	{token.STAR, regexp.MustCompile(`^\*`)},
	{token.SLASH, regexp.MustCompile(`^/`)},
	{token.PERCENT, regexp.MustCompile(`^%`)},
	{token.EQ, regexp.MustCompile(`^=`)},
	{token.LT, regexp.MustCompile(`^<`)},
	{token.GT, regexp.MustCompile(`^>`)},
	{token.AMP, regexp.MustCompile(`^&`)},
	{token.BANG, regexp.MustCompile(`^!`)},
}

// Lexer is a dual-cursor scanner over an eagerly-computed, trivia
// inclusive token stream: the raw cursor (Bump/PeekRaw) sees every
// token including trivia, while PeekSignificant reports the next
// non-trivia token without touching the raw cursor. This dual-cursor
// split is what eliminates ad-hoc trivia skipping throughout the parser
// (§4.1).
type Lexer struct {
	src  string
	toks []Token
	idx  int
	errs []*diag.Report
}

// New scans the entire input eagerly into a trivia-inclusive stream.
func New(src string) *Lexer {
	l := &Lexer{src: src}
	l.scanAll()
	return l
}

func (l *Lexer) scanAll() {
	pos := 0
	for pos < len(l.src) {
		rest := l.src[pos:]
		matched := false
		for _, r := range rules {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				continue
			}
			text := rest[:loc[1]]
			kind := r.kind
			if kind == token.IDENT {
				kind = token.LookupIdent(text)
			}
			if kind == token.INT_NUMBER {
				if _, err := parseIntLiteral(text); err != nil {
					l.errs = append(l.errs, diag.New(diag.LEX002InvalidInteger, diag.PhaseLexer,
						"invalid integer literal "+strconv.Quote(text)).WithRange(pos, pos+len(text)))
				}
			}
			if kind == token.STRING_LIT && (len(text) < 2 || text[len(text)-1] != '"') {
				l.errs = append(l.errs, diag.New(diag.LEX003UnterminatedString, diag.PhaseLexer,
					"unterminated string literal").WithRange(pos, pos+len(text)))
			}
			l.toks = append(l.toks, Token{Kind: kind, Text: text, Start: pos, End: pos + len(text)})
			pos += len(text)
			matched = true
			break
		}
		if !matched {
			// Ill-formed byte: a single ERROR-carrying token so lexing
			// never halts and downstream stages still get a complete,
			// contiguous stream (§4.1 "Failure").
			l.errs = append(l.errs, diag.New(diag.LEX001Unknown, diag.PhaseLexer,
				"unrecognized character").WithRange(pos, pos+1))
			l.toks = append(l.toks, Token{Kind: token.BAD, Text: rest[:1], Start: pos, End: pos + 1})
			pos++
		}
	}
	l.toks = append(l.toks, Token{Kind: token.EOF, Start: pos, End: pos})
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

// Errors returns every lexer diagnostic collected during scanning.
func (l *Lexer) Errors() []*diag.Report { return l.errs }

// All returns the complete trivia-inclusive token stream, including the
// trailing EOF sentinel. Adjacent tokens' ranges are contiguous and
// together cover [0, len(src)).
func (l *Lexer) All() []Token { return l.toks }

// Bump returns the token at the raw cursor and advances it by one,
// returning the trailing EOF token forever once the stream is
// exhausted.
func (l *Lexer) Bump() Token {
	t := l.toks[l.idx]
	if l.idx < len(l.toks)-1 {
		l.idx++
	}
	return t
}

// PeekRaw returns the token at the raw cursor without advancing it.
func (l *Lexer) PeekRaw() Token { return l.toks[l.idx] }

// PeekSignificant returns the next token at or after the raw cursor that
// is not trivia, without advancing the raw cursor.
func (l *Lexer) PeekSignificant() Token {
	for i := l.idx; i < len(l.toks); i++ {
		if !l.toks[i].Kind.IsTrivia() {
			return l.toks[i]
		}
	}
	return l.toks[len(l.toks)-1]
}

// AtEOF reports whether the raw cursor has reached the trailing EOF
// token.
func (l *Lexer) AtEOF() bool { return l.toks[l.idx].Kind == token.EOF }
