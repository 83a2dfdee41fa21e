package lexer

import (
	"testing"

	"github.com/airylang/airyc/internal/token"
)

func TestLexer_Lossless(t *testing.T) {
	srcs := []string{
		`fn main() -> i32 { return 0; }`,
		"let x: const i32 = 2 + 3; // comment\n",
		`/* block */ struct P { x: i32, y: i32 }`,
		`"hello\nworld"`,
		"0x7fffffff 017 42",
	}
	for _, src := range srcs {
		l := New(src)
		var buf string
		for _, tk := range l.All() {
			if tk.Kind == token.EOF {
				continue
			}
			buf += tk.Text
		}
		if buf != src {
			t.Errorf("lossless round-trip failed: got %q want %q", buf, src)
		}
	}
}

func TestLexer_Keywords(t *testing.T) {
	l := New("let fn struct if else while break continue return const mut true false null i32 i8 bool void")
	want := []token.Kind{
		token.LET_KW, token.FN_KW, token.STRUCT_KW, token.IF_KW, token.ELSE_KW,
		token.WHILE_KW, token.BREAK_KW, token.CONTINUE_KW, token.RETURN_KW,
		token.CONST_KW, token.MUT_KW, token.TRUE_KW, token.FALSE_KW, token.NULL_KW,
		token.I32_KW, token.I8_KW, token.BOOL_KW, token.VOID_KW,
	}
	var got []token.Kind
	for {
		tk := l.Bump()
		if tk.Kind == token.EOF {
			break
		}
		if tk.Kind.IsTrivia() {
			continue
		}
		got = append(got, tk.Kind)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexer_IntegerBases(t *testing.T) {
	l := New("0x1F 017 42")
	var texts []string
	for {
		tk := l.Bump()
		if tk.Kind == token.EOF {
			break
		}
		if tk.Kind == token.INT_NUMBER {
			texts = append(texts, tk.Text)
		}
	}
	want := []string{"0x1F", "017", "42"}
	for i, w := range want {
		if texts[i] != w {
			t.Errorf("literal %d: got %s want %s", i, texts[i], w)
		}
	}
}

func TestLexer_InvalidIntegerDiagnostic(t *testing.T) {
	l := New("0x")
	l.All()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an invalid-integer diagnostic for a bare 0x prefix")
	}
}

func TestLexer_UnknownByteRecovers(t *testing.T) {
	l := New("let x = 1 ` 2;")
	toks := l.All()
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("lexing should always reach EOF despite an unknown byte")
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a diagnostic for the unknown byte")
	}
}
