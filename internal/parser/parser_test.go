package parser

import (
	"testing"

	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/token"
)

func TestParse_Lossless(t *testing.T) {
	srcs := []string{
		`fn main() -> i32 { return 0; }`,
		`let x: const i32 = 2 + 3;`,
		`struct P { x: i32, y: i32 } let p: const struct P = { 1, 2 };`,
		`let a: [[i32;4];3] = {1,2,3,4,{5},{6},{7,8}};`,
		`import "util"; fn main()->i32 { return add(2,3); }`,
		// malformed: missing semicolon and a bogus token
		`fn f() -> i32 { let a: i32 = 1 return a + 1; } @@@`,
	}
	for _, src := range srcs {
		root, _ := Parse(src)
		got := green.Text(root)
		if got != src {
			t.Errorf("lossless round-trip failed:\n got: %q\nwant: %q", got, src)
		}
	}
}

func TestParse_RangeContiguity(t *testing.T) {
	root, _ := Parse(`fn f(a: i32) -> i32 { return a + 1; }`)
	var check func(n *green.Node)
	check = func(n *green.Node) {
		children := n.Children()
		for i := 1; i < len(children); i++ {
			if children[i-1].Range().End != children[i].Range().Start {
				t.Errorf("gap between children %d and %d of %s", i-1, i, n.Kind())
			}
		}
		for _, c := range children {
			if cn, ok := c.(*green.Node); ok {
				check(cn)
			}
		}
	}
	check(root)
}

func TestParse_RootKind(t *testing.T) {
	root, _ := Parse(`fn f() {}`)
	if root.Kind() != token.COMP_UNIT {
		t.Fatalf("root kind = %s, want COMP_UNIT", root.Kind())
	}
}

func TestParse_BinaryLeftAssociative(t *testing.T) {
	root, errs := Parse(`fn f() -> i32 { return 1 - 2 - 3; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// Find the outermost BINARY_EXPR under the return statement and
	// confirm its left child is itself a BINARY_EXPR (left-associative).
	var bin *green.Node
	green.Walk(root, func(e green.Element) bool {
		if n, ok := e.(*green.Node); ok && n.Kind() == token.BINARY_EXPR && bin == nil {
			bin = n
		}
		return true
	})
	if bin == nil {
		t.Fatal("no BINARY_EXPR found")
	}
	first := bin.ChildNodes()
	if len(first) == 0 || first[0].Kind() != token.BINARY_EXPR {
		t.Errorf("expected left-associative nesting, got first child kind %v", bin.Children())
	}
}

func TestParse_ErrorRecoveryNeverDropsBytes(t *testing.T) {
	src := `fn f() -> i32 { let x: i32 = ; return x; }`
	root, errs := Parse(src)
	if len(errs) == 0 {
		t.Fatal("expected at least one diagnostic for the missing initializer expression")
	}
	if green.Text(root) != src {
		t.Fatalf("recovery dropped bytes: got %q want %q", green.Text(root), src)
	}
}
