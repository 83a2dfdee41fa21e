package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/discover"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/types"
	"github.com/airylang/airyc/internal/value"
	"github.com/airylang/airyc/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// compile discovers, resolves, and analyzes files (a name -> source map)
// rooted at entry, mirroring cmd/airyc's own compile() pipeline.
func compile(t *testing.T, files map[string]string, entry string) (*project.Resolver, []*diag.Report) {
	t.Helper()
	dir := t.TempDir()
	var entryPath string
	for name, content := range files {
		p := writeFile(t, dir, name, content)
		if name == entry {
			entryPath = p
		}
	}
	disc := discover.Discover(entryPath)
	r := project.Resolve(disc)
	semantic := AnalyzeAll(r)

	all := append([]*diag.Report(nil), disc.Diagnostics...)
	all = append(all, r.Diagnostics...)
	all = append(all, semantic...)
	return r, all
}

func findVariable(m *project.Module, name string) (project.Variable, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return project.Variable{}, false
}

func entryModule(r *project.Resolver) *project.Module {
	return r.Modules[r.Order[0]]
}

// §8 scenario 1: a const global folds to its literal sum with no
// diagnostics.
func TestGlobalConstFold(t *testing.T) {
	r, diags := compile(t, map[string]string{
		"main.airy": `let x: const i32 = 2 + 3;`,
	}, "main.airy")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	m := entryModule(r)
	v, ok := findVariable(m, "x")
	if !ok {
		t.Fatal("global x not declared")
	}
	if !v.Type.IsConst() {
		t.Errorf("x should be const, got %s", v.Type)
	}
	folded, ok := m.ValueTable[v.DefRange]
	if !ok {
		t.Fatal("x has no folded value")
	}
	if folded.Kind() != value.KindI32 || folded.Int() != 5 {
		t.Errorf("x folded to %v, want i32 5", folded)
	}
}

// §8 scenario 2: a function body type-checks and its return expression
// carries the function's declared return type.
func TestFunctionBodyTypesCheck(t *testing.T) {
	r, diags := compile(t, map[string]string{
		"main.airy": `fn f() -> i32 { let a: i32 = 1; return a + 1; }`,
	}, "main.airy")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	m := entryModule(r)
	fid, ok := m.FunctionMap["f"]
	if !ok {
		t.Fatal("function f not declared")
	}
	fn := m.Functions[fid.Index]
	if fn.Ret.Strip().Kind() != types.KindI32 {
		t.Errorf("f's return type is %s, want i32", fn.Ret)
	}
}

// §8 scenario 3: a const struct global folds field-by-field, and field
// access through it inherits Const from the struct (review fix: Const
// inheritance in typeOfField).
func TestConstStructFieldAccess(t *testing.T) {
	src := `struct P { x: i32, y: i32 }
let p: const struct P = { 1, 2 };
fn get_x() -> i32 { return p.x; }`
	r, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	m := entryModule(r)
	p, ok := findVariable(m, "p")
	if !ok {
		t.Fatal("global p not declared")
	}
	folded, ok := m.ValueTable[p.DefRange]
	if !ok {
		t.Fatal("p has no folded value")
	}
	if folded.Kind() != value.KindStruct {
		t.Fatalf("p folded to %v, want a struct value", folded)
	}
	fields := folded.Fields()
	if len(fields) != 2 || fields[0].Int() != 1 || fields[1].Int() != 2 {
		t.Errorf("p's fields = %v, want [1 2]", fields)
	}
}

// Assigning through a field of a const struct must be rejected: the
// field's type must inherit Const from the struct (review fix #1).
func TestConstStructFieldAssignRejected(t *testing.T) {
	src := `struct P { x: i32, y: i32 }
let p: const struct P = { 1, 2 };
fn mutate() { p.x = 9; }`
	_, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")

	found := false
	for _, d := range diags {
		if d.Code == diag.SEM012AssignToConst {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s for assignment through a const struct field, got %v", diag.SEM012AssignToConst, diags)
	}
}

// §8 scenario 4: a partially-braced nested array initializer builds an
// ArrayTree whose shape mirrors the source braces; Flatten pads missing
// trailing elements with zero.
func TestNestedArrayTreeShape(t *testing.T) {
	src := `let a: [[i32;4];3] = { {1,2,3,4}, {5}, {6,7} };`
	r, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	m := entryModule(r)
	a, ok := findVariable(m, "a")
	if !ok {
		t.Fatal("global a not declared")
	}

	var tree *project.ArrayTree
	for rng, t2 := range m.ExpandArray {
		_ = rng
		tree = t2
	}
	if tree == nil {
		t.Fatal("no ArrayTree recorded for a's initializer")
	}
	if len(tree.Children) != 3 {
		t.Fatalf("outer tree has %d children, want 3", len(tree.Children))
	}

	zero := value.I32(0)
	row0 := tree.Children[0].Flatten(4, zero)
	row1 := tree.Children[1].Flatten(4, zero)
	row2 := tree.Children[2].Flatten(4, zero)

	rows := [][]value.Value{row0, row1, row2}
	wants := [][]int64{{1, 2, 3, 4}, {5, 0, 0, 0}, {6, 7, 0, 0}}
	for i, want := range wants {
		if len(rows[i]) != len(want) {
			t.Fatalf("row %d has %d elements, want %d", i, len(rows[i]), len(want))
		}
		for j, wv := range want {
			if rows[i][j].Int() != wv {
				t.Errorf("row %d[%d] = %d, want %d", i, j, rows[i][j].Int(), wv)
			}
		}
	}

	folded, ok := m.ValueTable[a.DefRange]
	if !ok {
		t.Fatal("a's fully-constant initializer should have folded")
	}
	if folded.Kind() != value.KindArray || len(folded.Elems()) != 3 {
		t.Errorf("a folded to %v, want a 3-element array", folded)
	}

	testutil.CompareWithGolden(t, "analyzer", "nested_array_rows", "airyc.arraytree/v1", map[string][]int64{
		"row0": toInts(row0),
		"row1": toInts(row1),
		"row2": toInts(row2),
	})
}

func toInts(vs []value.Value) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = v.Int()
	}
	return out
}

// Indexing into a const array must keep re-wrapping Const as each
// dimension is peeled (review fix #2): assigning through it is rejected.
func TestConstArrayIndexAssignRejected(t *testing.T) {
	src := `let c: const [i32;2] = {1,2};
fn mutate() { c[0] = 9; }`
	_, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")

	found := false
	for _, d := range diags {
		if d.Code == diag.SEM012AssignToConst {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s for assignment through a const array element, got %v", diag.SEM012AssignToConst, diags)
	}
}

// §8 scenario 5: a module that imports another resolves and analyzes
// the call without diagnostics, and the cross-module reference is
// recorded as a function call.
func TestCrossModuleCallResolves(t *testing.T) {
	r, diags := compile(t, map[string]string{
		"util.airy": `fn add(a: i32, b: i32) -> i32 { return a + b; }`,
		"main.airy": `import "util"; fn main() -> i32 { return add(2, 3); }`,
	}, "main.airy")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	var main *project.Module
	for _, id := range r.Order {
		if filepath.Base(r.Modules[id].Path) == "main.airy" {
			main = r.Modules[id]
		}
	}
	if main == nil {
		t.Fatal("main.airy module not found")
	}

	foundCall := false
	for _, ref := range main.References {
		if ref.Kind == project.RefFuncCall {
			foundCall = true
		}
	}
	if !foundCall {
		t.Error("expected a RefFuncCall reference for the call to add")
	}
}

// §8 scenario 6: two mutually-recursive non-pointer structs are rejected,
// and the diagnostic carries the cycle's struct names (review fix #4).
func TestRecursiveStructCycleNamed(t *testing.T) {
	src := `struct A { b: struct B }
struct B { a: struct A }`
	_, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")

	var recursive []*diag.Report
	for _, d := range diags {
		if d.Code == diag.RSV005RecursiveType {
			recursive = append(recursive, d)
		}
	}
	if len(recursive) != 2 {
		t.Fatalf("expected 2 %s diagnostics (one per struct in the cycle), got %d: %v",
			diag.RSV005RecursiveType, len(recursive), diags)
	}
	for _, d := range recursive {
		cycle, ok := d.Data["cycle"].([]string)
		if !ok {
			t.Fatalf("diagnostic missing cycle data: %+v", d)
		}
		if len(cycle) != 3 || cycle[0] != cycle[2] {
			t.Errorf("cycle = %v, want a closed 3-element cycle", cycle)
		}
		if cycle[0] != "A" && cycle[0] != "B" {
			t.Errorf("cycle names = %v, want A/B", cycle)
		}
	}
}

// A single self-referential struct (not through a pointer) is its own
// one-element cycle and uses the self-ref code.
func TestSelfReferentialStructRejected(t *testing.T) {
	src := `struct Node { next: struct Node }`
	_, diags := compile(t, map[string]string{"main.airy": src}, "main.airy")

	found := false
	for _, d := range diags {
		if d.Code == diag.RSV006StructSelfRef {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s for a struct holding itself by value, got %v", diag.RSV006StructSelfRef, diags)
	}
}

// Constant division by zero and constant overflow must be distinguished
// by diagnostic code (review fix #3).
func TestConstFoldDivisionByZeroVsOverflow(t *testing.T) {
	t.Run("division by zero", func(t *testing.T) {
		_, diags := compile(t, map[string]string{
			"main.airy": `let z: const i32 = 1 / 0;`,
		}, "main.airy")
		if len(diags) != 1 || diags[0].Code != diag.SEM023DivisionByZero {
			t.Fatalf("diagnostics = %v, want exactly one %s", diags, diag.SEM023DivisionByZero)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, diags := compile(t, map[string]string{
			"main.airy": `let o: const i32 = 2147483647 + 1;`,
		}, "main.airy")
		if len(diags) != 1 || diags[0].Code != diag.SEM022ConstOverflow {
			t.Fatalf("diagnostics = %v, want exactly one %s", diags, diag.SEM022ConstOverflow)
		}
	})
}
