package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/airylang/airyc/internal/analyzer"
	"github.com/airylang/airyc/internal/discover"
	"github.com/airylang/airyc/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// buildProject discovers, resolves, and analyzes files (a name -> source
// map) rooted at entry, failing the test on any diagnostic: the backend
// assumes it only ever lowers an already-verified module.
func buildProject(t *testing.T, files map[string]string, entry string) *project.Resolver {
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
	if diags := analyzer.AnalyzeAll(r); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return r
}

func moduleByBase(r *project.Resolver, base string) *project.Module {
	for _, id := range r.Order {
		if filepath.Base(r.Modules[id].Path) == base {
			return r.Modules[id]
		}
	}
	return nil
}

func findFunc(funcs []*ir.Func, name string) *ir.Func {
	for _, f := range funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// §8 scenario 2: a function with a local and a return expression lowers
// to a defined LLVM function whose single block ends in a terminator.
func TestCompileSimpleFunction(t *testing.T) {
	r := buildProject(t, map[string]string{
		"main.airy": `fn f() -> i32 { let a: i32 = 1; return a + 1; }`,
	}, "main.airy")
	m := moduleByBase(r, "main.airy")

	mod, err := Compile(m, r.Metadata)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	f := findFunc(mod.Funcs, "f")
	if f == nil {
		t.Fatal("compiled module has no function named f")
	}
	if f.Sig.RetType != irtypes.I32 {
		t.Errorf("f's return type = %v, want i32", f.Sig.RetType)
	}
	if len(f.Blocks) == 0 {
		t.Fatal("f has no blocks")
	}
	last := f.Blocks[len(f.Blocks)-1]
	if last.Term == nil {
		t.Error("f's last block has no terminator")
	}
}

// §8 scenario 3: a const struct global lowers to an immutable LLVM
// global.
func TestCompileConstStructGlobal(t *testing.T) {
	src := `struct P { x: i32, y: i32 }
let p: const struct P = { 1, 2 };
fn get_x() -> i32 { return p.x; }`
	r := buildProject(t, map[string]string{"main.airy": src}, "main.airy")
	m := moduleByBase(r, "main.airy")

	mod, err := Compile(m, r.Metadata)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var global *ir.Global
	for _, g := range mod.Globals {
		if g.Name() == "p" {
			global = g
		}
	}
	if global == nil {
		t.Fatal("compiled module has no global named p")
	}
	if !global.Immutable {
		t.Error("p should lower to an immutable LLVM global")
	}
}

// §8 scenario 4: a nested array global lowers to an array-typed LLVM
// global sized from the declared dimensions.
func TestCompileNestedArrayGlobal(t *testing.T) {
	src := `let a: [[i32;4];3] = { {1,2,3,4}, {5}, {6,7} };`
	r := buildProject(t, map[string]string{"main.airy": src}, "main.airy")
	m := moduleByBase(r, "main.airy")

	mod, err := Compile(m, r.Metadata)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var global *ir.Global
	for _, g := range mod.Globals {
		if g.Name() == "a" {
			global = g
		}
	}
	if global == nil {
		t.Fatal("compiled module has no global named a")
	}
	arrTy, ok := global.ContentType.(*irtypes.ArrayType)
	if !ok {
		t.Fatalf("a's content type is %T, want *types.ArrayType", global.ContentType)
	}
	if arrTy.Len != 3 {
		t.Errorf("a's outer array length = %d, want 3", arrTy.Len)
	}
	innerTy, ok := arrTy.ElemType.(*irtypes.ArrayType)
	if !ok || innerTy.Len != 4 {
		t.Errorf("a's element type = %v, want [4 x i32]", arrTy.ElemType)
	}
}

// §8 scenario 5: compiling the importing module of a two-file project
// declares the imported function as an external (bodyless) LLVM
// function alongside the importer's own defined function.
func TestCompileCrossModuleCallDeclaresExtern(t *testing.T) {
	r := buildProject(t, map[string]string{
		"util.airy": `fn add(a: i32, b: i32) -> i32 { return a + b; }`,
		"main.airy": `import "util"; fn main() -> i32 { return add(2, 3); }`,
	}, "main.airy")
	m := moduleByBase(r, "main.airy")

	mod, err := Compile(m, r.Metadata)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	main := findFunc(mod.Funcs, "main")
	if main == nil {
		t.Fatal("compiled module has no function named main")
	}
	if len(main.Blocks) == 0 {
		t.Error("main should be a defined function with at least one block")
	}

	add := findFunc(mod.Funcs, "add")
	if add == nil {
		t.Fatal("compiled module has no declaration for the imported add function")
	}
	if len(add.Blocks) != 0 {
		t.Error("add is defined in another module; main's copy should be a bodyless declaration")
	}
}
