package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscover_FollowsImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.airy", `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	entry := writeFile(t, dir, "main.airy", `import "util"; fn main() -> i32 { return add(2, 3); }`)

	res := Discover(entry)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.VFS.Len() != 2 {
		t.Fatalf("expected 2 discovered files, got %d", res.VFS.Len())
	}
}

func TestDiscover_DedupesByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "a.airy", `fn a() {}`)
	// Two different files import the same sibling via different
	// relative spellings.
	writeFile(t, sub, "b.airy", `import "a"; fn b() {}`)
	entry := writeFile(t, sub, "main.airy", `import "./a"; import "b"; fn main() {}`)

	res := Discover(entry)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.VFS.Len() != 3 {
		t.Fatalf("expected exactly 3 distinct files (dedup by canonical path), got %d", res.VFS.Len())
	}
}

func TestDiscover_MissingImportIsDiagnosticNotHalt(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.airy", `import "missing"; fn main() {}`)

	res := Discover(entry)
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected a diagnostic for the missing import")
	}
	if res.VFS.Len() != 1 {
		t.Fatalf("discovery must continue after a missing import; got %d files", res.VFS.Len())
	}
}
