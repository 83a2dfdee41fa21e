package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifestMissing(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "airyc.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest for missing file, got %+v", m)
	}
}

func TestLoadManifestParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airyc.yaml")
	contents := "entry: main.airy\nruntime_archive: runtime.a\nsearch_paths:\n  - lib\n  - vendor\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry != "main.airy" {
		t.Fatalf("entry = %q", m.Entry)
	}
	if m.RuntimeArchive != "runtime.a" {
		t.Fatalf("runtime_archive = %q", m.RuntimeArchive)
	}
	if len(m.SearchPaths) != 2 || m.SearchPaths[0] != "lib" || m.SearchPaths[1] != "vendor" {
		t.Fatalf("search_paths = %v", m.SearchPaths)
	}
}

func TestLoadManifestMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airyc.yaml")
	if err := os.WriteFile(path, []byte("entry: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}
