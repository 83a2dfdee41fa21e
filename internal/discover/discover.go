// Package discover implements §4.3 Dependency Discovery: a BFS from an
// entry file across `import` headers, populating a shared vfs.VFS and a
// per-file parse result.
package discover

import (
	"path/filepath"
	"strings"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/parser"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/vfs"
)

var log = logging.For("discover")

// Result is the full project file set as discovered from one entry
// point: the shared VFS, each file's parsed green tree, and every
// diagnostic raised along the way (lexer, parser, and discovery errors
// all flow into one list so a single rebuild can report everything).
type Result struct {
	VFS         *vfs.VFS
	Trees       map[vfs.FileID]*green.Node
	Order       []vfs.FileID // discovery order, entry file first
	Diagnostics []*diag.Report
}

// Discover walks import headers breadth-first starting at entryPath,
// canonicalizing each header's string literal relative to the importing
// file's directory and appending ".airy" when the path carries no
// extension (§4.3). Missing files are reported as diagnostics; discovery
// continues for the remainder of the queue.
func Discover(entryPath string) *Result {
	log.Trace("starting discovery from %s", entryPath)
	v := vfs.New()
	res := &Result{VFS: v, Trees: make(map[vfs.FileID]*green.Node)}

	type queued struct {
		path string
		fromDir string
	}
	seen := map[string]bool{}
	queue := []queued{{path: entryPath, fromDir: "."}}

	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]

		resolved := resolveImportPath(head.path, head.fromDir)
		canon, err := vfs.Canonicalize(resolved)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, diag.New(diag.IMP001FileNotFound, diag.PhaseDiscover,
				"cannot resolve import path "+head.path).WithFile(head.path))
			continue
		}
		if seen[canon] {
			continue
		}
		seen[canon] = true

		id, err := v.Load(canon)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, diag.New(diag.IMP001FileNotFound, diag.PhaseDiscover,
				"file not found: "+canon).WithFile(canon))
			continue
		}
		res.Order = append(res.Order, id)
		log.Trace("loaded %s (file %d)", canon, id)

		file := v.File(id)
		root, errs := parser.Parse(file.Text)
		for _, e := range errs {
			res.Diagnostics = append(res.Diagnostics, e.WithFile(canon))
		}
		res.Trees[id] = root

		comp, ok := syntax.AsCompUnit(root)
		if !ok {
			continue
		}
		dir := filepath.Dir(canon)
		for _, h := range comp.Headers() {
			pathTok, ok := h.PathToken()
			if !ok {
				continue
			}
			importPath := unquote(pathTok.Text())
			queue = append(queue, queued{path: importPath, fromDir: dir})
		}
	}
	return res
}

// resolveImportPath resolves a header's string literal relative to the
// importing file's directory, appending ".airy" if the path carries no
// extension.
func resolveImportPath(importPath, fromDir string) string {
	if filepath.Ext(importPath) == "" {
		importPath += ".airy"
	}
	if filepath.IsAbs(importPath) {
		return importPath
	}
	return filepath.Join(fromDir, importPath)
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}
