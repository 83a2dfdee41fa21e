// Package lsp implements §6's LSP capability surface as a thin façade
// over internal/project and internal/analyzer: no JSON-RPC framing and
// no on-disk VFS mirror (those stay external collaborators per
// spec.md §1) — just the read-lock-only queries and the one
// write-locked rebuild §5's concurrency model describes.
package lsp

import (
	"sync"

	"github.com/airylang/airyc/internal/analyzer"
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/discover"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/parser"
	"github.com/airylang/airyc/internal/project"
)

var log = logging.For("lsp")

// Position is a 1-based (line, column) pair, the unit every LSP query
// and diagnostic range is reported in (§6 "maps ranges to LSP
// positions via a per-file line-index").
type Position struct {
	Line   int
	Column int
}

// Workspace is one open project: the entry file, every document
// override the client has pushed via didOpen/didChange, and the most
// recent rebuild's resolver and diagnostics. A single RWMutex
// serializes rebuilds against queries (§5 "a single write-lock
// protects the project").
type Workspace struct {
	mu    sync.RWMutex
	entry string

	overlays map[string]string // canonical path -> unsaved text

	resolver    *project.Resolver
	diagsByFile map[string][]*diag.Report
}

// Open creates a Workspace rooted at entryPath and runs the first build.
func Open(entryPath string) *Workspace {
	w := &Workspace{entry: entryPath, overlays: make(map[string]string)}
	w.rebuildLocked()
	return w
}

// DidOpen / DidChange record the client's in-memory text for path and
// trigger a full rebuild (§5: "every document event ... re-runs the
// full pipeline on the new snapshot").
func (w *Workspace) DidOpen(path, text string) { w.setOverlay(path, text) }
func (w *Workspace) DidChange(path, text string) { w.setOverlay(path, text) }

// DidSave is full-document sync with no text echo (§6): the client's
// last DidChange already holds the authoritative text and has already
// rebuilt, so DidSave does nothing.
func (w *Workspace) DidSave(path string) {}

// DidClose drops path's override, falling back to its on-disk contents
// on the next rebuild.
func (w *Workspace) DidClose(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.overlays, path)
	w.rebuildLocked()
}

func (w *Workspace) setOverlay(path, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.overlays[path] = text
	w.rebuildLocked()
}

// rebuildLocked reruns discover -> resolve -> analyze on the current
// overlay set. Callers must hold w.mu for writing.
func (w *Workspace) rebuildLocked() {
	log.Trace("rebuilding workspace rooted at %s", w.entry)
	disc := discover.Discover(w.entry)

	for path, text := range w.overlays {
		id, ok := disc.VFS.Lookup(path)
		if !ok {
			continue
		}
		disc.VFS.Put(path, text)
		root, errs := parser.Parse(text)
		disc.Trees[id] = root
		disc.Diagnostics = withoutFile(disc.Diagnostics, path)
		for _, e := range errs {
			disc.Diagnostics = append(disc.Diagnostics, e.WithFile(path))
		}
	}

	r := project.Resolve(disc)
	semantic := analyzer.AnalyzeAll(r)

	byFile := make(map[string][]*diag.Report)
	for _, rep := range disc.Diagnostics {
		byFile[rep.File] = append(byFile[rep.File], rep)
	}
	for _, rep := range r.Diagnostics {
		byFile[rep.File] = append(byFile[rep.File], rep)
	}
	for _, rep := range semantic {
		byFile[rep.File] = append(byFile[rep.File], rep)
	}

	w.resolver = r
	w.diagsByFile = byFile
}

func withoutFile(reps []*diag.Report, path string) []*diag.Report {
	out := reps[:0:0]
	for _, r := range reps {
		if r.File != path {
			out = append(out, r)
		}
	}
	return out
}

// Diagnostics returns every diagnostic currently known for path (§6
// "the LSP publishes diagnostics per file on every rebuild").
func (w *Workspace) Diagnostics(path string) []*diag.Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*diag.Report(nil), w.diagsByFile[path]...)
}

// position converts a byte offset in path to a 1-based (line, column).
// Caller must hold at least a read lock.
func (w *Workspace) position(path string, offset int) Position {
	id, ok := w.resolver.VFS.Lookup(path)
	if !ok {
		return Position{}
	}
	line, col := w.resolver.VFS.File(id).LineIndex().Position(offset)
	return Position{Line: line, Column: col}
}

// offset converts a 1-based (line, column) pair in path back to a byte
// offset.
func (w *Workspace) offset(path string, pos Position) (int, bool) {
	id, ok := w.resolver.VFS.Lookup(path)
	if !ok {
		return 0, false
	}
	return w.resolver.VFS.File(id).LineIndex().Offset(pos.Line, pos.Column), true
}

// moduleAt returns the resolved module for path.
func (w *Workspace) moduleAt(path string) (*project.Module, bool) {
	id, ok := w.resolver.VFS.Lookup(path)
	if !ok {
		return nil, false
	}
	m, ok := w.resolver.Modules[id]
	return m, ok
}
