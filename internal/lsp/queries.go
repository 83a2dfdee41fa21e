package lsp

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/project"
)

// Location names a span inside one file, the shared return shape for
// definition and references (§6 "textDocument/definition",
// "textDocument/references").
type Location struct {
	File  string
	Start Position
	End   Position
}

// Symbol is one entry of a documentSymbol/workspace-symbol response.
type Symbol struct {
	Name string
	Kind string // "function" | "struct" | "variable"
	Loc  Location
}

func (w *Workspace) toLocation(path string, rng green.Range) Location {
	return Location{
		File:  path,
		Start: w.position(path, rng.Start),
		End:   w.position(path, rng.End),
	}
}

// referenceAt finds the Reference whose use-range contains offset, by
// linear scan over the module's recorded references — adequate at the
// scale of one module's reference list, not indexed by position since
// the project never needs range-containment queries outside the LSP.
func referenceAt(m *project.Module, offset int) (project.Reference, bool) {
	for _, ref := range m.References {
		if offset >= ref.UseRange.Start && offset < ref.UseRange.End {
			return ref, true
		}
	}
	return project.Reference{}, false
}

// Definition resolves the symbol under (path, pos) to its defining
// range (§6 "textDocument/definition"). Read-lock only, operating
// entirely against the last rebuild's frozen snapshot.
func (w *Workspace) Definition(path string, pos Position) (Location, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.moduleAt(path)
	if !ok {
		return Location{}, false
	}
	offset, ok := w.offset(path, pos)
	if !ok {
		return Location{}, false
	}
	ref, ok := referenceAt(m, offset)
	if !ok {
		return Location{}, false
	}

	switch ref.Kind {
	case project.RefVarRead:
		if int(ref.VarID) >= len(m.Variables) {
			return Location{}, false
		}
		return w.toLocation(path, m.Variables[ref.VarID].DefRange), true

	case project.RefFuncCall:
		defPath, ok := w.resolver.Metadata.Path(ref.FuncID.Module)
		if !ok {
			return Location{}, false
		}
		defMod, ok := w.resolver.Modules[ref.FuncID.Module]
		if !ok || ref.FuncID.Index >= len(defMod.Functions) {
			return Location{}, false
		}
		return w.toLocation(defPath, defMod.Functions[ref.FuncID.Index].DefRange), true

	case project.RefFieldRead:
		// FieldID indexes into its owning struct's own Fields slice, not
		// a module-wide arena, and a Reference doesn't also carry which
		// struct that is; resolving a field use to a precise field
		// location needs more context than the reference alone offers,
		// so field goto-definition falls back to "not found".
		return Location{}, false
	}
	return Location{}, false
}

// References finds every use-site of the symbol under (path, pos),
// project-wide (§6 "textDocument/references"). A variable's references
// never cross modules (no exported variables), so only its own module
// is scanned; a function's or field's may.
func (w *Workspace) References(path string, pos Position) []Location {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.moduleAt(path)
	if !ok {
		return nil
	}
	offset, ok := w.offset(path, pos)
	if !ok {
		return nil
	}
	ref, ok := referenceAt(m, offset)
	if !ok {
		return nil
	}

	var out []Location
	for id, other := range w.resolver.Modules {
		if ref.Kind == project.RefVarRead && id != m.ID {
			continue
		}
		otherPath, _ := w.resolver.Metadata.Path(id)
		for _, r := range other.References {
			if sameTarget(ref, r) {
				out = append(out, w.toLocation(otherPath, r.UseRange))
			}
		}
	}
	return out
}

func sameTarget(a, b project.Reference) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case project.RefVarRead:
		return a.VarID == b.VarID
	case project.RefFuncCall:
		return a.FuncID == b.FuncID
	case project.RefFieldRead:
		return a.FieldID == b.FieldID
	}
	return false
}

// Hover returns a short type/signature description for the symbol under
// (path, pos) (§6 "textDocument/hover").
func (w *Workspace) Hover(path string, pos Position) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.moduleAt(path)
	if !ok {
		return "", false
	}
	offset, ok := w.offset(path, pos)
	if !ok {
		return "", false
	}
	ref, ok := referenceAt(m, offset)
	if !ok {
		return "", false
	}

	switch ref.Kind {
	case project.RefVarRead:
		v := m.Variables[ref.VarID]
		return v.Name + ": " + v.Type.String(), true
	case project.RefFuncCall:
		sig, ok := w.resolver.Metadata.Function(ref.FuncID)
		if !ok {
			return "", false
		}
		return "fn " + sig.Name + "(...) -> " + sig.Ret.String(), true
	case project.RefFieldRead:
		return "", false
	}
	return "", false
}

// DocumentSymbol lists every top-level function, struct, and global
// binding defined in path (§6 "textDocument/documentSymbol").
func (w *Workspace) DocumentSymbol(path string) []Symbol {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.moduleAt(path)
	if !ok {
		return nil
	}
	return moduleSymbols(w, path, m)
}

// WorkspaceSymbol lists every top-level symbol across the whole project
// (§6 "workspace/symbol"), grounded on the original's flat symbol index
// built the same way over every module's allocation pass.
func (w *Workspace) WorkspaceSymbol() []Symbol {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []Symbol
	for id, m := range w.resolver.Modules {
		path, _ := w.resolver.Metadata.Path(id)
		out = append(out, moduleSymbols(w, path, m)...)
	}
	return out
}

func moduleSymbols(w *Workspace, path string, m *project.Module) []Symbol {
	var out []Symbol
	for _, fn := range m.Functions {
		out = append(out, Symbol{Name: fn.Name, Kind: "function", Loc: w.toLocation(path, fn.DefRange)})
	}
	for _, st := range m.Structs {
		out = append(out, Symbol{Name: st.Name, Kind: "struct", Loc: w.toLocation(path, st.DefRange)})
	}
	for _, v := range m.Variables {
		if v.Global {
			out = append(out, Symbol{Name: v.Name, Kind: "variable", Loc: w.toLocation(path, v.DefRange)})
		}
	}
	return out
}
