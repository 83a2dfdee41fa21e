// Package project implements §4.4's Project Resolver: per-file symbol
// allocation, import application, signature filling, and cross-module
// recursive-type checking, culminating in an immutable metadata snapshot
// every module is analyzed against (§4.5).
package project

import (
	"path/filepath"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/discover"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/types"
	"github.com/airylang/airyc/internal/vfs"
)

var log = logging.For("resolver")

// Resolver owns every module discovered for one project and runs the
// four resolution passes over them.
type Resolver struct {
	VFS         *vfs.VFS
	Modules     map[ModuleID]*Module
	Order       []ModuleID
	Diagnostics []*diag.Report
	Metadata    *Metadata
}

// Resolve runs all four passes over disc's discovered files and returns
// a Resolver whose Modules carry filled signatures and whose Metadata is
// ready for the module analyzer (§4.5).
func Resolve(disc *discover.Result) *Resolver {
	log.Trace("resolving %d discovered files", len(disc.Order))
	r := &Resolver{
		VFS:         disc.VFS,
		Modules:     make(map[ModuleID]*Module, len(disc.Order)),
		Order:       disc.Order,
		Diagnostics: append([]*diag.Report(nil), disc.Diagnostics...),
	}
	for _, id := range disc.Order {
		f := disc.VFS.File(id)
		m := NewModule(id, f.Path)
		m.Tree = disc.Trees[id]
		r.Modules[id] = m
	}

	// Pass 1: symbol allocation, so every name is known before any
	// signature is filled (forward references across the whole file).
	for _, id := range r.Order {
		m := r.Modules[id]
		comp, ok := syntax.AsCompUnit(m.Tree)
		if !ok {
			continue
		}
		r.allocateSymbols(m, comp)
	}

	// Pass 2: import application.
	for _, id := range r.Order {
		m := r.Modules[id]
		comp, ok := syntax.AsCompUnit(m.Tree)
		if !ok {
			continue
		}
		r.applyImports(m, comp)
	}

	// Pass 3: definition filling (struct fields, function signatures;
	// may constant-fold array sizes).
	for _, id := range r.Order {
		m := r.Modules[id]
		comp, ok := syntax.AsCompUnit(m.Tree)
		if !ok {
			continue
		}
		r.fillDefinitions(m, comp)
	}

	// Pass 4: cross-module checks (recursive struct detection).
	r.checkRecursiveStructs()

	meta := BuildMetadata(r.Modules)
	r.Metadata = meta
	for _, m := range r.Modules {
		m.Metadata = meta
	}

	for _, id := range r.Order {
		r.Diagnostics = append(r.Diagnostics, r.Modules[id].SemanticErrors...)
	}
	return r
}

// allocateSymbols is pass 1: every top-level let/struct/fn gets an ID
// and a slot in its defining module's symbol table, with placeholder
// (Void) types — signatures are filled in pass 3, once every module's
// names exist to resolve against. attach blocks are also handled here:
// they never introduce a new symbol, only attach a body to an existing
// bodyless forward declaration (an original_source/ SysY-adjacent
// feature this pass adds back; §9 is resolved in its favor).
func (r *Resolver) allocateSymbols(m *Module, comp syntax.CompUnit) {
	for _, ld := range comp.LetDecls() {
		nameTok, ok := ld.NameToken()
		if !ok {
			continue
		}
		name := nameTok.Text()
		if _, exists := m.Scopes[m.GlobalScope].Names[name]; exists {
			r.errorAt(m, diag.RSV001DuplicateName, ld.Range(), "duplicate top-level name "+name)
			continue
		}
		m.DeclareVariable(m.GlobalScope, Variable{
			Name: name, Type: types.Void, Global: true, DefRange: ld.Range(),
		})
	}

	for _, sd := range comp.StructDefs() {
		nameTok, ok := sd.NameToken()
		if !ok {
			continue
		}
		name := nameTok.Text()
		if _, exists := m.StructMap[name]; exists {
			r.errorAt(m, diag.RSV001DuplicateName, sd.Range(), "duplicate struct name "+name)
			continue
		}
		idx := len(m.Structs)
		m.Structs = append(m.Structs, Struct{Name: name, DefRange: sd.Range()})
		m.StructMap[name] = StructID{Module: m.ID, Index: idx}
	}

	for _, fd := range comp.FuncDefs() {
		nameTok, ok := fd.NameToken()
		if !ok {
			continue
		}
		name := nameTok.Text()
		if _, exists := m.FunctionMap[name]; exists {
			r.errorAt(m, diag.RSV001DuplicateName, fd.Range(), "duplicate function name "+name)
			continue
		}
		_, hasBody := fd.Body()
		idx := len(m.Functions)
		m.Functions = append(m.Functions, Function{Name: name, HasBody: hasBody, DefRange: fd.Range()})
		m.FunctionMap[name] = FunctionID{Module: m.ID, Index: idx}
	}

	for _, ad := range comp.AttachDefs() {
		nameTok, ok := ad.NameToken()
		if !ok {
			continue
		}
		name := nameTok.Text()
		fid, ok := m.FunctionMap[name]
		if !ok || fid.Module != m.ID {
			r.errorAt(m, diag.SEM005FunctionUndefined, ad.Range(), "attach refers to undefined function "+name)
			continue
		}
		fn := &m.Functions[fid.Index]
		if fn.HasBody {
			r.errorAt(m, diag.RSV007FunctionAlreadyDefined, ad.Range(), "function "+name+" already has a body")
			continue
		}
		body, ok := ad.Body()
		if !ok {
			continue
		}
		fn.HasBody = true
		fn.BodyRange = body.Range()
	}
}

// applyImports is pass 2: each header is resolved to the module it
// names, relative to the importing file's directory, reusing the same
// ".airy"-appension rule discovery used to find the file in the first
// place.
func (r *Resolver) applyImports(m *Module, comp syntax.CompUnit) {
	dir := filepath.Dir(m.Path)
	for _, h := range comp.Headers() {
		pathTok, ok := h.PathToken()
		if !ok {
			continue
		}
		importPath := unquoteImport(pathTok.Text())
		resolved := resolveImportPathLocal(importPath, dir)
		canon, err := vfs.Canonicalize(resolved)
		if err != nil {
			r.errorAt(m, diag.RSV002ImportPathNotFound, h.Range(), "cannot resolve import path "+importPath)
			continue
		}
		id, ok := r.VFS.Lookup(canon)
		if !ok {
			r.errorAt(m, diag.RSV002ImportPathNotFound, h.Range(), "imported file not found: "+importPath)
			continue
		}

		edge := ImportEdge{Module: id, Range: h.Range()}
		if sym, ok := h.Symbol(); ok {
			edge.Symbol = sym.Text()
			edge.HasSymbol = true
			target := r.Modules[id]
			if target != nil && !target.hasTopLevelSymbol(edge.Symbol) {
				r.errorAt(m, diag.RSV003ImportSymbolNotFound, h.Range(),
					"module "+target.Path+" has no top-level symbol "+edge.Symbol)
				continue
			}
		}
		m.Imports = append(m.Imports, edge)
	}
}

// hasTopLevelSymbol reports whether m declares a function, struct, or
// global variable named name.
func (m *Module) hasTopLevelSymbol(name string) bool {
	if _, ok := m.FunctionMap[name]; ok {
		return true
	}
	if _, ok := m.StructMap[name]; ok {
		return true
	}
	_, ok := m.Scopes[m.GlobalScope].Names[name]
	return ok
}

// fillDefinitions is pass 3: every struct's field types and every
// function's parameter/return types are resolved now that every
// module's names (including imported ones) are known.
func (r *Resolver) fillDefinitions(m *Module, comp syntax.CompUnit) {
	for _, ld := range comp.LetDecls() {
		vid, ok := m.VariableMap[ld.Range()]
		if !ok {
			continue
		}
		te, ok := ld.TypeNode()
		if !ok {
			r.errorAt(m, diag.SEM015ExpectInitialVal, ld.Range(), "let declaration missing a type")
			continue
		}
		ty, err := r.resolveType(m, te)
		if err != nil {
			r.errorAt(m, diag.SEM007StructUndefined, ld.Range(), err.Error())
			continue
		}
		m.Variables[vid].Type = ty
		m.Variables[vid].IsConst = ty.IsConst()
	}

	for i, sd := range comp.StructDefs() {
		var fields []Field
		for _, fdField := range sd.Fields() {
			nameTok, ok := fdField.NameToken()
			if !ok {
				continue
			}
			te, ok := fdField.TypeNode()
			if !ok {
				r.errorAt(m, diag.SEM008FieldNotFound, fdField.Range(), "field "+nameTok.Text()+" missing a type")
				continue
			}
			ty, err := r.resolveType(m, te)
			if err != nil {
				r.errorAt(m, diag.SEM007StructUndefined, fdField.Range(), err.Error())
				continue
			}
			fields = append(fields, Field{Name: nameTok.Text(), Type: ty})
		}
		m.Structs[i].Fields = fields
	}

	for i, fd := range comp.FuncDefs() {
		pl := fd.Params()
		var params []types.Type
		var names []string
		for _, p := range pl.Params() {
			name := ""
			if nameTok, ok := p.NameToken(); ok {
				name = nameTok.Text()
			}
			ty := types.Void
			if te, ok := p.TypeNode(); ok {
				if t, err := r.resolveType(m, te); err == nil {
					ty = t
				} else {
					r.errorAt(m, diag.SEM007StructUndefined, p.Range(), err.Error())
				}
			}
			params = append(params, ty)
			names = append(names, name)
		}
		ret := types.Void
		if rt, ok := fd.ReturnType(); ok {
			if t, err := r.resolveType(m, rt); err == nil {
				ret = t
			} else {
				r.errorAt(m, diag.SEM007StructUndefined, fd.Range(), err.Error())
			}
		}
		m.Functions[i].Params = params
		m.Functions[i].ParamNames = names
		m.Functions[i].Ret = ret
	}
}

// resolveImportPathLocal mirrors discover's import-path resolution rule
// (relative to the importing file's directory, ".airy" appended when
// the path carries no extension) so a header resolves to the exact
// same ModuleID the discovery BFS already loaded it under.
func resolveImportPathLocal(importPath, fromDir string) string {
	if filepath.Ext(importPath) == "" {
		importPath += ".airy"
	}
	if filepath.IsAbs(importPath) {
		return importPath
	}
	return filepath.Join(fromDir, importPath)
}

func unquoteImport(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
