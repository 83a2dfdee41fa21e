package project

import (
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/types"
	"github.com/airylang/airyc/internal/value"
)

// ToTypeID converts a project.StructID to the shape types.Type stores.
func (id StructID) ToTypeID() types.StructID {
	return types.StructID{Module: int(id.Module), Index: id.Index}
}

// Variable is a local, global, or parameter binding.
type Variable struct {
	Name    string
	Type    types.Type
	IsConst bool
	Global  bool
	DefRange green.Range
}

// Field is one struct field, materialized during definition filling
// (§4.4 pass 3).
type Field struct {
	Name string
	Type types.Type
}

// Function holds a signature (filled in pass 3) plus the range of the
// node that supplies its body, if it has one.
type Function struct {
	Name       string
	Params     []types.Type
	ParamNames []string
	Ret        types.Type
	BodyRange  green.Range // range of the FN_DEF or ATTACH_DEF node supplying the body
	HasBody    bool
	DefRange   green.Range
}

// Struct holds field records plus the struct's source range, for
// diagnostics and goto-definition.
type Struct struct {
	Name     string
	Fields   []Field
	DefRange green.Range
}

// Scope is one lexical scope: a name table plus a parent pointer. Scopes
// form a tree rooted at the module's global scope (§3 "Scope").
type Scope struct {
	Parent ScopeID
	HasParent bool
	Names  map[string]VariableID
}

// ReferenceKind discriminates a Reference's use-site kind (§3
// "Reference").
type ReferenceKind int

const (
	RefVarRead ReferenceKind = iota
	RefFieldRead
	RefFuncCall
)

// Reference is a use-site record: what kind of name it referred to, the
// ID of the thing it resolved to, and the source range of the use
// itself (not the definition). The project-wide index used by
// goto-definition and find-references is just every module's
// References concatenated.
type Reference struct {
	Kind      ReferenceKind
	VarID     VariableID
	FieldID   FieldID
	FuncID    FunctionID
	UseRange  green.Range
}

// ImportEdge records one `import` header, resolved to the module it
// names. Symbol/HasSymbol hold a selective import's single named symbol;
// an absent Symbol means every top-level name of Module is visible
// unqualified (§4.4 pass 2).
type ImportEdge struct {
	Module    ModuleID
	Symbol    string
	HasSymbol bool
	Range     green.Range
}

// Module is the per-file analysis state (§3 "Module state"). The
// resolver owns the FileID → *Module map; during full analysis of one
// module (§4.5) that module has exclusive write access while every
// other module is reached only through the frozen Metadata snapshot.
type Module struct {
	ID   ModuleID
	Path string
	Tree *green.Node

	Variables []Variable
	Fields    []Field
	Functions []Function
	Structs   []Struct
	Scopes    []Scope

	GlobalScope ScopeID

	Imports []ImportEdge

	References []Reference

	ValueTable  map[green.Range]value.Value
	TypeTable   map[green.Range]types.Type
	ExpandArray map[green.Range]*ArrayTree

	VariableMap  map[green.Range]VariableID  // defining-site range -> VariableID
	ReferenceMap map[green.Range]ReferenceID // use-site range -> ReferenceID

	FunctionMap map[string]FunctionID // top-level symbol table: name -> FunctionID
	StructMap   map[string]StructID   // top-level symbol table: name -> StructID

	SemanticErrors []*diag.Report

	Metadata *Metadata // frozen snapshot of every other module, set once resolution completes
}

// NewModule allocates an empty Module ready for symbol allocation
// (§4.4 pass 1).
func NewModule(id ModuleID, path string) *Module {
	m := &Module{
		ID:           id,
		Path:         path,
		ValueTable:   make(map[green.Range]value.Value),
		TypeTable:    make(map[green.Range]types.Type),
		ExpandArray:  make(map[green.Range]*ArrayTree),
		VariableMap:  make(map[green.Range]VariableID),
		ReferenceMap: make(map[green.Range]ReferenceID),
		FunctionMap:  make(map[string]FunctionID),
		StructMap:    make(map[string]StructID),
	}
	m.GlobalScope = m.newScope(ScopeID(-1), false)
	return m
}

func (m *Module) newScope(parent ScopeID, hasParent bool) ScopeID {
	id := ScopeID(len(m.Scopes))
	m.Scopes = append(m.Scopes, Scope{Parent: parent, HasParent: hasParent, Names: map[string]VariableID{}})
	return id
}

// OpenChildScope creates a new scope whose parent is cur and returns its
// ID (§4.5.3: function bodies and blocks each open a scope).
func (m *Module) OpenChildScope(cur ScopeID) ScopeID {
	return m.newScope(cur, true)
}

// DeclareVariable binds name in scope sc to a fresh VariableID, or
// reports ok=false if name is already bound in that exact scope
// (§4.5.2 step 2: duplicate-in-current-scope check).
func (m *Module) DeclareVariable(sc ScopeID, v Variable) (VariableID, bool) {
	if _, exists := m.Scopes[sc].Names[v.Name]; exists {
		return 0, false
	}
	id := VariableID(len(m.Variables))
	m.Variables = append(m.Variables, v)
	m.Scopes[sc].Names[v.Name] = id
	m.VariableMap[v.DefRange] = id
	return id, true
}

// LookupVariable walks the scope's parent chain looking for name (§3
// "Scope ... Lookup walks parent chain").
func (m *Module) LookupVariable(sc ScopeID, name string) (VariableID, bool) {
	for {
		if id, ok := m.Scopes[sc].Names[name]; ok {
			return id, true
		}
		if !m.Scopes[sc].HasParent {
			return 0, false
		}
		sc = m.Scopes[sc].Parent
	}
}

// AddReference records a use-site and returns its ReferenceID.
func (m *Module) AddReference(r Reference) ReferenceID {
	id := ReferenceID(len(m.References))
	m.References = append(m.References, r)
	m.ReferenceMap[r.UseRange] = id
	return id
}
