package project

// Metadata is the frozen, read-only projection of every module's
// top-level symbol table, built once after the resolver's definition-
// filling pass (§4.4 pass 3) completes for all modules and shared
// (by pointer, never copied) into each module's independent analysis
// pass (§4.5). No field is ever mutated after BuildMetadata returns,
// so concurrent analysis of unrelated modules needs no locking here.
type Metadata struct {
	paths           map[ModuleID]string
	moduleFunctions map[ModuleID]map[string]FunctionID
	moduleStructs   map[ModuleID]map[string]StructID
	functions       map[FunctionID]Function
	structs         map[StructID]Struct
}

// BuildMetadata projects the top-level (function, struct) symbol tables
// of every module in mods into one immutable snapshot.
func BuildMetadata(mods map[ModuleID]*Module) *Metadata {
	m := &Metadata{
		paths:           make(map[ModuleID]string, len(mods)),
		moduleFunctions: make(map[ModuleID]map[string]FunctionID, len(mods)),
		moduleStructs:   make(map[ModuleID]map[string]StructID, len(mods)),
		functions:       make(map[FunctionID]Function),
		structs:         make(map[StructID]Struct),
	}
	for id, mod := range mods {
		m.paths[id] = mod.Path

		fm := make(map[string]FunctionID, len(mod.Functions))
		for i, fn := range mod.Functions {
			fid := FunctionID{Module: id, Index: i}
			fm[fn.Name] = fid
			m.functions[fid] = fn
		}
		m.moduleFunctions[id] = fm

		sm := make(map[string]StructID, len(mod.Structs))
		for i, st := range mod.Structs {
			sid := StructID{Module: id, Index: i}
			sm[st.Name] = sid
			m.structs[sid] = st
		}
		m.moduleStructs[id] = sm
	}
	return m
}

// Path returns the defining file path of mod.
func (m *Metadata) Path(mod ModuleID) (string, bool) {
	p, ok := m.paths[mod]
	return p, ok
}

// LookupFunction finds name among mod's top-level functions.
func (m *Metadata) LookupFunction(mod ModuleID, name string) (FunctionID, bool) {
	fm, ok := m.moduleFunctions[mod]
	if !ok {
		return FunctionID{}, false
	}
	id, ok := fm[name]
	return id, ok
}

// Function resolves a FunctionID to its signature.
func (m *Metadata) Function(id FunctionID) (Function, bool) {
	f, ok := m.functions[id]
	return f, ok
}

// LookupStruct finds name among mod's top-level struct definitions.
func (m *Metadata) LookupStruct(mod ModuleID, name string) (StructID, bool) {
	sm, ok := m.moduleStructs[mod]
	if !ok {
		return StructID{}, false
	}
	id, ok := sm[name]
	return id, ok
}

// Struct resolves a StructID to its field list.
func (m *Metadata) Struct(id StructID) (Struct, bool) {
	s, ok := m.structs[id]
	return s, ok
}
