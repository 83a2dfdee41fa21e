package backend

import (
	"fmt"

	irtypes "github.com/llir/llvm/ir/types"

	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/types"
)

// llType lowers a language-level Type to its LLVM representation
// (§4.6). Const is purely a source-level read-only qualifier; it never
// changes the IR representation, so it strips transparently.
func (g *gen) llType(t types.Type) (irtypes.Type, error) {
	switch t.Kind() {
	case types.KindI32:
		return irtypes.I32, nil
	case types.KindI8:
		return irtypes.I8, nil
	case types.KindBool:
		return irtypes.I1, nil
	case types.KindVoid:
		return irtypes.Void, nil
	case types.KindConst:
		return g.llType(t.Inner())
	case types.KindPointer:
		pointee, err := g.llType(t.Pointee())
		if err != nil {
			return nil, err
		}
		if pointee == irtypes.Void {
			// LLVM has no `void*`; SysY/Airy's `null`/`*const void` lowers
			// to an opaque i8* the way C historically represented it.
			pointee = irtypes.I8
		}
		return irtypes.NewPointer(pointee), nil
	case types.KindArray:
		elem, err := g.llType(t.Elem())
		if err != nil {
			return nil, err
		}
		size, ok := t.Size()
		if !ok {
			return nil, errUnsupported("unsized array type has no fixed LLVM representation")
		}
		return irtypes.NewArray(uint64(size), elem), nil
	case types.KindStruct:
		return g.structType(t.StructID())
	default:
		return nil, errTypeMismatch("unrecognized type kind")
	}
}

// structType returns (defining on first use) the identified LLVM struct
// type for id, built from the metadata snapshot's field list so a
// struct imported from another module lowers identically on both sides.
func (g *gen) structType(id types.StructID) (*irtypes.StructType, error) {
	if st, ok := g.structTypes[id]; ok {
		return st, nil
	}
	pid := project.StructID{Module: project.ModuleID(id.Module), Index: id.Index}
	def, ok := g.meta.Struct(pid)
	if !ok {
		return nil, errMissing(fmt.Sprintf("struct definition for %v", pid))
	}
	fieldTypes := make([]irtypes.Type, 0, len(def.Fields))
	for _, f := range def.Fields {
		ft, err := g.llType(f.Type)
		if err != nil {
			return nil, err
		}
		fieldTypes = append(fieldTypes, ft)
	}
	st := irtypes.NewStruct(fieldTypes...)
	name := def.Name
	if name == "" {
		name = "anon.struct"
	}
	named := g.m.NewTypeDef(name, st)
	g.structTypes[id] = named
	return named, nil
}
