package project

import (
	"fmt"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

// resolveType turns a TypeExpr into a types.Type, recursively resolving
// TYPE_STRUCT references against m's own struct table and every module
// it imports (§4.4 pass 3). Array sizes are folded with evalConstInt,
// the one constant-folding job this pass needs to do itself since every
// later pass depends on dimensions already being concrete integers.
// ResolveType exposes resolveType to the module analyzer, which needs it
// to type a function-local `let` the project resolver itself never sees
// (pass 3 only fills top-level declarations and signatures).
func (r *Resolver) ResolveType(m *Module, te syntax.TypeExpr) (types.Type, error) {
	return r.resolveType(m, te)
}

func (r *Resolver) resolveType(m *Module, te syntax.TypeExpr) (types.Type, error) {
	switch te.Kind() {
	case token.TYPE_PRIM:
		tk, ok := te.PrimToken()
		if !ok {
			return types.Void, fmt.Errorf("malformed primitive type")
		}
		switch tk.Kind() {
		case token.I32_KW:
			return types.I32, nil
		case token.I8_KW:
			return types.I8, nil
		case token.BOOL_KW:
			return types.Bool, nil
		case token.VOID_KW:
			return types.Void, nil
		default:
			return types.Void, fmt.Errorf("unrecognized primitive type token %s", tk.Kind())
		}

	case token.TYPE_POINTER:
		inner, ok := te.Inner()
		if !ok {
			return types.Void, fmt.Errorf("pointer type missing pointee")
		}
		pointee, err := r.resolveType(m, inner)
		if err != nil {
			return types.Void, err
		}
		return types.Pointer(pointee, !te.IsMut()), nil

	case token.TYPE_ARRAY:
		inner, ok := te.Inner()
		if !ok {
			return types.Void, fmt.Errorf("array type missing element type")
		}
		elem, err := r.resolveType(m, inner)
		if err != nil {
			return types.Void, err
		}
		sizeExpr, ok := te.SizeExpr()
		if !ok {
			return types.Void, fmt.Errorf("array type missing size expression")
		}
		n, ok := evalConstInt(sizeExpr)
		if !ok {
			return types.Void, fmt.Errorf("array size is not a constant integer expression")
		}
		size := int(n)
		return types.Array(elem, &size), nil

	case token.TYPE_STRUCT:
		nameTok, ok := te.StructNameToken()
		if !ok {
			return types.Void, fmt.Errorf("malformed struct type reference")
		}
		sid, ok := r.lookupStructByName(m, nameTok.Text())
		if !ok {
			return types.Void, fmt.Errorf("undefined struct %q", nameTok.Text())
		}
		return types.Struct(sid.ToTypeID(), nameTok.Text()), nil

	case token.TYPE_CONST:
		inner, ok := te.Inner()
		if !ok {
			return types.Void, fmt.Errorf("const type missing inner type")
		}
		inT, err := r.resolveType(m, inner)
		if err != nil {
			return types.Void, err
		}
		return types.Const(inT), nil

	default:
		return types.Void, fmt.Errorf("unrecognized type node %s", te.Kind())
	}
}

// lookupStructByName finds name among m's own structs first, then every
// module m imports unqualified (or selectively, if the import names
// exactly this symbol).
func (r *Resolver) lookupStructByName(m *Module, name string) (StructID, bool) {
	if id, ok := m.StructMap[name]; ok {
		return id, true
	}
	for _, imp := range m.Imports {
		if imp.HasSymbol && imp.Symbol != name {
			continue
		}
		other, ok := r.Modules[imp.Module]
		if !ok {
			continue
		}
		if id, ok := other.StructMap[name]; ok {
			return id, true
		}
	}
	return StructID{}, false
}

func (r *Resolver) errorAt(m *Module, code string, rng green.Range, msg string) *diag.Report {
	rep := diag.New(code, diag.PhaseResolver, msg).WithRange(rng.Start, rng.End).WithFile(m.Path)
	m.SemanticErrors = append(m.SemanticErrors, rep)
	return rep
}
