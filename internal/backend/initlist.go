package backend

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	irvalue "github.com/llir/llvm/ir/value"

	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

// storeInitList lowers a local `let`'s brace initializer by storing
// into addr element by element, in declaration order, re-evaluating
// each INIT_VAL's expression at the point of the store rather than
// consulting the analyzer's folded ArrayTree — unlike a global, a local
// aggregate initializer may freely mix constant and runtime values
// (§4.6 "mixed constant/runtime trees"), and only the original
// expression nodes carry the runtime ones.
func (g *gen) storeInitList(addr irvalue.Value, t types.Type, initList *green.Node) error {
	st := t.Strip()
	initVals := initList.ChildrenOfKind(token.INIT_VAL)

	switch st.Kind() {
	case types.KindStruct:
		pid := project.StructID{Module: project.ModuleID(st.StructID().Module), Index: st.StructID().Index}
		def, ok := g.meta.Struct(pid)
		if !ok {
			return errMissing("struct definition for " + st.StructName())
		}
		llst, err := g.structType(st.StructID())
		if err != nil {
			return err
		}
		for i, f := range def.Fields {
			var inner *green.Node
			if i < len(initVals) {
				inner = initValInner(initVals[i])
			}
			zero := constant.NewInt(irtypes.I32, 0)
			fi := constant.NewInt(irtypes.I32, int64(i))
			fieldAddr := g.curBlock.NewGetElementPtr(llst, addr, zero, fi)
			if err := g.storeSlot(fieldAddr, f.Type, inner); err != nil {
				return err
			}
		}
		return nil

	case types.KindArray:
		elemT := st.Elem()
		size, ok := st.Size()
		if !ok {
			return errUnsupported("array initializer with unsized dimension")
		}
		llArr, err := g.llType(st)
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			var inner *green.Node
			if i < len(initVals) {
				inner = initValInner(initVals[i])
			}
			zero := constant.NewInt(irtypes.I32, 0)
			idx := constant.NewInt(irtypes.I32, int64(i))
			elemAddr := g.curBlock.NewGetElementPtr(llArr, addr, zero, idx)
			if err := g.storeSlot(elemAddr, elemT, inner); err != nil {
				return err
			}
		}
		return nil

	default:
		return errTypeMismatch("brace initializer used for scalar type " + t.String())
	}
}

// storeSlot fills one array element or struct field: zero-fill if the
// initializer under-specifies it, recurse for a nested brace
// initializer, or evaluate and store a plain expression.
func (g *gen) storeSlot(addr irvalue.Value, t types.Type, inner *green.Node) error {
	if inner == nil {
		zc, err := g.zeroConstant(t)
		if err != nil {
			return err
		}
		g.curBlock.NewStore(zc, addr)
		return nil
	}
	if inner.Kind() == token.INIT_LIST {
		return g.storeInitList(addr, t, inner)
	}
	e, ok := syntax.AsExpr(inner)
	if !ok {
		return errUnsupported("malformed initializer element")
	}
	val, err := g.lowerExprRValue(e)
	if err != nil {
		return err
	}
	val, err = g.coerce(val, t)
	if err != nil {
		return err
	}
	g.curBlock.NewStore(val, addr)
	return nil
}

// initValInner returns an INIT_VAL's one meaningful child: a nested
// INIT_LIST or the expression it wraps.
func initValInner(initVal *green.Node) *green.Node {
	children := initVal.ChildNodes()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
