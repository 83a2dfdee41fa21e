package backend

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/types"
	"github.com/airylang/airyc/internal/value"
)

// constScalar lowers one already-folded scalar value.Value to its LLVM
// constant, under the scalar type t (after Strip). This is the leaf case
// every aggregate and every scalar global initializer bottoms out at
// (§4.5.7's value domain meets §4.6's constant builders).
func (g *gen) constScalar(t types.Type, v value.Value) (constant.Constant, error) {
	switch t.Kind() {
	case types.KindI32:
		return constant.NewInt(irtypes.I32, v.Int()), nil
	case types.KindI8:
		return constant.NewInt(irtypes.I8, v.Int()), nil
	case types.KindBool:
		b := int64(0)
		if v.AsBool() {
			b = 1
		}
		return constant.NewInt(irtypes.I1, b), nil
	case types.KindPointer:
		pt, err := g.llType(t)
		if err != nil {
			return nil, err
		}
		return constant.NewNull(pt.(*irtypes.PointerType)), nil
	case types.KindStruct:
		if v.Kind() == value.KindStructZero || v.Kind() == value.KindStruct {
			return g.constStructValue(t, v)
		}
		return nil, errTypeMismatch("expected struct constant")
	default:
		return nil, errTypeMismatch("unsupported scalar constant type " + t.String())
	}
}

// constStructValue lowers a folded value.Value of kind Struct/StructZero
// to an LLVM struct constant, recursing field by field using the field
// types from the metadata snapshot.
func (g *gen) constStructValue(t types.Type, v value.Value) (constant.Constant, error) {
	pid := project.StructID{Module: project.ModuleID(t.StructID().Module), Index: t.StructID().Index}
	def, ok := g.meta.Struct(pid)
	if !ok {
		return nil, errMissing("struct definition for " + t.StructName())
	}
	st, err := g.structType(t.StructID())
	if err != nil {
		return nil, err
	}
	fields := v.Fields()
	out := make([]constant.Constant, len(def.Fields))
	for i, f := range def.Fields {
		var fv value.Value
		if i < len(fields) {
			fv = fields[i]
		} else {
			fv = g.zeroValue(f.Type)
		}
		c, err := g.constScalar(f.Type.Strip(), fv)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return constant.NewStruct(st, out...), nil
}

// zeroConstant builds the default-initialized LLVM constant for t,
// used for declarations without an initializer and for implicit
// fall-off-the-end returns (§4.6 "functions that control-flow off the
// end get a synthesized return of the zero value").
func (g *gen) zeroConstant(t types.Type) (constant.Constant, error) {
	return g.constAggregate(t, nil)
}

// zeroValue returns the default-initialized value.Value for t, used to
// pad under-specified aggregate initializers (§4.5.6).
func (g *gen) zeroValue(t types.Type) value.Value {
	switch t.Strip().Kind() {
	case types.KindI32:
		return value.I32(0)
	case types.KindI8:
		return value.I8(0)
	case types.KindBool:
		return value.Bool(false)
	case types.KindPointer:
		return value.Null()
	case types.KindStruct:
		return value.StructZero(t.Strip().StructID())
	default:
		return value.I32(0)
	}
}

// arrayShape decomposes a (possibly multi-dimensional) Array type into
// its flat element count, its dimension list outermost-first, and the
// ultimate non-array base type.
func arrayShape(t types.Type) (dims []int, base types.Type, ok bool) {
	cur := t.Strip()
	for cur.Kind() == types.KindArray {
		size, has := cur.Size()
		if !has {
			return nil, types.Type{}, false
		}
		dims = append(dims, size)
		cur = cur.Elem().Strip()
	}
	return dims, cur, true
}

// constAggregate lowers an ArrayTree to its LLVM constant under
// declared type t (§4.6 "aggregate initializer lowering"). tree may be
// nil, meaning "entirely defaulted" (e.g. a trailing struct field with
// no corresponding INIT_VAL).
func (g *gen) constAggregate(t types.Type, tree *project.ArrayTree) (constant.Constant, error) {
	st := t.Strip()
	switch st.Kind() {
	case types.KindStruct:
		pid := project.StructID{Module: project.ModuleID(st.StructID().Module), Index: st.StructID().Index}
		def, ok := g.meta.Struct(pid)
		if !ok {
			return nil, errMissing("struct definition for " + st.StructName())
		}
		irst, err := g.structType(st.StructID())
		if err != nil {
			return nil, err
		}
		var children []*project.ArrayTree
		if tree != nil {
			children = tree.Children
		}
		out := make([]constant.Constant, len(def.Fields))
		for i, f := range def.Fields {
			var child *project.ArrayTree
			if i < len(children) {
				child = children[i]
			}
			c, err := g.constAggregate(f.Type, child)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return constant.NewStruct(irst, out...), nil

	case types.KindArray:
		dims, base, ok := arrayShape(t)
		if !ok {
			return nil, errUnsupported("array constant with unsized dimension")
		}
		if base.Kind() == types.KindStruct {
			return g.constArrayOfStruct(dims, base, tree)
		}
		total := 1
		for _, d := range dims {
			total *= d
		}
		var flat []value.Value
		if tree != nil {
			flat = tree.Flatten(total, g.zeroValue(base))
		} else {
			flat = make([]value.Value, total)
			for i := range flat {
				flat[i] = g.zeroValue(base)
			}
		}
		pos := 0
		return g.constNestedArray(dims, base, flat, &pos)
	default:
		if tree != nil && tree.IsScalar() {
			return g.constScalar(st, *tree.Scalar)
		}
		return g.constScalar(st, g.zeroValue(t))
	}
}

// constArrayOfStruct handles the one aggregate shape Flatten cannot
// serve directly: an array whose element type is itself a struct, so
// each element is matched against the tree's own children rather than
// a flat scalar run.
func (g *gen) constArrayOfStruct(dims []int, base types.Type, tree *project.ArrayTree) (constant.Constant, error) {
	elemT := base
	var llElem irtypes.Type
	var err error
	if len(dims) > 1 {
		llElem, err = g.llType(rebuildArrayType(dims[1:], base))
		if err != nil {
			return nil, err
		}
	}
	size := dims[0]
	var children []*project.ArrayTree
	if tree != nil {
		children = tree.Children
	}
	elems := make([]constant.Constant, size)
	for i := 0; i < size; i++ {
		var child *project.ArrayTree
		if i < len(children) {
			child = children[i]
		}
		var c constant.Constant
		var err error
		if len(dims) == 1 {
			c, err = g.constAggregate(elemT, child)
		} else {
			c, err = g.constArrayOfStruct(dims[1:], base, child)
		}
		if err != nil {
			return nil, err
		}
		elems[i] = c
	}
	var arrType *irtypes.ArrayType
	if len(dims) == 1 {
		t, err := g.llType(elemT)
		if err != nil {
			return nil, err
		}
		arrType = irtypes.NewArray(uint64(size), t)
	} else {
		arrType = irtypes.NewArray(uint64(size), llElem)
	}
	return constant.NewArray(arrType, elems...), nil
}

// rebuildArrayType reconstructs a types.Type for the given outer
// dimensions over base, innermost-first, solely so llType can compute
// the inner LLVM array type for constArrayOfStruct's recursion.
func rebuildArrayType(dims []int, base types.Type) types.Type {
	t := base
	for i := len(dims) - 1; i >= 0; i-- {
		size := dims[i]
		t = types.Array(t, &size)
	}
	return t
}

// constNestedArray consumes flat in row-major order, building the
// nested LLVM array constant matching dims.
func (g *gen) constNestedArray(dims []int, base types.Type, flat []value.Value, pos *int) (constant.Constant, error) {
	if len(dims) == 0 {
		v := flat[*pos]
		*pos++
		return g.constScalar(base.Strip(), v)
	}
	size := dims[0]
	elems := make([]constant.Constant, size)
	for i := 0; i < size; i++ {
		c, err := g.constNestedArray(dims[1:], base, flat, pos)
		if err != nil {
			return nil, err
		}
		elems[i] = c
	}
	var elemType irtypes.Type
	var err error
	if len(dims) == 1 {
		elemType, err = g.llType(base)
	} else {
		elemType, err = g.llType(rebuildArrayType(dims[1:], base))
	}
	if err != nil {
		return nil, err
	}
	return constant.NewArray(irtypes.NewArray(uint64(size), elemType), elems...), nil
}
