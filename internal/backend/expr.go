package backend

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	irvalue "github.com/llir/llvm/ir/value"

	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

// exprType looks up the type the analyzer already computed for e; every
// expression reaching the backend was type-checked, so this is always
// present (§4.6 relies on §4.5's TypeTable instead of re-deriving types).
func (g *gen) exprType(e syntax.Expr) types.Type {
	return g.mod.TypeTable[e.Range()]
}

// coerce widens/narrows val from its current LLVM type to target's
// LLVM representation, following the same i32 > i8 > bool widening
// order as types.PromoteNumeric (§3, §4.5.4).
func (g *gen) coerce(val irvalue.Value, target types.Type) (irvalue.Value, error) {
	tt, err := g.llType(target)
	if err != nil {
		return nil, err
	}
	if val.Type().Equal(tt) {
		return val, nil
	}
	srcInt, srcOK := val.Type().(*irtypes.IntType)
	dstInt, dstOK := tt.(*irtypes.IntType)
	if srcOK && dstOK {
		if dstInt.BitSize > srcInt.BitSize {
			return g.curBlock.NewSExt(val, dstInt), nil
		}
		return g.curBlock.NewTrunc(val, dstInt), nil
	}
	return val, nil
}

// lowerExprRValue evaluates e for its value. Arrays decay to a pointer
// to their first element rather than being loaded, matching C-like
// array-to-pointer decay (§3 "arrays decay when read").
func (g *gen) lowerExprRValue(e syntax.Expr) (irvalue.Value, error) {
	t := g.exprType(e)
	if t.Strip().Kind() == types.KindArray {
		addr, _, err := g.lowerLValue(e)
		if err != nil {
			return nil, err
		}
		arrT, err := g.llType(t.Strip())
		if err != nil {
			return nil, err
		}
		zero := constant.NewInt(irtypes.I32, 0)
		return g.curBlock.NewGetElementPtr(arrT, addr, zero, zero), nil
	}

	switch e.Kind() {
	case token.LIT_EXPR:
		return g.lowerLiteral(e)

	case token.NAME_EXPR, token.INDEX_EXPR, token.FIELD_EXPR, token.ARROW_FIELD_EXPR, token.DEREF_EXPR:
		addr, elemType, err := g.lowerLValue(e)
		if err != nil {
			return nil, err
		}
		lt, err := g.llType(elemType)
		if err != nil {
			return nil, err
		}
		return g.curBlock.NewLoad(lt, addr), nil

	case token.PAREN_EXPR:
		inner, ok := e.Inner()
		if !ok {
			return nil, errMissing("parenthesized expression")
		}
		return g.lowerExprRValue(inner)

	case token.UNARY_EXPR:
		return g.lowerUnary(e)

	case token.BINARY_EXPR:
		return g.lowerBinary(e)

	case token.CALL_EXPR:
		return g.lowerCall(e)

	case token.ADDR_EXPR:
		operand, ok := e.Operand()
		if !ok {
			return nil, errMissing("address-of operand")
		}
		addr, _, err := g.lowerLValue(operand)
		return addr, err

	default:
		return nil, errNotImplemented("expression kind " + e.Kind().String())
	}
}

func (g *gen) lowerLiteral(e syntax.Expr) (irvalue.Value, error) {
	tok, ok := e.LitToken()
	if !ok {
		return nil, errMissing("literal token")
	}
	t := g.exprType(e).Strip()
	switch tok.Kind() {
	case token.INT_NUMBER:
		n, err := strconv.ParseInt(tok.Text(), 10, 64)
		if err != nil {
			return nil, errBuild("integer literal " + tok.Text())
		}
		lt, err := g.llType(t)
		if err != nil {
			return nil, err
		}
		it, ok := lt.(*irtypes.IntType)
		if !ok {
			it = irtypes.I32
		}
		return constant.NewInt(it, n), nil
	case token.TRUE_KW:
		return constant.NewInt(irtypes.I1, 1), nil
	case token.FALSE_KW:
		return constant.NewInt(irtypes.I1, 0), nil
	case token.NULL_KW:
		lt, err := g.llType(t)
		if err != nil {
			return nil, err
		}
		pt, ok := lt.(*irtypes.PointerType)
		if !ok {
			return nil, errTypeMismatch("null literal used outside a pointer context")
		}
		return constant.NewNull(pt), nil
	default:
		return nil, errNotImplemented("literal kind " + tok.Kind().String())
	}
}

// lowerLValue computes the address of e along with the language-level
// type stored at that address (§4.5.4's lvalue rule: index, field/
// arrow-field, deref, and plain names are addressable).
func (g *gen) lowerLValue(e syntax.Expr) (irvalue.Value, types.Type, error) {
	switch e.Kind() {
	case token.NAME_EXPR:
		nameTok, ok := e.NameToken()
		if !ok {
			return nil, types.Type{}, errMissing("name")
		}
		return g.lowerNameAddr(nameTok.Text(), e)

	case token.INDEX_EXPR:
		return g.lowerIndexAddr(e)

	case token.FIELD_EXPR:
		return g.lowerFieldAddr(e, false)

	case token.ARROW_FIELD_EXPR:
		return g.lowerFieldAddr(e, true)

	case token.DEREF_EXPR:
		operand, ok := e.Operand()
		if !ok {
			return nil, types.Type{}, errMissing("deref operand")
		}
		val, err := g.lowerExprRValue(operand)
		if err != nil {
			return nil, types.Type{}, err
		}
		pt := g.exprType(operand).Strip()
		return val, pt.Pointee(), nil

	default:
		return nil, types.Type{}, errUnsupported("expression is not an lvalue")
	}
}

func (g *gen) lowerNameAddr(name string, e syntax.Expr) (irvalue.Value, types.Type, error) {
	ref, ok := g.resolveUse(e.Range())
	if !ok {
		return nil, types.Type{}, errUndefinedVar(name)
	}
	if alloca, ok := g.locals[ref.VarID]; ok {
		return alloca, g.varTypeOf(ref), nil
	}
	if global, ok := g.globals[ref.VarID]; ok {
		return global, g.varTypeOf(ref), nil
	}
	return nil, types.Type{}, errUndefinedVar(name)
}

// resolveUse finds the Reference the analyzer recorded at useRange.
func (g *gen) resolveUse(useRange green.Range) (project.Reference, bool) {
	rid, ok := g.mod.ReferenceMap[useRange]
	if !ok {
		return project.Reference{}, false
	}
	return g.mod.References[rid], true
}

func (g *gen) varTypeOf(ref project.Reference) types.Type {
	return g.mod.Variables[int(ref.VarID)].Type
}

func (g *gen) lowerIndexAddr(e syntax.Expr) (irvalue.Value, types.Type, error) {
	base, ok := e.Base()
	if !ok {
		return nil, types.Type{}, errMissing("index base")
	}
	baseType := g.exprType(base).Strip()
	var elemType types.Type
	var basePtr irvalue.Value
	var aggType irtypes.Type
	var err error
	switch baseType.Kind() {
	case types.KindArray:
		elemType = baseType.Elem()
		basePtr, _, err = g.lowerLValue(base)
		if err != nil {
			return nil, types.Type{}, err
		}
		aggType, err = g.llType(baseType)
	case types.KindPointer:
		elemType = baseType.Pointee()
		basePtr, err = g.lowerExprRValue(base)
		if err != nil {
			return nil, types.Type{}, err
		}
		aggType, err = g.llType(elemType)
	default:
		return nil, types.Type{}, errTypeMismatch("indexing a non-array, non-pointer value")
	}
	if err != nil {
		return nil, types.Type{}, err
	}
	indices := e.Indices()
	if len(indices) == 0 {
		return nil, types.Type{}, errMissing("index expression")
	}
	idxVal, err := g.lowerExprRValue(indices[0])
	if err != nil {
		return nil, types.Type{}, err
	}
	var addr irvalue.Value
	if baseType.Kind() == types.KindArray {
		zero := constant.NewInt(irtypes.I32, 0)
		addr = g.curBlock.NewGetElementPtr(aggType, basePtr, zero, idxVal)
	} else {
		addr = g.curBlock.NewGetElementPtr(aggType, basePtr, idxVal)
	}
	for _, extra := range indices[1:] {
		nested := elemType.Strip()
		if nested.Kind() != types.KindArray {
			return nil, types.Type{}, errTypeMismatch("too many index dimensions")
		}
		elemType = nested.Elem()
		nt, err := g.llType(nested)
		if err != nil {
			return nil, types.Type{}, err
		}
		iv, err := g.lowerExprRValue(extra)
		if err != nil {
			return nil, types.Type{}, err
		}
		zero := constant.NewInt(irtypes.I32, 0)
		addr = g.curBlock.NewGetElementPtr(nt, addr, zero, iv)
	}
	return addr, elemType, nil
}

func (g *gen) lowerFieldAddr(e syntax.Expr, arrow bool) (irvalue.Value, types.Type, error) {
	base, ok := e.Base()
	if !ok {
		return nil, types.Type{}, errMissing("field base")
	}
	var basePtr irvalue.Value
	var structType types.Type
	var err error
	if arrow {
		basePtr, err = g.lowerExprRValue(base)
		if err != nil {
			return nil, types.Type{}, err
		}
		structType = g.exprType(base).Strip().Pointee().Strip()
	} else {
		basePtr, _, err = g.lowerLValue(base)
		if err != nil {
			return nil, types.Type{}, err
		}
		structType = g.exprType(base).Strip()
	}
	fieldTok, ok := e.FieldNameToken()
	if !ok {
		return nil, types.Type{}, errMissing("field name")
	}
	pid := project.StructID{Module: project.ModuleID(structType.StructID().Module), Index: structType.StructID().Index}
	def, ok := g.meta.Struct(pid)
	if !ok {
		return nil, types.Type{}, errMissing("struct definition for " + structType.StructName())
	}
	idx := -1
	for i, f := range def.Fields {
		if f.Name == fieldTok.Text() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, types.Type{}, errMissing("field " + fieldTok.Text())
	}
	st, err := g.structType(structType.StructID())
	if err != nil {
		return nil, types.Type{}, err
	}
	zero := constant.NewInt(irtypes.I32, 0)
	fi := constant.NewInt(irtypes.I32, int64(idx))
	addr := g.curBlock.NewGetElementPtr(st, basePtr, zero, fi)
	return addr, def.Fields[idx].Type, nil
}

func (g *gen) lowerUnary(e syntax.Expr) (irvalue.Value, error) {
	op, ok := e.Op()
	if !ok {
		return nil, errMissing("unary operator")
	}
	operand, ok := e.Operand()
	if !ok {
		return nil, errMissing("unary operand")
	}
	val, err := g.lowerExprRValue(operand)
	if err != nil {
		return nil, err
	}
	switch op.Kind() {
	case token.PLUS:
		return val, nil
	case token.MINUS:
		it, ok := val.Type().(*irtypes.IntType)
		if !ok {
			return nil, errTypeMismatch("unary minus on non-integer")
		}
		return g.curBlock.NewSub(constant.NewInt(it, 0), val), nil
	case token.BANG:
		return g.curBlock.NewXor(val, constant.NewInt(irtypes.I1, 1)), nil
	default:
		return nil, errNotImplemented("unary operator " + op.Kind().String())
	}
}

func (g *gen) lowerBinary(e syntax.Expr) (irvalue.Value, error) {
	op, ok := e.Op()
	if !ok {
		return nil, errMissing("binary operator")
	}
	lhs, okL := e.LHS()
	rhs, okR := e.RHS()
	if !okL || !okR {
		return nil, errMissing("binary operand")
	}

	// Short-circuit && and || branch instead of evaluating both sides
	// unconditionally (§4.5.4).
	if op.Kind() == token.ANDAND || op.Kind() == token.OROR {
		return g.lowerShortCircuit(op.Kind(), lhs, rhs)
	}

	l, err := g.lowerExprRValue(lhs)
	if err != nil {
		return nil, err
	}
	r, err := g.lowerExprRValue(rhs)
	if err != nil {
		return nil, err
	}
	promoted := types.PromoteNumeric(g.exprType(lhs), g.exprType(rhs))
	l, err = g.coerce(l, promoted)
	if err != nil {
		return nil, err
	}
	r, err = g.coerce(r, promoted)
	if err != nil {
		return nil, err
	}

	switch op.Kind() {
	case token.PLUS:
		return g.curBlock.NewAdd(l, r), nil
	case token.MINUS:
		return g.curBlock.NewSub(l, r), nil
	case token.STAR:
		return g.curBlock.NewMul(l, r), nil
	case token.SLASH:
		return g.curBlock.NewSDiv(l, r), nil
	case token.PERCENT:
		return g.curBlock.NewSRem(l, r), nil
	case token.EQEQ:
		return g.curBlock.NewICmp(enum.IPredEQ, l, r), nil
	case token.NEQ:
		return g.curBlock.NewICmp(enum.IPredNE, l, r), nil
	case token.LT:
		return g.curBlock.NewICmp(enum.IPredSLT, l, r), nil
	case token.GT:
		return g.curBlock.NewICmp(enum.IPredSGT, l, r), nil
	case token.LE:
		return g.curBlock.NewICmp(enum.IPredSLE, l, r), nil
	case token.GE:
		return g.curBlock.NewICmp(enum.IPredSGE, l, r), nil
	default:
		return nil, errNotImplemented("binary operator " + op.Kind().String())
	}
}

func (g *gen) lowerShortCircuit(op token.Kind, lhs, rhs syntax.Expr) (irvalue.Value, error) {
	l, err := g.lowerExprRValue(lhs)
	if err != nil {
		return nil, err
	}
	startBlock := g.curBlock
	rhsBlock := g.curFunc.NewBlock("sc.rhs")
	endBlock := g.curFunc.NewBlock("sc.end")

	if op == token.ANDAND {
		g.curBlock.NewCondBr(l, rhsBlock, endBlock)
	} else {
		g.curBlock.NewCondBr(l, endBlock, rhsBlock)
	}

	g.curBlock = rhsBlock
	r, err := g.lowerExprRValue(rhs)
	if err != nil {
		return nil, err
	}
	rhsEndBlock := g.curBlock
	g.curBlock.NewBr(endBlock)

	g.curBlock = endBlock
	shortCircuitValue := constant.NewInt(irtypes.I1, boolLit(op == token.OROR))
	phi := g.curBlock.NewPhi(
		ir.NewIncoming(shortCircuitValue, startBlock),
		ir.NewIncoming(r, rhsEndBlock),
	)
	return phi, nil
}

func boolLit(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func (g *gen) lowerCall(e syntax.Expr) (irvalue.Value, error) {
	callee, ok := e.Callee()
	if !ok {
		return nil, errMissing("call callee")
	}
	nameTok, ok := callee.NameToken()
	if !ok {
		return nil, errUnsupported("indirect calls are not supported")
	}
	name := nameTok.Text()

	argExprs := e.Args()
	args := make([]irvalue.Value, 0, len(argExprs))
	for _, a := range argExprs {
		v, err := g.lowerExprRValue(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if ref, ok := g.resolveUse(e.Range()); ok && ref.Kind == project.RefFuncCall {
		var fn irvalue.Value
		if ref.FuncID.Module == g.mod.ID {
			irfn, ok := g.ownFuncs[ref.FuncID]
			if !ok {
				return nil, errUndefinedFunc(name)
			}
			fn = irfn
			params := g.mod.Functions[ref.FuncID.Index].Params
			args = g.coerceArgs(args, params)
		} else {
			irfn, err := g.externFunc(ref.FuncID)
			if err != nil {
				return nil, err
			}
			fn = irfn
			sig, _ := g.meta.Function(ref.FuncID)
			args = g.coerceArgs(args, sig.Params)
		}
		return g.curBlock.NewCall(fn, args...), nil
	}

	if fn, ok := g.builtins[name]; ok {
		return g.curBlock.NewCall(fn, args...), nil
	}
	return nil, errUndefinedFunc(name)
}

func (g *gen) coerceArgs(args []irvalue.Value, params []types.Type) []irvalue.Value {
	for i := range args {
		if i >= len(params) {
			break
		}
		if c, err := g.coerce(args[i], params[i]); err == nil {
			args[i] = c
		}
	}
	return args
}
