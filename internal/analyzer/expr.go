package analyzer

import (
	"strconv"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

// typeOfExpr computes e's type bottom-up (§4.5.4), recording it into the
// module's TypeTable and every name/field/call use into References, and
// reports the appropriate SEM### diagnostic on mismatch. It always
// returns a usable Type; on error that is types.Void, which callers
// naturally swallow since Void fails every subsequent compatibility
// check without cascading a second diagnostic.
func (a *moduleAnalyzer) typeOfExpr(e syntax.Expr, sc project.ScopeID) types.Type {
	t := a.typeOfExprInner(e, sc)
	a.m.TypeTable[e.Range()] = t
	return t
}

func (a *moduleAnalyzer) typeOfExprInner(e syntax.Expr, sc project.ScopeID) types.Type {
	switch e.Kind() {
	case token.LIT_EXPR:
		return a.typeOfLiteral(e)

	case token.NAME_EXPR:
		return a.typeOfName(e, sc)

	case token.PAREN_EXPR:
		if inner, ok := e.Inner(); ok {
			return a.typeOfExpr(inner, sc)
		}
		return types.Void

	case token.UNARY_EXPR:
		return a.typeOfUnary(e, sc)

	case token.DEREF_EXPR:
		operand, ok := e.Operand()
		if !ok {
			return types.Void
		}
		t := a.typeOfExpr(operand, sc)
		if t.Strip().Kind() != types.KindPointer {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "cannot dereference non-pointer type "+t.String())
			return types.Void
		}
		return t.Strip().Pointee()

	case token.ADDR_EXPR:
		operand, ok := e.Operand()
		if !ok {
			return types.Void
		}
		if !operand.IsLValue() {
			a.errorAt(diag.SEM014AddressOfRight, e.Range(), "cannot take the address of a non-lvalue")
			return types.Void
		}
		t := a.typeOfExpr(operand, sc)
		return types.Pointer(t, t.IsConst())

	case token.BINARY_EXPR:
		return a.typeOfBinary(e, sc)

	case token.CALL_EXPR:
		return a.typeOfCall(e, sc)

	case token.INDEX_EXPR:
		return a.typeOfIndex(e, sc)

	case token.FIELD_EXPR:
		return a.typeOfField(e, sc, false)

	case token.ARROW_FIELD_EXPR:
		return a.typeOfField(e, sc, true)

	default:
		return types.Void
	}
}

func (a *moduleAnalyzer) typeOfLiteral(e syntax.Expr) types.Type {
	tok, ok := e.LitToken()
	if !ok {
		return types.Void
	}
	switch tok.Kind() {
	case token.INT_NUMBER:
		n, err := parseIntLiteral(tok.Text())
		if err != nil {
			return types.I32
		}
		if n < i32Min || n > i32Max {
			a.errorAt(diag.SEM022ConstOverflow, e.Range(), "integer literal overflows i32: "+tok.Text())
		}
		return types.I32
	case token.TRUE_KW, token.FALSE_KW:
		return types.Bool
	case token.NULL_KW:
		return types.Pointer(types.Void, false)
	case token.STRING_LIT:
		return types.Pointer(types.Const(types.I8), true)
	default:
		return types.Void
	}
}

func (a *moduleAnalyzer) typeOfName(e syntax.Expr, sc project.ScopeID) types.Type {
	nameTok, ok := e.NameToken()
	if !ok {
		return types.Void
	}
	name := nameTok.Text()
	vid, ok := a.m.LookupVariable(sc, name)
	if !ok {
		a.errorAt(diag.SEM004VariableUndefined, e.Range(), "undefined variable "+name)
		return types.Void
	}
	a.m.AddReference(project.Reference{Kind: project.RefVarRead, VarID: vid, UseRange: e.Range()})
	return a.m.Variables[vid].Type
}

func (a *moduleAnalyzer) typeOfUnary(e syntax.Expr, sc project.ScopeID) types.Type {
	op, okOp := e.Op()
	operand, okOperand := e.Operand()
	if !okOp || !okOperand {
		return types.Void
	}
	t := a.typeOfExpr(operand, sc)
	switch op.Kind() {
	case token.PLUS, token.MINUS:
		if !t.IsNumeric() {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "unary "+op.Text()+" requires a numeric operand, got "+t.String())
			return types.Void
		}
		return t.Strip()
	case token.BANG:
		if t.Strip().Kind() != types.KindBool {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "! requires a bool operand, got "+t.String())
			return types.Void
		}
		return types.Bool
	default:
		return types.Void
	}
}

func (a *moduleAnalyzer) typeOfBinary(e syntax.Expr, sc project.ScopeID) types.Type {
	op, okOp := e.Op()
	lhs, okL := e.LHS()
	rhs, okR := e.RHS()
	if !okOp || !okL || !okR {
		return types.Void
	}
	lt := a.typeOfExpr(lhs, sc)
	rt := a.typeOfExpr(rhs, sc)
	switch op.Kind() {
	case token.ANDAND, token.OROR:
		if lt.Strip().Kind() != types.KindBool || rt.Strip().Kind() != types.KindBool {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "&&/|| require bool operands")
			return types.Void
		}
		return types.Bool
	case token.EQEQ, token.NEQ, token.LT, token.GT, token.LE, token.GE:
		if !lt.IsNumeric() || !rt.IsNumeric() {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "comparison requires numeric operands")
			return types.Void
		}
		return types.Bool
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if !lt.IsNumeric() || !rt.IsNumeric() {
			a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "arithmetic requires numeric operands, got "+lt.String()+" and "+rt.String())
			return types.Void
		}
		return types.PromoteNumeric(lt, rt)
	default:
		return types.Void
	}
}

func (a *moduleAnalyzer) typeOfCall(e syntax.Expr, sc project.ScopeID) types.Type {
	callee, ok := e.Callee()
	if !ok {
		return types.Void
	}
	nameTok, ok := callee.NameToken()
	if !ok {
		a.errorAt(diag.SEM011ApplyOpOnType, e.Range(), "callee is not a function name")
		return types.Void
	}
	name := nameTok.Text()
	fid, ok := a.lookupFunction(name)
	if !ok {
		if b, ok := LookupBuiltin(name); ok {
			return a.typeOfBuiltinCall(e, b, sc)
		}
		a.errorAt(diag.SEM005FunctionUndefined, e.Range(), "undefined function "+name)
		for _, arg := range e.Args() {
			a.typeOfExpr(arg, sc)
		}
		return types.Void
	}
	fn, _ := a.m.Metadata.Function(fid)

	args := e.Args()
	if len(args) != len(fn.Params) {
		a.errorAt(diag.SEM017ArgumentCountMismatch, e.Range(),
			"call to "+name+" expects "+strconv.Itoa(len(fn.Params))+" arguments, got "+strconv.Itoa(len(args)))
	}
	for i, arg := range args {
		at := a.typeOfExpr(arg, sc)
		if i < len(fn.Params) && !compatibleAssign(fn.Params[i], at) {
			a.errorAt(diag.SEM001TypeMismatch, arg.Range(),
				"argument "+strconv.Itoa(i+1)+" to "+name+" expects "+fn.Params[i].String()+", got "+at.String())
		}
	}
	a.m.AddReference(project.Reference{Kind: project.RefFuncCall, FuncID: fid, UseRange: e.Range()})
	return fn.Ret
}

// typeOfBuiltinCall checks a call against a hard-coded SysY runtime
// signature (§4.5.8): no FunctionID exists for a builtin, so no
// Reference is recorded, just the argument/return typing.
func (a *moduleAnalyzer) typeOfBuiltinCall(e syntax.Expr, b Builtin, sc project.ScopeID) types.Type {
	args := e.Args()
	if len(args) != len(b.Params) {
		a.errorAt(diag.SEM017ArgumentCountMismatch, e.Range(),
			"call to "+b.Name+" expects "+strconv.Itoa(len(b.Params))+" arguments, got "+strconv.Itoa(len(args)))
	}
	for i, arg := range args {
		at := a.typeOfExpr(arg, sc)
		if i < len(b.Params) && !compatibleAssign(b.Params[i], at) {
			a.errorAt(diag.SEM001TypeMismatch, arg.Range(),
				"argument "+strconv.Itoa(i+1)+" to "+b.Name+" expects "+b.Params[i].String()+", got "+at.String())
		}
	}
	return b.Ret
}

// lookupFunction resolves name against the module's own function table
// first, then every unqualified or selectively-matching import.
func (a *moduleAnalyzer) lookupFunction(name string) (project.FunctionID, bool) {
	if fid, ok := a.m.FunctionMap[name]; ok {
		return fid, true
	}
	for _, imp := range a.m.Imports {
		if imp.HasSymbol && imp.Symbol != name {
			continue
		}
		if fid, ok := a.m.Metadata.LookupFunction(imp.Module, name); ok {
			return fid, true
		}
	}
	return project.FunctionID{}, false
}

func (a *moduleAnalyzer) typeOfIndex(e syntax.Expr, sc project.ScopeID) types.Type {
	base, ok := e.Base()
	if !ok {
		return types.Void
	}
	cur := a.typeOfExpr(base, sc)
	for _, idx := range e.Indices() {
		it := a.typeOfExpr(idx, sc)
		if !it.IsNumeric() {
			a.errorAt(diag.SEM016ArrayError, idx.Range(), "array index must be numeric, got "+it.String())
		}
		wasConst := cur.IsConst()
		switch cur.Strip().Kind() {
		case types.KindArray:
			cur = cur.Strip().Elem()
		case types.KindPointer:
			cur = cur.Strip().Pointee()
		default:
			a.errorAt(diag.SEM016ArrayError, e.Range(), "cannot index into "+cur.String())
			return types.Void
		}
		if wasConst && !cur.IsConst() {
			cur = types.Const(cur)
		}
	}
	return cur
}

func (a *moduleAnalyzer) typeOfField(e syntax.Expr, sc project.ScopeID, arrow bool) types.Type {
	base, ok := e.LHS()
	if !ok {
		return types.Void
	}
	fieldTok, ok := e.FieldNameToken()
	if !ok {
		return types.Void
	}
	bt := a.typeOfExpr(base, sc)
	structTy := bt.Strip()
	if arrow {
		if structTy.Kind() != types.KindPointer {
			a.errorAt(diag.SEM010NotAStructPointer, e.Range(), "-> requires a pointer-to-struct, got "+bt.String())
			return types.Void
		}
		structTy = structTy.Pointee().Strip()
	}
	if structTy.Kind() != types.KindStruct {
		a.errorAt(diag.SEM009NotAStruct, e.Range(), "field access requires a struct, got "+bt.String())
		return types.Void
	}
	st, ok := a.m.Metadata.Struct(structTy.StructID())
	if !ok {
		a.errorAt(diag.SEM007StructUndefined, e.Range(), "unresolved struct type "+structTy.StructName())
		return types.Void
	}
	name := fieldTok.Text()
	for i, f := range st.Fields {
		if f.Name == name {
			fid := project.FieldID{Module: project.ModuleID(structTy.StructID().Module), Index: i}
			a.m.AddReference(project.Reference{Kind: project.RefFieldRead, FieldID: fid, UseRange: e.Range()})
			ft := f.Type
			if bt.IsConst() && !ft.IsConst() {
				ft = types.Const(ft)
			}
			return ft
		}
	}
	a.errorAt(diag.SEM008FieldNotFound, e.Range(), "struct "+structTy.StructName()+" has no field "+name)
	return types.Void
}

const (
	i32Min = -2147483648
	i32Max = 2147483647
)

func parseIntLiteral(text string) (int64, error) {
	switch {
	case len(text) > 1 && (text[1] == 'x' || text[1] == 'X'):
		return strconv.ParseInt(text[2:], 16, 64)
	case len(text) > 1 && text[0] == '0':
		return strconv.ParseInt(text, 8, 64)
	default:
		return strconv.ParseInt(text, 10, 64)
	}
}
