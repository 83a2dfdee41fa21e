package analyzer

import (
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
	"github.com/airylang/airyc/internal/value"
)

// analyzeInit checks initNode against declaredType: a bare expression is
// type-checked like any assignment, while an INIT_LIST brace initializer
// is checked field-by-field/element-by-element and recorded as an
// ArrayTree for the backend's store plan (§4.5.6). isGlobal gates the
// §4.5.2 step-3 rule that a global's initializer must be fully constant.
func (a *moduleAnalyzer) analyzeInit(initNode *green.Node, declaredType types.Type, sc project.ScopeID, isGlobal bool) {
	if initNode.Kind() == token.INIT_LIST {
		tree := a.buildArrayTree(initNode, declaredType, sc)
		a.m.ExpandArray[initNode.Range()] = tree
		if v, ok := treeConstValue(tree, declaredType); ok {
			a.m.ValueTable[initNode.Range()] = v
		} else if isGlobal {
			a.errorAt(diag.SEM002ConstantExprExpected, initNode.Range(),
				"global initializer must be a compile-time constant")
		}
		return
	}
	e, ok := syntax.AsExpr(initNode)
	if !ok {
		return
	}
	t := a.typeOfExpr(e, sc)
	if !compatibleAssign(declaredType, t) {
		a.errorAt(diag.SEM001TypeMismatch, e.Range(),
			"cannot initialize "+declaredType.String()+" with "+t.String())
	}
	before := len(a.errs)
	if v, ok := a.tryConstFold(e, sc); ok {
		a.m.ValueTable[e.Range()] = v
	} else if isGlobal && len(a.errs) == before {
		a.errorAt(diag.SEM002ConstantExprExpected, e.Range(),
			"global initializer must be a compile-time constant")
	}
}

// treeConstValue folds an ArrayTree into a value.Value iff every leaf it
// reaches is itself constant (§3 "Values": Value::Array(tree) /
// Value::Struct(id, [Value])). Struct-typed nodes fold to a Struct value
// keyed by the declared type's StructID; every other aggregate type
// folds to an Array value of its child folds.
func treeConstValue(t *project.ArrayTree, declaredType types.Type) (value.Value, bool) {
	if t.IsScalar() {
		if !t.IsConst {
			return value.Value{}, false
		}
		return *t.Scalar, true
	}
	elems := make([]value.Value, 0, len(t.Children))
	for _, c := range t.Children {
		var childType types.Type
		switch declaredType.Strip().Kind() {
		case types.KindArray:
			childType = declaredType.Strip().Elem()
		default:
			childType = declaredType
		}
		v, ok := treeConstValue(c, childType)
		if !ok {
			return value.Value{}, false
		}
		elems = append(elems, v)
	}
	if declaredType.Strip().Kind() == types.KindStruct {
		return value.Struct(declaredType.Strip().StructID(), elems), true
	}
	return value.Array(elems), true
}

// buildArrayTree walks one INIT_LIST/INIT_VAL shape, recursing into
// nested brace initializers for array and struct aggregate types and
// checking each scalar leaf against the element/field type it fills
// (§4.5.6: partial sub-braces are legal, flat row-major fill, zero-fill
// for missing trailing elements — the actual fill happens later via
// ArrayTree.Flatten once the backend needs concrete storage order).
func (a *moduleAnalyzer) buildArrayTree(n *green.Node, declaredType types.Type, sc project.ScopeID) *project.ArrayTree {
	elemType := declaredType.Strip()
	var childType types.Type
	switch elemType.Kind() {
	case types.KindArray:
		childType = elemType.Elem()
	case types.KindStruct:
		childType = types.Void // resolved per-field below
	default:
		childType = elemType
	}

	var kids []*project.ArrayTree
	fieldIdx := 0
	var fields []project.Field
	if elemType.Kind() == types.KindStruct {
		if st, ok := a.m.Metadata.Struct(elemType.StructID()); ok {
			fields = st.Fields
		}
	}

	for _, c := range n.ChildNodes() {
		if c.Kind() != token.INIT_VAL {
			continue
		}
		inner := firstChild(c)
		if inner == nil {
			continue
		}

		slotType := childType
		if elemType.Kind() == types.KindStruct {
			if fieldIdx < len(fields) {
				slotType = fields[fieldIdx].Type
			}
			fieldIdx++
		}

		if inner.Kind() == token.INIT_LIST {
			if slotType.Strip().Kind() != types.KindArray && slotType.Strip().Kind() != types.KindStruct {
				a.errorAt(diag.SEM016ArrayError, inner.Range(),
					"cannot assign an array initializer to scalar type "+slotType.String())
				kids = append(kids, project.Leaf(zeroValue(slotType), inner.Range(), false))
				continue
			}
			kids = append(kids, a.buildArrayTree(inner, slotType, sc))
			continue
		}
		e, ok := syntax.AsExpr(inner)
		if !ok {
			continue
		}
		t := a.typeOfExpr(e, sc)
		if !compatibleAssign(slotType, t) {
			a.errorAt(diag.SEM001TypeMismatch, e.Range(),
				"cannot initialize "+slotType.String()+" with "+t.String())
		}
		if v, ok := a.tryConstFold(e, sc); ok {
			a.m.ValueTable[e.Range()] = v
			kids = append(kids, project.Leaf(v, e.Range(), true))
		} else {
			kids = append(kids, project.Leaf(zeroValue(slotType), e.Range(), false))
		}
	}

	if elemType.Kind() == types.KindStruct && fieldIdx > len(fields) {
		a.errorAt(diag.SEM021StructInitFieldCount, n.Range(), "too many initializers for struct "+elemType.StructName())
	}

	return project.Aggregate(kids, n.Range())
}

// firstChild returns an INIT_VAL's one meaningful child: either a nested
// INIT_LIST or the expression it wraps.
func firstChild(initVal *green.Node) *green.Node {
	children := initVal.ChildNodes()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func zeroValue(t types.Type) value.Value {
	switch t.Strip().Kind() {
	case types.KindI8:
		return value.I8(0)
	case types.KindBool:
		return value.Bool(false)
	default:
		return value.I32(0)
	}
}

// tryConstFold folds e if every operand it touches is itself constant:
// integer/bool literals, global const variables already folded into
// ValueTable, parens, and arithmetic/comparison/logical operators over
// those (§4.5.7). Anything else (a call, a non-const variable, a
// pointer expression) is left for the backend to compute at runtime.
func (a *moduleAnalyzer) tryConstFold(e syntax.Expr, sc project.ScopeID) (value.Value, bool) {
	switch e.Kind() {
	case token.LIT_EXPR:
		tok, ok := e.LitToken()
		if !ok {
			return value.Value{}, false
		}
		switch tok.Kind() {
		case token.INT_NUMBER:
			n, err := parseIntLiteral(tok.Text())
			if err != nil {
				return value.Value{}, false
			}
			return value.I32(int32(n)), true
		case token.TRUE_KW:
			return value.Bool(true), true
		case token.FALSE_KW:
			return value.Bool(false), true
		default:
			return value.Value{}, false
		}

	case token.PAREN_EXPR:
		inner, ok := e.Inner()
		if !ok {
			return value.Value{}, false
		}
		return a.tryConstFold(inner, sc)

	case token.NAME_EXPR:
		nameTok, ok := e.NameToken()
		if !ok {
			return value.Value{}, false
		}
		vid, ok := a.m.LookupVariable(sc, nameTok.Text())
		if !ok || !a.m.Variables[vid].IsConst {
			return value.Value{}, false
		}
		v, ok := a.m.ValueTable[a.m.Variables[vid].DefRange]
		return v, ok

	case token.UNARY_EXPR:
		op, okOp := e.Op()
		operand, okOperand := e.Operand()
		if !okOp || !okOperand {
			return value.Value{}, false
		}
		v, ok := a.tryConstFold(operand, sc)
		if !ok {
			return value.Value{}, false
		}
		resultKind := a.m.TypeTable[e.Range()].Strip().Kind()
		switch op.Kind() {
		case token.MINUS:
			r, err := value.CalcUnaryNeg(v, resultKind)
			return r, err == nil
		case token.PLUS:
			return v, true
		case token.BANG:
			return value.CalcUnaryNot(v), true
		default:
			return value.Value{}, false
		}

	case token.BINARY_EXPR:
		op, okOp := e.Op()
		lhs, okL := e.LHS()
		rhs, okR := e.RHS()
		if !okOp || !okL || !okR {
			return value.Value{}, false
		}
		lv, okLV := a.tryConstFold(lhs, sc)
		rv, okRV := a.tryConstFold(rhs, sc)
		if !okLV || !okRV {
			return value.Value{}, false
		}
		bop, ok := binaryOpOf(op.Kind())
		if !ok {
			return value.Value{}, false
		}
		resultKind := a.m.TypeTable[e.Range()].Strip().Kind()
		r, err := value.CalcBinary(lv, rv, bop, resultKind)
		if err != nil {
			code := diag.SEM023DivisionByZero
			if ee, ok := err.(*value.EvalError); ok && ee.Kind == "overflow" {
				code = diag.SEM022ConstOverflow
			}
			a.errorAt(code, e.Range(), err.Error())
			return value.Value{}, false
		}
		return r, true

	default:
		return value.Value{}, false
	}
}

func binaryOpOf(k token.Kind) (value.BinaryOp, bool) {
	switch k {
	case token.PLUS:
		return value.OpAdd, true
	case token.MINUS:
		return value.OpSub, true
	case token.STAR:
		return value.OpMul, true
	case token.SLASH:
		return value.OpDiv, true
	case token.PERCENT:
		return value.OpMod, true
	case token.LT:
		return value.OpLt, true
	case token.GT:
		return value.OpGt, true
	case token.LE:
		return value.OpLe, true
	case token.GE:
		return value.OpGe, true
	case token.EQEQ:
		return value.OpEq, true
	case token.NEQ:
		return value.OpNeq, true
	case token.ANDAND:
		return value.OpAnd, true
	case token.OROR:
		return value.OpOr, true
	default:
		return 0, false
	}
}
