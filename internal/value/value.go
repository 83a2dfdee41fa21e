// Package value implements the constant-evaluation domain of §3/§4.5.7:
// the sum type of scalar constants, strings, null, arrays, and structs,
// plus checked arithmetic with C-like usual-arithmetic-conversion
// promotion restricted to the supported integer types.
package value

import (
	"fmt"

	"github.com/airylang/airyc/internal/types"
)

// Kind discriminates a Value's variant.
type Kind int

const (
	KindI32 Kind = iota
	KindI8
	KindBool
	KindString
	KindNull
	KindArray
	KindStruct
	KindStructZero
)

// Value is an immutable constant-folded result.
type Value struct {
	kind     Kind
	i        int64
	s        string
	elems    []Value // Array
	fields   []Value // Struct
	structID types.StructID
}

func I32(v int32) Value { return Value{kind: KindI32, i: int64(v)} }
func I8(v int8) Value   { return Value{kind: KindI8, i: int64(v)} }

func Bool(v bool) Value {
	var b int64
	if v {
		b = 1
	}
	return Value{kind: KindBool, i: b}
}

func String(s string) Value     { return Value{kind: KindString, s: s} }
func Null() Value               { return Value{kind: KindNull} }
func Array(elems []Value) Value { return Value{kind: KindArray, elems: elems} }
func Struct(id types.StructID, fields []Value) Value {
	return Value{kind: KindStruct, structID: id, fields: fields}
}
func StructZero(id types.StructID) Value { return Value{kind: KindStructZero, structID: id} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Int() int64 { return v.i }
func (v Value) Str() string { return v.s }
func (v Value) Elems() []Value { return v.elems }
func (v Value) Fields() []Value { return v.fields }
func (v Value) StructID() types.StructID { return v.structID }

func (v Value) AsBool() bool { return v.i != 0 }

func (v Value) String() string {
	switch v.kind {
	case KindI32, KindI8:
		return fmt.Sprintf("%d", v.i)
	case KindBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindNull:
		return "null"
	case KindArray:
		return fmt.Sprintf("%v", v.elems)
	case KindStruct, KindStructZero:
		return fmt.Sprintf("struct(%v)", v.fields)
	}
	return "?"
}

// EvalError is raised by checked arithmetic (§4.5.7): overflow and
// division/modulo by zero are diagnostics, not panics.
type EvalError struct {
	Kind    string // "overflow" | "div-by-zero"
	Message string
}

func (e *EvalError) Error() string { return e.Message }

const (
	i32Min = -2147483648
	i32Max = 2147483647
	i8Min  = -128
	i8Max  = 127
)

func clampRange(k types.Kind) (int64, int64) {
	switch k {
	case types.KindI8:
		return i8Min, i8Max
	default:
		return i32Min, i32Max
	}
}

func checkedResult(raw int64, resultKind types.Kind) (Value, error) {
	lo, hi := clampRange(resultKind)
	if raw < lo || raw > hi {
		name := "i32"
		if resultKind == types.KindI8 {
			name = "i8"
		}
		return Value{}, &EvalError{Kind: "overflow", Message: fmt.Sprintf("constant expression overflows %s: %d", name, raw)}
	}
	if resultKind == types.KindI8 {
		return I8(int8(raw)), nil
	}
	return I32(int32(raw)), nil
}

// BinaryOp names the supported constant binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNeq
	OpAnd
	OpOr
)

// CalcBinary folds a binary operator over two constants that have
// already been promoted to a common numeric type (§4.5.7). Comparison
// and logical operators return Bool; arithmetic operators return the
// promoted numeric kind.
func CalcBinary(lhs, rhs Value, op BinaryOp, resultKind types.Kind) (Value, error) {
	a, b := lhs.i, rhs.i
	switch op {
	case OpAdd:
		return checkedResult(a+b, resultKind)
	case OpSub:
		return checkedResult(a-b, resultKind)
	case OpMul:
		return checkedResult(a*b, resultKind)
	case OpDiv:
		if b == 0 {
			return Value{}, &EvalError{Kind: "div-by-zero", Message: "division by zero in constant expression"}
		}
		return checkedResult(a/b, resultKind)
	case OpMod:
		if b == 0 {
			return Value{}, &EvalError{Kind: "div-by-zero", Message: "modulo by zero in constant expression"}
		}
		return checkedResult(a%b, resultKind)
	case OpLt:
		return Bool(a < b), nil
	case OpGt:
		return Bool(a > b), nil
	case OpLe:
		return Bool(a <= b), nil
	case OpGe:
		return Bool(a >= b), nil
	case OpEq:
		return Bool(a == b), nil
	case OpNeq:
		return Bool(a != b), nil
	case OpAnd:
		return Bool(lhs.AsBool() && rhs.AsBool()), nil
	case OpOr:
		return Bool(lhs.AsBool() || rhs.AsBool()), nil
	}
	return Value{}, fmt.Errorf("value: unknown binary op %d", op)
}

// CalcUnaryNeg negates v, checked against resultKind's range.
func CalcUnaryNeg(v Value, resultKind types.Kind) (Value, error) {
	return checkedResult(-v.i, resultKind)
}

// CalcUnaryNot computes logical negation.
func CalcUnaryNot(v Value) Value { return Bool(!v.AsBool()) }
