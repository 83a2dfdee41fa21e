package value

import (
	"testing"

	"github.com/airylang/airyc/internal/types"
)

func TestCalcBinary_Overflow(t *testing.T) {
	_, err := CalcBinary(I32(2147483647), I32(1), OpAdd, types.KindI32)
	if err == nil {
		t.Fatal("0x7fffffff + 1 must overflow")
	}
	if err.(*EvalError).Kind != "overflow" {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestCalcBinary_DivByZero(t *testing.T) {
	if _, err := CalcBinary(I32(5), I32(0), OpDiv, types.KindI32); err == nil {
		t.Fatal("division by zero must be a diagnostic")
	}
	if _, err := CalcBinary(I32(5), I32(0), OpMod, types.KindI32); err == nil {
		t.Fatal("modulo by zero must be a diagnostic")
	}
}

func TestCalcBinary_Arithmetic(t *testing.T) {
	v, err := CalcBinary(I32(2), I32(3), OpAdd, types.KindI32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Int() != 5 {
		t.Fatalf("2 + 3 = %d, want 5", v.Int())
	}
}

func TestCalcBinary_Compare(t *testing.T) {
	v, _ := CalcBinary(I32(2), I32(3), OpLt, types.KindI32)
	if !v.AsBool() {
		t.Fatal("2 < 3 should be true")
	}
}
