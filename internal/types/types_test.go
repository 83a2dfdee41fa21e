package types

import "testing"

func TestConstIdempotent(t *testing.T) {
	c := Const(Const(I32))
	if !Equal(c, Const(I32)) {
		t.Fatal("Const(Const(T)) must equal Const(T)")
	}
	if c.Inner().Kind() != KindI32 {
		t.Fatalf("expected inner i32, got %s", c.Inner())
	}
}

func TestArrayElementNeverVoid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic constructing an array of void")
		}
	}()
	_ = Array(Void, nil)
}

func TestConstNeverWrapsVoid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic constructing const void")
		}
	}()
	_ = Const(Void)
}

func TestPromoteNumeric(t *testing.T) {
	if got := PromoteNumeric(I8, I32); got.Kind() != KindI32 {
		t.Errorf("i8 promoted with i32 should yield i32, got %s", got)
	}
	if got := PromoteNumeric(Bool, I8); got.Kind() != KindI8 {
		t.Errorf("bool promoted with i8 should yield i8, got %s", got)
	}
}

func TestEqualStructByID(t *testing.T) {
	a := Struct(StructID{Module: 0, Index: 1}, "P")
	b := Struct(StructID{Module: 0, Index: 1}, "P")
	c := Struct(StructID{Module: 0, Index: 2}, "Q")
	if !Equal(a, b) {
		t.Error("structs with the same ID must be equal")
	}
	if Equal(a, c) {
		t.Error("structs with different IDs must not be equal")
	}
}
