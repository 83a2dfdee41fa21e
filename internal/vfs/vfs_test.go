package vfs

import "testing"

func TestVFS_PutAndLookupDedup(t *testing.T) {
	v := New()
	id1 := v.Put("/a/b.airy", "fn f() {}")
	id2 := v.Put("/a/b.airy", "fn g() {}")
	if id1 != id2 {
		t.Fatalf("re-putting the same canonical path must reuse its FileID")
	}
	if v.File(id1).Text != "fn g() {}" {
		t.Fatalf("Put must replace content for re-registration")
	}
}

func TestLineIndex_Position(t *testing.T) {
	li := buildLineIndex("abc\ndef\nghi")
	cases := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{8, 3, 1},
	}
	for _, c := range cases {
		line, col := li.Position(c.offset)
		if line != c.line || col != c.column {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", c.offset, line, col, c.line, c.column)
		}
	}
}

func TestLineIndex_RoundTrip(t *testing.T) {
	li := buildLineIndex("abc\ndef\nghi")
	for offset := 0; offset < 11; offset++ {
		line, col := li.Position(offset)
		if got := li.Offset(line, col); got != offset {
			t.Errorf("round trip failed at offset %d: got %d", offset, got)
		}
	}
}
