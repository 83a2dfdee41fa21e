package project

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/value"
)

// ArrayTree mirrors the brace shape of an aggregate initializer: a leaf
// holds one already-folded scalar, an interior node holds the ordered
// children of one INIT_LIST (§4.5.6). Partial sub-braces are legal C-like
// initializer shapes ({ {1,2}, {3} } for a [2][2]i32), so a node's
// Children need not match the declared array dimension until Flatten
// pads it out.
type ArrayTree struct {
	Scalar   *value.Value
	IsConst  bool // Scalar holds a real fold, not a zero placeholder for a runtime leaf
	Children []*ArrayTree
	Range    green.Range
}

// Leaf wraps one leaf value at rng. isConst reports whether v is an actual
// constant fold (true) or a zero placeholder standing in for a leaf the
// backend must compute at runtime (false) — see §4.6 "mixed constant/
// runtime trees".
func Leaf(v value.Value, rng green.Range, isConst bool) *ArrayTree {
	return &ArrayTree{Scalar: &v, IsConst: isConst, Range: rng}
}

// Aggregate wraps an ordered list of sub-trees, one per INIT_VAL in a
// brace initializer, at rng.
func Aggregate(children []*ArrayTree, rng green.Range) *ArrayTree {
	return &ArrayTree{Children: children, Range: rng}
}

// IsScalar reports whether t is a leaf.
func (t *ArrayTree) IsScalar() bool {
	return t != nil && t.Scalar != nil
}

// Flatten walks t in declaration order, collecting scalars row-major
// (brace nesting depth is irrelevant to storage order, only ordering
// is), then pads with zero up to the declared element count and
// truncates any excess (§4.5.6: a brace initializer may under- or
// over-specify relative to the array's element count; missing trailing
// elements are zero-filled, and partial sub-braces zero-fill their own
// remaining slots before the outer level continues).
func (t *ArrayTree) Flatten(count int, zero value.Value) []value.Value {
	out := make([]value.Value, 0, count)
	collectScalars(t, &out)
	if len(out) < count {
		padded := make([]value.Value, count)
		copy(padded, out)
		for i := len(out); i < count; i++ {
			padded[i] = zero
		}
		return padded
	}
	return out[:count]
}

func collectScalars(t *ArrayTree, out *[]value.Value) {
	if t == nil {
		return
	}
	if t.IsScalar() {
		*out = append(*out, *t.Scalar)
		return
	}
	for _, c := range t.Children {
		collectScalars(c, out)
	}
}
