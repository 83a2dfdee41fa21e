package vfs

import "sort"

// LineIndex maps byte offsets to 1-based (line, column) positions,
// built once per document version (§6, §7 "computed via line-index").
// Grounded on the original Rust compiler's `utils` crate, supplemented
// into Go here since spec.md only names the requirement, not the
// implementation.
type LineIndex struct {
	// starts[i] is the byte offset where line i+1 begins (line 1 starts
	// at starts[0] == 0).
	starts []int
}

func buildLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position converts a byte offset into a 1-based (line, column) pair.
// Column is a byte offset within the line, not a rune count; callers
// needing display-width alignment (the CLI's caret renderer) convert
// separately via golang.org/x/text/width.
func (li *LineIndex) Position(offset int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - li.starts[i] + 1
}

// Offset converts a 1-based (line, column) pair back to a byte offset.
func (li *LineIndex) Offset(line, col int) int {
	if line < 1 {
		line = 1
	}
	if line > len(li.starts) {
		line = len(li.starts)
	}
	return li.starts[line-1] + (col - 1)
}
