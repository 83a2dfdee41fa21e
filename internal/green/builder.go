package green

import "github.com/airylang/airyc/internal/token"

// Builder assembles a green tree bottom-up while the parser drives it
// top-down, using an open/close stack plus Pratt-style checkpoints so a
// binary expression's left operand can be wrapped in a BinaryExpr node
// after the fact, without backtracking.
//
// This mirrors the teacher's precedence-climbing Pratt parser
// (internal/parser's prefix/infix function tables), generalized so that
// instead of building an *ast.Expr directly, each level emits into a
// shared, lossless tree that the whole pipeline — not just evaluation —
// can query.
type Builder struct {
	// events is an append-only log; entries are emitted in document
	// order and later reduced into the final tree by Finish. Using an
	// event log instead of a live node stack is what makes checkpoints
	// O(1): a checkpoint is just an index into this slice.
	events []event
	pos    int // next byte offset a pushed token/trivia will start at
}

type eventKind uint8

const (
	evStartNode eventKind = iota
	evFinishNode
	evToken
)

type event struct {
	kind  eventKind
	k     token.Kind
	text  string
	start int
}

// Checkpoint marks a position in the event log that StartNodeAt can
// later wrap in a new node, covering everything pushed since.
type Checkpoint int

// NewBuilder creates a Builder whose first pushed token begins at byte 0.
func NewBuilder() *Builder { return &Builder{} }

// StartNode opens a new node of the given kind; every token and node
// pushed until the matching FinishNode becomes its child.
func (b *Builder) StartNode(k token.Kind) {
	b.events = append(b.events, event{kind: evStartNode, k: k, start: b.pos})
}

// Checkpoint records the current log position.
func (b *Builder) Checkpoint() Checkpoint { return Checkpoint(len(b.events)) }

// StartNodeAt retroactively opens a node at cp: everything pushed since
// cp (including the checkpoint's own node boundaries) becomes a child of
// the new node. This is how the parser wraps an already-parsed left
// operand in a BinaryExpr once it discovers an infix operator follows.
func (b *Builder) StartNodeAt(cp Checkpoint, k token.Kind) {
	start := b.pos
	if int(cp) < len(b.events) {
		start = b.events[cp].start
	}
	ev := event{kind: evStartNode, k: k, start: start}
	b.events = append(b.events, event{}) // grow by one
	copy(b.events[cp+1:], b.events[cp:len(b.events)-1])
	b.events[cp] = ev
}

// FinishNode closes the innermost open node.
func (b *Builder) FinishNode() {
	b.events = append(b.events, event{kind: evFinishNode})
}

// Token pushes a leaf token (terminal or trivia) with the given exact
// text as a child of the currently open node.
func (b *Builder) Token(k token.Kind, text string) {
	b.events = append(b.events, event{kind: evToken, k: k, text: text, start: b.pos})
	b.pos += len(text)
}

// Finish reduces the event log into a single root *Node. The caller must
// have opened exactly one top-level node (conventionally COMP_UNIT) and
// closed it.
func (b *Builder) Finish() *Node {
	idx := 0
	root, _ := b.build(&idx)
	return root
}

func (b *Builder) build(idx *int) (*Node, Range) {
	ev := b.events[*idx]
	if ev.kind != evStartNode {
		panic("green.Builder: build called off a non-start event")
	}
	*idx++
	n := &Node{kind: ev.k}
	lo, hi := ev.start, ev.start
	haveRange := false
	for b.events[*idx].kind != evFinishNode {
		switch b.events[*idx].kind {
		case evStartNode:
			child, r := b.build(idx)
			n.children = append(n.children, child)
			if !haveRange {
				lo, hi = r.Start, r.End
				haveRange = true
			} else {
				hi = r.End
			}
		case evToken:
			e := b.events[*idx]
			tok := &Token{kind: e.k, text: e.text, start: e.start}
			n.children = append(n.children, tok)
			r := tok.Range()
			if !haveRange {
				lo, hi = r.Start, r.End
				haveRange = true
			} else {
				hi = r.End
			}
			*idx++
		}
	}
	*idx++ // consume evFinishNode
	n.rng = Range{lo, hi}
	return n, n.rng
}
