package project

// tarjanSCC finds the strongly connected components of the directed
// graph described by adj (node -> its out-edges), using Tarjan's
// algorithm. Used by the cross-module checker to find recursive struct
// cycles formed by value (non-pointer) fields (§4.4 pass 4).
func tarjanSCC(nodes []StructID, adj map[StructID][]StructID) [][]StructID {
	t := &tarjan{
		index:   make(map[StructID]int),
		lowlink: make(map[StructID]int),
		onStack: make(map[StructID]bool),
		adj:     adj,
	}
	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.strongconnect(n)
		}
	}
	return t.sccs
}

type tarjan struct {
	counter int
	index   map[StructID]int
	lowlink map[StructID]int
	onStack map[StructID]bool
	stack   []StructID
	adj     map[StructID][]StructID
	sccs    [][]StructID
}

func (t *tarjan) strongconnect(v StructID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, seen := t.index[w]; !seen {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []StructID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
