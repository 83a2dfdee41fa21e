package project

import (
	"strings"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/types"
)

// checkRecursiveStructs is pass 4: build the struct-reference graph (an
// edge A -> B when A holds a field of type B, or an array of B, by
// value — a pointer field never creates an edge, since a pointer's size
// never depends on its pointee's) across every module at once, then run
// Tarjan's SCC algorithm to find cycles. Any cycle means no struct in it
// could ever have a finite size (§4.4 pass 4, "recursive struct type
// detection").
func (r *Resolver) checkRecursiveStructs() {
	var nodes []StructID
	adj := make(map[StructID][]StructID)

	for _, id := range r.Order {
		m := r.Modules[id]
		for i, st := range m.Structs {
			sid := StructID{Module: id, Index: i}
			nodes = append(nodes, sid)
			var deps []StructID
			for _, f := range st.Fields {
				deps = append(deps, structValueDeps(f.Type)...)
			}
			adj[sid] = deps
		}
	}

	for _, scc := range tarjanSCC(nodes, adj) {
		selfLoop := len(scc) == 1 && containsEdge(adj, scc[0], scc[0])
		if len(scc) > 1 || selfLoop {
			names := make([]string, len(scc))
			for i, sid := range scc {
				names[i] = r.Modules[sid.Module].Structs[sid.Index].Name
			}
			cycle := append(append([]string(nil), names...), names[0])

			for _, sid := range scc {
				m := r.Modules[sid.Module]
				st := m.Structs[sid.Index]
				code := diag.RSV005RecursiveType
				if selfLoop && len(scc) == 1 {
					code = diag.RSV006StructSelfRef
				}
				msg := "struct " + st.Name + " is recursive through a value field: cycle [" +
					strings.Join(cycle, ", ") + "]"
				r.errorAt(m, code, st.DefRange, msg).WithData("cycle", cycle)
			}
		}
	}
}

func containsEdge(adj map[StructID][]StructID, from, to StructID) bool {
	for _, d := range adj[from] {
		if d == to {
			return true
		}
	}
	return false
}

// structValueDeps returns every struct this type depends on by value:
// itself if t is (possibly const-qualified) a struct, or recursively
// whatever its element type depends on if t is an array. A pointer
// never contributes a dependency.
func structValueDeps(t types.Type) []StructID {
	base := t.Strip()
	switch base.Kind() {
	case types.KindStruct:
		sid := base.StructID()
		return []StructID{{Module: ModuleID(sid.Module), Index: sid.Index}}
	case types.KindArray:
		return structValueDeps(base.Elem())
	default:
		return nil
	}
}
