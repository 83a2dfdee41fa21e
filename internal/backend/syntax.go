package backend

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/syntax"
)

func compUnit(root *green.Node) (syntax.CompUnit, bool) {
	return syntax.AsCompUnit(root)
}

// funcSite pairs a declared function's parameter list with the block
// that supplies its body — the two a lowering pass needs together,
// regardless of whether that body came from the FN_DEF itself or from a
// separate `attach` block (§9).
type funcSite struct {
	Params []syntax.Param
	Body   syntax.Block
}

// collectSites matches every function this module defines to its
// parameter list and body, mirroring the analyzer's own collectBodies
// but additionally keeping the parameter nodes the backend needs to
// bind argument allocas to VariableIDs.
func (g *gen) collectSites(comp syntax.CompUnit) map[int]funcSite {
	out := make(map[int]funcSite)
	for _, fd := range comp.FuncDefs() {
		nameTok, ok := fd.NameToken()
		if !ok {
			continue
		}
		fid, ok := g.mod.FunctionMap[nameTok.Text()]
		if !ok || fid.Module != g.mod.ID {
			continue
		}
		site := out[fid.Index]
		site.Params = fd.Params().Params()
		if body, ok := fd.Body(); ok {
			site.Body = body
		}
		out[fid.Index] = site
	}
	for _, ad := range comp.AttachDefs() {
		nameTok, ok := ad.NameToken()
		if !ok {
			continue
		}
		fid, ok := g.mod.FunctionMap[nameTok.Text()]
		if !ok || fid.Module != g.mod.ID {
			continue
		}
		site := out[fid.Index]
		if body, ok := ad.Body(); ok {
			site.Body = body
		}
		out[fid.Index] = site
	}
	return out
}
