package backend

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/airylang/airyc/internal/analyzer"
)

// declareRuntime declares every SysY runtime entry point (§4.5.8,
// analyzer.Builtins) as an external LLVM function, ready to be called by
// name regardless of whether the current module actually uses it — an
// unused declaration costs nothing once the module is linked against the
// real runtime.
func (g *gen) declareRuntime() {
	for _, b := range analyzer.Builtins {
		params := make([]irtypes.Type, 0, len(b.Params))
		for _, pt := range b.Params {
			lt, err := g.llType(pt)
			if err != nil {
				// Every builtin signature in analyzer.Builtins only uses
				// i32 and pointer-to-i32, both always representable.
				continue
			}
			params = append(params, lt)
		}
		ret, err := g.llType(b.Ret)
		if err != nil {
			ret = irtypes.Void
		}
		irParams := make([]*ir.Param, len(params))
		for i, pt := range params {
			irParams[i] = ir.NewParam("", pt)
		}
		fn := g.m.NewFunc(b.Name, ret, irParams...)
		g.builtins[b.Name] = fn
	}
}
