package backend

import (
	"github.com/llir/llvm/ir"

	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/types"
)

// declareOwnFunc declares fid's LLVM signature without touching its
// body, so mutual recursion within one module resolves regardless of
// definition order (§4.6 "declare every function before lowering any
// body").
func (g *gen) declareOwnFunc(fid project.FunctionID, fn project.Function) (*ir.Func, error) {
	params := make([]*ir.Param, len(fn.Params))
	for i, pt := range fn.Params {
		lt, err := g.llType(pt)
		if err != nil {
			return nil, err
		}
		name := ""
		if i < len(fn.ParamNames) {
			name = fn.ParamNames[i]
		}
		params[i] = ir.NewParam(name, lt)
	}
	ret, err := g.llType(fn.Ret)
	if err != nil {
		return nil, err
	}
	irfn := g.m.NewFunc(fn.Name, ret, params...)
	g.ownFuncs[fid] = irfn
	return irfn, nil
}

// externFunc lazily declares fid — a function defined by a different
// module of the same project — as an external LLVM declaration, so a
// cross-module call resolves without requiring every imported module to
// be compiled into the same LLVM module (§9 "one module, one translation
// unit").
func (g *gen) externFunc(fid project.FunctionID) (*ir.Func, error) {
	if fn, ok := g.extFuncs[fid]; ok {
		return fn, nil
	}
	sig, ok := g.meta.Function(fid)
	if !ok {
		return nil, errMissing("function signature for cross-module call")
	}
	params := make([]*ir.Param, len(sig.Params))
	for i, pt := range sig.Params {
		lt, err := g.llType(pt)
		if err != nil {
			return nil, err
		}
		params[i] = ir.NewParam("", lt)
	}
	ret, err := g.llType(sig.Ret)
	if err != nil {
		return nil, err
	}
	fn := g.m.NewFunc(sig.Name, ret, params...)
	g.extFuncs[fid] = fn
	return fn, nil
}

// lowerFunctionBody lowers one function's statements into the
// declaration declareOwnFunc already produced for fid.
func (g *gen) lowerFunctionBody(fid project.FunctionID, fn project.Function, site funcSite) error {
	irfn, ok := g.ownFuncs[fid]
	if !ok {
		return errMissing("declaration for function " + fn.Name)
	}

	g.curFunc = irfn
	g.locals = make(map[project.VariableID]*ir.InstAlloca)
	g.loops = nil

	entry := irfn.NewBlock("entry")
	g.curBlock = entry
	g.entry = entry

	for i, p := range site.Params {
		if i >= len(irfn.Params) {
			break
		}
		nameTok, ok := p.NameToken()
		if !ok {
			continue
		}
		vid, ok := g.mod.VariableMap[p.Range()]
		if !ok {
			continue
		}
		irParam := irfn.Params[i]
		alloca := g.curBlock.NewAlloca(irParam.Type())
		alloca.SetName(nameTok.Text() + ".addr")
		g.curBlock.NewStore(irParam, alloca)
		g.locals[vid] = alloca
	}

	if err := g.lowerBlock(site.Body, fn.Ret); err != nil {
		return err
	}

	if g.curBlock.Term == nil {
		if fn.Ret.Strip().Kind() == types.KindVoid {
			g.curBlock.NewRet(nil)
		} else {
			zero, err := g.zeroConstant(fn.Ret)
			if err != nil {
				return err
			}
			g.curBlock.NewRet(zero)
		}
	}
	return nil
}
