package backend

import (
	"github.com/llir/llvm/ir/constant"

	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
)

// declareGlobal lowers one top-level `let` to an LLVM global definition.
// The analyzer already rejected any global initializer that isn't a
// compile-time constant (§4.5.2 step 3), so every global here lowers to
// a single constant, never to runtime-computed stores.
func (g *gen) declareGlobal(vid project.VariableID, ld syntax.VarDef) error {
	v := g.mod.Variables[int(vid)]
	var init constant.Constant
	var err error
	if initNode, ok := ld.Init(); ok {
		if initNode.Kind() == token.INIT_LIST {
			tree := g.mod.ExpandArray[initNode.Range()]
			init, err = g.constAggregate(v.Type, tree)
		} else {
			cv, hasVal := g.mod.ValueTable[initNode.Range()]
			if hasVal {
				init, err = g.constScalar(v.Type.Strip(), cv)
			} else {
				init, err = g.constAggregate(v.Type, nil)
			}
		}
		if err != nil {
			return err
		}
	} else {
		init, err = g.constAggregate(v.Type, nil)
		if err != nil {
			return err
		}
	}

	global := g.m.NewGlobalDef(v.Name, init)
	global.Immutable = v.IsConst
	g.globals[vid] = global
	return nil
}
