package backend

import (
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

// lowerBlock lowers every statement of b in order. It stops early (but
// returns no error) once the current block has already been terminated
// by a nested return/break/continue, mirroring the analyzer's tolerance
// for unreachable trailing statements.
func (g *gen) lowerBlock(b syntax.Block, retType types.Type) error {
	for _, n := range b.Stmts() {
		if g.curBlock.Term != nil {
			break
		}
		if err := g.lowerStmt(n, retType); err != nil {
			return err
		}
	}
	return nil
}

func (g *gen) lowerStmt(n syntax.Node, retType types.Type) error {
	switch n.Kind() {
	case token.LET_STMT:
		return g.lowerLetStmt(n)

	case token.EXPR_STMT:
		es, _ := syntax.AsExprStmt(n.G)
		if v, ok := es.Value(); ok {
			_, err := g.lowerExprRValue(v)
			return err
		}
		return nil

	case token.ASSIGN_STMT:
		return g.lowerAssignStmt(n)

	case token.IF_STMT:
		return g.lowerIfStmt(n, retType)

	case token.WHILE_STMT:
		return g.lowerWhileStmt(n, retType)

	case token.BREAK_STMT:
		if len(g.loops) == 0 {
			return errUnsupported("break outside of a loop")
		}
		g.curBlock.NewBr(g.loops[len(g.loops)-1].end)
		return nil

	case token.CONTINUE_STMT:
		if len(g.loops) == 0 {
			return errUnsupported("continue outside of a loop")
		}
		g.curBlock.NewBr(g.loops[len(g.loops)-1].cond)
		return nil

	case token.RETURN_STMT:
		return g.lowerReturnStmt(n, retType)

	case token.BLOCK:
		if blk, ok := syntax.AsBlock(n.G); ok {
			return g.lowerBlock(blk, retType)
		}
		return nil

	default:
		return nil
	}
}

func (g *gen) lowerLetStmt(n syntax.Node) error {
	vd, ok := syntax.AsVarDef(n.G)
	if !ok {
		return nil
	}
	vid, ok := g.mod.VariableMap[vd.Range()]
	if !ok {
		return nil
	}
	v := g.mod.Variables[int(vid)]
	llt, err := g.llType(v.Type)
	if err != nil {
		return err
	}
	nameTok, _ := vd.NameToken()
	alloca := g.entry.NewAlloca(llt)
	if nameTok != nil {
		alloca.SetName(nameTok.Text())
	}
	g.locals[vid] = alloca

	initNode, hasInit := vd.Init()
	if !hasInit {
		return nil
	}
	if initNode.Kind() == token.INIT_LIST {
		return g.storeInitList(alloca, v.Type, initNode.G)
	}
	e, ok := syntax.AsExpr(initNode.G)
	if !ok {
		return nil
	}
	val, err := g.lowerExprRValue(e)
	if err != nil {
		return err
	}
	val, err = g.coerce(val, v.Type)
	if err != nil {
		return err
	}
	g.curBlock.NewStore(val, alloca)
	return nil
}

func (g *gen) lowerAssignStmt(n syntax.Node) error {
	as, ok := syntax.AsAssignStmt(n.G)
	if !ok {
		return nil
	}
	target, hasTarget := as.Target()
	rhs, hasVal := as.Value()
	if !hasTarget || !hasVal {
		return nil
	}
	addr, elemType, err := g.lowerLValue(target)
	if err != nil {
		return err
	}
	val, err := g.lowerExprRValue(rhs)
	if err != nil {
		return err
	}
	val, err = g.coerce(val, elemType)
	if err != nil {
		return err
	}
	g.curBlock.NewStore(val, addr)
	return nil
}

func (g *gen) lowerIfStmt(n syntax.Node, retType types.Type) error {
	ifs, ok := syntax.AsIfStmt(n.G)
	if !ok {
		return nil
	}
	cond, ok := ifs.Cond()
	if !ok {
		return errMissing("if condition")
	}
	condVal, err := g.lowerExprRValue(cond)
	if err != nil {
		return err
	}

	thenBlock := g.curFunc.NewBlock("if.then")
	endBlock := g.curFunc.NewBlock("if.end")
	elseBlock := endBlock
	_, hasElseBody := ifs.Else()
	elseIf, hasElseIf := ifs.ElseIf()
	if hasElseIf || hasElseBody {
		elseBlock = g.curFunc.NewBlock("if.else")
	}
	g.curBlock.NewCondBr(condVal, thenBlock, elseBlock)

	g.curBlock = thenBlock
	if then, ok := ifs.Then(); ok {
		if err := g.lowerBlock(then, retType); err != nil {
			return err
		}
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(endBlock)
	}

	if elseBlock != endBlock {
		g.curBlock = elseBlock
		if hasElseIf {
			if err := g.lowerStmt(syntax.Node{G: elseIf.G}, retType); err != nil {
				return err
			}
		} else if els, ok := ifs.Else(); ok {
			if err := g.lowerBlock(els, retType); err != nil {
				return err
			}
		}
		if g.curBlock.Term == nil {
			g.curBlock.NewBr(endBlock)
		}
	}

	g.curBlock = endBlock
	return nil
}

func (g *gen) lowerWhileStmt(n syntax.Node, retType types.Type) error {
	ws, ok := syntax.AsWhileStmt(n.G)
	if !ok {
		return nil
	}
	condBlock := g.curFunc.NewBlock("while.cond")
	bodyBlock := g.curFunc.NewBlock("while.body")
	endBlock := g.curFunc.NewBlock("while.end")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	cond, ok := ws.Cond()
	if !ok {
		return errMissing("while condition")
	}
	condVal, err := g.lowerExprRValue(cond)
	if err != nil {
		return err
	}
	g.curBlock.NewCondBr(condVal, bodyBlock, endBlock)

	g.loops = append(g.loops, loopCtx{cond: condBlock, end: endBlock})
	g.curBlock = bodyBlock
	if body, ok := ws.Body(); ok {
		if err := g.lowerBlock(body, retType); err != nil {
			return err
		}
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(condBlock)
	}
	g.loops = g.loops[:len(g.loops)-1]

	g.curBlock = endBlock
	return nil
}

func (g *gen) lowerReturnStmt(n syntax.Node, retType types.Type) error {
	rs, ok := syntax.AsReturnStmt(n.G)
	if !ok {
		return nil
	}
	v, hasValue := rs.Value()
	if !hasValue {
		g.curBlock.NewRet(nil)
		return nil
	}
	val, err := g.lowerExprRValue(v)
	if err != nil {
		return err
	}
	val, err = g.coerce(val, retType)
	if err != nil {
		return err
	}
	g.curBlock.NewRet(val)
	return nil
}
