// Package analyzer implements §4.5's Module Analyzer: a CST visitor that
// type-checks one module's function bodies and global initializers
// against the frozen cross-module project.Metadata snapshot, folds
// constant expressions, and builds the ArrayTree shape for aggregate
// initializers.
package analyzer

import (
	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
	"github.com/airylang/airyc/internal/types"
)

var log = logging.For("analyzer")

// AnalyzeAll type-checks every module of r in isolation against r's
// frozen Metadata, appending every diagnostic raised to that module's
// SemanticErrors and returning the full combined list.
func AnalyzeAll(r *project.Resolver) []*diag.Report {
	var all []*diag.Report
	for _, id := range r.Order {
		m := r.Modules[id]
		log.Trace("analyzing %s", m.Path)
		a := &moduleAnalyzer{r: r, m: m}
		a.run()
		all = append(all, a.errs...)
	}
	return all
}

type moduleAnalyzer struct {
	r         *project.Resolver
	m         *project.Module
	errs      []*diag.Report
	loopDepth int
}

func (a *moduleAnalyzer) errorAt(code string, rng green.Range, msg string) {
	rep := diag.New(code, diag.PhaseAnalyzer, msg).WithRange(rng.Start, rng.End).WithFile(a.m.Path)
	a.errs = append(a.errs, rep)
	a.m.SemanticErrors = append(a.m.SemanticErrors, rep)
}

func (a *moduleAnalyzer) run() {
	comp, ok := syntax.AsCompUnit(a.m.Tree)
	if !ok {
		return
	}

	for _, ld := range comp.LetDecls() {
		vid, ok := a.m.VariableMap[ld.Range()]
		if !ok {
			continue
		}
		v := a.m.Variables[vid]
		init, hasInit := ld.Init()
		if hasInit {
			a.analyzeInit(init.G, v.Type, a.m.GlobalScope, true)
			// A scalar initializer's folded value is recorded under its
			// own expression range; mirror it under the variable's
			// DefRange too so later `let`s can fold a reference to this
			// const by looking it up through LookupVariable alone.
			if cv, ok := a.m.ValueTable[init.Range()]; ok {
				a.m.ValueTable[ld.Range()] = cv
			}
		} else if v.IsConst {
			a.errorAt(diag.SEM002ConstantExprExpected, ld.Range(),
				"const global "+v.Name+" requires an initializer")
		}
	}

	bodies := a.collectBodies(comp)
	for _, fd := range comp.FuncDefs() {
		nameTok, ok := fd.NameToken()
		if !ok {
			continue
		}
		fid, ok := a.m.FunctionMap[nameTok.Text()]
		if !ok {
			continue
		}
		fn := a.m.Functions[fid.Index]

		sc := a.m.OpenChildScope(a.m.GlobalScope)
		for i, p := range fd.Params().Params() {
			pNameTok, ok := p.NameToken()
			if !ok || i >= len(fn.Params) {
				continue
			}
			a.m.DeclareVariable(sc, project.Variable{
				Name: pNameTok.Text(), Type: fn.Params[i], DefRange: p.Range(),
			})
		}

		if body, ok := bodies[fid.Index]; ok {
			a.checkBlock(body, sc, fn.Ret)
		}
	}
}

// collectBodies matches each function's BodyRange (set by the resolver,
// possibly from a separate `attach` block) back to the actual Block view
// needed to walk its statements.
func (a *moduleAnalyzer) collectBodies(comp syntax.CompUnit) map[int]syntax.Block {
	out := make(map[int]syntax.Block)
	for _, fd := range comp.FuncDefs() {
		nameTok, ok := fd.NameToken()
		if !ok {
			continue
		}
		fid, ok := a.m.FunctionMap[nameTok.Text()]
		if !ok || fid.Module != a.m.ID {
			continue
		}
		if body, ok := fd.Body(); ok {
			out[fid.Index] = body
		}
	}
	for _, ad := range comp.AttachDefs() {
		nameTok, ok := ad.NameToken()
		if !ok {
			continue
		}
		fid, ok := a.m.FunctionMap[nameTok.Text()]
		if !ok || fid.Module != a.m.ID {
			continue
		}
		if body, ok := ad.Body(); ok {
			out[fid.Index] = body
		}
	}
	return out
}

// --- statements --------------------------------------------------------

func (a *moduleAnalyzer) checkBlock(b syntax.Block, parent project.ScopeID, retType types.Type) {
	sc := a.m.OpenChildScope(parent)
	for _, n := range b.Stmts() {
		a.checkStmt(n, sc, retType)
	}
}

func (a *moduleAnalyzer) checkStmt(n syntax.Node, sc project.ScopeID, retType types.Type) {
	switch n.Kind() {
	case token.LET_STMT:
		a.checkLetStmt(n, sc)

	case token.EXPR_STMT:
		es, _ := syntax.AsExprStmt(n.G)
		if v, ok := es.Value(); ok {
			a.typeOfExpr(v, sc)
		}

	case token.ASSIGN_STMT:
		as, _ := syntax.AsAssignStmt(n.G)
		target, hasTarget := as.Target()
		val, hasVal := as.Value()
		if !hasTarget || !hasVal {
			return
		}
		if !target.IsLValue() {
			a.errorAt(diag.SEM013NotALValue, target.Range(), "assignment target is not an lvalue")
		}
		tt := a.typeOfExpr(target, sc)
		if tt.IsConst() {
			a.errorAt(diag.SEM012AssignToConst, target.Range(), "cannot assign to a const binding")
		}
		vt := a.typeOfExpr(val, sc)
		if !compatibleAssign(tt, vt) {
			a.errorAt(diag.SEM001TypeMismatch, val.Range(),
				"cannot assign "+vt.String()+" to "+tt.String())
		}

	case token.IF_STMT:
		ifs, _ := syntax.AsIfStmt(n.G)
		if cond, ok := ifs.Cond(); ok {
			a.expectBool(cond, sc)
		}
		if then, ok := ifs.Then(); ok {
			a.checkBlock(then, sc, retType)
		}
		if els, ok := ifs.Else(); ok {
			a.checkBlock(els, sc, retType)
		}
		if elseif, ok := ifs.ElseIf(); ok {
			a.checkStmt(syntax.Node{G: elseif.G}, sc, retType)
		}

	case token.WHILE_STMT:
		ws, _ := syntax.AsWhileStmt(n.G)
		if cond, ok := ws.Cond(); ok {
			a.expectBool(cond, sc)
		}
		a.loopDepth++
		if body, ok := ws.Body(); ok {
			a.checkBlock(body, sc, retType)
		}
		a.loopDepth--

	case token.BREAK_STMT:
		if a.loopDepth == 0 {
			a.errorAt(diag.SEM019BreakOutsideLoop, n.Range(), "break outside of a loop")
		}

	case token.CONTINUE_STMT:
		if a.loopDepth == 0 {
			a.errorAt(diag.SEM020ContinueOutsideLoop, n.Range(), "continue outside of a loop")
		}

	case token.RETURN_STMT:
		rs, _ := syntax.AsReturnStmt(n.G)
		v, hasValue := rs.Value()
		if hasValue {
			vt := a.typeOfExpr(v, sc)
			if !compatibleAssign(retType, vt) {
				a.errorAt(diag.SEM018ReturnTypeMismatch, v.Range(),
					"return type "+vt.String()+" does not match declared "+retType.String())
			}
		} else if retType.Strip().Kind() != types.KindVoid {
			a.errorAt(diag.SEM018ReturnTypeMismatch, n.Range(), "missing return value for non-void function")
		}

	case token.BLOCK:
		if b, ok := syntax.AsBlock(n.G); ok {
			a.checkBlock(b, sc, retType)
		}
	}
}

func (a *moduleAnalyzer) checkLetStmt(n syntax.Node, sc project.ScopeID) {
	vd, ok := syntax.AsVarDef(n.G)
	if !ok {
		return
	}
	nameTok, ok := vd.NameToken()
	if !ok {
		return
	}
	ty := types.Void
	if te, ok := vd.TypeNode(); ok {
		if t, err := a.r.ResolveType(a.m, te); err == nil {
			ty = t
		} else {
			a.errorAt(diag.SEM007StructUndefined, te.Range(), err.Error())
		}
	}
	_, declared := a.m.DeclareVariable(sc, project.Variable{
		Name: nameTok.Text(), Type: ty, IsConst: ty.IsConst(), DefRange: vd.Range(),
	})
	if !declared {
		a.errorAt(diag.SEM003VariableDefined, vd.Range(), "variable "+nameTok.Text()+" already declared in this scope")
		return
	}
	if init, ok := vd.Init(); ok {
		a.analyzeInit(init.G, ty, sc, false)
	} else if ty.IsConst() {
		a.errorAt(diag.SEM002ConstantExprExpected, vd.Range(),
			"const variable "+nameTok.Text()+" requires an initializer")
	}
}

func (a *moduleAnalyzer) expectBool(e syntax.Expr, sc project.ScopeID) {
	t := a.typeOfExpr(e, sc)
	if t.Strip().Kind() != types.KindBool {
		a.errorAt(diag.SEM001TypeMismatch, e.Range(), "condition must be bool, got "+t.String())
	}
}

// compatibleAssign allows exact structural match or numeric widening
// between the scalar integer/bool family (§4.5.4's usual-arithmetic
// conversions extend naturally to assignment and return compatibility).
func compatibleAssign(dst, src types.Type) bool {
	if types.Equal(dst.Strip(), src.Strip()) {
		return true
	}
	return dst.IsNumeric() && src.IsNumeric()
}
