// Package backend implements §4.6's LLVM Backend: lowering one analyzed
// module at a time to an LLVM IR module via github.com/llir/llvm, the
// pure-Go IR construction/printing library this project grounds its
// codegen on (see other_examples' dshills-alas internal/codegen for the
// concrete builder-call shapes this package follows: NewFunc/NewBlock/
// NewAlloca/NewGetElementPtr/NewCondBr, constant.NewInt/NewStruct, etc.).
//
// Backend-style error handling (§7): every lowering operation returns an
// error; the first one aborts the current module's compilation. This
// differs from the analyzer's collect-and-continue discipline because a
// partially built IR module can never be emitted safely.
package backend

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/airylang/airyc/internal/diag"
	"github.com/airylang/airyc/internal/logging"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/types"
)

var log = logging.For("backend")

// Error is the backend's failure taxonomy (§4.6 "Failure taxonomy").
// Every constructor below maps to exactly one CDG### diagnostic code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func errMissing(field string) error {
	return &Error{diag.CDG001Missing, "missing " + field}
}
func errBuild(op string) error {
	return &Error{diag.CDG002LlvmBuild, "failed to build " + op}
}
func errWrite(detail string) error {
	return &Error{diag.CDG003LlvmWrite, detail}
}
func errVerification(detail string) error {
	return &Error{diag.CDG004LlvmVerification, detail}
}
func errTypeMismatch(detail string) error {
	return &Error{diag.CDG005TypeMismatch, detail}
}
func errUnsupported(detail string) error {
	return &Error{diag.CDG006Unsupported, detail}
}
func errNotImplemented(feature string) error {
	return &Error{diag.CDG007NotImplemented, feature}
}
func errUndefinedVar(name string) error {
	return &Error{diag.CDG008UndefinedVar, "undefined variable " + name}
}
func errUndefinedFunc(name string) error {
	return &Error{diag.CDG009UndefinedFunc, "undefined function " + name}
}
func errInvalidRoot() error {
	return &Error{diag.CDG010InvalidRoot, "module root is not a COMP_UNIT"}
}
func errTargetMachine(detail string) error {
	return &Error{diag.CDG011TargetMachine, detail}
}

// loopCtx is one entry of the backend's loop-context stack (§4.6
// "Symbol table ... maintains a stack of loop contexts").
type loopCtx struct {
	cond *ir.Block
	end  *ir.Block
}

// gen holds all per-module codegen state: the IR module under
// construction, every mapping from project.Module arena IDs to the IR
// values/types they lower to, and the current function/block cursor.
type gen struct {
	mod  *project.Module
	meta *project.Metadata

	m *ir.Module

	structTypes map[types.StructID]*irtypes.StructType
	globals     map[project.VariableID]*ir.Global
	locals      map[project.VariableID]*ir.InstAlloca

	ownFuncs  map[project.FunctionID]*ir.Func
	extFuncs  map[project.FunctionID]*ir.Func // imported, declared lazily
	builtins  map[string]*ir.Func

	curFunc  *ir.Func
	curBlock *ir.Block
	entry    *ir.Block
	loops    []loopCtx
}

// Compile lowers one analyzed module to an LLVM IR module (§4.6). meta
// is the same frozen cross-module snapshot the module was analyzed
// against; it supplies signatures for any function this module imports
// and calls.
func Compile(mod *project.Module, meta *project.Metadata) (*ir.Module, error) {
	g := &gen{
		mod:         mod,
		meta:        meta,
		m:           ir.NewModule(),
		structTypes: make(map[types.StructID]*irtypes.StructType),
		globals:     make(map[project.VariableID]*ir.Global),
		locals:      make(map[project.VariableID]*ir.InstAlloca),
		ownFuncs:    make(map[project.FunctionID]*ir.Func),
		extFuncs:    make(map[project.FunctionID]*ir.Func),
		builtins:    make(map[string]*ir.Func),
	}
	g.m.SourceFilename = mod.Path
	log.Trace("compiling %s to LLVM IR", mod.Path)
	setTarget(g.m)

	g.declareRuntime()

	if err := g.run(); err != nil {
		return nil, err
	}
	if err := verify(g.m); err != nil {
		return nil, err
	}
	return g.m, nil
}

// CompileIRString lowers mod and renders it as LLVM IR text (the
// `compile_to_ir_string` entry point of §6's external interface).
func CompileIRString(mod *project.Module, meta *project.Metadata) (string, error) {
	m, err := Compile(mod, meta)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// CompileIRFile lowers mod and writes its LLVM IR text to path
// (`compile_to_ir_file`).
func CompileIRFile(mod *project.Module, meta *project.Metadata, path string) error {
	text, err := CompileIRString(mod, meta)
	if err != nil {
		return err
	}
	if err := writeFile(path, text); err != nil {
		return errWrite(err.Error())
	}
	return nil
}

func (g *gen) run() error {
	import_ := g.mod.Tree
	if import_ == nil {
		return errInvalidRoot()
	}
	comp, ok := compUnit(import_)
	if !ok {
		return errInvalidRoot()
	}

	// Globals first: function bodies may reference any global regardless
	// of its lexical position in the file (forward references, §9).
	for _, ld := range comp.LetDecls() {
		vid, ok := g.mod.VariableMap[ld.Range()]
		if !ok {
			continue
		}
		if err := g.declareGlobal(vid, ld); err != nil {
			return err
		}
	}

	// Declare every function defined by this module before lowering any
	// body, so mutual recursion within one file resolves.
	for i := range g.mod.Functions {
		fid := project.FunctionID{Module: g.mod.ID, Index: i}
		fn := g.mod.Functions[i]
		if !fn.HasBody {
			continue
		}
		if _, err := g.declareOwnFunc(fid, fn); err != nil {
			return err
		}
	}

	sites := g.collectSites(comp)
	for i := range g.mod.Functions {
		fid := project.FunctionID{Module: g.mod.ID, Index: i}
		fn := g.mod.Functions[i]
		if !fn.HasBody {
			continue
		}
		site, ok := sites[i]
		if !ok {
			continue
		}
		if err := g.lowerFunctionBody(fid, fn, site); err != nil {
			return err
		}
	}
	return nil
}
