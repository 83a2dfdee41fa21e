package lsp

import (
	"github.com/airylang/airyc/internal/green"
	"github.com/airylang/airyc/internal/project"
	"github.com/airylang/airyc/internal/syntax"
	"github.com/airylang/airyc/internal/token"
)

// SemanticTokenKind classifies one identifier occurrence for
// highlighting (§6 supplement: the original language server's
// semanticTokens walks the tree and consults reference_map/type_table
// to tell a plain identifier apart from a function, struct, or field
// name).
type SemanticTokenKind string

const (
	TokVariable SemanticTokenKind = "variable"
	TokFunction SemanticTokenKind = "function"
	TokStruct   SemanticTokenKind = "struct"
	TokField    SemanticTokenKind = "field"
)

// SemanticToken is one classified identifier occurrence.
type SemanticToken struct {
	Start, End int
	Kind       SemanticTokenKind
}

// SemanticTokens walks path's green tree and classifies identifier
// occurrences: function and struct definition names by their node kind,
// variable reads and calls via the module's ReferenceMap, and field names
// by their place in a field access — a read-only projection over the
// frozen snapshot, never recomputed from scratch by re-parsing.
func (w *Workspace) SemanticTokens(path string) []SemanticToken {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.moduleAt(path)
	if !ok {
		return nil
	}
	var out []SemanticToken
	green.Walk(m.Tree, func(e green.Element) bool {
		n, ok := e.(*green.Node)
		if !ok {
			return true
		}
		switch n.Kind() {
		case token.FN_DEF:
			fd := syntax.FuncDef{Node: syntax.Node{G: n}}
			if t, ok := fd.NameToken(); ok {
				out = append(out, SemanticToken{Start: t.Range().Start, End: t.Range().End, Kind: TokFunction})
			}
		case token.STRUCT_DEF:
			sd := syntax.StructDef{Node: syntax.Node{G: n}}
			if t, ok := sd.NameToken(); ok {
				out = append(out, SemanticToken{Start: t.Range().Start, End: t.Range().End, Kind: TokStruct})
			}
		case token.NAME_EXPR:
			e, ok := syntax.AsExpr(n)
			if !ok {
				return true
			}
			if ref, found := m.ReferenceMap[e.Range()]; found {
				if m.References[ref].Kind == project.RefVarRead {
					if t, ok := e.NameToken(); ok {
						out = append(out, SemanticToken{Start: t.Range().Start, End: t.Range().End, Kind: TokVariable})
					}
				}
			}
		case token.CALL_EXPR:
			e, ok := syntax.AsExpr(n)
			if !ok {
				return true
			}
			if ref, found := m.ReferenceMap[e.Range()]; found && m.References[ref].Kind == project.RefFuncCall {
				if callee, ok := e.Callee(); ok {
					if t, ok := callee.NameToken(); ok {
						out = append(out, SemanticToken{Start: t.Range().Start, End: t.Range().End, Kind: TokFunction})
					}
				}
			}
		case token.FIELD_EXPR, token.ARROW_FIELD_EXPR:
			e, ok := syntax.AsExpr(n)
			if !ok {
				return true
			}
			if t, ok := e.FieldNameToken(); ok {
				out = append(out, SemanticToken{Start: t.Range().Start, End: t.Range().End, Kind: TokField})
			}
		}
		return true
	})
	return out
}
