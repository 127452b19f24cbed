package ast

import (
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
)

// Pattern is a reference to a definition or type symbol, filled in by the
// resolve pass (spec §3: "(optional module-qualifier, base-name,
// symbol-kind, target_id: optional BindingId)"). It stands in anywhere
// source code names something by identifier: a variable read, a callee, a
// struct name in a StructValue, etc.
//
// Named type references (StubType) and the `This` type are *not*
// represented as Pattern/ast.Node here; they live in the typesystem
// package as *typesystem.TStub / *typesystem.TThis, resolved in place by a
// plain recursive walk over the type annotation rather than through the
// Node/Visitor dispatch used for everything else. This mirrors the
// original name_resolution.rs, where ast::Type (a distinct enum from
// ast::Node) is walked by a hand-written match instead of the dispatch
// macro used for Node kinds.
type Pattern struct {
	Span_           token.Span
	ModuleQualifier string // "" when the reference is unqualified.
	BaseName        string
	SymbolKind      ids.SymbolKind
	TargetID        ids.BindingId // ids.Invalid until resolved.
}

func (n *Pattern) GetToken() token.Token { return n.Span_.Start }
func (n *Pattern) GetSpan() token.Span   { return n.Span_ }
func (n *Pattern) Accept(v Visitor)      { v.VisitPattern(n) }
func (*Pattern) expressionNode()         {}

// IsAbsolute reports whether this pattern is module-qualified, in which
// case resolution skips relative scopes entirely (spec §4.2: "Absolute
// patterns (module-qualified) look up directly in the named module's
// global scope").
func (n *Pattern) IsAbsolute() bool {
	return n.ModuleQualifier != ""
}
