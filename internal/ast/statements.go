package ast

import (
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
)

// Block is a brace-delimited sequence of statements. It owns a BindingId
// because the resolver indexes scope-tree snapshots by block id (spec
// §4.2: "scope_map: BlockId -> list<Scope>").
type Block struct {
	Span_          token.Span
	ID             ids.BindingId
	Statements     []Statement
	YieldsLastExpr bool // spec invariant: unset implies the block's type is Unit.
}

func (n *Block) GetToken() token.Token { return n.Span_.Start }
func (n *Block) GetSpan() token.Span   { return n.Span_ }
func (n *Block) Accept(v Visitor)      { v.VisitBlock(n) }
func (*Block) statementNode()          {}
func (*Block) expressionNode()         {}

// VariableDefStmt is a `let` binding (spec NodeKind "variable-definition").
// TypeAnnotation is a typesystem.TVar when the source omits an explicit
// type (spec §3: "Variable is only produced by parsing when a type
// annotation is omitted").
type VariableDefStmt struct {
	Span_          token.Span
	ID             ids.BindingId
	Name           string
	TypeAnnotation Type
	Value          Expression
	Mutable        bool
}

func (n *VariableDefStmt) GetToken() token.Token { return n.Span_.Start }
func (n *VariableDefStmt) GetSpan() token.Span   { return n.Span_ }
func (n *VariableDefStmt) Accept(v Visitor)      { v.VisitVariableDefStmt(n) }
func (*VariableDefStmt) statementNode()          {}

// InlineExprStmt is an expression used in statement position, its value
// discarded unless it is the block's last statement.
type InlineExprStmt struct {
	Span_ token.Span
	Expr  Expression
}

func (n *InlineExprStmt) GetToken() token.Token { return n.Span_.Start }
func (n *InlineExprStmt) GetSpan() token.Span   { return n.Span_ }
func (n *InlineExprStmt) Accept(v Visitor)      { v.VisitInlineExprStmt(n) }
func (*InlineExprStmt) statementNode()          {}

// ReturnStmt optionally carries a value (spec §4.3: "value-presence must
// match non-unit-ness of the enclosing function's... inferred return
// type").
type ReturnStmt struct {
	Span_ token.Span
	Value Expression // nil for a bare `return;`
}

func (n *ReturnStmt) GetToken() token.Token { return n.Span_.Start }
func (n *ReturnStmt) GetSpan() token.Span   { return n.Span_ }
func (n *ReturnStmt) Accept(v Visitor)      { v.VisitReturnStmt(n) }
func (*ReturnStmt) statementNode()          {}

// BreakStmt and ContinueStmt are only legal inside a LoopStmt (spec §4.3:
// "enforce in_loop").
type BreakStmt struct {
	Span_ token.Span
}

func (n *BreakStmt) GetToken() token.Token { return n.Span_.Start }
func (n *BreakStmt) GetSpan() token.Span   { return n.Span_ }
func (n *BreakStmt) Accept(v Visitor)      { v.VisitBreakStmt(n) }
func (*BreakStmt) statementNode()          {}

type ContinueStmt struct {
	Span_ token.Span
}

func (n *ContinueStmt) GetToken() token.Token { return n.Span_.Start }
func (n *ContinueStmt) GetSpan() token.Span   { return n.Span_ }
func (n *ContinueStmt) Accept(v Visitor)      { v.VisitContinueStmt(n) }
func (*ContinueStmt) statementNode()          {}

// LoopStmt is a conditional (or infinite, when Condition is nil) loop.
type LoopStmt struct {
	Span_     token.Span
	Condition Expression // nil for an unconditional loop.
	Body      *Block
}

func (n *LoopStmt) GetToken() token.Token { return n.Span_.Start }
func (n *LoopStmt) GetSpan() token.Span   { return n.Span_ }
func (n *LoopStmt) Accept(v Visitor)      { v.VisitLoopStmt(n) }
func (*LoopStmt) statementNode()          {}

// AssignStmt is `assignee = value` (spec §4.3: "Assign: assignee must be
// pointer, reference-dereference, variable-ref, indexing, or
// member-access").
type AssignStmt struct {
	Span_    token.Span
	Assignee Expression
	Value    Expression
}

func (n *AssignStmt) GetToken() token.Token { return n.Span_.Start }
func (n *AssignStmt) GetSpan() token.Span   { return n.Span_ }
func (n *AssignStmt) Accept(v Visitor)      { v.VisitAssignStmt(n) }
func (*AssignStmt) statementNode()          {}

// UnsafeExpr wraps a block in which dereference and extern-function-call
// operations are permitted (spec Glossary: "Unsafe block").
type UnsafeExpr struct {
	Span_ token.Span
	Body  *Block
}

func (n *UnsafeExpr) GetToken() token.Token { return n.Span_.Start }
func (n *UnsafeExpr) GetSpan() token.Span   { return n.Span_ }
func (n *UnsafeExpr) Accept(v Visitor)      { v.VisitUnsafeExpr(n) }
func (*UnsafeExpr) expressionNode()         {}
