package ast

import "github.com/TheClonerx/gecko/internal/token"

// BooleanLiteral is `true`/`false`.
type BooleanLiteral struct {
	Span_ token.Span
	Value bool
}

func (n *BooleanLiteral) GetToken() token.Token { return n.Span_.Start }
func (n *BooleanLiteral) GetSpan() token.Span   { return n.Span_ }
func (n *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(n) }
func (*BooleanLiteral) expressionNode()         {}

// CharLiteral is a single-quoted character literal.
type CharLiteral struct {
	Span_ token.Span
	Value rune
}

func (n *CharLiteral) GetToken() token.Token { return n.Span_.Start }
func (n *CharLiteral) GetSpan() token.Span   { return n.Span_ }
func (n *CharLiteral) Accept(v Visitor)      { v.VisitCharLiteral(n) }
func (*CharLiteral) expressionNode()         {}

// IntegerLiteral is a sized integer literal (spec §3: "int with size tag").
type IntegerLiteral struct {
	Span_ token.Span
	Value int64
	Size  IntSize
}

func (n *IntegerLiteral) GetToken() token.Token { return n.Span_.Start }
func (n *IntegerLiteral) GetSpan() token.Span   { return n.Span_ }
func (n *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(n) }
func (*IntegerLiteral) expressionNode()         {}

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	Span_ token.Span
	Value string
}

func (n *StringLiteral) GetToken() token.Token { return n.Span_.Start }
func (n *StringLiteral) GetSpan() token.Span   { return n.Span_ }
func (n *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(n) }
func (*StringLiteral) expressionNode()         {}

// NullPtrLiteral is `nullptr` annotated with the pointee type it stands in
// for (spec §4.3: "Nullptr(t) -> Pointer(t)").
type NullPtrLiteral struct {
	Span_       token.Span
	PointeeType Type
}

func (n *NullPtrLiteral) GetToken() token.Token { return n.Span_.Start }
func (n *NullPtrLiteral) GetSpan() token.Span   { return n.Span_ }
func (n *NullPtrLiteral) Accept(v Visitor)      { v.VisitNullPtrLiteral(n) }
func (*NullPtrLiteral) expressionNode()         {}
