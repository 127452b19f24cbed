// Package ast defines the closed sum of syntactic node kinds (spec §3),
// each carrying a stable identity token (ids.BindingId) where the node is
// a declaration, type definition, block, or parameter.
//
// Dispatch is exhaustive double-dispatch through Visitor/Accept rather
// than the teacher's occasional macro-based switch (spec §9 REDESIGN
// FLAGS: "Re-express as exhaustive pattern matching... compiler-checked
// exhaustiveness replaces the macro" — adding a node kind without an
// Accept/Visit pair is a compile error, which is the same guarantee a
// closed enum match would give in the original Rust).
package ast

import (
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// Node is the base interface every AST node implements.
type Node interface {
	GetToken() token.Token
	GetSpan() token.Span
	Accept(v Visitor)
}

// Statement is a Node appearing in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node appearing in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Type is an ast-level type annotation as written by the user (possibly
// still containing a StubType/ThisType reference that name resolution has
// not yet filled in, or a typesystem.TVar standing in for an omitted
// annotation). It is simply typesystem.Type — spec §3 defines Type as a
// single sum shared between annotations and inferred types — aliased here
// so ast files read naturally.
type Type = typesystem.Type

// IntSize re-exports typesystem.IntSize so literal and type nodes don't
// need a second import just to tag an integer width.
type IntSize = typesystem.IntSize

// Program is the root of every compiled unit.
type Program struct {
	ModuleName string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) == 0 {
		return token.Token{}
	}
	return p.Statements[0].GetToken()
}
func (p *Program) GetSpan() token.Span {
	if len(p.Statements) == 0 {
		return token.Span{}
	}
	return token.Span{Start: p.Statements[0].GetSpan().Start, End: p.Statements[len(p.Statements)-1].GetSpan().End}
}
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// BindingId is re-exported for convenience so callers outside this package
// rarely need to import ids directly just to read a node's ID field.
type BindingId = ids.BindingId
