// Package token defines the token and source-span types shared by every
// stage of the pipeline. The lexer and parser that produce these values are
// external collaborators (spec §1); this package only fixes the shape they
// hand to the AST, resolver, checker and lowerer.
package token

import "fmt"

// Kind classifies a token. The lexer is out of scope, so this is kept to
// a handful of coarse kinds; the core pipeline itself never branches on
// Kind, and only Token.String prints it.
type Kind int

const (
	Illegal Kind = iota
	EOF
	Ident
	Int
	Char
	String
	Operator
	Keyword
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "IDENT"
	case Int:
		return "INT"
	case Char:
		return "CHAR"
	case String:
		return "STRING"
	case Operator:
		return "OPERATOR"
	case Keyword:
		return "KEYWORD"
	case Punct:
		return "PUNCT"
	default:
		return "ILLEGAL"
	}
}

// Token is a single lexical unit with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}

// Span covers a contiguous range of source text, from the first token of a
// construct to its last. Every AST node carries one for diagnostic
// rendering (spec §3: "Node: a pair (NodeKind, source-span)").
type Span struct {
	Start Token
	End   Token
}

// SpanOf builds a Span collapsed to a single token, the common case for
// leaf nodes (literals, identifiers).
func SpanOf(t Token) Span {
	return Span{Start: t, End: t}
}

// Line reports the source line the span begins at, used by diagnostics.
func (s Span) Line() int {
	return s.Start.Line
}
