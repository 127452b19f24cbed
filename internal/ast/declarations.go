package ast

import (
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
)

// Parameter is a single prototype parameter, owning its own BindingId
// (spec §3: "Prototype: ordered parameter list (each parameter owns its
// own BindingId)").
type Parameter struct {
	Span_ token.Span
	ID    ids.BindingId
	Name  string
	Type  Type
}

func (n *Parameter) GetToken() token.Token { return n.Span_.Start }
func (n *Parameter) GetSpan() token.Span   { return n.Span_ }
func (n *Parameter) Accept(v Visitor)      { v.VisitParameter(n) }

// Prototype is the signature shared by Function, Closure and
// ExternalFunction (spec §3).
type Prototype struct {
	Span_           token.Span
	Parameters      []*Parameter
	Variadic        bool
	Extern          bool
	AcceptsInstance bool
	ThisParameter   *Parameter    // non-nil iff AcceptsInstance.
	ReturnType      Type
	InstanceTypeID  ids.BindingId // the struct this method belongs to, set when the resolve pass visits its StructImpl.
}

func (n *Prototype) GetToken() token.Token { return n.Span_.Start }
func (n *Prototype) GetSpan() token.Span   { return n.Span_ }
func (n *Prototype) Accept(v Visitor)      { v.VisitPrototype(n) }

// ExternalStatic declares an extern global (spec §3 NodeKind: "external
// static").
type ExternalStatic struct {
	Span_ token.Span
	ID    ids.BindingId
	Name  string
	Type  Type
}

func (n *ExternalStatic) GetToken() token.Token { return n.Span_.Start }
func (n *ExternalStatic) GetSpan() token.Span   { return n.Span_ }
func (n *ExternalStatic) Accept(v Visitor)      { v.VisitExternalStatic(n) }
func (*ExternalStatic) statementNode()          {}

// ExternalFunction declares an extern function (spec §3 NodeKind:
// "external function"). Its Prototype.Extern is always true.
type ExternalFunction struct {
	Span_     token.Span
	ID        ids.BindingId
	Name      string
	Prototype *Prototype
}

func (n *ExternalFunction) GetToken() token.Token { return n.Span_.Start }
func (n *ExternalFunction) GetSpan() token.Span   { return n.Span_ }
func (n *ExternalFunction) Accept(v Visitor)      { v.VisitExternalFunction(n) }
func (*ExternalFunction) statementNode()          {}

// Function is a named, defined function.
type Function struct {
	Span_     token.Span
	ID        ids.BindingId
	Name      string
	Prototype *Prototype
	Body      *Block
}

func (n *Function) GetToken() token.Token { return n.Span_.Start }
func (n *Function) GetSpan() token.Span   { return n.Span_ }
func (n *Function) Accept(v Visitor)      { v.VisitFunction(n) }
func (*Function) statementNode()          {}

// Capture is one variable a Closure captures from its enclosing scope.
// TargetID is filled by the resolve pass's relative lookup (spec §4.2:
// "resolve captures by relative lookup").
type Capture struct {
	Name     string
	TargetID ids.BindingId
}

// Closure is an anonymous function literal with captures (spec §3, §9:
// the Open Question on capture semantics; this implementation desugars to
// a struct+function pair, see internal/lowerer and DESIGN.md).
type Closure struct {
	Span_     token.Span
	ID        ids.BindingId
	Prototype *Prototype
	Body      *Block
	Captures  []Capture
}

func (n *Closure) GetToken() token.Token { return n.Span_.Start }
func (n *Closure) GetSpan() token.Span   { return n.Span_ }
func (n *Closure) Accept(v Visitor)      { v.VisitClosure(n) }
func (*Closure) expressionNode()         {}
