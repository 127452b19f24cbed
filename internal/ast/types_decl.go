package ast

import (
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
)

// StructFieldDecl is one field of a struct type declaration.
type StructFieldDecl struct {
	Name string
	Type Type
}

// StructType declares a struct (spec NodeKind "struct-type").
type StructType struct {
	Span_  token.Span
	ID     ids.BindingId
	Name   string
	Fields []StructFieldDecl
}

func (n *StructType) GetToken() token.Token { return n.Span_.Start }
func (n *StructType) GetSpan() token.Span   { return n.Span_ }
func (n *StructType) Accept(v Visitor)      { v.VisitStructType(n) }
func (*StructType) statementNode()          {}

// StructFieldInit is one field initializer in a StructValue literal,
// matched positionally against the declared struct's fields (spec §4.3:
// "field count must match; each positional field's inferred type must
// compare-equal to the declared field's type").
type StructFieldInit struct {
	Name  string // carried through for diagnostics/IR field naming.
	Value Expression
}

// StructValue is a struct literal, e.g. `Point{x: 1, y: 2}`.
type StructValue struct {
	Span_      token.Span
	StructName *Pattern // SymbolKind == ids.Type.
	Fields     []StructFieldInit
}

func (n *StructValue) GetToken() token.Token { return n.Span_.Start }
func (n *StructValue) GetSpan() token.Span   { return n.Span_ }
func (n *StructValue) Accept(v Visitor)      { v.VisitStructValue(n) }
func (*StructValue) expressionNode()         {}

// StructImpl attaches methods (optionally implementing a trait) to a
// struct (spec §4.2/§4.3).
type StructImpl struct {
	Span_               token.Span
	TargetStructPattern *Pattern // SymbolKind == ids.Type.
	TraitPattern        *Pattern // nil when this impl implements no trait.
	Methods             []*Function
}

func (n *StructImpl) GetToken() token.Token { return n.Span_.Start }
func (n *StructImpl) GetSpan() token.Span   { return n.Span_ }
func (n *StructImpl) Accept(v Visitor)      { v.VisitStructImpl(n) }
func (*StructImpl) statementNode()          {}

// Trait declares a set of method signatures an impl may satisfy (spec
// §4.3: "Impl: ... if a trait is named, each trait method must have a
// matching impl method").
type Trait struct {
	Span_   token.Span
	ID      ids.BindingId
	Name    string
	Methods []*Prototype
}

func (n *Trait) GetToken() token.Token { return n.Span_.Start }
func (n *Trait) GetSpan() token.Span   { return n.Span_ }
func (n *Trait) Accept(v Visitor)      { v.VisitTrait(n) }
func (*Trait) statementNode()          {}

// EnumVariant is one variant of an Enum declaration.
type EnumVariant struct {
	Name string
}

// Enum declares a closed set of named variants.
type Enum struct {
	Span_    token.Span
	ID       ids.BindingId
	Name     string
	Variants []EnumVariant
}

func (n *Enum) GetToken() token.Token { return n.Span_.Start }
func (n *Enum) GetSpan() token.Span   { return n.Span_ }
func (n *Enum) Accept(v Visitor)      { v.VisitEnum(n) }
func (*Enum) statementNode()          {}

// TypeAlias declares a new name for an existing type.
type TypeAlias struct {
	Span_       token.Span
	ID          ids.BindingId
	Name        string
	AliasedType Type
}

func (n *TypeAlias) GetToken() token.Token { return n.Span_.Start }
func (n *TypeAlias) GetSpan() token.Span   { return n.Span_ }
func (n *TypeAlias) Accept(v Visitor)      { v.VisitTypeAlias(n) }
func (*TypeAlias) statementNode()          {}

// Using names a module to import, optionally under an alias. The resolver
// records nothing for it: every module-qualified (absolute) Pattern or
// type reference is reported as InvalidAbsolutePath.
type Using struct {
	Span_      token.Span
	ModuleName string
	Alias      string // "" when no alias is given; ModuleName is then also the qualifier.
}

func (n *Using) GetToken() token.Token { return n.Span_.Start }
func (n *Using) GetSpan() token.Span   { return n.Span_ }
func (n *Using) Accept(v Visitor)      { v.VisitUsing(n) }
func (*Using) statementNode()          {}

// SizeofIntrinsic yields the 64-bit size, in bytes, of OperandType (spec
// §4.3: "SizeofIntrinsic: 64-bit integer").
type SizeofIntrinsic struct {
	Span_       token.Span
	OperandType Type
}

func (n *SizeofIntrinsic) GetToken() token.Token { return n.Span_.Start }
func (n *SizeofIntrinsic) GetSpan() token.Span   { return n.Span_ }
func (n *SizeofIntrinsic) Accept(v Visitor)      { v.VisitSizeofIntrinsic(n) }
func (*SizeofIntrinsic) expressionNode()         {}

// IntrinsicCall invokes a compiler-builtin (e.g. the lowerer's lazily
// created panic/print helpers) by name, distinct from an ordinary CallExpr
// because the callee is never resolved through a Pattern.
type IntrinsicCall struct {
	Span_     token.Span
	Name      string
	Arguments []Expression
}

func (n *IntrinsicCall) GetToken() token.Token { return n.Span_.Start }
func (n *IntrinsicCall) GetSpan() token.Span   { return n.Span_ }
func (n *IntrinsicCall) Accept(v Visitor)      { v.VisitIntrinsicCall(n) }
func (*IntrinsicCall) expressionNode()         {}
