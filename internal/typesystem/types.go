// Package typesystem defines the Type sum (spec §3) and the substitution
// machinery used by the checker. It deliberately carries no parametric
// polymorphism (spec Non-goals: "type generics"); where the teacher's
// typesystem package layers kinds and higher-kinded application on top of
// this shape for a generic language, this one stops at simple types plus a
// single inference-time type variable.
package typesystem

import (
	"fmt"
	"strings"

	"github.com/TheClonerx/gecko/internal/ids"
)

// Type is the interface every member of the sum implements. Deliberately
// narrow (String + Apply), matching the REDESIGN FLAGS note to prefer
// exhaustive type switches over a visitor macro: callers switch on the
// concrete type rather than double-dispatching through a method set.
type Type interface {
	String() string
	// Apply substitutes every type variable reachable in t per s and
	// returns the (possibly) rewritten type. Apply is idempotent over an
	// already-fully-substituted type.
	Apply(s Subst) Type
}

// IntSize is the width/signedness tag carried by integer literals and
// Int types, grounded on the original ast.rs IntSize enum.
type IntSize int

const (
	I8 IntSize = iota
	I16
	I32
	I64
	ISize
	U8
	U16
	U32
	U64
	USize
)

func (s IntSize) String() string {
	switch s {
	case I8:
		return "Int8"
	case I16:
		return "Int16"
	case I32:
		return "Int32"
	case I64:
		return "Int64"
	case ISize:
		return "Isize"
	case U8:
		return "UInt8"
	case U16:
		return "UInt16"
	case U32:
		return "UInt32"
	case U64:
		return "UInt64"
	case USize:
		return "Usize"
	default:
		return "Int?"
	}
}

// Bits reports the storage width of the integer size, used by sizeof and
// by the lowerer when choosing the IR integer type.
func (s IntSize) Bits() int {
	switch s {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64, ISize, USize:
		return 64
	default:
		return 64
	}
}

func (s IntSize) Unsigned() bool {
	switch s {
	case U8, U16, U32, U64, USize:
		return true
	default:
		return false
	}
}

// ---- Leaf / primitive types ----

type TUnit struct{}

func (TUnit) String() string      { return "Unit" }
func (t TUnit) Apply(Subst) Type   { return t }

// TError is the placeholder type substituted whenever a recoverable
// resolution or type error prevents a real type from being computed (spec
// §7: "the pass records the diagnostic and continues with placeholder
// types (Type::Error)").
type TError struct{}

func (TError) String() string    { return "<error>" }
func (t TError) Apply(Subst) Type { return t }

// TBasic is a nominal named type that isn't one of the built-in primitives
// below — e.g. an Enum type. It compares by Name alone.
type TBasic struct {
	Name string
}

func (t TBasic) String() string    { return t.Name }
func (t TBasic) Apply(Subst) Type   { return t }

type TBool struct{}

func (TBool) String() string    { return "Bool" }
func (t TBool) Apply(Subst) Type { return t }

type TChar struct{}

func (TChar) String() string    { return "Char" }
func (t TChar) Apply(Subst) Type { return t }

type TString struct{}

func (TString) String() string    { return "String" }
func (t TString) Apply(Subst) Type { return t }

// TNull is the type of the nullptr literal before it's cast to a concrete
// Pointer(T) (spec §4.3: "Nullptr(t) -> Pointer(t)"); also doubles as the
// null-pointer subtype marker used by Compare's special rule (spec P8).
type TNull struct{}

func (TNull) String() string    { return "Null" }
func (t TNull) Apply(Subst) Type { return t }

type TInt struct {
	Size IntSize
}

func (t TInt) String() string  { return t.Size.String() }
func (t TInt) Apply(Subst) Type { return t }

// ---- Compound types ----

type TPointer struct {
	Elem Type
}

func (t TPointer) String() string { return "*" + t.Elem.String() }
func (t TPointer) Apply(s Subst) Type {
	return TPointer{Elem: t.Elem.Apply(s)}
}

type TReference struct {
	Elem Type
}

func (t TReference) String() string { return "&" + t.Elem.String() }
func (t TReference) Apply(s Subst) Type {
	return TReference{Elem: t.Elem.Apply(s)}
}

type TArray struct {
	Elem Type
	Len  int
}

func (t TArray) String() string {
	return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
}
func (t TArray) Apply(s Subst) Type {
	return TArray{Elem: t.Elem.Apply(s), Len: t.Len}
}

// FunctionType is the shape of Function/Closure/ExternFunction types (spec
// §4.3): ordered parameter types, an inferred return type, and the
// variadic/extern flags that the checker's VariadicOnNonExtern rule reads.
type FunctionType struct {
	Params   []Type
	Return   Type
	Variadic bool
	Extern   bool
}

func (ft FunctionType) String() string {
	parts := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		parts[i] = p.String()
	}
	variadic := ""
	if ft.Variadic {
		if len(parts) > 0 {
			variadic = ", "
		}
		variadic += "..."
	}
	return fmt.Sprintf("(%s%s) -> %s", strings.Join(parts, ", "), variadic, ft.Return.String())
}

type TFunction struct {
	FunctionType
}

func (t TFunction) String() string { return t.FunctionType.String() }
func (t TFunction) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return TFunction{FunctionType{
		Params:   params,
		Return:   t.Return.Apply(s),
		Variadic: t.Variadic,
		Extern:   t.Extern,
	}}
}

// FieldType is one field of a struct type.
type FieldType struct {
	Name string
	Type Type
}

// StructType is the structural shape of a declared struct (spec §4.3:
// "StructValue: field count must match; each positional field's inferred
// type must compare-equal to the declared field's type"). Name identifies
// the declaring struct for diagnostics; comparison is purely structural
// (Compare never looks at Name).
type StructType struct {
	Name   string
	ID     ids.BindingId
	Fields []FieldType
}

func (st StructType) String() string {
	parts := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("%s{%s}", st.Name, strings.Join(parts, ", "))
}

type TStruct struct {
	StructType
}

func (t TStruct) String() string { return t.StructType.String() }
func (t TStruct) Apply(s Subst) Type {
	fields := make([]FieldType, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = FieldType{Name: f.Name, Type: f.Type.Apply(s)}
	}
	return TStruct{StructType{Name: t.Name, ID: t.ID, Fields: fields}}
}

// FieldByName looks up a field by name, returning (_, false) when absent.
func (st StructType) FieldByName(name string) (FieldType, bool) {
	for _, f := range st.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldType{}, false
}

// ---- Deferred-resolution types: Stub and This ----

// StubRef is the resolved-or-not reference a StubType (ast) carries,
// shaped after spec §3's Pattern: an optional module qualifier, a base
// name, the symbol namespace, and the target id filled in by name
// resolution. It is duplicated here (rather than importing the ast
// package's Pattern) to avoid an import cycle, since ast.Parameter and
// friends embed typesystem.Type directly.
type StubRef struct {
	ModuleQualifier string // "" when unqualified (relative lookup)
	BaseName        string
	Kind            ids.SymbolKind
	Target          ids.BindingId
}

// TStub is a type named via a not-yet-flattened reference (e.g. `type
// Vector = ...` used before its definition is looked at, or any named
// struct/alias reference in a type annotation). Flattening (see
// internal/checker) replaces it with the concrete type the target binding
// holds.
//
// TStub is used by pointer (*TStub implements Type, not the value type),
// so that the resolve pass can fill Ref.Target in place wherever this
// annotation is nested (inside a TPointer, TArray, function parameter
// list, ...) without having to rebuild the enclosing type. This mirrors
// the original name_resolution.rs, where ast::Type is walked and mutated
// by a plain recursive match distinct from the Node/Visitor dispatch used
// for everything else (spec's flat NodeKind listing folds "stub-type" and
// "this-type" in with the rest for description purposes; here they live in
// the type layer instead of the ast package, as internal/ast/pattern.go's
// doc comment also notes).
type TStub struct {
	Ref StubRef
}

func (t *TStub) String() string {
	if t.Ref.ModuleQualifier != "" {
		return t.Ref.ModuleQualifier + "::" + t.Ref.BaseName
	}
	return t.Ref.BaseName
}
func (t *TStub) Apply(Subst) Type { return t }

// TThis is the `This` type inside a struct impl, resolved to the
// enclosing struct's binding id (spec §4.2: "ThisType: resolve to
// current_struct_type_id"). Flattening replaces it with that struct's
// concrete TStruct. Used by pointer for the same in-place-mutation reason
// as *TStub.
type TThis struct {
	Target ids.BindingId
}

func (t *TThis) String() string {
	return "This"
}
func (t *TThis) Apply(Subst) Type { return t }

// ---- Inference-time type variable ----

// TVar is produced only when a VariableDefStmt omits its type annotation
// (spec §3: "Variable is only produced by parsing when a type annotation
// is omitted; it is eliminated by unification"). ID comes with the AST,
// chosen by whoever built it; it is not a BindingId.
type TVar struct {
	ID uint64
}

func (t TVar) String() string {
	return fmt.Sprintf("t%d", t.ID)
}
func (t TVar) Apply(s Subst) Type {
	if repl, ok := s[t.ID]; ok {
		if rv, ok := repl.(TVar); ok && rv.ID == t.ID {
			return t
		}
		return repl.Apply(s)
	}
	return t
}

// Subst maps a type-variable id to its resolved binding. Keys are TVar.ID
// values, never BindingIds (spec §3: "Variable(id)"; §4.3:
// "substitutions: Nat -> Type").
type Subst map[uint64]Type

// ContainsVariable reports whether t has any TVar anywhere inside it,
// reachable through pointers/references/arrays/functions/structs. Used by
// the checker to enforce P4 ("after post-unification, no Type::Variable(_)
// remains"); the lowerer does not call it, and a TVar reaching its
// lowerType is an ICE there.
func ContainsVariable(t Type) bool {
	switch tt := t.(type) {
	case TVar:
		return true
	case TPointer:
		return ContainsVariable(tt.Elem)
	case TReference:
		return ContainsVariable(tt.Elem)
	case TArray:
		return ContainsVariable(tt.Elem)
	case TFunction:
		for _, p := range tt.Params {
			if ContainsVariable(p) {
				return true
			}
		}
		return ContainsVariable(tt.Return)
	case TStruct:
		for _, f := range tt.Fields {
			if ContainsVariable(f.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
