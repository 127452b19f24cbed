package ir

import "fmt"

// Value is anything a build_* instruction can take as an operand:
// instruction results, parameters, constants, and references to other
// module-level entities (functions, globals, blocks).
type Value interface {
	Type() Type
	String() string
	irValue()
}

// IntConst is a literal integer value of a given width.
type IntConst struct {
	Bits  int
	Value int64
}

func (c IntConst) Type() Type    { return IntType{Bits: c.Bits} }
func (c IntConst) String() string { return fmt.Sprintf("%d", c.Value) }
func (IntConst) irValue()        {}

// BoolConst is a literal boolean, represented at the IR level as i1.
type BoolConst struct{ Value bool }

func (c BoolConst) Type() Type    { return IntType{Bits: 1} }
func (c BoolConst) String() string { return fmt.Sprintf("%t", c.Value) }
func (BoolConst) irValue()        {}

// NullConst is the null pointer literal of a given pointee type (spec
// P8: null compares equal to any pointer type at the type level; at the
// IR level it is simply a typed zero pointer).
type NullConst struct{ Elem Type }

func (c NullConst) Type() Type    { return PointerType{Elem: c.Elem} }
func (NullConst) String() string  { return "null" }
func (NullConst) irValue()        {}

// GlobalRef references a module-level Global by address.
type GlobalRef struct{ G *Global }

func (r GlobalRef) Type() Type    { return PointerType{Elem: r.G.Type} }
func (r GlobalRef) String() string { return "@" + r.G.Name }
func (GlobalRef) irValue()        {}

// FunctionRef references a module-level Function by address, used both
// for direct calls and for passing a function as a first-class value.
type FunctionRef struct{ F *Function }

func (r FunctionRef) Type() Type    { return PointerType{Elem: r.F.Sig} }
func (r FunctionRef) String() string { return "@" + r.F.Name }
func (FunctionRef) irValue()        {}
