package lowerer

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/ir"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// valueType asks the shared TypeContext what n's checked, flattened type
// is. The checker already validated the program, so there is nothing
// left to diagnose here — this is purely a lookup of work already done,
// not a second inference pass with its own failure modes.
func (l *Lowerer) valueType(n ast.Node) typesystem.Type {
	return l.tc.Flatten(l.tc.InferType(n), n.GetSpan())
}

// lowerType maps a checked typesystem.Type to its IR representation.
// Declared annotations (parameters, lets, struct fields, casts) arrive
// unflattened, so a Stub/This leaf is flattened here through the same
// TypeContext the checker used. A TVar (spec P4) or Error showing up here
// is an ICE, not a recoverable error, since it can only mean an earlier
// pass failed to enforce its own invariant.
func (l *Lowerer) lowerType(t typesystem.Type) ir.Type {
	switch v := t.(type) {
	case *typesystem.TStub, *typesystem.TThis:
		return l.lowerType(l.tc.Flatten(t, token.Span{}))
	case typesystem.TUnit:
		return ir.VoidType{}
	case typesystem.TBool:
		return ir.IntType{Bits: 1}
	case typesystem.TChar:
		return ir.IntType{Bits: 32}
	case typesystem.TString:
		return ir.PointerType{Elem: ir.IntType{Bits: 8}}
	case typesystem.TNull:
		return ir.PointerType{Elem: ir.IntType{Bits: 8}}
	case typesystem.TInt:
		return ir.IntType{Bits: v.Size.Bits()}
	case typesystem.TPointer:
		return ir.PointerType{Elem: l.lowerType(v.Elem)}
	case typesystem.TReference:
		return ir.PointerType{Elem: l.lowerType(v.Elem)}
	case typesystem.TArray:
		return ir.ArrayType{Elem: l.lowerType(v.Elem), Len: v.Len}
	case typesystem.TFunction:
		params := make([]ir.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = l.lowerType(p)
		}
		return ir.FunctionType{Params: params, Return: l.lowerType(v.Return), Variadic: v.Variadic}
	case typesystem.TStruct:
		return *l.structTypeFor(v.ID)
	case typesystem.TBasic:
		// An Enum's runtime representation: a plain tag word (spec's
		// distillation carries no associated-data variants, so there is
		// no payload to size for).
		return ir.IntType{Bits: 32}
	default:
		l.ice("type %s reached lowering unresolved (Variable/Error)", t.String())
		return ir.VoidType{}
	}
}

// structTypeFor memoizes the IR StructType for a struct declaration by
// its BindingId (spec §4.4's memoize_or_retrieve_type, specialized to
// structs): the map entry is created and registered before its fields
// are lowered, so a self-referential field (legal only through a pointer
// — spec P7 bars a direct value cycle) sees the same *ir.StructType
// instance instead of recursing forever.
func (l *Lowerer) structTypeFor(id ids.BindingId) *ir.StructType {
	if st, ok := l.structTypes[id]; ok {
		return st
	}
	node, err := l.cache.Get(id)
	if err != nil {
		l.ice("struct binding %d missing from cache", id)
	}
	decl, ok := node.(*ast.StructType)
	if !ok {
		l.ice("binding %d is not a struct declaration", id)
	}
	st := &ir.StructType{Name: decl.Name}
	l.structTypes[id] = st
	fields := make([]ir.Type, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = l.lowerType(f.Type)
	}
	st.Fields = fields
	return st
}
