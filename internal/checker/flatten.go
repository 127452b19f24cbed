package checker

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// Flatten resolves every Stub/This leaf reachable from t into a concrete
// type by following its Target binding through the Cache, reporting
// CycleInTypeAlias instead of recursing forever when a TypeAlias chain
// refers back to itself (spec P7: "flattening... must be idempotent and
// must not loop forever on a type-alias cycle"). Each call gets its own
// visited set, so Flatten is safe to call repeatedly on the same type
// (idempotence) without an earlier call's cycle poisoning a later one.
func (tc *TypeContext) Flatten(t typesystem.Type, span token.Span) typesystem.Type {
	tc.flattenVisited = make(map[ids.BindingId]bool)
	return tc.flattenRec(t, span)
}

func (tc *TypeContext) flattenRec(t typesystem.Type, span token.Span) typesystem.Type {
	switch v := t.(type) {
	case *typesystem.TStub:
		return tc.flattenBinding(v.Ref.Target, span)
	case *typesystem.TThis:
		return tc.flattenBinding(v.Target, span)
	case typesystem.TPointer:
		return typesystem.TPointer{Elem: tc.flattenRec(v.Elem, span)}
	case typesystem.TReference:
		return typesystem.TReference{Elem: tc.flattenRec(v.Elem, span)}
	case typesystem.TArray:
		return typesystem.TArray{Elem: tc.flattenRec(v.Elem, span), Len: v.Len}
	case typesystem.TFunction:
		params := make([]typesystem.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = tc.flattenRec(p, span)
		}
		return typesystem.TFunction{FunctionType: typesystem.FunctionType{
			Params:   params,
			Return:   tc.flattenRec(v.Return, span),
			Variadic: v.Variadic,
			Extern:   v.Extern,
		}}
	default:
		// Basic/Bool/Char/String/Null/Int/Unit/Error/Struct/Var are already
		// concrete leaves.
		return t
	}
}

// flattenBinding dereferences id through the Cache and turns the
// declaration found there into a concrete Type: a StructType becomes
// TStruct, a TypeAlias recurses into its aliased type (cycle-checked), an
// Enum becomes a TBasic tag. An invalid or dangling id — which can only
// mean an earlier resolve-pass failure already reported a diagnostic —
// degrades to TError rather than panicking, since flattening runs during
// checking, a recoverable pass (spec §7 category 3, not category 4).
func (tc *TypeContext) flattenBinding(id ids.BindingId, span token.Span) typesystem.Type {
	if !id.IsValid() {
		return typesystem.TError{}
	}
	if tc.flattenVisited[id] {
		tc.Diagnostics.Errorf(diagnostics.CycleInTypeAlias, span, "type alias refers back to itself")
		return typesystem.TError{}
	}
	tc.flattenVisited[id] = true
	defer delete(tc.flattenVisited, id)

	node, err := tc.cache.Get(id)
	if err != nil {
		return typesystem.TError{}
	}
	switch n := node.(type) {
	case *ast.StructType:
		fields := make([]typesystem.FieldType, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = typesystem.FieldType{Name: f.Name, Type: tc.flattenRec(f.Type, span)}
		}
		return typesystem.TStruct{StructType: typesystem.StructType{Name: n.Name, ID: n.ID, Fields: fields}}
	case *ast.TypeAlias:
		return tc.flattenRec(n.AliasedType, span)
	case *ast.Enum:
		return typesystem.TBasic{Name: n.Name}
	case *ast.Trait:
		// A trait named directly as a type (rather than through an impl)
		// has no value representation; treat it as an error type so the
		// surrounding Check rule reports the misuse instead of the
		// lowerer crashing on it later.
		return typesystem.TError{}
	default:
		return typesystem.TError{}
	}
}
