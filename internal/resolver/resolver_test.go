package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/resolver"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

func sp() token.Span { return token.SpanOf(token.Token{Lexeme: "x", Line: 1, Column: 1}) }

// function builds `fn name(params) { body }` with fresh ids minted from c.
func function(c *cache.Cache, name string, body *ast.Block) *ast.Function {
	return &ast.Function{
		Span_: sp(),
		ID:    c.MintBindingID(),
		Name:  name,
		Prototype: &ast.Prototype{
			Span_:      sp(),
			ReturnType: typesystem.TUnit{},
		},
		Body: body,
	}
}

func block(c *cache.Cache, stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Span_: sp(), ID: c.MintBindingID(), Statements: stmts}
}

// TestLetThenReference resolves `let x = 1; x;` inside a function body —
// the base case of spec §8's "polymorphic let inference" scenario's
// resolution half.
func TestLetThenReference(t *testing.T) {
	c := cache.New()
	letStmt := &ast.VariableDefStmt{
		Span_:          sp(),
		ID:             c.MintBindingID(),
		Name:           "x",
		TypeAnnotation: typesystem.TVar{ID: 1},
		Value:          &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64},
	}
	ref := &ast.Pattern{Span_: sp(), BaseName: "x", SymbolKind: ids.Definition}
	body := block(c, letStmt, &ast.InlineExprStmt{Span_: sp(), Expr: ref})
	fn := function(c, "main", body)

	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)

	require.False(t, diags.HasErrors())
	assert.Equal(t, letStmt.ID, ref.TargetID)
}

// TestRedefinitionInSameScope checks P2: two same-kind definitions with
// the same name in one scope yield a Redefinition diagnostic.
func TestRedefinitionInSameScope(t *testing.T) {
	c := cache.New()
	first := &ast.VariableDefStmt{
		Span_: sp(), ID: c.MintBindingID(), Name: "x",
		TypeAnnotation: typesystem.TVar{ID: 1},
		Value:          &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64},
	}
	second := &ast.VariableDefStmt{
		Span_: sp(), ID: c.MintBindingID(), Name: "x",
		TypeAnnotation: typesystem.TVar{ID: 2},
		Value:          &ast.IntegerLiteral{Span_: sp(), Value: 2, Size: typesystem.I64},
	}
	body := block(c, first, second)
	fn := function(c, "main", body)

	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)

	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.Redefinition, diags.Items()[0].Code)
}

// TestUndefinedReferenceReported checks P1/P3: referencing a name with no
// matching declare-pass binding anywhere in scope is reported, not panicked.
func TestUndefinedReferenceReported(t *testing.T) {
	c := cache.New()
	ref := &ast.Pattern{Span_: sp(), BaseName: "missing", SymbolKind: ids.Definition}
	body := block(c, &ast.InlineExprStmt{Span_: sp(), Expr: ref})
	fn := function(c, "main", body)

	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)

	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.UndefinedReference, diags.Items()[0].Code)
	assert.False(t, ref.TargetID.IsValid())
}

// TestThisOutsideImplReported checks the ThisType resolve rule from
// original_source/name_resolution.rs: `This` used outside a StructImpl
// reports ThisOutsideImpl rather than silently leaving Target unset.
func TestThisOutsideImplReported(t *testing.T) {
	c := cache.New()
	extern := &ast.ExternalFunction{
		Span_: sp(), ID: c.MintBindingID(), Name: "f",
		Prototype: &ast.Prototype{
			Span_:      sp(),
			Extern:     true,
			ReturnType: &typesystem.TThis{},
		},
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{extern}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)

	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.ThisOutsideImpl, diags.Items()[0].Code)
}

// TestStructImplResolvesThis checks the happy path: This resolves to the
// target struct's own BindingId when used inside one of its methods.
func TestStructImplResolvesThis(t *testing.T) {
	c := cache.New()
	structDecl := &ast.StructType{Span_: sp(), ID: c.MintBindingID(), Name: "Point"}

	thisType := &typesystem.TThis{}
	method := function(c, "clone", block(c))
	method.Prototype.AcceptsInstance = true
	method.Prototype.ThisParameter = &ast.Parameter{Span_: sp(), ID: c.MintBindingID(), Name: "self", Type: typesystem.TPointer{Elem: &typesystem.TThis{}}}
	method.Prototype.ReturnType = thisType

	impl := &ast.StructImpl{
		Span_:               sp(),
		TargetStructPattern: &ast.Pattern{Span_: sp(), BaseName: "Point", SymbolKind: ids.Type},
		Methods:             []*ast.Function{method},
	}

	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{structDecl, impl}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)

	require.False(t, diags.HasErrors())
	assert.Equal(t, structDecl.ID, thisType.Target)
}
