package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/checker"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/resolver"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

func sp() token.Span { return token.SpanOf(token.Token{Lexeme: "x", Line: 1, Column: 1}) }

func mainFn(c *cache.Cache, body *ast.Block) *ast.Function {
	return &ast.Function{
		Span_: sp(),
		ID:    c.MintBindingID(),
		Name:  "compute",
		Prototype: &ast.Prototype{
			Span_:      sp(),
			ReturnType: typesystem.TInt{Size: typesystem.I64},
		},
		Body: body,
	}
}

func block(c *cache.Cache, stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Span_: sp(), ID: c.MintBindingID(), Statements: stmts, YieldsLastExpr: true}
}

func run(prog *ast.Program) (*cache.Cache, *diagnostics.Bag) {
	c := cache.New()
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)
	if !diags.HasErrors() {
		checker.Run(c, diags, prog)
	}
	return c, diags
}

// TestPolymorphicLetInference covers the spec §8 scenario: `let x = 1;`
// with no annotation should end up with a concrete Int type once solving
// finishes, and that happens only through the checker, not the resolver.
func TestPolymorphicLetInference(t *testing.T) {
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
	fn := mainFn(c, body)

	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)
	require.False(t, diags.HasErrors())

	checker.Run(c, diags, prog)
	require.False(t, diags.HasErrors())
	assert.Equal(t, typesystem.TInt{Size: typesystem.I64}, letStmt.TypeAnnotation)
}

// TestBreakOutsideLoopReported covers spec §8's "break outside loop"
// scenario.
func TestBreakOutsideLoopReported(t *testing.T) {
	c := cache.New()
	body := block(c, &ast.BreakStmt{Span_: sp()})
	fn := mainFn(c, body)
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.LoopControlOutsideLoop, diags.Items()[0].Code)
}

// TestBreakInsideLoopOK is the positive counterpart.
func TestBreakInsideLoopOK(t *testing.T) {
	c := cache.New()
	loop := &ast.LoopStmt{Span_: sp(), Body: block(c, &ast.BreakStmt{Span_: sp()})}
	body := block(c, loop)
	body.YieldsLastExpr = false
	fn := mainFn(c, body)
	fn.Prototype.ReturnType = typesystem.TUnit{}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	assert.False(t, diags.HasErrors())
}

// TestMainSignatureEnforced covers spec §8's "main signature" scenario.
func TestMainSignatureEnforced(t *testing.T) {
	c := cache.New()
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "main",
		Prototype: &ast.Prototype{
			Span_:      sp(),
			ReturnType: typesystem.TInt{Size: typesystem.I64}, // wrong: should be I32
		},
		Body: block(c),
	}
	fn.Body.YieldsLastExpr = false
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.MainSignature, diags.Items()[0].Code)
}

// TestIfExpressionYieldsValue covers spec §8's "if-expression yielding a
// value" scenario: both branches Int, result is Int, no diagnostics.
func TestIfExpressionYieldsValue(t *testing.T) {
	c := cache.New()
	ifExpr := &ast.IfExpr{
		Span_:     sp(),
		Condition: &ast.BooleanLiteral{Span_: sp(), Value: true},
		ThenBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64}}),
		ElseBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.IntegerLiteral{Span_: sp(), Value: 2, Size: typesystem.I64}}),
	}
	body := block(c, &ast.InlineExprStmt{Span_: sp(), Expr: ifExpr})
	fn := mainFn(c, body)
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	assert.False(t, diags.HasErrors())
}

// TestIfExpressionBranchMismatch: then/else disagreeing types is reported.
func TestIfExpressionBranchMismatch(t *testing.T) {
	c := cache.New()
	ifExpr := &ast.IfExpr{
		Span_:     sp(),
		Condition: &ast.BooleanLiteral{Span_: sp(), Value: true},
		ThenBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64}}),
		ElseBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.BooleanLiteral{Span_: sp(), Value: false}}),
	}
	body := block(c, &ast.InlineExprStmt{Span_: sp(), Expr: ifExpr})
	fn := mainFn(c, body)
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.TypeMismatch, diags.Items()[0].Code)
}

// TestNullPointerComparesEqualToAnyPointer covers P8.
func TestNullPointerComparesEqualToAnyPointer(t *testing.T) {
	intPtr := typesystem.TPointer{Elem: typesystem.TInt{Size: typesystem.I32}}
	nullPtr := typesystem.TPointer{Elem: typesystem.TNull{}}
	assert.True(t, typesystem.Compare(intPtr, nullPtr))
	assert.True(t, typesystem.Compare(nullPtr, intPtr))
}

// TestRedefinitionStopsChecking ensures the checker isn't run when the
// resolver already reported errors (spec §5: early-abort before lowering;
// this run helper mirrors the pipeline's early-abort-before-lowering gate
// one stage earlier, before the checker).
func TestRedefinitionStopsChecking(t *testing.T) {
	c := cache.New()
	a := &ast.VariableDefStmt{Span_: sp(), ID: c.MintBindingID(), Name: "x", TypeAnnotation: typesystem.TVar{ID: 1}, Value: &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64}}
	b := &ast.VariableDefStmt{Span_: sp(), ID: c.MintBindingID(), Name: "x", TypeAnnotation: typesystem.TVar{ID: 2}, Value: &ast.IntegerLiteral{Span_: sp(), Value: 2, Size: typesystem.I64}}
	body := block(c, a, b)
	body.YieldsLastExpr = false
	fn := mainFn(c, body)
	fn.Prototype.ReturnType = typesystem.TUnit{}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	_, diags := run(prog)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.Redefinition, diags.Items()[0].Code)
}
