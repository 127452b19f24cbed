package lowerer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/checker"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ir"
	"github.com/TheClonerx/gecko/internal/lowerer"
	"github.com/TheClonerx/gecko/internal/resolver"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

func sp() token.Span { return token.SpanOf(token.Token{Lexeme: "x", Line: 1, Column: 1}) }

func block(c *cache.Cache, stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Span_: sp(), ID: c.MintBindingID(), Statements: stmts, YieldsLastExpr: false}
}

// lower runs a program through resolve+check+lower, requiring no
// diagnostics along the way (every test here is a positive case — the
// checker's own tests already cover the diagnostic-producing paths).
func lower(t *testing.T, c *cache.Cache, prog *ast.Program) *ir.Module {
	t.Helper()
	diags := diagnostics.NewBag()
	resolver.ResolveProgram(c, diags, prog)
	require.False(t, diags.HasErrors(), "resolve: %v", diags.Items())
	tc := checker.Run(c, diags, prog)
	require.False(t, diags.HasErrors(), "check: %v", diags.Items())
	return lowerer.Lower(tc, prog)
}

// TestLowerFunctionReturningArithmetic covers spec §4.4's representative
// function lowering: a single entry block ending in exactly one `ret`.
func TestLowerFunctionReturningArithmetic(t *testing.T) {
	c := cache.New()
	ret := &ast.ReturnStmt{Span_: sp(), Value: &ast.BinaryExpr{
		Span_: sp(), Op: ast.Add,
		Left:  &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64},
		Right: &ast.IntegerLiteral{Span_: sp(), Value: 2, Size: typesystem.I64},
	}}
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "compute",
		Prototype: &ast.Prototype{Span_: sp(), ReturnType: typesystem.TInt{Size: typesystem.I64}},
		Body:      block(c, ret),
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	mod := lower(t, c, prog)

	require.Len(t, mod.Functions, 1)
	irFn := mod.Functions[0]
	assert.NotEqual(t, "compute", irFn.Name, "non-main functions are mangled")
	require.Len(t, irFn.Blocks, 1)
	assert.True(t, irFn.Blocks[0].Terminated())
	assert.Equal(t, "ret", irFn.Blocks[0].Terminator.Op)
}

// TestLowerMainKeepsExactName covers spec §4.4's mangling exception: the
// entry point keeps its literal name so the runtime can find it.
func TestLowerMainKeepsExactName(t *testing.T) {
	c := cache.New()
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "main",
		Prototype: &ast.Prototype{
			Span_: sp(),
			Parameters: []*ast.Parameter{
				{Span_: sp(), ID: c.MintBindingID(), Name: "argc", Type: typesystem.TInt{Size: typesystem.I32}},
				{Span_: sp(), ID: c.MintBindingID(), Name: "argv", Type: typesystem.TPointer{Elem: typesystem.TString{}}},
			},
			ReturnType: typesystem.TInt{Size: typesystem.I32},
		},
		Body: block(c, &ast.ReturnStmt{Span_: sp(), Value: &ast.IntegerLiteral{Span_: sp(), Value: 0, Size: typesystem.I32}}),
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	mod := lower(t, c, prog)

	require.Len(t, mod.Functions, 1)
	assert.Equal(t, "main", mod.Functions[0].Name)
}

// TestLowerIfExpressionWithElseUsesOneSlot covers spec §4.4's IfExpr
// representative lowering: a value-yielding if with an else branch merges
// into a single block reading from one alloca'd slot, every reachable
// block still ending in exactly one terminator (P6).
func TestLowerIfExpressionWithElseUsesOneSlot(t *testing.T) {
	c := cache.New()
	ifExpr := &ast.IfExpr{
		Span_:     sp(),
		Condition: &ast.BooleanLiteral{Span_: sp(), Value: true},
		ThenBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.IntegerLiteral{Span_: sp(), Value: 1, Size: typesystem.I64}}),
		ElseBlock: block(c, &ast.InlineExprStmt{Span_: sp(), Expr: &ast.IntegerLiteral{Span_: sp(), Value: 2, Size: typesystem.I64}}),
	}
	ifExpr.ThenBlock.YieldsLastExpr = true
	ifExpr.ElseBlock.YieldsLastExpr = true
	ret := &ast.ReturnStmt{Span_: sp(), Value: ifExpr}
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "pick",
		Prototype: &ast.Prototype{Span_: sp(), ReturnType: typesystem.TInt{Size: typesystem.I64}},
		Body:      block(c, ret),
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	mod := lower(t, c, prog)

	require.Len(t, mod.Functions, 1)
	irFn := mod.Functions[0]
	allocas := 0
	for _, blk := range irFn.Blocks {
		assert.True(t, blk.Terminated(), "block %q has no terminator", blk.Label)
		for _, inst := range blk.Instrs {
			if inst.Op == "alloca" {
				allocas++
			}
		}
	}
	assert.Equal(t, 1, allocas, "the if-expression's result slot is the only alloca")
}

// TestLowerLoopWithBreakTerminatesEveryBlock covers the loop cond/body/
// exit CFG lowering and P6 across a construct with break.
func TestLowerLoopWithBreakTerminatesEveryBlock(t *testing.T) {
	c := cache.New()
	loop := &ast.LoopStmt{
		Span_:     sp(),
		Condition: &ast.BooleanLiteral{Span_: sp(), Value: true},
		Body:      block(c, &ast.BreakStmt{Span_: sp()}),
	}
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "spin",
		Prototype: &ast.Prototype{Span_: sp(), ReturnType: typesystem.TUnit{}},
		Body:      block(c, loop),
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	mod := lower(t, c, prog)

	require.Len(t, mod.Functions, 1)
	irFn := mod.Functions[0]
	require.True(t, len(irFn.Blocks) >= 3, "expected at least cond/body/exit blocks")
	for _, blk := range irFn.Blocks {
		assert.True(t, blk.Terminated(), "block %q has no terminator", blk.Label)
	}
}
