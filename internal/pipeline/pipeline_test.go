package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/config"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/pipeline"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

func sp() token.Span { return token.SpanOf(token.Token{Lexeme: "x", Line: 1, Column: 1}) }

func validMain(c *cache.Cache) *ast.Function {
	return &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "main",
		Prototype: &ast.Prototype{
			Span_: sp(),
			Parameters: []*ast.Parameter{
				{Span_: sp(), ID: c.MintBindingID(), Name: "argc", Type: typesystem.TInt{Size: typesystem.I32}},
				{Span_: sp(), ID: c.MintBindingID(), Name: "argv", Type: typesystem.TPointer{Elem: typesystem.TString{}}},
			},
			ReturnType: typesystem.TInt{Size: typesystem.I32},
		},
		Body: &ast.Block{Span_: sp(), ID: c.MintBindingID(), YieldsLastExpr: false,
			Statements: []ast.Statement{&ast.ReturnStmt{Span_: sp(), Value: &ast.IntegerLiteral{Span_: sp(), Value: 0, Size: typesystem.I32}}}},
	}
}

// TestRunLowersAValidProgram covers spec §5's happy path end to end:
// resolve, check and lower all succeed and a module comes out the other
// side.
func TestRunLowersAValidProgram(t *testing.T) {
	c := cache.New()
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{validMain(c)}}

	p := pipeline.New(config.Default())
	res := p.Run(prog)

	require.False(t, res.Diagnostics.HasErrors())
	require.NotNil(t, res.Module)
	assert.NotEqual(t, res.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

// TestRunStopsBeforeLoweringOnError covers spec §5's early-abort rule:
// lowering must not run once Check has already reported an error.
func TestRunStopsBeforeLoweringOnError(t *testing.T) {
	c := cache.New()
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "main",
		Prototype: &ast.Prototype{Span_: sp(), ReturnType: typesystem.TInt{Size: typesystem.I64}}, // wrong shape
		Body:      &ast.Block{Span_: sp(), ID: c.MintBindingID(), YieldsLastExpr: false},
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	res := pipeline.New(config.Default()).Run(prog)

	require.True(t, res.Diagnostics.HasErrors())
	assert.Nil(t, res.Module)
}

// TestCheckEntryPointMissing covers the entry-point-missing half of
// T009 MainSignature for a non-default entry point name, where no other
// pass validates the function's existence at all.
func TestCheckEntryPointMissing(t *testing.T) {
	c := cache.New()
	diags := diagnostics.NewBag()
	prog := &ast.Program{ModuleName: "test", Statements: nil}

	pipeline.CheckEntryPoint(c, diags, prog, config.PipelineConfig{EntryPoint: "start"})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.MainSignature, diags.Items()[0].Code)
}

// TestCheckEntryPointCustomNameWrongSignature covers a configured,
// non-default entry point name whose signature doesn't match — the one
// case checker's inline "main"-only rule never validates.
func TestCheckEntryPointCustomNameWrongSignature(t *testing.T) {
	c := cache.New()
	diags := diagnostics.NewBag()
	fn := &ast.Function{
		Span_: sp(), ID: c.MintBindingID(), Name: "start",
		Prototype: &ast.Prototype{Span_: sp(), ReturnType: typesystem.TUnit{}},
		Body:      &ast.Block{Span_: sp(), ID: c.MintBindingID()},
	}
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	pipeline.CheckEntryPoint(c, diags, prog, config.PipelineConfig{EntryPoint: "start"})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.MainSignature, diags.Items()[0].Code)
}

// TestCheckEntryPointCustomNameOK is the positive counterpart.
func TestCheckEntryPointCustomNameOK(t *testing.T) {
	c := cache.New()
	diags := diagnostics.NewBag()
	fn := validMain(c)
	fn.Name = "start"
	prog := &ast.Program{ModuleName: "test", Statements: []ast.Statement{fn}}

	pipeline.CheckEntryPoint(c, diags, prog, config.PipelineConfig{EntryPoint: "start"})

	assert.False(t, diags.HasErrors())
}
