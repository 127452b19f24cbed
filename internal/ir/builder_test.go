package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ir"
)

// TestBuilderEmitsAFunctionWithATerminator covers spec P6: every
// reachable block built through the Builder ends up with exactly one
// terminator once the caller calls a Build* terminator method.
func TestBuilderEmitsAFunctionWithATerminator(t *testing.T) {
	b := ir.NewBuilder()
	b.CreateModule("test")

	sig := ir.FunctionType{Params: []ir.Type{ir.IntType{Bits: 32}}, Return: ir.IntType{Bits: 32}}
	fn := b.AddFunction("add_one", sig, ir.External)
	entry := b.AppendBlock(fn, "entry")
	b.PositionAt(entry)

	sum := b.BuildIntArith(ir.IntAdd, fn.Params[0], ir.IntConst{Bits: 32, Value: 1})
	b.BuildRet(sum)

	require.Len(t, fn.Blocks, 1)
	assert.True(t, fn.Blocks[0].Terminated())
	assert.Equal(t, "ret", fn.Blocks[0].Terminator.Op)
}

// TestEmitNoOpsAfterTerminator covers the same invariant from the other
// side: once a block is terminated, further Build* calls must not append
// a second instruction or a second terminator.
func TestEmitNoOpsAfterTerminator(t *testing.T) {
	b := ir.NewBuilder()
	b.CreateModule("test")

	fn := b.AddFunction("f", ir.FunctionType{Return: ir.VoidType{}}, ir.Private)
	entry := b.AppendBlock(fn, "entry")
	b.PositionAt(entry)

	b.BuildRet(nil)
	instrCountBefore := len(entry.Instrs)
	b.BuildRet(nil) // must no-op: the block is already terminated.
	b.BuildAlloca(ir.IntType{Bits: 32})

	assert.Len(t, entry.Instrs, instrCountBefore)
}

// TestPositionAtRestoresActiveFunction covers PositionAt's documented
// behavior of restoring the active function purely from the block's own
// back-reference, matching spec §6's single-argument position_at(block)
// signature (no separate function argument).
func TestPositionAtRestoresActiveFunction(t *testing.T) {
	b := ir.NewBuilder()
	b.CreateModule("test")

	fnA := b.AddFunction("a", ir.FunctionType{Return: ir.VoidType{}}, ir.Private)
	blkA := b.AppendBlock(fnA, "entry")
	fnB := b.AddFunction("b", ir.FunctionType{Return: ir.VoidType{}}, ir.Private)
	blkB := b.AppendBlock(fnB, "entry")

	b.PositionAt(blkB)
	b.BuildRet(nil)
	b.PositionAt(blkA)
	b.BuildRet(nil)

	assert.Len(t, blkA.Instrs, 0)
	assert.NotNil(t, blkA.Terminator)
	assert.NotNil(t, blkB.Terminator)
}

// TestBuildGlobalStringInternsASeparateGlobalPerCall matches the teacher's
// style of asserting observable side effects of a builder helper rather
// than its return value alone.
func TestBuildGlobalStringInternsASeparateGlobalPerCall(t *testing.T) {
	b := ir.NewBuilder()
	mod := b.CreateModule("test")
	fn := b.AddFunction("f", ir.FunctionType{Return: ir.VoidType{}}, ir.Private)
	b.PositionAt(b.AppendBlock(fn, "entry"))

	b.BuildGlobalString("hello")
	b.BuildGlobalString("world")

	assert.Len(t, mod.Globals, 2)
	assert.NotEqual(t, mod.Globals[0].Name, mod.Globals[1].Name)
}
