package ir

import "fmt"

// Builder is the reference implementation of spec §6's backend builder
// surface: create_module, add_function, add_global, append_block,
// position_at, and the build_* instruction family. It tracks a single
// "current block" the way a real LLVM IRBuilder does, which is exactly
// the cursor internal/lowerer saves and restores around closure bodies
// (spec §9 REDESIGN FLAGS: "the builder's current-position cursor must be
// saved and restored around nested function bodies").
type Builder struct {
	module  *Module
	fn      *Function
	current *Block
}

// NewBuilder returns a Builder with no module positioned yet; CreateModule
// must be called before AddFunction/AddGlobal.
func NewBuilder() *Builder { return &Builder{} }

// CreateModule starts a fresh Module and becomes the Builder's active
// module for subsequent AddFunction/AddGlobal calls.
func (b *Builder) CreateModule(name string) *Module {
	b.module = &Module{Name: name}
	return b.module
}

// AddFunction declares or defines a function in the active module. The
// caller still has to AppendBlock+PositionAt before emitting a body;
// an External-linkage prototype with no blocks is a valid end state
// (spec: extern function declarations never get a body).
func (b *Builder) AddFunction(name string, sig FunctionType, linkage Linkage) *Function {
	fn := &Function{Name: name, Sig: sig, Linkage: linkage}
	fn.Params = make([]*Param, len(sig.Params))
	for i, pt := range sig.Params {
		fn.Params[i] = &Param{name: fmt.Sprintf("arg%d", i), typ: pt, index: i}
	}
	b.module.Functions = append(b.module.Functions, fn)
	return fn
}

// AddGlobal declares a module-scope storage location.
func (b *Builder) AddGlobal(t Type, addrSpace int, name string) *Global {
	g := &Global{Name: name, Type: t, AddrSpace: addrSpace}
	b.module.Globals = append(b.module.Globals, g)
	return g
}

// AppendBlock adds a new, empty basic block to fn and returns it without
// repositioning the builder — callers combine this with PositionAt.
func (b *Builder) AppendBlock(fn *Function, label string) *Block {
	blk := &Block{Label: label, fn: fn}
	fn.Blocks = append(fn.Blocks, blk)
	return blk
}

// PositionAt moves the builder's insertion cursor to the end of blk,
// also making blk's owning function the active one for valueSeq
// numbering. All subsequent build_* calls append there until the next
// PositionAt.
func (b *Builder) PositionAt(blk *Block) {
	b.current = blk
	b.fn = blk.fn
}

// CurrentBlock exposes the builder's cursor so the lowerer's
// save/restore-around-closures logic (spec §9) can snapshot and later
// restore it without reaching into Builder internals.
func (b *Builder) CurrentBlock() *Block { return b.current }

func (b *Builder) emit(op string, resultType Type, operands ...Value) *Instruction {
	inst := &Instruction{Op: op, Operands: operands, ResultType: resultType}
	if b.current == nil || b.current.Terminated() {
		// Emitting past a terminator (or with no position set) is a
		// lowerer bug, not a recoverable IR-construction error — the
		// state machine in internal/lowerer is supposed to make this
		// unreachable. Returning the instruction without appending it
		// keeps Builder total instead of panicking mid-codegen.
		return inst
	}
	b.fn.valueSeq++
	inst.id = b.fn.valueSeq
	b.current.Instrs = append(b.current.Instrs, inst)
	return inst
}

func (b *Builder) terminate(op string, operands ...Value) *Instruction {
	term := &Instruction{Op: op, Operands: operands, ResultType: VoidType{}}
	if b.current == nil || b.current.Terminated() {
		return term
	}
	b.current.Terminator = term
	return term
}

// BuildAlloca reserves stack storage for one value of type t, returning a
// pointer to it.
func (b *Builder) BuildAlloca(t Type) Value {
	return b.emit("alloca", PointerType{Elem: t})
}

// BuildStore writes val through ptr.
func (b *Builder) BuildStore(val, ptr Value) {
	b.emit("store", VoidType{}, val, ptr)
}

// BuildLoad reads a value of type t through ptr.
func (b *Builder) BuildLoad(t Type, ptr Value) Value {
	return b.emit("load", t, ptr)
}

// BuildCall invokes fn (a FunctionRef or any pointer-to-function Value)
// with args, producing a value of retType (VoidType for a Unit-returning
// call).
func (b *Builder) BuildCall(fn Value, args []Value, retType Type) Value {
	operands := append([]Value{fn}, args...)
	return b.emit("call", retType, operands...)
}

// BuildRet terminates the current block, returning val (nil for a
// Unit-returning function).
func (b *Builder) BuildRet(val Value) *Instruction {
	if val == nil {
		return b.terminate("ret.void")
	}
	return b.terminate("ret", val)
}

// BuildBr terminates the current block with an unconditional jump.
func (b *Builder) BuildBr(target *Block) *Instruction {
	return b.terminate("br", blockValue{target})
}

// BuildCondBr terminates the current block, branching to thenBlk when
// cond is true and elseBlk otherwise.
func (b *Builder) BuildCondBr(cond Value, thenBlk, elseBlk *Block) *Instruction {
	return b.terminate("cond_br", cond, blockValue{thenBlk}, blockValue{elseBlk})
}

// BuildUnreachable terminates the current block with a hard trap,
// emitted after a call the checker proved never returns (e.g. a failed
// panic assertion's true branch).
func (b *Builder) BuildUnreachable() *Instruction {
	return b.terminate("unreachable")
}

// BuildIntCmp compares two integers, producing an i1.
func (b *Builder) BuildIntCmp(pred IntPredicate, lhs, rhs Value) Value {
	return b.emit(fmt.Sprintf("icmp.%d", pred), IntType{Bits: 1}, lhs, rhs)
}

// BuildFloatCmp compares two floats, producing an i1. See FloatPredicate's
// doc comment: unreachable from this language's current Type sum, kept
// for parity with the required backend surface.
func (b *Builder) BuildFloatCmp(pred FloatPredicate, lhs, rhs Value) Value {
	return b.emit(fmt.Sprintf("fcmp.%d", pred), IntType{Bits: 1}, lhs, rhs)
}

// BuildIntArith performs an integer arithmetic op, producing a value of
// lhs's type.
func (b *Builder) BuildIntArith(op IntArithOp, lhs, rhs Value) Value {
	return b.emit(fmt.Sprintf("iarith.%d", op), lhs.Type(), lhs, rhs)
}

// BuildFloatArith performs a float arithmetic op. See FloatPredicate's
// doc comment.
func (b *Builder) BuildFloatArith(op FloatArithOp, lhs, rhs Value) Value {
	return b.emit(fmt.Sprintf("farith.%d", op), lhs.Type(), lhs, rhs)
}

// BuildAnd, BuildOr, BuildNot implement boolean logic over i1 operands.
func (b *Builder) BuildAnd(lhs, rhs Value) Value { return b.emit("and", IntType{Bits: 1}, lhs, rhs) }
func (b *Builder) BuildOr(lhs, rhs Value) Value  { return b.emit("or", IntType{Bits: 1}, lhs, rhs) }
func (b *Builder) BuildNot(v Value) Value        { return b.emit("not", IntType{Bits: 1}, v) }

// BuildGEP computes a pointer offset into an array-typed allocation.
func (b *Builder) BuildGEP(elemType Type, ptr Value, indices []Value) Value {
	operands := append([]Value{ptr}, indices...)
	return b.emit("gep", PointerType{Elem: elemType}, operands...)
}

// BuildStructGEP computes a pointer to the fieldIndex'th field of a
// struct-typed allocation.
func (b *Builder) BuildStructGEP(structType StructType, ptr Value, fieldIndex int) Value {
	fieldType := structType.Fields[fieldIndex]
	return b.emit("struct_gep", PointerType{Elem: fieldType}, ptr, IntConst{Bits: 32, Value: int64(fieldIndex)})
}

// BuildCast converts v to type to, per kind.
func (b *Builder) BuildCast(kind CastKind, v Value, to Type) Value {
	return b.emit(fmt.Sprintf("cast.%d", kind), to, v)
}

// BuildGlobalString interns s as a module-scope constant array of i8 and
// returns a pointer to its first byte, the one place codegen mints a
// fresh Global on the fly rather than going through AddGlobal directly
// (string literals have no AST-level binding to key a memoize-or-retrieve
// lookup on).
func (b *Builder) BuildGlobalString(s string) Value {
	b.module.stringCounter++
	name := fmt.Sprintf(".str.%d", b.module.stringCounter)
	g := &Global{
		Name:        name,
		Type:        ArrayType{Elem: IntType{Bits: 8}, Len: len(s) + 1},
		Initializer: stringLiteral(s),
	}
	b.module.Globals = append(b.module.Globals, g)
	return GlobalRef{G: g}
}

// blockValue lets a *Block stand in as a branch-target Value without
// making Block itself satisfy the general Value interface (a block has
// no meaningful Type()).
type blockValue struct{ blk *Block }

func (blockValue) Type() Type       { return VoidType{} }
func (b blockValue) String() string { return b.blk.Label }
func (blockValue) irValue()         {}

type stringLiteral string

func (stringLiteral) Type() Type      { return ArrayType{Elem: IntType{Bits: 8}} }
func (s stringLiteral) String() string { return string(s) }
func (stringLiteral) irValue()         {}
