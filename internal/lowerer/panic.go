package lowerer

import "github.com/TheClonerx/gecko/internal/ir"

// panicIntrinsic and printIntrinsic are lazily declared the first time
// either is needed, matching spec §4.4's "cached panic/print intrinsic
// handles" — both are extern-linkage functions the runtime provides, so
// repeated uses across a module share one declaration instead of
// re-declaring it per call site.
func (l *Lowerer) panicIntrinsic() *ir.Function {
	if l.panicFn == nil {
		l.panicFn = l.b.AddFunction("panic", ir.FunctionType{
			Params: []ir.Type{ir.PointerType{Elem: ir.IntType{Bits: 8}}},
			Return: ir.VoidType{},
		}, ir.External)
	}
	return l.panicFn
}

func (l *Lowerer) printIntrinsic() *ir.Function {
	if l.printFn == nil {
		l.printFn = l.b.AddFunction("print", ir.FunctionType{
			Params: []ir.Type{ir.PointerType{Elem: ir.IntType{Bits: 8}}},
			Return: ir.VoidType{},
		}, ir.External)
	}
	return l.printFn
}

// buildPanicAssertion is the general panic-assertion mechanism spec §4.4
// describes: branch to a trap block and call panic(message) followed by
// an unreachable terminator whenever cond holds, otherwise fall through
// to a freshly-appended continuation block that becomes the new
// insertion point. Every call site (the array bounds check in
// buildBoundsCheck) shares this helper rather than hand-rolling the branch-trap-continue
// shape.
func (l *Lowerer) buildPanicAssertion(cond ir.Value, message string) {
	fn := l.currentIRFunction()
	trapBlock := l.b.AppendBlock(fn, "panic.trap")
	contBlock := l.b.AppendBlock(fn, "panic.cont")

	l.b.BuildCondBr(cond, trapBlock, contBlock)

	l.b.PositionAt(trapBlock)
	msg := l.b.BuildGlobalString(message)
	l.b.BuildCall(ir.FunctionRef{F: l.panicIntrinsic()}, []ir.Value{msg}, ir.VoidType{})
	l.b.BuildUnreachable()

	l.b.PositionAt(contBlock)
	l.state = stateInBlock
}

// buildBoundsCheck inserts the bounds-check panic assertion an array
// index requires (spec §4.4: "IndexingExpr... panic-assertion insertion
// for bounds checking"). Pointer indexing carries no known length and is
// left unchecked — the same way pointer arithmetic is inherently unsafe
// in the source language (spec §7: deref already requires an unsafe
// block; indexing through a pointer inherits that).
func (l *Lowerer) buildBoundsCheck(idx ir.Value, length int) {
	ltZero := l.b.BuildIntCmp(ir.ICmpSlt, idx, ir.IntConst{Bits: 64, Value: 0})
	geLen := l.b.BuildIntCmp(ir.ICmpSge, idx, ir.IntConst{Bits: 64, Value: int64(length)})
	cond := l.b.BuildOr(ltZero, geLen)
	l.buildPanicAssertion(cond, "index out of bounds")
}
