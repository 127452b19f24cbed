package lowerer

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/ir"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// lowerClosure implements the capture-semantics Open Question's chosen
// resolution (spec §9): a closure desugars into an env struct holding a
// copy of every captured binding's current value, plus a free function
// taking that env as an implicit leading parameter. The closure's value
// is a small {function-pointer, env-pointer} pair, built the same way a
// StructValue is (spec §4.4's representative struct-value lowering).
//
// Building the closure's own function body happens entirely out of line
// from the enclosing function's current block, so the builder's
// insertion cursor is snapshotted before switching into it and restored
// afterward (spec §9 REDESIGN FLAGS: "the builder's current-position
// cursor must be saved and restored around nested function bodies").
func (l *Lowerer) lowerClosure(n *ast.Closure) ir.Value {
	envFields := make([]ir.Type, len(n.Captures))
	for i, cap := range n.Captures {
		envFields[i] = l.lowerType(l.captureType(cap))
	}
	envType := ir.StructType{Name: "closure.env", Fields: envFields}

	envSlot := l.b.BuildAlloca(envType)
	for i, cap := range n.Captures {
		src, ok := l.values[cap.TargetID]
		if !ok {
			l.ice("closure capture %q has no addressable storage in the enclosing scope", cap.Name)
		}
		val := l.b.BuildLoad(envFields[i], src)
		l.b.BuildStore(val, l.b.BuildStructGEP(envType, envSlot, i))
	}

	params := make([]ir.Type, 0, len(n.Prototype.Parameters)+1)
	params = append(params, ir.PointerType{Elem: envType})
	for _, p := range n.Prototype.Parameters {
		params = append(params, l.lowerType(p.Type))
	}
	sig := ir.FunctionType{Params: params, Return: l.lowerType(n.Prototype.ReturnType), Variadic: n.Prototype.Variadic}
	fnName := l.mangledFunctionName("closure", false)
	irFn := l.b.AddFunction(fnName, sig, ir.Private)
	l.irFunctions[n.ID] = irFn

	savedBlock := l.b.CurrentBlock()
	savedFnID, savedState := l.currentFnID, l.state
	savedCaptures := make(map[ids.BindingId]ir.Value, len(n.Captures))

	l.currentFnID = n.ID
	entry := l.b.AppendBlock(irFn, "entry")
	l.b.PositionAt(entry)
	l.state = stateInBlock

	envParam := irFn.Params[0]
	for i, cap := range n.Captures {
		savedCaptures[cap.TargetID] = l.values[cap.TargetID]
		l.values[cap.TargetID] = l.b.BuildStructGEP(envType, envParam, i)
	}
	for i, p := range n.Prototype.Parameters {
		l.values[p.ID] = l.spillParam(irFn.Params[i+1], l.lowerType(p.Type))
	}

	l.lowerBlockStmt(n.Body)
	if l.state != stateTerminated {
		if _, isUnit := l.lowerType(n.Prototype.ReturnType).(ir.VoidType); isUnit {
			l.b.BuildRet(nil)
		} else {
			l.b.BuildUnreachable()
		}
		l.state = stateTerminated
	}

	for id, prev := range savedCaptures {
		if prev == nil {
			delete(l.values, id)
		} else {
			l.values[id] = prev
		}
	}
	l.currentFnID, l.state = savedFnID, savedState
	l.b.PositionAt(savedBlock)

	closureType := ir.StructType{Name: "closure.value", Fields: []ir.Type{
		ir.PointerType{Elem: sig},
		ir.PointerType{Elem: envType},
	}}
	closureSlot := l.b.BuildAlloca(closureType)
	l.b.BuildStore(ir.FunctionRef{F: irFn}, l.b.BuildStructGEP(closureType, closureSlot, 0))
	l.b.BuildStore(envSlot, l.b.BuildStructGEP(closureType, closureSlot, 1))
	return l.b.BuildLoad(closureType, closureSlot)
}

func (l *Lowerer) captureType(cap ast.Capture) typesystem.Type {
	node, err := l.cache.Get(cap.TargetID)
	if err != nil {
		l.ice("closure capture %q target missing from cache", cap.Name)
	}
	switch d := node.(type) {
	case *ast.VariableDefStmt:
		return l.tc.Flatten(d.TypeAnnotation, d.GetSpan())
	case *ast.Parameter:
		return l.tc.Flatten(d.Type, d.GetSpan())
	default:
		l.ice("closure capture %q resolves to non-variable binding %T", cap.Name, node)
		return typesystem.TError{}
	}
}
