// Package lowerer implements spec §4.4: translating a type-checked
// program into an ir.Module through the backend builder surface defined
// in internal/ir. Grounded on original_source/lowering.rs's Lowerer,
// generalized the same way internal/checker generalized type_check.rs —
// a plain Go function switching on ast.Node rather than a trait-object
// Lower dispatch (spec §9 REDESIGN FLAGS).
package lowerer

import (
	"fmt"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/checker"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/ir"
)

// emitState is the function-body emission state machine spec §4.4
// describes: Uninitialized before any block exists, InFunction right
// after entry is appended but before positioning into it, InBlock while
// appending non-terminating instructions, Terminated once the current
// block has a terminator (at which point only entering a new block via
// append+position is legal again).
type emitState int

const (
	stateUninitialized emitState = iota
	stateInFunction
	stateInBlock
	stateTerminated
)

// loopFrame is one entry of the nested-loop stack: break targets the
// exit block, continue targets the condition-test block (spec §4.4
// representative loop lowering).
type loopFrame struct {
	exitBlock     *ir.Block
	continueBlock *ir.Block
}

// Lowerer carries the per-run state a single module's lowering needs:
// the shared builder and its module, the memoize-or-retrieve caches
// keyed by BindingId (spec §4.4: "values: BindingId -> IRValue, types:
// BindingId -> IRType"), the mangle counter, the loop-target stack, and
// lazily-created panic/print intrinsic handles.
type Lowerer struct {
	cache *cache.Cache
	tc    *checker.TypeContext
	diags *diagnostics.Bag
	b     *ir.Builder
	mod   *ir.Module

	values      map[ids.BindingId]ir.Value
	irFunctions map[ids.BindingId]*ir.Function
	irGlobals   map[ids.BindingId]*ir.Global
	structTypes map[ids.BindingId]*ir.StructType

	mangleCounter uint64

	loopStack []loopFrame

	panicFn *ir.Function
	printFn *ir.Function

	state       emitState
	currentFnID ids.BindingId // binding id of the ir.Function currently being appended to
}

// Lower runs the full lowering pass over prog, which must already have
// passed internal/resolver and internal/checker with no errors (spec §5:
// "lowering only runs if Diagnostics.has_errors() is false after
// checking"). tc is the TypeContext that already ran Check over prog;
// the lowerer reuses its InferType/Flatten directly rather than
// recomputing types a second time. A missing cache entry or a stray type
// variable reaching here is an ICE (spec §7 category 4), not a
// recoverable diagnostic — both upstream passes are responsible for
// ruling them out first.
func Lower(tc *checker.TypeContext, prog *ast.Program) *ir.Module {
	l := &Lowerer{
		cache:       tc.Cache(),
		tc:          tc,
		diags:       tc.Diagnostics,
		b:           ir.NewBuilder(),
		values:      make(map[ids.BindingId]ir.Value),
		irFunctions: make(map[ids.BindingId]*ir.Function),
		irGlobals:   make(map[ids.BindingId]*ir.Global),
		structTypes: make(map[ids.BindingId]*ir.StructType),
	}
	l.mod = l.b.CreateModule(prog.ModuleName)

	// Predeclare every function/extern/global signature first so a call
	// site can resolve a forward reference (mutual recursion, or a
	// function defined after its first caller) before any body is
	// lowered — the memoize-or-retrieve discipline applied to top-level
	// declarations specifically.
	for _, stmt := range prog.Statements {
		l.predeclare(stmt)
	}
	for _, stmt := range prog.Statements {
		l.lowerTopLevel(stmt)
	}
	return l.mod
}

func (l *Lowerer) ice(format string, args ...any) {
	panic(diagnostics.NewICE(format, args...))
}

// predeclare registers the IR-level Function/Global handle for every
// top-level declaration without touching its body, so later lookups
// through the irFunctions/irGlobals maps always hit the cache.
func (l *Lowerer) predeclare(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.Function:
		l.declareFunction(n.ID, n.Name, n.Prototype, false)
	case *ast.ExternalFunction:
		l.declareFunction(n.ID, n.Name, n.Prototype, true)
	case *ast.ExternalStatic:
		l.irGlobals[n.ID] = l.b.AddGlobal(l.lowerType(n.Type), 0, n.Name)
	case *ast.StructImpl:
		structID := n.TargetStructPattern.TargetID
		for _, m := range n.Methods {
			name := l.methodMangledName(structID, m.Name)
			l.declareFunction(m.ID, name, m.Prototype, false)
		}
	}
}

func (l *Lowerer) declareFunction(id ids.BindingId, name string, p *ast.Prototype, extern bool) *ir.Function {
	if fn, ok := l.irFunctions[id]; ok {
		return fn
	}
	mangled := l.mangledFunctionName(name, extern)
	sig := l.lowerFunctionSig(p)
	linkage := ir.Private
	if extern || name == "main" {
		linkage = ir.External
	}
	fn := l.b.AddFunction(mangled, sig, linkage)
	l.irFunctions[id] = fn
	return fn
}

// mangledFunctionName applies spec §4.4's mangling scheme
// (".{counter}.{base-name}") to every function except extern
// declarations and the program entry point, both of which must keep
// their exact external name for the linker/runtime to find them.
func (l *Lowerer) mangledFunctionName(base string, extern bool) string {
	if extern || base == "main" {
		return base
	}
	l.mangleCounter++
	return fmt.Sprintf(".%d.%s", l.mangleCounter, base)
}

func (l *Lowerer) methodMangledName(structID ids.BindingId, methodName string) string {
	node, err := l.cache.Get(structID)
	structName := "anon"
	if err == nil {
		if st, ok := node.(*ast.StructType); ok {
			structName = st.Name
		}
	}
	return structName + "." + methodName
}

func (l *Lowerer) lowerFunctionSig(p *ast.Prototype) ir.FunctionType {
	params := make([]ir.Type, 0, len(p.Parameters)+1)
	if p.AcceptsInstance {
		params = append(params, ir.PointerType{Elem: *l.structTypeFor(p.InstanceTypeID)})
	}
	for _, param := range p.Parameters {
		params = append(params, l.lowerType(param.Type))
	}
	return ir.FunctionType{Params: params, Return: l.lowerType(p.ReturnType), Variadic: p.Variadic}
}

func (l *Lowerer) lowerTopLevel(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.Function:
		l.lowerFunctionBody(n.ID, n.Prototype, n.Body)
	case *ast.ExternalFunction, *ast.ExternalStatic:
		// Declared in predeclare; extern bindings never get a body.
	case *ast.StructImpl:
		for _, m := range n.Methods {
			l.lowerFunctionBody(m.ID, m.Prototype, m.Body)
		}
	case *ast.StructType, *ast.Trait, *ast.Enum, *ast.TypeAlias, *ast.Using:
		// Purely structural declarations; nothing to emit.
	default:
		l.ice("unexpected top-level node %T reached lowering", stmt)
	}
}

// lowerFunctionBody emits id's entry block and statements, driving the
// Uninitialized -> InFunction -> InBlock -> Terminated state machine
// (spec §4.4): entry is appended and positioned into (InFunction), each
// parameter gets a spilled alloca so Pattern references can treat every
// local uniformly as a loaded pointer, the body lowers statement by
// statement (InBlock), and a fallthrough path out of the last block that
// nothing already terminated gets an implicit `ret` in a Unit function,
// or `unreachable` in any other.
func (l *Lowerer) lowerFunctionBody(id ids.BindingId, p *ast.Prototype, body *ast.Block) {
	fn, ok := l.irFunctions[id]
	if !ok {
		l.ice("function binding %d was not predeclared", id)
	}
	if body == nil {
		return // a prototype-only declaration (shouldn't normally reach here, but is not an ICE).
	}

	prevFnID, prevState := l.currentFnID, l.state
	l.currentFnID = id
	l.state = stateInFunction

	entry := l.b.AppendBlock(fn, "entry")
	l.b.PositionAt(entry)
	l.state = stateInBlock

	paramIdx := 0
	if p.AcceptsInstance {
		l.values[p.ThisParameter.ID] = l.spillParam(fn.Params[paramIdx], *l.structTypeFor(p.InstanceTypeID))
		paramIdx++
	}
	for _, param := range p.Parameters {
		l.values[param.ID] = l.spillParam(fn.Params[paramIdx], l.lowerType(param.Type))
		paramIdx++
	}

	l.lowerBlockStmt(body)

	if l.state != stateTerminated {
		if _, isUnit := l.lowerType(p.ReturnType).(ir.VoidType); isUnit {
			l.b.BuildRet(nil)
		} else {
			// A non-Unit function falling off the end without every path
			// returning is a checker gap, not something the lowerer can
			// repair; emit unreachable so the block still has exactly one
			// terminator (spec P6) instead of leaving it open.
			l.b.BuildUnreachable()
		}
		l.state = stateTerminated
	}

	l.currentFnID, l.state = prevFnID, prevState
}

func (l *Lowerer) spillParam(p *ir.Param, t ir.Type) ir.Value {
	slot := l.b.BuildAlloca(t)
	l.b.BuildStore(p, slot)
	return slot
}
