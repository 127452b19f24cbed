package lowerer

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/ir"
)

// lowerBlockStmt lowers every statement of n for side effect only,
// discarding whatever the last statement would have yielded (used for
// function bodies and loop bodies, where the emission state machine's
// InBlock phase applies to each statement in turn). Once a statement
// terminates the current block, remaining statements are unreachable and
// are not lowered — their deadness was already whatever the checker
// decided by reaching this block at all.
func (l *Lowerer) lowerBlockStmt(n *ast.Block) {
	for _, stmt := range n.Statements {
		if l.state == stateTerminated {
			return
		}
		l.lowerStmt(stmt)
	}
}

// lowerBlockExpr lowers n the same way but, when n.YieldsLastExpr, also
// returns the value its final InlineExprStmt produced (spec: a Block
// used in expression position, e.g. an if-branch).
func (l *Lowerer) lowerBlockExpr(n *ast.Block) ir.Value {
	var result ir.Value
	for i, stmt := range n.Statements {
		if l.state == stateTerminated {
			return result
		}
		if n.YieldsLastExpr && i == len(n.Statements)-1 {
			if inline, ok := stmt.(*ast.InlineExprStmt); ok {
				result = l.lowerValue(inline.Expr)
				continue
			}
		}
		l.lowerStmt(stmt)
	}
	return result
}

func (l *Lowerer) lowerStmt(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.Block:
		l.lowerBlockStmt(n)
	case *ast.VariableDefStmt:
		l.lowerVariableDef(n)
	case *ast.InlineExprStmt:
		l.lowerValue(n.Expr)
	case *ast.ReturnStmt:
		l.lowerReturn(n)
	case *ast.BreakStmt:
		l.lowerBreak(n)
	case *ast.ContinueStmt:
		l.lowerContinue(n)
	case *ast.LoopStmt:
		l.lowerLoop(n)
	case *ast.AssignStmt:
		l.lowerAssign(n)
	default:
		l.ice("unexpected statement kind %T reached lowering", stmt)
	}
}

func (l *Lowerer) lowerVariableDef(n *ast.VariableDefStmt) {
	val := l.lowerValue(n.Value)
	t := l.lowerType(n.TypeAnnotation)
	slot := l.b.BuildAlloca(t)
	l.b.BuildStore(val, slot)
	l.values[n.ID] = slot
}

func (l *Lowerer) lowerReturn(n *ast.ReturnStmt) {
	if n.Value == nil {
		l.b.BuildRet(nil)
	} else {
		l.b.BuildRet(l.lowerValue(n.Value))
	}
	l.state = stateTerminated
}

func (l *Lowerer) lowerBreak(n *ast.BreakStmt) {
	if len(l.loopStack) == 0 {
		l.ice("break reached lowering outside any loop")
	}
	l.b.BuildBr(l.loopStack[len(l.loopStack)-1].exitBlock)
	l.state = stateTerminated
}

func (l *Lowerer) lowerContinue(n *ast.ContinueStmt) {
	if len(l.loopStack) == 0 {
		l.ice("continue reached lowering outside any loop")
	}
	l.b.BuildBr(l.loopStack[len(l.loopStack)-1].continueBlock)
	l.state = stateTerminated
}

// lowerLoop is spec §4.4's representative loop lowering: a condition-test
// block branching into the body or out to the exit block, the body
// branching back to the condition test on fallthrough, and an
// exit/continue loopFrame pushed onto loopStack for the duration so nested
// break/continue statements resolve to the innermost loop (pushed/popped
// rather than a single field, since loops nest).
func (l *Lowerer) lowerLoop(n *ast.LoopStmt) {
	fn := l.currentIRFunction()
	condBlock := l.b.AppendBlock(fn, "loop.cond")
	bodyBlock := l.b.AppendBlock(fn, "loop.body")
	exitBlock := l.b.AppendBlock(fn, "loop.exit")

	l.b.BuildBr(condBlock)

	l.b.PositionAt(condBlock)
	if n.Condition != nil {
		cond := l.lowerValue(n.Condition)
		l.b.BuildCondBr(cond, bodyBlock, exitBlock)
	} else {
		l.b.BuildBr(bodyBlock)
	}

	l.loopStack = append(l.loopStack, loopFrame{exitBlock: exitBlock, continueBlock: condBlock})
	l.b.PositionAt(bodyBlock)
	l.state = stateInBlock
	l.lowerBlockStmt(n.Body)
	if l.state != stateTerminated {
		l.b.BuildBr(condBlock)
	}
	l.loopStack = l.loopStack[:len(l.loopStack)-1]

	l.b.PositionAt(exitBlock)
	l.state = stateInBlock
}

func (l *Lowerer) lowerAssign(n *ast.AssignStmt) {
	ptr := l.lowerLValue(n.Assignee)
	val := l.lowerValue(n.Value)
	l.b.BuildStore(val, ptr)
}

// currentIRFunction recovers the *ir.Function the builder is positioned
// in, used by statements (loops, if-slots) that need to append new
// blocks to the function currently being lowered.
func (l *Lowerer) currentIRFunction() *ir.Function {
	fn, ok := l.irFunctions[l.currentFnID]
	if !ok {
		l.ice("lowering a statement with no enclosing function on record")
	}
	return fn
}
