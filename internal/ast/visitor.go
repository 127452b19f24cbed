package ast

// Visitor is implemented by the resolver's declare/resolve passes; the
// checker and the lowerer switch on the concrete node type instead. Each concrete node
// double-dispatches to its own method via Accept, replacing the original
// implementation's dispatch! macro (spec REDESIGN FLAGS: Go has no macros,
// so exhaustive Node/Visitor double-dispatch is the idiomatic substitute).
type Visitor interface {
	VisitProgram(n *Program)

	VisitBooleanLiteral(n *BooleanLiteral)
	VisitCharLiteral(n *CharLiteral)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitNullPtrLiteral(n *NullPtrLiteral)

	VisitPattern(n *Pattern)

	VisitParameter(n *Parameter)
	VisitPrototype(n *Prototype)
	VisitExternalStatic(n *ExternalStatic)
	VisitExternalFunction(n *ExternalFunction)
	VisitFunction(n *Function)
	VisitClosure(n *Closure)

	VisitBlock(n *Block)
	VisitVariableDefStmt(n *VariableDefStmt)
	VisitInlineExprStmt(n *InlineExprStmt)
	VisitReturnStmt(n *ReturnStmt)
	VisitBreakStmt(n *BreakStmt)
	VisitContinueStmt(n *ContinueStmt)
	VisitLoopStmt(n *LoopStmt)
	VisitAssignStmt(n *AssignStmt)
	VisitUnsafeExpr(n *UnsafeExpr)

	VisitIfExpr(n *IfExpr)
	VisitParenthesesExpr(n *ParenthesesExpr)
	VisitReference(n *Reference)
	VisitBinaryExpr(n *BinaryExpr)
	VisitUnaryExpr(n *UnaryExpr)
	VisitCallExpr(n *CallExpr)
	VisitIndexingExpr(n *IndexingExpr)
	VisitStaticArrayValue(n *StaticArrayValue)
	VisitMemberAccess(n *MemberAccess)

	VisitStructType(n *StructType)
	VisitStructValue(n *StructValue)
	VisitStructImpl(n *StructImpl)
	VisitTrait(n *Trait)
	VisitEnum(n *Enum)
	VisitTypeAlias(n *TypeAlias)
	VisitUsing(n *Using)
	VisitSizeofIntrinsic(n *SizeofIntrinsic)
	VisitIntrinsicCall(n *IntrinsicCall)
}

// BaseVisitor is embeddable by passes that only care about a handful of
// node kinds (e.g. a single diagnostic check); embedders override just the
// methods they need. Grounded on funvibe-funxy's convention of providing a
// no-op base walker beside its full Visitor interface.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(n *Program)                     {}
func (BaseVisitor) VisitBooleanLiteral(n *BooleanLiteral)       {}
func (BaseVisitor) VisitCharLiteral(n *CharLiteral)             {}
func (BaseVisitor) VisitIntegerLiteral(n *IntegerLiteral)       {}
func (BaseVisitor) VisitStringLiteral(n *StringLiteral)         {}
func (BaseVisitor) VisitNullPtrLiteral(n *NullPtrLiteral)       {}
func (BaseVisitor) VisitPattern(n *Pattern)                     {}
func (BaseVisitor) VisitParameter(n *Parameter)                 {}
func (BaseVisitor) VisitPrototype(n *Prototype)                 {}
func (BaseVisitor) VisitExternalStatic(n *ExternalStatic)       {}
func (BaseVisitor) VisitExternalFunction(n *ExternalFunction)   {}
func (BaseVisitor) VisitFunction(n *Function)                   {}
func (BaseVisitor) VisitClosure(n *Closure)                     {}
func (BaseVisitor) VisitBlock(n *Block)                         {}
func (BaseVisitor) VisitVariableDefStmt(n *VariableDefStmt)     {}
func (BaseVisitor) VisitInlineExprStmt(n *InlineExprStmt)       {}
func (BaseVisitor) VisitReturnStmt(n *ReturnStmt)               {}
func (BaseVisitor) VisitBreakStmt(n *BreakStmt)                 {}
func (BaseVisitor) VisitContinueStmt(n *ContinueStmt)           {}
func (BaseVisitor) VisitLoopStmt(n *LoopStmt)                   {}
func (BaseVisitor) VisitAssignStmt(n *AssignStmt)               {}
func (BaseVisitor) VisitUnsafeExpr(n *UnsafeExpr)               {}
func (BaseVisitor) VisitIfExpr(n *IfExpr)                       {}
func (BaseVisitor) VisitParenthesesExpr(n *ParenthesesExpr)     {}
func (BaseVisitor) VisitReference(n *Reference)                 {}
func (BaseVisitor) VisitBinaryExpr(n *BinaryExpr)               {}
func (BaseVisitor) VisitUnaryExpr(n *UnaryExpr)                 {}
func (BaseVisitor) VisitCallExpr(n *CallExpr)                   {}
func (BaseVisitor) VisitIndexingExpr(n *IndexingExpr)           {}
func (BaseVisitor) VisitStaticArrayValue(n *StaticArrayValue)   {}
func (BaseVisitor) VisitMemberAccess(n *MemberAccess)           {}
func (BaseVisitor) VisitStructType(n *StructType)               {}
func (BaseVisitor) VisitStructValue(n *StructValue)             {}
func (BaseVisitor) VisitStructImpl(n *StructImpl)               {}
func (BaseVisitor) VisitTrait(n *Trait)                         {}
func (BaseVisitor) VisitEnum(n *Enum)                           {}
func (BaseVisitor) VisitTypeAlias(n *TypeAlias)                 {}
func (BaseVisitor) VisitUsing(n *Using)                         {}
func (BaseVisitor) VisitSizeofIntrinsic(n *SizeofIntrinsic)     {}
func (BaseVisitor) VisitIntrinsicCall(n *IntrinsicCall)         {}
