package resolver

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
)

// declareVisitor implements the declare pass: it binds every definition
// into the current scope (detecting redefinitions) and pushes/pops scopes
// around the nodes that introduce one, snapshotting each block's visible
// scope chain into the resolver's scopeMap. Grounded on
// original_source/name_resolution.rs's `Resolve::declare`.
type declareVisitor struct {
	ast.BaseVisitor
	r *NameResolver
}

// declareSymbol binds name/kind to id in the current scope, reporting a
// Redefinition diagnostic instead of overwriting an existing binding
// (spec §4.2: "a declare-pass collision ... is a Redefinition error").
func (d *declareVisitor) declareSymbol(name string, kind ids.SymbolKind, id ids.BindingId, node ast.Node) {
	sym := symbol{name: name, kind: kind}
	if d.r.containsCurrentScope(sym) {
		d.r.Diagnostics.Errorf(diagnostics.Redefinition, node.GetSpan(), "redefinition of `%s`", name)
		return
	}
	d.r.bind(sym, id)
}

func (d *declareVisitor) VisitFunction(n *ast.Function) {
	d.declareSymbol(n.Name, ids.Definition, n.ID, n)
	d.r.cache.Bind(n.ID, n)
	d.r.pushScope()
	d.VisitPrototype(n.Prototype)
	n.Body.Accept(d)
	d.r.forcePopScope()
}

func (d *declareVisitor) VisitExternalFunction(n *ast.ExternalFunction) {
	d.declareSymbol(n.Name, ids.Definition, n.ID, n)
	d.r.cache.Bind(n.ID, n)
	d.r.pushScope()
	d.VisitPrototype(n.Prototype)
	d.r.forcePopScope()
}

func (d *declareVisitor) VisitExternalStatic(n *ast.ExternalStatic) {
	d.declareSymbol(n.Name, ids.Definition, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}

func (d *declareVisitor) VisitPrototype(n *ast.Prototype) {
	for _, p := range n.Parameters {
		d.declareSymbol(p.Name, ids.Definition, p.ID, p)
		d.r.cache.Bind(p.ID, p)
	}
	if n.AcceptsInstance && n.ThisParameter != nil {
		d.declareSymbol(n.ThisParameter.Name, ids.Definition, n.ThisParameter.ID, n.ThisParameter)
		d.r.cache.Bind(n.ThisParameter.ID, n.ThisParameter)
	}
}

func (d *declareVisitor) VisitClosure(n *ast.Closure) {
	d.r.pushScope()
	d.VisitPrototype(n.Prototype)
	n.Body.Accept(d)
	d.r.forcePopScope()
}

func (d *declareVisitor) VisitStructImpl(n *ast.StructImpl) {
	d.r.pushScope()
	for _, m := range n.Methods {
		m.Accept(d)
	}
	d.r.forcePopScope()
}

func (d *declareVisitor) VisitBlock(n *ast.Block) {
	d.r.pushScope()
	for _, stmt := range n.Statements {
		stmt.Accept(d)
	}
	d.r.registerScopeTree(n.ID)
}

func (d *declareVisitor) VisitVariableDefStmt(n *ast.VariableDefStmt) {
	n.Value.Accept(d)
	d.declareSymbol(n.Name, ids.Definition, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}

func (d *declareVisitor) VisitInlineExprStmt(n *ast.InlineExprStmt) { n.Expr.Accept(d) }

func (d *declareVisitor) VisitReturnStmt(n *ast.ReturnStmt) {
	if n.Value != nil {
		n.Value.Accept(d)
	}
}

func (d *declareVisitor) VisitLoopStmt(n *ast.LoopStmt) {
	if n.Condition != nil {
		n.Condition.Accept(d)
	}
	n.Body.Accept(d)
}

func (d *declareVisitor) VisitIfExpr(n *ast.IfExpr) {
	n.Condition.Accept(d)
	n.ThenBlock.Accept(d)
	if n.ElseBlock != nil {
		n.ElseBlock.Accept(d)
	}
}

func (d *declareVisitor) VisitAssignStmt(n *ast.AssignStmt) {
	n.Assignee.Accept(d)
	n.Value.Accept(d)
}

func (d *declareVisitor) VisitUnsafeExpr(n *ast.UnsafeExpr) { n.Body.Accept(d) }

func (d *declareVisitor) VisitCallExpr(n *ast.CallExpr) {
	n.Callee.Accept(d)
	for _, a := range n.Arguments {
		a.Accept(d)
	}
}

func (d *declareVisitor) VisitBinaryExpr(n *ast.BinaryExpr) {
	n.Left.Accept(d)
	n.Right.Accept(d)
}

func (d *declareVisitor) VisitUnaryExpr(n *ast.UnaryExpr) { n.Operand.Accept(d) }

func (d *declareVisitor) VisitParenthesesExpr(n *ast.ParenthesesExpr) { n.Inner.Accept(d) }

func (d *declareVisitor) VisitReference(n *ast.Reference) { n.Target.Accept(d) }

func (d *declareVisitor) VisitIndexingExpr(n *ast.IndexingExpr) {
	n.Target.Accept(d)
	n.Index.Accept(d)
}

func (d *declareVisitor) VisitStaticArrayValue(n *ast.StaticArrayValue) {
	for _, e := range n.Elements {
		e.Accept(d)
	}
}

func (d *declareVisitor) VisitMemberAccess(n *ast.MemberAccess) { n.Base.Accept(d) }

func (d *declareVisitor) VisitStructValue(n *ast.StructValue) {
	for _, f := range n.Fields {
		f.Value.Accept(d)
	}
}

func (d *declareVisitor) VisitStructType(n *ast.StructType) {
	d.declareSymbol(n.Name, ids.Type, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}

func (d *declareVisitor) VisitTrait(n *ast.Trait) {
	d.declareSymbol(n.Name, ids.Type, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}

func (d *declareVisitor) VisitEnum(n *ast.Enum) {
	d.declareSymbol(n.Name, ids.Type, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}

func (d *declareVisitor) VisitTypeAlias(n *ast.TypeAlias) {
	d.declareSymbol(n.Name, ids.Type, n.ID, n)
	d.r.cache.Bind(n.ID, n)
}
