package resolver

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// resolveVisitor implements the resolve pass: it fills every Pattern's
// TargetID (and every Stub/This type's Target) by consulting the scope
// snapshots the declare pass captured. It never mutates scopes — only
// currentBlockID and currentStructTypeID, which are saved/restored around
// nested blocks and impls so resolution never leaks into an unrelated
// sibling's lookup (original_source/name_resolution.rs left these as a
// single overwritten field; here they are scoped properly). Grounded on
// original_source/name_resolution.rs's `Resolve::resolve`.
type resolveVisitor struct {
	ast.BaseVisitor
	r *NameResolver
}

func (rv *resolveVisitor) lookup(name string, kind ids.SymbolKind, node ast.Node) (ids.BindingId, bool) {
	id, ok := rv.r.relativeLookup(symbol{name: name, kind: kind})
	if !ok {
		rv.r.Diagnostics.Errorf(diagnostics.UndefinedReference, node.GetSpan(), "undefined reference to `%s`", name)
	}
	return id, ok
}

func (rv *resolveVisitor) VisitPattern(n *ast.Pattern) {
	if n.IsAbsolute() {
		// Module-qualified patterns look up a different module's global
		// scope entirely; no such cross-module table exists yet in this
		// single-module pipeline, so report it rather than guess (spec
		// §4.2 edge case: "an absolute pattern naming an unknown module").
		rv.r.Diagnostics.Errorf(diagnostics.InvalidAbsolutePath, n.GetSpan(),
			"unknown module `%s` in qualified reference to `%s`", n.ModuleQualifier, n.BaseName)
		return
	}
	if id, ok := rv.lookup(n.BaseName, n.SymbolKind, n); ok {
		n.TargetID = id
	}
}

func (rv *resolveVisitor) VisitFunction(n *ast.Function) {
	rv.VisitPrototype(n.Prototype)
	resolveType(rv.r, n.Prototype.ReturnType, n.Prototype.GetSpan())
	prevBlock := rv.r.currentBlockID
	rv.r.currentBlockID = n.Body.ID
	n.Body.Accept(rv)
	rv.r.currentBlockID = prevBlock
}

func (rv *resolveVisitor) VisitExternalFunction(n *ast.ExternalFunction) {
	rv.VisitPrototype(n.Prototype)
	resolveType(rv.r, n.Prototype.ReturnType, n.Prototype.GetSpan())
}

func (rv *resolveVisitor) VisitExternalStatic(n *ast.ExternalStatic) {
	resolveType(rv.r, n.Type, n.GetSpan())
}

func (rv *resolveVisitor) VisitPrototype(n *ast.Prototype) {
	for _, p := range n.Parameters {
		resolveType(rv.r, p.Type, p.GetSpan())
	}
	if n.AcceptsInstance && n.ThisParameter != nil {
		resolveType(rv.r, n.ThisParameter.Type, n.ThisParameter.GetSpan())
	}
}

func (rv *resolveVisitor) VisitClosure(n *ast.Closure) {
	for i := range n.Captures {
		if id, ok := rv.lookup(n.Captures[i].Name, ids.Definition, n); ok {
			n.Captures[i].TargetID = id
		}
	}

	// The closure body resolves inside its own, encapsulated environment:
	// only its own block's scope chain is visible, not the enclosing
	// function's (spec §4.3 Closure: "captures are the only bridge to the
	// enclosing scope"). Captures above were already resolved against the
	// *outer* block, so this swap happens only now.
	prevBlock := rv.r.currentBlockID
	rv.r.currentBlockID = n.Body.ID
	n.Body.Accept(rv)
	rv.r.currentBlockID = prevBlock

	rv.VisitPrototype(n.Prototype)
	resolveType(rv.r, n.Prototype.ReturnType, n.Prototype.GetSpan())
}

func (rv *resolveVisitor) VisitStructImpl(n *ast.StructImpl) {
	n.TargetStructPattern.Accept(rv)
	if n.TraitPattern != nil {
		n.TraitPattern.Accept(rv)
	}
	if !n.TargetStructPattern.TargetID.IsValid() {
		return
	}
	prevStruct, prevIn := rv.r.currentStructTypeID, rv.r.inStructImpl
	rv.r.currentStructTypeID, rv.r.inStructImpl = n.TargetStructPattern.TargetID, true
	for _, m := range n.Methods {
		m.Prototype.InstanceTypeID = n.TargetStructPattern.TargetID
		m.Accept(rv)
		// Registering here (rather than in the declare pass) is deliberate:
		// TargetStructPattern.TargetID only exists once resolution has run.
		rv.r.cache.AddImpl(n.TargetStructPattern.TargetID, m.ID, m.Name)
	}
	rv.r.currentStructTypeID, rv.r.inStructImpl = prevStruct, prevIn
}

func (rv *resolveVisitor) VisitBlock(n *ast.Block) {
	prevBlock := rv.r.currentBlockID
	rv.r.currentBlockID = n.ID
	for _, stmt := range n.Statements {
		stmt.Accept(rv)
	}
	rv.r.currentBlockID = prevBlock
}

func (rv *resolveVisitor) VisitVariableDefStmt(n *ast.VariableDefStmt) {
	n.Value.Accept(rv)
	resolveType(rv.r, n.TypeAnnotation, n.GetSpan())
}

func (rv *resolveVisitor) VisitInlineExprStmt(n *ast.InlineExprStmt) { n.Expr.Accept(rv) }

func (rv *resolveVisitor) VisitReturnStmt(n *ast.ReturnStmt) {
	if n.Value != nil {
		n.Value.Accept(rv)
	}
}

func (rv *resolveVisitor) VisitLoopStmt(n *ast.LoopStmt) {
	if n.Condition != nil {
		n.Condition.Accept(rv)
	}
	n.Body.Accept(rv)
}

func (rv *resolveVisitor) VisitIfExpr(n *ast.IfExpr) {
	n.Condition.Accept(rv)
	n.ThenBlock.Accept(rv)
	if n.ElseBlock != nil {
		n.ElseBlock.Accept(rv)
	}
}

func (rv *resolveVisitor) VisitAssignStmt(n *ast.AssignStmt) {
	n.Assignee.Accept(rv)
	n.Value.Accept(rv)
}

func (rv *resolveVisitor) VisitUnsafeExpr(n *ast.UnsafeExpr) { n.Body.Accept(rv) }

func (rv *resolveVisitor) VisitCallExpr(n *ast.CallExpr) {
	n.Callee.Accept(rv)
	for _, a := range n.Arguments {
		a.Accept(rv)
	}
}

func (rv *resolveVisitor) VisitBinaryExpr(n *ast.BinaryExpr) {
	n.Left.Accept(rv)
	n.Right.Accept(rv)
}

func (rv *resolveVisitor) VisitUnaryExpr(n *ast.UnaryExpr) {
	n.Operand.Accept(rv)
	if n.CastType != nil {
		resolveType(rv.r, n.CastType, n.GetSpan())
	}
}

func (rv *resolveVisitor) VisitParenthesesExpr(n *ast.ParenthesesExpr) { n.Inner.Accept(rv) }

func (rv *resolveVisitor) VisitReference(n *ast.Reference) { n.Target.Accept(rv) }

func (rv *resolveVisitor) VisitIndexingExpr(n *ast.IndexingExpr) {
	n.Target.Accept(rv)
	n.Index.Accept(rv)
}

func (rv *resolveVisitor) VisitStaticArrayValue(n *ast.StaticArrayValue) {
	for _, e := range n.Elements {
		e.Accept(rv)
	}
	if n.ElementType != nil {
		resolveType(rv.r, n.ElementType, n.GetSpan())
	}
}

func (rv *resolveVisitor) VisitMemberAccess(n *ast.MemberAccess) { n.Base.Accept(rv) }

func (rv *resolveVisitor) VisitStructValue(n *ast.StructValue) {
	n.StructName.Accept(rv)
	for _, f := range n.Fields {
		f.Value.Accept(rv)
	}
}

func (rv *resolveVisitor) VisitStructType(n *ast.StructType) {
	for _, f := range n.Fields {
		resolveType(rv.r, f.Type, n.GetSpan())
	}
}

func (rv *resolveVisitor) VisitTypeAlias(n *ast.TypeAlias) {
	resolveType(rv.r, n.AliasedType, n.GetSpan())
}

func (rv *resolveVisitor) VisitSizeofIntrinsic(n *ast.SizeofIntrinsic) {
	resolveType(rv.r, n.OperandType, n.GetSpan())
}

func (rv *resolveVisitor) VisitIntrinsicCall(n *ast.IntrinsicCall) {
	for _, a := range n.Arguments {
		a.Accept(rv)
	}
}

// resolveType walks a type annotation looking for *typesystem.TStub and
// *typesystem.TThis leaves to fill in place, exactly mirroring
// name_resolution.rs's `impl Resolve for ast::Type` — a plain recursive
// match rather than Node/Visitor dispatch, since typesystem.Type values
// are not ast.Node (see internal/ast/pattern.go's doc comment).
func resolveType(r *NameResolver, t typesystem.Type, span token.Span) {
	if t == nil {
		return
	}
	switch v := t.(type) {
	case *typesystem.TStub:
		if v.Ref.ModuleQualifier != "" {
			r.Diagnostics.Errorf(diagnostics.InvalidAbsolutePath, span,
				"unknown module `%s` in qualified type reference to `%s`", v.Ref.ModuleQualifier, v.Ref.BaseName)
			return
		}
		sym := symbol{name: v.Ref.BaseName, kind: v.Ref.Kind}
		if id, ok := r.relativeLookup(sym); ok {
			v.Ref.Target = id
		} else {
			r.Diagnostics.Errorf(diagnostics.UndefinedReference, span, "undefined reference to type `%s`", v.Ref.BaseName)
		}
	case *typesystem.TThis:
		if r.inStructImpl {
			v.Target = r.currentStructTypeID
		} else {
			r.Diagnostics.Errorf(diagnostics.ThisOutsideImpl, span, "type `This` cannot be used outside of a struct implementation")
		}
	case typesystem.TPointer:
		resolveType(r, v.Elem, span)
	case typesystem.TReference:
		resolveType(r, v.Elem, span)
	case typesystem.TArray:
		resolveType(r, v.Elem, span)
	case typesystem.TFunction:
		for _, p := range v.Params {
			resolveType(r, p, span)
		}
		resolveType(r, v.Return, span)
	default:
		// Basic/Bool/Char/String/Null/Int/Unit/Error/Struct/Var: nothing to
		// resolve — leaves already concrete, or handled elsewhere.
	}
}
