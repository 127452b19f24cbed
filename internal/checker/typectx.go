// Package checker implements type inference and the validation rules of
// spec §4.3: infer_type as a total pure function over the AST, cycle-safe
// flattening of Stub/This annotations through the Cache, constraint-based
// solving for omitted (`Type::Variable`) annotations, and a representative
// set of Check-pass rules reported as diagnostics rather than panics.
// Grounded on original_source/type_check.rs and original_source/type_system.rs's
// TypeContext, generalized from that file's trait-object `Check`/`Infer`
// dispatch to plain Go functions switching on ast.Node (spec §9 REDESIGN
// FLAGS).
package checker

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
	"github.com/TheClonerx/gecko/internal/token"
	"github.com/TheClonerx/gecko/internal/typesystem"
)

// constraint is one entry of the equality worklist built while inferring:
// annotation must eventually unify with inferred (spec §4.3: "push
// (annotation, inferred, Equality) onto the constraint list"). onResolved,
// when set, rewrites the node the annotation came from once solving
// finishes — used for the one place the parser leaves a bare
// Type::Variable, a `let` binding with no explicit annotation.
type constraint struct {
	annotation typesystem.Type
	inferred   typesystem.Type
	span       token.Span
	onResolved func(typesystem.Type)
}

// TypeContext carries all state a single module's type-check run needs,
// mirroring the original TypeContext: a running variable counter for
// omitted annotations, the accumulated equality constraints, the flags
// that gate loop-control and unsafe operations, and the Cache shared with
// the resolver (spec §5: "the Cache is shared by reference between
// passes").
type TypeContext struct {
	Diagnostics *diagnostics.Bag
	cache       *cache.Cache

	varCounter  uint64
	constraints []constraint

	inLoop       bool
	inUnsafe     bool
	inImpl       bool
	currentFnRet typesystem.Type

	// flattenVisited guards flattenBinding against alias cycles; reset on
	// every top-level Flatten call rather than carried across calls (spec
	// P7: flattening is idempotent, not "remembers every cycle ever
	// seen").
	flattenVisited map[ids.BindingId]bool
}

// New builds a TypeContext sharing c with the resolver that already ran
// over the same program.
func New(c *cache.Cache, diags *diagnostics.Bag) *TypeContext {
	return &TypeContext{Diagnostics: diags, cache: c}
}

// Cache exposes the shared Cache this TypeContext was built with, so a
// later pass (internal/lowerer) can look up the same bindings without
// threading a second copy of it through every call.
func (tc *TypeContext) Cache() *cache.Cache { return tc.cache }

// FreshVar mints a new type variable from this TypeContext's counter.
// Nothing in the pipeline calls it: the TVar annotations the checker
// solves arrive with the AST, numbered by whoever built it.
func (tc *TypeContext) FreshVar() typesystem.TVar {
	tc.varCounter++
	return typesystem.TVar{ID: tc.varCounter}
}

func (tc *TypeContext) addConstraint(annotation, inferred typesystem.Type, span token.Span, onResolved func(typesystem.Type)) {
	tc.constraints = append(tc.constraints, constraint{annotation: annotation, inferred: inferred, span: span, onResolved: onResolved})
}

// Run executes the full checker pipeline over prog's top-level statements:
// infer (with Check folded in per node), generate constraints for omitted
// annotations, solve by pairwise unification, and substitute the result
// back into every Type::Variable annotation the constraint list recorded
// (spec §4.3's "solve, then substitute" two-step, enforcing P4: no
// Type::Variable survives into the lowerer).
func Run(c *cache.Cache, diags *diagnostics.Bag, prog *ast.Program) *TypeContext {
	tc := New(c, diags)
	for _, stmt := range prog.Statements {
		tc.InferType(stmt)
	}
	tc.solveAndSubstitute()
	return tc
}

// solveAndSubstitute unifies every recorded constraint pairwise, composing
// substitutions as it goes, then invokes each constraint's onResolved
// callback (if any) with the fully-applied result so the owning node gets
// rewritten in place — the lowerer never sees a Type::Variable (P4).
func (tc *TypeContext) solveAndSubstitute() {
	subst := typesystem.Subst{}
	for _, ct := range tc.constraints {
		s, err := typesystem.Unify(ct.annotation.Apply(subst), ct.inferred.Apply(subst))
		if err != nil {
			tc.Diagnostics.Errorf(diagnostics.TypeMismatch, ct.span,
				"cannot infer a consistent type: %s", err.Error())
			continue
		}
		subst = typesystem.Compose(subst, s)
	}
	for _, ct := range tc.constraints {
		if ct.onResolved == nil {
			continue
		}
		resolved := ct.annotation.Apply(subst)
		if typesystem.ContainsVariable(resolved) {
			tc.Diagnostics.Errorf(diagnostics.TypeInferenceFailure, ct.span,
				"could not infer a concrete type for this binding")
			continue
		}
		ct.onResolved(resolved)
	}
}
