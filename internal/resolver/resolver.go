// Package resolver implements the two-pass name resolution described in
// spec §4.2: a declare pass that binds every definition into scope and
// detects redefinitions, followed by a resolve pass that fills in each
// Pattern's (and Stub/This type's) target BindingId by walking the
// captured scope snapshots. Grounded on
// original_source/name_resolution.rs.
package resolver

import (
	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/diagnostics"
	"github.com/TheClonerx/gecko/internal/ids"
)

// NameResolver holds all resolution state for a single module compile. It
// is not safe for concurrent use — the pipeline runs declare then resolve
// sequentially over one instance (spec §5: strictly sequential passes).
type NameResolver struct {
	Diagnostics *diagnostics.Bag

	cache      *cache.Cache
	moduleName string

	// globalScope holds every top-level definition of the current module.
	globalScope scope

	// relativeScopes is the stack of nested scopes live during the declare
	// pass only (function bodies, blocks, impls). Reset per top-level item.
	relativeScopes []scope

	// scopeMap snapshots, per block BindingId, the full relative-scope
	// chain visible at that block (innermost first) at the moment the
	// declare pass finished walking it. The resolve pass only reads this
	// map — it never mutates scopes again (spec §4.2: "scope_map:
	// BlockId -> list<Scope>, captured during declare, read-only during
	// resolve").
	scopeMap map[ids.BindingId][]scope

	// currentBlockID is the block whose scope chain should be consulted
	// by relativeLookup during the resolve pass.
	currentBlockID ids.BindingId

	// currentStructTypeID is set while resolving a StructImpl's methods,
	// so a `This` type annotation inside one of them can resolve to the
	// struct being implemented (spec §4.3: "This: ... target filled from
	// the enclosing StructImpl's target struct").
	currentStructTypeID ids.BindingId
	inStructImpl        bool
}

// New creates a resolver for a single module named moduleName, sharing c
// for BindingId→node lookups performed later by the checker and lowerer.
func New(c *cache.Cache, diags *diagnostics.Bag, moduleName string) *NameResolver {
	return &NameResolver{
		Diagnostics: diags,
		cache:       c,
		moduleName:  moduleName,
		globalScope: newScope(),
		scopeMap:    make(map[ids.BindingId][]scope),
	}
}

// ResolveProgram runs the declare pass followed by the resolve pass over
// the whole program (spec §4.2's two-pass algorithm).
func ResolveProgram(c *cache.Cache, diags *diagnostics.Bag, prog *ast.Program) *NameResolver {
	r := New(c, diags, prog.ModuleName)
	dv := &declareVisitor{r: r}
	for _, stmt := range prog.Statements {
		stmt.Accept(dv)
	}

	rv := &resolveVisitor{r: r}
	for _, stmt := range prog.Statements {
		stmt.Accept(rv)
	}
	return r
}

func (r *NameResolver) pushScope() {
	r.relativeScopes = append(r.relativeScopes, newScope())
}

// forcePopScope pops and returns the innermost relative scope. Panics if
// none remain — a resolver-internal invariant violation (spec: declare/
// resolve push and pop in matching pairs), not a user-facing diagnostic.
func (r *NameResolver) forcePopScope() scope {
	n := len(r.relativeScopes)
	top := r.relativeScopes[n-1]
	r.relativeScopes = r.relativeScopes[:n-1]
	return top
}

// currentScope returns the innermost relative scope, or the module's
// global scope when no relative scope is active.
func (r *NameResolver) currentScope() scope {
	if len(r.relativeScopes) == 0 {
		return r.globalScope
	}
	return r.relativeScopes[len(r.relativeScopes)-1]
}

// registerScopeTree force-pops the innermost scope and snapshots it,
// together with every relative scope still on the stack (innermost
// first), as the chain visible from blockID. If blockID already has a
// snapshot (a Function's parameter scope merging with its body's block
// scope, per the original's comment on Function::declare), the new chain
// is prepended.
func (r *NameResolver) registerScopeTree(blockID ids.BindingId) {
	chain := []scope{r.forcePopScope()}
	for i := len(r.relativeScopes) - 1; i >= 0; i-- {
		chain = append(chain, r.relativeScopes[i])
	}
	if existing, ok := r.scopeMap[blockID]; ok {
		chain = append(chain, existing...)
	}
	r.scopeMap[blockID] = chain
}

func (r *NameResolver) bind(sym symbol, id ids.BindingId) {
	r.currentScope()[sym] = id
}

func (r *NameResolver) containsCurrentScope(sym symbol) bool {
	_, ok := r.currentScope()[sym]
	return ok
}

// relativeLookup walks the snapshot chain for currentBlockID innermost
// first, falling back to the module's global scope (spec §4.2: "resolve
// ... from innermost scope outward, then the module's global scope").
func (r *NameResolver) relativeLookup(sym symbol) (ids.BindingId, bool) {
	if r.currentBlockID.IsValid() {
		for _, s := range r.scopeMap[r.currentBlockID] {
			if id, ok := s[sym]; ok {
				return id, true
			}
		}
	}
	if id, ok := r.globalScope[sym]; ok {
		return id, true
	}
	return ids.Invalid, false
}
