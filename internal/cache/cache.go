// Package cache implements the process-wide registry described in spec
// §4.1, grounded directly on the original Rust cache.rs: a monotonic id
// counter plus a map from id to node. Decoupling identity (BindingId) from
// storage lets the resolver record a reference before its target is fully
// populated, and lets the lowerer memoize by id without re-walking the
// AST.
package cache

import (
	"fmt"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/ids"
)

// MethodEntry is one entry of a struct's impl-method list (spec §3:
// "struct_impls: BindingId -> list of (method-binding-id, method-name)").
type MethodEntry struct {
	MethodID   ids.BindingId
	MethodName string
}

// Cache is the single mutable registry shared by reference across every
// pass (spec §5: "The Cache is shared by reference between passes"). It is
// not safe for concurrent use; the pipeline is strictly single-threaded
// (spec §5), so no locking is needed or provided.
type Cache struct {
	keyCounter  uint64
	declarations map[ids.BindingId]ast.Node
	structImpls  map[ids.BindingId][]MethodEntry
}

// New returns an empty Cache with the id counter starting at 1, keeping 0
// (ids.Invalid) reserved as the sentinel "no binding yet" value.
func New() *Cache {
	return &Cache{
		keyCounter:   0,
		declarations: make(map[ids.BindingId]ast.Node),
		structImpls:  make(map[ids.BindingId][]MethodEntry),
	}
}

// MintBindingID returns a fresh, never-before-seen BindingId. Total; never
// fails (spec §4.1).
func (c *Cache) MintBindingID() ids.BindingId {
	c.keyCounter++
	return ids.BindingId(c.keyCounter)
}

// Bind associates id with node, inserting or overwriting. Per spec §4.1
// this is required exactly once per id before any Get(id); resolver and
// post-unification passes call Bind again on the same id to rewrite a
// node in place (e.g. filling target_id, or rewriting a type annotation),
// which is a deliberate overwrite, not a violation of P1 (P1 concerns
// mint-then-bind-once for a *freshly minted* id, not in-place mutation of
// an already-bound node through the returned pointer).
func (c *Cache) Bind(id ids.BindingId, node ast.Node) {
	c.declarations[id] = node
}

// Get borrows the node bound to id. Per spec §4.1 this fails with an
// UnknownBinding-flavored error if absent; callers in the resolver/checker
// treat that as recoverable (record a diagnostic, substitute Type::Error)
// while the lowerer treats it as an ICE (spec §7 category 4: "missing
// cache entry").
func (c *Cache) Get(id ids.BindingId) (ast.Node, error) {
	n, ok := c.declarations[id]
	if !ok {
		return nil, &UnknownBindingError{ID: id}
	}
	return n, nil
}

// MustGet is Get, panicking with the UnknownBindingError on failure, for
// callers where a missing binding can only mean an earlier pass violated
// an invariant (spec §7: lowering failures are ICEs). The lowerer itself
// calls Get and raises its own ICE instead.
func (c *Cache) MustGet(id ids.BindingId) ast.Node {
	n, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return n
}

// AddImpl registers a struct's method under its struct type's binding id.
func (c *Cache) AddImpl(structID ids.BindingId, methodID ids.BindingId, methodName string) {
	c.structImpls[structID] = append(c.structImpls[structID], MethodEntry{MethodID: methodID, MethodName: methodName})
}

// ImplsOf returns the registered methods of structID, in registration
// order, or nil if none were registered.
func (c *Cache) ImplsOf(structID ids.BindingId) []MethodEntry {
	return c.structImpls[structID]
}

// Len reports how many bindings have been bound, for diagnostics/tests.
func (c *Cache) Len() int {
	return len(c.declarations)
}

// UnknownBindingError is returned by Get when id has never been Bind'd.
type UnknownBindingError struct {
	ID ids.BindingId
}

func (e *UnknownBindingError) Error() string {
	return fmt.Sprintf("unknown binding: %d", e.ID)
}
