// Package ids defines BindingId in its own package so that both the AST
// (which carries a BindingId on every declaration) and the Cache (which
// mints and stores them) can depend on the type without an import cycle.
package ids

// BindingId is the opaque, monotonically increasing identity of a
// declaration, type definition, block, or parameter (spec §3). It is
// minted exclusively by cache.Cache.MintBindingID and is never reused.
type BindingId uint64

// Invalid is the zero value, never returned by MintBindingID (which starts
// counting at 1), usable as a sentinel for "not yet assigned".
const Invalid BindingId = 0

func (id BindingId) IsValid() bool {
	return id != Invalid
}

// SymbolKind distinguishes the two namespaces a Pattern can resolve
// against (spec §3: "symbol-kind ∈ {Definition, Type}"). Kept here rather
// than in the ast or typesystem package so both can reference it without
// an import cycle: a Pattern (ast) names the kind it looks up, and a Stub
// type (typesystem) carries the same kind for the eventual lookup.
type SymbolKind int

const (
	Definition SymbolKind = iota
	Type
)

func (k SymbolKind) String() string {
	if k == Type {
		return "type"
	}
	return "definition"
}
