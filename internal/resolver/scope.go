package resolver

import "github.com/TheClonerx/gecko/internal/ids"

// symbol is (name, kind) exactly as original_source/name_resolution.rs's
// `type Symbol = (String, SymbolKind)`.
type symbol struct {
	name string
	kind ids.SymbolKind
}

// scope maps a symbol to the BindingId it was declared with. A fresh scope
// is pushed per Block/Prototype/StructImpl (spec §4.2).
type scope map[symbol]ids.BindingId

func newScope() scope {
	return make(scope)
}
