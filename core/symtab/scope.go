package symtab

import "kodelang.dev/cellc/core/ids"

// Scope tracks which symbols are defined (or parameters) locally, and which
// symbols are used from within the scope's body, in first-use insertion
// order. Insertion order is load-bearing: it is the sole source of truth
// for environment path assignment (spec.md §4.5(c)).
type Scope struct {
	ID ids.ScopeID

	// Parent is the enclosing scope in the scope-inheritance forest (not
	// the lexical-lookup chain used during name resolution): let-scopes
	// chain upward through it to their enclosing function scope. Function
	// scopes (including the root scope) have no parent.
	Parent      ids.ScopeID
	HasParent   bool

	local    []ids.SymbolID
	localSet map[ids.SymbolID]bool

	used    []ids.SymbolID
	usedSet map[ids.SymbolID]bool
}

func NewScope(id ids.ScopeID) *Scope {
	return &Scope{
		ID:       id,
		Parent:   ids.InvalidScopeID,
		localSet: make(map[ids.SymbolID]bool),
		usedSet:  make(map[ids.SymbolID]bool),
	}
}

// SetParent records this scope's place in the scope-inheritance forest.
func (s *Scope) SetParent(parent ids.ScopeID) {
	s.Parent = parent
	s.HasParent = true
}

// AddLocal registers sym as defined or parameter-bound in this scope, in
// insertion order. A symbol already local is not re-added.
func (s *Scope) AddLocal(sym ids.SymbolID) {
	if s.localSet[sym] {
		return
	}
	s.localSet[sym] = true
	s.local = append(s.local, sym)
}

// IsLocal reports whether sym is defined or parameter-bound in this scope.
func (s *Scope) IsLocal(sym ids.SymbolID) bool { return s.localSet[sym] }

// LocalSymbols returns every locally defined/parameter symbol, in the order
// they were added.
func (s *Scope) LocalSymbols() []ids.SymbolID { return s.local }

// MarkUsed records that sym is referenced somewhere inside this scope's
// body, whether s is local or resolved outward. First use wins the
// insertion position.
func (s *Scope) MarkUsed(sym ids.SymbolID) {
	if s.usedSet[sym] {
		return
	}
	s.usedSet[sym] = true
	s.used = append(s.used, sym)
}

// UsedSymbols returns every symbol used from within the scope, in
// first-use order.
func (s *Scope) UsedSymbols() []ids.SymbolID { return s.used }
