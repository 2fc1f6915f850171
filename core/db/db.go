// Package db is the arena that owns every Symbol, Scope, HIR and LIR node
// allocated during one compile (spec.md §4.3). Ids are minted monotonically
// and never reused; accessors return borrowed references, and every
// mutation (marking a symbol used, appending to an arena) goes through an
// explicit method here rather than through handles callers could stash and
// mutate behind the database's back.
package db

import (
	"kodelang.dev/cellc/core/hir"
	"kodelang.dev/cellc/core/ids"
	"kodelang.dev/cellc/core/invariant"
	"kodelang.dev/cellc/core/lir"
	"kodelang.dev/cellc/core/symtab"
)

// Database holds the four arenas for one compilation. It is not safe for
// concurrent use; per spec.md §5 a single compile is synchronous and
// single-threaded end to end.
type Database struct {
	symbols []symtab.Symbol
	scopes  []*symtab.Scope
	hirs    []hir.Hir
	lirs    []lir.Lir
}

func New() *Database {
	return &Database{}
}

// AllocSymbol interns sym and returns its fresh, never-reused id.
func (d *Database) AllocSymbol(sym symtab.Symbol) ids.SymbolID {
	id := ids.SymbolID(len(d.symbols))
	d.symbols = append(d.symbols, sym)
	return id
}

// Symbol returns the symbol previously allocated at id. Panics (an internal
// invariant violation, spec.md §7) if id does not refer to a live entry.
func (d *Database) Symbol(id ids.SymbolID) symtab.Symbol {
	invariant.Precondition(int(id) >= 0 && int(id) < len(d.symbols), "unknown symbol id %v", id)
	return d.symbols[id]
}

func (d *Database) NumSymbols() int { return len(d.symbols) }

// AllocScope creates a fresh, empty scope and returns its id.
func (d *Database) AllocScope() ids.ScopeID {
	id := ids.ScopeID(len(d.scopes))
	d.scopes = append(d.scopes, symtab.NewScope(id))
	return id
}

// Scope returns the (mutable, borrowed) scope at id.
func (d *Database) Scope(id ids.ScopeID) *symtab.Scope {
	invariant.Precondition(int(id) >= 0 && int(id) < len(d.scopes), "unknown scope id %v", id)
	return d.scopes[id]
}

func (d *Database) NumScopes() int { return len(d.scopes) }

// AddLocal registers sym as locally defined/parameter-bound in scope.
func (d *Database) AddLocal(scope ids.ScopeID, sym ids.SymbolID) {
	d.Scope(scope).AddLocal(sym)
}

// MarkUsed records that sym is referenced from within scope's body.
func (d *Database) MarkUsed(scope ids.ScopeID, sym ids.SymbolID) {
	d.Scope(scope).MarkUsed(sym)
}

// AllocHir interns a HIR node and returns its fresh id.
func (d *Database) AllocHir(node hir.Hir) ids.HirID {
	id := ids.HirID(len(d.hirs))
	d.hirs = append(d.hirs, node)
	return id
}

// Hir returns the HIR node at id.
func (d *Database) Hir(id ids.HirID) hir.Hir {
	invariant.Precondition(int(id) >= 0 && int(id) < len(d.hirs), "unknown hir id %v", id)
	return d.hirs[id]
}

func (d *Database) NumHir() int { return len(d.hirs) }

// AllocLir interns a LIR node and returns its fresh id.
func (d *Database) AllocLir(node lir.Lir) ids.LirID {
	id := ids.LirID(len(d.lirs))
	d.lirs = append(d.lirs, node)
	return id
}

// Lir returns the LIR node at id.
func (d *Database) Lir(id ids.LirID) lir.Lir {
	invariant.Precondition(int(id) >= 0 && int(id) < len(d.lirs), "unknown lir id %v", id)
	return d.lirs[id]
}

func (d *Database) NumLir() int { return len(d.lirs) }
