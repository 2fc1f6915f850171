// Package ids defines the opaque identifier types shared by the symbol,
// scope, HIR and LIR arenas in core/db. Each is a distinct Go type so the
// compiler can never accidentally compare a SymbolID to a HirID: arenas of
// different kinds cannot collide by construction.
package ids

import "fmt"

// SymbolID refers to an entry in the symbol arena.
type SymbolID int

func (id SymbolID) String() string { return fmt.Sprintf("sym%d", int(id)) }

// ScopeID refers to an entry in the scope arena.
type ScopeID int

func (id ScopeID) String() string { return fmt.Sprintf("scope%d", int(id)) }

// HirID refers to a node in the HIR arena.
type HirID int

func (id HirID) String() string { return fmt.Sprintf("hir%d", int(id)) }

// LirID refers to a node in the LIR arena.
type LirID int

func (id LirID) String() string { return fmt.Sprintf("lir%d", int(id)) }

// InvalidSymbolID is never minted by core/db; used as a sentinel for "no
// symbol yet" in partially-built structures.
const InvalidSymbolID SymbolID = -1

// InvalidScopeID is the analogous sentinel for ScopeID.
const InvalidScopeID ScopeID = -1

// InvalidHirID is the analogous sentinel for HirID, used while a Function
// symbol's body is still being lowered (forward references during the
// declare-before-lower pass over top-level items).
const InvalidHirID HirID = -1
