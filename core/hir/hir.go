// Package hir defines the high-level intermediate representation: a flat
// arena of nodes addressed by opaque core/ids.HirID, produced by
// runtime/lower and consumed by runtime/optimize. Every Hir implementation
// is one arm of the closed tagged union spec.md §3 describes; callers match
// it exhaustively with a type switch.
package hir

import (
	"math/big"

	"kodelang.dev/cellc/core/ids"
)

// Hir is the marker interface implemented by every HIR node variant.
type Hir interface {
	hirNode()
}

// Atom is a literal value already encoded as VM atom bytes (minimal
// big-endian two's complement, per core/cell's integer encoding).
type Atom struct {
	Bytes []byte
}

func (Atom) hirNode() {}

// Reference resolves a name to the symbol it denotes.
type Reference struct {
	Symbol ids.SymbolID
}

func (Reference) hirNode() {}

// Scope introduces a nested let-scope: Body is evaluated with ScopeID's
// bindings in effect.
type Scope struct {
	ScopeID ids.ScopeID
	Body    ids.HirID
}

func (Scope) hirNode() {}

// FunctionCall applies Callee (a Reference to a function, or any other
// expression producing a closure) to Args.
type FunctionCall struct {
	Callee ids.HirID
	Args   []ids.HirID
}

func (FunctionCall) hirNode() {}

// BinaryOp is an arithmetic or comparison operator applied to two operands.
type BinaryOp struct {
	Op  Operator
	Lhs ids.HirID
	Rhs ids.HirID
}

func (BinaryOp) hirNode() {}

// Operator enumerates the source-level binary operators. The optimizer
// desugars most of these (spec.md §4.5(f)) into a smaller VM opcode set.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
	Rem
	Lt
	Gt
	LtEq
	GtEq
	Eq
	NotEq
)

// Not is logical negation of a boolean-valued expression.
type Not struct {
	Value ids.HirID
}

func (Not) hirNode() {}

// If is a conditional expression; Then and Else are both expressions.
type If struct {
	Cond ids.HirID
	Then ids.HirID
	Else ids.HirID
}

func (If) hirNode() {}

// List constructs an ordered list from Items.
type List struct {
	Items []ids.HirID
}

func (List) hirNode() {}

// ListIndex projects the element at a compile-time-constant Index out of
// Value. Index must be non-negative; lowering rejects anything else.
type ListIndex struct {
	Value ids.HirID
	Index *big.Int
}

func (ListIndex) hirNode() {}

// Unknown marks a node lowering could not produce from ill-formed CST. It
// only ever appears in error-carrying trees and must never reach the
// optimizer; compiler gates codegen on zero lowering errors, which is the
// only thing that should make an Unknown node reachable.
type Unknown struct{}

func (Unknown) hirNode() {}
