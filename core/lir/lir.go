// Package lir defines the low-level intermediate representation produced by
// runtime/optimize and consumed by runtime/codegen. Every name reference has
// already been resolved to an environment Path by this stage; Lir nodes are
// a flat arena addressed by core/ids.LirID, matched exhaustively via a type
// switch.
package lir

import "kodelang.dev/cellc/core/ids"

// Lir is the marker interface implemented by every LIR node variant.
type Lir interface {
	lirNode()
}

// Atom is a literal value, VM-atom-encoded.
type Atom struct {
	Bytes []byte
}

func (Atom) lirNode() {}

// Path is an environment navigation integer, as computed by spec.md
// §4.5(c): "2; for each increment of i by one, multiply by 2 and add 1".
type Path struct {
	Value int64
}

func (Path) lirNode() {}

// Curry binds Args into Body's environment at construction time. Emitted
// at the compilation entrypoint, around let-scopes and around function
// bodies with local definitions; ordinary calls emit Run instead.
type Curry struct {
	Body ids.LirID
	Args []ids.LirID
}

func (Curry) lirNode() {}

// Closure is the runtime representation of a function reference: the path
// to its body plus the paths (within the referencing frame) of everything
// it needs curried in.
type Closure struct {
	Body     ids.LirID
	Captures []ids.LirID
}

func (Closure) lirNode() {}

// FunctionBody marks a lowered function body so codegen can quote it at its
// definition path rather than inline it at every reference.
type FunctionBody struct {
	Body ids.LirID
}

func (FunctionBody) lirNode() {}

// Run applies an already-curried Callee (a Path or Closure) to Args: the
// ordinary call form, as opposed to Curry.
type Run struct {
	Callee ids.LirID
	Args   []ids.LirID
}

func (Run) lirNode() {}

// List constructs an ordered list from Items.
type List struct {
	Items []ids.LirID
}

func (List) lirNode() {}

// First is the VM's `f` (car) applied to Value.
type First struct {
	Value ids.LirID
}

func (First) lirNode() {}

// Rest is the VM's `r` (cdr) applied to Value.
type Rest struct {
	Value ids.LirID
}

func (Rest) lirNode() {}

// Add is the VM's variadic `+`.
type Add struct{ Operands []ids.LirID }

func (Add) lirNode() {}

// Sub is the VM's `-` applied left-to-right over Operands.
type Sub struct{ Operands []ids.LirID }

func (Sub) lirNode() {}

// Mul is the VM's variadic `*`.
type Mul struct{ Operands []ids.LirID }

func (Mul) lirNode() {}

// Div is the VM's `/`.
type Div struct {
	Lhs ids.LirID
	Rhs ids.LirID
}

func (Div) lirNode() {}

// Divmod is the VM's `divmod`, producing a (quotient . remainder) pair.
// Used directly for `%` via Rest(Divmod(...)).
type Divmod struct {
	Lhs ids.LirID
	Rhs ids.LirID
}

func (Divmod) lirNode() {}

// Gt is the VM's signed `>`.
type Gt struct {
	Lhs ids.LirID
	Rhs ids.LirID
}

func (Gt) lirNode() {}

// Eq is the VM's `=`.
type Eq struct {
	Lhs ids.LirID
	Rhs ids.LirID
}

func (Eq) lirNode() {}

// Any is the VM's variadic logical or, used to build `>=` as Any(Eq, Gt).
type Any struct{ Operands []ids.LirID }

func (Any) lirNode() {}

// Not is the VM's logical negation.
type Not struct {
	Value ids.LirID
}

func (Not) lirNode() {}

// If is lowered conditional evaluation; codegen wraps it in the
// re-application triple spec.md §4.6 prescribes.
type If struct {
	Cond ids.LirID
	Then ids.LirID
	Else ids.LirID
}

func (If) lirNode() {}
