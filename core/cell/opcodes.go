package cell

// Opcode constants, fixed by spec.md §4.6 so emitted code is bit-compatible
// with the target VM. Opcode 5 (First/"f", car) is not enumerated in
// spec.md's table but is required by the LIR First variant and is the
// standard value the listed opcodes (c=4, r=6) bracket; see DESIGN.md.
const (
	OpQuote  = 1
	OpApply  = 2
	OpIf     = 3
	OpCons   = 4
	OpFirst  = 5
	OpRest   = 6
	OpEq     = 9
	OpAdd    = 16
	OpSub    = 17
	OpMul    = 18
	OpDiv    = 19
	OpDivmod = 20
	OpGt     = 21
	OpNot    = 32
	OpAny    = 33
)
