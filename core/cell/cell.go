// Package cell is the compiler's target: a serializable tree of cells,
// where a cell is either an atom (a byte string, usually interpreted as an
// arbitrary-precision signed integer) or an ordered pair of cells
// (spec.md §1). It also carries a reference evaluator used by tests and the
// CLI's optional --run flag to check emitted trees actually compute what
// the source says — the real target VM is an external contract this
// package does not attempt to replace, but exercising generated code
// against something is more useful than trusting codegen blind.
package cell

import "math/big"

// Tree is the marker interface for Atom and Pair.
type Tree interface {
	cellNode()
}

// Atom is a byte-string cell.
type Atom struct {
	Bytes []byte
}

func (Atom) cellNode() {}

// Pair is an ordered pair of cells: (First . Rest).
type Pair struct {
	First Tree
	Rest  Tree
}

func (Pair) cellNode() {}

// Nil is the empty atom: CLVM's canonical empty list / false value. It is
// self-quoting (spec.md §4.6) and serves as both "nil" and "false".
var Nil Tree = Atom{}

// IsNil reports whether t is the empty atom.
func IsNil(t Tree) bool {
	a, ok := t.(Atom)
	return ok && len(a.Bytes) == 0
}

// List builds a right-nested chain of pairs terminated by Nil: the
// standard cell representation of an ordered list.
func List(items ...Tree) Tree {
	var out Tree = Nil
	for i := len(items) - 1; i >= 0; i-- {
		out = Pair{First: items[i], Rest: out}
	}
	return out
}

// Listed walks a Pair chain terminated by Nil and returns its elements. It
// is the inverse of List, used by the reference evaluator to read opcode
// argument lists.
func Listed(t Tree) []Tree {
	var out []Tree
	for {
		if IsNil(t) {
			return out
		}
		p, ok := t.(Pair)
		if !ok {
			return out
		}
		out = append(out, p.First)
		t = p.Rest
	}
}

// EncodeInt returns the minimal big-endian two's-complement encoding of n,
// the VM's atom representation of a signed integer. Zero encodes as the
// empty atom.
func EncodeInt(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if len(b) > 0 && b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// Two's complement negative encoding: smallest byte slice whose
	// two's-complement interpretation equals n.
	bitLen := new(big.Int).Not(n).BitLen() // bits of -n-1
	nBytes := bitLen/8 + 1
	m := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	m.Add(m, n) // m + n, n negative
	b := m.Bytes()
	for len(b) < nBytes {
		b = append([]byte{0xff}, b...)
	}
	return b
}

// DecodeInt interprets b as minimal big-endian two's-complement bytes.
func DecodeInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	n := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		m := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		n.Sub(n, m)
	}
	return n
}

// AtomInt builds an Atom from an integer, using EncodeInt.
func AtomInt(n *big.Int) Atom { return Atom{Bytes: EncodeInt(n)} }

// AtomInt64 is AtomInt for a plain int64, used for small constants like
// opcodes and path integers.
func AtomInt64(n int64) Atom { return AtomInt(big.NewInt(n)) }
