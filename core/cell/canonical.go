package cell

import (
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// canonicalTree mirrors Tree as a plain struct so it can be CBOR-encoded
// without ambiguity over which Go type backs an interface value. Atoms set
// Bytes (nil slice, not missing field, for the empty atom); pairs set First
// and Rest.
type canonicalTree struct {
	Bytes []byte         `cbor:"bytes"`
	First *canonicalTree `cbor:"first,omitempty"`
	Rest  *canonicalTree `cbor:"rest,omitempty"`
}

func toCanonical(t Tree) *canonicalTree {
	switch v := t.(type) {
	case Atom:
		return &canonicalTree{Bytes: v.Bytes}
	case Pair:
		return &canonicalTree{First: toCanonical(v.First), Rest: toCanonical(v.Rest)}
	default:
		return &canonicalTree{}
	}
}

// MarshalBinary implements encoding.BinaryMarshaler using deterministic
// (sorted-map, minimal-int) CBOR encoding, grounded on
// opal-lang-opal/core/planfmt/canonical.go. The type alias sidesteps
// infinite recursion: cbor.Marshal would otherwise notice *canonicalTree
// implements encoding.BinaryMarshaler and call back into this method.
func (t *canonicalTree) MarshalBinary() ([]byte, error) {
	type alias canonicalTree
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal((*alias)(t))
}

// Canonical returns the deterministic CBOR encoding of t, suitable for
// golden-file snapshots and whole-tree diffing in tests (spec.md §8
// invariant 4: "recompiling the same source produces byte-identical
// output"). This is distinct from Encode, which produces the VM's own wire
// format; Canonical exists purely for tooling around that format.
func Canonical(t Tree) ([]byte, error) {
	return toCanonical(t).MarshalBinary()
}

// Fingerprint returns the SHA3-256 digest of t's canonical encoding,
// grounded on opal-lang-opal/core/planfmt/idfactory.go's use of
// golang.org/x/crypto/sha3 for deterministic content digests. Used by the
// CLI's --watch mode to detect no-op recompiles.
func Fingerprint(t Tree) ([32]byte, error) {
	b, err := Canonical(t)
	if err != nil {
		return [32]byte{}, err
	}
	return sha3.Sum256(b), nil
}
