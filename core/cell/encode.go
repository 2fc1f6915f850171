package cell

import (
	"errors"
	"fmt"
)

// Encode serializes t into the VM's canonical wire format: atoms are
// length-prefixed (the prefix itself encoding the atom's byte length, with
// short atoms under 0x80 self-representing), and pairs are a 0xff marker
// followed by the serialization of First then Rest. This is the standard
// CLVM sexp encoding spec.md §6 defers to as "the target VM's canonical
// format... this spec does not redefine it."
func Encode(t Tree) []byte {
	switch v := t.(type) {
	case Atom:
		return encodeAtom(v.Bytes)
	case Pair:
		out := []byte{0xff}
		out = append(out, Encode(v.First)...)
		out = append(out, Encode(v.Rest)...)
		return out
	default:
		panic(fmt.Sprintf("cell: unknown Tree implementation %T", t))
	}
}

func encodeAtom(b []byte) []byte {
	switch {
	case len(b) == 0:
		return []byte{0x80}
	case len(b) == 1 && b[0] < 0x80:
		return []byte{b[0]}
	case len(b) < 0x40:
		return append([]byte{0x80 | byte(len(b))}, b...)
	case len(b) < 0x2000:
		n := len(b)
		return append([]byte{0xc0 | byte(n>>8), byte(n)}, b...)
	case len(b) < 0x100000:
		n := len(b)
		return append([]byte{0xe0 | byte(n>>16), byte(n >> 8), byte(n)}, b...)
	case len(b) < 0x8000000:
		n := len(b)
		return append([]byte{0xf0 | byte(n>>24), byte(n >> 16), byte(n >> 8), byte(n)}, b...)
	default:
		n := len(b)
		return append([]byte{0xf8 | byte(n>>32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}, b...)
	}
}

// Decode parses the wire format Encode produces, returning the tree and the
// number of bytes consumed.
func Decode(b []byte) (Tree, int, error) {
	if len(b) == 0 {
		return nil, 0, errors.New("cell: unexpected end of input")
	}
	if b[0] == 0xff {
		first, n1, err := Decode(b[1:])
		if err != nil {
			return nil, 0, err
		}
		rest, n2, err := Decode(b[1+n1:])
		if err != nil {
			return nil, 0, err
		}
		return Pair{First: first, Rest: rest}, 1 + n1 + n2, nil
	}
	return decodeAtom(b)
}

func decodeAtom(b []byte) (Tree, int, error) {
	lead := b[0]
	switch {
	case lead < 0x80:
		return Atom{Bytes: []byte{lead}}, 1, nil
	case lead == 0x80:
		return Atom{Bytes: nil}, 1, nil
	case lead < 0xc0:
		size := int(lead & 0x3f)
		return takeAtom(b, 1, size)
	case lead < 0xe0:
		if len(b) < 2 {
			return nil, 0, errors.New("cell: truncated atom length")
		}
		size := int(lead&0x1f)<<8 | int(b[1])
		return takeAtom(b, 2, size)
	case lead < 0xf0:
		if len(b) < 3 {
			return nil, 0, errors.New("cell: truncated atom length")
		}
		size := int(lead&0x0f)<<16 | int(b[1])<<8 | int(b[2])
		return takeAtom(b, 3, size)
	case lead < 0xf8:
		if len(b) < 4 {
			return nil, 0, errors.New("cell: truncated atom length")
		}
		size := int(lead&0x07)<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
		return takeAtom(b, 4, size)
	default:
		if len(b) < 5 {
			return nil, 0, errors.New("cell: truncated atom length")
		}
		size := int(lead&0x03)<<32 | int(b[1])<<24 | int(b[2])<<16 | int(b[3])<<8 | int(b[4])
		return takeAtom(b, 5, size)
	}
}

func takeAtom(b []byte, headerLen, size int) (Tree, int, error) {
	if len(b) < headerLen+size {
		return nil, 0, errors.New("cell: truncated atom body")
	}
	body := make([]byte, size)
	copy(body, b[headerLen:headerLen+size])
	return Atom{Bytes: body}, headerLen + size, nil
}
