package cell

import (
	"fmt"
	"math/big"
)

// Eval is a reference evaluator for the opcode set spec.md §4.6 fixes. It
// is not the target VM (spec.md §1 explicitly puts that out of scope) but a
// small, self-contained oracle used by tests and the CLI's optional --run
// flag to check emitted trees actually compute what the source says.
//
// Atoms evaluate as environment paths (spec.md §4.5(c)/§6): the empty atom
// is nil, path 1 is env itself, and any other path is decoded by repeatedly
// peeling the low bit (even -> First, odd -> Rest) until reaching 1,
// applying the peeled operations in the order discovered.
func Eval(expr Tree, env Tree) (Tree, error) {
	switch e := expr.(type) {
	case Atom:
		return evalAtom(e, env)
	case Pair:
		return evalForm(e, env)
	default:
		return nil, fmt.Errorf("cell: unknown Tree implementation %T", expr)
	}
}

func evalAtom(a Atom, env Tree) (Tree, error) {
	if len(a.Bytes) == 0 {
		return Nil, nil
	}
	p := new(big.Int).SetBytes(a.Bytes)
	if p.Sign() <= 0 {
		return nil, fmt.Errorf("cell: invalid path %s", p)
	}
	if p.Cmp(big.NewInt(1)) == 0 {
		return env, nil
	}
	type op struct{ rest bool }
	var ops []op
	one := big.NewInt(1)
	two := big.NewInt(2)
	for p.Cmp(one) != 0 {
		if p.Bit(0) == 0 {
			ops = append(ops, op{rest: false})
			p.Div(p, two)
		} else {
			ops = append(ops, op{rest: true})
			p.Sub(p, one)
			p.Div(p, two)
		}
	}
	cur := env
	for _, o := range ops {
		pair, ok := cur.(Pair)
		if !ok {
			return nil, fmt.Errorf("cell: path into non-pair %v", cur)
		}
		if o.rest {
			cur = pair.Rest
		} else {
			cur = pair.First
		}
	}
	return cur, nil
}

func evalForm(form Pair, env Tree) (Tree, error) {
	opAtom, ok := form.First.(Atom)
	if !ok {
		return nil, fmt.Errorf("cell: operator position must be an atom")
	}
	op := new(big.Int).SetBytes(opAtom.Bytes).Int64()
	if op == OpQuote {
		// (q . x) evaluates to x unevaluated.
		return form.Rest, nil
	}
	args := Listed(form.Rest)

	switch op {
	case OpApply:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: apply takes 2 args, got %d", len(args))
		}
		prog, err := Eval(args[0], env)
		if err != nil {
			return nil, err
		}
		newEnv, err := Eval(args[1], env)
		if err != nil {
			return nil, err
		}
		return Eval(prog, newEnv)
	case OpIf:
		if len(args) != 3 {
			return nil, fmt.Errorf("cell: if takes 3 args, got %d", len(args))
		}
		cond, err := Eval(args[0], env)
		if err != nil {
			return nil, err
		}
		if !IsNil(cond) {
			return Eval(args[1], env)
		}
		return Eval(args[2], env)
	}

	vals := make([]Tree, len(args))
	for i, a := range args {
		v, err := Eval(a, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return applyPrimitive(op, vals)
}

func applyPrimitive(op int64, args []Tree) (Tree, error) {
	switch op {
	case OpCons:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: cons takes 2 args, got %d", len(args))
		}
		return Pair{First: args[0], Rest: args[1]}, nil
	case OpFirst:
		if len(args) != 1 {
			return nil, fmt.Errorf("cell: first takes 1 arg, got %d", len(args))
		}
		p, ok := args[0].(Pair)
		if !ok {
			return nil, fmt.Errorf("cell: first of non-pair")
		}
		return p.First, nil
	case OpRest:
		if len(args) != 1 {
			return nil, fmt.Errorf("cell: rest takes 1 arg, got %d", len(args))
		}
		p, ok := args[0].(Pair)
		if !ok {
			return nil, fmt.Errorf("cell: rest of non-pair")
		}
		return p.Rest, nil
	case OpEq:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: eq takes 2 args, got %d", len(args))
		}
		return boolAtom(atomInts(args[0]).Cmp(atomInts(args[1])) == 0), nil
	case OpAdd:
		sum := big.NewInt(0)
		for _, a := range args {
			sum.Add(sum, atomInts(a))
		}
		return AtomInt(sum), nil
	case OpSub:
		if len(args) == 0 {
			return AtomInt64(0), nil
		}
		acc := new(big.Int).Set(atomInts(args[0]))
		for _, a := range args[1:] {
			acc.Sub(acc, atomInts(a))
		}
		return AtomInt(acc), nil
	case OpMul:
		prod := big.NewInt(1)
		for _, a := range args {
			prod.Mul(prod, atomInts(a))
		}
		return AtomInt(prod), nil
	case OpDiv:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: div takes 2 args, got %d", len(args))
		}
		q, _ := euclidDivmod(atomInts(args[0]), atomInts(args[1]))
		return AtomInt(q), nil
	case OpDivmod:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: divmod takes 2 args, got %d", len(args))
		}
		q, r := euclidDivmod(atomInts(args[0]), atomInts(args[1]))
		return Pair{First: AtomInt(q), Rest: AtomInt(r)}, nil
	case OpGt:
		if len(args) != 2 {
			return nil, fmt.Errorf("cell: gt takes 2 args, got %d", len(args))
		}
		return boolAtom(atomInts(args[0]).Cmp(atomInts(args[1])) > 0), nil
	case OpNot:
		if len(args) != 1 {
			return nil, fmt.Errorf("cell: not takes 1 arg, got %d", len(args))
		}
		return boolAtom(IsNil(args[0])), nil
	case OpAny:
		for _, a := range args {
			if !IsNil(a) {
				return boolAtom(true), nil
			}
		}
		return boolAtom(false), nil
	default:
		return nil, fmt.Errorf("cell: unknown opcode %d", op)
	}
}

func atomInts(t Tree) *big.Int {
	a, ok := t.(Atom)
	if !ok {
		return big.NewInt(0)
	}
	return DecodeInt(a.Bytes)
}

// boolAtom encodes a boolean the way the VM does: true as the atom 1,
// false as the empty atom (Nil).
func boolAtom(b bool) Tree {
	if b {
		return AtomInt64(1)
	}
	return Nil
}

// euclidDivmod matches the VM's divmod: truncating-toward-zero quotient
// with a remainder that takes the sign of the dividend, i.e. Go's native
// big.Int.QuoRem semantics.
func euclidDivmod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int), new(big.Int)
	q.QuoRem(a, b, r)
	return q, r
}
