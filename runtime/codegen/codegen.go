// Package codegen lowers LIR to a core/cell.Tree: the final emitted
// program, per spec.md §4.6. The opcode-level helpers (quote, runtime list
// construction, the closure-wrapping triple, if-wrapping) are grounded on
// _examples/original_source/crates/rue-compiler/src/codegen.rs's
// quote/list/runtime_list/runtime_runtime_list/gen_closure_wrapper/gen_if,
// adapted from that file's NodePtr-allocator style to plain core/cell.Tree
// construction — core/cell has no fallible allocator to thread through, so
// every helper here simply builds and returns a Tree. That file's own
// generation entrypoint predates LIR and dispatches on an earlier,
// untyped Value enum with no ListIndex support; this package instead
// consumes the LIR arena runtime/optimize already produced, so every path,
// capture and curry argument arrives pre-resolved and generation is a
// single structural walk with no capture bookkeeping of its own.
package codegen

import (
	"kodelang.dev/cellc/core/cell"
	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/core/ids"
	"kodelang.dev/cellc/core/invariant"
	"kodelang.dev/cellc/core/lir"
)

// Generate compiles the LIR node at root (the program's top-level Curry, as
// produced by runtime/optimize.OptimizeMain) into its cell tree.
func Generate(database *db.Database, root ids.LirID) cell.Tree {
	return (&generator{db: database}).gen(root)
}

type generator struct {
	db *db.Database
}

func (g *generator) gen(id ids.LirID) cell.Tree {
	switch v := g.db.Lir(id).(type) {
	case lir.Atom:
		return quote(cell.Atom{Bytes: v.Bytes})
	case lir.Path:
		return cell.AtomInt64(v.Value)
	case lir.Curry:
		return g.genCurry(v)
	case lir.FunctionBody:
		return quote(g.gen(v.Body))
	case lir.Closure:
		return g.genClosure(v)
	case lir.Run:
		return g.genRun(v)
	case lir.List:
		return runtimeList(g.genAll(v.Items), cell.Nil)
	case lir.First:
		return cell.List(cell.AtomInt64(cell.OpFirst), g.gen(v.Value))
	case lir.Rest:
		return cell.List(cell.AtomInt64(cell.OpRest), g.gen(v.Value))
	case lir.Add:
		return g.genVariadic(cell.OpAdd, v.Operands)
	case lir.Sub:
		return g.genVariadic(cell.OpSub, v.Operands)
	case lir.Mul:
		return g.genVariadic(cell.OpMul, v.Operands)
	case lir.Any:
		return g.genVariadic(cell.OpAny, v.Operands)
	case lir.Div:
		return cell.List(cell.AtomInt64(cell.OpDiv), g.gen(v.Lhs), g.gen(v.Rhs))
	case lir.Divmod:
		return cell.List(cell.AtomInt64(cell.OpDivmod), g.gen(v.Lhs), g.gen(v.Rhs))
	case lir.Gt:
		return cell.List(cell.AtomInt64(cell.OpGt), g.gen(v.Lhs), g.gen(v.Rhs))
	case lir.Eq:
		return cell.List(cell.AtomInt64(cell.OpEq), g.gen(v.Lhs), g.gen(v.Rhs))
	case lir.Not:
		return cell.List(cell.AtomInt64(cell.OpNot), g.gen(v.Value))
	case lir.If:
		return g.genIf(v)
	default:
		invariant.Invariant(false, "unhandled lir node %T", v)
		panic("unreachable")
	}
}

func (g *generator) genAll(lirIDs []ids.LirID) []cell.Tree {
	out := make([]cell.Tree, len(lirIDs))
	for i, id := range lirIDs {
		out[i] = g.gen(id)
	}
	return out
}

func (g *generator) genVariadic(op int64, operands []ids.LirID) cell.Tree {
	items := append([]cell.Tree{cell.AtomInt64(op)}, g.genAll(operands)...)
	return cell.List(items...)
}

// genCurry implements spec.md §4.6's "main emission" formula, which applies
// equally to the program entrypoint and to every nested let-scope's Curry:
// `(a (quote B_compiled) (runtime_list [C₁…Cₖ] env_rest))`, env_rest always
// being path 1 (the environment this compiled code itself runs in).
func (g *generator) genCurry(v lir.Curry) cell.Tree {
	body := quote(g.gen(v.Body))
	argList := runtimeList(g.genAll(v.Args), cell.AtomInt64(1))
	return cell.List(cell.AtomInt64(cell.OpApply), body, argList)
}

// genClosure builds the runtime closure triple `(a B (runtime_cons
// P₁…Pₘ (quote 1)))`, with every piece constructed at runtime via
// runtime_runtime_list: unlike genCurry (static code, evaluated directly),
// this expression itself computes the closure value when evaluated, since
// it is reached anywhere a function is referenced as a first-class value.
func (g *generator) genClosure(v lir.Closure) cell.Tree {
	a := quote(cell.AtomInt64(cell.OpApply))
	body := runtimeQuote(g.gen(v.Body))

	captures := make([]cell.Tree, len(v.Captures))
	for i, c := range v.Captures {
		captures[i] = runtimeQuote(g.gen(c))
	}

	quotedOne := quote(cell.AtomInt64(1))
	args := runtimeRuntimeList(captures, quotedOne)

	return runtimeList([]cell.Tree{a, body, args}, cell.Nil)
}

// genRun implements the ordinary call form: `(a callee (runtime_list args
// nil))`. Captures for a direct call to a known function are already
// prepended to v.Args by runtime/optimize, so this has no capture logic of
// its own.
func (g *generator) genRun(v lir.Run) cell.Tree {
	callee := g.gen(v.Callee)
	argList := runtimeList(g.genAll(v.Args), cell.Nil)
	return cell.List(cell.AtomInt64(cell.OpApply), callee, argList)
}

// genIf implements `(a (i c (quote t) (quote e)) 1)`: quoting the branches
// so only the chosen one is ever evaluated, then re-applying against the
// current environment.
func (g *generator) genIf(v lir.If) cell.Tree {
	cond := g.gen(v.Cond)
	then := quote(g.gen(v.Then))
	els := quote(g.gen(v.Else))
	conditional := cell.List(cell.AtomInt64(cell.OpIf), cond, then, els)
	return cell.List(cell.AtomInt64(cell.OpApply), conditional, cell.AtomInt64(1))
}

// quote yields `(1 . x)` unless x is the empty atom, which is self-quoting.
func quote(t cell.Tree) cell.Tree {
	if cell.IsNil(t) {
		return t
	}
	return cell.Pair{First: cell.AtomInt64(cell.OpQuote), Rest: t}
}

// runtimeList emits code that, when evaluated, conses items onto end one at
// a time via nested `c`-opcode applications.
func runtimeList(items []cell.Tree, end cell.Tree) cell.Tree {
	ptr := end
	cons := cell.AtomInt64(cell.OpCons)
	for i := len(items) - 1; i >= 0; i-- {
		ptr = cell.List(cons, items[i], ptr)
	}
	return ptr
}

// runtimeRuntimeList is runtimeList where even the `c` opcodes themselves
// are built at runtime, needed when every element of the chain (including
// the cons cells linking them) must be a value the generated code
// constructs rather than code it directly contains.
func runtimeRuntimeList(items []cell.Tree, end cell.Tree) cell.Tree {
	ptr := end
	quotedCons := quote(cell.AtomInt64(cell.OpCons))
	for i := len(items) - 1; i >= 0; i-- {
		ptr = runtimeList([]cell.Tree{quotedCons, items[i], ptr}, cell.Nil)
	}
	return ptr
}

// runtimeQuote emits code that, when evaluated, produces `(quote ptr)` as a
// value rather than embedding that pair statically.
func runtimeQuote(ptr cell.Tree) cell.Tree {
	q := quote(cell.AtomInt64(cell.OpQuote))
	cons := cell.AtomInt64(cell.OpCons)
	return cell.List(cons, q, ptr)
}
