// Package optimize lowers HIR to LIR: capture analysis, environment
// composition and environment-path assignment (spec.md §4.5), grounded
// function-for-function on
// _examples/original_source/crates/rue-compiler/src/optimizer.rs.
//
// captures and environments are optimizer-local working state, not part of
// core/db, matching the original: they only matter while lowering is in
// flight and are thrown away once every Lir node is allocated. The
// scope-inheritance forest they both depend on, by contrast, is recorded
// directly on symtab.Scope (SetParent), since runtime/lower never needs it
// and storing it in the arena avoids a third optimizer-local map the
// original carries for no reason but its own module boundary.
package optimize

import (
	"math/big"

	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/core/hir"
	"kodelang.dev/cellc/core/ids"
	"kodelang.dev/cellc/core/invariant"
	"kodelang.dev/cellc/core/lir"
	"kodelang.dev/cellc/core/symtab"
)

// orderedSet is an insertion-ordered set of symbols: the Go stand-in for the
// original's IndexSet<SymbolId>. Insertion order is load-bearing (spec.md
// §4.5(b)/(c)): it is read back out in the same order it was built.
type orderedSet struct {
	items []ids.SymbolID
	seen  map[ids.SymbolID]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[ids.SymbolID]bool)}
}

func (s *orderedSet) add(id ids.SymbolID) {
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.items = append(s.items, id)
}

func (s *orderedSet) has(id ids.SymbolID) bool { return s.seen[id] }

// Optimizer holds the per-compile working state for one HIR-to-LIR pass.
type Optimizer struct {
	db           *db.Database
	captures     map[ids.ScopeID]*orderedSet
	environments map[ids.ScopeID]*orderedSet
}

func New(database *db.Database) *Optimizer {
	return &Optimizer{
		db:           database,
		captures:     make(map[ids.ScopeID]*orderedSet),
		environments: make(map[ids.ScopeID]*orderedSet),
	}
}

// OptimizeMain runs capture analysis and lowers main's body, returning the
// LirID of the program entrypoint's Curry node.
func OptimizeMain(database *db.Database, main ids.SymbolID) ids.LirID {
	return New(database).optMain(main)
}

// --- capture analysis (spec.md §4.5(a)) ---

func (o *Optimizer) computeCapturesEntrypoint(scopeID ids.ScopeID, hirID ids.HirID) {
	if _, ok := o.captures[scopeID]; ok {
		return
	}
	o.captures[scopeID] = newOrderedSet()
	o.computeCapturesHir(scopeID, hirID)
}

func (o *Optimizer) computeCapturesHir(scopeID ids.ScopeID, hirID ids.HirID) {
	switch h := o.db.Hir(hirID).(type) {
	case hir.Unknown:
		invariant.Invariant(false, "Unknown hir node reached the optimizer")
	case hir.Atom:
	case hir.Reference:
		o.computeReferenceCaptures(scopeID, h.Symbol)
	case hir.Scope:
		o.computeScopeCaptures(scopeID, h.ScopeID, h.Body)
	case hir.FunctionCall:
		o.computeCapturesHir(scopeID, h.Callee)
		for _, arg := range h.Args {
			o.computeCapturesHir(scopeID, arg)
		}
	case hir.BinaryOp:
		o.computeCapturesHir(scopeID, h.Lhs)
		o.computeCapturesHir(scopeID, h.Rhs)
	case hir.Not:
		o.computeCapturesHir(scopeID, h.Value)
	case hir.If:
		o.computeCapturesHir(scopeID, h.Cond)
		o.computeCapturesHir(scopeID, h.Then)
		o.computeCapturesHir(scopeID, h.Else)
	case hir.List:
		for _, item := range h.Items {
			o.computeCapturesHir(scopeID, item)
		}
	case hir.ListIndex:
		o.computeCapturesHir(scopeID, h.Value)
	default:
		invariant.Invariant(false, "unhandled hir node %T", h)
	}
}

// ConstBinding references never contribute captures of their own (rule 3):
// they are inlined at opt_reference time, so the only thing that matters
// here is re-walking their value HIR for the captures it makes.
func (o *Optimizer) computeReferenceCaptures(scopeID ids.ScopeID, symbolID ids.SymbolID) {
	sym := o.db.Symbol(symbolID)
	local := o.db.Scope(scopeID).IsLocal(symbolID)

	if sym.IsCapturable() && !local {
		o.captures[scopeID].add(symbolID)
	}

	switch s := sym.(type) {
	case *symtab.Function:
		o.computeFunctionCaptures(scopeID, s.ScopeID, s.HirID)
	case *symtab.Parameter:
	case *symtab.LetBinding:
		o.computeCapturesHir(scopeID, s.HirID)
	case *symtab.ConstBinding:
		o.computeCapturesHir(scopeID, s.HirID)
	}
}

func (o *Optimizer) computeFunctionCaptures(scopeID, functionScopeID ids.ScopeID, hirID ids.HirID) {
	o.computeCapturesEntrypoint(functionScopeID, hirID)

	for _, id := range o.captures[functionScopeID].items {
		if !o.db.Scope(scopeID).IsLocal(id) {
			o.captures[scopeID].add(id)
		}
	}

	o.environments[functionScopeID] = composeEnvironment(o, functionScopeID)
}

func (o *Optimizer) computeScopeCaptures(scopeID, newScopeID ids.ScopeID, valueHirID ids.HirID) {
	o.computeCapturesEntrypoint(newScopeID, valueHirID)

	for _, id := range o.captures[newScopeID].items {
		if !o.db.Scope(scopeID).IsLocal(id) {
			o.captures[scopeID].add(id)
		}
	}

	env := newOrderedSet()
	for _, id := range o.db.Scope(newScopeID).LocalSymbols() {
		invariant.Invariant(o.db.Symbol(id).IsDefinition(), "let-scope local %v must be a definition", id)
		env.add(id)
	}

	o.db.Scope(newScopeID).SetParent(scopeID)
	o.environments[newScopeID] = env
}

// composeEnvironment builds a function scope's environment in the order
// spec.md §4.5(b) prescribes: local definitions, then captures, then
// parameters. Shared by computeFunctionCaptures and opt_main, which compose
// the entrypoint's own scope the same way.
func composeEnvironment(o *Optimizer, scopeID ids.ScopeID) *orderedSet {
	env := newOrderedSet()
	for _, id := range o.db.Scope(scopeID).LocalSymbols() {
		if o.db.Symbol(id).IsDefinition() {
			env.add(id)
		}
	}
	for _, id := range o.captures[scopeID].items {
		env.add(id)
	}
	for _, id := range o.db.Scope(scopeID).LocalSymbols() {
		if o.db.Symbol(id).IsParameter() {
			env.add(id)
		}
	}
	return env
}

// --- LIR construction ---

func (o *Optimizer) optMain(main ids.SymbolID) ids.LirID {
	fn, ok := o.db.Symbol(main).(*symtab.Function)
	invariant.Precondition(ok, "main symbol %v must be a function", main)

	o.computeCapturesEntrypoint(fn.ScopeID, fn.HirID)
	o.environments[fn.ScopeID] = composeEnvironment(o, fn.ScopeID)

	body := o.optHir(fn.ScopeID, fn.HirID)

	var args []ids.LirID
	for _, id := range o.db.Scope(fn.ScopeID).LocalSymbols() {
		if o.db.Symbol(id).IsDefinition() {
			args = append(args, o.optDefinition(fn.ScopeID, id))
		}
	}
	for _, id := range o.captures[fn.ScopeID].items {
		args = append(args, o.optDefinition(fn.ScopeID, id))
	}

	return o.db.AllocLir(lir.Curry{Body: body, Args: args})
}

// optScope lowers a let-scope to a Curry: one real cons onto the
// environment per spec.md §4.5(c)'s discussion of how let-scopes extend
// (never nest) the flat runtime environment.
func (o *Optimizer) optScope(parentScopeID, scopeID ids.ScopeID, hirID ids.HirID) ids.LirID {
	body := o.optHir(scopeID, hirID)

	var args []ids.LirID
	for _, id := range o.environments[scopeID].items {
		invariant.Invariant(o.db.Symbol(id).IsDefinition(), "scope-local %v must be a definition", id)
		args = append(args, o.optDefinition(parentScopeID, id))
	}

	return o.db.AllocLir(lir.Curry{Body: body, Args: args})
}

// optPath assigns a single flat environment index to symbolID as seen from
// scopeID, per spec.md §4.5(c): start from scopeID's own composed
// environment, then concatenate every ancestor's environment by walking the
// scope-inheritance chain outward, and encode the found index as
// path = 2; path = path*2+1 repeated `index` times.
func (o *Optimizer) optPath(scopeID ids.ScopeID, symbolID ids.SymbolID) ids.LirID {
	environment := append([]ids.SymbolID(nil), o.environments[scopeID].items...)

	current := scopeID
	for {
		scope := o.db.Scope(current)
		if !scope.HasParent {
			break
		}
		current = scope.Parent
		environment = append(environment, o.environments[current].items...)
	}

	index := -1
	for i, id := range environment {
		if id == symbolID {
			index = i
			break
		}
	}
	invariant.Invariant(index >= 0, "symbol %v not found in environment for scope %v", symbolID, scopeID)

	path := int64(2)
	for i := 0; i < index; i++ {
		path = path*2 + 1
	}

	return o.db.AllocLir(lir.Path{Value: path})
}

// optDefinition lowers a definition (Function or LetBinding) to the LIR
// value that gets curried into an environment slot. Parameters and
// ConstBindings are never environment slots, so reaching either here is an
// internal invariant violation.
func (o *Optimizer) optDefinition(scopeID ids.ScopeID, symbolID ids.SymbolID) ids.LirID {
	switch s := o.db.Symbol(symbolID).(type) {
	case *symtab.Function:
		body := o.optHir(s.ScopeID, s.HirID)

		var definitions []ids.LirID
		for _, id := range o.db.Scope(s.ScopeID).LocalSymbols() {
			if o.db.Symbol(id).IsDefinition() {
				definitions = append(definitions, o.optDefinition(s.ScopeID, id))
			}
		}
		if len(definitions) > 0 {
			body = o.db.AllocLir(lir.Curry{Body: body, Args: definitions})
		}

		return o.db.AllocLir(lir.FunctionBody{Body: body})
	case *symtab.LetBinding:
		return o.optHir(scopeID, s.HirID)
	case *symtab.Parameter:
		invariant.Invariant(false, "parameter %v is never a definition", symbolID)
	case *symtab.ConstBinding:
		invariant.Invariant(false, "const binding %v is never a definition", symbolID)
	}
	panic("unreachable")
}

func (o *Optimizer) optHir(scopeID ids.ScopeID, hirID ids.HirID) ids.LirID {
	switch h := o.db.Hir(hirID).(type) {
	case hir.Unknown:
		invariant.Invariant(false, "Unknown hir node reached the optimizer")
	case hir.Atom:
		return o.db.AllocLir(lir.Atom{Bytes: h.Bytes})
	case hir.List:
		return o.optList(scopeID, h.Items)
	case hir.ListIndex:
		return o.optListIndex(scopeID, h.Value, h.Index)
	case hir.Reference:
		return o.optReference(scopeID, h.Symbol)
	case hir.Scope:
		return o.optScope(scopeID, h.ScopeID, h.Body)
	case hir.FunctionCall:
		return o.optFunctionCall(scopeID, h.Callee, h.Args)
	case hir.BinaryOp:
		return o.optBinaryOp(scopeID, h.Op, h.Lhs, h.Rhs)
	case hir.Not:
		return o.optNot(scopeID, h.Value)
	case hir.If:
		return o.optIf(scopeID, h.Cond, h.Then, h.Else)
	}
	panic("unreachable")
}

func (o *Optimizer) optList(scopeID ids.ScopeID, items []ids.HirID) ids.LirID {
	result := make([]ids.LirID, len(items))
	for i, item := range items {
		result[i] = o.optHir(scopeID, item)
	}
	return o.db.AllocLir(lir.List{Items: result})
}

// optListIndex compiles v[i] as First(Rest^i(v)), per spec.md §4.5(f).
func (o *Optimizer) optListIndex(scopeID ids.ScopeID, hirID ids.HirID, index *big.Int) ids.LirID {
	value := o.optHir(scopeID, hirID)
	remaining := new(big.Int).Set(index)
	one := big.NewInt(1)
	for remaining.Sign() > 0 {
		value = o.db.AllocLir(lir.Rest{Value: value})
		remaining.Sub(remaining, one)
	}
	return o.db.AllocLir(lir.First{Value: value})
}

// optReference lowers a name reference (spec.md §4.5(d)): ConstBinding
// inlines its value, Function produces a Closure triple (paths computed
// within the REFERENCING scope, not the function's own scope), everything
// else is a plain environment path.
func (o *Optimizer) optReference(scopeID ids.ScopeID, symbolID ids.SymbolID) ids.LirID {
	switch s := o.db.Symbol(symbolID).(type) {
	case *symtab.Function:
		body := o.optPath(scopeID, symbolID)

		var captures []ids.LirID
		for _, id := range o.db.Scope(s.ScopeID).LocalSymbols() {
			if o.db.Symbol(id).IsDefinition() {
				captures = append(captures, o.optPath(scopeID, id))
			}
		}
		for _, id := range o.captures[s.ScopeID].items {
			captures = append(captures, o.optPath(scopeID, id))
		}

		return o.db.AllocLir(lir.Closure{Body: body, Captures: captures})
	case *symtab.ConstBinding:
		return o.optHir(scopeID, s.HirID)
	default:
		return o.optPath(scopeID, symbolID)
	}
}

// optFunctionCall lowers a call (spec.md §4.5(e)). A direct call to a known
// top-level function prepends its captures and calls it by path, bypassing
// the Closure wrapper entirely; every other callee (already a curried
// closure value) is lowered as an ordinary expression with no capture
// injection.
func (o *Optimizer) optFunctionCall(scopeID ids.ScopeID, calleeHirID ids.HirID, argHirIDs []ids.HirID) ids.LirID {
	var args []ids.LirID
	var callee ids.LirID

	if ref, ok := o.db.Hir(calleeHirID).(hir.Reference); ok {
		if fn, ok := o.db.Symbol(ref.Symbol).(*symtab.Function); ok {
			for _, id := range o.captures[fn.ScopeID].items {
				args = append(args, o.optPath(scopeID, id))
			}
			callee = o.optPath(scopeID, ref.Symbol)
		} else {
			callee = o.optHir(scopeID, calleeHirID)
		}
	} else {
		callee = o.optHir(scopeID, calleeHirID)
	}

	for _, arg := range argHirIDs {
		args = append(args, o.optHir(scopeID, arg))
	}

	return o.db.AllocLir(lir.Run{Callee: callee, Args: args})
}

func (o *Optimizer) optBinaryOp(scopeID ids.ScopeID, op hir.Operator, lhs, rhs ids.HirID) ids.LirID {
	switch op {
	case hir.Add:
		return o.db.AllocLir(lir.Add{Operands: []ids.LirID{o.optHir(scopeID, lhs), o.optHir(scopeID, rhs)}})
	case hir.Sub:
		return o.db.AllocLir(lir.Sub{Operands: []ids.LirID{o.optHir(scopeID, lhs), o.optHir(scopeID, rhs)}})
	case hir.Mul:
		return o.db.AllocLir(lir.Mul{Operands: []ids.LirID{o.optHir(scopeID, lhs), o.optHir(scopeID, rhs)}})
	case hir.Div:
		return o.db.AllocLir(lir.Div{Lhs: o.optHir(scopeID, lhs), Rhs: o.optHir(scopeID, rhs)})
	case hir.Rem:
		divmod := o.db.AllocLir(lir.Divmod{Lhs: o.optHir(scopeID, lhs), Rhs: o.optHir(scopeID, rhs)})
		return o.db.AllocLir(lir.Rest{Value: divmod})
	case hir.Lt:
		return o.optGt(scopeID, rhs, lhs)
	case hir.Gt:
		return o.optGt(scopeID, lhs, rhs)
	case hir.LtEq:
		gt := o.optGt(scopeID, lhs, rhs)
		return o.db.AllocLir(lir.Not{Value: gt})
	case hir.GtEq:
		l, r := o.optHir(scopeID, lhs), o.optHir(scopeID, rhs)
		eq := o.db.AllocLir(lir.Eq{Lhs: l, Rhs: r})
		gt := o.db.AllocLir(lir.Gt{Lhs: l, Rhs: r})
		return o.db.AllocLir(lir.Any{Operands: []ids.LirID{eq, gt}})
	case hir.Eq:
		return o.db.AllocLir(lir.Eq{Lhs: o.optHir(scopeID, lhs), Rhs: o.optHir(scopeID, rhs)})
	case hir.NotEq:
		eq := o.db.AllocLir(lir.Eq{Lhs: o.optHir(scopeID, lhs), Rhs: o.optHir(scopeID, rhs)})
		return o.db.AllocLir(lir.Not{Value: eq})
	}
	panic("unreachable")
}

func (o *Optimizer) optGt(scopeID ids.ScopeID, lhs, rhs ids.HirID) ids.LirID {
	return o.db.AllocLir(lir.Gt{Lhs: o.optHir(scopeID, lhs), Rhs: o.optHir(scopeID, rhs)})
}

func (o *Optimizer) optNot(scopeID ids.ScopeID, value ids.HirID) ids.LirID {
	return o.db.AllocLir(lir.Not{Value: o.optHir(scopeID, value)})
}

func (o *Optimizer) optIf(scopeID ids.ScopeID, cond, then, els ids.HirID) ids.LirID {
	return o.db.AllocLir(lir.If{
		Cond: o.optHir(scopeID, cond),
		Then: o.optHir(scopeID, then),
		Else: o.optHir(scopeID, els),
	})
}
