// Package lower turns a parsed runtime/cst tree into HIR plus the symbol
// and scope tables it references, grounded on spec.md §4.4's item-then-
// expression traversal and name resolution by outward scope walk (the
// pack's rue-compiler crate has no lowering.rs of its own to translate —
// only symbol.rs, optimizer.rs and codegen.rs survived distillation); the
// "did you mean" suggestion on an unresolved name is grounded on
// opal-lang-opal/runtime/planner/planner.go's findClosestMatch.
package lower

import (
	"fmt"
	"math/big"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"kodelang.dev/cellc/core/cell"
	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/core/hir"
	"kodelang.dev/cellc/core/ids"
	"kodelang.dev/cellc/core/symtab"
	"kodelang.dev/cellc/runtime/cst"
	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/parser"
)

// ErrorKind distinguishes the lowering-error shapes spec.md §7 names.
type ErrorKind int

const (
	UnresolvedName ErrorKind = iota
	ArityMismatch
	TypeMismatch
)

// Error is a lowering diagnostic: a kind, a human-readable message, and the
// source range of the originating CST node.
type Error struct {
	Kind    ErrorKind
	Message string
	Range   lexer.Range
}

func (e Error) Error() string { return e.Message }

// FunctionDef is one lowered top-level function: its symbol, the scope
// holding its parameters, and the HIR id of its body.
type FunctionDef struct {
	Symbol ids.SymbolID
	Scope  ids.ScopeID
	Body   ids.HirID
}

// Result is everything the optimizer needs from lowering: the root scope
// (holding every top-level symbol), every lowered function, and the "main"
// symbol if the program declared one.
type Result struct {
	RootScope ids.ScopeID
	Functions []FunctionDef
	Main      ids.SymbolID
}

// lowerer carries lowering's working state. It is discarded once Lower
// returns; nothing here survives into the database except what was
// explicitly interned.
type lowerer struct {
	db     *db.Database
	source []byte

	rootScope ids.ScopeID

	// lexicalParent is the name-resolution chain: it differs from
	// symtab.Scope.Parent (the scope-inheritance forest the optimizer
	// walks for captures, whose roots are function scopes). Here function
	// scopes chain up to the root scope so top-level names resolve from
	// inside any function body; the inheritance forest deliberately stops
	// them from doing so for capture purposes (spec.md §9 "Nested scope
	// parents").
	lexicalParent map[ids.ScopeID]ids.ScopeID
	names         map[ids.ScopeID]map[string]ids.SymbolID

	errors []Error
}

// Lower lowers every item under root into HIR, returning the accumulated
// symbol/scope tables (via db) and any lowering errors. Per spec.md §7
// lowering always runs to completion and accumulates errors rather than
// aborting on the first one; the caller gates codegen on len(errors)==0.
func Lower(database *db.Database, root *cst.Node, source []byte) (*Result, []Error) {
	lw := &lowerer{
		db:            database,
		source:        source,
		lexicalParent: make(map[ids.ScopeID]ids.ScopeID),
		names:         make(map[ids.ScopeID]map[string]ids.SymbolID),
	}
	return lw.run(root)
}

func (l *lowerer) run(root *cst.Node) (*Result, []Error) {
	l.rootScope = l.db.AllocScope()
	l.names[l.rootScope] = make(map[string]ids.SymbolID)

	items := root.Items()

	type pendingFn struct {
		node  *cst.Node
		sym   ids.SymbolID
		scope ids.ScopeID
	}
	var fns []pendingFn
	var consts []*cst.Node

	// Pass 1: declare every top-level symbol before lowering any body, so
	// forward references, mutual recursion and self-recursion all resolve.
	for _, it := range items {
		name, _ := it.IdentText(l.source)
		switch it.Kind {
		case parser.FunctionItem:
			sig := l.convertFunctionSignature(it)
			scope := l.db.AllocScope()
			l.lexicalParent[scope] = l.rootScope
			l.names[scope] = make(map[string]ids.SymbolID)
			sym := &symtab.Function{SymName: name, ScopeID: scope, HirID: ids.InvalidHirID, Type: sig}
			id := l.db.AllocSymbol(sym)
			l.db.AddLocal(l.rootScope, id)
			l.declare(l.rootScope, name, id)
			fns = append(fns, pendingFn{node: it, sym: id, scope: scope})
		case parser.ConstItem:
			ty := l.convertType(it.ReturnType())
			sym := &symtab.ConstBinding{SymName: name, Type: ty, HirID: ids.InvalidHirID}
			id := l.db.AllocSymbol(sym)
			l.db.AddLocal(l.rootScope, id)
			l.declare(l.rootScope, name, id)
			consts = append(consts, it)
		}
	}

	// Pass 2: lower const values (root-scope context; consts may reference
	// earlier consts and functions, never the other way usefully, but
	// nothing here enforces an ordering beyond "declared somewhere").
	for _, it := range consts {
		name, _ := it.IdentText(l.source)
		id := l.names[l.rootScope][name]
		body := l.lowerExpr(it.ConstValue(), l.rootScope)
		l.db.Symbol(id).(*symtab.ConstBinding).HirID = body
	}

	// Pass 3: lower function bodies, now that every top-level name
	// (including the function's own, for self-recursion) resolves.
	var defs []FunctionDef
	mainSym := ids.InvalidSymbolID
	for _, pf := range fns {
		for _, p := range pf.node.Params() {
			pname, _ := p.IdentText(l.source)
			ptyNode := p.ParamType()
			psym := &symtab.Parameter{SymName: pname, Type: l.convertType(ptyNode)}
			pid := l.db.AllocSymbol(psym)
			l.db.AddLocal(pf.scope, pid)
			l.declare(pf.scope, pname, pid)
		}

		body := l.lowerBlock(pf.node.Body(), pf.scope)
		l.db.Symbol(pf.sym).(*symtab.Function).HirID = body

		defs = append(defs, FunctionDef{Symbol: pf.sym, Scope: pf.scope, Body: body})

		name, _ := pf.node.IdentText(l.source)
		if name == "main" {
			mainSym = pf.sym
		}
	}

	return &Result{RootScope: l.rootScope, Functions: defs, Main: mainSym}, l.errors
}

func (l *lowerer) declare(scope ids.ScopeID, name string, sym ids.SymbolID) {
	l.names[scope][name] = sym
}

func (l *lowerer) resolve(scope ids.ScopeID, name string) (ids.SymbolID, bool) {
	s, ok := scope, true
	for {
		if id, found := l.names[s][name]; found {
			return id, true
		}
		if s, ok = l.lexicalParent[s]; !ok {
			return ids.InvalidSymbolID, false
		}
	}
}

// visibleNames collects every name visible from scope (walking the
// lexical-resolution chain), for the fuzzy "did you mean" suggestion on an
// unresolved reference.
func (l *lowerer) visibleNames(scope ids.ScopeID) []string {
	var out []string
	for s, ok := scope, true; ; {
		for name := range l.names[s] {
			out = append(out, name)
		}
		s, ok = l.lexicalParent[s]
		if !ok {
			break
		}
	}
	return out
}

func (l *lowerer) errorf(kind ErrorKind, node *cst.Node, format string, args ...any) {
	l.errors = append(l.errors, Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Range:   node.Range(),
	})
}

func (l *lowerer) convertFunctionSignature(fn *cst.Node) *symtab.Type {
	var params []*symtab.Type
	for _, p := range fn.Params() {
		params = append(params, l.convertType(p.ParamType()))
	}
	return symtab.FunctionType(params, l.convertType(fn.ReturnType()))
}

func (l *lowerer) convertType(n *cst.Node) *symtab.Type {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case parser.LiteralType:
		name, _ := n.IdentText(l.source)
		return symtab.NamedType(name)
	case parser.FunctionType:
		var params []*symtab.Type
		if ps := n.Find(parser.FunctionTypeParams); ps != nil {
			for _, c := range ps.ChildNodes() {
				params = append(params, l.convertType(c))
			}
		}
		return symtab.FunctionType(params, l.convertType(n.ReturnType()))
	case parser.ListType:
		return symtab.ListType(l.convertType(n.ReturnType()))
	default:
		return nil
	}
}

func (l *lowerer) lowerBlock(block *cst.Node, scope ids.ScopeID) ids.HirID {
	if block == nil {
		return l.db.AllocHir(hir.Unknown{})
	}
	return l.lowerStmts(block.Stmts(), block.Tail(), scope)
}

// lowerStmts lowers a let-chain by nesting: the first let opens a fresh
// HIR::Scope whose body is everything after it, recursively. A block with
// no let statements lowers its tail directly in the given scope.
func (l *lowerer) lowerStmts(stmts []*cst.Node, tail *cst.Node, scope ids.ScopeID) ids.HirID {
	if len(stmts) == 0 {
		if tail == nil {
			return l.db.AllocHir(hir.Unknown{})
		}
		return l.lowerExpr(tail, scope)
	}

	first := stmts[0]
	name, _ := first.IdentText(l.source)
	declaredType := l.convertType(first.LetType())

	// The bound value is lowered in the outer scope: the binding is not
	// yet in effect for its own initializer.
	valueHir := l.lowerExpr(first.LetValue(), scope)

	nested := l.db.AllocScope()
	l.lexicalParent[nested] = scope
	l.names[nested] = make(map[string]ids.SymbolID)

	sym := &symtab.LetBinding{SymName: name, Type: declaredType, HirID: valueHir}
	symID := l.db.AllocSymbol(sym)
	l.db.AddLocal(nested, symID)
	l.declare(nested, name, symID)

	body := l.lowerStmts(stmts[1:], tail, nested)
	return l.db.AllocHir(hir.Scope{ScopeID: nested, Body: body})
}

func (l *lowerer) lowerExpr(n *cst.Node, scope ids.ScopeID) ids.HirID {
	if n == nil {
		return l.db.AllocHir(hir.Unknown{})
	}

	switch n.Kind {
	case parser.LiteralExpr:
		return l.lowerLiteral(n, scope)
	case parser.ParenExpr:
		return l.lowerExpr(n.FirstExpr(), scope)
	case parser.ListExpr:
		var items []ids.HirID
		for _, it := range n.ListItems() {
			items = append(items, l.lowerExpr(it, scope))
		}
		return l.db.AllocHir(hir.List{Items: items})
	case parser.IfExpr:
		cond, then, els := n.IfParts()
		c := l.lowerExpr(cond, scope)
		t := l.lowerBlock(then, scope)
		e := l.lowerBlock(els, scope)
		return l.db.AllocHir(hir.If{Cond: c, Then: t, Else: e})
	case parser.PrefixExpr:
		v := l.lowerExpr(n.PrefixOperand(), scope)
		return l.db.AllocHir(hir.Not{Value: v})
	case parser.BinaryExpr:
		return l.lowerBinary(n, scope)
	case parser.FunctionCall:
		return l.lowerCall(n, scope)
	case parser.IndexExpr:
		return l.lowerIndex(n, scope)
	default:
		l.errorf(TypeMismatch, n, "unsupported expression")
		return l.db.AllocHir(hir.Unknown{})
	}
}

func (l *lowerer) lowerLiteral(n *cst.Node, scope ids.ScopeID) ids.HirID {
	if tok, ok := n.FindToken(lexer.Int); ok {
		text := string(tok.Text(l.source))
		val, ok := new(big.Int).SetString(text, 10)
		if !ok {
			l.errorf(TypeMismatch, n, "invalid integer literal %q", text)
			return l.db.AllocHir(hir.Unknown{})
		}
		return l.db.AllocHir(hir.Atom{Bytes: cell.EncodeInt(val)})
	}
	if tok, ok := n.FindToken(lexer.String); ok {
		text := tok.Text(l.source)
		// Strip the surrounding quotes; an unterminated string still has
		// an opening quote to strip and nothing to close, handled the
		// same way since the lexer already flagged it and the parser
		// already raised a ParseError for it.
		if len(text) >= 1 && text[0] == '"' {
			text = text[1:]
		}
		if len(text) >= 1 && text[len(text)-1] == '"' {
			text = text[:len(text)-1]
		}
		return l.db.AllocHir(hir.Atom{Bytes: append([]byte(nil), text...)})
	}
	if _, ok := n.FindToken(lexer.True); ok {
		return l.db.AllocHir(hir.Atom{Bytes: cell.EncodeInt(big.NewInt(1))})
	}
	if _, ok := n.FindToken(lexer.False); ok {
		return l.db.AllocHir(hir.Atom{Bytes: nil})
	}
	if _, ok := n.FindToken(lexer.Nil); ok {
		return l.db.AllocHir(hir.Atom{Bytes: nil})
	}
	if name, ok := n.IdentText(l.source); ok {
		sym, found := l.resolve(scope, name)
		if !found {
			l.suggestUnresolved(n, scope, name)
			return l.db.AllocHir(hir.Unknown{})
		}
		l.db.MarkUsed(scope, sym)
		return l.db.AllocHir(hir.Reference{Symbol: sym})
	}
	l.errorf(TypeMismatch, n, "unrecognized literal")
	return l.db.AllocHir(hir.Unknown{})
}

func (l *lowerer) suggestUnresolved(n *cst.Node, scope ids.ScopeID, name string) {
	candidates := l.visibleNames(scope)
	if ranked := fuzzy.RankFindFold(name, candidates); len(ranked) > 0 {
		l.errorf(UnresolvedName, n, "unresolved name %q; did you mean %q?", name, ranked[0].Target)
		return
	}
	l.errorf(UnresolvedName, n, "unresolved name %q", name)
}

var binaryOps = map[lexer.Kind]hir.Operator{
	lexer.Plus:    hir.Add,
	lexer.Minus:   hir.Sub,
	lexer.Star:    hir.Mul,
	lexer.Slash:   hir.Div,
	lexer.Percent: hir.Rem,
	lexer.Lt:      hir.Lt,
	lexer.Gt:      hir.Gt,
	lexer.LtEq:    hir.LtEq,
	lexer.GtEq:    hir.GtEq,
	lexer.EqEq:    hir.Eq,
	lexer.NotEq:   hir.NotEq,
}

func (l *lowerer) lowerBinary(n *cst.Node, scope ids.ScopeID) ids.HirID {
	left, right := n.BinaryOperands()
	lhs := l.lowerExpr(left, scope)
	rhs := l.lowerExpr(right, scope)
	opTok, ok := n.Operator()
	if !ok {
		l.errorf(TypeMismatch, n, "missing binary operator")
		return l.db.AllocHir(hir.Unknown{})
	}
	op, ok := binaryOps[opTok]
	if !ok {
		l.errorf(TypeMismatch, n, "unsupported binary operator")
		return l.db.AllocHir(hir.Unknown{})
	}
	return l.db.AllocHir(hir.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs})
}

func (l *lowerer) lowerCall(n *cst.Node, scope ids.ScopeID) ids.HirID {
	calleeNode := n.Callee()
	callee := l.lowerExpr(calleeNode, scope)

	var args []ids.HirID
	for _, a := range n.CallArgs() {
		args = append(args, l.lowerExpr(a, scope))
	}

	if ref, ok := l.db.Hir(callee).(hir.Reference); ok {
		if fn, ok := l.db.Symbol(ref.Symbol).(*symtab.Function); ok && fn.Type != nil {
			if len(fn.Type.Params) != len(args) {
				l.errorf(ArityMismatch, n, "%s expects %d argument(s), got %d",
					fn.SymName, len(fn.Type.Params), len(args))
			}
		}
	}

	return l.db.AllocHir(hir.FunctionCall{Callee: callee, Args: args})
}

func (l *lowerer) lowerIndex(n *cst.Node, scope ids.ScopeID) ids.HirID {
	target := l.lowerExpr(n.IndexTarget(), scope)

	idxNode := n.IndexValue()
	if idxNode == nil || idxNode.Kind != parser.LiteralExpr {
		l.errorf(TypeMismatch, n, "list index must be a literal integer")
		return l.db.AllocHir(hir.Unknown{})
	}
	tok, ok := idxNode.FindToken(lexer.Int)
	if !ok {
		l.errorf(TypeMismatch, n, "list index must be a literal integer")
		return l.db.AllocHir(hir.Unknown{})
	}
	idx, ok := new(big.Int).SetString(string(tok.Text(l.source)), 10)
	if !ok || idx.Sign() < 0 {
		l.errorf(TypeMismatch, n, "list index must be a non-negative integer literal")
		return l.db.AllocHir(hir.Unknown{})
	}

	return l.db.AllocHir(hir.ListIndex{Value: target, Index: idx})
}
