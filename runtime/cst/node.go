// Package cst replays a runtime/parser.ParseTree's flat Event stream into a
// navigable tree and offers typed accessors over it for runtime/lower,
// rather than asking every downstream consumer to walk raw Events. Shaped
// on opal-lang-opal/core/ast/ast.go's Node-interface-with-accessors
// approach, adapted to this grammar's node kinds.
package cst

import (
	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/parser"
)

// Element is a child of a Node: either another Node or a leaf Token.
type Element interface{ isElement() }

// Token is a leaf in the tree: a lexer token attached at its position in
// the grammar, trivia included.
type Token struct {
	Kind  lexer.Kind
	Range lexer.Range
	Flags lexer.Flag
}

func (Token) isElement() {}

// Text returns the exact source substring the token covers.
func (t Token) Text(source []byte) []byte { return source[t.Range.Start:t.Range.End] }

// Node is an interior tree node for one grammar production.
type Node struct {
	Kind     parser.NodeKind
	Children []Element
}

func (*Node) isElement() {}

// Find returns the first direct child Node of the given kind.
func (n *Node) Find(kind parser.NodeKind) *Node {
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child.Kind == kind {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child Node of the given kind, in order.
func (n *Node) FindAll(kind parser.NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok && child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// FindToken returns the first direct child Token of the given kind.
func (n *Node) FindToken(kind lexer.Kind) (Token, bool) {
	for _, c := range n.Children {
		if tok, ok := c.(Token); ok && tok.Kind == kind {
			return tok, true
		}
	}
	return Token{}, false
}

// ChildNodes returns every direct child that is a Node (skipping tokens),
// in order: the grammar-significant children, e.g. a Block's statements
// and trailing expression, or a ListExpr's items.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Range returns the byte range spanned by every token reachable under n,
// trivia included. Diagnostics that need to reference "the originating CST
// node" (spec.md §7) use this rather than carrying their own range.
func (n *Node) Range() lexer.Range {
	start, end := -1, -1
	var walk func(Element)
	walk = func(e Element) {
		switch v := e.(type) {
		case Token:
			if start == -1 {
				start = v.Range.Start
			}
			end = v.Range.End
		case *Node:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, c := range n.Children {
		walk(c)
	}
	if start == -1 {
		return lexer.Range{}
	}
	return lexer.Range{Start: start, End: end}
}

// IdentText returns the text of the node's first direct Ident token.
func (n *Node) IdentText(source []byte) (string, bool) {
	tok, ok := n.FindToken(lexer.Ident)
	if !ok {
		return "", false
	}
	return string(tok.Text(source)), true
}

var exprKinds = map[parser.NodeKind]bool{
	parser.LiteralExpr:     true,
	parser.ListExpr:        true,
	parser.ParenExpr:       true,
	parser.IfExpr:          true,
	parser.FunctionCall:    true,
	parser.IndexExpr:       true,
	parser.BinaryExpr:      true,
	parser.PrefixExpr:      true,
}

// IsExpr reports whether n is one of the expression node kinds.
func (n *Node) IsExpr() bool { return n != nil && exprKinds[n.Kind] }

// FirstExpr returns the first direct child Node that is an expression.
func (n *Node) FirstExpr() *Node {
	for _, c := range n.ChildNodes() {
		if c.IsExpr() {
			return c
		}
	}
	return nil
}

// Exprs returns every direct child Node that is an expression, in order.
func (n *Node) Exprs() []*Node {
	var out []*Node
	for _, c := range n.ChildNodes() {
		if c.IsExpr() {
			out = append(out, c)
		}
	}
	return out
}
