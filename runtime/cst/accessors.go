package cst

import (
	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/parser"
)

// Items returns a Root node's top-level FunctionItem/ConstItem children, in
// source order.
func (n *Node) Items() []*Node {
	var out []*Node
	for _, c := range n.ChildNodes() {
		if c.Kind == parser.FunctionItem || c.Kind == parser.ConstItem {
			out = append(out, c)
		}
	}
	return out
}

// Params returns a FunctionItem's parameter list, in declaration order.
func (n *Node) Params() []*Node {
	list := n.Find(parser.FunctionParamList)
	if list == nil {
		return nil
	}
	return list.FindAll(parser.FunctionParam)
}

// ReturnType returns a FunctionItem's declared return type node (the Ty
// node that follows its '->').
func (n *Node) ReturnType() *Node {
	for _, c := range n.ChildNodes() {
		switch c.Kind {
		case parser.LiteralType, parser.FunctionType, parser.ListType:
			return c
		}
	}
	return nil
}

// ParamType is an alias for ReturnType: a FunctionParam's Ty node is found
// the same way (the first type-kind child).
func (n *Node) ParamType() *Node { return n.ReturnType() }

// Body returns a FunctionItem's Block.
func (n *Node) Body() *Node { return n.Find(parser.Block) }

// Stmts returns a Block's LetStmt children, in order.
func (n *Node) Stmts() []*Node { return n.FindAll(parser.LetStmt) }

// Tail returns a Block's trailing expression.
func (n *Node) Tail() *Node { return n.FirstExpr() }

// Operator returns a BinaryExpr's operator token kind: the first
// non-trivia, non-expression token among its direct children.
func (n *Node) Operator() (lexer.Kind, bool) {
	for _, c := range n.Children {
		tok, ok := c.(Token)
		if !ok || tok.Kind.IsTrivia() {
			continue
		}
		return tok.Kind, true
	}
	return lexer.Unknown, false
}

// BinaryOperands returns a BinaryExpr's (left, right) operand expressions.
func (n *Node) BinaryOperands() (left, right *Node) {
	exprs := n.Exprs()
	if len(exprs) != 2 {
		return nil, nil
	}
	return exprs[0], exprs[1]
}

// PrefixOperand returns a PrefixExpr's single operand.
func (n *Node) PrefixOperand() *Node { return n.FirstExpr() }

// Callee returns a FunctionCall's callee expression (everything before the
// FunctionCallArgs child).
func (n *Node) Callee() *Node { return n.FirstExpr() }

// CallArgs returns a FunctionCall's argument expressions, in order.
func (n *Node) CallArgs() []*Node {
	args := n.Find(parser.FunctionCallArgs)
	if args == nil {
		return nil
	}
	return args.Exprs()
}

// IndexTarget and IndexValue return an IndexExpr's target and index
// expressions respectively.
func (n *Node) IndexTarget() *Node {
	exprs := n.Exprs()
	if len(exprs) == 0 {
		return nil
	}
	return exprs[0]
}

func (n *Node) IndexValue() *Node {
	exprs := n.Exprs()
	if len(exprs) != 2 {
		return nil
	}
	return exprs[1]
}

// ListItems returns a ListExpr's element expressions, in order. It is a
// separate name from Root's Items because both are methods on the same
// *Node type; callers use this only on ListExpr nodes.
func (n *Node) ListItems() []*Node { return n.Exprs() }

// IfParts returns an IfExpr's (cond, then, else) pieces.
func (n *Node) IfParts() (cond, then, els *Node) {
	cond = n.FirstExpr()
	blocks := n.FindAll(parser.Block)
	if len(blocks) != 2 {
		return cond, nil, nil
	}
	return cond, blocks[0], blocks[1]
}

// ConstValue returns a ConstItem's value expression.
func (n *Node) ConstValue() *Node { return n.FirstExpr() }

// LetType and LetValue read a LetStmt's parts; LetType is nil when the
// binding has no declared type.
func (n *Node) LetType() *Node {
	for _, c := range n.ChildNodes() {
		switch c.Kind {
		case parser.LiteralType, parser.FunctionType, parser.ListType:
			return c
		}
	}
	return nil
}

func (n *Node) LetValue() *Node { return n.FirstExpr() }
