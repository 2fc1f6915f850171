package cst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/runtime/cst"
	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/parser"
)

func parseAndBuild(t *testing.T, src string) (*cst.Node, []byte) {
	t.Helper()
	tree := parser.Parse([]byte(src))
	require.Empty(t, tree.Errors, "unexpected parse errors for %q", src)
	root := cst.Build(tree)
	require.NotNil(t, root)
	require.Equal(t, parser.Root, root.Kind)
	return root, tree.Source
}

func TestBuildShapeForSimpleFunction(t *testing.T) {
	root, src := parseAndBuild(t, "fun main() -> Int { 1 + 2 }")

	items := root.Items()
	require.Len(t, items, 1)

	fn := items[0]
	require.Equal(t, parser.FunctionItem, fn.Kind)

	name, ok := fn.IdentText(src)
	require.True(t, ok)
	require.Equal(t, "main", name)

	require.Empty(t, fn.Params())

	ret := fn.ReturnType()
	require.NotNil(t, ret)
	require.Equal(t, parser.LiteralType, ret.Kind)

	body := fn.Body()
	require.NotNil(t, body)
	require.Equal(t, parser.Block, body.Kind)
	require.Empty(t, body.Stmts())

	tail := body.Tail()
	require.NotNil(t, tail)
	require.Equal(t, parser.BinaryExpr, tail.Kind)

	op, ok := tail.Operator()
	require.True(t, ok)
	require.Equal(t, lexer.Plus, op)

	left, right := tail.BinaryOperands()
	require.NotNil(t, left)
	require.NotNil(t, right)
	require.Equal(t, parser.LiteralExpr, left.Kind)
	require.Equal(t, parser.LiteralExpr, right.Kind)
}

func TestBuildShapeForFunctionCallAndParams(t *testing.T) {
	root, src := parseAndBuild(t, "fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")

	items := root.Items()
	require.Len(t, items, 2)

	add := items[0]
	params := add.Params()
	require.Len(t, params, 2)
	n0, _ := params[0].IdentText(src)
	n1, _ := params[1].IdentText(src)
	require.Equal(t, "a", n0)
	require.Equal(t, "b", n1)

	main := items[1]
	tail := main.Body().Tail()
	require.Equal(t, parser.FunctionCall, tail.Kind)

	callee := tail.Callee()
	require.NotNil(t, callee)
	calleeName, ok := callee.IdentText(src)
	require.True(t, ok)
	require.Equal(t, "add", calleeName)

	args := tail.CallArgs()
	require.Len(t, args, 2)
	require.Equal(t, parser.LiteralExpr, args[0].Kind)
	require.Equal(t, parser.LiteralExpr, args[1].Kind)
}

func TestBuildShapeForIndexAndLetAndConst(t *testing.T) {
	root, _ := parseAndBuild(t, "const limit: Int = 10;\nfun main() -> Int { let x = [10, 20, 30]; x[1] + limit }")

	items := root.Items()
	require.Len(t, items, 2)

	c := items[0]
	require.Equal(t, parser.ConstItem, c.Kind)
	require.NotNil(t, c.ConstValue())

	main := items[1]
	body := main.Body()
	stmts := body.Stmts()
	require.Len(t, stmts, 1)

	letStmt := stmts[0]
	require.Nil(t, letStmt.LetType())
	val := letStmt.LetValue()
	require.NotNil(t, val)
	require.Equal(t, parser.ListExpr, val.Kind)
	require.Len(t, val.ListItems(), 3)

	tail := body.Tail()
	require.Equal(t, parser.BinaryExpr, tail.Kind)
	left, _ := tail.BinaryOperands()
	require.Equal(t, parser.IndexExpr, left.Kind)

	target := left.IndexTarget()
	idx := left.IndexValue()
	require.NotNil(t, target)
	require.NotNil(t, idx)
	require.Equal(t, parser.LiteralExpr, idx.Kind)
}

func TestBuildShapeForIf(t *testing.T) {
	root, _ := parseAndBuild(t, "fun main() -> Int { if 1 < 2 { 10 } else { 20 } }")

	main := root.Items()[0]
	tail := main.Body().Tail()
	require.Equal(t, parser.IfExpr, tail.Kind)

	cond, then, els := tail.IfParts()
	require.Equal(t, parser.BinaryExpr, cond.Kind)
	require.NotNil(t, then)
	require.NotNil(t, els)
	require.Equal(t, parser.Block, then.Kind)
	require.Equal(t, parser.Block, els.Kind)
}

func TestBuildIncludesTriviaTokens(t *testing.T) {
	tree := parser.Parse([]byte("// a comment\nfun main() -> Int { 1 }"))
	root := cst.Build(tree)

	var sawComment bool
	var walk func(*cst.Node)
	walk = func(n *cst.Node) {
		for _, c := range n.Children {
			switch v := c.(type) {
			case cst.Token:
				if v.Kind == lexer.LineComment {
					sawComment = true
				}
			case *cst.Node:
				walk(v)
			}
		}
	}
	walk(root)
	require.True(t, sawComment, "trivia tokens must survive into the CST")
}
