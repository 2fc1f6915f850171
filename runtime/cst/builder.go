package cst

import "kodelang.dev/cellc/runtime/parser"

// Build replays tree's flat Event stream into a nested Node tree rooted at
// the Root node. It never fails: Parse already guarantees a complete event
// stream even over malformed input.
func Build(tree *parser.ParseTree) *Node {
	var stack []*Node
	var root *Node

	for _, ev := range tree.Events {
		switch ev.Kind {
		case parser.EventOpen:
			n := &Node{Kind: ev.Node}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, n)
			}
			stack = append(stack, n)
		case parser.EventClose:
			root = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case parser.EventToken:
			tok := tree.Tokens[ev.TokenIdx]
			leaf := Token{Kind: tok.Kind, Range: tok.Range, Flags: tok.Flags}
			if len(stack) == 0 {
				// Trailing trivia and EOF arrive after Root has closed.
				root.Children = append(root.Children, leaf)
				continue
			}
			top := stack[len(stack)-1]
			top.Children = append(top.Children, leaf)
		}
	}

	return root
}
