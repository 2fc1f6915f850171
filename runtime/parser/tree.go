package parser

import "kodelang.dev/cellc/runtime/lexer"

// ParseTree is the flat result of Parse: the token stream it was built
// from, the Event stream describing its nesting, and any ParseErrors
// accumulated along the way. runtime/cst replays Events into a navigable
// tree; nothing here requires that replay to exist.
type ParseTree struct {
	Source []byte
	Tokens []lexer.Token
	Events []Event
	Errors []ParseError
}

// Text concatenates the text of every token event in the tree, in order.
// Per spec.md §8 invariant 1 this must equal Source exactly for any input.
func (t *ParseTree) Text() []byte {
	var out []byte
	for _, ev := range t.Events {
		if ev.Kind == EventToken {
			out = append(out, t.Tokens[ev.TokenIdx].Text(t.Source)...)
		}
	}
	return out
}
