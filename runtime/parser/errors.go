package parser

import (
	"fmt"
	"strings"

	"kodelang.dev/cellc/runtime/lexer"
)

// ParseError is a single recoverable parse diagnostic: a source range, a
// human-readable message, and (when applicable) what was expected versus
// what was actually found. Styled on
// opal-lang-opal/runtime/parser/tree.go's ParseError.
type ParseError struct {
	Range    lexer.Range
	Message  string
	Expected []lexer.Kind
	Got      lexer.Kind
}

func (e ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s at byte %d", e.Message, e.Range.Start)
	}
	parts := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		parts[i] = k.String()
	}
	return fmt.Sprintf("expected %s, got %s at byte %d", strings.Join(parts, " or "), e.Got, e.Range.Start)
}
