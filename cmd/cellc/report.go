package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"kodelang.dev/cellc/compiler"
	"kodelang.dev/cellc/core/cell"
)

// reportDiagnostics writes one line per diagnostic to w, translating each
// diagnostic's byte range into a 1-based line:column the way
// rue-cli/src/main.rs does for its own parse errors.
func reportDiagnostics(w io.Writer, source []byte, diagnostics []compiler.Diagnostic) {
	for _, d := range diagnostics {
		line, column := lineColumn(source, d.Range.Start)
		fmt.Fprintf(w, "%s at %d:%d\n", d.Kind, line, column)
	}
}

// lineColumn walks source once up to offset, counting newlines, matching
// rue-cli's own byte-by-byte scan rather than precomputing a line-index
// table the single-shot CLI has no reuse for.
func lineColumn(source []byte, offset int) (line, column int) {
	line, column = 1, 1
	if offset > len(source) {
		offset = len(source)
	}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// printProgram writes the compiled program's hex-encoded wire form, and,
// when evaluate is set, a second line with the hex-encoded result of
// evaluating it against an empty environment.
func printProgram(w io.Writer, result *compiler.Result, evaluate bool) error {
	if _, err := fmt.Fprintln(w, hex.EncodeToString(cell.Encode(result.Program))); err != nil {
		return err
	}
	if !evaluate {
		return nil
	}
	out, err := cell.Eval(result.Program, cell.Nil)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}
	_, err = fmt.Fprintln(w, hex.EncodeToString(cell.Encode(out)))
	return err
}
