// Package invariant provides contract assertions for this compiler.
//
// Assertions are a force multiplier for discovering bugs. Use Precondition
// to validate function arguments and caller expectations, and Invariant for
// internal consistency checks (arena bounds, exhaustive switch coverage,
// capture-set membership). All functions panic on violation — these are
// compiler bugs, not user errors; spec.md §7 treats them as fatal.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Use this to validate function arguments and caller expectations.
//
// Example:
//
//	func Process(data []byte) error {
//	    invariant.Precondition(len(data) > 0, "data must not be empty")
//	    // ... work ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Use this for arena-id bounds checks, exhaustive-switch defaults, and
// other internal consistency that a caller cannot violate from outside.
//
// Example:
//
//	invariant.Invariant(index >= 0, "symbol %v not found in environment", symbolID)
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// fail panics with a formatted message including call stack context.
func fail(kind, format string, args ...interface{}) {
	// Capture call stack (skip fail() and wrapper function)
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	// Build violation message
	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	// Add first frame for context (file:line where violation occurred)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
