// Package compiler orchestrates one compile end to end: lex, parse, lower,
// optimize, codegen, gating each stage on the previous one's diagnostics
// per spec.md §7's propagation policy. It owns no algorithm of its own —
// every stage lives in its own runtime/ package — this package is purely
// sequencing and diagnostic aggregation, grounded on how
// opal-lang-opal/cli/main.go drives its own planner/compile pipeline
// stage by stage before ever touching output.
package compiler

import (
	"kodelang.dev/cellc/core/cell"
	"kodelang.dev/cellc/core/db"
	"kodelang.dev/cellc/runtime/codegen"
	"kodelang.dev/cellc/runtime/cst"
	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/lower"
	"kodelang.dev/cellc/runtime/optimize"
	"kodelang.dev/cellc/runtime/parser"
)

// Stage identifies which pipeline phase a Diagnostic originated from.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageLower
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageLower:
		return "lower"
	default:
		return "unknown"
	}
}

// Diagnostic is one user-visible (kind, range) pair, spec.md §7's uniform
// shape for everything short of an internal invariant violation.
type Diagnostic struct {
	Stage   Stage
	Kind    string
	Message string
	Range   lexer.Range
}

// Result is everything a compile produced. Program is nil whenever
// Diagnostics is non-empty, since codegen only runs once every earlier
// stage is clean.
type Result struct {
	Diagnostics []Diagnostic
	Database    *db.Database
	Program     cell.Tree
}

// Compile runs the full pipeline over source, stopping at the first stage
// that reports a diagnostic: a parse error skips lowering, a lowering error
// skips codegen, matching spec.md §7 exactly.
func Compile(source []byte, parserOpts ...parser.Option) *Result {
	tree := parser.Parse(source, parserOpts...)

	diags := lexDiagnostics(tree.Tokens)
	diags = append(diags, parseDiagnostics(tree.Errors)...)
	if len(diags) > 0 {
		return &Result{Diagnostics: diags}
	}

	root := cst.Build(tree)
	database := db.New()
	lowered, lowerErrs := lower.Lower(database, root, tree.Source)
	if len(lowerErrs) > 0 {
		return &Result{Diagnostics: lowerDiagnostics(lowerErrs), Database: database}
	}

	mainLir := optimize.OptimizeMain(database, lowered.Main)
	program := codegen.Generate(database, mainLir)

	return &Result{Database: database, Program: program}
}

// lexDiagnostics surfaces unterminated strings/block comments and unknown
// bytes: lex never halts (spec.md §4.1), so these are read back off token
// flags rather than an error list the lexer itself never produces.
func lexDiagnostics(tokens []lexer.Token) []Diagnostic {
	var out []Diagnostic
	for _, tok := range tokens {
		switch {
		case tok.Kind == lexer.Unknown:
			out = append(out, Diagnostic{Stage: StageLex, Kind: "unknown byte", Message: "unrecognized byte", Range: tok.Range})
		case tok.HasFlag(lexer.FlagUnterminated) && tok.Kind == lexer.String:
			out = append(out, Diagnostic{Stage: StageLex, Kind: "unterminated string", Message: "string literal is never closed", Range: tok.Range})
		case tok.HasFlag(lexer.FlagUnterminated) && tok.Kind == lexer.BlockComment:
			out = append(out, Diagnostic{Stage: StageLex, Kind: "unterminated block comment", Message: "block comment is never closed", Range: tok.Range})
		}
	}
	return out
}

func parseDiagnostics(errs []parser.ParseError) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{Stage: StageParse, Kind: "parse error", Message: e.Error(), Range: e.Range}
	}
	return out
}

func lowerDiagnostics(errs []lower.Error) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{Stage: StageLower, Kind: lowerKindName(e.Kind), Message: e.Message, Range: e.Range}
	}
	return out
}

func lowerKindName(k lower.ErrorKind) string {
	switch k {
	case lower.UnresolvedName:
		return "unresolved name"
	case lower.ArityMismatch:
		return "arity mismatch"
	case lower.TypeMismatch:
		return "type mismatch"
	default:
		return "lowering error"
	}
}
