// Package symtab holds the Symbol and Scope data model: the tagged variants
// and predicates spec.md §3 describes, grounded on
// original_source/rue-compiler/src/symbol.rs.
package symtab

import "kodelang.dev/cellc/core/ids"

// Symbol is a closed tagged union over Function, Parameter, LetBinding and
// ConstBinding, matched exhaustively by callers via a type switch.
type Symbol interface {
	Name() string
	IsParameter() bool
	IsDefinition() bool
	IsCapturable() bool
}

// Function is a top-level (or, in principle, nested) function definition.
// Its body lives in a fresh nested scope; Type is its call signature.
type Function struct {
	SymName string
	ScopeID ids.ScopeID
	HirID   ids.HirID
	Type    *Type
}

func (f *Function) Name() string      { return f.SymName }
func (f *Function) IsParameter() bool { return false }
func (f *Function) IsDefinition() bool { return true }
func (f *Function) IsCapturable() bool { return true }

// Parameter is a function parameter, bound in the function's body scope.
type Parameter struct {
	SymName string
	Type    *Type
}

func (p *Parameter) Name() string       { return p.SymName }
func (p *Parameter) IsParameter() bool  { return true }
func (p *Parameter) IsDefinition() bool { return false }
func (p *Parameter) IsCapturable() bool { return true }

// LetBinding is a local value binding whose HIR is evaluated at runtime.
type LetBinding struct {
	SymName string
	Type    *Type
	HirID   ids.HirID
}

func (l *LetBinding) Name() string       { return l.SymName }
func (l *LetBinding) IsParameter() bool  { return false }
func (l *LetBinding) IsDefinition() bool { return true }
func (l *LetBinding) IsCapturable() bool { return true }

// ConstBinding is a compile-time substitution: its HIR body is spliced into
// every use site during optimization rather than allocated an environment
// slot. Never captured, never in env.
type ConstBinding struct {
	SymName string
	Type    *Type
	HirID   ids.HirID
}

func (c *ConstBinding) Name() string       { return c.SymName }
func (c *ConstBinding) IsParameter() bool  { return false }
func (c *ConstBinding) IsDefinition() bool { return false }
func (c *ConstBinding) IsCapturable() bool { return false }
