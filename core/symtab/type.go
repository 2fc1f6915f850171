package symtab

import "strings"

// TypeKind distinguishes the shapes a Type can take. Type checking in this
// compiler is minimal (spec: "sufficient to lower... reject obviously
// malformed programs"), so Type carries just enough structure for arity and
// name checks, not a full inference system.
type TypeKind int

const (
	Named TypeKind = iota
	FunctionKind
	List
)

// Type is a simple, non-interned type value. Symbol variants that the
// original algorithm keys by TypeId carry a *Type directly instead; see
// DESIGN.md "No separate TypeId arena" for why interning was skipped.
type Type struct {
	Kind   TypeKind
	Name   string  // Named, e.g. "Int"
	Params []*Type // FunctionKind
	Return *Type   // FunctionKind
	Elem   *Type   // List
}

func NamedType(name string) *Type { return &Type{Kind: Named, Name: name} }

func FunctionType(params []*Type, ret *Type) *Type {
	return &Type{Kind: FunctionKind, Params: params, Return: ret}
}

func ListType(elem *Type) *Type { return &Type{Kind: List, Elem: elem} }

func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case Named:
		return t.Name
	case FunctionKind:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "fun(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
	case List:
		return t.Elem.String() + "[]"
	default:
		return "<unknown>"
	}
}

// Equal reports structural equality, used for arity/signature checks during
// lowering.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Named:
		return t.Name == other.Name
	case FunctionKind:
		if len(t.Params) != len(other.Params) || !t.Return.Equal(other.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return true
	case List:
		return t.Elem.Equal(other.Elem)
	default:
		return false
	}
}
