package ir

import "strings"

// Substitution is an ordered list of parameters, indexed by existential
// variable index: Parameters[i] is the value bound to variable i.
type Substitution struct {
	Parameters []Parameter
}

func (s Substitution) String() string {
	parts := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Clone returns a Substitution with its own backing slice, so appends to
// the copy never alias the original.
func (s Substitution) Clone() Substitution {
	params := make([]Parameter, len(s.Parameters))
	copy(params, s.Parameters)
	return Substitution{Parameters: params}
}

// ConstrainedSubst pairs a Substitution with the lifetime constraints that
// accompanied its derivation — the shape a canonical answer takes.
type ConstrainedSubst struct {
	Subst       Substitution
	Constraints []Constraint
}
