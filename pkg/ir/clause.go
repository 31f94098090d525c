package ir

import "strings"

// ProgramClauseImplication is consequence :- conditions: proving every
// condition establishes the consequence.
type ProgramClauseImplication struct {
	Consequence DomainGoal
	Conditions  []Goal
}

func (i ProgramClauseImplication) String() string {
	if len(i.Conditions) == 0 {
		return i.Consequence.String()
	}
	parts := make([]string, len(i.Conditions))
	for j, c := range i.Conditions {
		parts[j] = c.String()
	}
	return i.Consequence.String() + " :- " + strings.Join(parts, ", ")
}

// ProgramClause is a universally quantified implication: the clause's own
// binders describe variables shared between its consequence and its
// conditions.
type ProgramClause = Binders[ProgramClauseImplication]
