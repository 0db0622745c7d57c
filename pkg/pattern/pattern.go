// Package pattern implements the grounding search engine: given a
// compiled conjunctive specification over typed variables, it finds every
// assignment of store atoms to variables that satisfies all clauses.
//
// A Spec is immutable once built and safe for concurrent Execute calls;
// each call keeps its own bindings. The search never writes to the space
// it runs against; callers may still hand it a transient overlay when
// they want scratch atoms of their own kept out of the base.
package pattern

import (
	"errors"
	"fmt"

	"github.com/duynguyendang/atomspace/pkg/atom"
)

var (
	// ErrNoVariables is returned when a Spec declares no variables.
	ErrNoVariables = errors.New("search spec has no variables")
	// ErrUnknownClause is returned for a clause the matcher cannot handle.
	ErrUnknownClause = errors.New("unknown clause kind")
)

// VarDecl is one declared search variable with an optional type spec.
type VarDecl struct {
	Var      *atom.Atom
	TypeSpec *atom.Atom // nil means untyped
}

// Spec is a compiled conjunctive search. Clauses are either presence
// templates (must be found in the store) or evaluatable clauses (checked
// once their variables are bound).
type Spec struct {
	Vars    []VarDecl
	present []*atom.Atom
	evals   []*atom.Atom
}

// NewSpec builds a Spec from declarations and clauses. Present-wrapped
// clauses are unwrapped to their payload; evaluatable clauses are kept
// verbatim and checked after grounding.
func NewSpec(vars []VarDecl, clauses []*atom.Atom) (*Spec, error) {
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}
	sp := &Spec{Vars: vars}
	for _, c := range clauses {
		switch {
		case c.Type == atom.PresentT:
			// Present may wrap several templates.
			if len(c.Out) == 0 {
				return nil, fmt.Errorf("%w: empty Present", ErrUnknownClause)
			}
			sp.present = append(sp.present, c.Out...)
		case atom.IsEvaluatable(c.Type):
			sp.evals = append(sp.evals, c)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownClause, c.Type)
		}
	}
	return sp, nil
}

// NumVars returns the declared variable count.
func (sp *Spec) NumVars() int { return len(sp.Vars) }

// typeSpecFor returns the declared type spec of v, or nil.
func (sp *Spec) typeSpecFor(v *atom.Atom) *atom.Atom {
	for _, d := range sp.Vars {
		if d.Var.Equals(v) {
			return d.TypeSpec
		}
	}
	return nil
}
