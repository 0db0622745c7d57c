// Package join implements the join-query engine: given a declarative
// pattern over typed variables, it finds the minimal (or maximal) store
// atoms that structurally contain a grounding for every variable, then
// rewrites those containers by substituting the grounded material with
// the variables or their declared replacements.
//
// A Query is validated and compiled once at construction and is then
// immutable: it may be executed repeatedly, concurrently, and against
// different spaces. All per-execution state (the traversal bookkeeping and
// the transient search overlay) is created fresh inside Execute.
package join

import (
	"fmt"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/pattern"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// Kind selects the query variant: the infimum of the containment order
// (smallest containers) or the outermost roots.
type Kind int

const (
	// Minimal selects the supremum of the principal elements: the
	// smallest atoms containing a grounding for every variable.
	Minimal Kind = iota
	// Maximal widens each minimal container to its outermost roots,
	// the atoms with an empty incoming set.
	Maximal
)

// String returns the atom type name of the kind.
func (k Kind) String() string {
	if k == Maximal {
		return string(atom.MaximalJoinT)
	}
	return string(atom.MinimalJoinT)
}

// KindOf maps a join atom type to its Kind. The abstract Join type is
// private and yields ErrPrivateKind.
func KindOf(t atom.Type) (Kind, error) {
	switch t {
	case atom.MinimalJoinT:
		return Minimal, nil
	case atom.MaximalJoinT:
		return Maximal, nil
	case atom.JoinT:
		return 0, ErrPrivateKind
	}
	return 0, fmt.Errorf("%w: %s is not a join kind", ErrUnsupportedClause, t)
}

// Query is a compiled join query. Immutable after New.
type Query struct {
	kind  Kind
	space *space.Space // bound default, may be overridden per execution

	vars       []*atom.Atom       // declared order
	decls      []pattern.VarDecl  // vars with their type specs
	searchable []*atom.Atom       // Present and evaluatable clauses, synthesized included
	constTerms []*atom.Atom       // clauses with no free variables
	repls      [][2]*atom.Atom    // explicit from -> to pairs
	topTypes   []*atom.Atom       // container type constraints
	spec       *pattern.Spec      // nil when no variables are declared
}

// New validates, classifies, and compiles a join query. decl is a
// variable declaration (Variable, TypedVariable, or VariableList) or nil;
// with a nil decl the free variables of the body clauses are implicitly
// bound, untyped, in first-occurrence order. body holds the clauses.
// Construction errors leave the query unusable.
func New(sp *space.Space, kind Kind, decl *atom.Atom, body ...*atom.Atom) (*Query, error) {
	q := &Query{kind: kind, space: sp}

	if decl != nil {
		q.vars = atom.DeclaredVars(decl)
		for _, v := range q.vars {
			q.decls = append(q.decls, pattern.VarDecl{Var: v, TypeSpec: atom.DeclaredType(decl, v)})
		}
	} else {
		// Replacement sources and type constraints never introduce
		// bindings of their own.
		seen := make(atom.VarSet)
		for _, clause := range body {
			if clause.Type == atom.ReplacementT || atom.IsTypeSpec(clause.Type) {
				continue
			}
			for _, v := range atom.FreeVariableList(clause) {
				if seen.Has(v) {
					continue
				}
				seen.Add(v)
				q.vars = append(q.vars, v)
				q.decls = append(q.decls, pattern.VarDecl{Var: v})
			}
		}
	}

	if err := q.classify(body); err != nil {
		return nil, err
	}
	if err := q.compile(); err != nil {
		return nil, err
	}
	return q, nil
}

// FromAtom compiles a query from its atom form:
//
//	(MinimalJoin <decl> <clause>...)
//
// The first outgoing atom is taken as the variable declaration when it is
// one; otherwise every outgoing atom is a clause.
func FromAtom(sp *space.Space, a *atom.Atom) (*Query, error) {
	kind, err := KindOf(a.Type)
	if err != nil {
		return nil, err
	}
	var decl *atom.Atom
	body := a.Out
	if len(body) > 0 && isVarDecl(body[0]) {
		decl = body[0]
		body = body[1:]
	}
	return New(sp, kind, decl, body...)
}

func isVarDecl(a *atom.Atom) bool {
	switch a.Type {
	case atom.VariableT, atom.TypedVariableT, atom.VariableListT:
		return true
	}
	return false
}

// classify partitions the body clauses. Replacements are validated here:
// arity must be exactly 2 and the source must be a declared variable, so
// an unbound Replacement fails at construction and the query never runs.
func (q *Query) classify(body []*atom.Atom) error {
	declared := make(atom.VarSet)
	for _, v := range q.vars {
		declared.Add(v)
	}

	for _, clause := range body {
		switch {
		case clause.Type == atom.ReplacementT:
			if clause.Arity() != 2 {
				return fmt.Errorf("%w: got %d in %s", ErrBadReplacement, clause.Arity(), clause)
			}
			from := clause.Out[0]
			if !from.IsVariable() || !declared.Has(from) {
				return fmt.Errorf("%w: %s", ErrUnboundReplacement, clause)
			}
			q.repls = append(q.repls, [2]*atom.Atom{from, clause.Out[1]})

		case atom.IsTypeSpec(clause.Type):
			q.topTypes = append(q.topTypes, clause)

		case clause.Type == atom.PresentT || atom.IsEvaluatable(clause.Type):
			q.searchable = append(q.searchable, clause)

		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedClause, clause.Type)
		}
	}
	return nil
}

// compile splits searchable clauses into constant terms and grounding
// clauses, synthesizes presence for otherwise-unconstrained variables,
// and builds the immutable search spec.
func (q *Query) compile() error {
	covered := make(atom.VarSet)
	var grounding []*atom.Atom
	for _, clause := range q.searchable {
		fv := atom.FreeVariables(clause)
		if len(fv) == 0 {
			// A constant Present clause witnesses its payload atoms; a
			// constant evaluatable clause witnesses itself.
			if clause.Type == atom.PresentT {
				q.constTerms = append(q.constTerms, clause.Out...)
			} else {
				q.constTerms = append(q.constTerms, clause)
			}
			continue
		}
		grounding = append(grounding, clause)
		for k, v := range fv {
			covered[k] = v
		}
	}

	if len(q.vars) == 0 {
		return nil
	}

	// A declared variable absent from every clause still needs a
	// grounding; give it a bare presence requirement.
	for _, v := range q.vars {
		if !covered.Has(v) {
			grounding = append(grounding, atom.NewLink(atom.PresentT, v))
		}
	}

	spec, err := pattern.NewSpec(q.decls, grounding)
	if err != nil {
		return fmt.Errorf("compiling search: %w", err)
	}
	q.spec = spec
	return nil
}

// Kind returns the query variant.
func (q *Query) Kind() Kind { return q.kind }

// Vars returns the declared variables in order.
func (q *Query) Vars() []*atom.Atom { return q.vars }
