package pattern

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

func buildSpace() *space.Space {
	sp := space.New()
	sp.Link(atom.MemberT, sp.Node(atom.ConceptT, "sea"), sp.Node(atom.ConceptT, "beach"))
	sp.Link(atom.MemberT, sp.Node(atom.ConceptT, "sand"), sp.Node(atom.ConceptT, "beach"))
	sp.Link(atom.InheritanceT, sp.Node(atom.ConceptT, "beach"), sp.Node(atom.ConceptT, "place"))
	return sp
}

func typedDecl(name, typeName string) VarDecl {
	return VarDecl{Var: atom.Var(name), TypeSpec: atom.NewNode(atom.TypeNodeT, typeName)}
}

func tupleNames(tuples [][]*atom.Atom) []string {
	var out []string
	for _, tup := range tuples {
		s := ""
		for _, a := range tup {
			s += a.Name + "/"
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func TestSingleVariableSearch(t *testing.T) {
	sp := buildSpace()
	x := atom.Var("X")
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Concept")},
		[]*atom.Atom{atom.NewLink(atom.PresentT,
			atom.NewLink(atom.MemberT, x, atom.NewNode(atom.ConceptT, "beach")))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/", "sea/"}, tupleNames(tuples))
}

func TestMultiVariableSearch(t *testing.T) {
	sp := buildSpace()
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Concept"), typedDecl("Y", "Concept")},
		[]*atom.Atom{atom.NewLink(atom.PresentT,
			atom.NewLink(atom.MemberT, atom.Var("X"), atom.Var("Y")))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/beach/", "sea/beach/"}, tupleNames(tuples))
}

func TestConjunctionSharesBindings(t *testing.T) {
	// X must be a member of Y and Y must inherit from place; only
	// Y=beach satisfies both.
	sp := buildSpace()
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Concept"), typedDecl("Y", "Concept")},
		[]*atom.Atom{
			atom.NewLink(atom.PresentT,
				atom.NewLink(atom.MemberT, atom.Var("X"), atom.Var("Y")),
				atom.NewLink(atom.InheritanceT, atom.Var("Y"), atom.NewNode(atom.ConceptT, "place"))),
		})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/beach/", "sea/beach/"}, tupleNames(tuples))
}

func TestTypeSpecFiltersGroundings(t *testing.T) {
	sp := buildSpace()
	sp.Link(atom.MemberT, sp.Node(atom.PredicateT, "odd"), sp.Node(atom.ConceptT, "beach"))

	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Predicate")},
		[]*atom.Atom{atom.NewLink(atom.PresentT,
			atom.NewLink(atom.MemberT, atom.Var("X"), atom.NewNode(atom.ConceptT, "beach")))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"odd/"}, tupleNames(tuples))
}

func TestBareVariableGroundsOverTypedAtoms(t *testing.T) {
	sp := buildSpace()
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Inheritance")},
		[]*atom.Atom{atom.NewLink(atom.PresentT, atom.Var("X"))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	assert.Equal(t, atom.InheritanceT, tuples[0][0].Type)
}

func TestEvaluatableGreaterThan(t *testing.T) {
	sp := space.New()
	for _, n := range []string{"1", "5", "10"} {
		sp.Node(atom.NumberT, n)
	}
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Number")},
		[]*atom.Atom{atom.NewLink(atom.GreaterThanT, atom.Var("X"), atom.NewNode(atom.NumberT, "4"))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"10/", "5/"}, tupleNames(tuples))
}

func TestAbsentClause(t *testing.T) {
	sp := buildSpace()
	spec, err := NewSpec(
		[]VarDecl{typedDecl("X", "Concept")},
		[]*atom.Atom{
			atom.NewLink(atom.PresentT,
				atom.NewLink(atom.MemberT, atom.Var("X"), atom.NewNode(atom.ConceptT, "beach"))),
			atom.NewLink(atom.AbsentT,
				atom.NewLink(atom.InheritanceT, atom.Var("X"), atom.NewNode(atom.ConceptT, "place"))),
		})
	require.NoError(t, err)

	// Neither sea nor sand inherits from place, so both survive.
	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/", "sea/"}, tupleNames(tuples))

	// Add the fact for sea and it drops out.
	sp.Link(atom.InheritanceT, sp.Node(atom.ConceptT, "sea"), sp.Node(atom.ConceptT, "place"))
	tuples, err = Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/"}, tupleNames(tuples))
}

func TestQuotedSubtreeMatchesLiterally(t *testing.T) {
	sp := space.New()
	v := atom.Var("X")
	sp.Link(atom.ListT, v) // a stored atom containing a variable

	spec, err := NewSpec(
		[]VarDecl{typedDecl("Y", "List")},
		[]*atom.Atom{atom.NewLink(atom.PresentT,
			atom.NewLink(atom.ListT, atom.NewLink(atom.QuoteT, v)))})
	require.NoError(t, err)

	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	// The quoted X matches the stored variable literally; Y itself is
	// unconstrained by the clause and the assignment stays incomplete.
	assert.Empty(t, tuples)
}

func TestNoVariablesRejected(t *testing.T) {
	_, err := NewSpec(nil, nil)
	assert.ErrorIs(t, err, ErrNoVariables)
}

func TestUnknownClauseRejected(t *testing.T) {
	_, err := NewSpec(
		[]VarDecl{typedDecl("X", "Concept")},
		[]*atom.Atom{atom.NewLink(atom.ListT, atom.Var("X"))})
	assert.ErrorIs(t, err, ErrUnknownClause)
}

func TestDuplicateAssignmentsCollapse(t *testing.T) {
	sp := buildSpace()
	spec, err := NewSpec(
		[]VarDecl{typedDecl("Y", "Concept")},
		[]*atom.Atom{atom.NewLink(atom.PresentT,
			atom.NewLink(atom.MemberT, atom.Var("X"), atom.Var("Y")))})
	require.NoError(t, err)

	// Y=beach arises from two Member links but is emitted once. X is
	// undeclared, so it unifies freely without entering the tuple.
	tuples, err := Execute(spec, sp)
	require.NoError(t, err)
	assert.Equal(t, []string{"beach/"}, tupleNames(tuples))
}
