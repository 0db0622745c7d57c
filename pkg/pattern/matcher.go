package pattern

import (
	"fmt"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// Evaluator decides the truth of a grounded evaluatable clause.
type Evaluator interface {
	Evaluate(sp *space.Space, grounded *atom.Atom) (bool, error)
}

// Execute runs the spec against sp with the default evaluator and returns
// every satisfying assignment as an ordered tuple, one atom per declared
// variable. Tuples are deduplicated; ordering is unspecified.
func Execute(spec *Spec, sp *space.Space) ([][]*atom.Atom, error) {
	return ExecuteWith(spec, sp, DefaultEvaluator{})
}

// ExecuteWith runs the spec with a caller-supplied evaluator.
func ExecuteWith(spec *Spec, sp *space.Space, ev Evaluator) ([][]*atom.Atom, error) {
	m := &matcher{spec: spec, sp: sp, ev: ev, bind: map[string]*atom.Atom{}, seen: map[string]bool{}}
	if err := m.solvePresent(0); err != nil {
		return nil, err
	}
	return m.results, nil
}

type matcher struct {
	spec    *Spec
	sp      *space.Space
	ev      Evaluator
	bind    map[string]*atom.Atom // variable key -> grounding
	seen    map[string]bool
	results [][]*atom.Atom
}

// solvePresent grounds presence templates depth-first; once all are
// satisfied it moves on to the evaluatable clauses.
func (m *matcher) solvePresent(i int) error {
	if i == len(m.spec.present) {
		return m.solveEvals(0)
	}
	tmpl := m.spec.present[i]
	candidates := m.candidates(tmpl)
	for _, c := range candidates {
		undo := m.unify(tmpl, c)
		if undo == nil {
			continue
		}
		if err := m.solvePresent(i + 1); err != nil {
			return err
		}
		undo()
	}
	return nil
}

// solveEvals binds any variables that occur only in evaluatable clauses,
// then checks the clauses against the evaluator.
func (m *matcher) solveEvals(i int) error {
	if i == len(m.spec.evals) {
		return m.emit()
	}
	clause := m.spec.evals[i]
	if v := m.firstUnbound(clause); v != nil {
		spec := m.spec.typeSpecFor(v)
		var err error
		m.sp.ForEach(func(c *atom.Atom) bool {
			if !m.groundable(c, spec) {
				return true
			}
			m.bind[v.Key()] = c
			err = m.solveEvals(i)
			delete(m.bind, v.Key())
			return err == nil
		})
		return err
	}

	// The grounded clause stays un-interned: presence checks inside the
	// evaluator must see the store as it is, not with the clause (and its
	// children) freshly inserted.
	grounded := m.instantiate(clause)
	ok, err := m.ev.Evaluate(m.sp, grounded)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", clause.Type, err)
	}
	if !ok {
		return nil
	}
	return m.solveEvals(i + 1)
}

// emit records the current assignment as a result tuple. Variables left
// unbound make the assignment incomplete and it is dropped.
func (m *matcher) emit() error {
	tuple := make([]*atom.Atom, len(m.spec.Vars))
	key := ""
	for i, d := range m.spec.Vars {
		g, ok := m.bind[d.Var.Key()]
		if !ok {
			return nil
		}
		tuple[i] = g
		key += g.Key() + "\x00"
	}
	if m.seen[key] {
		return nil
	}
	m.seen[key] = true
	m.results = append(m.results, tuple)
	return nil
}

// candidates enumerates store atoms that could match tmpl. A bare
// variable template matches any groundable atom of its declared type;
// a link template matches links of the same type and arity.
func (m *matcher) candidates(tmpl *atom.Atom) []*atom.Atom {
	var out []*atom.Atom
	if tmpl.IsVariable() {
		if g, ok := m.bind[tmpl.Key()]; ok {
			return []*atom.Atom{g}
		}
		spec := m.spec.typeSpecFor(tmpl)
		m.sp.ForEach(func(c *atom.Atom) bool {
			if m.groundable(c, spec) {
				out = append(out, c)
			}
			return true
		})
		return out
	}
	if tmpl.IsNode() {
		if c := m.sp.Get(tmpl); c != nil {
			out = append(out, c)
		}
		return out
	}
	m.sp.ForEach(func(c *atom.Atom) bool {
		if c.Type == tmpl.Type && c.Arity() == tmpl.Arity() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// groundable reports whether c can serve as a variable grounding: it must
// be closed (no free variables), not itself a variable, and pass the
// declared type spec when present.
func (m *matcher) groundable(c *atom.Atom, spec *atom.Atom) bool {
	if c.IsVariable() {
		return false
	}
	if len(atom.FreeVariables(c)) != 0 {
		return false
	}
	if spec != nil && !atom.ValueIsType(spec, c) {
		return false
	}
	return true
}

// unify matches tmpl against candidate under the current bindings. On
// success it returns an undo closure releasing the bindings it added; on
// failure it returns nil.
func (m *matcher) unify(tmpl, c *atom.Atom) func() {
	var added []string
	if m.unifyRec(tmpl, c, &added) {
		return func() {
			for _, k := range added {
				delete(m.bind, k)
			}
		}
	}
	for _, k := range added {
		delete(m.bind, k)
	}
	return nil
}

func (m *matcher) unifyRec(tmpl, c *atom.Atom, added *[]string) bool {
	if tmpl.IsVariable() {
		if g, ok := m.bind[tmpl.Key()]; ok {
			return g == c || g.Equals(c)
		}
		if !m.groundable(c, m.spec.typeSpecFor(tmpl)) {
			return false
		}
		m.bind[tmpl.Key()] = c
		*added = append(*added, tmpl.Key())
		return true
	}
	// Quoted subtrees match literally; variables inside are not bound.
	if tmpl.Type == atom.QuoteT && len(tmpl.Out) == 1 {
		return tmpl.Out[0].Equals(c)
	}
	if tmpl.IsNode() {
		return tmpl.Equals(c)
	}
	if tmpl.Type != c.Type || tmpl.Arity() != c.Arity() {
		return false
	}
	for i := range tmpl.Out {
		if !m.unifyRec(tmpl.Out[i], c.Out[i], added) {
			return false
		}
	}
	return true
}

// firstUnbound returns the first free variable in clause lacking a
// binding, or nil.
func (m *matcher) firstUnbound(clause *atom.Atom) *atom.Atom {
	for _, v := range atom.FreeVariables(clause) {
		if _, ok := m.bind[v.Key()]; !ok {
			return v
		}
	}
	return nil
}

// instantiate substitutes current bindings into clause.
func (m *matcher) instantiate(clause *atom.Atom) *atom.Atom {
	if len(m.bind) == 0 {
		return clause
	}
	mapping := make(map[*atom.Atom]*atom.Atom, len(m.bind))
	for _, d := range m.spec.Vars {
		if g, ok := m.bind[d.Var.Key()]; ok {
			mapping[d.Var] = g
		}
	}
	return atom.Substitute(clause, mapping)
}

// DefaultEvaluator gives crisp semantics to the built-in evaluatable
// link types.
type DefaultEvaluator struct{}

// Evaluate implements Evaluator.
func (DefaultEvaluator) Evaluate(sp *space.Space, g *atom.Atom) (bool, error) {
	switch g.Type {
	case atom.EvaluationT:
		return sp.Contains(g), nil
	case atom.AbsentT:
		for _, c := range g.Out {
			if sp.Contains(c) {
				return false, nil
			}
		}
		return true, nil
	case atom.IdenticalT:
		if g.Arity() != 2 {
			return false, fmt.Errorf("Identical expects 2 atoms, got %d", g.Arity())
		}
		return g.Out[0].Equals(g.Out[1]), nil
	case atom.GreaterThanT:
		if g.Arity() != 2 {
			return false, fmt.Errorf("GreaterThan expects 2 atoms, got %d", g.Arity())
		}
		a, aok := g.Out[0].NumberValue()
		b, bok := g.Out[1].NumberValue()
		if !aok || !bok {
			return false, fmt.Errorf("GreaterThan expects Number atoms, got %s and %s", g.Out[0].Type, g.Out[1].Type)
		}
		return a > b, nil
	case atom.NotT:
		if g.Arity() != 1 {
			return false, fmt.Errorf("Not expects 1 atom, got %d", g.Arity())
		}
		ok, err := DefaultEvaluator{}.Evaluate(sp, g.Out[0])
		return !ok, err
	case atom.AndT:
		for _, c := range g.Out {
			ok, err := DefaultEvaluator{}.Evaluate(sp, c)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case atom.OrT:
		for _, c := range g.Out {
			ok, err := DefaultEvaluator{}.Evaluate(sp, c)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case atom.PresentT:
		for _, c := range g.Out {
			if !sp.Contains(c) {
				return false, nil
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownClause, g.Type)
}
