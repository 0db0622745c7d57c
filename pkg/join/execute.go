package join

import (
	"log/slog"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// Results is a finite, write-once collection of result atoms. It is
// populated synchronously during Execute and closed before Execute
// returns; no writes happen after close. Membership is deduplicated by
// interned identity and ordering carries no meaning.
type Results struct {
	atoms  []*atom.Atom
	seen   map[*atom.Atom]struct{}
	closed bool
}

func newResults() *Results {
	return &Results{seen: make(map[*atom.Atom]struct{})}
}

func (r *Results) push(a *atom.Atom) {
	if r.closed {
		panic("join: push on closed result stream")
	}
	if _, dup := r.seen[a]; dup {
		return
	}
	r.seen[a] = struct{}{}
	r.atoms = append(r.atoms, a)
}

func (r *Results) close() { r.closed = true }

// Closed reports whether the stream has been closed.
func (r *Results) Closed() bool { return r.closed }

// Len returns the number of distinct result atoms.
func (r *Results) Len() int { return len(r.atoms) }

// Atoms returns the result atoms. The slice is owned by the stream;
// callers must not mutate it.
func (r *Results) Atoms() []*atom.Atom { return r.atoms }

// Contains reports membership by structural identity.
func (r *Results) Contains(a *atom.Atom) bool {
	for _, x := range r.atoms {
		if x.Equals(a) {
			return true
		}
	}
	return false
}

// containers runs the selection pipeline: resolve groundings, close
// upward, reduce to the supremum, widen to roots for the maximal kind,
// and apply the top-level type constraints.
func (q *Query) containers(sp *space.Space, trav *traverse) (map[*atom.Atom]struct{}, error) {
	princes, err := q.principals(sp, trav)
	if err != nil {
		return nil, err
	}

	selected := supremum(q.upperSet(sp, trav, princes))

	if q.kind == Maximal {
		tops := make(map[*atom.Atom]struct{})
		for h := range selected {
			findTop(sp, h, tops)
		}
		selected = tops
	}

	return q.constrain(selected), nil
}

// Containers returns the selected container atoms before substitution.
// Useful for inspection; Execute is the full pipeline.
func (q *Query) Containers(sp *space.Space) ([]*atom.Atom, error) {
	if sp == nil {
		sp = q.space
	}
	selected, err := q.containers(sp, newTraverse(len(q.vars)))
	if err != nil {
		return nil, err
	}
	out := make([]*atom.Atom, 0, len(selected))
	for h := range selected {
		out = append(out, h)
	}
	return out, nil
}

// Execute runs the query against sp, or against the query's bound space
// when sp is nil. Each call owns a fresh traversal context and search
// overlay; a compiled query may execute concurrently. Search and store
// failures propagate unchanged. Every result atom is interned into the
// effective space before the stream is closed and returned.
func (q *Query) Execute(sp *space.Space) (*Results, error) {
	if sp == nil {
		sp = q.space
	}

	trav := newTraverse(len(q.vars))
	containers, err := q.containers(sp, trav)
	if err != nil {
		return nil, err
	}

	if err := q.fixupReplacements(trav); err != nil {
		return nil, err
	}

	results := newResults()
	for h := range containers {
		rewritten := atom.Substitute(h, trav.replace)
		results.push(sp.Add(rewritten))
	}
	results.close()

	slog.Debug("join executed",
		"kind", q.kind.String(),
		"containers", len(containers),
		"results", results.Len(),
	)
	return results, nil
}
