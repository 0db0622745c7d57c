package join

import (
	"fmt"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/pattern"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// traverse is the per-execution bookkeeping: the replace map pairs each
// grounded atom with the variable it answered (later repointed to the
// declared replacement), and the join map partitions the groundings by
// variable. Owned by exactly one Execute call, never shared.
type traverse struct {
	replace map[*atom.Atom]*atom.Atom
	joinMap []map[*atom.Atom]struct{}
	// consts holds the canonical constant-term atoms. Each one is a
	// witness class of its own when deciding join completeness.
	consts []*atom.Atom
}

func newTraverse(nvars int) *traverse {
	t := &traverse{
		replace: make(map[*atom.Atom]*atom.Atom),
		joinMap: make([]map[*atom.Atom]struct{}, nvars),
	}
	for i := range t.joinMap {
		t.joinMap[i] = make(map[*atom.Atom]struct{})
	}
	return t
}

// principals resolves the groundings of the query against sp and returns
// the principal elements: every grounding plus every constant term. With
// no declared variables there is nothing to search. The search itself
// runs against a transient overlay so scratch instantiations never reach
// sp; the overlay is discarded when this call returns.
func (q *Query) principals(sp *space.Space, trav *traverse) (map[*atom.Atom]struct{}, error) {
	princes := make(map[*atom.Atom]struct{})
	for _, ct := range q.constTerms {
		c := sp.Get(ct)
		if c == nil {
			c = ct
		}
		princes[c] = struct{}{}
		trav.consts = append(trav.consts, c)
	}
	if len(q.vars) == 0 {
		return princes, nil
	}

	overlay := space.NewOverlay(sp)
	tuples, err := pattern.Execute(q.spec, overlay)
	if err != nil {
		return nil, fmt.Errorf("grounding search: %w", err)
	}

	for _, tuple := range tuples {
		for i, g := range tuple {
			princes[g] = struct{}{}
			// First binding wins; a grounding answering several
			// variables keeps its earliest pairing.
			if _, dup := trav.replace[g]; !dup {
				trav.replace[g] = q.vars[i]
			}
			trav.joinMap[i][g] = struct{}{}
		}
	}
	return princes, nil
}

// fixupReplacements repoints replace-map entries whose value matches a
// declared Replacement source to the replacement target. A Replacement
// whose source grounded nothing has no entry to repoint and is an error;
// no partial application happens before the error is raised.
func (q *Query) fixupReplacements(trav *traverse) error {
	for _, pair := range q.repls {
		from, to := pair[0], pair[1]
		found := false
		for g, v := range trav.replace {
			if v.Equals(from) {
				trav.replace[g] = to
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnboundReplacement, from)
		}
	}
	return nil
}
