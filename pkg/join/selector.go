package join

import (
	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// upperSet unions the principal filters of every principal element, then
// discards containers that are not true joins. Every declared variable
// forms one witness class (its join-map set) and every constant term
// forms a singleton class; a container must hold a member of each class
// in its outgoing-reachable substructure. With a single class the check
// is vacuous and the union stands.
func (q *Query) upperSet(sp *space.Space, trav *traverse, princes map[*atom.Atom]struct{}) map[*atom.Atom]struct{} {
	containers := make(map[*atom.Atom]struct{})
	for p := range princes {
		principalFilter(sp, p, containers)
	}

	classes := make([]map[*atom.Atom]struct{}, 0, len(q.vars)+len(trav.consts))
	for i := range q.vars {
		classes = append(classes, trav.joinMap[i])
	}
	for _, ct := range trav.consts {
		classes = append(classes, map[*atom.Atom]struct{}{ct: {}})
	}
	if len(classes) <= 1 {
		return containers
	}

	for c := range containers {
		for _, class := range classes {
			if !c.ContainsAny(class) {
				delete(containers, c)
				break
			}
		}
	}
	return containers
}

// supremum reduces the upper set to its minimal elements: any atom whose
// outgoing-reachable substructure already holds another member is
// reducible and removed. What remains is the least upper bound of the
// principal elements under the containment order.
func supremum(upset map[*atom.Atom]struct{}) map[*atom.Atom]struct{} {
	minimal := make(map[*atom.Atom]struct{}, len(upset))
	for h := range upset {
		if h.IsNode() || !containsMemberBelow(h, upset) {
			minimal[h] = struct{}{}
		}
	}
	return minimal
}

// containsMemberBelow reports whether any strict descendant of h is a
// member of set.
func containsMemberBelow(h *atom.Atom, set map[*atom.Atom]struct{}) bool {
	work := append([]*atom.Atom(nil), h.Out...)
	for len(work) > 0 {
		a := work[len(work)-1]
		work = work[:len(work)-1]
		if _, ok := set[a]; ok {
			return true
		}
		work = append(work, a.Out...)
	}
	return false
}

// constrain keeps only containers passing every declared top-level type
// constraint. Constraints apply conjunctively and reject on the first
// failure. With no constraints the set passes through untouched.
func (q *Query) constrain(containers map[*atom.Atom]struct{}) map[*atom.Atom]struct{} {
	if len(q.topTypes) == 0 {
		return containers
	}
	accept := make(map[*atom.Atom]struct{}, len(containers))
	for h := range containers {
		ok := true
		for _, spec := range q.topTypes {
			if !atom.ValueIsType(spec, h) {
				ok = false
				break
			}
		}
		if ok {
			accept[h] = struct{}{}
		}
	}
	return accept
}
