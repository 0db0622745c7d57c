package join

import (
	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// opaque reports whether upward traversal must not enter a. Other join
// queries are treated as leaves (nested join composition is unsupported
// and deliberately not unfolded), as are TypeChoice signature links.
// Plain Type nodes are ordinary atoms and join upward like any other.
func opaque(a *atom.Atom) bool {
	return atom.IsJoinKind(a.Type) || a.Type == atom.TypeChoiceT
}

// principalFilter collects into out the principal filter of h: h itself
// plus everything that contains it, directly or indirectly, through the
// incoming sets of sp. The walk is an explicit worklist so arbitrarily
// deep containment cannot grow the stack.
func principalFilter(sp *space.Space, h *atom.Atom, out map[*atom.Atom]struct{}) {
	work := []*atom.Atom{h}
	for len(work) > 0 {
		a := work[len(work)-1]
		work = work[:len(work)-1]
		if opaque(a) {
			continue
		}
		if _, seen := out[a]; seen {
			continue
		}
		out[a] = struct{}{}
		work = append(work, sp.IncomingSet(a)...)
	}
}

// findTop collects into out the topmost atoms reachable upward from h:
// those whose incoming set is empty at query time. Join atoms are opaque
// here as well.
func findTop(sp *space.Space, h *atom.Atom, out map[*atom.Atom]struct{}) {
	seen := make(map[*atom.Atom]struct{})
	work := []*atom.Atom{h}
	for len(work) > 0 {
		a := work[len(work)-1]
		work = work[:len(work)-1]
		if atom.IsJoinKind(a.Type) {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		inc := sp.IncomingSet(a)
		if len(inc) == 0 {
			out[a] = struct{}{}
			continue
		}
		work = append(work, inc...)
	}
}
