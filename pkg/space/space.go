// Package space implements the AtomSpace: an interning hypergraph store
// with parent backlink indexing and transient read-through overlays.
//
// Interning invariant: structurally equal atoms resolve to one canonical
// pointer per space chain. Adding a link interns its children first and
// records the link in each child's incoming set. Incoming indices live in
// the space, not the atom, so an overlay can index scratch atoms without
// mutating the base space.
package space

import (
	"log/slog"
	"sync"

	"github.com/duynguyendang/atomspace/pkg/atom"
)

// Space is a thread-safe interning store of atoms. A Space with a parent
// is a transient overlay: reads fall through to the parent, writes stay
// local, and the overlay is discarded by its owner.
type Space struct {
	mu       sync.RWMutex
	parent   *Space
	atoms    map[string]*atom.Atom
	incoming map[*atom.Atom]map[*atom.Atom]struct{}
}

// New creates an empty base space.
func New() *Space {
	return &Space{
		atoms:    make(map[string]*atom.Atom),
		incoming: make(map[*atom.Atom]map[*atom.Atom]struct{}),
	}
}

// NewOverlay creates a scratch space delegating reads to parent. Atoms
// added to the overlay are never persisted into the parent.
func NewOverlay(parent *Space) *Space {
	o := New()
	o.parent = parent
	return o
}

// Add interns a and returns the canonical atom. Structurally equal atoms
// yield the same pointer. Children of links are interned first.
func (s *Space) Add(a *atom.Atom) *atom.Atom {
	if a == nil {
		return nil
	}
	if c := s.Get(a); c != nil {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internLocked(a)
}

func (s *Space) internLocked(a *atom.Atom) *atom.Atom {
	// The parent chain may already hold it; delegate that read.
	if s.parent != nil {
		if c := s.parent.Get(a); c != nil {
			return c
		}
	}
	if c, ok := s.atoms[a.Key()]; ok {
		return c
	}

	canonical := a
	if a.IsLink() {
		out := make([]*atom.Atom, len(a.Out))
		changed := false
		for i, child := range a.Out {
			out[i] = s.internLocked(child)
			changed = changed || out[i] != child
		}
		if changed {
			canonical = atom.NewLink(a.Type, out...)
		}
		for _, child := range out {
			set, ok := s.incoming[child]
			if !ok {
				set = make(map[*atom.Atom]struct{})
				s.incoming[child] = set
			}
			set[canonical] = struct{}{}
		}
	}
	s.atoms[canonical.Key()] = canonical
	return canonical
}

// Get returns the canonical atom structurally equal to a, or nil when the
// space chain does not hold one. Get never inserts.
func (s *Space) Get(a *atom.Atom) *atom.Atom {
	if a == nil {
		return nil
	}
	s.mu.RLock()
	c, ok := s.atoms[a.Key()]
	s.mu.RUnlock()
	if ok {
		return c
	}
	if s.parent != nil {
		return s.parent.Get(a)
	}
	return nil
}

// Contains reports whether the space chain holds an atom structurally
// equal to a.
func (s *Space) Contains(a *atom.Atom) bool {
	return s.Get(a) != nil
}

// IncomingSet returns the links holding a in their outgoing set, as seen
// by this space chain. The slice is a fresh copy.
func (s *Space) IncomingSet(a *atom.Atom) []*atom.Atom {
	var out []*atom.Atom
	for sp := s; sp != nil; sp = sp.parent {
		sp.mu.RLock()
		for link := range sp.incoming[a] {
			out = append(out, link)
		}
		sp.mu.RUnlock()
	}
	return out
}

// Node interns a named node.
func (s *Space) Node(t atom.Type, name string) *atom.Atom {
	return s.Add(atom.NewNode(t, name))
}

// Link interns a link over the given outgoing atoms.
func (s *Space) Link(t atom.Type, out ...*atom.Atom) *atom.Atom {
	return s.Add(atom.NewLink(t, out...))
}

// Count returns the number of atoms visible through this space chain.
// Overlay-local duplicates of parent atoms cannot occur, so the sum is
// exact.
func (s *Space) Count() int {
	n := 0
	for sp := s; sp != nil; sp = sp.parent {
		sp.mu.RLock()
		n += len(sp.atoms)
		sp.mu.RUnlock()
	}
	return n
}

// ForEach calls fn for every atom visible through this space chain, own
// atoms first. Iteration stops when fn returns false. The snapshot is
// taken up front, so fn may add atoms.
func (s *Space) ForEach(fn func(*atom.Atom) bool) {
	var snapshot []*atom.Atom
	for sp := s; sp != nil; sp = sp.parent {
		sp.mu.RLock()
		for _, a := range sp.atoms {
			snapshot = append(snapshot, a)
		}
		sp.mu.RUnlock()
	}
	for _, a := range snapshot {
		if !fn(a) {
			return
		}
	}
}

// Atoms returns a snapshot slice of every visible atom.
func (s *Space) Atoms() []*atom.Atom {
	var out []*atom.Atom
	s.ForEach(func(a *atom.Atom) bool {
		out = append(out, a)
		return true
	})
	return out
}

// IsOverlay reports whether this space delegates reads to a parent.
func (s *Space) IsOverlay() bool {
	return s.parent != nil
}

// DumpStats logs size information, useful when closing long-lived spaces.
func (s *Space) DumpStats() {
	slog.Info("space stats", "atoms", s.Count(), "overlay", s.IsOverlay())
}
