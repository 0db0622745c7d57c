// Package atom defines the hypergraph atom model: typed nodes and links
// with ordered outgoing sets, a flat subtype table, free-variable
// discovery, scope/quote-aware substitution, and type-spec matching.
//
// Atoms are immutable once constructed. Identity is structural: two atoms
// with the same type, name, and outgoing sequence have the same Key(), and
// a Space interns them to a single canonical pointer. Parent backlinks
// (incoming sets) are maintained by the Space, not by the atom itself, so
// that transient overlays can index atoms without mutating shared state.
package atom

import (
	"strconv"
	"strings"
)

// Atom is a hypergraph node or link. Nodes carry a Name; links carry an
// ordered outgoing sequence. Treat as immutable after construction.
type Atom struct {
	Type Type
	Name string  // nodes only
	Out  []*Atom // links only

	key string // memoized structural key
}

// NewNode creates a named node atom.
func NewNode(t Type, name string) *Atom {
	a := &Atom{Type: t, Name: name}
	a.key = makeKey(a)
	return a
}

// NewLink creates a link atom with the given outgoing sequence.
func NewLink(t Type, out ...*Atom) *Atom {
	a := &Atom{Type: t, Out: out}
	a.key = makeKey(a)
	return a
}

// Var creates a pattern variable node.
func Var(name string) *Atom {
	return NewNode(VariableT, name)
}

// IsNode reports whether a is a node.
func (a *Atom) IsNode() bool { return IsNodeType(a.Type) }

// IsLink reports whether a is a link.
func (a *Atom) IsLink() bool { return !IsNodeType(a.Type) }

// IsVariable reports whether a is a pattern variable.
func (a *Atom) IsVariable() bool { return a.Type == VariableT }

// Arity returns the size of the outgoing sequence.
func (a *Atom) Arity() int { return len(a.Out) }

// Key returns the canonical structural key used for interning. Two atoms
// are structurally equal iff their keys are equal. The key is computed at
// construction, so atoms shared between goroutines are never written.
func (a *Atom) Key() string {
	if a.key == "" {
		a.key = makeKey(a)
	}
	return a.key
}

func makeKey(a *Atom) string {
	var b strings.Builder
	writeKey(&b, a)
	return b.String()
}

func writeKey(b *strings.Builder, a *Atom) {
	b.WriteByte('(')
	b.WriteString(string(a.Type))
	if a.IsNode() {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(a.Name))
	} else {
		for _, c := range a.Out {
			b.WriteByte(' ')
			b.WriteString(c.Key())
		}
	}
	b.WriteByte(')')
}

// String renders the atom in s-expression form.
func (a *Atom) String() string {
	return a.Key()
}

// Equals reports structural equality.
func (a *Atom) Equals(b *Atom) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

// Contains reports whether target occurs anywhere in a's
// outgoing-reachable substructure, a included. Identity is structural.
func (a *Atom) Contains(target *Atom) bool {
	stack := []*Atom{a}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == target || h.Equals(target) {
			return true
		}
		stack = append(stack, h.Out...)
	}
	return false
}

// ContainsAny reports whether any member of targets occurs in a's
// substructure. Targets are keyed by pointer identity; callers pass
// interned atoms.
func (a *Atom) ContainsAny(targets map[*Atom]struct{}) bool {
	stack := []*Atom{a}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := targets[h]; ok {
			return true
		}
		stack = append(stack, h.Out...)
	}
	return false
}

// NumberValue parses a Number node's name. ok is false for non-numbers.
func (a *Atom) NumberValue() (float64, bool) {
	if a.Type != NumberT {
		return 0, false
	}
	f, err := strconv.ParseFloat(a.Name, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
