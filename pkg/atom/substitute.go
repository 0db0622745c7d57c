package atom

// Substitute returns a copy of a with every free occurrence of a mapping
// key replaced by its value. Substitution never descends under a Quote
// (until a matching Unquote) and never crosses into a scope link that
// rebinds either side of an applicable mapping entry. When nothing
// applies, a is returned unchanged.
//
// Mapping lookup is structural, so interned and non-interned keys behave
// identically.
func Substitute(a *Atom, mapping map[*Atom]*Atom) *Atom {
	if len(mapping) == 0 {
		return a
	}
	byKey := make(map[string]*Atom, len(mapping))
	for from, to := range mapping {
		byKey[from.Key()] = to
	}
	out, _ := subst(a, 0, byKey)
	return out
}

func subst(a *Atom, quote int, byKey map[string]*Atom) (*Atom, bool) {
	if quote == 0 {
		if rep, ok := byKey[a.Key()]; ok {
			return rep, true
		}
	}
	if a.IsNode() {
		return a, false
	}

	inner := quote
	switch a.Type {
	case QuoteT:
		inner++
	case UnquoteT:
		if inner > 0 {
			inner--
		}
	}

	// A scope that rebinds a mapped variable shields its body: drop the
	// colliding entries for the subtree.
	scoped := byKey
	if IsScopeType(a.Type) {
		for _, v := range ScopeBoundVars(a) {
			k := v.Key()
			if _, hit := scoped[k]; hit || valueCollides(scoped, k) {
				scoped = pruneScope(scoped, ScopeBoundVars(a))
				break
			}
		}
	}

	var out []*Atom
	changed := false
	for i, c := range a.Out {
		r, ch := subst(c, inner, scoped)
		if ch && out == nil {
			out = make([]*Atom, len(a.Out))
			copy(out, a.Out[:i])
		}
		if out != nil {
			out[i] = r
		}
		changed = changed || ch
	}
	if !changed {
		return a, false
	}
	return NewLink(a.Type, out...), true
}

func valueCollides(byKey map[string]*Atom, varKey string) bool {
	for _, to := range byKey {
		if to.Key() == varKey {
			return true
		}
	}
	return false
}

func pruneScope(byKey map[string]*Atom, bound []*Atom) map[string]*Atom {
	keys := make(map[string]bool, len(bound))
	for _, v := range bound {
		keys[v.Key()] = true
	}
	pruned := make(map[string]*Atom, len(byKey))
	for k, to := range byKey {
		if keys[k] || keys[to.Key()] {
			continue
		}
		pruned[k] = to
	}
	return pruned
}
