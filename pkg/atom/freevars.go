package atom

// VarSet is a set of variable atoms keyed by structural identity.
type VarSet map[string]*Atom

// Add inserts v into the set.
func (s VarSet) Add(v *Atom) { s[v.Key()] = v }

// Has reports membership.
func (s VarSet) Has(v *Atom) bool { _, ok := s[v.Key()]; return ok }

// FreeVariables returns the variables occurring free in a. A variable is
// not free when it sits under a Quote (unless restored by Unquote) or when
// an enclosing scope link declares it.
func FreeVariables(a *Atom) VarSet {
	free := make(VarSet)
	walkFree(a, 0, make(VarSet), func(v *Atom) { free.Add(v) })
	return free
}

// FreeVariableList returns the free variables of a in first-occurrence
// order, each variable once.
func FreeVariableList(a *Atom) []*Atom {
	seen := make(VarSet)
	var out []*Atom
	walkFree(a, 0, make(VarSet), func(v *Atom) {
		if !seen.Has(v) {
			seen.Add(v)
			out = append(out, v)
		}
	})
	return out
}

func walkFree(a *Atom, quote int, bound VarSet, visit func(*Atom)) {
	if a.IsVariable() {
		if quote == 0 && !bound.Has(a) {
			visit(a)
		}
		return
	}
	if a.IsNode() {
		return
	}
	switch a.Type {
	case QuoteT:
		quote++
	case UnquoteT:
		if quote > 0 {
			quote--
		}
	}
	if IsScopeType(a.Type) && len(a.Out) > 0 {
		inner := make(VarSet)
		for k, v := range bound {
			inner[k] = v
		}
		for _, v := range ScopeBoundVars(a) {
			inner.Add(v)
		}
		for _, c := range a.Out {
			walkFree(c, quote, inner, visit)
		}
		return
	}
	for _, c := range a.Out {
		walkFree(c, quote, bound, visit)
	}
}

// ScopeBoundVars extracts the variables declared by a scope link. The
// first outgoing atom is the declaration: a bare Variable, a
// TypedVariable, or a VariableList of either.
func ScopeBoundVars(scope *Atom) []*Atom {
	if len(scope.Out) == 0 {
		return nil
	}
	return DeclaredVars(scope.Out[0])
}

// DeclaredVars flattens a variable declaration atom into its variables.
func DeclaredVars(decl *Atom) []*Atom {
	switch decl.Type {
	case VariableT:
		return []*Atom{decl}
	case TypedVariableT:
		if len(decl.Out) > 0 {
			return []*Atom{decl.Out[0]}
		}
	case VariableListT:
		var vars []*Atom
		for _, d := range decl.Out {
			vars = append(vars, DeclaredVars(d)...)
		}
		return vars
	}
	return nil
}

// DeclaredType returns the type constraint attached to v by decl, or nil
// when the declaration leaves v untyped.
func DeclaredType(decl, v *Atom) *Atom {
	switch decl.Type {
	case TypedVariableT:
		if len(decl.Out) == 2 && decl.Out[0].Equals(v) {
			return decl.Out[1]
		}
	case VariableListT:
		for _, d := range decl.Out {
			if t := DeclaredType(d, v); t != nil {
				return t
			}
		}
	}
	return nil
}
