package atom

// ValueIsType tests an atom against a type specification. Supported specs:
// a Type node naming a type (subtypes pass), and a TypeChoice link over
// alternative specs. Unknown specs match nothing.
func ValueIsType(spec, a *Atom) bool {
	switch spec.Type {
	case TypeNodeT:
		want, ok := Lookup(spec.Name)
		if !ok {
			return false
		}
		return IsA(a.Type, want)
	case TypeChoiceT:
		for _, alt := range spec.Out {
			if ValueIsType(alt, a) {
				return true
			}
		}
		return false
	}
	return false
}
