package join

import "errors"

// Construction and syntax errors. All clause validation happens eagerly in
// New; a query that constructs successfully never fails validation at
// execution time.
var (
	// ErrPrivateKind is returned when a query is built from the abstract
	// Join type instead of MinimalJoin or MaximalJoin.
	ErrPrivateKind = errors.New("join is abstract and cannot be instantiated")

	// ErrUnsupportedClause is returned for a body clause that is none of
	// Replacement, Present, evaluatable, or a type specification.
	ErrUnsupportedClause = errors.New("unsupported clause")

	// ErrBadReplacement is returned for a Replacement with arity != 2.
	ErrBadReplacement = errors.New("replacement expects exactly two arguments")

	// ErrUnboundReplacement is returned when a Replacement names a source
	// that no variable binding covers.
	ErrUnboundReplacement = errors.New("no matching variable for replacement")
)
