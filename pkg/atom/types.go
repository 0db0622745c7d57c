package atom

// Type is the string-named tag of an atom. The subtype relation is a flat
// lookup table (parents), not a class hierarchy.
type Type string

// Node types.
const (
	NodeT      Type = "Node"
	ConceptT   Type = "Concept"
	PredicateT Type = "Predicate"
	NumberT    Type = "Number"
	VariableT  Type = "Variable"
	AnchorT    Type = "Anchor"
	TypeNodeT  Type = "Type"
)

// Link types.
const (
	LinkT          Type = "Link"
	ListT          Type = "List"
	SetT           Type = "Set"
	MemberT        Type = "Member"
	InheritanceT   Type = "Inheritance"
	EvaluationT    Type = "Evaluation"
	ExecutionT     Type = "Execution"
	PresentT       Type = "Present"
	AbsentT        Type = "Absent"
	AndT           Type = "And"
	OrT            Type = "Or"
	NotT           Type = "Not"
	GreaterThanT   Type = "GreaterThan"
	IdenticalT     Type = "Identical"
	TypedVariableT Type = "TypedVariable"
	VariableListT  Type = "VariableList"
	ReplacementT   Type = "Replacement"
	QuoteT         Type = "Quote"
	UnquoteT       Type = "Unquote"
	LambdaT        Type = "Lambda"
	PutT           Type = "Put"
	TypeChoiceT    Type = "TypeChoice"
)

// Join query types. JoinT itself is abstract and cannot be executed.
const (
	JoinT        Type = "Join"
	MinimalJoinT Type = "MinimalJoin"
	MaximalJoinT Type = "MaximalJoin"
)

// parents maps each type to its direct supertype. Types absent from the
// table are roots of their own family.
var parents = map[Type]Type{
	ConceptT:   NodeT,
	PredicateT: NodeT,
	NumberT:    NodeT,
	VariableT:  NodeT,
	AnchorT:    NodeT,
	TypeNodeT:  NodeT,

	ListT:          LinkT,
	SetT:           LinkT,
	MemberT:        LinkT,
	InheritanceT:   LinkT,
	EvaluationT:    LinkT,
	ExecutionT:     LinkT,
	PresentT:       LinkT,
	AbsentT:        LinkT,
	AndT:           LinkT,
	OrT:            LinkT,
	NotT:           LinkT,
	GreaterThanT:   LinkT,
	IdenticalT:     LinkT,
	TypedVariableT: LinkT,
	VariableListT:  LinkT,
	ReplacementT:   LinkT,
	QuoteT:         LinkT,
	UnquoteT:       LinkT,
	LambdaT:        LinkT,
	PutT:           LinkT,
	TypeChoiceT:    LinkT,

	JoinT:        LambdaT,
	MinimalJoinT: JoinT,
	MaximalJoinT: JoinT,
}

// IsA reports whether t equals ancestor or descends from it in the type
// table. The walk is iterative; the table is acyclic by construction.
func IsA(t, ancestor Type) bool {
	for {
		if t == ancestor {
			return true
		}
		p, ok := parents[t]
		if !ok {
			return false
		}
		t = p
	}
}

// nodeTypes marks the types that carry a name instead of an outgoing set.
var nodeTypes = map[Type]bool{
	NodeT: true, ConceptT: true, PredicateT: true, NumberT: true,
	VariableT: true, AnchorT: true, TypeNodeT: true,
}

// IsNodeType reports whether atoms of type t are nodes.
func IsNodeType(t Type) bool {
	return nodeTypes[t]
}

// evaluatable marks clause types that the search engine evaluates rather
// than grounds by lookup.
var evaluatable = map[Type]bool{
	EvaluationT: true, GreaterThanT: true, IdenticalT: true,
	NotT: true, AndT: true, OrT: true, AbsentT: true,
}

// IsEvaluatable reports whether a clause of type t is handled by
// evaluation instead of presence search.
func IsEvaluatable(t Type) bool {
	return evaluatable[t]
}

// scopeTypes marks link types that bind their own variables. Substitution
// and free-variable discovery never cross into a scope that rebinds.
var scopeTypes = map[Type]bool{
	LambdaT: true, PutT: true, JoinT: true,
	MinimalJoinT: true, MaximalJoinT: true,
}

// IsScopeType reports whether links of type t introduce local bindings.
func IsScopeType(t Type) bool {
	return scopeTypes[t]
}

// IsTypeSpec reports whether t names a type specification usable as a
// top-level container constraint.
func IsTypeSpec(t Type) bool {
	return t == TypeNodeT || t == TypeChoiceT
}

// IsJoinKind reports whether t is one of the join query types. Join atoms
// are opaque to upward traversal; the closure never unfolds them.
func IsJoinKind(t Type) bool {
	return IsA(t, JoinT)
}

// Lookup resolves a type by name. The second return is false for names
// outside the closed type table.
func Lookup(name string) (Type, bool) {
	t := Type(name)
	if _, ok := parents[t]; ok {
		return t, true
	}
	if t == NodeT || t == LinkT {
		return t, true
	}
	return "", false
}
