package atom

import (
	"testing"
)

func TestKeyStructuralEquality(t *testing.T) {
	a := NewLink(MemberT, NewNode(ConceptT, "sea"), NewNode(ConceptT, "beach"))
	b := NewLink(MemberT, NewNode(ConceptT, "sea"), NewNode(ConceptT, "beach"))
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if !a.Equals(b) {
		t.Fatal("structurally equal atoms must be Equals")
	}

	c := NewLink(MemberT, NewNode(ConceptT, "beach"), NewNode(ConceptT, "sea"))
	if a.Equals(c) {
		t.Fatal("outgoing order must matter")
	}
}

func TestKeyQuotesNames(t *testing.T) {
	// Names containing parens or spaces must not collide with structure.
	a := NewNode(ConceptT, `a") (Concept "b`)
	b := NewLink(ListT, NewNode(ConceptT, "a"), NewNode(ConceptT, "b"))
	if a.Key() == b.Key() {
		t.Fatal("name injection collides with link structure")
	}
}

func TestContains(t *testing.T) {
	sea := NewNode(ConceptT, "sea")
	m := NewLink(MemberT, sea, NewNode(ConceptT, "beach"))
	outer := NewLink(ListT, m)

	if !outer.Contains(sea) {
		t.Fatal("deep substructure not found")
	}
	if !outer.Contains(outer) {
		t.Fatal("an atom contains itself")
	}
	if outer.Contains(NewNode(ConceptT, "desert")) {
		t.Fatal("absent atom reported present")
	}
}

func TestNumberValue(t *testing.T) {
	if v, ok := NewNode(NumberT, "2.5").NumberValue(); !ok || v != 2.5 {
		t.Fatalf("got %v %v", v, ok)
	}
	if _, ok := NewNode(ConceptT, "2.5").NumberValue(); ok {
		t.Fatal("non-Number must not parse")
	}
	if _, ok := NewNode(NumberT, "abc").NumberValue(); ok {
		t.Fatal("malformed Number must not parse")
	}
}

func TestIsA(t *testing.T) {
	cases := []struct {
		t, ancestor Type
		want        bool
	}{
		{ConceptT, NodeT, true},
		{ConceptT, ConceptT, true},
		{MemberT, LinkT, true},
		{MinimalJoinT, JoinT, true},
		{MaximalJoinT, LambdaT, true},
		{ConceptT, LinkT, false},
		{NodeT, ConceptT, false},
	}
	for _, c := range cases {
		if got := IsA(c.t, c.ancestor); got != c.want {
			t.Errorf("IsA(%s, %s) = %v, want %v", c.t, c.ancestor, got, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	if got, ok := Lookup("Member"); !ok || got != MemberT {
		t.Fatalf("Lookup(Member) = %v %v", got, ok)
	}
	if got, ok := Lookup("Node"); !ok || got != NodeT {
		t.Fatalf("Lookup(Node) = %v %v", got, ok)
	}
	if _, ok := Lookup("NoSuchType"); ok {
		t.Fatal("unknown name resolved")
	}
}

func TestJoinKindsAreScopesAndOpaque(t *testing.T) {
	for _, typ := range []Type{JoinT, MinimalJoinT, MaximalJoinT} {
		if !IsJoinKind(typ) {
			t.Errorf("%s not a join kind", typ)
		}
		if !IsScopeType(typ) {
			t.Errorf("%s must bind its own variables", typ)
		}
	}
	if IsJoinKind(LambdaT) {
		t.Fatal("Lambda is not a join kind")
	}
}

func TestFreeVariables(t *testing.T) {
	x := Var("X")
	y := Var("Y")
	body := NewLink(MemberT, x, y)

	fv := FreeVariables(body)
	if len(fv) != 2 || !fv.Has(x) || !fv.Has(y) {
		t.Fatalf("got %v", fv)
	}

	// A Lambda declaring X binds it; Y stays free.
	lam := NewLink(LambdaT, x, body)
	fv = FreeVariables(lam)
	if fv.Has(x) {
		t.Fatal("scope-bound variable reported free")
	}
	if !fv.Has(y) {
		t.Fatal("undeclared variable must stay free")
	}

	// Quoted variables are inert until unquoted.
	quoted := NewLink(ListT, NewLink(QuoteT, x))
	if len(FreeVariables(quoted)) != 0 {
		t.Fatal("quoted variable reported free")
	}
	restored := NewLink(QuoteT, NewLink(ListT, NewLink(UnquoteT, x)))
	if !FreeVariables(restored).Has(x) {
		t.Fatal("unquoted variable must be free again")
	}
}

func TestFreeVariableListOrder(t *testing.T) {
	x := Var("X")
	y := Var("Y")
	body := NewLink(PresentT,
		NewLink(MemberT, x, y),
		NewLink(InheritanceT, y, x))

	got := FreeVariableList(body)
	if len(got) != 2 || !got[0].Equals(x) || !got[1].Equals(y) {
		t.Fatalf("got %v, want [X Y]", got)
	}

	// Scope-bound and quoted occurrences stay excluded.
	lam := NewLink(LambdaT, x, NewLink(MemberT, x, NewLink(QuoteT, y)))
	if got := FreeVariableList(lam); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}

func TestDeclaredVarsAndTypes(t *testing.T) {
	x := Var("X")
	y := Var("Y")
	tx := NewNode(TypeNodeT, "Concept")
	decl := NewLink(VariableListT,
		NewLink(TypedVariableT, x, tx),
		y)

	vars := DeclaredVars(decl)
	if len(vars) != 2 || !vars[0].Equals(x) || !vars[1].Equals(y) {
		t.Fatalf("got %v", vars)
	}
	if got := DeclaredType(decl, x); got == nil || !got.Equals(tx) {
		t.Fatalf("DeclaredType(X) = %v", got)
	}
	if got := DeclaredType(decl, y); got != nil {
		t.Fatalf("untyped variable got spec %v", got)
	}
}

func TestSubstitute(t *testing.T) {
	x := Var("X")
	sea := NewNode(ConceptT, "sea")
	body := NewLink(MemberT, sea, NewNode(ConceptT, "beach"))

	got := Substitute(body, map[*Atom]*Atom{sea: x})
	want := NewLink(MemberT, x, NewNode(ConceptT, "beach"))
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	// No applicable entry: same atom back.
	if Substitute(body, map[*Atom]*Atom{Var("Z"): x}) != body {
		t.Fatal("unchanged substitution must return the original")
	}

	// Mapping lookup is structural, not pointer-based.
	alias := NewNode(ConceptT, "sea")
	got = Substitute(body, map[*Atom]*Atom{alias: x})
	if !got.Equals(want) {
		t.Fatalf("structural lookup failed: got %s", got)
	}
}

func TestSubstituteRespectsQuote(t *testing.T) {
	x := Var("X")
	sea := NewNode(ConceptT, "sea")
	quoted := NewLink(ListT, NewLink(QuoteT, sea), sea)

	got := Substitute(quoted, map[*Atom]*Atom{sea: x})
	want := NewLink(ListT, NewLink(QuoteT, sea), x)
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSubstituteRespectsScope(t *testing.T) {
	x := Var("X")
	sea := NewNode(ConceptT, "sea")

	// The Lambda rebinds X; the mapping targeting X must not cross in.
	lam := NewLink(LambdaT, x, NewLink(MemberT, x, sea))
	outer := NewLink(ListT, x, lam)

	got := Substitute(outer, map[*Atom]*Atom{x: sea})
	want := NewLink(ListT, sea, lam)
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSubstituteAvoidsCapture(t *testing.T) {
	x := Var("X")
	sea := NewNode(ConceptT, "sea")

	// Replacing sea with X inside a scope that binds X would capture it.
	lam := NewLink(LambdaT, x, NewLink(MemberT, x, sea))
	got := Substitute(lam, map[*Atom]*Atom{sea: x})
	if !got.Equals(lam) {
		t.Fatalf("capture: got %s", got)
	}
}

func TestValueIsType(t *testing.T) {
	concept := NewNode(ConceptT, "sea")
	member := NewLink(MemberT, concept, NewNode(ConceptT, "beach"))

	if !ValueIsType(NewNode(TypeNodeT, "Concept"), concept) {
		t.Fatal("exact type must match")
	}
	if !ValueIsType(NewNode(TypeNodeT, "Node"), concept) {
		t.Fatal("supertype must match")
	}
	if ValueIsType(NewNode(TypeNodeT, "Concept"), member) {
		t.Fatal("unrelated type matched")
	}
	if ValueIsType(NewNode(TypeNodeT, "Bogus"), concept) {
		t.Fatal("unknown type name matched")
	}

	choice := NewLink(TypeChoiceT,
		NewNode(TypeNodeT, "Predicate"),
		NewNode(TypeNodeT, "Member"))
	if !ValueIsType(choice, member) {
		t.Fatal("TypeChoice alternative must match")
	}
	if ValueIsType(choice, concept) {
		t.Fatal("TypeChoice with no matching alternative matched")
	}
}
