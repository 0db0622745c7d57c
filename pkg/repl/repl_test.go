package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/space"
)

func runScript(t *testing.T, sp *space.Space, script string) string {
	t.Helper()
	var out bytes.Buffer
	if err := New(sp, strings.NewReader(script), &out).Run(); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestAddAndCount(t *testing.T) {
	sp := space.New()
	out := runScript(t, sp, `add (Member (Concept "sea") (Concept "beach"))
count
quit
`)
	if !sp.Contains(atom.NewLink(atom.MemberT,
		atom.NewNode(atom.ConceptT, "sea"),
		atom.NewNode(atom.ConceptT, "beach"))) {
		t.Fatal("add did not intern the atom")
	}
	if !strings.Contains(out, "3") {
		t.Fatalf("count missing from output:\n%s", out)
	}
}

func TestQueryCommand(t *testing.T) {
	sp := space.New()
	sp.Link(atom.MemberT, sp.Node(atom.ConceptT, "sea"), sp.Node(atom.ConceptT, "beach"))
	sp.Link(atom.MemberT, sp.Node(atom.ConceptT, "sand"), sp.Node(atom.ConceptT, "beach"))

	out := runScript(t, sp,
		`query (MinimalJoin (VariableList (TypedVariable (Variable "X") (Type "Concept"))) (Present (Member (Variable "X") (Concept "beach"))))
quit
`)
	if !strings.Contains(out, "1 result(s)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUnknownCommandReportsError(t *testing.T) {
	out := runScript(t, space.New(), "frobnicate\nquit\n")
	if !strings.Contains(out, "error:") {
		t.Fatalf("missing error report:\n%s", out)
	}
}

func TestEOFEndsLoop(t *testing.T) {
	if err := New(space.New(), strings.NewReader(""), &bytes.Buffer{}).Run(); err != nil {
		t.Fatal(err)
	}
}
