// Package repl implements the interactive shell over a single space:
// intern atoms, run join queries, and inspect the store.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/duynguyendang/atomspace/pkg/atom"
	"github.com/duynguyendang/atomspace/pkg/atom/sexpr"
	"github.com/duynguyendang/atomspace/pkg/join"
	"github.com/duynguyendang/atomspace/pkg/loader"
	"github.com/duynguyendang/atomspace/pkg/search"
	"github.com/duynguyendang/atomspace/pkg/space"
)

// Repl drives a read-eval loop against one space.
type Repl struct {
	space *space.Space
	in    *bufio.Scanner
	out   io.Writer
}

// New creates a Repl reading commands from in and writing to out.
func New(sp *space.Space, in io.Reader, out io.Writer) *Repl {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Repl{space: sp, in: sc, out: out}
}

// Run processes commands until EOF or "quit".
func (r *Repl) Run() error {
	fmt.Fprintln(r.out, "atomspace repl. Commands: add, query, load, count, search, help, quit")
	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := r.eval(line); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *Repl) eval(line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		fmt.Fprintln(r.out, "  add <sexpr>     intern atoms")
		fmt.Fprintln(r.out, "  query <sexpr>   run a MinimalJoin/MaximalJoin query")
		fmt.Fprintln(r.out, "  load <path>     load an atom file")
		fmt.Fprintln(r.out, "  count           number of atoms in the space")
		fmt.Fprintln(r.out, "  search <name>   fuzzy node name search")
		fmt.Fprintln(r.out, "  quit            leave")
		return nil

	case "add":
		atoms, err := sexpr.ParseAll(rest)
		if err != nil {
			return err
		}
		for _, a := range atoms {
			fmt.Fprintln(r.out, sexpr.Print(r.space.Add(a)))
		}
		return nil

	case "query":
		parsed, err := sexpr.Parse(rest)
		if err != nil {
			return err
		}
		q, err := join.FromAtom(r.space, parsed)
		if err != nil {
			return err
		}
		results, err := q.Execute(nil)
		if err != nil {
			return err
		}
		for _, a := range results.Atoms() {
			fmt.Fprintln(r.out, sexpr.Print(a))
		}
		fmt.Fprintf(r.out, "%d result(s)\n", results.Len())
		return nil

	case "load":
		n, err := loader.LoadFile(r.space, rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "loaded %d atom(s)\n", n)
		return nil

	case "count":
		fmt.Fprintln(r.out, r.space.Count())
		return nil

	case "search":
		var names []string
		seen := make(map[string]bool)
		r.space.ForEach(func(a *atom.Atom) bool {
			if a.IsNode() && !a.IsVariable() && !seen[a.Name] {
				seen[a.Name] = true
				names = append(names, a.Name)
			}
			return true
		})
		for _, m := range search.FindNodesBySimilarity(rest, names, 10) {
			fmt.Fprintln(r.out, m)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}
