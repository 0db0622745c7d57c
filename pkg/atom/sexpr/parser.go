// Package sexpr reads and prints atoms in s-expression form, the text
// surface used by the loader, the REPL, and the query endpoint.
//
//	(Member (Concept "sea") (Concept "beach"))
//	(MinimalJoin (VariableList (TypedVariable (Variable "X") (Type "Concept"))) ...)
//
// Node names may be quoted or bare; bare names end at whitespace or a
// parenthesis.
package sexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/duynguyendang/atomspace/pkg/atom"
)

// Parse reads a single atom expression from s.
func Parse(s string) (*atom.Atom, error) {
	p := &parser{src: s}
	a, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing input at offset %d: %q", p.pos, p.rest())
	}
	return a, nil
}

// ParseAll reads a sequence of atom expressions, e.g. a whole load file.
// Lines starting with ';' are comments.
func ParseAll(s string) ([]*atom.Atom, error) {
	p := &parser{src: s}
	var atoms []*atom.Atom
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return atoms, nil
		}
		a, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, a)
	}
}

// Print renders a in parseable s-expression form.
func Print(a *atom.Atom) string {
	return a.String()
}

type parser struct {
	src string
	pos int
}

func (p *parser) rest() string {
	r := p.src[p.pos:]
	if len(r) > 24 {
		r = r[:24] + "..."
	}
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ';' {
			// Comment to end of line.
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if !unicode.IsSpace(rune(c)) {
			return
		}
		p.pos++
	}
}

func (p *parser) parseAtom() (*atom.Atom, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return nil, fmt.Errorf("expected '(' at offset %d: %q", p.pos, p.rest())
	}
	p.pos++

	typeName, err := p.parseSymbol()
	if err != nil {
		return nil, err
	}
	t, ok := atom.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown atom type %q at offset %d", typeName, p.pos)
	}

	if atom.IsNodeType(t) {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return atom.NewNode(t, name), nil
	}

	var out []*atom.Atom
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated link %q", typeName)
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return atom.NewLink(t, out...), nil
		}
		child, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d: %q", string(c), p.pos, p.rest())
	}
	p.pos++
	return nil
}

func (p *parser) parseSymbol() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == '"' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected symbol at offset %d: %q", p.pos, p.rest())
	}
	return p.src[start:p.pos], nil
}

// parseName reads a node name: a quoted Go string or a bare symbol.
func (p *parser) parseName() (string, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '"' {
		end := p.pos + 1
		for end < len(p.src) {
			if p.src[end] == '\\' {
				end += 2
				continue
			}
			if p.src[end] == '"' {
				break
			}
			end++
		}
		if end >= len(p.src) {
			return "", fmt.Errorf("unterminated string at offset %d", p.pos)
		}
		name, err := strconv.Unquote(p.src[p.pos : end+1])
		if err != nil {
			return "", fmt.Errorf("bad string literal at offset %d: %w", p.pos, err)
		}
		p.pos = end + 1
		return name, nil
	}
	sym, err := p.parseSymbol()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sym), nil
}
