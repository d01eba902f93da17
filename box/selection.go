/*
 * selection.go, part of goDock.
 *
 * Copyright 2024 The goDock Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package box

import (
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/godock"
)

// Selection selects atoms of a molecule using a small, PyMOL-like language.
// Supported terms are:
//
//	all
//	chain A+B
//	resn LIG+HOH
//	resi 10-20+25
//	name CA+CB
//	elem C+N
//	hetatm
//	polymer
//
// Terms can be negated with "not", joined with "and" and "or" ("and" binds tighter)
// and grouped with parentheses. Names are compared ignoring case.
type Selection struct {
	text string
	root node
}

type node interface {
	match(at *chem.Atom) bool
}

type notNode struct{ n node }

func (N notNode) match(at *chem.Atom) bool { return !N.n.match(at) }

type andNode struct{ a, b node }

func (N andNode) match(at *chem.Atom) bool { return N.a.match(at) && N.b.match(at) }

type orNode struct{ a, b node }

func (N orNode) match(at *chem.Atom) bool { return N.a.match(at) || N.b.match(at) }

type funcNode func(at *chem.Atom) bool

func (N funcNode) match(at *chem.Atom) bool { return N(at) }

var nucleotides = map[string]bool{
	"A": true, "C": true, "G": true, "U": true, "T": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DU": true,
}

// Parse parses the selection string s.
func Parse(s string) (*Selection, error) {
	p := &parser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("box/Parse: empty selection")
	}
	root, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("box/Parse: %q: %w", s, err)
	}
	if !p.done() {
		return nil, fmt.Errorf("box/Parse: %q: unexpected %q", s, p.peek())
	}
	return &Selection{text: s, root: root}, nil
}

// MustParse is like Parse but panics on error. It is meant for
// selections that are constants in a program.
func MustParse(s string) *Selection {
	sel, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return sel
}

// String returns the selection string.
func (S *Selection) String() string {
	return S.text
}

// Matches returns true if the atom at is selected.
func (S *Selection) Matches(at *chem.Atom) bool {
	return S.root.match(at)
}

// Select returns the indexes of the atoms in mol matched by the selection.
func (S *Selection) Select(mol chem.Atomer) []int {
	ret := make([]int, 0, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		if S.root.match(mol.Atom(i)) {
			ret = append(ret, i)
		}
	}
	return ret
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expr() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "or") {
		p.next()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "and") {
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.done() {
		return nil, fmt.Errorf("unexpected end of selection")
	}
	t := p.next()
	switch strings.ToLower(t) {
	case "not":
		n, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{n}, nil
	case "(":
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("missing )")
		}
		return n, nil
	case "all", "*":
		return funcNode(func(*chem.Atom) bool { return true }), nil
	case "hetatm":
		return funcNode(func(at *chem.Atom) bool { return at.Het }), nil
	case "polymer":
		return funcNode(func(at *chem.Atom) bool {
			name := strings.ToUpper(at.MolName)
			return chem.IsAminoacid(name) || nucleotides[name]
		}), nil
	case "chain":
		return p.stringTerm(func(at *chem.Atom) string { return at.Chain })
	case "resn":
		return p.stringTerm(func(at *chem.Atom) string { return at.MolName })
	case "name":
		return p.stringTerm(func(at *chem.Atom) string { return at.Name })
	case "elem":
		return p.stringTerm(func(at *chem.Atom) string { return at.Symbol })
	case "resi":
		return p.resiTerm()
	}
	return nil, fmt.Errorf("unknown keyword %q", t)
}

// values reads the next token and splits it in its "+"-separated alternatives.
func (p *parser) values() ([]string, error) {
	t := p.next()
	switch strings.ToLower(t) {
	case "", "and", "or", "not", "(", ")":
		return nil, fmt.Errorf("missing value before %q", t)
	}
	ret := strings.Split(t, "+")
	for _, v := range ret {
		if v == "" {
			return nil, fmt.Errorf("empty value in %q", t)
		}
	}
	return ret, nil
}

func (p *parser) stringTerm(field func(*chem.Atom) string) (node, error) {
	vals, err := p.values()
	if err != nil {
		return nil, err
	}
	return funcNode(func(at *chem.Atom) bool {
		f := field(at)
		for _, v := range vals {
			if strings.EqualFold(v, f) {
				return true
			}
		}
		return false
	}), nil
}

func (p *parser) resiTerm() (node, error) {
	vals, err := p.values()
	if err != nil {
		return nil, err
	}
	ranges := make([][2]int, 0, len(vals))
	for _, v := range vals {
		//the first character could be a minus sign
		i := strings.Index(v[1:], "-") + 1
		if i <= 0 {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("bad residue number %q", v)
			}
			ranges = append(ranges, [2]int{n, n})
			continue
		}
		lo, err1 := strconv.Atoi(v[:i])
		hi, err2 := strconv.Atoi(v[i+1:])
		if err1 != nil || err2 != nil || hi < lo {
			return nil, fmt.Errorf("bad residue range %q", v)
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	return funcNode(func(at *chem.Atom) bool {
		for _, r := range ranges {
			if at.MolID >= r[0] && at.MolID <= r[1] {
				return true
			}
		}
		return false
	}), nil
}
