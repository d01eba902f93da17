/*
 * mcs.go, part of goDock.
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

// Package mcs finds the maximum common substructure of two molecules.
//
// The common substructure is a connected set of atom pairs, where paired atoms
// have the same element, and each pair (after the first) is joined to an already
// paired atom by bonds of the same order in both molecules. Aromatic bonds (order 4
// or 1.5) pair with each other and with single or double ring bonds.
package mcs

import (
	"context"
	"fmt"

	chem "github.com/rmera/godock"
)

// Options for the substructure search.
type Options struct {
	HeavyOnly bool //leave the hydrogens out of the search
	AnyBond   bool //don't compare bond orders
	MaxSteps  int  //maximum number of search steps. 0 or less means no limit.
}

// DefaultOptions returns the default search options: hydrogens are ignored,
// bond orders are compared, and the search is limited to a million steps.
func DefaultOptions() *Options {
	return &Options{HeavyOnly: true, MaxSteps: 1000000}
}

// Match is the result of a search.
type Match struct {
	Pairs    [][2]int //atom indexes in the first and second molecule, in the order they were paired
	Complete bool     //true if the search ran to the end without hitting the step limit
	Steps    int
}

// Len returns the number of paired atoms.
func (M *Match) Len() int {
	return len(M.Pairs)
}

// Indexes returns the indexes of the paired atoms in the first and in the second molecule.
func (M *Match) Indexes() (a, b []int) {
	a = make([]int, len(M.Pairs))
	b = make([]int, len(M.Pairs))
	for i, p := range M.Pairs {
		a[i], b[i] = p[0], p[1]
	}
	return a, b
}

var errStop = fmt.Errorf("search stopped")

type search struct {
	ctx     context.Context
	a, b    *molGraph
	opts    *Options
	aTob    []int //-1 if not mapped
	bToa    []int
	exclude []bool //atoms of a that can't be mapped in this branch
	pairs   [][2]int
	best    [][2]int
	steps   int
	limit   int //the largest possible match
	err     error
}

func aromatic(order float64) bool {
	return order == 4 || order == 1.5
}

// bondsMatch compares the order oa of a bond of a with the order ob of a bond of b.
// Aromatic bonds match single and double bonds that are part of a ring, so
// Kekule structures can be paired with aromatic ones.
func (s *search) bondsMatch(oa, ob float64, ringa, ringb bool) bool {
	if s.opts.AnyBond || oa == 0 || ob == 0 || oa == ob {
		return true
	}
	kekule := func(o float64, ring bool) bool { return ring && (o == 1 || o == 2) }
	switch {
	case aromatic(oa) && aromatic(ob):
		return true
	case aromatic(oa):
		return kekule(ob, ringb)
	case aromatic(ob):
		return kekule(oa, ringa)
	}
	return false
}

// bound returns an upper bound for the size of any match that extends the current one.
func (s *search) bound() int {
	ca := make(map[string]int)
	for _, i := range s.a.nodes {
		if s.aTob[i] < 0 && !s.exclude[i] {
			ca[s.a.symbols[i]]++
		}
	}
	n := len(s.pairs)
	cb := make(map[string]int)
	for _, j := range s.b.nodes {
		if s.bToa[j] < 0 {
			cb[s.b.symbols[j]]++
		}
	}
	for k, v := range ca {
		n += min(v, cb[k])
	}
	return n
}

// frontier returns the first atom of a that is not mapped nor excluded, and is bonded
// to a mapped atom, or -1 if there is none.
func (s *search) frontier() int {
	for _, p := range s.pairs {
		for _, u := range s.a.adj[p[0]] {
			if s.aTob[u] < 0 && !s.exclude[u] {
				return u
			}
		}
	}
	return -1
}

// candidates returns the atoms of b that u can be paired with.
func (s *search) candidates(u int) []int {
	var ret []int
	seen := make(map[int]bool)
	for _, x := range s.a.adj[u] {
		y := s.aTob[x]
		if y < 0 {
			continue
		}
		oa, _ := s.a.order(u, x)
		for _, v := range s.b.adj[y] {
			if s.bToa[v] >= 0 || seen[v] || s.b.symbols[v] != s.a.symbols[u] {
				continue
			}
			ob, _ := s.b.order(v, y)
			if s.bondsMatch(oa, ob, s.a.inRing(u, x), s.b.inRing(v, y)) {
				seen[v] = true
				ret = append(ret, v)
			}
		}
	}
	return ret
}

func (s *search) pair(u, v int) {
	s.aTob[u] = v
	s.bToa[v] = u
	s.pairs = append(s.pairs, [2]int{u, v})
}

func (s *search) unpair() {
	p := s.pairs[len(s.pairs)-1]
	s.aTob[p[0]] = -1
	s.bToa[p[1]] = -1
	s.pairs = s.pairs[:len(s.pairs)-1]
}

func (s *search) step() error {
	s.steps++
	if s.opts.MaxSteps > 0 && s.steps > s.opts.MaxSteps {
		return errStop
	}
	if s.steps%1024 == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return errStop
		}
	}
	return nil
}

func (s *search) extend() error {
	if err := s.step(); err != nil {
		return err
	}
	if len(s.pairs) > len(s.best) {
		s.best = append(s.best[:0:0], s.pairs...)
		if len(s.best) >= s.limit {
			return errStop
		}
	}
	u := s.frontier()
	if u < 0 || s.bound() <= len(s.best) {
		return nil
	}
	for _, v := range s.candidates(u) {
		s.pair(u, v)
		err := s.extend()
		s.unpair()
		if err != nil {
			return err
		}
	}
	//and the branch where u stays out of the match
	s.exclude[u] = true
	err := s.extend()
	s.exclude[u] = false
	return err
}

// Find returns the largest common substructure of a and b found within the limits
// set in opts (DefaultOptions() is used if opts is nil). If the search can't be
// completed, the best match found so far is returned, with Complete set to false.
// A cancelled ctx stops the search with an error.
func Find(ctx context.Context, a, b chem.Atomer, opts *Options) (*Match, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mcs/Find: %w", err)
	}
	s := &search{
		ctx:  ctx,
		a:    newMolGraph(a, opts.HeavyOnly),
		b:    newMolGraph(b, opts.HeavyOnly),
		opts: opts,
	}
	s.aTob = make([]int, a.Len())
	s.bToa = make([]int, b.Len())
	s.exclude = make([]bool, a.Len())
	for i := range s.aTob {
		s.aTob[i] = -1
	}
	for i := range s.bToa {
		s.bToa[i] = -1
	}
	s.limit = min(s.a.maxComp, s.b.maxComp)
	var err error
	//Every seed pair. Once all the matches containing an atom of a have been
	//explored, that atom is excluded from the following ones.
seeds:
	for _, u := range s.a.nodes {
		for _, v := range s.b.nodes {
			if s.a.symbols[u] != s.b.symbols[v] {
				continue
			}
			if s.bound() <= len(s.best) {
				break seeds
			}
			s.pair(u, v)
			err = s.extend()
			s.unpair()
			if err != nil {
				break seeds
			}
		}
		s.exclude[u] = true
	}
	if s.err != nil {
		return nil, fmt.Errorf("mcs/Find: %w", s.err)
	}
	m := &Match{Pairs: s.best, Steps: s.steps, Complete: err == nil || len(s.best) >= s.limit}
	return m, nil
}
