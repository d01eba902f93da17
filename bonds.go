/*
 * bonds.go, part of goDock.
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

package chem

import (
	"fmt"
	"math"
	"sort"

	v3 "github.com/rmera/godock/v3"
)

// constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

// Bond joins two atoms. An order of 0 means undetermined, 4 is aromatic.
type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Dist  float64
	Order float64
}

// Cross returns the atom at the other side of the bond from origin.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

// return a new *Bond slice without b
func takefromslice(bonds []*Bond, b *Bond) []*Bond {
	newb := make([]*Bond, 0, len(bonds))
	for _, v := range bonds {
		if v != b {
			newb = append(newb, v)
		}
	}
	return newb
}

// RemoveBond removes the bond b from the topology and from both its atoms.
// The remaining bonds are re-indexed.
func (T *Topology) RemoveBond(b *Bond) error {
	lenb := len(T.bonds)
	T.bonds = takefromslice(T.bonds, b)
	if len(T.bonds) == lenb {
		return fmt.Errorf("Topology/RemoveBond: bond %d not in the topology", b.Index)
	}
	b.At1.Bonds = takefromslice(b.At1.Bonds, b)
	b.At2.Bonds = takefromslice(b.At2.Bonds, b)
	for i, v := range T.bonds {
		v.Index = i
	}
	return nil
}

// AssignBonds assigns bonds to the topology based on a simple distance
// criterion, similar to that described in DOI:10.1186/1758-2946-3-33
// Existing bonds are removed first. The orders of the new bonds are left
// undetermined (0).
func AssignBonds(coord *v3.Matrix, top *Topology) error {
	// might get slow for large systems. It's really not thought
	//for proteins or macromolecules.
	if coord.NVecs() != top.Len() {
		return fmt.Errorf("AssignBonds: %d coordinates for %d atoms", coord.NVecs(), top.Len())
	}
	top.FillIndexes()
	top.bonds = nil
	for _, at := range top.Atoms {
		at.Bonds = nil
	}
	tot := top.Len()
	for i := 0; i < tot; i++ {
		at1 := top.Atoms[i]
		cov1 := symbolCovrad[at1.Symbol]
		if cov1 == 0 {
			return fmt.Errorf("AssignBonds: Couldn't find the covalent radius for %s %d", at1.Symbol, i)
		}
		t1 := coord.Row3(i)
		for j := i + 1; j < tot; j++ {
			at2 := top.Atoms[j]
			cov2 := symbolCovrad[at2.Symbol]
			if cov2 == 0 {
				return fmt.Errorf("AssignBonds: Couldn't find the covalent radius for %s %d", at2.Symbol, j)
			}
			t2 := coord.Row3(j)
			d := math.Sqrt((t2[0]-t1[0])*(t2[0]-t1[0]) + (t2[1]-t1[1])*(t2[1]-t1[1]) + (t2[2]-t1[2])*(t2[2]-t1[2]))
			if d < cov1+cov2+bondtol && d > tooclose {
				b, _ := top.AddBond(i, j, 0)
				b.Dist = d
			}
		}
	}
	//Now we check that no atom has too many bonds.
	for _, at := range top.Atoms {
		max := symbolMaxBonds[at.Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		sort.Slice(at.Bonds, func(i, j int) bool { return at.Bonds[i].Dist < at.Bonds[j].Dist })
		for len(at.Bonds) > max {
			//we remove the longest bond
			if err := top.RemoveBond(at.Bonds[len(at.Bonds)-1]); err != nil {
				return fmt.Errorf("AssignBonds: %w", err)
			}
		}
	}
	return nil
}

// BondedTo returns the indexes of the atoms bonded to the atom with index i.
func (T *Topology) BondedTo(i int) []int {
	at := T.Atom(i)
	ret := make([]int, 0, len(at.Bonds))
	for _, b := range at.Bonds {
		ret = append(ret, b.Cross(at).index)
	}
	return ret
}
