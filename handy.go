/*
 * handy.go, part of goDock.
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

// Residue is a group of consecutive atoms sharing chain, residue number,
// insertion code and residue name.
type Residue struct {
	Chain   string
	ID      int
	InsCode byte
	Name    string
	Atoms   []int //indexes in the molecule
}

// Residues groups the atoms of mol into residues, in the order they appear.
// A new residue starts whenever the chain, residue number, insertion code or residue
// name changes from one atom to the next.
func Residues(mol Atomer) []*Residue {
	ret := make([]*Residue, 0, mol.Len()/8+1)
	var cur *Residue
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		if cur == nil || at.Chain != cur.Chain || at.MolID != cur.ID || at.InsCode != cur.InsCode || at.MolName != cur.Name {
			cur = &Residue{Chain: at.Chain, ID: at.MolID, InsCode: at.InsCode, Name: at.MolName}
			ret = append(ret, cur)
		}
		cur.Atoms = append(cur.Atoms, i)
	}
	return ret
}

// Molecules2Atoms gets a selection list from a list of residues.
// It select all the atoms that form part of the residues in the list.
// It doesnt return errors, if a residue is out of range, no atom will
// be returned for it. Atoms are also required to be part of one of the chains
// specified in chains, unless chains is empty.
func Molecules2Atoms(mol Atomer, residues []int, chains []string) []int {
	atlist := make([]int, 0, len(residues)*3)
	for key := 0; key < mol.Len(); key++ {
		at := mol.Atom(key)
		if isInInt(residues, at.MolID) && (len(chains) == 0 || isInString(chains, at.Chain)) {
			atlist = append(atlist, key)
		}
	}
	return atlist
}

func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
