/*
 * chem.go, part of goDock.
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
	"sort"

	v3 "github.com/rmera/godock/v3"
)

/**Note: A few functions here panic instead of returning errors. These are "fundamental"
 * functions, if something goes wrong here, the program is most likely wrong and should
 * crash. The panics are related to using the function on a nil object or trying to access
 * out-of-bounds fields**/

// Atom contains the information read for an atom, except for the coordinates,
// which are kept in a v3.Matrix.
type Atom struct {
	Name         string
	ID           int //the serial number in the file the atom was read from
	index        int
	MolName      string
	MolName1     byte //the one letter name for residues and nucleotids
	MolID        int
	InsCode      byte //insertion code, 0 if none
	Chain        string
	Symbol       string
	Het          bool    // is hetatm in the pdb file?
	Charge       float64 //partial charge
	FormalCharge int
	Occupancy    float64
	Bfactor      float64
	ADType       string //AutoDock atom type, only present for PDBQT files
	Bonds        []*Bond
}

// Copy returns a copy of the Atom object, without bonds.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := new(Atom)
	*N = *A
	N.Bonds = nil
	return N
}

// Index returns the position of the atom in its topology. It is only valid
// after a call to FillIndexes on the topology.
func (A *Atom) Index() int {
	return A.index
}

/*****Topology type***/

// Topology contains information about a molecule which is not expected to change in time
// (i.e. everything except for coordinates).
type Topology struct {
	Atoms  []*Atom
	bonds  []*Bond
	charge int
	multi  int
}

// NewTopology returns a topology with the given atoms, charge and multiplicity.
// If ats is nil, an empty topology is returned.
func NewTopology(charge, multi int, ats ...[]*Atom) *Topology {
	top := new(Topology)
	if len(ats) > 0 && ats[0] != nil {
		top.Atoms = ats[0]
	} else {
		top.Atoms = make([]*Atom, 0, 10)
	}
	top.charge = charge
	top.multi = multi
	top.FillIndexes()
	return top
}

// Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

// Multi returns the multiplicity of the topology
func (T *Topology) Multi() int {
	return T.multi
}

// SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

// SetMulti sets the multiplicity of the topology to i
func (T *Topology) SetMulti(i int) {
	T.multi = i
}

// FillIndexes sets the index of each atom to its position in the topology.
func (T *Topology) FillIndexes() {
	for i, v := range T.Atoms {
		v.index = i
	}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// AppendAtom appends an atom at the end of the topology.
func (T *Topology) AppendAtom(at *Atom) {
	at.index = len(T.Atoms)
	T.Atoms = append(T.Atoms, at)
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// AddBond adds a bond of the given order between the atoms with indexes i and j.
func (T *Topology) AddBond(i, j int, order float64) (*Bond, error) {
	if i < 0 || j < 0 || i >= T.Len() || j >= T.Len() || i == j {
		return nil, fmt.Errorf("Topology/AddBond: invalid atom indexes %d, %d (%d atoms)", i, j, T.Len())
	}
	at1, at2 := T.Atoms[i], T.Atoms[j]
	at1.index, at2.index = i, j
	b := &Bond{Index: len(T.bonds), At1: at1, At2: at2, Order: order}
	at1.Bonds = append(at1.Bonds, b)
	at2.Bonds = append(at2.Bonds, b)
	T.bonds = append(T.bonds, b)
	return b, nil
}

// Bonds returns the bonds of the topology, sorted by index.
func (T *Topology) Bonds() []*Bond {
	sort.Slice(T.bonds, func(i, j int) bool { return T.bonds[i].Index < T.bonds[j].Index })
	return T.bonds
}

// HeavyAtoms returns the indexes of the atoms that are not hydrogens.
func (T *Topology) HeavyAtoms() []int {
	ret := make([]int, 0, T.Len())
	for i, v := range T.Atoms {
		if v.Symbol != "H" {
			ret = append(ret, i)
		}
	}
	return ret
}

// CopyAtoms returns a copy of the topology, including bonds.
func (T *Topology) CopyAtoms() *Topology {
	top := new(Topology)
	top.Atoms = make([]*Atom, T.Len())
	for key, val := range T.Atoms {
		top.Atoms[key] = val.Copy()
		top.Atoms[key].index = key
	}
	top.charge = T.charge
	top.multi = T.multi
	T.FillIndexes()
	for _, b := range T.Bonds() {
		top.AddBond(b.At1.index, b.At2.index, b.Order)
	}
	return top
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in possibly many states (frames).
// The coordinates, which change between states, are stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords []*v3.Matrix
	Name   string
	Props  *Properties
}

// NewMolecule makes a molecule with ats atoms and coords coordinates. It returns an error
// if the number of atoms and coordinates doesn't match.
func NewMolecule(coords []*v3.Matrix, ats *Topology) (*Molecule, error) {
	if ats == nil {
		return nil, fmt.Errorf("NewMolecule: Supplied a nil Topology")
	}
	mol := &Molecule{Topology: ats, Coords: coords, Props: NewProperties()}
	if err := mol.Corrupted(); err != nil {
		return nil, fmt.Errorf("NewMolecule: %w", err)
	}
	return mol, nil
}

// Copy returns a deep copy of the molecule, including coordinates and properties.
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(err.Error())
	}
	mol := &Molecule{Topology: M.Topology.CopyAtoms(), Name: M.Name}
	mol.Coords = make([]*v3.Matrix, 0, len(M.Coords))
	for _, val := range M.Coords {
		mol.Coords = append(mol.Coords, val.Clone())
	}
	mol.Props = M.Props.Copy()
	return mol
}

// Corrupted checks whether the molecule is corrupted, i.e. the
// coordinates don't match the number of atoms.
func (M *Molecule) Corrupted() error {
	for i := range M.Coords {
		if M.Coords[i] == nil || M.Len() != M.Coords[i].NVecs() {
			return fmt.Errorf("Inconsistent coordinates/atoms in frame %d: Atoms %d", i, M.Len())
		}
	}
	return nil
}

// LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

/**Properties**/

// Properties is an ordered set of string data fields attached to a molecule,
// such as the data items of an SDF record.
type Properties struct {
	keys []string
	vals map[string]string
}

// NewProperties returns an empty set of properties.
func NewProperties() *Properties {
	return &Properties{vals: make(map[string]string)}
}

// Set sets the key to value. New keys are added at the end.
func (P *Properties) Set(key, value string) {
	if _, ok := P.vals[key]; !ok {
		P.keys = append(P.keys, key)
	}
	P.vals[key] = value
}

// Get returns the value for key, and whether it was present.
func (P *Properties) Get(key string) (string, bool) {
	if P == nil {
		return "", false
	}
	v, ok := P.vals[key]
	return v, ok
}

// Del removes key. It does nothing if the key is absent.
func (P *Properties) Del(keys ...string) {
	for _, key := range keys {
		if _, ok := P.vals[key]; !ok {
			continue
		}
		delete(P.vals, key)
		for i, v := range P.keys {
			if v == key {
				P.keys = append(P.keys[:i], P.keys[i+1:]...)
				break
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (P *Properties) Keys() []string {
	if P == nil {
		return nil
	}
	ret := make([]string, len(P.keys))
	copy(ret, P.keys)
	return ret
}

// Len returns the number of properties.
func (P *Properties) Len() int {
	if P == nil {
		return 0
	}
	return len(P.keys)
}

// Copy returns a copy of P.
func (P *Properties) Copy() *Properties {
	ret := NewProperties()
	if P == nil {
		return ret
	}
	for _, k := range P.keys {
		ret.Set(k, P.vals[k])
	}
	return ret
}
