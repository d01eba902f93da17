/*
 * mol2.go, part of goDock.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/rmera/godock/v3"
)

// Tripos bond types that are not plain numbers.
var mol2BondOrders = map[string]float64{
	"ar": 4,
	"am": 1,
	"du": 1,
	"un": 0,
	"nc": 0,
}

type mol2Record struct {
	name   string
	atoms  []*Atom
	coords []float64
	bonds  [][3]float64
}

func (m *mol2Record) molecule() (*Molecule, error) {
	xyz, err := v3.NewMatrix(m.coords)
	if err != nil {
		return nil, err
	}
	top := NewTopology(0, 1, m.atoms)
	for _, b := range m.bonds {
		if _, err := top.AddBond(int(b[0])-1, int(b[1])-1, b[2]); err != nil {
			return nil, err
		}
	}
	mol, err := NewMolecule([]*v3.Matrix{xyz}, top)
	if err != nil {
		return nil, err
	}
	mol.Name = m.name
	return mol, nil
}

// MOL2Read reads all the molecules in a Tripos MOL2 stream. Only the MOLECULE,
// ATOM and BOND sections are used. Partial charges are kept in the Charge field of
// each atom, and aromatic bonds get order 4.
func MOL2Read(r io.Reader) ([]*Molecule, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var recs []*mol2Record
	var cur *mol2Record
	section := ""
	sectionLine := 0
	linenu := 0
	perr := func(msg string, err error) error {
		return &ParseError{Format: "MOL2", Line: linenu, Msg: msg, Err: err}
	}
	for scanner.Scan() {
		linenu++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "@<TRIPOS>") {
			section = strings.TrimPrefix(line, "@<TRIPOS>")
			sectionLine = 0
			if section == "MOLECULE" {
				cur = new(mol2Record)
				recs = append(recs, cur)
			}
			continue
		}
		sectionLine++
		if cur == nil {
			continue
		}
		f := strings.Fields(line)
		switch section {
		case "MOLECULE":
			if sectionLine == 1 {
				cur.name = line
			}
		case "ATOM":
			if len(f) < 6 {
				return nil, perr(fmt.Sprintf("bad atom line %q", line), nil)
			}
			var xyz [3]float64
			for i := range xyz {
				v, err := strconv.ParseFloat(f[2+i], 64)
				if err != nil {
					return nil, perr("bad coordinates", err)
				}
				xyz[i] = v
			}
			at := &Atom{Name: f[1], Occupancy: 1, Het: true}
			at.ID, _ = strconv.Atoi(f[0])
			at.Symbol = normalizeSymbol(strings.SplitN(f[5], ".", 2)[0])
			if len(f) > 6 {
				at.MolID, _ = strconv.Atoi(f[6])
			}
			if len(f) > 7 {
				at.MolName = f[7]
			}
			if len(f) > 8 {
				at.Charge, _ = strconv.ParseFloat(f[8], 64)
			}
			cur.atoms = append(cur.atoms, at)
			cur.coords = append(cur.coords, xyz[:]...)
		case "BOND":
			if len(f) < 4 {
				return nil, perr(fmt.Sprintf("bad bond line %q", line), nil)
			}
			a1, err1 := strconv.Atoi(f[1])
			a2, err2 := strconv.Atoi(f[2])
			if err1 != nil || err2 != nil {
				return nil, perr(fmt.Sprintf("bad bond line %q", line), nil)
			}
			order, ok := mol2BondOrders[strings.ToLower(f[3])]
			if !ok {
				o, err := strconv.Atoi(f[3])
				if err != nil {
					return nil, perr(fmt.Sprintf("unknown bond type %q", f[3]), err)
				}
				order = float64(o)
			}
			cur.bonds = append(cur.bonds, [3]float64{float64(a1), float64(a2), order})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perr("reading failed", err)
	}
	mols := make([]*Molecule, 0, len(recs))
	for i, rec := range recs {
		mol, err := rec.molecule()
		if err != nil {
			return nil, &ParseError{Format: "MOL2", Msg: fmt.Sprintf("molecule %d", i+1), Err: err}
		}
		mols = append(mols, mol)
	}
	if len(mols) == 0 {
		return nil, &ParseError{Format: "MOL2", Msg: "no molecules found"}
	}
	return mols, nil
}

// MOL2Write writes mol, with coordinates coords, to out in Tripos MOL2 format.
// Atom types are written as plain element symbols.
func MOL2Write(out io.Writer, mol *Molecule, coords *v3.Matrix) error {
	if coords.NVecs() != mol.Len() {
		return fmt.Errorf("MOL2Write: %d coordinates for %d atoms", coords.NVecs(), mol.Len())
	}
	mol.FillIndexes()
	bonds := mol.Bonds()
	name := mol.Name
	if name == "" {
		name = "*****"
	}
	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "@<TRIPOS>MOLECULE\n%s\n %d %d 0 0 0\nSMALL\nUSER_CHARGES\n\n", name, mol.Len(), len(bonds))
	fmt.Fprint(bw, "@<TRIPOS>ATOM\n")
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		v := coords.Row3(i)
		resname := at.MolName
		if resname == "" {
			resname = "UNL"
		}
		atname := at.Name
		if atname == "" {
			atname = at.Symbol
		}
		fmt.Fprintf(bw, "%7d %-8s %10.4f %10.4f %10.4f %-6s %4d %-6s %9.4f\n", i+1, atname, v[0], v[1], v[2], at.Symbol, max(at.MolID, 1), resname, at.Charge)
	}
	fmt.Fprint(bw, "@<TRIPOS>BOND\n")
	for i, b := range bonds {
		t := strconv.Itoa(int(b.Order))
		switch b.Order {
		case 4:
			t = "ar"
		case 0:
			t = "1"
		}
		fmt.Fprintf(bw, "%6d %5d %5d %s\n", i+1, b.At1.index+1, b.At2.index+1, t)
	}
	return bw.Flush()
}
