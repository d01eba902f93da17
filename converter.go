/*
 * converter.go, part of goDock.
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
	"bytes"
	"context"
	"fmt"
	"strings"
)

// NativeConverter turns structure blocks into molecules without calling external
// programs. Bonds are read from the block when the format has them (SDF, MOL2, PDB
// CONECT records); otherwise they are assigned with AssignBonds, and their orders
// are left undetermined.
type NativeConverter struct{}

// ToMolecules parses data, in the given format (pdb, pdbqt, sdf or mol2), and returns
// one molecule per model or record.
func (N NativeConverter) ToMolecules(ctx context.Context, data []byte, format string) ([]*Molecule, error) {
	const errid = "NativeConverter/ToMolecules"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	var mols []*Molecule
	var err error
	r := bytes.NewReader(data)
	format = strings.ToLower(format)
	switch format {
	case "pdb":
		mols, err = PDBModelsRead(r)
	case "pdbqt":
		mols, err = PDBQTRead(r)
	case "sdf", "mol", "sd":
		mols, err = SDFRead(r)
	case "mol2":
		mols, err = MOL2Read(r)
	default:
		return nil, fmt.Errorf("%s: format %q not supported", errid, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if format != "pdb" && format != "pdbqt" {
		return mols, nil
	}
	for i, m := range mols {
		if len(m.Bonds()) > 0 {
			continue
		}
		if err := AssignBonds(m.Coords[0], m.Topology); err != nil {
			return nil, fmt.Errorf("%s: model %d: %w", errid, i+1, err)
		}
	}
	return mols, nil
}
