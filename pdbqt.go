/*
 * pdbqt.go, part of goDock.
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
	"io"
	"strconv"
)

// PDBQTRead reads an AutoDock PDBQT stream and returns one molecule per MODEL.
// Each molecule gets the data fields "MODEL" (the model number), "REMARK"
// (the REMARK lines without the keyword, joined by newlines) and "TORSDOF",
// when present. The elements are deduced from the AutoDock atom types.
// ROOT, BRANCH and similar records are ignored.
func PDBQTRead(r io.Reader) ([]*Molecule, error) {
	models, err := readPDBModels(r, true)
	if err != nil {
		return nil, err
	}
	ret := make([]*Molecule, 0, len(models))
	for i, m := range models {
		mol, err := m.molecule()
		if err != nil {
			return nil, &ParseError{Format: "PDBQT", Msg: fmt.Sprintf("model %d", i+1), Err: err}
		}
		//the REMARK property is set by molecule(), but we want MODEL first.
		remark, hasremark := mol.Props.Get("REMARK")
		mol.Props = NewProperties()
		if m.number > 0 {
			mol.Props.Set("MODEL", strconv.Itoa(m.number))
		}
		if hasremark {
			mol.Props.Set("REMARK", remark)
		}
		if m.torsdof != "" {
			mol.Props.Set("TORSDOF", m.torsdof)
		}
		ret = append(ret, mol)
	}
	return ret, nil
}

// PDBQTFileRead reads the PDBQT file name, see PDBQTRead.
func PDBQTFileRead(name string) ([]*Molecule, error) {
	f, err := OpenRead(name)
	if err != nil {
		return nil, fmt.Errorf("PDBQTFileRead: %w", err)
	}
	defer f.Close()
	mols, err := PDBQTRead(f)
	return mols, setFile(err, name)
}
