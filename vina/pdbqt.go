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

package vina

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/godock"
)

// Data fields that come from the PDBQT records, and are not kept in the SDF.
// Open Babel truncates TORSDOF to TORSDO.
var pdbqtFields = []string{"MODEL", "REMARK", "TORSDO", "TORSDOF"}

// PoseData returns the pose number and score of a molecule read from a Vina output.
// The pose is the MODEL data field, or defpose if the molecule doesn't have one. The
// score is the third field of the REMARK data field (the "VINA RESULT" line).
func PoseData(mol *chem.Molecule, defpose int) (pose, score string, err error) {
	pose, ok := mol.Props.Get("MODEL")
	if !ok {
		pose = strconv.Itoa(defpose)
	}
	remark, ok := mol.Props.Get("REMARK")
	if !ok {
		return "", "", fmt.Errorf("no REMARK found")
	}
	f := strings.Fields(remark)
	if len(f) < 3 {
		return "", "", fmt.Errorf("no score in REMARK %q", remark)
	}
	return strings.TrimSpace(pose), f[2], nil
}

// PDBQTToSDF converts the Vina output pdbqt into the SDF file output, which is overwritten.
// The poses are read by conv. Each pose gets the data fields "Pose" (the model number)
// and "Score" (the Vina score), while the MODEL, REMARK and TORSDOF fields are removed.
// It returns the number of poses written.
func PDBQTToSDF(ctx context.Context, pdbqt, output string, conv chem.Converter) (int, error) {
	errid := "vina/PDBQTToSDF"
	data, err := os.ReadFile(pdbqt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	mols, err := conv.ToMolecules(ctx, data, "pdbqt")
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", errid, pdbqt, err)
	}
	w, err := chem.NewSDFWriter(output)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	for i, mol := range mols {
		pose, score, err := PoseData(mol, i+1)
		if err != nil {
			w.Close()
			return w.Len(), fmt.Errorf("%s: pose %d: %w", errid, i+1, err)
		}
		mol.Props.Set("Pose", pose)
		mol.Props.Set("Score", score)
		mol.Props.Del(pdbqtFields...)
		if err := w.Write(mol, mol.Coords[0]); err != nil {
			w.Close()
			return w.Len(), fmt.Errorf("%s: %w", errid, err)
		}
	}
	return w.Len(), w.Close()
}
