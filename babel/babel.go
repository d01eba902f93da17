/*
 * babel.go, part of goDock.
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

// Package babel drives the Open Babel command line program (obabel) to build 3D
// structures from SMILES, search conformers and convert between formats.
// Open Babel must be obtained independently (http://openbabel.org).
package babel

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	chem "github.com/rmera/godock"
	v3 "github.com/rmera/godock/v3"
)

// Handle represents the obabel program and the parameters for
// structure generation.
type Handle struct {
	command    string
	wrkdir     string
	ForceField string //force field for minimizations, MMFF94 by default
	Steps      int    //minimization steps
	Charges    string //partial charge model, gasteiger by default. Empty means no charges.
	Score      string //scoring for conformer searches, rmsd by default
}

// NewHandle initializes and returns an obabel handle
// with values set to their defaults.
func NewHandle() *Handle {
	run := new(Handle)
	run.SetDefaults()
	return run
}

// SetDefaults sets the parameters to their defaults.
func (O *Handle) SetDefaults() {
	O.command = "obabel"
	O.ForceField = "MMFF94"
	O.Steps = 1000
	O.Charges = "gasteiger"
	O.Score = "rmsd"
}

// Command returns the path and name for the obabel excecutable
func (O *Handle) Command() string {
	return O.command
}

// SetCommand sets the path and name for the obabel excecutable
func (O *Handle) SetCommand(name string) {
	O.command = name
}

// SetWorkDir sets the directory where obabel is run.
func (O *Handle) SetWorkDir(d string) {
	O.wrkdir = d
}

// run runs obabel with the given arguments, feeding input through its
// standard input, and returns the standard output.
func (O *Handle) run(ctx context.Context, input []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(O.command)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", O.command, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = O.wrkdir
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", O.command, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	//obabel reports problems on stderr, but keeps the exit status at 0.
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s %s: no output: %s", O.command, strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Gen3D builds a 3D structure for the molecule in the SMILES string smiles. Hydrogens are added,
// the structure is embedded and minimized with the handle's force field, and partial
// charges are assigned. The charges are kept in the Charge field of each atom.
func (O *Handle) Gen3D(ctx context.Context, smiles string) (*chem.Molecule, error) {
	errid := "babel/Gen3D"
	smiles = strings.TrimSpace(smiles)
	if smiles == "" || strings.ContainsAny(smiles, " \t\n") {
		return nil, fmt.Errorf("%s: invalid SMILES %q", errid, smiles)
	}
	args := []string{"-:" + smiles, "-omol2", "-h", "--gen3d"}
	if O.Steps > 0 {
		args = append(args, "--minimize", "--ff", O.ForceField, "--steps", strconv.Itoa(O.Steps))
	}
	if O.Charges != "" {
		args = append(args, "--partialcharge", O.Charges)
	}
	out, err := O.run(ctx, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	mols, err := chem.MOL2Read(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%s: can't read obabel output: %w", errid, err)
	}
	mol := mols[0]
	mol.Name = smiles
	return mol, nil
}

// Conformers performs a conformer search for mol, starting from the coordinates coords,
// and returns a copy of mol with up to n frames, one per conformer.
func (O *Handle) Conformers(ctx context.Context, mol *chem.Molecule, coords *v3.Matrix, n int) (*chem.Molecule, error) {
	errid := "babel/Conformers"
	if n < 1 {
		return nil, fmt.Errorf("%s: at least 1 conformer must be requested, got %d", errid, n)
	}
	var in bytes.Buffer
	if err := chem.SDFWrite(&in, mol, coords); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	score := O.Score
	if score == "" {
		score = "rmsd"
	}
	out, err := O.run(ctx, in.Bytes(), "-isdf", "-osdf", "--conformer", "--nconf", strconv.Itoa(n), "--score", score, "--writeconformers")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	confs, err := chem.SDFRead(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%s: can't read obabel output: %w", errid, err)
	}
	ret := mol.Copy()
	ret.Coords = make([]*v3.Matrix, 0, len(confs))
	for i, c := range confs {
		if c.Len() != mol.Len() {
			return nil, fmt.Errorf("%s: conformer %d has %d atoms, expected %d", errid, i, c.Len(), mol.Len())
		}
		ret.Coords = append(ret.Coords, c.Coords[0])
	}
	return ret, nil
}

// ToMolecules converts the data, in the format informat (any input format obabel supports)
// into SDF, and returns the molecules read. Open Babel perceives bond orders in the process.
// Records such as MODEL or REMARK in the input end up as data fields of the molecules.
func (O *Handle) ToMolecules(ctx context.Context, data []byte, informat string) ([]*chem.Molecule, error) {
	errid := "babel/ToMolecules"
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no data given", errid)
	}
	out, err := O.run(ctx, data, "-i"+strings.ToLower(informat), "-osdf")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	mols, err := chem.SDFRead(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%s: can't read obabel output: %w", errid, err)
	}
	return mols, nil
}

// Convert converts the file in to the file out, deducing both formats from the file names.
func (O *Handle) Convert(ctx context.Context, in, out string, extra ...string) error {
	errid := "babel/Convert"
	args := append([]string{in, "-O", out}, extra...)
	path, err := exec.LookPath(O.command)
	if err != nil {
		return fmt.Errorf("%s: %s not found: %w", errid, O.command, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = O.wrkdir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", errid, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
