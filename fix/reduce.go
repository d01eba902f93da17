/*
 * reduce.go, part of goDock.
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

package fix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	chem "github.com/rmera/godock"
	v3 "github.com/rmera/godock/v3"
)

// Flip modes for Reduce.
const (
	NoFlip = iota //-NOFLIP
	Flip          //-FLIP
	Build         //-BUILD
)

// Reducer represents the Reduce program
// (Word, et. al. (1999) J. Mol. Biol. 285, 1735-1747.
// For more information see http://kinemage.biochem.duke.edu)
type Reducer struct {
	command string
	Report  io.Writer //the report Reduce writes to stderr goes here, if not nil.
}

// NewReducer returns a Reduce handle that will call the "reduce" executable.
func NewReducer() *Reducer {
	return &Reducer{command: "reduce"}
}

// SetCommand sets the path and name for the reduce excecutable
func (R *Reducer) SetCommand(name string) {
	R.command = name
}

// Command returns the path and name for the reduce excecutable
func (R *Reducer) Command() string {
	return R.command
}

// Reduce protonates mol, with coordinates coords, and optionally flips
// residues. flip is one of NoFlip, Flip or Build. The PDB is piped through
// Reduce's standard input and output.
func (R *Reducer) Reduce(ctx context.Context, mol chem.Atomer, coords *v3.Matrix, flip int) (*chem.Molecule, error) {
	errid := "fix/Reduce"
	var pdb bytes.Buffer
	if err := chem.PDBWrite(&pdb, mol, coords); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	flag := "-NOFLIP"
	if flip == Flip {
		flag = "-FLIP"
	} else if flip > Flip {
		flag = "-BUILD"
	}
	path, err := exec.LookPath(R.command)
	if err != nil {
		return nil, fmt.Errorf("%s: %s not found: %w", errid, R.command, err)
	}
	reduce := exec.CommandContext(ctx, path, flag, "-")
	reduce.Stdin = &pdb
	var out, report bytes.Buffer
	reduce.Stdout = &out
	reduce.Stderr = &report
	err = reduce.Run()
	if R.Report != nil {
		R.Report.Write(report.Bytes())
	}
	//Reduce exits with status 1 even in many successful runs.
	var exitErr *exec.ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.ExitCode() == 1) {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	mol2, err := chem.PDBRead(&out)
	if err != nil {
		return nil, fmt.Errorf("%s: can't read the output of %s: %w", errid, R.command, err)
	}
	return mol2, nil
}

// Reduce protonates mol using a Reduce handle with default values, see Reducer.Reduce.
func Reduce(ctx context.Context, mol chem.Atomer, coords *v3.Matrix, flip int) (*chem.Molecule, error) {
	return NewReducer().Reduce(ctx, mol, coords, flip)
}
