/*
 * fix.go, part of goDock.
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

// Package fix repairs receptor structures before docking, using the PDBFixer
// command line program (https://github.com/openmm/pdbfixer) or, for hydrogens only,
// the Reduce program.
package fix

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/rmera/godock"
)

// Options contains the parameters for a structure repair.
type Options struct {
	PH                 float64 //pH for the protonation
	AddResidues        bool    //add missing residues
	ReplaceNonstandard bool    //replace nonstandard residues by their standard equivalents
	KeepHeterogens     string  //all, water or none
	AddAtoms           string  //all, heavy, hydrogen or none
	Renumber           bool    //try to give the residues of the output the numbers in the input
}

// DefaultOptions returns the default repair options: every fix is applied,
// only waters are kept among heterogens, the protonation is done at pH 7.4 and
// the original residue numbers are restored.
func DefaultOptions() *Options {
	return &Options{
		PH:                 7.4,
		AddResidues:        true,
		ReplaceNonstandard: true,
		KeepHeterogens:     "water",
		AddAtoms:           "all",
		Renumber:           true,
	}
}

// Fixer represents the pdbfixer program.
type Fixer struct {
	command string
	wrkdir  string
}

// NewFixer initializes and returns a pdbfixer handle
// with values set to their defaults.
func NewFixer() *Fixer {
	f := new(Fixer)
	f.SetDefaults()
	return f
}

// SetDefaults sets the handle to its defaults.
func (F *Fixer) SetDefaults() {
	F.command = "pdbfixer"
	F.wrkdir = ""
}

// Command returns the path and name for the pdbfixer excecutable
func (F *Fixer) Command() string {
	return F.command
}

// SetCommand sets the path and name for the pdbfixer excecutable
func (F *Fixer) SetCommand(name string) {
	F.command = name
}

// SetWorkDir sets the directory where pdbfixer is run.
func (F *Fixer) SetWorkDir(d string) {
	F.wrkdir = d
}

// args returns the command line arguments for fixing input into output.
func (F *Fixer) args(input, output string, opts *Options) []string {
	args := []string{input, "--output=" + output}
	if opts.AddAtoms != "" {
		args = append(args, "--add-atoms="+opts.AddAtoms)
	}
	if opts.AddResidues {
		args = append(args, "--add-residues")
	}
	if opts.ReplaceNonstandard {
		args = append(args, "--replace-nonstandard")
	}
	if opts.KeepHeterogens != "" {
		args = append(args, "--keep-heterogens="+opts.KeepHeterogens)
	}
	args = append(args, "--ph="+strconv.FormatFloat(opts.PH, 'f', -1, 64))
	return args
}

// Run runs pdbfixer on the PDB file input, writing the result to output.
func (F *Fixer) Run(ctx context.Context, input, output string, opts *Options) error {
	errid := "fix/Run"
	if opts == nil {
		opts = DefaultOptions()
	}
	switch opts.KeepHeterogens {
	case "", "all", "water", "none":
	default:
		return fmt.Errorf("%s: invalid heterogen option %q", errid, opts.KeepHeterogens)
	}
	path, err := exec.LookPath(F.command)
	if err != nil {
		return fmt.Errorf("%s: %s not found: %w", errid, F.command, err)
	}
	cmd := exec.CommandContext(ctx, path, F.args(input, output, opts)...)
	cmd.Dir = F.wrkdir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %s failed: %w: %s", errid, F.command, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Fix repairs the PDB file input and writes the result to output. If opts.Renumber
// is set, it then tries to restore the residue numbers of input in output. A failure in
// the renumbering is only logged: the repaired structure, with the numbering
// produced by PDBFixer, stays in output, and Fix does not return an error.
func (F *Fixer) Fix(ctx context.Context, input, output string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := F.Run(ctx, input, output, opts); err != nil {
		return err
	}
	if !opts.Renumber {
		return nil
	}
	if err := RenumberFile(input, output); err != nil {
		log.Printf("fix/Fix: Not possible to renumber the residues of %s: %v", output, err)
	}
	return nil
}

// Fix repairs input into output using a pdbfixer handle with default values.
func Fix(ctx context.Context, input, output string, opts *Options) error {
	return NewFixer().Fix(ctx, input, output, opts)
}

// Renumber gives residue i of fixed the residue number and insertion code of residue
// i of original. It fails if fixed has more residues than original, in which case
// fixed is not modified.
func Renumber(original, fixed chem.Atomer) error {
	ores := chem.Residues(original)
	fres := chem.Residues(fixed)
	if len(fres) > len(ores) {
		return fmt.Errorf("fix/Renumber: the fixed structure has %d residues, the original only %d", len(fres), len(ores))
	}
	for i, r := range fres {
		for _, j := range r.Atoms {
			at := fixed.Atom(j)
			at.MolID = ores[i].ID
			at.InsCode = ores[i].InsCode
		}
	}
	return nil
}

// RenumberFile renumbers the residues in the PDB file fixed following the PDB
// file original (see Renumber) and overwrites fixed with the result.
func RenumberFile(original, fixed string) error {
	errid := "fix/RenumberFile"
	orig, err := chem.PDBFileRead(original)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	fix, err := chem.PDBFileRead(fixed)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	if err := Renumber(orig, fix); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	//the original file is only replaced once the new one is complete.
	tmp := filepath.Join(filepath.Dir(fixed), "renumbered-"+filepath.Base(fixed))
	if err := chem.PDBFileWrite(tmp, fix, fix.Coords...); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%s: %w", errid, err)
	}
	if err := os.Rename(tmp, fixed); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}
