/*
 * ligand.go, part of goDock.
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

// Package ligand builds 3D ligand structures and conformer ensembles
// for docking.
package ligand

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chem "github.com/rmera/godock"
	"github.com/rmera/godock/align"
	"github.com/rmera/godock/mcs"
	v3 "github.com/rmera/godock/v3"
	"golang.org/x/sync/errgroup"
)

// Generator builds 3D structures and conformers. babel.Handle implements it.
type Generator interface {
	//Gen3D returns a 3D structure, with hydrogens, for the molecule in the SMILES string smiles.
	Gen3D(ctx context.Context, smiles string) (*chem.Molecule, error)
	//Conformers returns a copy of mol with up to n conformers as frames, starting from coords.
	Conformers(ctx context.Context, mol *chem.Molecule, coords *v3.Matrix, n int) (*chem.Molecule, error)
}

// FromSMILES builds a 3D structure for smiles using gen. If anchor is not nil, the structure
// is translated so the mean of its atomic coordinates is at anchor.
func FromSMILES(ctx context.Context, gen Generator, smiles string, anchor *[3]float64) (*chem.Molecule, error) {
	errid := "ligand/FromSMILES"
	mol, err := gen.Gen3D(ctx, smiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if mol.LenFrames() == 0 {
		return nil, fmt.Errorf("%s: no coordinates generated for %s", errid, smiles)
	}
	if anchor == nil {
		return mol, nil
	}
	for i, c := range mol.Coords {
		mol.Coords[i], err = chem.Translate(c, *anchor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	return mol, nil
}

// ScaffoldOptions contains the parameters for ScaffoldConformers.
type ScaffoldOptions struct {
	NumConfs      int     //number of conformers requested from the generator
	PruneRMS      float64 //conformers closer than this to an already accepted one are discarded
	RMSDThreshold float64 //only conformers this close to the anchor are written
	MCS           *mcs.Options
	Cpus          int    //goroutines for the RMSD calculations
	Plot          string //if not empty, a histogram of the RMSDs is saved to this file
	PlotFraction  bool   //plot the fraction of conformers in each bin, not their number
}

// DefaultScaffoldOptions returns the default options.
func DefaultScaffoldOptions() *ScaffoldOptions {
	return &ScaffoldOptions{
		NumConfs:      50,
		PruneRMS:      0.75,
		RMSDThreshold: 0.75,
		MCS:           mcs.DefaultOptions(),
		Cpus:          runtime.NumCPU(),
	}
}

// Conformer is a conformer superimposed onto the anchor.
type Conformer struct {
	Index  int //the frame in the generated ensemble
	RMSD   float64
	Coords *v3.Matrix
}

// ReadAnchor reads the first molecule in the file name (in any format chem.FileRead supports).
func ReadAnchor(name string) (*chem.Molecule, error) {
	mols, err := chem.FileRead(name)
	if err != nil {
		return nil, err
	}
	if mols[0].LenFrames() == 0 {
		return nil, fmt.Errorf("no coordinates for the anchor in %s", name)
	}
	return mols[0], nil
}

// Superimpose superimposes every frame of mol onto anchor using the atom pairs
// (each pair contains an index in mol and one in anchor), concurrently, and returns
// the superimposed conformers in the order of the frames.
func Superimpose(ctx context.Context, mol, anchor *chem.Molecule, pairs [][2]int, cpus int) ([]*Conformer, error) {
	confs := make([]*Conformer, mol.LenFrames())
	g, ctx := errgroup.WithContext(ctx)
	if cpus > 0 {
		g.SetLimit(cpus)
	}
	for i := range mol.Coords {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rmsd, aligned, err := align.BestRMS(mol.Coords[i], anchor.Coords[0], pairs)
			if err != nil {
				return fmt.Errorf("conformer %d: %w", i, err)
			}
			confs[i] = &Conformer{Index: i, RMSD: rmsd, Coords: aligned}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return confs, nil
}

// Prune returns the conformers that are at least rms A (heavy atom RMSD, after
// superposition) away from every conformer accepted before them.
func Prune(mol chem.Atomer, confs []*Conformer, rms float64) ([]*Conformer, error) {
	heavy := make([]int, 0, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		if mol.Atom(i).Symbol != "H" {
			heavy = append(heavy, i)
		}
	}
	if len(heavy) < 3 || rms <= 0 {
		return confs, nil
	}
	accepted := make([]*Conformer, 0, len(confs))
	for _, c := range confs {
		keep := true
		for _, a := range accepted {
			sup, err := chem.Super(c.Coords, a.Coords, heavy, heavy)
			if err != nil {
				return nil, fmt.Errorf("ligand/Prune: %w", err)
			}
			ch := v3.Zeros(len(heavy))
			ch.SomeVecs(sup, heavy)
			ah := v3.Zeros(len(heavy))
			ah.SomeVecs(a.Coords, heavy)
			d, err := chem.RMSD(ch, ah)
			if err != nil {
				return nil, fmt.Errorf("ligand/Prune: %w", err)
			}
			if d < rms {
				keep = false
				break
			}
		}
		if keep {
			accepted = append(accepted, c)
		}
	}
	return accepted, nil
}

// ScaffoldConformers builds a conformer ensemble for smiles, in which the maximum common substructure
// with the first molecule in the file anchorFile is kept close to the anchor. The ligand
// is built with gen, paired with the anchor, and opts.NumConfs conformers are generated.
// Each conformer is superimposed onto the anchor over the paired atoms. After pruning
// similar conformers, those with an RMSD to the anchor of at most opts.RMSDThreshold are written,
// superimposed, to the SDF file output, with their RMSD in the "RMSD" data field.
// The written conformers are returned.
func ScaffoldConformers(ctx context.Context, gen Generator, smiles, anchorFile, output string, opts *ScaffoldOptions) ([]*Conformer, error) {
	errid := "ligand/ScaffoldConformers"
	if opts == nil {
		opts = DefaultScaffoldOptions()
	}
	mol, err := FromSMILES(ctx, gen, smiles, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	anchor, err := ReadAnchor(anchorFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	match, err := mcs.Find(ctx, mol, anchor, opts.MCS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if match.Len() < 3 {
		return nil, fmt.Errorf("%s: only %d atoms in common with the anchor, at least 3 are needed", errid, match.Len())
	}
	ens, err := gen.Conformers(ctx, mol, mol.Coords[0], opts.NumConfs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	confs, err := Superimpose(ctx, ens, anchor, match.Pairs, opts.Cpus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	confs, err = Prune(ens, confs, opts.PruneRMS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if opts.Plot != "" {
		rmsds := make([]float64, len(confs))
		for i, c := range confs {
			rmsds[i] = c.RMSD
		}
		if err := PlotRMSDs(rmsds, opts.RMSDThreshold, opts.Plot, opts.PlotFraction); err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	w, err := chem.NewSDFWriter(output)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	written := make([]*Conformer, 0, len(confs))
	for _, c := range confs {
		if c.RMSD > opts.RMSDThreshold {
			continue
		}
		ens.Props.Set("RMSD", strconv.FormatFloat(c.RMSD, 'f', 4, 64))
		if err := w.Write(ens, c.Coords); err != nil {
			w.Close()
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
		written = append(written, c)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return written, nil
}
