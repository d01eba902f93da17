/*
 * align.go, part of goDock.
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

// Package align computes RMSDs between molecules that don't share a topology, by
// pairing their atoms through their maximum common substructure.
package align

import (
	"context"
	"fmt"

	chem "github.com/rmera/godock"
	"github.com/rmera/godock/mcs"
	v3 "github.com/rmera/godock/v3"
)

// Options contains options for the InPlaceRMSD function
type Options struct {
	RefFrame    int //frame of the reference molecule to use
	TargetFrame int
	MCS         *mcs.Options //substructure search options, mcs.DefaultOptions() if nil
}

// DefaultOptions returns options that use the first frame of each molecule
// and the default substructure search.
func DefaultOptions() *Options {
	return &Options{MCS: mcs.DefaultOptions()}
}

// pairCoords returns the coordinates of the paired atoms, the first element
// of each pair taken from a, and the second from b.
func pairCoords(a, b *v3.Matrix, pairs [][2]int) (*v3.Matrix, *v3.Matrix, error) {
	ia := make([]int, len(pairs))
	ib := make([]int, len(pairs))
	for i, p := range pairs {
		ia[i], ib[i] = p[0], p[1]
	}
	ca := v3.Zeros(len(pairs))
	if err := ca.SomeVecsSafe(a, ia); err != nil {
		return nil, nil, err
	}
	cb := v3.Zeros(len(pairs))
	if err := cb.SomeVecsSafe(b, ib); err != nil {
		return nil, nil, err
	}
	return ca, cb, nil
}

// MappedRMSD returns the RMSD between the atoms paired in pairs, the first element of
// each pair being an atom index in a, and the second in b. No superposition is performed.
func MappedRMSD(a, b *v3.Matrix, pairs [][2]int) (float64, error) {
	if len(pairs) == 0 {
		return 0, fmt.Errorf("align/MappedRMSD: no atom pairs given")
	}
	ca, cb, err := pairCoords(a, b, pairs)
	if err != nil {
		return 0, fmt.Errorf("align/MappedRMSD: %w", err)
	}
	return chem.RMSD(ca, cb)
}

// InPlaceRMSD pairs the atoms of ref and target through their maximum common substructure,
// and returns the RMSD between the paired atoms as they are, without superimposing the
// molecules. It is meant to compare poses of related ligands in the same binding site.
// The number of paired atoms is also returned.
func InPlaceRMSD(ctx context.Context, ref, target *chem.Molecule, opts *Options) (float64, int, error) {
	errid := "align/InPlaceRMSD"
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.RefFrame >= ref.LenFrames() || opts.TargetFrame >= target.LenFrames() || opts.RefFrame < 0 || opts.TargetFrame < 0 {
		return 0, 0, fmt.Errorf("%s: requested frames not present in the molecules", errid)
	}
	m, err := mcs.Find(ctx, ref, target, opts.MCS)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", errid, err)
	}
	if m.Len() == 0 {
		return 0, 0, fmt.Errorf("%s: the molecules have no common substructure", errid)
	}
	rmsd, err := MappedRMSD(ref.Coords[opts.RefFrame], target.Coords[opts.TargetFrame], m.Pairs)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", errid, err)
	}
	return rmsd, m.Len(), nil
}

// BestRMS superimposes mobile onto ref using the paired atoms (the first element
// of each pair is an index in mobile, the second one in ref), and returns the RMSD
// between the paired atoms after the superposition, together with the
// superimposed coordinates for the whole of mobile. Neither mobile nor ref are modified.
func BestRMS(mobile, ref *v3.Matrix, pairs [][2]int) (float64, *v3.Matrix, error) {
	errid := "align/BestRMS"
	if len(pairs) < 3 {
		return 0, nil, fmt.Errorf("%s: at least 3 atom pairs are needed for a superposition, got %d", errid, len(pairs))
	}
	ip := make([]int, len(pairs))
	ir := make([]int, len(pairs))
	for i, p := range pairs {
		ip[i], ir[i] = p[0], p[1]
	}
	aligned, err := chem.Super(mobile, ref, ip, ir)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", errid, err)
	}
	rmsd, err := MappedRMSD(aligned, ref, pairs)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", errid, err)
	}
	return rmsd, aligned, nil
}
