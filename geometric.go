/*
 * geometric.go, part of goDock.
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
	"math"

	v3 "github.com/rmera/godock/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// subset returns the rows of coords in idx, or coords itself if idx is empty.
func subset(coords *v3.Matrix, idx []int) (*v3.Matrix, error) {
	if len(idx) == 0 {
		return coords, nil
	}
	ret := v3.Zeros(len(idx))
	if err := ret.SomeVecsSafe(coords, idx); err != nil {
		return nil, err
	}
	return ret, nil
}

// Centroid returns the geometric center (the arithmetic mean) of the rows of coords
// given in idx, or of all the rows if no indexes are given.
func Centroid(coords *v3.Matrix, idx ...int) (*v3.Matrix, error) {
	sel, err := subset(coords, idx)
	if err != nil {
		return nil, fmt.Errorf("Centroid: %w", err)
	}
	if sel.NVecs() == 0 {
		return nil, fmt.Errorf("Centroid: no points given")
	}
	ret := v3.Zeros(1)
	col := make([]float64, sel.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, sel.Dense)
		ret.Set(0, j, stat.Mean(col, nil))
	}
	return ret, nil
}

// Extent returns the minimum and maximum value of each coordinate for the rows of
// coords given in idx (or all the rows, if idx is empty).
func Extent(coords *v3.Matrix, idx []int) (minv, maxv [3]float64, err error) {
	sel, err := subset(coords, idx)
	if err != nil {
		return minv, maxv, fmt.Errorf("Extent: %w", err)
	}
	if sel.NVecs() == 0 {
		return minv, maxv, fmt.Errorf("Extent: no points given")
	}
	col := make([]float64, sel.NVecs())
	for j := 0; j < 3; j++ {
		mat.Col(col, j, sel.Dense)
		minv[j] = floats.Min(col)
		maxv[j] = floats.Max(col)
	}
	return minv, maxv, nil
}

// RMSD returns the root mean square deviation between test and templa,
// as they are (no superposition is performed).
func RMSD(test, templa *v3.Matrix) (float64, error) {
	if test.NVecs() != templa.NVecs() {
		return 0, fmt.Errorf("RMSD: Ill formed matrices for RMSD calculation (%d and %d points)", test.NVecs(), templa.NVecs())
	}
	if test.NVecs() == 0 {
		return 0, fmt.Errorf("RMSD: no points given")
	}
	diff := v3.Zeros(test.NVecs())
	diff.Sub(test.Dense, templa.Dense)
	sq := 0.0
	for i := 0; i < diff.NVecs(); i++ {
		v := diff.Row3(i)
		sq += v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	}
	return math.Sqrt(sq / float64(test.NVecs())), nil
}

// RotatorTranslatorToSuper superimposes test onto templa using the Kabsch algorithm.
// The points are paired by row. It returns the centroid of test, the rotation matrix and
// the centroid of templa, so the superimposed test is (test - ctest)*rotation + ctempla.
// Improper rotations (reflections) are corrected, so the rotation always has determinant 1.
func RotatorTranslatorToSuper(test, templa *v3.Matrix) (ctest *v3.Matrix, rotation *mat.Dense, ctempla *v3.Matrix, err error) {
	if test.NVecs() != templa.NVecs() {
		return nil, nil, nil, fmt.Errorf("RotatorTranslatorToSuper: Ill-formed matrices (%d and %d points)", test.NVecs(), templa.NVecs())
	}
	if test.NVecs() < 3 {
		return nil, nil, nil, fmt.Errorf("RotatorTranslatorToSuper: at least 3 points are needed, got %d", test.NVecs())
	}
	if ctest, err = Centroid(test); err != nil {
		return nil, nil, nil, err
	}
	if ctempla, err = Centroid(templa); err != nil {
		return nil, nil, nil, err
	}
	P := v3.Zeros(test.NVecs())
	P.SubVec(test, ctest)
	Q := v3.Zeros(templa.NVecs())
	Q.SubVec(templa, ctempla)
	var H mat.Dense
	H.Mul(P.Dense.T(), Q.Dense)
	var svd mat.SVD
	if ok := svd.Factorize(&H, mat.SVDFull); !ok {
		return nil, nil, nil, fmt.Errorf("RotatorTranslatorToSuper: SVD factorization failed")
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	var UVt mat.Dense
	UVt.Mul(&U, V.T())
	d := 1.0
	if mat.Det(&UVt) < 0 {
		d = -1.0
	}
	D := mat.NewDiagDense(3, []float64{1, 1, d})
	rotation = mat.NewDense(3, 3, nil)
	var UD mat.Dense
	UD.Mul(&U, D)
	rotation.Mul(&UD, V.T())
	return ctest, rotation, ctempla, nil
}

// Super superimposes test onto templa. The atoms in testIdx of test are paired with the
// atoms in templaIdx of templa to obtain the transformation, which is then applied to the whole of test.
// If both index lists are nil, all atoms are used. A new matrix is returned, test is not modified.
func Super(test, templa *v3.Matrix, testIdx, templaIdx []int) (*v3.Matrix, error) {
	if len(testIdx) != len(templaIdx) {
		return nil, fmt.Errorf("Super: different number of indexes for test (%d) and template (%d)", len(testIdx), len(templaIdx))
	}
	ctest, err := subset(test, testIdx)
	if err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	ctempla, err := subset(templa, templaIdx)
	if err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	testcen, rot, templacen, err := RotatorTranslatorToSuper(ctest, ctempla)
	if err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	centered := v3.Zeros(test.NVecs())
	centered.SubVec(test, testcen)
	ret := v3.Zeros(test.NVecs())
	ret.Mul(centered.Dense, rot)
	ret.AddVec(ret, templacen)
	return ret, nil
}

// Translate returns a copy of coords, moved so that its centroid is at point.
func Translate(coords *v3.Matrix, point [3]float64) (*v3.Matrix, error) {
	c, err := Centroid(coords)
	if err != nil {
		return nil, fmt.Errorf("Translate: %w", err)
	}
	shift := v3.Zeros(1)
	shift.SetRow3(0, point)
	shift.Sub(shift.Dense, c.Dense)
	ret := v3.Zeros(coords.NVecs())
	ret.AddVec(coords, shift)
	return ret, nil
}
