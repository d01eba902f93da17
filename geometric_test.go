package chem

import (
	"math"
	"testing"

	v3 "github.com/rmera/godock/v3"
)

// rotated returns coords rotated by angle radians around the z axis and then translated by t.
func rotated(coords *v3.Matrix, angle float64, t [3]float64) *v3.Matrix {
	ret := v3.Zeros(coords.NVecs())
	s, c := math.Sincos(angle)
	for i := 0; i < coords.NVecs(); i++ {
		v := coords.Row3(i)
		ret.SetRow3(i, [3]float64{c*v[0] - s*v[1] + t[0], s*v[0] + c*v[1] + t[1], v[2] + t[2]})
	}
	return ret
}

func TestSuper(Te *testing.T) {
	mols, err := SDFFileRead("test/chlorotoluene.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	mol := mols[0]
	orig := mol.Coords[0]
	moved := rotated(orig, 1.1, [3]float64{3, -2, 5})
	d, err := RMSD(moved, orig)
	if err != nil {
		Te.Fatal(err)
	}
	if d < 1 {
		Te.Fatalf("The test structures are too similar (%v)", d)
	}
	//superimpose using only the ring, then check the whole molecule.
	ring := []int{0, 1, 2, 3, 4, 5}
	sup, err := Super(moved, orig, ring, ring)
	if err != nil {
		Te.Fatal(err)
	}
	if d, _ := RMSD(sup, orig); d > 1e-6 {
		Te.Errorf("RMSD after superposition should be 0, got %v", d)
	}
	if d2, _ := RMSD(moved, rotated(orig, 1.1, [3]float64{3, -2, 5})); d2 != 0 {
		Te.Errorf("Super modified its input")
	}
	if _, err := Super(moved, orig, ring[:2], ring[:2]); err == nil {
		Te.Errorf("Expected an error for a superposition with 2 points")
	}
}

func TestSuperReflection(Te *testing.T) {
	mols, err := SDFFileRead("test/chlorotoluene.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	orig := mols[0].Coords[0]
	//a mirror image can't be superimposed by a proper rotation.
	mirror := orig.Clone()
	for i := 0; i < mirror.NVecs(); i++ {
		v := mirror.Row3(i)
		mirror.SetRow3(i, [3]float64{v[0], -v[1], v[2] + 0.5*float64(i%2)})
	}
	_, rot, _, err := RotatorTranslatorToSuper(mirror, orig)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(det3(rot.RawRowView(0), rot.RawRowView(1), rot.RawRowView(2))-1) > 1e-9 {
		Te.Errorf("The rotation is not proper")
	}
}

func det3(a, b, c []float64) float64 {
	return a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0])
}

func TestCentroidExtent(Te *testing.T) {
	mol, err := PDBFileRead("test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	lig := []int{15, 16, 17}
	c, err := Centroid(mol.Coords[0], lig...)
	if err != nil {
		Te.Fatal(err)
	}
	want := [3]float64{15.5 / 3, 16.0 / 3, 19.0 / 3}
	got := c.Row3(0)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			Te.Errorf("Centroid component %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	minv, maxv, err := Extent(mol.Coords[0], lig)
	if err != nil {
		Te.Fatal(err)
	}
	if minv != [3]float64{4, 5, 6} || maxv != [3]float64{6, 6, 7} {
		Te.Errorf("Unexpected extent %v %v", minv, maxv)
	}
	if _, _, err := Extent(mol.Coords[0], []int{100}); err == nil {
		Te.Errorf("Expected an error for an index out of range")
	}
	moved, err := Translate(mol.Coords[0], [3]float64{1, 2, 3})
	if err != nil {
		Te.Fatal(err)
	}
	c, _ = Centroid(moved)
	got = c.Row3(0)
	for i, v := range []float64{1, 2, 3} {
		if math.Abs(got[i]-v) > 1e-9 {
			Te.Errorf("Translated centroid component %d: expected %v, got %v", i, v, got[i])
		}
	}
}

func TestAssignBonds(Te *testing.T) {
	mols, err := SDFFileRead("test/toluene.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	mol := mols[0]
	if err := AssignBonds(mol.Coords[0], mol.Topology); err != nil {
		Te.Fatal(err)
	}
	if len(mol.Bonds()) != 7 {
		Te.Errorf("Expected 7 bonds, got %d", len(mol.Bonds()))
	}
	for _, b := range mol.Bonds() {
		if b.Order != 0 {
			Te.Errorf("Assigned bonds should have undetermined order, got %v", b.Order)
		}
	}
	if b := mol.BondedTo(0); len(b) != 3 {
		Te.Errorf("The substituted carbon should have 3 bonds, got %v", b)
	}
}
