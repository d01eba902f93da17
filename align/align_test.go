package align

import (
	"context"
	"math"
	"testing"

	chem "github.com/rmera/godock"
	v3 "github.com/rmera/godock/v3"
)

func readFirst(Te *testing.T, name string) *chem.Molecule {
	mols, err := chem.FileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	return mols[0]
}

// turned rotates coords around the z axis and then translates them by t.
func turned(coords *v3.Matrix, angle float64, t [3]float64) *v3.Matrix {
	ret := v3.Zeros(coords.NVecs())
	s, c := math.Sincos(angle)
	for i := 0; i < coords.NVecs(); i++ {
		v := coords.Row3(i)
		ret.SetRow3(i, [3]float64{c*v[0] - s*v[1] + t[0], s*v[0] + c*v[1] + t[1], v[2] + t[2]})
	}
	return ret
}

func TestInPlaceRMSD(Te *testing.T) {
	tol := readFirst(Te, "../test/toluene.sdf")
	clt := readFirst(Te, "../test/chlorotoluene.sdf")
	rmsd, n, err := InPlaceRMSD(context.Background(), clt, tol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//the common atoms are shifted by 1 A along z.
	if n != 7 || math.Abs(rmsd-1) > 1e-6 {
		Te.Errorf("Expected an RMSD of 1 over 7 atoms, got %v over %d", rmsd, n)
	}
	rmsd, n, err = InPlaceRMSD(context.Background(), tol, tol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if n != 7 || rmsd != 0 {
		Te.Errorf("Expected an RMSD of 0 over 7 atoms, got %v over %d", rmsd, n)
	}
	opts := DefaultOptions()
	opts.TargetFrame = 1
	if _, _, err := InPlaceRMSD(context.Background(), clt, tol, opts); err == nil {
		Te.Errorf("Expected an error for a missing frame")
	}
	eth := readFirst(Te, "../test/ethanol.mol2")
	eth.Atom(0).Symbol = "N"
	eth.Atom(1).Symbol = "N"
	if _, _, err := InPlaceRMSD(context.Background(), eth, tol, nil); err == nil {
		Te.Errorf("Expected an error for molecules without common atoms")
	}
}

func TestBestRMS(Te *testing.T) {
	clt := readFirst(Te, "../test/chlorotoluene.sdf")
	ref := clt.Coords[0]
	mobile := turned(ref, 2.3, [3]float64{-4, 1, 7})
	pairs := make([][2]int, clt.Len())
	for i := range pairs {
		pairs[i] = [2]int{i, i}
	}
	rmsd, aligned, err := BestRMS(mobile, ref, pairs)
	if err != nil {
		Te.Fatal(err)
	}
	if rmsd > 1e-6 {
		Te.Errorf("Expected the rotation to be undone, RMSD: %v", rmsd)
	}
	if aligned.NVecs() != mobile.NVecs() {
		Te.Errorf("Expected %d aligned atoms, got %d", mobile.NVecs(), aligned.NVecs())
	}
	if d, _ := MappedRMSD(mobile, ref, pairs); d < 1 {
		Te.Errorf("The mobile coordinates should not be modified by the superposition")
	}
	if _, _, err := BestRMS(mobile, ref, pairs[:2]); err == nil {
		Te.Errorf("Expected an error for only 2 pairs")
	}
}

func TestMappedRMSD(Te *testing.T) {
	a, err := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	b, err := v3.NewMatrix([]float64{1, 0, 3, 0, 0, 0, 5, 5, 5})
	if err != nil {
		Te.Fatal(err)
	}
	//atom 0 of a against atom 1 of b, atom 1 of a against atom 0 of b.
	d, err := MappedRMSD(a, b, [][2]int{{0, 1}, {1, 0}})
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(d-math.Sqrt(4.5)) > 1e-9 {
		Te.Errorf("Expected %v, got %v", math.Sqrt(4.5), d)
	}
	if _, err := MappedRMSD(a, b, nil); err == nil {
		Te.Errorf("Expected an error for an empty mapping")
	}
	if _, err := MappedRMSD(a, b, [][2]int{{5, 0}}); err == nil {
		Te.Errorf("Expected an error for an atom out of range")
	}
}

func TestInPlaceRMSDFormats(Te *testing.T) {
	kek := readFirst(Te, "../test/toluene.sdf")
	ar := readFirst(Te, "../test/toluene.mol2")
	//the MOL2 copy is shifted by 0.5 A along x.
	rmsd, n, err := InPlaceRMSD(context.Background(), ar, kek, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if n != 7 || math.Abs(rmsd-0.5) > 1e-6 {
		Te.Errorf("Expected an RMSD of 0.5 over 7 atoms, got %v over %d", rmsd, n)
	}
}
