package chem

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/rmera/godock/v3"
)

func sameCoords(Te *testing.T, a, b *v3.Matrix, tol float64) {
	Te.Helper()
	if a.NVecs() != b.NVecs() {
		Te.Fatalf("Different number of coordinates: %d and %d", a.NVecs(), b.NVecs())
	}
	for i := 0; i < a.NVecs(); i++ {
		va, vb := a.Row3(i), b.Row3(i)
		for j := range va {
			if math.Abs(va[j]-vb[j]) > tol {
				Te.Fatalf("Coordinate %d,%d differs: %v vs %v", i, j, va[j], vb[j])
			}
		}
	}
}

func TestPDBModelsRead(Te *testing.T) {
	mols, err := FileRead("test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 1 {
		Te.Fatalf("Expected 1 model, got %d", len(mols))
	}
	mol := mols[0]
	if mol.Len() != 19 {
		Te.Errorf("Expected 19 atoms, got %d", mol.Len())
	}
	if r, _ := mol.Props.Get("REMARK"); r != "Small receptor for the goDock tests" {
		Te.Errorf("Unexpected REMARK %q", r)
	}
	at := mol.Atom(15)
	if !at.Het || at.Symbol != "C" || at.MolName != "LIG" || at.MolID != 301 || at.Name != "C1" {
		Te.Errorf("Unexpected atom 15: %+v", at)
	}
	res := Residues(mol)
	if len(res) != 5 {
		Te.Fatalf("Expected 5 residues, got %d", len(res))
	}
	if res[2].Chain != "B" || res[2].ID != 5 || res[2].Name != "SER" || len(res[2].Atoms) != 6 {
		Te.Errorf("Unexpected third residue %+v", res[2])
	}
	sel := Molecules2Atoms(mol, []int{10, 5}, []string{"A"})
	if len(sel) != 5 {
		Te.Errorf("Expected the 5 atoms of ALA 10, got %v", sel)
	}
}

func TestPDBModelsRemarks(Te *testing.T) {
	atom := "ATOM      1    N ALA A  10       0.000   0.000   0.000  1.00  0.00           N  \n"
	in := "REMARK   1 HEADER NOTE\n" +
		"MODEL        1\n" +
		"REMARK VINA RESULT:    -7.2      0.000      0.000\n" +
		atom +
		"ENDMDL\n" +
		"REMARK   2 BETWEEN MODELS\n" +
		"MODEL        2\n" +
		"REMARK VINA RESULT:    -6.9      1.100      2.300\n" +
		atom +
		"ENDMDL\n"
	mols, err := PDBModelsRead(strings.NewReader(in))
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 2 {
		Te.Fatalf("Expected 2 models, got %d", len(mols))
	}
	want := []string{"VINA RESULT:    -7.2      0.000      0.000", "VINA RESULT:    -6.9      1.100      2.300"}
	for i, m := range mols {
		if r, _ := m.Props.Get("REMARK"); r != want[i] {
			Te.Errorf("Model %d: expected REMARK %q, got %q", i+1, want[i], r)
		}
	}
	//without MODEL records, remarks go with the atoms that follow them.
	mols, err = PDBModelsRead(strings.NewReader("REMARK first\n" + atom + "END\nREMARK second\n" + atom + "END\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 2 {
		Te.Fatalf("Expected 2 blocks, got %d", len(mols))
	}
	for i, w := range []string{"first", "second"} {
		if r, _ := mols[i].Props.Get("REMARK"); r != w {
			Te.Errorf("Block %d: expected REMARK %q, got %q", i+1, w, r)
		}
	}
}

func TestPDBWriteRead(Te *testing.T) {
	mol, err := PDBFileRead("test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "receptor.pdb.gz")
	if err := PDBFileWrite(name, mol, mol.Coords[0]); err != nil {
		Te.Fatal(err)
	}
	mol2, err := PDBFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() {
		Te.Fatalf("Read %d atoms, wrote %d", mol2.Len(), mol.Len())
	}
	for i := 0; i < mol.Len(); i++ {
		a, b := mol.Atom(i), mol2.Atom(i)
		if a.Name != b.Name || a.MolID != b.MolID || a.Chain != b.Chain || a.Symbol != b.Symbol || a.Het != b.Het {
			Te.Errorf("Atom %d changed: %+v vs %+v", i, a, b)
		}
	}
	sameCoords(Te, mol.Coords[0], mol2.Coords[0], 1e-3)
}

func TestPDBQTRead(Te *testing.T) {
	mols, err := PDBQTFileRead("test/poses.pdbqt")
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 2 {
		Te.Fatalf("Expected 2 models, got %d", len(mols))
	}
	keys := strings.Join(mols[1].Props.Keys(), ",")
	if keys != "MODEL,REMARK,TORSDOF" {
		Te.Errorf("Unexpected data fields %s", keys)
	}
	if m, _ := mols[1].Props.Get("MODEL"); m != "2" {
		Te.Errorf("Expected MODEL 2, got %q", m)
	}
	if r, _ := mols[0].Props.Get("REMARK"); !strings.HasPrefix(r, "VINA RESULT:") {
		Te.Errorf("Unexpected REMARK %q", r)
	}
	o := mols[0].Atom(2)
	if o.Symbol != "O" || o.ADType != "OA" || math.Abs(o.Charge+0.39) > 1e-6 {
		Te.Errorf("Unexpected oxygen %+v", o)
	}
	if v := mols[1].Coords[0].Row3(0); v[0] != 2 {
		Te.Errorf("Expected the second model to start at x=2, got %v", v)
	}
}

func TestSDFIO(Te *testing.T) {
	mols, err := SDFFileRead("test/toluene.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	mol := mols[0]
	if mol.Name != "toluene" || mol.Len() != 7 || len(mol.Bonds()) != 7 {
		Te.Fatalf("Unexpected molecule %s with %d atoms and %d bonds", mol.Name, mol.Len(), len(mol.Bonds()))
	}
	if s, _ := mol.Props.Get("Source"); s != "test" {
		Te.Errorf("Expected the data field Source=test, got %q", s)
	}
	mol.Atom(6).FormalCharge = -1
	mol.Props.Set("Score", "-7.1")
	for _, ext := range []string{".sdf", ".sdf.zst"} {
		name := filepath.Join(Te.TempDir(), "toluene"+ext)
		if err := SDFFileWrite(name, mol, mol); err != nil {
			Te.Fatal(err)
		}
		back, err := FileRead(name)
		if err != nil {
			Te.Fatal(err)
		}
		if len(back) != 2 {
			Te.Fatalf("Wrote 2 records, read %d", len(back))
		}
		b := back[1]
		sameCoords(Te, mol.Coords[0], b.Coords[0], 1e-4)
		if b.Atom(6).FormalCharge != -1 {
			Te.Errorf("Charge lost in %s", ext)
		}
		for i, bond := range b.Bonds() {
			if bond.Order != mol.Bonds()[i].Order {
				Te.Errorf("Bond %d order changed from %v to %v", i, mol.Bonds()[i].Order, bond.Order)
			}
		}
		if strings.Join(b.Props.Keys(), ",") != "Source,Score" {
			Te.Errorf("Unexpected data fields %v", b.Props.Keys())
		}
	}
}

func TestMOL2Read(Te *testing.T) {
	mols, err := FileRead("test/ethanol.mol2")
	if err != nil {
		Te.Fatal(err)
	}
	mol := mols[0]
	if mol.Name != "ethanol" || mol.Len() != 3 || len(mol.Bonds()) != 2 {
		Te.Fatalf("Unexpected molecule %s with %d atoms and %d bonds", mol.Name, mol.Len(), len(mol.Bonds()))
	}
	o := mol.Atom(2)
	if o.Symbol != "O" || math.Abs(o.Charge+0.394) > 1e-6 {
		Te.Errorf("Unexpected oxygen %+v", o)
	}
}

func TestNativeConverter(Te *testing.T) {
	block := []byte("REMARK Cluster 1\nATOM 1 C1 LIG 0 0.000 0.000 0.000\nATOM 2 C2 LIG 0 1.520 0.000 0.000\nATOM 3 O1 LIG 0 2.000 1.350 0.000\nEND\n")
	mols, err := NativeConverter{}.ToMolecules(context.Background(), block, "pdb")
	if err != nil {
		Te.Fatal(err)
	}
	mol := mols[0]
	if mol.Atom(2).Symbol != "O" {
		Te.Errorf("Expected O, got %s", mol.Atom(2).Symbol)
	}
	if len(mol.Bonds()) != 2 {
		Te.Errorf("Expected 2 bonds, got %d", len(mol.Bonds()))
	}
	if b := mol.BondedTo(1); len(b) != 2 {
		Te.Errorf("Expected C2 to be bonded to 2 atoms, got %v", b)
	}
	if _, err := (NativeConverter{}).ToMolecules(context.Background(), block, "xyz"); err == nil {
		Te.Errorf("Expected an error for an unsupported format")
	}
}
