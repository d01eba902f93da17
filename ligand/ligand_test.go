package ligand

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/godock"
	v3 "github.com/rmera/godock/v3"
)

// fakeGen returns the molecule in the file name as the 3D structure for any
// SMILES, and a small fixed ensemble as conformers.
type fakeGen struct {
	name string
}

func (F fakeGen) Gen3D(ctx context.Context, smiles string) (*chem.Molecule, error) {
	if smiles == "" {
		return nil, fmt.Errorf("empty SMILES")
	}
	mols, err := chem.FileRead(F.name)
	if err != nil {
		return nil, err
	}
	return mols[0], nil
}

// Conformers returns three frames: coords, coords rotated and moved
// (the same conformer) and coords with the atom 6 displaced 6 A along z.
func (F fakeGen) Conformers(ctx context.Context, mol *chem.Molecule, coords *v3.Matrix, n int) (*chem.Molecule, error) {
	ret := mol.Copy()
	s, c := math.Sincos(0.8)
	moved := v3.Zeros(coords.NVecs())
	for i := 0; i < coords.NVecs(); i++ {
		v := coords.Row3(i)
		moved.SetRow3(i, [3]float64{c*v[0] - s*v[1] + 10, s*v[0] + c*v[1] - 3, v[2] + 2})
	}
	bent := coords.Clone()
	v := bent.Row3(6)
	v[2] += 6
	bent.SetRow3(6, v)
	ret.Coords = []*v3.Matrix{coords.Clone(), moved, bent}
	if n < len(ret.Coords) {
		ret.Coords = ret.Coords[:n]
	}
	return ret, nil
}

func TestFromSMILES(Te *testing.T) {
	gen := fakeGen{name: "../test/chlorotoluene.sdf"}
	anchor := [3]float64{10, -20, 30}
	mol, err := FromSMILES(context.Background(), gen, "Cc1cccc(Cl)c1", &anchor)
	if err != nil {
		Te.Fatal(err)
	}
	c, err := chem.Centroid(mol.Coords[0])
	if err != nil {
		Te.Fatal(err)
	}
	got := c.Row3(0)
	for i := range got {
		if math.Abs(got[i]-anchor[i]) > 1e-9 {
			Te.Errorf("Expected the structure centered at %v, got %v", anchor, got)
			break
		}
	}
	if _, err := FromSMILES(context.Background(), gen, "", nil); err == nil {
		Te.Errorf("Expected the generator's error")
	}
}

func TestScaffoldConformers(Te *testing.T) {
	gen := fakeGen{name: "../test/chlorotoluene.sdf"}
	dir := Te.TempDir()
	opts := DefaultScaffoldOptions()
	opts.Cpus = 2
	opts.Plot = filepath.Join(dir, "rmsd.svg")
	opts.PlotFraction = true
	out := filepath.Join(dir, "confs.sdf")
	written, err := ScaffoldConformers(context.Background(), gen, "Cc1cccc(Cl)c1", "../test/toluene.sdf", out, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if len(written) != 1 || written[0].Index != 0 || written[0].RMSD > 1e-6 {
		for _, w := range written {
			Te.Logf("conformer %d RMSD %v", w.Index, w.RMSD)
		}
		Te.Fatalf("Expected only the first conformer to be written")
	}
	mols, err := chem.SDFFileRead(out)
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 1 {
		Te.Fatalf("Expected 1 record, got %d", len(mols))
	}
	if r, _ := mols[0].Props.Get("RMSD"); r != "0.0000" {
		Te.Errorf("Expected an RMSD field of 0.0000, got %q", r)
	}
	//superimposed onto the anchor, so the ring is now at z=0
	if v := mols[0].Coords[0].Row3(0); math.Abs(v[0]-1.39) > 1e-3 || math.Abs(v[2]) > 1e-3 {
		Te.Errorf("Conformer not superimposed onto the anchor: %v", v)
	}
	if fi, err := os.Stat(opts.Plot); err != nil || fi.Size() == 0 {
		Te.Errorf("No RMSD plot written: %v", err)
	}
	//ethanol shares only 2 atoms with the ligand.
	if _, err := ScaffoldConformers(context.Background(), gen, "C", "../test/ethanol.mol2", out, nil); err == nil {
		Te.Errorf("Expected an error for an anchor with too few atoms in common")
	}
}

func TestPrune(Te *testing.T) {
	gen := fakeGen{name: "../test/chlorotoluene.sdf"}
	mol, err := gen.Gen3D(context.Background(), "Cc1cccc(Cl)c1")
	if err != nil {
		Te.Fatal(err)
	}
	ens, err := gen.Conformers(context.Background(), mol, mol.Coords[0], 10)
	if err != nil {
		Te.Fatal(err)
	}
	confs := make([]*Conformer, ens.LenFrames())
	for i, c := range ens.Coords {
		confs[i] = &Conformer{Index: i, Coords: c}
	}
	pruned, err := Prune(ens, confs, 0.75)
	if err != nil {
		Te.Fatal(err)
	}
	if len(pruned) != 2 || pruned[0].Index != 0 || pruned[1].Index != 2 {
		Te.Errorf("Expected the conformers 0 and 2 to survive, got %d", len(pruned))
	}
	if all, _ := Prune(ens, confs, 0); len(all) != 3 {
		Te.Errorf("Nothing should be pruned with a 0 threshold, got %d", len(all))
	}
}

func TestSummarize(Te *testing.T) {
	s := Summarize([]float64{0.2, 0.4, 1.2, 0.6}, 0.5)
	if s.N != 4 || s.Below != 2 || s.Min != 0.2 || s.Max != 1.2 || math.Abs(s.Mean-0.6) > 1e-9 {
		Te.Errorf("Unexpected summary %+v", s)
	}
	if s = Summarize([]float64{0.3}, 0.5); s.Std != 0 || s.Below != 1 {
		Te.Errorf("Unexpected summary for a single value %+v", s)
	}
	if s = Summarize(nil, 0.5); s.N != 0 {
		Te.Errorf("Unexpected summary for no values %+v", s)
	}
	Te.Log(s)
}

func TestHistogram(Te *testing.T) {
	h := Histogram([]float64{0.05, 0.15, 0.12, 0.31}, 0.1)
	view := h.View()
	if len(view) != 5 {
		Te.Fatalf("Expected 5 bins, got %d", len(view))
	}
	want := []float64{1, 2, 0, 1, 0}
	for i := range want {
		if view[i] != want[i] {
			Te.Errorf("Expected %v, got %v", want, view)
			break
		}
	}
	if err := PlotRMSDs(nil, 0.5, filepath.Join(Te.TempDir(), "empty.png"), false); err == nil {
		Te.Errorf("Expected an error for an empty plot")
	}
	h.Normalize()
	if math.Abs(h.View()[1]-0.5) > 1e-9 || h.Total() != 4 {
		Te.Errorf("Expected half of the values in the second bin, got %v", h.View())
	}
	name := filepath.Join(Te.TempDir(), "fraction.png")
	if err := PlotRMSDs([]float64{0.05, 0.15, 0.12, 0.31}, 0.2, name, true); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("No plot written: %v", err)
	}
}
