package mcs

import (
	"context"
	"errors"
	"testing"

	chem "github.com/rmera/godock"
)

func readFirst(Te *testing.T, name string) *chem.Molecule {
	mols, err := chem.FileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	return mols[0]
}

func TestIdentical(Te *testing.T) {
	tol := readFirst(Te, "../test/toluene.sdf")
	m, err := Find(context.Background(), tol, tol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if m.Len() != 7 || !m.Complete {
		Te.Fatalf("Expected a complete match of 7 atoms, got %d (complete: %v)", m.Len(), m.Complete)
	}
	for _, p := range m.Pairs {
		if p[0] != p[1] {
			Te.Errorf("Atom %d paired with %d", p[0], p[1])
		}
	}
}

func TestSubstructure(Te *testing.T) {
	tol := readFirst(Te, "../test/toluene.sdf")
	clt := readFirst(Te, "../test/chlorotoluene.sdf")
	for _, anybond := range []bool{false, true} {
		opts := DefaultOptions()
		opts.AnyBond = anybond
		m, err := Find(context.Background(), clt, tol, opts)
		if err != nil {
			Te.Fatal(err)
		}
		if m.Len() != 7 {
			Te.Errorf("AnyBond %v: expected 7 atoms in common, got %d", anybond, m.Len())
		}
		a, b := m.Indexes()
		for i := range a {
			if clt.Atom(a[i]).Symbol != tol.Atom(b[i]).Symbol {
				Te.Errorf("Paired atoms of different elements: %d and %d", a[i], b[i])
			}
			//without bond orders, the ring can be flipped.
			if !anybond && a[i] != b[i] {
				Te.Errorf("Atom %d paired with %d", a[i], b[i])
			}
		}
	}
}

func TestSmallMatch(Te *testing.T) {
	eth := readFirst(Te, "../test/ethanol.mol2")
	tol := readFirst(Te, "../test/toluene.sdf")
	m, err := Find(context.Background(), eth, tol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//only the C-C single bond is shared.
	if m.Len() != 2 {
		Te.Errorf("Expected 2 atoms in common, got %d: %v", m.Len(), m.Pairs)
	}
	opts := DefaultOptions()
	opts.MaxSteps = 1
	m, err = Find(context.Background(), tol, tol, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if m.Complete {
		Te.Errorf("A search limited to 1 step should not be complete (%d atoms found)", m.Len())
	}
}

func TestCancel(Te *testing.T) {
	tol := readFirst(Te, "../test/toluene.sdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Find(ctx, tol, tol, nil); !errors.Is(err, context.Canceled) {
		Te.Errorf("Expected a cancellation error, got %v", err)
	}
}

func TestHydrogens(Te *testing.T) {
	mol := readFirst(Te, "../test/ethanol.mol2")
	h := &chem.Atom{Name: "H1", Symbol: "H"}
	withH := mol.Copy()
	withH.AppendAtom(h)
	if _, err := withH.AddBond(2, 3, 1); err != nil {
		Te.Fatal(err)
	}
	g := newMolGraph(withH, true)
	if len(g.nodes) != 3 || g.maxComp != 3 {
		Te.Errorf("Hydrogens should be left out: %d nodes, largest component %d", len(g.nodes), g.maxComp)
	}
	g = newMolGraph(withH, false)
	if len(g.nodes) != 4 || g.maxComp != 4 {
		Te.Errorf("Hydrogens should be included: %d nodes, largest component %d", len(g.nodes), g.maxComp)
	}
	if o, ok := g.order(2, 3); !ok || o != 1 {
		Te.Errorf("Expected a single bond between O and H, got %v %v", o, ok)
	}
}

func TestAromatic(Te *testing.T) {
	kek := readFirst(Te, "../test/toluene.sdf")
	ar := readFirst(Te, "../test/toluene.mol2")
	for _, pair := range [][2]*chem.Molecule{{ar, kek}, {kek, ar}} {
		m, err := Find(context.Background(), pair[0], pair[1], nil)
		if err != nil {
			Te.Fatal(err)
		}
		if m.Len() != 7 || !m.Complete {
			Te.Errorf("Expected the 7 atoms of the aromatic and Kekule structures to be paired, got %d", m.Len())
		}
	}
	s := &search{opts: DefaultOptions()}
	tests := []struct {
		oa, ob       float64
		ringa, ringb bool
		want         bool
	}{
		{4, 1, true, true, true},
		{4, 2, true, true, true},
		{1, 4, true, true, true},
		{4, 1.5, true, true, true},
		{4, 1, true, false, false}, //a chain bond is never aromatic
		{2, 4, false, true, false},
		{1, 2, true, true, false},
		{3, 4, true, true, false},
	}
	for _, t := range tests {
		if got := s.bondsMatch(t.oa, t.ob, t.ringa, t.ringb); got != t.want {
			Te.Errorf("Bonds %v (ring %v) and %v (ring %v): expected %v", t.oa, t.ringa, t.ob, t.ringb, t.want)
		}
	}
}

func TestRings(Te *testing.T) {
	g := newMolGraph(readFirst(Te, "../test/toluene.sdf"), true)
	for _, b := range [][2]int{{0, 1}, {1, 2}, {5, 0}} {
		if !g.inRing(b[0], b[1]) {
			Te.Errorf("Bond %v should be in the ring", b)
		}
	}
	if g.inRing(0, 6) {
		Te.Errorf("The methyl bond is not in a ring")
	}
}
