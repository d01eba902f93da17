package box

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/godock"
)

func receptor(Te *testing.T) *chem.Molecule {
	mol, err := chem.PDBFileRead("../test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestSelection(Te *testing.T) {
	mol := receptor(Te)
	tests := map[string]int{
		"all":                               19,
		"hetatm":                            4,
		"hetatm and not resn HOH":           3,
		"chain A and resi 10-11":            9,
		"polymer":                           15,
		"elem O":                            6,
		"name CA+CB":                        5,
		"(chain B or resn lig) and elem C":  5,
		"resi -5-5":                         6,
		"not polymer and not (resn HOH)":    3,
		"chain A and resi 11 or chain B":    10,
		"chain A and (resi 11 or resn HOH)": 5,
	}
	for s, n := range tests {
		sel, err := Parse(s)
		if err != nil {
			Te.Errorf("%q: %v", s, err)
			continue
		}
		if got := len(sel.Select(mol)); got != n {
			Te.Errorf("%q: expected %d atoms, got %d", s, n, got)
		}
	}
	for _, s := range []string{"", "chain", "foo", "(all", "resi 12-3", "resi A", "all and"} {
		if _, err := Parse(s); err == nil {
			Te.Errorf("%q should not be a valid selection", s)
		}
	}
}

func TestCompute(Te *testing.T) {
	mol := receptor(Te)
	b, err := Compute(mol, mol.Coords[0], MustParse("resn LIG"), DefaultPadding)
	if err != nil {
		Te.Fatal(err)
	}
	if b.Min != [3]float64{-2, -1, 0} || b.Max != [3]float64{12, 12, 13} {
		Te.Errorf("Unexpected box %v %v", b.Min, b.Max)
	}
	if b.Center() != [3]float64{5, 5.5, 6.5} || b.Size() != [3]float64{14, 13, 13} {
		Te.Errorf("Unexpected center %v or size %v", b.Center(), b.Size())
	}
	s, err := b.Format("vina")
	if err != nil {
		Te.Fatal(err)
	}
	want := "center_x = 5.000\ncenter_y = 5.500\ncenter_z = 6.500\nsize_x = 14.000\nsize_y = 13.000\nsize_z = 13.000\n"
	if s != want {
		Te.Errorf("Unexpected Vina box:\n%s", s)
	}
	p, keys, err := b.Params("both")
	if err != nil {
		Te.Fatal(err)
	}
	if len(keys) != 12 || len(p) != 12 || p["minX"] != -2 || p["maxZ"] != 13 || p["size_y"] != 13 {
		Te.Errorf("Unexpected parameters %v", p)
	}
	if _, err := b.Format("gold"); err == nil {
		Te.Errorf("Expected an error for an unsupported program")
	}
	if _, err := Compute(mol, mol.Coords[0], MustParse("resn XYZ"), DefaultPadding); err == nil {
		Te.Errorf("Expected an error for an empty selection")
	}
}

func TestYAML(Te *testing.T) {
	b := FromCenterSize([3]float64{1, 2, 3}, [3]float64{10, 12, 14})
	name := filepath.Join(Te.TempDir(), "box.yaml")
	if err := b.WriteYAMLFile(name); err != nil {
		Te.Fatal(err)
	}
	b2, err := ReadYAMLFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	if *b2 != *b {
		Te.Errorf("Box changed from %v to %v", b, b2)
	}
	var buf bytes.Buffer
	if err := b.WriteYAML(&buf); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(buf.String(), "min: [-4, -4, -4]") {
		Te.Errorf("Unexpected YAML:\n%s", buf.String())
	}
	b3, err := ReadYAML(strings.NewReader("center: [0, 0, 0]\nsize: [2, 4, 6]\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if b3.Min != [3]float64{-1, -2, -3} {
		Te.Errorf("Unexpected box from center and size %v", b3.Min)
	}
	if _, err := ReadYAML(strings.NewReader("center: [0, 0]\n")); err == nil {
		Te.Errorf("Expected an error for an incomplete box")
	}
}
