package fix

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/godock"
)

// renumbered returns a copy of mol with its residues numbered from 1, as PDBFixer does.
func renumbered(mol *chem.Molecule) *chem.Molecule {
	fixed := mol.Copy()
	for i, r := range chem.Residues(fixed) {
		for _, j := range r.Atoms {
			fixed.Atom(j).MolID = i + 1
		}
	}
	return fixed
}

func TestRenumber(Te *testing.T) {
	orig, err := chem.PDBFileRead("../test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	fixed := renumbered(orig)
	if fixed.Atom(15).MolID != 4 {
		Te.Fatalf("The test structure was not renumbered")
	}
	if err := Renumber(orig, fixed); err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < orig.Len(); i++ {
		if orig.Atom(i).MolID != fixed.Atom(i).MolID {
			Te.Errorf("Atom %d: expected residue %d, got %d", i, orig.Atom(i).MolID, fixed.Atom(i).MolID)
		}
	}
	//a structure with fewer residues can't be used as the original.
	short, err := chem.NewMolecule(nil, chem.NewTopology(0, 1, orig.Atoms[:5]))
	if err != nil {
		Te.Fatal(err)
	}
	if err := Renumber(short, fixed); err == nil {
		Te.Errorf("Expected an error when the fixed structure has more residues")
	}
}

func TestRenumberFile(Te *testing.T) {
	orig, err := chem.PDBFileRead("../test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "fixed.pdb")
	fixed := renumbered(orig)
	if err := chem.PDBFileWrite(name, fixed, fixed.Coords[0]); err != nil {
		Te.Fatal(err)
	}
	if err := RenumberFile("../test/receptor.pdb", name); err != nil {
		Te.Fatal(err)
	}
	back, err := chem.PDBFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	res := chem.Residues(back)
	ids := make([]int, len(res))
	for i, r := range res {
		ids[i] = r.ID
	}
	want := []int{10, 11, 5, 301, 401}
	for i := range want {
		if ids[i] != want[i] {
			Te.Errorf("Expected residue numbers %v, got %v", want, ids)
			break
		}
	}
}

func TestFixArgs(Te *testing.T) {
	F := NewFixer()
	opts := DefaultOptions()
	opts.AddResidues = false
	args := strings.Join(F.args("in.pdb", "out.pdb", opts), " ")
	for _, a := range []string{"in.pdb", "--output=out.pdb", "--keep-heterogens=water", "--ph=7.4", "--replace-nonstandard", "--add-atoms=all"} {
		if !strings.Contains(args, a) {
			Te.Errorf("Argument %s missing from %s", a, args)
		}
	}
	if strings.Contains(args, "--add-residues") {
		Te.Errorf("Residues should not be added: %s", args)
	}
	opts.KeepHeterogens = "some"
	if err := F.Run(context.Background(), "in.pdb", "out.pdb", opts); err == nil {
		Te.Errorf("Expected an error for an invalid heterogen option")
	}
}

func TestFix(Te *testing.T) {
	if _, err := exec.LookPath("pdbfixer"); err != nil {
		Te.Skip("pdbfixer not found")
	}
	out := filepath.Join(Te.TempDir(), "fixed.pdb")
	opts := DefaultOptions()
	opts.Renumber = true
	if err := Fix(context.Background(), "../test/receptor.pdb", out, opts); err != nil {
		Te.Fatal(err)
	}
	mol, err := chem.PDBFileRead(out)
	if err != nil {
		Te.Fatal(err)
	}
	Te.Logf("%d atoms after the repair", mol.Len())
}

// fakeFixer writes a shell script that copies the atoms of its input to the
// --output file and adds one residue, and returns its path.
func fakeFixer(Te *testing.T) string {
	sh, err := exec.LookPath("sh")
	if err != nil {
		Te.Skip("no shell to run a fake pdbfixer")
	}
	script := `in=$1
for a in "$@"; do
	case $a in
	--output=*) out=${a#--output=} ;;
	esac
done
grep -E '^(ATOM|HETATM)' "$in" > "$out"
echo 'ATOM     20   CA GLY C 999      10.000  10.000  10.000  1.00  0.00           C  ' >> "$out"
echo 'END' >> "$out"
`
	name := filepath.Join(Te.TempDir(), "pdbfixer")
	if err := os.WriteFile(name, []byte("#!"+sh+"\n"+script), 0o755); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestFixExtraResidues(Te *testing.T) {
	F := NewFixer()
	F.SetCommand(fakeFixer(Te))
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)
	out := filepath.Join(Te.TempDir(), "fixed.pdb")
	opts := DefaultOptions()
	opts.Renumber = true
	if err := F.Fix(context.Background(), "../test/receptor.pdb", out, opts); err != nil {
		Te.Fatalf("A failed renumbering should not be an error: %v", err)
	}
	if !strings.Contains(logged.String(), "Not possible to renumber") {
		Te.Errorf("Expected the renumbering failure to be logged, got %q", logged.String())
	}
	mol, err := chem.PDBFileRead(out)
	if err != nil {
		Te.Fatal(err)
	}
	res := chem.Residues(mol)
	if mol.Len() != 20 || len(res) != 6 {
		Te.Fatalf("Expected the fixer's 20 atoms in 6 residues, got %d in %d", mol.Len(), len(res))
	}
	if last := res[len(res)-1]; last.ID != 999 || last.Name != "GLY" {
		Te.Errorf("Expected the fixer's numbering to be kept, got residue %s %d", last.Name, last.ID)
	}
}

func TestReduce(Te *testing.T) {
	if _, err := exec.LookPath("reduce"); err != nil {
		Te.Skip("reduce not found")
	}
	mol, err := chem.PDBFileRead("../test/receptor.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	hmol, err := Reduce(context.Background(), mol, mol.Coords[0], NoFlip)
	if err != nil {
		Te.Fatal(err)
	}
	if hmol.Len() <= mol.Len() {
		Te.Errorf("No hydrogens added: %d atoms before, %d after", mol.Len(), hmol.Len())
	}
}
