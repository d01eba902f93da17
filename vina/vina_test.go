package vina

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/godock"
	"github.com/rmera/godock/box"
)

func TestConfigWrite(Te *testing.T) {
	C := DefaultConfig()
	C.Receptor = "receptor.pdbqt"
	C.Ligand = "ligand.pdbqt"
	C.Seed = 42
	C.SetBox(&box.Box{Min: [3]float64{-2, -1, 0}, Max: [3]float64{12, 12, 13}})
	var buf bytes.Buffer
	if err := C.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	want := `receptor = receptor.pdbqt
ligand = ligand.pdbqt

center_x = 5.000
center_y = 5.500
center_z = 6.500

size_x = 14.000
size_y = 13.000
size_z = 13.000

exhaustiveness = 8
num_modes = 9
energy_range = 3
seed = 42
`
	if buf.String() != want {
		Te.Errorf("Unexpected configuration:\n%s", buf.String())
	}
	C.Size[1] = 0
	if err := C.Write(&buf); err == nil {
		Te.Errorf("Expected an error for an empty box")
	}
}

func TestPDBQTToSDF(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "poses.sdf.gz")
	n, err := PDBQTToSDF(context.Background(), "../test/poses.pdbqt", out, chem.NativeConverter{})
	if err != nil {
		Te.Fatal(err)
	}
	if n != 2 {
		Te.Fatalf("Expected 2 poses, got %d", n)
	}
	mols, err := chem.FileRead(out)
	if err != nil {
		Te.Fatal(err)
	}
	want := [][2]string{{"1", "-7.1"}, {"2", "-6.4"}}
	for i, m := range mols {
		if keys := strings.Join(m.Props.Keys(), ","); keys != "Pose,Score" {
			Te.Errorf("Pose %d: unexpected data fields %s", i, keys)
		}
		p, _ := m.Props.Get("Pose")
		s, _ := m.Props.Get("Score")
		if p != want[i][0] || s != want[i][1] {
			Te.Errorf("Pose %d: expected %v, got %s %s", i, want[i], p, s)
		}
	}
}

func TestPoseData(Te *testing.T) {
	mols, err := chem.PDBQTFileRead("../test/poses.pdbqt")
	if err != nil {
		Te.Fatal(err)
	}
	mols[1].Props.Del("MODEL")
	p, s, err := PoseData(mols[1], 7)
	if err != nil {
		Te.Fatal(err)
	}
	if p != "7" || s != "-6.4" {
		Te.Errorf("Expected pose 7 with score -6.4, got %s %s", p, s)
	}
	mols[1].Props.Del("REMARK")
	if _, _, err := PoseData(mols[1], 7); err == nil {
		Te.Errorf("Expected an error for a pose without REMARK")
	}
}

// fakeVina writes a shell script that prints what script says, and returns its path.
func fakeVina(Te *testing.T, script string) string {
	sh, err := exec.LookPath("sh")
	if err != nil {
		Te.Skip("no shell to run a fake vina")
	}
	name := filepath.Join(Te.TempDir(), "vina")
	if err := os.WriteFile(name, []byte("#!"+sh+"\n"+script), 0o755); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestRunner(Te *testing.T) {
	bar := strings.Repeat("*", progressMarks)
	R := NewRunner()
	R.SetCommand(fakeVina(Te, "echo '0%   10   20   30   40   50   60   70   80   90   100%'\necho '"+bar+"'\n"))
	var log bytes.Buffer
	R.Log = &log
	var progress []float64
	R.Progress = func(p float64) { progress = append(progress, p) }
	C := DefaultConfig()
	C.Receptor, C.Ligand = "r.pdbqt", "l.pdbqt"
	C.Size = [3]float64{10, 10, 10}
	conf := filepath.Join(Te.TempDir(), "conf.txt")
	if err := R.Dock(context.Background(), C, conf); err != nil {
		Te.Fatal(err)
	}
	if len(progress) != progressMarks+2 || progress[len(progress)-1] != 100 || progress[len(progress)-2] < 98.9 {
		Te.Errorf("Unexpected progress %v", progress)
	}
	if !strings.Contains(log.String(), "receptor = r.pdbqt") || !strings.Contains(log.String(), bar) {
		Te.Errorf("Unexpected log:\n%s", log.String())
	}
	R.SetCommand(fakeVina(Te, "echo 'Parse error on line 1' >&2\nexit 1\n"))
	err := R.Run(context.Background(), conf)
	if err == nil || err.Error() != "Parse error on line 1" {
		Te.Errorf("Expected Vina's error message, got %v", err)
	}
}

func TestVina(Te *testing.T) {
	if _, err := exec.LookPath("vina"); err != nil {
		Te.Skip("vina not found")
	}
	R := NewRunner()
	if err := R.Run(context.Background(), filepath.Join(Te.TempDir(), "missing.txt")); err == nil {
		Te.Errorf("Expected an error for a missing configuration file")
	}
}
