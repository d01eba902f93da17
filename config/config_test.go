package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(Te *testing.T) {
	Te.Setenv("HOME", Te.TempDir())
	cfg, err := Load("")
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.File != "" {
		Te.Errorf("No configuration file should have been read, got %s", cfg.File)
	}
	if cfg.Programs.OBabel != "obabel" || cfg.Programs.Vina != "vina" || cfg.Padding != 6 {
		Te.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Fix.PH != 7.4 || cfg.Fix.KeepHeterogens != "water" || !cfg.Fix.Renumber {
		Te.Errorf("Unexpected protein preparation defaults %+v", cfg.Fix)
	}
	if cfg.LeDock.RMSD != 1 || cfg.LeDock.NPoses != 10 || cfg.Vina.Exhaustiveness != 8 || cfg.Scaffold.NumConfs != 50 {
		Te.Errorf("Unexpected docking defaults %+v %+v %+v", cfg.LeDock, cfg.Vina, cfg.Scaffold)
	}
}

func TestFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "godock.yaml")
	yaml := `programs:
  vina: /opt/vina/bin/vina
padding: 4.5
ledock:
  nposes: 20
scaffold:
  threshold: 1.2
`
	if err := os.WriteFile(name, []byte(yaml), 0o644); err != nil {
		Te.Fatal(err)
	}
	Te.Setenv("GODOCK_VINA_EXHAUSTIVENESS", "32")
	cfg, err := Load(name)
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.File != name {
		Te.Errorf("Expected %s to be read, got %s", name, cfg.File)
	}
	if cfg.Programs.Vina != "/opt/vina/bin/vina" || cfg.Padding != 4.5 || cfg.LeDock.NPoses != 20 || cfg.Scaffold.Threshold != 1.2 {
		Te.Errorf("Values from the file not read: %+v", cfg)
	}
	//untouched values keep their defaults
	if cfg.Programs.OBabel != "obabel" || cfg.LeDock.RMSD != 1 {
		Te.Errorf("Defaults lost: %+v", cfg)
	}
	if cfg.Vina.Exhaustiveness != 32 {
		Te.Errorf("Environment override ignored: %d", cfg.Vina.Exhaustiveness)
	}
	if _, err := Load(filepath.Join(Te.TempDir(), "missing.yaml")); err == nil {
		Te.Errorf("Expected an error for a missing configuration file")
	}
}

func TestHomeFile(Te *testing.T) {
	home := Te.TempDir()
	Te.Setenv("HOME", home)
	if err := os.Mkdir(filepath.Join(home, ".godock"), 0o755); err != nil {
		Te.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".godock", "godock.yaml"), []byte("fix:\n  ph: 6.5\n"), 0o644); err != nil {
		Te.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.Fix.PH != 6.5 {
		Te.Errorf("The configuration in the home directory was not read: %+v", cfg.Fix)
	}
}
