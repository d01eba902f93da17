/*
 * commands.go, part of goDock.
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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	chem "github.com/rmera/godock"
	"github.com/rmera/godock/align"
	"github.com/rmera/godock/babel"
	"github.com/rmera/godock/box"
	"github.com/rmera/godock/config"
	"github.com/rmera/godock/fix"
	"github.com/rmera/godock/ledock"
	"github.com/rmera/godock/ligand"
	"github.com/rmera/godock/vina"
	"golang.org/x/sync/errgroup"
)

// boxFlags obtains a box either from a YAML box file, or from a selection
// of a structure.
type boxFlags struct {
	file    *string
	ref     *string
	sel     *string
	padding *float64
}

func addBoxFlags(c *command, cfg *config.Config) *boxFlags {
	return &boxFlags{
		file:    c.flags.String("box", "", "Box file in YAML format, as written by the box command"),
		ref:     c.flags.String("ref", "", "Structure (for instance, a reference ligand) from which the box is computed, if -box is not given"),
		sel:     c.flags.String("sel", "all", "Atoms of the -ref structure that define the box"),
		padding: c.flags.Float64("padding", cfg.Padding, "Space added on each side of the selection, in A"),
	}
}

func (B *boxFlags) get() (*box.Box, error) {
	if *B.file != "" {
		return box.ReadYAMLFile(*B.file)
	}
	if *B.ref == "" {
		return nil, fmt.Errorf("either a box file or a reference structure is needed")
	}
	return boxFromFile(*B.ref, *B.sel, *B.padding)
}

func boxFromFile(name, selection string, padding float64) (*box.Box, error) {
	mols, err := chem.FileRead(name)
	if err != nil {
		return nil, err
	}
	sel, err := box.Parse(selection)
	if err != nil {
		return nil, err
	}
	return box.Compute(mols[0], mols[0].Coords[0], sel, padding)
}

func init() {
	var anchor, out *string
	var nomin *bool
	register(&command{
		name:            "smi3d",
		positionalUsage: "SMILES",
		shortHelp:       "build a 3D structure from a SMILES string",
		nargs:           1,
		addFlags: func(c *command, cfg *config.Config) {
			anchor = c.flags.String("anchor", "", "Point x,y,z where the center of the molecule is placed")
			out = c.flags.String("o", "ligand.sdf", "Output file (sdf, mol2, pdb; optionally .gz or .zst)")
			nomin = c.flags.Bool("nomin", false, "Don't minimize the generated structure")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			gen := babel.NewHandle()
			gen.SetCommand(cfg.Programs.OBabel)
			if *nomin {
				gen.Steps = 0
			}
			var a *[3]float64
			if *anchor != "" {
				p, err := parseTriplet(*anchor)
				if err != nil {
					return err
				}
				a = &p
			}
			mol, err := ligand.FromSMILES(ctx, gen, c.flags.Arg(0), a)
			if err != nil {
				return err
			}
			LogV(2, "Generated", mol.Len(), "atoms")
			return writeMolecule(*out, mol)
		},
	})
}

func writeMolecule(name string, mol *chem.Molecule) error {
	switch chem.Format(name) {
	case "pdb":
		return chem.PDBFileWrite(name, mol, mol.Coords...)
	case "mol2":
		f, err := chem.OpenWrite(name)
		if err != nil {
			return err
		}
		if err := chem.MOL2Write(f, mol, mol.Coords[0]); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return chem.SDFFileWrite(name, mol)
	}
}

func init() {
	var sel, software, yml *string
	var padding *float64
	register(&command{
		name:            "box",
		positionalUsage: "structure",
		shortHelp:       "compute a docking box around a selection of atoms",
		nargs:           1,
		addFlags: func(c *command, cfg *config.Config) {
			sel = c.flags.String("sel", "hetatm", "Atoms that define the box, for instance 'resn LIG', 'chain A and resi 10-20'")
			software = c.flags.String("software", "vina", "Print the box parameters for vina, ledock or both")
			yml = c.flags.String("o", "", "Also write the box to this YAML file")
			padding = c.flags.Float64("padding", cfg.Padding, "Space added on each side of the selection, in A")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			b, err := boxFromFile(c.flags.Arg(0), *sel, *padding)
			if err != nil {
				return err
			}
			s, err := b.Format(*software)
			if err != nil {
				return err
			}
			fmt.Print(s)
			if *yml != "" {
				return b.WriteYAMLFile(*yml)
			}
			return nil
		},
	})
}

func init() {
	var ph *float64
	var keep, atoms *string
	var norenumber, noresidues, reduce *bool
	register(&command{
		name:            "fix",
		positionalUsage: "input.pdb output.pdb",
		shortHelp:       "repair and protonate a protein structure with PDBFixer",
		nargs:           2,
		addFlags: func(c *command, cfg *config.Config) {
			ph = c.flags.Float64("ph", cfg.Fix.PH, "pH for the protonation")
			keep = c.flags.String("keep", cfg.Fix.KeepHeterogens, "Heterogens to keep: all, water or none")
			atoms = c.flags.String("atoms", "all", "Missing atoms to add: all, heavy, hydrogen or none")
			norenumber = c.flags.Bool("norenumber", !cfg.Fix.Renumber, "Keep the residue numbers assigned by PDBFixer")
			noresidues = c.flags.Bool("noresidues", false, "Don't add missing residues")
			reduce = c.flags.Bool("reduce", false, "Add the hydrogens with Reduce, flipping side chains, instead of PDBFixer")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			opts := fix.DefaultOptions()
			opts.PH = *ph
			opts.KeepHeterogens = *keep
			opts.AddAtoms = *atoms
			opts.Renumber = !*norenumber
			opts.AddResidues = !*noresidues
			if *reduce && opts.AddAtoms == "all" {
				opts.AddAtoms = "heavy"
			}
			F := fix.NewFixer()
			F.SetCommand(cfg.Programs.PDBFixer)
			in, out := c.flags.Arg(0), c.flags.Arg(1)
			if err := F.Fix(ctx, in, out, opts); err != nil {
				return err
			}
			if !*reduce {
				return nil
			}
			mol, err := chem.PDBFileRead(out)
			if err != nil {
				return err
			}
			R := fix.NewReducer()
			R.SetCommand(cfg.Programs.Reduce)
			if verb >= 2 {
				R.Report = os.Stderr
			}
			hmol, err := R.Reduce(ctx, mol, mol.Coords[0], fix.Flip)
			if err != nil {
				return err
			}
			return chem.PDBFileWrite(out, hmol, hmol.Coords[0])
		},
	})
}

func init() {
	var receptor, out, list *string
	var rmsd *float64
	var nposes *int
	var bf *boxFlags
	register(&command{
		name:            "ledock",
		positionalUsage: "ligand1.mol2 [ligand2.mol2 ...]",
		shortHelp:       "write a LeDock input file and ligand list",
		nargs:           1,
		addFlags: func(c *command, cfg *config.Config) {
			receptor = c.flags.String("receptor", "pro.pdb", "Receptor file")
			out = c.flags.String("o", "dock.in", "LeDock input file")
			list = c.flags.String("list", "ligands", "Ligand list file")
			rmsd = c.flags.Float64("rmsd", cfg.LeDock.RMSD, "RMSD to consider two poses different")
			nposes = c.flags.Int("n", cfg.LeDock.NPoses, "Number of binding poses")
			bf = addBoxFlags(c, cfg)
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			b, err := bf.get()
			if err != nil {
				return err
			}
			in := ledock.DefaultInput()
			in.Receptor = *receptor
			in.RMSD = *rmsd
			in.NPoses = *nposes
			in.LigandList = *list
			in.Ligands = c.flags.Args()
			in.SetBox(b)
			return in.WriteFiles(*out)
		},
	})
}

func init() {
	var native *bool
	register(&command{
		name:            "dok2sdf",
		positionalUsage: "input.dok output.sdf",
		shortHelp:       "convert LeDock poses to SDF, with Pose and Score data",
		nargs:           2,
		addFlags: func(c *command, cfg *config.Config) {
			native = c.flags.Bool("native", false, "Don't use obabel to read the poses")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			n, err := ledock.DOKToSDF(ctx, c.flags.Arg(0), c.flags.Arg(1), converter(cfg, *native))
			if err != nil {
				return err
			}
			LogV(1, n, "poses written to", c.flags.Arg(1))
			return nil
		},
	})
}

func init() {
	var receptor, ligand, out, conf *string
	var seed *int64
	var bf *boxFlags
	register(&command{
		name:      "vinaconf",
		shortHelp: "write an AutoDock Vina configuration file",
		addFlags: func(c *command, cfg *config.Config) {
			receptor = c.flags.String("receptor", "receptor.pdbqt", "Receptor file")
			ligand = c.flags.String("ligand", "ligand.pdbqt", "Ligand file")
			out = c.flags.String("out", "", "Output file for Vina")
			conf = c.flags.String("o", "conf.txt", "Configuration file")
			seed = c.flags.Int64("seed", 0, "Random seed, 0 lets Vina choose")
			bf = addBoxFlags(c, cfg)
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			b, err := bf.get()
			if err != nil {
				return err
			}
			return vinaConfig(cfg, *receptor, *ligand, *out, *seed, b).WriteFile(*conf)
		},
	})
}

func vinaConfig(cfg *config.Config, receptor, ligand, out string, seed int64, b *box.Box) *vina.Config {
	C := vina.DefaultConfig()
	C.Receptor = receptor
	C.Ligand = ligand
	C.Out = out
	C.Exhaustiveness = cfg.Vina.Exhaustiveness
	C.NumModes = cfg.Vina.NumModes
	C.EnergyRange = cfg.Vina.EnergyRange
	C.CPU = cfg.Vina.CPU
	C.Seed = seed
	C.SetBox(b)
	return C
}

func init() {
	var receptor, ligand, out, conf *string
	var seed *int64
	var bf *boxFlags
	register(&command{
		name:      "vina",
		shortHelp: "dock a ligand with AutoDock Vina",
		addFlags: func(c *command, cfg *config.Config) {
			receptor = c.flags.String("receptor", "receptor.pdbqt", "Receptor file")
			ligand = c.flags.String("ligand", "ligand.pdbqt", "Ligand file")
			out = c.flags.String("out", "poses.pdbqt", "Output file")
			conf = c.flags.String("conf", "conf.txt", "Configuration file to write")
			seed = c.flags.Int64("seed", 0, "Random seed, 0 lets Vina choose")
			bf = addBoxFlags(c, cfg)
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			b, err := bf.get()
			if err != nil {
				return err
			}
			R := vina.NewRunner()
			R.SetCommand(cfg.Programs.Vina)
			if verb >= 2 {
				R.Log = os.Stdout
			}
			last := -10.0
			R.Progress = func(p float64) {
				if p-last >= 10 || p == 100 {
					LogV(1, fmt.Sprintf("Docking: %3.0f%%", p))
					last = p
				}
			}
			return R.Dock(ctx, vinaConfig(cfg, *receptor, *ligand, *out, *seed, b), *conf)
		},
	})
}

func init() {
	var native *bool
	register(&command{
		name:            "pdbqt2sdf",
		positionalUsage: "input.pdbqt output.sdf",
		shortHelp:       "convert Vina poses to SDF, with Pose and Score data",
		nargs:           2,
		addFlags: func(c *command, cfg *config.Config) {
			native = c.flags.Bool("native", false, "Don't use obabel to read the poses")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			n, err := vina.PDBQTToSDF(ctx, c.flags.Arg(0), c.flags.Arg(1), converter(cfg, *native))
			if err != nil {
				return err
			}
			LogV(1, n, "poses written to", c.flags.Arg(1))
			return nil
		},
	})
}

func init() {
	var anybond, hydrogens *bool
	var rframe, tframe *int
	register(&command{
		name:            "rmsd",
		positionalUsage: "reference target",
		shortHelp:       "RMSD between two poses over their common substructure, without superposition",
		nargs:           2,
		addFlags: func(c *command, cfg *config.Config) {
			anybond = c.flags.Bool("anybond", false, "Match bonds regardless of their order")
			hydrogens = c.flags.Bool("h", false, "Include hydrogens in the substructure")
			rframe = c.flags.Int("rframe", 0, "Pose (record) of the reference to use")
			tframe = c.flags.Int("tframe", 0, "Pose (record) of the target to use")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			ref, err := readRecord(c.flags.Arg(0), *rframe)
			if err != nil {
				return err
			}
			target, err := readRecord(c.flags.Arg(1), *tframe)
			if err != nil {
				return err
			}
			opts := align.DefaultOptions()
			opts.MCS.AnyBond = *anybond
			opts.MCS.HeavyOnly = !*hydrogens
			rmsd, n, err := align.InPlaceRMSD(ctx, ref, target, opts)
			if err != nil {
				return err
			}
			LogV(2, "Atoms paired:", n)
			fmt.Printf("%.4f\n", rmsd)
			return nil
		},
	})
}

// readRecord returns the molecule in record i of the file name. Multi-frame
// PDB files are treated as one record per frame.
func readRecord(name string, i int) (*chem.Molecule, error) {
	mols, err := chem.FileRead(name)
	if err != nil {
		return nil, err
	}
	if i < len(mols) {
		return mols[i], nil
	}
	if len(mols) == 1 && i < mols[0].LenFrames() {
		mol := mols[0].Copy()
		mol.Coords = mol.Coords[i : i+1]
		return mol, nil
	}
	return nil, fmt.Errorf("%s has no record %d", name, i)
}

func init() {
	var nconfs, cpus *int
	var prune, threshold *float64
	var plot *string
	var fraction *bool
	register(&command{
		name:            "scaffold",
		positionalUsage: "SMILES anchor.sdf output.sdf",
		shortHelp:       "generate conformers that keep the substructure shared with an anchor in place",
		nargs:           3,
		addFlags: func(c *command, cfg *config.Config) {
			nconfs = c.flags.Int("n", cfg.Scaffold.NumConfs, "Number of conformers to generate")
			cpus = c.flags.Int("cpus", 0, "Goroutines for the RMSD calculations, 0 means one per CPU")
			prune = c.flags.Float64("prune", cfg.Scaffold.PruneRMS, "Conformers closer than this RMSD to a previous one are discarded")
			threshold = c.flags.Float64("threshold", cfg.Scaffold.Threshold, "Largest RMSD to the anchor for a conformer to be written")
			plot = c.flags.String("plot", "", "Save a histogram of the RMSDs to this file (png, svg, pdf)")
			fraction = c.flags.Bool("fraction", false, "Plot the fraction of conformers in each bin")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			gen := babel.NewHandle()
			gen.SetCommand(cfg.Programs.OBabel)
			opts := ligand.DefaultScaffoldOptions()
			opts.NumConfs = *nconfs
			opts.PruneRMS = *prune
			opts.RMSDThreshold = *threshold
			opts.Plot = *plot
			opts.PlotFraction = *fraction
			if *cpus > 0 {
				opts.Cpus = *cpus
			}
			confs, err := ligand.ScaffoldConformers(ctx, gen, c.flags.Arg(0), c.flags.Arg(1), c.flags.Arg(2), opts)
			if err != nil {
				return err
			}
			rmsds := make([]float64, len(confs))
			for i, v := range confs {
				rmsds[i] = v.RMSD
			}
			LogV(1, "Written:", ligand.Summarize(rmsds, opts.RMSDThreshold))
			return nil
		},
	})
}

func init() {
	var format *string
	var cpus *int
	register(&command{
		name:            "convert",
		positionalUsage: "file1 [file2 ...]",
		shortHelp:       "convert structure files with obabel",
		nargs:           1,
		addFlags: func(c *command, cfg *config.Config) {
			format = c.flags.String("f", "sdf", "Output format, used as the extension of the output files")
			cpus = c.flags.Int("cpus", 4, "Files converted at the same time")
		},
		run: func(ctx context.Context, c *command, cfg *config.Config) error {
			b := babel.NewHandle()
			b.SetCommand(cfg.Programs.OBabel)
			outs := make([]string, c.flags.NArg())
			for i, in := range c.flags.Args() {
				outs[i] = strings.TrimSuffix(in, filepath.Ext(in)) + "." + strings.TrimPrefix(*format, ".")
				if outs[i] == in {
					return errors.Errorf("input and output are the same file: %s", in)
				}
			}
			g, ctx := errgroup.WithContext(ctx)
			if *cpus > 0 {
				g.SetLimit(*cpus)
			}
			for i, in := range c.flags.Args() {
				in, out := in, outs[i]
				g.Go(func() error {
					if err := b.Convert(ctx, in, out); err != nil {
						return errors.WithStack(err)
					}
					LogV(2, in, "->", out)
					return nil
				})
			}
			return g.Wait()
		},
	})
}
