/*
 * input.go, part of goDock.
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

// Package ledock writes input files for the LeDock docking program
// (http://www.lephar.com) and converts its DOK output to SDF.
package ledock

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/godock/box"
)

// Input contains the parameters of a LeDock run.
type Input struct {
	Receptor   string     //receptor file, in PDB format
	RMSD       float64    //RMSD to consider two poses different
	X, Y, Z    [2]float64 //minimum and maximum coordinate of the binding pocket in each direction
	NPoses     int        //number of binding poses
	Ligands    []string   //ligand files, written to the ligand list
	LigandList string     //name of the ligand list file
}

// DefaultInput returns a LeDock input with the default values.
func DefaultInput() *Input {
	return &Input{
		Receptor:   "pro.pdb",
		RMSD:       1.0,
		NPoses:     10,
		LigandList: "ligands",
	}
}

// SetBox sets the binding pocket to the box b.
func (I *Input) SetBox(b *box.Box) {
	I.X = [2]float64{b.Min[0], b.Max[0]}
	I.Y = [2]float64{b.Min[1], b.Max[1]}
	I.Z = [2]float64{b.Min[2], b.Max[2]}
}

// pyFloat formats f the way Python's str() does for floats, which is
// what LeDock users are used to see in their input files.
func pyFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (I *Input) check() error {
	if I.Receptor == "" {
		return fmt.Errorf("no receptor given")
	}
	if I.LigandList == "" {
		return fmt.Errorf("no name given for the ligand list")
	}
	if I.NPoses < 1 {
		return fmt.Errorf("the number of poses must be positive, got %d", I.NPoses)
	}
	for i, v := range [][2]float64{I.X, I.Y, I.Z} {
		if v[0] > v[1] {
			return fmt.Errorf("minimum larger than maximum for the binding pocket dimension %d", i)
		}
	}
	return nil
}

// Write writes the LeDock input (the dock.in file) to w.
func (I *Input) Write(w io.Writer) error {
	if err := I.check(); err != nil {
		return fmt.Errorf("ledock/Write: %w", err)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Receptor\n%s\n\n", I.Receptor)
	fmt.Fprintf(bw, "RMSD\n%s\n\n", pyFloat(I.RMSD))
	fmt.Fprint(bw, "Binding pocket\n")
	for _, v := range [][2]float64{I.X, I.Y, I.Z} {
		fmt.Fprintf(bw, "%s %s\n", pyFloat(v[0]), pyFloat(v[1]))
	}
	fmt.Fprintf(bw, "\nNumber of binding poses\n%d\n\n", I.NPoses)
	fmt.Fprintf(bw, "Ligands list\n%s\n\n", I.LigandList)
	fmt.Fprint(bw, "END")
	return bw.Flush()
}

// WriteLigandList writes the ligand files to w, one per line.
func (I *Input) WriteLigandList(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range I.Ligands {
		bw.WriteString(strings.TrimRight(l, "\n"))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// WriteFiles writes the ligand list to the file I.LigandList, and the LeDock
// input to the file out. Existing files are overwritten.
func (I *Input) WriteFiles(out string) error {
	errid := "ledock/WriteFiles"
	if err := I.check(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	if err := writeFile(I.LigandList, I.WriteLigandList); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	if err := writeFile(out, I.Write); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
