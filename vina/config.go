/*
 * config.go, part of goDock.
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

// Package vina writes configuration files for AutoDock Vina, runs it, and converts
// its PDBQT output to SDF.
package vina

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rmera/godock/box"
)

// Config contains the parameters of a Vina run.
type Config struct {
	Receptor       string
	Ligand         string
	Out            string //output file, if empty, Vina picks a name.
	Center         [3]float64
	Size           [3]float64
	Exhaustiveness int
	NumModes       int
	EnergyRange    float64
	CPU            int   //0 means all the available CPUs
	Seed           int64 //0 means a random seed
}

// DefaultConfig returns a configuration with Vina's defaults for the search parameters.
func DefaultConfig() *Config {
	return &Config{
		Exhaustiveness: 8,
		NumModes:       9,
		EnergyRange:    3,
	}
}

// SetBox sets the search space to the box b.
func (C *Config) SetBox(b *box.Box) {
	C.Center = b.Center()
	C.Size = b.Size()
}

func vfloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// Write writes the configuration to w as "key = value" lines.
func (C *Config) Write(w io.Writer) error {
	if C.Receptor == "" || C.Ligand == "" {
		return fmt.Errorf("vina/Write: receptor and ligand are needed")
	}
	for i, s := range C.Size {
		if s <= 0 {
			return fmt.Errorf("vina/Write: the size of the box must be positive, got %v in dimension %d", s, i)
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "receptor = %s\nligand = %s\n", C.Receptor, C.Ligand)
	if C.Out != "" {
		fmt.Fprintf(bw, "out = %s\n", C.Out)
	}
	fmt.Fprint(bw, "\n")
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(bw, "center_%s = %s\n", axis, vfloat(C.Center[i]))
	}
	fmt.Fprint(bw, "\n")
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(bw, "size_%s = %s\n", axis, vfloat(C.Size[i]))
	}
	fmt.Fprint(bw, "\n")
	if C.Exhaustiveness > 0 {
		fmt.Fprintf(bw, "exhaustiveness = %d\n", C.Exhaustiveness)
	}
	if C.NumModes > 0 {
		fmt.Fprintf(bw, "num_modes = %d\n", C.NumModes)
	}
	if C.EnergyRange > 0 {
		fmt.Fprintf(bw, "energy_range = %s\n", strconv.FormatFloat(C.EnergyRange, 'f', -1, 64))
	}
	if C.CPU > 0 {
		fmt.Fprintf(bw, "cpu = %d\n", C.CPU)
	}
	if C.Seed != 0 {
		fmt.Fprintf(bw, "seed = %d\n", C.Seed)
	}
	return bw.Flush()
}

// WriteFile writes the configuration to the file name, overwriting it.
func (C *Config) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("vina/WriteFile: %w", err)
	}
	if err := C.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
