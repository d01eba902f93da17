/*
 * box.go, part of goDock.
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

// Package box computes docking search boxes from atom selections, and
// formats them for docking programs.
package box

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/godock"
	v3 "github.com/rmera/godock/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPadding is the distance, in A, added to each side of the extent of the selection.
const DefaultPadding = 6.0

// Box is an axis-aligned docking search box.
type Box struct {
	Min [3]float64
	Max [3]float64
}

// Compute returns the box enclosing the atoms of mol selected by sel,
// with padding A added to every side. It is an error for the selection to be empty.
func Compute(mol chem.Atomer, coords *v3.Matrix, sel *Selection, padding float64) (*Box, error) {
	errid := "box/Compute"
	if coords.NVecs() != mol.Len() {
		return nil, fmt.Errorf("%s: %d coordinates for %d atoms", errid, coords.NVecs(), mol.Len())
	}
	idx := sel.Select(mol)
	if len(idx) == 0 {
		return nil, fmt.Errorf("%s: selection %q matches no atoms", errid, sel)
	}
	lo, hi, err := chem.Extent(coords, idx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	b := new(Box)
	for i := 0; i < 3; i++ {
		b.Min[i] = lo[i] - padding
		b.Max[i] = hi[i] + padding
	}
	return b, nil
}

// FromCenterSize returns the box with the given center and size.
func FromCenterSize(center, size [3]float64) *Box {
	b := new(Box)
	for i := range center {
		b.Min[i] = center[i] - size[i]/2
		b.Max[i] = center[i] + size[i]/2
	}
	return b
}

// Center returns the center of the box.
func (B *Box) Center() [3]float64 {
	var c [3]float64
	for i := range c {
		c[i] = (B.Max[i] + B.Min[i]) / 2
	}
	return c
}

// Size returns the length of the box in each direction.
func (B *Box) Size() [3]float64 {
	var s [3]float64
	for i := range s {
		s[i] = B.Max[i] - B.Min[i]
	}
	return s
}

// Vina returns the box in the terms used by AutoDock Vina.
func (B *Box) Vina() (center, size map[string]float64) {
	c, s := B.Center(), B.Size()
	center = map[string]float64{"center_x": c[0], "center_y": c[1], "center_z": c[2]}
	size = map[string]float64{"size_x": s[0], "size_y": s[1], "size_z": s[2]}
	return center, size
}

// LeDock returns the box in the terms used by LeDock.
func (B *Box) LeDock() map[string]float64 {
	return map[string]float64{
		"minX": B.Min[0], "maxX": B.Max[0],
		"minY": B.Min[1], "maxY": B.Max[1],
		"minZ": B.Min[2], "maxZ": B.Max[2],
	}
}

var vinaKeys = []string{"center_x", "center_y", "center_z", "size_x", "size_y", "size_z"}
var ledockKeys = []string{"minX", "maxX", "minY", "maxY", "minZ", "maxZ"}

// Params returns the box parameters for software, which can be "vina", "ledock" or
// "both", together with the order in which they should be printed.
func (B *Box) Params(software string) (map[string]float64, []string, error) {
	ret := make(map[string]float64, 12)
	var keys []string
	sw := strings.ToLower(software)
	if sw == "vina" || sw == "both" {
		c, s := B.Vina()
		for k, v := range c {
			ret[k] = v
		}
		for k, v := range s {
			ret[k] = v
		}
		keys = append(keys, vinaKeys...)
	}
	if sw == "ledock" || sw == "both" {
		for k, v := range B.LeDock() {
			ret[k] = v
		}
		keys = append(keys, ledockKeys...)
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("box/Params: software %q not supported, use vina, ledock or both", software)
	}
	return ret, keys, nil
}

// Format returns the box parameters for software ("vina", "ledock" or "both")
// as "key = value" lines.
func (B *Box) Format(software string) (string, error) {
	p, keys, err := B.Params(software)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s = %s\n", k, strconv.FormatFloat(p[k], 'f', 3, 64))
	}
	return sb.String(), nil
}

type yamlBox struct {
	Min    []float64 `yaml:"min,flow"`
	Max    []float64 `yaml:"max,flow"`
	Center []float64 `yaml:"center,flow,omitempty"`
	Size   []float64 `yaml:"size,flow,omitempty"`
}

// WriteYAML writes the box to w as a YAML document with min, max, center and size.
func (B *Box) WriteYAML(w io.Writer) error {
	c, s := B.Center(), B.Size()
	y := yamlBox{Min: B.Min[:], Max: B.Max[:], Center: c[:], Size: s[:]}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(y); err != nil {
		return fmt.Errorf("box/WriteYAML: %w", err)
	}
	return enc.Close()
}

// ReadYAML reads a box written by WriteYAML. If min and max are absent, the
// box is built from center and size.
func ReadYAML(r io.Reader) (*Box, error) {
	errid := "box/ReadYAML"
	var y yamlBox
	if err := yaml.NewDecoder(r).Decode(&y); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if len(y.Min) == 3 && len(y.Max) == 3 {
		b := new(Box)
		copy(b.Min[:], y.Min)
		copy(b.Max[:], y.Max)
		for i := range b.Min {
			if b.Min[i] > b.Max[i] {
				return nil, fmt.Errorf("%s: min larger than max in dimension %d", errid, i)
			}
		}
		return b, nil
	}
	if len(y.Center) == 3 && len(y.Size) == 3 {
		var c, s [3]float64
		copy(c[:], y.Center)
		copy(s[:], y.Size)
		return FromCenterSize(c, s), nil
	}
	return nil, fmt.Errorf("%s: the box needs either min and max or center and size, with 3 values each", errid)
}

// WriteYAMLFile writes the box to the file name.
func (B *Box) WriteYAMLFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("box/WriteYAMLFile: %w", err)
	}
	if err := B.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadYAMLFile reads a box from the file name.
func ReadYAMLFile(name string) (*Box, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("box/ReadYAMLFile: %w", err)
	}
	defer f.Close()
	return ReadYAML(f)
}
