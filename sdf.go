/*
 * sdf.go, part of goDock.
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

package chem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/rmera/godock/v3"
)

// sdfScanner reads a MDL SDF stream line by line, keeping track of the line number.
type sdfScanner struct {
	*bufio.Scanner
	line int
}

func (s *sdfScanner) next() (string, bool) {
	if !s.Scan() {
		return "", false
	}
	s.line++
	return strings.TrimRight(s.Text(), "\r"), true
}

func (s *sdfScanner) errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Format: "SDF", Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

// field returns the trimmed s[i:j], clamped to the length of s.
func field(s string, i, j int) string {
	if i >= len(s) {
		return ""
	}
	if j > len(s) {
		j = len(s)
	}
	return strings.TrimSpace(s[i:j])
}

// old-style charge codes of the V2000 atom block.
var sdfChargeCodes = map[int]int{1: 3, 2: 2, 3: 1, 5: -1, 6: -2, 7: -3}

// readSDFRecord reads one record from the scanner. It returns nil, nil at the end of the stream.
func readSDFRecord(s *sdfScanner) (*Molecule, error) {
	name, ok := s.next()
	if !ok {
		return nil, nil
	}
	if _, ok = s.next(); !ok {
		if strings.TrimSpace(name) == "" {
			//trailing blank line
			return nil, nil
		}
		return nil, s.errorf("truncated header")
	}
	if _, ok = s.next(); !ok {
		return nil, s.errorf("truncated header")
	}
	counts, ok := s.next()
	if !ok {
		return nil, s.errorf("missing counts line")
	}
	if strings.Contains(counts, "V3000") {
		return nil, s.errorf("V3000 records are not supported")
	}
	natoms, err := strconv.Atoi(field(counts, 0, 3))
	if err != nil {
		return nil, s.errorf("bad atom count in counts line %q", counts)
	}
	nbonds, err := strconv.Atoi(field(counts, 3, 6))
	if err != nil {
		return nil, s.errorf("bad bond count in counts line %q", counts)
	}
	atoms := make([]*Atom, 0, natoms)
	coords := make([]float64, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, ok := s.next()
		if !ok {
			return nil, s.errorf("expected %d atoms, found %d", natoms, i)
		}
		var xyz [3]float64
		var symbol string
		var chcode int
		if len(line) >= 34 {
			for j := 0; j < 3; j++ {
				xyz[j], err = strconv.ParseFloat(field(line, 10*j, 10*j+10), 64)
				if err != nil {
					return nil, s.errorf("bad coordinates in atom line %q", line)
				}
			}
			symbol = field(line, 31, 34)
			chcode, _ = strconv.Atoi(field(line, 36, 39))
		} else {
			f := strings.Fields(line)
			if len(f) < 4 {
				return nil, s.errorf("bad atom line %q", line)
			}
			for j := 0; j < 3; j++ {
				xyz[j], err = strconv.ParseFloat(f[j], 64)
				if err != nil {
					return nil, s.errorf("bad coordinates in atom line %q", line)
				}
			}
			symbol = f[3]
		}
		at := &Atom{Symbol: normalizeSymbol(symbol), ID: i + 1, Occupancy: 1, Het: true}
		at.Name = at.Symbol
		at.FormalCharge = sdfChargeCodes[chcode]
		atoms = append(atoms, at)
		coords = append(coords, xyz[:]...)
	}
	top := NewTopology(0, 1, atoms)
	for i := 0; i < nbonds; i++ {
		line, ok := s.next()
		if !ok {
			return nil, s.errorf("expected %d bonds, found %d", nbonds, i)
		}
		a1, err1 := strconv.Atoi(field(line, 0, 3))
		a2, err2 := strconv.Atoi(field(line, 3, 6))
		order, err3 := strconv.Atoi(field(line, 6, 9))
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, s.errorf("bad bond line %q", line)
		}
		if _, err := top.AddBond(a1-1, a2-1, float64(order)); err != nil {
			return nil, &ParseError{Format: "SDF", Line: s.line, Msg: "bad bond", Err: err}
		}
	}
	//properties block
	chargesReset := false
	for {
		line, ok := s.next()
		if !ok {
			return nil, s.errorf("missing M  END")
		}
		if strings.HasPrefix(line, "M  END") {
			break
		}
		if strings.HasPrefix(line, "M  CHG") {
			//M  CHG lines supersede the charges in the atom block.
			if !chargesReset {
				for _, at := range atoms {
					at.FormalCharge = 0
				}
				chargesReset = true
			}
			f := strings.Fields(line)
			for j := 3; j+1 < len(f); j += 2 {
				idx, err1 := strconv.Atoi(f[j])
				ch, err2 := strconv.Atoi(f[j+1])
				if err1 != nil || err2 != nil || idx < 1 || idx > natoms {
					return nil, s.errorf("bad charge line %q", line)
				}
				atoms[idx-1].FormalCharge = ch
			}
		}
	}
	xyz, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, &ParseError{Format: "SDF", Line: s.line, Msg: "empty molecule", Err: err}
	}
	mol, err := NewMolecule([]*v3.Matrix{xyz}, top)
	if err != nil {
		return nil, &ParseError{Format: "SDF", Line: s.line, Msg: "inconsistent record", Err: err}
	}
	mol.Name = strings.TrimSpace(name)
	charge := 0
	for _, at := range atoms {
		charge += at.FormalCharge
	}
	mol.SetCharge(charge)
	//data items, until $$$$
	var key string
	var value []string
	inItem := false
	for {
		line, ok := s.next()
		if !ok || strings.HasPrefix(line, "$$$$") {
			if inItem {
				mol.Props.Set(key, strings.Join(value, "\n"))
			}
			break
		}
		if strings.HasPrefix(line, ">") {
			if inItem {
				mol.Props.Set(key, strings.Join(value, "\n"))
			}
			i := strings.Index(line, "<")
			j := strings.LastIndex(line, ">")
			if i < 0 || j < i {
				return nil, s.errorf("bad data header %q", line)
			}
			key = line[i+1 : j]
			value = nil
			inItem = true
			continue
		}
		if !inItem {
			continue
		}
		if line == "" {
			mol.Props.Set(key, strings.Join(value, "\n"))
			inItem = false
			continue
		}
		value = append(value, line)
	}
	return mol, nil
}

// SDFRead reads all the records in an MDL SDF (V2000) stream.
func SDFRead(r io.Reader) ([]*Molecule, error) {
	s := &sdfScanner{Scanner: bufio.NewScanner(r)}
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	mols := make([]*Molecule, 0, 1)
	for {
		mol, err := readSDFRecord(s)
		if err != nil {
			return nil, err
		}
		if mol == nil {
			break
		}
		mols = append(mols, mol)
	}
	if err := s.Err(); err != nil {
		return nil, &ParseError{Format: "SDF", Line: s.line, Msg: "reading failed", Err: err}
	}
	if len(mols) == 0 {
		return nil, &ParseError{Format: "SDF", Msg: "no records found"}
	}
	return mols, nil
}

// SDFFileRead reads all the records in the SDF file name, which can be compressed.
func SDFFileRead(name string) ([]*Molecule, error) {
	f, err := OpenRead(name)
	if err != nil {
		return nil, fmt.Errorf("SDFFileRead: %w", err)
	}
	defer f.Close()
	mols, err := SDFRead(f)
	return mols, setFile(err, name)
}

// SDFWrite writes the molecule with coordinates coords as one SDF record,
// including its properties as data items.
func SDFWrite(out io.Writer, mol *Molecule, coords *v3.Matrix) error {
	if coords.NVecs() != mol.Len() {
		return fmt.Errorf("SDFWrite: %d coordinates for %d atoms", coords.NVecs(), mol.Len())
	}
	if mol.Len() > 999 {
		return fmt.Errorf("SDFWrite: %d atoms don't fit in a V2000 record", mol.Len())
	}
	mol.FillIndexes()
	bonds := mol.Bonds()
	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "%s\n  goDock\n\n", strings.SplitN(mol.Name, "\n", 2)[0])
	fmt.Fprintf(bw, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", mol.Len(), len(bonds))
	charged := make([]int, 0)
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		v := coords.Row3(i)
		fmt.Fprintf(bw, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", v[0], v[1], v[2], at.Symbol)
		if at.FormalCharge != 0 {
			charged = append(charged, i)
		}
	}
	for _, b := range bonds {
		order := int(b.Order)
		if order <= 0 {
			order = 1
		}
		fmt.Fprintf(bw, "%3d%3d%3d  0\n", b.At1.index+1, b.At2.index+1, order)
	}
	//at most 8 charges per line
	for i := 0; i < len(charged); i += 8 {
		j := min(i+8, len(charged))
		fmt.Fprintf(bw, "M  CHG%3d", j-i)
		for _, k := range charged[i:j] {
			fmt.Fprintf(bw, " %3d %3d", k+1, mol.Atom(k).FormalCharge)
		}
		fmt.Fprint(bw, "\n")
	}
	fmt.Fprint(bw, "M  END\n")
	for _, k := range mol.Props.Keys() {
		v, _ := mol.Props.Get(k)
		fmt.Fprintf(bw, "> <%s>\n%s\n\n", k, v)
	}
	if _, err := fmt.Fprint(bw, "$$$$\n"); err != nil {
		return fmt.Errorf("SDFWrite: %w", err)
	}
	return bw.Flush()
}

// SDFWriter writes SDF records one after the other to a file.
type SDFWriter struct {
	out  io.WriteCloser
	name string
	n    int
}

// NewSDFWriter creates (or overwrites) the file name. It will be compressed if name
// ends in .gz or .zst.
func NewSDFWriter(name string) (*SDFWriter, error) {
	out, err := OpenWrite(name)
	if err != nil {
		return nil, fmt.Errorf("NewSDFWriter: %w", err)
	}
	return &SDFWriter{out: out, name: name}, nil
}

// Write writes mol with the coordinates coords as a new record.
func (S *SDFWriter) Write(mol *Molecule, coords *v3.Matrix) error {
	if err := SDFWrite(S.out, mol, coords); err != nil {
		return fmt.Errorf("SDFWriter: %s: %w", S.name, err)
	}
	S.n++
	return nil
}

// Len returns the number of records written so far.
func (S *SDFWriter) Len() int {
	return S.n
}

// Close closes the underlying file.
func (S *SDFWriter) Close() error {
	return S.out.Close()
}

// SDFFileWrite writes the first frame of each molecule in mols as a record of the SDF file name.
func SDFFileWrite(name string, mols ...*Molecule) error {
	w, err := NewSDFWriter(name)
	if err != nil {
		return err
	}
	for i, m := range mols {
		if m.LenFrames() == 0 {
			w.Close()
			return fmt.Errorf("SDFFileWrite: molecule %d has no coordinates", i)
		}
		if err := w.Write(m, m.Coords[0]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
