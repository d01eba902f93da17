/*
 * dok.go, part of goDock.
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

package ledock

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	chem "github.com/rmera/godock"
)

// Pose is one docking pose from a DOK file.
type Pose struct {
	Remark string //the text of the REMARK lines of the pose, without the keyword, joined by newlines
	Block  []byte //the PDB-like block for the pose, starting with its REMARK Cluster line
}

// Number returns the 5th whitespace-separated field of the remark, which goes into the "Pose" data field.
func (P *Pose) Number() (string, error) {
	return P.remarkField(4)
}

// Score returns the 7th whitespace-separated field of the remark, the LeDock score.
func (P *Pose) Score() (string, error) {
	return P.remarkField(6)
}

func (P *Pose) remarkField(i int) (string, error) {
	f := strings.Fields(P.Remark)
	if len(f) <= i {
		return "", fmt.Errorf("remark %q has only %d fields", P.Remark, len(f))
	}
	return f[i], nil
}

// upperAtomName returns line with its third whitespace-separated field (the
// atom name in ATOM and HETATM lines) in uppercase. The rest of the line is not changed.
func upperAtomName(line string) string {
	field := -1
	inField := false
	for i, r := range line {
		if unicode.IsSpace(r) {
			inField = false
			continue
		}
		if !inField {
			inField = true
			field++
		}
		if field == 2 {
			j := strings.IndexFunc(line[i:], unicode.IsSpace)
			if j < 0 {
				j = len(line) - i
			}
			return line[:i] + strings.ToUpper(line[i:i+j]) + line[i+j:]
		}
	}
	return line
}

// ParseDOK reads a LeDock DOK file, and returns its poses. Each pose starts at a
// "REMARK Cluster" line and ends two lines before the next one (the line right before
// a cluster header is not part of any pose), or at the end of the file.
// Lines before the first cluster are ignored.
func ParseDOK(r io.Reader) ([]*Pose, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if strings.Contains(line, "ATOM") {
				line = upperAtomName(line)
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ledock/ParseDOK: %w", err)
		}
	}
	var starts []int
	for i, l := range lines {
		if strings.Contains(l, "REMARK Cluster") {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("ledock/ParseDOK: no poses found")
	}
	poses := make([]*Pose, 0, len(starts))
	for k, s := range starts {
		end := len(lines)
		if k+1 < len(starts) {
			end = starts[k+1] - 1
		}
		p := new(Pose)
		var remarks []string
		var block bytes.Buffer
		for _, l := range lines[s:max(s, end)] {
			block.WriteString(l)
			if strings.HasPrefix(l, "REMARK") {
				remarks = append(remarks, strings.TrimSpace(strings.TrimPrefix(l, "REMARK")))
			}
		}
		p.Remark = strings.Join(remarks, "\n")
		p.Block = block.Bytes()
		poses = append(poses, p)
	}
	return poses, nil
}

// DOKToSDF converts the LeDock output file dok into the SDF file output, which is
// overwritten. Each pose is turned into a molecule by conv, and gets the data fields
// "Pose" and "Score" from its cluster remark. The REMARK data field is removed.
// It returns the number of poses written.
func DOKToSDF(ctx context.Context, dok, output string, conv chem.Converter) (int, error) {
	errid := "ledock/DOKToSDF"
	f, err := os.Open(dok)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	poses, err := ParseDOK(f)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", errid, dok, err)
	}
	w, err := chem.NewSDFWriter(output)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	for i, p := range poses {
		mol, err := poseMolecule(ctx, p, conv)
		if err != nil {
			w.Close()
			return w.Len(), fmt.Errorf("%s: pose %d: %w", errid, i+1, err)
		}
		if err := w.Write(mol, mol.Coords[0]); err != nil {
			w.Close()
			return w.Len(), fmt.Errorf("%s: %w", errid, err)
		}
	}
	return w.Len(), w.Close()
}

func poseMolecule(ctx context.Context, p *Pose, conv chem.Converter) (*chem.Molecule, error) {
	number, err := p.Number()
	if err != nil {
		return nil, err
	}
	score, err := p.Score()
	if err != nil {
		return nil, err
	}
	mols, err := conv.ToMolecules(ctx, p.Block, "pdb")
	if err != nil {
		return nil, err
	}
	if len(mols) == 0 || mols[0].LenFrames() == 0 {
		return nil, fmt.Errorf("no atoms in pose")
	}
	mol := mols[0]
	mol.Props.Set("Pose", number)
	mol.Props.Set("Score", score)
	mol.Props.Del("REMARK")
	return mol, nil
}
