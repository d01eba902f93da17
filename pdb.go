/*
 * pdb.go, part of goDock.
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

// pdbModel accumulates what is read for one MODEL of a PDB or PDBQT file.
type pdbModel struct {
	atoms   []*Atom
	coords  []float64
	remarks []string
	number  int
	torsdof string
	conect  [][]int
}

func (m *pdbModel) empty() bool {
	return len(m.atoms) == 0
}

// padLine makes sure the line is at least 80 characters long, so
// fixed-column slicing doesn't go out of range.
func padLine(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 80 {
		line = line + strings.Repeat(" ", 80-len(line))
	}
	return line
}

// Parses a valid ATOM or HETATM line of a PDB or PDBQT file, returns an Atom
// object with the info except for the coordinates, which are returned
// separately as an array of 3 float64.
func readPDBAtomLine(line string, pdbqt bool) (*Atom, [3]float64, error) {
	var coords [3]float64
	var err error
	raw := strings.TrimRight(line, "\r\n")
	line = padLine(line)
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, _ = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.MolName = strings.TrimSpace(line[17:21])
	atom.MolName1 = three2OneLetter[atom.MolName]
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, _ = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if line[26] != ' ' {
		atom.InsCode = line[26]
	}
	for i, v := range [][2]int{{30, 38}, {38, 46}, {46, 54}} {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(line[v[0]:v[1]]), 64)
		if err != nil {
			break
		}
	}
	if err != nil {
		//Some programs (LeDock among them) don't respect the PDB columns.
		//we try to get the information from the whitespace-separated fields.
		atom, coords, err = readLooseAtomLine(raw)
		if err != nil {
			return nil, coords, err
		}
		atom.Het = strings.HasPrefix(raw, "HETATM")
		return atom, coords, guessSymbol(atom)
	}
	atom.Occupancy = 1.0
	if occ, err := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); err == nil {
		atom.Occupancy = occ
	}
	atom.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	if pdbqt {
		atom.Charge, _ = strconv.ParseFloat(strings.TrimSpace(line[70:76]), 64)
		atom.ADType = strings.TrimSpace(line[77:79])
		if atom.ADType != "" {
			atom.Symbol = symbolFromADType(atom.ADType)
		}
	} else {
		atom.Symbol = normalizeSymbol(line[76:78])
		atom.FormalCharge = parsePDBCharge(line[78:80])
	}
	return atom, coords, guessSymbol(atom)
}

// readLooseAtomLine parses ATOM lines that don't follow the PDB columns.
// The expected order is record, serial, name, [resname], [resid], x, y, z, [...]
func readLooseAtomLine(line string) (*Atom, [3]float64, error) {
	var coords [3]float64
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, coords, fmt.Errorf("can't parse atom line %q", line)
	}
	atom := &Atom{Occupancy: 1}
	atom.ID, _ = strconv.Atoi(fields[1])
	atom.Name = fields[2]
	k := -1
	for i := 3; i+2 < len(fields); i++ {
		if isDecimal(fields[i]) && isDecimal(fields[i+1]) && isDecimal(fields[i+2]) {
			k = i
			break
		}
	}
	if k < 0 {
		return nil, coords, fmt.Errorf("no coordinates found in atom line %q", line)
	}
	for i := 0; i < 3; i++ {
		coords[i], _ = strconv.ParseFloat(fields[k+i], 64)
	}
	for _, v := range fields[3:k] {
		if n, err := strconv.Atoi(v); err == nil {
			atom.MolID = n
		} else if atom.MolName == "" && len(v) > 1 {
			atom.MolName = v
		} else if len(v) == 1 {
			atom.Chain = v
		}
	}
	return atom, coords, nil
}

func isDecimal(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// guessSymbol fills the symbol of the atom from its name, if the symbol is missing.
// It returns an error only if neither is available.
func guessSymbol(atom *Atom) error {
	if atom.Symbol != "" {
		return nil
	}
	var err error
	atom.Symbol, err = symbolFromName(atom.Name)
	return err
}

// parsePDBCharge parses the charge columns of a PDB, which look like "2+" or "1-".
func parsePDBCharge(s string) int {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return 0
	}
	n, err := strconv.Atoi(s[:1])
	if err != nil {
		return 0
	}
	if s[1] == '-' {
		return -n
	}
	return n
}

// readPDBModels reads all the models in a PDB or PDBQT stream.
func readPDBModels(r io.Reader, pdbqt bool) ([]*pdbModel, error) {
	format := "PDB"
	if pdbqt {
		format = "PDBQT"
	}
	models := make([]*pdbModel, 0, 1)
	current := new(pdbModel)
	//once a MODEL record is seen, only remarks inside MODEL/ENDMDL blocks belong to a model
	var sawModel, inModel bool
	closeModel := func() {
		if current.empty() {
			return
		}
		models = append(models, current)
		current = new(pdbModel)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	linenu := 0
	for scanner.Scan() {
		linenu++
		line := scanner.Text()
		record := line
		if len(record) > 6 {
			record = record[:6]
		}
		//LeDock and others sometimes write "ATOM 1 ..."
		if f := strings.Fields(record); len(f) > 0 {
			record = f[0]
		}
		switch record {
		case "ATOM", "HETATM":
			atom, c, err := readPDBAtomLine(line, pdbqt)
			if err != nil {
				return nil, &ParseError{Format: format, Line: linenu, Msg: "bad atom line", Err: err}
			}
			current.atoms = append(current.atoms, atom)
			current.coords = append(current.coords, c[0], c[1], c[2])
		case "MODEL":
			closeModel()
			//anything read before this MODEL is header
			current = new(pdbModel)
			sawModel, inModel = true, true
			current.number, _ = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "MODEL")))
		case "ENDMDL", "END":
			closeModel()
			inModel = false
		case "REMARK":
			if sawModel && !inModel {
				continue
			}
			current.remarks = append(current.remarks, strings.TrimSpace(strings.TrimPrefix(line, "REMARK")))
		case "TORSDO":
			current.torsdof = strings.TrimSpace(strings.TrimPrefix(line, "TORSDOF"))
		case "CONECT":
			fields := strings.Fields(line)
			ids := make([]int, 0, len(fields)-1)
			for _, v := range fields[1:] {
				if id, err := strconv.Atoi(v); err == nil {
					ids = append(ids, id)
				}
			}
			if len(ids) > 1 {
				if len(models) > 0 && current.empty() {
					//CONECT records usually come after the last ENDMDL.
					last := models[len(models)-1]
					last.conect = append(last.conect, ids)
				} else {
					current.conect = append(current.conect, ids)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: format, Line: linenu, Msg: "reading failed", Err: err}
	}
	closeModel()
	if len(models) == 0 {
		return nil, &ParseError{Format: format, Msg: "no atoms found"}
	}
	return models, nil
}

// molecule builds a Molecule from the model. Bonds from CONECT records are added.
func (m *pdbModel) molecule() (*Molecule, error) {
	coords, err := v3.NewMatrix(m.coords)
	if err != nil {
		return nil, err
	}
	top := NewTopology(0, 1, m.atoms)
	mol, err := NewMolecule([]*v3.Matrix{coords}, top)
	if err != nil {
		return nil, err
	}
	if len(m.remarks) > 0 {
		mol.Props.Set("REMARK", strings.Join(m.remarks, "\n"))
	}
	serials := make(map[int]int, len(m.atoms))
	for i, v := range m.atoms {
		serials[v.ID] = i
	}
	seen := make(map[[2]int]bool)
	for _, c := range m.conect {
		i, ok := serials[c[0]]
		if !ok {
			continue
		}
		for _, id := range c[1:] {
			j, ok := serials[id]
			if !ok || i == j {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				//PDB files list each bond twice, repeated entries mean a double bond.
				continue
			}
			seen[key] = true
			mol.AddBond(key[0], key[1], 1)
		}
	}
	return mol, nil
}

// PDBModelsRead reads a PDB stream and returns one molecule per MODEL.
// The REMARK lines of each model (without the "REMARK" keyword) are stored,
// separated by newlines, in the "REMARK" property, and the model number in "MODEL".
func PDBModelsRead(r io.Reader) ([]*Molecule, error) {
	models, err := readPDBModels(r, false)
	if err != nil {
		return nil, err
	}
	ret := make([]*Molecule, 0, len(models))
	for i, m := range models {
		mol, err := m.molecule()
		if err != nil {
			return nil, &ParseError{Format: "PDB", Msg: fmt.Sprintf("model %d", i+1), Err: err}
		}
		if m.number > 0 {
			mol.Props.Set("MODEL", strconv.Itoa(m.number))
		}
		ret = append(ret, mol)
	}
	return ret, nil
}

// PDBRead reads a PDB stream and returns a molecule. Each model in the stream becomes a
// frame of the molecule. The topology is taken from the first model; it is an error if
// the models don't have the same number of atoms.
func PDBRead(r io.Reader) (*Molecule, error) {
	models, err := readPDBModels(r, false)
	if err != nil {
		return nil, err
	}
	mol, err := models[0].molecule()
	if err != nil {
		return nil, &ParseError{Format: "PDB", Msg: "first model", Err: err}
	}
	for i, m := range models[1:] {
		if len(m.atoms) != mol.Len() {
			return nil, &ParseError{Format: "PDB", Msg: fmt.Sprintf("model %d has %d atoms, the first one has %d", i+2, len(m.atoms), mol.Len())}
		}
		c, err := v3.NewMatrix(m.coords)
		if err != nil {
			return nil, &ParseError{Format: "PDB", Msg: fmt.Sprintf("model %d", i+2), Err: err}
		}
		mol.Coords = append(mol.Coords, c)
	}
	return mol, nil
}

// PDBFileRead reads the PDB file pdbname (which may be gzip or zstd compressed)
// and returns a molecule, with one frame per model in the file.
func PDBFileRead(pdbname string) (*Molecule, error) {
	f, err := OpenRead(pdbname)
	if err != nil {
		return nil, fmt.Errorf("PDBFileRead: %w", err)
	}
	defer f.Close()
	mol, err := PDBRead(f)
	if err != nil {
		return nil, setFile(err, pdbname)
	}
	if mol.Name == "" {
		mol.Name = pdbname
	}
	return mol, nil
}

// pdbAtomName returns the atom name formatted for the columns 13-16.
func pdbAtomName(name, symbol string) string {
	if len(name) >= 4 {
		return name[:4]
	}
	//names for 1-letter elements start in column 14
	if len(symbol) < 2 {
		return fmt.Sprintf(" %-3s", name)
	}
	return fmt.Sprintf("%-4s", name)
}

func pdbCharge(c int) string {
	if c == 0 {
		return "  "
	}
	if c < 0 {
		return fmt.Sprintf("%d-", -c)
	}
	return fmt.Sprintf("%d+", c)
}

// PDBWrite writes the coordinates in coords for the atoms in mol to out, in PDB format.
// If more than one set of coordinates is given, each one is written as a MODEL.
func PDBWrite(out io.Writer, mol Atomer, coords ...*v3.Matrix) error {
	if len(coords) == 0 {
		return fmt.Errorf("PDBWrite: no coordinates given")
	}
	bw := bufio.NewWriter(out)
	fmt.Fprint(bw, "REMARK     WRITTEN WITH GODOCK\n")
	for j, c := range coords {
		if c.NVecs() != mol.Len() {
			return fmt.Errorf("PDBWrite: frame %d has %d coordinates for %d atoms", j, c.NVecs(), mol.Len())
		}
		if len(coords) > 1 {
			fmt.Fprintf(bw, "MODEL     %4d\n", j+1)
		}
		var chainprev string
		for i := 0; i < mol.Len(); i++ {
			at := mol.Atom(i)
			if i > 0 && at.Chain != chainprev {
				fmt.Fprintln(bw, "TER")
			}
			chainprev = at.Chain
			first := "ATOM"
			if at.Het {
				first = "HETATM"
			}
			chain := " "
			if at.Chain != "" {
				chain = at.Chain[:1]
			}
			ins := " "
			if at.InsCode != 0 {
				ins = string(at.InsCode)
			}
			symbol := strings.ToUpper(at.Symbol)
			v := c.Row3(i)
			_, err := fmt.Fprintf(bw, "%-6s%5d %4s %3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s\n",
				first, at.ID%100000, pdbAtomName(at.Name, at.Symbol), at.MolName, chain, at.MolID%10000, ins,
				v[0], v[1], v[2], at.Occupancy, at.Bfactor, symbol, pdbCharge(at.FormalCharge))
			if err != nil {
				return fmt.Errorf("PDBWrite: %w", err)
			}
		}
		if len(coords) > 1 {
			fmt.Fprint(bw, "ENDMDL\n")
		}
	}
	fmt.Fprint(bw, "END\n")
	return bw.Flush()
}

// PDBFileWrite writes the coordinates in coords for mol in a PDB file with the name pdbname.
// The file is compressed if pdbname ends in .gz or .zst.
func PDBFileWrite(pdbname string, mol Atomer, coords ...*v3.Matrix) error {
	out, err := OpenWrite(pdbname)
	if err != nil {
		return fmt.Errorf("PDBFileWrite: %w", err)
	}
	if err := PDBWrite(out, mol, coords...); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
