/*
 * atomicdata.go, part of goDock.
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
	"fmt"
	"strings"
)

// A map for assigning covalent radii to elements
// Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
// Note that just common "bio-elements" and halogens are present
var symbolCovrad = map[string]float64{
	"H":  0.4,  // 0.31 originally. H always has one bond, the extra ones get removed later.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"B":  0.84,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

// A map for checking that atoms don't
// have too many bonds. A value of 0 means
// undefined, i.e. that this atom shouldn't
// be checked for max bonds.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"N":  0,
	"P":  0,
	"S":  0,
	"Se": 0,
	"Be": 0,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

// A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"CYX": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
}

// AutoDock atom types that don't match an element symbol.
var adType2Symbol = map[string]string{
	"A":   "C",
	"C":   "C",
	"OA":  "O",
	"OS":  "O",
	"NA":  "N",
	"NS":  "N",
	"N":   "N",
	"SA":  "S",
	"S":   "S",
	"HD":  "H",
	"HS":  "H",
	"H":   "H",
	"CL":  "Cl",
	"Cl":  "Cl",
	"BR":  "Br",
	"Br":  "Br",
	"G0":  "C", //glue atoms of macrocycles
	"G1":  "C",
	"G2":  "C",
	"G3":  "C",
	"CG0": "C",
	"CG1": "C",
	"CG2": "C",
	"CG3": "C",
	"W":   "O", //hydrated docking waters
}

// IsAminoacid returns true if the residue name is a standard aminoacid
// (or one of the common protonation variants).
func IsAminoacid(resname string) bool {
	_, ok := three2OneLetter[strings.ToUpper(resname)]
	return ok
}

// normalizeSymbol returns the symbol with the first letter uppercase and the
// rest lowercase, so "CL" and "cl" become "Cl".
func normalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// symbolFromADType returns the element for an AutoDock atom type.
func symbolFromADType(t string) string {
	t = strings.TrimSpace(t)
	if s, ok := adType2Symbol[t]; ok {
		return s
	}
	return normalizeSymbol(t)
}

// This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
// It only deals with some common bio-elements and halogens.
func symbolFromName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	//names like 1HB2
	name = strings.TrimLeft(name, "0123456789")
	symbol := ""
	if name == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from empty PDB name")
	}
	switch {
	case strings.HasPrefix(name, "CL"):
		symbol = "Cl"
	case strings.HasPrefix(name, "BR"):
		symbol = "Br"
	case name == "CU", name == "CO", name == "NA", name == "ZN", name == "MG", name == "FE", name == "MN", name == "SE":
		symbol = normalizeSymbol(name)
	case len(name) == 4 || name[0] == 'H':
		symbol = "H"
	case name[0] == 'C', name[0] == 'N', name[0] == 'O', name[0] == 'P', name[0] == 'S', name[0] == 'F', name[0] == 'I', name[0] == 'B':
		symbol = name[:1]
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}
