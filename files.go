/*
 * files.go, part of goDock.
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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// closers closes several things in order, returning the first error.
type closers []io.Closer

func (c closers) Close() error {
	var err error
	for _, v := range c {
		if e := v.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type readCloser struct {
	io.Reader
	closers
}

type writeCloser struct {
	io.Writer
	closers
}

// compression returns "gz", "zst" or "" depending on the file name.
func compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return "gz"
	case ".zst", ".zstd":
		return "zst"
	}
	return ""
}

// Format returns the structure format of a file, deduced from its extension,
// ignoring a trailing compression extension. "structure.pdb.gz" gives "pdb".
func Format(name string) string {
	if compression(name) != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	f := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch f {
	case "ent":
		return "pdb"
	case "mol", "sd":
		return "sdf"
	}
	return f
}

// OpenRead opens the file name for reading, decompressing it on the fly
// if its extension is .gz or .zst.
func OpenRead(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch compression(name) {
	case "gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("OpenRead: %s: %w", name, err)
		}
		return readCloser{gz, closers{gz, f}}, nil
	case "zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("OpenRead: %s: %w", name, err)
		}
		rc := dec.IOReadCloser()
		return readCloser{rc, closers{rc, f}}, nil
	}
	return f, nil
}

// OpenWrite creates (or truncates) the file name for writing, compressing
// the output if its extension is .gz or .zst. The returned object must be closed
// for the compressed stream to be complete.
func OpenWrite(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	switch compression(name) {
	case "gz":
		gz := gzip.NewWriter(f)
		return writeCloser{gz, closers{gz, f}}, nil
	case "zst":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("OpenWrite: %s: %w", name, err)
		}
		return writeCloser{enc, closers{enc, f}}, nil
	}
	return f, nil
}

// FileRead reads all the molecules in a file. The format is deduced from the extension
// (pdb, pdbqt, sdf, mol2). For PDB files, each model is returned as a separate molecule.
func FileRead(name string) ([]*Molecule, error) {
	f, err := OpenRead(name)
	if err != nil {
		return nil, fmt.Errorf("FileRead: %w", err)
	}
	defer f.Close()
	var mols []*Molecule
	switch Format(name) {
	case "pdb":
		mols, err = PDBModelsRead(f)
	case "pdbqt":
		mols, err = PDBQTRead(f)
	case "sdf":
		mols, err = SDFRead(f)
	case "mol2":
		mols, err = MOL2Read(f)
	default:
		return nil, fmt.Errorf("FileRead: format of %s not supported", name)
	}
	return mols, setFile(err, name)
}
