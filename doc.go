/*
 * doc.go, part of goDock.
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

/*
Package chem is the main package of the goDock library. It provides atom and molecule structures,
facilities for reading and writing the files used in a docking workflow, and some geometric functions.

	**chem Capabilities**

	Reads/writes PDB files, with one frame per model or one molecule per model.

	Reads PDBQT files (AutoDock, Vina), one molecule per model, keeping the REMARK, MODEL
	and TORSDOF records as data fields.

	Reads/writes MDL SDF (V2000) files, including bonds, charges and data fields.

	Reads/writes Tripos MOL2 files, including partial charges.

	All of the above can be gzip or zstd compressed, which is detected from the file name.

	Assigns bonds from interatomic distances.

	Superimposes molecules using the Kabsch algorithm. The user specify what atoms to use
	for the superimposing transformation calculation. Then all the atoms will be
	superimposed accordingly. Thus, non-identical molecules can be superimposed.

	Calculates RMSD between sets of coordinates, centroids and extents.

The coordinates are kept in v3.Matrix objects, which are gonum Dense matrices with 3 columns.
*/
package chem
