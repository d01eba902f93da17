/*
 * graph.go, part of goDock.
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

package mcs

import (
	"sort"

	chem "github.com/rmera/godock"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// molGraph is the molecular graph of a molecule. Node IDs are atom indexes,
// edge weights are bond orders.
type molGraph struct {
	*simple.WeightedUndirectedGraph
	symbols []string        //by atom index
	adj     [][]int         //sorted neighbors, by atom index
	nodes   []int           //atom indexes in the graph, sorted
	maxComp int             //size of the largest connected component
	rings   map[[2]int]bool //bonds that belong to a ring, keyed with the smaller index first
}

// newMolGraph builds the graph for mol. If heavy is true, hydrogens are left out.
func newMolGraph(mol chem.Atomer, heavy bool) *molGraph {
	g := &molGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, -1),
		symbols:                 make([]string, mol.Len()),
		adj:                     make([][]int, mol.Len()),
	}
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		g.symbols[i] = at.Symbol
		if heavy && at.Symbol == "H" {
			continue
		}
		g.AddNode(simple.Node(i))
		g.nodes = append(g.nodes, i)
	}
	//the atom indexes might not be filled, so we don't rely on them.
	index := make(map[*chem.Atom]int, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		index[mol.Atom(i)] = i
	}
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		if g.Node(int64(i)) == nil {
			continue
		}
		for _, b := range at.Bonds {
			j, ok := index[b.Cross(at)]
			if !ok || j == i || g.Node(int64(j)) == nil {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: b.Order})
		}
	}
	for _, i := range g.nodes {
		for _, n := range graph.NodesOf(g.From(int64(i))) {
			g.adj[i] = append(g.adj[i], int(n.ID()))
		}
		sort.Ints(g.adj[i])
	}
	for _, c := range topo.ConnectedComponents(g) {
		g.maxComp = max(g.maxComp, len(c))
	}
	g.rings = make(map[[2]int]bool)
	for _, i := range g.nodes {
		for _, j := range g.adj[i] {
			if j > i && g.cyclic(i, j) {
				g.rings[[2]int{i, j}] = true
			}
		}
	}
	return g
}

// cyclic returns true if j can still be reached from i once the bond between them is removed.
func (g *molGraph) cyclic(i, j int) bool {
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			f, t := int(e.From().ID()), int(e.To().ID())
			return !(f == i && t == j) && !(f == j && t == i)
		},
	}
	found := bf.Walk(g, simple.Node(i), func(n graph.Node, _ int) bool {
		return int(n.ID()) == j
	})
	return found != nil
}

// inRing returns true if the bond between the atoms i and j is part of a ring.
func (g *molGraph) inRing(i, j int) bool {
	return g.rings[[2]int{min(i, j), max(i, j)}]
}

// order returns the order of the bond between the atoms i and j, and whether the bond exists.
func (g *molGraph) order(i, j int) (float64, bool) {
	return g.Weight(int64(i), int64(j))
}
