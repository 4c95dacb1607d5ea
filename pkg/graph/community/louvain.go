package community

import (
	"maps"
	"math/rand/v2"
	"slices"

	ggraph "gonum.org/v1/gonum/graph"
	gcommunity "gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// resolution is the modularity resolution used for Louvain and for scoring.
const resolution = 1

// louvain partitions v with gonum's multi-level Louvain implementation.
// Node order and tie breaks depend only on src.
func louvain(v *view, src rand.Source) []int {
	if v.m == 0 {
		return identity(v.n)
	}
	reduced := gcommunity.Modularize(v.undirected(), resolution, src)
	assign := make([]int, v.n)
	for c, members := range reduced.Communities() {
		for _, n := range members {
			assign[n.ID()] = c
		}
	}
	return assign
}

// modularity scores a partition with gonum's Q.
func modularity(v *view, assign []int) float64 {
	if v.m == 0 || len(assign) != v.n {
		return 0
	}
	return gcommunity.Q(v.undirected(), groups(assign), resolution)
}

// undirected converts v to a gonum graph whose node IDs are node indices.
func (v *view) undirected() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := 0; i < v.n; i++ {
		ug.AddNode(simple.Node(i))
	}
	for i, adj := range v.adj {
		for _, j := range adj {
			if i < j {
				ug.SetEdge(ug.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}
	return ug
}

// groups turns an assignment into member lists, ordered by community id
// and then by node index.
func groups(assign []int) [][]ggraph.Node {
	byID := make(map[int][]ggraph.Node)
	for i, c := range assign {
		byID[c] = append(byID[c], simple.Node(i))
	}
	out := make([][]ggraph.Node, 0, len(byID))
	for _, c := range slices.Sorted(maps.Keys(byID)) {
		out = append(out, byID[c])
	}
	return out
}
