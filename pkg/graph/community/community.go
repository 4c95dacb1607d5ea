// Package community groups graph nodes into clusters for coloring.
//
// Detection runs on the undirected simple view of a graph: edge direction is
// ignored, self-loops are dropped and parallel edges count once. Every
// algorithm is deterministic for a given seed, and community ids are
// renumbered so that community 0 holds the node with the smallest ID.
package community

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
)

// Algorithm names a community detection method.
type Algorithm string

const (
	Louvain          Algorithm = "louvain"
	Leiden           Algorithm = "leiden"
	LabelPropagation Algorithm = "label_propagation"
	GreedyModularity Algorithm = "greedy_modularity"
	None             Algorithm = "none"
)

// Algorithms lists the accepted algorithm names.
var Algorithms = []Algorithm{Leiden, Louvain, LabelPropagation, GreedyModularity, None}

// ParseAlgorithm validates an algorithm name. The empty string selects None.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return None, nil
	}
	if slices.Contains(Algorithms, a) {
		return a, nil
	}
	return "", fmt.Errorf("unknown community algorithm %q", s)
}

// Result is a node partition.
type Result struct {
	// Algorithm is the method that was requested.
	Algorithm Algorithm `json:"algorithm" bson:"algorithm"`
	// Used is the method that actually ran, e.g. "louvain (fallback)".
	Used string `json:"used" bson:"used"`
	// Assignment maps node index to community id. Nil when Used is "none".
	Assignment []int   `json:"assignment,omitempty" bson:"assignment,omitempty"`
	Count      int     `json:"count" bson:"count"`
	Modularity float64 `json:"modularity" bson:"modularity"`
}

// Members returns the node indices of each community in index order.
func (r *Result) Members() [][]int {
	if r == nil || r.Count == 0 {
		return nil
	}
	out := make([][]int, r.Count)
	for i, c := range r.Assignment {
		out[c] = append(out[c], i)
	}
	return out
}

// Detect partitions g with the requested algorithm.
//
// Leiden is served by Louvain and reported as "louvain (fallback)".
// Unknown algorithms behave like None.
func Detect(g *graph.Graph, algo Algorithm, seed uint64) Result {
	v := newView(g)
	src := rand.NewPCG(seed, seed^0xdeadbeef)
	rng := rand.New(src)

	var assign []int
	used := string(algo)
	switch algo {
	case Louvain:
		assign = louvain(v, src)
	case Leiden:
		assign = louvain(v, src)
		used = string(Louvain) + " (fallback)"
	case LabelPropagation:
		assign = labelPropagation(v, rng)
	case GreedyModularity:
		assign = greedyModularity(v)
	default:
		return Result{Algorithm: algo, Used: string(None)}
	}

	assign, count := renumber(g, assign)
	return Result{
		Algorithm:  algo,
		Used:       used,
		Assignment: assign,
		Count:      count,
		Modularity: modularity(v, assign),
	}
}

// Modularity returns the Newman modularity of a partition of g.
// It is 0 for graphs without edges.
func Modularity(g *graph.Graph, assignment []int) float64 {
	return modularity(newView(g), assignment)
}

// =============================================================================
// Undirected simple view
// =============================================================================

// view is the unweighted, undirected simple graph used by every algorithm.
type view struct {
	n   int
	adj [][]int // sorted, distinct, no self
	deg []float64
	m   float64 // number of undirected edges
}

func newView(g *graph.Graph) *view {
	n := g.NodeCount()
	v := &view{n: n, adj: make([][]int, n), deg: make([]float64, n)}
	for i := 0; i < n; i++ {
		v.adj[i] = g.Neighbors(i)
		v.deg[i] = float64(len(v.adj[i]))
		v.m += v.deg[i]
	}
	v.m /= 2
	return v
}

// renumber relabels communities 0..k-1 ordered by their smallest member ID.
func renumber(g *graph.Graph, assign []int) ([]int, int) {
	next := map[int]int{}
	out := make([]int, len(assign))
	for _, i := range g.SortedByID() {
		c := assign[i]
		id, ok := next[c]
		if !ok {
			id = len(next)
			next[c] = id
		}
		out[i] = id
	}
	return out, len(next)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
