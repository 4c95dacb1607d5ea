package graph

import (
	"slices"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// Graph is a deduplicated node/edge view of a set of triples.
//
// Nodes and edges live in insertion-ordered slices and refer to each other by
// index. A Graph is immutable once Build returns and is safe for concurrent
// reads.
type Graph struct {
	nodes    []Node
	edges    []Edge
	index    map[string]int
	adj      [][]int // edge indices incident to each node
	prefixes rdf.PrefixMap
	triples  int
}

func newGraph(prefixes rdf.PrefixMap) *Graph {
	return &Graph{index: make(map[string]int), prefixes: prefixes}
}

// =============================================================================
// Accessors
// =============================================================================

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TripleCount returns the number of triples the graph was built from.
func (g *Graph) TripleCount() int { return g.triples }

// Prefixes returns the prefix map used for labels.
func (g *Graph) Prefixes() rdf.PrefixMap { return g.prefixes }

// Node looks up a node by its canonical ID.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// NodeAt returns the node at arena index i.
func (g *Graph) NodeAt(i int) *Node { return &g.nodes[i] }

// IndexOf returns the arena index of the node with the given ID, or -1.
func (g *Graph) IndexOf(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// IncidentEdges returns the indices of edges touching node i, in edge order.
func (g *Graph) IncidentEdges(i int) []int { return g.adj[i] }

// Neighbors returns the distinct nodes adjacent to node i ignoring edge
// direction, sorted by index. Self-loops are excluded.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for _, ei := range g.adj[i] {
		e := g.edges[ei]
		other := e.Target
		if other == i {
			other = e.Source
		}
		if other != i {
			out = append(out, other)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Degree returns the number of edge endpoints at node i. A self-loop counts
// twice.
func (g *Graph) Degree(i int) int {
	d := 0
	for _, ei := range g.adj[i] {
		if g.edges[ei].IsLoop() {
			d += 2
		} else {
			d++
		}
	}
	return d
}

// =============================================================================
// Structure
// =============================================================================

// SortedByID returns node indices ordered by node ID.
func (g *Graph) SortedByID() []int {
	idx := make([]int, len(g.nodes))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int { return strings.Compare(g.nodes[a].ID, g.nodes[b].ID) })
	return idx
}

// Components returns the connected components of the undirected view of the
// graph. Each component lists node indices sorted by node ID; components are
// ordered by their smallest node ID.
func (g *Graph) Components() [][]int {
	comp := make([]int, len(g.nodes))
	for i := range comp {
		comp[i] = -1
	}

	var out [][]int
	for _, start := range g.SortedByID() {
		if comp[start] >= 0 {
			continue
		}
		id := len(out)
		members := []int{start}
		comp[start] = id
		for q := 0; q < len(members); q++ {
			for _, nb := range g.Neighbors(members[q]) {
				if comp[nb] < 0 {
					comp[nb] = id
					members = append(members, nb)
				}
			}
		}
		slices.SortFunc(members, func(a, b int) int { return strings.Compare(g.nodes[a].ID, g.nodes[b].ID) })
		out = append(out, members)
	}
	return out
}

// Stats counts nodes by kind along with edges and components.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Edges: len(g.edges)}
	for i := range g.nodes {
		switch g.nodes[i].Kind {
		case KindIRI:
			s.IRIs++
		case KindBlank:
			s.Blanks++
		case KindLiteral:
			s.Literals++
		}
		s.Attributes += len(g.nodes[i].Attributes)
	}
	s.Components = len(g.Components())
	return s
}

// =============================================================================
// Construction
// =============================================================================

// NodeID returns the identity string of a term: the IRI itself, "_:id" for
// blank nodes and the N-Triples form for literals. IRIs that would read as a
// blank label or literal fall back to "<iri>".
func NodeID(t rdf.Term) string {
	if t.Kind == rdf.KindIRI && !strings.HasPrefix(t.Value, "_:") && !strings.HasPrefix(t.Value, `"`) {
		return t.Value
	}
	return t.Key()
}

// addNode returns the index of the node for t, creating it on first use.
func (g *Graph) addNode(t rdf.Term, label string) int {
	key := NodeID(t)
	if i, ok := g.index[key]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{
		Index:    i,
		ID:       key,
		Kind:     kindOf(t),
		Label:    label,
		Value:    t.Value,
		Datatype: t.Datatype,
		Lang:     t.Lang,
	})
	g.index[key] = i
	g.adj = append(g.adj, nil)
	return i
}

func (g *Graph) addEdge(src, dst int, predicate, label string) {
	i := len(g.edges)
	g.edges = append(g.edges, Edge{Index: i, Source: src, Target: dst, Predicate: predicate, Label: label})
	g.adj[src] = append(g.adj[src], i)
	if dst != src {
		g.adj[dst] = append(g.adj[dst], i)
	}
}
