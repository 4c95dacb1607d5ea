package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// document is the JSON form of a Graph.
type document struct {
	Prefixes map[string]string `json:"prefixes,omitempty" bson:"prefixes,omitempty"`
	Triples  int               `json:"triples" bson:"triples"`
	Nodes    []Node            `json:"nodes" bson:"nodes"`
	Edges    []Edge            `json:"edges" bson:"edges"`
}

// MarshalGraph converts a graph to JSON bytes.
// Nodes and edges keep insertion order, so the output is deterministic.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Use ReadGraphFile for files or UnmarshalGraph for bytes.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph decodes JSON bytes into a graph.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	out := document{
		Prefixes: g.prefixes,
		Triples:  g.triples,
		Nodes:    g.nodes,
		Edges:    g.edges,
	}
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromDocument(data)
}

// fromDocument rebuilds the index and adjacency of a decoded graph and
// checks that every reference points at an existing node.
func fromDocument(d document) (*Graph, error) {
	g := newGraph(rdf.PrefixMap(d.Prefixes).Clone())
	g.triples = d.Triples
	for i, n := range d.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: empty id", i)
		}
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("node %d: duplicate id %q", i, n.ID)
		}
		n.Index = i
		g.nodes = append(g.nodes, n)
		g.index[n.ID] = i
		g.adj = append(g.adj, nil)
	}
	for i, e := range d.Edges {
		if e.Source < 0 || e.Source >= len(g.nodes) || e.Target < 0 || e.Target >= len(g.nodes) {
			return nil, fmt.Errorf("edge %d: endpoint out of range", i)
		}
		g.addEdge(e.Source, e.Target, e.Predicate, e.Label)
	}
	return g, nil
}
