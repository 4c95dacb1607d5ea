// Package payload converts a graph and its layout into the wire format
// consumed by diagram front-ends.
//
// [Serialize] is total and pure: any graph combined with any layout yields a
// payload, and the same inputs always yield the same bytes from [Marshal].
//
//	{
//	  "nodes": [{"id": "...", "label": "ex:alice", "kind": "iri", "x": 0, "y": 0, "title": "..."}],
//	  "edges": [{"source": "...", "target": "...", "source_index": 0, "target_index": 1,
//	             "label": "ex:knows", "predicate": "...", "routing": "straight", "curvature": 0}],
//	  "partial": false,
//	  "bounds": {...},
//	  "stats": {...}
//	}
package payload

import (
	"fmt"
	"strings"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/layout"
)

// =============================================================================
// Wire Types
// =============================================================================

// Payload is the complete diagram description.
type Payload struct {
	Nodes       []Node        `json:"nodes" bson:"nodes"`
	Edges       []Edge        `json:"edges" bson:"edges"`
	Partial     bool          `json:"partial" bson:"partial"`
	Bounds      layout.Bounds `json:"bounds" bson:"bounds"`
	Communities *Communities  `json:"communities,omitempty" bson:"communities,omitempty"`
	Stats       Stats         `json:"stats" bson:"stats"`
}

// Node is a positioned node descriptor.
type Node struct {
	ID         string            `json:"id" bson:"id"`
	Label      string            `json:"label" bson:"label"`
	Kind       string            `json:"kind" bson:"kind"` // "iri", "blank" or "literal"
	X          float64           `json:"x" bson:"x"`
	Y          float64           `json:"y" bson:"y"`
	Group      string            `json:"group,omitempty" bson:"group,omitempty"`
	Attributes []graph.Attribute `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Title      string            `json:"title" bson:"title"` // tooltip text
}

// Edge is an edge descriptor. Source and Target repeat the node IDs so that
// consumers need not resolve indices.
type Edge struct {
	Source      string  `json:"source" bson:"source"`
	Target      string  `json:"target" bson:"target"`
	SourceIndex int     `json:"source_index" bson:"source_index"`
	TargetIndex int     `json:"target_index" bson:"target_index"`
	Label       string  `json:"label" bson:"label"`
	Predicate   string  `json:"predicate" bson:"predicate"`
	Routing     string  `json:"routing" bson:"routing"`
	Curvature   float64 `json:"curvature" bson:"curvature"`
}

// Communities summarizes the clustering used for node groups.
type Communities struct {
	Algorithm  string  `json:"algorithm" bson:"algorithm"`
	Used       string  `json:"used" bson:"used"`
	Count      int     `json:"count" bson:"count"`
	Modularity float64 `json:"modularity" bson:"modularity"`
}

// Stats describes the payload contents.
type Stats struct {
	Triples    int `json:"triples" bson:"triples"`
	Nodes      int `json:"nodes" bson:"nodes"`
	Edges      int `json:"edges" bson:"edges"`
	IRIs       int `json:"iris" bson:"iris"`
	Blanks     int `json:"blanks" bson:"blanks"`
	Literals   int `json:"literals" bson:"literals"`
	Components int `json:"components" bson:"components"`
	Iterations int `json:"iterations" bson:"iterations"`
}

// =============================================================================
// Serialize
// =============================================================================

// Option customizes Serialize.
type Option func(*options)

type options struct {
	communities *community.Result
}

// WithCommunities assigns each node the group "C<n>" of its community and
// adds the clustering summary. A result that ran no algorithm is ignored.
func WithCommunities(r community.Result) Option {
	return func(o *options) {
		if len(r.Assignment) > 0 {
			o.communities = &r
		}
	}
}

// Serialize maps a graph and its layout to a Payload. Nodes and edges keep
// graph order. A nil or mismatched layout places every node at the origin
// and draws every edge straight.
func Serialize(g *graph.Graph, l *layout.Result, opts ...Option) Payload {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	comm := o.communities
	if comm != nil && len(comm.Assignment) != g.NodeCount() {
		comm = nil
	}

	p := Payload{
		Nodes: make([]Node, g.NodeCount()),
		Edges: make([]Edge, g.EdgeCount()),
	}

	hasPos := l != nil && len(l.Positions) == g.NodeCount()
	for i, n := range g.Nodes() {
		node := Node{
			ID:         n.ID,
			Label:      n.Label,
			Kind:       n.Kind.String(),
			Attributes: n.Attributes,
		}
		if hasPos {
			node.X, node.Y = l.Positions[i].X, l.Positions[i].Y
		}
		group := -1
		if comm != nil {
			group = comm.Assignment[i]
			node.Group = GroupName(group)
		}
		node.Title = Title(&n, group)
		p.Nodes[i] = node
	}

	hasRoutes := l != nil && len(l.Routes) == g.EdgeCount()
	for i, e := range g.Edges() {
		edge := Edge{
			Source:      g.NodeAt(e.Source).ID,
			Target:      g.NodeAt(e.Target).ID,
			SourceIndex: e.Source,
			TargetIndex: e.Target,
			Label:       e.Label,
			Predicate:   e.Predicate,
			Routing:     string(layout.Straight),
		}
		if hasRoutes {
			edge.Routing = string(l.Routes[i].Hint)
			edge.Curvature = l.Routes[i].Curvature
		}
		p.Edges[i] = edge
	}

	gs := g.Stats()
	p.Stats = Stats{
		Triples:    g.TripleCount(),
		Nodes:      gs.Nodes,
		Edges:      gs.Edges,
		IRIs:       gs.IRIs,
		Blanks:     gs.Blanks,
		Literals:   gs.Literals,
		Components: gs.Components,
	}
	if l != nil {
		p.Partial = l.Partial
		p.Bounds = l.Bounds
		p.Stats.Iterations = l.Iterations
	}
	if comm != nil {
		p.Communities = &Communities{
			Algorithm:  string(comm.Algorithm),
			Used:       comm.Used,
			Count:      comm.Count,
			Modularity: comm.Modularity,
		}
	}
	return p
}

// GroupName returns the group label of community c.
func GroupName(c int) string { return fmt.Sprintf("C%d", c) }

// Title builds the tooltip text for a node. A negative community is omitted.
func Title(n *graph.Node, community int) string {
	var b strings.Builder
	switch n.Kind {
	case graph.KindLiteral:
		b.WriteString("Literal\nvalue=")
		b.WriteString(n.Value)
		b.WriteString("\ndatatype=")
		b.WriteString(orNone(n.Datatype))
		b.WriteString("\nlang=")
		b.WriteString(orNone(n.Lang))
	case graph.KindBlank:
		b.WriteString("BNode\n_:")
		b.WriteString(n.Value)
	default:
		b.WriteString("IRI\n")
		b.WriteString(n.Value)
	}
	for _, a := range n.Attributes {
		b.WriteString("\n")
		b.WriteString(a.Label)
		b.WriteString(" = ")
		b.WriteString(a.Value)
	}
	if community >= 0 {
		b.WriteString("\ncommunity=")
		b.WriteString(GroupName(community))
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
