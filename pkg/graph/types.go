package graph

import (
	"fmt"

	"github.com/turtlyscope/turtlyscope/pkg/rdf"
)

// =============================================================================
// Node Kinds
// =============================================================================

// NodeKind is the RDF term kind a node was built from.
type NodeKind int

const (
	KindIRI NodeKind = iota
	KindBlank
	KindLiteral
)

// String returns the wire name: "iri", "blank" or "literal".
func (k NodeKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by its wire name.
func (k NodeKind) MarshalText() ([]byte, error) {
	if k < KindIRI || k > KindLiteral {
		return nil, fmt.Errorf("invalid node kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name.
func (k *NodeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "iri":
		*k = KindIRI
	case "blank":
		*k = KindBlank
	case "literal":
		*k = KindLiteral
	default:
		return fmt.Errorf("unknown node kind %q", b)
	}
	return nil
}

func kindOf(t rdf.Term) NodeKind {
	switch t.Kind {
	case rdf.KindBlank:
		return KindBlank
	case rdf.KindLiteral:
		return KindLiteral
	default:
		return KindIRI
	}
}

// =============================================================================
// Node - Arena Record
// =============================================================================

// Node is one distinct RDF term in a Graph. Nodes refer to each other only
// through Edge indices, never by pointer.
type Node struct {
	Index int      `json:"index" bson:"index"`
	ID    string   `json:"id" bson:"id"` // see NodeID
	Kind  NodeKind `json:"kind" bson:"kind"`
	Label string   `json:"label" bson:"label"`

	// Value is the full IRI, the blank node id, or the literal lexical form.
	Value    string `json:"value" bson:"value"`
	Datatype string `json:"datatype,omitempty" bson:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty" bson:"lang,omitempty"`

	// Attributes holds literal-valued properties when literals are inlined.
	Attributes []Attribute `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Term reconstructs the RDF term the node stands for.
func (n *Node) Term() rdf.Term {
	switch n.Kind {
	case KindBlank:
		return rdf.NewBlank(n.Value)
	case KindLiteral:
		return rdf.Term{Kind: rdf.KindLiteral, Value: n.Value, Datatype: n.Datatype, Lang: n.Lang}
	default:
		return rdf.NewIRI(n.Value)
	}
}

// Attribute is a literal-valued property folded into its subject node.
type Attribute struct {
	Predicate string `json:"predicate" bson:"predicate"`
	Label     string `json:"label" bson:"label"` // compact predicate label
	Value     string `json:"value" bson:"value"` // formatted literal label
}

// =============================================================================
// Edge - One Triple
// =============================================================================

// Edge is a directed, predicate-labeled connection between two nodes.
// Source and Target are arena indices into the graph's node slice.
type Edge struct {
	Index     int    `json:"index" bson:"index"`
	Source    int    `json:"source" bson:"source"`
	Target    int    `json:"target" bson:"target"`
	Predicate string `json:"predicate" bson:"predicate"` // full predicate IRI
	Label     string `json:"label" bson:"label"`
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Stats summarizes a graph.
type Stats struct {
	Nodes      int `json:"nodes" bson:"nodes"`
	Edges      int `json:"edges" bson:"edges"`
	IRIs       int `json:"iris" bson:"iris"`
	Blanks     int `json:"blanks" bson:"blanks"`
	Literals   int `json:"literals" bson:"literals"`
	Attributes int `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Components int `json:"components" bson:"components"`
}
