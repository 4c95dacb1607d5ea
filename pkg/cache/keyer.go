package cache

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey identifies a parsed and built graph.
	GraphKey(inputHash string, opts GraphKeyOpts) string
	// LayoutKey identifies a layout of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a payload.
	ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds the options that change the built graph.
type GraphKeyOpts struct {
	Base            string `json:"base,omitempty"`
	Literals        string `json:"literals"`
	DefaultPrefixes bool   `json:"default_prefixes,omitempty"`
	MaxLabelLength  int    `json:"max_label_length,omitempty"`
}

// LayoutKeyOpts holds the options that change positions and groups.
type LayoutKeyOpts struct {
	Iterations      int     `json:"iterations"`
	Seed            uint64  `json:"seed"`
	Repulsion       float64 `json:"repulsion"`
	Attraction      float64 `json:"attraction"`
	IdealEdgeLength float64 `json:"ideal_edge_length"`
	Community       string  `json:"community,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	ThemeHash string `json:"theme,omitempty"`
}

// DefaultKeyer hashes stage options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, payloadHash, opts)
}

var _ Keyer = DefaultKeyer{}
