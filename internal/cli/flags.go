package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// optionFlags holds pipeline flags. Only flags set on the command line
// override the loaded settings.
type optionFlags struct {
	base            string
	literals        string
	defaultPrefixes bool
	maxLabelLength  int

	community       string
	iterations      int
	seed            uint64
	repulsion       float64
	attraction      float64
	idealEdgeLength float64
	maxNodes        int
	maxEdges        int

	refresh bool
	noCache bool
}

func (f *optionFlags) registerBuild(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.base, "base", "", "base IRI for relative references")
	fs.StringVar(&f.literals, "literals", "", "literal handling: nodes (default), inline, hidden")
	fs.BoolVar(&f.defaultPrefixes, "default-prefixes", false, "compact labels with well-known prefixes (rdf, rdfs, xsd, ...)")
	fs.IntVar(&f.maxLabelLength, "max-label-length", 0, "truncate literal labels to this many characters (0 = no limit)")
}

func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.community, "community", "", "community detection: leiden, louvain (default), label_propagation, greedy_modularity, none")
	fs.IntVar(&f.iterations, "iterations", 0, "force simulation iterations (default 300)")
	fs.Uint64Var(&f.seed, "seed", 0, "layout seed (default 42)")
	fs.Float64Var(&f.repulsion, "repulsion", 0, "repulsion strength multiplier")
	fs.Float64Var(&f.attraction, "attraction", 0, "attraction strength multiplier")
	fs.Float64Var(&f.idealEdgeLength, "edge-length", 0, "ideal edge length")
	fs.IntVar(&f.maxNodes, "max-nodes", 0, "refuse graphs with more nodes (-1 = unlimited)")
	fs.IntVar(&f.maxEdges, "max-edges", 0, "refuse graphs with more edges (-1 = unlimited)")
}

func (f *optionFlags) registerCache(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply copies the flags the user set onto opts.
func (f *optionFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("base") {
		opts.Base = f.base
	}
	if changed("literals") {
		opts.Literals = graph.LiteralMode(f.literals)
	}
	if changed("default-prefixes") {
		opts.DefaultPrefixes = f.defaultPrefixes
	}
	if changed("max-label-length") {
		opts.MaxLabelLength = f.maxLabelLength
	}
	if changed("community") {
		opts.Community = community.Algorithm(f.community)
	}
	if changed("iterations") {
		opts.Iterations = f.iterations
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("repulsion") {
		opts.Repulsion = f.repulsion
	}
	if changed("attraction") {
		opts.Attraction = f.attraction
	}
	if changed("edge-length") {
		opts.IdealEdgeLength = f.idealEdgeLength
	}
	if changed("max-nodes") {
		opts.MaxNodes = f.maxNodes
	}
	if changed("max-edges") {
		opts.MaxEdges = f.maxEdges
	}
	opts.Refresh = f.refresh
}
