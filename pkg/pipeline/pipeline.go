// Package pipeline provides the core visualization pipeline for TurtlyScope.
//
// This package implements the complete parse → build → layout → render
// pipeline used by the CLI and the HTTP server. By centralizing this logic,
// both entry points share validation, defaults, caching and instrumentation.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Turtle text to triples and prefixes ([Parse])
//  2. Build: triples to an arena graph ([Build])
//  3. Layout: positions, routing hints and communities ([Layout])
//  4. Render: payload JSON, DOT, SVG, PNG, PDF or normalized Turtle ([Render])
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, text, pipeline.Options{
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/layout"
	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
	"github.com/turtlyscope/turtlyscope/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxInputBytes bounds the Turtle text accepted by Execute.
	DefaultMaxInputBytes = 250_000

	// DefaultMaxNodes and DefaultMaxEdges guard the quadratic layout.
	DefaultMaxNodes = 5000
	DefaultMaxEdges = 20000

	// DefaultCommunity is the clustering used for node groups.
	DefaultCommunity = community.Louvain
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatTTL  = "ttl"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatTTL}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
//
// Zero numeric fields take their defaults. A negative MaxNodes, MaxEdges or
// MaxInputBytes disables that guard.
type Options struct {
	// Parse options
	Base          string `json:"base,omitempty"`
	MaxInputBytes int    `json:"max_input_bytes,omitempty"`

	// Build options
	Literals        graph.LiteralMode `json:"literals,omitempty"`
	DefaultPrefixes bool              `json:"default_prefixes,omitempty"`
	MaxLabelLength  int               `json:"max_label_length,omitempty"`

	// Layout options
	Community       community.Algorithm `json:"community,omitempty"`
	Iterations      int                 `json:"iterations,omitempty"`
	Seed            uint64              `json:"seed,omitempty"`
	Repulsion       float64             `json:"repulsion,omitempty"`
	Attraction      float64             `json:"attraction,omitempty"`
	IdealEdgeLength float64             `json:"ideal_edge_length,omitempty"`
	MaxNodes        int                 `json:"max_nodes,omitempty"`
	MaxEdges        int                 `json:"max_edges,omitempty"`

	// Render options
	Formats []string     `json:"formats,omitempty"`
	Theme   render.Theme `json:"theme"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the parsed triples and prefixes.
	Document *turtle.Document

	// Graph is the built graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Layout and Communities are the layout stage outputs.
	Layout      *layout.Result
	Communities community.Result

	// Payload is the serialized diagram.
	Payload payload.Payload

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Triples    int
	NodeCount  int
	EdgeCount  int
	Iterations int
	Partial    bool
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // parse and build came from cache
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return tserrors.New(tserrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.MaxInputBytes == 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxEdges == 0 {
		o.MaxEdges = DefaultMaxEdges
	}

	mode, err := graph.ParseLiteralMode(string(o.Literals))
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidOption, err, "literals")
	}
	o.Literals = mode
	if o.MaxLabelLength < 0 {
		return tserrors.New(tserrors.ErrCodeInvalidOption, "max_label_length must not be negative")
	}

	if o.Community == "" {
		o.Community = DefaultCommunity
	}
	if _, err := community.ParseAlgorithm(string(o.Community)); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidOption, err, "community")
	}

	d := layout.DefaultConfig()
	if o.Iterations == 0 {
		o.Iterations = d.Iterations
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	if o.Repulsion == 0 {
		o.Repulsion = d.Repulsion
	}
	if o.Attraction == 0 {
		o.Attraction = d.Attraction
	}
	if o.IdealEdgeLength == 0 {
		o.IdealEdgeLength = d.IdealEdgeLength
	}
	if err := o.LayoutConfig().Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Theme = o.Theme.WithDefaults()

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// BuildOptions returns the graph builder options.
func (o *Options) BuildOptions() graph.Options {
	return graph.Options{
		Literals:        o.Literals,
		DefaultPrefixes: o.DefaultPrefixes,
		MaxLabelLength:  o.MaxLabelLength,
	}
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Iterations:      o.Iterations,
		Seed:            o.Seed,
		Repulsion:       o.Repulsion,
		Attraction:      o.Attraction,
		IdealEdgeLength: o.IdealEdgeLength,
	}
}

// Guard returns the graph size guard. Negative limits become unlimited.
func (o *Options) Guard() layout.Guard {
	return layout.Guard{MaxNodes: max(o.MaxNodes, 0), MaxEdges: max(o.MaxEdges, 0)}
}

// GraphKeyOpts returns cache key options for the parse and build stages.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Base:            o.Base,
		Literals:        string(o.Literals),
		DefaultPrefixes: o.DefaultPrefixes,
		MaxLabelLength:  o.MaxLabelLength,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Iterations:      o.Iterations,
		Seed:            o.Seed,
		Repulsion:       o.Repulsion,
		Attraction:      o.Attraction,
		IdealEdgeLength: o.IdealEdgeLength,
		Community:       string(o.Community),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format != FormatJSON && format != FormatTTL {
		opts.ThemeHash, _ = cache.HashJSON(o.Theme)
	}
	return opts
}

// maxInput returns the input byte limit for ValidateTurtleInput.
func (o *Options) maxInput() int {
	return max(o.MaxInputBytes, 0)
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
