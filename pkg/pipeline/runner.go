package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/observability"
	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/rdf"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// graphEntry is the cached output of the parse and build stages.
type graphEntry struct {
	Triples  []rdf.Triple    `json:"triples"`
	Prefixes rdf.PrefixMap   `json:"prefixes"`
	Base     string          `json:"base,omitempty"`
	Graph    json.RawMessage `json:"graph"`
	Hash     string          `json:"hash"`
}

// Execute runs the complete parse → build → layout → render pipeline with caching.
//
// Empty input fails with INVALID_INPUT, oversized input with a
// *errors.SizeLimitError of kind "input", and malformed Turtle with the
// parser's *errors.SyntaxError. The size guard runs before layout.
// A canceled context, whether canceled before the call or during layout,
// yields a partial result, which is returned but never cached.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := tserrors.ValidateTurtleInput(text, opts.maxInput()); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1+2: Parse and build
	parseStart := time.Now()
	doc, g, graphHash, hit, err := r.graph(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Graph = g
	result.GraphHash = graphHash
	result.CacheInfo.GraphHit = hit
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Triples = len(doc.Triples)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("parsed turtle",
		"triples", result.Stats.Triples,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit,
		"duration", result.Stats.ParseTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	out, hit, err := r.layout(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = out.Layout
	result.Communities = out.Communities
	result.Payload = Serialize(g, out)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Iterations = out.Layout.Iterations
	result.Stats.Partial = out.Layout.Partial
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"iterations", out.Layout.Iterations,
		"partial", out.Layout.Partial,
		"communities", out.Communities.Count,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, hit, err := r.render(ctx, result.Payload, doc, opts)
	if err != nil {
		return nil, stageError("render", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// graph returns the parsed document, the built graph and its content hash,
// from cache when possible. The hash is the one computed on the cold run, so
// layout keys stay stable across graph cache hits.
func (r *Runner) graph(ctx context.Context, text string, opts Options) (*turtle.Document, *graph.Graph, string, bool, error) {
	key := r.Keyer.GraphKey(cache.Hash([]byte(text)), opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var entry graphEntry
			if err := json.Unmarshal(data, &entry); err == nil && entry.Hash != "" {
				if g, err := graph.UnmarshalGraph(entry.Graph); err == nil {
					observability.Cache().OnCacheHit(ctx, "graph")
					doc := &turtle.Document{Triples: entry.Triples, Prefixes: entry.Prefixes, Base: entry.Base}
					return doc, g, entry.Hash, true, nil
				}
			}
			// undecodable entries fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	doc, err := Parse(ctx, text, opts)
	if err != nil {
		return nil, nil, "", false, err
	}
	g, err := Build(ctx, doc, opts)
	if err != nil {
		return nil, nil, "", false, stageError("build", err)
	}
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, nil, "", false, stageError("build", err)
	}
	graphHash := cache.Hash(graphData)

	entry := graphEntry{Triples: doc.Triples, Prefixes: doc.Prefixes, Base: doc.Base, Graph: graphData, Hash: graphHash}
	if data, err := json.Marshal(entry); err == nil {
		r.set(ctx, "graph", key, data, cache.TTLGraph)
	}
	return doc, g, graphHash, false, nil
}

// layout returns the layout stage output, from cache when possible.
func (r *Runner) layout(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (*LayoutOutput, bool, error) {
	// The guard runs even on a cache hit so limits apply uniformly.
	if err := opts.Guard().Check(g); err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var out LayoutOutput
			if err := json.Unmarshal(data, &out); err == nil && out.Layout != nil &&
				len(out.Layout.Positions) == g.NodeCount() {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &out, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	out, err := Layout(ctx, g, opts)
	if err != nil {
		return nil, false, stageError("layout", err)
	}
	if !out.Layout.Partial {
		if data, err := json.Marshal(out); err == nil {
			r.set(ctx, "layout", key, data, cache.TTLLayout)
		}
	}
	return out, false, nil
}

// render returns all requested artifacts, from cache only when every format hits.
func (r *Runner) render(ctx context.Context, p payload.Payload, doc *turtle.Document, opts Options) (map[string][]byte, bool, error) {
	payloadData, err := payload.Marshal(p)
	if err != nil {
		return nil, false, err
	}
	payloadHash := cache.Hash(payloadData)
	// Turtle output depends on the document, not on the diagram.
	sourceHash := payloadHash
	if doc != nil {
		if h, err := cache.HashJSON(doc); err == nil {
			sourceHash = h
		}
	}
	keyFor := func(format string) string {
		if format == FormatTTL {
			return r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		}
		return r.Keyer.ArtifactKey(payloadHash, opts.ArtifactKeyOpts(format))
	}

	if !opts.Refresh && !p.Partial {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := Render(ctx, p, doc, opts)
	if err != nil {
		return nil, false, err
	}
	if !p.Partial {
		for format, data := range artifacts {
			r.set(ctx, "artifact", keyFor(format), data, cache.TTLArtifact)
		}
	}
	return artifacts, false, nil
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
