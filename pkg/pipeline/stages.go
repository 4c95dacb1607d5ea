package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/graph/community"
	"github.com/turtlyscope/turtlyscope/pkg/layout"
	"github.com/turtlyscope/turtlyscope/pkg/observability"
	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
	"github.com/turtlyscope/turtlyscope/pkg/render"
)

// Parse validates and parses Turtle text. Syntax errors are returned
// unwrapped so callers can read their position with errors.As.
func Parse(ctx context.Context, text string, opts Options) (*turtle.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := tserrors.ValidateTurtleInput(text, opts.maxInput()); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(text))
	start := time.Now()

	var popts []turtle.Option
	if opts.Base != "" {
		popts = append(popts, turtle.WithBase(opts.Base))
	}
	doc, err := turtle.Parse(text, popts...)

	triples := 0
	if doc != nil {
		triples = len(doc.Triples)
	}
	hooks.OnParseComplete(ctx, triples, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("parsed turtle", "triples", triples, "prefixes", len(doc.Prefixes))
	return doc, nil
}

// Build turns a parsed document into a graph.
func Build(ctx context.Context, doc *turtle.Document, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	g := graph.Build(doc.Triples, doc.Prefixes, opts.BuildOptions())
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start))
	opts.Logger.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "literals", opts.Literals)
	return g, nil
}

// LayoutOutput is the result of the layout stage.
type LayoutOutput struct {
	Layout      *layout.Result   `json:"layout"`
	Communities community.Result `json:"communities"`
}

// Layout checks the size guard, then computes positions and communities.
// Cancellation yields a partial layout rather than an error.
func Layout(ctx context.Context, g *graph.Graph, opts Options) (*LayoutOutput, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := opts.Guard().Check(g); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()

	l := layout.Compute(ctx, g, opts.LayoutConfig())
	comm := community.Detect(g, opts.Community, opts.Seed)

	hooks.OnLayoutComplete(ctx, l.Iterations, l.Partial, time.Since(start), nil)
	if l.Partial {
		opts.Logger.Warn("layout canceled, returning partial positions",
			"iterations", l.Iterations, "budget", opts.Iterations)
	}
	return &LayoutOutput{Layout: l, Communities: comm}, nil
}

// Serialize builds the payload for a graph and its layout stage output.
func Serialize(g *graph.Graph, out *LayoutOutput) payload.Payload {
	if out == nil {
		return payload.Serialize(g, nil)
	}
	return payload.Serialize(g, out.Layout, payload.WithCommunities(out.Communities))
}

// Render generates output artifacts in the requested formats. The Turtle
// format needs doc; the others need only the payload.
func Render(ctx context.Context, p payload.Payload, doc *turtle.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, p, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormats(ctx context.Context, p payload.Payload, doc *turtle.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needDOT := func() string {
		if dot == "" {
			dot = render.ToDOT(p, opts.Theme)
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = payload.Marshal(p)
		case FormatDOT:
			data = []byte(needDOT())
		case FormatSVG:
			data, err = render.RenderSVG(ctx, needDOT())
		case FormatPNG:
			data, err = render.RenderPNG(ctx, needDOT())
		case FormatPDF:
			data, err = render.RenderPDF(ctx, needDOT())
		case FormatTTL:
			if doc == nil {
				return nil, tserrors.New(tserrors.ErrCodeUnsupported, "ttl output needs the parsed document")
			}
			var buf bytes.Buffer
			err = turtle.Write(&buf, doc.Triples, doc.Prefixes)
			data = buf.Bytes()
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
