package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/graph"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
	"github.com/turtlyscope/turtlyscope/pkg/rdf/turtle"
)

const (
	parseFormatGraph = "graph"
	parseFormatTTL   = "ttl"
)

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "parse <file.ttl|->",
		Short: "Parse Turtle and write the resulting graph",
		Long: `Parse a Turtle document and build its graph.

The default output is a graph.json document holding nodes, edges and the
prefixes in scope. With --format ttl the triples are written back as
normalized Turtle instead, which is handy for checking what the parser saw.

Syntax errors are reported with their line and column.`,
		Example: `  turtlyscope parse data.ttl -o data.graph.json
  cat data.ttl | turtlyscope parse - --format ttl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != parseFormatGraph && format != parseFormatTTL {
				return fmt.Errorf("invalid format: %s (must be 'graph' or 'ttl')", format)
			}
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			return c.runParse(cmd.Context(), args[0], opts, format, output)
		},
	}

	flags.registerBuild(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", parseFormatGraph, "output format: graph, ttl")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input string, opts pipeline.Options, format, output string) error {
	logger := loggerFromContext(ctx)

	text, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	prog := newProgress(logger)
	doc, err := pipeline.Parse(ctx, text, opts)
	if err != nil {
		return err
	}
	g, err := pipeline.Build(ctx, doc, opts)
	if err != nil {
		return err
	}
	prog.done("Parsed turtle", "triples", len(doc.Triples), "nodes", g.NodeCount(), "edges", g.EdgeCount())

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case parseFormatTTL:
		err = turtle.Write(out, doc.Triples, doc.Prefixes)
	default:
		err = graph.WriteGraph(g, out)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" && output != "-" {
		printSuccess("Parse complete")
		printFile(output)
		printStats(statsLine{triples: len(doc.Triples), nodes: g.NodeCount(), edges: g.EdgeCount()})
		if format == parseFormatGraph {
			printNewline()
			printNextStep("Lay out", "turtlyscope layout "+input)
		}
	}
	return nil
}
