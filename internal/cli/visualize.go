package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/payload"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a payload.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a payload produced by 'layout'",
		Long: `Render a payload produced by 'layout'.

The payload already holds every position, so this step only draws it:
nodes are pinned where the layout placed them and colored by community.
Turtle output is not available here because the payload does not carry
the source triples; use 'render -f ttl' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string) error {
	p, err := payload.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load payload %s: %w", input, err)
	}
	if p.Partial {
		printWarning("%s holds a partial layout", input)
	}

	artifacts, err := withSpinner(ctx, "Rendering...", func() (map[string][]byte, error) {
		return pipeline.Render(ctx, p, nil, opts)
	})
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	// "data.layout.json" renders to "data.svg".
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     strings.TrimSuffix(input, ".json"),
		output:    output,
	})
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		printSuccess("Visualization complete")
		for _, path := range paths {
			printFile(path)
		}
		printStats(statsLine{nodes: len(p.Nodes), edges: len(p.Edges), partial: p.Partial})
	}
	return nil
}
