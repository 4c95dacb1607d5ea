package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <file.ttl|->",
		Short: "Compute the node-link payload for a Turtle file",
		Long: `Compute the node-link payload for a Turtle file.

The payload is the JSON document the web viewer consumes: positioned nodes
with hover titles and community groups, edges with their routing, bounds and
statistics. Render it later with 'turtlyscope visualize'.

Results are cached; --refresh recomputes, --no-cache skips the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.registerBuild(cmd)
	flags.registerLayout(cmd)
	flags.registerCache(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, stdout for -)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	text, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	res, err := withSpinner(ctx, "Computing layout...", func() (*pipeline.Result, error) {
		return runner.Execute(ctx, text, opts)
	})
	if err != nil {
		return err
	}

	if output == "" {
		output = derivedPath(input, ".layout.json")
	}
	if output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[pipeline.FormatJSON])
		return err
	}
	if err := os.WriteFile(output, res.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	if res.Stats.Partial {
		printWarning("Layout stopped after %d iterations", res.Stats.Iterations)
	} else {
		printSuccess("Layout complete")
	}
	printFile(output)
	printStats(statsFromResult(res))
	printNewline()
	printNextStep("Render", "turtlyscope visualize "+output)
	return nil
}

// derivedPath replaces the input extension with suffix. Stdin maps to "-".
func derivedPath(input, suffix string) string {
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
