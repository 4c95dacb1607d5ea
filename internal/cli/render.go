package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// renderCommand creates the render command, the one-step path from Turtle
// to output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      optionFlags
		formatsStr string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "render <file.ttl|->",
		Short: "Render a Turtle file to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a Turtle file in one step.

Runs parse, layout and render. Several formats can be requested at once
with a comma-separated --format; each is written next to the input (or to
the --output base path) with its own extension. PDF output needs
rsvg-convert on PATH.`,
		Example: `  turtlyscope render data.ttl
  turtlyscope render data.ttl -f svg,png,json -o out/data
  turtlyscope render data.ttl -f dot -o - | dot -Tpdf > data.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(cmd, &opts)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.registerBuild(cmd)
	flags.registerLayout(cmd)
	flags.registerCache(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json, ttl (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	text, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	res, err := withSpinner(ctx, "Rendering...", func() (*pipeline.Result, error) {
		return runner.Execute(ctx, text, opts)
	})
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	if res.Stats.Partial {
		printWarning("Layout stopped after %d iterations; output is partial", res.Stats.Iterations)
	} else {
		printSuccess("Render complete")
	}
	for _, p := range paths {
		printFile(p)
	}
	printStats(statsFromResult(res))
	return nil
}

// =============================================================================
// Artifact output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format and returns the paths written.
// A single format with output "-" (or stdin input and no output) goes to
// stdout, in which case no paths are returned.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	toStdout := p.output == "-" || (p.output == "" && p.input == "-")
	if toStdout {
		if len(p.formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
		}
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range p.formats {
		path := artifactPath(p.output, p.input, format, len(p.formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, err
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath picks the file for one format. A single-format output path
// is used verbatim; otherwise the output (or input) minus any known format
// extension is the base.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + extensionFor(format)
}

// basePath strips a format extension from output, or the extension from
// input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// extensionFor keeps payloads distinct from graph documents and keeps
// rendered Turtle from overwriting its input.
func extensionFor(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return ".layout.json"
	case pipeline.FormatTTL:
		return ".normalized.ttl"
	}
	return "." + format
}
