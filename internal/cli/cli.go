// Package cli implements the turtlyscope command-line interface.
//
// Commands:
//   - parse: Parse Turtle into a graph document (or normalized Turtle)
//   - layout: Compute the node-link payload for a Turtle file
//   - visualize: Render a payload produced by layout
//   - render: Parse, lay out and render in one step
//   - inspect: Browse nodes interactively in the terminal
//   - serve: Run the HTTP API
//   - cache: Inspect or clear the local result cache
//
// Every command accepts --config to load a TOML or YAML settings file and
// --verbose for debug logging. The logger travels in the command context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
	"github.com/turtlyscope/turtlyscope/pkg/config"
	"github.com/turtlyscope/turtlyscope/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "turtlyscope"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger   *log.Logger
	Settings config.Settings

	configPath string
	verbose    bool
}

// New creates a CLI with default settings and a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// A cache that cannot be opened degrades to no caching with a warning.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.openCache(ctx, noCache), nil, c.Logger)
}

func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, c.Settings.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Settings.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return cc
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns the configured defaults for a pipeline run.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := c.Settings.PipelineOptions()
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Input / Output
// =============================================================================

// readInput reads a Turtle file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for "" or "-", otherwise creates the file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
