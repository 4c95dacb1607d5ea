package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/internal/server"
	"github.com/turtlyscope/turtlyscope/pkg/observability"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualize API over HTTP",
		Long: `Serve the visualize API over HTTP.

POST Turtle to /api/visualize as the form field "turtle" or as a text/turtle
body. The response is the JSON payload unless format asks for svg, png, pdf,
dot or ttl. /health reports liveness and /metrics exposes Prometheus metrics.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  turtlyscope serve --addr :8000
  curl -F turtle=@data.ttl -F format=svg localhost:8000/api/visualize > data.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Settings.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8000)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics and metric collection")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache, metrics bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	var opts []server.Option
	if metrics {
		prom := observability.NewPrometheus(appName)
		prom.Install()
		defer observability.Reset()
		opts = append(opts, server.WithMetrics(prom.Handler()))
	}

	printInfo("Serving %s on %s", c.Settings.AppName, c.Settings.Server.Addr)
	return server.New(runner, c.Settings, c.Logger, opts...).ListenAndServe(ctx)
}
