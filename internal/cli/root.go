package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/buildinfo"
	"github.com/turtlyscope/turtlyscope/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run loads settings from --config (plus TURTLYSCOPE_*
// environment overrides), raises the log level for --verbose or a debug
// config, and attaches the logger to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "TurtlyScope turns Turtle RDF into interactive node-link diagrams",
		Long: `TurtlyScope parses RDF Turtle, builds a directed graph of its subjects and
objects, computes a deterministic force-directed layout and renders the
result as JSON, SVG, PNG, PDF or Graphviz DOT.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "settings file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Settings = settings

	level := LogInfo
	if c.verbose || settings.Debug {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("settings loaded", "config", c.configPath, "cache", settings.Cache.Backend)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
