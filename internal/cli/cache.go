package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtlyscope/turtlyscope/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the local result cache.

Parsed graphs, layouts and rendered artifacts are cached under the cache
directory (see 'cache path'). These commands act on the file backend; redis
and mongo entries expire on their own.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheDir returns the file cache directory from settings.
func (c *CLI) cacheDir() string {
	if c.Settings.Cache.Dir != "" {
		return c.Settings.Cache.Dir
	}
	return cache.DefaultDir()
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cacheDir()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheDir())
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend, size and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			printKeyValue("Backend", c.Settings.Cache.Backend)
			dir := c.cacheDir()
			printKeyValue("Directory", dir)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printKeyValue("Entries", "0")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			entries, size, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			printKeyValue("Entries", fmt.Sprint(entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
