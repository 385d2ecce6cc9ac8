package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the local result cache.

Resolved layouts and rendered reference graphs are cached under
$XDG_CACHE_HOME/keygrid (default ~/.cache/keygrid), keyed by the layout
content and the resolve options. A redis cache selected with --redis-url
expires on its own and is not managed here.`,
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openFileCache opens the local cache, or returns nil if it does not exist.
func openFileCache() (*cache.FileCache, string, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, "", fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, dir, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, dir, err
	}
	return fc, dir, nil
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := openFileCache()
			if err != nil {
				return err
			}
			var stats cache.Stats
			if fc != nil {
				if stats, err = fc.Stats(); err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
			}
			printKeyValue("Directory", dir)
			printKeyValue("Entries", fmt.Sprint(stats.Entries))
			printKeyValue("Size", formatBytes(stats.Bytes))
			if os.Getenv(redisURLEnv) != "" {
				printWarning("%s is set: new results go to redis, not this directory", redisURLEnv)
			}
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := openFileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			c.Logger.Debug("cleared cache", "dir", dir, "entries", count)

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
			return err
		},
	}
}

// formatBytes prints n with a binary unit suffix.
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
