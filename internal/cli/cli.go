// Package cli implements the keygrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/buildinfo"
	"github.com/matzehuels/keygrid/pkg/cache"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/pipeline"
	"github.com/matzehuels/keygrid/pkg/units"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "keygrid"

	// redisURLEnv names the environment variable holding a redis URL for the
	// shared result cache.
	redisURLEnv = "KEYGRID_REDIS_URL"
)

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
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "keygrid resolves keyboard layout anchors into points",
		Long: `keygrid turns a declarative keyboard layout (units, variables and anchors)
into a concrete set of named, positioned and rotated points.

Layouts are YAML, JSON or TOML files. Points are resolved in file order,
mirrored copies are added for split keyboards, and placements position a
shared adjustment on several points at once.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.unitsCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of commands that run the pipeline.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", os.Getenv(redisURLEnv), "share results through redis instead of the local cache (env "+redisURLEnv+")")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	if flags.noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	if flags.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, flags.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, appName), c.Logger), nil
	}
	fc, err := newFileCache()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

func newFileCache() (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/keygrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath strips a known artifact extension from output, or derives the
// base path from the layout file when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// resolveFlags are the flags shared by every command that resolves a layout.
type resolveFlags struct {
	sets     []string
	seed     string
	noMirror bool
	maxDepth int
	refresh  bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "override a variable (name=value, repeatable)")
	cmd.Flags().StringVar(&f.seed, "seed", "", "resolved points document to resolve against")
	cmd.Flags().BoolVar(&f.noMirror, "no-mirror", false, "skip the mirror section")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", pipeline.DefaultMaxDepth, "maximum anchor nesting depth")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the cache")
}

// options converts the flags into pipeline options for the layout at path.
func (f *resolveFlags) options(path string) (pipeline.Options, error) {
	vars, err := parseSets(f.sets)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Path:      path,
		Variables: vars,
		NoMirror:  f.noMirror,
		MaxDepth:  f.maxDepth,
		Refresh:   f.refresh,
	}
	if f.seed != "" {
		doc, err := kgio.ImportJSON(f.seed)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("load seed %s: %w", f.seed, err)
		}
		opts.Seed = &doc
	}
	return opts, nil
}

// parseSets parses name=value pairs into an ordered raw table. Numeric
// values are kept as numbers, everything else is an expression.
func parseSets(sets []string) (*units.Raw, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	raw := units.NewRaw()
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid --set %q (want name=value)", s)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			raw.Set(name, f)
			continue
		}
		raw.Set(name, value)
	}
	return raw, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
