package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/pipeline"
)

// graphCommand creates the graph command that renders the anchor reference
// graph of a layout.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		scale      float64
		flags      resolveFlags
		cf         cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "graph [layout]",
		Short: "Render the anchor reference graph of a layout",
		Long: `Render the anchor reference graph of a layout.

Every resolved point is a node; an edge runs from each referenced point to
the point that references it. Points are ranked by reference depth, so
points anchored only on the origin sit in the top row.

Formats: dot, svg (default), png, pdf and json. SVG is rendered with
Graphviz; PNG and PDF additionally need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(args[0])
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			opts.Scale = scale
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), opts, cf, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: <layout>.<format>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with coordinates and edges with their config path")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	flags.register(cmd)
	cf.register(cmd)

	return cmd
}

// runGraph resolves the layout, renders its reference graph and writes one
// file per format.
func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, cf cacheFlags, output string) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Rendering reference graph...")
	restore := installHooks(c.Logger, spinner)
	defer restore()
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		path := output
		if path == "" || len(opts.Formats) > 1 {
			path = basePath(output, opts.Path) + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		c.Logger.Debugf("Wrote %s: %d bytes", path, len(result.Artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(resolveStats{
		points: result.Graph.NodeCount(),
		edges:  result.Graph.EdgeCount(),
		cached: result.CacheInfo.ResolveHit && result.CacheInfo.RenderHit,
	})
	if result.Graph.NodeCount() > 0 {
		printNewline()
		printNextStep("Browse points", "keygrid browse "+opts.Path)
	}

	return nil
}
