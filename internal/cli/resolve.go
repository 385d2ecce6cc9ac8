package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/pipeline"
)

// resolveCommand creates the resolve command that prints or exports the
// resolved points of a layout.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output   string
		encoding string
		asTable  bool
		flags    resolveFlags
		cf       cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "resolve [layout]",
		Short: "Resolve a layout into named points",
		Long: `Resolve a layout into named points.

Units and variables are resolved first, then every point in file order,
then the mirrored copies and placements. The result lists the resolved
units and points as JSON (default) or YAML, or as a table with --table.

Examples:
  keygrid resolve split.yaml
  keygrid resolve split.yaml -o points.yaml
  keygrid resolve split.toml --set pitch=20 --set spread="u + 1" --table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(args[0])
			if err != nil {
				return err
			}
			enc, err := outputEncoding(encoding, output)
			if err != nil {
				return err
			}
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), opts, cf, output, enc, asTable)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "output encoding: json, yaml (default: from -o extension, else json)")
	cmd.Flags().BoolVar(&asTable, "table", false, "print the points as a table")
	flags.register(cmd)
	cf.register(cmd)

	return cmd
}

// outputEncoding picks the document encoding from the flag or the output
// file extension.
func outputEncoding(encoding, output string) (string, error) {
	if encoding == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".yaml", ".yml":
			return pipeline.EncodingYAML, nil
		default:
			return pipeline.EncodingJSON, nil
		}
	}
	if err := pipeline.ValidateEncoding(encoding); err != nil {
		return "", err
	}
	return encoding, nil
}

// runResolve executes the pipeline and writes the resolved document to
// output, or to stdout when output is empty.
func (c *CLI) runResolve(ctx context.Context, stdout io.Writer, opts pipeline.Options, cf cacheFlags, output, encoding string, asTable bool) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Resolving layout...")
	restore := installHooks(c.Logger, spinner)
	defer restore()
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Resolve failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if asTable {
		_, err := fmt.Fprintln(stdout, pointTable(result.Document.Points))
		return err
	}

	if output == "" {
		return pipeline.WriteDocument(stdout, result.Document, encoding)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output %s: %w", output, err)
	}
	defer f.Close()
	if err := pipeline.WriteDocument(f, result.Document, encoding); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Resolve complete")
	printFile(output)
	printStats(resolveStats{
		points:     result.Stats.PointCount,
		mirrored:   result.Stats.MirrorCount,
		placements: result.Stats.PlacementCount,
		edges:      result.Graph.EdgeCount(),
		cached:     result.CacheInfo.ResolveHit,
	})
	printNewline()
	printNextStep("Inspect references", "keygrid graph "+opts.Path)

	return nil
}
