package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/config"
	"github.com/matzehuels/keygrid/pkg/expr"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/pipeline"
	"github.com/matzehuels/keygrid/pkg/units"
)

// unitsCommand creates the units command that prints a layout's resolved
// units table.
func (c *CLI) unitsCommand() *cobra.Command {
	var (
		encoding string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:   "units [layout]",
		Short: "Print the resolved units table of a layout",
		Long: `Print the resolved units table of a layout.

The table starts from the builtin units (U, u, cx, cy and the $default_*
entries), then applies the layout's units and variables sections in order.
Without a layout only the builtin units are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runUnits(cmd.OutOrStdout(), path, sets, encoding)
		},
	}

	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "output encoding: json, yaml (default: table)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a variable (name=value, repeatable)")

	return cmd
}

func (c *CLI) runUnits(w io.Writer, path string, sets []string, encoding string) error {
	if encoding != "" {
		if err := pipeline.ValidateEncoding(encoding); err != nil {
			return err
		}
	}
	prog := newProgress(c.Logger)
	table, err := c.loadUnits(path, sets)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d units", table.Len()))

	if encoding == "" {
		_, err := fmt.Fprintln(w, unitTable(table.Snapshot()))
		return err
	}
	return pipeline.WriteDocument(w, kgio.Document{Units: table.Snapshot()}, encoding)
}

// loadUnits resolves the units table of the layout at path with sets
// applied over its variables. An empty path resolves the builtin units.
func (c *CLI) loadUnits(path string, sets []string) (*units.Table, error) {
	overrides, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	layout := &config.Layout{}
	if path != "" {
		layout, _, err = pipeline.Load(pipeline.Options{Path: path, Logger: c.Logger})
		if err != nil {
			return nil, err
		}
	}
	return pipeline.Units(layout, overrides)
}

// evalCommand creates the eval command that evaluates expressions against a
// layout's units.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		layout string
		sets   []string
		lets   []string
	)

	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate expressions against a layout's units",
		Long: `Evaluate expressions against a layout's units.

Expressions use the layout expression language: + - * / ^, parentheses,
implicit multiplication (2u, 3(u+1)), the constants pi and e, and the
functions sqrt, sin, cos, tan, asin, acos, atan, abs, floor, ceil and round.

--let defines derived entries on top of the resolved table; they may
reference the table and earlier --let entries.

Examples:
  keygrid eval "2u + 1"
  keygrid eval -l split.yaml "pitch / 2"
  keygrid eval --let half="u/2" "half * 3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(cmd.Context(), cmd.OutOrStdout(), layout, sets, lets, args)
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "", "layout file providing units and variables")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a layout variable (name=value, repeatable)")
	cmd.Flags().StringArrayVar(&lets, "let", nil, "define a derived entry (name=value, repeatable)")

	return cmd
}

func (c *CLI) runEval(ctx context.Context, w io.Writer, layout string, sets, lets, exprs []string) error {
	table, err := c.loadUnits(layout, sets)
	if err != nil {
		return err
	}
	derived, err := parseSets(lets)
	if err != nil {
		return err
	}
	if derived.Len() > 0 {
		if table, err = table.With(derived); err != nil {
			return err
		}
	}

	for i, src := range exprs {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := table.Eval(fmt.Sprintf("eval[%d]", i+1), expr.Expr(src))
		if err != nil {
			return err
		}
		loggerFromContext(ctx).Debug("evaluated", "expression", expr.Normalize(src), "value", v)
		if len(exprs) == 1 {
			fmt.Fprintln(w, formatNumber(v))
			continue
		}
		fmt.Fprintf(w, "%s = %s\n", src, formatNumber(v))
	}
	return nil
}
