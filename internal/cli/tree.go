package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/diagram"
	"github.com/exprtex/exprtex/pkg/expr"
	"github.com/exprtex/exprtex/pkg/observability"
)

// Tree output formats.
const (
	treeFormatDOT  = "dot"
	treeFormatSVG  = "svg"
	treeFormatPNG  = "png"
	treeFormatJSON = "json"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	output   string // output file path; empty means stdout (text) or timestamped (image)
	format   string // "dot", "svg", "png" or "json"
	detailed bool   // include token positions in the diagram
	noCache  bool   // disable diagram caching
}

// treeCommand creates the tree command for visualizing parse trees.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree [expression]",
		Short: "Visualize the parse tree of an expression",
		Long: `Visualize the parse tree of an expression.

The expression is parsed and its tree exported as Graphviz DOT, rendered
SVG or PNG, or structured JSON. Rendered diagrams are cached by DOT hash.`,
		Example: `  exprtex tree "x**2 + sqrt(y)"
  exprtex tree "a / (b + c)" -f svg -o tree.svg
  exprtex tree "f(x, y)" -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTreeFormat(opts.format); err != nil {
				return err
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot/json)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", treeFormatDOT, "output format: dot (default), svg, png, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include token positions in the diagram")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable diagram caching")

	return cmd
}

// validateTreeFormat checks that the requested format is supported.
func validateTreeFormat(format string) error {
	switch format {
	case treeFormatDOT, treeFormatSVG, treeFormatPNG, treeFormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'png', or 'json')", format)
	}
}

// runTree parses the expression and exports its tree in the requested format.
func (c *CLI) runTree(ctx context.Context, source string, opts treeOpts) error {
	logger := loggerFromContext(ctx)

	tree, err := expr.Parse(source)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", source, err)
	}
	logger.Debug("parsed expression", "nodes", expr.Count(tree))

	switch opts.format {
	case treeFormatJSON:
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		return expr.WriteJSON(tree, out)

	case treeFormatDOT:
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = fmt.Fprintln(out, diagram.ToDOT(tree, diagram.Options{Detailed: opts.detailed}))
		return err
	}

	dot := diagram.ToDOT(tree, diagram.Options{Detailed: opts.detailed})
	prog := newProgress(logger)
	data, cached, err := c.renderDiagram(ctx, dot, opts)
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	prog.done("Rendered diagram")

	path := opts.output
	if path == "" {
		path = defaultOutputPath(opts.format)
	}
	if err := writeArtifact(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Rendered parse tree")
	printFile(path)
	printStats(1, expr.Count(tree), cached)
	return nil
}

// renderDiagram renders DOT source to SVG or PNG, reusing a cached diagram
// when one exists for the same DOT text and options.
func (c *CLI) renderDiagram(ctx context.Context, dot string, opts treeOpts) ([]byte, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, false, err
	}
	store := c.newCache(ctx, cfg, opts.noCache)
	defer store.Close()

	hooks := observability.Cache()
	keyer := cache.NewDefaultKeyer()
	key := keyer.DiagramKey(cache.HashString(dot), cache.DiagramKeyOpts{
		Format:   opts.format,
		Detailed: opts.detailed,
	})

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, "diagram")
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "diagram")

	var data []byte
	switch opts.format {
	case treeFormatSVG:
		data, err = diagram.RenderSVG(ctx, dot)
	case treeFormatPNG:
		data, err = diagram.RenderPNG(ctx, dot)
	}
	if err != nil {
		return nil, false, err
	}

	if err := store.Set(ctx, key, data, cache.TTLDiagram); err == nil {
		hooks.OnCacheSet(ctx, "diagram", len(data))
	}
	return data, false, nil
}
