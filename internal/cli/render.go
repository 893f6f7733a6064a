package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/observability"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string        // output file path; empty means a timestamped name
	format   string        // output format: "png", "pdf" or "tex"
	border   string        // standalone border override
	packages []string      // extra \usepackage entries
	engine   string        // TeX engine binary override
	timeout  time.Duration // compile timeout override
	refresh  bool          // recompile even when a cached artifact exists
	noCache  bool          // disable caching entirely
}

// renderCommand creates the render command for compiling expressions to images.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [expression...]",
		Short: "Compile expressions into a PNG or PDF image",
		Long: `Compile expressions into a PNG or PDF image.

Each expression is parsed, converted to LaTeX, and the combined document is
compiled with a local TeX engine. Multiple expressions become separate lines
in a single output image.

Compiled artifacts are cached by document hash, so repeating a render with
unchanged input returns instantly. Use --refresh to force recompilation.`,
		Example: `  exprtex render "x**2 + 1"
  exprtex render "sqrt(a + b)" -o roots.png
  exprtex render "alpha / beta" "E = m*c**2" -f pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.expressionOptions(args, opts.border, opts.packages)
			if err != nil {
				return err
			}
			popts.Format = opts.format
			popts.Refresh = opts.refresh
			if opts.engine != "" {
				popts.Engine = opts.engine
			}
			if opts.timeout > 0 {
				popts.Timeout = opts.timeout
			}
			if err := pipeline.ValidateFormat(popts.Format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, opts.output, opts.noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default "+appName+"-<timestamp>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatPNG, "output format: png (default), pdf, tex")
	cmd.Flags().StringVar(&opts.border, "border", "", "border around the content, e.g. 0.25cm")
	cmd.Flags().StringArrayVar(&opts.packages, "package", nil, "extra LaTeX package to load (repeatable)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "TeX engine binary (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "compile timeout (default from config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompile even when a cached artifact exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// expressionOptions builds pipeline options from the config file plus the
// shared expression flags. Flag values override config settings.
func (c *CLI) expressionOptions(args []string, border string, packages []string) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipelineOptions(cfg)
	opts.Expressions = args
	opts.Logger = c.Logger
	if border != "" {
		opts.Border = border
	}
	if len(packages) > 0 {
		opts.Packages = append(opts.Packages, packages...)
	}
	return opts, nil
}

// runRender executes the pipeline and writes the resulting artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.SourceSummary()))
	observability.SetPipelineHooks(stageHooks{spinner: spinner})
	defer observability.Reset()
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Render failed")
		reportExpressionFailures(err)
		return fmt.Errorf("render: %w", err)
	}

	data := result.Artifact
	if opts.Format == pipeline.FormatTeX {
		data = []byte(result.Document)
	}

	path := output
	if path == "" {
		path = defaultOutputPath(opts.Format)
	}
	if err := writeArtifact(path, data); err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("write %s: %w", path, err)
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d expression(s)", result.Stats.Expressions))
	for _, f := range result.Fragments {
		printMarkup(f.Source, f.Markup)
	}
	printFile(path)
	printStats(result.Stats.Expressions, result.Stats.NodeCount, result.CacheInfo.ArtifactHit)

	return nil
}

// stageHooks moves the spinner message along as the pipeline advances, so
// a slow compile shows which stage it is stuck in.
type stageHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h stageHooks) OnCompileStart(ctx context.Context, engine, format string) {
	h.spinner.SetMessage(fmt.Sprintf("Compiling with %s...", engine))
}

// reportExpressionFailures prints per-expression errors when the pipeline
// rejected some of the input. Other errors print nothing.
func reportExpressionFailures(err error) {
	var exprErr *pipeline.ExpressionError
	if !errors.As(err, &exprErr) {
		return
	}
	for _, f := range exprErr.Failures {
		printExpressionError(f.Index, f.Source, f.Err)
	}
}
