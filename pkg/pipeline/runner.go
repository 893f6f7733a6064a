package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/engine"
	"github.com/exprtex/exprtex/pkg/expr"
	"github.com/exprtex/exprtex/pkg/latex"
	"github.com/exprtex/exprtex/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long compiled artifacts are cached.
	// Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → render → assemble → compile pipeline.
// For the tex format, compilation is skipped and Result.Artifact is nil.
//
// If any expression fails to parse or validate, Execute returns an
// *ExpressionError listing every failure.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stages 1+2: Parse and render
	renderStart := time.Now()
	fragments, err := r.RenderAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Fragments = fragments
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Expressions = len(fragments)

	var failures []FragmentFailure
	for i, f := range fragments {
		result.Stats.NodeCount += f.Nodes
		if f.Err != nil {
			failures = append(failures, FragmentFailure{Index: i, Source: f.Source, Err: f.Err})
		}
	}
	if len(failures) > 0 {
		return nil, &ExpressionError{Total: len(fragments), Failures: failures}
	}

	r.Logger.Info("rendered expressions",
		"count", result.Stats.Expressions,
		"nodes", result.Stats.NodeCount,
		"input", opts.SourceSummary(),
		"duration", result.Stats.RenderTime)

	// Stage 3: Assemble
	result.Document = r.Assemble(fragments, opts)
	result.DocHash = cache.HashString(result.Document)

	if !opts.NeedsCompile() {
		return result, nil
	}

	// Stage 4: Compile
	compileStart := time.Now()
	artifact, hit, err := r.CompileWithCacheInfo(ctx, result.Document, opts)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Artifact = artifact
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.ArtifactSize = len(artifact)
	result.CacheInfo.ArtifactHit = hit

	r.Logger.Info("compiled document",
		"format", opts.Format,
		"bytes", result.Stats.ArtifactSize,
		"cached", hit,
		"duration", result.Stats.CompileTime)

	return result, nil
}

// RenderAll parses and renders every expression. Failures do not stop the
// batch: each fragment carries its own Err, and the remaining expressions
// still render. Callers that need all-or-nothing semantics use Execute.
func (r *Runner) RenderAll(ctx context.Context, opts Options) ([]Fragment, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Pipeline()
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, len(opts.Expressions))

	fragments := make([]Fragment, len(opts.Expressions))
	var batchErr error
	for i, src := range opts.Expressions {
		fragments[i] = r.renderOne(ctx, src)
		if err := fragments[i].Err; err != nil {
			opts.Logger.Debug("expression failed", "index", i+1, "err", err)
			if batchErr == nil {
				batchErr = err
			}
		}
	}

	hooks.OnRenderComplete(ctx, len(opts.Expressions), time.Since(renderStart), batchErr)
	return fragments, nil
}

// renderOne parses, validates and renders a single expression.
func (r *Runner) renderOne(ctx context.Context, src string) Fragment {
	hooks := observability.Pipeline()
	f := Fragment{Source: src}

	parseStart := time.Now()
	hooks.OnParseStart(ctx, src)
	tree, err := expr.Parse(src)
	if err != nil {
		hooks.OnParseComplete(ctx, src, 0, time.Since(parseStart), err)
		f.Err = fmt.Errorf("parsing %q: %w", src, err)
		return f
	}
	f.Tree = tree
	f.Nodes = expr.Count(tree)
	hooks.OnParseComplete(ctx, src, f.Nodes, time.Since(parseStart), nil)

	if err := latex.Check(tree); err != nil {
		f.Err = fmt.Errorf("checking %q: %w", src, err)
		return f
	}

	f.Markup = latex.Render(tree)
	return f
}

// Assemble wraps rendered fragments into a standalone document.
func (r *Runner) Assemble(fragments []Fragment, opts Options) string {
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		lines = append(lines, latex.Wrap(f.Markup))
	}
	return latex.Document(lines, opts.DocumentOptions())
}

// CompileWithCacheInfo compiles a document with caching and reports whether
// the artifact came from cache.
func (r *Runner) CompileWithCacheInfo(ctx context.Context, document string, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	docHash := cache.HashString(document)
	cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
	}

	// Compile
	compileStart := time.Now()
	hooks.OnCompileStart(ctx, opts.Engine, opts.Format)
	artifact, err := engine.Compile(ctx, []byte(document), engine.Options{
		Format:  engine.Format(opts.Format),
		Binary:  opts.Engine,
		Timeout: opts.Timeout,
	})
	hooks.OnCompileComplete(ctx, opts.Engine, opts.Format, len(artifact), time.Since(compileStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, cacheKey, artifact, ttl); err == nil {
		cacheHooks.OnCacheSet(ctx, "artifact", len(artifact))
	}

	return artifact, false, nil
}

// Compile is a convenience wrapper that discards the cache hit info.
func (r *Runner) Compile(ctx context.Context, document string, opts Options) ([]byte, error) {
	artifact, _, err := r.CompileWithCacheInfo(ctx, document, opts)
	return artifact, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
// It runs before option validation so an unset Logger inherits the
// runner's rather than the validation default.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
