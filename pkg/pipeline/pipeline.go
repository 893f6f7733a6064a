// Package pipeline provides the core rendering pipeline for exprtex.
//
// This package implements the complete parse → render → assemble → compile
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Turn each expression source into a tree
//  2. Render: Produce LaTeX markup for each tree
//  3. Assemble: Wrap the markup in a compilable standalone document
//  4. Compile: Run the TeX engine and collect the artifact (PNG or PDF)
//
// The tex format stops after assembly; png and pdf run the full pipeline.
// Compiled artifacts are cached by document hash, so repeated renders of the
// same input skip the engine.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Expressions: []string{"integral(f(x), a, b, x)"},
//	    Format:      pipeline.FormatPNG,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifact
//
// Run individual stages:
//
//	// Parse and render only
//	fragments, err := runner.RenderAll(ctx, opts)
//
//	// Assemble an existing set of fragments
//	document := runner.Assemble(fragments, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/engine"
	"github.com/exprtex/exprtex/pkg/errors"
	"github.com/exprtex/exprtex/pkg/expr"
	"github.com/exprtex/exprtex/pkg/latex"
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatTeX = "tex"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatPDF: true,
	FormatTeX: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Expressions []string `json:"expressions"`

	// Document options
	Border   string   `json:"border,omitempty"`   // standalone border, e.g. "0.25cm"
	Packages []string `json:"packages,omitempty"` // extra \usepackage entries

	// Compile options
	Format  string `json:"format,omitempty"` // png, pdf or tex
	Refresh bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Engine  string        `json:"-"` // engine binary name
	Timeout time.Duration `json:"-"`
	Logger  *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Fragment is the per-expression output of the parse and render stages.
type Fragment struct {
	Source string    // original expression text
	Tree   expr.Node // parsed expression
	Markup string    // rendered LaTeX
	Nodes  int       // tree size
	Err    error     // parse or validation failure
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Fragments are the per-expression results, in input order.
	Fragments []Fragment

	// Document is the assembled standalone document source.
	Document string

	// DocHash is the content hash of the document.
	DocHash string

	// Artifact is the compiled output. Nil for the tex format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. RenderTime covers parsing
// and markup generation for the whole batch; CompileTime is the external
// engine run.
type Stats struct {
	Expressions  int
	NodeCount    int
	ArtifactSize int
	RenderTime   time.Duration
	CompileTime  time.Duration
}

// CacheInfo tracks cache hits for the pipeline run.
type CacheInfo struct {
	ArtifactHit bool // Whether the compiled artifact came from cache
}

// =============================================================================
// Expression Errors
// =============================================================================

// FragmentFailure identifies one failed expression in a batch.
type FragmentFailure struct {
	Index  int
	Source string
	Err    error
}

// ExpressionError reports which expressions of a batch failed to parse or
// validate. The remaining expressions rendered fine; callers can inspect
// Failures to report each one.
type ExpressionError struct {
	Total    int
	Failures []FragmentFailure
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("expression %d: %v", f.Index+1, f.Err)
	}
	return fmt.Sprintf("%d of %d expressions invalid: expression %d: %v",
		len(e.Failures), e.Total, e.Failures[0].Index+1, e.Failures[0].Err)
}

// Unwrap returns the first underlying failure.
func (e *ExpressionError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0].Err
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, pdf, tex)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Expressions) == 0 {
		return errors.New(errors.ErrCodeInvalidExpression, "at least one expression is required")
	}
	for i, src := range o.Expressions {
		if err := errors.ValidateExpressionSource(src); err != nil {
			return fmt.Errorf("expression %d: %w", i+1, err)
		}
	}

	// Document defaults
	if o.Border == "" {
		o.Border = latex.DefaultBorder
	}
	if err := errors.ValidateBorder(o.Border); err != nil {
		return err
	}
	for _, pkg := range o.Packages {
		if err := errors.ValidateTeXPackage(pkg); err != nil {
			return err
		}
	}

	// Compile defaults
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = engine.DefaultBinary
	}
	if o.Timeout == 0 {
		o.Timeout = engine.DefaultTimeout
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// NeedsCompile returns true if the format requires running the TeX engine.
func (o *Options) NeedsCompile() bool {
	return o.Format != FormatTeX
}

// DocumentOptions returns the latex document options for this run.
func (o *Options) DocumentOptions() latex.DocumentOptions {
	return latex.DocumentOptions{
		Border:     o.Border,
		Packages:   o.Packages,
		ConvertPNG: o.Format == FormatPNG,
	}
}

// ArtifactKeyOpts returns cache key options for the compiled artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Format,
		Engine: o.Engine,
	}
}

// SourceSummary returns a short form of the input for log lines.
func (o *Options) SourceSummary() string {
	if len(o.Expressions) == 0 {
		return ""
	}
	s := o.Expressions[0]
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	if len(o.Expressions) > 1 {
		return fmt.Sprintf("%s (+%d more)", s, len(o.Expressions)-1)
	}
	return s
}
