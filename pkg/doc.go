// Package pkg provides the core libraries for exprtex expression rendering.
//
// # Overview
//
// Exprtex turns plain-text math expressions like "x**2 + sqrt(y)" into LaTeX
// markup and compiles the result into images through a local TeX engine. The
// pkg directory is organized into three main areas:
//
//  1. Domain logic - expression parsing, LaTeX generation, TeX compilation
//  2. Infrastructure - caching, archiving, sessions, configuration
//  3. Orchestration - the pipeline runner shared by CLI and HTTP server
//
// # Architecture
//
// The typical data flow through exprtex:
//
//	Plain-text expression
//	         ↓
//	    [expr] package (lex + parse)
//	         ↓
//	    [latex] package (markup + document assembly)
//	         ↓
//	    [engine] package (TeX compile)
//	         ↓
//	    PNG/PDF/TeX output
//
// # Quick Start
//
// Render expressions to a PNG through the pipeline:
//
//	import (
//	    "context"
//	    "github.com/exprtex/exprtex/pkg/cache"
//	    "github.com/exprtex/exprtex/pkg/pipeline"
//	)
//
//	// 1. Build a runner with a file cache
//	store, _ := cache.NewFileCache("/tmp/exprtex-cache")
//	runner := pipeline.NewRunner(store, nil, nil)
//	defer runner.Close()
//
//	// 2. Execute the pipeline
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Expressions: []string{"x**2 + 1", "sqrt(a + b)"},
//	    Format:      pipeline.FormatPNG,
//	})
//
//	// 3. result.Artifact holds the PNG bytes
//
// # Main Packages
//
// ## Domain Logic
//
// [expr] - Lexer and recursive descent parser for the expression language:
// arithmetic, comparisons, boolean operators, calls, indexing, attribute
// access, and tuple/list literals. Produces a typed AST with position
// information and structured JSON export.
//
// [latex] - LaTeX generation. Renders expression trees to math-mode markup,
// maps well-known identifiers to symbol commands (alpha, infinity, ...),
// checks trees for constructs LaTeX cannot express, and assembles standalone
// documents ready for compilation.
//
// [engine] - External TeX engine adapter. Runs pdflatex (or a configured
// substitute) in a scratch directory with a two-pass compile, converts the
// result to PNG when requested, and maps engine failures to sentinel errors.
//
// [diagram] - Parse tree visualization. Exports trees as Graphviz DOT and
// renders SVG/PNG diagrams via the embedded graphviz runtime.
//
// ## Infrastructure
//
// [cache] - Content-addressed artifact cache with file, Redis, and null
// backends. Keys derive from document hashes plus the options that affect
// output; a scoped keyer prefixes keys for namespace isolation.
//
// [archive] - Formula archive storing rendered expressions by digest.
// Memory and MongoDB backends share a single interface.
//
// [session] - Named working sets of expressions persisted as JSON files,
// used by the interactive editor.
//
// [config] - TOML configuration file loading with defaults and validation.
//
// [errors] - Structured error codes shared across CLI and server, plus
// input validation helpers.
//
// [observability] - Pluggable hooks for pipeline, cache, and server events.
// No-op by default; see the package example for wiring metrics.
//
// [buildinfo] - Version metadata injected at build time.
//
// ## Orchestration
//
// [pipeline] - Complete render pipeline (parse → render → assemble →
// compile) used by both the CLI and the HTTP server. Ensures consistent
// behavior across all entry points.
//
// # Common Workflows
//
// Generate markup without compiling:
//
//	tree, _ := expr.Parse("x**2 + 1")
//	markup := latex.Render(tree)   // "x^{2} + 1"
//
// Export a parse tree as JSON:
//
//	tree, _ := expr.Parse("f(x, y)")
//	data, _ := expr.EncodeJSON(tree)
//
// Compile a document directly:
//
//	doc := latex.Document([]string{"$$x^{2}$$"}, latex.DocumentOptions{ConvertPNG: true})
//	png, _ := engine.Compile(ctx, []byte(doc), engine.Options{Format: engine.PNG})
//
// Archive rendered formulas:
//
//	arch := archive.NewMemoryArchive()
//	_ = arch.Save(ctx, archive.NewFormula("x**2", "x^{2}"))
//	f, _ := arch.Get(ctx, archive.Digest("x**2"))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/expr/...         # Specific package
//	go test -run Example           # Examples only
//
// Tests that need a TeX engine skip themselves when pdflatex is not
// installed.
//
// [expr]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/expr
// [latex]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/latex
// [engine]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/engine
// [diagram]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/diagram
// [cache]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/cache
// [archive]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/archive
// [session]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/session
// [config]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/config
// [errors]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/errors
// [observability]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/exprtex/exprtex/pkg/pipeline
package pkg
