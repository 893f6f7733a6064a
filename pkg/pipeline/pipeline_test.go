package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/engine"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"pdf", false},
		{"tex", false},
		{"svg", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		Expressions: []string{"x + 1"},
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Border == "" {
		t.Error("Border should have a default")
	}
	if opts.Format != FormatPNG {
		t.Errorf("Format should be %s, got %s", FormatPNG, opts.Format)
	}
	if opts.Engine != engine.DefaultBinary {
		t.Errorf("Engine should be %s, got %s", engine.DefaultBinary, opts.Engine)
	}
	if opts.Timeout != engine.DefaultTimeout {
		t.Errorf("Timeout should be %v, got %v", engine.DefaultTimeout, opts.Timeout)
	}
	if opts.Logger == nil {
		t.Error("Logger should have a default")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"minimal valid", Options{Expressions: []string{"x"}}, false},
		{"no expressions", Options{}, true},
		{"blank expression", Options{Expressions: []string{"   "}}, true},
		{"control character", Options{Expressions: []string{"x\x00y"}}, true},
		{"bad border", Options{Expressions: []string{"x"}, Border: "huge"}, true},
		{"bad package", Options{Expressions: []string{"x"}, Packages: []string{"graphicx}"}}, true},
		{"good package", Options{Expressions: []string{"x"}, Packages: []string{"mathtools"}}, false},
		{"bad format", Options{Expressions: []string{"x"}, Format: "svg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateNamesExpression(t *testing.T) {
	opts := Options{Expressions: []string{"x", "y\x00"}}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("Invalid expression should fail")
	}
	if !strings.Contains(err.Error(), "expression 2") {
		t.Errorf("Error should name the failing expression, got %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{
		Expressions: []string{"x + 1"},
	}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalBorder := opts.Border
	originalFormat := opts.Format
	originalEngine := opts.Engine

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Border != originalBorder {
		t.Error("Border changed on second call")
	}
	if opts.Format != originalFormat {
		t.Error("Format changed on second call")
	}
	if opts.Engine != originalEngine {
		t.Error("Engine changed on second call")
	}
}

func TestOptionsNeedsCompile(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{FormatPNG, true},
		{FormatPDF, true},
		{FormatTeX, false},
	}

	for _, tt := range tests {
		opts := Options{Format: tt.format}
		if got := opts.NeedsCompile(); got != tt.want {
			t.Errorf("NeedsCompile() with format %s = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestOptionsDocumentOptions(t *testing.T) {
	opts := Options{
		Border:   "1cm",
		Packages: []string{"mathtools"},
		Format:   FormatPNG,
	}

	docOpts := opts.DocumentOptions()
	if docOpts.Border != "1cm" {
		t.Errorf("Border = %q, want 1cm", docOpts.Border)
	}
	if len(docOpts.Packages) != 1 || docOpts.Packages[0] != "mathtools" {
		t.Errorf("Packages = %v, want [mathtools]", docOpts.Packages)
	}
	if !docOpts.ConvertPNG {
		t.Error("png format should set ConvertPNG")
	}

	opts.Format = FormatPDF
	if opts.DocumentOptions().ConvertPNG {
		t.Error("pdf format should not set ConvertPNG")
	}
}

func TestOptionsSourceSummary(t *testing.T) {
	tests := []struct {
		name        string
		expressions []string
		want        string
	}{
		{"empty", nil, ""},
		{"single", []string{"x + 1"}, "x + 1"},
		{"long is truncated", []string{strings.Repeat("a", 50)}, strings.Repeat("a", 37) + "..."},
		{"multiple", []string{"x", "y", "z"}, "x (+2 more)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Expressions: tt.expressions}
			if got := opts.SourceSummary(); got != tt.want {
				t.Errorf("SourceSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpressionError(t *testing.T) {
	boom := errors.New("boom")

	single := &ExpressionError{
		Total:    1,
		Failures: []FragmentFailure{{Index: 0, Source: "1 +", Err: boom}},
	}
	if got := single.Error(); got != "expression 1: boom" {
		t.Errorf("single failure Error() = %q", got)
	}

	multi := &ExpressionError{
		Total: 3,
		Failures: []FragmentFailure{
			{Index: 0, Source: "1 +", Err: boom},
			{Index: 2, Source: ")", Err: errors.New("other")},
		},
	}
	want := "2 of 3 expressions invalid: expression 1: boom"
	if got := multi.Error(); got != want {
		t.Errorf("multi failure Error() = %q, want %q", got, want)
	}

	if !errors.Is(single, boom) {
		t.Error("Unwrap should expose the first failure")
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("Cache should default to a null cache")
	}
	if r.Keyer == nil {
		t.Error("Keyer should default")
	}
	if r.Logger == nil {
		t.Error("Logger should default")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestRunnerRenderAll(t *testing.T) {
	r := NewRunner(nil, nil, discardLogger())
	opts := Options{
		Expressions: []string{"x + 1", "1 +", "sqrt()"},
		Format:      FormatTeX,
	}

	fragments, err := r.RenderAll(context.Background(), opts)
	if err != nil {
		t.Fatalf("RenderAll() error: %v", err)
	}
	if len(fragments) != 3 {
		t.Fatalf("got %d fragments, want 3", len(fragments))
	}

	// First expression renders fine
	if fragments[0].Err != nil {
		t.Errorf("fragment 0 error: %v", fragments[0].Err)
	}
	if fragments[0].Markup != "x + 1" {
		t.Errorf("fragment 0 markup = %q", fragments[0].Markup)
	}
	if fragments[0].Nodes != 3 {
		t.Errorf("fragment 0 nodes = %d, want 3", fragments[0].Nodes)
	}

	// Second fails to parse, third fails validation; both are isolated
	if fragments[1].Err == nil {
		t.Error("fragment 1 should fail to parse")
	}
	if fragments[2].Err == nil {
		t.Error("fragment 2 should fail validation")
	}
	if !strings.Contains(fragments[2].Err.Error(), "requires at least one argument") {
		t.Errorf("fragment 2 error = %v", fragments[2].Err)
	}
}

func TestRunnerExecuteTeX(t *testing.T) {
	r := NewRunner(nil, nil, discardLogger())
	opts := Options{
		Expressions: []string{"x**2"},
		Format:      FormatTeX,
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Artifact != nil {
		t.Error("tex format should not produce an artifact")
	}
	if !strings.Contains(result.Document, `\documentclass`) {
		t.Error("Document should be a standalone document")
	}
	if !strings.Contains(result.Document, "$$x^{2}$$") {
		t.Errorf("Document missing rendered fragment:\n%s", result.Document)
	}
	if len(result.DocHash) != 64 {
		t.Errorf("DocHash length = %d, want 64", len(result.DocHash))
	}
	if result.Stats.Expressions != 1 {
		t.Errorf("Stats.Expressions = %d, want 1", result.Stats.Expressions)
	}
	if result.Stats.NodeCount != 3 {
		t.Errorf("Stats.NodeCount = %d, want 3", result.Stats.NodeCount)
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("tex format should not report a cache hit")
	}
}

func TestRunnerExecuteExpressionError(t *testing.T) {
	r := NewRunner(nil, nil, discardLogger())
	opts := Options{
		Expressions: []string{"x", "1 +", ")"},
		Format:      FormatTeX,
	}

	_, err := r.Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("Execute() should fail on invalid expressions")
	}

	var exprErr *ExpressionError
	if !errors.As(err, &exprErr) {
		t.Fatalf("error should be an *ExpressionError, got %T: %v", err, err)
	}
	if exprErr.Total != 3 {
		t.Errorf("Total = %d, want 3", exprErr.Total)
	}
	if len(exprErr.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(exprErr.Failures))
	}
	if exprErr.Failures[0].Index != 1 || exprErr.Failures[1].Index != 2 {
		t.Errorf("failure indexes = %d, %d; want 1, 2",
			exprErr.Failures[0].Index, exprErr.Failures[1].Index)
	}
}

func TestRunnerCompileCacheHit(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, discardLogger())
	ctx := context.Background()

	opts := Options{
		Expressions: []string{"x + 1"},
		Format:      FormatPNG,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Seed the cache with the artifact Execute will look for
	fragments, err := r.RenderAll(ctx, opts)
	if err != nil {
		t.Fatalf("RenderAll() error: %v", err)
	}
	document := r.Assemble(fragments, opts)
	key := r.Keyer.ArtifactKey(cache.HashString(document), opts.ArtifactKeyOpts())
	want := []byte("png-bytes")
	if err := c.Set(ctx, key, want, time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.CacheInfo.ArtifactHit {
		t.Error("expected an artifact cache hit")
	}
	if string(result.Artifact) != string(want) {
		t.Errorf("Artifact = %q, want %q", result.Artifact, want)
	}
	if result.Stats.ArtifactSize != len(want) {
		t.Errorf("Stats.ArtifactSize = %d, want %d", result.Stats.ArtifactSize, len(want))
	}
}

func TestRunnerCompileMissingEngine(t *testing.T) {
	r := NewRunner(nil, nil, discardLogger())
	opts := Options{
		Expressions: []string{"x"},
		Format:      FormatPNG,
		Engine:      "exprtex-test-no-such-engine",
	}

	_, err := r.Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("Execute() should fail when the engine binary is missing")
	}
	if !errors.Is(err, engine.ErrEngineMissing) {
		t.Errorf("error should wrap ErrEngineMissing, got %v", err)
	}
}
