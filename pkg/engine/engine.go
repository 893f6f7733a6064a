// Package engine compiles LaTeX documents by shelling out to a TeX engine.
//
// The engine runs twice per document so references and the standalone
// preview geometry settle, mirroring how the documents are compiled by
// hand. All intermediate artifacts are named after a per-invocation job
// identifier, so any number of compiles may share a working directory;
// see [Compile].
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBinary is the TeX engine used when none is configured.
const DefaultBinary = "pdflatex"

// DefaultTimeout bounds a single [Compile] call, covering both engine
// passes. Runaway TeX loops otherwise hang forever on malformed input.
const DefaultTimeout = 2 * time.Minute

// Sentinel errors for compile operations.
var (
	// ErrEngineMissing is returned when the TeX engine binary is not on PATH.
	ErrEngineMissing = errors.New("tex engine not found")

	// ErrNoArtifact is returned when the engine ran but left no output file.
	// This is the only failure signal: engine exit codes are ignored, the
	// same way a manual two-pass compile tolerates first-pass errors.
	ErrNoArtifact = errors.New("no output artifact produced")
)

// Format selects which artifact Compile returns.
type Format string

const (
	// PNG reads the image produced by the standalone convert option.
	// Requires shell escape and an ImageMagick installation.
	PNG Format = "png"

	// PDF reads the engine's own output document.
	PDF Format = "pdf"
)

// Options configures a compile run.
type Options struct {
	// Format is the artifact to return. Defaults to PNG.
	Format Format

	// Binary is the TeX engine executable. Defaults to DefaultBinary.
	Binary string

	// Dir is the working directory for the engine and its intermediate
	// files. Defaults to the system temp directory.
	Dir string

	// Timeout bounds the whole compile. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Compile runs the TeX engine twice over document and returns the bytes of
// the requested artifact.
//
// Each invocation gets a fresh job name, so concurrent compiles in the
// same directory cannot clobber each other. Intermediate files (aux, log,
// pdf, and the png after reading) are removed before returning, whether
// the compile succeeded or not.
func Compile(ctx context.Context, document []byte, opts Options) ([]byte, error) {
	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %s requires a TeX distribution. Install with:\n  macOS:  brew install --cask mactex\n  Linux:  apt install texlive-latex-extra", ErrEngineMissing, binary)
	}

	format := opts.Format
	if format == "" {
		format = PNG
	}
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	job := "exprtex-" + uuid.NewString()
	defer removeArtifacts(dir, job, "aux", "log", "pdf", "png")

	// Two passes; exit status is deliberately ignored. TeX often exits
	// nonzero on the first pass and still produces the artifact on the
	// second.
	var lastOut []byte
	for i := 0; i < 2; i++ {
		out, err := runEngine(ctx, binary, dir, job, document)
		if err != nil {
			return nil, err
		}
		lastOut = out
	}

	artifact := filepath.Join(dir, job+"."+string(format))
	data, err := os.ReadFile(artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: %s did not write %s.%s%s", ErrNoArtifact, binary, job, format, logTail(lastOut))
	}
	return data, nil
}

// runEngine performs one engine pass, feeding the document on stdin.
// Only context-level failures (cancellation, a missing binary racing
// LookPath) surface as errors; a nonzero exit does not.
func runEngine(ctx context.Context, binary, dir, job string, document []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, "--shell-escape", "--jobname="+job)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(document)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", binary, ctx.Err())
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("%s: %w", binary, err)
	}
	return out.Bytes(), nil
}

func removeArtifacts(dir, job string, exts ...string) {
	for _, ext := range exts {
		os.Remove(filepath.Join(dir, job+"."+ext))
	}
}

// logTail extracts the last few lines of engine output for error messages.
// TeX logs are verbose; the tail is where the actual complaint lives.
func logTail(out []byte) string {
	if len(out) == 0 {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	const keep = 8
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return "\n" + strings.Join(lines, "\n")
}
