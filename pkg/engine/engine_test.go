package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeEngine writes a shell script standing in for pdflatex and returns its
// path. The script receives the same arguments the real engine would.
func fakeEngine(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakelatex")
	full := "#!/bin/sh\n" +
		"for arg in \"$@\"; do\n" +
		"  case \"$arg\" in\n" +
		"    --jobname=*) job=\"${arg#--jobname=}\" ;;\n" +
		"  esac\n" +
		"done\n" +
		"cat > /dev/null\n" +
		script + "\n"
	if err := os.WriteFile(path, []byte(full), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileMissingEngine(t *testing.T) {
	_, err := Compile(context.Background(), []byte("doc"), Options{
		Binary: "definitely-not-a-tex-engine",
	})
	if !errors.Is(err, ErrEngineMissing) {
		t.Errorf("error = %v, want ErrEngineMissing", err)
	}
	if err != nil && !strings.Contains(err.Error(), "TeX distribution") {
		t.Errorf("error should carry an install hint: %v", err)
	}
}

func TestCompilePNG(t *testing.T) {
	bin := fakeEngine(t, `printf 'fake-png' > "$job.png"`)
	work := t.TempDir()

	data, err := Compile(context.Background(), []byte("doc"), Options{
		Binary: bin,
		Dir:    work,
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if string(data) != "fake-png" {
		t.Errorf("artifact = %q, want %q", data, "fake-png")
	}

	// intermediates, including the read png, are cleaned up
	entries, err := os.ReadDir(work)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("working directory not cleaned: %v", entries)
	}
}

func TestCompilePDF(t *testing.T) {
	bin := fakeEngine(t, `printf 'fake-pdf' > "$job.pdf"`)

	data, err := Compile(context.Background(), []byte("doc"), Options{
		Format: PDF,
		Binary: bin,
		Dir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if string(data) != "fake-pdf" {
		t.Errorf("artifact = %q, want %q", data, "fake-pdf")
	}
}

func TestCompileNoArtifact(t *testing.T) {
	bin := fakeEngine(t, "echo '! Undefined control sequence.'")

	_, err := Compile(context.Background(), []byte("doc"), Options{
		Binary: bin,
		Dir:    t.TempDir(),
	})
	if !errors.Is(err, ErrNoArtifact) {
		t.Fatalf("error = %v, want ErrNoArtifact", err)
	}
	if !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("error should include the engine log tail: %v", err)
	}
}

func TestCompileTimeout(t *testing.T) {
	bin := fakeEngine(t, "sleep 5")

	_, err := Compile(context.Background(), []byte("doc"), Options{
		Binary:  bin,
		Dir:     t.TempDir(),
		Timeout: 50 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestCompileConcurrent(t *testing.T) {
	// Many compiles sharing one directory must not clobber each other:
	// every invocation works under its own job name.
	bin := fakeEngine(t, `printf '%s' "$job" > "$job.png"`)
	work := t.TempDir()

	const n = 8
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			data, err := Compile(context.Background(), []byte("doc"), Options{
				Binary: bin,
				Dir:    work,
			})
			if err == nil && !strings.HasPrefix(string(data), "exprtex-") {
				err = errors.New("artifact from a different job: " + string(data))
			}
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-results; err != nil {
			t.Errorf("concurrent compile %d: %v", i, err)
		}
	}
}
