package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "artifact:abc", []byte("png-bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// The write above must not be observable.
	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get = (%q, %v), want miss with nil data", data, hit)
	}

	if err := c.Delete(ctx, "artifact:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Set then Get
	if err := c.Set(ctx, "artifact:abc", []byte("png-bytes"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "artifact:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != "png-bytes" {
		t.Errorf("Get data = %q, want %q", data, "png-bytes")
	}

	// Expired entries are treated as misses
	if err := c.Set(ctx, "expired", []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	_, hit, err = c.Get(ctx, "expired")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}

	// Delete removes the entry
	if err := c.Delete(ctx, "artifact:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "artifact:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("x + 1"))

	if len(h) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(h))
	}
	if h != Hash([]byte("x + 1")) {
		t.Error("same input should produce the same digest")
	}
	if h == Hash([]byte("x + 2")) {
		t.Error("different inputs should produce different digests")
	}
	if HashString("x + 1") != h {
		t.Error("HashString should agree with Hash")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// ArtifactKey should include options in hash
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Engine: "pdflatex"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "pdf", Engine: "pdflatex"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Same inputs produce the same key
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Engine: "pdflatex"})
	if ak1 != ak3 {
		t.Error("Identical inputs should produce identical keys")
	}

	// DiagramKey
	dk1 := k.DiagramKey("hash123", DiagramKeyOpts{Format: "svg"})
	dk2 := k.DiagramKey("hash123", DiagramKeyOpts{Format: "svg", Detailed: true})
	if dk1 == dk2 {
		t.Error("Different DiagramKeyOpts should produce different keys")
	}

	// Key kinds are namespaced
	if ak1 == k.DiagramKey("hash123", DiagramKeyOpts{Format: "png"}) {
		t.Error("Artifact and diagram keys should not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1:")

	// All keys should be prefixed
	ak := scoped.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if len(ak) < 10 || ak[:3] != "v1:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
	if ak[3:] != inner.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"}) {
		t.Errorf("ScopedKeyer should delegate to inner keyer: %s", ak)
	}

	dk := scoped.DiagramKey("hash123", DiagramKeyOpts{Format: "svg"})
	if len(dk) < 10 || dk[:3] != "v1:" {
		t.Errorf("ScopedKeyer DiagramKey should be prefixed: %s", dk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "v2:")
	key := scoped.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	want := "v2:" + NewDefaultKeyer().ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should stay nil")
	}

	cause := errors.New("connection refused")
	marked := Retryable(cause)
	if !IsRetryable(marked) {
		t.Error("IsRetryable should see the marker")
	}
	if marked.Error() != cause.Error() {
		t.Errorf("message changed: %q", marked.Error())
	}
	if !errors.Is(marked, cause) {
		t.Error("the cause should stay reachable")
	}
	if IsRetryable(cause) {
		t.Error("an unmarked error is not retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	errFatal := errors.New("fatal")
	errTransient := errors.New("transient")

	t.Run("first try succeeds", func(t *testing.T) {
		calls := 0
		if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil {
			t.Fatalf("RetryWithBackoff error: %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return errFatal })
		if err != errFatal {
			t.Errorf("err = %v, want the original error", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			if calls < 2 {
				return Retryable(errTransient)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Retry error: %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func() error {
			calls++
			return Retryable(errTransient)
		})
		if !errors.Is(err, errTransient) {
			t.Errorf("err = %v, want the last transient error", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cancelled, func() error {
			return Retryable(errTransient)
		})
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
