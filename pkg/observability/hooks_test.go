package observability

import (
	"context"
	"testing"
	"time"
)

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should default to NoopServerHooks")
	}

	// The defaults accept events without panicking.
	ctx := context.Background()
	Pipeline().OnParseStart(ctx, "x + 1")
	Pipeline().OnParseComplete(ctx, "x + 1", 3, time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, 2)
	Pipeline().OnRenderComplete(ctx, 2, time.Millisecond, nil)
	Pipeline().OnCompileStart(ctx, "pdflatex", "png")
	Pipeline().OnCompileComplete(ctx, "pdflatex", "png", 1024, time.Second, nil)
	Cache().OnCacheHit(ctx, "artifact")
	Cache().OnCacheMiss(ctx, "diagram")
	Cache().OnCacheSet(ctx, "artifact", 2048)
	Server().OnRequest(ctx, "POST", "/v1/render")
	Server().OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)
}

func TestRegisterAndReset(t *testing.T) {
	defer Reset()

	pipeline := &testPipelineHooks{}
	cache := &testCacheHooks{}
	server := &testServerHooks{}

	SetPipelineHooks(pipeline)
	SetCacheHooks(cache)
	SetServerHooks(server)

	if Pipeline() != pipeline || Cache() != cache || Server() != server {
		t.Fatal("registered hooks should be returned")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore the pipeline default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore the cache default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Reset() should restore the server default")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep the previous registration")
	}
}

type countingHooks struct {
	NoopPipelineHooks
	compiles int
}

func (h *countingHooks) OnCompileStart(ctx context.Context, engine, format string) {
	h.compiles++
}

func TestEmbeddedNoopOverride(t *testing.T) {
	defer Reset()

	h := &countingHooks{}
	SetPipelineHooks(h)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx, "x + 1")
	Pipeline().OnCompileStart(ctx, "pdflatex", "png")

	if h.compiles != 1 {
		t.Errorf("OnCompileStart fired %d times, want 1", h.compiles)
	}
}
