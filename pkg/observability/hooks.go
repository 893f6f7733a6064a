// Package observability lets callers watch the render pipeline, the cache
// and the HTTP server without wiring a metrics backend into the libraries.
//
// Packages emit events through small hook interfaces with no-op defaults.
// A binary that wants instrumentation registers implementations at startup;
// registration happens in main, never in a library, so the core packages
// stay free of observability dependencies and import cycles:
//
//	func main() {
//	    observability.SetPipelineHooks(&promHooks{})
//	    // run the application
//	}
//
// Emitting an event is a method call on the current registration:
//
//	observability.Pipeline().OnCompileStart(ctx, engine, format)
//	// run the engine
//	observability.Pipeline().OnCompileComplete(ctx, engine, format, size, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the render pipeline. Parse events
// fire once per expression; render events bracket a whole batch; compile
// events bracket one engine invocation.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, expressions int)
	OnRenderComplete(ctx context.Context, expressions int, duration time.Duration, err error)

	OnCompileStart(ctx context.Context, engine, format string)
	OnCompileComplete(ctx context.Context, engine, format string, artifactSize int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups and writes. keyType names
// the kind of entry, "artifact" or "diagram".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events for incoming API requests and their
// responses.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// reg holds the current registrations. Zero registrations are the no-op
// implementations, so emitting events never needs a nil check.
var reg = struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	server:   NoopServerHooks{},
}

// SetPipelineHooks registers h for pipeline events. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	reg.Lock()
	defer reg.Unlock()
	if h != nil {
		reg.pipeline = h
	}
}

// SetCacheHooks registers h for cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	reg.Lock()
	defer reg.Unlock()
	if h != nil {
		reg.cache = h
	}
}

// SetServerHooks registers h for server events. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	reg.Lock()
	defer reg.Unlock()
	if h != nil {
		reg.server = h
	}
}

// Pipeline returns the current pipeline hooks.
func Pipeline() PipelineHooks {
	reg.RLock()
	defer reg.RUnlock()
	return reg.pipeline
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	reg.RLock()
	defer reg.RUnlock()
	return reg.cache
}

// Server returns the current server hooks.
func Server() ServerHooks {
	reg.RLock()
	defer reg.RUnlock()
	return reg.server
}

// Reset restores the no-op defaults. Tests use this to undo registrations.
func Reset() {
	reg.Lock()
	defer reg.Unlock()
	reg.pipeline = NoopPipelineHooks{}
	reg.cache = NoopCacheHooks{}
	reg.server = NoopServerHooks{}
}

// NoopPipelineHooks ignores every pipeline event. Embed it to implement
// only the events of interest.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnCompileStart(context.Context, string, string)              {}
func (NoopPipelineHooks) OnCompileComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every server event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
