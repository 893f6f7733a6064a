// Package cache provides caching for compiled artifacts and rendered diagrams.
//
// Compiling a document means running the TeX engine twice, which takes a few
// seconds even for a one-line formula. The cache lets repeated renders of the
// same document skip the engine entirely. Diagram rendering through Graphviz
// is cheaper but still worth caching for large expression trees.
//
// # Backends
//
//   - [FileCache]: entries on disk, used by the CLI
//   - [RedisCache]: shared entries, used by the API server
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are derived from content hashes so that identical inputs share entries
// regardless of where they were submitted. See [Keyer] and [DefaultKeyer].
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// TTLArtifact is how long compiled artifacts are kept.
	TTLArtifact = 30 * 24 * time.Hour

	// TTLDiagram is how long rendered diagrams are kept.
	TTLDiagram = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
// Get reports a miss with hit=false rather than an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the cacheable pipeline outputs.
type Keyer interface {
	// ArtifactKey generates a key for a compiled artifact (PNG or PDF).
	// docHash is the hash of the full document source.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string

	// DiagramKey generates a key for a rendered expression diagram.
	// dotHash is the hash of the DOT source.
	DiagramKey(dotHash string, opts DiagramKeyOpts) string
}

// ArtifactKeyOpts are the options that affect compiled artifact output.
// The document hash already covers the document text itself, so only
// settings outside the document belong here.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // "png" or "pdf"
	Engine string `json:"engine"` // engine binary name, e.g. "pdflatex"
}

// DiagramKeyOpts are the options that affect diagram output.
type DiagramKeyOpts struct {
	Format   string `json:"format"` // "svg" or "png"
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a compiled artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// DiagramKey generates a key for a rendered diagram.
func (k *DefaultKeyer) DiagramKey(dotHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", dotHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
