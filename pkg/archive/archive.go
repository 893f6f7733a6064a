// Package archive stores rendered formulas for later retrieval.
//
// Every formula submitted through the API server can be archived under the
// digest of its source text. Clients fetch it back with GET /v1/formulas/{digest}
// without re-rendering. Two backends exist: [MemoryArchive] for tests and
// single-process setups, and [MongoArchive] for durable storage.
package archive

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/exprtex/exprtex/pkg/cache"
)

// ErrNotFound is returned when a requested formula does not exist.
var ErrNotFound = errors.New("formula not found")

// Formula is an archived expression with its rendered markup.
type Formula struct {
	Digest    string    `json:"digest"`
	Source    string    `json:"source"`
	Markup    string    `json:"markup"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive is the interface for formula storage backends.
type Archive interface {
	// Save stores a formula, replacing any existing entry with the same digest.
	Save(ctx context.Context, f Formula) error

	// Get retrieves a formula by digest. Returns ErrNotFound if absent.
	Get(ctx context.Context, digest string) (Formula, error)

	// List returns the most recently archived formulas, newest first.
	List(ctx context.Context, limit int) ([]Formula, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Digest returns the archive key for an expression source. Leading and
// trailing whitespace is ignored so that "x+1" and "x+1\n" share an entry.
func Digest(source string) string {
	return cache.HashString(strings.TrimSpace(source))
}

// NewFormula builds an archivable formula from a source and its markup.
func NewFormula(source, markup string) Formula {
	return Formula{
		Digest:    Digest(source),
		Source:    source,
		Markup:    markup,
		CreatedAt: time.Now().UTC(),
	}
}
