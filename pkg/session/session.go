// Package session persists live editor workspaces between runs.
//
// The live command keeps a working set of expressions. Saving that set as a
// named session lets the next invocation pick up where the last one ended.
// Sessions are stored as JSON files in a config directory, one file per name.
//
// # Usage
//
//	store, err := session.NewFileStore("") // uses ~/.config/exprtex/sessions/
//	if err != nil {
//	    return err
//	}
//
//	sess := session.New("thesis", []string{"integral(f(x), a, b, x)"})
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, "thesis")
//	if sess == nil {
//	    // No such session
//	}
package session

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// ErrInvalidName is returned when a session name is not a safe filename.
var ErrInvalidName = errors.New("invalid session name")

// DefaultName is the session used when no name is given.
const DefaultName = "default"

// nameRegex matches session names safe to use as filenames.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateName checks that a session name is a safe filename.
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// Session is a saved working set of expressions.
type Session struct {
	Name        string    `json:"name"`
	Expressions []string  `json:"expressions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by name.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, name string) (*Session, error)

	// Set stores a session, updating UpdatedAt.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored sessions, sorted.
	List(ctx context.Context) ([]string, error)
}

// New creates a session with the given name and expressions.
func New(name string, expressions []string) *Session {
	now := time.Now()
	return &Session{
		Name:        name,
		Expressions: expressions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
