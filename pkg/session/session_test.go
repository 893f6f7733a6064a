package session

import (
	"context"
	"errors"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "thesis", false},
		{"with dash", "my-work", false},
		{"with underscore", "my_work", false},
		{"with digits", "draft2", false},
		{"default", DefaultName, false},

		{"empty", "", true},
		{"leading dash", "-work", true},
		{"path separator", "a/b", true},
		{"dots", "..", true},
		{"spaces", "my work", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	// Get before Set
	sess, err := store.Get(ctx, "thesis")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sess != nil {
		t.Error("Get before Set should return nil")
	}

	// Set then Get
	if err := store.Set(ctx, New("thesis", []string{"x + 1", "sqrt(y)"})); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	sess, err = store.Get(ctx, "thesis")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if sess == nil {
		t.Fatal("Get after Set returned nil")
	}
	if len(sess.Expressions) != 2 || sess.Expressions[0] != "x + 1" {
		t.Errorf("Expressions = %v", sess.Expressions)
	}
	if sess.CreatedAt.IsZero() || sess.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	// List
	if err := store.Set(ctx, New("draft", nil)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 2 || names[0] != "draft" || names[1] != "thesis" {
		t.Errorf("List = %v, want [draft thesis]", names)
	}

	// Delete
	if err := store.Delete(ctx, "thesis"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	sess, _ = store.Get(ctx, "thesis")
	if sess != nil {
		t.Error("Get after Delete should return nil")
	}

	// Deleting a missing session is not an error
	if err := store.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing session: %v", err)
	}
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	if _, err := store.Get(ctx, "../escape"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Get with unsafe name = %v, want ErrInvalidName", err)
	}
	if err := store.Set(ctx, New("a/b", nil)); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Set with unsafe name = %v, want ErrInvalidName", err)
	}
	if err := store.Delete(ctx, ""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Delete with unsafe name = %v, want ErrInvalidName", err)
	}
}
