package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/exprtex/exprtex/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Document.Border != "0.25cm" {
		t.Errorf("Border = %q, want %q", cfg.Document.Border, "0.25cm")
	}
	if cfg.Compile.Engine != "pdflatex" {
		t.Errorf("Engine = %q, want %q", cfg.Compile.Engine, "pdflatex")
	}
	if cfg.Compile.Timeout.Std() != 2*time.Minute {
		t.Errorf("Timeout = %v, want %v", cfg.Compile.Timeout.Std(), 2*time.Minute)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheBackendFile)
	}
	if cfg.Archive.Backend != ArchiveBackendNone {
		t.Errorf("Archive.Backend = %q, want %q", cfg.Archive.Backend, ArchiveBackendNone)
	}

	// Defaults must validate
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[document]
border = "0.5cm"
packages = ["mathtools", "physics"]

[compile]
timeout = "90s"

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Document.Border != "0.5cm" {
		t.Errorf("Border = %q, want %q", cfg.Document.Border, "0.5cm")
	}
	if len(cfg.Document.Packages) != 2 || cfg.Document.Packages[0] != "mathtools" {
		t.Errorf("Packages = %v, want [mathtools physics]", cfg.Document.Packages)
	}
	if cfg.Compile.Timeout.Std() != 90*time.Second {
		t.Errorf("Timeout = %v, want %v", cfg.Compile.Timeout.Std(), 90*time.Second)
	}
	if cfg.Cache.Backend != CacheBackendNone {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheBackendNone)
	}

	// Keys not present in the file keep their defaults
	if cfg.Compile.Engine != "pdflatex" {
		t.Errorf("Engine = %q, want default pdflatex", cfg.Compile.Engine)
	}
	if cfg.Serve.Addr != ":2718" {
		t.Errorf("Serve.Addr = %q, want default :2718", cfg.Serve.Addr)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load of missing explicit path should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[document\nborder"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of malformed TOML should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadInvalidBorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[document]
border = "12px"
`), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load with invalid border should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidBorder) {
		t.Errorf("error code = %v, want INVALID_BORDER", errors.GetCode(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad package name", func(c *Config) { c.Document.Packages = []string{"ams math"} }},
		{"empty engine", func(c *Config) { c.Compile.Engine = "" }},
		{"negative timeout", func(c *Config) { c.Compile.Timeout = Duration(-time.Second) }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheBackendRedis }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = Duration(-time.Hour) }},
		{"unknown archive backend", func(c *Config) { c.Archive.Backend = "postgres" }},
		{"mongo without uri", func(c *Config) { c.Archive.Backend = ArchiveBackendMongo }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestValidateMongoComplete(t *testing.T) {
	cfg := Default()
	cfg.Archive.Backend = ArchiveBackendMongo
	cfg.Archive.URI = "mongodb://localhost:27017"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}
