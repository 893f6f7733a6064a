// Package config loads the exprtex configuration file.
//
// Configuration lives at ~/.config/exprtex/config.toml (following the
// platform convention reported by os.UserConfigDir). Every setting has a
// default, so a missing file is not an error. Command line flags override
// file settings; the mapping happens in the CLI layer.
//
// # Example
//
//	[document]
//	border = "0.5cm"
//	packages = ["mathtools"]
//
//	[compile]
//	engine = "pdflatex"
//	timeout = "2m"
//
//	[cache]
//	backend = "file"
//	ttl = "720h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/exprtex/exprtex/pkg/errors"
	"github.com/exprtex/exprtex/pkg/latex"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Archive backend names accepted in the [archive] section.
const (
	ArchiveBackendNone   = "none"
	ArchiveBackendMemory = "memory"
	ArchiveBackendMongo  = "mongo"
)

// Duration wraps time.Duration so that TOML values like "90s" decode.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full application configuration.
type Config struct {
	Document DocumentConfig `toml:"document"`
	Compile  CompileConfig  `toml:"compile"`
	Cache    CacheConfig    `toml:"cache"`
	Serve    ServeConfig    `toml:"serve"`
	Archive  ArchiveConfig  `toml:"archive"`
}

// DocumentConfig controls the generated document.
type DocumentConfig struct {
	Border   string   `toml:"border"`   // standalone border, e.g. "0.25cm"
	Packages []string `toml:"packages"` // extra \usepackage entries
}

// CompileConfig controls the TeX engine invocation.
type CompileConfig struct {
	Engine  string   `toml:"engine"` // engine binary, e.g. "pdflatex"
	Timeout Duration `toml:"timeout"`
}

// CacheConfig controls artifact caching.
type CacheConfig struct {
	Backend string   `toml:"backend"` // "file", "redis" or "none"
	Dir     string   `toml:"dir"`     // file backend directory
	Redis   string   `toml:"redis"`   // redis backend address, host:port
	TTL     Duration `toml:"ttl"`
}

// ServeConfig controls the API server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// ArchiveConfig controls the formula archive.
type ArchiveConfig struct {
	Backend  string `toml:"backend"`  // "none", "memory" or "mongo"
	URI      string `toml:"uri"`      // mongodb connection string
	Database string `toml:"database"` // mongodb database name
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Document: DocumentConfig{
			Border: latex.DefaultBorder,
		},
		Compile: CompileConfig{
			Engine:  "pdflatex",
			Timeout: Duration(2 * time.Minute),
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Dir:     DefaultCacheDir(),
			TTL:     Duration(720 * time.Hour),
		},
		Serve: ServeConfig{
			Addr: ":2718",
		},
		Archive: ArchiveConfig{
			Backend:  ArchiveBackendNone,
			Database: "exprtex",
		},
	}
}

// Path returns the default configuration file location.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "exprtex", "config.toml")
}

// DefaultCacheDir returns the default cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "exprtex-cache")
	}
	return filepath.Join(dir, "exprtex")
}

// Load reads the configuration from path. An empty path means the default
// location, where a missing file yields the defaults. An explicit path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values that would produce broken
// documents or unusable backends.
func (c *Config) Validate() error {
	if err := errors.ValidateBorder(c.Document.Border); err != nil {
		return err
	}
	for _, pkg := range c.Document.Packages {
		if err := errors.ValidateTeXPackage(pkg); err != nil {
			return err
		}
	}

	if c.Compile.Engine == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "compile.engine cannot be empty")
	}
	if c.Compile.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "compile.timeout cannot be negative")
	}

	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.Redis == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis address required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}

	switch c.Archive.Backend {
	case ArchiveBackendNone, ArchiveBackendMemory:
	case ArchiveBackendMongo:
		if c.Archive.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "archive.uri required for the mongo backend")
		}
		if c.Archive.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "archive.database required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown archive.backend %q", c.Archive.Backend)
	}

	return nil
}
