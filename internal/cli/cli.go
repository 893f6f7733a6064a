package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/archive"
	"github.com/exprtex/exprtex/pkg/buildinfo"
	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/config"
	"github.com/exprtex/exprtex/pkg/pipeline"
	"github.com/exprtex/exprtex/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "exprtex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "exprtex",
		Short:        "Exprtex turns plain math expressions into LaTeX and images",
		Long:         `Exprtex parses plain-text math expressions (x**2 + sqrt(y)), converts them to LaTeX, and compiles the result into PNG or PDF images through a local TeX engine.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if c.verbose {
			c.SetLogLevel(log.DebugLevel)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.texCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.symbolsCommand())
	root.AddCommand(c.liveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute builds the CLI and runs the root command. It is the entry point
// used by main.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// =============================================================================
// Config
// =============================================================================

// loadConfig loads the configuration file once and caches the result.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store := c.newCache(ctx, cfg, noCache)
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.TTL = cfg.Cache.TTL.Std()
	return r, nil
}

// newCache builds the cache backend selected in the config. Cache trouble
// never fails a command; a broken backend degrades to the null cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == config.CacheBackendNone {
		return cache.NewNullCache()
	}

	if cfg.Cache.Backend == config.CacheBackendRedis {
		store, err := cache.NewRedisCache(ctx, cfg.Cache.Redis)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.Cache.Redis, "err", err)
			return cache.NewNullCache()
		}
		return store
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		dir = config.DefaultCacheDir()
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return store
}

// =============================================================================
// Archive Factory
// =============================================================================

// newArchive builds the formula archive selected in the config. A nil archive
// means archiving is disabled.
func (c *CLI) newArchive(ctx context.Context, cfg *config.Config) (archive.Archive, error) {
	switch cfg.Archive.Backend {
	case config.ArchiveBackendNone:
		return nil, nil
	case config.ArchiveBackendMemory:
		return archive.NewMemoryArchive(), nil
	case config.ArchiveBackendMongo:
		return archive.NewMongoArchive(ctx, cfg.Archive.URI, cfg.Archive.Database)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

// =============================================================================
// Session Factory
// =============================================================================

// newSessionStore creates the session store under the user config directory.
func newSessionStore() (session.Store, error) {
	return session.NewFileStore("")
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions maps config file settings onto pipeline options. Flags
// override these in the individual commands.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Border:   cfg.Document.Border,
		Packages: cfg.Document.Packages,
		Engine:   cfg.Compile.Engine,
		Timeout:  cfg.Compile.Timeout.Std(),
	}
}
