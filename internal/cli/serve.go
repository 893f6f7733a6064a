package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/internal/server"
	"github.com/exprtex/exprtex/pkg/cache"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Run the HTTP render API.

The server exposes the render pipeline over HTTP and archives every rendered
formula for later lookup. Cache and archive backends come from the config
file; see the [cache] and [archive] sections.

Endpoints:
  POST /v1/render            render expressions to LaTeX and an image
  GET  /v1/formulas          list archived formulas
  GET  /v1/formulas/{digest} fetch one archived formula
  GET  /v1/healthz           liveness probe`,
		Example: `  exprtex serve
  exprtex serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires the pipeline, cache, and archive into the HTTP server and
// blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	store := c.newCache(ctx, cfg, noCache)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL.Std()
	defer runner.Close()

	arch, err := c.newArchive(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize archive: %w", err)
	}
	if arch != nil {
		defer arch.Close(context.Background())
	}

	if addr == "" {
		addr = cfg.Serve.Addr
	}
	display := addr
	if strings.HasPrefix(display, ":") {
		display = "localhost" + display
	}
	printInfo("Serving on %s", StyleLink.Render("http://"+display))

	srv := server.New(server.Config{
		Addr:    addr,
		Runner:  runner,
		Archive: arch,
		Logger:  c.Logger,
	})
	return srv.ListenAndServe(ctx)
}
