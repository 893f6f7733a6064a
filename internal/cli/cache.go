package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/config"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDir resolves the file cache directory from the config.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Backend == config.CacheBackendRedis {
		return "", fmt.Errorf("cache backend is redis (%s), no local directory", cfg.Cache.Redis)
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir(), nil
}

// cacheClearCommand creates the "cache clear" subcommand. It empties the
// cache directory, walking the shard layout the file backend writes.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			children, err := os.ReadDir(dir)
			if os.IsNotExist(err) {
				printInfo("Nothing to clear")
				return nil
			}
			if err != nil {
				return err
			}

			count := 0
			for _, child := range children {
				path := filepath.Join(dir, child.Name())
				if !child.IsDir() {
					if os.Remove(path) == nil {
						count++
					}
					continue
				}
				entries, err := os.ReadDir(path)
				if err != nil {
					continue
				}
				for _, e := range entries {
					if e.IsDir() {
						continue
					}
					if os.Remove(filepath.Join(path, e.Name())) == nil {
						count++
					}
				}
				os.Remove(path)
			}

			printSuccess("Removed %d cache entries", count)
			printKeyValue("Directory", dir)
			return nil
		},
	}
}

// cachePathCommand prints where the file backend keeps its entries.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
