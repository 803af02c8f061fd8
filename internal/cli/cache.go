package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghoshnapatra/ghoshna/pkg/cache"
	"github.com/ghoshnapatra/ghoshna/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				printDetail("Set [cache] backend = %q or %q to enable it", config.BackendFile, config.BackendRedis)
				return nil
			}

			ctx := cmd.Context()
			p := newProgress(loggerFromContext(ctx))
			store, _, err := c.newCache(ctx, cfg, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			p.done("cleared cache", "backend", cfg.Cache.Backend)

			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			switch s := store.(type) {
			case *cache.FileCache:
				printDetail("Directory: %s", s.Dir())
			case *cache.RedisCache:
				printDetail("Prefix: %s", s.Prefix())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
