package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asimos-bot/software-watermark/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the graph and payload cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached graph and payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if cfg.CacheBackend == backendNone {
				printInfo("Caching is disabled")
				return nil
			}

			backend, err := newCache(cfg, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer backend.Close()

			switch b := backend.(type) {
			case *cache.FileCache:
				count, err := b.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", b.Dir())
			case *cache.BadgerCache:
				if err := b.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared badger cache")
				printDetail("Directory: %s", b.Dir())
			default:
				printInfo("Cache is empty")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.settings().CacheDir
			if dir == "" {
				var err error
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
