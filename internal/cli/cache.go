package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/textuml/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached extractions and renders",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached extraction and rendered artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context())
			if err != nil {
				return c.fail(err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if _, null := ch.(*cache.NullCache); null || !ok {
				printInfo("Cache is disabled")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return c.fail(fmt.Errorf("clear cache: %w", err))
			}
			printSuccess("Cache cleared")
			printDetail("%s", cacheLocation(ch))
			return nil
		},
	}
	addCacheFlags(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out, c.settings().Cache.Dir)
			return nil
		},
	}
	addCacheFlags(cmd)
	return cmd
}

// cacheLocation describes where a cache keeps its entries.
func cacheLocation(ch cache.Cache) string {
	switch v := ch.(type) {
	case *cache.FileCache:
		return "Directory: " + v.Dir()
	case *cache.RedisCache:
		return "Redis namespace: " + v.Namespace()
	}
	return "Disabled"
}
