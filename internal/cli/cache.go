package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/config"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// clearer is implemented by caches that can drop every entry.
type clearer interface {
	Clear() error
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout, artifact and image cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout, artifact and image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if cfg.Cache.Backend == config.CacheNone {
				printInfo("Cache is disabled")
				return nil
			}
			store, err := cfg.OpenCache()
			if err != nil {
				return err
			}
			defer store.Close()

			cl, ok := store.(clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s cache backend cannot be cleared from the CLI", cfg.Cache.Backend)
			}
			if err := cl.Clear(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			images := imageCacheDir(cfg)
			if err := os.RemoveAll(images); err != nil {
				printWarning("could not remove %s: %v", images, err)
			}

			printSuccess("Cleared the %s cache", cfg.Cache.Backend)
			printDetail("Directory: %s", cfg.CacheDir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.settings().CacheDir())
			return nil
		},
	}
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the cache configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			printKeyValue("backend", cfg.Cache.Backend)
			printKeyValue("ttl", cfg.Cache.TTL.String())
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				printKeyValue("redis", cfg.Redis.Addr)
				printKeyValue("prefix", cfg.Redis.Prefix)
			case config.CacheNone:
			default:
				printKeyValue("directory", cfg.CacheDir())
			}
			printKeyValue("images", imageCacheDir(cfg))
			return nil
		},
	}
}

func imageCacheDir(cfg *config.Config) string {
	return filepath.Join(cfg.CacheDir(), "images")
}
