package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cache"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the raw response cache",
	}

	cacheCmd.AddCommand(
		newCacheClearCommand(container),
		newCacheStatsCommand(container),
		newCacheConfigCommand(container),
	)

	return cacheCmd
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.CacheStore == nil {
				return errors.New(ErrCacheStoreUnavailable)
			}
			if err := container.CacheStore.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			return nil
		},
	}
}

func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache settings and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func newCacheConfigCommand(container *app.Container) *cobra.Command {
	var (
		ttl        time.Duration
		maxEntries int
		enable     bool
		disable    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Update cache TTL, max entries or enable the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return errors.New("--enable and --disable are mutually exclusive")
			}
			return updateCacheConfiguration(cmd.Context(), container, cacheUpdate{
				ttl:        ttl,
				maxEntries: maxEntries,
				enable:     enable,
				disable:    disable,
			})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Cache TTL (e.g. 30m, 2h), rounded to minutes")
	cmd.Flags().IntVar(&maxEntries, "max", 0, "Max cache entries (file backend)")
	cmd.Flags().BoolVar(&enable, "enable", false, "Enable response caching")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable response caching")
	return cmd
}

func showCacheStats(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "Enabled: %t\nBackend: %s\nTTL: %s\n", cfg.Cache.Enabled, cfg.GetCacheBackend(), cfg.GetCacheTTL())

	fileCache, ok := container.CacheStore.(*cache.FileCache)
	if !ok {
		return nil
	}
	files, size, err := directoryUsage(fileCache.Dir())
	if err != nil {
		return fmt.Errorf("failed to inspect cache directory: %w", err)
	}
	fmt.Fprintf(out, "Directory: %s\nEntries: %d / %d\nSize: %d bytes\n",
		fileCache.Dir(), files, cfg.GetCacheMaxEntries(), size)
	return nil
}

type cacheUpdate struct {
	ttl        time.Duration
	maxEntries int
	enable     bool
	disable    bool
}

func updateCacheConfiguration(ctx context.Context, container *app.Container, update cacheUpdate) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if update.ttl > 0 {
		minutes := int(update.ttl.Round(time.Minute) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		cfg.Cache.TTLMinutes = minutes
	}
	if update.maxEntries > 0 {
		cfg.Cache.MaxEntries = update.maxEntries
	}
	if update.enable {
		cfg.Cache.Enabled = true
	}
	if update.disable {
		cfg.Cache.Enabled = false
	}

	return helpers.SaveConfigWithValidation(container, cfg)
}

// directoryUsage counts files and bytes under dirPath. A missing directory is empty.
func directoryUsage(dirPath string) (int, int64, error) {
	var (
		files int
		total int64
	)
	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files++
		total += info.Size()
		return nil
	})
	return files, total, err
}
