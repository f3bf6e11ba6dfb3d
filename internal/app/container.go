// Package app wires application services to their infrastructure adapters.
package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/doeshing/tunemate-go/internal/application/doctor"
	"github.com/doeshing/tunemate-go/internal/application/process"
	"github.com/doeshing/tunemate-go/internal/application/structuring"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/ai"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cache"
	"github.com/doeshing/tunemate-go/internal/infrastructure/config"
	"github.com/doeshing/tunemate-go/internal/infrastructure/history"
	"github.com/doeshing/tunemate-go/internal/pkg/logger"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// Options tune container construction.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	ProcessService *process.Service
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	DoctorService  *doctor.Service
	HistoryStore   ports.HistoryRepository
	CacheStore     ports.CacheRepository
	Factory        *ai.Factory
	Logger         *logger.ZapLogger
	Config         domain.Config
}

// BuildContainer constructs the dependency graph. History falls back from
// SQLite to the JSONL file store when the database cannot be opened.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(opts.Verbose)
	if err != nil {
		return nil, err
	}

	historyStore := openHistory(cfg, log)
	cacheStore := openCache(cfg, log)
	factory := ai.NewFactory()

	processService := &process.Service{
		ConfigProvider:  cfgLoader,
		ProviderFactory: factory,
		Cache:           cacheStore,
		Pipeline:        structuring.NewPipeline(),
		Logger:          log,
	}
	if historyStore != nil {
		processService.History = historyStore
	}

	doctorService := &doctor.Service{ConfigProvider: cfgLoader, Cache: cacheStore}
	if historyStore != nil {
		doctorService.History = historyStore
	}

	c := &Container{
		ProcessService: processService,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		DoctorService:  doctorService,
		CacheStore:     cacheStore,
		Factory:        factory,
		Logger:         log,
		Config:         cfg,
	}
	if historyStore != nil {
		c.HistoryStore = historyStore
	}
	return c, nil
}

// Close releases store handles and flushes the logger.
func (c *Container) Close() error {
	var errs []error
	if c.HistoryStore != nil {
		errs = append(errs, c.HistoryStore.Close())
	}
	if closer, ok := c.CacheStore.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}

func openHistory(cfg domain.Config, log ports.Logger) ports.HistoryRepository {
	if !cfg.History.Enabled {
		return nil
	}
	retention := cfg.GetHistoryRetentionDays()

	if cfg.GetHistoryBackend() == domain.HistoryBackendFile {
		return history.NewFileStore(cfg.History.Path, retention)
	}

	store, err := history.NewSQLiteStore(cfg.History.Path, retention)
	if err == nil {
		return store
	}
	filePath := history.DefaultFilePath()
	if cfg.History.Path != "" {
		filePath = filepath.Join(filepath.Dir(cfg.History.Path), "history.jsonl")
	}
	log.Warn("sqlite history unavailable, using file store", map[string]interface{}{
		"error": err.Error(),
		"path":  filePath,
	})
	return history.NewFileStore(filePath, retention)
}

func openCache(cfg domain.Config, log ports.Logger) ports.CacheRepository {
	if cfg.GetCacheBackend() == domain.CacheBackendRedis && cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.GetCacheTTL())
		if err == nil {
			return redisCache
		}
		log.Warn("redis cache unavailable, using file cache", map[string]interface{}{"error": err.Error()})
	}
	return cache.NewFileCache(cfg.Cache.Dir, cfg.GetCacheTTL(), cfg.GetCacheMaxEntries())
}
