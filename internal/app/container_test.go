package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cache"
	"github.com/doeshing/tunemate-go/internal/infrastructure/history"
	"github.com/doeshing/tunemate-go/internal/pkg/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildContainerOffline(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `models:
  - name: offline
    provider: offline
history:
  enabled: true
  backend: sqlite
  path: `+filepath.Join(dir, "history.db")+`
cache:
  dir: `+filepath.Join(dir, "cache")+`
`)

	c, err := BuildContainer(context.Background(), Options{ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.IsType(t, &history.SQLiteStore{}, c.HistoryStore)
	assert.IsType(t, &cache.FileCache{}, c.CacheStore)

	result, err := c.ProcessService.Process(domain.ProcessRequest{
		Context: context.Background(),
		Text:    "i has a apple",
		Action:  "grammar",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeParsed, result.Response.Outcome)
	assert.True(t, result.ProcessingInfo.DatabaseSaved)

	entries, err := c.HistoryStore.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBuildContainerHistoryDisabled(t *testing.T) {
	path := writeConfig(t, `models:
  - name: offline
    provider: offline
history:
  enabled: false
`)
	c, err := BuildContainer(context.Background(), Options{ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.HistoryStore)
	assert.Nil(t, c.ProcessService.History)
	assert.Nil(t, c.DoctorService.History)
}

func TestOpenHistoryFallsBackToFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := domain.Config{History: domain.HistorySettings{
		Enabled: true,
		Backend: domain.HistoryBackendSQLite,
		Path:    filepath.Join(blocker, "history.db"),
	}}
	store := openHistory(cfg, logger.NewNop())
	require.IsType(t, &history.FileStore{}, store)
	assert.Equal(t, filepath.Join(blocker, "history.jsonl"), store.Path())
}

func TestOpenCacheRedisBadURLFallsBack(t *testing.T) {
	cfg := domain.Config{Cache: domain.CacheSettings{
		Backend:  domain.CacheBackendRedis,
		RedisURL: "not a url",
		Dir:      t.TempDir(),
	}}
	assert.IsType(t, &cache.FileCache{}, openCache(cfg, logger.NewNop()))

	cfg.Cache.RedisURL = "redis://127.0.0.1:6379/0"
	assert.IsType(t, &cache.RedisCache{}, openCache(cfg, logger.NewNop()))
}
