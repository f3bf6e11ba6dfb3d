package history

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

type storeFactory func(t *testing.T) ports.HistoryRepository

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"sqlite": func(t *testing.T) ports.HistoryRepository {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), 0)
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"file": func(t *testing.T) ports.HistoryRepository {
			return NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"), 0)
		},
	}
}

func entry(action domain.Action, text string, at time.Time, contents ...string) domain.HistoryEntry {
	options := make([]domain.OptionRecord, 0, len(contents))
	for i, content := range contents {
		options = append(options, domain.OptionRecord{ID: "option_" + string(rune('1'+i)), Content: content, Type: domain.OptionStandard})
	}
	resp := domain.StructuredResponse{
		Action:    action,
		Timestamp: at,
		Options:   options,
		Metadata:  domain.ResponseMetadata{TotalOptions: len(options)},
		Success:   true,
		Outcome:   domain.OutcomeParsed,
	}
	return domain.HistoryEntry{
		InputText:  text,
		Action:     action,
		Result:     resp,
		Timestamp:  at,
		Provenance: domain.Provenance{IP: "127.0.0.1", UserAgent: "go-test", SessionID: "s1"},
		Searchable: domain.NewSearchableFields(resp),
	}
}

func seed(t *testing.T, store ports.HistoryRepository, entries ...domain.HistoryEntry) []string {
	t.Helper()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		id, err := store.Append(context.Background(), e)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}
	return ids
}

func TestStoreAppendAndQuery(t *testing.T) {
	now := time.Now()
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			ids := seed(t, store,
				entry(domain.ActionReply, "see you at five", now.Add(-3*time.Hour), "Sounds good!", "Sure thing"),
				entry(domain.ActionGrammar, "i has apple", now.Add(-2*time.Hour), "I have an apple."),
				entry(domain.ActionReply, "thanks for the gift", now.Add(-1*time.Hour), "You're welcome!"),
			)

			recent, err := store.Recent(ctx, 2)
			require.NoError(t, err)
			require.Len(t, recent, 2)
			assert.Equal(t, ids[2], recent[0].ID)
			assert.Equal(t, "thanks for the gift", recent[0].InputText)
			assert.Equal(t, "You're welcome!", recent[0].Result.PrimaryContent())
			assert.Equal(t, "127.0.0.1", recent[0].Provenance.IP)
			assert.True(t, recent[0].Timestamp.Equal(now.Add(-1*time.Hour)))

			replies, err := store.ByAction(ctx, domain.ActionReply, 0)
			require.NoError(t, err)
			require.Len(t, replies, 2)
			assert.Equal(t, ids[0], replies[1].ID)
			assert.True(t, replies[1].Searchable.HasMultipleOptions)
			assert.Equal(t, 2, replies[1].Searchable.OptionCount)

			ranged, err := store.ByDateRange(ctx, now.Add(-150*time.Minute), now, 0)
			require.NoError(t, err)
			assert.Len(t, ranged, 2)

			found, err := store.Search(ctx, "APPLE", 10)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, ids[1], found[0].ID)

			byOption, err := store.Search(ctx, "welcome", 10)
			require.NoError(t, err)
			require.Len(t, byOption, 1)
			assert.Equal(t, ids[2], byOption[0].ID)

			none, err := store.Search(ctx, "100%", 10)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreStats(t *testing.T) {
	now := time.Now()
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			seed(t, store,
				entry(domain.ActionReply, "a", now.Add(-time.Hour), "x"),
				entry(domain.ActionReply, "b", now, "y"),
				entry(domain.ActionPolite, "c", now.Add(-2*time.Hour), "z"),
			)

			stats, err := store.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 3, stats.TotalEntries)
			require.Len(t, stats.ActionStats, 2)
			assert.Equal(t, domain.ActionReply, stats.ActionStats[0].Action)
			assert.Equal(t, 2, stats.ActionStats[0].Count)
			assert.True(t, stats.ActionStats[0].LastUsed.Equal(now))
			assert.Equal(t, domain.ActionPolite, stats.ActionStats[1].Action)
		})
	}
}

func TestStorePruneAndRetention(t *testing.T) {
	now := time.Now()
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			seed(t, store,
				entry(domain.ActionReply, "old", now.AddDate(0, 0, -40), "x"),
				entry(domain.ActionReply, "recent", now.AddDate(0, 0, -5), "y"),
			)

			removed, err := store.PruneOlderThan(ctx, 0)
			require.NoError(t, err)
			assert.Zero(t, removed)

			removed, err = store.PruneOlderThan(ctx, 30)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			store.SetRetentionDays(3)
			seed(t, store, entry(domain.ActionReply, "new", now, "z"))

			left, err := store.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, left, 1)
			assert.Equal(t, "new", left[0].InputText)
		})
	}
}

func TestStoreExportAndClear(t *testing.T) {
	now := time.Now()
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			seed(t, store,
				entry(domain.ActionReply, "one", now.Add(-time.Minute), "x"),
				entry(domain.ActionGrammar, "two", now, "y"),
			)

			dest := filepath.Join(t.TempDir(), "export", "history.jsonl")
			require.NoError(t, store.ExportJSON(ctx, dest))
			assert.Equal(t, 2, countLines(t, dest))

			require.NoError(t, store.Ping(ctx))
			require.NoError(t, store.Clear(ctx))
			left, err := store.Recent(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	store := NewFileStore(path, 0)
	seed(t, store, entry(domain.ActionReply, "ok", time.Now(), "x"))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewSQLiteStoreBadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewSQLiteStore(filepath.Join(blocker, "history.db"), 0)
	assert.Error(t, err)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n
}
