package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// FileStore appends history entries to a JSONL file. Queries load the whole
// file, so it suits small histories and hosts without SQLite.
type FileStore struct {
	path          string
	mu            sync.Mutex
	retentionDays int
}

// NewFileStore creates a store at path. An empty path means DefaultFilePath.
func NewFileStore(path string, retentionDays int) *FileStore {
	if path == "" {
		path = DefaultFilePath()
	}
	return &FileStore{path: path, retentionDays: retentionDays}
}

// Append writes entry as one JSON line.
func (f *FileStore) Append(ctx context.Context, entry domain.HistoryEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encode entry: %w", err)
	}

	f.mu.Lock()
	err = f.appendLine(data)
	retention := f.retentionDays
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	if retention > 0 {
		if _, err := f.PruneOlderThan(ctx, retention); err != nil {
			return entry.ID, fmt.Errorf("prune history: %w", err)
		}
	}
	return entry.ID, nil
}

func (f *FileStore) appendLine(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(data, '\n'))
	return err
}

// Recent returns the newest entries.
func (f *FileStore) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	return f.filter(limit, func(domain.HistoryEntry) bool { return true })
}

// ByAction returns the newest entries for one action.
func (f *FileStore) ByAction(_ context.Context, action domain.Action, limit int) ([]domain.HistoryEntry, error) {
	return f.filter(limit, func(e domain.HistoryEntry) bool { return e.Action == action })
}

// ByDateRange returns entries with start <= timestamp <= end, newest first.
func (f *FileStore) ByDateRange(_ context.Context, start, end time.Time, limit int) ([]domain.HistoryEntry, error) {
	return f.filter(limit, func(e domain.HistoryEntry) bool {
		return !e.Timestamp.Before(start) && !e.Timestamp.After(end)
	})
}

// Search matches term case-insensitively against input, reference and
// option text.
func (f *FileStore) Search(_ context.Context, term string, limit int) ([]domain.HistoryEntry, error) {
	if term == "" {
		return nil, nil
	}
	return f.filter(limit, func(e domain.HistoryEntry) bool { return matchesTerm(e, term) })
}

// Stats counts entries per action.
func (f *FileStore) Stats(context.Context) (domain.HistoryStats, error) {
	entries, err := f.load()
	if err != nil {
		return domain.HistoryStats{}, err
	}
	return buildStats(entries), nil
}

func (f *FileStore) filter(limit int, keep func(domain.HistoryEntry) bool) ([]domain.HistoryEntry, error) {
	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	var out []domain.HistoryEntry
	for _, entry := range entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	newestFirst(out)
	return limitEntries(out, limit), nil
}

// load reads all entries, skipping lines that do not decode.
func (f *FileStore) load() ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked()
}

func (f *FileStore) loadLocked() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []domain.HistoryEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(line, &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

// PruneOlderThan removes entries older than days and reports how many went.
func (f *FileStore) PruneOlderThan(_ context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.loadLocked()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	kept := entries[:0]
	for _, entry := range entries {
		if !entry.Timestamp.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := writeJSONL(f.path, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// SetRetentionDays changes the retention applied on Append.
func (f *FileStore) SetRetentionDays(days int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retentionDays = days
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON writes every entry, newest first, to dest as JSONL.
func (f *FileStore) ExportJSON(ctx context.Context, dest string) error {
	entries, err := f.Recent(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Ping checks that the history directory is usable.
func (f *FileStore) Ping(context.Context) error {
	return os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op; the file is opened per write.
func (f *FileStore) Close() error {
	return nil
}

func writeJSONL(dest string, entries []domain.HistoryEntry) error {
	var buf bytes.Buffer
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(dest, buf.Bytes(), domain.SecureFilePermissions)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
