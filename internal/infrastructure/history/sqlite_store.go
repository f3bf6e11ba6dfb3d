package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS history (
	id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	action TEXT NOT NULL,
	input_text TEXT NOT NULL,
	reference_text TEXT NOT NULL DEFAULT '',
	options_text TEXT NOT NULL DEFAULT '',
	ip TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	session_id TEXT NOT NULL DEFAULT '',
	option_count INTEGER NOT NULL DEFAULT 0,
	has_multiple_options INTEGER NOT NULL DEFAULT 0,
	processing_success INTEGER NOT NULL DEFAULT 0,
	result_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
CREATE INDEX IF NOT EXISTS idx_history_action ON history(action);`

const selectColumns = `SELECT id, timestamp, action, input_text, reference_text, ip, user_agent, session_id,
	option_count, has_multiple_options, processing_success, result_json FROM history`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db            *sql.DB
	path          string
	mu            sync.Mutex
	retentionDays int
}

// NewSQLiteStore opens (or creates) the database at path. An empty path
// means DefaultSQLitePath.
func NewSQLiteStore(path string, retentionDays int) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultSQLitePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: path, retentionDays: retentionDays}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return store, nil
}

// Append inserts a new entry and prunes expired ones when retention is set.
func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	result, err := json.Marshal(entry.Result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	s.mu.Lock()
	_, err = s.db.ExecContext(ctx, `INSERT INTO history
		(id, timestamp, action, input_text, reference_text, options_text, ip, user_agent, session_id,
		 option_count, has_multiple_options, processing_success, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UnixNano(),
		string(entry.Action),
		entry.InputText,
		entry.ReferenceText,
		optionsText(entry.Result),
		entry.Provenance.IP,
		entry.Provenance.UserAgent,
		entry.Provenance.SessionID,
		entry.Searchable.OptionCount,
		boolToInt(entry.Searchable.HasMultipleOptions),
		boolToInt(entry.Searchable.ProcessingSuccess),
		string(result),
	)
	retention := s.retentionDays
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("insert history: %w", err)
	}

	if retention > 0 {
		if _, err := s.PruneOlderThan(ctx, retention); err != nil {
			return entry.ID, fmt.Errorf("prune history: %w", err)
		}
	}
	return entry.ID, nil
}

// Recent returns the newest entries.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return s.query(ctx, "", nil, limit)
}

// ByAction returns the newest entries for one action.
func (s *SQLiteStore) ByAction(ctx context.Context, action domain.Action, limit int) ([]domain.HistoryEntry, error) {
	return s.query(ctx, "action = ?", []interface{}{string(action)}, limit)
}

// ByDateRange returns entries with start <= timestamp <= end, newest first.
func (s *SQLiteStore) ByDateRange(ctx context.Context, start, end time.Time, limit int) ([]domain.HistoryEntry, error) {
	return s.query(ctx, "timestamp >= ? AND timestamp <= ?", []interface{}{start.UnixNano(), end.UnixNano()}, limit)
}

// Search matches term case-insensitively against input, reference, action
// and option text.
func (s *SQLiteStore) Search(ctx context.Context, term string, limit int) ([]domain.HistoryEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return s.query(ctx,
		`input_text LIKE ? ESCAPE '\' OR reference_text LIKE ? ESCAPE '\' OR action LIKE ? ESCAPE '\' OR options_text LIKE ? ESCAPE '\'`,
		[]interface{}{pattern, pattern, pattern, pattern},
		limit,
	)
}

func (s *SQLiteStore) query(ctx context.Context, where string, args []interface{}, limit int) ([]domain.HistoryEntry, error) {
	builder := strings.Builder{}
	builder.WriteString(selectColumns)
	if where != "" {
		builder.WriteString(" WHERE ")
		builder.WriteString(where)
	}
	builder.WriteString(" ORDER BY timestamp DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (domain.HistoryEntry, error) {
	var (
		entry                  domain.HistoryEntry
		ts                     int64
		action, result         string
		multiple, processingOK int
	)
	if err := rows.Scan(
		&entry.ID, &ts, &action, &entry.InputText, &entry.ReferenceText,
		&entry.Provenance.IP, &entry.Provenance.UserAgent, &entry.Provenance.SessionID,
		&entry.Searchable.OptionCount, &multiple, &processingOK, &result,
	); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("scan history: %w", err)
	}
	entry.Timestamp = time.Unix(0, ts)
	entry.Action = domain.Action(action)
	entry.Searchable.ActionType = entry.Action
	entry.Searchable.HasMultipleOptions = multiple == 1
	entry.Searchable.ProcessingSuccess = processingOK == 1
	if err := json.Unmarshal([]byte(result), &entry.Result); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("decode result %s: %w", entry.ID, err)
	}
	return entry, nil
}

// Stats counts entries per action.
func (s *SQLiteStore) Stats(ctx context.Context) (domain.HistoryStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT action, COUNT(*), MAX(timestamp) FROM history GROUP BY action`)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	stats := domain.HistoryStats{ActionStats: []domain.ActionStat{}}
	for rows.Next() {
		var (
			action string
			count  int
			last   int64
		)
		if err := rows.Scan(&action, &count, &last); err != nil {
			return domain.HistoryStats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.TotalEntries += count
		stats.ActionStats = append(stats.ActionStats, domain.ActionStat{
			Action:   domain.Action(action),
			Count:    count,
			LastUsed: time.Unix(0, last),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryStats{}, err
	}
	sortActionStats(stats.ActionStats)
	return stats, nil
}

// PruneOlderThan deletes entries older than days and reports how many went.
// Non-positive days is a no-op.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE timestamp < ?", cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// SetRetentionDays changes the retention applied on Append.
func (s *SQLiteStore) SetRetentionDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retentionDays = days
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM history")
	return err
}

// ExportJSON writes every entry, newest first, to dest as JSONL.
func (s *SQLiteStore) ExportJSON(ctx context.Context, dest string) error {
	entries, err := s.Recent(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("history db not open")
	}
	return s.db.PingContext(ctx)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
