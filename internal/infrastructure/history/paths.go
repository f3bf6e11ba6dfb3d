// Package history persists processing attempts to SQLite, or to a JSONL file
// when SQLite is unavailable.
package history

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/pkg/filesystem"
)

// DefaultDir is where history lives unless history.path says otherwise.
func DefaultDir() string {
	return filesystem.AppPath("history")
}

// DefaultSQLitePath returns ~/.tunemate/history/history.db.
func DefaultSQLitePath() string {
	return filepath.Join(DefaultDir(), "history.db")
}

// DefaultFilePath returns ~/.tunemate/history/history.jsonl.
func DefaultFilePath() string {
	return filepath.Join(DefaultDir(), "history.jsonl")
}

// optionsText flattens option contents for searching.
func optionsText(resp domain.StructuredResponse) string {
	parts := make([]string, 0, len(resp.Options))
	for _, option := range resp.Options {
		parts = append(parts, option.Content)
	}
	return strings.Join(parts, "\n")
}

func matchesTerm(entry domain.HistoryEntry, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{entry.InputText, entry.ReferenceText, string(entry.Action), optionsText(entry.Result)} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func newestFirst(entries []domain.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

func limitEntries(entries []domain.HistoryEntry, limit int) []domain.HistoryEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func buildStats(entries []domain.HistoryEntry) domain.HistoryStats {
	byAction := make(map[domain.Action]*domain.ActionStat)
	for _, entry := range entries {
		stat, ok := byAction[entry.Action]
		if !ok {
			stat = &domain.ActionStat{Action: entry.Action}
			byAction[entry.Action] = stat
		}
		stat.Count++
		if entry.Timestamp.After(stat.LastUsed) {
			stat.LastUsed = entry.Timestamp
		}
	}

	stats := domain.HistoryStats{TotalEntries: len(entries), ActionStats: make([]domain.ActionStat, 0, len(byAction))}
	for _, stat := range byAction {
		stats.ActionStats = append(stats.ActionStats, *stat)
	}
	sortActionStats(stats.ActionStats)
	return stats
}

// sortActionStats orders by count descending, then action name.
func sortActionStats(stats []domain.ActionStat) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Action < stats[j].Action
	})
}
