package helpers

import (
	"github.com/doeshing/tunemate-go/internal/domain"
)

// ActionShare is one action's slice of the history.
type ActionShare struct {
	Action  domain.Action
	Count   int
	Percent float64
}

// CalculateActionShares converts per-action counts into percentages of the
// total, keeping the store's ordering. limit <= 0 keeps everything.
func CalculateActionShares(stats domain.HistoryStats, limit int) []ActionShare {
	shares := make([]ActionShare, 0, len(stats.ActionStats))
	for _, stat := range stats.ActionStats {
		shares = append(shares, ActionShare{
			Action:  stat.Action,
			Count:   stat.Count,
			Percent: CalculatePercent(stat.Count, stats.TotalEntries),
		})
	}
	if limit > 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// CalculatePercent returns part/total as a percentage, 0 for an empty total.
func CalculatePercent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// SuccessCount counts entries whose processing succeeded.
func SuccessCount(entries []domain.HistoryEntry) int {
	n := 0
	for _, entry := range entries {
		if entry.Searchable.ProcessingSuccess {
			n++
		}
	}
	return n
}
