package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/doeshing/tunemate-go/internal/app"
	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/tunemate-go/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect processing history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
		newHistoryRetainCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		action string
		since  string
		until  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			var parsed domain.Action
			if action != "" {
				var ok bool
				parsed, ok = domain.ParseAction(action)
				if !ok {
					return fmt.Errorf("unknown action %q (available: %s)", action, strings.Join(domain.KnownActionNames(), ", "))
				}
			}
			var entries []domain.HistoryEntry
			switch {
			case since != "" || until != "":
				start, end, rangeErr := domain.ResolveDateRange(since, until, time.Now())
				if rangeErr != nil {
					return rangeErr
				}
				entries, err = listRange(cmd.Context(), store, start, end, parsed, limit)
			case parsed != "":
				entries, err = store.ByAction(cmd.Context(), parsed, limit)
			default:
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("failed to retrieve history entries: %w", err)
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVarP(&action, "action", "a", "", "Only show entries for this action")
	cmd.Flags().StringVar(&since, "since", "", "Only show entries at or after this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Only show entries at or before this time (RFC3339 or YYYY-MM-DD)")
	return cmd
}

func listRange(ctx context.Context, store ports.HistoryRepository, start, end time.Time, action domain.Action, limit int) ([]domain.HistoryEntry, error) {
	if action == "" {
		return store.ByDateRange(ctx, start, end, limit)
	}
	all, err := store.ByDateRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}
	var out []domain.HistoryEntry
	for _, entry := range all {
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search history input, reference, action and answers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			entries, err := store.Search(cmd.Context(), strings.Join(args, " "), searchLimit)
			if err != nil {
				return fmt.Errorf("failed to search history: %w", err)
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.ExportJSON(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", args[0])
			return nil
		},
	}
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-action usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), store)
		},
	}
}

func newHistoryRetainCommand(container *app.Container) *cobra.Command {
	var retainDays int

	cmd := &cobra.Command{
		Use:   "retain",
		Short: "Prune history older than N days and update retention policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if retainDays <= 0 {
				return errors.New(ErrInvalidRetainDays)
			}
			return updateHistoryRetention(cmd.Context(), cmd.OutOrStdout(), container, retainDays)
		},
	}

	cmd.Flags().IntVar(&retainDays, "days", DefaultHistoryRetainDays, "Days to retain history")
	return cmd
}

func historyStore(container *app.Container) (ports.HistoryRepository, error) {
	if container.HistoryStore == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return container.HistoryStore, nil
}

func printEntries(out io.Writer, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %-9s | %s | %s\n",
			entry.Timestamp.Local().Format(TimestampFormat),
			entry.Action,
			truncate(entry.InputText, previewWidth),
			truncate(entry.Result.PrimaryContent(), previewWidth))
	}
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func showHistoryStats(ctx context.Context, out io.Writer, store ports.HistoryRepository) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute history stats: %w", err)
	}
	if stats.TotalEntries == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	recent, err := store.Recent(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	fmt.Fprintf(out, "Entries: %d\nSuccess rate: %.1f%%\n",
		stats.TotalEntries,
		helpers.CalculatePercent(helpers.SuccessCount(recent), len(recent)))

	fmt.Fprintln(out, "By action:")
	lastUsed := make(map[domain.Action]string, len(stats.ActionStats))
	for _, stat := range stats.ActionStats {
		lastUsed[stat.Action] = stat.LastUsed.Local().Format(TimestampFormat)
	}
	for _, share := range helpers.CalculateActionShares(stats, 0) {
		fmt.Fprintf(out, "  %-9s %4d (%5.1f%%)  last used %s\n", share.Action, share.Count, share.Percent, lastUsed[share.Action])
	}
	return nil
}

func updateHistoryRetention(ctx context.Context, out io.Writer, container *app.Container, days int) error {
	store, err := historyStore(container)
	if err != nil {
		return err
	}

	removed, err := store.PruneOlderThan(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to prune old history: %w", err)
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.History.RetentionDays = days
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	store.SetRetentionDays(days)

	fmt.Fprintf(out, "Removed %d entries. Retaining last %d days of history.\n", removed, days)
	return nil
}
