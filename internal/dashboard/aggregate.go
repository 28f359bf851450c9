// Package dashboard turns what the habit service returns into what the user
// sees: the best and worst habit, the merged missed feed and the named
// completion history, each loaded into its own slice of a Board.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// API is the part of the habit service the dashboard reads from.
type API interface {
	ListHabits(ctx context.Context, userID string) ([]domain.HabitStat, error)
	MissedToday(ctx context.Context, userID string) ([]domain.MissedEntry, error)
	MissedPrevious(ctx context.Context, userID string) ([]domain.MissedEntry, error)
	History(ctx context.Context, userID string, start, end domain.Date) ([]domain.HistoryEntry, error)
}

// Summarize ranks habits by consistency. Ties keep fetch order.
func Summarize(habits []domain.HabitStat) domain.Summary {
	return domain.RankByConsistency(habits)
}

// MergeMissed concatenates both feeds, today's first. Nothing is de-duplicated.
func MergeMissed(today, previous []domain.MissedEntry) []domain.MissedEntry {
	merged := make([]domain.MissedEntry, 0, len(today)+len(previous))
	merged = append(merged, today...)
	return append(merged, previous...)
}

// LoadMissed fetches both missed feeds concurrently. If either fails nothing
// is merged.
func LoadMissed(ctx context.Context, api API, userID string) ([]domain.MissedEntry, error) {
	var today, previous []domain.MissedEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = api.MissedToday(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = api.MissedPrevious(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeMissed(today, previous), nil
}

// HistoryFetcher returns completions between start and end inclusive.
type HistoryFetcher func(ctx context.Context, start, end domain.Date) ([]domain.HistoryEntry, error)

// BuildHistory fetches completions from the earliest habit creation day up to
// today and labels each one with its habit's name. Habits without a creation
// day are ignored; if none has one, nothing is fetched. A creation day after
// today (the service's calendar runs ahead of the local one) becomes the end
// of the range.
func BuildHistory(ctx context.Context, habits []domain.HabitStat, fetch HistoryFetcher, today domain.Date) ([]domain.HistoryEntry, error) {
	names := make(map[int64]string, len(habits))
	var start domain.Date

	for _, h := range habits {
		if h.CreatedAt == nil || h.CreatedAt.IsZero() {
			continue
		}
		names[h.HabitID] = h.Name
		if start.IsZero() || h.CreatedAt.Before(start) {
			start = *h.CreatedAt
		}
	}

	if len(names) == 0 {
		return []domain.HistoryEntry{}, nil
	}

	end := today
	if start.After(end) {
		end = start
	}

	raw, err := fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(raw))
	for _, e := range raw {
		name, ok := names[e.HabitID]
		if !ok {
			name = fmt.Sprintf("Habit #%d", e.HabitID)
		}
		entries = append(entries, domain.HistoryEntry{
			HabitID: e.HabitID,
			Name:    name,
			Date:    e.Date,
		})
	}
	return entries, nil
}

// FetchHistory reloads the habit list and builds the history from it.
func FetchHistory(ctx context.Context, api API, userID string, today domain.Date) ([]domain.HistoryEntry, error) {
	habits, err := api.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, start, end domain.Date) ([]domain.HistoryEntry, error) {
		return api.History(ctx, userID, start, end)
	}
	return BuildHistory(ctx, habits, fetch, today)
}
