package domain

import (
	"math"
	"sort"
)

// HabitStat is a habit together with the progress figures the service derives
// from its completions. It is the record served by GET /habits.
type HabitStat struct {
	HabitID            int64   `json:"habit_id"`
	Name               string  `json:"name"`
	Goal               int     `json:"goal"`
	Category           string  `json:"category,omitempty"`
	CreatedAt          *Date   `json:"created_at"`
	CompletedDays      int     `json:"completed_days"`
	CurrentStreak      int     `json:"current_streak"`
	LongestStreak      int     `json:"longest_streak"`
	ConsistencyPercent float64 `json:"consistency_percent"`
}

type MissedEntry struct {
	HabitID    int64  `json:"habit_id"`
	Name       string `json:"name"`
	MissedDate *Date  `json:"missed_date,omitempty"`
}

type HistoryEntry struct {
	HabitID int64  `json:"habit_id"`
	Name    string `json:"name"`
	Date    Date   `json:"date"`
}

// Summary holds the best and worst habit by consistency. Both are nil when
// there are no habits.
type Summary struct {
	Best  *HabitStat `json:"best,omitempty"`
	Worst *HabitStat `json:"worst,omitempty"`
}

type Performance struct {
	Best  HabitStat   `json:"best_performing"`
	Worst HabitStat   `json:"worst_performing"`
	All   []HabitStat `json:"all_stats"`
}

// NewHabitStat derives the progress figures of h as of today.
func NewHabitStat(h *Habit, completed []Date, today Date) HabitStat {
	created := h.CreatedAt
	days := uniqueDays(completed)

	return HabitStat{
		HabitID:            h.ID,
		Name:               h.Name,
		Goal:               h.Goal,
		Category:           h.Category,
		CreatedAt:          &created,
		CompletedDays:      len(completed),
		CurrentStreak:      CurrentStreak(days, today),
		LongestStreak:      LongestStreak(days),
		ConsistencyPercent: Consistency(len(completed), h.CreatedAt, today),
	}
}

// Consistency is the share of days since creation (creation day included) on
// which the habit was completed, as a percentage rounded to two decimals.
func Consistency(completedDays int, createdAt, today Date) float64 {
	totalDays := createdAt.DaysUntil(today) + 1
	if totalDays <= 0 {
		return 0
	}

	pct := float64(completedDays) / float64(totalDays) * 100
	pct = math.Round(pct*100) / 100
	return math.Max(0, math.Min(100, pct))
}

// CurrentStreak counts consecutive completed days ending today. A habit not
// yet completed today has no current streak.
func CurrentStreak(days map[Date]bool, today Date) int {
	streak := 0
	for day := today; days[day]; day = day.AddDays(-1) {
		streak++
	}
	return streak
}

func LongestStreak(days map[Date]bool) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]Date, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	longest := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].DaysUntil(sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// MissedDays lists, in ascending order, every day from the habit's creation up
// to (excluding) today on which it was not completed.
func MissedDays(h *Habit, completed []Date, today Date) []Date {
	done := uniqueDays(completed)

	var missed []Date
	for day := h.CreatedAt; day.Before(today); day = day.AddDays(1) {
		if !done[day] {
			missed = append(missed, day)
		}
	}
	return missed
}

// uniqueDays collapses duplicate completion days. Zero dates are skipped.
func uniqueDays(dates []Date) map[Date]bool {
	days := make(map[Date]bool, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			days[d] = true
		}
	}
	return days
}
