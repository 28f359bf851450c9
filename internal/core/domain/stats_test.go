package domain_test

import (
	"testing"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(s ...string) []domain.Date {
	out := make([]domain.Date, 0, len(s))
	for _, v := range s {
		out = append(out, domain.MustParseDate(v))
	}
	return out
}

func TestConsistency(t *testing.T) {
	created := domain.MustParseDate("2024-01-01")

	tests := []struct {
		name      string
		completed int
		today     string
		want      float64
	}{
		{"Created today and done", 1, "2024-01-01", 100},
		{"One of three days", 1, "2024-01-03", 33.33},
		{"Two of three days", 2, "2024-01-03", 66.67},
		{"Nothing yet", 0, "2024-01-10", 0},
		{"Clock behind creation", 3, "2023-12-30", 0},
		{"Clamped to 100", 5, "2024-01-02", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Consistency(tt.completed, created, domain.MustParseDate(tt.today))
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestStreaks(t *testing.T) {
	today := domain.MustParseDate("2024-01-10")

	t.Run("Current streak ends today", func(t *testing.T) {
		h := &domain.Habit{ID: 1, Name: "Run", Goal: 30, CreatedAt: domain.MustParseDate("2024-01-01")}
		stat := domain.NewHabitStat(h, days("2024-01-08", "2024-01-09", "2024-01-10", "2024-01-03"), today)

		assert.Equal(t, 3, stat.CurrentStreak)
		assert.Equal(t, 3, stat.LongestStreak)
		assert.Equal(t, 4, stat.CompletedDays)
		assert.InDelta(t, 40.0, stat.ConsistencyPercent, 0.001)
		require.NotNil(t, stat.CreatedAt)
		assert.Equal(t, "2024-01-01", stat.CreatedAt.String())
	})

	t.Run("Not done today means no current streak", func(t *testing.T) {
		h := &domain.Habit{ID: 1, CreatedAt: domain.MustParseDate("2024-01-01")}
		stat := domain.NewHabitStat(h, days("2024-01-02", "2024-01-03", "2024-01-04", "2024-01-09"), today)

		assert.Equal(t, 0, stat.CurrentStreak)
		assert.Equal(t, 3, stat.LongestStreak)
	})

	t.Run("Duplicate days count once for streaks", func(t *testing.T) {
		streak := domain.LongestStreak(map[domain.Date]bool{})
		assert.Equal(t, 0, streak)

		h := &domain.Habit{ID: 1, CreatedAt: today}
		stat := domain.NewHabitStat(h, days("2024-01-10", "2024-01-10"), today)
		assert.Equal(t, 1, stat.CurrentStreak)
		assert.Equal(t, 1, stat.LongestStreak)
	})

	t.Run("Zero dates are ignored", func(t *testing.T) {
		h := &domain.Habit{ID: 1, CreatedAt: domain.MustParseDate("2024-01-08")}
		completed := append(days("2024-01-09", "2024-01-10"), domain.Date{})

		var stat domain.HabitStat
		require.NotPanics(t, func() { stat = domain.NewHabitStat(h, completed, today) })
		assert.Equal(t, 2, stat.CurrentStreak)
		assert.Equal(t, 2, stat.LongestStreak)

		assert.Equal(t, 1, domain.LongestStreak(map[domain.Date]bool{domain.MustParseDate("2024-01-09"): true}))
	})
}

func TestMissedDays(t *testing.T) {
	h := &domain.Habit{ID: 1, CreatedAt: domain.MustParseDate("2024-01-01")}
	today := domain.MustParseDate("2024-01-05")

	missed := domain.MissedDays(h, days("2024-01-02", "2024-01-04", "2024-01-05"), today)

	assert.Equal(t, days("2024-01-01", "2024-01-03"), missed)

	t.Run("Created today has nothing missed", func(t *testing.T) {
		fresh := &domain.Habit{ID: 2, CreatedAt: today}
		assert.Empty(t, domain.MissedDays(fresh, nil, today))
	})
}
