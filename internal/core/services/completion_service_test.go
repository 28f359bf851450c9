package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionFixture() (*MockRepo, *MockCompletionRepo, *services.CompletionService) {
	habits := NewMockRepo()
	completions := &MockCompletionRepo{}
	habits.seed(domain.Habit{ID: 1, UserID: 1, Name: "Run", Goal: 10, CreatedAt: domain.MustParseDate("2024-03-07")})
	habits.seed(domain.Habit{ID: 2, UserID: 1, Name: "Read", Goal: 10, CreatedAt: domain.MustParseDate("2024-03-09")})
	habits.seed(domain.Habit{ID: 3, UserID: 2, Name: "Swim", Goal: 10, CreatedAt: domain.MustParseDate("2024-03-01")})
	return habits, completions, services.NewCompletionService(completions, habits, services.FixedClock(today))
}

func TestCompletionService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Marks habit done today", func(t *testing.T) {
		_, completions, svc := newCompletionFixture()

		c, err := svc.Complete(ctx, 1, 1)

		require.NoError(t, err)
		assert.Equal(t, today, c.Date)
		assert.NotZero(t, c.ID)
		done, _ := completions.Exists(ctx, 1, today)
		assert.True(t, done)
	})

	t.Run("Fail: Second completion on the same day", func(t *testing.T) {
		_, _, svc := newCompletionFixture()

		_, err := svc.Complete(ctx, 1, 0)
		require.NoError(t, err)

		_, err = svc.Complete(ctx, 1, 0)
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})

	t.Run("Fail: Unknown habit", func(t *testing.T) {
		_, _, svc := newCompletionFixture()

		_, err := svc.Complete(ctx, 404, 0)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Fail: Security - Cannot complete other user's habit (IDOR)", func(t *testing.T) {
		_, _, svc := newCompletionFixture()

		_, err := svc.Complete(ctx, 3, 1)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Fail: Repo Error propagates", func(t *testing.T) {
		_, completions, svc := newCompletionFixture()
		completions.simulateError = errors.New("db down")

		_, err := svc.Complete(ctx, 1, 1)
		assert.ErrorContains(t, err, "db down")
	})
}

func TestCompletionService_History(t *testing.T) {
	ctx := context.Background()
	_, completions, svc := newCompletionFixture()
	completions.add(2, "2024-03-09")
	completions.add(1, "2024-03-09", "2024-03-07", "2024-03-10")
	completions.add(3, "2024-03-09")

	t.Run("Success: Orders by date then habit and names entries", func(t *testing.T) {
		history, err := svc.History(ctx, services.HistoryInput{
			UserID: 1,
			Start:  domain.MustParseDate("2024-03-08"),
			End:    domain.MustParseDate("2024-03-10"),
		})

		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, domain.HistoryEntry{HabitID: 1, Name: "Run", Date: domain.MustParseDate("2024-03-09")}, history[0])
		assert.Equal(t, domain.HistoryEntry{HabitID: 2, Name: "Read", Date: domain.MustParseDate("2024-03-09")}, history[1])
		assert.Equal(t, int64(1), history[2].HabitID)
		assert.Equal(t, "2024-03-10", history[2].Date.String())
	})

	t.Run("Success: User without habits gets empty history", func(t *testing.T) {
		history, err := svc.History(ctx, services.HistoryInput{UserID: 9, Start: today, End: today})
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})

	t.Run("Success: Start after end is an empty range", func(t *testing.T) {
		history, err := svc.History(ctx, services.HistoryInput{UserID: 1, Start: today, End: today.AddDays(-1)})
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})

	t.Run("Fail: Missing dates", func(t *testing.T) {
		_, err := svc.History(ctx, services.HistoryInput{UserID: 1, Start: today})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}

func TestCompletionService_Missed(t *testing.T) {
	ctx := context.Background()
	_, completions, svc := newCompletionFixture()
	completions.add(1, "2024-03-08", "2024-03-10")

	t.Run("MissedToday lists habits not done today", func(t *testing.T) {
		missed, err := svc.MissedToday(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, []domain.MissedEntry{{HabitID: 2, Name: "Read"}}, missed)
	})

	t.Run("MissedPrevious lists every skipped day before today", func(t *testing.T) {
		missed, err := svc.MissedPrevious(ctx, 1)

		require.NoError(t, err)
		require.Len(t, missed, 3)

		assert.Equal(t, int64(1), missed[0].HabitID)
		assert.Equal(t, "2024-03-07", missed[0].MissedDate.String())
		assert.Equal(t, int64(1), missed[1].HabitID)
		assert.Equal(t, "2024-03-09", missed[1].MissedDate.String())
		assert.Equal(t, int64(2), missed[2].HabitID)
		assert.Equal(t, "Read", missed[2].Name)
		assert.Equal(t, "2024-03-09", missed[2].MissedDate.String())
	})

	t.Run("Fail: Repo Error propagates", func(t *testing.T) {
		completions.simulateError = errors.New("db down")
		defer func() { completions.simulateError = nil }()

		_, err := svc.MissedPrevious(ctx, 1)
		assert.ErrorContains(t, err, "failed to load completions")
	})
}
