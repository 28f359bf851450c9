package dashboard

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRender(t *testing.T) {
	today := domain.NewDate(2024, time.March, 10)

	t.Run("Success: All slices ready", func(t *testing.T) {
		read := domain.HabitStat{HabitID: 1, Name: "Read", Goal: 30, CreatedAt: date(2024, time.January, 5), CurrentStreak: 2, ConsistencyPercent: 42.5}
		run := domain.HabitStat{HabitID: 2, Name: "Run", Goal: 10, CreatedAt: date(2024, time.February, 1), ConsistencyPercent: 12.25}

		v := View{
			Username: "alice",
			Today:    today,
			Habits:   SliceState[[]domain.HabitStat]{Status: StatusReady, Data: []domain.HabitStat{read, run}},
			Summary:  Summarize([]domain.HabitStat{read, run}),
			Missed: SliceState[[]domain.MissedEntry]{Status: StatusReady, Data: []domain.MissedEntry{
				{HabitID: 2, Name: "Run"},
				{HabitID: 2, Name: "Run", MissedDate: date(2024, time.March, 9)},
			}},
			History: SliceState[[]domain.HistoryEntry]{Status: StatusReady, Data: []domain.HistoryEntry{
				{HabitID: 1, Name: "Read", Date: domain.NewDate(2024, time.March, 9)},
				{HabitID: 2, Name: "Run", Date: domain.NewDate(2024, time.February, 1)},
			}},
		}

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, v))

		newGoldie(t).Assert(t, "dashboard_ready", buf.Bytes())
	})

	t.Run("Success: Failed, loading and empty slices", func(t *testing.T) {
		v := View{
			Username: "bob",
			Today:    today,
			Habits:   SliceState[[]domain.HabitStat]{Status: StatusError, Err: MsgHabitsFailed},
			Missed:   SliceState[[]domain.MissedEntry]{Status: StatusLoading},
			History:  SliceState[[]domain.HistoryEntry]{Status: StatusReady, Data: []domain.HistoryEntry{}},
		}

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, v))

		newGoldie(t).Assert(t, "dashboard_partial", buf.Bytes())
	})

	t.Run("Success: Same view renders the same bytes", func(t *testing.T) {
		v := View{Username: "carol", Today: today}

		var a, b bytes.Buffer
		require.NoError(t, Render(&a, v))
		require.NoError(t, Render(&b, v))

		assert.Equal(t, a.String(), b.String())
	})
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "50%", FormatPercent(50))
	assert.Equal(t, "42.5%", FormatPercent(42.5))
	assert.Equal(t, "N/A", FormatGoal(0))
	assert.Equal(t, "7", FormatGoal(7))
	assert.Equal(t, "", FormatDate(nil))
	assert.Equal(t, "Jan 5, 2024", FormatDate(date(2024, time.January, 5)))
}
