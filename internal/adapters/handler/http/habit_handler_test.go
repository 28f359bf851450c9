package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func TestCreateHabit(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")

		body := fmt.Sprintf(`{"name":"Read","goal":30,"category":"daily","user_id":%d}`, userID)
		w := s.do(http.MethodPost, "/habits", body, "")

		require.Equal(t, http.StatusCreated, w.Code)
		stat := decode[domain.HabitStat](t, w)
		assert.Equal(t, "Read", stat.Name)
		assert.Equal(t, 30, stat.Goal)
		assert.Equal(t, today.String(), stat.CreatedAt.String())
		assert.Zero(t, stat.CompletedDays)
	})

	t.Run("Success: Goal and user_id sent as strings", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":"21","user_id":"1"}`, "")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 21, decode[domain.HabitStat](t, w).Goal)
	})

	t.Run("Success: user_id taken from the token", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":5}`, s.token(t, userID))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Fail: 400 Bad Request (Missing fields)", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")

		w := s.do(http.MethodPost, "/habits", `{"goal":5,"user_id":1}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing fields")
	})

	t.Run("Fail: 400 Bad Request (Invalid category)", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":5,"category":"hourly","user_id":1}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 Bad Request (Zero goal)", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":0,"user_id":1}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 Not Found (Unknown user)", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":5,"user_id":99}`, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 403 Forbidden (Token of another user)", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")
		bob := s.seedUser(t, "bob")

		w := s.do(http.MethodPost, "/habits", `{"name":"Read","goal":5,"user_id":1}`, s.token(t, bob))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetHabits(t *testing.T) {
	t.Run("Success: Returns derived progress", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today.AddDays(-3))
		s.complete(t, habitID, today.AddDays(-1), today)

		w := s.do(http.MethodGet, fmt.Sprintf("/habits?user_id=%d", userID), "", "")

		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[[]domain.HabitStat](t, w)
		require.Len(t, stats, 1)
		assert.Equal(t, 2, stats[0].CompletedDays)
		assert.Equal(t, 2, stats[0].CurrentStreak)
		assert.Equal(t, 2, stats[0].LongestStreak)
		assert.Equal(t, 50.0, stats[0].ConsistencyPercent)
	})

	t.Run("Success: Empty list is an empty array", func(t *testing.T) {
		s := newTestServer(t, false)
		s.seedUser(t, "alice")

		w := s.do(http.MethodGet, "/habits?user_id=1", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Fail: 400 Bad Request (Missing user_id)", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodGet, "/habits", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing user_id")
	})

	t.Run("Fail: 401 Unauthorized (Token required)", func(t *testing.T) {
		s := newTestServer(t, true)
		s.seedUser(t, "alice")

		w := s.do(http.MethodGet, "/habits?user_id=1", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateHabitGoal(t *testing.T) {
	t.Run("Success: 200 OK", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today)

		w := s.do(http.MethodPut, fmt.Sprintf("/habits/%d", habitID), `{"goal":60}`, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 60, decode[domain.HabitStat](t, w).Goal)
	})

	t.Run("Fail: 400 Bad Request (Goal required)", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today)

		w := s.do(http.MethodPut, fmt.Sprintf("/habits/%d", habitID), `{}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Goal required")
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodPut, "/habits/999", `{"goal":5}`, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 404 Not Found (Habit of another user)", func(t *testing.T) {
		s := newTestServer(t, false)
		alice := s.seedUser(t, "alice")
		bob := s.seedUser(t, "bob")
		habitID := s.seedHabit(t, alice, "Run", today)

		w := s.do(http.MethodPut, fmt.Sprintf("/habits/%d", habitID), `{"goal":5}`, s.token(t, bob))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteHabit(t *testing.T) {
	t.Run("Success: 200 OK and completions removed", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today.AddDays(-1))
		s.complete(t, habitID, today)

		w := s.do(http.MethodDelete, fmt.Sprintf("/habits/%d", habitID), "", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Habit deleted")

		list := s.do(http.MethodGet, "/habits?user_id=1", "", "")
		assert.JSONEq(t, `[]`, list.Body.String())
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodDelete, "/habits/42", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 404 Not Found (Non numeric id)", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodDelete, "/habits/abc", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemindHabit(t *testing.T) {
	t.Run("Success: 202 Accepted", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today)

		w := s.do(http.MethodPost, fmt.Sprintf("/habits/%d/remind", habitID), "", "")

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, s.queue.queued, 1)
		assert.Equal(t, "Run", s.queue.queued[0].HabitName)
		assert.Equal(t, userID, s.queue.queued[0].UserID)
	})

	t.Run("Fail: 503 Service Unavailable (Queue full)", func(t *testing.T) {
		s := newTestServer(t, false)
		userID := s.seedUser(t, "alice")
		habitID := s.seedHabit(t, userID, "Run", today)
		s.queue.accept = false

		w := s.do(http.MethodPost, fmt.Sprintf("/habits/%d/remind", habitID), "", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		s := newTestServer(t, false)

		w := s.do(http.MethodPost, "/habits/5/remind", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
