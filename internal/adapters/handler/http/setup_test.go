package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
)

var today = domain.NewDate(2024, time.March, 10)

type fakeQueue struct {
	accept bool
	queued []domain.Reminder
}

func (q *fakeQueue) Enqueue(r domain.Reminder) bool {
	if !q.accept {
		return false
	}
	q.queued = append(q.queued, r)
	return true
}

type testServer struct {
	router      *gin.Engine
	users       *repository.InMemoryUserRepository
	habits      *repository.InMemoryHabitRepository
	completions *repository.InMemoryCompletionRepository
	tokens      *services.TokenService
	queue       *fakeQueue
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	completions := repository.NewInMemoryCompletionRepository()
	habits := repository.NewInMemoryHabitRepository(completions)
	clock := services.FixedClock(today)
	queue := &fakeQueue{accept: true}

	tokens := services.NewTokenService("handler-test-secret", "kanso-test", time.Hour, users)
	habitSvc := services.NewHabitService(habits, completions, users, clock).WithReminders(queue)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(services.NewAuthService(users), tokens),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitSvc),
		CompletionHandler: adapterHTTP.NewCompletionHandler(services.NewCompletionService(completions, habits, clock)),
		StatsHandler:      adapterHTTP.NewStatsHandler(services.NewStatsService(habits, completions, clock)),
		TokenService:      tokens,
		AuthRequired:      authRequired,
		StartTime:         time.Now(),
	})

	return &testServer{
		router:      router,
		users:       users,
		habits:      habits,
		completions: completions,
		tokens:      tokens,
		queue:       queue,
	}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedUser(t *testing.T, username string) int64 {
	t.Helper()
	user, err := domain.NewUser(username, "pw")
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), user))
	return user.ID
}

func (s *testServer) seedHabit(t *testing.T, userID int64, name string, created domain.Date) int64 {
	t.Helper()
	h, err := domain.NewHabit(userID, name, 30, "", created)
	require.NoError(t, err)
	require.NoError(t, s.habits.Create(context.Background(), h))
	return h.ID
}

func (s *testServer) complete(t *testing.T, habitID int64, days ...domain.Date) {
	t.Helper()
	for _, d := range days {
		require.NoError(t, s.completions.Create(context.Background(), domain.NewCompletion(habitID, d)))
	}
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
