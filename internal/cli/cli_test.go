package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
	"github.com/comitanigiacomo/kanso-habits/internal/session"
)

type fakeHabitService struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	auth     []string
}

func (f *fakeHabitService) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		line += "?" + r.URL.RawQuery
	}
	f.requests = append(f.requests, line)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
}

func (f *fakeHabitService) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newFakeHabitService(t *testing.T) *fakeHabitService {
	t.Helper()
	f := &fakeHabitService{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered", "user_id": 42, "token": "tok-42"})
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "x" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Logged in", "user_id": 7, "token": "tok-7"})
	})
	mux.HandleFunc("GET /habits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"habit_id": 1, "name": "Read", "goal": 30, "created_at": "2024-01-05", "current_streak": 2, "consistency_percent": 50},
		})
	})
	mux.HandleFunc("POST /habits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"habit_id": 2, "name": "Run", "goal": 10})
	})
	mux.HandleFunc("GET /habits/missed/today", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /habits/missed/previous", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /habits/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"habit_id": 1, "date": "2024-01-06"}})
	})
	mux.HandleFunc("POST /habits/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Already marked complete today"})
	})

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

type harness struct {
	srv         *fakeHabitService
	sessionFile string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		srv:         newFakeHabitService(t),
		sessionFile: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--api-url", h.srv.URL, "--session-file", h.sessionFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.run("login", "-u", "alice", "-p", "x")
	require.NoError(t, err)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "habits", cmd.Use)

	for _, name := range []string{"register", "login", "logout", "add", "complete", "delete", "goal", "remind", "dashboard", "stats", "tui"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	for _, flag := range []string{"verbose", "format", "api-url", "session-file", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRegisterThenDashboard(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("register", "-u", "alice", "-p", "x")
	require.NoError(t, err)
	assert.Contains(t, out, dashboard.MsgRegistered)

	sess, err := session.NewFileStore(h.sessionFile).Load()
	require.NoError(t, err)
	assert.Equal(t, "42", sess.UserID)
	assert.Equal(t, "alice", sess.Username)

	out, err = h.run("dashboard")
	require.NoError(t, err)

	assert.Contains(t, h.srv.seen(), "GET /habits?user_id=42")
	assert.Contains(t, out, "Habit Tracker: alice")
	assert.Contains(t, out, "Read completed on Jan 6, 2024")
}

func TestLogin(t *testing.T) {
	t.Run("Success: Session saved with the returned user", func(t *testing.T) {
		h := newHarness(t)

		out, err := h.run("login", "-u", "alice", "-p", "x")

		require.NoError(t, err)
		assert.Contains(t, out, "Logged in.")
		sess, err := session.NewFileStore(h.sessionFile).Load()
		require.NoError(t, err)
		assert.Equal(t, "7", sess.UserID)
		assert.Equal(t, "tok-7", sess.Token)
	})

	t.Run("Fail: Wrong password", func(t *testing.T) {
		h := newHarness(t)

		out, err := h.run("login", "-u", "alice", "-p", "nope")

		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, dashboard.MsgInvalidLogin)
		_, err = session.NewFileStore(h.sessionFile).Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("Success: Logout forgets the session", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		_, err := h.run("logout")
		require.NoError(t, err)

		_, err = h.run("dashboard")
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestDashboardCommand(t *testing.T) {
	t.Run("Fail: Not logged in", func(t *testing.T) {
		h := newHarness(t)

		out, err := h.run("dashboard")

		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "not logged in")
		assert.Empty(t, h.srv.seen())
	})

	t.Run("Success: JSON output", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out, err := h.run("--format", "json", "dashboard")
		require.NoError(t, err)

		var resp struct {
			Status string        `json:"status"`
			Data   dashboardJSON `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ready", resp.Data.Habits.Status)
		assert.Equal(t, "Read", resp.Data.Summary.Best.Name)
	})

	t.Run("Fail: Unknown format", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.run("--format", "xml", "dashboard")

		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestHabitCommands(t *testing.T) {
	t.Run("Success: Add sends the session user", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out, err := h.run("add", "--name", "Run", "--goal", "10")

		require.NoError(t, err)
		assert.Contains(t, out, dashboard.MsgHabitAdded)
		assert.Contains(t, h.srv.seen(), "POST /habits")
	})

	t.Run("Fail: Add without a goal never reaches the service", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out, err := h.run("add", "--name", "Run")

		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, dashboard.MsgFieldsRequired)
		assert.NotContains(t, h.srv.seen(), "POST /habits")
	})

	t.Run("Fail: Completing twice", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out, err := h.run("complete", "1")

		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, dashboard.MsgAlreadyComplete)
	})

	t.Run("Fail: Habit id must be a number", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		_, err := h.run("delete", "abc")

		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.EqualError(t, wrapped, "outer: inner")
}
