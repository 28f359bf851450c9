package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the habit service. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *applog.Logger
}

func New(baseURL string, timeout time.Duration, logger *applog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(applog.ComponentClient),
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

type AuthResult struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Token   string `json:"token"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/register", nil, credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/login", nil, credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListHabits(ctx context.Context, userID string) ([]domain.HabitStat, error) {
	var out []domain.HabitStat
	if err := c.do(ctx, http.MethodGet, "/habits", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type CreateHabitRequest struct {
	Name     string `json:"name"`
	Goal     int    `json:"goal"`
	Category string `json:"category,omitempty"`
	UserID   string `json:"user_id"`
}

func (c *Client) CreateHabit(ctx context.Context, req CreateHabitRequest) (*domain.HabitStat, error) {
	var out domain.HabitStat
	if err := c.do(ctx, http.MethodPost, "/habits", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteHabit(ctx context.Context, habitID int64) error {
	return c.do(ctx, http.MethodPost, habitPath(habitID, "complete"), nil, nil, nil)
}

func (c *Client) DeleteHabit(ctx context.Context, habitID int64) error {
	return c.do(ctx, http.MethodDelete, habitPath(habitID, ""), nil, nil, nil)
}

func (c *Client) UpdateGoal(ctx context.Context, habitID int64, goal int) (*domain.HabitStat, error) {
	var out domain.HabitStat
	body := map[string]int{"goal": goal}
	if err := c.do(ctx, http.MethodPut, habitPath(habitID, ""), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Remind(ctx context.Context, habitID int64) error {
	return c.do(ctx, http.MethodPost, habitPath(habitID, "remind"), nil, nil, nil)
}

func (c *Client) MissedToday(ctx context.Context, userID string) ([]domain.MissedEntry, error) {
	var out []domain.MissedEntry
	if err := c.do(ctx, http.MethodGet, "/habits/missed/today", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MissedPrevious(ctx context.Context, userID string) ([]domain.MissedEntry, error) {
	var out []domain.MissedEntry
	if err := c.do(ctx, http.MethodGet, "/habits/missed/previous", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, userID string, start, end domain.Date) ([]domain.HistoryEntry, error) {
	q := userQuery(userID)
	q.Set("start", start.String())
	q.Set("end", end.String())

	var out []domain.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/habits/history", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Performance(ctx context.Context, userID string) (*domain.Performance, error) {
	var out domain.Performance
	if err := c.do(ctx, http.MethodGet, "/habits/performance", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func userQuery(userID string) url.Values {
	return url.Values{"user_id": []string{userID}}
}

func habitPath(id int64, action string) string {
	p := "/habits/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("client: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", applog.FieldMethod, method, applog.FieldPath, path, applog.FieldError, err)
		return fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		applog.FieldMethod, method,
		applog.FieldPath, path,
		applog.FieldStatusCode, resp.StatusCode,
		applog.FieldDuration, time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response to %s %s: %w", ErrUnreachable, method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
