package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type MockRepo struct {
	mu            sync.Mutex
	store         map[int64]*domain.Habit
	nextID        int64
	completions   *MockCompletionRepo
	simulateError error
}

func NewMockRepo() *MockRepo {
	return &MockRepo{store: make(map[int64]*domain.Habit)}
}

func (m *MockRepo) Create(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	m.nextID++
	habit.ID = m.nextID
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockRepo) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	h, ok := m.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (m *MockRepo) ListByUserID(ctx context.Context, userID int64) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	list := []*domain.Habit{}
	for _, h := range m.store {
		if h.UserID == userID {
			clone := *h
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockRepo) Update(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(m.store, id)
	if m.completions != nil {
		m.completions.removeHabit(id)
	}
	return nil
}

// seed stores a habit as-is, keeping its ID and creation date.
func (m *MockRepo) seed(h domain.Habit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[h.ID] = &h
	if h.ID > m.nextID {
		m.nextID = h.ID
	}
}

type MockCompletionRepo struct {
	mu            sync.Mutex
	list          []*domain.Completion
	simulateError error
}

func (m *MockCompletionRepo) Create(ctx context.Context, c *domain.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, existing := range m.list {
		if existing.HabitID == c.HabitID && existing.Date.Equal(c.Date) {
			return domain.ErrAlreadyCompleted
		}
	}
	c.ID = int64(len(m.list) + 1)
	clone := *c
	m.list = append(m.list, &clone)
	return nil
}

func (m *MockCompletionRepo) Exists(ctx context.Context, habitID int64, day domain.Date) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return false, m.simulateError
	}
	for _, c := range m.list {
		if c.HabitID == habitID && c.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCompletionRepo) ListByHabitIDs(ctx context.Context, habitIDs []int64) ([]*domain.Completion, error) {
	return m.ListInRange(ctx, habitIDs, domain.Date{}, domain.Date{})
}

func (m *MockCompletionRepo) ListInRange(ctx context.Context, habitIDs []int64, from, to domain.Date) ([]*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	wanted := make(map[int64]bool, len(habitIDs))
	for _, id := range habitIDs {
		wanted[id] = true
	}
	out := []*domain.Completion{}
	for _, c := range m.list {
		if !wanted[c.HabitID] {
			continue
		}
		if !from.IsZero() && (c.Date.Before(from) || c.Date.After(to)) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out, nil
}

func (m *MockCompletionRepo) removeHabit(habitID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.list[:0]
	for _, c := range m.list {
		if c.HabitID != habitID {
			kept = append(kept, c)
		}
	}
	m.list = kept
}

func (m *MockCompletionRepo) add(habitID int64, days ...string) {
	for _, d := range days {
		_ = m.Create(context.Background(), domain.NewCompletion(habitID, domain.MustParseDate(d)))
	}
}

type fakeUsers struct {
	users map[int64]*domain.User
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*domain.User)}
	for _, id := range ids {
		f.users[id] = &domain.User{ID: id, Username: "user"}
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type recordingQueue struct {
	accept bool
	got    []domain.Reminder
}

func (q *recordingQueue) Enqueue(r domain.Reminder) bool {
	if !q.accept {
		return false
	}
	q.got = append(q.got, r)
	return true
}
