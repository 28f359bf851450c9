package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.CompletionRepository = (*InMemoryCompletionRepository)(nil)
	_ domain.UserRepository       = (*InMemoryUserRepository)(nil)
)

// InMemoryHabitRepository keeps habits in a map. Deleting a habit also drops
// its entries from the linked completion store, when there is one.
type InMemoryHabitRepository struct {
	store       map[int64]*domain.Habit
	nextID      int64
	completions *InMemoryCompletionRepository

	mu sync.RWMutex
}

func NewInMemoryHabitRepository(completions *InMemoryCompletionRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store:       make(map[int64]*domain.Habit),
		completions: completions,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	habit.ID = r.nextID
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id int64) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].ID < habits[j].ID
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(r.store, id)
	if r.completions != nil {
		r.completions.removeHabit(id)
	}
	return nil
}

type completionKey struct {
	habitID int64
	day     string
}

type InMemoryCompletionRepository struct {
	list   []*domain.Completion
	index  map[completionKey]bool
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		index: make(map[completionKey]bool),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey{c.HabitID, c.Date.String()}
	if r.index[key] {
		return domain.ErrAlreadyCompleted
	}

	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.list = append(r.list, &clone)
	r.index[key] = true
	return nil
}

func (r *InMemoryCompletionRepository) Exists(ctx context.Context, habitID int64, day domain.Date) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.index[completionKey{habitID, day.String()}], nil
}

func (r *InMemoryCompletionRepository) ListByHabitIDs(ctx context.Context, habitIDs []int64) ([]*domain.Completion, error) {
	return r.filter(habitIDs, func(*domain.Completion) bool { return true }), nil
}

func (r *InMemoryCompletionRepository) ListInRange(ctx context.Context, habitIDs []int64, from, to domain.Date) ([]*domain.Completion, error) {
	return r.filter(habitIDs, func(c *domain.Completion) bool {
		return !c.Date.Before(from) && !c.Date.After(to)
	}), nil
}

func (r *InMemoryCompletionRepository) filter(habitIDs []int64, keep func(*domain.Completion) bool) []*domain.Completion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]bool, len(habitIDs))
	for _, id := range habitIDs {
		wanted[id] = true
	}

	out := []*domain.Completion{}
	for _, c := range r.list {
		if wanted[c.HabitID] && keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].HabitID < out[j].HabitID
	})
	return out
}

func (r *InMemoryCompletionRepository) removeHabit(habitID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.list[:0]
	for _, c := range r.list {
		if c.HabitID == habitID {
			delete(r.index, completionKey{c.HabitID, c.Date.String()})
			continue
		}
		kept = append(kept, c)
	}
	r.list = kept
}

type InMemoryUserRepository struct {
	byID   map[int64]*domain.User
	nextID int64

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[int64]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}
