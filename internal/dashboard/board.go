package dashboard

import (
	"sync"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

type Slice int

const (
	SliceHabits Slice = iota
	SliceMissed
	SliceHistory
	sliceCount
)

// Token identifies one load of one slice. Only the most recently issued token
// of a slice may change it.
type Token struct {
	Slice Slice
	Seq   uint64
}

type SliceState[T any] struct {
	Status Status
	Data   T
	Err    string
}

// View is a snapshot of everything the dashboard shows.
type View struct {
	Username string
	Today    domain.Date
	Habits   SliceState[[]domain.HabitStat]
	Summary  domain.Summary
	Missed   SliceState[[]domain.MissedEntry]
	History  SliceState[[]domain.HistoryEntry]
}

// Board holds the dashboard state. Each slice moves Idle → Loading → Ready or
// Error on its own; a failure in one slice leaves the others untouched.
type Board struct {
	mu   sync.Mutex
	seq  [sliceCount]uint64
	view View
}

func NewBoard(username string, today domain.Date) *Board {
	return &Board{view: View{Username: username, Today: today}}
}

// Begin marks the slice as loading and issues a fresh token for the load.
func (b *Board) Begin(s Slice) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq[s]++
	switch s {
	case SliceHabits:
		b.view.Habits.Status = StatusLoading
	case SliceMissed:
		b.view.Missed.Status = StatusLoading
	case SliceHistory:
		b.view.History.Status = StatusLoading
	}
	return Token{Slice: s, Seq: b.seq[s]}
}

func (b *Board) current(t Token) bool {
	return t.Seq == b.seq[t.Slice]
}

// ApplyHabits stores a habits result. It reports false, changing nothing, when
// a newer load of the slice has been issued since tok.
func (b *Board) ApplyHabits(tok Token, habits []domain.HabitStat, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tok.Slice != SliceHabits || !b.current(tok) {
		return false
	}
	if err != nil {
		b.view.Habits = SliceState[[]domain.HabitStat]{Status: StatusError, Err: MsgHabitsFailed}
		b.view.Summary = domain.Summary{}
		return true
	}
	b.view.Habits = SliceState[[]domain.HabitStat]{Status: StatusReady, Data: habits}
	b.view.Summary = Summarize(habits)
	return true
}

func (b *Board) ApplyMissed(tok Token, missed []domain.MissedEntry, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tok.Slice != SliceMissed || !b.current(tok) {
		return false
	}
	if err != nil {
		b.view.Missed = SliceState[[]domain.MissedEntry]{Status: StatusError, Err: MsgMissedFailed}
		return true
	}
	b.view.Missed = SliceState[[]domain.MissedEntry]{Status: StatusReady, Data: missed}
	return true
}

func (b *Board) ApplyHistory(tok Token, history []domain.HistoryEntry, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tok.Slice != SliceHistory || !b.current(tok) {
		return false
	}
	if err != nil {
		b.view.History = SliceState[[]domain.HistoryEntry]{Status: StatusError, Err: MsgHistoryFailed}
		return true
	}
	b.view.History = SliceState[[]domain.HistoryEntry]{Status: StatusReady, Data: history}
	return true
}

func (b *Board) SetToday(today domain.Date) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Today = today
}

// View returns a copy of the current state.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}
