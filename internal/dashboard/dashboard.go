package dashboard

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/kanso-habits/internal/client"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
	"github.com/comitanigiacomo/kanso-habits/internal/session"
)

// Service is the full habit service surface the dashboard drives.
type Service interface {
	API
	CreateHabit(ctx context.Context, req client.CreateHabitRequest) (*domain.HabitStat, error)
	CompleteHabit(ctx context.Context, habitID int64) error
	DeleteHabit(ctx context.Context, habitID int64) error
	UpdateGoal(ctx context.Context, habitID int64, goal int) (*domain.HabitStat, error)
	Remind(ctx context.Context, habitID int64) error
}

// ActionError is a failed user action. Message is what to show.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// LocalToday is the calendar day on the local clock.
func LocalToday() domain.Date {
	return domain.DateOf(time.Now())
}

type Dashboard struct {
	svc    Service
	sess   session.Session
	today  func() domain.Date
	board  *Board
	logger *applog.Logger
}

func New(svc Service, sess session.Session, today func() domain.Date, logger *applog.Logger) *Dashboard {
	if today == nil {
		today = LocalToday
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &Dashboard{
		svc:    svc,
		sess:   sess,
		today:  today,
		board:  NewBoard(sess.Username, today()),
		logger: logger.WithComponent(applog.ComponentDashboard),
	}
}

func (d *Dashboard) Board() *Board { return d.board }

func (d *Dashboard) View() View { return d.board.View() }

func (d *Dashboard) Session() session.Session { return d.sess }

// FetchHabits, FetchMissed and FetchHistory call the service without touching
// the board. Callers pair them with Begin and the matching Apply.
func (d *Dashboard) FetchHabits(ctx context.Context) ([]domain.HabitStat, error) {
	habits, err := d.svc.ListHabits(ctx, d.sess.UserID)
	d.logFailure("habits", err)
	return habits, err
}

func (d *Dashboard) FetchMissed(ctx context.Context) ([]domain.MissedEntry, error) {
	missed, err := LoadMissed(ctx, d.svc, d.sess.UserID)
	d.logFailure("missed", err)
	return missed, err
}

func (d *Dashboard) FetchHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	today := d.today()
	d.board.SetToday(today)
	history, err := FetchHistory(ctx, d.svc, d.sess.UserID, today)
	d.logFailure("history", err)
	return history, err
}

func (d *Dashboard) LoadHabits(ctx context.Context) {
	tok := d.board.Begin(SliceHabits)
	habits, err := d.FetchHabits(ctx)
	d.board.ApplyHabits(tok, habits, err)
}

func (d *Dashboard) LoadMissed(ctx context.Context) {
	tok := d.board.Begin(SliceMissed)
	missed, err := d.FetchMissed(ctx)
	d.board.ApplyMissed(tok, missed, err)
}

func (d *Dashboard) LoadHistory(ctx context.Context) {
	tok := d.board.Begin(SliceHistory)
	history, err := d.FetchHistory(ctx)
	d.board.ApplyHistory(tok, history, err)
}

// Refresh reloads all three slices concurrently. Failures stay inside their
// slice, so Refresh itself never fails.
func (d *Dashboard) Refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { d.LoadHabits(ctx); return nil })
	g.Go(func() error { d.LoadMissed(ctx); return nil })
	g.Go(func() error { d.LoadHistory(ctx); return nil })
	_ = g.Wait()
}

func (d *Dashboard) AddHabit(ctx context.Context, form HabitForm) (string, error) {
	habit, err := ValidateHabitForm(d.sess, form)
	if err != nil {
		return "", err
	}

	_, err = d.svc.CreateHabit(ctx, client.CreateHabitRequest{
		Name:     habit.Name,
		Goal:     habit.Goal,
		Category: habit.Category,
		UserID:   d.sess.UserID,
	})
	if err != nil {
		return "", &ActionError{Message: client.UserMessage(err, MsgAddFailed), Err: err}
	}

	d.Refresh(ctx)
	return MsgHabitAdded, nil
}

func (d *Dashboard) Complete(ctx context.Context, habitID int64) (string, error) {
	if err := d.svc.CompleteHabit(ctx, habitID); err != nil {
		if client.IsStatus(err, http.StatusConflict) {
			return "", &ActionError{Message: MsgAlreadyComplete, Err: err}
		}
		return "", &ActionError{Message: client.UserMessage(err, MsgCompleteFailed), Err: err}
	}

	d.Refresh(ctx)
	return MsgHabitCompleted, nil
}

func (d *Dashboard) Delete(ctx context.Context, habitID int64) (string, error) {
	if err := d.svc.DeleteHabit(ctx, habitID); err != nil {
		return "", &ActionError{Message: MsgDeleteFailed, Err: err}
	}

	d.Refresh(ctx)
	return MsgHabitRemoved, nil
}

func (d *Dashboard) EditGoal(ctx context.Context, habitID int64, rawGoal string) (string, error) {
	goal, err := ParseGoal(rawGoal)
	if err != nil {
		return "", err
	}

	if _, err := d.svc.UpdateGoal(ctx, habitID, goal); err != nil {
		return "", &ActionError{Message: MsgGoalFailed, Err: err}
	}

	d.LoadHabits(ctx)
	return MsgGoalUpdated, nil
}

func (d *Dashboard) Remind(ctx context.Context, habitID int64) (string, error) {
	if err := d.svc.Remind(ctx, habitID); err != nil {
		return "", &ActionError{Message: client.UserMessage(err, MsgReminderFailed), Err: err}
	}
	return MsgReminderSent, nil
}

func (d *Dashboard) logFailure(slice string, err error) {
	if err != nil {
		d.logger.Warn("dashboard load failed", "slice", slice, applog.FieldUserID, d.sess.UserID, applog.FieldError, err)
	}
}
