package workers

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

const DefaultQueueSize = 100

// Notifier delivers a reminder to its recipient.
type Notifier interface {
	Notify(ctx context.Context, r domain.Reminder) error
}

type ReminderWorker struct {
	notifier Notifier
	jobs     chan domain.Reminder
	timeout  time.Duration
	logger   *applog.Logger
	wg       sync.WaitGroup
}

func NewReminderWorker(notifier Notifier, queueSize int, logger *applog.Logger) *ReminderWorker {
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	return &ReminderWorker{
		notifier: notifier,
		jobs:     make(chan domain.Reminder, queueSize),
		timeout:  5 * time.Second,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// Start consumes the queue in a background goroutine until ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("reminder worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("reminder worker shutting down", "pending", len(w.jobs))
				return
			}
		}
	}()
}

// Wait blocks until the goroutine started by Start has returned.
func (w *ReminderWorker) Wait() {
	w.wg.Wait()
}

// Enqueue never blocks. It returns false when the queue is full and the
// reminder was dropped.
func (w *ReminderWorker) Enqueue(r domain.Reminder) bool {
	select {
	case w.jobs <- r:
		return true
	default:
		w.logger.Warn("reminder queue full, dropping job", applog.FieldHabitID, r.HabitID)
		return false
	}
}

func (w *ReminderWorker) processJob(ctx context.Context, job domain.Reminder) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.notifier.Notify(ctx, job); err != nil {
		w.logger.Error("failed to deliver reminder",
			applog.FieldHabitID, job.HabitID,
			applog.FieldUserID, job.UserID,
			applog.FieldError, err)
		return
	}

	w.logger.Debug("reminder delivered", applog.FieldHabitID, job.HabitID, applog.FieldUserID, job.UserID)
}
