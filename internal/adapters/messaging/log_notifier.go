package messaging

import (
	"context"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

var _ workers.Notifier = (*LogNotifier)(nil)

// LogNotifier writes reminders to the log. Used when no broker is configured.
type LogNotifier struct {
	logger *applog.Logger
}

func NewLogNotifier(logger *applog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(applog.ComponentWorker)}
}

func (n *LogNotifier) Notify(ctx context.Context, r domain.Reminder) error {
	n.logger.InfoContext(ctx, "habit reminder",
		applog.FieldHabitID, r.HabitID,
		applog.FieldUserID, r.UserID,
		"habit_name", r.HabitName)
	return nil
}
