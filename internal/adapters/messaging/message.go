package messaging

import (
	"encoding/json"
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const ReminderMessageType = "habit.reminder"

// ReminderMessage is the JSON body published for each reminder.
type ReminderMessage struct {
	Type        string    `json:"type"`
	HabitID     int64     `json:"habit_id"`
	UserID      int64     `json:"user_id"`
	HabitName   string    `json:"habit_name"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewReminderMessage(r domain.Reminder) ReminderMessage {
	return ReminderMessage{
		Type:        ReminderMessageType,
		HabitID:     r.HabitID,
		UserID:      r.UserID,
		HabitName:   r.HabitName,
		RequestedAt: r.RequestedAt.UTC(),
	}
}

func (m ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var m ReminderMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
