package domain

import (
	"context"
	"time"
)

// Reminder is a scheduled follow-up, either tied to an application or
// standalone. ChannelID tells the dispatcher where to deliver it.
type Reminder struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ApplicationID *int64    `json:"application_id,omitempty"`
	ChannelID     int64     `json:"channel_id"`
	RemindAt      time.Time `json:"remind_at"`
	Message       string    `json:"message"`
	IsSent        bool      `json:"is_sent"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	ListByUser(ctx context.Context, userID int64) ([]Reminder, error)
	// ListDue returns unsent reminders whose time has passed, oldest first.
	ListDue(ctx context.Context, now time.Time) ([]Reminder, error)
	MarkSent(ctx context.Context, id int64) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

type ReminderUsecase interface {
	Create(ctx context.Context, reminder *Reminder) (*Reminder, error)
	List(ctx context.Context, userID int64) ([]Reminder, error)
	Delete(ctx context.Context, userID, id int64) error
	// DispatchDue is called by the background worker.
	DispatchDue(ctx context.Context, now time.Time) ([]Reminder, error)
}
