package worker

import (
	"context"
	"sync"
	"time"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/logger"
)

// Notifier delivers a due reminder to its channel. The HTTP dispatcher
// provides the real implementation; the engine only schedules.
type Notifier interface {
	Notify(ctx context.Context, reminder domain.Reminder) error
}

// LogNotifier is the fallback used when no dispatcher callback is
// configured. Reminders are still marked sent so they do not pile up.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, reminder domain.Reminder) error {
	logger.Log.Info("reminder due",
		"reminder_id", reminder.ID, "user_id", reminder.UserID,
		"channel_id", reminder.ChannelID, "message", reminder.Message)
	return nil
}

// ReminderWorker polls for due reminders and hands them to the Notifier.
type ReminderWorker struct {
	reminders domain.ReminderUsecase
	notifier  Notifier
	interval  time.Duration
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

func NewReminderWorker(reminders domain.ReminderUsecase, notifier Notifier, interval time.Duration) *ReminderWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ReminderWorker{
		reminders: reminders,
		notifier:  notifier,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.poll(ctx)
	logger.Log.Info("reminder worker started", "interval", w.interval.String())
}

// Stop halts polling and waits for the in-flight tick to finish.
func (w *ReminderWorker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	logger.Log.Info("reminder worker stopped")
}

func (w *ReminderWorker) poll(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) {
	due, err := w.reminders.DispatchDue(ctx, time.Now())
	if err != nil {
		logger.Log.Error("failed to fetch due reminders", "error", err)
		return
	}
	for _, reminder := range due {
		if err := w.notifier.Notify(ctx, reminder); err != nil {
			// Already marked sent; delivery failures are logged, not retried.
			logger.Log.Error("failed to deliver reminder",
				"reminder_id", reminder.ID, "error", err)
		}
	}
}
