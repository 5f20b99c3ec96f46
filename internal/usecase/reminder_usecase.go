package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

type reminderUsecase struct {
	reminderRepo    domain.ReminderRepository
	applicationRepo domain.ApplicationRepository
}

// NewReminderUsecase creates a new reminder usecase
func NewReminderUsecase(reminderRepo domain.ReminderRepository, applicationRepo domain.ApplicationRepository) domain.ReminderUsecase {
	return &reminderUsecase{reminderRepo: reminderRepo, applicationRepo: applicationRepo}
}

// Create schedules a follow-up reminder, optionally attached to one of the
// user's applications
func (uc *reminderUsecase) Create(ctx context.Context, reminder *domain.Reminder) (*domain.Reminder, error) {
	if strings.TrimSpace(reminder.Message) == "" {
		return nil, apperror.BadRequest("Reminder message is required")
	}
	if !reminder.RemindAt.After(time.Now()) {
		return nil, apperror.BadRequest("Reminder time must be in the future")
	}
	if reminder.ApplicationID != nil {
		if _, err := uc.applicationRepo.GetForUser(ctx, reminder.UserID, *reminder.ApplicationID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("Application not found")
			}
			return nil, apperror.Internal(err)
		}
	}
	if err := uc.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, apperror.Internal(err)
	}
	return reminder, nil
}

// List returns the user's pending reminders
func (uc *reminderUsecase) List(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	reminders, err := uc.reminderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reminders, nil
}

// Delete removes a reminder owned by the user
func (uc *reminderUsecase) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := uc.reminderRepo.Delete(ctx, id, userID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !deleted {
		return apperror.NotFound("Reminder not found")
	}
	return nil
}

// DispatchDue marks every due reminder as sent and returns them for
// delivery. A reminder whose mark fails stays pending and is retried on the
// next poll rather than delivered twice.
func (uc *reminderUsecase) DispatchDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	due, err := uc.reminderRepo.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}

	dispatched := make([]domain.Reminder, 0, len(due))
	for _, reminder := range due {
		if err := uc.reminderRepo.MarkSent(ctx, reminder.ID); err != nil {
			logger.Log.Error("failed to mark reminder sent", "reminder_id", reminder.ID, "error", err)
			continue
		}
		reminder.IsSent = true
		dispatched = append(dispatched, reminder)
	}
	return dispatched, nil
}
