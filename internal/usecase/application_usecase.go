package usecase

import (
	"context"
	"errors"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(applicationRepo domain.ApplicationRepository) domain.ApplicationUsecase {
	return &applicationUsecase{applicationRepo: applicationRepo}
}

// Get returns one application, scoped to its owner
func (uc *applicationUsecase) Get(ctx context.Context, userID, id int64) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// List returns the user's applications, optionally filtered by status
func (uc *applicationUsecase) List(ctx context.Context, userID int64, filter domain.ApplicationFilter) ([]domain.Application, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.BadRequest("Unknown status filter")
	}
	apps, err := uc.applicationRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// UpdateStatus applies a lifecycle transition. The transition is checked
// against the stored status, then the status update and its history entry
// are written in one transaction. An illegal transition leaves both status
// and history untouched.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, userID, id int64, newStatus domain.Status, note *string) (*domain.Application, error) {
	// 1. Load the application, scoped to its owner
	app, err := uc.applicationRepo.GetForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	// 2. Validate against the lifecycle graph
	if err := domain.ValidateTransition(app.Status, newStatus); err != nil {
		return nil, err
	}

	// 3. Commit status + history atomically
	if err := uc.applicationRepo.RecordStatusTransition(ctx, id, app.Status, newStatus, note); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("application status changed",
		"application_id", id, "user_id", userID,
		"from", app.Status, "to", newStatus)

	updated, err := uc.applicationRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return updated, nil
}

// History returns the ordered audit trail of an application
func (uc *applicationUsecase) History(ctx context.Context, userID, id int64) ([]domain.StatusHistoryEntry, error) {
	// Ownership check first; history rows carry no user id themselves.
	if _, err := uc.applicationRepo.GetForUser(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	entries, err := uc.applicationRepo.History(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

// SetNotes replaces the free-text notes of an application
func (uc *applicationUsecase) SetNotes(ctx context.Context, userID, id int64, notes string) error {
	if _, err := uc.applicationRepo.GetForUser(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	if err := uc.applicationRepo.SetNotes(ctx, id, notes); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// SetThread stores the dispatcher's thread reference on an application so
// later notifications land in the same conversation
func (uc *applicationUsecase) SetThread(ctx context.Context, userID, id, threadID int64) error {
	if _, err := uc.applicationRepo.GetForUser(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	if err := uc.applicationRepo.SetThreadID(ctx, id, threadID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Stats aggregates the user's application history
func (uc *applicationUsecase) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	stats, err := uc.applicationRepo.Stats(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}
