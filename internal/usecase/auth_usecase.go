package usecase

import (
	"context"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// EnsureUser upserts the platform user record. It runs on every
// authenticated request so usernames stay current without a dedicated
// registration flow.
func (uc *authUsecase) EnsureUser(ctx context.Context, id int64, username string) error {
	if id <= 0 {
		return apperror.BadRequest("Invalid user id")
	}
	user := &domain.User{ID: id, Username: username}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// GetCurrentUser returns the stored profile of the authenticated user
func (uc *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}
