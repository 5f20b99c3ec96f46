package usecase

import (
	"context"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

type adminUsecase struct {
	resumeRepo      domain.ResumeRepository
	applicationRepo domain.ApplicationRepository
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(resumeRepo domain.ResumeRepository, applicationRepo domain.ApplicationRepository) domain.AdminUsecase {
	return &adminUsecase{resumeRepo: resumeRepo, applicationRepo: applicationRepo}
}

// requireAdmin gates every operation on the admin claim carried in the
// request context by the auth middleware.
func requireAdmin(ctx context.Context) error {
	isAdmin, _ := ctx.Value(domain.KeyIsAdmin).(bool)
	if !isAdmin {
		return apperror.Forbidden("Admin privileges required")
	}
	return nil
}

// ListAllResumes returns every active resume across all users
func (uc *adminUsecase) ListAllResumes(ctx context.Context) ([]domain.ResumeWithOwner, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	resumes, err := uc.resumeRepo.ListAllActive(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

// ClearResumes removes every stored resume
func (uc *adminUsecase) ClearResumes(ctx context.Context) (int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	count, err := uc.resumeRepo.ClearAll(ctx)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	logger.Log.Warn("all resumes cleared", "count", count)
	return count, nil
}

// ClearApplications removes every application along with its history
func (uc *adminUsecase) ClearApplications(ctx context.Context) (int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	count, err := uc.applicationRepo.ClearAll(ctx)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	logger.Log.Warn("all applications cleared", "count", count)
	return count, nil
}
