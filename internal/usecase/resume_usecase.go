package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

// maxResumeSize caps uploads at 10 MB.
const maxResumeSize = 10 << 20

// allowedResumeMimeTypes is the upload allow-list. Files are stored as
// opaque bytes; no rendering or conversion happens server-side.
var allowedResumeMimeTypes = map[string]string{
	"application/pdf":    ".pdf",
	"text/plain":         ".txt",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

type resumeUsecase struct {
	resumeRepo domain.ResumeRepository
	storageDir string
}

// NewResumeUsecase creates a new resume usecase
func NewResumeUsecase(resumeRepo domain.ResumeRepository, storageDir string) domain.ResumeUsecase {
	return &resumeUsecase{resumeRepo: resumeRepo, storageDir: storageDir}
}

// Upload stores a new base CV and makes it the user's active resume. Any
// previously active resume is deactivated in the same transaction.
func (uc *resumeUsecase) Upload(ctx context.Context, userID int64, upload domain.ResumeUpload) (*domain.Resume, error) {
	// 1. Validate the file
	if len(upload.Content) == 0 {
		return nil, apperror.BadRequest("Empty file")
	}
	if len(upload.Content) > maxResumeSize {
		return nil, apperror.BadRequest("File exceeds the 10 MB limit")
	}
	ext, ok := allowedResumeMimeTypes[upload.MimeType]
	if !ok {
		return nil, apperror.BadRequest("Unsupported file type. Accepted: PDF, TXT, DOC, DOCX")
	}

	// 2. Write the bytes under a collision-free name
	if err := os.MkdirAll(uc.storageDir, 0o755); err != nil {
		return nil, apperror.Internal(err)
	}
	filename := uuid.NewString() + ext
	path := filepath.Join(uc.storageDir, filename)
	if err := os.WriteFile(path, upload.Content, 0o644); err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Persist the record as the new active resume
	resume := &domain.Resume{
		UserID:       userID,
		Filename:     filename,
		OriginalName: upload.OriginalName,
		FilePath:     path,
		FileSize:     int64(len(upload.Content)),
		MimeType:     &upload.MimeType,
		IsActive:     true,
	}
	if upload.ExtractedText != "" {
		resume.ExtractedText = &upload.ExtractedText
	}
	if err := uc.resumeRepo.SaveNew(ctx, resume); err != nil {
		// Keep the store consistent; the orphaned file is removed best effort.
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Log.Warn("failed to remove orphaned resume file", "path", path, "error", rmErr)
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("resume uploaded", "user_id", userID, "resume_id", resume.ID, "size", resume.FileSize)
	return resume, nil
}

// GetActive returns the user's current active resume
func (uc *resumeUsecase) GetActive(ctx context.Context, userID int64) (*domain.Resume, error) {
	resume, err := uc.resumeRepo.GetActive(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("No active resume on file")
	}
	return resume, nil
}

// List returns all resumes the user has uploaded, newest first
func (uc *resumeUsecase) List(ctx context.Context, userID int64) ([]domain.Resume, error) {
	resumes, err := uc.resumeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

// SetExtractedText stores dispatcher-extracted text on the active resume
func (uc *resumeUsecase) SetExtractedText(ctx context.Context, userID int64, text string) (*domain.Resume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.BadRequest("Extracted text is required")
	}
	resume, err := uc.resumeRepo.GetActive(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("No active resume on file")
	}
	if err := uc.resumeRepo.UpdateExtractedText(ctx, resume.ID, text); err != nil {
		return nil, apperror.Internal(err)
	}
	resume.ExtractedText = &text
	return resume, nil
}

// DeleteActive removes the user's active resume record
func (uc *resumeUsecase) DeleteActive(ctx context.Context, userID int64) error {
	deleted, err := uc.resumeRepo.DeleteActive(ctx, userID)
	if err != nil {
		return apperror.Internal(err)
	}
	if !deleted {
		return apperror.NotFound("No active resume on file")
	}
	return nil
}
