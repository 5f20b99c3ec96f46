package usecase_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/internal/usecase"
	"go-jobpilot-backend/pkg/apperror"
)

func TestResumeUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store an allowed file and persist it as active", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		dir := t.TempDir()
		uc := usecase.NewResumeUsecase(mockRepo, dir)

		mockRepo.On("SaveNew", ctx, mock.AnythingOfType("*domain.Resume")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Resume).ID = 5
			}).Return(nil)

		resume, err := uc.Upload(ctx, 1, domain.ResumeUpload{
			OriginalName: "cv.pdf",
			MimeType:     "application/pdf",
			Content:      []byte("%PDF-1.4 fake"),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), resume.ID)
		assert.True(t, resume.IsActive)
		assert.Equal(t, "cv.pdf", resume.OriginalName)

		// the bytes landed on disk under the generated name
		data, err := os.ReadFile(resume.FilePath)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 fake"), data)
	})

	t.Run("Should reject a disallowed MIME type", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		_, err := uc.Upload(ctx, 1, domain.ResumeUpload{
			OriginalName: "cv.exe",
			MimeType:     "application/octet-stream",
			Content:      []byte("MZ"),
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		mockRepo.AssertNotCalled(t, "SaveNew", mock.Anything, mock.Anything)
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		_, err := uc.Upload(ctx, 1, domain.ResumeUpload{
			OriginalName: "cv.pdf",
			MimeType:     "application/pdf",
		})
		assert.Error(t, err)
	})

	t.Run("Should remove the file when the store write fails", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		dir := t.TempDir()
		uc := usecase.NewResumeUsecase(mockRepo, dir)

		mockRepo.On("SaveNew", ctx, mock.Anything).Return(assert.AnError)

		_, err := uc.Upload(ctx, 1, domain.ResumeUpload{
			OriginalName: "cv.txt",
			MimeType:     "text/plain",
			Content:      []byte("plain text cv"),
		})
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestResumeDeleteActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report not found when nothing was active", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		mockRepo.On("DeleteActive", ctx, int64(1)).Return(false, nil)

		err := uc.DeleteActive(ctx, 1)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestResumeSetExtractedText(t *testing.T) {
	ctx := context.Background()

	t.Run("Should attach text to the active resume", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		active := &domain.Resume{ID: 5, UserID: 1, IsActive: true}
		mockRepo.On("GetActive", ctx, int64(1)).Return(active, nil)
		mockRepo.On("UpdateExtractedText", ctx, int64(5), "Ten years of Go").Return(nil)

		resume, err := uc.SetExtractedText(ctx, 1, "Ten years of Go")
		require.NoError(t, err)
		require.NotNil(t, resume.ExtractedText)
		assert.Equal(t, "Ten years of Go", *resume.ExtractedText)
	})

	t.Run("Should reject blank text", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		_, err := uc.SetExtractedText(ctx, 1, "   ")
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		mockRepo.AssertNotCalled(t, "UpdateExtractedText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should report not found without an active resume", func(t *testing.T) {
		mockRepo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(mockRepo, t.TempDir())

		mockRepo.On("GetActive", ctx, int64(1)).Return(nil, domain.ErrNotFound)

		_, err := uc.SetExtractedText(ctx, 1, "Ten years of Go")
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}
