package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/internal/usecase"
)

func TestReminderCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject a past reminder time", func(t *testing.T) {
		mockReminderRepo := new(MockReminderRepo)
		mockAppRepo := new(MockApplicationRepo)
		uc := usecase.NewReminderUsecase(mockReminderRepo, mockAppRepo)

		_, err := uc.Create(ctx, &domain.Reminder{
			UserID:    1,
			ChannelID: 9,
			RemindAt:  time.Now().Add(-time.Hour),
			Message:   "follow up",
		})
		assert.Error(t, err)
		mockReminderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should verify the linked application belongs to the user", func(t *testing.T) {
		mockReminderRepo := new(MockReminderRepo)
		mockAppRepo := new(MockApplicationRepo)
		uc := usecase.NewReminderUsecase(mockReminderRepo, mockAppRepo)

		appID := int64(7)
		mockAppRepo.On("GetForUser", ctx, int64(1), appID).Return(nil, domain.ErrNotFound)

		_, err := uc.Create(ctx, &domain.Reminder{
			UserID:        1,
			ApplicationID: &appID,
			ChannelID:     9,
			RemindAt:      time.Now().Add(time.Hour),
			Message:       "follow up",
		})
		assert.Error(t, err)
		mockReminderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReminderDispatchDue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Should mark due reminders sent before returning them", func(t *testing.T) {
		mockReminderRepo := new(MockReminderRepo)
		uc := usecase.NewReminderUsecase(mockReminderRepo, new(MockApplicationRepo))

		due := []domain.Reminder{{ID: 1, UserID: 1, Message: "a"}, {ID: 2, UserID: 2, Message: "b"}}
		mockReminderRepo.On("ListDue", ctx, now).Return(due, nil)
		mockReminderRepo.On("MarkSent", ctx, int64(1)).Return(nil)
		mockReminderRepo.On("MarkSent", ctx, int64(2)).Return(nil)

		dispatched, err := uc.DispatchDue(ctx, now)
		require.NoError(t, err)
		require.Len(t, dispatched, 2)
		assert.True(t, dispatched[0].IsSent)
	})

	t.Run("Should keep a reminder pending when marking it fails", func(t *testing.T) {
		mockReminderRepo := new(MockReminderRepo)
		uc := usecase.NewReminderUsecase(mockReminderRepo, new(MockApplicationRepo))

		due := []domain.Reminder{{ID: 1}, {ID: 2}}
		mockReminderRepo.On("ListDue", ctx, now).Return(due, nil)
		mockReminderRepo.On("MarkSent", ctx, int64(1)).Return(assert.AnError)
		mockReminderRepo.On("MarkSent", ctx, int64(2)).Return(nil)

		dispatched, err := uc.DispatchDue(ctx, now)
		require.NoError(t, err)
		require.Len(t, dispatched, 1)
		assert.Equal(t, int64(2), dispatched[0].ID)
	})
}
