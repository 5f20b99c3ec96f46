package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-jobpilot-backend/internal/domain"
)

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetForUser(ctx context.Context, userID, id int64) (*domain.Application, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) List(ctx context.Context, userID int64, filter domain.ApplicationFilter) ([]domain.Application, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateSynthesis(ctx context.Context, id int64, syn *domain.JobSynthesis) error {
	return m.Called(ctx, id, syn).Error(0)
}

func (m *MockApplicationRepo) UpdateSkills(ctx context.Context, id int64, skills *domain.SkillsMatch) error {
	return m.Called(ctx, id, skills).Error(0)
}

func (m *MockApplicationRepo) UpdateSalary(ctx context.Context, id int64, salary *domain.SalaryAnalysis) error {
	return m.Called(ctx, id, salary).Error(0)
}

func (m *MockApplicationRepo) UpdateGeneratedCV(ctx context.Context, id int64, path, format string, adaptations []string, summary string) error {
	return m.Called(ctx, id, path, format, adaptations, summary).Error(0)
}

func (m *MockApplicationRepo) SetStageFailure(ctx context.Context, id int64, stage domain.Stage, kind string) error {
	return m.Called(ctx, id, stage, kind).Error(0)
}

func (m *MockApplicationRepo) SetThreadID(ctx context.Context, id int64, threadID int64) error {
	return m.Called(ctx, id, threadID).Error(0)
}

func (m *MockApplicationRepo) SetNotes(ctx context.Context, id int64, notes string) error {
	return m.Called(ctx, id, notes).Error(0)
}

func (m *MockApplicationRepo) RecordStatusTransition(ctx context.Context, id int64, oldStatus, newStatus domain.Status, note *string) error {
	return m.Called(ctx, id, oldStatus, newStatus, note).Error(0)
}

func (m *MockApplicationRepo) History(ctx context.Context, applicationID int64) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

func (m *MockApplicationRepo) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockApplicationRepo) ClearAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) SaveNew(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}

func (m *MockResumeRepo) GetActive(ctx context.Context, userID int64) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) DeleteActive(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResumeRepo) UpdateExtractedText(ctx context.Context, resumeID int64, text string) error {
	return m.Called(ctx, resumeID, text).Error(0)
}

func (m *MockResumeRepo) ListAllActive(ctx context.Context) ([]domain.ResumeWithOwner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResumeWithOwner), args.Error(1)
}

func (m *MockResumeRepo) ClearAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockReminderRepo struct {
	mock.Mock
}

func (m *MockReminderRepo) Create(ctx context.Context, reminder *domain.Reminder) error {
	return m.Called(ctx, reminder).Error(0)
}

func (m *MockReminderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepo) ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepo) MarkSent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReminderRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// Mock Analyzer

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Synthesize(ctx context.Context, jobText string) (*domain.JobSynthesis, error) {
	args := m.Called(ctx, jobText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSynthesis), args.Error(1)
}

func (m *MockAnalyzer) MatchSkills(ctx context.Context, jobText, resumeText string) (*domain.SkillsMatch, error) {
	args := m.Called(ctx, jobText, resumeText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillsMatch), args.Error(1)
}

func (m *MockAnalyzer) AnalyzeSalary(ctx context.Context, jobText, location string) (*domain.SalaryAnalysis, error) {
	args := m.Called(ctx, jobText, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryAnalysis), args.Error(1)
}

func (m *MockAnalyzer) GenerateResume(ctx context.Context, req domain.GenerateResumeRequest) (*domain.GeneratedResume, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedResume), args.Error(1)
}

func (m *MockAnalyzer) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
