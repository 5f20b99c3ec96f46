package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/internal/usecase"
)

const jobText = "Senior Backend Engineer, Paris. Go, PostgreSQL, five years of experience required."

type pipelineFixture struct {
	appRepo    *MockApplicationRepo
	resumeRepo *MockResumeRepo
	userRepo   *MockUserRepo
	analyzer   *MockAnalyzer
	uc         domain.PipelineUsecase
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		appRepo:    new(MockApplicationRepo),
		resumeRepo: new(MockResumeRepo),
		userRepo:   new(MockUserRepo),
		analyzer:   new(MockAnalyzer),
	}
	f.uc = usecase.NewPipelineUsecase(f.appRepo, f.resumeRepo, f.userRepo, f.analyzer, validator.New(), t.TempDir())
	return f
}

func (f *pipelineFixture) expectCreate(appID int64) {
	f.userRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
		Run(func(args mock.Arguments) {
			app := args.Get(1).(*domain.Application)
			app.ID = appID
			app.Status = domain.StatusGenerated
		}).Return(nil)
}

// collect drains the event channel; the channel closes after the summary.
func collect(t *testing.T, events <-chan domain.StageEvent) []domain.StageEvent {
	t.Helper()
	var got []domain.StageEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, event)
		case <-timeout:
			t.Fatal("timed out waiting for stage events")
		}
	}
}

func validSalary() *domain.SalaryAnalysis {
	return &domain.SalaryAnalysis{
		MarketLow: 50000, MarketMedian: 60000, MarketHigh: 75000,
		Currency: "EUR", Analysis: "in line with market",
	}
}

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Should run all four stages and emit a summary", func(t *testing.T) {
		f := newPipelineFixture(t)
		text := "Go developer, ten years"
		resume := &domain.Resume{ID: 3, UserID: 1, ExtractedText: &text}
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(resume, nil)
		f.expectCreate(42)

		f.analyzer.On("Synthesize", mock.Anything, jobText).Return(&domain.JobSynthesis{
			Title: "Senior Backend Engineer", Company: "Acme", Location: "Paris",
			KeyRequirements: []string{"Go", "PostgreSQL"},
		}, nil)
		f.appRepo.On("UpdateSynthesis", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("MatchSkills", mock.Anything, jobText, text).Return(&domain.SkillsMatch{
			MatchScore: 78, Highlights: []string{"strong Go background"},
		}, nil)
		f.appRepo.On("UpdateSkills", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("AnalyzeSalary", mock.Anything, jobText, "Paris").Return(validSalary(), nil)
		f.appRepo.On("UpdateSalary", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("GenerateResume", mock.Anything, mock.MatchedBy(func(req domain.GenerateResumeRequest) bool {
			return req.JobTitle == "Senior Backend Engineer" &&
				len(req.Requirements) == 2 &&
				len(req.Highlights) == 1
		})).Return(&domain.GeneratedResume{LatexContent: "\\documentclass{article}"}, nil)
		f.appRepo.On("UpdateGeneratedCV", mock.Anything, int64(42), mock.Anything, "latex", mock.Anything, mock.Anything).Return(nil)

		events, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		require.NoError(t, err)
		got := collect(t, events)

		require.Len(t, got, 5)
		for i, stage := range domain.PipelineStages {
			assert.Equal(t, domain.EventStageResult, got[i].Type)
			assert.Equal(t, stage, got[i].Stage)
			assert.True(t, got[i].Success)
			assert.True(t, got[i].HasResume)
		}
		summary := got[4]
		assert.Equal(t, domain.EventSummary, summary.Type)
		assert.Equal(t, int64(42), summary.ApplicationID)
		assert.Equal(t, domain.StatusGenerated, summary.Status)
		require.Len(t, summary.Outcomes, 4)
		for _, outcome := range summary.Outcomes {
			assert.True(t, outcome.Success)
		}
	})

	t.Run("Should continue past a failed skills-match stage", func(t *testing.T) {
		f := newPipelineFixture(t)
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		f.expectCreate(42)

		f.analyzer.On("Synthesize", mock.Anything, jobText).Return(&domain.JobSynthesis{Title: "Engineer"}, nil)
		f.appRepo.On("UpdateSynthesis", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("MatchSkills", mock.Anything, jobText, "").Return(nil, &domain.AnalysisError{
			Kind: domain.AnalysisTimeout, Op: "match-skills", Message: "call exceeded timeout",
		})
		f.appRepo.On("SetStageFailure", mock.Anything, int64(42), domain.StageSkills, string(domain.AnalysisTimeout)).Return(nil)

		f.analyzer.On("AnalyzeSalary", mock.Anything, jobText, mock.Anything).Return(validSalary(), nil)
		f.appRepo.On("UpdateSalary", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("GenerateResume", mock.Anything, mock.Anything).Return(&domain.GeneratedResume{LatexContent: "x"}, nil)
		f.appRepo.On("UpdateGeneratedCV", mock.Anything, int64(42), mock.Anything, "latex", mock.Anything, mock.Anything).Return(nil)

		events, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		require.NoError(t, err)
		got := collect(t, events)

		require.Len(t, got, 5)
		skillsEvent := got[1]
		assert.Equal(t, domain.StageSkills, skillsEvent.Stage)
		assert.False(t, skillsEvent.Success)
		assert.Equal(t, string(domain.AnalysisTimeout), skillsEvent.ErrorKind)

		summary := got[4]
		require.Len(t, summary.Outcomes, 4)
		assert.True(t, summary.Outcomes[0].Success)
		assert.False(t, summary.Outcomes[1].Success)
		assert.True(t, summary.Outcomes[2].Success)
		assert.True(t, summary.Outcomes[3].Success)
		f.appRepo.AssertNotCalled(t, "UpdateSkills", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should treat an out-of-range match score as malformed", func(t *testing.T) {
		f := newPipelineFixture(t)
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		f.expectCreate(42)

		f.analyzer.On("Synthesize", mock.Anything, jobText).Return(&domain.JobSynthesis{}, nil)
		f.appRepo.On("UpdateSynthesis", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("MatchSkills", mock.Anything, jobText, "").Return(&domain.SkillsMatch{MatchScore: 150}, nil)
		f.appRepo.On("SetStageFailure", mock.Anything, int64(42), domain.StageSkills, string(domain.AnalysisMalformed)).Return(nil)

		f.analyzer.On("AnalyzeSalary", mock.Anything, jobText, mock.Anything).Return(validSalary(), nil)
		f.appRepo.On("UpdateSalary", mock.Anything, int64(42), mock.Anything).Return(nil)
		f.analyzer.On("GenerateResume", mock.Anything, mock.Anything).Return(&domain.GeneratedResume{LatexContent: "x"}, nil)
		f.appRepo.On("UpdateGeneratedCV", mock.Anything, int64(42), mock.Anything, "latex", mock.Anything, mock.Anything).Return(nil)

		events, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		require.NoError(t, err)
		got := collect(t, events)

		assert.False(t, got[1].Success)
		assert.Equal(t, string(domain.AnalysisMalformed), got[1].ErrorKind)
		f.appRepo.AssertNotCalled(t, "UpdateSkills", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should treat unordered market figures as malformed", func(t *testing.T) {
		f := newPipelineFixture(t)
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		f.expectCreate(42)

		f.analyzer.On("Synthesize", mock.Anything, jobText).Return(&domain.JobSynthesis{}, nil)
		f.appRepo.On("UpdateSynthesis", mock.Anything, int64(42), mock.Anything).Return(nil)
		f.analyzer.On("MatchSkills", mock.Anything, jobText, "").Return(&domain.SkillsMatch{MatchScore: 50}, nil)
		f.appRepo.On("UpdateSkills", mock.Anything, int64(42), mock.Anything).Return(nil)

		f.analyzer.On("AnalyzeSalary", mock.Anything, jobText, mock.Anything).Return(&domain.SalaryAnalysis{
			MarketLow: 80000, MarketMedian: 60000, MarketHigh: 75000,
		}, nil)
		f.appRepo.On("SetStageFailure", mock.Anything, int64(42), domain.StageSalary, string(domain.AnalysisMalformed)).Return(nil)

		f.analyzer.On("GenerateResume", mock.Anything, mock.Anything).Return(&domain.GeneratedResume{LatexContent: "x"}, nil)
		f.appRepo.On("UpdateGeneratedCV", mock.Anything, int64(42), mock.Anything, "latex", mock.Anything, mock.Anything).Return(nil)

		events, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		require.NoError(t, err)
		got := collect(t, events)

		assert.False(t, got[2].Success)
		f.appRepo.AssertNotCalled(t, "UpdateSalary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should run without a resume and record a null resume id", func(t *testing.T) {
		f := newPipelineFixture(t)
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		f.userRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		var created *domain.Application
		f.appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.Application)
				created.ID = 42
			}).Return(nil)

		f.analyzer.On("Synthesize", mock.Anything, jobText).Return(&domain.JobSynthesis{}, nil)
		f.appRepo.On("UpdateSynthesis", mock.Anything, int64(42), mock.Anything).Return(nil)
		f.analyzer.On("MatchSkills", mock.Anything, jobText, "").Return(&domain.SkillsMatch{MatchScore: 30}, nil)
		f.appRepo.On("UpdateSkills", mock.Anything, int64(42), mock.Anything).Return(nil)
		f.analyzer.On("AnalyzeSalary", mock.Anything, jobText, mock.Anything).Return(validSalary(), nil)
		f.appRepo.On("UpdateSalary", mock.Anything, int64(42), mock.Anything).Return(nil)
		f.analyzer.On("GenerateResume", mock.Anything, mock.Anything).Return(&domain.GeneratedResume{LatexContent: "x"}, nil)
		f.appRepo.On("UpdateGeneratedCV", mock.Anything, int64(42), mock.Anything, "latex", mock.Anything, mock.Anything).Return(nil)

		events, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		require.NoError(t, err)
		got := collect(t, events)

		require.NotNil(t, created)
		assert.Nil(t, created.ResumeID)
		require.Len(t, got, 5)
		assert.False(t, got[0].HasResume)
		// skills-match still ran
		f.analyzer.AssertCalled(t, "MatchSkills", mock.Anything, jobText, "")
	})

	t.Run("Should fail fast when the application cannot be created", func(t *testing.T) {
		f := newPipelineFixture(t)
		f.resumeRepo.On("GetActive", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		f.userRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		f.appRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: jobText})
		assert.Error(t, err)
		f.analyzer.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
	})

	t.Run("Should reject empty job text before creating anything", func(t *testing.T) {
		f := newPipelineFixture(t)

		_, err := f.uc.Run(ctx, 1, "alice", domain.ApplyJobInput{JobText: "too short"})
		assert.Error(t, err)
		f.appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
