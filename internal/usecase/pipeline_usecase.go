package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/logger"
)

// eventBuffer sizes the stage-event channel so the pipeline never blocks on
// a slow or disconnected consumer. Four stage events plus the summary fit
// with room to spare.
const eventBuffer = 8

type applyJobPayload struct {
	JobText string `validate:"required,min=20"`
}

type pipelineUsecase struct {
	applicationRepo domain.ApplicationRepository
	resumeRepo      domain.ResumeRepository
	userRepo        domain.UserRepository
	analyzer        domain.AnalyzerClient
	validate        *validator.Validate
	storageDir      string
}

// NewPipelineUsecase creates the apply-to-job workflow usecase
func NewPipelineUsecase(
	applicationRepo domain.ApplicationRepository,
	resumeRepo domain.ResumeRepository,
	userRepo domain.UserRepository,
	analyzer domain.AnalyzerClient,
	validate *validator.Validate,
	storageDir string,
) domain.PipelineUsecase {
	return &pipelineUsecase{
		applicationRepo: applicationRepo,
		resumeRepo:      resumeRepo,
		userRepo:        userRepo,
		analyzer:        analyzer,
		validate:        validate,
		storageDir:      storageDir,
	}
}

// Run creates the application record, then drives the four analysis stages
// in the background. It returns an error only when the initial record cannot
// be written; every later failure is reported as a stage event instead of
// aborting the workflow. The stages run on a context detached from the
// caller's, so a disconnected client never loses persisted results.
func (uc *pipelineUsecase) Run(ctx context.Context, userID int64, username string, in domain.ApplyJobInput) (<-chan domain.StageEvent, error) {
	// 1. Validate input
	if err := uc.validate.Struct(applyJobPayload{JobText: in.JobText}); err != nil {
		return nil, apperror.BadRequest("Job text is required (at least 20 characters)")
	}

	// 2. Keep the user record current
	if err := uc.userRepo.Upsert(ctx, &domain.User{ID: userID, Username: username}); err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Resolve the active resume; absence degrades the run, it does not
	// block it.
	var resumeID *int64
	var resumeText string
	resume, err := uc.resumeRepo.GetActive(ctx, userID)
	switch {
	case err == nil:
		resumeID = &resume.ID
		if resume.ExtractedText != nil {
			resumeText = *resume.ExtractedText
		}
	case errors.Is(err, domain.ErrNotFound):
		// no resume on file
	default:
		return nil, apperror.Internal(err)
	}

	// 4. Create the application before any analysis call. This write is the
	// only fatal one.
	app := &domain.Application{
		UserID:     userID,
		ResumeID:   resumeID,
		RawJobText: in.JobText,
		ThreadID:   in.ThreadID,
	}
	if v := strings.TrimSpace(in.JobTitle); v != "" {
		app.JobTitle = &v
	}
	if v := strings.TrimSpace(in.Company); v != "" {
		app.Company = &v
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		app.Location = &v
	}
	if v := strings.TrimSpace(in.JobURL); v != "" {
		app.JobURL = &v
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("apply-job workflow started",
		"application_id", app.ID, "user_id", userID, "has_resume", resumeID != nil)

	events := make(chan domain.StageEvent, eventBuffer)
	go uc.runStages(context.WithoutCancel(ctx), app, resumeText, events)
	return events, nil
}

// runStages executes the four stages sequentially. Each stage persists its
// result (or failure marker) before its event is emitted, so an observer of
// the store is never ahead of the event stream.
func (uc *pipelineUsecase) runStages(ctx context.Context, app *domain.Application, resumeText string, events chan<- domain.StageEvent) {
	defer close(events)

	hasResume := app.ResumeID != nil
	base := domain.StageEvent{
		Type:          domain.EventStageResult,
		ApplicationID: app.ID,
		HasResume:     hasResume,
	}
	outcomes := make([]domain.StageOutcome, 0, len(domain.PipelineStages))

	// finish persists a failure marker when needed, records the outcome and
	// emits the stage event. fill sets the success payload on the event.
	finish := func(stage domain.Stage, failErr error, fill func(*domain.StageEvent)) {
		event := base
		event.Stage = stage
		outcome := domain.StageOutcome{Stage: stage, Success: failErr == nil}
		if failErr == nil {
			event.Success = true
			if fill != nil {
				fill(&event)
			}
		} else {
			kind, msg := classifyStageError(failErr)
			outcome.ErrorKind = kind
			outcome.Error = msg
			event.ErrorKind = kind
			event.Error = msg
			if err := uc.applicationRepo.SetStageFailure(ctx, app.ID, stage, kind); err != nil {
				logger.Log.Error("failed to persist stage failure",
					"application_id", app.ID, "stage", stage, "error", err)
			}
			logger.Log.Warn("pipeline stage failed",
				"application_id", app.ID, "stage", stage, "kind", kind, "error", msg)
		}
		outcomes = append(outcomes, outcome)
		events <- event
	}

	// Stage 1: synthesis
	var synthesis *domain.JobSynthesis
	syn, err := uc.analyzer.Synthesize(ctx, app.RawJobText)
	if err == nil {
		if perr := uc.applicationRepo.UpdateSynthesis(ctx, app.ID, syn); perr != nil {
			err = perr
		} else {
			synthesis = syn
		}
	}
	finish(domain.StageSynthesis, err, func(e *domain.StageEvent) { e.Synthesis = synthesis })

	// Stage 2: skills match
	var skills *domain.SkillsMatch
	sm, err := uc.analyzer.MatchSkills(ctx, app.RawJobText, resumeText)
	if err == nil {
		err = validateSkills(sm)
	}
	if err == nil {
		if perr := uc.applicationRepo.UpdateSkills(ctx, app.ID, sm); perr != nil {
			err = perr
		} else {
			skills = sm
		}
	}
	finish(domain.StageSkills, err, func(e *domain.StageEvent) { e.Skills = skills })

	// Stage 3: salary analysis
	location := ""
	if app.Location != nil {
		location = *app.Location
	} else if synthesis != nil {
		location = synthesis.Location
	}
	sal, err := uc.analyzer.AnalyzeSalary(ctx, app.RawJobText, location)
	if err == nil {
		err = validateSalary(sal)
	}
	if err == nil {
		if perr := uc.applicationRepo.UpdateSalary(ctx, app.ID, sal); perr != nil {
			err = perr
		}
	}
	finish(domain.StageSalary, err, func(e *domain.StageEvent) { e.Salary = sal })

	// Stage 4: CV generation, fed by whatever stages 1 and 2 produced
	req := domain.GenerateResumeRequest{ResumeText: resumeText}
	if app.JobTitle != nil {
		req.JobTitle = *app.JobTitle
	}
	if app.Company != nil {
		req.Company = *app.Company
	}
	if synthesis != nil {
		req.Requirements = synthesis.KeyRequirements
		if req.JobTitle == "" {
			req.JobTitle = synthesis.Title
		}
		if req.Company == "" {
			req.Company = synthesis.Company
		}
	}
	if skills != nil {
		req.Highlights = skills.Highlights
	}
	gen, err := uc.analyzer.GenerateResume(ctx, req)
	if err == nil {
		var path string
		path, err = uc.storeGeneratedCV(gen.LatexContent)
		if err == nil {
			summary := fmt.Sprintf("generated %d characters of LaTeX", len(gen.LatexContent))
			if gen.Summary != "" {
				summary = gen.Summary
			}
			if perr := uc.applicationRepo.UpdateGeneratedCV(ctx, app.ID, path, "latex", gen.Adaptations, summary); perr != nil {
				err = perr
			}
		}
	}
	finish(domain.StageGeneration, err, func(e *domain.StageEvent) { e.Generated = gen })

	// Terminal summary: always four outcomes, even on total failure.
	events <- domain.StageEvent{
		Type:          domain.EventSummary,
		ApplicationID: app.ID,
		HasResume:     hasResume,
		Outcomes:      outcomes,
		Status:        domain.StatusGenerated,
	}
	logger.Log.Info("apply-job workflow finished",
		"application_id", app.ID, "outcomes", outcomes)
}

// storeGeneratedCV writes the LaTeX source next to the uploaded resumes.
// Rendering to PDF is the dispatcher's concern.
func (uc *pipelineUsecase) storeGeneratedCV(content string) (string, error) {
	if err := os.MkdirAll(uc.storageDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(uc.storageDir, "generated-"+uuid.NewString()+".tex")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// classifyStageError maps any stage error onto an analysis error kind for
// the failure marker. Persistence errors surface as service errors.
func classifyStageError(err error) (string, string) {
	var analysisErr *domain.AnalysisError
	if errors.As(err, &analysisErr) {
		return string(analysisErr.Kind), analysisErr.Message
	}
	return string(domain.AnalysisService), err.Error()
}

// validateSkills rejects structurally valid replies that violate the score
// contract.
func validateSkills(sm *domain.SkillsMatch) error {
	if sm.MatchScore < 0 || sm.MatchScore > 100 {
		return &domain.AnalysisError{
			Kind:    domain.AnalysisMalformed,
			Op:      "match-skills",
			Message: fmt.Sprintf("match score %d outside [0,100]", sm.MatchScore),
		}
	}
	return nil
}

// validateSalary rejects market figures that are not ordered.
func validateSalary(sal *domain.SalaryAnalysis) error {
	if sal.MarketLow > sal.MarketMedian || sal.MarketMedian > sal.MarketHigh {
		return &domain.AnalysisError{
			Kind:    domain.AnalysisMalformed,
			Op:      "analyze-salary",
			Message: fmt.Sprintf("market figures not ordered: %d / %d / %d", sal.MarketLow, sal.MarketMedian, sal.MarketHigh),
		}
	}
	return nil
}
