package domain

import (
	"context"
	"time"
)

// Stage identifies one of the four analysis operations of the apply-job
// pipeline.
type Stage string

const (
	StageSynthesis  Stage = "synthesis"
	StageSkills     Stage = "skills_match"
	StageSalary     Stage = "salary_analysis"
	StageGeneration Stage = "resume_generation"
)

// PipelineStages lists the stages in execution order. CV generation runs
// last because it consumes the synthesis and skills-match outputs.
var PipelineStages = []Stage{StageSynthesis, StageSkills, StageSalary, StageGeneration}

// Application is one job-application attempt. It is created before any
// analysis call runs, so even a fully failed pipeline leaves an auditable
// record, and is filled in progressively as stages complete. Optional
// analysis fields stay nil until their stage succeeds.
type Application struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	ResumeID *int64 `json:"resume_id,omitempty"` // nil when no resume was on file

	// Job metadata
	JobTitle   *string `json:"job_title,omitempty"`
	Company    *string `json:"company,omitempty"`
	Location   *string `json:"location,omitempty"`
	JobURL     *string `json:"job_url,omitempty"`
	RawJobText string  `json:"raw_job_text"`

	// Stage 1: synthesis
	Synthesis       *string  `json:"synthesis,omitempty"`
	KeyRequirements []string `json:"key_requirements,omitempty"`

	// Stage 2: skills match
	MatchScore    *int           `json:"match_score,omitempty"` // 0-100
	MatchedSkills []MatchedSkill `json:"matched_skills,omitempty"`
	MissingSkills []MissingSkill `json:"missing_skills,omitempty"`
	Highlights    []string       `json:"highlights,omitempty"`

	// Stage 3: salary analysis
	OfferedMin      *int     `json:"offered_min,omitempty"`
	OfferedMax      *int     `json:"offered_max,omitempty"`
	MarketLow       *int     `json:"market_low,omitempty"`
	MarketMedian    *int     `json:"market_median,omitempty"`
	MarketHigh      *int     `json:"market_high,omitempty"`
	SalaryCurrency  string   `json:"salary_currency"`
	SalaryAnalysis  *string  `json:"salary_analysis,omitempty"`
	NegotiationTips []string `json:"negotiation_tips,omitempty"`

	// Stage 4: generated CV
	GeneratedCVPath   *string  `json:"generated_cv_path,omitempty"`
	GeneratedCVFormat string   `json:"generated_cv_format"`
	Adaptations       []string `json:"adaptations,omitempty"`
	GenerationSummary *string  `json:"generation_summary,omitempty"`

	// Per-stage failure markers: stage -> analysis error kind.
	StageFailures map[Stage]string `json:"stage_failures,omitempty"`

	ThreadID  *int64     `json:"thread_id,omitempty"` // chat-platform thread reference
	Status    Status     `json:"status"`
	Notes     *string    `json:"notes,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusHistoryEntry is an append-only audit record. Exactly one entry is
// written per accepted transition, in the same transaction as the status
// update; entries are never mutated or deleted.
type StatusHistoryEntry struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	OldStatus     *Status   `json:"old_status,omitempty"`
	NewStatus     Status    `json:"new_status"`
	Note          *string   `json:"note,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// ApplicationFilter narrows List results.
type ApplicationFilter struct {
	Status *Status
	Limit  int
}

type ApplicationRepository interface {
	// Create inserts the application with status generated. Called before any
	// analysis stage runs.
	Create(ctx context.Context, app *Application) error
	// GetForUser returns ErrNotFound when the application does not belong to
	// the user.
	GetForUser(ctx context.Context, userID, id int64) (*Application, error)
	List(ctx context.Context, userID int64, filter ApplicationFilter) ([]Application, error)

	// Partial per-stage updates. Each touches only its own stage's columns.
	UpdateSynthesis(ctx context.Context, id int64, syn *JobSynthesis) error
	UpdateSkills(ctx context.Context, id int64, skills *SkillsMatch) error
	UpdateSalary(ctx context.Context, id int64, salary *SalaryAnalysis) error
	UpdateGeneratedCV(ctx context.Context, id int64, path, format string, adaptations []string, summary string) error
	SetStageFailure(ctx context.Context, id int64, stage Stage, kind string) error
	SetThreadID(ctx context.Context, id int64, threadID int64) error
	SetNotes(ctx context.Context, id int64, notes string) error

	// RecordStatusTransition updates the status and appends the history entry
	// in one transaction. It fails when the stored status no longer matches
	// oldStatus.
	RecordStatusTransition(ctx context.Context, id int64, oldStatus, newStatus Status, note *string) error
	History(ctx context.Context, applicationID int64) ([]StatusHistoryEntry, error)

	Stats(ctx context.Context, userID int64) (*UserStats, error)
	// ClearAll removes every application (admin bulk-clear). The capability
	// check is the caller's responsibility.
	ClearAll(ctx context.Context) (int64, error)
}

type ApplicationUsecase interface {
	Get(ctx context.Context, userID, id int64) (*Application, error)
	List(ctx context.Context, userID int64, filter ApplicationFilter) ([]Application, error)
	// UpdateStatus validates the transition against the lifecycle graph and
	// records it atomically with its history entry.
	UpdateStatus(ctx context.Context, userID, id int64, newStatus Status, note *string) (*Application, error)
	History(ctx context.Context, userID, id int64) ([]StatusHistoryEntry, error)
	SetNotes(ctx context.Context, userID, id int64, notes string) error
	// SetThread records the dispatcher's conversation reference once the
	// dispatcher has opened a thread for the application.
	SetThread(ctx context.Context, userID, id, threadID int64) error
	Stats(ctx context.Context, userID int64) (*UserStats, error)
}

type AdminUsecase interface {
	ListAllResumes(ctx context.Context) ([]ResumeWithOwner, error)
	ClearResumes(ctx context.Context) (int64, error)
	ClearApplications(ctx context.Context) (int64, error)
}
