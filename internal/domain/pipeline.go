package domain

import "context"

// ApplyJobInput is the payload of the apply-to-job workflow. Job metadata is
// optional; the synthesis stage fills in whatever the caller left blank.
type ApplyJobInput struct {
	JobText  string
	JobTitle string
	Company  string
	Location string
	JobURL   string
	ThreadID *int64
}

// StageEventType distinguishes incremental stage results from the terminal
// summary.
type StageEventType string

const (
	EventStageResult StageEventType = "stage_result"
	EventSummary     StageEventType = "summary"
)

// StageOutcome is the success/failure record of one stage.
type StageOutcome struct {
	Stage     Stage  `json:"stage"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StageEvent is one element of the workflow's outcome stream: one event per
// attempted stage, then a summary event that always enumerates all four
// outcomes, even if every stage failed.
type StageEvent struct {
	Type          StageEventType `json:"type"`
	ApplicationID int64          `json:"application_id"`
	HasResume     bool           `json:"has_resume"`

	// Set on stage_result events.
	Stage     Stage  `json:"stage,omitempty"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`

	// Stage payload, set on success of the matching stage.
	Synthesis *JobSynthesis    `json:"synthesis,omitempty"`
	Skills    *SkillsMatch     `json:"skills_match,omitempty"`
	Salary    *SalaryAnalysis  `json:"salary_analysis,omitempty"`
	Generated *GeneratedResume `json:"generated_resume,omitempty"`

	// Set on the summary event.
	Outcomes []StageOutcome `json:"outcomes,omitempty"`
	Status   Status         `json:"status,omitempty"`
}

// PipelineUsecase drives the apply-to-job workflow. Run returns once the
// application record exists; stage events arrive on the returned channel,
// which is closed after the summary event. Caller cancellation stops
// delivery only - in-flight stages complete and their results are persisted.
type PipelineUsecase interface {
	Run(ctx context.Context, userID int64, username string, in ApplyJobInput) (<-chan StageEvent, error)
}
