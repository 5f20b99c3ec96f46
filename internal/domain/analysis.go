package domain

import "context"

// ResumePlaceholder is sent to the skills-match stage when the user has no
// resume on file. It exists only at the analyzer boundary; nothing deeper in
// the pipeline depends on it.
const ResumePlaceholder = "No CV provided - analysis based on the job offer only"

// JobSynthesis is the structured summary of a job offer.
type JobSynthesis struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	ContractType     string   `json:"contract_type"`
	KeyRequirements  []string `json:"key_requirements"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	SalaryRange      *string  `json:"salary_range,omitempty"`
	Summary          string   `json:"summary"`
}

type MatchedSkill struct {
	Skill    string `json:"skill"`
	CvLevel  string `json:"cv_level"`
	Required string `json:"required"`
	IsMatch  bool   `json:"match"`
}

type MissingSkill struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
}

// SkillsMatch compares a CV against the job requirements.
type SkillsMatch struct {
	MatchScore      int            `json:"match_score"` // 0-100
	MatchedSkills   []MatchedSkill `json:"matched_skills"`
	MissingSkills   []MissingSkill `json:"missing_skills"`
	Highlights      []string       `json:"highlights"`
	Recommendations []string       `json:"recommendations"`
}

// SalaryAnalysis holds offered and market salary figures. Figures the
// service could not determine stay nil rather than zero.
type SalaryAnalysis struct {
	OfferedMin      *int     `json:"offered_min,omitempty"`
	OfferedMax      *int     `json:"offered_max,omitempty"`
	MarketLow       int      `json:"market_low"`
	MarketMedian    int      `json:"market_median"`
	MarketHigh      int      `json:"market_high"`
	Currency        string   `json:"currency"`
	Analysis        string   `json:"analysis"`
	NegotiationTips []string `json:"negotiation_tips"`
}

// GeneratedResume is the tailored CV produced by the last stage.
type GeneratedResume struct {
	LatexContent string   `json:"latex_content"`
	Adaptations  []string `json:"adaptations"`
	Summary      string   `json:"summary"`
}

// GenerateResumeRequest carries the context for the CV-generation stage.
// Title, company, requirements and highlights come from the synthesis and
// skills-match outputs when those stages succeeded, else stay empty.
type GenerateResumeRequest struct {
	ResumeText   string
	JobTitle     string
	Company      string
	Requirements []string
	Highlights   []string
}

// AnalysisErrorKind classifies failures of a single analysis call.
type AnalysisErrorKind string

const (
	AnalysisTimeout    AnalysisErrorKind = "timeout"
	AnalysisConnection AnalysisErrorKind = "connection_failure"
	AnalysisMalformed  AnalysisErrorKind = "malformed_response"
	AnalysisService    AnalysisErrorKind = "service_error"
)

// AnalysisError is the typed failure of one analyzer call. The pipeline
// records Kind as the stage failure marker.
type AnalysisError struct {
	Kind    AnalysisErrorKind
	Op      string // which endpoint failed
	Message string
}

func (e *AnalysisError) Error() string {
	return string(e.Kind) + " during " + e.Op + ": " + e.Message
}

// AnalyzerClient is the bounded-timeout client for the four external
// analysis operations. Implementations perform no retries; retry policy
// belongs to the orchestration layer, which knows whether a stage is safe
// to re-request.
type AnalyzerClient interface {
	Synthesize(ctx context.Context, jobText string) (*JobSynthesis, error)
	MatchSkills(ctx context.Context, jobText, resumeText string) (*SkillsMatch, error)
	AnalyzeSalary(ctx context.Context, jobText, location string) (*SalaryAnalysis, error)
	GenerateResume(ctx context.Context, req GenerateResumeRequest) (*GeneratedResume, error)
	Health(ctx context.Context) error
}
