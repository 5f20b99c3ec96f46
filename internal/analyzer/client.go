// Package analyzer is the HTTP client for the AI analysis sidecar. Each of
// the four operations is an independent request/response call with its own
// hard timeout; failures are classified into the typed taxonomy of
// domain.AnalysisError and never retried here.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go-jobpilot-backend/internal/domain"
)

type client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a client for the analysis sidecar. The timeout applies per
// call - four stages get four full budgets, not a shared one.
func New(baseURL string, timeout time.Duration) domain.AnalyzerClient {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		// Per-call deadlines come from the request context, not the
		// http.Client, so Health can use a shorter budget.
		http: &http.Client{},
	}
}

type synthesizeRequest struct {
	JobDescription string `json:"job_description"`
}

type matchSkillsRequest struct {
	JobDescription string `json:"job_description"`
	CVContent      string `json:"cv_content"`
}

type salaryRequest struct {
	JobDescription string `json:"job_description"`
	Location       string `json:"location,omitempty"`
}

type generateRequest struct {
	CVContent    string   `json:"cv_content"`
	JobTitle     string   `json:"job_title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

func (c *client) Synthesize(ctx context.Context, jobText string) (*domain.JobSynthesis, error) {
	var out domain.JobSynthesis
	if err := c.post(ctx, "synthesize", "/synthesize", synthesizeRequest{JobDescription: jobText}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) MatchSkills(ctx context.Context, jobText, resumeText string) (*domain.SkillsMatch, error) {
	// Resume absence is not an error for this stage; the call proceeds with
	// the documented placeholder.
	if strings.TrimSpace(resumeText) == "" {
		resumeText = domain.ResumePlaceholder
	}
	var out domain.SkillsMatch
	req := matchSkillsRequest{JobDescription: jobText, CVContent: resumeText}
	if err := c.post(ctx, "match-skills", "/match-skills", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) AnalyzeSalary(ctx context.Context, jobText, location string) (*domain.SalaryAnalysis, error) {
	var out domain.SalaryAnalysis
	req := salaryRequest{JobDescription: jobText, Location: location}
	if err := c.post(ctx, "salary-analysis", "/salary-analysis", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GenerateResume(ctx context.Context, req domain.GenerateResumeRequest) (*domain.GeneratedResume, error) {
	var out domain.GeneratedResume
	wire := generateRequest{
		CVContent:    req.ResumeText,
		JobTitle:     req.JobTitle,
		Company:      req.Company,
		Requirements: req.Requirements,
		Highlights:   req.Highlights,
	}
	if err := c.post(ctx, "generate-cv", "/generate-cv", wire, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Health(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return c.classifyTransport(callCtx, "health", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransport(callCtx, "health", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &domain.AnalysisError{
			Kind:    domain.AnalysisService,
			Op:      "health",
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// post performs one bounded-duration call and decodes the response into out.
// Every failure path maps onto the typed taxonomy; a body that is not valid
// JSON, or that carries the sidecar's raw_response fallback, is surfaced as
// a malformed response rather than coerced into a partial success.
func (c *client) post(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &domain.AnalysisError{Kind: domain.AnalysisConnection, Op: op, Message: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &domain.AnalysisError{Kind: domain.AnalysisConnection, Op: op, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classifyTransport(callCtx, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classifyTransport(callCtx, op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &domain.AnalysisError{
			Kind:    domain.AnalysisService,
			Op:      op,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200)),
		}
	}

	var probe struct {
		Error string          `json:"error"`
		Raw   json.RawMessage `json:"raw_response"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return &domain.AnalysisError{Kind: domain.AnalysisMalformed, Op: op, Message: "response is not valid JSON"}
	}
	if probe.Error != "" {
		return &domain.AnalysisError{Kind: domain.AnalysisService, Op: op, Message: probe.Error}
	}
	if len(probe.Raw) > 0 {
		return &domain.AnalysisError{Kind: domain.AnalysisMalformed, Op: op, Message: "service returned unparsed raw output"}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.AnalysisError{Kind: domain.AnalysisMalformed, Op: op, Message: err.Error()}
	}
	return nil
}

func (c *client) classifyTransport(callCtx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &domain.AnalysisError{Kind: domain.AnalysisTimeout, Op: op, Message: "call exceeded timeout"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.AnalysisError{Kind: domain.AnalysisTimeout, Op: op, Message: "call exceeded timeout"}
	}
	return &domain.AnalysisError{Kind: domain.AnalysisConnection, Op: op, Message: err.Error()}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
