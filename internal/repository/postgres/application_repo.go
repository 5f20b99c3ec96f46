package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/apperror"
	"go-jobpilot-backend/pkg/database"
)

type applicationRepo struct {
	db *database.DB
}

func NewApplicationRepository(db *database.DB) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, user_id, resume_id, job_title, company, location, job_url, raw_job_text,
       synthesis, key_requirements, match_score, matched_skills, missing_skills, highlights,
       offered_min, offered_max, market_low, market_median, market_high,
       salary_currency, salary_analysis, negotiation_tips,
       generated_cv_path, generated_cv_format, adaptations, generation_summary,
       stage_failures, thread_id, status, notes, applied_at, created_at, updated_at`

// Create inserts the application in state generated, before any analysis
// stage runs. Its failure is pipeline-fatal, so it maps to a plain error.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications
              (user_id, resume_id, job_title, company, location, job_url, raw_job_text, thread_id, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, salary_currency, generated_cv_format, created_at, updated_at`

	app.Status = domain.StatusGenerated
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			app.UserID, app.ResumeID, app.JobTitle, app.Company, app.Location,
			app.JobURL, app.RawJobText, app.ThreadID, app.Status,
		).Scan(&app.ID, &app.SalaryCurrency, &app.GeneratedCVFormat, &app.CreatedAt, &app.UpdatedAt)
	})
}

func (r *applicationRepo) GetForUser(ctx context.Context, userID, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND user_id = $2`
	return r.fetchOne(ctx, query, id, userID)
}

func (r *applicationRepo) fetchOne(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	app, err := scanApplication(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepo) List(ctx context.Context, userID int64, filter domain.ApplicationFilter) ([]domain.Application, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1`
	args := []any{userID}
	if filter.Status != nil {
		query += ` AND status = $2`
		args = append(args, *filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateSynthesis persists the stage 1 result. Job metadata columns are only
// filled when the caller left them blank, so user-supplied values win.
func (r *applicationRepo) UpdateSynthesis(ctx context.Context, id int64, syn *domain.JobSynthesis) error {
	reqs, err := jsonbOrNull(syn.KeyRequirements)
	if err != nil {
		return err
	}
	query := `UPDATE applications SET
                  job_title = COALESCE(job_title, $2),
                  company = COALESCE(company, $3),
                  location = COALESCE(location, $4),
                  synthesis = $5,
                  key_requirements = $6,
                  updated_at = now()
              WHERE id = $1`
	return r.exec(ctx, query, id, syn.Title, syn.Company, syn.Location, syn.Summary, reqs)
}

func (r *applicationRepo) UpdateSkills(ctx context.Context, id int64, skills *domain.SkillsMatch) error {
	matched, err := jsonbOrNull(skills.MatchedSkills)
	if err != nil {
		return err
	}
	missing, err := jsonbOrNull(skills.MissingSkills)
	if err != nil {
		return err
	}
	highlights, err := jsonbOrNull(skills.Highlights)
	if err != nil {
		return err
	}
	query := `UPDATE applications SET
                  match_score = $2,
                  matched_skills = $3,
                  missing_skills = $4,
                  highlights = $5,
                  updated_at = now()
              WHERE id = $1`
	return r.exec(ctx, query, id, skills.MatchScore, matched, missing, highlights)
}

func (r *applicationRepo) UpdateSalary(ctx context.Context, id int64, salary *domain.SalaryAnalysis) error {
	tips, err := jsonbOrNull(salary.NegotiationTips)
	if err != nil {
		return err
	}
	query := `UPDATE applications SET
                  offered_min = $2,
                  offered_max = $3,
                  market_low = $4,
                  market_median = $5,
                  market_high = $6,
                  salary_currency = COALESCE(NULLIF($7, ''), salary_currency),
                  salary_analysis = $8,
                  negotiation_tips = $9,
                  updated_at = now()
              WHERE id = $1`
	return r.exec(ctx, query, id,
		salary.OfferedMin, salary.OfferedMax,
		salary.MarketLow, salary.MarketMedian, salary.MarketHigh,
		salary.Currency, salary.Analysis, tips)
}

func (r *applicationRepo) UpdateGeneratedCV(ctx context.Context, id int64, path, format string, adaptations []string, summary string) error {
	adapt, err := jsonbOrNull(adaptations)
	if err != nil {
		return err
	}
	query := `UPDATE applications SET
                  generated_cv_path = $2,
                  generated_cv_format = $3,
                  adaptations = $4,
                  generation_summary = $5,
                  updated_at = now()
              WHERE id = $1`
	return r.exec(ctx, query, id, path, format, adapt, summary)
}

// SetStageFailure records the failure marker for one stage without touching
// any other stage's columns.
func (r *applicationRepo) SetStageFailure(ctx context.Context, id int64, stage domain.Stage, kind string) error {
	query := `UPDATE applications SET
                  stage_failures = COALESCE(stage_failures, '{}'::jsonb) || jsonb_build_object($2::text, $3::text),
                  updated_at = now()
              WHERE id = $1`
	return r.exec(ctx, query, id, string(stage), kind)
}

func (r *applicationRepo) SetThreadID(ctx context.Context, id int64, threadID int64) error {
	query := `UPDATE applications SET thread_id = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, threadID)
}

func (r *applicationRepo) SetNotes(ctx context.Context, id int64, notes string) error {
	query := `UPDATE applications SET notes = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, notes)
}

// RecordStatusTransition writes the status change and its audit entry in one
// transaction. The WHERE clause on the old status makes the write fail
// instead of silently applying a transition validated against stale state.
func (r *applicationRepo) RecordStatusTransition(ctx context.Context, id int64, oldStatus, newStatus domain.Status, note *string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE applications SET
                 status = $3,
                 applied_at = CASE WHEN $3 = 'applied' AND applied_at IS NULL THEN now() ELSE applied_at END,
                 updated_at = now()
             WHERE id = $1 AND status = $2`,
			id, oldStatus, newStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperror.Conflict("application status changed concurrently")
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO status_history (application_id, old_status, new_status, note)
             VALUES ($1, $2, $3, $4)`,
			id, oldStatus, newStatus, note)
		return err
	})
}

func (r *applicationRepo) History(ctx context.Context, applicationID int64) ([]domain.StatusHistoryEntry, error) {
	query := `SELECT id, application_id, old_status, new_status, note, changed_at
              FROM status_history WHERE application_id = $1 ORDER BY changed_at ASC, id ASC`
	rows, err := r.db.Pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var e domain.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.OldStatus, &e.NewStatus, &e.Note, &e.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *applicationRepo) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	stats := &domain.UserStats{ByStatus: map[domain.Status]int{}}

	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(match_score) FROM applications WHERE user_id = $1`,
		userID).Scan(&stats.TotalApplications, &stats.AvgMatchScore)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	companyRows, err := r.db.Pool.Query(ctx,
		`SELECT company, COUNT(*) AS cnt FROM applications
         WHERE user_id = $1 AND company IS NOT NULL
         GROUP BY company ORDER BY cnt DESC LIMIT 5`, userID)
	if err != nil {
		return nil, err
	}
	defer companyRows.Close()
	for companyRows.Next() {
		var cc domain.CompanyCount
		if err := companyRows.Scan(&cc.Company, &cc.Count); err != nil {
			return nil, err
		}
		stats.TopCompanies = append(stats.TopCompanies, cc)
	}
	return stats, companyRows.Err()
}

func (r *applicationRepo) ClearAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM applications`)
		if err != nil {
			return err
		}
		count = tag.RowsAffected()
		return nil
	})
	return count, err
}

// exec runs a single mutating statement under the writer lock and maps a
// missing row to ErrNotFound.
func (r *applicationRepo) exec(ctx context.Context, query string, args ...any) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// jsonbOrNull marshals a slice for a JSONB column, keeping SQL NULL for
// empty input so absent stage results stay distinguishable from empty ones.
// The value goes out as a string, not []byte: under the simple protocol pgx
// encodes []byte as a bytea hex literal, which jsonb_in rejects.
func jsonbOrNull[T any](items []T) (*string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var keyReqs, matched, missing, highlights, tips, adaptations, failures []byte

	err := row.Scan(
		&app.ID, &app.UserID, &app.ResumeID, &app.JobTitle, &app.Company, &app.Location,
		&app.JobURL, &app.RawJobText,
		&app.Synthesis, &keyReqs, &app.MatchScore, &matched, &missing, &highlights,
		&app.OfferedMin, &app.OfferedMax, &app.MarketLow, &app.MarketMedian, &app.MarketHigh,
		&app.SalaryCurrency, &app.SalaryAnalysis, &tips,
		&app.GeneratedCVPath, &app.GeneratedCVFormat, &adaptations, &app.GenerationSummary,
		&failures, &app.ThreadID, &app.Status, &app.Notes, &app.AppliedAt,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, field := range []struct {
		raw []byte
		dst any
	}{
		{keyReqs, &app.KeyRequirements},
		{matched, &app.MatchedSkills},
		{missing, &app.MissingSkills},
		{highlights, &app.Highlights},
		{tips, &app.NegotiationTips},
		{adaptations, &app.Adaptations},
		{failures, &app.StageFailures},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dst); err != nil {
			return nil, err
		}
	}
	return &app, nil
}
