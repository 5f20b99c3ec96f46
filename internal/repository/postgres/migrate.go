package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"go-jobpilot-backend/pkg/database"
)

// Migrate creates the schema when it does not exist yet. The four entities
// plus reminders are the full on-disk layout; nothing else persists state.
func Migrate(ctx context.Context, db *database.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGINT PRIMARY KEY,
			username   TEXT NOT NULL,
			locale     TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id             BIGSERIAL PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename       TEXT NOT NULL,
			original_name  TEXT NOT NULL,
			file_path      TEXT NOT NULL,
			file_size      BIGINT NOT NULL,
			mime_type      TEXT,
			extracted_text TEXT,
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id                  BIGSERIAL PRIMARY KEY,
			user_id             BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			resume_id           BIGINT REFERENCES resumes(id) ON DELETE SET NULL,
			job_title           TEXT,
			company             TEXT,
			location            TEXT,
			job_url             TEXT,
			raw_job_text        TEXT NOT NULL,
			synthesis           TEXT,
			key_requirements    JSONB,
			match_score         INT CHECK (match_score BETWEEN 0 AND 100),
			matched_skills      JSONB,
			missing_skills      JSONB,
			highlights          JSONB,
			offered_min         INT,
			offered_max         INT,
			market_low          INT,
			market_median       INT,
			market_high         INT,
			salary_currency     TEXT NOT NULL DEFAULT 'EUR',
			salary_analysis     TEXT,
			negotiation_tips    JSONB,
			generated_cv_path   TEXT,
			generated_cv_format TEXT NOT NULL DEFAULT 'latex',
			adaptations         JSONB,
			generation_summary  TEXT,
			stage_failures      JSONB,
			thread_id           BIGINT,
			status              TEXT NOT NULL DEFAULT 'generated',
			notes               TEXT,
			applied_at          TIMESTAMPTZ,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS status_history (
			id             BIGSERIAL PRIMARY KEY,
			application_id BIGINT NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
			old_status     TEXT,
			new_status     TEXT NOT NULL,
			note           TEXT,
			changed_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id             BIGSERIAL PRIMARY KEY,
			user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			application_id BIGINT REFERENCES applications(id) ON DELETE CASCADE,
			channel_id     BIGINT NOT NULL,
			remind_at      TIMESTAMPTZ NOT NULL,
			message        TEXT NOT NULL,
			is_sent        BOOLEAN NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resumes_active ON resumes(user_id, is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user ON applications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user_status ON applications(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_app ON status_history(application_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(is_sent, remind_at)`,
	}

	return db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
