package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/database"
)

type resumeRepo struct {
	db *database.DB
}

func NewResumeRepository(db *database.DB) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id, user_id, filename, original_name, file_path, file_size,
       mime_type, extracted_text, is_active, created_at`

// SaveNew deactivates every prior resume of the user and inserts the new one
// as active. Both statements run in one transaction so a crash in between
// can never leave two active resumes.
func (r *resumeRepo) SaveNew(ctx context.Context, resume *domain.Resume) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = FALSE WHERE user_id = $1`, resume.UserID); err != nil {
			return err
		}

		query := `INSERT INTO resumes
                  (user_id, filename, original_name, file_path, file_size, mime_type, extracted_text, is_active)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
                  RETURNING id, created_at`
		var extracted *string
		if resume.ExtractedText != nil && *resume.ExtractedText != "" {
			extracted = resume.ExtractedText
		}
		err := tx.QueryRow(ctx, query,
			resume.UserID, resume.Filename, resume.OriginalName, resume.FilePath,
			resume.FileSize, resume.MimeType, extracted,
		).Scan(&resume.ID, &resume.CreatedAt)
		if err != nil {
			return err
		}
		resume.IsActive = true
		return nil
	})
}

func (r *resumeRepo) GetActive(ctx context.Context, userID int64) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 AND is_active = TRUE`
	resume, err := scanResume(r.db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return resume, nil
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []domain.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, rows.Err()
}

func (r *resumeRepo) DeleteActive(ctx context.Context, userID int64) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM resumes WHERE user_id = $1 AND is_active = TRUE`, userID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

func (r *resumeRepo) UpdateExtractedText(ctx context.Context, resumeID int64, text string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE resumes SET extracted_text = $2 WHERE id = $1`, resumeID, text)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *resumeRepo) ListAllActive(ctx context.Context) ([]domain.ResumeWithOwner, error) {
	query := `SELECT r.id, r.user_id, r.filename, r.original_name, r.file_path, r.file_size,
                     r.mime_type, r.extracted_text, r.is_active, r.created_at, u.username
              FROM resumes r
              JOIN users u ON r.user_id = u.id
              WHERE r.is_active = TRUE
              ORDER BY r.created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []domain.ResumeWithOwner
	for rows.Next() {
		var rw domain.ResumeWithOwner
		if err := rows.Scan(
			&rw.ID, &rw.UserID, &rw.Filename, &rw.OriginalName, &rw.FilePath, &rw.FileSize,
			&rw.MimeType, &rw.ExtractedText, &rw.IsActive, &rw.CreatedAt, &rw.Username,
		); err != nil {
			return nil, err
		}
		resumes = append(resumes, rw)
	}
	return resumes, rows.Err()
}

func (r *resumeRepo) ClearAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM resumes`)
		if err != nil {
			return err
		}
		count = tag.RowsAffected()
		return nil
	})
	return count, err
}

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var resume domain.Resume
	err := row.Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.OriginalName, &resume.FilePath,
		&resume.FileSize, &resume.MimeType, &resume.ExtractedText, &resume.IsActive, &resume.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resume, nil
}
