package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/database"
)

type userRepo struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) domain.UserRepository {
	return &userRepo{db: db}
}

// Upsert inserts the user on first contact and refreshes the username on
// subsequent ones. Idempotent by design: every inbound command calls it.
func (r *userRepo) Upsert(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, username, updated_at)
              VALUES ($1, $2, now())
              ON CONFLICT (id) DO UPDATE SET
                  username = excluded.username,
                  updated_at = now()
              RETURNING locale, created_at, updated_at`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, user.ID, user.Username).
			Scan(&user.Locale, &user.CreatedAt, &user.UpdatedAt)
	})
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, locale, created_at, updated_at FROM users WHERE id = $1`
	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Locale, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
