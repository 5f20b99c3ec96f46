package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/database"
)

type reminderRepo struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) domain.ReminderRepository {
	return &reminderRepo{db: db}
}

const reminderColumns = `id, user_id, application_id, channel_id, remind_at, message, is_sent, created_at`

func (r *reminderRepo) Create(ctx context.Context, reminder *domain.Reminder) error {
	query := `INSERT INTO reminders (user_id, application_id, channel_id, remind_at, message)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, is_sent, created_at`
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			reminder.UserID, reminder.ApplicationID, reminder.ChannelID,
			reminder.RemindAt, reminder.Message,
		).Scan(&reminder.ID, &reminder.IsSent, &reminder.CreatedAt)
	})
}

func (r *reminderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
              WHERE user_id = $1 AND is_sent = FALSE ORDER BY remind_at ASC`
	return r.fetchMany(ctx, query, userID)
}

func (r *reminderRepo) ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
              WHERE is_sent = FALSE AND remind_at <= $1 ORDER BY remind_at ASC`
	return r.fetchMany(ctx, query, now)
}

func (r *reminderRepo) MarkSent(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE reminders SET is_sent = TRUE WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *reminderRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

func (r *reminderRepo) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}
	return reminders, rows.Err()
}

func scanReminder(row pgx.Row) (*domain.Reminder, error) {
	var reminder domain.Reminder
	err := row.Scan(&reminder.ID, &reminder.UserID, &reminder.ApplicationID,
		&reminder.ChannelID, &reminder.RemindAt, &reminder.Message,
		&reminder.IsSent, &reminder.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}
