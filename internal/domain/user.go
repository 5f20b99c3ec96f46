package domain

import (
	"context"
	"time"
)

// User is a chat-platform user. The ID is assigned by the platform and is
// stable across sessions; we never generate it ourselves.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats aggregates a user's application history.
type UserStats struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[Status]int `json:"by_status"`
	AvgMatchScore     *float64       `json:"avg_match_score,omitempty"`
	TopCompanies      []CompanyCount `json:"top_companies"`
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
}

type AuthUsecase interface {
	EnsureUser(ctx context.Context, id int64, username string) error
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}
