package domain

import (
	"context"
	"time"
)

// Resume is an uploaded base CV. At most one resume per user carries the
// active flag; uploading a new one deactivates the previous ones in the
// same transaction.
type Resume struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Filename      string    `json:"filename"`      // stored name on disk
	OriginalName  string    `json:"original_name"` // name as uploaded
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      *string   `json:"mime_type,omitempty"`
	ExtractedText *string   `json:"extracted_text,omitempty"` // nil until extraction completes
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResumeWithOwner is used by admin listings.
type ResumeWithOwner struct {
	Resume
	Username string `json:"username"`
}

type ResumeRepository interface {
	// SaveNew deactivates every resume the user has and inserts the new one
	// as active, all in one transaction.
	SaveNew(ctx context.Context, resume *Resume) error
	GetActive(ctx context.Context, userID int64) (*Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	// DeleteActive removes the active resume. Returns false if none was active.
	DeleteActive(ctx context.Context, userID int64) (bool, error)
	UpdateExtractedText(ctx context.Context, resumeID int64, text string) error

	// Admin operations. Capability checks are the caller's responsibility.
	ListAllActive(ctx context.Context) ([]ResumeWithOwner, error)
	ClearAll(ctx context.Context) (int64, error)
}

// ResumeUpload carries the validated bytes of an incoming CV file.
type ResumeUpload struct {
	OriginalName  string
	MimeType      string
	Content       []byte
	ExtractedText string // optional, supplied by the dispatcher when available
}

type ResumeUsecase interface {
	Upload(ctx context.Context, userID int64, upload ResumeUpload) (*Resume, error)
	GetActive(ctx context.Context, userID int64) (*Resume, error)
	List(ctx context.Context, userID int64) ([]Resume, error)
	DeleteActive(ctx context.Context, userID int64) error
	// SetExtractedText attaches dispatcher-extracted text to the active
	// resume after the fact. Extraction runs on the dispatcher side, so the
	// text can arrive well after the upload itself.
	SetExtractedText(ctx context.Context, userID int64, text string) (*Resume, error)
}
