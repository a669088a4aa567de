package repository

import (
	"context"
	"time"

	"vidbot/internal/domain"
)

// UserRepository defines user profile operations
type UserRepository interface {
	EnsureUserExists(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	SetLanguage(ctx context.Context, userID int64, lang domain.Language) error
}

// HistoryRepository defines download history operations
type HistoryRepository interface {
	GetRecent(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error)
}

// DownloadRecorder stores the side effects of a successful download
type DownloadRecorder interface {
	RecordDownload(ctx context.Context, userID int64, url string, date time.Time) error
}
