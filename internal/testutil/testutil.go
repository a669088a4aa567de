package testutil

import (
	"os"
	"path/filepath"
	"time"

	"vidbot/internal/domain"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, lang domain.Language, premium bool) *domain.User {
	return &domain.User{
		UserID:    userID,
		Language:  lang,
		Premium:   premium,
		CreatedAt: time.Now(),
	}
}

// NewTestEntry creates a test history entry
func NewTestEntry(id int64, userID int64, url string, date time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:     id,
		UserID: userID,
		URL:    url,
		Date:   date,
	}
}

// WriteVideo returns an executor Run func that drops a sparse *.mp4 of the
// given size next to the output template
func WriteVideo(name string, size int64) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		dir := filepath.Dir(args[2].(string))
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := f.Truncate(size); err != nil {
			panic(err)
		}
	}
}
