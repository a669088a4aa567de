package testutil

import (
	"context"
	"time"

	"vidbot/internal/domain"
	"vidbot/internal/downloader"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	args := m.Called(ctx, userID, lang)
	return args.Error(0)
}

// MockHistoryRepository is a mock for HistoryRepository and DownloadRecorder
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) GetRecent(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) RecordDownload(ctx context.Context, userID int64, url string, date time.Time) error {
	args := m.Called(ctx, userID, url, date)
	return args.Error(0)
}

// MockExecutor is a mock for downloader.Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Fetch(ctx context.Context, url, outputTemplate string) (*downloader.RunResult, error) {
	args := m.Called(ctx, url, outputTemplate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloader.RunResult), args.Error(1)
}
