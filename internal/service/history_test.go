package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vidbot/internal/domain"
	"vidbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHistoryService_Recent(t *testing.T) {
	now := time.Now()
	var many []domain.HistoryEntry
	for i := 0; i < 12; i++ {
		many = append(many, testutil.NewTestEntry(int64(12-i), 123, fmt.Sprintf("https://x.com/%d", 12-i), now.Add(-time.Duration(i)*time.Minute)))
	}

	tests := []struct {
		name          string
		mockEntries   []domain.HistoryEntry
		mockError     error
		expectedCount int
		expectedError bool
	}{
		{
			name:          "no history",
			mockEntries:   []domain.HistoryEntry{},
			expectedCount: 0,
		},
		{
			name:          "capped at limit",
			mockEntries:   many,
			expectedCount: domain.HistoryLimit,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockHistoryRepository)
			mockRepo.On("GetRecent", mock.Anything, int64(123), domain.HistoryLimit).Return(tt.mockEntries, tt.mockError)

			service := NewHistoryService(mockRepo)

			entries, err := service.Recent(context.Background(), 123)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, entries, tt.expectedCount)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
