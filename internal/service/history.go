package service

import (
	"context"

	"vidbot/internal/domain"
	"vidbot/internal/repository"
)

// HistoryService reads the download history
type HistoryService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo repository.HistoryRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

// Recent returns the latest downloads, newest first
func (s *HistoryService) Recent(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	entries, err := s.historyRepo.GetRecent(ctx, userID, domain.HistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) > domain.HistoryLimit {
		entries = entries[:domain.HistoryLimit]
	}
	return entries, nil
}
