package service

import (
	"go.uber.org/zap"
)

// SessionSweeper drops expired conversation state
type SessionSweeper interface {
	Sweep() int
}

// WorkspacePurger removes leftover download directories
type WorkspacePurger interface {
	Purge() (int, error)
}

// MaintenanceService handles periodic cleanup
type MaintenanceService struct {
	workspace WorkspacePurger
	sessions  SessionSweeper
	logger    *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(workspace WorkspacePurger, sessions SessionSweeper, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		workspace: workspace,
		sessions:  sessions,
		logger:    logger,
	}
}

// PurgeStaleDownloads removes job directories left by a previous run.
// Call it before the bot starts taking downloads.
func (s *MaintenanceService) PurgeStaleDownloads() error {
	removed, err := s.workspace.Purge()
	if err != nil {
		s.logger.Error("Failed to purge stale downloads", zap.Error(err))
		return err
	}

	s.logger.Info("Stale downloads purged", zap.Int("removed", removed))
	return nil
}

// SweepSessions drops expired URL expectations
func (s *MaintenanceService) SweepSessions() int {
	removed := s.sessions.Sweep()
	if removed > 0 {
		s.logger.Info("Expired URL expectations removed", zap.Int("removed", removed))
	}
	return removed
}
