package sqlstore

import (
	"context"
	"fmt"
	"time"

	"vidbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// HistoryRepo implements repository.HistoryRepository
type HistoryRepo struct {
	db *sqlx.DB
}

// NewHistoryRepo creates a new history repository
func NewHistoryRepo(db *sqlx.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// GetRecent returns up to limit entries, newest first
func (r *HistoryRepo) GetRecent(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT id, user_id, url, date
		FROM history
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`
	var entries []domain.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), userID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordDownload increments the counter and appends history in one transaction.
// Dates are stored in UTC so that they sort chronologically in SQLite, which
// keeps them as text.
func (r *HistoryRepo) RecordDownload(ctx context.Context, userID int64, url string, date time.Time) error {
	date = date.UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET downloads = downloads + 1 WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO history (user_id, url, date) VALUES (?, ?, ?)`), userID, url, date); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
