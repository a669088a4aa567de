package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"vidbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates user with default settings if not exists
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id)
		VALUES (?)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), userID)
	return err
}

// GetUser returns the user profile, or nil if the user is unknown
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	query := `SELECT user_id, language, premium, downloads, created_at FROM users WHERE user_id = ?`
	err := r.db.GetContext(ctx, &u, r.db.Rebind(query), userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// SetLanguage stores the user's language
func (r *UserRepo) SetLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	query := `UPDATE users SET language = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), string(lang), userID)
	return err
}
