// Package database opens the profile store and applies its schema.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations
var migrations embed.FS

// RetryPolicy controls connection attempts
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy waits up to a minute for the database to come up
var DefaultRetryPolicy = RetryPolicy{Attempts: 30, Delay: 2 * time.Second}

// Connect opens the database with retries and configures the pool
func Connect(ctx context.Context, driver, dsn string, retry RetryPolicy, logger *zap.Logger) (*sqlx.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}

	var err error
	for i := 0; i < retry.Attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retry.Delay):
			}
		}

		var db *sqlx.DB
		db, err = sqlx.Open(driver, dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		configurePool(db, driver)
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", retry.Attempts, err)
}

func configurePool(db *sqlx.DB, driver string) {
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// Migrate creates the users and history tables. It is safe to run repeatedly.
func Migrate(db *sqlx.DB, driver string, logger *zap.Logger) error {
	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = postgresdb.WithInstance(db.DB, &postgresdb.Config{})
	case DriverSQLite:
		target, err = sqlitedb.WithInstance(db.DB, &sqlitedb.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
