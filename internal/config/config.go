package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vidbot/internal/database"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Download DownloadConfig
	Database DatabaseConfig
}

// DownloadConfig holds downloader settings
type DownloadConfig struct {
	YtDlpPath        string        `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath       string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	Dir              string        `envconfig:"DOWNLOAD_DIR"`
	MaxSizeMB        int           `envconfig:"MAX_FILE_SIZE_MB" default:"100"`
	PremiumMaxSizeMB int           `envconfig:"PREMIUM_MAX_FILE_SIZE_MB" default:"1024"`
	MaxParallel      int           `envconfig:"MAX_PARALLEL_DOWNLOADS" default:"4"`
	AwaitURLTTL      time.Duration `envconfig:"AWAIT_URL_TTL" default:"0s"`
	SocketTimeout    time.Duration `envconfig:"SOCKET_TIMEOUT" default:"30s"`
	Retries          int           `envconfig:"DOWNLOAD_RETRIES" default:"3"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       string `envconfig:"DB_PORT" default:"5432"`
	Name       string `envconfig:"DB_NAME" default:"vidbot"`
	User       string `envconfig:"DB_USER" default:"vidbot"`
	Password   string `envconfig:"DB_PASSWORD"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"users.db"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Download.Dir == "" {
		cfg.Download.Dir = filepath.Join(os.TempDir(), "vidbot")
	}

	return &cfg, nil
}

// Validate checks the settings needed to run the bot
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Download.MaxSizeMB <= 0 || c.Download.PremiumMaxSizeMB <= 0 {
		return fmt.Errorf("file size limits must be positive")
	}
	if c.Download.MaxParallel <= 0 {
		return fmt.Errorf("MAX_PARALLEL_DOWNLOADS must be positive")
	}
	return c.Database.Validate()
}

// Validate checks the database settings
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case database.DriverPostgres:
		if d.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case database.DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
	return nil
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == database.DriverSQLite {
		return fmt.Sprintf(
			"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
			c.Database.SQLitePath,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
