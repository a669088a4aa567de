package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidbot/internal/config"
	"vidbot/internal/database"
	"vidbot/internal/downloader"
	"vidbot/internal/handler"
	"vidbot/internal/locale"
	"vidbot/internal/menu"
	"vidbot/internal/middleware"
	"vidbot/internal/repository/sqlstore"
	"vidbot/internal/service"
	"vidbot/internal/session"

	"github.com/jmoiron/sqlx"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
)

const sessionSweepInterval = time.Minute

func main() {
	initDB := flag.Bool("init-db", false, "create the database schema and exit")
	flag.Parse()

	// Initialize logger
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logCfg := zap.NewProductionConfig()
	logCfg.Level = level
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logger.Warn("Unknown LOG_LEVEL, keeping info", zap.String("log_level", cfg.LogLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *initDB {
		if err := cfg.Database.Validate(); err != nil {
			logger.Fatal("Invalid database config", zap.Error(err))
		}
		db := openDatabase(ctx, cfg, logger)
		db.Close()
		logger.Info("Database initialized")
		return
	}

	logger.Info("Starting video downloader bot")

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("download_dir", cfg.Download.Dir),
		zap.Int("max_parallel_downloads", cfg.Download.MaxParallel),
	)

	db := openDatabase(ctx, cfg, logger)
	defer db.Close()

	// Initialize repositories
	userRepo := sqlstore.NewUserRepo(db)
	historyRepo := sqlstore.NewHistoryRepo(db)

	// Initialize downloader
	workspace, err := downloader.NewWorkspace(cfg.Download.Dir)
	if err != nil {
		logger.Fatal("Failed to prepare download dir", zap.Error(err))
	}

	ytdlp := downloader.NewYtDlp(downloader.Options{
		Binary:        cfg.Download.YtDlpPath,
		FFmpegPath:    cfg.Download.FFmpegPath,
		SocketTimeout: cfg.Download.SocketTimeout,
		Retries:       cfg.Download.Retries,
	}, logger)
	if err := ytdlp.CheckBinaries(); err != nil {
		logger.Warn("Downloader binaries not found, downloads will fail", zap.Error(err))
	}

	// Initialize services
	sessions := session.NewStore(cfg.Download.AwaitURLTTL)
	userService := service.NewUserService(userRepo)
	historyService := service.NewHistoryService(historyRepo)
	downloadService := service.NewDownloadService(
		userRepo,
		historyRepo,
		workspace,
		ytdlp,
		service.Limits{
			StandardMB: cfg.Download.MaxSizeMB,
			PremiumMB:  cfg.Download.PremiumMaxSizeMB,
		},
		cfg.Download.MaxParallel,
		logger,
	)
	maintenanceService := service.NewMaintenanceService(workspace, sessions, logger)

	if err := maintenanceService.PurgeStaleDownloads(); err != nil {
		logger.Fatal("Failed to clean download dir", zap.Error(err))
	}

	catalog, err := locale.Load()
	if err != nil {
		logger.Fatal("Failed to load texts", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	bot.Use(middleware.Recover(logger), middleware.Logging(logger))

	// Initialize handler
	h := handler.NewHandler(
		ctx,
		bot,
		handler.Services{
			Users:     userService,
			History:   historyService,
			Downloads: downloadService,
		},
		menu.NewRenderer(catalog),
		sessions,
		logger,
	)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	if sessions.TTL() > 0 {
		go runCleanupJob(ctx, maintenanceService, logger)
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown: cancelling ctx kills running downloads
	cancel()
	bot.Stop()

	logger.Info("Bot stopped gracefully")
}

// openDatabase connects to the configured store and applies migrations
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sqlx.DB {
	db, err := database.Connect(ctx, cfg.Database.Driver, cfg.DSN(), database.DefaultRetryPolicy, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	logger.Info("Database connection established")

	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		db.Close()
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")
	return db
}

// runCleanupJob drops expired URL expectations
func runCleanupJob(ctx context.Context, maintenance *service.MaintenanceService, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			maintenance.SweepSessions()
		}
	}
}
