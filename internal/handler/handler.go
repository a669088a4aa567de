package handler

import (
	"context"

	"vidbot/internal/domain"
	"vidbot/internal/menu"
	"vidbot/internal/service"
	"vidbot/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Messenger sends, edits and deletes messages outside of a handler's reply.
// *tele.Bot implements it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Services groups the business services the handler talks to
type Services struct {
	Users     *service.UserService
	History   *service.HistoryService
	Downloads *service.DownloadService
}

// Handler manages all bot interactions
type Handler struct {
	ctx       context.Context
	bot       *tele.Bot
	messenger Messenger
	users     *service.UserService
	history   *service.HistoryService
	downloads *service.DownloadService
	renderer  *menu.Renderer
	sessions  *session.Store
	logger    *zap.Logger
}

// NewHandler creates a new handler instance. ctx bounds running downloads;
// cancelling it kills in-flight executor processes.
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	services Services,
	renderer *menu.Renderer,
	sessions *session.Store,
	logger *zap.Logger,
) *Handler {
	h := newHandler(ctx, bot, services, renderer, sessions, logger)
	h.bot = bot
	return h
}

func newHandler(
	ctx context.Context,
	messenger Messenger,
	services Services,
	renderer *menu.Renderer,
	sessions *session.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ctx:       ctx,
		messenger: messenger,
		users:     services.Users,
		history:   services.History,
		downloads: services.Downloads,
		renderer:  renderer,
		sessions:  sessions,
		logger:    logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	for _, action := range menu.Actions {
		h.bot.Handle(&tele.Btn{Unique: action}, h.handleCallback)
	}

	// Generic callback handler for buttons without a registered unique
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// language returns the user's stored language, falling back to the default
func (h *Handler) language(userID int64) domain.Language {
	lang, err := h.users.Language(h.ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load user language",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
	return lang
}
