package handler

import (
	"vidbot/internal/domain"
	"vidbot/internal/locale"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.users.Register(h.ctx, userID); err != nil {
		h.logger.Error("Failed to register user", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(h.renderer.Catalog().Text(domain.DefaultLanguage, locale.KeyErrorUnavailable))
	}

	h.sessions.Clear(userID)

	screen := h.renderer.Language()
	return c.Send(screen.Text, screen.Options()...)
}
