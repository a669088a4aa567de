package handler

import (
	"strings"
	"unicode"

	"vidbot/internal/domain"
	"vidbot/internal/locale"
	"vidbot/internal/menu"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackAction extracts the button action. telebot prefixes data of
// registered buttons with "\f<unique>|"; the unique is preferred when set.
func callbackAction(callback *tele.Callback) string {
	if callback.Unique != "" {
		return callback.Unique
	}
	data := cleanCallbackData(callback.Data)
	if i := strings.Index(data, "|"); i >= 0 {
		data = data[:i]
	}
	return data
}

// handleEditError handles errors from c.Edit(). If the message is not
// modified the callback is just acknowledged and nil is returned; otherwise
// the error is returned so the caller sends a new message.
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("user_id", userID),
		)
		if ackErr := c.Respond(); ackErr != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
		}
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show replaces the callback's message with the screen, falling back to a
// new message when the edit is rejected
func (h *Handler) show(c tele.Context, userID int64, screen *menu.Screen) error {
	if err := c.Edit(screen.Text, screen.Options()...); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(screen.Text, screen.Options()...)
	}
	return c.Respond()
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	userID := c.Sender().ID
	action := callbackAction(callback)

	h.logger.Debug("Callback received",
		zap.Int64("user_id", userID),
		zap.String("action", action),
	)

	switch action {
	case menu.ActionLangTR:
		return h.handleSetLanguage(c, userID, domain.LanguageTR)
	case menu.ActionLangEN:
		return h.handleSetLanguage(c, userID, domain.LanguageEN)
	case menu.ActionTwitter:
		return h.handleExpectURL(c, userID, domain.PlatformTwitter)
	case menu.ActionInstagram:
		return h.handleExpectURL(c, userID, domain.PlatformInstagram)
	case menu.ActionPremium:
		return h.handlePremium(c, userID)
	case menu.ActionBuyPremium:
		return h.handleBuyPremium(c, userID)
	case menu.ActionHistory:
		return h.handleHistory(c, userID)
	case menu.ActionHelp:
		return h.show(c, userID, h.renderer.Help(h.language(userID)))
	case menu.ActionMainMenu:
		h.sessions.Clear(userID)
		return h.show(c, userID, h.renderer.Main(h.language(userID)))
	default:
		h.logger.Warn("Unknown callback action",
			zap.Int64("user_id", userID),
			zap.String("action", action),
		)
		return c.Respond()
	}
}

// handleSetLanguage stores the chosen language and shows the main menu in it
func (h *Handler) handleSetLanguage(c tele.Context, userID int64, lang domain.Language) error {
	if err := h.users.SetLanguage(h.ctx, userID, lang); err != nil {
		h.logger.Error("Failed to set language",
			zap.Int64("user_id", userID),
			zap.String("language", string(lang)),
			zap.Error(err),
		)
		return c.Respond(&tele.CallbackResponse{
			Text:      h.renderer.Catalog().Text(lang, locale.KeyErrorUnavailable),
			ShowAlert: true,
		})
	}

	h.logger.Info("Language selected",
		zap.Int64("user_id", userID),
		zap.String("language", string(lang)),
	)
	return h.show(c, userID, h.renderer.Main(lang))
}

// handleExpectURL puts the user into the awaiting-URL state for the platform
func (h *Handler) handleExpectURL(c tele.Context, userID int64, platform domain.Platform) error {
	h.sessions.Expect(userID, platform)
	return h.show(c, userID, h.renderer.Prompt(h.language(userID), platform))
}

// handlePremium shows the premium information screen
func (h *Handler) handlePremium(c tele.Context, userID int64) error {
	user, err := h.users.Profile(h.ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load profile", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{
			Text:      h.renderer.Catalog().Text(h.language(userID), locale.KeyErrorUnavailable),
			ShowAlert: true,
		})
	}
	return h.show(c, userID, h.renderer.Premium(domain.ParseLanguage(string(user.Language)), user.Premium))
}

// handleBuyPremium answers the purchase button. Payments are not wired up.
func (h *Handler) handleBuyPremium(c tele.Context, userID int64) error {
	h.logger.Info("Premium purchase requested", zap.Int64("user_id", userID))
	return c.Respond(&tele.CallbackResponse{
		Text:      h.renderer.Catalog().Text(h.language(userID), locale.KeyPremiumStub),
		ShowAlert: true,
	})
}

// handleHistory shows the user's most recent downloads
func (h *Handler) handleHistory(c tele.Context, userID int64) error {
	lang := h.language(userID)

	entries, err := h.history.Recent(h.ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load history", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{
			Text:      h.renderer.Catalog().Text(lang, locale.KeyErrorUnavailable),
			ShowAlert: true,
		})
	}
	return h.show(c, userID, h.renderer.History(lang, entries))
}
