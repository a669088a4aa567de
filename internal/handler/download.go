package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"vidbot/internal/domain"
	"vidbot/internal/locale"
	"vidbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const videoMIME = "video/mp4"

// handleText handles plain text messages. Only a user awaiting a URL gets a
// reaction; everything else is ignored.
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	if strings.HasPrefix(text, "/") {
		return nil
	}

	platform, ok := h.sessions.Take(userID)
	if !ok {
		h.logger.Debug("Ignoring text from idle user", zap.Int64("user_id", userID))
		return nil
	}

	return h.processURL(c, userID, text, platform)
}

// processURL downloads the URL and sends the video back, reporting progress
// by editing a single status message
func (h *Handler) processURL(c tele.Context, userID int64, url string, platform domain.Platform) error {
	lang := h.language(userID)
	catalog := h.renderer.Catalog()
	back := h.renderer.Back(lang)

	progress, err := h.messenger.Send(c.Recipient(), catalog.Text(lang, locale.KeyProcessing))
	if err != nil {
		h.logger.Error("Failed to send progress message", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}

	delivery, err := h.downloads.Download(h.ctx, userID, url, platform)
	if err != nil {
		h.logger.Warn("Download failed",
			zap.Int64("user_id", userID),
			zap.String("url", url),
			zap.Error(err),
		)
		return h.updateProgress(c, progress, h.downloadErrorText(lang, err), back)
	}
	defer func() {
		if rmErr := delivery.Release(); rmErr != nil {
			h.logger.Warn("Failed to remove delivered video", zap.Error(rmErr))
		}
	}()

	if _, err := h.messenger.Edit(progress, catalog.Text(lang, locale.KeyUploading)); err != nil {
		h.logger.Debug("Failed to update progress message", zap.Error(err))
	}

	video := &tele.Video{
		File:     tele.FromDisk(delivery.Path),
		FileName: filepath.Base(delivery.Path),
		MIME:     videoMIME,
		Caption:  catalog.Text(lang, locale.KeySuccessCaption),
	}
	if _, err := h.messenger.Send(c.Recipient(), video, back); err != nil {
		h.logger.Error("Failed to send video",
			zap.Int64("user_id", userID),
			zap.String("url", url),
			zap.Error(err),
		)
		return h.updateProgress(c, progress, catalog.Textf(lang, locale.KeyErrorGeneric, err.Error()), back)
	}

	if err := h.messenger.Delete(progress); err != nil {
		h.logger.Debug("Failed to delete progress message", zap.Error(err))
	}
	return nil
}

// updateProgress replaces the progress message, sending a new one when the
// edit fails
func (h *Handler) updateProgress(c tele.Context, progress *tele.Message, text string, markup *tele.ReplyMarkup) error {
	if _, err := h.messenger.Edit(progress, text, markup); err != nil {
		h.logger.Debug("Failed to edit progress message, sending new", zap.Error(err))
		_, err = h.messenger.Send(c.Recipient(), text, markup)
		return err
	}
	return nil
}

// downloadErrorText maps a pipeline error to the user-facing message
func (h *Handler) downloadErrorText(lang domain.Language, err error) string {
	catalog := h.renderer.Catalog()

	var sizeErr *service.SizeLimitError
	switch {
	case errors.Is(err, service.ErrNoVideo):
		return catalog.Text(lang, locale.KeyErrorNoVideo)
	case errors.As(err, &sizeErr):
		return catalog.Textf(lang, locale.KeyErrorTooLarge, sizeErr.LimitMB)
	default:
		return catalog.Textf(lang, locale.KeyErrorGeneric, err.Error())
	}
}
