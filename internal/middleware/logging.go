package middleware

import (
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const maxLoggedText = 256

// Logging writes one debug line per update and reports handler errors
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			fields := updateFields(c)

			logger.Debug("Update received", fields...)

			err := next(c)
			fields = append(fields, zap.Duration("took", time.Since(start)))
			if err != nil {
				logger.Warn("Handler returned error", append(fields, zap.Error(err))...)
			}
			return err
		}
	}
}

func updateFields(c tele.Context) []zap.Field {
	var fields []zap.Field
	if sender := c.Sender(); sender != nil {
		fields = append(fields, zap.Int64("user_id", sender.ID))
		if sender.Username != "" {
			fields = append(fields, zap.String("username", sender.Username))
		}
	}

	if cb := c.Callback(); cb != nil {
		action := cb.Unique
		if action == "" {
			action = strings.TrimSpace(cb.Data)
		}
		return append(fields, zap.String("callback", action))
	}
	if text := c.Text(); text != "" {
		if len(text) > maxLoggedText {
			text = text[:maxLoggedText]
		}
		fields = append(fields, zap.String("text", text))
	}
	return fields
}
