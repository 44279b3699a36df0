// Package logger provides structured logging for the bot.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// NewLogger creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	return newLogger(os.Stdout, levelStr, jsonOutput)
}

func newLogger(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Middleware creates a logging middleware for the Telegram bot.
// Every update gets a request id which is stored in the context passed on
// to the next handler.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			requestID := uuid.NewString()
			ctx = WithRequestID(ctx, requestID)

			logEntry := log.With("update_id", update.ID, "request_id", requestID)

			var updateType string
			switch {
			case update.Message != nil:
				updateType = "message"
				logEntry = logEntry.With(
					"message_id", update.Message.ID,
					"chat_id", update.Message.Chat.ID,
					"chat_type", string(update.Message.Chat.Type),
					"text_preview", truncateString(update.Message.Text, 50),
				)
				if update.Message.From != nil {
					logEntry = logEntry.With("user_id", update.Message.From.ID, "username", update.Message.From.Username)
				}
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				logEntry = logEntry.With(
					"callback_query_id", update.CallbackQuery.ID,
					"user_id", update.CallbackQuery.From.ID,
					"username", update.CallbackQuery.From.Username,
					"data", update.CallbackQuery.Data,
				)
				if msg := update.CallbackQuery.Message.Message; msg != nil {
					logEntry = logEntry.With("chat_id", msg.Chat.ID, "message_accessible", true)
				} else if inacc := update.CallbackQuery.Message.InaccessibleMessage; inacc != nil {
					logEntry = logEntry.With("chat_id", inacc.Chat.ID, "message_accessible", false)
				}
			default:
				updateType = "other"
			}
			logEntry = logEntry.With("update_type", updateType)

			logEntry.InfoContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
