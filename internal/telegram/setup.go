// Package telegram wires the go-telegram/bot client: bot construction,
// route registration, the Messenger used by handlers and the context
// handling that lets running handlers finish on shutdown.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Route describes a handler registration.
type Route struct {
	HandlerType bot.HandlerType
	Pattern     string
	MatchType   bot.MatchType
	Handler     bot.HandlerFunc
	Middleware  []bot.Middleware
}

// DefaultWorkers is the number of polling workers when none is configured.
const DefaultWorkers = 8

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
// Handlers run synchronously on the polling workers, so Start does not return
// while a handler is still running.
func NewTelegramBot(token string, workers int, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	opts = append([]bot.Option{
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "callback_query"}),
		bot.WithNotAsyncHandlers(),
		bot.WithWorkers(workers),
		bot.WithErrorsHandler(func(err error) {
			log.Error("Telegram polling error", "error", err)
		}),
	}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token), "workers", workers)
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// applyMiddleware wraps a handler function with a slice of middleware.
// Middleware are applied in reverse order so the first one in the slice is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers routes with the bot instance. An empty pattern
// with MatchTypePrefix matches every update of the route's type.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, routes []Route) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(routes) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for _, r := range routes {
		if r.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", r.Pattern)
			continue
		}
		b.RegisterHandler(r.HandlerType, r.Pattern, r.MatchType, applyMiddleware(r.Handler, r.Middleware))
		log.Debug("Registered handler", "pattern", r.Pattern, "match_type", r.MatchType, "middleware_count", len(r.Middleware))
	}

	log.Info("Registered Telegram handlers successfully", "count", len(routes))
	return nil
}

// BotCommand is an entry of the command menu shown by Telegram clients.
type BotCommand struct {
	Command     string
	Description string
}

// PublishCommands sets the bot's command menu.
func PublishCommands(ctx context.Context, b *bot.Bot, commands []BotCommand) error {
	list := make([]models.BotCommand, 0, len(commands))
	for _, c := range commands {
		list = append(list, models.BotCommand{Command: c.Command, Description: c.Description})
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: list}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}
