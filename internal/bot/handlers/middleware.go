// Package handlers contains the bot's commands, the conversation forwarder,
// the onboarding callback handler and their Telegram route registration.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RequireSender creates a middleware that drops message updates without a
// sender or text, such as channel posts and service messages.
func RequireSender(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				deps.Logger.DebugContext(ctx, "Ignoring update without sender or text", "update_id", update.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}
