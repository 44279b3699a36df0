package telegram

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Detach returns a middleware that runs handlers on a context that outlives
// cancellation of the polling context, bounded by timeout.
//
// Bots built by NewTelegramBot run handlers on their polling workers, so
// (*bot.Bot).Start returns only after every started handler has returned.
// Together with Detach, a handler picked up before shutdown runs to
// completion instead of seeing its context cancelled mid-request.
func Detach(timeout time.Duration) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			ctx = context.WithoutCancel(ctx)
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			next(ctx, b, update)
		}
	}
}
