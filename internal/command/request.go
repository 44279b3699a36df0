package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/preferences"
	"github.com/edgard/nexabot/internal/telegram"
)

// Request carries everything a command needs about one inbound message.
// Prefix, Command and Args are filled in by the dispatcher.
type Request struct {
	ChatID    int64
	ChatType  string
	UserID    int64
	Username  string
	MessageID int
	Text      string
	SentAt    time.Time
	IsAdmin   bool

	Prefix  string
	Command string
	Args    []string

	Config    *config.Config
	Prefs     preferences.Store
	Messenger telegram.Messenger
	Logger    *slog.Logger
}

// Reply sends text to the request's chat.
func (r *Request) Reply(ctx context.Context, text string) error {
	return r.Messenger.SendText(ctx, r.ChatID, text)
}

// ReplyTo sends text as a reply to the request's message.
func (r *Request) ReplyTo(ctx context.Context, text string) error {
	return r.Messenger.ReplyText(ctx, r.ChatID, r.MessageID, text)
}

// Preferences loads the chat's preference record.
func (r *Request) Preferences(ctx context.Context) (preferences.Preferences, bool, error) {
	return r.Prefs.Get(ctx, r.ChatID)
}

// LogAttrs returns the attributes every failure log carries.
func (r *Request) LogAttrs() []any {
	return []any{
		"username", r.Username,
		"user_id", r.UserID,
		"chat_id", r.ChatID,
		"chat_type", r.ChatType,
		"text", r.Text,
	}
}
