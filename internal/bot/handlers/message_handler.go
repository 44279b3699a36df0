package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/nexabot/internal/command"
)

// NewMessageHandler returns the handler for every text message. It converts
// the update into a command request and hands it to dispatcher.
func NewMessageHandler(deps HandlerDeps, dispatcher *command.Dispatcher) bot.HandlerFunc {
	return messageHandler{deps: deps, dispatcher: dispatcher}.Handle
}

type messageHandler struct {
	deps       HandlerDeps
	dispatcher *command.Dispatcher
}

func (h messageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		h.deps.Logger.WarnContext(ctx, "Message handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	h.dispatcher.Dispatch(ctx, h.deps.newRequest(update.Message))
}

func (d HandlerDeps) newRequest(msg *models.Message) *command.Request {
	return &command.Request{
		ChatID:    msg.Chat.ID,
		ChatType:  string(msg.Chat.Type),
		UserID:    msg.From.ID,
		Username:  msg.From.Username,
		MessageID: msg.ID,
		Text:      msg.Text,
		SentAt:    time.Unix(int64(msg.Date), 0),
		IsAdmin:   d.Config.IsAdmin(msg.From.ID),
		Config:    d.Config,
		Prefs:     d.Store,
		Messenger: d.Messenger,
		Logger:    d.Logger,
	}
}
