package handlers

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/nexabot/internal/logger"
	"github.com/edgard/nexabot/internal/onboarding"
	"github.com/edgard/nexabot/internal/preferences"
)

// NewCallbackHandler returns the handler for onboarding button presses.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

// callbackEvent is the part of a callback query the flow needs.
type callbackEvent struct {
	ID        string
	ChatID    int64
	ChatType  string
	MessageID int
	UserID    int64
	Username  string
	Data      string
}

func (e callbackEvent) logAttrs() []any {
	return []any{
		"username", e.Username,
		"user_id", e.UserID,
		"chat_id", e.ChatID,
		"chat_type", e.ChatType,
		"text", e.Data,
	}
}

func (h callbackHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	ev := callbackEvent{
		ID:       cq.ID,
		UserID:   cq.From.ID,
		Username: cq.From.Username,
		Data:     cq.Data,
	}
	switch {
	case cq.Message.Message != nil:
		ev.ChatID = cq.Message.Message.Chat.ID
		ev.ChatType = string(cq.Message.Message.Chat.Type)
		ev.MessageID = cq.Message.Message.ID
	case cq.Message.InaccessibleMessage != nil:
		ev.ChatID = cq.Message.InaccessibleMessage.Chat.ID
		ev.ChatType = string(cq.Message.InaccessibleMessage.Chat.Type)
		ev.MessageID = cq.Message.InaccessibleMessage.MessageID
	}

	h.process(ctx, ev)
}

func (h callbackHandler) process(ctx context.Context, ev callbackEvent) {
	log := h.deps.Logger.With("handler", "onboarding")
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "Callback handler panicked", append(ev.logAttrs(),
				"error", fmt.Sprintf("panic: %v", r), "request_id", logger.RequestID(ctx), "stack", string(debug.Stack()))...)
		}
	}()

	if err := h.deps.Messenger.AnswerCallback(ctx, ev.ID); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", append(ev.logAttrs(), "error", err)...)
	}

	choice, ok := onboarding.ParseCallback(ev.Data)
	if !ok || ev.ChatID == 0 {
		log.DebugContext(ctx, "Ignoring unrecognised callback", ev.logAttrs()...)
		return
	}

	if err := h.apply(ctx, ev, choice); err != nil {
		log.ErrorContext(ctx, "Onboarding step failed", append(ev.logAttrs(), "error", err, "request_id", logger.RequestID(ctx))...)
		if sendErr := h.deps.Messenger.SendText(ctx, ev.ChatID, h.deps.Config.Messages.CommandError); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", ev.ChatID)
		}
	}
}

func (h callbackHandler) apply(ctx context.Context, ev callbackEvent, choice onboarding.Choice) error {
	log := h.deps.Logger.With("handler", "onboarding")

	prefs, _, err := h.deps.Store.Get(ctx, ev.ChatID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	next, ok := h.deps.Flow.Apply(prefs, choice)
	if !ok {
		log.DebugContext(ctx, "Ignoring callback out of sequence", append(ev.logAttrs(), "stage", prefs.Stage())...)
		return nil
	}
	if err := h.deps.Store.Set(ctx, ev.ChatID, next); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	log.InfoContext(ctx, "Onboarding step accepted", "chat_id", ev.ChatID, "step", choice.Step, "value", choice.Value, "stage", next.Stage())

	if ev.MessageID != 0 {
		if err := h.deps.Messenger.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			log.WarnContext(ctx, "Failed to delete onboarding menu", "chat_id", ev.ChatID, "message_id", ev.MessageID, "error", err)
		}
	}

	return h.sendNext(ctx, ev.ChatID, next)
}

func (h callbackHandler) sendNext(ctx context.Context, chatID int64, prefs preferences.Preferences) error {
	msgs := h.deps.Config.Messages

	switch prefs.Stage() {
	case preferences.StageLanguageChosen:
		text := fmt.Sprintf(msgs.ChooseSentiment, h.deps.Flow.LanguageLabel(prefs.Language))
		return h.deps.Messenger.SendMenu(ctx, chatID, text, onboarding.SentimentMenu())
	case preferences.StageSentimentChosen:
		return h.deps.Messenger.SendMenu(ctx, chatID, fmt.Sprintf(msgs.ChooseType, prefs.Sentiment), onboarding.TypeMenu())
	case preferences.StageComplete:
		return h.deps.Messenger.SendText(ctx, chatID, msgs.SetupComplete)
	default:
		return nil
	}
}
