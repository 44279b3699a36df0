package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/nexabot/internal/command"
)

func newStartCommand(deps HandlerDeps) command.RunFunc {
	return startHandler{deps}.Run
}

// startHandler resets the chat's preferences and presents the language menu.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Run(ctx context.Context, req *command.Request) error {
	log := h.deps.Logger.With("handler", "start")
	log.InfoContext(ctx, "Handling start command", "chat_id", req.ChatID, "user_id", req.UserID)

	if err := h.deps.Store.Delete(ctx, req.ChatID); err != nil {
		return fmt.Errorf("failed to reset preferences for chat %d: %w", req.ChatID, err)
	}

	msgs := h.deps.Config.Messages
	text := msgs.Welcome + "\n\n" + msgs.ChooseLanguage
	if err := req.Messenger.SendMenu(ctx, req.ChatID, text, h.deps.Flow.LanguageMenu()); err != nil {
		return fmt.Errorf("failed to send language menu: %w", err)
	}
	log.DebugContext(ctx, "Sent language menu", "chat_id", req.ChatID)
	return nil
}
