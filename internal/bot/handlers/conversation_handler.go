package handlers

import (
	"context"
	"strings"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/conversation"
)

func newConversationForwarder(deps HandlerDeps) command.RunFunc {
	return conversationHandler{deps}.Run
}

// conversationHandler forwards non-command text to the conversation backend
// and relays the answer as text or photo.
type conversationHandler struct {
	deps HandlerDeps
}

func (h conversationHandler) Run(ctx context.Context, req *command.Request) error {
	log := h.deps.Logger.With("handler", "conversation")

	prefs, err := loadPreferences(ctx, req)
	if err != nil {
		return err
	}
	lang, ok := resolveLanguage(req, prefs)
	if !ok {
		log.DebugContext(ctx, "Chat has not finished setup, prompting setup", "chat_id", req.ChatID, "stage", prefs.Stage())
		return req.Reply(ctx, setupPrompt(req))
	}

	question := strings.TrimSpace(req.Text)
	log.InfoContext(ctx, "Processing...", req.LogAttrs()...)

	answer, err := h.deps.Responder.Respond(ctx, conversation.Query{
		Question:  question,
		Language:  lang,
		Sentiment: prefs.Sentiment,
	})
	if err != nil {
		msgs := h.deps.Config.Messages
		return remoteError(msgs.ChatFailed, msgs.ChatTransport, msgs.UnknownError, err)
	}

	if answer.IsImage() {
		log.InfoContext(ctx, "Replying with image", "chat_id", req.ChatID, "image_url", answer.ImageURL)
		return req.Messenger.SendPhoto(ctx, req.ChatID, answer.ImageURL)
	}
	log.DebugContext(ctx, "Replying with text", "chat_id", req.ChatID, "answer", answer.Text)
	return req.Reply(ctx, answer.Text)
}
