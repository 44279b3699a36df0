package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/nexalo"
	"github.com/edgard/nexabot/internal/preferences"
)

func newTeachCommand(deps HandlerDeps) command.RunFunc {
	return teachHandler{deps}.Run
}

// teachHandler submits a question/answer pair to the training API.
type teachHandler struct {
	deps HandlerDeps
}

func (h teachHandler) Run(ctx context.Context, req *command.Request) error {
	log := h.deps.Logger.With("handler", "teach")
	msgs := h.deps.Config.Messages

	if !req.IsAdmin {
		log.WarnContext(ctx, "Unauthorized teach attempt", req.LogAttrs()...)
		return req.Reply(ctx, msgs.NotAuthorized)
	}

	prefs, err := loadPreferences(ctx, req)
	if err != nil {
		return err
	}
	lang, ok := resolveLanguage(req, prefs)
	if !ok {
		return req.Reply(ctx, setupPrompt(req))
	}

	question, answer, ok := parseTeachArgs(req.Args)
	if !ok {
		return req.Reply(ctx, fmt.Sprintf(msgs.TeachUsage, req.Prefix+req.Command))
	}

	log.InfoContext(ctx, "Training...", append(req.LogAttrs(), "language", lang)...)
	result, err := h.deps.Trainer.Train(ctx, nexalo.TrainRequest{
		Question:     question,
		Answer:       answer,
		Language:     lang,
		Sentiment:    prefs.SentimentOr(preferences.SentimentNeutral),
		ResponseType: prefs.ResponseTypeOr(preferences.ResponseGood),
		Category:     h.deps.Config.Training.Category,
	})
	if err != nil {
		return remoteError(msgs.TeachFailed, msgs.TeachTransport, msgs.UnknownError, err)
	}

	log.InfoContext(ctx, "Trained", "id", string(result.ID), "message", result.Message, "chat_id", req.ChatID)
	return req.Reply(ctx, formatTaught(question, answer, result))
}

// parseTeachArgs splits the joined arguments on the first '|'.
func parseTeachArgs(args []string) (question, answer string, ok bool) {
	q, a, found := strings.Cut(strings.Join(args, " "), "|")
	if !found {
		return "", "", false
	}
	question, answer = strings.TrimSpace(q), strings.TrimSpace(a)
	return question, answer, question != "" && answer != ""
}

func formatTaught(question, answer string, result *nexalo.TrainResult) string {
	text := fmt.Sprintf("Successfully taught!\nQuestion: %s\nAnswer: %s\nID: %s", question, answer, result.ID)
	if result.APICalls != nil {
		text += fmt.Sprintf("\nAPI calls: %d", *result.APICalls)
	}
	return text
}
