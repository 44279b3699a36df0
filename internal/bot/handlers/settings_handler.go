package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/nexabot/internal/command"
)

const unsetValue = "-"

func newSettingsCommand(deps HandlerDeps) command.RunFunc {
	return settingsHandler{deps}.Run
}

// settingsHandler shows the chat's preference record and onboarding stage.
type settingsHandler struct {
	deps HandlerDeps
}

func (h settingsHandler) Run(ctx context.Context, req *command.Request) error {
	prefs, err := loadPreferences(ctx, req)
	if err != nil {
		return err
	}

	lang := unsetValue
	if prefs.HasLanguage() {
		lang = h.deps.Flow.LanguageLabel(prefs.Language)
	}
	text := fmt.Sprintf(h.deps.Config.Messages.SettingsTemplate,
		lang,
		prefs.SentimentOr(unsetValue),
		prefs.ResponseTypeOr(unsetValue),
		prefs.Stage(),
	)
	return req.Reply(ctx, text)
}
