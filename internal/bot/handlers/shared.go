package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/nexalo"
	"github.com/edgard/nexabot/internal/preferences"
)

// setupPrompt tells the user how to start onboarding.
func setupPrompt(req *command.Request) string {
	return fmt.Sprintf(req.Config.Messages.SetupRequired, req.Config.Commands.Prefix)
}

// loadPreferences returns the chat's record. A missing record is returned as
// the zero value.
func loadPreferences(ctx context.Context, req *command.Request) (preferences.Preferences, error) {
	prefs, _, err := req.Preferences(ctx)
	if err != nil {
		return preferences.Preferences{}, fmt.Errorf("failed to load preferences for chat %d: %w", req.ChatID, err)
	}
	return prefs, nil
}

// remoteError turns a backend failure into a UserError. Application errors
// use failedFormat with the remote message, or unknown when it is empty.
// Everything else uses transportFormat with the best available detail.
func remoteError(failedFormat, transportFormat, unknown string, err error) error {
	var apiErr *nexalo.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = unknown
		}
		return command.NewUserError(fmt.Sprintf(failedFormat, detail), err)
	}
	return command.NewUserError(fmt.Sprintf(transportFormat, nexalo.Detail(err)), err)
}

// resolveLanguage returns the language to use for a chat. When onboarding is
// required only a complete record qualifies and ok is false otherwise.
// Without that requirement a missing language falls back to the configured
// default.
func resolveLanguage(req *command.Request, prefs preferences.Preferences) (string, bool) {
	if req.Config.Conversation.RequireOnboarding {
		if prefs.Stage() != preferences.StageComplete {
			return "", false
		}
		return prefs.Language, true
	}
	if prefs.HasLanguage() {
		return prefs.Language, true
	}
	return req.Config.Conversation.DefaultLanguage, true
}
