package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
	"github.com/edgard/nexabot/internal/nexalo"
	"github.com/edgard/nexabot/internal/onboarding"
	"github.com/edgard/nexabot/internal/preferences"
	"github.com/edgard/nexabot/internal/telegram"
)

// Trainer submits question/answer pairs to the remote training API.
type Trainer interface {
	Train(ctx context.Context, r nexalo.TrainRequest) (*nexalo.TrainResult, error)
}

// HandlerDeps provides dependencies for Telegram command and update handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     preferences.Store
	Flow      *onboarding.Flow
	Messenger telegram.Messenger
	Responder conversation.Responder
	Trainer   Trainer
	Cooldowns *command.Cooldowns
}

// NewFlow builds the onboarding flow from the configured languages.
func NewFlow(cfg *config.Config) *onboarding.Flow {
	langs := make([]onboarding.Language, 0, len(cfg.Onboarding.Languages))
	for _, l := range cfg.Onboarding.Languages {
		langs = append(langs, onboarding.Language{Code: l.Code, Label: l.Label})
	}
	return onboarding.NewFlow(langs)
}
