// Package tasks implements the bot's scheduled housekeeping tasks.
package tasks

import (
	"log/slog"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/preferences"
)

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Store     preferences.Store
	Cooldowns *command.Cooldowns
}
