package handlers

import (
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/telegram"
)

// Descriptors returns every command the bot offers. help needs the registry
// it will be registered in to list the others.
func Descriptors(deps HandlerDeps, registry *command.Registry) []command.Descriptor {
	return []command.Descriptor{
		{
			Name:        "start",
			Description: "Reset your preferences and start the setup",
			Usage:       "{pn}",
			Category:    "Setup",
			Version:     "1.0",
			Run:         newStartCommand(deps),
		},
		{
			Name:        "settings",
			Aliases:     []string{"prefs"},
			Cooldown:    2 * time.Second,
			Description: "Show this chat's preferences",
			Usage:       "{pn}",
			Category:    "Setup",
			Version:     "1.0",
			Run:         newSettingsCommand(deps),
		},
		{
			Name:        "help",
			Aliases:     []string{"commands"},
			Cooldown:    2 * time.Second,
			Description: "List commands or show details of one",
			Usage:       "{pn} [command]",
			Category:    "Info",
			Version:     "1.0",
			Run:         newHelpCommand(deps, registry),
		},
		{
			Name:        "ping",
			Aliases:     []string{"userinfo", "getuser"},
			MinimumRole: command.RoleAdmin,
			Cooldown:    3 * time.Second,
			Description: "Fetches and displays user information based on user ID",
			Usage:       "{pn} [user ID]",
			Category:    "User",
			Version:     "1.0",
			UsePrefix:   true,
			Run:         newPingCommand(deps),
		},
		{
			Name:        "teach",
			Aliases:     []string{"train", "learn"},
			MinimumRole: command.RoleAdmin,
			Cooldown:    5 * time.Second,
			Description: "Teaches the bot a new question-answer pair",
			Usage:       "{pn} <question> | <answer>",
			Category:    "Training",
			Version:     "1.0",
			UsePrefix:   true,
			Run:         newTeachCommand(deps),
		},
	}
}

// RegisterAllCommands builds the command registry.
func RegisterAllCommands(deps HandlerDeps) (*command.Registry, error) {
	registry := command.NewRegistry(deps.Logger)
	for _, d := range Descriptors(deps, registry) {
		if err := registry.Register(d); err != nil {
			return nil, fmt.Errorf("failed to register command %s: %w", d.Name, err)
		}
	}
	return registry, nil
}

// NewDispatcher creates the dispatcher that routes messages to registry
// commands and everything else to the conversation forwarder.
func NewDispatcher(deps HandlerDeps, registry *command.Registry) *command.Dispatcher {
	return command.NewDispatcher(
		registry,
		deps.Cooldowns,
		deps.Config.Commands.Prefix,
		deps.Config.Messages,
		newConversationForwarder(deps),
		deps.Logger,
	)
}

// Routes returns the Telegram routes: every text message goes through the
// dispatcher and every callback query through the onboarding handler.
func Routes(deps HandlerDeps, dispatcher *command.Dispatcher) []telegram.Route {
	return []telegram.Route{
		{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewMessageHandler(deps, dispatcher),
			Middleware:  []tgbot.Middleware{RequireSender(deps)},
		},
		{
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     "",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewCallbackHandler(deps),
		},
	}
}

// BotCommands lists the commands for Telegram's command menu.
func BotCommands(registry *command.Registry) []telegram.BotCommand {
	descs := registry.Descriptors()
	out := make([]telegram.BotCommand, 0, len(descs))
	for _, d := range descs {
		out = append(out, telegram.BotCommand{Command: d.Name, Description: d.Description})
	}
	return out
}
