// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/edgard/nexabot/internal/bot"
	"github.com/edgard/nexabot/internal/bot/handlers"
	"github.com/edgard/nexabot/internal/bot/tasks"
	"github.com/edgard/nexabot/internal/command"
	"github.com/edgard/nexabot/internal/config"
	"github.com/edgard/nexabot/internal/conversation"
	"github.com/edgard/nexabot/internal/database"
	"github.com/edgard/nexabot/internal/gemini"
	"github.com/edgard/nexabot/internal/logger"
	"github.com/edgard/nexabot/internal/nexalo"
	"github.com/edgard/nexabot/internal/preferences"
	"github.com/edgard/nexabot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, runs the bot until ctx is cancelled, and
// returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to an optional .env file")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("Failed to load env file", "path", *envPath, "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	store, db, err := newPreferenceStore(cfg, log)
	if err != nil {
		log.Error("Failed to initialize preference store", "backend", cfg.Preferences.Backend, "error", err)
		return 1
	}
	defer database.Close(db, log)

	nexaloClient := nexalo.NewClient(cfg.Nexalo, nil, log)
	responder, err := newResponder(ctx, cfg, nexaloClient, log)
	if err != nil {
		log.Error("Failed to initialize conversation backend", "backend", cfg.Conversation.Backend, "error", err)
		return 1
	}

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.Workers, log,
		tgbot.WithMiddlewares(telegram.Detach(cfg.Telegram.RequestTimeout), logger.Middleware(log)),
	)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cooldowns := command.NewCooldowns()
	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Flow:      handlers.NewFlow(cfg),
		Messenger: telegram.NewClient(tg),
		Responder: responder,
		Trainer:   nexaloClient,
		Cooldowns: cooldowns,
	}

	registry, err := handlers.RegisterAllCommands(hDeps)
	if err != nil {
		log.Error("Failed to register commands", "error", err)
		return 1
	}
	dispatcher := handlers.NewDispatcher(hDeps, registry)
	if err := telegram.RegisterHandlers(tg, log, handlers.Routes(hDeps, dispatcher)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.PublishCommands(ctx, tg, handlers.BotCommands(registry)); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	tDeps := tasks.TaskDeps{Logger: log, Store: store, Cooldowns: cooldowns}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, tg, sched, cfg.Telegram.ShutdownTimeout)

	log.Info("Starting bot...", "prefixes", dispatcher.Prefixes(), "backend", cfg.Conversation.Backend)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

// newPreferenceStore returns the configured store. db is nil for the memory backend.
func newPreferenceStore(cfg *config.Config, log *slog.Logger) (preferences.Store, *sqlx.DB, error) {
	switch cfg.Preferences.Backend {
	case config.StoreSQLite:
		db, err := database.Open(cfg.Preferences.DBPath, log)
		if err != nil {
			return nil, nil, err
		}
		return database.NewPreferenceStore(db, log), db, nil
	case config.StoreMemory, "":
		return preferences.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown preferences backend %q", cfg.Preferences.Backend)
	}
}

// newResponder returns the configured conversation backend.
func newResponder(ctx context.Context, cfg *config.Config, nexaloClient *nexalo.Client, log *slog.Logger) (conversation.Responder, error) {
	switch cfg.Conversation.Backend {
	case config.BackendGemini:
		return gemini.NewResponder(ctx, cfg.Gemini, log)
	case config.BackendNexalo, "":
		return nexaloClient, nil
	default:
		return nil, fmt.Errorf("unknown conversation backend %q", cfg.Conversation.Backend)
	}
}
