// Package bot orchestrates the bot's lifecycle: Telegram polling, the task
// scheduler and graceful shutdown of in-flight update handlers.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Poller receives updates until ctx is cancelled and returns once every
// update handler it started has returned. *bot.Bot from go-telegram built
// by telegram.NewTelegramBot satisfies it.
type Poller interface {
	Start(ctx context.Context)
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger          *slog.Logger
	poller          Poller
	scheduler       *Scheduler
	shutdownTimeout time.Duration
}

// NewBot creates the orchestrator.
func NewBot(logger *slog.Logger, poller Poller, scheduler *Scheduler, shutdownTimeout time.Duration) *Bot {
	return &Bot{
		logger:          logger.With("component", "bot_orchestrator"),
		poller:          poller,
		scheduler:       scheduler,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts polling and the scheduler and blocks until ctx is cancelled or
// a component fails. On cancellation it waits, at most shutdownTimeout, for
// running update handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			b.poller.Start(gCtx)
		}()

		select {
		case <-stopped:
			if gCtx.Err() == nil {
				b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
		case <-gCtx.Done():
			b.drain(stopped)
		}
		b.logger.Info("Telegram bot listener stopped.")
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}
	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// drain waits for the listener to stop, which happens once running update
// handlers have returned, for at most shutdownTimeout.
func (b *Bot) drain(stopped <-chan struct{}) {
	b.logger.Info("Waiting for in-flight handlers...", "timeout", b.shutdownTimeout)

	timer := time.NewTimer(b.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-stopped:
		b.logger.Info("All in-flight handlers finished.")
	case <-timer.C:
		b.logger.Warn("Shutdown timeout reached with handlers still running", "timeout", b.shutdownTimeout)
	}
}
