package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/nexabot/internal/bot/tasks"
	"github.com/edgard/nexabot/internal/config"
)

// Scheduler runs the configured tasks on cron schedules using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc

	mu        sync.Mutex
	running   bool
	scheduled []string
}

// NewScheduler creates a scheduler for the tasks in taskMap.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler(gocron.WithLogger(logger.With("component", "gocron")))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules every enabled, known task with a schedule and starts
// ticking. Tasks that fail to schedule are logged and skipped.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if s.cfg == nil || len(s.cfg.Tasks) == 0 {
		s.logger.Warn("No scheduler tasks configured.")
	} else {
		for name, taskCfg := range s.cfg.Tasks {
			s.schedule(name, taskCfg)
		}
	}
	sort.Strings(s.scheduled)

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", len(s.scheduled))
	return nil
}

func (s *Scheduler) schedule(name string, taskCfg config.TaskConfig) {
	log := s.logger.With("task_name", name)

	if !taskCfg.Enabled {
		log.Info("Skipping disabled task")
		return
	}
	taskFunc, ok := s.taskMap[name]
	if !ok {
		log.Warn("Scheduled task configured but not available, skipping")
		return
	}
	if taskCfg.Schedule == "" {
		log.Warn("Scheduled task enabled but has empty schedule, skipping")
		return
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(taskCfg.Schedule, true),
		gocron.NewTask(func(ctx context.Context) {
			start := time.Now()
			log.DebugContext(ctx, "Running scheduled task")
			if err := taskFunc(ctx); err != nil {
				log.ErrorContext(ctx, "Scheduled task failed", "error", err)
			}
			log.DebugContext(ctx, "Finished scheduled task", "duration", time.Since(start))
		}, context.Background()),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error("Failed to schedule task", "schedule", taskCfg.Schedule, "error", err)
		return
	}

	log.Info("Scheduled task", "schedule", taskCfg.Schedule)
	s.scheduled = append(s.scheduled, name)
}

// Scheduled returns the names of the tasks that were scheduled by Start.
func (s *Scheduler) Scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scheduled...)
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	if err != nil {
		return fmt.Errorf("scheduler shutdown failed: %w", err)
	}
	s.logger.Info("Scheduler stopped gracefully.")
	return nil
}
