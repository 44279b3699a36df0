package tasks

import (
	"context"

	"github.com/edgard/nexabot/internal/preferences"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the available tasks keyed by the name used in the
// scheduler configuration. sql_maintenance is only offered when the
// preference store supports maintenance.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Cooldowns != nil {
		tasks["cooldown_prune"] = newCooldownPruneTask(deps)
	}
	if m, ok := deps.Store.(preferences.Maintainer); ok {
		tasks["sql_maintenance"] = newSQLMaintenanceTask(deps, m)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
