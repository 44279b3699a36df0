package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/nexabot/internal/preferences"
)

const maintenanceTimeout = 5 * time.Minute

// newSQLMaintenanceTask creates the scheduled task function for running database maintenance.
func newSQLMaintenanceTask(deps TaskDeps, m preferences.Maintainer) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled SQL maintenance task...")
		startTime := time.Now()

		ctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
		defer cancel()

		err := m.RunMaintenance(ctx)
		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled SQL maintenance task completed successfully", "duration", duration)
		return nil
	}
}
