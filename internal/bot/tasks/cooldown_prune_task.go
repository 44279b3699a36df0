package tasks

import (
	"context"
)

// newCooldownPruneTask drops expired command cooldown entries so the tracker
// does not grow with every user that ever ran a command.
func newCooldownPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cooldown_prune")

	return func(ctx context.Context) error {
		removed := deps.Cooldowns.Prune()
		log.DebugContext(ctx, "Pruned command cooldowns", "removed", removed, "remaining", deps.Cooldowns.Len())
		return nil
	}
}
