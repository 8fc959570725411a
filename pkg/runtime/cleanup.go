package runtime

import (
	"context"
	"time"
)

const cleanupInterval = time.Hour

// runCleanupLoop hourly expires stale pending approvals and runs the
// storage retention sweep.
func (r *Runtime) runCleanupLoop(ctx context.Context) {
	sched := r.gatedScheduler(cleanupInterval)

	for ctx.Err() == nil {
		if _, err := r.store.ExpireStalePending(ctx); err != nil {
			r.logger.WithError(err).Warn("runtime: cleanup loop failed to expire stale approvals")
			r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "cleanup", Message: err.Error(), At: time.Now().UTC()})
		}
		if err := r.store.RunRetentionSweep(ctx, r.cfg.Storage.RetentionDays, r.logger); err != nil {
			r.logger.WithError(err).Warn("runtime: cleanup loop retention sweep failed")
			r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "cleanup", Message: err.Error(), At: time.Now().UTC()})
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}
