package runtime

import (
	"context"
	"fmt"
	"time"
)

// runDiscoveryLoop searches for reply-worthy tweets on an interval and
// runs each candidate through discover, draft, and queue via
// Workflow.Orchestrate.
func (r *Runtime) runDiscoveryLoop(ctx context.Context) {
	sched := r.gatedScheduler(time.Duration(r.cfg.Intervals.DiscoverySearchSeconds) * time.Second)

	for ctx.Err() == nil {
		if r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			summary, err := r.wf.Orchestrate(ctx, "", false)
			r.breaker.RecordResult(err == nil)
			if err != nil {
				r.logger.WithError(err).Warn("runtime: discovery loop failed")
				r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "discovery", Message: err.Error(), At: time.Now().UTC()})
			} else {
				if summary.Executed > 0 {
					r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "discovery", Message: fmt.Sprintf("replied to %d tweets", summary.Executed), At: time.Now().UTC()})
				}
				if summary.Queued > 0 {
					r.events.publish(RuntimeEvent{Kind: EventApprovalQueued, Loop: "discovery", Message: fmt.Sprintf("queued %d replies for approval", summary.Queued), At: time.Now().UTC()})
				}
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}
