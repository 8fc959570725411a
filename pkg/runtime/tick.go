package runtime

import (
	"context"
	"fmt"
)

// TickName identifies one of the runtime's loops for one-shot tick mode.
type TickName string

const (
	TickDiscovery TickName = "discovery"
	TickMentions  TickName = "mentions"
	TickContent   TickName = "content"
	TickThread    TickName = "thread"
	TickTarget    TickName = "target"
	TickAnalytics TickName = "analytics"
	TickApproval  TickName = "approval"
	TickCleanup   TickName = "cleanup"
)

// Tick runs one named loop's body exactly once and returns, instead of
// looping on a LoopScheduler. It does not consult the ScheduleGate: a
// manually invoked tick is assumed to be intentional. Callers running
// concurrent tick invocations against the same database should hold an
// AcquireLock first.
func (r *Runtime) Tick(ctx context.Context, name TickName) error {
	switch name {
	case TickDiscovery:
		_, err := r.wf.Orchestrate(ctx, "", false)
		return err
	case TickMentions:
		_, err := r.processMentionsOnce(ctx)
		return err
	case TickContent:
		_, err := r.postOriginal(ctx)
		return err
	case TickThread:
		_, err := r.postThread(ctx)
		return err
	case TickTarget:
		_, err := r.processTargetsOnce(ctx)
		return err
	case TickAnalytics:
		return r.runAnalyticsPass(ctx)
	case TickApproval:
		_, err := r.drainApprovedOnce(ctx)
		return err
	case TickCleanup:
		if _, err := r.store.ExpireStalePending(ctx); err != nil {
			return err
		}
		return r.store.RunRetentionSweep(ctx, r.cfg.Storage.RetentionDays, r.logger)
	default:
		return fmt.Errorf("runtime: unknown tick target %q", name)
	}
}
