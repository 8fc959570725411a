package runtime

import (
	"context"
	"math/rand"
	"time"
)

// threadLastPostCursor tracks the last thread publish time, mirroring
// contentLastPostCursor's restart-safety for the weekly thread slot.
const threadLastPostCursor = "thread_last_post_at"

// runThreadLoop publishes a multi-tweet thread either on
// ThreadIntervalSeconds or at a configured weekly day/time, whichever
// ScheduleConfig.ThreadPreferredTime selects.
func (r *Runtime) runThreadLoop(ctx context.Context) {
	usePreferred := r.cfg.Schedule.ThreadPreferredTime != ""
	checkInterval := time.Duration(r.cfg.Intervals.ThreadIntervalSeconds) * time.Second
	if usePreferred {
		checkInterval = time.Minute
	}
	sched := r.gatedScheduler(checkInterval)

	for ctx.Err() == nil {
		if r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			due, err := r.threadDue(ctx, usePreferred)
			switch {
			case err != nil:
				r.breaker.RecordResult(false)
				r.logger.WithError(err).Warn("runtime: thread loop due-check failed")
			case due:
				posted, err := r.postThread(ctx)
				r.breaker.RecordResult(err == nil)
				switch {
				case err != nil:
					r.logger.WithError(err).Warn("runtime: thread loop post failed")
					r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "thread", Message: err.Error(), At: time.Now().UTC()})
				case posted:
					r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "thread", Message: "posted thread", At: time.Now().UTC()})
				}
			default:
				r.breaker.RecordResult(true)
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}

func (r *Runtime) threadDue(ctx context.Context, usePreferred bool) (bool, error) {
	count, err := r.store.CountThreadsSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return false, err
	}
	if r.cfg.Limits.MaxThreadsPerWeek > 0 && count >= int64(r.cfg.Limits.MaxThreadsPerWeek) {
		return false, nil
	}

	lastStr, err := r.store.GetCursor(ctx, threadLastPostCursor)
	if err != nil {
		return false, err
	}
	var last time.Time
	if lastStr != "" {
		last, _ = time.Parse(time.RFC3339, lastStr)
	}

	if !usePreferred {
		interval := time.Duration(r.cfg.Intervals.ThreadIntervalSeconds) * time.Second
		return last.IsZero() || time.Since(last) >= interval, nil
	}

	now := time.Now().In(r.gate.Location())
	if now.Weekday() != r.cfg.Schedule.ThreadPreferredDay || now.Format("15:04") != r.cfg.Schedule.ThreadPreferredTime {
		return false, nil
	}
	return last.IsZero() || !sameLocalDay(last.In(r.gate.Location()), now), nil
}

func (r *Runtime) postThread(ctx context.Context) (bool, error) {
	topics := r.profile.Pillars
	if len(topics) == 0 {
		topics = r.profile.Topics
	}
	topic := ""
	if len(topics) > 0 {
		topic = topics[rand.Intn(len(topics))]
	}

	result, err := r.wf.PublishPlannedThread(ctx, topic, "")
	if err != nil {
		return false, err
	}
	if result.Outcome == "blocked" || result.Outcome == "failed" {
		return false, nil
	}
	if err := r.store.SetCursor(ctx, threadLastPostCursor, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return false, err
	}
	return true, nil
}
