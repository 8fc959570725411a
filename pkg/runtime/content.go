package runtime

import (
	"context"
	"math/rand"
	"time"
)

// contentLastPostCursor tracks the last original-tweet post time so a
// restart doesn't immediately re-fire a preferred-time slot it already
// hit before the process died.
const contentLastPostCursor = "content_last_post_at"

// runContentLoop posts a standalone tweet either on a fixed interval
// (ContentPostWindowSeconds) or at configured wall-clock PreferredTimes,
// whichever ScheduleConfig.PreferredTimesOverride selects.
func (r *Runtime) runContentLoop(ctx context.Context) {
	usePreferred := r.cfg.Schedule.PreferredTimesOverride && len(r.cfg.Schedule.PreferredTimes) > 0
	checkInterval := time.Duration(r.cfg.Intervals.ContentPostWindowSeconds) * time.Second
	if usePreferred {
		checkInterval = time.Minute
	}
	sched := r.gatedScheduler(checkInterval)

	for ctx.Err() == nil {
		if r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			due, err := r.contentDue(ctx, usePreferred)
			switch {
			case err != nil:
				r.breaker.RecordResult(false)
				r.logger.WithError(err).Warn("runtime: content loop due-check failed")
			case due:
				posted, err := r.postOriginal(ctx)
				r.breaker.RecordResult(err == nil)
				switch {
				case err != nil:
					r.logger.WithError(err).Warn("runtime: content loop post failed")
					r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "content", Message: err.Error(), At: time.Now().UTC()})
				case posted:
					r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "content", Message: "posted original tweet", At: time.Now().UTC()})
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

// contentDue reports whether the content loop should post right now,
// after checking MaxTweetsPerDay.
func (r *Runtime) contentDue(ctx context.Context, usePreferred bool) (bool, error) {
	count, err := r.store.CountOriginalTweetsSince(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		return false, err
	}
	if r.cfg.Limits.MaxTweetsPerDay > 0 && count >= int64(r.cfg.Limits.MaxTweetsPerDay) {
		return false, nil
	}

	lastStr, err := r.store.GetCursor(ctx, contentLastPostCursor)
	if err != nil {
		return false, err
	}
	var last time.Time
	if lastStr != "" {
		last, _ = time.Parse(time.RFC3339, lastStr)
	}

	if !usePreferred {
		interval := time.Duration(r.cfg.Intervals.ContentPostWindowSeconds) * time.Second
		return last.IsZero() || time.Since(last) >= interval, nil
	}

	now := time.Now().In(r.gate.Location())
	nowHHMM := now.Format("15:04")
	for _, t := range r.cfg.Schedule.PreferredTimes {
		if t != nowHHMM {
			continue
		}
		return last.IsZero() || !sameLocalDay(last.In(r.gate.Location()), now), nil
	}
	return false, nil
}

// postOriginal generates and publishes one standalone tweet, returning
// posted=false when the gateway outcome is blocked or failed and
// posted=true for every other outcome, including dry-run, duplicate and
// rate-limited results.
func (r *Runtime) postOriginal(ctx context.Context) (bool, error) {
	topics := r.profile.Pillars
	if len(topics) == 0 {
		topics = r.profile.Topics
	}
	topic := ""
	if len(topics) > 0 {
		topic = topics[rand.Intn(len(topics))]
	}

	result, err := r.wf.PublishOriginal(ctx, topic)
	if err != nil {
		return false, err
	}
	if result.Outcome == "blocked" || result.Outcome == "failed" {
		return false, nil
	}
	if err := r.store.SetCursor(ctx, contentLastPostCursor, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return false, err
	}
	return true, nil
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
