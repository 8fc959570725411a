package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

const (
	analyticsCheckInterval   = time.Hour
	performanceMeasureDelay  = 24 * time.Hour
	followerDropAlertPercent = 0.05
)

// runAnalyticsLoop takes a daily follower snapshot, measures engagement
// on replies and original tweets roughly 24h after they posted, and
// publishes a follower_update event carrying a drop message if followers
// fall by followerDropAlertPercent or more between the last two snapshots.
func (r *Runtime) runAnalyticsLoop(ctx context.Context) {
	sched := r.gatedScheduler(analyticsCheckInterval)

	for ctx.Err() == nil {
		if r.breaker.Allow() {
			err := r.runAnalyticsPass(ctx)
			r.breaker.RecordResult(err == nil)
			if err != nil {
				r.logger.WithError(err).Warn("runtime: analytics loop failed")
				r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "analytics", Message: err.Error(), At: time.Now().UTC()})
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}

func (r *Runtime) runAnalyticsPass(ctx context.Context) error {
	if err := r.snapshotFollowers(ctx); err != nil {
		return fmt.Errorf("runtime: follower snapshot: %w", err)
	}
	if err := r.measureReplyPerformance(ctx); err != nil {
		return fmt.Errorf("runtime: reply performance: %w", err)
	}
	if err := r.measureOriginalPerformance(ctx); err != nil {
		return fmt.Errorf("runtime: original performance: %w", err)
	}
	return nil
}

func (r *Runtime) snapshotFollowers(ctx context.Context) error {
	if r.selfUserID == "" {
		return nil
	}
	user, err := r.api.GetUserByUsername(ctx, r.selfUsername)
	if err != nil {
		return err
	}
	if err := r.store.RecordFollowerSnapshot(ctx, user.FollowersCount, user.FollowingCount, user.TweetCount); err != nil {
		return err
	}

	history, err := r.store.FollowerSnapshotsSince(ctx, time.Now().UTC().AddDate(0, 0, -2))
	if err != nil || len(history) < 2 {
		return err
	}
	prev := history[len(history)-2].Followers
	curr := history[len(history)-1].Followers
	if prev > 0 && float64(prev-curr)/float64(prev) >= followerDropAlertPercent {
		r.events.publish(RuntimeEvent{
			Kind:    EventFollowerUpdate,
			Loop:    "analytics",
			Message: fmt.Sprintf("followers dropped from %d to %d", prev, curr),
			At:      time.Now().UTC(),
		})
	} else {
		r.events.publish(RuntimeEvent{
			Kind:    EventFollowerUpdate,
			Loop:    "analytics",
			Message: fmt.Sprintf("followers at %d", curr),
			At:      time.Now().UTC(),
		})
	}
	return nil
}

func (r *Runtime) measureReplyPerformance(ctx context.Context) error {
	replies, err := r.store.RepliesAwaitingPerformance(ctx, performanceMeasureDelay)
	if err != nil {
		return err
	}
	for _, reply := range replies {
		if reply.ReplyTweetID == nil {
			continue
		}
		if err := r.recordPerformanceFor(ctx, *reply.ReplyTweetID, models.PerformanceReply); err != nil {
			r.logger.WithError(err).WithField("tweet_id", *reply.ReplyTweetID).Warn("runtime: failed to measure reply performance")
		}
	}
	return nil
}

func (r *Runtime) measureOriginalPerformance(ctx context.Context) error {
	tweets, err := r.store.OriginalTweetsAwaitingPerformance(ctx, performanceMeasureDelay)
	if err != nil {
		return err
	}
	for _, tweet := range tweets {
		if err := r.recordPerformanceFor(ctx, tweet.TweetID, models.PerformanceOriginal); err != nil {
			r.logger.WithError(err).WithField("tweet_id", tweet.TweetID).Warn("runtime: failed to measure original performance")
		}
	}
	return nil
}

func (r *Runtime) recordPerformanceFor(ctx context.Context, tweetID string, kind models.PerformanceKind) error {
	tweet, err := r.api.GetTweet(ctx, tweetID)
	if err != nil {
		return err
	}
	return r.store.RecordPerformance(ctx, &models.Performance{
		Kind:            kind,
		TweetID:         tweetID,
		LikeCount:       tweet.LikeCount,
		RetweetCount:    tweet.RetweetCount,
		ReplyCount:      tweet.ReplyCount,
		ImpressionCount: tweet.ImpressionCount,
	})
}
