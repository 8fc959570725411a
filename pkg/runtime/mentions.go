package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// mentionsCursorKey is the Cursor row tracking the newest mention id
// already processed, so a restart resumes instead of reprocessing.
const mentionsCursorKey = "mentions_since_id"

// runMentionsLoop polls for mentions newer than the stored cursor,
// persists each as a DiscoveredTweet, drafts and queues a reply, and
// advances the cursor only once the whole batch has been persisted.
func (r *Runtime) runMentionsLoop(ctx context.Context) {
	sched := r.gatedScheduler(time.Duration(r.cfg.Intervals.MentionsCheckSeconds) * time.Second)

	for ctx.Err() == nil {
		if r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			n, err := r.processMentionsOnce(ctx)
			r.breaker.RecordResult(err == nil)
			if err != nil {
				r.logger.WithError(err).Warn("runtime: mentions loop failed")
				r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "mentions", Message: err.Error(), At: time.Now().UTC()})
			} else if n > 0 {
				r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "mentions", Message: fmt.Sprintf("processed %d mentions", n), At: time.Now().UTC()})
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}

func (r *Runtime) processMentionsOnce(ctx context.Context) (int, error) {
	sinceID, err := r.store.GetCursor(ctx, mentionsCursorKey)
	if err != nil {
		return 0, err
	}

	page, err := r.api.GetMentions(ctx, r.selfUserID, sinceID, "")
	if err != nil {
		return 0, err
	}
	if len(page.Items) == 0 {
		return 0, nil
	}

	// The v2 API returns mentions newest first; the first item becomes
	// the new cursor once every item in the batch is persisted.
	newestID := page.Items[0].ID
	ids := make([]string, 0, len(page.Items))

	for _, tweet := range page.Items {
		alreadyReplied, err := r.store.HasRepliedTo(ctx, tweet.ID)
		if err != nil {
			return len(ids), err
		}
		if alreadyReplied {
			continue
		}

		count, err := r.store.ReplyCountForAuthorToday(ctx, tweet.AuthorID)
		if err != nil {
			return len(ids), err
		}
		if r.cfg.Limits.MaxRepliesPerAuthorPerDay > 0 && count >= r.cfg.Limits.MaxRepliesPerAuthorPerDay {
			continue
		}

		if err := r.store.UpsertDiscoveredTweet(ctx, &models.DiscoveredTweet{
			TweetID:         tweet.ID,
			AuthorID:        tweet.AuthorID,
			AuthorHandle:    tweet.AuthorUsername,
			Text:            tweet.Text,
			LikeCount:       tweet.LikeCount,
			RetweetCount:    tweet.RetweetCount,
			ReplyCount:      tweet.ReplyCount,
			ImpressionCount: tweet.ImpressionCount,
			MatchedKeyword:  "mention",
			RelevanceScore:  100,
			DiscoveredAt:    time.Now().UTC(),
		}); err != nil {
			return len(ids), err
		}
		ids = append(ids, tweet.ID)
	}

	if len(ids) > 0 {
		drafts := r.wf.Draft(ctx, ids, nil, false)
		items := make([]workflow.ProposeItem, 0, len(drafts))
		for _, res := range drafts {
			if res.Kind != workflow.DraftSuccess {
				r.logger.WithError(res.Err).WithField("tweet_id", res.TweetID).Warn("runtime: failed to draft mention reply")
				continue
			}
			items = append(items, workflow.ProposeItem{TweetID: res.TweetID, Text: res.Text})
		}

		queued, err := r.wf.Queue(ctx, items, false)
		if err != nil {
			return len(ids), err
		}
		for _, res := range queued {
			if res.Kind != workflow.ProposeExecuted {
				continue
			}
			tweet, err := r.store.GetDiscoveredTweet(ctx, res.TweetID)
			if err != nil {
				r.logger.WithError(err).WithField("tweet_id", res.TweetID).Warn("runtime: failed to look up replied-to tweet's author")
				continue
			}
			if err := r.store.IncrementAuthorReplyCount(ctx, tweet.AuthorID); err != nil {
				r.logger.WithError(err).Warn("runtime: failed to record author reply count")
			}
		}
	}

	if err := r.store.SetCursor(ctx, mentionsCursorKey, newestID); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}
