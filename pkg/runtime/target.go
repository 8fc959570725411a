package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/scoring"
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

const targetMaxTweetsPerAccount = 10

// targetScoring reweights the shared ScoringConfig for relationship
// replies to a short list of named accounts: recency and a low existing
// reply count matter far more than keyword relevance here, since every
// candidate already comes from an account the profile cares about.
func targetScoring(base config.ScoringConfig) config.ScoringConfig {
	cfg := base
	cfg.RecencyMax = base.RecencyMax * 2
	cfg.ReplyCountMax = base.ReplyCountMax * 2
	cfg.KeywordRelevanceMax = base.KeywordRelevanceMax / 2
	cfg.Threshold = base.Threshold * 0.6
	return cfg
}

// runTargetLoop watches the business profile's configured target
// accounts for fresh, low-reply-count tweets and drafts
// relationship-building replies to them, independent of keyword-driven
// discovery search.
func (r *Runtime) runTargetLoop(ctx context.Context) {
	sched := r.gatedScheduler(time.Duration(r.cfg.Intervals.DiscoverySearchSeconds) * time.Second)

	for ctx.Err() == nil {
		if len(r.profile.TargetUsernames) > 0 && r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			n, err := r.processTargetsOnce(ctx)
			r.breaker.RecordResult(err == nil)
			if err != nil {
				r.logger.WithError(err).Warn("runtime: target loop failed")
				r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "target", Message: err.Error(), At: time.Now().UTC()})
			} else if n > 0 {
				r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "target", Message: fmt.Sprintf("queued %d relationship replies", n), At: time.Now().UTC()})
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}

func (r *Runtime) processTargetsOnce(ctx context.Context) (int, error) {
	scoringCfg := targetScoring(r.cfg.Scoring)
	now := time.Now().UTC()
	total := 0

	for _, username := range r.profile.TargetUsernames {
		user, err := r.api.GetUserByUsername(ctx, username)
		if err != nil {
			r.logger.WithError(err).WithField("username", username).Warn("runtime: failed to resolve target account")
			continue
		}

		page, err := r.api.GetUserTweets(ctx, user.ID, targetMaxTweetsPerAccount, "")
		if err != nil {
			r.logger.WithError(err).WithField("username", username).Warn("runtime: failed to fetch target account's tweets")
			continue
		}

		candidates := make([]scoring.Candidate, 0, len(page.Items))
		for _, tweet := range page.Items {
			candidates = append(candidates, scoring.Candidate{Tweet: tweet, AuthorFollowerCount: user.FollowersCount})
		}
		scored := scoring.ScoreAll(scoringCfg, candidates, r.profile.Keywords, now)

		var ids []string
		for _, result := range scored {
			if result.Recommendation == scoring.RecommendSkip {
				continue
			}
			tweet := result.Candidate.Tweet

			replied, err := r.store.HasRepliedTo(ctx, tweet.ID)
			if err != nil {
				return total, err
			}
			if replied {
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
				MatchedKeyword:  "target:" + username,
				RelevanceScore:  result.Total,
				DiscoveredAt:    now,
			}); err != nil {
				return total, err
			}
			ids = append(ids, tweet.ID)
			break // one relationship reply per target account per pass
		}

		if len(ids) == 0 {
			continue
		}

		archetype := content.ArchetypeShareExperience
		drafts := r.wf.Draft(ctx, ids, &archetype, false)
		items := make([]workflow.ProposeItem, 0, len(drafts))
		for _, res := range drafts {
			if res.Kind != workflow.DraftSuccess {
				r.logger.WithError(res.Err).WithField("tweet_id", res.TweetID).Warn("runtime: failed to draft target reply")
				continue
			}
			items = append(items, workflow.ProposeItem{TweetID: res.TweetID, Text: res.Text})
		}

		queued, err := r.wf.Queue(ctx, items, false)
		if err != nil {
			return total, err
		}
		for _, res := range queued {
			if res.Kind == workflow.ProposeExecuted || res.Kind == workflow.ProposeQueued {
				total++
			}
		}
	}

	return total, nil
}
