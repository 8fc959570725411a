package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/tuitbot/tuitbot/pkg/scoring"
	"github.com/tuitbot/tuitbot/pkg/store/models"
)

const defaultDiscoverMax = 50

// Discover searches for tweets matching query (defaulting to an OR-join
// of the configured product keywords), scores every result, persists
// each as a DiscoveredTweet, filters by threshold, and returns the
// descending-sorted, limit-truncated candidate list.
func (w *Workflow) Discover(ctx context.Context, query string, minScore float64, limit int, sinceID string) (DiscoverOutput, error) {
	queryUsed := query
	if queryUsed == "" {
		queryUsed = orJoinKeywords(w.profile.Keywords)
	}

	threshold := minScore
	if threshold <= 0 {
		threshold = w.scoring.Threshold
	}
	if limit <= 0 {
		limit = defaultDiscoverMax
	}

	page, err := w.api.SearchTweets(ctx, queryUsed, defaultDiscoverMax, sinceID, "")
	if err != nil {
		return DiscoverOutput{}, err
	}

	followerCache := make(map[string]int)
	scoringCandidates := make([]scoring.Candidate, 0, len(page.Items))
	for _, tweet := range page.Items {
		scoringCandidates = append(scoringCandidates, scoring.Candidate{
			Tweet:               tweet,
			AuthorFollowerCount: w.followerCount(ctx, tweet.AuthorUsername, followerCache),
		})
	}

	now := time.Now().UTC()
	scored := scoring.ScoreAll(w.scoring, scoringCandidates, w.profile.Keywords, now)

	candidates := make([]Candidate, 0, len(scored))
	for _, result := range scored {
		tweet := result.Candidate.Tweet
		if err := w.store.UpsertDiscoveredTweet(ctx, &models.DiscoveredTweet{
			TweetID:         tweet.ID,
			AuthorID:        tweet.AuthorID,
			AuthorHandle:    tweet.AuthorUsername,
			Text:            tweet.Text,
			LikeCount:       tweet.LikeCount,
			RetweetCount:    tweet.RetweetCount,
			ReplyCount:      tweet.ReplyCount,
			ImpressionCount: tweet.ImpressionCount,
			MatchedKeyword:  firstMatchingKeyword(tweet.Text, w.profile.Keywords),
			RelevanceScore:  result.Total,
			DiscoveredAt:    now,
		}); err != nil {
			w.logger.WithError(err).WithField("tweet_id", tweet.ID).Warn("workflow: failed to persist discovered tweet")
			continue
		}

		if result.Total < threshold || len(candidates) >= limit {
			continue
		}

		alreadyReplied, err := w.store.HasRepliedTo(ctx, tweet.ID)
		if err != nil {
			w.logger.WithError(err).WithField("tweet_id", tweet.ID).Warn("workflow: failed to check reply history")
		}

		candidates = append(candidates, Candidate{Tweet: tweet, Score: result, AlreadyReplied: alreadyReplied})
	}

	return DiscoverOutput{Candidates: candidates, QueryUsed: queryUsed, Threshold: threshold}, nil
}

func (w *Workflow) followerCount(ctx context.Context, username string, cache map[string]int) int {
	if username == "" {
		return 0
	}
	if count, ok := cache[username]; ok {
		return count
	}
	user, err := w.api.GetUserByUsername(ctx, username)
	if err != nil {
		cache[username] = 0
		return 0
	}
	cache[username] = user.FollowersCount
	return user.FollowersCount
}

func orJoinKeywords(keywords []string) string {
	return strings.Join(keywords, " OR ")
}

func firstMatchingKeyword(text string, keywords []string) string {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return k
		}
	}
	return ""
}
