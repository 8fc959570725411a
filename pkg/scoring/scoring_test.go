package scoring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/scoring"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

func testScoringConfig() config.ScoringConfig {
	return config.Default().Scoring
}

func TestScoreRecommendsFreshRelevantTweet(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	candidate := scoring.Candidate{
		Tweet: toolkit.Tweet{
			ID:        "t1",
			Text:      "rust async is hard to get right",
			CreatedAt: now.Add(-1 * time.Hour),
			LikeCount: 10, RetweetCount: 2, ReplyCount: 1,
		},
		AuthorFollowerCount: 5000,
	}

	result := scoring.Score(testScoringConfig(), candidate, []string{"rust", "async"}, now)
	assert.Greater(t, result.Total, 0.0)
	assert.Contains(t, []scoring.Recommendation{scoring.RecommendConsider, scoring.RecommendStrongReply}, result.Recommendation)
}

func TestScoreSkipsIrrelevantOldTweet(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	candidate := scoring.Candidate{
		Tweet: toolkit.Tweet{
			ID:        "t2",
			Text:      "completely unrelated content about gardening",
			CreatedAt: now.Add(-72 * time.Hour),
		},
		AuthorFollowerCount: 10,
	}

	result := scoring.Score(testScoringConfig(), candidate, []string{"rust", "golang"}, now)
	assert.Equal(t, scoring.RecommendSkip, result.Recommendation)
}

func TestContentTypePenalizesQuoteAndMedia(t *testing.T) {
	cfg := testScoringConfig()
	now := time.Now()

	plain := scoring.Score(cfg, scoring.Candidate{Tweet: toolkit.Tweet{Text: "x", CreatedAt: now}, AuthorFollowerCount: 100}, nil, now)
	quote := scoring.Score(cfg, scoring.Candidate{Tweet: toolkit.Tweet{Text: "x", CreatedAt: now, IsQuote: true}, AuthorFollowerCount: 100}, nil, now)
	media := scoring.Score(cfg, scoring.Candidate{Tweet: toolkit.Tweet{Text: "x", CreatedAt: now, MediaCount: 1}, AuthorFollowerCount: 100}, nil, now)

	assert.Greater(t, plain.Breakdown.ContentType, quote.Breakdown.ContentType)
	assert.Greater(t, plain.Breakdown.ContentType, media.Breakdown.ContentType)
}

func TestReplyCountLowerScoresHigher(t *testing.T) {
	cfg := testScoringConfig()
	now := time.Now()

	crowded := scoring.Score(cfg, scoring.Candidate{Tweet: toolkit.Tweet{Text: "x", CreatedAt: now, ReplyCount: 40}, AuthorFollowerCount: 100}, nil, now)
	quiet := scoring.Score(cfg, scoring.Candidate{Tweet: toolkit.Tweet{Text: "x", CreatedAt: now, ReplyCount: 1}, AuthorFollowerCount: 100}, nil, now)

	assert.Greater(t, quiet.Breakdown.ReplyCount, crowded.Breakdown.ReplyCount)
}

func TestScoreAllSortsDescendingWithNewerTweetTieBreak(t *testing.T) {
	cfg := testScoringConfig()
	cfg.RecencyMax = 0 // equal totals, so only the tie-break orders them
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	older := scoring.Candidate{Tweet: toolkit.Tweet{ID: "older", Text: "x", CreatedAt: now.Add(-2 * time.Hour)}, AuthorFollowerCount: 100}
	newer := scoring.Candidate{Tweet: toolkit.Tweet{ID: "newer", Text: "x", CreatedAt: now.Add(-1 * time.Minute)}, AuthorFollowerCount: 100}

	results := scoring.ScoreAll(cfg, []scoring.Candidate{older, newer}, nil, now)
	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Candidate.Tweet.ID)
}

func TestScoreAllOrdersByTotalDescending(t *testing.T) {
	cfg := testScoringConfig()
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	weak := scoring.Candidate{Tweet: toolkit.Tweet{ID: "weak", Text: "irrelevant", CreatedAt: now.Add(-48 * time.Hour)}, AuthorFollowerCount: 1}
	strong := scoring.Candidate{Tweet: toolkit.Tweet{ID: "strong", Text: "rust golang programming", CreatedAt: now.Add(-1 * time.Minute), LikeCount: 100, RetweetCount: 20}, AuthorFollowerCount: 5000}

	results := scoring.ScoreAll(cfg, []scoring.Candidate{weak, strong}, []string{"rust", "golang"}, now)
	require.Len(t, results, 2)
	assert.Equal(t, "strong", results[0].Candidate.Tweet.ID)
	assert.GreaterOrEqual(t, results[0].Total, results[1].Total)
}
