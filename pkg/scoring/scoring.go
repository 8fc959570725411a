// Package scoring implements the six-signal weighted reply-worthiness
// score: keyword relevance, follower count, recency, engagement rate,
// reply count, and content type. Each signal is clamped to [0,1] and
// scaled by its configured max before being summed into a total.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// Tunable reference points for signals the config doesn't expose a raw
// cap for. These turn an unbounded ratio into something clampable to
// [0,1] before scaling by the configured per-signal max.
const (
	followerLogReference  = 6.0 // log10(1,000,000): followers beyond 1M don't add more
	recencyHorizon        = 24 * time.Hour
	engagementRateCeiling = 0.05 // 5% engagement rate counts as "full marks"
	replyCountCeiling     = 50.0 // conversations with 50+ replies score zero here
)

// Recommendation is the scoring engine's verdict on a candidate.
type Recommendation string

const (
	RecommendSkip        Recommendation = "skip"
	RecommendConsider    Recommendation = "consider"
	RecommendStrongReply Recommendation = "strong_reply"
)

// strongReplyBonus is added to Threshold to get the strong_reply cutoff.
const strongReplyBonus = 15

// Candidate is the minimal tweet-plus-author shape the scorer needs.
// Workflow callers build this from a toolkit.Tweet and a separately
// fetched author follower count.
type Candidate struct {
	Tweet               toolkit.Tweet
	AuthorFollowerCount int
}

// Breakdown is the per-signal contribution to a candidate's total score.
type Breakdown struct {
	KeywordRelevance float64
	Follower         float64
	Recency          float64
	Engagement       float64
	ReplyCount       float64
	ContentType      float64
}

// Total sums the six signals.
func (b Breakdown) Total() float64 {
	return b.KeywordRelevance + b.Follower + b.Recency + b.Engagement + b.ReplyCount + b.ContentType
}

// Result is one scored candidate.
type Result struct {
	Candidate      Candidate
	Breakdown      Breakdown
	Total          float64
	Recommendation Recommendation
}

// Score evaluates one candidate against keywords/topics and the clock
// at now, using cfg's thresholds and per-signal caps.
func Score(cfg config.ScoringConfig, candidate Candidate, keywords []string, now time.Time) Result {
	b := Breakdown{
		KeywordRelevance: keywordRelevance(candidate.Tweet.Text, keywords) * cfg.KeywordRelevanceMax,
		Follower:         followerScore(candidate.AuthorFollowerCount) * cfg.FollowerCountMax,
		Recency:          recencyScore(candidate.Tweet.CreatedAt, now) * cfg.RecencyMax,
		Engagement:       engagementScore(candidate.Tweet, candidate.AuthorFollowerCount) * cfg.EngagementRateMax,
		ReplyCount:       replyCountScore(candidate.Tweet.ReplyCount) * cfg.ReplyCountMax,
		ContentType:      contentTypeScore(candidate.Tweet) * cfg.ContentTypeMax,
	}
	total := b.Total()

	rec := RecommendSkip
	switch {
	case total >= cfg.Threshold+strongReplyBonus:
		rec = RecommendStrongReply
	case total >= cfg.Threshold:
		rec = RecommendConsider
	}

	return Result{Candidate: candidate, Breakdown: b, Total: total, Recommendation: rec}
}

// ScoreAll scores every candidate and sorts the results by descending
// total, breaking ties in favor of the newer tweet.
func ScoreAll(cfg config.ScoringConfig, candidates []Candidate, keywords []string, now time.Time) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Score(cfg, c, keywords, now))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].Candidate.Tweet.CreatedAt.After(results[j].Candidate.Tweet.CreatedAt)
	})
	return results
}

func keywordRelevance(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	lowerKeywords := make([]string, len(keywords))
	for i, k := range keywords {
		lowerKeywords[i] = strings.ToLower(k)
	}

	matched := 0
	for _, tok := range tokens {
		for _, k := range lowerKeywords {
			if k != "" && strings.Contains(tok, k) {
				matched++
				break
			}
		}
	}
	return clamp01(float64(matched) / float64(len(tokens)))
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	return fields
}

func followerScore(followers int) float64 {
	if followers <= 0 {
		return 0
	}
	return clamp01(math.Log10(float64(followers)+1) / followerLogReference)
}

func recencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return clamp01(1 - float64(elapsed)/float64(recencyHorizon))
}

func engagementScore(tweet toolkit.Tweet, followers int) float64 {
	if followers <= 0 {
		return 0
	}
	weighted := float64(tweet.LikeCount) + 2*float64(tweet.RetweetCount) + 3*float64(tweet.ReplyCount)
	rate := weighted / float64(followers)
	return clamp01(rate / engagementRateCeiling)
}

func replyCountScore(replyCount int) float64 {
	return clamp01(1 - float64(replyCount)/replyCountCeiling)
}

func contentTypeScore(tweet toolkit.Tweet) float64 {
	switch {
	case tweet.IsQuote:
		return 0.3
	case tweet.MediaCount > 0:
		return 0.6
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
