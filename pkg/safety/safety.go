// Package safety holds the checks that run on every draft before it is
// queued or published: a banned-phrase scan and a recent-phrasing
// similarity dedup. Secret redaction for log output lives alongside
// them since both are "never let the wrong text out" concerns.
package safety

import (
	"context"
	"strings"
)

// CheckBannedPhrases does a case-insensitive substring scan of text
// against phrases, returning the first match found, or "" if none.
// Matching is deliberately substring rather than token-boundary —
// callers configure phrases as whole words or short sequences and
// expect "crypto" to catch "cryptocurrency" too.
func CheckBannedPhrases(text string, phrases []string) string {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}

// ReplyTextSource fetches recently sent reply texts, newest first.
// pkg/store.Store.RecentReplyTexts satisfies this.
type ReplyTextSource interface {
	RecentReplyTexts(ctx context.Context, n int) ([]string, error)
}

// jaccardThreshold is the similarity at or above which a draft is
// flagged as too close to something already sent.
const jaccardThreshold = 0.8

// DedupResult reports whether a draft is too similar to recent output.
type DedupResult struct {
	Duplicate   bool
	Similarity  float64
	MatchedText string
}

// CheckRecentPhrasing compares draft against the last lookback replies
// from source, flagging the closest match at or above jaccardThreshold.
func CheckRecentPhrasing(ctx context.Context, source ReplyTextSource, draft string, lookback int) (DedupResult, error) {
	recent, err := source.RecentReplyTexts(ctx, lookback)
	if err != nil {
		return DedupResult{}, err
	}

	draftTokens := tokenSet(draft)
	best := DedupResult{}
	for _, text := range recent {
		sim := jaccard(draftTokens, tokenSet(text))
		if sim > best.Similarity {
			best = DedupResult{Similarity: sim, MatchedText: text}
		}
	}
	best.Duplicate = best.Similarity >= jaccardThreshold
	return best, nil
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
