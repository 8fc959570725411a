package workflow

import (
	"context"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/safety"
)

const recentPhrasingLookback = 20

// Draft generates a reply for each candidate tweet id, runs the safety
// checks, and tags each with a confidence level. A failure on one
// candidate becomes a DraftError entry rather than aborting the batch.
func (w *Workflow) Draft(ctx context.Context, candidateIDs []string, archetype *content.Archetype, mentionProduct bool) []DraftResult {
	results := make([]DraftResult, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		results = append(results, w.draftOne(ctx, id, archetype, mentionProduct))
	}
	return results
}

func (w *Workflow) draftOne(ctx context.Context, tweetID string, archetype *content.Archetype, mentionProduct bool) DraftResult {
	tweet, err := w.store.GetDiscoveredTweet(ctx, tweetID)
	if err != nil {
		return DraftResult{Kind: DraftError, TweetID: tweetID, Err: err}
	}

	arch := content.Archetype("")
	if archetype != nil {
		arch = *archetype
	}

	reply, err := w.generator.GenerateReply(ctx, tweet.Text, tweet.AuthorHandle, mentionProduct, arch)
	if err != nil {
		return DraftResult{Kind: DraftError, TweetID: tweetID, Err: err}
	}

	var risks []string
	if match := safety.CheckBannedPhrases(reply.Text, w.limits.BannedPhrases); match != "" {
		risks = append(risks, "banned_phrase:"+match)
	}
	if dedup, err := safety.CheckRecentPhrasing(ctx, w.store, reply.Text, recentPhrasingLookback); err != nil {
		w.logger.WithError(err).Warn("workflow: recent-phrasing check failed")
	} else if dedup.Duplicate {
		risks = append(risks, "recent_phrasing_duplicate")
	}

	return DraftResult{
		Kind:       DraftSuccess,
		TweetID:    tweetID,
		Text:       reply.Text,
		Archetype:  reply.Archetype,
		Confidence: confidenceFor(len([]rune(reply.Text))),
		Risks:      risks,
	}
}
