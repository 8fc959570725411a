package workflow

import (
	"context"

	"github.com/tuitbot/tuitbot/pkg/scoring"
)

// Orchestrate chains Discover, Draft, and Queue into the single pass the
// discovery loop runs each tick: search and score, skip anything already
// replied to or whose recommendation is skip, draft the rest, and
// queue every draft through the gateway.
func (w *Workflow) Orchestrate(ctx context.Context, query string, mentionProduct bool) (OrchestrateSummary, error) {
	var summary OrchestrateSummary

	discovered, err := w.Discover(ctx, query, 0, 0, "")
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(discovered.Candidates)

	candidateIDs := make([]string, 0, len(discovered.Candidates))
	for _, c := range discovered.Candidates {
		if c.AlreadyReplied || c.Score.Recommendation == scoring.RecommendSkip {
			continue
		}
		candidateIDs = append(candidateIDs, c.Tweet.ID)
	}

	drafts := w.Draft(ctx, candidateIDs, nil, mentionProduct)
	items := make([]ProposeItem, 0, len(drafts))
	for _, d := range drafts {
		if d.Kind == DraftError {
			summary.DraftErrors++
			continue
		}
		summary.Drafted++
		items = append(items, ProposeItem{TweetID: d.TweetID, Text: d.Text})
	}

	proposals, err := w.Queue(ctx, items, mentionProduct)
	if err != nil {
		return summary, err
	}
	for _, p := range proposals {
		switch p.Kind {
		case ProposeQueued:
			summary.Queued++
		case ProposeExecuted:
			summary.Executed++
		case ProposeBlocked:
			summary.Blocked++
		}
	}

	return summary, nil
}
