package workflow

import (
	"context"
	"fmt"

	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// Queue generates reply text for any item missing it, then runs each
// reply through the mutation gateway.
func (w *Workflow) Queue(ctx context.Context, items []ProposeItem, mentionProduct bool) ([]ProposeResult, error) {
	results := make([]ProposeResult, 0, len(items))
	for _, item := range items {
		results = append(results, w.queueOne(ctx, item, mentionProduct))
	}
	return results, nil
}

func (w *Workflow) queueOne(ctx context.Context, item ProposeItem, mentionProduct bool) ProposeResult {
	text := item.Text
	if text == "" {
		tweet, err := w.store.GetDiscoveredTweet(ctx, item.TweetID)
		if err != nil {
			return ProposeResult{Kind: ProposeBlocked, TweetID: item.TweetID, Reason: err.Error()}
		}
		reply, err := w.generator.GenerateReply(ctx, tweet.Text, tweet.AuthorHandle, mentionProduct, "")
		if err != nil {
			return ProposeResult{Kind: ProposeBlocked, TweetID: item.TweetID, Reason: err.Error()}
		}
		text = reply.Text
	}

	var postedID string
	result, err := w.gateway.Dispatch(ctx, gateway.Request{
		ToolName:           "reply_to_tweet",
		Category:           "write",
		Params:             map[string]any{"in_reply_to_id": item.TweetID, "text": text},
		ParamsSummary:      text,
		ApprovalDraftText:  text,
		ApprovalTargetRefs: []string{item.TweetID},
		Execute: func(ctx context.Context) (string, string, error) {
			posted, err := w.api.ReplyToTweet(ctx, text, item.TweetID, toolkit.PostOptions{})
			if err != nil {
				return "", "", err
			}
			postedID = posted.ID
			if err := w.store.RecordReply(ctx, &models.ReplySent{
				TargetTweetID: item.TweetID,
				ReplyTweetID:  &posted.ID,
				Text:          text,
				Status:        models.ReplyStatusSent,
			}); err != nil {
				return "", "", err
			}
			if err := w.store.MarkRepliedTo(ctx, item.TweetID); err != nil {
				return "", "", err
			}
			return fmt.Sprintf("posted reply %s", posted.ID), fmt.Sprintf("call delete_tweet with %s", posted.ID), nil
		},
	})
	if err != nil {
		return ProposeResult{Kind: ProposeBlocked, TweetID: item.TweetID, Reason: err.Error()}
	}

	switch result.Outcome {
	case gateway.OutcomeExecuted:
		return ProposeResult{Kind: ProposeExecuted, TweetID: item.TweetID, ReplyTweetID: postedID, RollbackHint: result.RollbackHint}
	case gateway.OutcomeQueued:
		return ProposeResult{Kind: ProposeQueued, TweetID: item.TweetID, ApprovalQueueID: result.ApprovalQueueID}
	default:
		reason := result.Reason
		if result.Err != nil {
			reason = result.Err.Error()
		}
		return ProposeResult{Kind: ProposeBlocked, TweetID: item.TweetID, Reason: reason}
	}
}
