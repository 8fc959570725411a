package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// PublishOriginal generates a standalone tweet about topic and posts it
// through the mutation gateway, used by the content loop.
func (w *Workflow) PublishOriginal(ctx context.Context, topic string) (PublishResult, error) {
	text, err := w.generator.GenerateTweet(ctx, topic)
	if err != nil {
		return PublishResult{}, err
	}
	return w.Publish(ctx, text, topic)
}

// PublishPlannedThread drafts a thread about topic in the given
// structure, then posts it through the mutation gateway as a single
// mutation, used by the thread loop.
func (w *Workflow) PublishPlannedThread(ctx context.Context, topic string, structure content.ThreadStructure) (PublishResult, error) {
	plan, err := w.ThreadPlan(ctx, topic, structure)
	if err != nil {
		return PublishResult{}, err
	}
	return w.PublishThread(ctx, plan.Tweets, topic, string(plan.Structure))
}

// Publish posts a standalone tweet through the mutation gateway.
func (w *Workflow) Publish(ctx context.Context, text, topic string) (PublishResult, error) {
	var postedID string
	result, err := w.gateway.Dispatch(ctx, gateway.Request{
		ToolName:          "post_tweet",
		Category:          "write",
		Params:            map[string]any{"text": text},
		ParamsSummary:     text,
		ApprovalDraftText: text,
		ApprovalTopic:     topic,
		Execute: func(ctx context.Context) (string, string, error) {
			posted, err := w.api.PostTweet(ctx, text, toolkit.PostOptions{})
			if err != nil {
				return "", "", err
			}
			postedID = posted.ID
			if err := w.store.RecordOriginalTweet(ctx, &models.OriginalTweet{
				TweetID:   posted.ID,
				Text:      text,
				Topic:     topic,
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				return "", "", err
			}
			return fmt.Sprintf("posted %s", posted.ID), fmt.Sprintf("call delete_tweet with %s", posted.ID), nil
		},
	})
	if err != nil {
		return PublishResult{}, err
	}
	return publishResultFrom(result, postedID, ""), nil
}

// PublishThread posts a multi-tweet thread through the mutation gateway
// as a single dispatched mutation. The primitive posts the tweets in
// order and stops at the first failure; tweets already posted stay
// posted, and the error carries their IDs and the failed index.
func (w *Workflow) PublishThread(ctx context.Context, tweets []string, topic string, structure string) (PublishResult, error) {
	var rootID string
	result, err := w.gateway.Dispatch(ctx, gateway.Request{
		ToolName:          "post_thread",
		Category:          "write",
		Params:            map[string]any{"tweets": tweets},
		ParamsSummary:     fmt.Sprintf("%d-tweet thread", len(tweets)),
		ApprovalDraftText: tweets[0],
		ApprovalTopic:     topic,
		Execute: func(ctx context.Context) (string, string, error) {
			posted, err := w.api.PostThread(ctx, tweets)
			if err != nil {
				return "", "", err
			}
			if len(posted) > 0 {
				rootID = posted[0].ID
			}
			thread := &models.Thread{
				Topic:       topic,
				Structure:   structure,
				RootTweetID: rootID,
				CreatedAt:   time.Now().UTC(),
			}
			threadTweets := make([]models.ThreadTweet, 0, len(posted))
			for i, t := range posted {
				threadTweets = append(threadTweets, models.ThreadTweet{
					Position: i,
					TweetID:  t.ID,
					Text:     tweets[i],
					RootID:   rootID,
				})
			}
			if err := w.store.CreateThread(ctx, thread, threadTweets); err != nil {
				return "", "", err
			}
			return fmt.Sprintf("posted %d-tweet thread rooted at %s", len(posted), rootID), fmt.Sprintf("call delete_tweet with %s", rootID), nil
		},
	})
	if err != nil {
		return PublishResult{}, err
	}
	return publishResultFrom(result, "", rootID), nil
}

func publishResultFrom(result gateway.Result, tweetID, threadRootID string) PublishResult {
	reason := result.Reason
	if result.Err != nil {
		reason = result.Err.Error()
	}
	return PublishResult{
		Outcome:         string(result.Outcome),
		TweetID:         tweetID,
		ThreadRootID:    threadRootID,
		ApprovalQueueID: result.ApprovalQueueID,
		Reason:          reason,
		RollbackHint:    result.RollbackHint,
	}
}
