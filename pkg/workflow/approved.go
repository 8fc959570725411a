package workflow

import (
	"context"
	"time"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// ExecuteApprovedReply posts a reply a reviewer has already approved.
// It runs the primitive directly rather than through Dispatch: the
// approval itself is the policy decision, and re-dispatching would just
// route the mutation back into the approval queue it came from.
func (w *Workflow) ExecuteApprovedReply(ctx context.Context, targetTweetID, text string) (string, error) {
	posted, err := w.api.ReplyToTweet(ctx, text, targetTweetID, toolkit.PostOptions{})
	if err != nil {
		return "", err
	}
	if err := w.store.RecordReply(ctx, &models.ReplySent{
		TargetTweetID: targetTweetID,
		ReplyTweetID:  &posted.ID,
		Text:          text,
		Status:        models.ReplyStatusSent,
	}); err != nil {
		return "", err
	}
	if err := w.store.MarkRepliedTo(ctx, targetTweetID); err != nil {
		return "", err
	}
	return posted.ID, nil
}

// ExecuteApprovedTweet posts a standalone tweet a reviewer has already
// approved.
func (w *Workflow) ExecuteApprovedTweet(ctx context.Context, text, topic string) (string, error) {
	posted, err := w.api.PostTweet(ctx, text, toolkit.PostOptions{})
	if err != nil {
		return "", err
	}
	if err := w.store.RecordOriginalTweet(ctx, &models.OriginalTweet{
		TweetID:   posted.ID,
		Text:      text,
		Topic:     topic,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return "", err
	}
	return posted.ID, nil
}

// ExecuteApprovedThread posts a thread a reviewer has already approved,
// regenerating its tweets from topic/structure since an ApprovalItem
// only retains the opening tweet as its draft text.
func (w *Workflow) ExecuteApprovedThread(ctx context.Context, topic string, structure content.ThreadStructure) (string, error) {
	plan, err := w.ThreadPlan(ctx, topic, structure)
	if err != nil {
		return "", err
	}
	posted, err := w.api.PostThread(ctx, plan.Tweets)
	if err != nil {
		return "", err
	}
	var rootID string
	if len(posted) > 0 {
		rootID = posted[0].ID
	}
	thread := &models.Thread{
		Topic:       topic,
		Structure:   string(plan.Structure),
		RootTweetID: rootID,
		CreatedAt:   time.Now().UTC(),
	}
	threadTweets := make([]models.ThreadTweet, 0, len(posted))
	for i, t := range posted {
		threadTweets = append(threadTweets, models.ThreadTweet{
			Position: i,
			TweetID:  t.ID,
			Text:     plan.Tweets[i],
			RootID:   rootID,
		})
	}
	if err := w.store.CreateThread(ctx, thread, threadTweets); err != nil {
		return "", err
	}
	return rootID, nil
}
