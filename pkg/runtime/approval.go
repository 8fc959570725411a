package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/store/models"
)

const approvalPollInterval = time.Minute

// runApprovalLoop drains approved ApprovalItem rows and posts each
// directly (bypassing the mutation gateway's policy routing, since the
// approval itself is the policy decision), marking it Posted on
// success. A failure leaves the item Approved so the next pass retries.
func (r *Runtime) runApprovalLoop(ctx context.Context) {
	sched := r.gatedScheduler(approvalPollInterval)

	for ctx.Err() == nil {
		if r.gate.Allowed(time.Now()) && r.breaker.Allow() {
			n, err := r.drainApprovedOnce(ctx)
			r.breaker.RecordResult(err == nil)
			if err != nil {
				r.logger.WithError(err).Warn("runtime: approval loop failed")
				r.events.publish(RuntimeEvent{Kind: EventLoopError, Loop: "approval", Message: err.Error(), At: time.Now().UTC()})
			} else if n > 0 {
				r.events.publish(RuntimeEvent{Kind: EventActionPerformed, Loop: "approval", Message: fmt.Sprintf("posted %d approved items", n), At: time.Now().UTC()})
			}
		}

		if err := sched.Wait(ctx); err != nil {
			return
		}
	}
}

func (r *Runtime) drainApprovedOnce(ctx context.Context) (int, error) {
	items, err := r.store.ApprovedApprovalItems(ctx)
	if err != nil {
		return 0, err
	}

	posted := 0
	for _, item := range items {
		if _, err := r.postApprovedItem(ctx, item); err != nil {
			r.logger.WithError(err).WithField("approval_id", item.ID).Warn("runtime: failed to post approved item")
			continue
		}
		if err := r.store.SetApprovalStatus(ctx, item.ID, models.ApprovalPosted, "runtime", ""); err != nil {
			r.logger.WithError(err).WithField("approval_id", item.ID).Warn("runtime: failed to mark approved item posted")
			continue
		}
		posted++
	}
	return posted, nil
}

func (r *Runtime) postApprovedItem(ctx context.Context, item models.ApprovalItem) (string, error) {
	switch item.ActionKind {
	case "reply_to_tweet":
		refs, err := store.DecodeStrings(item.TargetRefs)
		if err != nil || len(refs) == 0 {
			return "", fmt.Errorf("runtime: approved reply %d has no target tweet", item.ID)
		}
		return r.wf.ExecuteApprovedReply(ctx, refs[0], item.DraftText)

	case "post_tweet":
		return r.wf.ExecuteApprovedTweet(ctx, item.DraftText, item.Topic)

	case "post_thread":
		return r.wf.ExecuteApprovedThread(ctx, item.Topic, "")

	default:
		return "", fmt.Errorf("runtime: unknown approved action kind %q", item.ActionKind)
	}
}
