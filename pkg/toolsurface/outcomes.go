package toolsurface

import (
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// outcomeEnvelope inspects a handler's return value for the three
// gateway-routed result shapes (a raw gateway.Result from the low-level
// Engage/Write/Delete/Admin handlers, or a workflow ProposeResult/
// PublishResult from the Workflow lane) and builds the envelope their
// Outcome/Kind actually earned — a handler returning err == nil does not
// by itself mean the mutation executed; it may have been blocked,
// rate-limited, or merely queued for approval.
func outcomeEnvelope(data interface{}, elapsed int64) (Envelope, bool) {
	switch v := data.(type) {
	case gateway.Result:
		return envelopeFromGatewayResult(v, elapsed), true
	case workflow.ProposeResult:
		return envelopeFromProposeResult(v, elapsed), true
	case []workflow.ProposeResult:
		return envelopeFromProposeResults(v, elapsed), true
	case workflow.PublishResult:
		return envelopeFromPublishResult(v, elapsed), true
	default:
		return Envelope{}, false
	}
}

func rollbackFor(hint string) *RollbackHint {
	if hint == "" {
		return nil
	}
	return &RollbackHint{Tool: "", Params: map[string]interface{}{"hint": hint}}
}

func envelopeFromGatewayResult(r gateway.Result, elapsed int64) Envelope {
	switch r.Outcome {
	case gateway.OutcomeExecuted:
		return successMutation(map[string]interface{}{
			"outcome": string(r.Outcome),
			"result":  r.ResultSummary,
		}, elapsed, r.CorrelationID, rollbackFor(r.RollbackHint))
	case gateway.OutcomeQueued:
		return successMutation(map[string]interface{}{
			"outcome":            string(r.Outcome),
			"routed_to_approval": true,
			"approval_queue_id":  r.ApprovalQueueID,
		}, elapsed, r.CorrelationID, nil)
	case gateway.OutcomeDryRun:
		return successMutation(map[string]interface{}{
			"outcome":       string(r.Outcome),
			"dry_run":       true,
			"would_execute": r.WouldExecute,
		}, elapsed, r.CorrelationID, nil)
	default:
		return failure(errorFromOutcome(r), elapsed)
	}
}

func envelopeFromProposeResult(r workflow.ProposeResult, elapsed int64) Envelope {
	switch r.Kind {
	case workflow.ProposeExecuted:
		return successMutation(r, elapsed, "", rollbackFor(r.RollbackHint))
	case workflow.ProposeQueued:
		return successMutation(r, elapsed, "", nil)
	default:
		return failure(newError(ErrPolicyDeniedBlocked, r.Reason, false), elapsed)
	}
}

func envelopeFromProposeResults(results []workflow.ProposeResult, elapsed int64) Envelope {
	// A batch call never fails wholesale for one blocked item: every
	// result carries its own per-item outcome, so this is always success
	// at the envelope level (mirrors Queue's per-candidate resilience).
	return success(results, elapsed)
}

func envelopeFromPublishResult(r workflow.PublishResult, elapsed int64) Envelope {
	switch r.Outcome {
	case string(gateway.OutcomeExecuted):
		return successMutation(r, elapsed, "", rollbackFor(r.RollbackHint))
	case string(gateway.OutcomeQueued), string(gateway.OutcomeDryRun):
		return successMutation(r, elapsed, "", nil)
	default:
		code := ErrXApiError
		switch r.Outcome {
		case string(gateway.OutcomeBlocked):
			code = ErrPolicyDeniedBlocked
		case string(gateway.OutcomeRateLimited):
			code = ErrPolicyDeniedRate
		case string(gateway.OutcomeDuplicate), string(gateway.OutcomeDuplicateInFlight):
			code = ErrValidation
		}
		return failure(newError(code, r.Reason, false), elapsed)
	}
}
