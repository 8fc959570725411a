// Package gateway is the mutation gateway: every side-effecting tool
// call crosses it exactly once, in three phases — idempotency check,
// policy evaluation, audit open — before the caller's primitive runs
// and the audit row closes.
package gateway

import "context"

// Outcome is the terminal disposition the gateway reports for one
// Dispatch call.
type Outcome string

const (
	// OutcomeExecuted means the primitive ran and succeeded.
	OutcomeExecuted Outcome = "executed"
	// OutcomeFailed means the primitive ran and returned an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeQueued means policy routed the mutation to the approval queue.
	OutcomeQueued Outcome = "queued"
	// OutcomeBlocked means a policy rule denied the mutation outright.
	OutcomeBlocked Outcome = "blocked"
	// OutcomeRateLimited means a rate-limit dimension was at capacity.
	OutcomeRateLimited Outcome = "rate_limited"
	// OutcomeDryRun means policy routed the mutation to a dry run; the
	// primitive never ran.
	OutcomeDryRun Outcome = "dry_run"
	// OutcomeDuplicate means the in-memory idempotency layer recognized
	// this (tool, params) pair within its 30s window.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeDuplicateInFlight means the durable layer found a pending
	// audit row for the same params within its 5 minute window.
	OutcomeDuplicateInFlight Outcome = "duplicate_in_flight"
)

// Request describes one gated mutation attempt.
type Request struct {
	// ToolName and Category identify the mutation for policy matching.
	ToolName string
	Category string

	// Params is hashed (via JSON) to build the idempotency key; it
	// should include every argument that makes two calls "the same".
	Params interface{}
	// ParamsSummary is a short human-readable rendering of Params,
	// stored on the audit row and on any resulting ApprovalItem.
	ParamsSummary string

	// Approval* populate the ApprovalItem row when policy requires
	// approval. Callers outside the content/reply path can leave these
	// zero; the item then carries ActionKind, Reason, and ParamsSummary
	// as its draft text.
	ApprovalDraftText  string
	ApprovalTopic      string
	ApprovalArchetype  string
	ApprovalScore      float64
	ApprovalTargetRefs []string
	ApprovalMedia      []string
	ApprovalRisks      []string

	// Execute runs the actual primitive. It returns a short result
	// summary and an optional rollback hint ("call unlike_tweet with
	// the same IDs") for the audit row.
	Execute func(ctx context.Context) (resultSummary, rollbackHint string, err error)
}

// Result is the single outcome returned per Dispatch call.
type Result struct {
	CorrelationID   string
	Outcome         Outcome
	Reason          string
	ResultSummary   string
	ApprovalQueueID *uint
	WouldExecute    string
	// RollbackHint is the guidance Execute returned on a successful
	// mutation (e.g. "call unlike_tweet with the same id"), surfaced so
	// callers outside the audit row can act on it directly.
	RollbackHint string
	Err          error
}
