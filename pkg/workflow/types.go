package workflow

import (
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/scoring"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// Candidate is one discovered tweet annotated with its score and
// whether it has already been replied to.
type Candidate struct {
	Tweet          toolkit.Tweet
	Score          scoring.Result
	AlreadyReplied bool
}

// DiscoverOutput is the result of a Discover call.
type DiscoverOutput struct {
	Candidates []Candidate
	QueryUsed  string
	Threshold  float64
}

// DraftKind distinguishes a successful draft from a per-candidate
// failure, so a batch stays resilient to individual errors.
type DraftKind string

const (
	DraftSuccess DraftKind = "success"
	DraftError   DraftKind = "error"
)

// DraftResult is one candidate's drafted reply, or the error drafting
// it produced.
type DraftResult struct {
	Kind       DraftKind
	TweetID    string
	Text       string
	Archetype  content.Archetype
	Confidence string
	Risks      []string
	Err        error
}

// ProposeItem is one reply text (or tweet to draft text for) submitted
// to Queue.
type ProposeItem struct {
	TweetID string
	Text    string
}

// ProposeKind is the outcome Queue assigns to one item.
type ProposeKind string

const (
	ProposeQueued   ProposeKind = "queued"
	ProposeExecuted ProposeKind = "executed"
	ProposeBlocked  ProposeKind = "blocked"
)

// ProposeResult is one item's outcome from Queue.
type ProposeResult struct {
	Kind            ProposeKind
	TweetID         string
	ReplyTweetID    string
	ApprovalQueueID *uint
	Reason          string
	RollbackHint    string
}

// PublishResult is the outcome of Publish or PublishThread.
type PublishResult struct {
	Outcome         string
	TweetID         string
	ThreadRootID    string
	ApprovalQueueID *uint
	Reason          string
	RollbackHint    string
}

// ThreadPlanOutput is the result of ThreadPlan.
type ThreadPlanOutput struct {
	Tweets    []string
	Structure content.ThreadStructure
	Hook      string
	Relevance float64
}

// OrchestrateSummary reports per-stage counts from the orchestrate
// entry point.
type OrchestrateSummary struct {
	Discovered  int
	Drafted     int
	DraftErrors int
	Queued      int
	Executed    int
	Blocked     int
}

func confidenceFor(charCount int) string {
	switch {
	case charCount < 200:
		return "high"
	case charCount < 260:
		return "medium"
	default:
		return "low"
	}
}
