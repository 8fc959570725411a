// Package models holds the GORM row types for every persisted entity.
//
// Timestamps are always stored and compared in UTC; callers should pass
// time.Now().UTC() rather than local time.
package models

import "time"

// DiscoveredTweet is a tweet surfaced by the discovery or target loops.
// Invariant: at most one row per TweetID; RepliedTo transitions false to
// true exactly once (enforced by pkg/store's repository, not the DB).
type DiscoveredTweet struct {
	TweetID          string `gorm:"column:tweet_id;primaryKey"`
	AuthorID         string `gorm:"column:author_id;not null"`
	AuthorHandle     string `gorm:"column:author_handle"`
	Text             string `gorm:"column:text;not null"`
	LikeCount        int    `gorm:"column:like_count"`
	RetweetCount     int    `gorm:"column:retweet_count"`
	ReplyCount       int    `gorm:"column:reply_count"`
	ImpressionCount  int    `gorm:"column:impression_count"`
	MatchedKeyword   string `gorm:"column:matched_keyword"`
	RelevanceScore   float64 `gorm:"column:relevance_score"`
	DiscoveredAt     time.Time `gorm:"column:discovered_at;not null"`
	RepliedTo        bool      `gorm:"column:replied_to;not null;default:false"`
}

func (DiscoveredTweet) TableName() string { return "discovered_tweets" }

// ReplySentStatus is the lifecycle of a reply the runtime tried to post.
type ReplySentStatus string

const (
	ReplyStatusSent   ReplySentStatus = "sent"
	ReplyStatusFailed ReplySentStatus = "failed"
	ReplyStatusDeleted ReplySentStatus = "deleted"
)

// ReplySent records a reply attempt against a DiscoveredTweet.
// Invariant: at most one row with Status=sent per TargetTweetID, enforced
// by a unique partial index created in the migrations.
type ReplySent struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"`
	TargetTweetID  string          `gorm:"column:target_tweet_id;not null;index"`
	ReplyTweetID   *string         `gorm:"column:reply_tweet_id"`
	Text           string          `gorm:"column:text;not null"`
	Provider       string          `gorm:"column:provider"`
	Model          string          `gorm:"column:model"`
	Status         ReplySentStatus `gorm:"column:status;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null"`
}

func (ReplySent) TableName() string { return "replies_sent" }

// OriginalTweet is a standalone piece of original content the content
// loop published.
type OriginalTweet struct {
	TweetID   string    `gorm:"column:tweet_id;primaryKey"`
	Text      string    `gorm:"column:text;not null"`
	Topic     string    `gorm:"column:topic"`
	Archetype string    `gorm:"column:archetype"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (OriginalTweet) TableName() string { return "original_tweets" }

// Thread is an ordered, published sequence of tweets; the first element
// of its ThreadTweets is the conversation root.
type Thread struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Topic       string    `gorm:"column:topic"`
	Structure   string    `gorm:"column:structure"`
	RootTweetID string    `gorm:"column:root_tweet_id"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (Thread) TableName() string { return "threads" }

// ThreadTweet is one child tweet of a Thread, referencing its parent by
// RootID rather than holding an in-memory pointer.
type ThreadTweet struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ThreadID  uint   `gorm:"column:thread_id;not null;index"`
	Position  int    `gorm:"column:position;not null"`
	TweetID   string `gorm:"column:tweet_id;not null"`
	Text      string `gorm:"column:text;not null"`
	RootID    string `gorm:"column:root_id;not null"`
}

func (ThreadTweet) TableName() string { return "thread_tweets" }

// ApprovalStatus is the state-machine status of an ApprovalItem.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalExpired  ApprovalStatus = "expired"
	ApprovalPosted   ApprovalStatus = "posted"
)

// ApprovalItem is a draft action waiting for human review.
// Invariant: items older than 24h and still Pending transition to
// Expired at read time (pkg/store.ExpireStalePending), not via a timer.
type ApprovalItem struct {
	ID         uint           `gorm:"column:id;primaryKey;autoIncrement"`
	ActionKind string         `gorm:"column:action_kind;not null"`
	TargetRefs string         `gorm:"column:target_refs"` // JSON-encoded []string
	DraftText  string         `gorm:"column:draft_text"`
	Topic      string         `gorm:"column:topic"`
	Archetype  string         `gorm:"column:archetype"`
	Score      float64        `gorm:"column:score"`
	Status     ApprovalStatus `gorm:"column:status;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null"`
	Media      string         `gorm:"column:media"` // JSON-encoded []string
	Reviewer   string         `gorm:"column:reviewer"`
	Reason     string         `gorm:"column:reason"`
	Risks      string         `gorm:"column:risks"` // JSON-encoded []string
	QAReport   string         `gorm:"column:qa_report"`
	QAScore    float64        `gorm:"column:qa_score"`
	Override   string         `gorm:"column:override"` // JSON-encoded override record
}

func (ApprovalItem) TableName() string { return "approval_items" }

// RateLimit is a window-based counter keyed by action kind.
// Invariant: Counter <= MaxRequests; the window resets atomically the
// next time it is read after PeriodStart+PeriodSeconds has elapsed.
type RateLimit struct {
	ActionKind    string    `gorm:"column:action_kind;primaryKey"`
	Counter       int       `gorm:"column:counter;not null"`
	PeriodStart   time.Time `gorm:"column:period_start;not null"`
	PeriodSeconds int       `gorm:"column:period_seconds;not null"`
	MaxRequests   int       `gorm:"column:max_requests;not null"`
}

func (RateLimit) TableName() string { return "rate_limits" }

// Cursor is a small key/value side table used for pagination tokens and
// scalar runtime facts.
type Cursor struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Cursor) TableName() string { return "cursors" }

// ActionLog is an append-only audit of every automated action taken.
type ActionLog struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ActionKind string    `gorm:"column:action_kind;not null"`
	Status     string    `gorm:"column:status;not null"`
	Message    string    `gorm:"column:message"`
	Metadata   string    `gorm:"column:metadata"` // JSON, optional
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (ActionLog) TableName() string { return "action_log" }

// MutationAuditStatus is the terminal/pending state of a gated mutation.
type MutationAuditStatus string

const (
	MutationPending MutationAuditStatus = "pending"
	MutationSuccess MutationAuditStatus = "success"
	MutationFailure MutationAuditStatus = "failure"
)

// MutationAudit is one row per gated write, keyed by CorrelationID.
// Invariant: every row observed Pending must reach Success or Failure
// within the gateway's bounded audit timeout.
type MutationAudit struct {
	CorrelationID string               `gorm:"column:correlation_id;primaryKey"`
	ToolName      string               `gorm:"column:tool_name;not null"`
	ParamsHash    string               `gorm:"column:params_hash;not null;index"`
	ParamsSummary string               `gorm:"column:params_summary"`
	Status        MutationAuditStatus  `gorm:"column:status;not null"`
	ResultSummary string               `gorm:"column:result_summary"`
	ErrorMessage  string               `gorm:"column:error_message"`
	ElapsedMs     int64                `gorm:"column:elapsed_ms"`
	RollbackHint  string               `gorm:"column:rollback_hint"`
	CreatedAt     time.Time            `gorm:"column:created_at;not null"`
	CompletedAt   *time.Time           `gorm:"column:completed_at"`
}

func (MutationAudit) TableName() string { return "mutation_audit" }

// AuthorInteraction caps replies per author per day: one row per
// (AuthorID, Date) with a running count.
type AuthorInteraction struct {
	AuthorID   string `gorm:"column:author_id;primaryKey"`
	Date       string `gorm:"column:date;primaryKey"` // YYYY-MM-DD, UTC
	ReplyCount int    `gorm:"column:reply_count;not null;default:0"`
}

func (AuthorInteraction) TableName() string { return "author_interactions" }

// FollowerSnapshot is a daily point used by the analytics loop.
// Invariant: at most one row per Date.
type FollowerSnapshot struct {
	Date       string `gorm:"column:date;primaryKey"` // YYYY-MM-DD, UTC
	Followers  int    `gorm:"column:followers;not null"`
	Following  int    `gorm:"column:following;not null"`
	TweetCount int    `gorm:"column:tweet_count;not null"`
}

func (FollowerSnapshot) TableName() string { return "follower_snapshots" }

// PerformanceKind distinguishes which entity a Performance row measures.
type PerformanceKind string

const (
	PerformanceReply    PerformanceKind = "reply"
	PerformanceOriginal PerformanceKind = "original"
)

// Performance is an engagement snapshot measured roughly 24h after
// publication, used by the analytics loop and strategy reports.
type Performance struct {
	ID              uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Kind            PerformanceKind `gorm:"column:kind;not null"`
	TweetID         string          `gorm:"column:tweet_id;not null;index"`
	LikeCount       int             `gorm:"column:like_count"`
	RetweetCount    int             `gorm:"column:retweet_count"`
	ReplyCount      int             `gorm:"column:reply_count"`
	ImpressionCount int             `gorm:"column:impression_count"`
	MeasuredAt      time.Time       `gorm:"column:measured_at;not null"`
}

func (Performance) TableName() string { return "performance" }
