// Package config defines the Tuitbot runtime configuration tree.
//
// Loading this struct from a file or environment variables is outside
// this package's scope: callers are expected to populate a Config value
// however they like (flags, YAML, env) and pass it to
// (*Config).Validate before wiring the rest of the system.
package config

import "time"

// Mode selects the overall operating posture of the runtime.
type Mode string

const (
	// ModeAutopilot lets the policy engine route mutations normally.
	ModeAutopilot Mode = "autopilot"
	// ModeComposer forces every mutation through the approval queue.
	ModeComposer Mode = "composer"
)

// Config is the root configuration object consumed by every package.
type Config struct {
	Mode Mode
	// ApprovalMode routes every mutation to the approval queue,
	// independent of Mode — see gateway.evaluatePolicy.
	ApprovalMode   bool
	Scoring        ScoringConfig
	Limits         LimitsConfig
	Intervals      IntervalsConfig
	Schedule       ScheduleConfig
	Policy         PolicyConfig
	CircuitBreaker CircuitBreakerConfig
	Storage        StorageConfig
}

// ScoringConfig holds the scoring-engine thresholds and per-signal caps.
type ScoringConfig struct {
	Threshold         float64
	KeywordRelevanceMax float64
	FollowerCountMax    float64
	RecencyMax          float64
	EngagementRateMax   float64
	ReplyCountMax       float64
	ContentTypeMax      float64
}

// LimitsConfig holds rate-limit budgets, jitter bounds and the safety list.
type LimitsConfig struct {
	MaxRepliesPerDay          int
	MaxTweetsPerDay           int
	MaxThreadsPerWeek         int
	MaxRepliesPerAuthorPerDay int
	MinActionDelaySeconds     int
	MaxActionDelaySeconds     int
	BannedPhrases             []string
	ProductMentionRatio       float64
}

// IntervalsConfig holds the base loop intervals (before jitter).
type IntervalsConfig struct {
	MentionsCheckSeconds     int
	DiscoverySearchSeconds   int
	ContentPostWindowSeconds int
	ThreadIntervalSeconds    int
}

// ScheduleConfig holds the schedule-gate parameters.
type ScheduleConfig struct {
	Timezone             string
	ActiveHoursStart     int // minutes since midnight
	ActiveHoursEnd       int // minutes since midnight
	ActiveDays           []time.Weekday
	PreferredTimes       []string // "HH:MM" in Timezone
	PreferredTimesOverride bool
	ThreadPreferredDay   time.Weekday
	ThreadPreferredTime  string
}

// PolicyConfig holds the mutation-gateway policy rule set.
type PolicyConfig struct {
	EnforceForMutations bool
	RequireApprovalFor  []string
	BlockedTools        []string
	DryRunMutations     []string
	MaxMutationsPerHour int
	Template            string
	Rules               []PolicyRule
	RateLimits          []PolicyRateLimit
}

// PolicyRule is one user-configured policy rule (priority >= 200).
type PolicyRule struct {
	Name       string
	Priority   int
	ToolNames  []string
	Categories []string
	Modes      []Mode
	TimeWindows []TimeWindow
	Action     PolicyAction
	Reason     string
}

// TimeWindow is a time-of-week window, e.g. weekday 09:00-17:00.
type TimeWindow struct {
	Day   time.Weekday
	Start int // minutes since midnight
	End   int // minutes since midnight
}

// PolicyAction is the outcome a matching rule applies.
type PolicyAction string

const (
	PolicyAllow           PolicyAction = "allow"
	PolicyDeny            PolicyAction = "deny"
	PolicyRequireApproval PolicyAction = "require_approval"
	PolicyDryRun          PolicyAction = "dry_run"
)

// PolicyRateLimit is a per-dimension rate limit evaluated during policy.
type PolicyRateLimit struct {
	ToolName   string
	Category   string
	MaxPerHour int
}

// CircuitBreakerConfig tunes the automation runtime's circuit breaker.
type CircuitBreakerConfig struct {
	ErrorThreshold int
	WindowSeconds  int
	CooldownSeconds int
}

// StorageConfig holds the persistence location and retention policy.
type StorageConfig struct {
	DBPath        string
	RetentionDays int
}

// Default returns a Config populated with reasonable operating defaults.
func Default() Config {
	return Config{
		Mode:         ModeAutopilot,
		ApprovalMode: false,
		Scoring: ScoringConfig{
			Threshold:           50,
			KeywordRelevanceMax: 25,
			FollowerCountMax:    20,
			RecencyMax:          15,
			EngagementRateMax:   20,
			ReplyCountMax:       10,
			ContentTypeMax:      10,
		},
		Limits: LimitsConfig{
			MaxRepliesPerDay:          20,
			MaxTweetsPerDay:           5,
			MaxThreadsPerWeek:         2,
			MaxRepliesPerAuthorPerDay: 1,
			MinActionDelaySeconds:     5,
			MaxActionDelaySeconds:     60,
			ProductMentionRatio:       0.2,
		},
		Intervals: IntervalsConfig{
			MentionsCheckSeconds:     60,
			DiscoverySearchSeconds:   300,
			ContentPostWindowSeconds: 6 * 3600,
			ThreadIntervalSeconds:    7 * 24 * 3600,
		},
		Schedule: ScheduleConfig{
			Timezone:         "UTC",
			ActiveHoursStart: 8 * 60,
			ActiveHoursEnd:   22 * 60,
			ActiveDays: []time.Weekday{
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
				time.Friday, time.Saturday, time.Sunday,
			},
		},
		Policy: PolicyConfig{
			EnforceForMutations: true,
			MaxMutationsPerHour: 30,
		},
		CircuitBreaker: CircuitBreakerConfig{
			ErrorThreshold:  3,
			WindowSeconds:   60,
			CooldownSeconds: 300,
		},
		Storage: StorageConfig{
			DBPath:        "tuitbot.db",
			RetentionDays: 90,
		},
	}
}
