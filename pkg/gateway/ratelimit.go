package gateway

import (
	"context"
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
)

const (
	secondsPerDay  = 24 * 3600
	secondsPerWeek = 7 * secondsPerDay
)

// rateLimited checks the global per-hour mutation cap, the per-action
// daily/weekly budgets from LimitsConfig, and every per-dimension
// PolicyRateLimit that applies to toolName/category, consuming
// capacity from the store-backed window as it goes. It returns the
// first limiter that rejects, if any.
func (g *Gateway) rateLimited(ctx context.Context, toolName, category string) (bool, string, error) {
	if g.policy.MaxMutationsPerHour > 0 {
		count, err := g.store.CountMutationsSince(ctx, time.Now().Add(-time.Hour))
		if err != nil {
			return false, "", err
		}
		if count >= int64(g.policy.MaxMutationsPerHour) {
			return true, "max_mutations_per_hour", nil
		}
	}

	if kind, periodSeconds, max, ok := actionLimitFor(g.limits, toolName); ok {
		allowed, err := g.store.TryConsumeRateLimit(ctx, kind, periodSeconds, max)
		if err != nil {
			return false, "", err
		}
		if !allowed {
			return true, "rate_limited:" + kind, nil
		}
	}

	for _, rl := range g.policy.RateLimits {
		if !rateLimitApplies(rl, toolName, category) {
			continue
		}
		allowed, err := g.store.TryConsumeRateLimit(ctx, rateLimitKind(rl), 3600, rl.MaxPerHour)
		if err != nil {
			return false, "", err
		}
		if !allowed {
			return true, "rate_limited:" + rateLimitKind(rl), nil
		}
	}
	return false, "", nil
}

// actionLimitFor maps a mutation tool name onto its LimitsConfig
// daily/weekly budget, if any. A max <= 0 means the budget is
// unconfigured and the tool is left to the hourly/policy limiters.
func actionLimitFor(limits config.LimitsConfig, toolName string) (kind string, periodSeconds, max int, ok bool) {
	switch toolName {
	case "reply_to_tweet":
		if limits.MaxRepliesPerDay > 0 {
			return "limits:replies_per_day", secondsPerDay, limits.MaxRepliesPerDay, true
		}
	case "post_tweet":
		if limits.MaxTweetsPerDay > 0 {
			return "limits:tweets_per_day", secondsPerDay, limits.MaxTweetsPerDay, true
		}
	case "post_thread":
		if limits.MaxThreadsPerWeek > 0 {
			return "limits:threads_per_week", secondsPerWeek, limits.MaxThreadsPerWeek, true
		}
	}
	return "", 0, 0, false
}

func rateLimitApplies(rl config.PolicyRateLimit, toolName, category string) bool {
	if rl.ToolName != "" && rl.ToolName != toolName {
		return false
	}
	if rl.Category != "" && rl.Category != category {
		return false
	}
	return true
}

func rateLimitKind(rl config.PolicyRateLimit) string {
	return "policy:" + rl.ToolName + ":" + rl.Category
}
