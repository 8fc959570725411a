package config

import "fmt"

// Validate checks the configuration for internally-consistent values.
// It does not reach outside the struct (no env/file access) — that
// belongs to the out-of-scope config loader.
func (c *Config) Validate() error {
	if c.Mode != ModeAutopilot && c.Mode != ModeComposer {
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}

	if c.Scoring.Threshold < 0 {
		return fmt.Errorf("config: scoring.threshold must be >= 0")
	}

	if c.Limits.MinActionDelaySeconds > c.Limits.MaxActionDelaySeconds {
		// Inverted bounds are swapped here without an error, the same
		// way the scheduler swaps them defensively.
		c.Limits.MinActionDelaySeconds, c.Limits.MaxActionDelaySeconds =
			c.Limits.MaxActionDelaySeconds, c.Limits.MinActionDelaySeconds
	}

	if c.Intervals.MentionsCheckSeconds <= 0 {
		return fmt.Errorf("config: intervals.mentions_check_seconds must be positive")
	}
	if c.Intervals.DiscoverySearchSeconds <= 0 {
		return fmt.Errorf("config: intervals.discovery_search_seconds must be positive")
	}

	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "UTC"
	}

	if c.CircuitBreaker.ErrorThreshold <= 0 {
		return fmt.Errorf("config: circuit_breaker.error_threshold must be positive")
	}
	if c.CircuitBreaker.WindowSeconds <= 0 {
		return fmt.Errorf("config: circuit_breaker.window_seconds must be positive")
	}
	if c.CircuitBreaker.CooldownSeconds <= 0 {
		return fmt.Errorf("config: circuit_breaker.cooldown_seconds must be positive")
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required")
	}
	if c.Storage.RetentionDays <= 0 {
		c.Storage.RetentionDays = 90
	}

	return nil
}
