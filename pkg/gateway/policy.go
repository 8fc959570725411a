package gateway

import (
	"sort"
	"strings"
	"time"

	"github.com/tuitbot/tuitbot/internal/config"
)

// evaluatePolicy finds the first matching rule across the hard,
// template, user, and v1-compat tiers, in priority order, and returns
// its action and reason. Hard rules are evaluated outside the sorted
// rule list since their conditions (operating mode, the global
// approval_mode switch, a tool-name prefix) don't fit the
// ToolNames/Categories/Modes/TimeWindows shape user and v1-compat
// rules use.
func evaluatePolicy(cfg config.PolicyConfig, mode config.Mode, approvalModeAll bool, toolName, category string, now time.Time) (config.PolicyAction, string) {
	if mode == config.ModeComposer {
		return config.PolicyRequireApproval, "composer mode routes every mutation to approval"
	}
	if approvalModeAll {
		return config.PolicyRequireApproval, "approval_mode routes every mutation to approval"
	}
	if strings.HasPrefix(toolName, "delete_") {
		return config.PolicyRequireApproval, "delete tools always require approval"
	}

	rules := templateRules(cfg.Template)
	rules = append(rules, cfg.Rules...)
	rules = append(rules, v1CompatRules(cfg)...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	for _, r := range rules {
		if ruleMatches(r, toolName, category, mode, now) {
			return r.Action, r.Reason
		}
	}
	return config.PolicyAllow, ""
}

func ruleMatches(r config.PolicyRule, toolName, category string, mode config.Mode, now time.Time) bool {
	if len(r.ToolNames) > 0 && !containsString(r.ToolNames, toolName) {
		return false
	}
	if len(r.Categories) > 0 && !containsString(r.Categories, category) {
		return false
	}
	if len(r.Modes) > 0 && !containsMode(r.Modes, mode) {
		return false
	}
	if len(r.TimeWindows) > 0 && !inAnyWindow(r.TimeWindows, now) {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsMode(set []config.Mode, v config.Mode) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

func inAnyWindow(windows []config.TimeWindow, now time.Time) bool {
	minutes := now.Hour()*60 + now.Minute()
	for _, w := range windows {
		if now.Weekday() == w.Day && minutes >= w.Start && minutes < w.End {
			return true
		}
	}
	return false
}

// templateRules returns the named policy template's synthesized rules,
// priority 100-199. Only "safe" and "aggressive" are defined; an
// unrecognized or empty template contributes no rules.
func templateRules(name string) []config.PolicyRule {
	switch name {
	case "safe":
		return []config.PolicyRule{{
			Name:       "template-safe-high-risk-approval",
			Priority:   100,
			Categories: []string{"delete", "follow_unfollow"},
			Action:     config.PolicyRequireApproval,
			Reason:     "safe template requires approval for high-risk categories",
		}}
	case "aggressive":
		return []config.PolicyRule{{
			Name:     "template-aggressive-allow-all",
			Priority: 100,
			Action:   config.PolicyAllow,
			Reason:   "aggressive template allows all mutations",
		}}
	default:
		return nil
	}
}

// v1CompatRules synthesizes priority 300+ rules from the legacy flat
// policy fields, so a config that only sets blocked_tools etc. still
// works without writing out structured Rules entries.
func v1CompatRules(cfg config.PolicyConfig) []config.PolicyRule {
	var rules []config.PolicyRule
	if len(cfg.BlockedTools) > 0 {
		rules = append(rules, config.PolicyRule{
			Name: "v1-blocked-tools", Priority: 300,
			ToolNames: cfg.BlockedTools, Action: config.PolicyDeny,
			Reason: "blocked_tools",
		})
	}
	if len(cfg.RequireApprovalFor) > 0 {
		rules = append(rules, config.PolicyRule{
			Name: "v1-require-approval-for", Priority: 301,
			ToolNames: cfg.RequireApprovalFor, Action: config.PolicyRequireApproval,
			Reason: "require_approval_for",
		})
	}
	if len(cfg.DryRunMutations) > 0 {
		rules = append(rules, config.PolicyRule{
			Name: "v1-dry-run-mutations", Priority: 302,
			ToolNames: cfg.DryRunMutations, Action: config.PolicyDryRun,
			Reason: "dry_run_mutations",
		})
	}
	return rules
}
