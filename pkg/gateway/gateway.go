package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/store/models"
)

const (
	inMemoryIdempotencyWindow = 30 * time.Second
	durableIdempotencyWindow  = 5 * time.Minute
)

// Gateway is the sole path a mutation primitive is allowed to execute
// through: dedup, policy, audit, execute, audit close.
type Gateway struct {
	store        *store.Store
	policy       config.PolicyConfig
	mode         config.Mode
	approvalMode bool
	limits       config.LimitsConfig
	logger       *logrus.Logger

	mu     sync.Mutex
	recent map[string]time.Time
}

// New builds a Gateway bound to cfg's policy, operating mode, global
// approval switch, and rate-limit budgets.
func New(st *store.Store, cfg config.Config, logger *logrus.Logger) *Gateway {
	return &Gateway{
		store:        st,
		policy:       cfg.Policy,
		mode:         cfg.Mode,
		approvalMode: cfg.ApprovalMode,
		limits:       cfg.Limits,
		logger:       logger,
		recent:       make(map[string]time.Time),
	}
}

// Dispatch runs req through the gateway, returning exactly one Result.
func (g *Gateway) Dispatch(ctx context.Context, req Request) (Result, error) {
	paramsHash, err := hashParams(req.Params)
	if err != nil {
		return Result{}, err
	}
	key := req.ToolName + ":" + paramsHash

	if g.seenRecently(key) {
		return Result{Outcome: OutcomeDuplicate, Reason: "duplicate"}, nil
	}

	if res, found, err := g.checkDurable(ctx, paramsHash); err != nil {
		return Result{}, err
	} else if found {
		g.markSeen(key)
		return res, nil
	}

	g.markSeen(key)

	action, reason := evaluatePolicy(g.policy, g.mode, g.approvalMode, req.ToolName, req.Category, time.Now())
	if action == config.PolicyAllow {
		if limited, limitReason, err := g.rateLimited(ctx, req.ToolName, req.Category); err != nil {
			return Result{}, err
		} else if limited {
			action = config.PolicyDeny
			reason = limitReason
		}
	}

	correlationID := uuid.New().String()
	if err := g.store.OpenMutationAudit(ctx, &models.MutationAudit{
		CorrelationID: correlationID,
		ToolName:      req.ToolName,
		ParamsHash:    paramsHash,
		ParamsSummary: req.ParamsSummary,
	}); err != nil {
		return Result{}, fmt.Errorf("gateway: open audit: %w", err)
	}

	start := time.Now()

	switch action {
	case config.PolicyDeny:
		outcome := OutcomeBlocked
		if reason == "max_mutations_per_hour" || strings.HasPrefix(reason, "rate_limited:") {
			outcome = OutcomeRateLimited
		}
		g.closeAudit(ctx, correlationID, models.MutationFailure, "", reason, 0, "")
		return Result{CorrelationID: correlationID, Outcome: outcome, Reason: reason}, nil

	case config.PolicyRequireApproval:
		queueID, err := g.enqueueApproval(ctx, req, reason)
		if err != nil {
			g.closeAudit(ctx, correlationID, models.MutationFailure, "", err.Error(), time.Since(start).Milliseconds(), "")
			return Result{}, fmt.Errorf("gateway: enqueue approval: %w", err)
		}
		g.closeAudit(ctx, correlationID, models.MutationSuccess, "routed to approval queue", "", time.Since(start).Milliseconds(), "")
		return Result{CorrelationID: correlationID, Outcome: OutcomeQueued, Reason: reason, ApprovalQueueID: &queueID}, nil

	case config.PolicyDryRun:
		g.closeAudit(ctx, correlationID, models.MutationSuccess, "dry_run", "", time.Since(start).Milliseconds(), "")
		return Result{CorrelationID: correlationID, Outcome: OutcomeDryRun, WouldExecute: req.ToolName}, nil

	default: // config.PolicyAllow
		resultSummary, rollbackHint, execErr := req.Execute(ctx)
		elapsed := time.Since(start).Milliseconds()
		if execErr != nil {
			g.closeAudit(ctx, correlationID, models.MutationFailure, "", execErr.Error(), elapsed, "")
			return Result{CorrelationID: correlationID, Outcome: OutcomeFailed, Err: execErr}, nil
		}
		g.closeAudit(ctx, correlationID, models.MutationSuccess, resultSummary, "", elapsed, rollbackHint)
		return Result{CorrelationID: correlationID, Outcome: OutcomeExecuted, ResultSummary: resultSummary, RollbackHint: rollbackHint}, nil
	}
}

func (g *Gateway) closeAudit(ctx context.Context, correlationID string, status models.MutationAuditStatus, resultSummary, errMsg string, elapsedMs int64, rollbackHint string) {
	if err := g.store.CloseMutationAudit(ctx, correlationID, status, resultSummary, errMsg, elapsedMs, rollbackHint); err != nil {
		g.logger.WithError(err).WithField("correlation_id", correlationID).Warn("gateway: failed to close audit row")
	}
}

func (g *Gateway) enqueueApproval(ctx context.Context, req Request, reason string) (uint, error) {
	item := &models.ApprovalItem{
		ActionKind: req.ToolName,
		DraftText:  req.ApprovalDraftText,
		Topic:      req.ApprovalTopic,
		Archetype:  req.ApprovalArchetype,
		Score:      req.ApprovalScore,
		Reason:     reason,
	}
	if item.DraftText == "" {
		item.DraftText = req.ParamsSummary
	}
	if err := g.store.CreateApprovalItem(ctx, item, req.ApprovalTargetRefs, req.ApprovalMedia, req.ApprovalRisks); err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (g *Gateway) checkDurable(ctx context.Context, paramsHash string) (Result, bool, error) {
	since := time.Now().Add(-durableIdempotencyWindow)
	rows, err := g.store.RecentMutationAuditByParamsHash(ctx, paramsHash, since)
	if err != nil {
		return Result{}, false, err
	}
	for _, row := range rows {
		switch row.Status {
		case models.MutationSuccess:
			return Result{CorrelationID: row.CorrelationID, Outcome: OutcomeExecuted, ResultSummary: row.ResultSummary}, true, nil
		case models.MutationPending:
			return Result{CorrelationID: row.CorrelationID, Outcome: OutcomeDuplicateInFlight, Reason: "duplicate_in_flight"}, true, nil
		}
	}
	return Result{}, false, nil
}

func (g *Gateway) seenRecently(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.recent[key]
	if !ok {
		return false
	}
	if time.Since(t) >= inMemoryIdempotencyWindow {
		delete(g.recent, key)
		return false
	}
	return true
}

func (g *Gateway) markSeen(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recent[key] = time.Now()
	for k, t := range g.recent {
		if time.Since(t) >= inMemoryIdempotencyWindow {
			delete(g.recent, k)
		}
	}
}
