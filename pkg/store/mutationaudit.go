package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// OpenMutationAudit inserts a pending audit row for a gated mutation. A
// collision on CorrelationID (the caller's idempotency key) means the
// exact same request is already in flight or already completed; the
// caller is expected to check FindMutationAudit first.
func (s *Store) OpenMutationAudit(ctx context.Context, a *models.MutationAudit) error {
	a.Status = models.MutationPending
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(a).Error
}

// FindMutationAudit looks up an audit row by correlation id, the
// in-database half of the idempotency check (the in-memory 30s map in
// pkg/gateway covers the hot path; this covers the durable ~5 minute
// window the gateway's idempotency check relies on).
func (s *Store) FindMutationAudit(ctx context.Context, correlationID string) (*models.MutationAudit, error) {
	var a models.MutationAudit
	err := s.db.WithContext(ctx).First(&a, "correlation_id = ?", correlationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &a, err
}

// RecentMutationAuditByParamsHash returns audit rows sharing the same
// params hash within the durable idempotency window, newest first.
func (s *Store) RecentMutationAuditByParamsHash(ctx context.Context, paramsHash string, since time.Time) ([]models.MutationAudit, error) {
	var out []models.MutationAudit
	err := s.db.WithContext(ctx).
		Where("params_hash = ? AND created_at >= ?", paramsHash, since).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CloseMutationAudit records the terminal outcome of a gated mutation.
func (s *Store) CloseMutationAudit(ctx context.Context, correlationID string, status models.MutationAuditStatus, resultSummary, errMsg string, elapsedMs int64, rollbackHint string) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.MutationAudit{}).
		Where("correlation_id = ?", correlationID).
		Updates(map[string]interface{}{
			"status":         status,
			"result_summary": resultSummary,
			"error_message":  errMsg,
			"elapsed_ms":     elapsedMs,
			"rollback_hint":  rollbackHint,
			"completed_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMutationsSince counts audit rows opened at or after since, used
// by the gateway's per-hour mutation cap.
func (s *Store) CountMutationsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.MutationAudit{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// StalePendingMutations returns audit rows still Pending after a bound,
// surfaced for operator inspection: a row stuck Pending means the
// gateway crashed mid-execute and never closed the audit.
func (s *Store) StalePendingMutations(ctx context.Context, olderThan time.Duration) ([]models.MutationAudit, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var out []models.MutationAudit
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.MutationPending, cutoff).
		Find(&out).Error
	return out, err
}
