package store

import (
	"context"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// RecordPerformance stores an engagement snapshot for a published tweet,
// taken roughly 24h after publication by the analytics loop.
func (s *Store) RecordPerformance(ctx context.Context, p *models.Performance) error {
	if p.MeasuredAt.IsZero() {
		p.MeasuredAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

// PerformanceForKindSince returns performance rows of a given kind
// measured at or after since, used to build strategy reports.
func (s *Store) PerformanceForKindSince(ctx context.Context, kind models.PerformanceKind, since time.Time) ([]models.Performance, error) {
	var out []models.Performance
	err := s.db.WithContext(ctx).
		Where("kind = ? AND measured_at >= ?", kind, since).
		Order("measured_at DESC").
		Find(&out).Error
	return out, err
}
