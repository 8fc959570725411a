package store

import (
	"context"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// LogAction appends an entry to the action log. Never errors out a
// caller's main flow; callers should log and continue on failure here
// rather than abort the action itself.
func (s *Store) LogAction(ctx context.Context, kind, status, message, metadata string) error {
	entry := models.ActionLog{
		ActionKind: kind,
		Status:     status,
		Message:    message,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// RecentActionLog returns the last n action log entries, newest first.
func (s *Store) RecentActionLog(ctx context.Context, n int) ([]models.ActionLog, error) {
	var out []models.ActionLog
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&out).Error
	return out, err
}

// PruneActionLogBefore deletes log entries older than cutoff.
func (s *Store) PruneActionLogBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActionLog{})
	return res.RowsAffected, res.Error
}
