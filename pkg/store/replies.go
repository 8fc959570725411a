package store

import (
	"context"
	"time"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// RecordReply persists a reply attempt, successful or not. The unique
// partial index on (target_tweet_id) WHERE status='sent' is the actual
// enforcement of "at most one sent reply per target"; a second attempt
// that reaches Status=sent for an already-replied target will surface
// that constraint violation to the caller.
func (s *Store) RecordReply(ctx context.Context, r *models.ReplySent) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(r).Error
}

// RecentReplyTexts returns the text of the last n sent replies, newest
// first, used by pkg/safety's phrasing-dedup check.
func (s *Store) RecentReplyTexts(ctx context.Context, n int) ([]string, error) {
	var rows []models.ReplySent
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ReplyStatusSent).
		Order("created_at DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out, nil
}

// HasRepliedTo reports whether a sent reply already exists for target.
func (s *Store) HasRepliedTo(ctx context.Context, targetTweetID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ReplySent{}).
		Where("target_tweet_id = ? AND status = ?", targetTweetID, models.ReplyStatusSent).
		Count(&count).Error
	return count > 0, err
}

// RepliesAwaitingPerformance returns sent replies older than olderThan
// that don't yet have a Performance(kind=reply) row, oldest first. The
// analytics loop measures each and calls RecordPerformance once.
func (s *Store) RepliesAwaitingPerformance(ctx context.Context, olderThan time.Duration) ([]models.ReplySent, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var rows []models.ReplySent
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at <= ? AND reply_tweet_id IS NOT NULL", models.ReplyStatusSent, cutoff).
		Where("NOT EXISTS (SELECT 1 FROM performance WHERE performance.tweet_id = replies_sent.reply_tweet_id AND performance.kind = ?)", models.PerformanceReply).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
