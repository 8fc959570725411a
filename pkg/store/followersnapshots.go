package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// RecordFollowerSnapshot upserts today's follower/following/tweet counts,
// taken by the analytics loop once per day.
func (s *Store) RecordFollowerSnapshot(ctx context.Context, followers, following, tweetCount int) error {
	snap := models.FollowerSnapshot{
		Date:       dayKey(time.Now()),
		Followers:  followers,
		Following:  following,
		TweetCount: tweetCount,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"followers", "following", "tweet_count"}),
	}).Create(&snap).Error
}

// FollowerSnapshotsSince returns daily snapshots at or after since,
// oldest first, for growth-rate reporting.
func (s *Store) FollowerSnapshotsSince(ctx context.Context, since time.Time) ([]models.FollowerSnapshot, error) {
	var out []models.FollowerSnapshot
	err := s.db.WithContext(ctx).
		Where("date >= ?", dayKey(since)).
		Order("date ASC").
		Find(&out).Error
	return out, err
}
