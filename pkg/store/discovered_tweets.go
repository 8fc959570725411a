package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// ErrNotFound is returned by repository lookups that find no row.
var ErrNotFound = errors.New("store: not found")

// UpsertDiscoveredTweet inserts a newly surfaced tweet, or refreshes its
// engagement counters if already known, without touching RepliedTo.
func (s *Store) UpsertDiscoveredTweet(ctx context.Context, t *models.DiscoveredTweet) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tweet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"like_count", "retweet_count", "reply_count", "impression_count",
			"matched_keyword", "relevance_score",
		}),
	}).Create(t).Error
}

// GetDiscoveredTweet returns a single tweet by id, or ErrNotFound.
func (s *Store) GetDiscoveredTweet(ctx context.Context, tweetID string) (*models.DiscoveredTweet, error) {
	var t models.DiscoveredTweet
	err := s.db.WithContext(ctx).First(&t, "tweet_id = ?", tweetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UnrepliedDiscoveredTweets returns discovered tweets not yet replied to,
// most relevant first, capped at limit.
func (s *Store) UnrepliedDiscoveredTweets(ctx context.Context, limit int) ([]models.DiscoveredTweet, error) {
	var out []models.DiscoveredTweet
	err := s.db.WithContext(ctx).
		Where("replied_to = ?", false).
		Order("relevance_score DESC, discovered_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkRepliedTo flips RepliedTo to true. It is idempotent: calling it
// again on an already-replied row is a no-op, never an error.
func (s *Store) MarkRepliedTo(ctx context.Context, tweetID string) error {
	return s.db.WithContext(ctx).
		Model(&models.DiscoveredTweet{}).
		Where("tweet_id = ?", tweetID).
		Update("replied_to", true).Error
}

// PruneDiscoveredTweetsBefore deletes discovered tweets older than cutoff
// that were never replied to, part of the retention sweep.
func (s *Store) PruneDiscoveredTweetsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("discovered_at < ? AND replied_to = ?", cutoff, false).
		Delete(&models.DiscoveredTweet{})
	return res.RowsAffected, res.Error
}
