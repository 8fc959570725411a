package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// RecordOriginalTweet persists a published standalone tweet.
func (s *Store) RecordOriginalTweet(ctx context.Context, t *models.OriginalTweet) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// CountOriginalTweetsSince counts standalone tweets posted at or after
// since, used to enforce LimitsConfig.MaxTweetsPerDay.
func (s *Store) CountOriginalTweetsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.OriginalTweet{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// OriginalTweetsAwaitingPerformance returns standalone tweets older
// than olderThan that don't yet have a Performance(kind=original) row,
// oldest first.
func (s *Store) OriginalTweetsAwaitingPerformance(ctx context.Context, olderThan time.Duration) ([]models.OriginalTweet, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var rows []models.OriginalTweet
	err := s.db.WithContext(ctx).
		Where("created_at <= ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM performance WHERE performance.tweet_id = original_tweets.tweet_id AND performance.kind = ?)", models.PerformanceOriginal).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateThread persists a thread and its ordered tweets in one
// transaction.
func (s *Store) CreateThread(ctx context.Context, thread *models.Thread, tweets []models.ThreadTweet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if thread.CreatedAt.IsZero() {
			thread.CreatedAt = time.Now().UTC()
		}
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		for i := range tweets {
			tweets[i].ThreadID = thread.ID
		}
		if len(tweets) > 0 {
			if err := tx.Create(&tweets).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountThreadsSince counts threads created at or after since, used to
// enforce LimitsConfig.MaxThreadsPerWeek.
func (s *Store) CountThreadsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// GetThreadWithTweets loads a thread and its ordered tweets.
func (s *Store) GetThreadWithTweets(ctx context.Context, threadID uint) (*models.Thread, []models.ThreadTweet, error) {
	var thread models.Thread
	if err := s.db.WithContext(ctx).First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var tweets []models.ThreadTweet
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("position ASC").
		Find(&tweets).Error
	return &thread, tweets, err
}
