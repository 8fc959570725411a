package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ReplyCountForAuthorToday returns how many replies have already gone
// to authorID on today's UTC date.
func (s *Store) ReplyCountForAuthorToday(ctx context.Context, authorID string) (int, error) {
	var row models.AuthorInteraction
	err := s.db.WithContext(ctx).First(&row, "author_id = ? AND date = ?", authorID, dayKey(time.Now())).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.ReplyCount, nil
}

// IncrementAuthorReplyCount bumps today's counter for authorID,
// enforcing LimitsConfig.MaxRepliesPerAuthorPerDay at the call site.
func (s *Store) IncrementAuthorReplyCount(ctx context.Context, authorID string) error {
	today := dayKey(time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.AuthorInteraction
		err := tx.First(&row, "author_id = ? AND date = ?", authorID, today).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.AuthorInteraction{AuthorID: authorID, Date: today, ReplyCount: 1}).Error
		}
		if err != nil {
			return err
		}
		row.ReplyCount++
		return tx.Save(&row).Error
	})
}
