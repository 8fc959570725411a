package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// SetCursor upserts a key/value pair, e.g. a search pagination token or
// the last-seen mention id.
func (s *Store) SetCursor(ctx context.Context, key, value string) error {
	c := models.Cursor{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&c).Error
}

// GetCursor returns the stored value for key, or "" if absent.
func (s *Store) GetCursor(ctx context.Context, key string) (string, error) {
	var c models.Cursor
	err := s.db.WithContext(ctx).First(&c, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
