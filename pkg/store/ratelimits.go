package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// TryConsumeRateLimit atomically increments the counter for kind if the
// window hasn't elapsed and capacity remains, resetting the window if
// it has. It returns allowed=false when the call should be refused.
func (s *Store) TryConsumeRateLimit(ctx context.Context, kind string, periodSeconds, max int) (allowed bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rl models.RateLimit
		txErr := tx.First(&rl, "action_kind = ?", kind).Error
		now := time.Now().UTC()

		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			rl = models.RateLimit{
				ActionKind:    kind,
				Counter:       1,
				PeriodStart:   now,
				PeriodSeconds: periodSeconds,
				MaxRequests:   max,
			}
			allowed = true
			return tx.Create(&rl).Error
		}
		if txErr != nil {
			return txErr
		}

		windowElapsed := now.Sub(rl.PeriodStart) >= time.Duration(rl.PeriodSeconds)*time.Second
		if windowElapsed {
			rl.PeriodStart = now
			rl.Counter = 1
			rl.PeriodSeconds = periodSeconds
			rl.MaxRequests = max
			allowed = true
		} else if rl.Counter < max {
			rl.Counter++
			allowed = true
		} else {
			allowed = false
			return tx.Save(&rl).Error
		}
		return tx.Save(&rl).Error
	})
	return allowed, err
}

// RateLimitStatus reports the current counter/window for kind without
// consuming capacity, used by the tool-dispatch surface's status tools.
func (s *Store) RateLimitStatus(ctx context.Context, kind string) (*models.RateLimit, error) {
	var rl models.RateLimit
	err := s.db.WithContext(ctx).First(&rl, "action_kind = ?", kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rl, err
}
