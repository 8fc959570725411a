package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tuitbot/tuitbot/pkg/store/models"
)

// approvalStaleAfter is how long a pending item waits before it expires,
// per the ApprovalItem invariant.
const approvalStaleAfter = 24 * time.Hour

// CreateApprovalItem inserts a new pending approval item. Slice fields
// are JSON-encoded before insert; see the package note on lib/pq in
// DESIGN.md for why these columns are TEXT rather than arrays.
func (s *Store) CreateApprovalItem(ctx context.Context, item *models.ApprovalItem, targetRefs, media, risks []string) error {
	var err error
	if item.TargetRefs, err = encodeStrings(targetRefs); err != nil {
		return err
	}
	if item.Media, err = encodeStrings(media); err != nil {
		return err
	}
	if item.Risks, err = encodeStrings(risks); err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.Status == "" {
		item.Status = models.ApprovalPending
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// ExpireStalePending flips every Pending item older than approvalStaleAfter
// to Expired. Called at the top of every read path that lists pending
// items, rather than on a background timer.
func (s *Store) ExpireStalePending(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-approvalStaleAfter)
	res := s.db.WithContext(ctx).
		Model(&models.ApprovalItem{}).
		Where("status = ? AND created_at < ?", models.ApprovalPending, cutoff).
		Update("status", models.ApprovalExpired)
	return res.RowsAffected, res.Error
}

// PendingApprovalItems expires stale items, then returns the remaining
// pending queue, oldest first.
func (s *Store) PendingApprovalItems(ctx context.Context) ([]models.ApprovalItem, error) {
	if _, err := s.ExpireStalePending(ctx); err != nil {
		return nil, err
	}
	var out []models.ApprovalItem
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ApprovalPending).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ApprovedApprovalItems returns items a reviewer has approved but the
// runtime hasn't posted yet, oldest first. The approval-poster loop
// drains this queue and calls SetApprovalStatus(ApprovalPosted) once
// each one is actually published.
func (s *Store) ApprovedApprovalItems(ctx context.Context) ([]models.ApprovalItem, error) {
	var out []models.ApprovalItem
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ApprovalApproved).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// GetApprovalItem loads a single item by id.
func (s *Store) GetApprovalItem(ctx context.Context, id uint) (*models.ApprovalItem, error) {
	var item models.ApprovalItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &item, err
}

// SetApprovalStatus transitions an item's status and records the
// reviewer and reason, if given.
func (s *Store) SetApprovalStatus(ctx context.Context, id uint, status models.ApprovalStatus, reviewer, reason string) error {
	updates := map[string]interface{}{"status": status}
	if reviewer != "" {
		updates["reviewer"] = reviewer
	}
	if reason != "" {
		updates["reason"] = reason
	}
	res := s.db.WithContext(ctx).Model(&models.ApprovalItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeStrings(v []string) (string, error) {
	if len(v) == 0 {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("store: encode string slice: %w", err)
	}
	return string(b), nil
}

// DecodeStrings is the inverse of encodeStrings, exported so callers
// reading TargetRefs/Media/Risks off an ApprovalItem don't each
// reimplement the empty-string case.
func DecodeStrings(v string) ([]string, error) {
	if v == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("store: decode string slice: %w", err)
	}
	return out, nil
}
