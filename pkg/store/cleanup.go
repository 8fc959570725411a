package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RunRetentionSweep deletes rows older than retentionDays from the
// tables that accumulate without bound (discovered tweets never
// replied to, and the action log). Called by the runtime's cleanup loop
// on an interval; ApprovalItem expiry is handled separately, at read
// time, by ExpireStalePending.
func (s *Store) RunRetentionSweep(ctx context.Context, retentionDays int, logger *logrus.Logger) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	discarded, err := s.PruneDiscoveredTweetsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	logged, err := s.PruneActionLogBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"discovered_tweets_pruned": discarded,
		"action_log_pruned":        logged,
		"cutoff":                   cutoff,
	}).Info("retention sweep complete")

	return nil
}
