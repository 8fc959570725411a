package masa

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// DefaultFailureThreshold is how many consecutive retryable x_api
// failures SearchTweets tolerates from the primary client before
// falling through to the scrape endpoint.
const DefaultFailureThreshold = 3

// FallbackClient decorates a toolkit.SocialApiClient, embedding it for
// every method and overriding only SearchTweets: when the primary
// client reports failureThreshold consecutive retryable x_api errors,
// that search is served from the Masa scrape endpoint and the count
// starts over, so the next search goes to the primary again.
type FallbackClient struct {
	toolkit.SocialApiClient

	scraper          *Scraper
	logger           *logrus.Logger
	failureThreshold int

	mu               sync.Mutex
	consecutiveFails int
}

// NewFallbackClient wraps primary with scraper as its discovery fallback.
func NewFallbackClient(primary toolkit.SocialApiClient, scraper *Scraper, logger *logrus.Logger) *FallbackClient {
	return &FallbackClient{
		SocialApiClient:  primary,
		scraper:          scraper,
		logger:           logger,
		failureThreshold: DefaultFailureThreshold,
	}
}

// SearchTweets tries the primary client first. On a retryable x_api
// failure it increments a consecutive-failure counter; once that
// counter reaches failureThreshold, it serves the search from the
// fallback scrape endpoint and resets the counter so the primary is
// retried on the next call instead of being abandoned permanently.
func (f *FallbackClient) SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	page, err := f.SocialApiClient.SearchTweets(ctx, query, max, sinceID, paginationToken)
	if err == nil {
		f.mu.Lock()
		f.consecutiveFails = 0
		f.mu.Unlock()
		return page, nil
	}

	var tkErr *toolkit.ToolkitError
	if !errors.As(err, &tkErr) || tkErr.Kind != toolkit.ErrXApi || !tkErr.Retryable {
		return toolkit.Page[toolkit.Tweet]{}, err
	}

	f.mu.Lock()
	f.consecutiveFails++
	shouldFallback := f.consecutiveFails >= f.failureThreshold
	if shouldFallback {
		f.consecutiveFails = 0
	}
	f.mu.Unlock()

	if !shouldFallback {
		return toolkit.Page[toolkit.Tweet]{}, err
	}

	f.logger.WithError(err).WithField("query", query).
		Warn("masa: primary search client failed repeatedly, falling back to scrape endpoint")

	results := f.scraper.Run(ctx, []string{query}, max, 1, 1, 0)
	if len(results) == 0 || results[0].Task.Status != TaskStatusComplete {
		return toolkit.Page[toolkit.Tweet]{}, err
	}
	return toolkit.Page[toolkit.Tweet]{Items: results[0].Tweets}, nil
}
