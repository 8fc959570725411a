package masa

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

const (
	DefaultWorkerCount    = 3
	DefaultMaxRetries     = 5
	DefaultRetryBackoffMs = 1000
	DefaultStatusInterval = 30 * time.Second
)

// Scraper runs a batch of fallback search queries concurrently, with
// exponential-backoff retries and periodic status logging. It is used
// by the discovery loop only once the primary SocialApiClient reports
// sustained rate limiting or an outage.
type Scraper struct {
	client *Client
	logger *logrus.Logger
	mu     sync.RWMutex
	status Status
}

// NewScraper wires a fallback Client into a Scraper.
func NewScraper(client *Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

// Result is one completed task paired with whatever tweets it found.
type Result struct {
	Task   Task
	Tweets []toolkit.Tweet
}

// Run executes queries concurrently across workerCount workers, retrying
// failed tasks up to maxRetries times with exponential backoff, and
// returns every completed task's result (failed-after-retries tasks
// still appear, with a nil Tweets slice and a non-empty LastError).
func (s *Scraper) Run(ctx context.Context, queries []string, count, workerCount, maxRetries, retryBackoffMs int) []Result {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryBackoffMs <= 0 {
		retryBackoffMs = DefaultRetryBackoffMs
	}

	tasks := make([]*Task, len(queries))
	for i, q := range queries {
		tasks[i] = &Task{ID: uuid.New().String(), Query: q, Count: count, Status: TaskStatusPending}
	}

	s.mu.Lock()
	s.status = Status{TotalTasks: len(tasks), StartTime: time.Now()}
	s.mu.Unlock()

	taskCh := make(chan *Task, len(tasks))
	resultCh := make(chan Result, len(tasks))
	stopReporter := make(chan struct{})
	go s.reportStatus(DefaultStatusInterval, stopReporter)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(ctx, id, maxRetries, retryBackoffMs, taskCh, resultCh)
		}(i)
	}

	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(resultCh)
		close(stopReporter)
	}()

	results := make([]Result, 0, len(tasks))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

func (s *Scraper) worker(ctx context.Context, id, maxRetries, retryBackoffMs int, tasks <-chan *Task, results chan<- Result) {
	for task := range tasks {
		s.runTaskWithRetries(ctx, id, task, maxRetries, retryBackoffMs, results)
	}
}

func (s *Scraper) runTaskWithRetries(ctx context.Context, workerID int, task *Task, maxRetries, retryBackoffMs int, results chan<- Result) {
	for {
		task.Status = TaskStatusRunning
		tweets, err := s.client.Search(ctx, task.Query, task.Count)
		task.LastAttempt = time.Now()

		if err == nil {
			task.Status = TaskStatusComplete
			s.recordCompletion(true)
			s.logger.WithFields(logrus.Fields{
				"worker_id": workerID,
				"task_id":   task.ID,
				"query":     task.Query,
				"tweets":    len(tweets),
			}).Debug("masa: fallback search completed")
			results <- Result{Task: *task, Tweets: tweets}
			return
		}

		task.LastError = err.Error()
		if task.RetryCount >= maxRetries {
			task.Status = TaskStatusFailed
			s.recordCompletion(false)
			s.logger.WithFields(logrus.Fields{
				"worker_id": workerID,
				"task_id":   task.ID,
				"query":     task.Query,
				"error":     err,
			}).Error("masa: fallback search failed, retries exhausted")
			results <- Result{Task: *task}
			return
		}

		task.RetryCount++
		task.Status = TaskStatusRetrying
		backoff := calculateBackoff(task.RetryCount, retryBackoffMs)
		s.logger.WithFields(logrus.Fields{
			"worker_id": workerID,
			"task_id":   task.ID,
			"retry":     task.RetryCount,
			"backoff":   backoff.String(),
		}).Info("masa: scheduling fallback search retry")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			task.Status = TaskStatusFailed
			task.LastError = ctx.Err().Error()
			s.recordCompletion(false)
			results <- Result{Task: *task}
			return
		}
	}
}

func (s *Scraper) recordCompletion(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.status.CompletedTasks++
	} else {
		s.status.FailedTasks++
	}
}

func (s *Scraper) reportStatus(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.RLock()
			st := s.status
			s.mu.RUnlock()
			s.logger.WithFields(logrus.Fields{
				"total":     st.TotalTasks,
				"completed": st.CompletedTasks,
				"failed":    st.FailedTasks,
				"duration":  time.Since(st.StartTime).String(),
			}).Info("masa: fallback scrape status")
		case <-stop:
			return
		}
	}
}

// calculateBackoff is an exponential backoff clamped to [100ms, 30s].
func calculateBackoff(retryCount, baseBackoffMs int) time.Duration {
	const (
		minBackoff = 100 * time.Millisecond
		maxBackoff = 30 * time.Second
	)
	backoff := time.Duration(baseBackoffMs) * time.Millisecond * time.Duration(1<<retryCount)
	if backoff < minBackoff {
		return minBackoff
	}
	if backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}

// GetStatus returns a copy of the scraper's current progress.
func (s *Scraper) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
