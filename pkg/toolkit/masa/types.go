package masa

import "time"

// TaskStatus is the lifecycle state of a single fallback search task.
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusComplete TaskStatus = "complete"
	TaskStatusFailed   TaskStatus = "failed"
	TaskStatusRetrying TaskStatus = "retrying"
)

// Task is one query to run against the fallback scrape endpoint.
type Task struct {
	ID          string
	Query       string
	Count       int
	Status      TaskStatus
	RetryCount  int
	LastError   string
	LastAttempt time.Time
}

// Status summarizes a Scraper's progress across its current task batch.
type Status struct {
	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
	RetryingTasks  int
	StartTime      time.Time
}
