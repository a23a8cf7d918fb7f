package operations

import (
	"context"
	"sync"
	"time"

	"welldata/pkg/contracts/events"
)

// JobKind identifies what a background job does.
type JobKind string

const (
	JobKindLoad   JobKind = "load"
	JobKindExport JobKind = "export"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Task is the body of a job. It reports progress on sink and returns its
// terminal message; a non-nil error becomes an Error message instead.
type Task func(ctx context.Context, sink events.Sink) (events.Message, error)

// Job is a handle on one background job.
type Job struct {
	ID        string
	Kind      JobKind
	StartedAt time.Time

	mailbox *Mailbox
	done    chan struct{}

	mu          sync.RWMutex
	status      JobStatus
	completedAt time.Time
}

// Mailbox returns the job's message queue.
func (j *Job) Mailbox() *Mailbox {
	return j.mailbox
}

// Status returns the current lifecycle state.
func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// CompletedAt is zero while the job runs.
func (j *Job) CompletedAt() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.completedAt
}

// Done is closed once the worker has sent its terminal message.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the worker finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) finish(status JobStatus) {
	j.mu.Lock()
	j.status = status
	j.completedAt = time.Now()
	j.mu.Unlock()
	close(j.done)
}
