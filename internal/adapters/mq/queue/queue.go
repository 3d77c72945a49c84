// Package queue holds the FIFO of handles awaiting scoring.
package queue

import (
	"context"
	"sync"

	"github.com/okian/finch/pkg/metrics"
)

const defaultCapacity = 10000

// Job is one pending scoring request. Attempts counts pipeline runs so the
// scheduler can cap retries.
type Job struct {
	Handle   string
	Attempts int
}

// Queue provides non-blocking admission and single-job dequeue semantics.
// Requeue exists because a job popped under lease contention must go back to
// the front of the line instead of being dropped.
type Queue interface {
	// Enqueue appends a job. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Requeue pushes a job back onto the front, preserving rough FIFO order
	// for jobs displaced by lease contention or retryable failures. Returns
	// false when the queue is closed; a requeue is allowed to exceed
	// capacity so displaced jobs are never lost.
	Requeue(ctx context.Context, j Job) bool

	// TryDequeue pops the oldest job without blocking. The second return is
	// false when the queue is empty.
	TryDequeue(ctx context.Context) (Job, bool)

	// Len returns the number of pending jobs.
	Len(ctx context.Context) int

	// Close rejects all further admissions.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a mutex-guarded slice deque.
type InMemoryQueue struct {
	mu       sync.Mutex
	jobs     []Job
	capacity int
	closed   bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue appends a job to the back of the queue.
func (q *InMemoryQueue) Enqueue(_ context.Context, j Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.jobs) >= q.capacity {
		return false
	}
	q.jobs = append(q.jobs, j)
	metrics.UpdateQueueDepth(len(q.jobs))
	return true
}

// Requeue pushes a job onto the front of the queue.
func (q *InMemoryQueue) Requeue(_ context.Context, j Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.jobs = append([]Job{j}, q.jobs...)
	metrics.UpdateQueueDepth(len(q.jobs))
	return true
}

// TryDequeue pops the oldest job without blocking.
func (q *InMemoryQueue) TryDequeue(_ context.Context) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	metrics.UpdateQueueDepth(len(q.jobs))
	return j, true
}

// Len returns the number of pending jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close rejects all further admissions. Pending jobs remain drainable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
