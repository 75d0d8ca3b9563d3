package ingest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	defaultWorkers     = 4
	defaultTaskTimeout = 60 * time.Second
)

// Pool runs background indexing tasks with bounded concurrency. Submission
// never blocks the caller; tasks queue on the semaphore instead. Every task
// runs under its own deadline so a hung external call cannot pin a worker
// forever.
type Pool struct {
	sem         *semaphore.Weighted
	wg          sync.WaitGroup
	taskTimeout time.Duration
	logger      Logger
}

// NewPool constructs a Pool from Config, falling back to defaults for
// unset values.
func NewPool(cfg Config, logger Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := cfg.TaskTimeout
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}

	return &Pool{
		sem:         semaphore.NewWeighted(int64(workers)),
		taskTimeout: timeout,
		logger:      logger,
	}
}

// Submit schedules a task for background execution. The task receives a
// context that expires after the pool's task timeout. Errors are terminal for
// the task only; they are logged and never propagate to the submitter.
func (p *Pool) Submit(name string, task func(ctx context.Context) error) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			p.logger.Error("failed to acquire worker slot", err, map[string]interface{}{
				"task": name,
			})
			return
		}
		defer p.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
		defer cancel()

		if err := task(ctx); err != nil {
			p.logger.Error("background task failed", err, map[string]interface{}{
				"task": name,
			})
		}
	}()
}

// Drain waits for all submitted tasks to finish. Used during shutdown so
// in-flight indexing work completes before the process exits.
func (p *Pool) Drain() {
	p.wg.Wait()
}
