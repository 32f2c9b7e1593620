package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

type task func()

// Pool runs tasks on a fixed number of goroutines. It bounds CPU-heavy work
// such as password hashing so bursts of logins queue instead of starving
// request handling.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task

	// mu guards stopped and the send side of jobs.
	mu      sync.RWMutex
	stopped bool
}

func NewPool(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Do queues f and waits until it has run. If ctx ends before f is picked up,
// f is skipped and ctx's error is returned. After Stop it returns ErrStopped
// without running f.
func (p *Pool) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	ran := false
	job := func() {
		defer close(done)
		if ctx.Err() != nil {
			return
		}
		ran = true
		f()
	}

	p.mu.RLock()
	if p.stopped {
		p.mu.RUnlock()
		return ErrStopped
	}
	select {
	case p.jobs <- job:
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}
	p.mu.RUnlock()

	<-done
	if !ran {
		return ctx.Err()
	}
	return nil
}

// Depth is the number of queued tasks not yet picked up by a worker.
func (p *Pool) Depth() int { return len(p.jobs) }

// Stop refuses new work, then waits for queued tasks to finish. It is safe to
// call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
