package exec

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool runs work on a fixed set of worker goroutines. Two completions
// posted to the same pool may run concurrently, so state shared
// between handlers must be synchronized by the caller.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	work    int
	closed  bool
	eg      *errgroup.Group
	workers int
}

// NewPool starts a pool with the given number of workers. Workers
// below one are clamped to one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{eg: &errgroup.Group{}, workers: workers}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.eg.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() error {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return nil
		}
		fn := p.queue[0]
		p.queue = p.queue[1:]
		if len(p.queue) == 0 {
			// Wake a Shutdown waiter blocked on queue drain.
			p.cond.Broadcast()
		}
		p.mu.Unlock()
		fn()
	}
}

// Post queues fn for a worker. Posting to a pool that has been shut
// down panics.
func (p *Pool) Post(fn func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("exec: Post on a shut down Pool")
	}
	p.queue = append(p.queue, fn)
	p.mu.Unlock()
	p.cond.Signal()
}

// Dispatch behaves like Post. Pool work always runs on a worker
// goroutine, never on the calling stack.
func (p *Pool) Dispatch(fn func()) {
	p.Post(fn)
}

// WorkStarted increments the outstanding work count.
func (p *Pool) WorkStarted() {
	p.mu.Lock()
	p.work++
	p.mu.Unlock()
}

// WorkFinished decrements the outstanding work count.
func (p *Pool) WorkFinished() {
	p.mu.Lock()
	p.work--
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Shutdown waits for outstanding work to drain, then stops the
// workers. It returns early with the context's error if ctx expires
// first; the pool is left running in that case.
func (p *Pool) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.mu.Lock()
		for p.work > 0 || len(p.queue) > 0 {
			p.cond.Wait()
		}
		p.closed = true
		p.mu.Unlock()
		p.cond.Broadcast()
		_ = p.eg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
