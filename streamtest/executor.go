package streamtest

import "sync"

// Executor is a deterministic executor for tests. Post queues work
// until RunPending; Dispatch runs work on the calling stack. All
// scheduling and work-guard traffic is counted.
type Executor struct {
	mu         sync.Mutex
	queue      []func()
	posted     int
	dispatched int
	started    int
	finished   int
}

// NewExecutor returns an empty recording executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Post queues fn until the next RunPending.
func (e *Executor) Post(fn func()) {
	e.mu.Lock()
	e.posted++
	e.queue = append(e.queue, fn)
	e.mu.Unlock()
}

// Dispatch runs fn immediately on the calling stack.
func (e *Executor) Dispatch(fn func()) {
	e.mu.Lock()
	e.dispatched++
	e.mu.Unlock()
	fn()
}

// WorkStarted records a keep-alive hold.
func (e *Executor) WorkStarted() {
	e.mu.Lock()
	e.started++
	e.mu.Unlock()
}

// WorkFinished records a keep-alive release.
func (e *Executor) WorkFinished() {
	e.mu.Lock()
	e.finished++
	e.mu.Unlock()
}

// RunPending drains the queue in FIFO order, including work posted by
// the drained units themselves. It returns the number of units run.
func (e *Executor) RunPending() int {
	ran := 0
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return ran
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()
		fn()
		ran++
	}
}

// Posted returns the number of Post calls.
func (e *Executor) Posted() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.posted
}

// Dispatched returns the number of Dispatch calls.
func (e *Executor) Dispatched() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatched
}

// Started returns the number of keep-alive holds acquired.
func (e *Executor) Started() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// Finished returns the number of keep-alive holds released.
func (e *Executor) Finished() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finished
}

// Outstanding returns holds acquired minus holds released.
func (e *Executor) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started - e.finished
}
