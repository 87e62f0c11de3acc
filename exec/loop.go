package exec

import "sync"

// Loop is a single-threaded run loop. Work posted to it executes on
// whichever goroutine calls Run. Run returns when the queue is empty
// and no work guards are outstanding, or when Stop is called.
//
// Loop never runs work inline from Dispatch: the loop goroutine cannot
// be identified from an arbitrary calling stack, so Dispatch is
// equivalent to Post. Same-stack completion is the caller's choice via
// Inline.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	work    int
	stopped bool
}

// NewLoop returns an empty, runnable loop.
func NewLoop() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post queues fn and wakes the loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.cond.Signal()
}

// Dispatch behaves like Post. See the Loop type documentation.
func (l *Loop) Dispatch(fn func()) {
	l.Post(fn)
}

// WorkStarted increments the outstanding work count.
func (l *Loop) WorkStarted() {
	l.mu.Lock()
	l.work++
	l.mu.Unlock()
}

// WorkFinished decrements the outstanding work count and wakes the
// loop so Run can observe quiescence.
func (l *Loop) WorkFinished() {
	l.mu.Lock()
	l.work--
	l.mu.Unlock()
	l.cond.Broadcast()
}

// Run executes queued work on the calling goroutine until the loop is
// quiescent (empty queue, zero outstanding work) or stopped. It
// returns the number of units executed.
func (l *Loop) Run() int {
	ran := 0
	l.mu.Lock()
	for {
		if l.stopped {
			break
		}
		if len(l.queue) > 0 {
			fn := l.queue[0]
			l.queue = l.queue[1:]
			l.mu.Unlock()
			fn()
			ran++
			l.mu.Lock()
			continue
		}
		if l.work == 0 {
			break
		}
		l.cond.Wait()
	}
	l.mu.Unlock()
	return ran
}

// RunOne executes at most one queued unit without waiting. It reports
// whether a unit ran.
func (l *Loop) RunOne() bool {
	l.mu.Lock()
	if l.stopped || len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	l.mu.Unlock()
	fn()
	return true
}

// Stop makes Run return promptly. Queued work that has not run is
// dropped; outstanding guards remain the owners' responsibility.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
