package exec

import "sync/atomic"

// WorkGuard holds an executor's work count while an asynchronous
// operation is outstanding, preventing the executor from reaching
// quiescence before the operation's completion handler has run.
//
// A guard is released exactly once. Releasing twice is a programming
// error and panics.
type WorkGuard struct {
	wc       WorkCounter
	released atomic.Bool
}

// NewWorkGuard acquires a hold on ex. When ex does not implement
// WorkCounter the guard is inert: Release still enforces single use
// but no count is kept.
func NewWorkGuard(ex Executor) *WorkGuard {
	g := &WorkGuard{}
	if wc, ok := ex.(WorkCounter); ok {
		wc.WorkStarted()
		g.wc = wc
	}
	return g
}

// Release drops the hold. Calling Release a second time panics.
func (g *WorkGuard) Release() {
	if !g.released.CompareAndSwap(false, true) {
		panic("exec: WorkGuard released twice")
	}
	if g.wc != nil {
		g.wc.WorkFinished()
	}
}

// Released reports whether the guard has been released.
func (g *WorkGuard) Released() bool {
	return g.released.Load()
}
