package exec

// Executor schedules units of work for eventual execution.
type Executor interface {
	// Post queues fn for execution and returns without running it.
	Post(fn func())

	// Dispatch runs fn on the calling stack when the executor permits
	// immediate execution, otherwise it behaves like Post.
	Dispatch(fn func())
}

// WorkCounter is optionally implemented by executors that track
// outstanding work. An executor with a non-zero work count must not
// shut down: its run loop keeps running even when no work is queued.
type WorkCounter interface {
	WorkStarted()
	WorkFinished()
}

// Inline is the degenerate executor: both Post and Dispatch run fn
// immediately on the calling stack. It carries no work accounting and
// never shuts down, so work guards on it are no-ops.
type Inline struct{}

func (Inline) Post(fn func())     { fn() }
func (Inline) Dispatch(fn func()) { fn() }
