package async

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/errors"
	"github.com/wippyai/layerio/exec"
)

const (
	statePending uint32 = iota
	stateCompleted
	stateAbandoned
)

// Base owns a caller-supplied completion handler and the bookkeeping a
// composed asynchronous operation needs: the resolved execution
// context, a work guard keeping that context alive, a cancellation
// classification, and an optional pre-completion hook.
//
// A Base completes at most once. Complete, CompleteNow and Abandon
// after a completion panic; see the method documentation.
type Base struct {
	h      layerio.Handler
	ex     exec.Executor
	imm    exec.Executor // nil means same-stack completion is acceptable
	guard  *exec.WorkGuard
	before func()
	cancel CancelKind
	state  atomic.Uint32
}

// NewBase takes ownership of h and resolves the execution context the
// final invocation is dispatched on. A handler implementing
// layerio.ExecutorBound overrides ex; otherwise ex is used directly.
// The work guard on the resolved executor is acquired here.
//
// Resolution failures (nil handler, nil executor, a declared affinity
// resolving to nil) are construction-time errors, never deferred to
// completion time.
func NewBase(h layerio.Handler, ex exec.Executor) (*Base, error) {
	if h == nil {
		return nil, errors.NilHandler("async.NewBase")
	}
	resolved := ex
	if eb, ok := h.(layerio.ExecutorBound); ok {
		resolved = eb.Executor()
		if resolved == nil {
			return nil, errors.ExecutorMismatch("async.NewBase",
				"handler declares a nil executor")
		}
	}
	if resolved == nil {
		return nil, errors.NilExecutor("async.NewBase")
	}

	var imm exec.Executor
	if ib, ok := h.(layerio.ImmediateExecutorBound); ok {
		imm = ib.ImmediateExecutor()
		if imm == nil {
			return nil, errors.ExecutorMismatch("async.NewBase",
				"handler declares a nil immediate executor")
		}
	}

	return &Base{
		h:      h,
		ex:     resolved,
		imm:    imm,
		guard:  exec.NewWorkGuard(resolved),
		cancel: CancelTerminal,
	}, nil
}

// Executor returns the execution context that will ultimately run the
// handler.
func (b *Base) Executor() exec.Executor {
	return b.ex
}

// ImmediateExecutor returns the context for same-stack completion.
// Unless the handler requested deferral it runs work inline.
func (b *Base) ImmediateExecutor() exec.Executor {
	if b.imm != nil {
		return b.imm
	}
	return exec.Inline{}
}

// Cancellation returns the cancellation classification recorded for
// the pending operation.
func (b *Base) Cancellation() CancelKind {
	return b.cancel
}

// SetCancellation records the cancellation classification. Operations
// set it before initiation; the completion path only reads it.
func (b *Base) SetCancellation(k CancelKind) {
	b.cancel = k
}

// SetBeforeComplete installs the pre-completion hook, run once before
// the handler on whichever stack performs the completion. Operations
// use it for instrumentation or cleanup that must precede caller
// notification.
func (b *Base) SetBeforeComplete(fn func()) {
	b.before = fn
}

// Complete posts the final invocation through the associated executor.
// The hook runs, then the handler, then the work guard is released.
// Completing an already completed or abandoned operation panics.
func (b *Base) Complete(err error, n int) {
	b.take()
	b.ex.Post(func() {
		b.invoke(err, n)
	})
}

// CompleteNow performs the final invocation on the current stack,
// routed through the immediate executor. Use it when the completion is
// already running on an acceptable context, avoiding a repost.
// Completing an already completed or abandoned operation panics.
func (b *Base) CompleteNow(err error, n int) {
	b.take()
	b.ImmediateExecutor().Dispatch(func() {
		b.invoke(err, n)
	})
}

// Abandon releases the work guard without invoking the handler. It is
// the required teardown for an operation destroyed before its
// underlying work completes. Abandon after completion is a no-op, so
// it is safe to defer.
func (b *Base) Abandon() {
	if !b.state.CompareAndSwap(statePending, stateAbandoned) {
		return
	}
	layerio.Logger().Debug("async operation abandoned",
		zap.String("cancellation", b.cancel.String()))
	b.h = nil
	b.guard.Release()
}

// Completed reports whether the operation has completed or been
// abandoned.
func (b *Base) Completed() bool {
	return b.state.Load() != statePending
}

func (b *Base) take() {
	if !b.state.CompareAndSwap(statePending, stateCompleted) {
		switch b.state.Load() {
		case stateAbandoned:
			panic("async: Complete on an abandoned operation")
		default:
			panic("async: operation completed twice")
		}
	}
}

func (b *Base) invoke(err error, n int) {
	if b.before != nil {
		b.before()
	}
	h := b.h
	b.h = nil
	h.Complete(err, n)
	b.guard.Release()
}
