// Package async provides reusable scaffolding for composed
// asynchronous operations on layered streams.
//
// A composed operation embeds a Base, which takes exclusive ownership
// of the caller's completion handler, resolves the execution context
// the handler must run on, and holds a work guard on that context for
// the operation's duration. Base guarantees the handler is invoked
// exactly once: completing twice is a fatal programming error and
// panics rather than being silently ignored.
//
// A typical operation object issues a call on the next layer with
// itself as the continuation, then finishes through CompleteNow:
//
//	type readOp struct {
//	    *async.Base
//	    stream *Stream
//	}
//
//	func (op *readOp) Complete(err error, n int) {
//	    op.stream.record(n)
//	    op.CompleteNow(err, n)
//	}
//
// An operation that never reaches its completion, for example because
// initiation on the next layer failed, must be abandoned so the work
// guard is released without invoking the handler.
package async
