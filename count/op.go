package count

import (
	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/async"
)

// readOp is the per-call state of one in-flight asynchronous read. It
// is itself the completion handler passed to the next layer: the
// embedded base advertises the resolved executor affinity, so the next
// layer dispatches back onto the right context. Never reused; the base
// panics on a second completion.
type readOp struct {
	*async.Base
	stream *Stream
}

func newReadOp(s *Stream, h layerio.Handler) (*readOp, error) {
	b, err := async.NewBase(h, s.next.Executor())
	if err != nil {
		return nil, err
	}
	return &readOp{Base: b, stream: s}, nil
}

// Complete records the transfer against the read counter, then
// finishes on the current stack. The counter update is sequenced
// before the caller's handler runs.
func (op *readOp) Complete(err error, n int) {
	if n > 0 {
		op.stream.bytesRead.Add(uint64(n))
	}
	op.CompleteNow(err, n)
}

// writeOp mirrors readOp for the write direction.
type writeOp struct {
	*async.Base
	stream *Stream
}

func newWriteOp(s *Stream, h layerio.Handler) (*writeOp, error) {
	b, err := async.NewBase(h, s.next.Executor())
	if err != nil {
		return nil, err
	}
	return &writeOp{Base: b, stream: s}, nil
}

func (op *writeOp) Complete(err error, n int) {
	if n > 0 {
		op.stream.bytesWritten.Add(uint64(n))
	}
	op.CompleteNow(err, n)
}
