package count

import (
	"sync/atomic"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/exec"
)

// Stream counts the bytes read and bytes written on the next layer.
//
// The counters are atomic: a pool executor may run the completions of
// two in-flight operations concurrently, and no lock serializes
// operation objects by design.
type Stream struct {
	next         layerio.ReadWriteStream
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
}

// New wraps next. The decorator takes exclusive ownership; callers
// reach the wrapped stream only through NextLayer.
func New(next layerio.ReadWriteStream) *Stream {
	return &Stream{next: next}
}

// Executor returns the next layer's executor.
func (s *Stream) Executor() exec.Executor {
	return s.next.Executor()
}

// NextLayer returns the wrapped stream for callers that need the
// undecorated view. It must not be used concurrently with in-flight
// operations without external synchronization.
func (s *Stream) NextLayer() layerio.Stream {
	return s.next
}

// BytesRead returns the total bytes read since construction.
func (s *Stream) BytesRead() uint64 {
	return s.bytesRead.Load()
}

// BytesWritten returns the total bytes written since construction.
func (s *Stream) BytesWritten() uint64 {
	return s.bytesWritten.Load()
}

// ReadSome reads from the next layer. The counter is updated from the
// reported transfer regardless of the error.
func (s *Stream) ReadSome(p []byte) (int, error) {
	n, err := s.next.ReadSome(p)
	if n > 0 {
		s.bytesRead.Add(uint64(n))
	}
	return n, err
}

// WriteSome writes to the next layer. The counter is updated from the
// reported transfer regardless of the error.
func (s *Stream) WriteSome(p []byte) (int, error) {
	n, err := s.next.WriteSome(p)
	if n > 0 {
		s.bytesWritten.Add(uint64(n))
	}
	return n, err
}

// AsyncReadSome issues an asynchronous read on the next layer with a
// single-use operation object as the continuation. The handler
// observes the counter update before it observes completion.
func (s *Stream) AsyncReadSome(p []byte, h layerio.Handler) error {
	op, err := newReadOp(s, h)
	if err != nil {
		return err
	}
	if err := s.next.AsyncReadSome(p, op); err != nil {
		op.Abandon()
		return err
	}
	return nil
}

// AsyncWriteSome issues an asynchronous write on the next layer.
// Semantics mirror AsyncReadSome.
func (s *Stream) AsyncWriteSome(p []byte, h layerio.Handler) error {
	op, err := newWriteOp(s, h)
	if err != nil {
		return err
	}
	if err := s.next.AsyncWriteSome(p, op); err != nil {
		op.Abandon()
		return err
	}
	return nil
}
