package streamtest

import (
	"bytes"
	"io"
	"sync"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/exec"
)

type readStep struct {
	data []byte
	err  error
}

type writeStep struct {
	n   int // -1 accepts the whole buffer
	err error
}

// Stream is a scripted next-layer stream. Read data and write
// outcomes are queued in advance; asynchronous operations complete
// through the stream's executor, so a test controls exactly when and
// in what order handlers run.
//
// An unscripted read reports io.EOF; an unscripted write accepts the
// whole buffer.
type Stream struct {
	mu       sync.Mutex
	ex       exec.Executor
	reads    []readStep
	writes   []writeStep
	written  bytes.Buffer
	initErr  error
	initOnce bool
}

// NewStream returns a scripted stream completing on ex.
func NewStream(ex exec.Executor) *Stream {
	return &Stream{ex: ex}
}

// Executor returns the stream's executor.
func (s *Stream) Executor() exec.Executor {
	return s.ex
}

// QueueRead scripts the outcome of the next read: data is delivered
// alongside err, modeling a partial transfer with an error.
func (s *Stream) QueueRead(data []byte, err error) {
	s.mu.Lock()
	s.reads = append(s.reads, readStep{data: data, err: err})
	s.mu.Unlock()
}

// QueueWrite scripts the outcome of the next write: n bytes accepted
// alongside err. Pass n = -1 to accept the whole buffer.
func (s *Stream) QueueWrite(n int, err error) {
	s.mu.Lock()
	s.writes = append(s.writes, writeStep{n: n, err: err})
	s.mu.Unlock()
}

// FailNextInit makes the next asynchronous initiation fail with err
// before any handler is taken, modeling a next layer that refuses the
// operation.
func (s *Stream) FailNextInit(err error) {
	s.mu.Lock()
	s.initErr = err
	s.initOnce = true
	s.mu.Unlock()
}

// Written returns everything accepted by write operations so far.
func (s *Stream) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written.Bytes()...)
}

func (s *Stream) popRead(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reads) == 0 {
		return 0, io.EOF
	}
	step := s.reads[0]
	s.reads = s.reads[1:]
	n := copy(p, step.data)
	return n, step.err
}

func (s *Stream) popWrite(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.writes) == 0 {
		s.written.Write(p)
		return len(p), nil
	}
	step := s.writes[0]
	s.writes = s.writes[1:]
	n := step.n
	if n < 0 || n > len(p) {
		n = len(p)
	}
	s.written.Write(p[:n])
	return n, step.err
}

func (s *Stream) takeInitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return nil
	}
	s.initOnce = false
	err := s.initErr
	s.initErr = nil
	return err
}

// ReadSome delivers the next scripted read synchronously.
func (s *Stream) ReadSome(p []byte) (int, error) {
	return s.popRead(p)
}

// WriteSome consumes the next scripted write synchronously.
func (s *Stream) WriteSome(p []byte) (int, error) {
	return s.popWrite(p)
}

// AsyncReadSome posts the next scripted read outcome to the executor.
func (s *Stream) AsyncReadSome(p []byte, h layerio.Handler) error {
	if err := s.takeInitErr(); err != nil {
		return err
	}
	s.ex.Post(func() {
		n, err := s.popRead(p)
		h.Complete(err, n)
	})
	return nil
}

// AsyncWriteSome posts the next scripted write outcome to the
// executor.
func (s *Stream) AsyncWriteSome(p []byte, h layerio.Handler) error {
	if err := s.takeInitErr(); err != nil {
		return err
	}
	s.ex.Post(func() {
		n, err := s.popWrite(p)
		h.Complete(err, n)
	})
	return nil
}
