package layerio

import "github.com/wippyai/layerio/exec"

// Stream is the minimal capability every layer carries: an associated
// executor on which its completion handlers are dispatched.
type Stream interface {
	Executor() exec.Executor
}

// SyncReadStream supports synchronous partial reads.
type SyncReadStream interface {
	Stream

	// ReadSome reads up to len(p) bytes into p. It returns the number
	// of bytes transferred even when err is non-nil; a partial
	// transfer alongside an error is a valid outcome.
	ReadSome(p []byte) (int, error)
}

// SyncWriteStream supports synchronous partial writes.
type SyncWriteStream interface {
	Stream

	// WriteSome writes up to len(p) bytes from p. It returns the
	// number of bytes transferred even when err is non-nil.
	WriteSome(p []byte) (int, error)
}

// AsyncReadStream supports asynchronous partial reads.
type AsyncReadStream interface {
	Stream

	// AsyncReadSome issues an asynchronous read. On success the
	// handler is invoked exactly once with the transfer outcome. A
	// non-nil return means the operation was never started and the
	// handler will never be invoked.
	AsyncReadSome(p []byte, h Handler) error
}

// AsyncWriteStream supports asynchronous partial writes.
type AsyncWriteStream interface {
	Stream

	// AsyncWriteSome issues an asynchronous write. Semantics mirror
	// AsyncReadSome.
	AsyncWriteSome(p []byte, h Handler) error
}

// ReadWriteStream is the full capability set a decorator mirrors from
// its next layer, so a decorator can itself be wrapped again.
type ReadWriteStream interface {
	SyncReadStream
	SyncWriteStream
	AsyncReadStream
	AsyncWriteStream
}
