package layerio

import "github.com/wippyai/layerio/exec"

// Handler is a completion handler for a stream operation. Complete is
// invoked at most once with the transport's error (or nil) and the
// number of bytes transferred, which may be non-zero alongside an
// error for a partial transfer.
//
// Once a handler is passed to an asynchronous initiation the operation
// owns it exclusively; callers must not invoke or retain it.
type Handler interface {
	Complete(err error, n int)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(err error, n int)

func (f HandlerFunc) Complete(err error, n int) { f(err, n) }

// ExecutorBound is implemented by handlers that declare their own
// execution affinity. The declared executor overrides the stream's
// default when resolving where the final invocation is dispatched.
type ExecutorBound interface {
	Executor() exec.Executor
}

// ImmediateExecutorBound is implemented by handlers that additionally
// constrain same-stack completion. Without it, a completion that
// occurs on an acceptable context runs inline.
type ImmediateExecutorBound interface {
	ImmediateExecutor() exec.Executor
}

// BindExecutor wraps h so that it declares ex as its execution
// affinity. The wrapper owns h; callers must not use h afterwards.
func BindExecutor(ex exec.Executor, h Handler) Handler {
	return &boundHandler{ex: ex, h: h}
}

type boundHandler struct {
	ex exec.Executor
	h  Handler
}

func (b *boundHandler) Complete(err error, n int) { b.h.Complete(err, n) }

func (b *boundHandler) Executor() exec.Executor { return b.ex }
