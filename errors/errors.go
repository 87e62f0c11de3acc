package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in an operation's lifecycle the error occurred
type Phase string

const (
	PhaseResolve   Phase = "resolve"   // executor resolution at construction
	PhaseInitiate  Phase = "initiate"  // issuing the operation on the next layer
	PhaseDescend   Phase = "descend"   // lowest-layer descent
	PhaseTransport Phase = "transport" // the concrete transport
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindNilHandler        Kind = "nil_handler"
	KindNilExecutor       Kind = "nil_executor"
	KindExecutorMismatch  Kind = "executor_mismatch"
	KindCapabilityMissing Kind = "capability_missing"
	KindClosed            Kind = "closed"
	KindUnsupported       Kind = "unsupported"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string // operation name, e.g. "async_read_some"
	Layer  string // Go type of the stream layer involved
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Layer != "" {
		b.WriteString(": layer ")
		b.WriteString(e.Layer)
	}

	if e.Detail != "" {
		if e.Layer != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Layer sets the stream layer type name
func (b *Builder) Layer(t string) *Builder {
	b.err.Layer = t
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilHandler creates an error for a missing completion handler
func NilHandler(op string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNilHandler,
		Op:     op,
		Detail: "completion handler is nil",
	}
}

// NilExecutor creates an error for an unresolvable execution context
func NilExecutor(op string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNilExecutor,
		Op:     op,
		Detail: "no executor supplied and handler declares none",
	}
}

// ExecutorMismatch creates an error for a handler whose declared
// executor affinity cannot be used
func ExecutorMismatch(op, detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindExecutorMismatch,
		Op:     op,
		Detail: detail,
	}
}

// CapabilityMissing creates an error for a layer that lacks a required
// capability
func CapabilityMissing(phase Phase, layer, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapabilityMissing,
		Layer:  layer,
		Detail: what,
	}
}

// Closed creates an error for an operation on a closed stream
func Closed(op string) *Error {
	return &Error{
		Phase:  PhaseInitiate,
		Kind:   KindClosed,
		Op:     op,
		Detail: "stream is closed",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}
