// Package errors provides structured error types for the layerio library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: operation name, stream layer type, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTransport, errors.KindClosed).
//		Op("async_write_some").
//		Layer("*transport.Conn").
//		Detail("write after close").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NilHandler("async_read_some")
//	err := errors.CapabilityMissing(errors.PhaseDescend, "*net.pipe", "blocking mode toggle")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
