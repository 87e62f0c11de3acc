// Package layerio provides composition primitives for asynchronous I/O
// on layered streams.
//
// A layered stream stack is built from decorators that each wrap a
// next-layer stream and expose the same capability set, so any layer is
// a drop-in substitute for the one beneath it. Completion handlers are
// invoked exactly once, on the execution context resolved from the
// handler's declared affinity (falling back to the stream's own
// executor), with the executor kept alive for the operation's duration.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	layerio/      Root package with stream capability contracts and layer descent
//	├── exec/       Executors, work guards, Loop/Pool/Inline execution contexts
//	├── async/      Reusable scaffolding for composed asynchronous operations
//	├── count/      Byte-counting stream decorator
//	├── transport/  Concrete bottom layer over net.Conn
//	├── streamtest/ Scripted stream and recording executor for tests
//	├── metrics/    Prometheus collector for stream byte counters
//	└── errors/     Structured error types
//
// # Quick Start
//
// Wrap a transport in a counting decorator and issue an asynchronous read:
//
//	loop := exec.NewLoop()
//	conn, err := transport.Dial(ctx, "tcp", addr, loop)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cs := count.New(conn)
//
//	buf := make([]byte, 1024)
//	err = cs.AsyncReadSome(buf, layerio.HandlerFunc(func(err error, n int) {
//	    fmt.Println(cs.BytesRead(), n, err)
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loop.Run()
//
// # Capability Contracts
//
// Stream layers and completion handlers advertise optional capabilities
// through interface satisfaction rather than registration:
//
//   - Layered: a decorator exposing its next layer, enabling descent.
//   - BlockingToggler: a bottom layer whose blocking mode can be set.
//   - ExecutorBound: a handler declaring its own execution affinity,
//     which overrides the stream's default.
//
// Absence of a capability is resolved once, at the point of use, never
// per invocation.
//
// # Thread Safety
//
// A stream decorator may carry multiple in-flight operations when its
// executor runs completions concurrently; each operation object owns
// its completion path independently and byte counters are atomic. The
// NextLayer accessor must not be used concurrently with in-flight
// operations without external synchronization.
package layerio
