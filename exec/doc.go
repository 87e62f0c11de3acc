// Package exec provides the execution contexts that run completion
// handlers for composed asynchronous operations.
//
// An Executor schedules units of work. Post always defers the unit;
// Dispatch may run it on the calling stack when the executor allows it.
// Executors that implement WorkCounter can be kept alive by WorkGuard
// values while operations are outstanding.
//
// Three implementations are provided:
//
//   - Loop: a single-threaded run loop. Run drains posted work on the
//     calling goroutine and blocks while work guards are outstanding.
//   - Pool: a fixed-size worker pool. Completions may run concurrently.
//   - Inline: runs everything on the calling stack. Intended for tests
//     and same-stack completion paths.
package exec
