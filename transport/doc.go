// Package transport provides the bottom layer of a stream stack: a
// net.Conn bound to an executor, exposing the full synchronous and
// asynchronous capability set that decorators mirror.
//
// Asynchronous operations run the blocking call on a spawned goroutine
// and dispatch the completion back through the executor resolved for
// the handler, holding a work guard for the operation's duration.
package transport
