package transport

import (
	"net"

	"github.com/wippyai/layerio/exec"
)

// NewPipe returns both ends of an in-process full-duplex connection,
// each bound to ex. Pipes carry no file descriptor, so the blocking
// mode toggle reports a capability error.
func NewPipe(ex exec.Executor) (*Conn, *Conn) {
	a, b := net.Pipe()
	return NewConn(a, ex), NewConn(b, ex)
}
